package tenant

import (
	"context"
	"time"
)

// Entity names the kind of record a change event refers to.
type Entity string

const (
	EntityPayrollDraft   Entity = "payroll_draft"
	EntityPayrollHistory Entity = "payroll_history"
	EntityAdvance        Entity = "salary_advance"
	EntityDriverPayment  Entity = "driver_payment"
	EntityDriverRules    Entity = "driver_payment_rules"
	EntitySettlement     Entity = "partner_settlement"
)

type Action string

const (
	ActionCreated Action = "created"
	ActionUpdated Action = "updated"
	ActionDeleted Action = "deleted"
)

// ChangeEvent tells other sessions of the same tenant that data moved under them.
type ChangeEvent struct {
	CorporateID string    `json:"corporate_id"`
	Entity      Entity    `json:"entity"`
	Action      Action    `json:"action"`
	ID          string    `json:"id,omitempty"`
	At          time.Time `json:"at"`
}

// ChangePublisher broadcasts change events. Implementations must not block
// the caller for long; failures are logged by the caller and never returned
// to the client.
type ChangePublisher interface {
	PublishChange(ctx context.Context, event ChangeEvent) error
}

// NewChange builds a change event stamped with the current time.
func NewChange(tc Context, entity Entity, action Action, id string) ChangeEvent {
	return ChangeEvent{
		CorporateID: tc.CorporateID,
		Entity:      entity,
		Action:      action,
		ID:          id,
		At:          time.Now().UTC(),
	}
}

type nopPublisher struct{}

func (nopPublisher) PublishChange(context.Context, ChangeEvent) error { return nil }

// NopPublisher discards every change event.
func NopPublisher() ChangePublisher { return nopPublisher{} }
