package driverpayment

import (
	"context"
)

type RulesRepository interface {
	Get(ctx context.Context, corporateID string) (Rules, error)
	Upsert(ctx context.Context, rules Rules) (Rules, error)
}

// RulesCache fronts RulesRepository. A miss is reported as ErrRulesNotFound.
type RulesCache interface {
	Get(ctx context.Context, corporateID string) (Rules, error)
	Set(ctx context.Context, rules Rules) error
	Invalidate(ctx context.Context, corporateID string) error
}

type PaymentRepository interface {
	Create(ctx context.Context, payment DriverPayment) (DriverPayment, error)
	GetByID(ctx context.Context, corporateID, id string) (DriverPayment, error)
	List(ctx context.Context, corporateID string, filter PaymentFilter) ([]DriverPayment, error)
	UpdateStatus(ctx context.Context, corporateID, id string, status PaymentStatus) (DriverPayment, error)
}
