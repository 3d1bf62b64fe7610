package advance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okboz/okboz-backend-go/internal/domain/advance"
	"github.com/okboz/okboz-backend-go/internal/domain/employee"
	"github.com/okboz/okboz-backend-go/internal/domain/notification"
	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
	"github.com/okboz/okboz-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

type AdvanceServiceImpl struct {
	advanceRepo  advance.AdvanceRepository
	employeeRepo employee.EmployeeRepository
	notifier     notification.Service
	changes      tenant.ChangePublisher
	now          func() time.Time
}

func NewAdvanceService(
	advanceRepo advance.AdvanceRepository,
	employeeRepo employee.EmployeeRepository,
	notifier notification.Service,
	changes tenant.ChangePublisher,
) advance.AdvanceService {
	if changes == nil {
		changes = tenant.NopPublisher()
	}
	return &AdvanceServiceImpl{
		advanceRepo:  advanceRepo,
		employeeRepo: employeeRepo,
		notifier:     notifier,
		changes:      changes,
		now:          time.Now,
	}
}

func (s *AdvanceServiceImpl) Create(ctx context.Context, tc tenant.Context, req advance.CreateAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := tc.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	// Staff can only ask for themselves
	if tc.Role == user.RoleEmployee {
		if tc.EmployeeID == "" {
			return advance.AdvanceResponse{}, user.ErrEmployeeIDRequired
		}
		req.EmployeeID = tc.EmployeeID
	}

	req.EmployeeID = strings.TrimSpace(req.EmployeeID)
	req.Reason = strings.TrimSpace(req.Reason)
	if strings.TrimSpace(req.EmployeeName) == "" && req.EmployeeID != "" {
		emp, err := s.employeeRepo.GetByID(ctx, tc.CorporateID, req.EmployeeID)
		if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
			return advance.AdvanceResponse{}, err
		}
		if err == nil {
			req.EmployeeName = emp.FullName
		}
	}

	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	now := s.now()
	created, err := s.advanceRepo.Create(ctx, advance.SalaryAdvanceRequest{
		ID:              uuid.NewString(),
		CorporateID:     tc.CorporateID,
		EmployeeID:      req.EmployeeID,
		EmployeeName:    strings.TrimSpace(req.EmployeeName),
		AmountRequested: req.Amount,
		AmountApproved:  decimal.Zero,
		Reason:          req.Reason,
		Status:          advance.StatusPending,
		RequestDate:     now,
		CreatedAt:       now,
		UpdatedAt:       now,
	})
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	s.notify(ctx, notification.CreateNotificationRequest{
		CorporateID: created.CorporateID,
		TargetRoles: []string{string(user.RoleAdmin), string(user.RoleCorporate)},
		Type:        notification.TypeAdvanceRequested,
		Title:       "New Salary Advance Request",
		Message:     fmt.Sprintf("%s requested an advance of %s", created.EmployeeName, created.AmountRequested.StringFixed(2)),
		Link:        "/advances/" + created.ID,
		Data: map[string]interface{}{
			"advance_id": created.ID,
			"amount":     created.AmountRequested.String(),
		},
	})
	s.publish(ctx, tc, tenant.ActionCreated, created.ID)

	return advance.ToResponse(created), nil
}

func (s *AdvanceServiceImpl) Get(ctx context.Context, tc tenant.Context, id string) (advance.AdvanceResponse, error) {
	if err := tc.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}
	req, err := s.advanceRepo.GetByID(ctx, tc.CorporateID, id)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	if tc.Role == user.RoleEmployee && req.EmployeeID != tc.EmployeeID {
		return advance.AdvanceResponse{}, advance.ErrAdvanceNotOwned
	}
	return advance.ToResponse(req), nil
}

func (s *AdvanceServiceImpl) List(ctx context.Context, tc tenant.Context, filter advance.AdvanceFilter) ([]advance.AdvanceResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	reqs, err := s.advanceRepo.List(ctx, tc.CorporateID, filter)
	if err != nil {
		return nil, err
	}
	return toResponses(reqs), nil
}

func (s *AdvanceServiceImpl) ListMine(ctx context.Context, tc tenant.Context) ([]advance.AdvanceResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if tc.EmployeeID == "" {
		return nil, user.ErrEmployeeIDRequired
	}
	employeeID := tc.EmployeeID
	reqs, err := s.advanceRepo.List(ctx, tc.CorporateID, advance.AdvanceFilter{EmployeeID: &employeeID})
	if err != nil {
		return nil, err
	}
	return toResponses(reqs), nil
}

func (s *AdvanceServiceImpl) Approve(ctx context.Context, tc tenant.Context, req advance.ApproveAdvanceRequest) (advance.AdvanceResponse, error) {
	if err := tc.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}

	current, err := s.advanceRepo.GetByID(ctx, tc.CorporateID, req.ID)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	updated, event, err := Approve(current, req.AmountApproved, advance.PaymentMode(req.PaymentMode), s.now())
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	updated.ProcessedBy = &tc.UserID

	if err := s.advanceRepo.UpdateStatus(ctx, updated); err != nil {
		return advance.AdvanceResponse{}, err
	}

	s.notify(ctx, eventToNotification(event))
	s.publish(ctx, tc, tenant.ActionUpdated, updated.ID)

	return advance.ToResponse(updated), nil
}

func (s *AdvanceServiceImpl) Reject(ctx context.Context, tc tenant.Context, id string) (advance.AdvanceResponse, error) {
	if err := tc.Validate(); err != nil {
		return advance.AdvanceResponse{}, err
	}
	current, err := s.advanceRepo.GetByID(ctx, tc.CorporateID, id)
	if err != nil {
		return advance.AdvanceResponse{}, err
	}

	updated, event, err := Reject(current, s.now())
	if err != nil {
		return advance.AdvanceResponse{}, err
	}
	updated.ProcessedBy = &tc.UserID

	if err := s.advanceRepo.UpdateStatus(ctx, updated); err != nil {
		return advance.AdvanceResponse{}, err
	}

	s.notify(ctx, eventToNotification(event))
	s.publish(ctx, tc, tenant.ActionUpdated, updated.ID)

	return advance.ToResponse(updated), nil
}

// notify hands the event to the notifier. Delivery problems are logged and
// never reach the caller.
func (s *AdvanceServiceImpl) notify(ctx context.Context, req notification.CreateNotificationRequest) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.QueueNotification(ctx, req); err != nil {
		slog.Warn("Failed to queue advance notification",
			"corporate_id", req.CorporateID,
			"type", req.Type,
			"error", err)
	}
}

func (s *AdvanceServiceImpl) publish(ctx context.Context, tc tenant.Context, action tenant.Action, id string) {
	if err := s.changes.PublishChange(ctx, tenant.NewChange(tc, tenant.EntityAdvance, action, id)); err != nil {
		slog.Warn("Failed to publish advance change", "corporate_id", tc.CorporateID, "error", err)
	}
}

func eventToNotification(ev advance.Event) notification.CreateNotificationRequest {
	employeeID := ev.EmployeeID
	data := map[string]interface{}{
		"amount": ev.Amount.String(),
	}
	if ev.Mode != "" {
		data["mode"] = string(ev.Mode)
	}
	return notification.CreateNotificationRequest{
		CorporateID: ev.CorporateID,
		EmployeeID:  &employeeID,
		TargetRoles: ev.TargetRoles,
		Type:        notification.NotificationType(ev.Type),
		Title:       ev.Title,
		Message:     ev.Message,
		Link:        ev.Link,
		Data:        data,
	}
}

func toResponses(reqs []advance.SalaryAdvanceRequest) []advance.AdvanceResponse {
	out := make([]advance.AdvanceResponse, len(reqs))
	for i, r := range reqs {
		out[i] = advance.ToResponse(r)
	}
	return out
}
