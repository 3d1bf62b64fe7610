package driverpayment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/okboz/okboz-backend-go/internal/domain/driverpayment"
	"github.com/okboz/okboz-backend-go/internal/domain/notification"
	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
	"github.com/okboz/okboz-backend-go/internal/domain/user"
	"github.com/shopspring/decimal"
)

type DriverPaymentServiceImpl struct {
	rulesRepo   driverpayment.RulesRepository
	rulesCache  driverpayment.RulesCache
	paymentRepo driverpayment.PaymentRepository
	notifier    notification.Service
	changes     tenant.ChangePublisher
	now         func() time.Time
}

func NewDriverPaymentService(
	rulesRepo driverpayment.RulesRepository,
	rulesCache driverpayment.RulesCache,
	paymentRepo driverpayment.PaymentRepository,
	notifier notification.Service,
	changes tenant.ChangePublisher,
) driverpayment.DriverPaymentService {
	if changes == nil {
		changes = tenant.NopPublisher()
	}
	return &DriverPaymentServiceImpl{
		rulesRepo:   rulesRepo,
		rulesCache:  rulesCache,
		paymentRepo: paymentRepo,
		notifier:    notifier,
		changes:     changes,
		now:         time.Now,
	}
}

// ========== RULES ==========

// rules returns the tenant's current rules, falling back to the defaults
// when none were saved.
func (s *DriverPaymentServiceImpl) rules(ctx context.Context, corporateID string) (driverpayment.Rules, error) {
	if s.rulesCache != nil {
		cached, err := s.rulesCache.Get(ctx, corporateID)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, driverpayment.ErrRulesNotFound) {
			slog.Warn("Driver rules cache read failed", "corporate_id", corporateID, "error", err)
		}
	}

	rules, err := s.rulesRepo.Get(ctx, corporateID)
	if errors.Is(err, driverpayment.ErrRulesNotFound) {
		rules = driverpayment.DefaultRules(corporateID)
	} else if err != nil {
		return driverpayment.Rules{}, err
	}

	if s.rulesCache != nil {
		if err := s.rulesCache.Set(ctx, rules); err != nil {
			slog.Warn("Driver rules cache write failed", "corporate_id", corporateID, "error", err)
		}
	}
	return rules, nil
}

func (s *DriverPaymentServiceImpl) GetRules(ctx context.Context, tc tenant.Context) (driverpayment.RulesResponse, error) {
	if err := tc.Validate(); err != nil {
		return driverpayment.RulesResponse{}, err
	}
	rules, err := s.rules(ctx, tc.CorporateID)
	if err != nil {
		return driverpayment.RulesResponse{}, err
	}
	return driverpayment.ToRulesResponse(rules), nil
}

func (s *DriverPaymentServiceImpl) UpdateRules(ctx context.Context, tc tenant.Context, req driverpayment.UpdateRulesRequest) (driverpayment.RulesResponse, error) {
	if err := tc.Validate(); err != nil {
		return driverpayment.RulesResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return driverpayment.RulesResponse{}, err
	}

	rules, err := s.rules(ctx, tc.CorporateID)
	if err != nil {
		return driverpayment.RulesResponse{}, err
	}

	if req.FreeKm != nil {
		rules.FreeKm = *req.FreeKm
	}
	if req.RatePerKm != nil {
		rules.RatePerKm = *req.RatePerKm
	}
	if req.MaxDistanceCap != nil {
		rules.MaxDistanceCap = *req.MaxDistanceCap
	}
	if req.PromoMaxCap != nil {
		rules.PromoMaxCap = *req.PromoMaxCap
	}
	now := s.now()
	rules.UpdatedAt = &now

	saved, err := s.rulesRepo.Upsert(ctx, rules)
	if err != nil {
		return driverpayment.RulesResponse{}, err
	}

	if s.rulesCache != nil {
		if err := s.rulesCache.Invalidate(ctx, tc.CorporateID); err != nil {
			slog.Warn("Driver rules cache invalidation failed", "corporate_id", tc.CorporateID, "error", err)
		}
	}
	s.publish(ctx, tc, tenant.EntityDriverRules, tenant.ActionUpdated, tc.CorporateID)

	return driverpayment.ToRulesResponse(saved), nil
}

// ========== PAYMENTS ==========

func (s *DriverPaymentServiceImpl) Preview(ctx context.Context, tc tenant.Context, req driverpayment.PreviewRequest) (driverpayment.PreviewResponse, error) {
	if err := tc.Validate(); err != nil {
		return driverpayment.PreviewResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return driverpayment.PreviewResponse{}, err
	}

	rules, err := s.rules(ctx, tc.CorporateID)
	if err != nil {
		return driverpayment.PreviewResponse{}, err
	}

	paymentType := driverpayment.PaymentType(req.PaymentType)
	comp, err := Compute(paymentType, rules, req.Input())
	if err != nil {
		return driverpayment.PreviewResponse{}, err
	}

	return driverpayment.PreviewResponse{
		PaymentType:  paymentType,
		Amount:       comp.Amount,
		IsCapApplied: comp.IsCapApplied,
		KmCapApplied: comp.KmCapApplied,
		ChargeableKm: comp.ChargeableKm,
		PaidKm:       comp.PaidKm,
		Rules:        driverpayment.ToRulesResponse(rules),
	}, nil
}

func (s *DriverPaymentServiceImpl) Create(ctx context.Context, tc tenant.Context, req driverpayment.CreatePaymentRequest) (driverpayment.PaymentResponse, error) {
	if err := tc.Validate(); err != nil {
		return driverpayment.PaymentResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return driverpayment.PaymentResponse{}, err
	}

	rules, err := s.rules(ctx, tc.CorporateID)
	if err != nil {
		return driverpayment.PaymentResponse{}, err
	}

	paymentType := driverpayment.PaymentType(req.PaymentType)
	in := req.Input()
	comp, err := Compute(paymentType, rules, in)
	if err != nil {
		return driverpayment.PaymentResponse{}, err
	}

	paymentDate, _ := time.Parse("2006-01-02", req.PaymentDate)
	status := driverpayment.PaymentStatusPending
	if req.PaymentStatus != "" {
		status = driverpayment.PaymentStatus(req.PaymentStatus)
	}

	now := s.now()
	created, err := s.paymentRepo.Create(ctx, driverpayment.DriverPayment{
		ID:            uuid.NewString(),
		CorporateID:   tc.CorporateID,
		DriverID:      strings.TrimSpace(req.DriverID),
		DriverName:    strings.TrimSpace(req.DriverName),
		DriverPhone:   strings.TrimSpace(req.DriverPhone),
		VehicleNumber: strings.TrimSpace(req.VehicleNumber),
		PaymentType:   paymentType,
		Amount:        comp.Amount,
		PaymentDate:   paymentDate,
		PaymentStatus: status,
		Remarks:       req.Remarks,
		Details:       NewDetails(paymentType, in, comp),
		CreatedBy:     tc.UserID,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return driverpayment.PaymentResponse{}, err
	}

	s.notify(ctx, notification.CreateNotificationRequest{
		CorporateID: created.CorporateID,
		TargetRoles: []string{string(user.RoleAdmin), string(user.RoleCorporate)},
		Type:        notification.TypeDriverPaymentLogged,
		Title:       "Driver Payment Logged",
		Message:     fmt.Sprintf("%s of %s logged for %s", created.PaymentType, created.Amount.StringFixed(2), created.DriverName),
		Link:        "/driver-payments/" + created.ID,
		Data: map[string]interface{}{
			"payment_id": created.ID,
			"amount":     created.Amount.String(),
			"status":     string(created.PaymentStatus),
		},
	})
	s.publish(ctx, tc, tenant.EntityDriverPayment, tenant.ActionCreated, created.ID)

	return driverpayment.ToPaymentResponse(created), nil
}

func (s *DriverPaymentServiceImpl) Get(ctx context.Context, tc tenant.Context, id string) (driverpayment.PaymentResponse, error) {
	if err := tc.Validate(); err != nil {
		return driverpayment.PaymentResponse{}, err
	}
	payment, err := s.paymentRepo.GetByID(ctx, tc.CorporateID, id)
	if err != nil {
		return driverpayment.PaymentResponse{}, err
	}
	return driverpayment.ToPaymentResponse(payment), nil
}

func (s *DriverPaymentServiceImpl) List(ctx context.Context, tc tenant.Context, filter driverpayment.PaymentFilter) (driverpayment.PaymentListResponse, error) {
	if err := tc.Validate(); err != nil {
		return driverpayment.PaymentListResponse{}, err
	}

	payments, err := s.paymentRepo.List(ctx, tc.CorporateID, filter)
	if err != nil {
		return driverpayment.PaymentListResponse{}, err
	}

	resp := driverpayment.PaymentListResponse{
		Payments:    make([]driverpayment.PaymentResponse, len(payments)),
		TotalAmount: decimal.Zero,
		PaidAmount:  decimal.Zero,
	}
	for i, p := range payments {
		resp.Payments[i] = driverpayment.ToPaymentResponse(p)
		resp.TotalAmount = resp.TotalAmount.Add(p.Amount)
		if p.PaymentStatus == driverpayment.PaymentStatusPaid {
			resp.PaidAmount = resp.PaidAmount.Add(p.Amount)
		} else {
			resp.PendingCount++
		}
	}
	return resp, nil
}

// UpdateStatus changes only the payment status. The amount stays as computed
// at creation.
func (s *DriverPaymentServiceImpl) UpdateStatus(ctx context.Context, tc tenant.Context, req driverpayment.UpdateStatusRequest) (driverpayment.PaymentResponse, error) {
	if err := req.Validate(); err != nil {
		return driverpayment.PaymentResponse{}, err
	}

	updated, err := s.paymentRepo.UpdateStatus(ctx, tc.CorporateID, req.ID, driverpayment.PaymentStatus(req.PaymentStatus))
	if err != nil {
		return driverpayment.PaymentResponse{}, err
	}

	s.publish(ctx, tc, tenant.EntityDriverPayment, tenant.ActionUpdated, updated.ID)
	return driverpayment.ToPaymentResponse(updated), nil
}

func (s *DriverPaymentServiceImpl) notify(ctx context.Context, req notification.CreateNotificationRequest) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.QueueNotification(ctx, req); err != nil {
		slog.Warn("Failed to queue driver payment notification", "corporate_id", req.CorporateID, "error", err)
	}
}

func (s *DriverPaymentServiceImpl) publish(ctx context.Context, tc tenant.Context, entity tenant.Entity, action tenant.Action, id string) {
	if err := s.changes.PublishChange(ctx, tenant.NewChange(tc, entity, action, id)); err != nil {
		slog.Warn("Failed to publish driver payment change", "corporate_id", tc.CorporateID, "error", err)
	}
}
