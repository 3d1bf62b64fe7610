package driverpayment

import (
	"context"

	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
)

type DriverPaymentService interface {
	GetRules(ctx context.Context, tc tenant.Context) (RulesResponse, error)
	UpdateRules(ctx context.Context, tc tenant.Context, req UpdateRulesRequest) (RulesResponse, error)
	Preview(ctx context.Context, tc tenant.Context, req PreviewRequest) (PreviewResponse, error)
	Create(ctx context.Context, tc tenant.Context, req CreatePaymentRequest) (PaymentResponse, error)
	Get(ctx context.Context, tc tenant.Context, id string) (PaymentResponse, error)
	List(ctx context.Context, tc tenant.Context, filter PaymentFilter) (PaymentListResponse, error)
	UpdateStatus(ctx context.Context, tc tenant.Context, req UpdateStatusRequest) (PaymentResponse, error)
}
