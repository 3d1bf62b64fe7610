package advance

import (
	"context"

	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
)

type AdvanceService interface {
	Create(ctx context.Context, tc tenant.Context, req CreateAdvanceRequest) (AdvanceResponse, error)
	Get(ctx context.Context, tc tenant.Context, id string) (AdvanceResponse, error)
	List(ctx context.Context, tc tenant.Context, filter AdvanceFilter) ([]AdvanceResponse, error)
	ListMine(ctx context.Context, tc tenant.Context) ([]AdvanceResponse, error)
	Approve(ctx context.Context, tc tenant.Context, req ApproveAdvanceRequest) (AdvanceResponse, error)
	Reject(ctx context.Context, tc tenant.Context, id string) (AdvanceResponse, error)
}
