package settlement

import (
	"context"

	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
)

type SettlementService interface {
	ListPartners(ctx context.Context, tc tenant.Context) ([]PartnerResponse, error)
	GetMonthSummary(ctx context.Context, tc tenant.Context, month string) (MonthSummaryResponse, error)
	GetPreviousOutstanding(ctx context.Context, tc tenant.Context, month string, partnerIndex int) (OutstandingResponse, error)
	RecordPayment(ctx context.Context, tc tenant.Context, req RecordPaymentRequest) (RecordResponse, error)
	DeleteTransaction(ctx context.Context, tc tenant.Context, req DeleteTransactionRequest) (RecordResponse, error)
	// OutstandingForMonth lists partners with an unpaid balance left in month.
	OutstandingForMonth(ctx context.Context, corporateID, month string) ([]OutstandingResponse, error)
}
