package payroll

import (
	"context"

	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
)

type PayrollService interface {
	// Working set
	Recompute(ctx context.Context, tc tenant.Context, req RecomputeRequest) (DraftResponse, error)
	GetDraft(ctx context.Context, tc tenant.Context, period string) (DraftResponse, error)
	UpdateEntry(ctx context.Context, tc tenant.Context, req UpdateEntryRequest) (EntryResponse, error)
	DiscardDraft(ctx context.Context, tc tenant.Context, period string) error

	// History
	SaveBatch(ctx context.Context, tc tenant.Context, req SaveBatchRequest) (HistoryResponse, error)
	ListHistory(ctx context.Context, tc tenant.Context) ([]HistorySummaryResponse, error)
	GetHistory(ctx context.Context, tc tenant.Context, id string) (HistoryResponse, error)
	DeleteHistory(ctx context.Context, tc tenant.Context, id string) error
	ExportHistory(ctx context.Context, tc tenant.Context, id string) (ExportFile, error)

	// Salary structure of one employee
	GetSalaryStructure(ctx context.Context, tc tenant.Context, employeeID string) (SalaryStructureResponse, error)
}
