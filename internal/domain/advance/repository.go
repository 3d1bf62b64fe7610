package advance

import "context"

type AdvanceRepository interface {
	Create(ctx context.Context, req SalaryAdvanceRequest) (SalaryAdvanceRequest, error)
	GetByID(ctx context.Context, corporateID, id string) (SalaryAdvanceRequest, error)
	List(ctx context.Context, corporateID string, filter AdvanceFilter) ([]SalaryAdvanceRequest, error)
	// UpdateStatus persists a transition out of Pending. It returns
	// ErrAdvanceAlreadyProcessed when the stored row is no longer Pending.
	UpdateStatus(ctx context.Context, req SalaryAdvanceRequest) error
}
