package payroll

import (
	"context"
	"time"
)

// HistoryRepository stores saved batches. Records are never updated apart
// from the archive key written after upload.
type HistoryRepository interface {
	Create(ctx context.Context, record HistoryRecord) (HistoryRecord, error)
	GetByID(ctx context.Context, corporateID, id string) (HistoryRecord, error)
	List(ctx context.Context, corporateID string) ([]HistoryRecord, error)
	Delete(ctx context.Context, corporateID, id string) error
	SetArchiveKey(ctx context.Context, corporateID, id, key string) error
}

// DraftStore keeps the unsaved working set of a payroll run.
type DraftStore interface {
	Get(ctx context.Context, corporateID, period string) (Draft, error)
	Save(ctx context.Context, draft Draft, ttl time.Duration) error
	Delete(ctx context.Context, corporateID, period string) error
}
