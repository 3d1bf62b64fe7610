package settlement

import "context"

type SettlementRepository interface {
	Get(ctx context.Context, key Key) (Record, error)
	ListByMonth(ctx context.Context, corporateID, month string) ([]Record, error)
	// Mutate loads the record under a row lock, applies fn and writes the
	// result back in the same transaction. exists is false when no row was
	// stored yet; fn then receives a zero record carrying the key.
	Mutate(ctx context.Context, key Key, fn func(rec *Record, exists bool) error) (Record, error)
	ListCorporateIDs(ctx context.Context, month string) ([]string, error)
}

type PartnerRepository interface {
	List(ctx context.Context, corporateID string) ([]Partner, error)
}

// LedgerRepository reads the tenant's income and expense bookkeeping.
type LedgerRepository interface {
	MonthTotals(ctx context.Context, corporateID, month string) (LedgerTotals, error)
}
