package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okboz/okboz-backend-go/internal/domain/payroll"
	goredis "github.com/redis/go-redis/v9"
)

type draftStore struct {
	rdb goredis.Cmdable
}

// NewPayrollDraftStore keeps unsaved payroll runs in Redis, one key per
// tenant and period.
func NewPayrollDraftStore(rdb goredis.Cmdable) payroll.DraftStore {
	return &draftStore{rdb: rdb}
}

func draftKey(corporateID, period string) string {
	return keyPrefix + "payroll:draft:" + corporateID + ":" + period
}

func (s *draftStore) Get(ctx context.Context, corporateID, period string) (payroll.Draft, error) {
	var draft payroll.Draft
	err := getJSON(ctx, s.rdb, draftKey(corporateID, period), &draft)
	if errors.Is(err, errCacheMiss) {
		return payroll.Draft{}, payroll.ErrDraftNotFound
	}
	if err != nil {
		return payroll.Draft{}, fmt.Errorf("failed to load payroll draft: %w", err)
	}
	if draft.Entries == nil {
		draft.Entries = map[string]payroll.Entry{}
	}
	return draft, nil
}

func (s *draftStore) Save(ctx context.Context, draft payroll.Draft, ttl time.Duration) error {
	if err := setJSON(ctx, s.rdb, draftKey(draft.CorporateID, draft.Period), draft, ttl); err != nil {
		return fmt.Errorf("failed to save payroll draft: %w", err)
	}
	return nil
}

func (s *draftStore) Delete(ctx context.Context, corporateID, period string) error {
	if err := s.rdb.Del(ctx, draftKey(corporateID, period)).Err(); err != nil {
		return fmt.Errorf("failed to delete payroll draft: %w", err)
	}
	return nil
}
