package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okboz/okboz-backend-go/internal/domain/driverpayment"
	goredis "github.com/redis/go-redis/v9"
)

type rulesCache struct {
	rdb goredis.Cmdable
	ttl time.Duration
}

func NewRulesCache(rdb goredis.Cmdable, ttl time.Duration) driverpayment.RulesCache {
	return &rulesCache{rdb: rdb, ttl: ttl}
}

func rulesKey(corporateID string) string {
	return keyPrefix + "driver_rules:" + corporateID
}

func (c *rulesCache) Get(ctx context.Context, corporateID string) (driverpayment.Rules, error) {
	var rules driverpayment.Rules
	err := getJSON(ctx, c.rdb, rulesKey(corporateID), &rules)
	if errors.Is(err, errCacheMiss) {
		return driverpayment.Rules{}, driverpayment.ErrRulesNotFound
	}
	if err != nil {
		return driverpayment.Rules{}, fmt.Errorf("failed to read cached driver rules: %w", err)
	}
	return rules, nil
}

func (c *rulesCache) Set(ctx context.Context, rules driverpayment.Rules) error {
	if err := setJSON(ctx, c.rdb, rulesKey(rules.CorporateID), rules, c.ttl); err != nil {
		return fmt.Errorf("failed to cache driver rules: %w", err)
	}
	return nil
}

func (c *rulesCache) Invalidate(ctx context.Context, corporateID string) error {
	if err := c.rdb.Del(ctx, rulesKey(corporateID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate driver rules: %w", err)
	}
	return nil
}
