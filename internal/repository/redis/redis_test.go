package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/okboz/okboz-backend-go/internal/domain/driverpayment"
	"github.com/okboz/okboz-backend-go/internal/domain/payroll"
	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) *goredis.Client {
	t.Helper()

	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	client, err := NewClient(context.Background(), Options{Addr: addr, DB: 15})
	require.NoError(t, err)
	require.NoError(t, client.FlushDB(context.Background()).Err())
	t.Cleanup(func() { client.Close() })
	return client
}

func TestKeys(t *testing.T) {
	assert.Equal(t, "okboz:payroll:draft:corp-1:2025-01", draftKey("corp-1", "2025-01"))
	assert.Equal(t, "okboz:driver_rules:corp-1", rulesKey("corp-1"))
}

func TestDraftStore(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	store := NewPayrollDraftStore(client)

	_, err := store.Get(ctx, "corp-1", "2025-01")
	assert.ErrorIs(t, err, payroll.ErrDraftNotFound)

	draft := payroll.Draft{
		CorporateID: "corp-1",
		Period:      "2025-01",
		Entries: map[string]payroll.Entry{
			"e1": {EmployeeID: "e1", Bonus: decimal.NewFromInt(500), Status: payroll.EntryStatusPaid},
		},
		UpdatedAt: time.Now().UTC(),
	}
	require.NoError(t, store.Save(ctx, draft, time.Minute))

	got, err := store.Get(ctx, "corp-1", "2025-01")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(500).Equal(got.Entries["e1"].Bonus))
	assert.Equal(t, payroll.EntryStatusPaid, got.Entries["e1"].Status)

	ttl, err := client.TTL(ctx, draftKey("corp-1", "2025-01")).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, store.Delete(ctx, "corp-1", "2025-01"))
	_, err = store.Get(ctx, "corp-1", "2025-01")
	assert.ErrorIs(t, err, payroll.ErrDraftNotFound)
}

func TestRulesCache(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()
	cache := NewRulesCache(client, time.Minute)

	_, err := cache.Get(ctx, "corp-1")
	assert.ErrorIs(t, err, driverpayment.ErrRulesNotFound)

	require.NoError(t, cache.Set(ctx, driverpayment.DefaultRules("corp-1")))
	rules, err := cache.Get(ctx, "corp-1")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5).Equal(rules.FreeKm))

	require.NoError(t, cache.Invalidate(ctx, "corp-1"))
	_, err = cache.Get(ctx, "corp-1")
	assert.ErrorIs(t, err, driverpayment.ErrRulesNotFound)
}

func TestChangeFeed_Relay(t *testing.T) {
	client := newTestClient(t)
	feed := NewChangeFeed(client)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan tenant.ChangeEvent, 1)
	done := make(chan error, 1)
	go func() {
		done <- feed.Relay(ctx, func(ev tenant.ChangeEvent) { received <- ev })
	}()

	// publish until the relay has subscribed
	event := tenant.ChangeEvent{CorporateID: "corp-1", Entity: tenant.EntityAdvance, Action: tenant.ActionCreated, ID: "adv-1"}
	require.Eventually(t, func() bool {
		n, err := client.Publish(ctx, ChangeChannel, `{"corporate_id":"corp-1","entity":"salary_advance","action":"created","id":"adv-1"}`).Result()
		return err == nil && n > 0
	}, 2*time.Second, 20*time.Millisecond)

	select {
	case got := <-received:
		assert.Equal(t, event.CorporateID, got.CorporateID)
		assert.Equal(t, event.Entity, got.Entity)
		assert.Equal(t, event.ID, got.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("relay did not deliver the event")
	}

	require.NoError(t, feed.PublishChange(ctx, event))

	cancel()
	assert.NoError(t, <-done)
}
