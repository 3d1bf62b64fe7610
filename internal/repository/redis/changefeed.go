package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
	goredis "github.com/redis/go-redis/v9"
)

// ChangeChannel carries tenant change events between API instances.
const ChangeChannel = keyPrefix + "changes"

// ChangeFeed publishes change events on a Redis channel and relays the
// events it receives to a local sink.
type ChangeFeed struct {
	rdb *goredis.Client
}

func NewChangeFeed(rdb *goredis.Client) *ChangeFeed {
	return &ChangeFeed{rdb: rdb}
}

// PublishChange implements tenant.ChangePublisher.
func (f *ChangeFeed) PublishChange(ctx context.Context, event tenant.ChangeEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal change event: %w", err)
	}
	if err := f.rdb.Publish(ctx, ChangeChannel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish change event: %w", err)
	}
	return nil
}

// Relay delivers every event published on the channel to sink until ctx is
// cancelled.
func (f *ChangeFeed) Relay(ctx context.Context, sink func(tenant.ChangeEvent)) error {
	sub := f.rdb.Subscribe(ctx, ChangeChannel)
	defer sub.Close()

	// Wait for the subscription to be confirmed before reading messages.
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", ChangeChannel, err)
	}
	slog.Info("Change feed relay started", "channel", ChangeChannel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			slog.Info("Change feed relay stopped")
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var event tenant.ChangeEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				slog.Warn("Dropping malformed change event", "error", err)
				continue
			}
			if event.CorporateID == "" {
				continue
			}
			sink(event)
		}
	}
}
