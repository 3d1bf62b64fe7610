package notification

import (
	"context"

	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
)

// Service defines the notification service interface
type Service interface {
	// Queue notification (async processing via background workers)
	QueueNotification(ctx context.Context, req CreateNotificationRequest) error
	QueueBulkNotification(ctx context.Context, reqs []CreateNotificationRequest) error

	// Direct operations
	GetNotifications(ctx context.Context, tc tenant.Context, page, pageSize int, unreadOnly bool) (*NotificationListResponse, error)
	GetUnreadCount(ctx context.Context, tc tenant.Context) (int, error)
	MarkAsRead(ctx context.Context, tc tenant.Context, req MarkAsReadRequest) error
	MarkAllAsRead(ctx context.Context, tc tenant.Context) error

	// SSE subscription
	Subscribe(ctx context.Context, tc tenant.Context) (<-chan SSEEvent, func())

	// Lifecycle
	Stop()
}
