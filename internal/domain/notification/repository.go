package notification

import (
	"context"
)

// Repository defines the notification repository interface
type Repository interface {
	Create(ctx context.Context, notification *Notification) error
	CreateBatch(ctx context.Context, notifications []*Notification) error
	List(ctx context.Context, r Recipient, page, pageSize int, unreadOnly bool) ([]*Notification, int, error)
	GetUnreadCount(ctx context.Context, r Recipient) (int, error)
	MarkAsRead(ctx context.Context, r Recipient, ids []string) error
	MarkAllAsRead(ctx context.Context, r Recipient) error
}
