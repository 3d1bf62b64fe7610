package postgresql

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/okboz/okboz-backend-go/internal/domain/notification"
	"github.com/okboz/okboz-backend-go/internal/pkg/database"
)

type notificationRepository struct {
	db *database.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *database.DB) notification.Repository {
	return &notificationRepository{db: db}
}

// visibleTo matches notifications addressed to the recipient's role or, for
// an employee, to the employee directly. $1 corporate, $2 employee, $3 role.
const visibleTo = `n.corporate_id = $1 AND ((n.employee_id IS NOT NULL AND $2 <> '' AND n.employee_id = $2) OR $3 = ANY(n.target_roles))`

func recipientArgs(r notification.Recipient) []interface{} {
	return []interface{}{r.CorporateID, r.EmployeeID, r.Role}
}

func notificationArgs(n *notification.Notification) ([]interface{}, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	var dataJSON []byte
	if n.Data != nil {
		var err error
		dataJSON, err = json.Marshal(n.Data)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal notification data: %w", err)
		}
	}
	roles := n.TargetRoles
	if roles == nil {
		roles = []string{}
	}
	return []interface{}{
		n.ID,
		n.CorporateID,
		n.EmployeeID,
		roles,
		string(n.Type),
		n.Title,
		n.Message,
		n.Link,
		dataJSON,
		n.CreatedAt,
	}, nil
}

// Create creates a new notification
func (r *notificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	q := GetQuerier(ctx, r.db)

	args, err := notificationArgs(n)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO notifications (id, corporate_id, employee_id, target_roles, type, title, message, link, data, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// CreateBatch creates multiple notifications in a single statement
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []*notification.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	// Build batch insert query
	valueStrings := make([]string, 0, len(notifications))
	valueArgs := make([]interface{}, 0, len(notifications)*10)

	for i, n := range notifications {
		args, err := notificationArgs(n)
		if err != nil {
			return err
		}

		base := i * 10
		valueStrings = append(valueStrings, fmt.Sprintf(
			"($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7, base+8, base+9, base+10,
		))
		valueArgs = append(valueArgs, args...)
	}

	query := fmt.Sprintf(`
		INSERT INTO notifications (id, corporate_id, employee_id, target_roles, type, title, message, link, data, created_at)
		VALUES %s
	`, strings.Join(valueStrings, ", "))

	if _, err := q.Exec(ctx, query, valueArgs...); err != nil {
		return fmt.Errorf("failed to batch create notifications: %w", err)
	}
	return nil
}

// List retrieves the recipient's notifications with pagination
func (r *notificationRepository) List(ctx context.Context, rc notification.Recipient, page, pageSize int, unreadOnly bool) ([]*notification.Notification, int, error) {
	q := GetQuerier(ctx, r.db)

	where := visibleTo
	if unreadOnly {
		where += ` AND nr.notification_id IS NULL`
	}
	args := recipientArgs(rc)
	args = append(args, rc.UserID)

	countQuery := `
		SELECT COUNT(*)
		FROM notifications n
		LEFT JOIN notification_reads nr ON nr.notification_id = n.id AND nr.user_id = $4
		WHERE ` + where

	var total int
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	offset := (page - 1) * pageSize
	listQuery := `
		SELECT n.id, n.corporate_id, n.employee_id, n.target_roles, n.type, n.title, n.message, n.link,
			n.data, nr.read_at, n.created_at
		FROM notifications n
		LEFT JOIN notification_reads nr ON nr.notification_id = n.id AND nr.user_id = $4
		WHERE ` + where + `
		ORDER BY n.created_at DESC
		LIMIT $5 OFFSET $6`

	rows, err := q.Query(ctx, listQuery, append(args, pageSize, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	defer rows.Close()

	var notifications []*notification.Notification
	for rows.Next() {
		var n notification.Notification
		var dataJSON []byte
		var notifType string

		err := rows.Scan(
			&n.ID, &n.CorporateID, &n.EmployeeID, &n.TargetRoles, &notifType, &n.Title, &n.Message, &n.Link,
			&dataJSON, &n.ReadAt, &n.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan notification: %w", err)
		}

		n.Type = notification.NotificationType(notifType)
		n.IsRead = n.ReadAt != nil
		if len(dataJSON) > 0 {
			if err := json.Unmarshal(dataJSON, &n.Data); err != nil {
				return nil, 0, fmt.Errorf("failed to unmarshal notification data: %w", err)
			}
		}

		notifications = append(notifications, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate notifications: %w", err)
	}

	return notifications, total, nil
}

// GetUnreadCount returns the count of unread notifications for the recipient
func (r *notificationRepository) GetUnreadCount(ctx context.Context, rc notification.Recipient) (int, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT COUNT(*)
		FROM notifications n
		WHERE ` + visibleTo + `
			AND NOT EXISTS (
				SELECT 1 FROM notification_reads nr WHERE nr.notification_id = n.id AND nr.user_id = $4
			)`

	var count int
	if err := q.QueryRow(ctx, query, append(recipientArgs(rc), rc.UserID)...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to get unread count: %w", err)
	}
	return count, nil
}

// MarkAsRead marks the given notifications as read for the recipient. IDs the
// recipient cannot see are ignored.
func (r *notificationRepository) MarkAsRead(ctx context.Context, rc notification.Recipient, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notification_reads (notification_id, user_id, read_at)
		SELECT n.id, $4, NOW()
		FROM notifications n
		WHERE ` + visibleTo + ` AND n.id = ANY($5)
		ON CONFLICT (notification_id, user_id) DO NOTHING`

	if _, err := q.Exec(ctx, query, append(recipientArgs(rc), rc.UserID, ids)...); err != nil {
		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}
	return nil
}

// MarkAllAsRead marks every visible notification as read for the recipient
func (r *notificationRepository) MarkAllAsRead(ctx context.Context, rc notification.Recipient) error {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO notification_reads (notification_id, user_id, read_at)
		SELECT n.id, $4, NOW()
		FROM notifications n
		WHERE ` + visibleTo + `
		ON CONFLICT (notification_id, user_id) DO NOTHING`

	if _, err := q.Exec(ctx, query, append(recipientArgs(rc), rc.UserID)...); err != nil {
		return fmt.Errorf("failed to mark all notifications as read: %w", err)
	}
	return nil
}
