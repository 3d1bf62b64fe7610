package notification

import (
	"time"

	"github.com/okboz/okboz-backend-go/internal/pkg/validator"
)

// ============= Request DTOs =============

// CreateNotificationRequest represents a request to create a notification
type CreateNotificationRequest struct {
	CorporateID string
	EmployeeID  *string
	TargetRoles []string
	Type        NotificationType
	Title       string
	Message     string
	Link        string
	Data        map[string]interface{}
}

func (r *CreateNotificationRequest) Validate() error {
	if r.CorporateID == "" {
		return validator.ValidationErrors{{Field: "corporate_id", Message: "is required"}}
	}
	if len(r.TargetRoles) == 0 && (r.EmployeeID == nil || *r.EmployeeID == "") {
		return ErrNoAudience
	}
	return nil
}

// MarkAsReadRequest represents a request to mark notifications as read
type MarkAsReadRequest struct {
	NotificationIDs []string `json:"notification_ids" validate:"required,min=1"`
}

func (r *MarkAsReadRequest) Validate() error {
	return validator.Struct(r)
}

// ============= Response DTOs =============

// NotificationResponse represents a notification in API responses
type NotificationResponse struct {
	ID          string                 `json:"id"`
	Type        NotificationType       `json:"type"`
	Title       string                 `json:"title"`
	Message     string                 `json:"message"`
	Link        string                 `json:"link,omitempty"`
	TargetRoles []string               `json:"target_roles,omitempty"`
	EmployeeID  *string                `json:"employee_id,omitempty"`
	Data        map[string]interface{} `json:"data,omitempty"`
	IsRead      bool                   `json:"is_read"`
	ReadAt      *time.Time             `json:"read_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
}

// NotificationListResponse represents a paginated list of notifications
type NotificationListResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	Total         int                    `json:"total"`
	UnreadCount   int                    `json:"unread_count"`
	Page          int                    `json:"page"`
	PageSize      int                    `json:"page_size"`
}

// UnreadCountResponse represents unread count response
type UnreadCountResponse struct {
	UnreadCount int `json:"unread_count"`
}

// SSETokenResponse represents the SSE token response
type SSETokenResponse struct {
	Token     string `json:"token"`
	ExpiresIn int    `json:"expires_in"`
}

// ============= SSE Event =============

// SSEEvent is written to the stream as "event: <Event>\ndata: <json>".
type SSEEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func ToResponse(n *Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		Type:        n.Type,
		Title:       n.Title,
		Message:     n.Message,
		Link:        n.Link,
		TargetRoles: n.TargetRoles,
		EmployeeID:  n.EmployeeID,
		Data:        n.Data,
		IsRead:      n.IsRead,
		ReadAt:      n.ReadAt,
		CreatedAt:   n.CreatedAt,
	}
}
