package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/okboz/okboz-backend-go/internal/domain/notification"
	"github.com/okboz/okboz-backend-go/internal/domain/tenant"
	"github.com/okboz/okboz-backend-go/internal/pkg/sse"
)

const (
	EventNotification = "notification"
	EventDataChanged  = "data_changed"
)

// Config holds notification service configuration
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

type service struct {
	repo   notification.Repository
	hub    *sse.Hub
	config Config

	queue    chan notification.CreateNotificationRequest
	wg       sync.WaitGroup
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewNotificationService creates a new notification service with background workers
func NewNotificationService(repo notification.Repository, hub *sse.Hub, cfg Config) notification.Service {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval <= 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		hub:    hub,
		config: cfg,
		queue:  make(chan notification.CreateNotificationRequest, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("Notification service started",
		"workers", cfg.WorkerCount,
		"batch_size", cfg.BatchSize,
		"flush_interval", cfg.FlushInterval)

	return s
}

// worker drains the queue and writes notifications in batches
func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]notification.CreateNotificationRequest, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		notifications := make([]*notification.Notification, len(batch))
		for i, req := range batch {
			notifications[i] = newNotification(req)
		}

		if err := s.repo.CreateBatch(ctx, notifications); err != nil {
			slog.Error("Notification batch insert failed", "worker", id, "count", len(notifications), "error", err)
		} else {
			slog.Debug("Notifications inserted", "worker", id, "count", len(notifications))
			for _, n := range notifications {
				s.push(n)
			}
		}

		batch = batch[:0]
	}

	for {
		select {
		case req := <-s.queue:
			batch = append(batch, req)
			if len(batch) >= s.config.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-s.stopCh:
			// drain what is already queued before leaving
			for {
				select {
				case req := <-s.queue:
					batch = append(batch, req)
					continue
				default:
				}
				break
			}
			flush()
			return
		}
	}
}

func newNotification(req notification.CreateNotificationRequest) *notification.Notification {
	return &notification.Notification{
		ID:          uuid.New().String(),
		CorporateID: req.CorporateID,
		EmployeeID:  req.EmployeeID,
		TargetRoles: req.TargetRoles,
		Type:        req.Type,
		Title:       req.Title,
		Message:     req.Message,
		Link:        req.Link,
		Data:        req.Data,
		IsRead:      false,
		CreatedAt:   time.Now(),
	}
}

// push sends a stored notification to the tenant's open streams
func (s *service) push(n *notification.Notification) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(n.CorporateID, sse.Event{
		Event: EventNotification,
		Data:  n,
	})
}

// QueueNotification queues a notification for async processing
func (s *service) QueueNotification(ctx context.Context, req notification.CreateNotificationRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}

	select {
	case s.queue <- req:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		// Queue full, try direct insert
		return s.directInsert(ctx, req)
	}
}

// QueueBulkNotification queues multiple notifications for async processing
func (s *service) QueueBulkNotification(ctx context.Context, reqs []notification.CreateNotificationRequest) error {
	for _, req := range reqs {
		if err := s.QueueNotification(ctx, req); err != nil {
			slog.Warn("Failed to queue notification", "corporate_id", req.CorporateID, "type", req.Type, "error", err)
		}
	}
	return nil
}

// directInsert inserts a notification directly when queue is full
func (s *service) directInsert(ctx context.Context, req notification.CreateNotificationRequest) error {
	n := newNotification(req)
	if err := s.repo.Create(ctx, n); err != nil {
		return err
	}
	s.push(n)
	return nil
}

// GetNotifications retrieves the notifications visible to the caller
func (s *service) GetNotifications(ctx context.Context, tc tenant.Context, page, pageSize int, unreadOnly bool) (*notification.NotificationListResponse, error) {
	if err := tc.Validate(); err != nil {
		return nil, err
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	r := notification.RecipientFrom(tc)
	notifications, total, err := s.repo.List(ctx, r, page, pageSize, unreadOnly)
	if err != nil {
		return nil, err
	}

	unreadCount, err := s.repo.GetUnreadCount(ctx, r)
	if err != nil {
		return nil, err
	}

	responses := make([]notification.NotificationResponse, len(notifications))
	for i, n := range notifications {
		responses[i] = notification.ToResponse(n)
	}

	return &notification.NotificationListResponse{
		Notifications: responses,
		Total:         total,
		UnreadCount:   unreadCount,
		Page:          page,
		PageSize:      pageSize,
	}, nil
}

func (s *service) GetUnreadCount(ctx context.Context, tc tenant.Context) (int, error) {
	if err := tc.Validate(); err != nil {
		return 0, err
	}
	return s.repo.GetUnreadCount(ctx, notification.RecipientFrom(tc))
}

func (s *service) MarkAsRead(ctx context.Context, tc tenant.Context, req notification.MarkAsReadRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	return s.repo.MarkAsRead(ctx, notification.RecipientFrom(tc), req.NotificationIDs)
}

func (s *service) MarkAllAsRead(ctx context.Context, tc tenant.Context) error {
	if err := tc.Validate(); err != nil {
		return err
	}
	return s.repo.MarkAllAsRead(ctx, notification.RecipientFrom(tc))
}

// Subscribe opens a stream of the tenant's events. Notifications are
// filtered down to the ones addressed to the caller; other events such as
// data changes pass through.
func (s *service) Subscribe(ctx context.Context, tc tenant.Context) (<-chan notification.SSEEvent, func()) {
	ch, cleanup := s.hub.Subscribe(tc.CorporateID)
	r := notification.RecipientFrom(tc)

	out := make(chan notification.SSEEvent, 10)

	go func() {
		defer close(out)
		for {
			select {
			case event, ok := <-ch:
				if !ok {
					return
				}
				data := event.Data
				if n, isNotification := event.Data.(*notification.Notification); isNotification {
					if !n.VisibleTo(r) {
						continue
					}
					data = notification.ToResponse(n)
				}
				select {
				case out <- notification.SSEEvent{Event: event.Event, Data: data}:
				case <-ctx.Done():
					return
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	return out, cleanup
}

// Stop gracefully stops the notification service
func (s *service) Stop() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
		slog.Info("Notification service stopped")
	})
}
