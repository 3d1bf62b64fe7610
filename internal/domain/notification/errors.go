package notification

import "errors"

// Notification domain errors
var (
	ErrNotificationNotFound = errors.New("notification not found")
	ErrNoAudience           = errors.New("notification needs target roles or an employee")
	ErrQueueFull            = errors.New("notification queue is full")
)
