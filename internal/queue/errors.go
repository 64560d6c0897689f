package queue

import "errors"

var (
	// ErrQueueFull is returned when the notification queue is at capacity.
	ErrQueueFull = errors.New("notification queue is full")
	// ErrQueueClosed is returned when enqueueing after shutdown began.
	ErrQueueClosed = errors.New("notification queue is closed")
)
