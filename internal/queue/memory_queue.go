// Package queue provides background delivery of notification emails.
// Notifications are best-effort side effects: the primary state change has
// already committed by the time a job lands here, so delivery failures are
// retried and logged, never propagated back to the request.
package queue

import (
	"context"
	"sync"

	"krushak/internal/mailer"
)

// NotificationJob is one email to deliver.
type NotificationJob struct {
	To         string
	Template   mailer.Template
	Data       map[string]string
	RetryCount int
}

// MemoryQueue is an in-memory job queue for notification jobs.
type MemoryQueue struct {
	jobs     chan NotificationJob
	capacity int
	mu       sync.RWMutex
	closed   bool
}

// NewMemoryQueue creates a new in-memory queue with the given capacity.
func NewMemoryQueue(capacity int) *MemoryQueue {
	return &MemoryQueue{
		jobs:     make(chan NotificationJob, capacity),
		capacity: capacity,
	}
}

// Enqueue adds a job to the queue. Returns error if queue is full or closed.
// Lock is held during the entire operation to prevent race condition with Close().
func (q *MemoryQueue) Enqueue(job NotificationJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		return nil
	default:
		return ErrQueueFull
	}
}

// Dequeue returns the next job from the queue, blocking until one is available.
// Returns error if context is cancelled or queue is closed.
func (q *MemoryQueue) Dequeue(ctx context.Context) (NotificationJob, error) {
	select {
	case <-ctx.Done():
		return NotificationJob{}, ctx.Err()
	case job, ok := <-q.jobs:
		if !ok {
			return NotificationJob{}, ErrQueueClosed
		}
		return job, nil
	}
}

// Close closes the queue. No more jobs can be enqueued after closing.
func (q *MemoryQueue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
}

// Reset resets the queue to a fresh state. This is primarily for testing.
func (q *MemoryQueue) Reset() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = false
	q.jobs = make(chan NotificationJob, q.capacity)
}

// Len returns the current number of jobs in the queue.
func (q *MemoryQueue) Len() int {
	return len(q.jobs)
}

// Capacity returns the queue capacity.
func (q *MemoryQueue) Capacity() int {
	return q.capacity
}
