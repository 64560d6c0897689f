package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"krushak/internal/mailer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeMailer records sends and can fail a configurable number of times.
type fakeMailer struct {
	mu        sync.Mutex
	sent      []NotificationJob
	failFirst int
	calls     int
}

func (m *fakeMailer) Send(ctx context.Context, to string, tmpl mailer.Template, data map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.calls <= m.failFirst {
		return errors.New("smtp connection refused")
	}
	m.sent = append(m.sent, NotificationJob{To: to, Template: tmpl, Data: data})
	return nil
}

func (m *fakeMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func TestProcessor_DeliversJobs(t *testing.T) {
	q := NewMemoryQueue(10)
	fm := &fakeMailer{}
	p := NewProcessor(q, fm, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	require.NoError(t, q.Enqueue(testJob("a@example.com")))
	require.NoError(t, q.Enqueue(testJob("b@example.com")))

	require.Eventually(t, func() bool {
		return fm.sentCount() == 2
	}, 2*time.Second, 10*time.Millisecond)

	p.Stop()
}

func TestProcessor_StopDrainsWorkers(t *testing.T) {
	q := NewMemoryQueue(10)
	fm := &fakeMailer{}
	p := NewProcessor(q, fm, 2)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	// Stop must return even with an empty queue.
	done := make(chan struct{})
	go func() {
		p.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestProcessor_StopIsIdempotent(t *testing.T) {
	q := NewMemoryQueue(1)
	p := NewProcessor(q, &fakeMailer{}, 1)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)

	p.Stop()
	assert.NotPanics(t, func() { p.Stop() })
}
