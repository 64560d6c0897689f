package queue

import (
	"context"
	"log"
	"sync"
	"time"

	"krushak/internal/mailer"
	"krushak/internal/metrics"
)

const (
	// MaxRetries is the maximum number of automatic retries per notification.
	MaxRetries = 3
	// RetryDelay is the base delay between retries (exponential backoff).
	RetryDelay = 5 * time.Second
)

// Processor delivers notification jobs from the queue.
type Processor struct {
	queue        *MemoryQueue
	mailer       mailer.Mailer
	workerCount  int
	wg           sync.WaitGroup
	shutdownOnce sync.Once
	shutdownCh   chan struct{}
}

// NewProcessor creates a new notification job processor.
func NewProcessor(queue *MemoryQueue, m mailer.Mailer, workerCount int) *Processor {
	return &Processor{
		queue:       queue,
		mailer:      m,
		workerCount: workerCount,
		shutdownCh:  make(chan struct{}),
	}
}

// Start begins processing jobs with the configured number of workers.
func (p *Processor) Start(ctx context.Context) {
	for i := 0; i < p.workerCount; i++ {
		p.wg.Add(1)
		go p.worker(ctx, i)
	}
	log.Printf("Notification processor started with %d workers", p.workerCount)
}

// Stop gracefully stops the processor, waiting for workers to finish.
func (p *Processor) Stop() {
	p.shutdownOnce.Do(func() {
		close(p.shutdownCh)
		p.queue.Close()
	})
	p.wg.Wait()
	log.Println("Notification processor stopped")
}

func (p *Processor) worker(ctx context.Context, id int) {
	defer p.wg.Done()

	for {
		job, err := p.queue.Dequeue(ctx)
		if err != nil {
			if err == ErrQueueClosed || err == context.Canceled {
				log.Printf("Notification worker %d shutting down", id)
				return
			}
			continue
		}
		p.processJob(ctx, job)
	}
}

func (p *Processor) processJob(ctx context.Context, job NotificationJob) {
	err := p.mailer.Send(ctx, job.To, job.Template, job.Data)
	if err == nil {
		metrics.IncNotification(string(job.Template), "sent")
		return
	}

	log.Printf("Failed to send %s mail to %s: %v", job.Template, job.To, err)
	p.handleFailure(job)
}

func (p *Processor) handleFailure(job NotificationJob) {
	job.RetryCount++

	if job.RetryCount >= MaxRetries {
		// Best-effort delivery: after the retry budget the notification is
		// dropped with a log line, never surfaced to the originating request.
		log.Printf("Giving up on %s mail to %s after %d attempts", job.Template, job.To, job.RetryCount)
		metrics.IncNotification(string(job.Template), "dropped")
		return
	}

	delay := RetryDelay * time.Duration(1<<uint(job.RetryCount-1))
	log.Printf("Retrying %s mail to %s in %v (attempt %d/%d)", job.Template, job.To, delay, job.RetryCount+1, MaxRetries)

	// Schedule retry with delay. Uses shutdownCh instead of ctx so in-flight
	// retries are abandoned cleanly during graceful shutdown.
	go func() {
		select {
		case <-p.shutdownCh:
			log.Printf("Shutdown during retry delay, dropping %s mail to %s", job.Template, job.To)
			metrics.IncNotification(string(job.Template), "dropped")
		case <-time.After(delay):
			if err := p.queue.Enqueue(job); err != nil {
				log.Printf("Failed to re-enqueue %s mail to %s: %v", job.Template, job.To, err)
				metrics.IncNotification(string(job.Template), "dropped")
			}
		}
	}()
}
