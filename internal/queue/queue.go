package queue

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrQueueEmpty  = errors.New("queue is empty")
	ErrQueueClosed = errors.New("queue is closed")
)

// Kind selects which of a supplier's scrape operations a job runs.
type Kind string

const (
	KindProducts Kind = "products"
	KindDeals    Kind = "deals"
	KindCoupons  Kind = "coupons"
)

// Job is one queued scrape request.
type Job struct {
	ID        string
	Supplier  string
	Kind      Kind
	Category  string
	Priority  int
	CreatedAt time.Time
}

// NewJob builds a job with a fresh ID.
func NewJob(supplier string, kind Kind, category string) *Job {
	return &Job{
		ID:        uuid.New().String(),
		Supplier:  supplier,
		Kind:      kind,
		Category:  category,
		CreatedAt: time.Now(),
	}
}

// Queue is a FIFO of scrape jobs with priority ordering.
type Queue interface {
	Push(job *Job) error
	Pop(ctx context.Context) (*Job, error)
	Size() int
	Close() error
}

// InMemoryQueue holds jobs in process memory. Pop blocks until a job is
// available, the queue closes, or the context is cancelled.
type InMemoryQueue struct {
	jobs   []*Job
	mu     sync.Mutex
	cond   *sync.Cond
	closed bool
}

func NewInMemoryQueue() *InMemoryQueue {
	q := &InMemoryQueue{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

func (q *InMemoryQueue) Push(job *Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	q.jobs = append(q.jobs, job)
	// Stable sort keeps arrival order inside one priority band.
	sort.SliceStable(q.jobs, func(i, j int) bool {
		return q.jobs[i].Priority > q.jobs[j].Priority
	})
	q.cond.Signal()

	return nil
}

func (q *InMemoryQueue) Pop(ctx context.Context) (*Job, error) {
	q.mu.Lock()
	defer q.mu.Unlock()

	for len(q.jobs) == 0 && !q.closed {
		done := make(chan struct{})
		go func() {
			q.cond.Wait()
			close(done)
		}()

		select {
		case <-ctx.Done():
			// Wake the waiter and let it reacquire the lock before the
			// deferred unlock runs.
			q.cond.Broadcast()
			<-done
			return nil, ctx.Err()
		case <-done:
		}
	}

	if len(q.jobs) == 0 {
		if q.closed {
			return nil, ErrQueueClosed
		}
		return nil, ErrQueueEmpty
	}

	job := q.jobs[0]
	q.jobs = q.jobs[1:]

	return job, nil
}

func (q *InMemoryQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.jobs)
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.closed = true
	q.cond.Broadcast()

	return nil
}
