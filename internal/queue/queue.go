// Package queue provides the ready queue: a thread-safe, blocking,
// priority-ordered queue of jobs whose prerequisites are all satisfied.
//
// Higher priorities are dequeued first; jobs of equal priority leave in
// insertion order.
package queue

import (
	"container/heap"
	"errors"
	"sync"

	"github.com/vk/jobgrid/internal/job"
)

// ErrClosed is returned by Push after Close.
var ErrClosed = errors.New("ready queue closed")

// entry pairs a job with its insertion sequence for the FIFO tie-break.
type entry struct {
	job *job.Job
	seq uint64
}

// entries implements heap.Interface for ready jobs.
type entries []entry

func (e entries) Len() int { return len(e) }

func (e entries) Less(i, j int) bool {
	pi, pj := e[i].job.Priority(), e[j].job.Priority()
	if pi != pj {
		return pi > pj
	}
	return e[i].seq < e[j].seq
}

func (e entries) Swap(i, j int) { e[i], e[j] = e[j], e[i] }

// Push adds an entry. Called by heap.Push, do not call directly.
func (e *entries) Push(x any) {
	*e = append(*e, x.(entry))
}

// Pop removes the last entry. Called by heap.Pop, do not call directly.
func (e *entries) Pop() any {
	old := *e
	n := len(old)
	it := old[n-1]
	old[n-1] = entry{} // avoid holding on to the job
	*e = old[:n-1]
	return it
}

// Ready is a multi-producer multi-consumer priority queue of jobs.
type Ready struct {
	mu       sync.Mutex
	nonEmpty *sync.Cond
	items    entries
	seq      uint64
	closed   bool
	observe  func(n int)
}

// Option configures a Ready queue.
type Option func(*Ready)

// WithLenObserver registers f to receive the queue length after every push
// and pop. f is called with the queue lock held and must not call back into
// the queue.
func WithLenObserver(f func(n int)) Option {
	return func(q *Ready) {
		q.observe = f
	}
}

// New creates an empty, open ready queue.
func New(opts ...Option) *Ready {
	q := &Ready{}
	for _, opt := range opts {
		opt(q)
	}
	q.nonEmpty = sync.NewCond(&q.mu)
	heap.Init(&q.items)
	return q
}

// changed reports the current length to the observer. Callers hold q.mu.
func (q *Ready) changed() {
	if q.observe != nil {
		q.observe(len(q.items))
	}
}

// pop removes the head of the heap. Callers hold q.mu.
func (q *Ready) pop() *job.Job {
	j := heap.Pop(&q.items).(entry).job
	q.changed()
	return j
}

// Push enqueues a job and wakes one blocked Pop. It fails with ErrClosed
// once the queue has been closed.
func (q *Ready) Push(j *job.Job) error {
	if j == nil {
		return job.ErrNilJob
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	q.seq++
	heap.Push(&q.items, entry{job: j, seq: q.seq})
	q.changed()
	q.nonEmpty.Signal()
	return nil
}

// Pop blocks until a job is available or the queue is closed. Jobs queued
// before Close are still handed out; it returns false only once the queue
// is closed and empty.
func (q *Ready) Pop() (*job.Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.nonEmpty.Wait()
	}
	if len(q.items) == 0 {
		return nil, false
	}
	return q.pop(), true
}

// TryPop removes the highest-priority job without blocking.
func (q *Ready) TryPop() (*job.Job, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	return q.pop(), true
}

// Len returns the number of queued jobs.
func (q *Ready) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Closed reports whether Close has been called.
func (q *Ready) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Close rejects further pushes and wakes every blocked Pop. Jobs already
// queued stay poppable until drained. Close is idempotent.
func (q *Ready) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.nonEmpty.Broadcast()
}
