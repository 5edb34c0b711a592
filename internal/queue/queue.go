// Package queue provides the unbounded FIFO queues connecting the
// poller, the dispatch worker pool and the message dispatcher. A queue
// tracks in-flight items so shutdown can wait for a full drain.
package queue

import "sync"

// Queue is an unbounded FIFO queue safe for concurrent producers and
// consumers. Get blocks while the queue is empty; every dequeued item
// must be acknowledged with TaskDone so Join can observe the drain.
type Queue[T any] struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	drained  *sync.Cond

	items    []T
	inFlight int
	closed   bool
}

// New creates an empty open queue
func New[T any]() *Queue[T] {
	q := &Queue[T]{}
	q.notEmpty = sync.NewCond(&q.mu)
	q.drained = sync.NewCond(&q.mu)
	return q
}

// Put appends an item. It reports false if the queue is closed.
func (q *Queue[T]) Put(item T) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return false
	}
	q.items = append(q.items, item)
	q.notEmpty.Signal()
	return true
}

// Get removes and returns the oldest item, blocking while the queue is
// empty. It reports false once the queue is closed and empty. The item
// counts as in flight until TaskDone is called.
func (q *Queue[T]) Get() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.notEmpty.Wait()
	}
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	q.inFlight++
	return item, true
}

// TaskDone acknowledges completion of a previously dequeued item
func (q *Queue[T]) TaskDone() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.inFlight--
	if q.inFlight < 0 {
		panic("queue: TaskDone called more times than Get")
	}
	if q.inFlight == 0 && len(q.items) == 0 {
		q.drained.Broadcast()
	}
}

// Join blocks until the queue is empty and every dequeued item has been
// acknowledged with TaskDone
func (q *Queue[T]) Join() {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) > 0 || q.inFlight > 0 {
		q.drained.Wait()
	}
}

// Close rejects further Puts and wakes consumers blocked in Get.
// Items already queued can still be dequeued.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	q.notEmpty.Broadcast()
	if q.inFlight == 0 && len(q.items) == 0 {
		q.drained.Broadcast()
	}
}

// Len returns the number of queued (not in-flight) items
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
