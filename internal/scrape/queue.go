package scrape

import "sync"

// Queue is a thread-safe unbounded FIFO of scraped events.
//
// The stderr pump enqueues while the render/store consumer dequeues; the
// queue absorbs any rate mismatch so the child build never blocks on a full
// pipe. A buffered signal channel of size one coalesces wakeups and lets
// the consumer wait with a select over its context.
type Queue struct {
	mu     sync.Mutex
	events []Event
	closed bool
	signal chan struct{}
}

// NewQueue creates an empty queue.
func NewQueue() *Queue {
	return &Queue{
		events: make([]Event, 0, 64),
		signal: make(chan struct{}, 1),
	}
}

// Enqueue appends an event. Returns false if the queue is closed.
// Safe to call from any goroutine.
func (q *Queue) Enqueue(e Event) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return false
	}
	q.events = append(q.events, e)

	select {
	case q.signal <- struct{}{}:
	default:
	}
	return true
}

// TryDequeue removes and returns the front event without blocking.
// Returns false when the queue is empty.
func (q *Queue) TryDequeue() (Event, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.events) == 0 {
		return Event{}, false
	}
	e := q.events[0]
	// Zero the slot so the backing array does not retain payload text.
	q.events[0] = Event{}
	if len(q.events) == 1 {
		q.events = q.events[:0]
	} else {
		q.events = q.events[1:]
	}
	return e, true
}

// Wait returns a channel that signals when events may be available or the
// queue has been closed. Use in a select with the consumer's context, then
// drain with TryDequeue.
func (q *Queue) Wait() <-chan struct{} {
	return q.signal
}

// Closed reports whether the queue has been closed. A closed queue may
// still hold events; drain with TryDequeue until empty.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the current queue length.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.events)
}

// Close marks the queue complete and wakes all waiters. Enqueue after Close
// is a no-op. Idempotent.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	q.closed = true
	close(q.signal)
}
