// Package queue implements the pending-message buffer for the overlay.
package queue

import (
	"strings"
	"sync"

	"github.com/statusstrip/statusstrip/internal/model"
)

// Queue is a thread-safe FIFO of pending messages, ordered by enqueue
// sequence. Every public operation is atomic with respect to one exclusive
// lock; no timer or rendering work happens while it is held.
type Queue struct {
	mu      sync.Mutex
	entries []model.Message
	nextSeq uint64
}

// New creates an empty Queue.
func New() *Queue {
	return &Queue{nextSeq: 1}
}

// Enqueue appends the message to the tail and assigns its sequence number.
// Messages with empty or whitespace-only text are silently dropped; the queue
// never contains an empty-text entry.
func (q *Queue) Enqueue(msg model.Message) {
	if strings.TrimSpace(msg.Text) == "" {
		return
	}

	q.mu.Lock()
	defer q.mu.Unlock()
	q.appendLocked(msg)
}

// appendLocked assigns the next sequence number and appends. Caller must
// hold the lock.
func (q *Queue) appendLocked(msg model.Message) {
	q.entries = append(q.entries, msg.WithSeq(q.nextSeq))
	q.nextSeq++
}

// Dequeue removes and returns the head (oldest by sequence).
func (q *Queue) Dequeue() (model.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return model.Message{}, false
	}
	head := q.entries[0]
	q.entries = q.entries[1:]
	return head, true
}

// PeekHead returns the head without removing it.
func (q *Queue) PeekHead() (model.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) == 0 {
		return model.Message{}, false
	}
	return q.entries[0], true
}

// PeekNext returns the entry immediately behind the head without removing
// it. The head slot is reserved for the message being shown or about to
// show, so this is the next candidate for display.
func (q *Queue) PeekNext() (model.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) < 2 {
		return model.Message{}, false
	}
	return q.entries[1], true
}

// PopNext removes and returns the entry immediately behind the head, leaving
// the head in place.
func (q *Queue) PopNext() (model.Message, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.entries) < 2 {
		return model.Message{}, false
	}
	next := q.entries[1]
	q.entries = append(q.entries[:1], q.entries[2:]...)
	return next, true
}

// Preempt applies the immediate-post policy, then enqueues msg marked as
// immediate. All queued entries except the current head are scanned: an entry
// is removed if canRemoveImmediate is true, or if the entry itself is not
// immediate. The head is always preserved since it represents the item
// already being shown or about to show. Removed entries are returned in
// removal order for the delegate notification.
func (q *Queue) Preempt(msg model.Message, canRemoveImmediate bool) []model.Message {
	if strings.TrimSpace(msg.Text) == "" {
		return nil
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	var removed []model.Message
	if len(q.entries) > 1 {
		kept := q.entries[:1]
		for _, entry := range q.entries[1:] {
			if canRemoveImmediate || !entry.Immediate {
				removed = append(removed, entry)
				continue
			}
			kept = append(kept, entry)
		}
		q.entries = kept
	}

	q.appendLocked(msg.WithImmediate())
	return removed
}

// Len returns the number of pending messages.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// Snapshot returns a copy of the pending messages in order.
func (q *Queue) Snapshot() []model.Message {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := make([]model.Message, len(q.entries))
	copy(out, q.entries)
	return out
}
