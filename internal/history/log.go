// Package history implements the append-only record of displayed messages.
package history

import (
	"strings"
	"sync"
)

// Listener observes log mutations so a presenter can animate them. Both
// callbacks run after the log's lock has been released.
type Listener interface {
	// RowAppended is called with the index and text of a newly appended row.
	RowAppended(index int, text string)
	// Reloaded is called after the log has been cleared.
	Reloaded()
}

// Log is an ordered, append-only record of the texts that finished being
// displayed, in display order. Capacity is unbounded; any visible window is
// a presenter concern.
type Log struct {
	mu       sync.RWMutex
	entries  []string
	listener Listener
}

// New creates an empty Log.
func New() *Log {
	return &Log{}
}

// SetListener sets the mutation observer. Pass nil to detach.
func (l *Log) SetListener(listener Listener) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.listener = listener
}

// Append records a finished display text. Empty or whitespace-only text is
// never appended.
func (l *Log) Append(text string) {
	if strings.TrimSpace(text) == "" {
		return
	}

	l.mu.Lock()
	l.entries = append(l.entries, text)
	index := len(l.entries) - 1
	listener := l.listener
	l.mu.Unlock()

	if listener != nil {
		listener.RowAppended(index, text)
	}
}

// Clear empties the log and notifies the listener of a full reload.
func (l *Log) Clear() {
	l.mu.Lock()
	l.entries = nil
	listener := l.listener
	l.mu.Unlock()

	if listener != nil {
		listener.Reloaded()
	}
}

// Entries returns a copy of the recorded texts in display order.
func (l *Log) Entries() []string {
	l.mu.RLock()
	defer l.mu.RUnlock()

	out := make([]string, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded texts.
func (l *Log) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// Last returns the most recently recorded text.
func (l *Log) Last() (string, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if len(l.entries) == 0 {
		return "", false
	}
	return l.entries[len(l.entries)-1], true
}
