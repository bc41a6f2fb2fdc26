// Package model defines the core data structures for statusstrip.
package model

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// Kind classifies a message and drives its display treatment.
type Kind int

const (
	// KindActivity is an in-progress message. It shows the busy indicator
	// and stays visible until replaced or hidden.
	KindActivity Kind = iota
	// KindFinish is a success message. It shows the finished glyph and
	// auto-hides after its duration.
	KindFinish
	// KindError is a failure message. Same lifecycle as KindFinish with the
	// error glyph.
	KindError
)

// String returns the string representation of Kind.
func (k Kind) String() string {
	switch k {
	case KindActivity:
		return "activity"
	case KindFinish:
		return "finish"
	case KindError:
		return "error"
	default:
		return "unknown"
	}
}

// AutoHides reports whether messages of this kind are subject to the
// auto-hide timer.
func (k Kind) AutoHides() bool {
	return k == KindFinish || k == KindError
}

// Validation errors.
var (
	ErrEmptyText       = errors.New("message text cannot be empty")
	ErrInvalidKind     = errors.New("kind must be activity, finish, or error")
	ErrInvalidDuration = errors.New("duration cannot be negative")
)

// Message is one announcement request. Immutable once constructed; the
// scheduler consumes each message exactly once.
type Message struct {
	// ID is a ULID uniquely identifying this message.
	ID string

	// Text is the announcement text. Never empty for a valid message.
	Text string

	// Kind drives indicator and auto-hide behavior.
	Kind Kind

	// Duration is how long a Finish/Error message stays visible before the
	// auto-hide timer fires. Zero means no auto-hide. Ignored for Activity.
	Duration time.Duration

	// Animated requests an animated appearance when the overlay is hidden.
	Animated bool

	// Immediate marks a message posted via the preempting path.
	Immediate bool

	// Seq is a monotonic counter assigned at enqueue time. It gives FIFO
	// ordering independent of any container reshuffling. Zero until the
	// message has been enqueued.
	Seq uint64

	// CreatedAt is when the post call was made.
	CreatedAt time.Time
}

// New constructs a Message with a generated ULID and creation timestamp.
// The caller validates afterwards; New never fails on content.
func New(text string, kind Kind, duration time.Duration, animated bool) (Message, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), rand.Reader)
	if err != nil {
		return Message{}, fmt.Errorf("failed to generate ULID: %w", err)
	}

	return Message{
		ID:        id.String(),
		Text:      text,
		Kind:      kind,
		Duration:  duration,
		Animated:  animated,
		CreatedAt: time.Now(),
	}, nil
}

// Validate checks that the message is well-formed.
func (m Message) Validate() error {
	if strings.TrimSpace(m.Text) == "" {
		return ErrEmptyText
	}
	if m.Kind < KindActivity || m.Kind > KindError {
		return ErrInvalidKind
	}
	if m.Duration < 0 {
		return ErrInvalidDuration
	}
	return nil
}

// WithImmediate returns a copy marked as immediate.
func (m Message) WithImmediate() Message {
	m.Immediate = true
	return m
}

// WithSeq returns a copy carrying the given enqueue sequence number.
func (m Message) WithSeq(seq uint64) Message {
	m.Seq = seq
	return m
}
