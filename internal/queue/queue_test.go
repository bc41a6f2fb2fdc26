package queue

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusstrip/statusstrip/internal/model"
)

func msg(t *testing.T, text string) model.Message {
	t.Helper()
	m, err := model.New(text, model.KindActivity, 0, true)
	require.NoError(t, err)
	return m
}

func texts(msgs []model.Message) []string {
	out := make([]string, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, m.Text)
	}
	return out
}

func TestQueue_FIFO(t *testing.T) {
	q := New()
	q.Enqueue(msg(t, "A"))
	q.Enqueue(msg(t, "B"))
	q.Enqueue(msg(t, "C"))

	assert.Equal(t, 3, q.Len())

	var got []string
	for {
		m, ok := q.Dequeue()
		if !ok {
			break
		}
		got = append(got, m.Text)
	}
	assert.Equal(t, []string{"A", "B", "C"}, got)
}

func TestQueue_EnqueueAssignsMonotonicSeq(t *testing.T) {
	q := New()
	q.Enqueue(msg(t, "A"))
	q.Enqueue(msg(t, "B"))

	a, ok := q.Dequeue()
	require.True(t, ok)
	b, ok := q.Dequeue()
	require.True(t, ok)

	assert.Greater(t, b.Seq, a.Seq)
	assert.NotZero(t, a.Seq)
}

func TestQueue_EnqueueDropsEmptyText(t *testing.T) {
	q := New()
	q.Enqueue(msg(t, "A"))

	empty := msg(t, "A")
	empty.Text = "   "
	q.Enqueue(empty)

	assert.Equal(t, 1, q.Len())
}

func TestQueue_PeekHead(t *testing.T) {
	q := New()

	_, ok := q.PeekHead()
	assert.False(t, ok)

	q.Enqueue(msg(t, "A"))
	q.Enqueue(msg(t, "B"))

	head, ok := q.PeekHead()
	require.True(t, ok)
	assert.Equal(t, "A", head.Text)
	assert.Equal(t, 2, q.Len(), "peek must not remove")
}

func TestQueue_DequeueEmpty(t *testing.T) {
	q := New()
	_, ok := q.Dequeue()
	assert.False(t, ok)
}

func TestQueue_PreemptRemoveAllowed(t *testing.T) {
	// Queue = [B, C] with B as head (currently showing).
	q := New()
	q.Enqueue(msg(t, "B"))
	q.Enqueue(msg(t, "C"))

	removed := q.Preempt(msg(t, "D"), true)

	assert.Equal(t, []string{"C"}, texts(removed))
	assert.Equal(t, []string{"B", "D"}, texts(q.Snapshot()))

	head, ok := q.PeekHead()
	require.True(t, ok)
	assert.Equal(t, "B", head.Text, "head is always preserved")
}

func TestQueue_PreemptRemoveDisallowedKeepsImmediate(t *testing.T) {
	// Queue = [B, C(immediate)]; C survives because it is itself immediate
	// and removal was not permitted.
	q := New()
	q.Enqueue(msg(t, "B"))
	q.Enqueue(msg(t, "C").WithImmediate())

	removed := q.Preempt(msg(t, "D"), false)

	assert.Empty(t, removed)
	assert.Equal(t, []string{"B", "C", "D"}, texts(q.Snapshot()))
}

func TestQueue_PreemptRemoveDisallowedPurgesNonImmediate(t *testing.T) {
	q := New()
	q.Enqueue(msg(t, "B"))
	q.Enqueue(msg(t, "C"))
	q.Enqueue(msg(t, "E").WithImmediate())

	removed := q.Preempt(msg(t, "D"), false)

	assert.Equal(t, []string{"C"}, texts(removed))
	assert.Equal(t, []string{"B", "E", "D"}, texts(q.Snapshot()))
}

func TestQueue_PreemptMarksNewMessageImmediate(t *testing.T) {
	q := New()
	q.Preempt(msg(t, "D"), true)

	head, ok := q.PeekHead()
	require.True(t, ok)
	assert.True(t, head.Immediate)
}

func TestQueue_PreemptEmptyTextIsNoop(t *testing.T) {
	q := New()
	q.Enqueue(msg(t, "B"))
	q.Enqueue(msg(t, "C"))

	blank := msg(t, "x")
	blank.Text = ""
	removed := q.Preempt(blank, true)

	assert.Nil(t, removed)
	assert.Equal(t, []string{"B", "C"}, texts(q.Snapshot()))
}

func TestQueue_PeekAndPopNext(t *testing.T) {
	q := New()

	_, ok := q.PeekNext()
	assert.False(t, ok, "empty queue has no next")

	q.Enqueue(msg(t, "A"))
	_, ok = q.PeekNext()
	assert.False(t, ok, "single entry is the head, not a next candidate")

	q.Enqueue(msg(t, "B"))
	q.Enqueue(msg(t, "C"))

	next, ok := q.PeekNext()
	require.True(t, ok)
	assert.Equal(t, "B", next.Text)

	popped, ok := q.PopNext()
	require.True(t, ok)
	assert.Equal(t, "B", popped.Text)

	// Head untouched, C moved up behind it.
	assert.Equal(t, []string{"A", "C"}, texts(q.Snapshot()))
}

func TestQueue_ConcurrentEnqueue(t *testing.T) {
	q := New()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				q.Enqueue(model.Message{Text: fmt.Sprintf("w%d-%d", n, j), Kind: model.KindActivity})
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1000, q.Len())

	// Sequence numbers must be unique.
	seen := make(map[uint64]bool)
	for _, m := range q.Snapshot() {
		assert.False(t, seen[m.Seq], "duplicate seq %d", m.Seq)
		seen[m.Seq] = true
	}
}
