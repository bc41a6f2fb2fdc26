package display

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusstrip/statusstrip/internal/model"
	"github.com/statusstrip/statusstrip/internal/overlay"
)

type recordingPresenter struct {
	overlay.NopPresenter

	renders  []string
	progress []float64
	appeared int
	glyphs   []model.Kind
}

func (p *recordingPresenter) Appear(bool) { p.appeared++ }

func (p *recordingPresenter) RenderMessage(text string, _ overlay.Style, _ bool) {
	p.renders = append(p.renders, text)
}

func (p *recordingPresenter) SetProgress(fraction float64) {
	p.progress = append(p.progress, fraction)
}

func (p *recordingPresenter) SetFinishedGlyph(kind model.Kind) {
	p.glyphs = append(p.glyphs, kind)
}

func TestFanout_ForwardsToAllChildren(t *testing.T) {
	a := &recordingPresenter{}
	b := &recordingPresenter{}

	f := NewFanout(a, nil, b)
	f.Appear(true)
	f.RenderMessage("building", overlay.Style{Kind: model.KindActivity}, true)
	f.SetProgress(0.5)
	f.SetFinishedGlyph(model.KindFinish)

	for _, p := range []*recordingPresenter{a, b} {
		assert.Equal(t, 1, p.appeared)
		assert.Equal(t, []string{"building"}, p.renders)
		assert.Equal(t, []float64{0.5}, p.progress)
		assert.Equal(t, []model.Kind{model.KindFinish}, p.glyphs)
	}
}

type fakeNotifier struct {
	mu     sync.Mutex
	nextID uint32

	calls []notifyCall
}

type notifyCall struct {
	summary    string
	body       string
	urgency    byte
	replacesID uint32
}

func (f *fakeNotifier) Notify(summary, body string, urgency byte, replacesID uint32) (uint32, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, notifyCall{summary, body, urgency, replacesID})
	f.nextID++
	return f.nextID, nil
}

func (f *fakeNotifier) snapshot() []notifyCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]notifyCall(nil), f.calls...)
}

func TestMirror_ForwardsFinishAndError(t *testing.T) {
	n := &fakeNotifier{}
	m := NewMirrorWithNotifier(n, nil)

	m.RenderMessage("build ok", overlay.Style{Kind: model.KindFinish}, false)
	require.Eventually(t, func() bool {
		return len(n.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	m.RenderMessage("build failed", overlay.Style{Kind: model.KindError}, false)
	require.Eventually(t, func() bool {
		return len(n.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)

	calls := n.snapshot()
	assert.Equal(t, "Done", calls[0].summary)
	assert.Equal(t, "build ok", calls[0].body)
	assert.Equal(t, urgencyNormal, calls[0].urgency)
	assert.Zero(t, calls[0].replacesID)

	assert.Equal(t, "Error", calls[1].summary)
	assert.Equal(t, urgencyCritical, calls[1].urgency)
	// The second announcement replaces the first instead of stacking.
	assert.Equal(t, uint32(1), calls[1].replacesID)
}

func TestMirror_IgnoresActivity(t *testing.T) {
	n := &fakeNotifier{}
	m := NewMirrorWithNotifier(n, nil)

	m.RenderMessage("compiling", overlay.Style{Kind: model.KindActivity}, true)
	m.SetProgress(0.3)
	m.Appear(true)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, n.snapshot())
}
