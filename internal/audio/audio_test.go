package audio

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusstrip/statusstrip/internal/model"
)

func TestPlayer_EmptyPathIsNoop(t *testing.T) {
	p := NewPlayer(nil)
	assert.NoError(t, p.Play(""))
}

func TestPlayer_MissingFile(t *testing.T) {
	p := NewPlayer(nil)
	err := p.Play(filepath.Join(t.TempDir(), "missing.wav"))
	assert.Error(t, err)
}

func TestPlayer_UnsupportedFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cue.flac")
	require.NoError(t, os.WriteFile(path, []byte("data"), 0600))

	p := NewPlayer(nil)
	err := p.Play(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported audio format")
}

func TestVolumeToDecibels(t *testing.T) {
	assert.InDelta(t, 0, volumeToDecibels(1.0), 0.001)
	assert.InDelta(t, -6.02, volumeToDecibels(0.5), 0.01)
	assert.InDelta(t, -100, volumeToDecibels(0), 0.001)
}

func TestPlayer_SetVolumeClamps(t *testing.T) {
	p := NewPlayer(nil)

	p.SetVolume(1.5)
	assert.Equal(t, 1.0, p.volume)

	p.SetVolume(-0.5)
	assert.Equal(t, 0.0, p.volume)

	p.SetVolume(0.8)
	assert.Equal(t, 0.8, p.volume)
}

type fakePlayer struct {
	mu    sync.Mutex
	plays []string
}

func (f *fakePlayer) Play(path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays = append(f.plays, path)
	return nil
}

func (f *fakePlayer) snapshot() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.plays...)
}

func TestCues_PlaysPerKind(t *testing.T) {
	fp := &fakePlayer{}
	c := NewCues(fp, "/cues/finish.wav", "/cues/error.wav", nil)

	c.SetFinishedGlyph(model.KindFinish)
	require.Eventually(t, func() bool {
		return len(fp.snapshot()) == 1
	}, time.Second, 5*time.Millisecond)

	c.SetFinishedGlyph(model.KindError)
	require.Eventually(t, func() bool {
		return len(fp.snapshot()) == 2
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, []string{"/cues/finish.wav", "/cues/error.wav"}, fp.snapshot())
}

func TestCues_SilentWithoutPath(t *testing.T) {
	fp := &fakePlayer{}
	c := NewCues(fp, "", "", nil)

	c.SetFinishedGlyph(model.KindFinish)
	c.SetFinishedGlyph(model.KindError)
	c.SetFinishedGlyph(model.KindActivity)

	time.Sleep(50 * time.Millisecond)
	assert.Empty(t, fp.snapshot())
}
