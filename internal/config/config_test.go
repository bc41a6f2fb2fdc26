package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/statusstrip/statusstrip/internal/overlay"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 400*time.Millisecond, cfg.Timing.MinimumVisible.Duration())
	assert.Equal(t, 300*time.Millisecond, cfg.Timing.Crossfade.Duration())
	assert.Equal(t, overlay.ModeCollapseOnTouch, cfg.DisplayMode())
	assert.True(t, cfg.History.Enabled)
	assert.False(t, cfg.Audio.Enabled)
}

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverlaysDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statusstrip.toml")
	content := `
[timing]
minimum_visible = "250ms"

[display]
mode = "detail-on-touch"

[history]
enabled = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.Timing.MinimumVisible.Duration())
	// Untouched keys keep their defaults.
	assert.Equal(t, 300*time.Millisecond, cfg.Timing.Crossfade.Duration())
	assert.Equal(t, overlay.ModeDetailOnTouch, cfg.DisplayMode())
	assert.False(t, cfg.History.Enabled)
}

func TestLoad_IntegerMilliseconds(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statusstrip.toml")
	content := `
[timing]
minimum_visible = "500"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Timing.MinimumVisible.Duration())
}

func TestLoad_InvalidMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statusstrip.toml")
	content := `
[display]
mode = "sideways"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statusstrip.toml")
	content := `
[timing]
crossfade = "fast"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate_Volume(t *testing.T) {
	cfg := Default()
	cfg.Audio.Volume = 150
	assert.Error(t, cfg.Validate())

	cfg.Audio.Volume = -1
	assert.Error(t, cfg.Validate())

	cfg.Audio.Volume = 100
	assert.NoError(t, cfg.Validate())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "statusstrip.toml")

	cfg := Default()
	cfg.Timing.MinimumVisible = Duration(time.Second)
	cfg.Display.Mode = string(overlay.ModeNone)
	cfg.Audio.Enabled = true
	cfg.Audio.Sounds.Error = "/tmp/error.wav"

	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSchedulerConfig(t *testing.T) {
	cfg := Default()
	cfg.Timing.MinimumVisible = Duration(123 * time.Millisecond)
	cfg.Timing.Crossfade = Duration(45 * time.Millisecond)

	sc := cfg.SchedulerConfig()
	assert.Equal(t, 123*time.Millisecond, sc.MinimumVisibleTime)
	assert.Equal(t, 45*time.Millisecond, sc.CrossfadeDuration)
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "statusstrip.toml")
	require.NoError(t, os.WriteFile(path, []byte("[history]\nenabled = true\n"), 0600))

	w, err := NewWatcher(path, nil)
	require.NoError(t, err)
	defer w.Stop()

	reloaded := make(chan *Config, 1)
	w.SetChangeCallback(func(cfg *Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	require.NoError(t, w.Start())

	require.NoError(t, os.WriteFile(path, []byte("[history]\nenabled = false\n"), 0600))

	select {
	case cfg := <-reloaded:
		assert.False(t, cfg.History.Enabled)
	case <-time.After(3 * time.Second):
		t.Fatal("config reload callback was not invoked")
	}
}
