// Package config handles loading and saving statusstrip configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/statusstrip/statusstrip/internal/overlay"
)

// Duration is a time.Duration that can be unmarshaled from human-readable
// strings like "400ms", "2s", "1m", or integer milliseconds.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler for TOML parsing.
func (d *Duration) UnmarshalText(text []byte) error {
	s := string(text)

	// Integer milliseconds for convenience.
	if ms, err := strconv.ParseInt(s, 10, 64); err == nil {
		*d = Duration(time.Duration(ms) * time.Millisecond)
		return nil
	}

	dur, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: must be like '400ms', '2s' or milliseconds: %w", s, err)
	}
	*d = Duration(dur)
	return nil
}

// MarshalText implements encoding.TextMarshaler for TOML output.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Config is the statusstrip configuration.
// Loaded from ~/.config/statusstrip/statusstrip.toml
type Config struct {
	Timing  TimingConfig  `toml:"timing"`
	Display DisplayConfig `toml:"display"`
	History HistoryConfig `toml:"history"`
	Audio   AudioConfig   `toml:"audio"`
	Theme   ThemeConfig   `toml:"theme"`
	Desktop DesktopConfig `toml:"desktop"`
}

// TimingConfig contains the scheduler's timing knobs.
type TimingConfig struct {
	// MinimumVisible is the floor a message stays visible before the next
	// one may be shown.
	MinimumVisible Duration `toml:"minimum_visible"`
	// Crossfade is the transition interval after a message switch.
	Crossfade Duration `toml:"crossfade"`
}

// DisplayConfig contains display and interaction settings.
type DisplayConfig struct {
	// Mode is the interaction policy: "none", "collapse-on-touch", or
	// "detail-on-touch".
	Mode string `toml:"mode"`
}

// HistoryConfig contains history settings.
type HistoryConfig struct {
	Enabled bool `toml:"enabled"`
}

// AudioConfig contains sound cue settings.
type AudioConfig struct {
	Enabled bool        `toml:"enabled"`
	Volume  int         `toml:"volume"` // 0-100
	Sounds  SoundConfig `toml:"sounds"`
}

// SoundConfig contains per-kind cue file paths.
type SoundConfig struct {
	Finish string `toml:"finish"`
	Error  string `toml:"error"`
}

// ThemeConfig contains theme settings.
type ThemeConfig struct {
	// Path is an optional YAML theme file; empty uses the built-in theme.
	Path string `toml:"path"`
}

// DesktopConfig controls the desktop-notification mirror.
type DesktopConfig struct {
	// MirrorNotifications forwards Finish/Error announcements to the
	// freedesktop notification service.
	MirrorNotifications bool `toml:"mirror_notifications"`
}

// Default returns a new Config with default values.
func Default() *Config {
	return &Config{
		Timing: TimingConfig{
			MinimumVisible: Duration(400 * time.Millisecond),
			Crossfade:      Duration(300 * time.Millisecond),
		},
		Display: DisplayConfig{
			Mode: string(overlay.ModeCollapseOnTouch),
		},
		History: HistoryConfig{
			Enabled: true,
		},
		Audio: AudioConfig{
			Enabled: false,
			Volume:  80,
		},
		Theme:   ThemeConfig{},
		Desktop: DesktopConfig{},
	}
}

// Path returns the path to the config file.
func Path() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "statusstrip", "statusstrip.toml"), nil
}

// DataDir returns the path to the statusstrip data directory.
// Uses XDG_DATA_HOME or defaults to ~/.local/share/statusstrip.
func DataDir() (string, error) {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "statusstrip"), nil
}

// Load reads the configuration from the given path, or the default path when
// empty. A missing file yields the default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return nil, fmt.Errorf("failed to get config path: %w", err)
		}
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults, then overlay with file contents.
	cfg := Default()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Save writes the configuration to the given path, or the default path when
// empty, atomically via a temp file.
func Save(cfg *Config, path string) error {
	if path == "" {
		var err error
		path, err = Path()
		if err != nil {
			return fmt.Errorf("failed to get config path: %w", err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return os.Rename(tmpPath, path)
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if _, err := overlay.ParseDisplayMode(c.Display.Mode); err != nil {
		return err
	}
	if c.Timing.MinimumVisible < 0 {
		return fmt.Errorf("timing.minimum_visible cannot be negative, got %s", c.Timing.MinimumVisible.Duration())
	}
	if c.Timing.Crossfade < 0 {
		return fmt.Errorf("timing.crossfade cannot be negative, got %s", c.Timing.Crossfade.Duration())
	}
	if c.Audio.Volume < 0 || c.Audio.Volume > 100 {
		return fmt.Errorf("audio.volume must be between 0 and 100, got %d", c.Audio.Volume)
	}
	return nil
}

// SchedulerConfig converts the timing section for the scheduler.
func (c *Config) SchedulerConfig() overlay.Config {
	return overlay.Config{
		MinimumVisibleTime: c.Timing.MinimumVisible.Duration(),
		CrossfadeDuration:  c.Timing.Crossfade.Duration(),
	}
}

// DisplayMode returns the parsed interaction policy.
func (c *Config) DisplayMode() overlay.DisplayMode {
	mode, err := overlay.ParseDisplayMode(c.Display.Mode)
	if err != nil {
		return overlay.ModeCollapseOnTouch
	}
	return mode
}

// SoundForKind returns the cue file path for a finished kind, with ~
// expanded to the home directory.
func (c *Config) SoundForKind(kind string) string {
	var path string
	switch kind {
	case "error":
		path = c.Audio.Sounds.Error
	default:
		path = c.Audio.Sounds.Finish
	}
	return expandPath(path)
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[2:])
		}
	}
	return path
}
