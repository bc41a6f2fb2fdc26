// Package theme maps strip roles to terminal colors, loaded from a YAML
// theme file with a built-in fallback.
package theme

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Theme holds the color assignments for the strip. Colors are lipgloss
// color strings: ANSI numbers ("10") or hex values ("#a6e3a1").
type Theme struct {
	// Activity is the text color while a message is in flight.
	Activity string `yaml:"activity"`
	// Finish is the text color for a successful announcement.
	Finish string `yaml:"finish"`
	// Error is the text color for a failure announcement.
	Error string `yaml:"error"`
	// Muted is used for secondary text: timestamps, the shrunk glyph,
	// the empty-history placeholder.
	Muted string `yaml:"muted"`
	// Detail is the border color of the expanded history panel.
	Detail string `yaml:"detail"`
	// Progress is the fill color of the progress bar.
	Progress string `yaml:"progress"`
}

// Default returns the built-in theme.
func Default() Theme {
	return Theme{
		Activity: "12",
		Finish:   "10",
		Error:    "9",
		Muted:    "8",
		Detail:   "8",
		Progress: "12",
	}
}

// Load reads a theme file and overlays it on the default theme, so a file
// may set only the roles it wants to change. An empty path yields the
// default theme.
func Load(path string) (Theme, error) {
	t := Default()
	if path == "" {
		return t, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return t, fmt.Errorf("failed to read theme file: %w", err)
	}
	if err := yaml.Unmarshal(data, &t); err != nil {
		return t, fmt.Errorf("failed to parse theme file: %w", err)
	}
	return t, nil
}

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Activity lipgloss.Style
	Finish   lipgloss.Style
	Error    lipgloss.Style
	Muted    lipgloss.Style
	Detail   lipgloss.Style
	Progress lipgloss.Style
}

// Styles builds the lipgloss styles for the theme.
func (t Theme) Styles() Styles {
	return Styles{
		Activity: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Activity)),
		Finish:   lipgloss.NewStyle().Foreground(lipgloss.Color(t.Finish)).Bold(true),
		Error:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Error)).Bold(true),
		Muted:    lipgloss.NewStyle().Foreground(lipgloss.Color(t.Muted)),
		Detail: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(t.Detail)).
			Padding(0, 1),
		Progress: lipgloss.NewStyle().Foreground(lipgloss.Color(t.Progress)),
	}
}
