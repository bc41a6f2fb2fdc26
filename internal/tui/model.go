// Package tui hosts the strip in a terminal using BubbleTea. The model is a
// pure view over scheduler decisions; key bindings stand in for touch
// gestures.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/statusstrip/statusstrip/internal/model"
	"github.com/statusstrip/statusstrip/internal/overlay"
	"github.com/statusstrip/statusstrip/internal/theme"
)

// Controller is the scheduler surface the host drives from key input.
type Controller interface {
	HandleGesture(gesture overlay.Gesture)
	ToggleShrunk()
	ToggleDetail()
	Hide()
	ForceHide()
	Resume()
}

// historyRow is a history entry with the time it arrived, for relative
// timestamps in the detail panel.
type historyRow struct {
	text string
	at   time.Time
}

// Model renders the strip. All display state arrives as presenter messages;
// the model never decides what to show.
type Model struct {
	controller Controller
	keys       KeyMap
	help       help.Model
	spinner    spinner.Model
	bar        progress.Model
	styles     theme.Styles

	visible       bool
	text          string
	style         overlay.Style
	fraction      float64
	busy          bool
	glyph         *model.Kind
	shrunk        bool
	detailVisible bool

	rows     []historyRow
	showHelp bool
	width    int
}

// New creates the host model.
func New(controller Controller, th theme.Theme) Model {
	styles := th.Styles()

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = styles.Activity

	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	bar.Width = 20

	return Model{
		controller: controller,
		keys:       DefaultKeyMap(),
		help:       help.New(),
		spinner:    sp,
		bar:        bar,
		styles:     styles,
	}
}

// Init starts the spinner tick.
func (m Model) Init() tea.Cmd {
	return m.spinner.Tick
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case appearMsg:
		m.visible = true
		return m, nil

	case disappearMsg:
		m.visible = false
		m.glyph = nil
		m.fraction = 0
		return m, nil

	case renderMsg:
		m.text = msg.text
		m.style = msg.style
		m.shrunk = msg.style.Shrunk
		m.detailVisible = msg.style.DetailVisible
		if msg.style.Kind == model.KindActivity {
			m.glyph = nil
		}
		return m, nil

	case progressMsg:
		m.fraction = msg.fraction
		return m, nil

	case busyMsg:
		m.busy = msg.visible
		return m, nil

	case glyphMsg:
		kind := msg.kind
		m.glyph = &kind
		return m, nil

	case layoutMsg:
		m.shrunk = msg.shrunk
		m.detailVisible = msg.detailVisible
		return m, nil

	case historyAppendMsg:
		m.rows = append(m.rows, historyRow{text: msg.text, at: time.Now()})
		return m, nil

	case historyReloadMsg:
		m.rows = nil
		return m, nil
	}

	return m, nil
}

// handleKey maps key bindings onto scheduler calls.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = !m.showHelp
		return m, nil
	}

	if m.controller == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Tap):
		m.controller.HandleGesture(overlay.GestureTap)
	case key.Matches(msg, m.keys.ToggleShrunk):
		m.controller.ToggleShrunk()
	case key.Matches(msg, m.keys.ToggleDetail):
		m.controller.ToggleDetail()
	case key.Matches(msg, m.keys.Hide):
		m.controller.Hide()
	case key.Matches(msg, m.keys.ForceHide):
		m.controller.ForceHide()
	case key.Matches(msg, m.keys.Resume):
		m.controller.Resume()
	}
	return m, nil
}

// View renders the strip, the optional detail panel, and help.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.stripView())
	b.WriteString("\n")

	if m.detailVisible {
		b.WriteString(m.detailView())
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(m.help.FullHelpView(m.keys.FullHelp()))
	} else {
		b.WriteString(m.help.ShortHelpView(m.keys.ShortHelp()))
	}

	return b.String()
}

// stripView renders the single strip line.
func (m Model) stripView() string {
	if !m.visible {
		return m.styles.Muted.Render("· idle ·")
	}

	if m.shrunk {
		return m.styles.Muted.Render("▪ " + m.indicator())
	}

	parts := []string{m.indicator(), m.textStyle().Render(m.text)}
	if m.fraction > 0 {
		parts = append(parts, m.bar.ViewAs(m.fraction))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, strings.Join(parts, " "))
}

// indicator is the glyph slot: spinner while busy, kind glyph when finished.
func (m Model) indicator() string {
	if m.glyph != nil {
		switch *m.glyph {
		case model.KindError:
			return m.styles.Error.Render("✗")
		default:
			return m.styles.Finish.Render("✓")
		}
	}
	if m.busy {
		return m.spinner.View()
	}
	return " "
}

func (m Model) textStyle() lipgloss.Style {
	switch m.style.Kind {
	case model.KindFinish:
		return m.styles.Finish
	case model.KindError:
		return m.styles.Error
	default:
		return m.styles.Activity
	}
}

// detailView renders the history panel, newest first.
func (m Model) detailView() string {
	if len(m.rows) == 0 {
		return m.styles.Detail.Render(m.styles.Muted.Render("no history"))
	}

	var lines []string
	for i := len(m.rows) - 1; i >= 0; i-- {
		row := m.rows[i]
		lines = append(lines, fmt.Sprintf("%s  %s",
			row.text,
			m.styles.Muted.Render(humanize.Time(row.at))))
	}
	return m.styles.Detail.Render(strings.Join(lines, "\n"))
}
