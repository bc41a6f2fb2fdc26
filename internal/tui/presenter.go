package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/statusstrip/statusstrip/internal/model"
	"github.com/statusstrip/statusstrip/internal/overlay"
)

// Messages the presenter injects into the program. The scheduler decides,
// the model only reflects.
type (
	appearMsg    struct{ animated bool }
	disappearMsg struct{ animated bool }
	renderMsg    struct {
		text     string
		style    overlay.Style
		animated bool
	}
	progressMsg struct{ fraction float64 }
	busyMsg     struct{ visible bool }
	glyphMsg    struct{ kind model.Kind }
	layoutMsg   struct{ shrunk, detailVisible bool }

	historyAppendMsg struct {
		index int
		text  string
	}
	historyReloadMsg struct{}
)

// Presenter adapts the scheduler's presenter surface onto a running
// bubbletea program. Every call becomes a message; nothing blocks.
type Presenter struct {
	send func(tea.Msg)
}

// NewPresenter creates a Presenter targeting the given program.
func NewPresenter(p *tea.Program) *Presenter {
	return &Presenter{send: p.Send}
}

// newPresenterWithSend is the test seam.
func newPresenterWithSend(send func(tea.Msg)) *Presenter {
	return &Presenter{send: send}
}

func (p *Presenter) Appear(animated bool)    { p.send(appearMsg{animated}) }
func (p *Presenter) Disappear(animated bool) { p.send(disappearMsg{animated}) }

func (p *Presenter) RenderMessage(text string, style overlay.Style, animated bool) {
	p.send(renderMsg{text: text, style: style, animated: animated})
}

func (p *Presenter) SetProgress(fraction float64)     { p.send(progressMsg{fraction}) }
func (p *Presenter) SetBusyIndicatorVisible(v bool)   { p.send(busyMsg{v}) }
func (p *Presenter) SetFinishedGlyph(kind model.Kind) { p.send(glyphMsg{kind}) }
func (p *Presenter) SetLayout(shrunk, detailVis bool) { p.send(layoutMsg{shrunk, detailVis}) }

// HistoryListener bridges history log callbacks into the program.
type HistoryListener struct {
	send func(tea.Msg)
}

// NewHistoryListener creates a listener targeting the given program.
func NewHistoryListener(p *tea.Program) *HistoryListener {
	return &HistoryListener{send: p.Send}
}

func (l *HistoryListener) RowAppended(index int, text string) {
	l.send(historyAppendMsg{index: index, text: text})
}

func (l *HistoryListener) Reloaded() {
	l.send(historyReloadMsg{})
}
