package display

import (
	"github.com/statusstrip/statusstrip/internal/model"
	"github.com/statusstrip/statusstrip/internal/overlay"
)

// Fanout forwards every presenter call to all children in order.
type Fanout struct {
	children []overlay.Presenter
}

// NewFanout creates a composite presenter. Nil children are skipped.
func NewFanout(children ...overlay.Presenter) *Fanout {
	f := &Fanout{}
	for _, c := range children {
		if c != nil {
			f.children = append(f.children, c)
		}
	}
	return f
}

func (f *Fanout) Appear(animated bool) {
	for _, c := range f.children {
		c.Appear(animated)
	}
}

func (f *Fanout) Disappear(animated bool) {
	for _, c := range f.children {
		c.Disappear(animated)
	}
}

func (f *Fanout) RenderMessage(text string, style overlay.Style, animated bool) {
	for _, c := range f.children {
		c.RenderMessage(text, style, animated)
	}
}

func (f *Fanout) SetProgress(fraction float64) {
	for _, c := range f.children {
		c.SetProgress(fraction)
	}
}

func (f *Fanout) SetBusyIndicatorVisible(visible bool) {
	for _, c := range f.children {
		c.SetBusyIndicatorVisible(visible)
	}
}

func (f *Fanout) SetFinishedGlyph(kind model.Kind) {
	for _, c := range f.children {
		c.SetFinishedGlyph(kind)
	}
}

func (f *Fanout) SetLayout(shrunk, detailVisible bool) {
	for _, c := range f.children {
		c.SetLayout(shrunk, detailVisible)
	}
}
