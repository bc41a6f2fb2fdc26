package audio

import (
	"log/slog"

	"github.com/statusstrip/statusstrip/internal/model"
	"github.com/statusstrip/statusstrip/internal/overlay"
)

// cuePlayer is the playback surface Cues needs from Player.
type cuePlayer interface {
	Play(path string) error
}

// Cues is a presenter that plays a sound when a Finish or Error message is
// announced. All other presenter traffic is ignored.
type Cues struct {
	overlay.NopPresenter

	player cuePlayer
	logger *slog.Logger

	finishPath string
	errorPath  string
}

// NewCues creates a cue presenter. Kinds with an empty path stay silent.
func NewCues(player cuePlayer, finishPath, errorPath string, logger *slog.Logger) *Cues {
	if logger == nil {
		logger = slog.Default()
	}
	return &Cues{
		player:     player,
		logger:     logger,
		finishPath: finishPath,
		errorPath:  errorPath,
	}
}

// SetFinishedGlyph fires the cue for the announced kind. Playback runs off
// the caller's goroutine; presenter methods must not block.
func (c *Cues) SetFinishedGlyph(kind model.Kind) {
	var path string
	switch kind {
	case model.KindFinish:
		path = c.finishPath
	case model.KindError:
		path = c.errorPath
	default:
		return
	}
	if path == "" {
		return
	}

	go func() {
		if err := c.player.Play(path); err != nil {
			c.logger.Debug("cue playback failed", "kind", kind, "error", err)
		}
	}()
}
