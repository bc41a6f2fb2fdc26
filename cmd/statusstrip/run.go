package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/statusstrip/statusstrip/internal/audio"
	"github.com/statusstrip/statusstrip/internal/config"
	"github.com/statusstrip/statusstrip/internal/display"
	"github.com/statusstrip/statusstrip/internal/input"
	"github.com/statusstrip/statusstrip/internal/overlay"
	"github.com/statusstrip/statusstrip/internal/store"
	"github.com/statusstrip/statusstrip/internal/theme"
	"github.com/statusstrip/statusstrip/internal/tui"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the strip host",
	Long: `Run the terminal strip host. Post requests are read from stdin,
one per line:

  [!]kind[:duration] text

kind is activity, finish, or error (default activity); duration is a Go
duration or integer milliseconds; a leading "!" posts immediately, purging
pending messages.`,
	RunE: runHost,
}

func runHost(cmd *cobra.Command, args []string) error {
	th, err := theme.Load(cfg.Theme.Path)
	if err != nil {
		logger.Warn("falling back to default theme", "error", err)
		th = theme.Default()
	}

	sched := overlay.New(cfg.SchedulerConfig(), nil, logger)
	sched.SetDisplayMode(cfg.DisplayMode())
	sched.SetHistoryEnabled(cfg.History.Enabled)

	settings, err := store.Open("", logger)
	if err != nil {
		logger.Warn("settings store unavailable, shrunk flag will not persist", "error", err)
	} else {
		sched.SetSettingsStore(settings)
	}

	// The model drives the scheduler through key bindings; the program
	// receives the scheduler's decisions back through the presenter.
	prog := tea.NewProgram(tui.New(sched, th), tea.WithOutput(os.Stdout))

	presenters := []overlay.Presenter{tui.NewPresenter(prog)}
	if cfg.Desktop.MirrorNotifications {
		presenters = append(presenters, display.NewMirror(logger))
	}

	var player *audio.Player
	if cfg.Audio.Enabled {
		player = audio.NewPlayer(logger)
		player.SetVolume(float64(cfg.Audio.Volume) / 100)
		presenters = append(presenters, audio.NewCues(
			player,
			cfg.SoundForKind("finish"),
			cfg.SoundForKind("error"),
			logger,
		))
	}

	sched.SetPresenter(display.NewFanout(presenters...))
	sched.History().SetListener(tui.NewHistoryListener(prog))
	sched.Start()
	defer sched.Stop()

	if player != nil {
		defer player.Close()
	}

	if watcher := startConfigWatcher(sched); watcher != nil {
		defer func() { _ = watcher.Stop() }()
	}

	go func() {
		reader := input.NewStdinReader(os.Stdin, sched, logger)
		if err := reader.Run(); err != nil {
			logger.Warn("stdin reader stopped", "error", err)
		}
	}()

	if _, err := prog.Run(); err != nil {
		return fmt.Errorf("strip host failed: %w", err)
	}
	return nil
}

// startConfigWatcher hot-reloads timing, display mode, and history settings.
func startConfigWatcher(sched *overlay.Scheduler) *config.Watcher {
	path := globalOpts.configPath
	if path == "" {
		var err error
		path, err = config.Path()
		if err != nil {
			logger.Warn("config watcher disabled", "error", err)
			return nil
		}
	}

	watcher, err := config.NewWatcher(path, logger)
	if err != nil {
		logger.Warn("config watcher disabled", "error", err)
		return nil
	}

	watcher.SetChangeCallback(func(next *config.Config) {
		sched.UpdateConfig(next.SchedulerConfig())
		sched.SetDisplayMode(next.DisplayMode())
		sched.SetHistoryEnabled(next.History.Enabled)
	})

	if err := watcher.Start(); err != nil {
		logger.Warn("config watcher disabled", "error", err)
		_ = watcher.Stop()
		return nil
	}
	return watcher
}
