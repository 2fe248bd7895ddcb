// Package app is the bubbletea program that stacks the configured strips.
package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"charm.land/bubbles/v2/key"
	tea "charm.land/bubbletea/v2"

	"github.com/andyrewlee/marquee/internal/clock"
	"github.com/andyrewlee/marquee/internal/config"
	"github.com/andyrewlee/marquee/internal/logging"
	"github.com/andyrewlee/marquee/internal/messages"
	"github.com/andyrewlee/marquee/internal/safego"
	"github.com/andyrewlee/marquee/internal/ui/common"
	"github.com/andyrewlee/marquee/internal/ui/strip"
)

// App is the root bubbletea model.
type App struct {
	config  *config.Config
	version string
	keymap  KeyMap
	styles  common.Styles

	strips      []*strip.Model
	nextStripID int

	width    int
	height   int
	ready    bool
	paused   bool
	quitting bool
	err      error

	watcher       *configWatcher
	watcherCancel context.CancelFunc

	externalMsgs        chan tea.Msg
	externalSender      func(tea.Msg)
	externalOnce        sync.Once
	externalDropLastLog atomic.Int64
}

// New builds the strips described by cfg. Nothing animates until the first
// window size message arrives.
func New(cfg *config.Config, version string) (*App, error) {
	if cfg == nil {
		return nil, errors.New("app: nil config")
	}
	a := &App{
		config:       cfg,
		version:      version,
		keymap:       DefaultKeyMap(),
		styles:       common.DefaultStyles(),
		externalMsgs: make(chan tea.Msg, externalMsgBuffer),
	}
	strips, err := a.buildStrips(cfg)
	if err != nil {
		return nil, err
	}
	a.strips = strips
	return a, nil
}

func (a *App) buildStrips(cfg *config.Config) ([]*strip.Model, error) {
	mode := clock.ParseMode(cfg.Clock)
	out := make([]*strip.Model, 0, len(cfg.Strips))
	for i, sc := range cfg.Strips {
		if sc.Name == "" {
			sc.Name = fmt.Sprintf("strip %d", i+1)
		}
		m, err := strip.New(a.nextStripID, sc, cfg.ItemsFor(sc), cfg.TickInterval(), mode)
		if err != nil {
			return nil, fmt.Errorf("strips[%d]: %w", i, err)
		}
		a.nextStripID++
		out = append(out, m)
	}
	return out, nil
}

// WatchConfig reloads the configuration whenever path changes on disk.
// Messages reach the program through the sender set with SetMsgSender.
func (a *App) WatchConfig(path string) error {
	cw, err := newConfigWatcher(path, func(p string) {
		a.enqueueExternalMsg(messages.ConfigChanged{Path: p})
	})
	if err != nil {
		return err
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.watcher = cw
	a.watcherCancel = cancel
	safego.Go("config-watcher", func() {
		if err := cw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logging.Warn("config watcher stopped: %v", err)
		}
	})
	return nil
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	logging.Info("marquee %s: %d strips, clock=%s tick=%s",
		a.version, len(a.strips), a.config.Clock, a.config.TickInterval())
	return nil
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		for _, s := range a.strips {
			cmds = append(cmds, s.SetWidth(a.width))
		}

	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, a.keymap.Quit):
			a.quitting = true
			a.Shutdown()
			return a, tea.Quit
		case key.Matches(msg, a.keymap.Pause):
			cmds = append(cmds, a.togglePause())
		case key.Matches(msg, a.keymap.Restart):
			cmds = append(cmds, a.restartAll("restart requested"))
		}

	case strip.TickMsg:
		for _, s := range a.strips {
			if s.ID() == msg.ID {
				_, cmd := s.Update(msg)
				cmds = append(cmds, cmd)
				break
			}
		}

	case messages.ConfigChanged:
		path := msg.Path
		cmds = append(cmds, common.SafeCmd(func() tea.Msg {
			cfg, err := config.Load(path)
			return messages.ConfigReloaded{Config: cfg, Err: err}
		}))

	case messages.ConfigReloaded:
		cmds = append(cmds, a.applyConfig(msg))

	case messages.StripsRestarted:
		logging.Info("strips restarted: %s", msg.Reason)

	case messages.Error:
		a.err = msg
		if !msg.Logged {
			logging.Error("%v", msg)
		}
	}

	return a, common.SafeBatch(cmds...)
}

func (a *App) togglePause() tea.Cmd {
	a.paused = !a.paused
	var cmds []tea.Cmd
	for _, s := range a.strips {
		if a.paused {
			s.Pause()
			continue
		}
		cmds = append(cmds, s.Resume())
	}
	return common.SafeBatch(cmds...)
}

func (a *App) restartAll(reason string) tea.Cmd {
	cmds := make([]tea.Cmd, 0, len(a.strips)+1)
	for _, s := range a.strips {
		cmds = append(cmds, s.Restart())
	}
	cmds = append(cmds, func() tea.Msg { return messages.StripsRestarted{Reason: reason} })
	return common.SafeBatch(cmds...)
}

// applyConfig swaps in freshly built strips. A config that fails to load or
// build leaves the running strips untouched.
func (a *App) applyConfig(msg messages.ConfigReloaded) tea.Cmd {
	if msg.Err != nil {
		a.err = msg.Err
		return common.ReportError("config reload", msg.Err)
	}
	if msg.Config == nil {
		return nil
	}

	strips, err := a.buildStrips(msg.Config)
	if err != nil {
		a.err = err
		return common.ReportError("config reload", err)
	}
	logging.SetLevel(logging.ParseLevel(msg.Config.LogLevel))

	for _, s := range a.strips {
		s.Close()
	}
	a.config = msg.Config
	a.strips = strips
	a.err = nil
	if !a.ready {
		return nil
	}

	cmds := make([]tea.Cmd, 0, len(strips)+1)
	for _, s := range strips {
		if a.paused {
			s.Pause()
		}
		cmds = append(cmds, s.SetWidth(a.width))
	}
	cmds = append(cmds, func() tea.Msg { return messages.StripsRestarted{Reason: "config reloaded"} })
	return common.SafeBatch(cmds...)
}

// Shutdown stops every strip and the config watcher.
func (a *App) Shutdown() {
	for _, s := range a.strips {
		s.Close()
	}
	if a.watcherCancel != nil {
		a.watcherCancel()
	}
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
}

// Strips returns the live strips, top to bottom.
func (a *App) Strips() []*strip.Model { return a.strips }

// Paused reports whether animation is paused.
func (a *App) Paused() bool { return a.paused }
