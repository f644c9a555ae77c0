package main

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"markestedt/keywatch/config"
	"markestedt/keywatch/hook"
	"markestedt/keywatch/platform"
	"markestedt/keywatch/storage"
	"markestedt/keywatch/web"
)

// Agent coordinates the hook service, the notification receiver, the audit
// log and the monitor server
type Agent struct {
	cfg *config.Config
	svc *hook.Service
	db  *storage.DB
	web *web.Server

	mu      sync.Mutex
	watcher *hook.Watcher
}

// NewAgent creates a new agent instance
func NewAgent(cfg *config.Config) (*Agent, error) {
	dir, err := config.Dir()
	if err != nil {
		return nil, err
	}

	db, err := storage.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}

	svc := hook.New(platform.NewBinding())

	a := &Agent{
		cfg: cfg,
		svc: svc,
		db:  db,
	}
	if cfg.Web.Enabled {
		a.web = web.NewServer(db, svc, cfg.Web.Port)
	}
	return a, nil
}

// Run starts the agent's main event loop. toggle pauses or resumes capture.
func (a *Agent) Run(ctx context.Context, toggle <-chan struct{}) error {
	defer a.db.Close()

	msgID, err := a.svc.MessageID()
	if err != nil {
		return fmt.Errorf("failed to resolve notification message: %w", err)
	}

	receiver, err := platform.NewReceiver(msgID)
	if err != nil {
		return fmt.Errorf("failed to create receiver window: %w", err)
	}
	defer receiver.Close()

	// Register the configured watches against the receiver window.
	for _, w := range a.cfg.Watches {
		combo, err := config.ParseCombo(w.Combo)
		if err != nil {
			return fmt.Errorf("invalid watch combo %q: %w", w.Combo, err)
		}
		vk, err := platform.VKCode(combo.Key)
		if err != nil {
			return fmt.Errorf("invalid watch combo %q: %w", w.Combo, err)
		}
		a.svc.RequestKeyNotification(receiver.Handle(), vk, combo.Mods, w.Block)
		slog.Info("Watching", "combo", w.Combo, "block", w.Block)
	}

	if a.web != nil {
		go func() {
			if err := a.web.Start(); err != nil {
				slog.Error("Web server stopped", "error", err)
			}
		}()
	}

	if a.cfg.Capture.StartPaused {
		slog.Info("Capture starting paused")
		if a.web != nil {
			a.web.SetPaused(true)
		}
	} else if err := a.resume(); err != nil {
		return err
	}

	slog.Info("KeyWatch started", "entries", a.svc.Registry().Len())

	// Main event loop
	for {
		select {
		case <-ctx.Done():
			a.pause()
			return nil

		case <-toggle:
			if err := a.togglePause(); err != nil {
				slog.Error("Failed to toggle capture", "error", err)
			}

		case evt, ok := <-receiver.Events():
			if !ok {
				return nil
			}
			a.handleEvent(evt)
		}
	}
}

// handleEvent fans a delivered notification out to the log, the audit
// database and the monitor feed
func (a *Agent) handleEvent(evt platform.KeyEvent) {
	keyName := platform.KeyName(evt.Key)
	slog.Info("Key notification", "key", keyName, "modifiers", evt.Mods.String(), "blocked", evt.Blocked)

	rec := &storage.KeyEvent{
		Timestamp:    evt.When,
		KeyCode:      evt.Key,
		KeyName:      keyName,
		ModifierMask: uint16(evt.Mods),
		ModifierText: evt.Mods.String(),
		Blocked:      evt.Blocked,
	}
	if err := a.db.SaveKeyEvent(rec); err != nil {
		slog.Error("Failed to save key event", "error", err)
	}
	if a.web != nil {
		a.web.BroadcastKeyEvent(rec)
	}
}

// resume opens the hook subscription if capture is currently paused
func (a *Agent) resume() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.watcher != nil {
		return nil
	}
	w, err := a.svc.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start capture: %w", err)
	}
	a.watcher = w
	slog.Info("Capture resumed")
	if a.web != nil {
		a.web.SetPaused(false)
	}
	return nil
}

// pause closes the hook subscription, uninstalling the hook
func (a *Agent) pause() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.watcher == nil {
		return
	}
	if err := a.watcher.Close(); err != nil {
		slog.Error("Failed to release hook", "error", err)
	}
	a.watcher = nil
	slog.Info("Capture paused")
	if a.web != nil {
		a.web.SetPaused(true)
	}
}

func (a *Agent) togglePause() error {
	a.mu.Lock()
	paused := a.watcher == nil
	a.mu.Unlock()
	if paused {
		return a.resume()
	}
	a.pause()
	return nil
}
