package app

import (
	"context"
	"errors"

	"github.com/bassista/quillpad/internal/config"
	"github.com/bassista/quillpad/internal/logger"
	"github.com/bassista/quillpad/internal/prefs"
	"github.com/bassista/quillpad/internal/session"
	"github.com/bassista/quillpad/internal/storage"
)

// App is the application container (immutable dependencies + lifecycle context).
// It is not a request context; handlers should still use gin's request context.
type App struct {
	Config      *config.Config
	Files       storage.Port
	Prefs       *prefs.FileStore
	Coordinator *session.Coordinator

	BaseCtx context.Context
	Cancel  context.CancelFunc
}

func New(cfg *config.Config, files storage.Port, prefStore *prefs.FileStore, coordinator *session.Coordinator) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if files == nil {
		return nil, errors.New("storage port is nil")
	}
	if prefStore == nil {
		return nil, errors.New("preference store is nil")
	}
	if coordinator == nil {
		return nil, errors.New("coordinator is nil")
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config:      cfg,
		Files:       files,
		Prefs:       prefStore,
		Coordinator: coordinator,
		BaseCtx:     ctx,
		Cancel:      cancel,
	}, nil
}

// StartWatchers starts the preference-file watcher and wires the
// coordinator's scheduler and preference subscription.
func (a *App) StartWatchers() error {
	if err := a.Prefs.StartWatcher(a.BaseCtx); err != nil {
		return err
	}
	a.Coordinator.Start(a.BaseCtx)
	return nil
}

// Shutdown makes a final autosave attempt, stops the scheduler and cancels
// the lifecycle context. The final attempt uses a background context so an
// already-cancelled lifecycle does not abort the write.
func (a *App) Shutdown() {
	if a == nil {
		return
	}
	if a.Coordinator != nil {
		a.Coordinator.Stop()
		if _, ok := a.Coordinator.Autosave(context.Background()); ok {
			logger.WithComponent("app").Info("final autosave completed on shutdown")
		}
	}
	if a.Cancel != nil {
		a.Cancel()
	}
}
