// Package app wires the session registry, archive, and event bus into
// a single lifecycle-managed application.
package app

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/Boltio1992/BottleMessage/internal/archive"
	"github.com/Boltio1992/BottleMessage/internal/bus"
	"github.com/Boltio1992/BottleMessage/internal/config"
	"github.com/Boltio1992/BottleMessage/internal/store"
	"github.com/Boltio1992/BottleMessage/pkg/interfaces"
)

// Application coordinates all system components.
type Application struct {
	config  *config.Config
	archive interfaces.Archive
	store   *store.Store
	bus     *bus.Bus
}

// NewApplication builds the component graph in dependency order:
// Archive → Bus → Store. The store hydrates from the archive and
// sweeps sessions past the retention window before anything else runs.
func NewApplication(cfg *config.Config) (*Application, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	arch, err := archive.Open(cfg.Archive.Backend, cfg.Archive.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s archive: %w", cfg.Archive.Backend, err)
	}

	eventBus := bus.New(cfg.Bus.TickInterval)

	sessionStore := store.New(arch, eventBus)
	if err := sessionStore.LoadSessions(context.Background()); err != nil {
		arch.Close()
		return nil, fmt.Errorf("failed to load sessions: %w", err)
	}

	if removed := sessionStore.SweepExpired(cfg.Store.RetentionWindow); removed > 0 {
		log.Info().Int("removed", removed).Msg("swept sessions past retention window")
	}

	return &Application{
		config:  cfg,
		archive: arch,
		store:   sessionStore,
		bus:     eventBus,
	}, nil
}

// Start begins background processing. The bus ticker drives every
// mounted view's periodic refresh.
func (app *Application) Start(ctx context.Context) error {
	if err := app.bus.Start(ctx); err != nil {
		return fmt.Errorf("failed to start event bus: %w", err)
	}
	log.Info().
		Str("backend", app.config.Archive.Backend).
		Int("sessions", len(app.store.ListSessions())).
		Msg("application started")
	return nil
}

// Stop shuts the application down in reverse dependency order:
// Bus → Store → Archive.
func (app *Application) Stop() error {
	if err := app.bus.Stop(); err != nil {
		log.Warn().Err(err).Msg("event bus shutdown error")
	}

	app.store.Stop()

	if err := app.archive.Close(); err != nil {
		log.Warn().Err(err).Msg("archive shutdown error")
	}

	log.Info().Msg("application shutdown complete")
	return nil
}

// Store exposes the session registry for views and the CLI.
func (app *Application) Store() *store.Store {
	return app.store
}

// Bus exposes the event bus for view subscriptions.
func (app *Application) Bus() *bus.Bus {
	return app.bus
}

// Config returns the effective configuration.
func (app *Application) Config() *config.Config {
	return app.config
}
