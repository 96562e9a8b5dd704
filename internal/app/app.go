package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/qdlab/pulsec/internal/builder"
	"github.com/qdlab/pulsec/internal/catalog"
	"github.com/qdlab/pulsec/internal/config"
	"github.com/qdlab/pulsec/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	catalog *catalog.Catalog
	config  *Config
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger and a catalog built
// from the loaded pulse definitions.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	// Load all definitions into the format-agnostic model first.
	model, err := loader.Load(ctx, appConfig.PulsePath)
	if err != nil {
		// A failure to load config is a fatal startup error.
		panic(fmt.Errorf("failed to load pulse definitions: %w", err))
	}
	logger.Debug("Pulse definitions loaded and translated into unified model.", "count", len(model.Order))

	// Resolve every reference and construct the template catalog.
	cat, err := builder.Build(model)
	if err != nil {
		panic(fmt.Errorf("failed to build pulse templates: %w", err))
	}
	logger.Debug("Template catalog built.", "templates", cat.Len())

	return &App{
		outW:    outW,
		logger:  logger,
		catalog: cat,
		config:  appConfig,
	}
}

// Catalog returns the application's template catalog. This is primarily for
// testing.
func (a *App) Catalog() *catalog.Catalog {
	return a.catalog
}
