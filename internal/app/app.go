package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vkm/heatlamp/internal/catalog"
	"github.com/vkm/heatlamp/internal/config"
	"github.com/vkm/heatlamp/internal/ctxlog"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	loader  config.Loader
	catalog *catalog.Catalog

	experiment *config.Experiment
	entry      *catalog.Entry
}

// NewApp is the constructor for the main application. Loading and
// validating the experiment document happens here: a bad document is a
// fatal startup error, so it panics and the entrypoint recovers.
func NewApp(outW io.Writer, appConfig *Config, loader config.Loader) *App {
	logger := newLogger(appConfig.LogLevel, appConfig.LogFormat, outW)
	ctx := ctxlog.WithLogger(context.Background(), logger)
	logger.Debug("Logger configured successfully.")

	a := &App{
		outW:    outW,
		logger:  logger,
		config:  appConfig,
		loader:  loader,
		catalog: catalog.New(),
	}

	if appConfig.ListConfigs {
		return a
	}

	exp, err := loader.Load(ctx, appConfig.ConfigPath)
	if err != nil {
		panic(fmt.Errorf("failed to load experiment configuration: %w", err))
	}
	a.experiment = exp
	logger.Debug("Experiment configuration loaded.")

	if entry, ok := a.catalog.Find(exp.Dataset.Name, exp.Model.Name, exp.Explainer.Name); ok {
		a.entry = entry
		logger.Debug("Experiment matched catalog entry.", "coordinate", entry.Name)
	} else {
		logger.Warn("Experiment does not match any catalog entry; label names will be raw indices.",
			"dataset", exp.Dataset.Name, "model", exp.Model.Name, "explainer", exp.Explainer.Name)
	}

	return a
}

// Experiment returns the loaded experiment. Primarily for testing.
func (a *App) Experiment() *config.Experiment {
	return a.experiment
}

// coordinate names the experiment for output files and run records.
func (a *App) coordinate() string {
	if a.entry != nil {
		return a.entry.Name
	}
	return fmt.Sprintf("%s-%s", a.experiment.Dataset.Name, a.experiment.Explainer.Name)
}
