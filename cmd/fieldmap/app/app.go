// Package app provides the application context and dependency management
// for the fieldmap CLI. It centralizes configuration, logging and dataset
// access so commands only see the application.Application interface.
package app

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/fieldmap"
	"github.com/agentstation/fieldmap/internal/cmd/application"
	"github.com/agentstation/fieldmap/pkg/dataset"
	"github.com/agentstation/fieldmap/pkg/errors"
	"github.com/agentstation/fieldmap/pkg/logging"
)

// App represents the fieldmap application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
}

var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
// Configuration is loaded from the environment and config file, then
// options are applied.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format, empty for auto-detect.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// LoadDataset reads the dataset at location. The configured sheet and table
// apply unless opts override them.
func (a *App) LoadDataset(ctx context.Context, location string, opts ...dataset.Option) (*dataset.Table, error) {
	ctx = a.datasetContext(ctx, location, "load")
	t, err := dataset.Load(ctx, location, append(a.datasetOptions(), opts...)...)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().
		Str("dataset", location).
		Int("rows", t.Len()).
		Int("columns", len(t.Columns())).
		Msg("Loaded dataset")
	return t, nil
}

// SaveDataset writes t to location.
func (a *App) SaveDataset(ctx context.Context, t *dataset.Table, location string, opts ...dataset.Option) error {
	if t == nil {
		return errors.NewValidationError("table", nil, "cannot save a nil table")
	}
	ctx = a.datasetContext(ctx, location, "save")
	if err := dataset.Save(ctx, t, location, append(a.datasetOptions(), opts...)...); err != nil {
		return err
	}
	a.logger.Debug().Str("dataset", location).Int("rows", t.Len()).Msg("Saved dataset")
	return nil
}

// MapperOptions returns the mapper options derived from configuration.
func (a *App) MapperOptions() []fieldmap.Option {
	var opts []fieldmap.Option
	if a.config.KeyColumn != "" {
		opts = append(opts, fieldmap.WithKeyColumn(a.config.KeyColumn))
	}
	if a.config.Separator != "" {
		opts = append(opts, fieldmap.WithSeparator(a.config.Separator))
	}
	if a.config.ExpandLists {
		opts = append(opts, fieldmap.WithListExpansion())
	}
	switch {
	case !a.config.TokenOverlap:
		opts = append(opts, fieldmap.WithoutTokenOverlap())
	case a.config.TokenMinLength > 0:
		opts = append(opts, fieldmap.WithTokenOverlap(a.config.TokenMinLength))
	}
	return opts
}

func (a *App) datasetOptions() []dataset.Option {
	var opts []dataset.Option
	if a.config.Sheet != "" {
		opts = append(opts, dataset.WithSheet(a.config.Sheet))
	}
	if a.config.Table != "" {
		opts = append(opts, dataset.WithTable(a.config.Table))
	}
	return opts
}

func (a *App) datasetContext(ctx context.Context, location, operation string) context.Context {
	ctx = logging.WithLogger(ctx, a.logger)
	ctx = logging.WithDataset(ctx, location)
	return logging.WithOperation(ctx, operation)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		if config == nil {
			return errors.NewValidationError("config", nil, "config cannot be nil")
		}
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
