package fieldmap

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/fieldmap/pkg/constants"
	"github.com/agentstation/fieldmap/pkg/errors"
	"github.com/agentstation/fieldmap/pkg/flatten"
	"github.com/agentstation/fieldmap/pkg/reconcile"
)

// config holds the Mapper configuration.
type config struct {
	keyColumn   string
	separator   string
	expandLists bool
	logger      *zerolog.Logger
	reconcile   []reconcile.Option
}

func defaultConfig() *config {
	return &config{
		keyColumn: constants.DefaultKeyColumn,
		separator: constants.DefaultSeparator,
	}
}

// Option is a function that configures a Mapper.
type Option func(*config) error

func (c *config) apply(opts ...Option) (*config, error) {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (c *config) flattenOptions() []flatten.Option {
	opts := []flatten.Option{flatten.WithSeparator(c.separator)}
	if c.expandLists {
		opts = append(opts, flatten.WithListExpansion())
	}
	return opts
}

func (c *config) reconcileOptions() []reconcile.Option {
	opts := []reconcile.Option{reconcile.WithSeparator(c.separator)}
	if c.logger != nil {
		opts = append(opts, reconcile.WithLogger(c.logger))
	}
	return append(opts, c.reconcile...)
}

// WithKeyColumn sets the column identifying rows. Defaults to PDF_Name.
func WithKeyColumn(column string) Option {
	return func(c *config) error {
		if column == "" {
			return &errors.ValidationError{
				Field:   "key_column",
				Message: "cannot be empty",
			}
		}
		c.keyColumn = column
		return nil
	}
}

// WithSeparator sets the separator joining nested keys and splitting paths.
func WithSeparator(sep string) Option {
	return func(c *config) error {
		if sep == "" {
			return &errors.ValidationError{
				Field:   "separator",
				Message: "cannot be empty",
			}
		}
		c.separator = sep
		return nil
	}
}

// WithListExpansion flattens list values element by element.
func WithListExpansion() Option {
	return func(c *config) error {
		c.expandLists = true
		return nil
	}
}

// WithoutTokenOverlap disables the token-overlap fallback.
func WithoutTokenOverlap() Option {
	return func(c *config) error {
		c.reconcile = append(c.reconcile, reconcile.WithoutTokenOverlap())
		return nil
	}
}

// WithTokenOverlap sets the rune count a shared token must exceed.
func WithTokenOverlap(minLength int) Option {
	return func(c *config) error {
		c.reconcile = append(c.reconcile, reconcile.WithTokenOverlap(minLength))
		return nil
	}
}

// WithStrategies replaces the matching cascade.
func WithStrategies(strategies ...reconcile.Strategy) Option {
	return func(c *config) error {
		c.reconcile = append(c.reconcile, reconcile.WithStrategies(strategies...))
		return nil
	}
}

// WithReporter sets the receiver of per-field mapping notifications.
func WithReporter(r reconcile.Reporter) Option {
	return func(c *config) error {
		c.reconcile = append(c.reconcile, reconcile.WithReporter(r))
		return nil
	}
}

// WithLogger sets the logger. The context logger is used when unset.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}
