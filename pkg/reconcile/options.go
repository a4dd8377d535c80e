package reconcile

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/fieldmap/pkg/constants"
	"github.com/agentstation/fieldmap/pkg/errors"
	"github.com/agentstation/fieldmap/pkg/logging"
)

// options configures a reconciler.
type options struct {
	separator      string
	strategies     []Strategy
	tokenOverlap   bool
	minTokenLength int
	reporter       Reporter
	logger         *zerolog.Logger
}

func defaultOptions() *options {
	return &options{
		separator:      constants.DefaultSeparator,
		tokenOverlap:   true,
		minTokenLength: constants.DefaultMinTokenLength,
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	o, err := defaultOptions().apply(opts...)
	if err != nil {
		return nil, err
	}
	if o.logger == nil {
		o.logger = logging.Default()
	}
	if o.reporter == nil {
		o.reporter = NewLogReporter(o.logger)
	}
	if o.strategies == nil {
		o.strategies = DefaultStrategies(o.separator, o.minTokenLength)
		if !o.tokenOverlap {
			o.strategies = o.strategies[:len(o.strategies)-1]
		}
	}
	return o, nil
}

// WithSeparator sets the separator used to split field paths.
func WithSeparator(sep string) Option {
	return func(o *options) error {
		if sep == "" {
			return &errors.ValidationError{
				Field:   "separator",
				Message: "cannot be empty",
			}
		}
		o.separator = sep
		return nil
	}
}

// WithStrategies replaces the default cascade. Strategies run in the given order.
func WithStrategies(strategies ...Strategy) Option {
	return func(o *options) error {
		if len(strategies) == 0 {
			return &errors.ValidationError{
				Field:   "strategies",
				Message: "at least one strategy is required",
			}
		}
		for _, s := range strategies {
			if s == nil {
				return &errors.ValidationError{
					Field:   "strategies",
					Message: "cannot contain nil",
				}
			}
		}
		o.strategies = strategies
		return nil
	}
}

// WithoutTokenOverlap drops the token-overlap heuristic from the default cascade.
func WithoutTokenOverlap() Option {
	return func(o *options) error {
		o.tokenOverlap = false
		return nil
	}
}

// WithTokenOverlap keeps the heuristic and sets the rune count a shared token
// must exceed to count.
func WithTokenOverlap(minLength int) Option {
	return func(o *options) error {
		if minLength < 0 {
			return &errors.ValidationError{
				Field:   "min_token_length",
				Value:   minLength,
				Message: "cannot be negative",
			}
		}
		o.tokenOverlap = true
		o.minTokenLength = minLength
		return nil
	}
}

// WithReporter sets the receiver of mapping notifications.
func WithReporter(r Reporter) Option {
	return func(o *options) error {
		if r == nil {
			return &errors.ValidationError{
				Field:   "reporter",
				Message: "cannot be nil",
			}
		}
		o.reporter = r
		return nil
	}
}

// WithLogger sets the logger used by the default reporter.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		o.logger = logger
		return nil
	}
}
