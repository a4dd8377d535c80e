package reconcile

import (
	"github.com/rs/zerolog"
)

// Reporter receives a notification for every field written into a result.
// Reporting never influences matching.
type Reporter interface {
	Mapped(field, column string, strategy StrategyType)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(field, column string, strategy StrategyType)

// Mapped implements Reporter.
func (f ReporterFunc) Mapped(field, column string, strategy StrategyType) {
	f(field, column, strategy)
}

// LogReporter logs each mapping at debug level.
type LogReporter struct {
	logger *zerolog.Logger
}

// NewLogReporter creates a reporter writing to logger.
func NewLogReporter(logger *zerolog.Logger) *LogReporter {
	return &LogReporter{logger: logger}
}

// Mapped implements Reporter.
func (r *LogReporter) Mapped(field, column string, strategy StrategyType) {
	r.logger.Debug().
		Str("field", field).
		Str("column", column).
		Str("strategy", strategy.String()).
		Msg("Mapped field")
}

type nopReporter struct{}

func (nopReporter) Mapped(string, string, StrategyType) {}

// NopReporter discards every notification.
func NopReporter() Reporter {
	return nopReporter{}
}
