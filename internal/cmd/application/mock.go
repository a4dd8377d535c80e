package application

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/agentstation/fieldmap"
	"github.com/agentstation/fieldmap/pkg/dataset"
)

// Mock provides a mock implementation of Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    LoadDatasetFunc: func(context.Context, string, ...dataset.Option) (*dataset.Table, error) {
//	        return testTable, nil
//	    },
//	}
//	cmd := stats.NewCommand(mock)
type Mock struct {
	LoadDatasetFunc   func(ctx context.Context, location string, opts ...dataset.Option) (*dataset.Table, error)
	SaveDatasetFunc   func(ctx context.Context, t *dataset.Table, location string, opts ...dataset.Option) error
	MapperOptionsFunc func() []fieldmap.Option
	LoggerFunc        func() *zerolog.Logger
	OutputFormatFunc  func() string
	VersionFunc       func() string
	CommitFunc        func() string
	DateFunc          func() string
	BuiltByFunc       func() string
}

var _ Application = (*Mock)(nil)

// LoadDataset returns a table using the mock function or an error.
func (m *Mock) LoadDataset(ctx context.Context, location string, opts ...dataset.Option) (*dataset.Table, error) {
	if m.LoadDatasetFunc != nil {
		return m.LoadDatasetFunc(ctx, location, opts...)
	}
	return nil, fmt.Errorf("mock: no dataset for %q", location)
}

// SaveDataset saves using the mock function or does nothing.
func (m *Mock) SaveDataset(ctx context.Context, t *dataset.Table, location string, opts ...dataset.Option) error {
	if m.SaveDatasetFunc != nil {
		return m.SaveDatasetFunc(ctx, t, location, opts...)
	}
	return nil
}

// MapperOptions returns options using the mock function or none.
func (m *Mock) MapperOptions() []fieldmap.Option {
	if m.MapperOptionsFunc != nil {
		return m.MapperOptionsFunc()
	}
	return nil
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "table".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return "table"
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builder using the mock function or "unknown".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "unknown"
}
