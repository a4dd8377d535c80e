package fieldmap

import (
	"github.com/agentstation/fieldmap/pkg/errors"
	"github.com/agentstation/fieldmap/pkg/reconcile"
)

// Outcome reports the result of a single insertion.
// Failures carry Success=false, a Message and a typed Err; nothing is written.
type Outcome struct {
	Success bool   `json:"success" yaml:"success"`
	Message string `json:"message" yaml:"message"`
	Err     error  `json:"-" yaml:"-"`

	// ErrorKind is errors.Kind(Err), kept for serialization.
	ErrorKind string `json:"error_kind,omitempty" yaml:"error_kind,omitempty"`

	RowKey string `json:"row_key,omitempty" yaml:"row_key,omitempty"`
	// RowIndex is the 1-based position of the row among data rows.
	RowIndex      int             `json:"row_index,omitempty" yaml:"row_index,omitempty"`
	FieldsMapped  int             `json:"fields_mapped" yaml:"fields_mapped"`
	FieldsWritten int             `json:"fields_written" yaml:"fields_written"`
	MappedColumns []string        `json:"mapped_columns,omitempty" yaml:"mapped_columns,omitempty"`
	Trace         reconcile.Trace `json:"trace,omitempty" yaml:"trace,omitempty"`
}

func failed(rowKey string, err error) Outcome {
	return Outcome{
		Success:   false,
		Message:   err.Error(),
		Err:       err,
		ErrorKind: errors.Kind(err),
		RowKey:    rowKey,
	}
}
