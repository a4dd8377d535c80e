// Package constants provides shared constants used throughout the fieldmap codebase.
package constants

import "time"

// Reconciliation defaults
const (
	// DefaultKeyColumn is the reserved record field and dataset column that identifies a row
	DefaultKeyColumn = "PDF_Name"

	// DefaultSeparator joins nested keys when flattening and splits field paths into tokens
	DefaultSeparator = "_"

	// DefaultMinTokenLength is the length a shared token must exceed for the
	// token-overlap strategy to accept a column
	DefaultMinTokenLength = 3
)

// DatasetOpenTimeout bounds the initial ping of a SQL-backed dataset
const DatasetOpenTimeout = 5 * time.Second

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)
