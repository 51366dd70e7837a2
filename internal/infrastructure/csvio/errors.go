// Package csvio handles reading and writing the CSV wire formats used by
// the bulk-import and export pipelines: UTF-8, optional byte-order mark,
// comma-delimited, header-keyed field access.
package csvio

import (
	"errors"
	"fmt"
	"strings"
)

// File-level errors. Any of these aborts the whole file before a single
// data row is validated.
var (
	// ErrEmptyFile is returned when the file has no content at all
	ErrEmptyFile = errors.New("CSV file is empty")

	// ErrInvalidEncoding is returned when the content is not valid UTF-8
	ErrInvalidEncoding = errors.New("invalid file encoding, expected UTF-8")

	// ErrMissingHeader is returned when the file has no header row
	ErrMissingHeader = errors.New("CSV file missing header row")

	// ErrNoDataRows is returned when the file has a header but no data rows
	ErrNoDataRows = errors.New("CSV file contains no data rows")
)

// MissingHeadersError reports required columns absent from the file's
// header line. It carries the missing display names in declaration order.
type MissingHeadersError struct {
	Missing []string
}

// Error implements the error interface
func (e *MissingHeadersError) Error() string {
	return fmt.Sprintf("CSV file is missing required columns: %s", strings.Join(e.Missing, ", "))
}
