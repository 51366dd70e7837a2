package customerimport

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/backoffice/backend/internal/domain/customer"
	"github.com/backoffice/backend/internal/infrastructure/csvio"
	"github.com/backoffice/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
)

// violationSeparator joins the violations of one row into a single
// cell of the error report.
const violationSeparator = " | "

// errorReportHeader is the header line of generated error reports.
var errorReportHeader = []string{"customer_name", "email", "tel_num", "address", "errors"}

// ErrorReportWriter renders the rows of a rejected import into a
// UTF-8 CSV artifact and stores it for later download.
type ErrorReportWriter struct {
	store storage.ArtifactStorage
	now   func() time.Time
}

// NewErrorReportWriter creates an ErrorReportWriter backed by store.
func NewErrorReportWriter(store storage.ArtifactStorage) *ErrorReportWriter {
	return &ErrorReportWriter{store: store, now: time.Now}
}

// ErrorReportKey maps an error report file name to its storage key.
func ErrorReportKey(filename string) string {
	return "imports/errors/" + filename
}

// Write renders the rejected rows of the batch, in input order, and
// stores the artifact. Valid rows are excluded; the uploader fixes the
// reported rows against the original file and resubmits. Returns the
// generated file name.
func (w *ErrorReportWriter) Write(ctx context.Context, rows []customer.RowOutcome) (string, error) {
	csvRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		if len(row.Violations) == 0 {
			continue
		}
		csvRows = append(csvRows, []string{
			row.Record.Name,
			row.Record.Email,
			row.Record.TelNum,
			row.Record.Address,
			strings.Join(row.Violations, violationSeparator),
		})
	}

	data, err := csvio.Marshal(errorReportHeader, csvRows)
	if err != nil {
		return "", fmt.Errorf("failed to render error report: %w", err)
	}

	filename := fmt.Sprintf("customer_import_errors_%s_%s.csv",
		w.now().Format("2006-01-02_150405"),
		uuid.New().String()[:8],
	)
	if err := w.store.Put(ctx, ErrorReportKey(filename), data); err != nil {
		return "", fmt.Errorf("failed to store error report: %w", err)
	}
	return filename, nil
}

// Fetch retrieves a previously generated error report by file name.
// Returns storage.ErrNotExist when the report is unknown or expired.
func (w *ErrorReportWriter) Fetch(ctx context.Context, filename string) ([]byte, error) {
	if strings.Contains(filename, "/") || strings.Contains(filename, "\\") || strings.Contains(filename, "..") {
		return nil, storage.ErrNotExist
	}
	return w.store.Get(ctx, ErrorReportKey(filename))
}
