package customerimport

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/backoffice/backend/internal/domain/customer"
	"github.com/backoffice/backend/internal/infrastructure/csvio"
	"github.com/backoffice/backend/internal/infrastructure/storage"
)

// ErrEmptyExport is returned when there are no customers to export.
var ErrEmptyExport = errors.New("no customers to export")

// Exporter renders the customer list into a downloadable CSV using the
// same display headers the import expects, so an exported file can be
// re-imported after editing.
type Exporter struct {
	store storage.ArtifactStorage
	now   func() time.Time
}

// NewExporter creates an Exporter backed by store.
func NewExporter(store storage.ArtifactStorage) *Exporter {
	return &Exporter{store: store, now: time.Now}
}

// ExportKey maps an export file name to its storage key.
func ExportKey(filename string) string {
	return "exports/" + filename
}

// Render produces the CSV bytes for the given customers without
// storing them. The output is BOM-prefixed UTF-8.
func (e *Exporter) Render(customers []customer.Customer) ([]byte, error) {
	if len(customers) == 0 {
		return nil, ErrEmptyExport
	}

	rows := make([][]string, len(customers))
	for i, c := range customers {
		rows[i] = []string{c.Name, c.Email, c.TelNum, c.Address}
	}
	return csvio.Marshal(RequiredHeaders(), rows)
}

// Export renders the customers and stores the artifact, returning the
// generated file name.
func (e *Exporter) Export(ctx context.Context, customers []customer.Customer) (string, error) {
	data, err := e.Render(customers)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("customers_export_%s.csv", e.now().Format("2006-01-02_150405"))
	if err := e.store.Put(ctx, ExportKey(filename), data); err != nil {
		return "", fmt.Errorf("failed to store export: %w", err)
	}
	return filename, nil
}

// Fetch retrieves a previously generated export by file name. Returns
// storage.ErrNotExist for unknown files.
func (e *Exporter) Fetch(ctx context.Context, filename string) ([]byte, error) {
	if strings.Contains(filename, "/") || strings.Contains(filename, "\\") || strings.Contains(filename, "..") {
		return nil, storage.ErrNotExist
	}
	return e.store.Get(ctx, ExportKey(filename))
}
