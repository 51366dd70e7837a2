package customerimport

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/backoffice/backend/internal/domain/customer"
	"github.com/backoffice/backend/internal/infrastructure/csvio"
	"github.com/backoffice/backend/internal/infrastructure/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCustomers(t *testing.T) []customer.Customer {
	t.Helper()
	a, err := customer.NewCustomer("Nguyễn Văn An", "an@example.com", "0912345678", "Hà Nội")
	require.NoError(t, err)
	b, err := customer.NewCustomer("Trần Thị Bình", "binh@example.com", "0987654321", "Đà Nẵng")
	require.NoError(t, err)
	return []customer.Customer{*a, *b}
}

func TestExporter_Render(t *testing.T) {
	e := NewExporter(nil)

	t.Run("empty set is an error", func(t *testing.T) {
		_, err := e.Render(nil)
		assert.ErrorIs(t, err, ErrEmptyExport)
	})

	t.Run("renders display headers with BOM", func(t *testing.T) {
		data, err := e.Render(testCustomers(t))
		require.NoError(t, err)

		content := string(data)
		assert.True(t, strings.HasPrefix(content, "\xEF\xBB\xBF"))
		assert.Contains(t, content, "Tên khách hàng,Email,TelNum,Địa chỉ")
		assert.Contains(t, content, "Nguyễn Văn An,an@example.com,0912345678,Hà Nội")
	})

	t.Run("exported file re-imports cleanly", func(t *testing.T) {
		data, err := e.Render(testCustomers(t))
		require.NoError(t, err)

		parser, err := csvio.ParseBytes(data)
		require.NoError(t, err)
		require.NoError(t, parser.ParseHeader())
		assert.Empty(t, parser.MissingHeaders(RequiredHeaders()))

		rows, err := parser.ReadAllRows()
		require.NoError(t, err)
		records := NewRecordMapper().MapRows(rows)

		result := ValidateBatch(records, customer.EmailSet{})
		assert.False(t, result.AnyInvalid)
	})
}

func TestExporter_Export(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	e := NewExporter(store)
	e.now = func() time.Time { return time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC) }

	filename, err := e.Export(context.Background(), testCustomers(t))
	require.NoError(t, err)
	assert.Equal(t, "customers_export_2024-01-02_150405.csv", filename)

	data, err := store.Get(context.Background(), ExportKey(filename))
	require.NoError(t, err)
	assert.Contains(t, string(data), "binh@example.com")
}

func TestErrorReportWriter(t *testing.T) {
	ctx := context.Background()

	newWriter := func(t *testing.T) *ErrorReportWriter {
		t.Helper()
		store, err := storage.NewLocalStorage(t.TempDir())
		require.NoError(t, err)
		return NewErrorReportWriter(store)
	}

	t.Run("file name carries the timestamp", func(t *testing.T) {
		w := newWriter(t)
		w.now = func() time.Time { return time.Date(2024, 1, 2, 15, 4, 5, 0, time.UTC) }

		filename, err := w.Write(ctx, []customer.RowOutcome{
			{Record: customer.ImportRecord{Name: "Bad"}, Violations: []string{MsgNameTooShort}},
		})
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(filename, "customer_import_errors_2024-01-02_150405_"))
		assert.True(t, strings.HasSuffix(filename, ".csv"))
	})

	t.Run("violations are pipe-joined in one cell", func(t *testing.T) {
		w := newWriter(t)

		filename, err := w.Write(ctx, []customer.RowOutcome{
			{
				Record:     customer.ImportRecord{Name: "Bad", Email: "x", TelNum: "1", Address: "a"},
				Violations: []string{MsgNameTooShort, MsgEmailFormat},
			},
		})
		require.NoError(t, err)

		data, err := w.Fetch(ctx, filename)
		require.NoError(t, err)
		assert.Contains(t, string(data), MsgNameTooShort+" | "+MsgEmailFormat)
	})

	t.Run("valid rows are excluded", func(t *testing.T) {
		w := newWriter(t)

		filename, err := w.Write(ctx, []customer.RowOutcome{
			{Record: customer.ImportRecord{Name: "Nguyễn Văn An", Email: "an@example.com", TelNum: "0912345678", Address: "Hà Nội"}},
			{Record: customer.ImportRecord{Name: "Bad"}, Violations: []string{MsgNameTooShort}},
		})
		require.NoError(t, err)

		data, err := w.Fetch(ctx, filename)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "an@example.com")
		assert.Contains(t, string(data), MsgNameTooShort)
	})

	t.Run("fetch rejects path traversal", func(t *testing.T) {
		w := newWriter(t)
		_, err := w.Fetch(ctx, "../secrets.csv")
		assert.ErrorIs(t, err, storage.ErrNotExist)
	})

	t.Run("fetch of unknown report", func(t *testing.T) {
		w := newWriter(t)
		_, err := w.Fetch(ctx, "customer_import_errors_nope.csv")
		assert.ErrorIs(t, err, storage.ErrNotExist)
	})
}
