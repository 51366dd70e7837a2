package customerimport

import (
	"github.com/backoffice/backend/internal/domain/customer"
	"github.com/backoffice/backend/internal/infrastructure/csvio"
)

// RecordMapper converts parsed CSV rows into canonical import records.
// Rows are keyed by header name, so the column order in the file does
// not matter. Mapping is deterministic: the same row always produces
// the same record.
type RecordMapper struct{}

// NewRecordMapper creates a RecordMapper.
func NewRecordMapper() *RecordMapper {
	return &RecordMapper{}
}

// MapRow converts a single CSV row into an ImportRecord. Values for
// absent headers come through as empty strings; validation decides
// whether that is acceptable.
func (m *RecordMapper) MapRow(row *csvio.Row) customer.ImportRecord {
	return customer.ImportRecord{
		Name:    row.Get(HeaderCustomerName),
		Email:   row.Get(HeaderEmail),
		TelNum:  row.Get(HeaderTelNum),
		Address: row.Get(HeaderAddress),
	}
}

// MapRows converts all rows, preserving file order.
func (m *RecordMapper) MapRows(rows []*csvio.Row) []customer.ImportRecord {
	records := make([]customer.ImportRecord, len(rows))
	for i, row := range rows {
		records[i] = m.MapRow(row)
	}
	return records
}
