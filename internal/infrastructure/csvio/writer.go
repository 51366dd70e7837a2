package csvio

import (
	"bytes"
	"encoding/csv"
	"fmt"
)

// Marshal renders header plus rows as CSV bytes prefixed with the UTF-8
// BOM, which keeps spreadsheet tools from mangling multibyte text.
func Marshal(header []string, rows [][]string) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, row := range rows {
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush CSV: %w", err)
	}
	return buf.Bytes(), nil
}
