package csvio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

// utf8BOM is the UTF-8 byte-order mark some spreadsheet tools prepend.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Parser reads a CSV stream with BOM tolerance and header-keyed row access.
type Parser struct {
	delimiter rune
	headerMap map[string]int
	headers   []string
	lineNum   int
	reader    *csv.Reader
	bufReader *bufio.Reader
}

// ParserOption is a functional option for Parser configuration
type ParserOption func(*Parser)

// WithDelimiter sets the field delimiter (default is comma)
func WithDelimiter(d rune) ParserOption {
	return func(p *Parser) {
		p.delimiter = d
	}
}

// NewParser creates a parser from a reader, stripping a leading UTF-8 BOM
// and rejecting non-UTF-8 content up front.
func NewParser(r io.Reader, opts ...ParserOption) (*Parser, error) {
	p := &Parser{
		delimiter: ',',
		headerMap: make(map[string]int),
		bufReader: bufio.NewReader(r),
	}
	for _, opt := range opts {
		opt(p)
	}

	head, err := p.bufReader.Peek(len(utf8BOM))
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if bytes.Equal(head, utf8BOM) {
		_, _ = p.bufReader.Discard(len(utf8BOM))
	}

	if err := checkUTF8(p.bufReader); err != nil {
		return nil, err
	}

	p.reader = csv.NewReader(p.bufReader)
	p.reader.Comma = p.delimiter
	p.reader.LazyQuotes = true
	p.reader.TrimLeadingSpace = true
	p.reader.FieldsPerRecord = -1 // rows may be ragged; missing cells map to ""

	return p, nil
}

// ParseBytes creates a parser from an in-memory file.
func ParseBytes(data []byte, opts ...ParserOption) (*Parser, error) {
	return NewParser(bytes.NewReader(data), opts...)
}

// checkUTF8 peeks at the leading content and verifies it is valid UTF-8.
func checkUTF8(r *bufio.Reader) error {
	const checkSize = 4096
	content, err := r.Peek(checkSize)
	if err != nil && err != io.EOF {
		return fmt.Errorf("failed to read file for encoding check: %w", err)
	}
	if len(content) == 0 {
		return ErrEmptyFile
	}
	// Trim a rune that may be split by the peek window before validating.
	if len(content) == checkSize {
		for i := 0; i < utf8.UTFMax && len(content) > 0; i++ {
			if r, _ := utf8.DecodeLastRune(content); r != utf8.RuneError {
				break
			}
			content = content[:len(content)-1]
		}
	}
	if !utf8.Valid(content) {
		return ErrInvalidEncoding
	}
	return nil
}

// ParseHeader reads the header line and builds the name-to-column lookup.
func (p *Parser) ParseHeader() error {
	record, err := p.reader.Read()
	if err == io.EOF {
		return ErrMissingHeader
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}

	p.headers = make([]string, len(record))
	for i, h := range record {
		h = strings.TrimSpace(h)
		p.headers[i] = h
		p.headerMap[h] = i
	}
	if len(p.headers) == 0 {
		return ErrMissingHeader
	}

	p.lineNum = 1
	return nil
}

// Headers returns the parsed header names in file order.
func (p *Parser) Headers() []string {
	return p.headers
}

// HasHeader checks if a header exists
func (p *Parser) HasHeader(name string) bool {
	_, ok := p.headerMap[name]
	return ok
}

// MissingHeaders returns the entries of required absent from the header
// line, in the order given.
func (p *Parser) MissingHeaders(required []string) []string {
	var missing []string
	for _, h := range required {
		if !p.HasHeader(h) {
			missing = append(missing, h)
		}
	}
	return missing
}

// Row is one parsed data row keyed by header name.
type Row struct {
	LineNumber int
	Data       map[string]string
}

// Get returns the trimmed value for a column, or "" when the column is
// absent from the row.
func (r *Row) Get(header string) string {
	return r.Data[header]
}

// IsEmpty returns true if the row has no non-empty values
func (r *Row) IsEmpty() bool {
	for _, v := range r.Data {
		if v != "" {
			return false
		}
	}
	return true
}

// ReadRow reads the next data row. Returns io.EOF at end of input.
func (p *Parser) ReadRow() (*Row, error) {
	record, err := p.reader.Read()
	if err == io.EOF {
		return nil, io.EOF
	}
	p.lineNum++
	if err != nil {
		return nil, fmt.Errorf("error reading row %d: %w", p.lineNum, err)
	}

	row := &Row{
		LineNumber: p.lineNum,
		Data:       make(map[string]string, len(p.headers)),
	}
	for i, header := range p.headers {
		if i < len(record) {
			row.Data[header] = strings.TrimSpace(record[i])
		} else {
			row.Data[header] = ""
		}
	}
	return row, nil
}

// ReadAllRows reads every remaining data row, skipping fully empty lines.
func (p *Parser) ReadAllRows() ([]*Row, error) {
	var rows []*Row
	for {
		row, err := p.ReadRow()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if row.IsEmpty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
