package customerimport

import (
	"context"
	"errors"
	"fmt"

	"github.com/backoffice/backend/internal/domain/customer"
	"github.com/backoffice/backend/internal/infrastructure/csvio"
	"github.com/backoffice/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// File-level import failures. These mean no row was examined at all.
var (
	// ErrEmptyFile is returned for files with no content.
	ErrEmptyFile = csvio.ErrEmptyFile
	// ErrNoDataRows is returned for files carrying headers but no rows.
	ErrNoDataRows = csvio.ErrNoDataRows
	// ErrUnreadable is returned for files the CSV parser cannot decode.
	ErrUnreadable = errors.New("CSV file could not be read")
)

// MissingHeadersError reports the required columns absent from an
// import file.
type MissingHeadersError = csvio.MissingHeadersError

// ImportResult is the terminal outcome of a completed import. Exactly
// one of the two branches is populated: a committed import carries the
// inserted count, a rejected one carries the error report file name.
type ImportResult struct {
	Committed     bool
	ImportedCount int
	ErrorFileName string
}

// Coordinator drives one import request end to end: parse, map,
// validate, then either persist the whole batch or publish an error
// report. No partial imports are possible; either every row is
// inserted or none is.
type Coordinator struct {
	repo   customer.Repository
	errors *ErrorReportWriter
}

// NewCoordinator creates an import Coordinator.
func NewCoordinator(repo customer.Repository, errorWriter *ErrorReportWriter) *Coordinator {
	return &Coordinator{repo: repo, errors: errorWriter}
}

// Import processes one uploaded CSV file. File-level failures (empty
// file, missing columns, undecodable content) return an error and
// produce no artifact. Row-level failures reject the batch and return
// a result carrying the error report name. Only a fully valid batch is
// committed.
func (c *Coordinator) Import(ctx context.Context, data []byte) (*ImportResult, error) {
	log := logger.FromContext(ctx)

	parser, err := csvio.ParseBytes(data)
	if err != nil {
		if errors.Is(err, csvio.ErrEmptyFile) || errors.Is(err, csvio.ErrInvalidEncoding) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}

	if err := parser.ParseHeader(); err != nil {
		if errors.Is(err, csvio.ErrMissingHeader) {
			return nil, csvio.ErrEmptyFile
		}
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if missing := parser.MissingHeaders(RequiredHeaders()); len(missing) > 0 {
		return nil, &csvio.MissingHeadersError{Missing: missing}
	}

	rows, err := parser.ReadAllRows()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if len(rows) == 0 {
		return nil, csvio.ErrNoDataRows
	}

	records := NewRecordMapper().MapRows(rows)

	persisted, err := c.repo.Emails(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load existing emails: %w", err)
	}

	batch := ValidateBatch(records, persisted)
	if batch.AnyInvalid {
		filename, err := c.errors.Write(ctx, batch.Rows)
		if err != nil {
			return nil, err
		}
		log.Info("customer import rejected",
			zap.Int("rows", len(batch.Rows)),
			zap.String("error_file", filename),
		)
		return &ImportResult{Committed: false, ErrorFileName: filename}, nil
	}

	customers := make([]*customer.Customer, len(batch.Rows))
	for i, row := range batch.Rows {
		cust, err := row.Record.ToCustomer()
		if err != nil {
			// A validated row must convert; anything else is a bug.
			return nil, fmt.Errorf("row %d failed conversion after validation: %w", i+1, err)
		}
		customers[i] = cust
	}

	if err := c.repo.InsertBatch(ctx, customers); err != nil {
		return nil, fmt.Errorf("failed to import customers: %w", err)
	}

	log.Info("customer import committed", zap.Int("imported", len(customers)))
	return &ImportResult{Committed: true, ImportedCount: len(customers)}, nil
}
