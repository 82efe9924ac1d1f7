// Package ingest turns uploaded data into engine documents.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/Ruchi0214/Regexia/internal/domain"
)

// ErrColumnNotFound is returned when the requested column is not in the header.
var ErrColumnNotFound = errors.New("column not found")

// ErrEmptyInput is returned when the upload has no header row.
var ErrEmptyInput = errors.New("input has no header row")

// ReadCSV reads the named column from r. At most maxRows data rows are read;
// maxRows <= 0 reads everything. It returns the documents and the number of
// data rows consumed. Document ids are 0-based row indexes.
func ReadCSV(r io.Reader, column string, maxRows int) ([]domain.Document, int, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, 0, ErrEmptyInput
	}
	if err != nil {
		return nil, 0, fmt.Errorf("read csv header: %w", err)
	}

	col := indexOf(header, column)
	if col < 0 {
		return nil, 0, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}

	docs := make([]domain.Document, 0)
	for maxRows <= 0 || len(docs) < maxRows {
		record, readErr := reader.Read()
		if errors.Is(readErr, io.EOF) {
			break
		}
		if readErr != nil {
			return nil, 0, fmt.Errorf("read csv row %d: %w", len(docs)+1, readErr)
		}

		var cell any
		if col < len(record) {
			cell = record[col]
		}
		docs = append(docs, domain.Document{ID: len(docs), RawText: domain.CoerceText(cell)})
	}

	return docs, len(docs), nil
}

func indexOf(header []string, column string) int {
	for i, h := range header {
		if h == column {
			return i
		}
	}
	// tolerate a UTF-8 byte order mark on the first header cell
	if len(header) > 0 && header[0] == "\ufeff"+column {
		return 0
	}
	return -1
}

// FromValues builds documents from arbitrary JSON values, coercing each one.
func FromValues(values []any) []domain.Document {
	docs := make([]domain.Document, len(values))
	for i, v := range values {
		docs[i] = domain.Document{ID: i, RawText: domain.CoerceText(v)}
	}
	return docs
}
