package ingest

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Ruchi0214/Regexia/internal/domain"
	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for uploads that are neither CSV nor XLSX.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Read dispatches on the file extension. Files without an extension are
// treated as CSV.
func Read(r io.Reader, filename, column string, maxRows int) ([]domain.Document, int, error) {
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case "", ".csv", ".txt":
		return ReadCSV(r, column, maxRows)
	case ".xlsx":
		return ReadXLSX(r, column, maxRows)
	default:
		return nil, 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
	}
}

// ReadXLSX reads the named column from the first sheet of a workbook, with the
// same row semantics as ReadCSV.
func ReadXLSX(r io.Reader, column string, maxRows int) ([]domain.Document, int, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, 0, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, 0, ErrEmptyInput
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	defer func() { _ = rows.Close() }()

	if !rows.Next() {
		return nil, 0, ErrEmptyInput
	}
	header, err := rows.Columns()
	if err != nil {
		return nil, 0, fmt.Errorf("read sheet header: %w", err)
	}
	col := indexOf(header, column)
	if col < 0 {
		return nil, 0, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}

	docs := make([]domain.Document, 0)
	for (maxRows <= 0 || len(docs) < maxRows) && rows.Next() {
		record, colErr := rows.Columns()
		if colErr != nil {
			return nil, 0, fmt.Errorf("read sheet row %d: %w", len(docs)+1, colErr)
		}

		var cell any
		if col < len(record) {
			cell = record[col]
		}
		docs = append(docs, domain.Document{ID: len(docs), RawText: domain.CoerceText(cell)})
	}
	if err = rows.Error(); err != nil {
		return nil, 0, fmt.Errorf("read sheet rows: %w", err)
	}

	return docs, len(docs), nil
}
