// Package csvexport writes spreadsheet-friendly CSV: a UTF-8 byte order
// mark, a fixed header row, then data rows.
package csvexport

import (
	"encoding/csv"
	"fmt"
	"io"
)

// BOM is the UTF-8 byte order mark spreadsheets use to detect encoding.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// Writer streams rows after a BOM and header.
type Writer struct {
	csv   *csv.Writer
	width int
}

// NewWriter writes the BOM and header to w.
func NewWriter(w io.Writer, header []string) (*Writer, error) {
	if _, err := w.Write(BOM); err != nil {
		return nil, fmt.Errorf("writing byte order mark: %w", err)
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return nil, fmt.Errorf("writing header: %w", err)
	}
	return &Writer{csv: cw, width: len(header)}, nil
}

// Write appends one row. Rows must match the header width.
func (w *Writer) Write(row []string) error {
	if len(row) != w.width {
		return fmt.Errorf("row has %d columns, header has %d", len(row), w.width)
	}
	return w.csv.Write(row)
}

// Flush writes buffered rows and reports any write error.
func (w *Writer) Flush() error {
	w.csv.Flush()
	return w.csv.Error()
}
