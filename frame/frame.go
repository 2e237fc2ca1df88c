// Package frame provides a small column-oriented tabular data value plus the
// standard transformation command set for datapilot. The core orchestrator
// treats the data as opaque; this package is one concrete choice of it.
package frame

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
)

// Sentinel errors for frame. Use errors.Is to check.
var (
	ErrColumnNotFound = errors.New("column not found")
	ErrRowOutOfRange  = errors.New("row index out of range")
	ErrShape          = errors.New("row length does not match columns")
)

// Frame is an ordered set of named columns of equal length. A nil cell is a
// missing value. Transform methods are pure: they return a new Frame and
// leave the receiver untouched, which is what lets the executor discard a
// half-applied plan safely.
type Frame struct {
	columns []string
	cells   map[string][]any
}

// New creates an empty frame with the given column order.
func New(columns ...string) *Frame {
	f := &Frame{
		columns: slices.Clone(columns),
		cells:   make(map[string][]any, len(columns)),
	}
	for _, col := range columns {
		f.cells[col] = nil
	}
	return f
}

// AppendRow adds one row. The number of values must match the column count.
func (f *Frame) AppendRow(values ...any) error {
	if len(values) != len(f.columns) {
		return fmt.Errorf("%w: got %d values for %d columns", ErrShape, len(values), len(f.columns))
	}
	for i, col := range f.columns {
		f.cells[col] = append(f.cells[col], values[i])
	}
	return nil
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string { return slices.Clone(f.columns) }

// NumRows returns the row count.
func (f *Frame) NumRows() int {
	if len(f.columns) == 0 {
		return 0
	}
	return len(f.cells[f.columns[0]])
}

// NumColumns returns the column count.
func (f *Frame) NumColumns() int { return len(f.columns) }

// Column returns a copy of the named column's cells.
func (f *Frame) Column(name string) ([]any, error) {
	cells, ok := f.cells[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
	}
	return slices.Clone(cells), nil
}

// Cell returns the value at (row, column). A nil value is a missing cell.
func (f *Frame) Cell(row int, column string) (any, error) {
	cells, ok := f.cells[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	if row < 0 || row >= len(cells) {
		return nil, fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	return cells[row], nil
}

// Row returns a copy of one row in column order.
func (f *Frame) Row(row int) ([]any, error) {
	if row < 0 || row >= f.NumRows() {
		return nil, fmt.Errorf("%w: %d", ErrRowOutOfRange, row)
	}
	out := make([]any, len(f.columns))
	for i, col := range f.columns {
		out[i] = f.cells[col][row]
	}
	return out, nil
}

// Clone returns a deep copy. It satisfies datapilot.Cloner, so the runner
// gives every attempt its own working frame.
func (f *Frame) Clone() any { return f.copy() }

func (f *Frame) copy() *Frame {
	out := &Frame{
		columns: slices.Clone(f.columns),
		cells:   make(map[string][]any, len(f.columns)),
	}
	for _, col := range f.columns {
		out.cells[col] = slices.Clone(f.cells[col])
	}
	return out
}

// ReadCSV reads a frame from CSV. The first record is the header; empty
// fields become missing cells. All present cells are strings.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read csv header: %w", err)
	}
	f := New(header...)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return f, nil
		}
		if err != nil {
			return nil, fmt.Errorf("read csv record: %w", err)
		}
		row := make([]any, len(record))
		for i, field := range record {
			if field == "" {
				continue // missing
			}
			row[i] = field
		}
		if err := f.AppendRow(row...); err != nil {
			return nil, err
		}
	}
}

// WriteCSV writes the frame as CSV with a header record. Missing cells are
// written as empty fields.
func (f *Frame) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(f.columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for row := 0; row < f.NumRows(); row++ {
		record := make([]string, len(f.columns))
		for i, col := range f.columns {
			if v := f.cells[col][row]; v != nil {
				record[i] = formatCell(v)
			}
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv record: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func formatCell(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

// asFloat coerces a cell to float64 for numeric operations (sort, summary).
// Numeric strings count as numbers, matching CSV-loaded frames.
func asFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		n, err := strconv.ParseFloat(t, 64)
		return n, err == nil
	default:
		return 0, false
	}
}
