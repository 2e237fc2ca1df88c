package frame

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// SelectColumns returns a new frame with only the given columns, in the
// given order.
func (f *Frame) SelectColumns(columns []string) (*Frame, error) {
	out := New(columns...)
	for _, col := range columns {
		cells, ok := f.cells[col]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, col)
		}
		out.cells[col] = slices.Clone(cells)
	}
	return out, nil
}

// DropColumns returns a new frame without the given columns.
func (f *Frame) DropColumns(columns ...string) (*Frame, error) {
	for _, col := range columns {
		if _, ok := f.cells[col]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, col)
		}
	}
	keep := make([]string, 0, len(f.columns))
	for _, col := range f.columns {
		if !slices.Contains(columns, col) {
			keep = append(keep, col)
		}
	}
	return f.SelectColumns(keep)
}

// RenameColumns returns a new frame with columns renamed per mapping
// (old name to new name). Every key must name an existing column.
func (f *Frame) RenameColumns(mapping map[string]string) (*Frame, error) {
	for old := range mapping {
		if _, ok := f.cells[old]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, old)
		}
	}
	renamed := make([]string, len(f.columns))
	for i, col := range f.columns {
		if updated, ok := mapping[col]; ok {
			renamed[i] = updated
		} else {
			renamed[i] = col
		}
	}
	out := New(renamed...)
	for i, col := range f.columns {
		out.cells[renamed[i]] = slices.Clone(f.cells[col])
	}
	return out, nil
}

// SelectRows returns a new frame with only the rows at the given positions,
// in the given order.
func (f *Frame) SelectRows(indexes []int) (*Frame, error) {
	n := f.NumRows()
	for _, idx := range indexes {
		if idx < 0 || idx >= n {
			return nil, fmt.Errorf("%w: %d", ErrRowOutOfRange, idx)
		}
	}
	out := New(f.columns...)
	for _, idx := range indexes {
		row, err := f.Row(idx)
		if err != nil {
			return nil, err
		}
		if err := out.AppendRow(row...); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DropMissing returns a new frame without rows that have a missing value in
// any of the given columns, or in any column at all when none are given.
func (f *Frame) DropMissing(columns ...string) (*Frame, error) {
	checked := columns
	if len(checked) == 0 {
		checked = f.columns
	}
	for _, col := range checked {
		if _, ok := f.cells[col]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, col)
		}
	}
	keep := make([]int, 0, f.NumRows())
	for row := 0; row < f.NumRows(); row++ {
		missing := false
		for _, col := range checked {
			if f.cells[col][row] == nil {
				missing = true
				break
			}
		}
		if !missing {
			keep = append(keep, row)
		}
	}
	return f.SelectRows(keep)
}

// FillMissing returns a new frame with missing cells replaced by value, in
// one column or, when column is empty, everywhere.
func (f *Frame) FillMissing(value any, column string) (*Frame, error) {
	filled := column != ""
	if filled {
		if _, ok := f.cells[column]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
		}
	}
	out := f.copy()
	for _, col := range out.columns {
		if filled && col != column {
			continue
		}
		for row, v := range out.cells[col] {
			if v == nil {
				out.cells[col][row] = value
			}
		}
	}
	return out, nil
}

// UppercaseColumn returns a new frame with every string cell of the column
// converted to upper case. Non-string cells are left as they are.
func (f *Frame) UppercaseColumn(column string) (*Frame, error) {
	if _, ok := f.cells[column]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	out := f.copy()
	for row, v := range out.cells[column] {
		if s, ok := v.(string); ok {
			out.cells[column][row] = strings.ToUpper(s)
		}
	}
	return out, nil
}

// SortByColumn returns a new frame with rows stably sorted by the column.
// Numeric cells (including numeric strings) compare numerically, everything
// else lexically; missing cells sort last either way.
func (f *Frame) SortByColumn(column string, descending bool) (*Frame, error) {
	cells, ok := f.cells[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	order := make([]int, f.NumRows())
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		c := compareCells(cells[a], cells[b])
		if descending {
			return -c
		}
		return c
	})
	if descending {
		// Keep missing cells last under descending order as well.
		present := make([]int, 0, len(order))
		absent := make([]int, 0)
		for _, idx := range order {
			if cells[idx] == nil {
				absent = append(absent, idx)
			} else {
				present = append(present, idx)
			}
		}
		order = append(present, absent...)
	}
	return f.SelectRows(order)
}

// Comparison operators accepted by FilterRows.
const (
	OpEq = "eq"
	OpNe = "ne"
	OpGt = "gt"
	OpLt = "lt"
	OpGe = "ge"
	OpLe = "le"
)

// FilterRows returns a new frame keeping only rows whose cell in the column
// satisfies "cell op value". Rows with a missing cell never match.
func (f *Frame) FilterRows(column, op string, value any) (*Frame, error) {
	cells, ok := f.cells[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	keep := make([]int, 0, f.NumRows())
	for row, cell := range cells {
		if cell == nil {
			continue
		}
		c := compareCells(cell, value)
		match := false
		switch op {
		case OpEq:
			match = c == 0
		case OpNe:
			match = c != 0
		case OpGt:
			match = c > 0
		case OpLt:
			match = c < 0
		case OpGe:
			match = c >= 0
		case OpLe:
			match = c <= 0
		default:
			return nil, fmt.Errorf("unsupported filter operator %q", op)
		}
		if match {
			keep = append(keep, row)
		}
	}
	return f.SelectRows(keep)
}

// SummarizeColumn reduces the frame to a single-row frame of summary
// statistics (mean, median, std, min, max) over the column's numeric cells.
// Std is the sample standard deviation, zero for fewer than two values.
func (f *Frame) SummarizeColumn(column string) (*Frame, error) {
	cells, ok := f.cells[column]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrColumnNotFound, column)
	}
	values := make([]float64, 0, len(cells))
	for _, v := range cells {
		if n, ok := asFloat(v); ok {
			values = append(values, n)
		}
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("column %q has no numeric values to summarize", column)
	}
	out := New("mean", "median", "std", "min", "max")
	if err := out.AppendRow(mean(values), median(values), std(values), slices.Min(values), slices.Max(values)); err != nil {
		return nil, err
	}
	return out, nil
}

// compareCells orders two cells: numerically when both coerce to numbers,
// lexically otherwise. Missing cells sort after everything.
func compareCells(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	}
	if na, aok := asFloat(a); aok {
		if nb, bok := asFloat(b); bok {
			switch {
			case na < nb:
				return -1
			case na > nb:
				return 1
			default:
				return 0
			}
		}
	}
	return strings.Compare(fmt.Sprint(a), fmt.Sprint(b))
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func std(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	m := mean(values)
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}
