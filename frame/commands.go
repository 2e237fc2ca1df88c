package frame

import (
	"context"

	"github.com/skosovsky/datapilot"
)

// Argument structs for the standard command set. Field tags drive both the
// schema the model sees and the validation of its kwargs.

type selectColumnsArgs struct {
	Columns []string `json:"columns" jsonschema:"description=Column names to keep"`
}

type dropColumnsArgs struct {
	Columns []string `json:"columns" jsonschema:"description=Column names to remove"`
}

type renameColumnsArgs struct {
	Mapping map[string]string `json:"mapping" jsonschema:"description=Old column name to new column name"`
}

type selectRowsArgs struct {
	Indexes []int `json:"indexes" jsonschema:"description=Zero-based row positions to keep"`
}

type dropMissingArgs struct {
	Columns []string `json:"columns,omitempty" jsonschema:"description=Columns to check for missing values; all columns when omitted"`
}

type fillMissingArgs struct {
	Value  any    `json:"value" jsonschema:"description=Replacement for missing cells"`
	Column string `json:"column,omitempty" jsonschema:"description=Column to fill; all columns when omitted"`
}

type uppercaseColumnArgs struct {
	Column string `json:"column" jsonschema:"description=Column whose text values are converted to upper case"`
}

type sortByColumnArgs struct {
	Column     string `json:"column" jsonschema:"description=Column to sort by"`
	Descending bool   `json:"descending,omitempty" jsonschema:"description=Sort in descending order"`
}

type filterRowsArgs struct {
	Column string `json:"column" jsonschema:"description=Column to compare"`
	Op     string `json:"op" jsonschema:"enum=eq,enum=ne,enum=gt,enum=lt,enum=ge,enum=le,description=Comparison operator"`
	Value  any    `json:"value" jsonschema:"description=Value to compare against"`
}

type summarizeColumnArgs struct {
	Column string `json:"column" jsonschema:"description=Numeric column to summarize"`
}

// Commands builds the standard transformation command set as a registry
// source. Each command is pure: it returns a new frame and never mutates its
// input, so a failed plan leaves the session's data as it was.
func Commands() (datapilot.Source, error) {
	var src datapilot.Source
	var buildErr error
	add := func(cmd datapilot.Command, err error) {
		if err != nil {
			if buildErr == nil {
				buildErr = err
			}
			return
		}
		src = append(src, cmd)
	}

	add(build("select_columns", "Keep only the given columns, in the given order.",
		func(_ context.Context, f *Frame, a selectColumnsArgs) (*Frame, error) {
			return f.SelectColumns(a.Columns)
		}))
	add(build("drop_columns", "Remove the given columns.",
		func(_ context.Context, f *Frame, a dropColumnsArgs) (*Frame, error) {
			return f.DropColumns(a.Columns...)
		}))
	add(build("rename_columns", "Rename columns according to a mapping of old names to new names.",
		func(_ context.Context, f *Frame, a renameColumnsArgs) (*Frame, error) {
			return f.RenameColumns(a.Mapping)
		}))
	add(build("select_rows_by_index", "Keep only the rows at the given zero-based positions.",
		func(_ context.Context, f *Frame, a selectRowsArgs) (*Frame, error) {
			return f.SelectRows(a.Indexes)
		}))
	add(build("drop_missing_values", "Remove rows with missing values, optionally only checking the given columns.",
		func(_ context.Context, f *Frame, a dropMissingArgs) (*Frame, error) {
			return f.DropMissing(a.Columns...)
		}))
	add(build("fill_missing_values", "Fill missing cells with a value, in one column or everywhere.",
		func(_ context.Context, f *Frame, a fillMissingArgs) (*Frame, error) {
			return f.FillMissing(a.Value, a.Column)
		}))
	add(build("uppercase_column", "Convert the text values of a column to upper case.",
		func(_ context.Context, f *Frame, a uppercaseColumnArgs) (*Frame, error) {
			return f.UppercaseColumn(a.Column)
		}))
	add(build("sort_by_column", "Sort rows by a column, ascending unless descending is set.",
		func(_ context.Context, f *Frame, a sortByColumnArgs) (*Frame, error) {
			return f.SortByColumn(a.Column, a.Descending)
		}))
	add(build("filter_rows", "Keep only rows whose cell in a column satisfies a comparison against a value.",
		func(_ context.Context, f *Frame, a filterRowsArgs) (*Frame, error) {
			return f.FilterRows(a.Column, a.Op, a.Value)
		}))
	add(build("summarize_column", "Replace the data with a one-row summary (mean, median, std, min, max) of a numeric column.",
		func(_ context.Context, f *Frame, a summarizeColumnArgs) (*Frame, error) {
			return f.SummarizeColumn(a.Column)
		}))

	if buildErr != nil {
		return nil, buildErr
	}
	return src, nil
}

// build keeps the command declarations above readable.
func build[A any](name, description string, fn func(context.Context, *Frame, A) (*Frame, error)) (datapilot.Command, error) {
	return datapilot.NewCommand(name, description, fn)
}
