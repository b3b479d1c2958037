// Package dataset loads rectangular numeric tables.
//
// Every cell must parse as a float64. Categorical encoding and cleaning happen
// before the file reaches here.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/born-ml/stax/internal/tensor"
)

// Common errors.
var (
	ErrEmpty         = errors.New("table has no rows")
	ErrUnknownColumn = errors.New("unknown column")
)

// Options controls CSV parsing.
type Options struct {
	Header  bool // First record holds column names
	MaxRows int  // Maximum number of rows to load (0 = load all)
	Comma   rune // Field delimiter (default: ',')
}

// Table is a rectangular numeric table: rows are samples, columns features.
type Table struct {
	Columns []string    // Column names; "c0", "c1", ... when the file has no header
	Rows    [][]float64 // [num_samples][num_columns]
}

// LoadCSV loads a numeric table from a CSV file.
//
// Example:
//
//	table, err := dataset.LoadCSV("data.csv", dataset.Options{Header: true})
//	x, y, err := table.Split("label")
func LoadCSV(path string, opts Options) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()

	t, err := ReadCSV(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// ReadCSV parses a numeric table from r.
func ReadCSV(r io.Reader, opts Options) (*Table, error) {
	reader := csv.NewReader(r)
	if opts.Comma != 0 {
		reader.Comma = opts.Comma
	}
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	var columns []string
	if opts.Header {
		columns = make([]string, len(records[0]))
		for i, name := range records[0] {
			columns[i] = strings.TrimSpace(name)
		}
		records = records[1:]
	} else {
		columns = make([]string, len(records[0]))
		for i := range columns {
			columns[i] = "c" + strconv.Itoa(i)
		}
	}

	if opts.MaxRows > 0 && len(records) > opts.MaxRows {
		records = records[:opts.MaxRows]
	}
	if len(records) == 0 {
		return nil, ErrEmpty
	}

	rows := make([][]float64, len(records))
	for i, record := range records {
		row := make([]float64, len(record))
		for j, cell := range record {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", i+1, columns[j], err)
			}
			row[j] = v
		}
		rows[i] = row
	}

	return &Table{Columns: columns, Rows: rows}, nil
}

// NumRows returns the number of samples.
func (t *Table) NumRows() int {
	return len(t.Rows)
}

// Column returns the index of the named column.
func (t *Table) Column(name string) (int, error) {
	for i, c := range t.Columns {
		if c == name {
			return i, nil
		}
	}
	return -1, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
}

// Array returns the whole table as a [rows, columns] array.
func (t *Table) Array() (*tensor.Array, error) {
	return tensor.FromRows(t.Rows)
}

// Split separates the target column from the features.
//
// Returns features with shape [rows, columns-1] and targets with shape
// [rows, 1].
func (t *Table) Split(target string) (features, targets *tensor.Array, err error) {
	col, err := t.Column(target)
	if err != nil {
		return nil, nil, err
	}

	n, d := len(t.Rows), len(t.Columns)
	x := make([]float64, 0, n*(d-1))
	y := make([]float64, 0, n)
	for _, row := range t.Rows {
		x = append(x, row[:col]...)
		x = append(x, row[col+1:]...)
		y = append(y, row[col])
	}

	if features, err = tensor.New(tensor.Shape{n, d - 1}, x); err != nil {
		return nil, nil, err
	}
	if targets, err = tensor.New(tensor.Shape{n, 1}, y); err != nil {
		return nil, nil, err
	}
	return features, targets, nil
}
