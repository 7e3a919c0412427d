package tables

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var ErrMissingColumn = errors.New("missing column")

// cells read as null
var nullValues = []string{"", "NA", "NaN", "nan", "N/A", "NULL", "null", "<nil>"}

// DelimiterFor picks the field delimiter from a file extension.
func DelimiterFor(path string) rune {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".tsv", ".tab", ".txt":
		return '\t'
	default:
		return ','
	}
}

// Read loads a delimited table with a header row. Every column is read
// as text and null cells are marked NA. A header without rows gives an
// empty frame rather than an error.
func Read(r io.Reader, delimiter rune) (dataframe.DataFrame, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	df := dataframe.ReadCSV(bytes.NewReader(content),
		dataframe.WithDelimiter(delimiter),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.WithLazyQuotes(true),
		dataframe.NaNValues(nullValues))
	if df.Err == nil {
		return df, nil
	}

	header, headerErr := readHeader(content, delimiter)
	if headerErr != nil || len(header) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("read table: %w", df.Err)
	}
	return emptyFrame(header), nil
}

func ReadFile(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	defer f.Close()

	df, err := Read(f, DelimiterFor(path))
	if err != nil {
		return df, fmt.Errorf("%s: %w", path, err)
	}
	return df, nil
}

// Write renders records (header first) as CSV.
func Write(w io.Writer, records [][]string) error {
	if len(records) == 0 {
		return nil
	}
	if len(records) == 1 {
		// gota refuses frames without rows
		writer := csv.NewWriter(w)
		if err := writer.Write(records[0]); err != nil {
			return err
		}
		writer.Flush()
		return writer.Error()
	}

	df := dataframe.LoadRecords(records,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
		dataframe.NaNValues(nil))
	if df.Err != nil {
		return df.Err
	}
	return df.WriteCSV(w)
}

func WriteFile(path string, records [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// Cell is the text of a cell, empty for nulls.
func Cell(col series.Series, row int) string {
	el := col.Elem(row)
	if el.IsNA() {
		return ""
	}
	return el.String()
}

// Columns returns the named columns or an error naming the first
// one that is absent.
func Columns(df dataframe.DataFrame, names ...string) ([]series.Series, error) {
	present := map[string]struct{}{}
	for _, n := range df.Names() {
		present[n] = struct{}{}
	}

	cols := make([]series.Series, 0, len(names))
	for _, name := range names {
		if _, ok := present[name]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrMissingColumn, name)
		}
		cols = append(cols, df.Col(name))
	}
	return cols, nil
}

func HasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}

func readHeader(content []byte, delimiter rune) ([]string, error) {
	reader := csv.NewReader(bytes.NewReader(content))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	return reader.Read()
}

func emptyFrame(header []string) dataframe.DataFrame {
	columns := make([]series.Series, 0, len(header))
	for _, name := range header {
		columns = append(columns, series.New([]string{}, series.String, name))
	}
	return dataframe.New(columns...)
}
