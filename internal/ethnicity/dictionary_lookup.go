// Package ethnicity adds standard ethnicity classification columns to tabular
// data by matching each row against a reference dictionary.
//
// The reference table is a CSV file whose first two columns are the ethnicity
// label and the ethnicity type label; every further column is an output field
// appended to matching rows. Lookups are case-insensitive and ignore
// surrounding whitespace. A reference row with an empty type acts as the
// fallback for its ethnicity when no type-specific row matches.
//
// A DictionaryLookup is immutable once built, so one instance may process
// many datasets concurrently as long as each call gets its own dataset.
package ethnicity

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	apperrors "ethnicityfacts/internal/errors"
)

// typeIndex maps a normalised ethnicity type to its reference row. The empty
// key holds the type-agnostic fallback.
type typeIndex map[string][]string

// lookupIndex maps a normalised ethnicity label to its types.
type lookupIndex map[string]typeIndex

type matchKind int

const (
	noMatch matchKind = iota
	exactMatch
	fallbackMatch
)

// DictionaryLookup standardises datasets against a reference table.
type DictionaryLookup struct {
	header   []string
	index    lookupIndex
	entries  int
	defaults []DefaultValue
	wildcard string
}

// Option configures a DictionaryLookup at construction time.
type Option func(*DictionaryLookup)

// WithDefaultValues sets the cells appended to unmatched rows. Without it,
// unmatched rows get empty strings. The number of values must equal the
// number of output columns, otherwise construction fails with an invalid
// input error.
func WithDefaultValues(values ...DefaultValue) Option {
	return func(l *DictionaryLookup) {
		l.defaults = append([]DefaultValue(nil), values...)
	}
}

// WithWildcard overrides the token substituted in template defaults.
func WithWildcard(token string) Option {
	return func(l *DictionaryLookup) {
		if token != "" {
			l.wildcard = token
		}
	}
}

// Report summarises one Process call.
type Report struct {
	Applied         bool   `json:"applied"`
	EthnicityColumn string `json:"ethnicity_column,omitempty"`
	TypeColumn      string `json:"ethnicity_type_column,omitempty"`
	AddedColumns    int    `json:"added_columns"`
	Processed       int    `json:"processed"`
	Matched         int    `json:"matched"`
	FallbackMatched int    `json:"fallback_matched"`
	Unmatched       int    `json:"unmatched"`
	Skipped         int    `json:"skipped"`
}

// NewDictionaryLookup parses a comma separated reference table from r.
func NewDictionaryLookup(r io.Reader, opts ...Option) (*DictionaryLookup, error) {
	rows, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, apperrors.DataFormat("ethnicity reference table", err)
	}
	return NewDictionaryLookupFromRows(rows, opts...)
}

// NewDictionaryLookupFromFile parses the reference table stored at path.
func NewDictionaryLookupFromFile(path string, opts ...Option) (*DictionaryLookup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.DataFormat(path, err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, apperrors.DataFormat(path, err)
	}
	return NewDictionaryLookupFromRows(rows, opts...)
}

// NewDictionaryLookupFromRows builds a lookup from an already parsed
// reference table. Row 0 is the header.
func NewDictionaryLookupFromRows(rows [][]string, opts ...Option) (*DictionaryLookup, error) {
	l := &DictionaryLookup{
		index:    make(lookupIndex),
		wildcard: DefaultWildcard,
	}
	for _, opt := range opts {
		opt(l)
	}

	if len(rows) > 0 {
		l.header = rows[0]
		if len(l.header) < 2 {
			return nil, apperrors.DataFormat("ethnicity reference table",
				fmt.Errorf("header has %d columns, need ethnicity and ethnicity type", len(l.header)))
		}
	}

	for i := 1; i < len(rows); i++ {
		row := rows[i]
		if len(row) != len(l.header) {
			return nil, apperrors.DataFormat("ethnicity reference table",
				fmt.Errorf("row %d has %d columns, header has %d", i, len(row), len(l.header)))
		}
		ethnicity := normalise(row[0])
		ethnicityType := normalise(row[1])

		types, ok := l.index[ethnicity]
		if !ok {
			types = make(typeIndex)
			l.index[ethnicity] = types
		}
		if _, dup := types[ethnicityType]; !dup {
			l.entries++
		}
		types[ethnicityType] = row
	}

	if len(l.defaults) > 0 && len(l.defaults) != len(l.outputColumns()) {
		return nil, apperrors.InvalidInput(fmt.Sprintf(
			"%d default values configured for %d output columns", len(l.defaults), len(l.outputColumns())))
	}

	return l, nil
}

// OutputColumns returns the names of the columns appended by Process.
func (l *DictionaryLookup) OutputColumns() []string {
	return append([]string(nil), l.outputColumns()...)
}

func (l *DictionaryLookup) outputColumns() []string {
	if len(l.header) < 2 {
		return nil
	}
	return l.header[2:]
}

// Len returns the number of distinct (ethnicity, type) entries.
func (l *DictionaryLookup) Len() int {
	return l.entries
}

// Wildcard returns the substitution token used for template defaults.
func (l *DictionaryLookup) Wildcard() string {
	return l.wildcard
}

// Lookup returns the output values for an ethnicity and type pair, trying the
// exact type first and the empty-type fallback second.
func (l *DictionaryLookup) Lookup(ethnicity, ethnicityType string) ([]string, bool) {
	row, kind := l.find(ethnicity, ethnicityType)
	if kind == noMatch {
		return nil, false
	}
	return append([]string(nil), row[2:]...), true
}

func (l *DictionaryLookup) find(ethnicity, ethnicityType string) ([]string, matchKind) {
	types, ok := l.index[normalise(ethnicity)]
	if !ok {
		return nil, noMatch
	}
	if row, ok := types[normalise(ethnicityType)]; ok {
		return row, exactMatch
	}
	if row, ok := types[""]; ok {
		return row, fallbackMatch
	}
	return nil, noMatch
}

// Process appends the lookup's output columns to every row of data and to its
// header, returning data. See ProcessWithReport.
func (l *DictionaryLookup) Process(data [][]string, ethnicityColumn, typeColumn string) [][]string {
	data, _ = l.ProcessWithReport(data, ethnicityColumn, typeColumn)
	return data
}

// ProcessWithReport standardises data in place. Row 0 is the header. The
// ethnicity and type columns are found by name: the given names if non-empty,
// otherwise DefaultEthnicityColumns and DefaultEthnicityTypeColumns.
//
// When no ethnicity column is found data is returned untouched. When no type
// column is found the ethnicity column doubles as the type column. Rows too
// short to hold both columns are left as they are.
func (l *DictionaryLookup) ProcessWithReport(data [][]string, ethnicityColumn, typeColumn string) ([][]string, Report) {
	var report Report
	if len(data) == 0 {
		return data, report
	}

	header := data[0]
	ethIdx := FindColumn(header, ethnicityColumn, DefaultEthnicityColumns)
	if ethIdx < 0 {
		return data, report
	}
	typeIdx := FindColumn(header, typeColumn, DefaultEthnicityTypeColumns)
	if typeIdx < 0 {
		typeIdx = ethIdx
	}

	outputs := l.outputColumns()
	report.Applied = true
	report.EthnicityColumn = header[ethIdx]
	report.TypeColumn = header[typeIdx]
	report.AddedColumns = len(outputs)

	need := max(ethIdx, typeIdx)
	for i := 1; i < len(data); i++ {
		row := data[i]
		report.Processed++
		if len(row) <= need {
			report.Skipped++
			continue
		}

		// clip so appending never writes into a neighbour sharing the backing array
		row = row[:len(row):len(row)]
		raw := row[ethIdx]
		ref, kind := l.find(raw, row[typeIdx])
		switch kind {
		case exactMatch:
			report.Matched++
			data[i] = append(row, ref[2:]...)
		case fallbackMatch:
			report.FallbackMatched++
			data[i] = append(row, ref[2:]...)
		default:
			report.Unmatched++
			data[i] = append(row, l.unmatchedCells(raw, len(outputs))...)
		}
	}

	data[0] = append(header[:len(header):len(header)], outputs...)
	return data, report
}

func (l *DictionaryLookup) unmatchedCells(raw string, width int) []string {
	if len(l.defaults) == 0 {
		return make([]string, width)
	}
	cells := make([]string, len(l.defaults))
	for i, d := range l.defaults {
		cells[i] = d.Resolve(l.wildcard, raw)
	}
	return cells
}
