package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyTable means the combined record sequence had no header or no data
// row to promote.
var ErrEmptyTable = errors.New("empty table")

// ErrColumnNotFound means a reindex named a label that is not a column.
var ErrColumnNotFound = errors.New("column not found")

// Table is a labeled rectangular table: column labels plus equal-arity rows
// of strings, in extraction order.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// BuildTable concatenates the header records (expected length 1) followed by
// all data records, preserving relative order.
func BuildTable(headerRecords, dataRecords [][]string) [][]string {
	combined := make([][]string, 0, len(headerRecords)+len(dataRecords))
	combined = append(combined, headerRecords...)
	combined = append(combined, dataRecords...)
	return combined
}

// PromoteHeader removes the first record and uses its values as column
// labels for the rest. ErrEmptyTable if there are fewer than 2 records.
func PromoteHeader(records [][]string) (*Table, error) {
	if len(records) < 2 {
		return nil, fmt.Errorf("promote header: %d records: %w", len(records), ErrEmptyTable)
	}
	return &Table{
		Columns: records[0],
		Rows:    records[1:],
	}, nil
}

// DuplicateKeyError reports repeated key values seen while reindexing.
// It is informational, not fatal: the returned KeyedTable is complete and
// keeps every row. Ranked source data legitimately contains ties.
type DuplicateKeyError struct {
	Column string
	Keys   []string
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("column %q has duplicate keys: %s", e.Column, strings.Join(e.Keys, ", "))
}

// KeyedTable is a Table with one column designated as the row key. Rows stay
// addressable in original order; a key with ties maps to several rows.
type KeyedTable struct {
	Table  *Table
	Column string

	colIdx int
	byKey  map[string][]int
}

// ReindexByColumn designates one column's values as the row key. An unknown
// label is fatal. Duplicate key values are permitted; when present the keyed
// table is still returned, alongside a *DuplicateKeyError the caller may log
// and ignore.
func ReindexByColumn(t *Table, label string) (*KeyedTable, error) {
	colIdx := -1
	for i, c := range t.Columns {
		if c == label {
			colIdx = i
			break
		}
	}
	if colIdx < 0 {
		return nil, fmt.Errorf("reindex by %q: %w", label, ErrColumnNotFound)
	}

	kt := &KeyedTable{
		Table:  t,
		Column: label,
		colIdx: colIdx,
		byKey:  make(map[string][]int, len(t.Rows)),
	}

	var dups []string
	for i, row := range t.Rows {
		key := row[colIdx]
		if prev := kt.byKey[key]; len(prev) == 1 {
			dups = append(dups, key)
		}
		kt.byKey[key] = append(kt.byKey[key], i)
	}

	if len(dups) > 0 {
		return kt, &DuplicateKeyError{Column: label, Keys: dups}
	}
	return kt, nil
}

// Lookup returns every row whose key column equals key, in original order.
func (kt *KeyedTable) Lookup(key string) [][]string {
	idxs := kt.byKey[key]
	rows := make([][]string, 0, len(idxs))
	for _, i := range idxs {
		rows = append(rows, kt.Table.Rows[i])
	}
	return rows
}

// Row returns the i-th data row in extraction order.
func (kt *KeyedTable) Row(i int) []string {
	return kt.Table.Rows[i]
}
