package tabular

import (
	"fmt"

	"golang.org/x/net/html"
)

// ExtractOptions describes the fixed tag structure of a consumed document.
type ExtractOptions struct {
	Container     Selector
	RowTag        string
	HeaderCellTag string
	DataCellTag   string
	Arity         int
}

// Extract runs the full extraction over a parsed tree: locate the container,
// walk its rows, split them into header and data records, and promote the
// first record to column labels. Rows whose cell count does not match the
// arity are skipped silently, per the row-skip contract in ExtractCells.
func Extract(root *html.Node, opts ExtractOptions) (*Table, error) {
	container, err := LocateContainer(root, opts.Container)
	if err != nil {
		return nil, err
	}

	rows := FindRows(container, opts.RowTag)

	var headerRecords, dataRecords [][]string
	for _, row := range rows {
		if rec, ok := ExtractCells(row, opts.HeaderCellTag, opts.Arity); ok {
			headerRecords = append(headerRecords, rec)
			continue
		}
		if rec, ok := ExtractCells(row, opts.DataCellTag, opts.Arity); ok {
			dataRecords = append(dataRecords, rec)
		}
	}

	table, err := PromoteHeader(BuildTable(headerRecords, dataRecords))
	if err != nil {
		return nil, fmt.Errorf("extract %s: %w", opts.Container, err)
	}
	return table, nil
}
