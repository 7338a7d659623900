package tabular_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/net/html"

	"github.com/raysh454/skim/internal/tabular"
)

const rankingsPage = `<html><head><title>Rankings</title></head><body>
<div class="intro">
	<p>Nothing to see here.</p>
</div>
<div class="rankings">
	<table>
		<tr><th>Rank</th><th>Team</th><th>Points</th></tr>
		<tr><td>12</td><td>Harriers</td><td>48</td></tr>
		<tr><td>incomplete</td></tr>
		<tr><td>12</td><td>Rovers</td><td>48</td></tr>
		<tr><td>14</td><td>United</td><td>45</td></tr>
	</table>
</div>
<div class="rankings">
	<table><tr><th>Wrong</th><th>Second</th><th>Container</th></tr></table>
</div>
</body></html>`

var rankingsOpts = tabular.ExtractOptions{
	Container:     tabular.Selector{Tag: "div", Attr: "class", Val: "rankings"},
	RowTag:        "tr",
	HeaderCellTag: "th",
	DataCellTag:   "td",
	Arity:         3,
}

func parse(t *testing.T, doc string) *html.Node {
	t.Helper()
	root, err := html.Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return root
}

func TestLocateContainer_FirstMatchInDocumentOrder(t *testing.T) {
	t.Parallel()
	root := parse(t, rankingsPage)

	container, err := tabular.LocateContainer(root, rankingsOpts.Container)
	if err != nil {
		t.Fatalf("LocateContainer: %v", err)
	}

	rows := tabular.FindRows(container, "tr")
	if len(rows) != 5 {
		t.Fatalf("expected the 5 rows of the first container, got %d", len(rows))
	}
	if rec, ok := tabular.ExtractCells(rows[0], "th", 3); !ok || rec[0] != "Rank" {
		t.Errorf("first container's header should start with Rank, got %v (ok=%v)", rec, ok)
	}
}

func TestLocateContainer_Missing(t *testing.T) {
	t.Parallel()
	root := parse(t, rankingsPage)

	_, err := tabular.LocateContainer(root, tabular.Selector{Tag: "div", Attr: "class", Val: "absent"})
	if !errors.Is(err, tabular.ErrElementNotFound) {
		t.Fatalf("expected ErrElementNotFound, got %v", err)
	}
}

func TestExtract_SkipsMalformedRow(t *testing.T) {
	t.Parallel()
	root := parse(t, rankingsPage)

	table, err := tabular.Extract(root, rankingsOpts)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	wantColumns := []string{"Rank", "Team", "Points"}
	if diff := cmp.Diff(wantColumns, table.Columns); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}

	// Four body rows in the markup, one malformed: three survive.
	wantRows := [][]string{
		{"12", "Harriers", "48"},
		{"12", "Rovers", "48"},
		{"14", "United", "45"},
	}
	if diff := cmp.Diff(wantRows, table.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
}

func TestExtract_Idempotent(t *testing.T) {
	t.Parallel()
	root := parse(t, rankingsPage)

	first, err := tabular.Extract(root, rankingsOpts)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	second, err := tabular.Extract(root, rankingsOpts)
	if err != nil {
		t.Fatalf("Extract (second run): %v", err)
	}

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("extraction not idempotent (-first +second):\n%s", diff)
	}
}

func TestExtractCells_PreservesInternalWhitespace(t *testing.T) {
	t.Parallel()
	root := parse(t, `<html><body><table><tr>
		<td>  12  </td>
		<td>Harriers
<span>(North)</span></td>
		<td> 48 </td>
	</tr></table></body></html>`)

	rows := tabular.FindRows(root, "tr")
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	rec, ok := tabular.ExtractCells(rows[0], "td", 3)
	if !ok {
		t.Fatal("expected a record")
	}
	if rec[0] != "12" {
		t.Errorf("outer whitespace should be trimmed, got %q", rec[0])
	}
	// The line break between the text node and the sub-element stays.
	if rec[1] != "Harriers\n(North)" {
		t.Errorf("internal whitespace must be preserved verbatim, got %q", rec[1])
	}
}

func TestExtractCells_ArityMismatchIsASkipNotAnError(t *testing.T) {
	t.Parallel()
	root := parse(t, `<html><body><table>
		<tr><th>A</th><th>B</th><th>C</th></tr>
		<tr><td>only one</td></tr>
	</table></body></html>`)

	rows := tabular.FindRows(root, "tr")
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	// Header row has no td cells at all: skip.
	if _, ok := tabular.ExtractCells(rows[0], "td", 3); ok {
		t.Error("header row should contribute no data record")
	}
	// Short row: skip.
	if _, ok := tabular.ExtractCells(rows[1], "td", 3); ok {
		t.Error("short row should contribute no record")
	}
}

func TestPromoteHeader_EmptyTable(t *testing.T) {
	t.Parallel()

	_, err := tabular.PromoteHeader(nil)
	if !errors.Is(err, tabular.ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable for no records, got %v", err)
	}

	_, err = tabular.PromoteHeader([][]string{{"Rank", "Team", "Points"}})
	if !errors.Is(err, tabular.ErrEmptyTable) {
		t.Fatalf("expected ErrEmptyTable for header-only table, got %v", err)
	}
}

func TestReindexByColumn_TiedRanksAreKept(t *testing.T) {
	t.Parallel()
	root := parse(t, rankingsPage)

	table, err := tabular.Extract(root, rankingsOpts)
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	keyed, err := tabular.ReindexByColumn(table, "Rank")
	var dup *tabular.DuplicateKeyError
	if !errors.As(err, &dup) {
		t.Fatalf("expected a duplicate key warning for the tied ranks, got %v", err)
	}
	if keyed == nil {
		t.Fatal("keyed table must still be built when keys repeat")
	}
	if diff := cmp.Diff([]string{"12"}, dup.Keys); diff != "" {
		t.Errorf("duplicate keys mismatch (-want +got):\n%s", diff)
	}

	tied := keyed.Lookup("12")
	if len(tied) != 2 {
		t.Fatalf("both rank-12 rows must remain distinct, got %d", len(tied))
	}
	if tied[0][1] != "Harriers" || tied[1][1] != "Rovers" {
		t.Errorf("tied rows out of original order: %v", tied)
	}
	if got := keyed.Row(2); got[1] != "United" {
		t.Errorf("rows must stay addressable by original order, got %v", got)
	}
}

func TestReindexByColumn_UnknownLabel(t *testing.T) {
	t.Parallel()
	table := &tabular.Table{Columns: []string{"Rank"}, Rows: [][]string{{"1"}, {"2"}}}

	_, err := tabular.ReindexByColumn(table, "Nope")
	if !errors.Is(err, tabular.ErrColumnNotFound) {
		t.Fatalf("expected ErrColumnNotFound, got %v", err)
	}
}
