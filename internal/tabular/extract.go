// Package tabular turns a parsed markup tree into an ordered table of text
// records: locate one container element, walk its row elements, and pull
// fixed-arity header or data cells out of each row.
//
// All traversal is an explicit recursive depth-first pre-order walk over
// x/net/html nodes, so record order always matches document order. Row order
// is semantically significant (it encodes rank).
package tabular

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/html"
)

// ErrElementNotFound means no element in the tree matched the selector.
// Fatal for the pipeline: there is nothing to extract.
var ErrElementNotFound = errors.New("element not found")

// Selector picks an element by tag name and, optionally, an
// attribute-equality predicate (e.g. tag "div" with class "rankings").
type Selector struct {
	Tag  string
	Attr string
	Val  string
}

func (s Selector) String() string {
	if s.Attr == "" {
		return s.Tag
	}
	return fmt.Sprintf("%s[%s=%q]", s.Tag, s.Attr, s.Val)
}

func (s Selector) matches(n *html.Node) bool {
	if n.Type != html.ElementNode || n.Data != s.Tag {
		return false
	}
	if s.Attr == "" {
		return true
	}
	for _, attr := range n.Attr {
		if attr.Key == s.Attr && attr.Val == s.Val {
			return true
		}
	}
	return false
}

// LocateContainer returns the first element matching the selector in
// document order, or ErrElementNotFound.
func LocateContainer(root *html.Node, sel Selector) (*html.Node, error) {
	if found := findFirst(root, sel); found != nil {
		return found, nil
	}
	return nil, fmt.Errorf("locate container %s: %w", sel, ErrElementNotFound)
}

func findFirst(n *html.Node, sel Selector) *html.Node {
	if sel.matches(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findFirst(c, sel); found != nil {
			return found
		}
	}
	return nil
}

// FindRows returns all descendant elements of container matching rowTag,
// in document order, regardless of nesting depth.
func FindRows(container *html.Node, rowTag string) []*html.Node {
	var rows []*html.Node
	for c := container.FirstChild; c != nil; c = c.NextSibling {
		collectElements(c, rowTag, &rows)
	}
	return rows
}

func collectElements(n *html.Node, tag string, out *[]*html.Node) {
	if n.Type == html.ElementNode && n.Data == tag {
		*out = append(*out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectElements(c, tag, out)
	}
}

// ExtractCells collects all descendant cells of the row matching cellTag, in
// document order. If exactly arity cells match, their text content is
// returned as a record; any other count (commonly zero, when the row holds
// the other cell type) means the row contributes no record and ok is false.
// A short row is a skip by contract, not an error.
//
// Cell text is the cell's text nodes concatenated in document order with
// only leading and trailing whitespace trimmed. Internal whitespace,
// including line breaks introduced by sub-elements, is kept verbatim for
// compatibility with the consumed documents.
func ExtractCells(row *html.Node, cellTag string, arity int) ([]string, bool) {
	var cells []*html.Node
	for c := row.FirstChild; c != nil; c = c.NextSibling {
		collectElements(c, cellTag, &cells)
	}
	if len(cells) != arity {
		return nil, false
	}

	record := make([]string, arity)
	for i, cell := range cells {
		var b strings.Builder
		appendText(cell, &b)
		record[i] = strings.TrimSpace(b.String())
	}
	return record, true
}

func appendText(n *html.Node, b *strings.Builder) {
	if n.Type == html.TextNode {
		b.WriteString(n.Data)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		appendText(c, b)
	}
}
