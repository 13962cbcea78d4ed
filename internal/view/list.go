package view

import (
	"strconv"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// defaultColumns is the placeholder cell span for tables that do not
// declare data-columns.
const defaultColumns = 4

// Render replaces the children of container with one fragment per record,
// or with a single placeholder carrying message when records is empty.
// PRE: container is an element; build never returns nil
// POST: container holds len(records) children in input order, or exactly one placeholder
// INVARIANT: calling Render twice with the same input yields the same tree as calling it once
func Render[T any](container *html.Node, records []T, build func(T) *html.Node, message string) {
	Clear(container)
	if len(records) == 0 {
		container.AppendChild(Placeholder(container, message))
		return
	}
	for _, r := range records {
		container.AppendChild(build(r))
	}
}

// Placeholder builds the empty-state fragment suited to container: a full
// width row for table bodies, a paragraph otherwise.
func Placeholder(container *html.Node, message string) *html.Node {
	if container.DataAtom != atom.Tbody {
		return withText(atom.P, message, "class", "placeholder")
	}
	cols := defaultColumns
	if n, err := strconv.Atoi(Attr(container, "data-columns")); err == nil && n > 0 {
		cols = n
	}
	row := elem(atom.Tr, "class", "placeholder")
	row.AppendChild(withText(atom.Td, message, "colspan", strconv.Itoa(cols)))
	return row
}

// NewTableBody creates a tbody whose placeholder spans columns cells.
func NewTableBody(id string, columns int) *html.Node {
	return elem(atom.Tbody, "id", id, "data-columns", strconv.Itoa(columns))
}
