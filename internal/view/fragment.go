// Package view builds the dashboards' HTML fragments as golang.org/x/net/html
// node trees. A fragment is one *html.Node; a container is an element whose
// children are fragments. Trees are rendered to template.HTML for the page
// layouts.
package view

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// CSRFField is the form field gorilla/csrf reads the token from.
const CSRFField = "gorilla.csrf.Token"

// elem creates an element with attributes given as key, value pairs.
func elem(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

// withText creates an element holding a single text child.
func withText(a atom.Atom, s string, attrs ...string) *html.Node {
	n := elem(a, attrs...)
	n.AppendChild(text(s))
	return n
}

func appendAll(parent *html.Node, children ...*html.Node) *html.Node {
	for _, c := range children {
		if c != nil {
			parent.AppendChild(c)
		}
	}
	return parent
}

func hidden(name, value string) *html.Node {
	return elem(atom.Input, "type", "hidden", "name", name, "value", value)
}

// postForm creates a POST form carrying the CSRF token.
func postForm(action, csrfToken string, attrs ...string) *html.Node {
	form := elem(atom.Form, append([]string{"method", "post", "action", action}, attrs...)...)
	form.AppendChild(hidden(CSRFField, csrfToken))
	return form
}

// NewContainer creates an empty container element such as div or tbody.
func NewContainer(a atom.Atom, id string) *html.Node {
	if id == "" {
		return elem(a)
	}
	return elem(a, "id", id)
}

// Clear detaches every child of n.
// POST: n has no children
func Clear(n *html.Node) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
}

// Children returns the element children of n in order.
func Children(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// Attr returns the value of key on n, or "".
func Attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// HasClass reports whether n carries class c.
func HasClass(n *html.Node, c string) bool {
	for _, f := range strings.Fields(Attr(n, "class")) {
		if f == c {
			return true
		}
	}
	return false
}

// FindAll returns every descendant of root, root included, matching pred, in document order.
func FindAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

// ByClass is a FindAll predicate matching elements with class c.
func ByClass(c string) func(*html.Node) bool {
	return func(n *html.Node) bool {
		return n.Type == html.ElementNode && HasClass(n, c)
	}
}

// TextContent concatenates the text of n and its descendants.
func TextContent(n *html.Node) string {
	var b strings.Builder
	for _, t := range FindAll(n, func(x *html.Node) bool { return x.Type == html.TextNode }) {
		b.WriteString(t.Data)
	}
	return b.String()
}

// HTML renders n for inclusion in a page template. Text and attribute values
// are escaped by html.Render.
func HTML(n *html.Node) (template.HTML, error) {
	if n == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", fmt.Errorf("render fragment: %w", err)
	}
	return template.HTML(buf.String()), nil
}

// InnerHTML renders the children of n without n itself.
func InnerHTML(n *html.Node) (template.HTML, error) {
	var buf bytes.Buffer
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return "", fmt.Errorf("render fragment: %w", err)
		}
	}
	return template.HTML(buf.String()), nil
}
