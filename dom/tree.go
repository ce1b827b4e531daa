package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// FirstChild returns the first child of n of any node type.
func FirstChild(n *html.Node) *html.Node {
	return n.FirstChild
}

// HasChildren reports whether n has an element children collection.
// Only element and document nodes do.
func HasChildren(n *html.Node) bool {
	return n.Type == html.ElementNode || n.Type == html.DocumentNode
}

// ElementChild returns the 0-based i-th element child of n.
func ElementChild(n *html.Node, i int) *html.Node {
	if i < 0 {
		return nil
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode {
			continue
		}
		if i == 0 {
			return c
		}
		i--
	}
	return nil
}

// ElementChildren returns the element children of n.
func ElementChildren(n *html.Node) []*html.Node {
	var out []*html.Node
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, c)
		}
	}
	return out
}

// NextElementSibling returns the next sibling of n that is an element.
func NextElementSibling(n *html.Node) *html.Node {
	for s := n.NextSibling; s != nil; s = s.NextSibling {
		if s.Type == html.ElementNode {
			return s
		}
	}
	return nil
}

// IsText reports whether n is a text node.
func IsText(n *html.Node) bool {
	return n != nil && n.Type == html.TextNode
}

// SetText replaces the text content of a text node.
func SetText(n *html.Node, text string) bool {
	if !IsText(n) {
		return false
	}
	n.Data = text
	return true
}

// NewText returns a detached text node.
func NewText(text string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: text}
}

// Contains reports whether descendant is root or lies inside root.
func Contains(root, descendant *html.Node) bool {
	for n := descendant; n != nil; n = n.Parent {
		if n == root {
			return true
		}
	}
	return false
}

// Label returns a short description of n for logs, such as "button#inc.primary".
func Label(n *html.Node) string {
	if n == nil {
		return "<nil>"
	}
	switch n.Type {
	case html.TextNode:
		return "#text"
	case html.DocumentNode:
		return "#document"
	case html.CommentNode:
		return "#comment"
	}
	s := n.Data
	if id, ok := Attr(n, "id"); ok && id != "" {
		s += "#" + id
	}
	if class, ok := Attr(n, "class"); ok && class != "" {
		for _, c := range strings.Fields(class) {
			s += "." + c
		}
	}
	return s
}
