package dom

import (
	"strings"
)

// CSSToXPath translates a simple CSS selector into XPath.
//
// Supported: "*", tag names, #id, .class (repeatable), compound forms such
// as "button.primary#go", and the descendant combinator (whitespace).
// Anything starting with "/", "./" or "(" is treated as XPath already.
func CSSToXPath(css string) string {
	css = strings.TrimSpace(css)
	if css == "" || css == "*" {
		return "//*"
	}
	if strings.HasPrefix(css, "/") || strings.HasPrefix(css, "./") || strings.HasPrefix(css, "(") {
		return css
	}

	var b strings.Builder
	for _, part := range strings.Fields(css) {
		b.WriteString("//")
		writeCompound(&b, part)
	}
	return b.String()
}

func writeCompound(b *strings.Builder, token string) {
	tag := "*"
	var preds []string

	if end := strings.IndexAny(token, ".#"); end != 0 {
		if end < 0 {
			end = len(token)
		}
		tag = token[:end]
		token = token[end:]
	}

	for len(token) > 0 {
		marker := token[0]
		end := strings.IndexAny(token[1:], ".#")
		if end < 0 {
			end = len(token)
		} else {
			end++
		}
		name := token[1:end]
		token = token[end:]
		if name == "" {
			continue
		}
		switch marker {
		case '#':
			preds = append(preds, "@id="+xpathLiteral(name))
		case '.':
			preds = append(preds, "contains(concat(' ', normalize-space(@class), ' '), "+xpathLiteral(" "+name+" ")+")")
		}
	}

	b.WriteString(tag)
	for _, p := range preds {
		b.WriteByte('[')
		b.WriteString(p)
		b.WriteByte(']')
	}
}

// xpathLiteral quotes s as an XPath 1.0 string literal.
func xpathLiteral(s string) string {
	if !strings.Contains(s, "'") {
		return "'" + s + "'"
	}
	if !strings.Contains(s, `"`) {
		return `"` + s + `"`
	}
	parts := strings.Split(s, "'")
	var b strings.Builder
	b.WriteString("concat(")
	for i, p := range parts {
		if i > 0 {
			b.WriteString(`, "'", `)
		}
		b.WriteString("'" + p + "'")
	}
	b.WriteString(")")
	return b.String()
}
