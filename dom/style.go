package dom

import (
	"strings"
	"unicode"

	"github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"golang.org/x/net/html"
)

// StyleEntry is one inline style declaration.
type StyleEntry struct {
	Key   string
	Value string
}

// Style parses the inline style attribute of n in declaration order.
func Style(n *html.Node) []StyleEntry {
	raw, ok := Attr(n, "style")
	if !ok {
		return nil
	}
	var out []StyleEntry
	for _, decl := range splitDeclarations(raw) {
		key, val, found := strings.Cut(decl, ":")
		if !found {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		out = append(out, StyleEntry{Key: key, Value: strings.TrimSpace(val)})
	}
	return out
}

// splitDeclarations splits an inline style on semicolons outside strings,
// url() and other parenthesized groups. Comments are dropped.
func splitDeclarations(raw string) []string {
	l := css.NewLexer(parse.NewInputString(raw))
	var (
		out   []string
		cur   strings.Builder
		depth int
	)
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			if cur.Len() > 0 {
				out = append(out, cur.String())
			}
			return out
		case css.CommentToken:
			continue
		case css.FunctionToken, css.LeftParenthesisToken:
			depth++
		case css.RightParenthesisToken:
			if depth > 0 {
				depth--
			}
		case css.SemicolonToken:
			if depth == 0 {
				out = append(out, cur.String())
				cur.Reset()
				continue
			}
		}
		cur.Write(data)
	}
}

// StyleProperty returns the inline value of property key on n.
func StyleProperty(n *html.Node, key string) string {
	key = PropertyName(key)
	for _, e := range Style(n) {
		if e.Key == key {
			return e.Value
		}
	}
	return ""
}

// SetStyleProperty sets one inline style property on n, overwriting a
// previous value for the same property and keeping the others. An empty
// value removes the property. Keys may be camelCase ("backgroundColor") or
// CSS form ("background-color").
func SetStyleProperty(n *html.Node, key, value string) {
	key = PropertyName(key)
	entries := Style(n)

	idx := -1
	for i, e := range entries {
		if e.Key == key {
			idx = i
			break
		}
	}

	switch {
	case value == "" && idx >= 0:
		entries = append(entries[:idx], entries[idx+1:]...)
	case value == "":
	case idx >= 0:
		entries[idx].Value = value
	default:
		entries = append(entries, StyleEntry{Key: key, Value: value})
	}

	if len(entries) == 0 {
		RemoveAttr(n, "style")
		return
	}
	SetAttr(n, "style", formatStyle(entries))
}

func formatStyle(entries []StyleEntry) string {
	var b strings.Builder
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(e.Key)
		b.WriteString(": ")
		b.WriteString(e.Value)
		b.WriteByte(';')
	}
	return b.String()
}

// PropertyName converts a camelCase style key to its CSS property name.
// Custom properties ("--x") and names already in CSS form pass through.
func PropertyName(key string) string {
	if strings.HasPrefix(key, "--") {
		return key
	}
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('-')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
