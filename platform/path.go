package platform

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/wippyai/wasm-dom-bridge/dom"
)

// StepKind is one navigation move in a Path.
type StepKind uint8

const (
	StepFirstChild StepKind = iota + 1
	StepElementChild
	StepNextElementSibling
)

// Step is a single navigation move. Index is used by StepElementChild only.
type Step struct {
	Kind  StepKind
	Index int
}

// Path locates a node as data: an anchor selector evaluated against the
// document plus a sequence of navigation steps. It is re-evaluated on every
// access, so a node follows whatever element currently sits at its
// position rather than a pointer captured when the handle was created.
type Path struct {
	Anchor string
	Steps  []Step
}

// Then returns a copy of p extended by s.
func (p Path) Then(s Step) Path {
	steps := make([]Step, len(p.Steps), len(p.Steps)+1)
	copy(steps, p.Steps)
	return Path{Anchor: p.Anchor, Steps: append(steps, s)}
}

// Resolve walks p in doc. It returns nil when any step falls off the tree.
func (p Path) Resolve(doc *dom.Document) *html.Node {
	n, err := doc.Query(p.Anchor)
	if err != nil {
		return nil
	}
	for _, s := range p.Steps {
		switch s.Kind {
		case StepFirstChild:
			n = dom.FirstChild(n)
		case StepElementChild:
			n = dom.ElementChild(n, s.Index)
		case StepNextElementSibling:
			n = dom.NextElementSibling(n)
		default:
			return nil
		}
		if n == nil {
			return nil
		}
	}
	return n
}

// String renders p for logs, e.g. "#app > :first-child > :nth-element(2)".
func (p Path) String() string {
	var b strings.Builder
	b.WriteString(p.Anchor)
	for _, s := range p.Steps {
		b.WriteString(" > ")
		switch s.Kind {
		case StepFirstChild:
			b.WriteString(":first-child")
		case StepElementChild:
			b.WriteString(":nth-element(")
			b.WriteString(strconv.Itoa(s.Index))
			b.WriteByte(')')
		case StepNextElementSibling:
			b.WriteString(":next-element")
		default:
			b.WriteString(":?")
		}
	}
	return b.String()
}
