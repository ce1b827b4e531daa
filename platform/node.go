package platform

import (
	"go.uber.org/zap"
	"golang.org/x/net/html"

	dombridge "github.com/wippyai/wasm-dom-bridge"
	"github.com/wippyai/wasm-dom-bridge/dom"
	"github.com/wippyai/wasm-dom-bridge/errors"
	"github.com/wippyai/wasm-dom-bridge/handle"
)

// Node is a platform-owned position in the document. It stores how to
// reach its element, not the element itself.
//
// Navigation never fails structurally: Child and Next fall back to the
// receiver, NthChild reports a missing index through ok. Errors are
// returned only when the receiver's own path no longer resolves.
type Node struct {
	p    *Platform
	path Path
	id   handle.Handle
}

// ID returns the node handle.
func (n *Node) ID() handle.Handle {
	return n.id
}

// Path returns the navigation descriptor of n.
func (n *Node) Path() Path {
	return n.path
}

// Element resolves the live element.
func (n *Node) Element() (*html.Node, error) {
	elem := n.path.Resolve(n.p.doc)
	if elem == nil {
		return nil, errors.New(errors.PhasePlatform, errors.KindNotFound).
			Handle(n.id.String()).
			Detail("path %s does not resolve", n.path).
			Build()
	}
	return elem, nil
}

// Child returns the node for the first child of any type, or n itself when
// the element has no children.
func (n *Node) Child() (*Node, error) {
	elem, err := n.Element()
	if err != nil {
		return nil, err
	}
	if dom.FirstChild(elem) == nil {
		return n, nil
	}
	return n.p.nodeAt(n.path.Then(Step{Kind: StepFirstChild}))
}

// NthChild returns the node for the 0-based i-th element child. A node
// without a children collection (text, comment) yields itself. An index
// out of range yields ok == false.
func (n *Node) NthChild(i int) (child *Node, ok bool, err error) {
	elem, err := n.Element()
	if err != nil {
		return nil, false, err
	}
	if !dom.HasChildren(elem) {
		return n, true, nil
	}
	if dom.ElementChild(elem, i) == nil {
		return nil, false, nil
	}
	child, err = n.p.nodeAt(n.path.Then(Step{Kind: StepElementChild, Index: i}))
	if err != nil {
		return nil, false, err
	}
	return child, true, nil
}

// Next returns the node for the next element sibling, or n itself when
// there is none.
func (n *Node) Next() (*Node, error) {
	elem, err := n.Element()
	if err != nil {
		return nil, err
	}
	if dom.NextElementSibling(elem) == nil {
		return n, nil
	}
	return n.p.nodeAt(n.path.Then(Step{Kind: StepNextElementSibling}))
}

// SetStyle applies each entry as an inline style property in order,
// overwriting earlier values for the same key.
func (n *Node) SetStyle(entries []dombridge.StyleEntry) error {
	elem, err := n.Element()
	if err != nil {
		return err
	}
	if elem.Type != html.ElementNode {
		n.p.logger.Debug("set style on non-element ignored", zap.String("node", n.id.String()))
		return nil
	}
	for _, e := range entries {
		dom.SetStyleProperty(elem, e.Key, e.Value)
	}
	return nil
}

// SetText overwrites the text node immediately following the element.
// When that sibling is missing or not text the call does nothing.
func (n *Node) SetText(text string) error {
	elem, err := n.Element()
	if err != nil {
		return err
	}
	if !dom.SetText(elem.NextSibling, text) {
		n.p.logger.Debug("set text skipped, next sibling is not text",
			zap.String("node", n.id.String()),
			zap.String("sibling", dom.Label(elem.NextSibling)))
	}
	return nil
}
