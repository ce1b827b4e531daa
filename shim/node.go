package shim

import (
	"go.uber.org/zap"

	dombridge "github.com/wippyai/wasm-dom-bridge"
	"github.com/wippyai/wasm-dom-bridge/errors"
)

// Node is the guest view of a platform node: just its handle.
type Node struct {
	id string
}

// NodeOf wraps a handle string.
func NodeOf(id string) *Node {
	return &Node{id: id}
}

// ID returns the node handle string.
func (n *Node) ID() string {
	return n.id
}

// Template returns a factory that materializes markup as a new platform
// subtree on every call.
func (a *App) Template(markup string, isDynamic bool) func() (*Node, error) {
	a.logger.Debug("template", zap.Bool("dynamic", isDynamic))
	return func() (*Node, error) {
		id, err := a.boundary.CreateNode(markup)
		if err != nil {
			return nil, err
		}
		return &Node{id: id}, nil
	}
}

// Child returns the first child of n, or n when it has none.
func (a *App) Child(n *Node) (*Node, error) {
	a.logger.Debug("child", zap.String("node", n.id))
	id, err := a.boundary.NodeChild(n.id)
	if err != nil {
		return nil, err
	}
	return &Node{id: id}, nil
}

// Next returns the next element sibling of n, or n when it has none.
func (a *App) Next(n *Node) (*Node, error) {
	a.logger.Debug("next", zap.String("node", n.id))
	id, err := a.boundary.NodeNext(n.id)
	if err != nil {
		return nil, err
	}
	return &Node{id: id}, nil
}

// NthChild returns the nth element child of n, counting from 1. ok is
// false when there is no such child; nth == 0 never matches.
func (a *App) NthChild(n *Node, nth int) (child *Node, ok bool, err error) {
	a.logger.Debug("nth child", zap.String("node", n.id), zap.Int("nth", nth))
	if nth < 0 {
		return nil, false, errors.InvalidArgument(errors.PhaseShim, "nth must not be negative")
	}
	if nth == 0 {
		return nil, false, nil
	}
	id, ok, err := a.boundary.NodeNthChild(n.id, uint32(nth-1))
	if err != nil || !ok {
		return nil, false, err
	}
	return &Node{id: id}, true, nil
}

// SetStyle applies entries in order. A nil style is ignored.
func (a *App) SetStyle(n *Node, entries []dombridge.StyleEntry) error {
	a.logger.Debug("set style", zap.String("node", n.id), zap.Int("entries", len(entries)))
	if entries == nil {
		return nil
	}
	return a.boundary.NodeSetStyle(n.id, entries)
}

// Style builds style entries from alternating key and value strings.
func Style(kv ...string) []dombridge.StyleEntry {
	out := make([]dombridge.StyleEntry, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		out = append(out, dombridge.StyleEntry{Key: kv[i], Value: kv[i+1]})
	}
	return out
}

// SetText overwrites the text node following n.
func (a *App) SetText(n *Node, text string) error {
	a.logger.Debug("set text", zap.String("node", n.id), zap.String("text", text))
	return a.boundary.NodeSetText(n.id, text)
}
