package platform

import (
	dombridge "github.com/wippyai/wasm-dom-bridge"
	"github.com/wippyai/wasm-dom-bridge/refvalue"
)

// Bridge exposes a Platform through the handle-string call surface the
// guest uses. Host import functions and in-process shims both go through
// it.
type Bridge struct {
	p *Platform
}

var _ dombridge.Boundary = (*Bridge)(nil)

// Boundary returns the handle-string adapter for p.
func (p *Platform) Boundary() *Bridge {
	return &Bridge{p: p}
}

// Platform returns the adapted platform.
func (b *Bridge) Platform() *Platform {
	return b.p
}

func (b *Bridge) CreateNode(markup string) (string, error) {
	n, err := b.p.CreateNode(markup)
	if err != nil {
		return "", err
	}
	return n.id.String(), nil
}

func (b *Bridge) CreateRef(initial refvalue.Value) (string, error) {
	r, err := b.p.CreateRef(&initial)
	if err != nil {
		return "", err
	}
	return r.id.String(), nil
}

func (b *Bridge) DelegateEvents(event string) error {
	return b.p.DelegateEvents(event)
}

func (b *Bridge) SetNodeEventID(node string, eventID uint32) error {
	return b.p.SetNodeEventID(node, eventID)
}

func (b *Bridge) GetNodeByID(node string) (string, error) {
	n, err := b.p.NodeByID(node)
	if err != nil {
		return "", err
	}
	return n.id.String(), nil
}

func (b *Bridge) GetRefByID(ref string) (string, error) {
	r, err := b.p.RefByID(ref)
	if err != nil {
		return "", err
	}
	return r.id.String(), nil
}

func (b *Bridge) NodeChild(node string) (string, error) {
	n, err := b.p.NodeByID(node)
	if err != nil {
		return "", err
	}
	c, err := n.Child()
	if err != nil {
		return "", err
	}
	return c.id.String(), nil
}

func (b *Bridge) NodeNthChild(node string, nth uint32) (string, bool, error) {
	n, err := b.p.NodeByID(node)
	if err != nil {
		return "", false, err
	}
	c, ok, err := n.NthChild(int(nth))
	if err != nil || !ok {
		return "", false, err
	}
	return c.id.String(), true, nil
}

func (b *Bridge) NodeNext(node string) (string, error) {
	n, err := b.p.NodeByID(node)
	if err != nil {
		return "", err
	}
	s, err := n.Next()
	if err != nil {
		return "", err
	}
	return s.id.String(), nil
}

func (b *Bridge) NodeSetStyle(node string, entries []dombridge.StyleEntry) error {
	n, err := b.p.NodeByID(node)
	if err != nil {
		return err
	}
	return n.SetStyle(entries)
}

func (b *Bridge) NodeSetText(node, text string) error {
	n, err := b.p.NodeByID(node)
	if err != nil {
		return err
	}
	return n.SetText(text)
}

func (b *Bridge) RefGetValue(ref string) (refvalue.Value, error) {
	r, err := b.p.RefByID(ref)
	if err != nil {
		return refvalue.Value{}, err
	}
	return r.GetValue()
}

func (b *Bridge) RefSetValue(ref string, v refvalue.Value) error {
	r, err := b.p.RefByID(ref)
	if err != nil {
		return err
	}
	return r.SetValue(v)
}
