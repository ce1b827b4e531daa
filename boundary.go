package dombridge

import "github.com/wippyai/wasm-dom-bridge/refvalue"

// StyleEntry is one inline style assignment sent with NodeSetStyle.
type StyleEntry struct {
	Key   string
	Value string
}

// Boundary is the guest-to-platform call surface. Nodes and refs are named
// by handle strings; values cross as refvalue.Value.
//
// Implementations: platform.Bridge (in-process) and the wasip1 guest,
// which forwards each call to the matching host import.
type Boundary interface {
	// CreateNode materializes markup under the mount root and returns the
	// handle of its root element.
	CreateNode(markup string) (string, error)
	CreateRef(initial refvalue.Value) (string, error)
	DelegateEvents(event string) error
	SetNodeEventID(node string, eventID uint32) error
	GetNodeByID(node string) (string, error)
	GetRefByID(ref string) (string, error)

	NodeChild(node string) (string, error)
	// NodeNthChild takes a 0-based element index. ok is false when the
	// index is out of range.
	NodeNthChild(node string, nth uint32) (child string, ok bool, err error)
	NodeNext(node string) (string, error)
	NodeSetStyle(node string, entries []StyleEntry) error
	NodeSetText(node, text string) error

	RefGetValue(ref string) (refvalue.Value, error)
	RefSetValue(ref string, v refvalue.Value) error
}
