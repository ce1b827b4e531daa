package dom

import (
	"io"
	"strings"
	"sync"

	"github.com/antchfx/htmlquery"
	"go.uber.org/zap"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/wippyai/wasm-dom-bridge/errors"
)

// Document is a live HTML tree plus the side tables the bridge attaches to
// its nodes (node-handle back-references, event ids, listeners).
//
// The tree itself is single-writer: callers serialize mutations. The side
// tables are guarded by an internal mutex so lookups from event dispatch
// never race registration.
type Document struct {
	root      *html.Node
	logger    *zap.Logger
	expando   map[*html.Node]*expando
	listeners map[*html.Node]map[string][]*listener
	mu        sync.RWMutex
	nextLID   uint64
}

// expando holds per-node bridge data. Node and event ids are keyed by owner
// so several platforms mounted into one document keep separate tables.
type expando struct {
	nodeIDs  map[string]uint32
	eventIDs map[string]uint32
}

// New wraps an already parsed tree.
func New(root *html.Node, logger *zap.Logger) *Document {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Document{
		root:      root,
		logger:    logger.Named("dom"),
		expando:   make(map[*html.Node]*expando),
		listeners: make(map[*html.Node]map[string][]*listener),
	}
}

// Parse reads a full HTML page.
func Parse(r io.Reader, logger *zap.Logger) (*Document, error) {
	root, err := htmlquery.Parse(r)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDOM, errors.KindMalformedPayload, err, "parse document")
	}
	return New(root, logger), nil
}

// ParseString is Parse over a string.
func ParseString(page string, logger *zap.Logger) (*Document, error) {
	return Parse(strings.NewReader(page), logger)
}

// Root returns the document node.
func (d *Document) Root() *html.Node {
	return d.root
}

// Body returns the <body> element, or the root when the tree has none.
func (d *Document) Body() *html.Node {
	if body := htmlquery.FindOne(d.root, "//body"); body != nil {
		return body
	}
	return d.root
}

// Query returns the first element matching selector.
// Selectors are simple CSS (tag, #id, .class, descendant) or raw XPath.
func (d *Document) Query(selector string) (*html.Node, error) {
	xpath := CSSToXPath(selector)
	n, err := htmlquery.Query(d.root, xpath)
	if err != nil {
		return nil, errors.New(errors.PhaseDOM, errors.KindInvalidArgument).
			Detail("invalid selector %q", selector).
			Cause(err).
			Build()
	}
	if n == nil {
		return nil, errors.NotFound(errors.PhaseDOM, "element", selector)
	}
	return n, nil
}

// QueryAll returns every element matching selector in document order.
func (d *Document) QueryAll(selector string) ([]*html.Node, error) {
	nodes, err := htmlquery.QueryAll(d.root, CSSToXPath(selector))
	if err != nil {
		return nil, errors.New(errors.PhaseDOM, errors.KindInvalidArgument).
			Detail("invalid selector %q", selector).
			Cause(err).
			Build()
	}
	return nodes, nil
}

// ParseFragment parses markup in the context of a <div> and returns the
// detached top-level nodes.
func ParseFragment(markup string) ([]*html.Node, error) {
	context := &html.Node{Type: html.ElementNode, Data: "div", DataAtom: atom.Div}
	nodes, err := html.ParseFragment(strings.NewReader(markup), context)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseDOM, errors.KindMalformedPayload, err, "parse fragment")
	}
	return nodes, nil
}

// CreateElement returns a detached element with the given attributes,
// supplied as key/value pairs.
func CreateElement(tag string, attrs ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// OuterHTML renders n and its subtree.
func OuterHTML(n *html.Node) (string, error) {
	var sb strings.Builder
	if err := html.Render(&sb, n); err != nil {
		return "", errors.Wrap(errors.PhaseDOM, errors.KindInvalidArgument, err, "render node")
	}
	return sb.String(), nil
}

// InnerHTML renders the children of n.
func InnerHTML(n *html.Node) (string, error) {
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&sb, c); err != nil {
			return "", errors.Wrap(errors.PhaseDOM, errors.KindInvalidArgument, err, "render node")
		}
	}
	return sb.String(), nil
}

// InnerText returns the concatenated text content of n.
func InnerText(n *html.Node) string {
	return htmlquery.InnerText(n)
}

// Render writes the whole document.
func (d *Document) Render(w io.Writer) error {
	if err := html.Render(w, d.root); err != nil {
		return errors.Wrap(errors.PhaseDOM, errors.KindInvalidArgument, err, "render document")
	}
	return nil
}

// Attr returns the value of attribute key on n.
func Attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets attribute key on n, replacing an existing value in place.
func SetAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Namespace == "" && n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes attribute key from n.
func RemoveAttr(n *html.Node, key string) {
	out := n.Attr[:0]
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			continue
		}
		out = append(out, a)
	}
	n.Attr = out
}

// SetNodeID records that owner knows n by id.
func (d *Document) SetNodeID(n *html.Node, owner string, id uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e := d.expandoLocked(n)
	if e.nodeIDs == nil {
		e.nodeIDs = make(map[string]uint32, 1)
	}
	e.nodeIDs[owner] = id
}

// NodeID returns the id owner registered for n.
func (d *Document) NodeID(n *html.Node, owner string) (uint32, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if e, ok := d.expando[n]; ok {
		id, ok := e.nodeIDs[owner]
		return id, ok
	}
	return 0, false
}

// SetEventID stamps owner's event id onto n.
func (d *Document) SetEventID(n *html.Node, owner string, id uint32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	e := d.expandoLocked(n)
	if e.eventIDs == nil {
		e.eventIDs = make(map[string]uint32, 1)
	}
	e.eventIDs[owner] = id
}

// EventID returns the event id owner stamped on n, or 0.
func (d *Document) EventID(n *html.Node, owner string) uint32 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if e, ok := d.expando[n]; ok {
		return e.eventIDs[owner]
	}
	return 0
}

// HasEventID reports whether any owner stamped a nonzero event id on n.
func (d *Document) HasEventID(n *html.Node) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if e, ok := d.expando[n]; ok {
		for _, id := range e.eventIDs {
			if id != 0 {
				return true
			}
		}
	}
	return false
}

func (d *Document) expandoLocked(n *html.Node) *expando {
	e, ok := d.expando[n]
	if !ok {
		e = &expando{}
		d.expando[n] = e
	}
	return e
}
