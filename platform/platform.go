package platform

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/wippyai/wasm-dom-bridge/dom"
	"github.com/wippyai/wasm-dom-bridge/errors"
	"github.com/wippyai/wasm-dom-bridge/handle"
	"github.com/wippyai/wasm-dom-bridge/refvalue"
)

// Component is the guest side as seen by the platform: the two entry
// points the platform calls back into.
type Component interface {
	Render(ctx context.Context) error
	ProcessDelegatedEvent(ctx context.Context, event string, eventID uint32, payload string) error
}

// Registries is the identity set for one mounted session.
type Registries = handle.Set[*Node, *Ref, *Platform]

// NewRegistries returns an empty registry set.
func NewRegistries() *Registries {
	return handle.NewSet[*Node, *Ref, *Platform]()
}

// Config configures a Platform.
type Config struct {
	// Document holds the live tree. Required.
	Document *dom.Document

	// Selector locates the mount root in Document. Required.
	Selector string

	// Component receives render and event callbacks. Required.
	Component Component

	// Registries is shared with other components that resolve handles.
	// When nil the platform creates and owns its own set.
	Registries *Registries

	// Logger defaults to a no-op logger.
	Logger *zap.Logger
}

// Platform is the host side of one mounted component tree.
type Platform struct {
	doc       *dom.Document
	component Component
	reg       *Registries
	logger    *zap.Logger
	delegated map[string]dom.ListenerID
	id        handle.Handle
	selector  string
	owner     string
	ownsReg   bool

	mu         sync.Mutex
	containers []*html.Node
	pending    bool
	inEvent    int
	scheduled  int
	renders    int
	closed     bool
}

// New validates cfg and registers a new platform.
func New(cfg Config) (*Platform, error) {
	if cfg.Document == nil {
		return nil, errors.InvalidArgument(errors.PhasePlatform, "missing document")
	}
	if cfg.Selector == "" {
		return nil, errors.InvalidArgument(errors.PhasePlatform, "missing mount selector")
	}
	if cfg.Component == nil {
		return nil, errors.InvalidArgument(errors.PhasePlatform, "missing component")
	}
	if _, err := cfg.Document.Query(cfg.Selector); err != nil {
		return nil, errors.Wrap(errors.PhasePlatform, errors.KindInvalidArgument, err, "resolve mount root")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	p := &Platform{
		doc:       cfg.Document,
		component: cfg.Component,
		reg:       cfg.Registries,
		selector:  cfg.Selector,
		owner:     uuid.NewString(),
		delegated: make(map[string]dom.ListenerID),
	}
	if p.reg == nil {
		p.reg = NewRegistries()
		p.ownsReg = true
	}
	p.id = p.reg.Platforms.Register(p)
	if p.id.IsZero() {
		return nil, errors.New(errors.PhasePlatform, errors.KindClosed).
			Detail("registry set closed").
			Build()
	}
	p.logger = logger.Named("platform").With(zap.String("platform", p.id.String()))
	p.logger.Debug("platform created", zap.String("selector", cfg.Selector))
	return p, nil
}

// ID returns the platform handle.
func (p *Platform) ID() handle.Handle {
	return p.id
}

// Document returns the live tree.
func (p *Platform) Document() *dom.Document {
	return p.doc
}

// Registries returns the identity set this platform allocates in.
func (p *Platform) Registries() *Registries {
	return p.reg
}

// Root resolves the mount root element.
func (p *Platform) Root() (*html.Node, error) {
	n, err := p.doc.Query(p.selector)
	if err != nil {
		return nil, errors.Wrap(errors.PhasePlatform, errors.KindNotFound, err, "resolve mount root")
	}
	return n, nil
}

// CreateNode materializes markup inside a fresh container appended to the
// mount root and returns a node for the container's first element. Each
// call creates a new subtree.
func (p *Platform) CreateNode(markup string) (*Node, error) {
	root, err := p.Root()
	if err != nil {
		return nil, err
	}

	nodes, err := dom.ParseFragment(markup)
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, errors.InvalidArgument(errors.PhasePlatform, "template markup is empty")
	}

	containerID := "bridge-" + uuid.NewString()
	container := dom.CreateElement("div", "id", containerID)
	for _, n := range nodes {
		container.AppendChild(n)
	}
	root.AppendChild(container)

	p.mu.Lock()
	p.containers = append(p.containers, container)
	p.mu.Unlock()

	anchor := Path{Anchor: "#" + containerID}
	path := anchor.Then(Step{Kind: StepElementChild, Index: 0})
	if path.Resolve(p.doc) == nil {
		// text-only template
		path = anchor.Then(Step{Kind: StepFirstChild})
	}

	node, err := p.nodeAt(path)
	if err != nil {
		return nil, err
	}
	p.logger.Debug("node created", zap.String("node", node.id.String()), zap.Stringer("path", path))
	return node, nil
}

// CreateRef registers a ref holding initial. A nil initial value fails with
// KindInvalidArgument.
func (p *Platform) CreateRef(initial *refvalue.Value) (*Ref, error) {
	if initial == nil {
		return nil, errors.InvalidArgument(errors.PhasePlatform, "missing initial ref value")
	}
	native, err := refvalue.Decode(*initial)
	if err != nil {
		return nil, err
	}
	r := &Ref{p: p, value: native}
	r.id = p.reg.Refs.Register(r)
	if r.id.IsZero() {
		return nil, errors.New(errors.PhasePlatform, errors.KindClosed).
			Detail("registry set closed").
			Build()
	}
	p.logger.Debug("ref created", zap.String("ref", r.id.String()), zap.Stringer("value", *initial))
	return r, nil
}

// NodeByID resolves a node handle string.
func (p *Platform) NodeByID(id string) (*Node, error) {
	n, _, err := p.reg.Nodes.ResolveString(id)
	return n, err
}

// RefByID resolves a ref handle string.
func (p *Platform) RefByID(id string) (*Ref, error) {
	r, _, err := p.reg.Refs.ResolveString(id)
	return r, err
}

// Owns reports whether n lies inside a subtree this platform created.
// Mounts sharing a root element only see their own targets.
func (p *Platform) Owns(n *html.Node) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.containers {
		if dom.Contains(c, n) {
			return true
		}
	}
	return false
}

// nodeAt returns the node registered for the element at path, registering
// a new one when the element carries no back-reference from this platform.
func (p *Platform) nodeAt(path Path) (*Node, error) {
	elem := path.Resolve(p.doc)
	if elem == nil {
		return nil, errors.New(errors.PhasePlatform, errors.KindNotFound).
			Detail("path %s does not resolve", path).
			Build()
	}
	if id, ok := p.doc.NodeID(elem, p.owner); ok {
		existing, err := p.reg.Nodes.Resolve(handle.Handle{NS: handle.NamespaceNode, ID: id})
		if err == nil {
			return existing, nil
		}
		p.logger.Warn("stale node back-reference", zap.Uint32("id", id), zap.Error(err))
	}

	n := &Node{p: p, path: path}
	n.id = p.reg.Nodes.Register(n)
	if n.id.IsZero() {
		return nil, errors.New(errors.PhasePlatform, errors.KindClosed).
			Detail("registry set closed").
			Build()
	}
	p.doc.SetNodeID(elem, p.owner, n.id.ID)
	return n, nil
}

// Close detaches delegated listeners and, when the platform owns its
// registries, releases every node and ref.
func (p *Platform) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	delegated := p.delegated
	p.delegated = make(map[string]dom.ListenerID)
	p.mu.Unlock()

	for _, id := range delegated {
		p.doc.RemoveEventListener(id)
	}
	if p.ownsReg {
		p.reg.Close()
	}
	p.logger.Debug("platform closed")
	return nil
}
