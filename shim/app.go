package shim

import (
	"context"

	"go.uber.org/zap"

	dombridge "github.com/wippyai/wasm-dom-bridge"
	"github.com/wippyai/wasm-dom-bridge/errors"
)

// Component is a compiled UI component. Setup builds the initial tree
// against app and registers the render effect.
type Component interface {
	Setup(app *App) error
}

// ComponentFunc adapts a function to Component.
type ComponentFunc func(app *App) error

func (f ComponentFunc) Setup(app *App) error { return f(app) }

// Metadata describes a mounted component.
type Metadata struct {
	Name  string
	Vapor bool
}

// Describer is implemented by components that carry their own metadata.
type Describer interface {
	Metadata() Metadata
}

// State is the mount state of an App.
type State uint8

const (
	NotMounted State = iota
	Mounted
)

func (s State) String() string {
	if s == Mounted {
		return "mounted"
	}
	return "not-mounted"
}

// Options configures an App.
type Options struct {
	// Metadata is used when the component does not implement Describer.
	Metadata Metadata
	Logger   *zap.Logger
}

// Event is what a handler receives for a delegated event.
type Event struct {
	Name    string
	Payload string
	ID      uint32
}

// Handler reacts to a delegated event.
type Handler func(ev Event) error

type handlerEntry struct {
	fn     Handler
	nodeID string
}

// App is the guest-resident adapter a compiled component calls into.
// It is not safe for concurrent use: the guest runs one call at a time.
type App struct {
	boundary    dombridge.Boundary
	component   Component
	effect      func() error
	handlers    map[uint32]handlerEntry
	logger      *zap.Logger
	meta        Metadata
	state       State
	nextEventID uint32
}

// NewApp creates an unmounted app for c.
func NewApp(c Component, opts Options) *App {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &App{
		component: c,
		meta:      opts.Metadata,
		handlers:  make(map[uint32]handlerEntry),
		logger:    logger.Named("shim"),
	}
}

// Bind sets the boundary used for every platform call.
func (a *App) Bind(b dombridge.Boundary) {
	a.boundary = b
}

// State returns the mount state.
func (a *App) State() State {
	return a.state
}

// Metadata returns the metadata captured at mount.
func (a *App) Metadata() Metadata {
	return a.meta
}

// Render mounts the component on the first call and replays the
// registered render effect on every later call.
func (a *App) Render(_ context.Context) error {
	if a.boundary == nil {
		return errors.InvalidArgument(errors.PhaseShim, "app is not bound to a platform")
	}
	if a.component == nil {
		return errors.InvalidArgument(errors.PhaseShim, "missing component")
	}

	if a.state == Mounted {
		return a.Rerender()
	}

	if d, ok := a.component.(Describer); ok {
		a.meta = d.Metadata()
	}
	if err := a.component.Setup(a); err != nil {
		a.logger.Error("mount failed", zap.String("app", a.meta.Name), zap.Error(err))
		return err
	}
	a.state = Mounted
	a.logger.Debug("mounted", zap.String("app", a.meta.Name), zap.Bool("vapor", a.meta.Vapor))
	return nil
}

// RenderEffect registers fn as the single render effect, replacing any
// previous one, and runs it once.
func (a *App) RenderEffect(fn func() error) error {
	if fn == nil {
		return a.Rerender()
	}
	a.effect = fn
	return fn()
}

// Rerender runs the registered render effect.
func (a *App) Rerender() error {
	if a.effect == nil {
		return errors.New(errors.PhaseShim, errors.KindNoRegisteredEffect).
			Detail("cannot re-render without a registered effect").
			Build()
	}
	return a.effect()
}

// ProcessDelegatedEvent runs the handler registered under eventID and
// then re-renders. An eventID of 0 means the target had no binding; it is
// logged and ignored.
func (a *App) ProcessDelegatedEvent(_ context.Context, event string, eventID uint32, payload string) error {
	if eventID == 0 {
		a.logger.Error("event has no event id", zap.String("event", event))
		return nil
	}

	entry, ok := a.handlers[eventID]
	if !ok {
		return errors.New(errors.PhaseShim, errors.KindHandlerNotFound).
			Detail("no handler for event %q id %d", event, eventID).
			Build()
	}
	if err := entry.fn(Event{Name: event, ID: eventID, Payload: payload}); err != nil {
		return err
	}
	return a.Rerender()
}

// AddEventHandler registers fn under eventID for nodeID and stamps the id
// on the platform node. At most one handler may use an event id.
func (a *App) AddEventHandler(nodeID string, eventID uint32, fn Handler) error {
	switch {
	case nodeID == "":
		return errors.InvalidArgument(errors.PhaseShim, "missing event node id")
	case eventID == 0:
		return errors.InvalidArgument(errors.PhaseShim, "missing event id")
	case fn == nil:
		return errors.InvalidArgument(errors.PhaseShim, "missing event handler")
	}
	if _, dup := a.handlers[eventID]; dup {
		return errors.New(errors.PhaseShim, errors.KindDuplicateEventHandler).
			Handle(nodeID).
			Detail("event id %d already has a handler", eventID).
			Build()
	}

	a.handlers[eventID] = handlerEntry{nodeID: nodeID, fn: fn}
	if err := a.boundary.SetNodeEventID(nodeID, eventID); err != nil {
		delete(a.handlers, eventID)
		return err
	}
	return nil
}

// Handler returns the handler registered under eventID.
func (a *App) Handler(eventID uint32) (Handler, error) {
	entry, ok := a.handlers[eventID]
	if !ok {
		return nil, errors.New(errors.PhaseShim, errors.KindHandlerNotFound).
			Detail("no handler for event id %d", eventID).
			Build()
	}
	return entry.fn, nil
}

// WithEventBinding binds fn to node under the next event id.
func (a *App) WithEventBinding(node *Node, event string, fn Handler) (*Node, error) {
	a.nextEventID++
	id := a.nextEventID
	a.logger.Debug("bind event", zap.String("node", node.id), zap.String("event", event), zap.Uint32("event_id", id))
	if err := a.AddEventHandler(node.id, id, fn); err != nil {
		return nil, err
	}
	return node, nil
}

// DelegateEvents asks the platform to route event to this app.
func (a *App) DelegateEvents(event string) error {
	a.logger.Debug("delegate events", zap.String("event", event))
	return a.boundary.DelegateEvents(event)
}
