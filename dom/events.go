package dom

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/net/html"
)

// Event is a synthetic UI event travelling up the tree.
type Event struct {
	Name          string
	Payload       string
	Target        *html.Node
	CurrentTarget *html.Node
	stopped       bool
}

// StopPropagation prevents the event from reaching ancestors of the
// current target. Listeners on the current target still run.
func (e *Event) StopPropagation() {
	e.stopped = true
}

// Listener handles an event delivered to a node.
type Listener func(ctx context.Context, ev *Event) error

type listener struct {
	id uint64
	fn Listener
}

// ListenerID identifies a registered listener for removal.
type ListenerID struct {
	node  *html.Node
	event string
	id    uint64
}

// AddEventListener attaches fn to n for events named event.
// Each call adds a new listener; deduplication is the caller's concern.
func (d *Document) AddEventListener(n *html.Node, event string, fn Listener) ListenerID {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.nextLID++
	byEvent, ok := d.listeners[n]
	if !ok {
		byEvent = make(map[string][]*listener)
		d.listeners[n] = byEvent
	}
	byEvent[event] = append(byEvent[event], &listener{id: d.nextLID, fn: fn})
	return ListenerID{node: n, event: event, id: d.nextLID}
}

// RemoveEventListener detaches a listener. Unknown ids are ignored.
func (d *Document) RemoveEventListener(id ListenerID) {
	d.mu.Lock()
	defer d.mu.Unlock()

	byEvent := d.listeners[id.node]
	ls := byEvent[id.event]
	for i, l := range ls {
		if l.id == id.id {
			byEvent[id.event] = append(ls[:i:i], ls[i+1:]...)
			break
		}
	}
	if len(byEvent[id.event]) == 0 {
		delete(byEvent, id.event)
	}
	if len(byEvent) == 0 {
		delete(d.listeners, id.node)
	}
}

// ListenerCount returns the number of listeners for event on n.
func (d *Document) ListenerCount(n *html.Node, event string) int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.listeners[n][event])
}

// Dispatch fires event at target and bubbles it to the root. Listeners run
// without the document lock held, so they may mutate the tree or register
// further listeners. The first listener error stops propagation and is
// returned. The result reports how many listeners ran.
func (d *Document) Dispatch(ctx context.Context, target *html.Node, event, payload string) (int, error) {
	ev := &Event{Name: event, Payload: payload, Target: target}
	delivered := 0

	for n := target; n != nil; n = n.Parent {
		d.mu.RLock()
		snapshot := append([]*listener(nil), d.listeners[n][event]...)
		d.mu.RUnlock()

		ev.CurrentTarget = n
		for _, l := range snapshot {
			if err := ctx.Err(); err != nil {
				return delivered, err
			}
			delivered++
			if err := l.fn(ctx, ev); err != nil {
				d.logger.Debug("listener failed",
					zap.String("event", event),
					zap.String("node", Label(n)),
					zap.Error(err))
				return delivered, err
			}
		}
		if ev.stopped {
			break
		}
	}
	return delivered, nil
}
