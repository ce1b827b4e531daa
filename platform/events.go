package platform

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/wippyai/wasm-dom-bridge/dom"
	"github.com/wippyai/wasm-dom-bridge/errors"
)

// DelegateEvents attaches one listener for event at the mount root. The
// listener forwards events whose target lies in this platform's subtrees
// to the component with the event id this platform stamped on the target,
// or 0 when it has none. Delegating the same event twice is a no-op.
func (p *Platform) DelegateEvents(event string) error {
	if event == "" {
		return errors.InvalidArgument(errors.PhasePlatform, "missing event name")
	}
	root, err := p.Root()
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return errors.New(errors.PhasePlatform, errors.KindClosed).Detail("platform closed").Build()
	}
	if _, ok := p.delegated[event]; ok {
		p.logger.Debug("event already delegated", zap.String("event", event))
		return nil
	}

	p.delegated[event] = p.doc.AddEventListener(root, event, func(ctx context.Context, ev *dom.Event) error {
		if !p.Owns(ev.Target) {
			return nil
		}
		eventID := p.doc.EventID(ev.Target, p.owner)
		p.logger.Debug("delegated event",
			zap.String("event", event),
			zap.Uint32("event_id", eventID),
			zap.String("target", dom.Label(ev.Target)))
		return p.component.ProcessDelegatedEvent(ctx, event, eventID, ev.Payload)
	})
	p.logger.Debug("events delegated", zap.String("event", event))
	return nil
}

// Delegated reports whether event has a root listener.
func (p *Platform) Delegated(event string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.delegated[event]
	return ok
}

// SetNodeEventID stamps eventID onto the element of the node named by
// nodeID so real events on it can be mapped back to the guest handler.
func (p *Platform) SetNodeEventID(nodeID string, eventID uint32) error {
	node, err := p.NodeByID(nodeID)
	if err != nil {
		p.logger.Error("set event id on unknown node", zap.String("node", nodeID), zap.Error(err))
		return err
	}
	elem, err := node.Element()
	if err != nil {
		p.logger.Error("set event id on detached node", zap.String("node", nodeID), zap.Error(err))
		return err
	}
	p.doc.SetEventID(elem, p.owner, eventID)
	p.logger.Debug("event id set", zap.String("node", nodeID), zap.Uint32("event_id", eventID))
	return nil
}

// DispatchEvent fires a real event at target and lets it bubble. Renders
// requested by ref writes during the dispatch are dropped, since the guest
// replays its render effect after every handled event.
func (p *Platform) DispatchEvent(ctx context.Context, target *html.Node, event, payload string) error {
	p.mu.Lock()
	p.inEvent++
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.inEvent--
		p.mu.Unlock()
	}()

	_, err := p.doc.Dispatch(ctx, target, event, payload)
	if err != nil {
		p.logger.Warn("event dispatch failed", zap.String("event", event), zap.Error(err))
	}
	return err
}

// DispatchSelector dispatches event at the first element matching selector.
func (p *Platform) DispatchSelector(ctx context.Context, selector, event, payload string) error {
	target, err := p.doc.Query(selector)
	if err != nil {
		return err
	}
	return p.DispatchEvent(ctx, target, event, payload)
}

// Render asks the component to render now. The first call mounts, later
// calls replay.
func (p *Platform) Render(ctx context.Context) error {
	p.mu.Lock()
	p.pending = false
	p.renders++
	p.mu.Unlock()

	if err := p.component.Render(ctx); err != nil {
		p.logger.Error("render failed", zap.Error(err))
		return err
	}
	return nil
}

// Flush runs a pending scheduled render, if any.
func (p *Platform) Flush(ctx context.Context) error {
	p.mu.Lock()
	pending := p.pending
	p.mu.Unlock()
	if !pending {
		return nil
	}
	return p.Render(ctx)
}

// Pending reports whether a render is scheduled.
func (p *Platform) Pending() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pending
}

// ScheduledRenders returns how many renders ref writes have requested.
func (p *Platform) ScheduledRenders() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.scheduled
}

// Renders returns how many times the component was asked to render.
func (p *Platform) Renders() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.renders
}

func (p *Platform) scheduleRender() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scheduled++
	if p.inEvent == 0 {
		p.pending = true
	}
}
