package platform

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-dom-bridge/handle"
	"github.com/wippyai/wasm-dom-bridge/refvalue"
)

// Ref is a platform-owned reactive cell. It stores the decoded native
// value; only the latest write is kept.
type Ref struct {
	p     *Platform
	value any
	id    handle.Handle
	mu    sync.Mutex
}

// ID returns the ref handle.
func (r *Ref) ID() handle.Handle {
	return r.id
}

// Value returns the current native value.
func (r *Ref) Value() any {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.value
}

// GetValue returns the current value encoded for the boundary.
func (r *Ref) GetValue() (refvalue.Value, error) {
	return refvalue.Encode(r.Value())
}

// SetValue decodes v and stores it. When the new value differs from the
// previous one under refvalue.Same a re-render is scheduled; the render
// itself happens later, never inside SetValue.
func (r *Ref) SetValue(v refvalue.Value) error {
	native, err := refvalue.Decode(v)
	if err != nil {
		return err
	}

	r.mu.Lock()
	old := r.value
	r.value = native
	r.mu.Unlock()

	if refvalue.Same(old, native) {
		return nil
	}
	r.p.logger.Debug("ref changed", zap.String("ref", r.id.String()), zap.Stringer("value", v))
	r.p.scheduleRender()
	return nil
}
