package shim

import (
	"go.uber.org/zap"

	"github.com/wippyai/wasm-dom-bridge/refvalue"
)

// Ref is the guest accessor for a platform ref. Every Get pulls the
// current value across the boundary; every Set pushes it.
type Ref struct {
	app  *App
	last any
	id   string
}

// Ref creates a platform ref holding initial.
func (a *App) Ref(initial any) (*Ref, error) {
	v, err := refvalue.Encode(initial)
	if err != nil {
		return nil, err
	}
	id, err := a.boundary.CreateRef(v)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("ref", zap.String("ref", id), zap.Stringer("initial", v))
	return &Ref{app: a, id: id, last: initial}, nil
}

// ID returns the ref handle string.
func (r *Ref) ID() string {
	return r.id
}

// Get returns the platform's current value.
func (r *Ref) Get() (any, error) {
	b := r.app.boundary
	if _, err := b.GetRefByID(r.id); err != nil {
		return nil, err
	}
	v, err := b.RefGetValue(r.id)
	if err != nil {
		return nil, err
	}
	native, err := refvalue.Decode(v)
	if err != nil {
		return nil, err
	}
	r.last = native
	return native, nil
}

// Number returns the current value as a float64. Non-numbers read as 0.
func (r *Ref) Number() (float64, error) {
	v, err := r.Get()
	if err != nil {
		return 0, err
	}
	f, _ := v.(float64)
	return f, nil
}

// Set writes v to the platform.
func (r *Ref) Set(v any) error {
	b := r.app.boundary
	if _, err := b.GetRefByID(r.id); err != nil {
		return err
	}
	encoded, err := refvalue.Encode(v)
	if err != nil {
		return err
	}
	if err := b.RefSetValue(r.id, encoded); err != nil {
		return err
	}
	r.last = v
	return nil
}

// Last returns the value seen by the most recent Get or Set without a
// boundary round trip.
func (r *Ref) Last() any {
	return r.last
}
