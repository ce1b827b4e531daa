package handle

import (
	"math"
	"sync"

	"github.com/wippyai/wasm-dom-bridge/errors"
)

// Registry is an append-only identity table for one namespace.
// IDs are allocated monotonically from 1 and never reused while the
// registry is open.
type Registry[T any] struct {
	entries []T
	ns      Namespace
	mu      sync.RWMutex
	limit   uint64 // highest allocatable id
	closed  bool
}

// NewRegistry creates an empty registry for ns.
func NewRegistry[T any](ns Namespace) *Registry[T] {
	return &Registry[T]{
		ns:      ns,
		entries: make([]T, 0, 64),
		limit:   math.MaxUint32,
	}
}

// Namespace returns the namespace this registry allocates in.
func (r *Registry[T]) Namespace() Namespace {
	return r.ns
}

// Register stores v and returns its handle.
// Returns the zero handle once the registry is closed or its id space
// is exhausted.
func (r *Registry[T]) Register(v T) Handle {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed || uint64(len(r.entries)) >= r.limit {
		return Handle{}
	}

	r.entries = append(r.entries, v)
	return Handle{NS: r.ns, ID: uint32(len(r.entries))}
}

// Resolve retrieves the object named by h.
func (r *Registry[T]) Resolve(h Handle) (T, error) {
	var zero T
	if h.NS != r.ns {
		return zero, errors.MalformedHandle(errors.PhaseRegistry, h.String(), "expected namespace "+string(r.ns))
	}
	if h.ID == 0 {
		return zero, errors.MalformedHandle(errors.PhaseRegistry, h.String(), "id 0 is reserved")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return zero, errors.New(errors.PhaseRegistry, errors.KindClosed).
			Handle(h.String()).
			Detail("registry closed").
			Build()
	}

	idx := h.ID - 1
	if int(idx) >= len(r.entries) {
		return zero, errors.HandleNotFound(errors.PhaseRegistry, h.String())
	}
	return r.entries[idx], nil
}

// ResolveString parses s in this registry's namespace and resolves it.
func (r *Registry[T]) ResolveString(s string) (T, Handle, error) {
	h, err := ParseIn(r.ns, s)
	if err != nil {
		var zero T
		return zero, Handle{}, err
	}
	v, err := r.Resolve(h)
	return v, h, err
}

// Len returns the number of registered objects.
func (r *Registry[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Each iterates over registered objects in allocation order.
// The registry lock is not held while fn runs.
func (r *Registry[T]) Each(fn func(Handle, T) bool) {
	r.mu.RLock()
	snapshot := make([]T, len(r.entries))
	copy(snapshot, r.entries)
	r.mu.RUnlock()

	for i, v := range snapshot {
		if !fn(Handle{NS: r.ns, ID: uint32(i + 1)}, v) {
			return
		}
	}
}

// Close releases every entry and stops accepting registrations.
func (r *Registry[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return
	}
	r.closed = true
	r.entries = nil
}

// Set groups the node, ref and platform registries of one mounted session
// so they share a lifetime and are torn down together.
type Set[N, R, P any] struct {
	Nodes     *Registry[N]
	Refs      *Registry[R]
	Platforms *Registry[P]
}

// NewSet creates a set of empty registries.
func NewSet[N, R, P any]() *Set[N, R, P] {
	return &Set[N, R, P]{
		Nodes:     NewRegistry[N](NamespaceNode),
		Refs:      NewRegistry[R](NamespaceRef),
		Platforms: NewRegistry[P](NamespacePlatform),
	}
}

// Close closes all three registries.
func (s *Set[N, R, P]) Close() {
	s.Nodes.Close()
	s.Refs.Close()
	s.Platforms.Close()
}
