package handle

import (
	"strconv"
	"strings"

	"github.com/wippyai/wasm-dom-bridge/errors"
)

// Namespace tags the kind of platform object a handle names.
type Namespace string

const (
	NamespaceNode     Namespace = "node"
	NamespaceRef      Namespace = "ref"
	NamespacePlatform Namespace = "platform"
)

// Handle is an opaque reference to a platform-owned object.
// ID 0 is reserved and always invalid.
type Handle struct {
	NS Namespace
	ID uint32
}

// String returns the wire form "<namespace>-<id>".
func (h Handle) String() string {
	return string(h.NS) + "-" + strconv.FormatUint(uint64(h.ID), 10)
}

// IsZero reports whether h is the zero handle.
func (h Handle) IsZero() bool {
	return h.ID == 0
}

// Parse validates and decodes a handle string in any known namespace.
func Parse(s string) (Handle, error) {
	ns, digits, ok := strings.Cut(s, "-")
	if !ok {
		return Handle{}, errors.MalformedHandle(errors.PhaseRegistry, s, "missing namespace separator")
	}
	switch Namespace(ns) {
	case NamespaceNode, NamespaceRef, NamespacePlatform:
	default:
		return Handle{}, errors.MalformedHandle(errors.PhaseRegistry, s, "unknown namespace "+strconv.Quote(ns))
	}
	return parseID(Namespace(ns), digits, s)
}

// ParseIn decodes a handle string that must belong to ns.
// The prefix is checked before the suffix is parsed.
func ParseIn(ns Namespace, s string) (Handle, error) {
	prefix := string(ns) + "-"
	if !strings.HasPrefix(s, prefix) {
		return Handle{}, errors.MalformedHandle(errors.PhaseRegistry, s, "expected namespace "+strconv.Quote(string(ns)))
	}
	return parseID(ns, s[len(prefix):], s)
}

func parseID(ns Namespace, digits, raw string) (Handle, error) {
	if digits == "" {
		return Handle{}, errors.MalformedHandle(errors.PhaseRegistry, raw, "empty id")
	}
	// ParseUint accepts only digits here; reject signs and spaces explicitly
	for i := 0; i < len(digits); i++ {
		if digits[i] < '0' || digits[i] > '9' {
			return Handle{}, errors.MalformedHandle(errors.PhaseRegistry, raw, "id is not an unsigned integer")
		}
	}
	id, err := strconv.ParseUint(digits, 10, 32)
	if err != nil {
		return Handle{}, errors.New(errors.PhaseRegistry, errors.KindMalformedHandle).
			Handle(raw).
			Detail("id out of range").
			Cause(err).
			Build()
	}
	if id == 0 {
		return Handle{}, errors.MalformedHandle(errors.PhaseRegistry, raw, "id 0 is reserved")
	}
	return Handle{NS: ns, ID: uint32(id)}, nil
}
