// Package handle provides the identity scheme for platform-owned objects.
//
// The guest never receives a native reference. It names nodes, refs and
// mounted platforms with namespaced handle strings:
//
//	node-1, node-2, ...
//	ref-1, ...
//	platform-1
//
// # Registries
//
// A Registry maps a monotonically increasing integer to a live object:
//
//	nodes := handle.NewRegistry[*Node](handle.NamespaceNode)
//	h := nodes.Register(n)          // node-1
//	n, err := nodes.Resolve(h)
//	n, h, err = nodes.ResolveString("node-1")
//
// Registries are append-only. IDs are never recycled while the registry is
// open; Close releases everything at once at the end of a session.
//
// # Errors
//
// Strings that do not match "<namespace>-<digits>" fail with
// KindMalformedHandle. Well-formed handles with no registered object fail
// with KindNotFound.
package handle
