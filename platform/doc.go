// Package platform is the host side of the bridge: it owns the mounted
// document subtree and the reactive cells a guest component manipulates.
//
// A Platform is bound to one mount root and one Component. Guest calls
// arrive either directly (in-process) or through host imports, and are
// served by Bridge, which speaks handle strings:
//
//	p, err := platform.New(platform.Config{
//	    Document:  doc,
//	    Selector:  "#app",
//	    Component: app,
//	})
//	b := p.Boundary()
//	node, _ := b.CreateNode(`<button>+</button>`)
//
// Nodes are stored as Paths (anchor selector plus navigation steps) and
// resolved on every access. An element that already has a node handle is
// tagged with a back-reference, so navigation that lands on it returns the
// existing Node.
//
// Ref writes that change the value schedule a render. Nothing renders
// synchronously: the event loop calls Flush, and renders requested while a
// delegated event is being dispatched are covered by the guest's own
// post-event render.
package platform
