// Package dombridge lets a UI component compiled to a sandboxed wasm module
// drive a document tree and reactive state that live in the host.
//
// The guest never holds a pointer into the host. Every node, ref and mounted
// platform is named by an opaque handle string ("node-3", "ref-1",
// "platform-1") and manipulated through a fixed call surface.
//
// # Architecture Overview
//
//	dombridge/           Root package: Boundary call surface, Memory and Allocator
//	├── refvalue/        Boundary-safe tagged value codec (null, undefined, number, string, object-json)
//	├── handle/          Namespaced handle strings and append-only registries
//	├── dom/             Document tree over golang.org/x/net/html with expandos and listeners
//	├── platform/        Host side: nodes, refs, event delegation, render scheduling
//	├── shim/            Guest side: refs, nodes, templates, event handlers, render effect
//	├── abi/             Boundary signatures (WIT) and linear-memory lowering
//	├── host/            wazero runtime hosting a guest module against a platform
//	├── guest/           wasip1 implementation of the shim boundary over host imports
//	└── cmd/domhost/     CLI for describing, rendering and poking mounted guests
//
// # Quick Start
//
// Mount a guest module into a page:
//
//	h, err := host.New(ctx, host.Config{Logger: logger})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer h.Close(ctx)
//
//	doc, _ := dom.Parse(strings.NewReader(`<body><div id="app"></div></body>`), logger)
//	m, err := h.Mount(ctx, wasmBytes, platform.Config{Document: doc, Selector: "#app"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	btn, _ := doc.Query("button.inc")
//	m.Platform.DispatchEvent(ctx, btn, "click", "")
//
// The same component can run in-process against the platform, which is how
// the tests exercise it:
//
//	app := shim.NewApp(counter.Component{}, shim.Options{})
//	p, _ := platform.New(platform.Config{Document: doc, Selector: "#app", Component: app})
//	app.Bind(p.Boundary())
//	p.Render(ctx)
//
// # Thread Safety
//
// The bridge is single-writer. One event is handled to completion before the
// next is dispatched, and the platform never holds a lock while calling into
// the guest, so guest calls made from inside event dispatch are safe.
//
// # Memory Model
//
// Handles are never recycled within a session. Registries grow until the
// platform is closed, which releases every node and ref at once.
package dombridge
