// Package host runs guest modules on wazero and serves their bridge
// imports from a platform.
//
// A Host owns one wazero runtime with WASI preview1 and the
// vuefes:component/vue-host module. Each Mount instantiates a guest under
// a unique module name; host functions use the calling module's name to
// find the platform that serves them.
//
//	h, err := host.New(ctx, host.Config{Logger: logger})
//	m, err := h.Mount(ctx, wasm, platform.Config{Document: doc, Selector: "#app"})
//	err = m.Dispatch(ctx, "button.inc", "click", "")
//
// Guests must export memory, cabi_realloc and the vue-render functions
// named by abi.ExportName. A reactor guest's _initialize runs once before
// the first render.
package host
