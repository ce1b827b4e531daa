// Package shim is what a compiled component calls instead of its UI
// framework runtime. It turns refs, templates, navigation and event
// bindings into calls on a dombridge.Boundary.
//
//	func (Counter) Setup(app *shim.App) error {
//	    count, err := app.Ref(0)
//	    ...
//	    root, err := app.Template(`<p><b></b> </p>`, true)()
//	    label, err := app.Child(root)
//	    return app.RenderEffect(func() error {
//	        return app.SetText(label, shim.ToDisplayString(count))
//	    })
//	}
//
// The first Render mounts by running Setup. Later renders replay the one
// registered effect: the whole view refreshes as a unit rather than per
// binding. Ref reads always round-trip to the platform.
package shim
