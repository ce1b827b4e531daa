// Package guest is the wasip1 side of the bridge. It implements
// dombridge.Boundary on top of the vuefes:component/vue-host imports and
// exports the render entry points a host calls.
//
// A guest is built as a reactor and registers its app from init, since
// main never runs in that mode:
//
//	func init() {
//		guest.Serve(shim.NewApp(counter.Component{}, shim.Options{}))
//	}
//
//	func main() {}
//
// Build with:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o counter.wasm
//
// Buffers handed to the host through cabi_realloc stay pinned in a table
// until the guest has read them back.
package guest
