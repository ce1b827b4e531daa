//go:build wasip1

package guest

import (
	"context"
	"sync"

	"github.com/wippyai/wasm-dom-bridge/errors"
	"github.com/wippyai/wasm-dom-bridge/shim"
)

var (
	appMu sync.Mutex
	app   *shim.App

	failed failures
	// errSlot pins the last-error message between the call and the
	// host's read of it.
	errSlot []byte
)

// Serve binds a to the host imports and makes it the target of the render
// exports. Call it from init.
func Serve(a *shim.App) {
	a.Bind(hostBoundary{})
	appMu.Lock()
	app = a
	appMu.Unlock()
}

func current() (*shim.App, error) {
	appMu.Lock()
	defer appMu.Unlock()
	if app == nil {
		return nil, errors.InvalidArgument(errors.PhaseShim, "no app served")
	}
	return app, nil
}

//go:wasmexport vuefes:component/vue-render#render
func render() int32 {
	a, err := current()
	if err != nil {
		return failed.status(err)
	}
	return failed.status(a.Render(context.Background()))
}

//go:wasmexport vuefes:component/vue-render#process-delegated-event
func processDelegatedEvent(eventPtr, eventLen, eventID, payloadPtr, payloadLen uint32) int32 {
	event := string(take(eventPtr, eventLen))
	payload := string(take(payloadPtr, payloadLen))
	a, err := current()
	if err != nil {
		return failed.status(err)
	}
	return failed.status(a.ProcessDelegatedEvent(context.Background(), event, eventID, payload))
}

//go:wasmexport vuefes:component/vue-render#last-error
func lastError(retptr uint32) int32 {
	slot := peek(retptr)
	if len(slot) < 8 {
		return failed.status(errors.OutOfBounds(errors.PhaseShim, retptr, 8))
	}
	errSlot = failed.message()
	ptr, n := bytesPtr(errSlot)
	putSlice(slot, ptr, n)
	release(retptr)
	return 0
}
