//go:build wasip1

package guest

import (
	"runtime"

	dombridge "github.com/wippyai/wasm-dom-bridge"
	"github.com/wippyai/wasm-dom-bridge/abi"
	"github.com/wippyai/wasm-dom-bridge/errors"
	"github.com/wippyai/wasm-dom-bridge/refvalue"
)

// hostBoundary forwards every call to the matching host import.
type hostBoundary struct{}

var _ dombridge.Boundary = hostBoundary{}

// check turns an import status into an error, fetching the message from
// the host's last-error.
func check(code int32) error {
	if code == int32(abi.CodeOK) {
		return nil
	}
	var ret retArea
	msg := ""
	if hostLastError(ret.ptr()) == int32(abi.CodeOK) {
		msg = string(take(ret.slice()))
	}
	return abi.Err(errors.PhaseHost, abi.Code(code), msg)
}

// callString runs an import that takes one string and returns a string.
func callString(fn func(ptr, length, retptr uint32) int32, arg string) (string, error) {
	var ret retArea
	ptr, n := stringPtr(arg)
	code := fn(ptr, n, ret.ptr())
	runtime.KeepAlive(arg)
	if err := check(code); err != nil {
		return "", err
	}
	return string(take(ret.slice())), nil
}

func (hostBoundary) CreateNode(markup string) (string, error) {
	return callString(hostCreateNode, markup)
}

func (hostBoundary) CreateRef(initial refvalue.Value) (string, error) {
	data, err := initial.MarshalBinary()
	if err != nil {
		return "", err
	}
	var ret retArea
	ptr, n := bytesPtr(data)
	code := hostCreateRef(ptr, n, ret.ptr())
	runtime.KeepAlive(data)
	if err := check(code); err != nil {
		return "", err
	}
	return string(take(ret.slice())), nil
}

func (hostBoundary) DelegateEvents(event string) error {
	ptr, n := stringPtr(event)
	code := hostDelegateEvents(ptr, n)
	runtime.KeepAlive(event)
	return check(code)
}

func (hostBoundary) SetNodeEventID(node string, eventID uint32) error {
	ptr, n := stringPtr(node)
	code := hostSetNodeEventID(ptr, n, eventID)
	runtime.KeepAlive(node)
	return check(code)
}

func (hostBoundary) GetNodeByID(node string) (string, error) {
	return callString(hostGetNodeByID, node)
}

func (hostBoundary) GetRefByID(ref string) (string, error) {
	return callString(hostGetRefByID, ref)
}

func (hostBoundary) NodeChild(node string) (string, error) {
	return callString(hostNodeChild, node)
}

func (hostBoundary) NodeNthChild(node string, nth uint32) (string, bool, error) {
	var ret retArea
	ptr, n := stringPtr(node)
	code := hostNodeNthChild(ptr, n, nth, ret.ptr())
	runtime.KeepAlive(node)
	if err := check(code); err != nil {
		return "", false, err
	}
	childPtr, childLen, ok := ret.option()
	if !ok {
		return "", false, nil
	}
	return string(take(childPtr, childLen)), true, nil
}

func (hostBoundary) NodeNext(node string) (string, error) {
	return callString(hostNodeNext, node)
}

func (hostBoundary) NodeSetStyle(node string, entries []dombridge.StyleEntry) error {
	// list<tuple<string, string>>: four words per entry
	words := make([]uint32, 0, 4*len(entries))
	for _, e := range entries {
		kp, kn := stringPtr(e.Key)
		vp, vn := stringPtr(e.Value)
		words = append(words, kp, kn, vp, vn)
	}
	list := wordBytes(words)
	ptr, n := stringPtr(node)
	listPtr, _ := bytesPtr(list)
	code := hostNodeSetStyle(ptr, n, listPtr, uint32(len(entries)))
	runtime.KeepAlive(node)
	runtime.KeepAlive(entries)
	runtime.KeepAlive(list)
	return check(code)
}

func (hostBoundary) NodeSetText(node, text string) error {
	ptr, n := stringPtr(node)
	textPtr, textLen := stringPtr(text)
	code := hostNodeSetText(ptr, n, textPtr, textLen)
	runtime.KeepAlive(node)
	runtime.KeepAlive(text)
	return check(code)
}

func (hostBoundary) RefGetValue(ref string) (refvalue.Value, error) {
	var ret retArea
	ptr, n := stringPtr(ref)
	code := hostRefGetValue(ptr, n, ret.ptr())
	runtime.KeepAlive(ref)
	if err := check(code); err != nil {
		return refvalue.Value{}, err
	}
	var v refvalue.Value
	if err := v.UnmarshalBinary(take(ret.slice())); err != nil {
		return refvalue.Value{}, err
	}
	return v, nil
}

func (hostBoundary) RefSetValue(ref string, v refvalue.Value) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return err
	}
	ptr, n := stringPtr(ref)
	valuePtr, valueLen := bytesPtr(data)
	code := hostRefSetValue(ptr, n, valuePtr, valueLen)
	runtime.KeepAlive(ref)
	runtime.KeepAlive(data)
	return check(code)
}
