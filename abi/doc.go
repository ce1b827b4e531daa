// Package abi declares the boundary between a guest module and the host
// and implements lowering of boundary values in guest linear memory.
//
// The two interfaces are declared as data using go.bytecodealliance.org/wit
// types:
//
//	vuefes:component/vue-host    guest imports (create-node, node-child, ...)
//	vuefes:component/vue-render  guest exports (render, process-delegated-event)
//
// # Calling Convention
//
// Parameters are flattened per the Canonical ABI (a string is ptr, len).
// Every function returns a single i32 Code. Functions with a result take a
// trailing return pointer; the callee allocates result payloads with the
// guest's cabi_realloc and writes them there:
//
//	node-child: func(node: string) -> string
//	core:       (i32, i32, i32) -> i32
//
// A nonzero Code means failure; the guest fetches the message with
// last-error and rebuilds a structured error with Err.
//
// Ref values travel as list<u8> holding the msgpack encoding of
// refvalue.Value.
package abi
