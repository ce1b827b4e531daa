package abi

import (
	"github.com/wippyai/wasm-dom-bridge/errors"
)

// Code is the i32 status every boundary function returns. Zero is
// success; any other value names an error kind, and the message is
// available from last-error.
type Code int32

const (
	CodeOK Code = iota
	CodeInvalidArgument
	CodeMalformedHandle
	CodeNotFound
	CodeDuplicateEventHandler
	CodeHandlerNotFound
	CodeUnsupportedValue
	CodeMalformedPayload
	CodeNoRegisteredEffect
	CodeClosed
	CodeInternal
)

var codeKinds = map[Code]errors.Kind{
	CodeInvalidArgument:       errors.KindInvalidArgument,
	CodeMalformedHandle:       errors.KindMalformedHandle,
	CodeNotFound:              errors.KindNotFound,
	CodeDuplicateEventHandler: errors.KindDuplicateEventHandler,
	CodeHandlerNotFound:       errors.KindHandlerNotFound,
	CodeUnsupportedValue:      errors.KindUnsupportedValue,
	CodeMalformedPayload:      errors.KindMalformedPayload,
	CodeNoRegisteredEffect:    errors.KindNoRegisteredEffect,
	CodeClosed:                errors.KindClosed,
	CodeInternal:              errors.KindGuestFault,
}

// CodeOf maps err to its status code. Errors outside the bridge taxonomy
// map to CodeInternal.
func CodeOf(err error) Code {
	if err == nil {
		return CodeOK
	}
	kind := errors.KindOf(err)
	for code, k := range codeKinds {
		if k == kind && code != CodeInternal {
			return code
		}
	}
	return CodeInternal
}

// Kind returns the error kind a code stands for.
func (c Code) Kind() errors.Kind {
	return codeKinds[c]
}

// Err rebuilds an error from a status code and the message fetched from
// last-error. CodeOK yields nil.
func Err(phase errors.Phase, c Code, msg string) error {
	if c == CodeOK {
		return nil
	}
	kind, ok := codeKinds[c]
	if !ok {
		kind = errors.KindGuestFault
	}
	return errors.New(phase, kind).Detail(msg).Build()
}
