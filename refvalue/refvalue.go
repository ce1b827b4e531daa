package refvalue

import (
	"encoding/json"
	"reflect"
	"strconv"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/wippyai/wasm-dom-bridge/errors"
)

// Tag discriminates the RefValue variant.
type Tag string

const (
	TagNull       Tag = "null"
	TagUndefined  Tag = "undefined"
	TagNumber     Tag = "number"
	TagString     Tag = "string"
	TagObjectJSON Tag = "object-json"
)

// Valid reports whether t is one of the five wire tags.
func (t Tag) Valid() bool {
	switch t {
	case TagNull, TagUndefined, TagNumber, TagString, TagObjectJSON:
		return true
	}
	return false
}

// Value is the boundary-safe representation of an application value.
// Num is set for TagNumber, Str for TagString and TagObjectJSON.
type Value struct {
	Tag Tag
	Str string
	Num float64
}

// UndefinedType is the native stand-in for an absent value, distinct from nil.
type UndefinedType struct{}

// Undefined is the only value of UndefinedType.
var Undefined UndefinedType

// Constructors for each tag.
func Null() Value { return Value{Tag: TagNull} }
func Undef() Value { return Value{Tag: TagUndefined} }
func Number(f float64) Value { return Value{Tag: TagNumber, Num: f} }
func Text(s string) Value { return Value{Tag: TagString, Str: s} }
func ObjectJSON(payload string) Value { return Value{Tag: TagObjectJSON, Str: payload} }

// String renders the value for logs.
func (v Value) String() string {
	switch v.Tag {
	case TagNumber:
		return "number(" + strconv.FormatFloat(v.Num, 'g', -1, 64) + ")"
	case TagString:
		return "string(" + strconv.Quote(v.Str) + ")"
	case TagObjectJSON:
		return "object-json(" + v.Str + ")"
	case TagNull, TagUndefined:
		return string(v.Tag)
	default:
		return "invalid(" + string(v.Tag) + ")"
	}
}

// Encode classifies a native value by its runtime type.
//
// nil maps to null and Undefined to undefined. Every numeric kind becomes a
// number and every string kind a string. Maps, slices, arrays, structs and
// pointers to them are serialized as object-json. Anything else, including
// functions, channels and booleans, fails with KindUnsupportedValue.
func Encode(native any) (Value, error) {
	if native == nil {
		return Null(), nil
	}
	if _, ok := native.(UndefinedType); ok {
		return Undef(), nil
	}
	if v, ok := native.(Value); ok {
		return v, nil
	}

	rv := reflect.ValueOf(native)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(float64(rv.Int())), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Number(float64(rv.Uint())), nil
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		payload, err := json.Marshal(native)
		if err != nil {
			return Value{}, errors.UnsupportedValue(rv.Type().String(), err)
		}
		return ObjectJSON(string(payload)), nil
	default:
		return Value{}, errors.UnsupportedValue(rv.Type().String(), nil)
	}
}

// Decode maps a Value back to a native value: nil, Undefined, float64,
// string, or the structure parsed from an object-json payload
// (map[string]any, []any and JSON scalars).
func Decode(v Value) (any, error) {
	switch v.Tag {
	case TagNull:
		return nil, nil
	case TagUndefined:
		return Undefined, nil
	case TagNumber:
		return v.Num, nil
	case TagString:
		return v.Str, nil
	case TagObjectJSON:
		var out any
		if err := json.Unmarshal([]byte(v.Str), &out); err != nil {
			return nil, errors.MalformedPayload(errors.PhaseCodec, "object-json payload is not valid JSON", err)
		}
		return out, nil
	default:
		return nil, errors.New(errors.PhaseCodec, errors.KindMalformedPayload).
			Value(string(v.Tag)).
			Detail("unknown tag %q", v.Tag).
			Build()
	}
}

// Same is the write-equality check used by refs. Scalars compare by value.
// Decoded composites are fresh objects on every decode, so they never
// compare equal, even to themselves.
func Same(a, b any) bool {
	switch av := a.(type) {
	case nil:
		return b == nil
	case UndefinedType:
		_, ok := b.(UndefinedType)
		return ok
	case float64:
		bv, ok := b.(float64)
		return ok && av == bv
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	default:
		return false
	}
}

// wireValue is the msgpack shape of a Value on the boundary.
type wireValue struct {
	Tag string  `msgpack:"tag"`
	Str string  `msgpack:"str,omitempty"`
	Num float64 `msgpack:"num,omitempty"`
}

// MarshalBinary encodes the value in the boundary wire format.
func (v Value) MarshalBinary() ([]byte, error) {
	if !v.Tag.Valid() {
		return nil, errors.New(errors.PhaseCodec, errors.KindUnsupportedValue).
			Detail("cannot marshal tag %q", v.Tag).
			Build()
	}
	return msgpack.Marshal(wireValue{Tag: string(v.Tag), Str: v.Str, Num: v.Num})
}

// UnmarshalBinary decodes the boundary wire format.
func (v *Value) UnmarshalBinary(data []byte) error {
	var w wireValue
	if err := msgpack.Unmarshal(data, &w); err != nil {
		return errors.MalformedPayload(errors.PhaseCodec, "ref value wire data", err)
	}
	tag := Tag(w.Tag)
	if !tag.Valid() {
		return errors.New(errors.PhaseCodec, errors.KindMalformedPayload).
			Value(w.Tag).
			Detail("unknown tag %q", w.Tag).
			Build()
	}
	*v = Value{Tag: tag, Str: w.Str, Num: w.Num}
	return nil
}
