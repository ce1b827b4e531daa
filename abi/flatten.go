package abi

import (
	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
)

// MaxFlatParams is the Canonical ABI limit on flattened parameters.
const MaxFlatParams = 16

// CoreValType is a core wasm value type
type CoreValType = api.ValueType

// FlattenTypes flattens WIT types to core wasm types
func FlattenTypes(types []wit.Type) []CoreValType {
	var result []CoreValType
	for _, t := range types {
		result = append(result, FlattenType(t)...)
	}
	return result
}

// FlattenType flattens one of the WIT types the boundary declares: u8,
// u32, string, list, tuple and option. Other types flatten to nothing.
func FlattenType(t wit.Type) []CoreValType {
	switch v := t.(type) {
	case wit.U8, wit.U32:
		return []CoreValType{api.ValueTypeI32}
	case wit.String:
		return []CoreValType{api.ValueTypeI32, api.ValueTypeI32} // ptr, len
	case *wit.TypeDef:
		switch kind := v.Kind.(type) {
		case *wit.List:
			return []CoreValType{api.ValueTypeI32, api.ValueTypeI32}
		case *wit.Tuple:
			return FlattenTypes(kind.Types)
		case *wit.Option:
			// discriminant, then the payload
			return append([]CoreValType{api.ValueTypeI32}, FlattenType(kind.Type)...)
		}
	}
	return nil
}

// ValueTypeName returns the text-format name of a core value type.
func ValueTypeName(t CoreValType) string {
	return api.ValueTypeName(t)
}
