package shim

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"

	"go.uber.org/zap"

	"github.com/wippyai/wasm-dom-bridge/refvalue"
)

// ToDisplayString converts v for interpolation into text. Strings pass
// through, refs are read and converted, collections and structs become
// indented JSON, nil and undefined become "". A ref that cannot be read
// displays as "" and the failure is logged through its app.
func ToDisplayString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case refvalue.UndefinedType:
		return ""
	case string:
		return x
	case *Ref:
		if x == nil {
			return ""
		}
		got, err := x.Get()
		if err != nil {
			x.app.logger.Warn("display unreadable ref", zap.String("ref", x.id), zap.Error(err))
			return ""
		}
		return ToDisplayString(got)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	case bool:
		return strconv.FormatBool(x)
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return ""
		}
		rv = rv.Elem()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map, reflect.Struct:
		out, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Sprint(v)
		}
		return string(out)
	}
	return fmt.Sprint(v)
}
