package refvalue

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-dom-bridge/errors"
)

func TestEncodeScalars(t *testing.T) {
	type label string

	tests := []struct {
		name   string
		native any
		want   Value
	}{
		{"nil", nil, Null()},
		{"undefined", Undefined, Undef()},
		{"int", 42, Number(42)},
		{"negative int64", int64(-7), Number(-7)},
		{"uint8", uint8(255), Number(255)},
		{"float32", float32(1.5), Number(1.5)},
		{"float64", 3.25, Number(3.25)},
		{"string", "hello", Text("hello")},
		{"empty string", "", Text("")},
		{"named string", label("btn"), Text("btn")},
		{"value passthrough", Text("x"), Text("x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Encode(tt.native)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeComposites(t *testing.T) {
	got, err := Encode(map[string]any{"count": 1, "label": "x"})
	require.NoError(t, err)
	assert.Equal(t, TagObjectJSON, got.Tag)
	assert.JSONEq(t, `{"count":1,"label":"x"}`, got.Str)

	got, err = Encode([]int{1, 2, 3})
	require.NoError(t, err)
	assert.Equal(t, ObjectJSON("[1,2,3]"), got)

	got, err = Encode(struct {
		Name string `json:"name"`
	}{Name: "counter"})
	require.NoError(t, err)
	assert.Equal(t, ObjectJSON(`{"name":"counter"}`), got)
}

func TestEncodeUnsupported(t *testing.T) {
	tests := []struct {
		name   string
		native any
	}{
		{"func", func() {}},
		{"chan", make(chan int)},
		{"bool", true},
		{"complex", complex(1, 2)},
		{"map with func", map[string]any{"fn": func() {}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.native)
			require.Error(t, err)
			assert.ErrorIs(t, err, errors.ErrUnsupportedValue)
		})
	}
}

func TestEncodeCyclicFails(t *testing.T) {
	type node struct {
		Next *node
	}
	n := &node{}
	n.Next = n

	_, err := Encode(n)
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrUnsupportedValue)
}

func TestScalarRoundTrip(t *testing.T) {
	natives := []any{nil, Undefined, 0.0, 1.0, -2.5, math.MaxFloat64, "", "hi", "ünïcode"}

	for _, native := range natives {
		v, err := Encode(native)
		require.NoError(t, err)
		back, err := Decode(v)
		require.NoError(t, err)
		assert.Equal(t, native, back)
	}
}

func TestCompositeRoundTrip(t *testing.T) {
	native := map[string]any{
		"b": []any{1.0, "two", nil},
		"a": map[string]any{"nested": true},
	}

	v, err := Encode(native)
	require.NoError(t, err)
	back, err := Decode(v)
	require.NoError(t, err)
	assert.Equal(t, native, back)
}

func TestDecodeMalformedPayload(t *testing.T) {
	_, err := Decode(ObjectJSON("{not json"))
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrMalformedPayload)

	_, err = Decode(Value{Tag: "bigint"})
	assert.ErrorIs(t, err, errors.ErrMalformedPayload)
}

func TestSame(t *testing.T) {
	assert.True(t, Same(nil, nil))
	assert.True(t, Same(Undefined, Undefined))
	assert.True(t, Same(1.0, 1.0))
	assert.True(t, Same("a", "a"))

	assert.False(t, Same(nil, Undefined))
	assert.False(t, Same(1.0, "1"))
	assert.False(t, Same(1.0, 2.0))
	assert.False(t, Same(math.NaN(), math.NaN()))

	obj := map[string]any{"a": 1.0}
	assert.False(t, Same(obj, obj), "decoded composites are never the same")
}

func TestWireRoundTrip(t *testing.T) {
	values := []Value{Null(), Undef(), Number(0), Number(-1.25), Text(""), Text("hi"), ObjectJSON(`{"a":[1]}`)}

	for _, v := range values {
		data, err := v.MarshalBinary()
		require.NoError(t, err)

		var back Value
		require.NoError(t, back.UnmarshalBinary(data))
		assert.Equal(t, v, back)
	}
}

func TestWireRejectsUnknownTag(t *testing.T) {
	_, err := Value{Tag: "symbol"}.MarshalBinary()
	assert.ErrorIs(t, err, errors.ErrUnsupportedValue)

	var v Value
	err = v.UnmarshalBinary([]byte{0xc1})
	assert.ErrorIs(t, err, errors.ErrMalformedPayload)
}

func TestValueString(t *testing.T) {
	assert.Equal(t, "number(1)", Number(1).String())
	assert.Equal(t, `string("a")`, Text("a").String())
	assert.Equal(t, "null", Null().String())
	assert.Equal(t, "object-json([])", ObjectJSON("[]").String())
}
