package abi

import (
	"testing"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"

	dombridge "github.com/wippyai/wasm-dom-bridge"
	"github.com/wippyai/wasm-dom-bridge/errors"
	"github.com/wippyai/wasm-dom-bridge/refvalue"
)

// testMem is a bounds-checked little-endian linear memory.
type testMem struct {
	t    *testing.T
	data []byte
}

func newTestMem(t *testing.T, size int) *testMem {
	return &testMem{t: t, data: make([]byte, size)}
}

func (m *testMem) check(offset, length uint32) error {
	if uint64(offset)+uint64(length) > uint64(len(m.data)) {
		return errors.OutOfBounds(errors.PhaseABI, offset, length)
	}
	return nil
}

func (m *testMem) Read(offset uint32, length uint32) ([]byte, error) {
	if err := m.check(offset, length); err != nil {
		return nil, err
	}
	return m.data[offset : offset+length], nil
}

func (m *testMem) Write(offset uint32, data []byte) error {
	if err := m.check(offset, uint32(len(data))); err != nil {
		return err
	}
	copy(m.data[offset:], data)
	return nil
}

func (m *testMem) ReadU8(offset uint32) (uint8, error) {
	if err := m.check(offset, 1); err != nil {
		return 0, err
	}
	return m.data[offset], nil
}

func (m *testMem) ReadU32(offset uint32) (uint32, error) {
	if err := m.check(offset, 4); err != nil {
		return 0, err
	}
	return uint32(m.data[offset]) | uint32(m.data[offset+1])<<8 |
		uint32(m.data[offset+2])<<16 | uint32(m.data[offset+3])<<24, nil
}

func (m *testMem) WriteU8(offset uint32, value uint8) error {
	if err := m.check(offset, 1); err != nil {
		return err
	}
	m.data[offset] = value
	return nil
}

func (m *testMem) WriteU32(offset uint32, value uint32) error {
	if err := m.check(offset, 4); err != nil {
		return err
	}
	m.data[offset] = byte(value)
	m.data[offset+1] = byte(value >> 8)
	m.data[offset+2] = byte(value >> 16)
	m.data[offset+3] = byte(value >> 24)
	return nil
}

// mustWriteString places s at offset or fails the test
func (m *testMem) mustWriteString(offset uint32, s string) {
	m.t.Helper()
	if err := m.Write(offset, []byte(s)); err != nil {
		m.t.Fatalf("Write failed: %v", err)
	}
}

func (m *testMem) mustWriteU32(offset, value uint32) {
	m.t.Helper()
	if err := m.WriteU32(offset, value); err != nil {
		m.t.Fatalf("WriteU32 failed: %v", err)
	}
}

// testAlloc is a bump allocator
type testAlloc struct {
	offset uint32
	calls  int
}

func (a *testAlloc) Alloc(size, align uint32) (uint32, error) {
	a.calls++
	if align > 1 {
		a.offset = (a.offset + align - 1) &^ (align - 1)
	}
	ptr := a.offset
	a.offset += size
	return ptr, nil
}

var (
	_ dombridge.Memory    = (*testMem)(nil)
	_ dombridge.Allocator = (*testAlloc)(nil)
)

func TestFlattenType_Boundary(t *testing.T) {
	tests := []struct {
		name     string
		typ      wit.Type
		expected []CoreValType
	}{
		{"u32", typeU32, []CoreValType{api.ValueTypeI32}},
		{"string", typeString, []CoreValType{api.ValueTypeI32, api.ValueTypeI32}},
		{"list<u8>", typeBytes, []CoreValType{api.ValueTypeI32, api.ValueTypeI32}},
		{"option<string>", typeOption, []CoreValType{api.ValueTypeI32, api.ValueTypeI32, api.ValueTypeI32}},
		{"list<tuple>", typeStyle, []CoreValType{api.ValueTypeI32, api.ValueTypeI32}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := FlattenType(tc.typ)
			if len(result) != len(tc.expected) {
				t.Fatalf("expected %d types, got %d", len(tc.expected), len(result))
			}
			for i, v := range result {
				if v != tc.expected[i] {
					t.Errorf("index %d: expected %v, got %v", i, tc.expected[i], v)
				}
			}
		})
	}
}

func TestFlattenType_Nil(t *testing.T) {
	if result := FlattenType(nil); result != nil {
		t.Errorf("expected nil, got %v", result)
	}
}

func TestFlattenType_TupleOfStrings(t *testing.T) {
	td := &wit.TypeDef{Kind: &wit.Tuple{Types: []wit.Type{wit.String{}, wit.String{}}}}
	if got := len(FlattenType(td)); got != 4 {
		t.Errorf("expected 4 flat values, got %d", got)
	}
}

func TestFlattenType_OutsideBoundary(t *testing.T) {
	for _, typ := range []wit.Type{
		wit.F64{},
		wit.U64{},
		&wit.TypeDef{Kind: &wit.Enum{}},
		&wit.TypeDef{Kind: &wit.Record{}},
	} {
		if result := FlattenType(typ); result != nil {
			t.Errorf("%T: expected nil, got %v", typ, result)
		}
	}
}

func TestFlattenType_DeclaredParams(t *testing.T) {
	for _, iface := range []*Interface{&Host, &Render} {
		for _, f := range iface.Funcs {
			for _, p := range f.Params {
				if len(FlattenType(p.Type)) == 0 {
					t.Errorf("%s.%s: param %s does not flatten", iface.Name, f.Name, p.Name)
				}
			}
		}
	}
}

func TestCoreSignature(t *testing.T) {
	tests := []struct {
		iface *Interface
		name  string
		core  string
		wit   string
	}{
		{&Host, FuncNodeChild, "(i32, i32, i32) -> i32", "node-child: func(node: string) -> string"},
		{&Host, FuncNodeNthChild, "(i32, i32, i32, i32) -> i32", "node-nth-child: func(node: string, nth: u32) -> option<string>"},
		{&Host, FuncSetNodeEventID, "(i32, i32, i32) -> i32", "set-node-event-id: func(node: string, event-id: u32)"},
		{&Host, FuncNodeSetStyle, "(i32, i32, i32, i32) -> i32", "node-set-style: func(node: string, entries: list<tuple<string, string>>)"},
		{&Host, FuncRefSetValue, "(i32, i32, i32, i32) -> i32", "ref-set-value: func(ref: string, value: list<u8>)"},
		{&Host, FuncLastError, "(i32) -> i32", "last-error: func() -> string"},
		{&Render, FuncRender, "() -> i32", "render: func()"},
		{&Render, FuncProcessDelegatedEvent, "(i32, i32, i32, i32, i32) -> i32", "process-delegated-event: func(event: string, event-id: u32, payload: string)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, ok := tc.iface.Func(tc.name)
			if !ok {
				t.Fatalf("%s not declared on %s", tc.name, tc.iface.Name)
			}
			if got := f.CoreString(); got != tc.core {
				t.Errorf("core: expected %q, got %q", tc.core, got)
			}
			if got := f.String(); got != tc.wit {
				t.Errorf("wit: expected %q, got %q", tc.wit, got)
			}
		})
	}
}

func TestExportName(t *testing.T) {
	if got := ExportName(RenderModule, FuncRender); got != "vuefes:component/vue-render#render" {
		t.Errorf("unexpected export name %q", got)
	}
}

func TestInterface_UnknownFunc(t *testing.T) {
	if _, ok := Host.Func("render"); ok {
		t.Error("render is not a host import")
	}
}

func TestInterface_CoreParamsWithinLimit(t *testing.T) {
	for _, iface := range []*Interface{&Host, &Render} {
		for _, f := range iface.Funcs {
			params, results := f.CoreSignature()
			if len(params) > MaxFlatParams+1 {
				t.Errorf("%s: %d core params", f.Name, len(params))
			}
			if len(results) != 1 || results[0] != api.ValueTypeI32 {
				t.Errorf("%s: expected a single i32 status, got %v", f.Name, results)
			}
		}
	}
}

func TestCode_RoundTrip(t *testing.T) {
	errs := []error{
		errors.InvalidArgument(errors.PhasePlatform, "empty markup"),
		errors.MalformedHandle(errors.PhaseRegistry, "bogus", "missing separator"),
		errors.HandleNotFound(errors.PhaseRegistry, "node-9"),
		errors.New(errors.PhaseShim, errors.KindDuplicateEventHandler).Build(),
		errors.New(errors.PhaseShim, errors.KindHandlerNotFound).Build(),
		errors.New(errors.PhaseShim, errors.KindNoRegisteredEffect).Build(),
		errors.New(errors.PhasePlatform, errors.KindClosed).Build(),
	}
	for _, err := range errs {
		code := CodeOf(err)
		if code == CodeOK || code == CodeInternal {
			t.Errorf("%v: unexpected code %d", err, code)
			continue
		}
		back := Err(errors.PhaseHost, code, err.Error())
		if errors.KindOf(back) != errors.KindOf(err) {
			t.Errorf("kind changed: %s -> %s", errors.KindOf(err), errors.KindOf(back))
		}
	}
}

func TestCode_Edges(t *testing.T) {
	if CodeOf(nil) != CodeOK {
		t.Error("nil error should be CodeOK")
	}
	if Err(errors.PhaseHost, CodeOK, "ignored") != nil {
		t.Error("CodeOK should rebuild to nil")
	}
	if CodeOf(errString("plain")) != CodeInternal {
		t.Error("foreign error should map to CodeInternal")
	}
	err := Err(errors.PhaseHost, Code(99), "boom")
	if !errors.IsKind(err, errors.KindGuestFault) {
		t.Errorf("unknown code should be a guest fault, got %v", err)
	}
}

type errString string

func (e errString) Error() string { return string(e) }

func TestReadString(t *testing.T) {
	mem := newTestMem(t, 64)
	mem.mustWriteString(10, "node-1")

	s, err := ReadString(mem, 10, 6)
	if err != nil {
		t.Fatal(err)
	}
	if s != "node-1" {
		t.Errorf("expected node-1, got %q", s)
	}

	if s, err := ReadString(mem, 9999, 0); err != nil || s != "" {
		t.Errorf("empty read: %q, %v", s, err)
	}
	if _, err := ReadString(mem, 60, 10); !errors.IsKind(err, errors.KindOutOfBounds) {
		t.Errorf("expected out of bounds, got %v", err)
	}
}

func TestReadBytes_Copies(t *testing.T) {
	mem := newTestMem(t, 16)
	mem.mustWriteString(0, "abc")
	b, err := ReadBytes(mem, 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	mem.data[0] = 'z'
	if string(b) != "abc" {
		t.Errorf("ReadBytes should copy, got %q", b)
	}
}

func TestReadStyleEntries(t *testing.T) {
	mem := newTestMem(t, 128)
	mem.mustWriteString(64, "color")
	mem.mustWriteString(70, "red")
	mem.mustWriteString(80, "font-weight")
	mem.mustWriteString(92, "bold")

	// two tuple<string, string> elements at 0
	mem.mustWriteU32(0, 64)
	mem.mustWriteU32(4, 5)
	mem.mustWriteU32(8, 70)
	mem.mustWriteU32(12, 3)
	mem.mustWriteU32(16, 80)
	mem.mustWriteU32(20, 11)
	mem.mustWriteU32(24, 92)
	mem.mustWriteU32(28, 4)

	entries, err := ReadStyleEntries(mem, 0, 2)
	if err != nil {
		t.Fatal(err)
	}
	want := []dombridge.StyleEntry{{Key: "color", Value: "red"}, {Key: "font-weight", Value: "bold"}}
	if len(entries) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(entries))
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Errorf("entry %d: expected %+v, got %+v", i, want[i], entries[i])
		}
	}

	if _, err := ReadStyleEntries(mem, 120, 1); err == nil {
		t.Error("expected error reading past memory")
	}
}

func TestStoreString(t *testing.T) {
	mem := newTestMem(t, 128)
	alloc := &testAlloc{offset: 32}

	if err := StoreString(mem, alloc, 8, "ref-3"); err != nil {
		t.Fatal(err)
	}
	ptr, _ := mem.ReadU32(8)
	length, _ := mem.ReadU32(12)
	if ptr != 32 || length != 5 {
		t.Fatalf("expected (32, 5), got (%d, %d)", ptr, length)
	}
	s, _ := ReadString(mem, ptr, length)
	if s != "ref-3" {
		t.Errorf("expected ref-3, got %q", s)
	}
}

func TestStoreString_EmptySkipsAlloc(t *testing.T) {
	mem := newTestMem(t, 32)
	alloc := &testAlloc{offset: 16}
	if err := StoreString(mem, alloc, 0, ""); err != nil {
		t.Fatal(err)
	}
	if alloc.calls != 0 {
		t.Errorf("expected no allocation, got %d", alloc.calls)
	}
	length, _ := mem.ReadU32(4)
	if length != 0 {
		t.Errorf("expected zero length, got %d", length)
	}
}

func TestStoreOptionString(t *testing.T) {
	mem := newTestMem(t, 128)
	alloc := &testAlloc{offset: 64}

	if err := StoreOptionString(mem, alloc, 0, "", false); err != nil {
		t.Fatal(err)
	}
	if d, _ := mem.ReadU8(0); d != 0 {
		t.Errorf("none: expected discriminant 0, got %d", d)
	}

	if err := StoreOptionString(mem, alloc, 16, "node-7", true); err != nil {
		t.Fatal(err)
	}
	if d, _ := mem.ReadU8(16); d != 1 {
		t.Errorf("some: expected discriminant 1, got %d", d)
	}
	ptr, _ := mem.ReadU32(20)
	length, _ := mem.ReadU32(24)
	s, _ := ReadString(mem, ptr, length)
	if s != "node-7" {
		t.Errorf("expected node-7, got %q", s)
	}
}

func TestStoreValue_ReadValue(t *testing.T) {
	mem := newTestMem(t, 256)
	alloc := &testAlloc{offset: 64}

	for _, v := range []refvalue.Value{refvalue.Number(41), refvalue.Text("hi"), refvalue.Null()} {
		if err := StoreValue(mem, alloc, 0, v); err != nil {
			t.Fatal(err)
		}
		ptr, _ := mem.ReadU32(0)
		length, _ := mem.ReadU32(4)
		got, err := ReadValue(mem, ptr, length)
		if err != nil {
			t.Fatal(err)
		}
		if got != v {
			t.Errorf("expected %v, got %v", v, got)
		}
	}
}

func TestReadValue_Malformed(t *testing.T) {
	mem := newTestMem(t, 16)
	mem.mustWriteString(0, "\xc1\xc1")
	if _, err := ReadValue(mem, 0, 2); err == nil {
		t.Error("expected decode error")
	}
}
