package abi

import (
	"strings"

	"github.com/tetratelabs/wazero/api"
	"go.bytecodealliance.org/wit"
)

// Import and export namespaces of the boundary.
const (
	HostModule   = "vuefes:component/vue-host"
	RenderModule = "vuefes:component/vue-render"

	// CabiRealloc is the guest allocator export used to lower results.
	CabiRealloc = "cabi_realloc"
	// Initialize is the reactor entry point, called once after instantiation.
	Initialize = "_initialize"
)

// Boundary function names.
const (
	FuncCreateNode            = "create-node"
	FuncCreateRef             = "create-ref"
	FuncDelegateEvents        = "delegate-events"
	FuncSetNodeEventID        = "set-node-event-id"
	FuncGetNodeByID           = "get-node-by-id"
	FuncGetRefByID            = "get-ref-by-id"
	FuncNodeChild             = "node-child"
	FuncNodeNthChild          = "node-nth-child"
	FuncNodeNext              = "node-next"
	FuncNodeSetStyle          = "node-set-style"
	FuncNodeSetText           = "node-set-text"
	FuncRefGetValue           = "ref-get-value"
	FuncRefSetValue           = "ref-set-value"
	FuncLastError             = "last-error"
	FuncRender                = "render"
	FuncProcessDelegatedEvent = "process-delegated-event"
)

// Param is a named function parameter.
type Param struct {
	Name string
	Type wit.Type
}

// Func declares one boundary function.
type Func struct {
	Name    string
	Params  []Param
	Results []wit.Type
}

// Interface is a named set of functions.
type Interface struct {
	Name  string
	Funcs []Func
}

// Func returns the function called name.
func (i *Interface) Func(name string) (Func, bool) {
	for _, f := range i.Funcs {
		if f.Name == name {
			return f, true
		}
	}
	return Func{}, false
}

var (
	typeString = wit.String{}
	typeU32    = wit.U32{}
	typeBytes  = &wit.TypeDef{Kind: &wit.List{Type: wit.U8{}}}
	typeOption = &wit.TypeDef{Kind: &wit.Option{Type: wit.String{}}}
	typeStyle  = &wit.TypeDef{Kind: &wit.List{Type: &wit.TypeDef{
		Kind: &wit.Tuple{Types: []wit.Type{wit.String{}, wit.String{}}},
	}}}
)

// Host is the guest-to-platform import interface. Handles travel as
// strings and ref values as msgpack-encoded bytes.
var Host = Interface{
	Name: HostModule,
	Funcs: []Func{
		{Name: FuncCreateNode, Params: []Param{{"markup", typeString}}, Results: []wit.Type{typeString}},
		{Name: FuncCreateRef, Params: []Param{{"initial", typeBytes}}, Results: []wit.Type{typeString}},
		{Name: FuncDelegateEvents, Params: []Param{{"event", typeString}}},
		{Name: FuncSetNodeEventID, Params: []Param{{"node", typeString}, {"event-id", typeU32}}},
		{Name: FuncGetNodeByID, Params: []Param{{"node", typeString}}, Results: []wit.Type{typeString}},
		{Name: FuncGetRefByID, Params: []Param{{"ref", typeString}}, Results: []wit.Type{typeString}},
		{Name: FuncNodeChild, Params: []Param{{"node", typeString}}, Results: []wit.Type{typeString}},
		{Name: FuncNodeNthChild, Params: []Param{{"node", typeString}, {"nth", typeU32}}, Results: []wit.Type{typeOption}},
		{Name: FuncNodeNext, Params: []Param{{"node", typeString}}, Results: []wit.Type{typeString}},
		{Name: FuncNodeSetStyle, Params: []Param{{"node", typeString}, {"entries", typeStyle}}},
		{Name: FuncNodeSetText, Params: []Param{{"node", typeString}, {"text", typeString}}},
		{Name: FuncRefGetValue, Params: []Param{{"ref", typeString}}, Results: []wit.Type{typeBytes}},
		{Name: FuncRefSetValue, Params: []Param{{"ref", typeString}, {"value", typeBytes}}},
		{Name: FuncLastError, Results: []wit.Type{typeString}},
	},
}

// Render is the platform-to-guest export interface. The guest keeps its
// own last-error for failures the host reads back after a call.
var Render = Interface{
	Name: RenderModule,
	Funcs: []Func{
		{Name: FuncRender},
		{Name: FuncProcessDelegatedEvent, Params: []Param{
			{"event", typeString},
			{"event-id", typeU32},
			{"payload", typeString},
		}},
		{Name: FuncLastError, Results: []wit.Type{typeString}},
	},
}

// ExportName is the core export name of a guest function, e.g.
// "vuefes:component/vue-render#render".
func ExportName(iface, fn string) string {
	return iface + "#" + fn
}

// CoreSignature returns the core wasm signature of f. Parameters are
// flattened; when f has results a trailing i32 return pointer is added.
// The single core result is always the i32 status Code.
func (f Func) CoreSignature() (params, results []api.ValueType) {
	var witParams []wit.Type
	for _, p := range f.Params {
		witParams = append(witParams, p.Type)
	}
	params = FlattenTypes(witParams)
	if len(params) > MaxFlatParams {
		params = []api.ValueType{api.ValueTypeI32}
	}
	if len(f.Results) > 0 {
		params = append(params, api.ValueTypeI32)
	}
	return params, []api.ValueType{api.ValueTypeI32}
}

// String renders f in WIT syntax, e.g. "node-child: func(node: string) -> string".
func (f Func) String() string {
	var b strings.Builder
	b.WriteString(f.Name)
	b.WriteString(": func(")
	for i, p := range f.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(p.Name)
		b.WriteString(": ")
		b.WriteString(TypeName(p.Type))
	}
	b.WriteByte(')')
	if len(f.Results) > 0 {
		b.WriteString(" -> ")
		b.WriteString(TypeName(f.Results[0]))
	}
	return b.String()
}

// CoreString renders the core signature, e.g. "(i32, i32, i32) -> i32".
func (f Func) CoreString() string {
	params, results := f.CoreSignature()
	var b strings.Builder
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(ValueTypeName(p))
	}
	b.WriteString(") -> ")
	for i, r := range results {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(ValueTypeName(r))
	}
	return b.String()
}

// TypeName renders the subset of WIT types used on the boundary.
func TypeName(t wit.Type) string {
	switch v := t.(type) {
	case wit.String:
		return "string"
	case wit.U8:
		return "u8"
	case wit.U32:
		return "u32"
	case *wit.TypeDef:
		switch k := v.Kind.(type) {
		case *wit.List:
			return "list<" + TypeName(k.Type) + ">"
		case *wit.Option:
			return "option<" + TypeName(k.Type) + ">"
		case *wit.Tuple:
			parts := make([]string, len(k.Types))
			for i, e := range k.Types {
				parts[i] = TypeName(e)
			}
			return "tuple<" + strings.Join(parts, ", ") + ">"
		}
	}
	return "?"
}
