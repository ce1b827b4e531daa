package host

// Minimal binary encoder for hand-assembled test guests.

const (
	i32 = 0x7f

	opCall      = 0x10
	opDrop      = 0x1a
	opLocalGet  = 0x20
	opGlobalGet = 0x23
	opGlobalSet = 0x24
	opI32Store  = 0x36
	opI32Const  = 0x41
	opI32Add    = 0x6a
	opEnd       = 0x0b
)

func uleb(v uint32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if v != 0 {
			out = append(out, b|0x80)
			continue
		}
		return append(out, b)
	}
}

func sleb(v int32) []byte {
	var out []byte
	for {
		b := byte(v & 0x7f)
		v >>= 7
		if (v == 0 && b&0x40 == 0) || (v == -1 && b&0x40 != 0) {
			return append(out, b)
		}
		out = append(out, b|0x80)
	}
}

func name(s string) []byte {
	return append(uleb(uint32(len(s))), s...)
}

func vec(items ...[]byte) []byte {
	out := uleb(uint32(len(items)))
	for _, it := range items {
		out = append(out, it...)
	}
	return out
}

func section(id byte, body []byte) []byte {
	out := []byte{id}
	out = append(out, uleb(uint32(len(body)))...)
	return append(out, body...)
}

func funcType(params, results int) []byte {
	out := []byte{0x60}
	out = append(out, uleb(uint32(params))...)
	for i := 0; i < params; i++ {
		out = append(out, i32)
	}
	out = append(out, uleb(uint32(results))...)
	for i := 0; i < results; i++ {
		out = append(out, i32)
	}
	return out
}

func i32Const(v int32) []byte {
	return append([]byte{opI32Const}, sleb(v)...)
}

func code(instrs ...[]byte) []byte {
	body := []byte{0x00} // no locals
	for _, in := range instrs {
		body = append(body, in...)
	}
	body = append(body, opEnd)
	return append(uleb(uint32(len(body))), body...)
}

func dataSegment(offset int32, data string) []byte {
	out := []byte{0x00}
	out = append(out, i32Const(offset)...)
	out = append(out, opEnd)
	return append(out, name(data)...)
}

func module(sections ...[]byte) []byte {
	out := []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}
	for _, s := range sections {
		out = append(out, s...)
	}
	return out
}

// memoryOnlyModule exports one page of memory and nothing else.
var memoryOnlyModule = module(
	section(5, vec([]byte{0x00, 0x01})),
	section(7, vec(append(name("memory"), 0x02, 0x00))),
)

const (
	guestClickAt  = 32
	guestMarkupAt = 64
	guestErrorAt  = 160
	guestRetptr   = 16

	guestMarkup = `<p class="x">hi</p>`
	guestError  = "no handler for event"
)

// guestModule renders guestMarkup and delegates click on every render,
// and fails every delegated event with CodeHandlerNotFound.
func guestModule() []byte {
	const hostNS = "vuefes:component/vue-host"
	const renderNS = "vuefes:component/vue-render#"

	types := section(1, vec(
		funcType(3, 1), // 0 create-node
		funcType(2, 1), // 1 delegate-events
		funcType(4, 1), // 2 cabi_realloc
		funcType(0, 1), // 3 render
		funcType(5, 1), // 4 process-delegated-event
		funcType(1, 1), // 5 last-error
	))
	imports := section(2, vec(
		append(append(name(hostNS), name("create-node")...), 0x00, 0x00),
		append(append(name(hostNS), name("delegate-events")...), 0x00, 0x01),
	))
	funcs := section(3, vec([]byte{2}, []byte{3}, []byte{4}, []byte{5}))
	memory := section(5, vec([]byte{0x00, 0x01}))
	globals := section(6, vec(append(append([]byte{i32, 0x01}, i32Const(1024)...), opEnd)))
	exports := section(7, vec(
		append(name("memory"), 0x02, 0x00),
		append(name("cabi_realloc"), 0x00, 0x02),
		append(name(renderNS+"render"), 0x00, 0x03),
		append(name(renderNS+"process-delegated-event"), 0x00, 0x04),
		append(name(renderNS+"last-error"), 0x00, 0x05),
	))

	realloc := code(
		[]byte{opGlobalGet, 0x00},
		[]byte{opGlobalGet, 0x00},
		[]byte{opLocalGet, 0x03},
		[]byte{opI32Add},
		[]byte{opGlobalSet, 0x00},
	)
	render := code(
		i32Const(guestMarkupAt), i32Const(int32(len(guestMarkup))), i32Const(guestRetptr),
		[]byte{opCall, 0x00},
		[]byte{opDrop},
		i32Const(guestClickAt), i32Const(5),
		[]byte{opCall, 0x01},
	)
	process := code(i32Const(5)) // CodeHandlerNotFound
	lastError := code(
		[]byte{opLocalGet, 0x00}, i32Const(guestErrorAt), []byte{opI32Store, 0x02, 0x00},
		[]byte{opLocalGet, 0x00}, i32Const(int32(len(guestError))), []byte{opI32Store, 0x02, 0x04},
		i32Const(0),
	)
	codes := section(10, vec(realloc, render, process, lastError))
	data := section(11, vec(
		dataSegment(guestClickAt, "click"),
		dataSegment(guestMarkupAt, guestMarkup),
		dataSegment(guestErrorAt, guestError),
	))

	return module(types, imports, funcs, memory, globals, exports, codes, data)
}

// Layout of boundaryModule's linear memory.
const (
	bmCodes   = 256 // one i32 status per call
	bmRets    = 320 // 16-byte return areas
	bmMarkup  = 512
	bmNode    = 600
	bmRef     = 608
	bmBadNode = 616
	bmKey     = 640
	bmVal     = 648
	bmStyle   = 656
	bmInit    = 704
	bmNext    = 768

	boundaryMarkup = `<ul><li>a</li><li>b</li></ul>`
	boundaryBad    = "node-99"
)

// Call order in boundaryModule's render; slot i stores its status at
// bmCodes+4*i and its result at bmRets+16*i.
const (
	bcCreateNode = iota
	bcSetEventID
	bcNthSome
	bcNthNone
	bcSetStyle
	bcCreateRef
	bcRefSet
	bcRefGet
	bcBadNode
	bcLastError
	bcChild
	bcCount
)

func le32(vs ...uint32) string {
	out := make([]byte, 0, 4*len(vs))
	for _, v := range vs {
		out = append(out, byte(v), byte(v>>8), byte(v>>16), byte(v>>24))
	}
	return string(out)
}

// callStore calls fn with args and stores its status in slot.
func callStore(slot int, fn byte, args ...int32) []byte {
	out := i32Const(int32(bmCodes + 4*slot))
	for _, a := range args {
		out = append(out, i32Const(a)...)
	}
	out = append(out, opCall, fn)
	return append(out, opI32Store, 0x02, 0x00)
}

func ret(slot int) int32 {
	return int32(bmRets + 16*slot)
}

// boundaryModule calls every host import with list, option and tuple
// shapes once from render. initial and next are wire-encoded ref values.
func boundaryModule(initial, next []byte) []byte {
	const hostNS = "vuefes:component/vue-host"
	const renderNS = "vuefes:component/vue-render#"

	imp := func(field string, typ byte) []byte {
		return append(append(name(hostNS), name(field)...), 0x00, typ)
	}

	types := section(1, vec(
		funcType(1, 1), // 0
		funcType(3, 1), // 1
		funcType(4, 1), // 2
		funcType(0, 1), // 3
		funcType(5, 1), // 4
	))
	imports := section(2, vec(
		imp("create-node", 1),       // 0
		imp("set-node-event-id", 1), // 1
		imp("node-nth-child", 2),    // 2
		imp("node-set-style", 2),    // 3
		imp("create-ref", 1),        // 4
		imp("ref-set-value", 2),     // 5
		imp("ref-get-value", 1),     // 6
		imp("get-node-by-id", 1),    // 7
		imp("last-error", 0),        // 8
		imp("node-child", 1),        // 9
	))
	funcs := section(3, vec([]byte{2}, []byte{3}, []byte{4}, []byte{0}))
	memory := section(5, vec([]byte{0x00, 0x01}))
	globals := section(6, vec(append(append([]byte{i32, 0x01}, i32Const(1024)...), opEnd)))
	exports := section(7, vec(
		append(name("memory"), 0x02, 0x00),
		append(name("cabi_realloc"), 0x00, 10),
		append(name(renderNS+"render"), 0x00, 11),
		append(name(renderNS+"process-delegated-event"), 0x00, 12),
		append(name(renderNS+"last-error"), 0x00, 13),
	))

	realloc := code(
		[]byte{opGlobalGet, 0x00},
		[]byte{opGlobalGet, 0x00},
		[]byte{opLocalGet, 0x03},
		[]byte{opI32Add},
		[]byte{opGlobalSet, 0x00},
	)
	render := code(
		callStore(bcCreateNode, 0, bmMarkup, int32(len(boundaryMarkup)), ret(bcCreateNode)),
		callStore(bcSetEventID, 1, bmNode, 6, 7),
		callStore(bcNthSome, 2, bmNode, 6, 2, ret(bcNthSome)),
		callStore(bcNthNone, 2, bmNode, 6, 3, ret(bcNthNone)),
		callStore(bcSetStyle, 3, bmNode, 6, bmStyle, 1),
		callStore(bcCreateRef, 4, bmInit, int32(len(initial)), ret(bcCreateRef)),
		callStore(bcRefSet, 5, bmRef, 5, bmNext, int32(len(next))),
		callStore(bcRefGet, 6, bmRef, 5, ret(bcRefGet)),
		callStore(bcBadNode, 7, bmBadNode, int32(len(boundaryBad)), ret(bcBadNode)),
		callStore(bcLastError, 8, ret(bcLastError)),
		callStore(bcChild, 9, bmNode, 6, ret(bcChild)),
		i32Const(0),
	)
	process := code(i32Const(0))
	lastError := code(i32Const(0))
	codes := section(10, vec(realloc, render, process, lastError))
	data := section(11, vec(
		dataSegment(bmMarkup, boundaryMarkup),
		dataSegment(bmNode, "node-1"),
		dataSegment(bmRef, "ref-1"),
		dataSegment(bmBadNode, boundaryBad),
		dataSegment(bmKey, "color"),
		dataSegment(bmVal, "red"),
		dataSegment(bmStyle, le32(bmKey, 5, bmVal, 3)),
		dataSegment(bmInit, string(initial)),
		dataSegment(bmNext, string(next)),
	))

	return module(types, imports, funcs, memory, globals, exports, codes, data)
}
