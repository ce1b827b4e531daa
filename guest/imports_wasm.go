//go:build wasip1

package guest

//go:wasmimport vuefes:component/vue-host create-node
//go:noescape
func hostCreateNode(ptr, length, retptr uint32) int32

//go:wasmimport vuefes:component/vue-host create-ref
//go:noescape
func hostCreateRef(ptr, length, retptr uint32) int32

//go:wasmimport vuefes:component/vue-host delegate-events
//go:noescape
func hostDelegateEvents(ptr, length uint32) int32

//go:wasmimport vuefes:component/vue-host set-node-event-id
//go:noescape
func hostSetNodeEventID(ptr, length, eventID uint32) int32

//go:wasmimport vuefes:component/vue-host get-node-by-id
//go:noescape
func hostGetNodeByID(ptr, length, retptr uint32) int32

//go:wasmimport vuefes:component/vue-host get-ref-by-id
//go:noescape
func hostGetRefByID(ptr, length, retptr uint32) int32

//go:wasmimport vuefes:component/vue-host node-child
//go:noescape
func hostNodeChild(ptr, length, retptr uint32) int32

//go:wasmimport vuefes:component/vue-host node-nth-child
//go:noescape
func hostNodeNthChild(ptr, length, nth, retptr uint32) int32

//go:wasmimport vuefes:component/vue-host node-next
//go:noescape
func hostNodeNext(ptr, length, retptr uint32) int32

//go:wasmimport vuefes:component/vue-host node-set-style
//go:noescape
func hostNodeSetStyle(ptr, length, entriesPtr, count uint32) int32

//go:wasmimport vuefes:component/vue-host node-set-text
//go:noescape
func hostNodeSetText(ptr, length, textPtr, textLen uint32) int32

//go:wasmimport vuefes:component/vue-host ref-get-value
//go:noescape
func hostRefGetValue(ptr, length, retptr uint32) int32

//go:wasmimport vuefes:component/vue-host ref-set-value
//go:noescape
func hostRefSetValue(ptr, length, valuePtr, valueLen uint32) int32

//go:wasmimport vuefes:component/vue-host last-error
//go:noescape
func hostLastError(retptr uint32) int32
