package host

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	dombridge "github.com/wippyai/wasm-dom-bridge"
	"github.com/wippyai/wasm-dom-bridge/abi"
)

// call is the state of one guest-to-host import invocation.
type call struct {
	ctx     context.Context
	mem     dombridge.Memory
	alloc   dombridge.Allocator
	bridge  dombridge.Boundary
	lastErr string
}

func (c *call) str(ptr, length uint64) (string, error) {
	return abi.ReadString(c.mem, uint32(ptr), uint32(length))
}

func (c *call) storeString(retptr uint64, s string, err error) error {
	if err != nil {
		return err
	}
	return abi.StoreString(c.mem, c.alloc, uint32(retptr), s)
}

// importFunc handles one host import. stack holds the flattened core
// parameters; the returned error becomes the status code.
type importFunc func(c *call, stack []uint64) error

// imports binds every function of abi.Host.
var imports = map[string]importFunc{
	abi.FuncCreateNode: func(c *call, stack []uint64) error {
		markup, err := c.str(stack[0], stack[1])
		if err != nil {
			return err
		}
		id, err := c.bridge.CreateNode(markup)
		return c.storeString(stack[2], id, err)
	},
	abi.FuncCreateRef: func(c *call, stack []uint64) error {
		v, err := abi.ReadValue(c.mem, uint32(stack[0]), uint32(stack[1]))
		if err != nil {
			return err
		}
		id, err := c.bridge.CreateRef(v)
		return c.storeString(stack[2], id, err)
	},
	abi.FuncDelegateEvents: func(c *call, stack []uint64) error {
		event, err := c.str(stack[0], stack[1])
		if err != nil {
			return err
		}
		return c.bridge.DelegateEvents(event)
	},
	abi.FuncSetNodeEventID: func(c *call, stack []uint64) error {
		node, err := c.str(stack[0], stack[1])
		if err != nil {
			return err
		}
		return c.bridge.SetNodeEventID(node, uint32(stack[2]))
	},
	abi.FuncGetNodeByID: func(c *call, stack []uint64) error {
		node, err := c.str(stack[0], stack[1])
		if err != nil {
			return err
		}
		id, err := c.bridge.GetNodeByID(node)
		return c.storeString(stack[2], id, err)
	},
	abi.FuncGetRefByID: func(c *call, stack []uint64) error {
		ref, err := c.str(stack[0], stack[1])
		if err != nil {
			return err
		}
		id, err := c.bridge.GetRefByID(ref)
		return c.storeString(stack[2], id, err)
	},
	abi.FuncNodeChild: func(c *call, stack []uint64) error {
		node, err := c.str(stack[0], stack[1])
		if err != nil {
			return err
		}
		id, err := c.bridge.NodeChild(node)
		return c.storeString(stack[2], id, err)
	},
	abi.FuncNodeNthChild: func(c *call, stack []uint64) error {
		node, err := c.str(stack[0], stack[1])
		if err != nil {
			return err
		}
		id, ok, err := c.bridge.NodeNthChild(node, uint32(stack[2]))
		if err != nil {
			return err
		}
		return abi.StoreOptionString(c.mem, c.alloc, uint32(stack[3]), id, ok)
	},
	abi.FuncNodeNext: func(c *call, stack []uint64) error {
		node, err := c.str(stack[0], stack[1])
		if err != nil {
			return err
		}
		id, err := c.bridge.NodeNext(node)
		return c.storeString(stack[2], id, err)
	},
	abi.FuncNodeSetStyle: func(c *call, stack []uint64) error {
		node, err := c.str(stack[0], stack[1])
		if err != nil {
			return err
		}
		entries, err := abi.ReadStyleEntries(c.mem, uint32(stack[2]), uint32(stack[3]))
		if err != nil {
			return err
		}
		return c.bridge.NodeSetStyle(node, entries)
	},
	abi.FuncNodeSetText: func(c *call, stack []uint64) error {
		node, err := c.str(stack[0], stack[1])
		if err != nil {
			return err
		}
		text, err := c.str(stack[2], stack[3])
		if err != nil {
			return err
		}
		return c.bridge.NodeSetText(node, text)
	},
	abi.FuncRefGetValue: func(c *call, stack []uint64) error {
		ref, err := c.str(stack[0], stack[1])
		if err != nil {
			return err
		}
		v, err := c.bridge.RefGetValue(ref)
		if err != nil {
			return err
		}
		return abi.StoreValue(c.mem, c.alloc, uint32(stack[2]), v)
	},
	abi.FuncRefSetValue: func(c *call, stack []uint64) error {
		ref, err := c.str(stack[0], stack[1])
		if err != nil {
			return err
		}
		v, err := abi.ReadValue(c.mem, uint32(stack[2]), uint32(stack[3]))
		if err != nil {
			return err
		}
		return c.bridge.RefSetValue(ref, v)
	},
	abi.FuncLastError: func(c *call, stack []uint64) error {
		return abi.StoreString(c.mem, c.alloc, uint32(stack[0]), c.lastErr)
	},
}

// hostFunc wraps an import as a wazero module function. The calling
// module selects the mount whose platform serves the call.
func (h *Host) hostFunc(name string, fn importFunc) api.GoModuleFunc {
	return func(ctx context.Context, mod api.Module, stack []uint64) {
		m := h.mount(mod.Name())
		if m == nil {
			h.logger.Error("import from unmounted module",
				zap.String("module", mod.Name()),
				zap.String("func", name))
			stack[0] = uint64(abi.CodeClosed)
			return
		}
		err := m.serve(ctx, mod, name, fn, stack)
		stack[0] = uint64(uint32(abi.CodeOf(err)))
	}
}
