package host

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	dombridge "github.com/wippyai/wasm-dom-bridge"
	"github.com/wippyai/wasm-dom-bridge/errors"
)

// wazeroMemory adapts wazero memory to dombridge.Memory.
type wazeroMemory struct {
	mem api.Memory
}

func newMemory(mod api.Module) (*wazeroMemory, error) {
	mem := mod.Memory()
	if mem == nil {
		return nil, errors.New(errors.PhaseHost, errors.KindGuestFault).
			Detail("module %q exports no memory", mod.Name()).
			Build()
	}
	return &wazeroMemory{mem: mem}, nil
}

func (m *wazeroMemory) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseHost, offset, length)
	}
	return data, nil
}

func (m *wazeroMemory) Write(offset uint32, data []byte) error {
	if !m.mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseHost, offset, uint32(len(data)))
	}
	return nil
}

func (m *wazeroMemory) ReadU8(offset uint32) (uint8, error) {
	v, ok := m.mem.ReadByte(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseHost, offset, 1)
	}
	return v, nil
}

func (m *wazeroMemory) ReadU32(offset uint32) (uint32, error) {
	v, ok := m.mem.ReadUint32Le(offset)
	if !ok {
		return 0, errors.OutOfBounds(errors.PhaseHost, offset, 4)
	}
	return v, nil
}

func (m *wazeroMemory) WriteU8(offset uint32, value uint8) error {
	if !m.mem.WriteByte(offset, value) {
		return errors.OutOfBounds(errors.PhaseHost, offset, 1)
	}
	return nil
}

func (m *wazeroMemory) WriteU32(offset uint32, value uint32) error {
	if !m.mem.WriteUint32Le(offset, value) {
		return errors.OutOfBounds(errors.PhaseHost, offset, 4)
	}
	return nil
}

func (m *wazeroMemory) Size() uint32 {
	if m.mem == nil {
		return 0
	}
	return m.mem.Size()
}

// moduleAllocator allocates through the guest's cabi_realloc export.
type moduleAllocator struct {
	ctx       context.Context
	allocFunc api.Function
	stackBuf  [4]uint64
}

func (a *moduleAllocator) Alloc(size, align uint32) (uint32, error) {
	if a.allocFunc == nil {
		return 0, errors.AllocationFailed(errors.PhaseHost, size, align, nil)
	}
	a.stackBuf[0] = 0 // oldPtr
	a.stackBuf[1] = 0 // oldSize
	a.stackBuf[2] = uint64(align)
	a.stackBuf[3] = uint64(size)
	if err := a.allocFunc.CallWithStack(a.ctx, a.stackBuf[:]); err != nil {
		return 0, errors.AllocationFailed(errors.PhaseHost, size, align, err)
	}
	ptr := uint32(a.stackBuf[0])
	if ptr == 0 && size > 0 {
		return 0, errors.AllocationFailed(errors.PhaseHost, size, align, nil)
	}
	return ptr, nil
}

var (
	_ dombridge.Memory      = (*wazeroMemory)(nil)
	_ dombridge.MemorySizer = (*wazeroMemory)(nil)
	_ dombridge.Allocator   = (*moduleAllocator)(nil)
)
