package host

import (
	"context"

	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-dom-bridge/abi"
	"github.com/wippyai/wasm-dom-bridge/errors"
)

// guest adapts the module's render exports to platform.Component.
type guest struct {
	m *Mount
}

func (g *guest) Render(ctx context.Context) error {
	return g.m.callGuest(ctx, abi.FuncRender, g.m.render)
}

func (g *guest) ProcessDelegatedEvent(ctx context.Context, event string, eventID uint32, payload string) error {
	m := g.m
	m.callMu.Lock()
	defer m.callMu.Unlock()

	if m.module == nil {
		return errors.New(errors.PhaseHost, errors.KindClosed).Detail("guest not instantiated").Build()
	}
	mem, err := newMemory(m.module)
	if err != nil {
		return err
	}
	alloc := &moduleAllocator{ctx: ctx, allocFunc: m.module.ExportedFunction(abi.CabiRealloc)}

	eventPtr, eventLen, err := abi.WriteBytes(mem, alloc, []byte(event))
	if err != nil {
		return err
	}
	payloadPtr, payloadLen, err := abi.WriteBytes(mem, alloc, []byte(payload))
	if err != nil {
		return err
	}
	return m.invoke(ctx, abi.FuncProcessDelegatedEvent, m.process,
		uint64(eventPtr), uint64(eventLen), uint64(eventID), uint64(payloadPtr), uint64(payloadLen))
}

func (m *Mount) callGuest(ctx context.Context, name string, fn api.Function, params ...uint64) error {
	m.callMu.Lock()
	defer m.callMu.Unlock()
	return m.invoke(ctx, name, fn, params...)
}

// invoke calls a guest export with callMu held and turns a nonzero status
// into the error the guest reports from last-error.
func (m *Mount) invoke(ctx context.Context, name string, fn api.Function, params ...uint64) error {
	if fn == nil {
		return errors.New(errors.PhaseHost, errors.KindClosed).Detail("guest not instantiated").Build()
	}
	results, err := fn.Call(ctx, params...)
	if err != nil {
		return errors.Wrap(errors.PhaseHost, errors.KindGuestFault, err, "call "+name)
	}
	if len(results) == 0 {
		return nil
	}
	code := abi.Code(int32(uint32(results[0])))
	if code == abi.CodeOK {
		return nil
	}
	msg := m.guestLastError(ctx)
	m.logger.Debug("guest call failed",
		zap.String("func", name),
		zap.Int32("code", int32(code)),
		zap.String("message", msg))
	return abi.Err(errors.PhaseShim, code, msg)
}

// guestLastError fetches the guest's error message. Failures are logged
// and yield an empty message.
func (m *Mount) guestLastError(ctx context.Context) string {
	mem, err := newMemory(m.module)
	if err != nil {
		return ""
	}
	alloc := &moduleAllocator{ctx: ctx, allocFunc: m.module.ExportedFunction(abi.CabiRealloc)}
	retptr, err := alloc.Alloc(abi.SliceSize, 4)
	if err != nil {
		m.logger.Warn("allocate last-error slot", zap.Error(err))
		return ""
	}
	if _, err := m.guestErr.Call(ctx, uint64(retptr)); err != nil {
		m.logger.Warn("call guest last-error", zap.Error(err))
		return ""
	}
	ptr, err := mem.ReadU32(retptr)
	if err != nil {
		return ""
	}
	length, err := mem.ReadU32(retptr + 4)
	if err != nil {
		return ""
	}
	msg, err := abi.ReadString(mem, ptr, length)
	if err != nil {
		m.logger.Warn("read guest last-error", zap.Error(err))
		return ""
	}
	return msg
}
