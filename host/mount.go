package host

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-dom-bridge/abi"
	"github.com/wippyai/wasm-dom-bridge/errors"
	"github.com/wippyai/wasm-dom-bridge/platform"
)

// Mount is one guest module rendering into one platform.
type Mount struct {
	Platform *platform.Platform

	host     *Host
	bridge   *platform.Bridge
	logger   *zap.Logger
	name     string
	compiled wazero.CompiledModule
	module   api.Module

	render   api.Function
	process  api.Function
	guestErr api.Function

	// callMu serializes entry into the guest.
	callMu sync.Mutex

	mu      sync.Mutex
	lastErr string
	closed  bool
}

// Mount compiles and instantiates wasm, binds it to a new platform built
// from cfg and runs the first render. cfg.Component is replaced by the
// guest.
func (h *Host) Mount(ctx context.Context, wasm []byte, cfg platform.Config) (*Mount, error) {
	name := "guest-" + uuid.NewString()
	m := &Mount{
		host:   h,
		name:   name,
		logger: h.logger.With(zap.String("mount", name)),
	}

	if cfg.Logger == nil {
		cfg.Logger = h.logger
	}
	cfg.Component = &guest{m: m}
	p, err := platform.New(cfg)
	if err != nil {
		return nil, err
	}
	m.Platform = p
	m.bridge = p.Boundary()

	if err := h.addMount(m); err != nil {
		_ = p.Close()
		return nil, err
	}

	if err := m.instantiate(ctx, wasm); err != nil {
		return nil, multierr.Append(err, m.Close(ctx))
	}
	m.logger.Info("guest mounted", zap.String("platform", p.ID().String()))

	if err := p.Render(ctx); err != nil {
		return nil, multierr.Append(err, m.Close(ctx))
	}
	return m, nil
}

func (m *Mount) instantiate(ctx context.Context, wasm []byte) error {
	compiled, err := m.host.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return errors.Instantiation(err)
	}
	m.compiled = compiled

	mod, err := m.host.runtime.InstantiateModule(ctx, compiled, m.host.moduleConfig(m.name))
	if err != nil {
		return errors.Instantiation(err)
	}
	m.module = mod

	if mod.Memory() == nil {
		return errors.Instantiation(
			errors.NotFound(errors.PhaseHost, "export", "memory"))
	}

	// reactor modules run their initializer once
	if initFn := mod.ExportedFunction(abi.Initialize); initFn != nil {
		if _, err := initFn.Call(ctx); err != nil {
			return errors.Instantiation(err)
		}
	}

	if _, err := exported(mod, abi.CabiRealloc); err != nil {
		return err
	}
	if m.render, err = exported(mod, abi.ExportName(abi.RenderModule, abi.FuncRender)); err != nil {
		return err
	}
	if m.process, err = exported(mod, abi.ExportName(abi.RenderModule, abi.FuncProcessDelegatedEvent)); err != nil {
		return err
	}
	if m.guestErr, err = exported(mod, abi.ExportName(abi.RenderModule, abi.FuncLastError)); err != nil {
		return err
	}
	return nil
}

// Name is the wasm module name of the guest.
func (m *Mount) Name() string {
	return m.name
}

// Dispatch fires event at the first element matching selector, then runs
// any render the event left pending.
func (m *Mount) Dispatch(ctx context.Context, selector, event, payload string) error {
	if err := m.Platform.DispatchSelector(ctx, selector, event, payload); err != nil {
		return err
	}
	return m.Platform.Flush(ctx)
}

// LastError returns the message of the most recent failed import.
func (m *Mount) LastError() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

func (m *Mount) setLastError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err == nil {
		m.lastErr = ""
		return
	}
	m.lastErr = err.Error()
}

// serve runs one import on behalf of the guest module mod.
func (m *Mount) serve(ctx context.Context, mod api.Module, name string, fn importFunc, stack []uint64) error {
	mem, err := newMemory(mod)
	if err != nil {
		m.setLastError(err)
		return err
	}
	c := &call{
		ctx:     ctx,
		mem:     mem,
		alloc:   &moduleAllocator{ctx: ctx, allocFunc: mod.ExportedFunction(abi.CabiRealloc)},
		bridge:  m.bridge,
		lastErr: m.LastError(),
	}

	err = fn(c, stack)
	if name == abi.FuncLastError {
		return err
	}
	m.setLastError(err)
	if err != nil {
		m.logger.Debug("import failed", zap.String("func", name), zap.Error(err))
	}
	return err
}

// Close releases the guest module and the platform.
func (m *Mount) Close(ctx context.Context) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	m.mu.Unlock()

	m.host.removeMount(m.name)

	var err error
	if m.module != nil {
		err = multierr.Append(err, m.module.Close(ctx))
	}
	if m.compiled != nil {
		err = multierr.Append(err, m.compiled.Close(ctx))
	}
	err = multierr.Append(err, m.Platform.Close())
	m.logger.Debug("guest unmounted")
	return err
}
