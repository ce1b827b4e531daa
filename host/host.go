package host

import (
	"context"
	"io"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/imports/wasi_snapshot_preview1"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/wippyai/wasm-dom-bridge/abi"
	"github.com/wippyai/wasm-dom-bridge/errors"
)

// Config holds configuration for a Host.
type Config struct {
	Logger *zap.Logger
	// Stdout and Stderr receive guest WASI output. Default: discard.
	Stdout io.Writer
	Stderr io.Writer
	// MemoryLimitPages sets the maximum memory per guest in 64KB pages.
	// 0 means the wazero default.
	MemoryLimitPages uint32
}

// Host owns a wazero runtime with WASI and the bridge host module
// instantiated. Any number of guests can be mounted on it.
type Host struct {
	runtime wazero.Runtime
	cfg     Config
	logger  *zap.Logger
	mounts  map[string]*Mount
	mu      sync.RWMutex
	closed  bool
}

// New creates the runtime and registers the bridge imports.
func New(ctx context.Context, cfg Config) (*Host, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	h := &Host{
		runtime: wazero.NewRuntimeWithConfig(ctx, runtimeCfg),
		cfg:     cfg,
		logger:  logger.Named("host"),
		mounts:  make(map[string]*Mount),
	}

	if _, err := wasi_snapshot_preview1.Instantiate(ctx, h.runtime); err != nil {
		_ = h.runtime.Close(ctx)
		return nil, errors.Instantiation(err)
	}

	if err := h.registerImports(ctx); err != nil {
		_ = h.runtime.Close(ctx)
		return nil, err
	}
	return h, nil
}

func (h *Host) registerImports(ctx context.Context) error {
	builder := h.runtime.NewHostModuleBuilder(abi.HostModule)
	for _, f := range abi.Host.Funcs {
		fn, ok := imports[f.Name]
		if !ok {
			return errors.Registration(abi.HostModule, f.Name, nil)
		}
		params, results := f.CoreSignature()
		builder = builder.NewFunctionBuilder().
			WithGoModuleFunction(h.hostFunc(f.Name, fn), params, results).
			WithName(f.Name).
			Export(f.Name)
		h.logger.Debug("registered import",
			zap.String("func", f.Name),
			zap.String("core", f.CoreString()))
	}
	if _, err := builder.Instantiate(ctx); err != nil {
		return errors.Registration(abi.HostModule, "*", err)
	}
	return nil
}

// Runtime exposes the underlying wazero runtime.
func (h *Host) Runtime() wazero.Runtime {
	return h.runtime
}

func (h *Host) mount(name string) *Mount {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.mounts[name]
}

func (h *Host) addMount(m *Mount) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return errors.New(errors.PhaseHost, errors.KindClosed).Detail("host closed").Build()
	}
	h.mounts[m.name] = m
	return nil
}

func (h *Host) removeMount(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.mounts, name)
}

// Mounts returns the number of live mounts.
func (h *Host) Mounts() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.mounts)
}

// Close unmounts every guest and closes the runtime.
func (h *Host) Close(ctx context.Context) error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	mounts := make([]*Mount, 0, len(h.mounts))
	for _, m := range h.mounts {
		mounts = append(mounts, m)
	}
	h.mu.Unlock()

	var err error
	for _, m := range mounts {
		err = multierr.Append(err, m.Close(ctx))
	}
	return multierr.Append(err, h.runtime.Close(ctx))
}

func (h *Host) moduleConfig(name string) wazero.ModuleConfig {
	cfg := wazero.NewModuleConfig().
		WithName(name).
		WithStartFunctions()
	if h.cfg.Stdout != nil {
		cfg = cfg.WithStdout(h.cfg.Stdout)
	}
	if h.cfg.Stderr != nil {
		cfg = cfg.WithStderr(h.cfg.Stderr)
	}
	return cfg
}

// exported looks up a required guest export.
func exported(mod api.Module, name string) (api.Function, error) {
	fn := mod.ExportedFunction(name)
	if fn == nil {
		return nil, errors.Instantiation(
			errors.NotFound(errors.PhaseHost, "export", name))
	}
	return fn, nil
}
