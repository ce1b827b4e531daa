package host

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/wasm-dom-bridge/abi"
	"github.com/wippyai/wasm-dom-bridge/dom"
	"github.com/wippyai/wasm-dom-bridge/errors"
	"github.com/wippyai/wasm-dom-bridge/platform"
	"github.com/wippyai/wasm-dom-bridge/refvalue"
)

const page = `<html><body><div id="app"></div></body></html>`

func newTestHost(t *testing.T) *Host {
	t.Helper()
	ctx := context.Background()
	h, err := New(ctx, Config{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close(ctx) })
	return h
}

func newDoc(t *testing.T) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(page, nil)
	require.NoError(t, err)
	return doc
}

func TestImports_CoverHostInterface(t *testing.T) {
	for _, f := range abi.Host.Funcs {
		_, ok := imports[f.Name]
		assert.True(t, ok, "no import bound for %s", f.Name)
	}
	assert.Len(t, imports, len(abi.Host.Funcs))
}

func TestNew_MemoryLimit(t *testing.T) {
	ctx := context.Background()
	h, err := New(ctx, Config{MemoryLimitPages: 16})
	require.NoError(t, err)
	require.NotNil(t, h.Runtime())
	require.NoError(t, h.Close(ctx))
	// second close is a no-op
	require.NoError(t, h.Close(ctx))
}

func TestMount_MissingExports(t *testing.T) {
	h := newTestHost(t)

	_, err := h.Mount(context.Background(), memoryOnlyModule, platform.Config{
		Document: newDoc(t),
		Selector: "#app",
	})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInstantiation), "got %v", err)
	assert.Contains(t, err.Error(), abi.CabiRealloc)
	assert.Equal(t, 0, h.Mounts())
}

func TestMount_InvalidModule(t *testing.T) {
	h := newTestHost(t)

	_, err := h.Mount(context.Background(), []byte("not wasm"), platform.Config{
		Document: newDoc(t),
		Selector: "#app",
	})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInstantiation))
	assert.Equal(t, 0, h.Mounts())
}

func TestMount_BadSelector(t *testing.T) {
	h := newTestHost(t)

	_, err := h.Mount(context.Background(), guestModule(), platform.Config{
		Document: newDoc(t),
		Selector: "#missing",
	})
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInvalidArgument))
}

func TestMount_FirstRender(t *testing.T) {
	h := newTestHost(t)
	doc := newDoc(t)
	ctx := context.Background()

	m, err := h.Mount(ctx, guestModule(), platform.Config{Document: doc, Selector: "#app"})
	require.NoError(t, err)
	assert.Equal(t, 1, h.Mounts())
	assert.True(t, strings.HasPrefix(m.Name(), "guest-"))

	assert.Equal(t, 1, m.Platform.Renders())
	assert.True(t, m.Platform.Delegated("click"))
	assert.Empty(t, m.LastError())
	assert.Equal(t, 1, m.Platform.Registries().Nodes.Len())

	p, err := doc.Query("p")
	require.NoError(t, err)
	assert.Equal(t, "hi", dom.InnerText(p))

	require.NoError(t, m.Close(ctx))
	assert.Equal(t, 0, h.Mounts())
	assert.False(t, m.Platform.Delegated("click"))
	require.NoError(t, m.Close(ctx))
}

func TestMount_GuestErrorCarriesMessage(t *testing.T) {
	h := newTestHost(t)
	ctx := context.Background()

	m, err := h.Mount(ctx, guestModule(), platform.Config{Document: newDoc(t), Selector: "#app"})
	require.NoError(t, err)

	err = m.Dispatch(ctx, "p", "click", "")
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindHandlerNotFound), "got %v", err)
	assert.Contains(t, err.Error(), guestError)
}

func TestMount_Rerender(t *testing.T) {
	h := newTestHost(t)
	doc := newDoc(t)
	ctx := context.Background()

	m, err := h.Mount(ctx, guestModule(), platform.Config{Document: doc, Selector: "#app"})
	require.NoError(t, err)

	require.NoError(t, m.Platform.Render(ctx))
	assert.Equal(t, 2, m.Platform.Renders())

	// delegation stays single, each render appends a template
	assert.True(t, m.Platform.Delegated("click"))
	ps, err := doc.QueryAll("p")
	require.NoError(t, err)
	assert.Len(t, ps, 2)
}

func TestHostClose_UnmountsGuests(t *testing.T) {
	ctx := context.Background()
	h, err := New(ctx, Config{})
	require.NoError(t, err)

	m, err := h.Mount(ctx, guestModule(), platform.Config{Document: newDoc(t), Selector: "#app"})
	require.NoError(t, err)

	require.NoError(t, h.Close(ctx))
	assert.Equal(t, 0, h.Mounts())
	assert.False(t, m.Platform.Delegated("click"))

	_, err = h.Mount(ctx, guestModule(), platform.Config{Document: newDoc(t), Selector: "#app"})
	assert.True(t, errors.IsKind(err, errors.KindClosed))
}

func TestMount_BoundaryRoundTrip(t *testing.T) {
	h := newTestHost(t)
	doc := newDoc(t)
	ctx := context.Background()

	initial, err := refvalue.Number(1).MarshalBinary()
	require.NoError(t, err)
	next, err := refvalue.Number(2).MarshalBinary()
	require.NoError(t, err)

	m, err := h.Mount(ctx, boundaryModule(initial, next), platform.Config{Document: doc, Selector: "#app"})
	require.NoError(t, err)

	mem := m.module.Memory()
	status := func(slot int) abi.Code {
		v, ok := mem.ReadUint32Le(uint32(bmCodes + 4*slot))
		require.True(t, ok)
		return abi.Code(v)
	}
	slice := func(at uint32) []byte {
		ptr, ok := mem.ReadUint32Le(at)
		require.True(t, ok)
		n, ok := mem.ReadUint32Le(at + 4)
		require.True(t, ok)
		data, ok := mem.Read(ptr, n)
		require.True(t, ok)
		return data
	}

	for slot := 0; slot < bcCount; slot++ {
		want := abi.CodeOK
		if slot == bcBadNode {
			want = abi.CodeNotFound
		}
		assert.Equal(t, want, status(slot), "call %d", slot)
	}

	assert.Equal(t, "node-1", string(slice(uint32(ret(bcCreateNode)))))
	assert.Equal(t, "node-3", string(slice(uint32(ret(bcChild)))))

	// option<string>: discriminant byte, then (ptr, len) at +4
	disc, ok := mem.ReadByte(uint32(ret(bcNthSome)))
	require.True(t, ok)
	assert.Equal(t, byte(1), disc)
	assert.Equal(t, "node-2", string(slice(uint32(ret(bcNthSome))+4)))
	disc, ok = mem.ReadByte(uint32(ret(bcNthNone)))
	require.True(t, ok)
	assert.Equal(t, byte(0), disc)

	ul, err := doc.Query("ul")
	require.NoError(t, err)
	assert.Equal(t, "red", dom.StyleProperty(ul, "color"))
	assert.True(t, doc.HasEventID(ul))

	assert.Equal(t, "ref-1", string(slice(uint32(ret(bcCreateRef)))))
	var got refvalue.Value
	require.NoError(t, got.UnmarshalBinary(slice(uint32(ret(bcRefGet)))))
	assert.Equal(t, refvalue.Number(2), got)
	assert.True(t, m.Platform.Pending())
	assert.Equal(t, 1, m.Platform.ScheduledRenders())

	assert.Contains(t, string(slice(uint32(ret(bcLastError)))), boundaryBad)
}
