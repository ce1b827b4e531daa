//go:build wasip1

package guest

import (
	"sync"
	"unsafe"
)

// pinned keeps buffers handed out by cabi_realloc reachable until the
// guest takes them back.
var pinned = struct {
	sync.Mutex
	bufs map[uint32][]byte
}{bufs: make(map[uint32][]byte)}

//go:wasmexport cabi_realloc
func cabiRealloc(oldPtr, oldSize, align, newSize uint32) uint32 {
	if newSize == 0 {
		return 0
	}
	if align == 0 {
		align = 1
	}
	buf := make([]byte, newSize+align)
	base := uint32(uintptr(unsafe.Pointer(unsafe.SliceData(buf))))
	pad := (align - base%align) % align
	buf = buf[pad : pad+newSize]
	ptr := base + pad

	pinned.Lock()
	defer pinned.Unlock()
	if oldPtr != 0 {
		if old, ok := pinned.bufs[oldPtr]; ok {
			copy(buf, old[:min(uint32(len(old)), oldSize)])
			delete(pinned.bufs, oldPtr)
		}
	}
	pinned.bufs[ptr] = buf
	return ptr
}

// take returns the first length bytes of the pinned buffer at ptr and
// unpins it.
func take(ptr, length uint32) []byte {
	if length == 0 {
		return nil
	}
	pinned.Lock()
	defer pinned.Unlock()
	buf, ok := pinned.bufs[ptr]
	if !ok || uint32(len(buf)) < length {
		return nil
	}
	delete(pinned.bufs, ptr)
	return buf[:length]
}

// peek returns the pinned buffer at ptr without unpinning it.
func peek(ptr uint32) []byte {
	pinned.Lock()
	defer pinned.Unlock()
	return pinned.bufs[ptr]
}

func release(ptr uint32) {
	pinned.Lock()
	defer pinned.Unlock()
	delete(pinned.bufs, ptr)
}

func stringPtr(s string) (ptr, length uint32) {
	if s == "" {
		return 0, 0
	}
	return uint32(uintptr(unsafe.Pointer(unsafe.StringData(s)))), uint32(len(s))
}

func bytesPtr(b []byte) (ptr, length uint32) {
	if len(b) == 0 {
		return 0, 0
	}
	return uint32(uintptr(unsafe.Pointer(unsafe.SliceData(b)))), uint32(len(b))
}

func (r *retArea) ptr() uint32 {
	return uint32(uintptr(unsafe.Pointer(&r[0])))
}
