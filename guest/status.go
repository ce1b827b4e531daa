package guest

import (
	"encoding/binary"
	"sync"

	"github.com/wippyai/wasm-dom-bridge/abi"
)

// failures records the message of the last failed export call so the
// host can fetch it through last-error.
type failures struct {
	mu  sync.Mutex
	msg []byte
}

// status maps err to the export's return code and records its message.
func (f *failures) status(err error) int32 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		f.msg = nil
		return int32(abi.CodeOK)
	}
	f.msg = []byte(err.Error())
	return int32(abi.CodeOf(err))
}

func (f *failures) message() []byte {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.msg
}

// putSlice writes a (ptr, len) pair into an 8-byte return slot.
func putSlice(slot []byte, ptr, length uint32) {
	binary.LittleEndian.PutUint32(slot[0:4], ptr)
	binary.LittleEndian.PutUint32(slot[4:8], length)
}

// retArea is the return slot for host imports, wide enough for
// option<string>.
type retArea [abi.OptionStringSize / 4]uint32

func (r *retArea) slice() (ptr, length uint32) {
	return r[0], r[1]
}

func (r *retArea) option() (ptr, length uint32, ok bool) {
	if r[0]&0xff == 0 {
		return 0, 0, false
	}
	return r[1], r[2], true
}

// wordBytes lays words out little-endian, as guest memory holds them.
func wordBytes(words []uint32) []byte {
	out := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(out[4*i:], w)
	}
	return out
}
