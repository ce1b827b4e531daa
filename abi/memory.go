package abi

import (
	dombridge "github.com/wippyai/wasm-dom-bridge"
	"github.com/wippyai/wasm-dom-bridge/errors"
	"github.com/wippyai/wasm-dom-bridge/refvalue"
)

// Canonical ABI sizes of the aggregates used on the boundary.
const (
	// string and list<T> are (ptr, len)
	SliceSize = 8
	// tuple<string, string>
	StyleEntrySize = 16
	// option<string>: u8 discriminant, padding, then (ptr, len)
	OptionStringSize = 12
)

// ReadBytes copies length bytes at ptr out of guest memory.
func ReadBytes(mem dombridge.Memory, ptr, length uint32) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	data, err := mem.Read(ptr, length)
	if err != nil {
		return nil, err
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// ReadString reads a UTF-8 string at (ptr, length).
func ReadString(mem dombridge.Memory, ptr, length uint32) (string, error) {
	if length == 0 {
		return "", nil
	}
	data, err := mem.Read(ptr, length)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// ReadValue reads a msgpack-encoded ref value at (ptr, length).
func ReadValue(mem dombridge.Memory, ptr, length uint32) (refvalue.Value, error) {
	data, err := ReadBytes(mem, ptr, length)
	if err != nil {
		return refvalue.Value{}, err
	}
	var v refvalue.Value
	if err := v.UnmarshalBinary(data); err != nil {
		return refvalue.Value{}, err
	}
	return v, nil
}

// ReadStyleEntries reads a list<tuple<string, string>> of count elements.
func ReadStyleEntries(mem dombridge.Memory, ptr, count uint32) ([]dombridge.StyleEntry, error) {
	if uint64(count)*StyleEntrySize > 1<<32-1 {
		return nil, errors.OutOfBounds(errors.PhaseABI, ptr, count)
	}
	out := make([]dombridge.StyleEntry, 0, count)
	for i := uint32(0); i < count; i++ {
		base := ptr + i*StyleEntrySize
		var words [4]uint32
		for j := range words {
			w, err := mem.ReadU32(base + uint32(j)*4)
			if err != nil {
				return nil, err
			}
			words[j] = w
		}
		key, err := ReadString(mem, words[0], words[1])
		if err != nil {
			return nil, err
		}
		val, err := ReadString(mem, words[2], words[3])
		if err != nil {
			return nil, err
		}
		out = append(out, dombridge.StyleEntry{Key: key, Value: val})
	}
	return out, nil
}

// WriteBytes allocates len(data) bytes in the guest and copies data in.
func WriteBytes(mem dombridge.Memory, alloc dombridge.Allocator, data []byte) (ptr, length uint32, err error) {
	if len(data) == 0 {
		return 0, 0, nil
	}
	ptr, err = alloc.Alloc(uint32(len(data)), 1)
	if err != nil {
		return 0, 0, errors.AllocationFailed(errors.PhaseABI, uint32(len(data)), 1, err)
	}
	if err := mem.Write(ptr, data); err != nil {
		return 0, 0, err
	}
	return ptr, uint32(len(data)), nil
}

// StoreSlice writes (ptr, len) at retptr.
func StoreSlice(mem dombridge.Memory, retptr, ptr, length uint32) error {
	if err := mem.WriteU32(retptr, ptr); err != nil {
		return err
	}
	return mem.WriteU32(retptr+4, length)
}

// StoreString lowers s and writes its (ptr, len) at retptr.
func StoreString(mem dombridge.Memory, alloc dombridge.Allocator, retptr uint32, s string) error {
	ptr, length, err := WriteBytes(mem, alloc, []byte(s))
	if err != nil {
		return err
	}
	return StoreSlice(mem, retptr, ptr, length)
}

// StoreBytes lowers data and writes its (ptr, len) at retptr.
func StoreBytes(mem dombridge.Memory, alloc dombridge.Allocator, retptr uint32, data []byte) error {
	ptr, length, err := WriteBytes(mem, alloc, data)
	if err != nil {
		return err
	}
	return StoreSlice(mem, retptr, ptr, length)
}

// StoreValue lowers a ref value in its wire form at retptr.
func StoreValue(mem dombridge.Memory, alloc dombridge.Allocator, retptr uint32, v refvalue.Value) error {
	data, err := v.MarshalBinary()
	if err != nil {
		return err
	}
	return StoreBytes(mem, alloc, retptr, data)
}

// StoreOptionString writes option<string> at retptr: discriminant 0 for
// none, 1 followed by (ptr, len) at retptr+4 for some.
func StoreOptionString(mem dombridge.Memory, alloc dombridge.Allocator, retptr uint32, s string, ok bool) error {
	if !ok {
		return mem.WriteU8(retptr, 0)
	}
	if err := mem.WriteU8(retptr, 1); err != nil {
		return err
	}
	return StoreString(mem, alloc, retptr+4, s)
}
