// Package memory implements the "Memory block" data type: a fixed-size,
// zero-initialized byte array owned by exactly one component.
//
// Grounded on the original implementation's memory.c/memory.h (a size_t
// size paired with a malloc'd, calloc-style zeroed buffer); here the
// buffer is a Go slice and zeroing is implicit from make().
package memory

import "github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/gberr"

// Memory is a fixed-size, owned byte array.
type Memory struct {
	bytes []byte
}

// New allocates a zeroed Memory block of the given size.
func New(size int) (*Memory, error) {
	if size <= 0 {
		return nil, gberr.New(gberr.Mem, "memory size must be positive, got %d", size)
	}
	return &Memory{bytes: make([]byte, size)}, nil
}

// Size returns the number of bytes owned by this block.
func (m *Memory) Size() int {
	if m == nil {
		return 0
	}
	return len(m.bytes)
}

// Read returns the byte at offset, or an error if offset is out of range.
func (m *Memory) Read(offset int) (byte, error) {
	if m == nil {
		return 0, gberr.New(gberr.BadParameter, "read on nil memory")
	}
	if offset < 0 || offset >= len(m.bytes) {
		return 0, gberr.New(gberr.Address, "offset %d out of range [0,%d)", offset, len(m.bytes))
	}
	return m.bytes[offset], nil
}

// Write stores v at offset, or returns an error if offset is out of range.
func (m *Memory) Write(offset int, v byte) error {
	if m == nil {
		return gberr.New(gberr.BadParameter, "write on nil memory")
	}
	if offset < 0 || offset >= len(m.bytes) {
		return gberr.New(gberr.Address, "offset %d out of range [0,%d)", offset, len(m.bytes))
	}
	m.bytes[offset] = v
	return nil
}

// Bytes exposes the underlying slice for bulk operations (cartridge load,
// boot ROM embedding). Callers must not resize it.
func (m *Memory) Bytes() []byte {
	if m == nil {
		return nil
	}
	return m.bytes
}

// LoadFrom copies src into the memory block starting at offset 0. If src
// is longer than the block, the part that fits is copied and a Mem error
// is returned.
func (m *Memory) LoadFrom(src []byte) error {
	if m == nil {
		return gberr.New(gberr.BadParameter, "load on nil memory")
	}
	n := copy(m.bytes, src)
	if n < len(src) {
		return gberr.New(gberr.Mem, "source %d bytes exceeds memory size %d", len(src), len(m.bytes))
	}
	return nil
}
