// Package component implements the "Component" data type (§4.1/§4.3 of the
// core spec): a Memory block paired with the bus window it currently
// occupies, with support for two components sharing one Memory block
// (echo RAM) without double ownership of its lifetime.
//
// Grounded on the original implementation's component.c/component.h
// (component_create/component_shared/component_free wrapping a memory_t*)
// and the teacher's struct-with-constructor style throughout internal/cart
// and internal/ppu.
package component

import (
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/gberr"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/memory"
)

// Component owns or shares one Memory block and records the address
// window it is currently mapped to on a bus.
type Component struct {
	Mem   *memory.Memory
	Start uint16
	End   uint16

	owns bool // true if this Component is responsible for freeing Mem
}

// New allocates a fresh, owned Memory block of the given size.
func New(size int) (*Component, error) {
	m, err := memory.New(size)
	if err != nil {
		return nil, err
	}
	return &Component{Mem: m, owns: true}, nil
}

// Shared creates a Component that aliases another component's Memory
// block without taking ownership of its lifetime. Used for echo RAM,
// where the work-RAM component remains the owner.
func Shared(owner *Component) (*Component, error) {
	if owner == nil || owner.Mem == nil {
		return nil, gberr.New(gberr.BadParameter, "shared component requires a non-nil owner")
	}
	return &Component{Mem: owner.Mem, owns: false}, nil
}

// Plugged reports whether this component currently occupies a non-empty
// bus window.
func (c *Component) Plugged() bool {
	if c == nil {
		return false
	}
	return !(c.Start == 0 && c.End == 0)
}

// Release drops this component's reference to its Memory block. If this
// component owns the block, the block becomes eligible for collection;
// shared (non-owning) components simply forget the alias.
func (c *Component) Release() {
	if c == nil {
		return
	}
	c.Mem = nil
	c.Start, c.End = 0, 0
}

// Owns reports whether this component is the owner of its Memory block's
// lifetime (false for components created via Shared).
func (c *Component) Owns() bool {
	return c != nil && c.owns
}
