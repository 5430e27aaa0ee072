// Package joypad implements the JOYP register (0xFF00): button state is
// supplied by the host, P14/P15 select which half of the matrix is
// visible on the low nibble, and a 1-to-0 transition on any selected line
// latches the JOYPAD interrupt.
//
// Grounded on the teacher's internal/bus.go Joyp*/updateJoypadIRQ
// constants and logic, lifted out of the address-range bus switch into a
// standalone component per this core's plug/listener model. This is an
// explicit external collaborator (§1 non-goals exclude emulating the
// physical matrix scan precisely); it only tracks enough state to drive
// JOYP reads and the interrupt correctly.
package joypad

import (
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/bitutil"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/component"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/cpu"
)

// Addr is JOYP's bus address.
const Addr uint16 = 0xFF00

// Button bit positions within the state mask passed to SetState.
const (
	Right = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// Joypad owns the JOYP component and the host-supplied button state.
type Joypad struct {
	comp  *component.Component
	state byte // bit=1 means pressed, matching the SetState mask
	cpu   *cpu.CPU
}

// New allocates (but does not plug) a Joypad bound to c for interrupt
// requests.
func New(c *cpu.CPU) (*Joypad, error) {
	comp, err := component.New(1)
	if err != nil {
		return nil, err
	}
	if err := comp.Mem.Write(0, 0xCF); err != nil {
		return nil, err
	}
	return &Joypad{comp: comp, cpu: c}, nil
}

// Plug maps JOYP at its fixed address.
func (j *Joypad) Plug(b *bus.Bus) error {
	return b.Plug(j.comp, Addr, Addr)
}

// Release drops this Joypad's owned memory.
func (j *Joypad) Release() { j.comp.Release() }

func (j *Joypad) selectLine(reg byte) byte {
	lo := byte(0x0F)
	if bitutil.Get(reg, 4) == 0 { // P14: direction keys selected
		lo &^= j.state & 0x0F
	}
	if bitutil.Get(reg, 5) == 0 { // P15: action keys selected
		lo &^= (j.state >> 4) & 0x0F
	}
	return lo
}

// SetState replaces the button mask (bit=1 means pressed) and updates
// JOYP's low nibble, requesting JOYPAD on any newly-asserted (1->0 on the
// bus, i.e. newly pressed) selected line.
func (j *Joypad) SetState(mask byte, b *bus.Bus) {
	reg := b.Read(Addr)
	before := j.selectLine(reg)
	j.state = mask
	after := j.selectLine(reg)
	b.Write(Addr, (reg&0xF0)|after)
	if before&^after != 0 {
		j.cpu.RequestInterrupt(cpu.InterruptJoypad)
	}
}

// OnWrite re-applies the current button state whenever the guest writes
// to JOYP (to change which half of the matrix, P14/P15, is selected).
func (j *Joypad) OnWrite(b *bus.Bus, addr uint16) {
	if addr != Addr {
		return
	}
	reg := b.Read(Addr)
	b.Write(Addr, (reg&0xF0)|j.selectLine(reg))
}
