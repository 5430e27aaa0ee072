// Package timer implements the DIV/TIMA/TMA/TAC timer peripheral: a
// 16-bit internal counter driving DIV's top byte, with TIMA incremented
// on a falling edge of a TAC-selected counter bit and TMA-reload +
// TIMER-interrupt on overflow.
//
// Grounded on the original implementation's timer.c (timer_state as
// "bit2(TAC) AND selected_bit", the falling-edge increment rule, and the
// DIV/TAC bus write listeners that reset/re-evaluate state), adapted from
// a CPU-pointer-owning C struct into a Go type that takes the CPU as an
// explicit interrupt-request collaborator.
package timer

import (
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/bitutil"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/cpu"
)

// Bus addresses for the timer's memory-mapped registers.
const (
	AddrDIV  uint16 = 0xFF04
	AddrTIMA uint16 = 0xFF05
	AddrTMA  uint16 = 0xFF06
	AddrTAC  uint16 = 0xFF07
)

// selectedBit maps TAC's low two clock-select bits to the internal
// counter bit that drives TIMA. The authoritative mask is 0x03 (not
// 0x11, per the design note about ambiguous source behavior).
var selectedBit = [4]uint{9, 3, 5, 7}

// Timer owns the 16-bit internal counter and reads/writes its own
// registers through the CPU's bus.
type Timer struct {
	counter uint16
	prevTAC byte
	cpu     *cpu.CPU
}

// New returns a Timer bound to c. The registers it manipulates (DIV,
// TIMA, TMA, TAC) live in bus-backed memory the Gameboy driver plugs as
// four 1-byte components, not in Timer itself. The bus must already have
// those registers mapped.
func New(c *cpu.CPU) *Timer {
	t := &Timer{cpu: c}
	t.prevTAC = t.bus().Read(AddrTAC)
	return t
}

func (t *Timer) bus() *bus.Bus { return t.cpu.Bus }

func stateFor(tac byte, counter uint16) bool {
	if bitutil.Get(tac, 2) == 0 {
		return false
	}
	bit := selectedBit[tac&0x03]
	return (counter>>bit)&1 == 1
}

func (t *Timer) state() bool {
	return stateFor(t.bus().Read(AddrTAC), t.counter)
}

func (t *Timer) incrementTIMA() {
	tima := t.bus().Read(AddrTIMA)
	if tima == 0xFF {
		t.bus().Write(AddrTIMA, t.bus().Read(AddrTMA))
		t.cpu.RequestInterrupt(cpu.InterruptTimer)
		return
	}
	t.bus().Write(AddrTIMA, tima+1)
}

// Cycle advances the internal counter by 4 (one CPU cycle) and applies
// the falling-edge rule against the TAC-selected bit.
func (t *Timer) Cycle() {
	old := t.state()
	t.counter += 4
	t.bus().Write(AddrDIV, byte(t.counter>>8))
	if old && !t.state() {
		t.incrementTIMA()
	}
}

// OnWrite is the bus write-listener: a write to DIV resets the internal
// counter to zero and re-runs the falling-edge rule against the state
// just before the reset; a write to TAC re-evaluates state against the
// TAC value in effect just before this write and re-runs the falling-edge
// rule. Writes to TIMA and TMA are ordinary bus writes needing no
// listener action.
func (t *Timer) OnWrite(addr uint16) {
	switch addr {
	case AddrDIV:
		old := t.state()
		t.counter = 0
		t.bus().Write(AddrDIV, 0)
		if old && !t.state() {
			t.incrementTIMA()
		}
	case AddrTAC:
		old := stateFor(t.prevTAC, t.counter)
		t.prevTAC = t.bus().Read(AddrTAC)
		if old && !t.state() {
			t.incrementTIMA()
		}
	}
}
