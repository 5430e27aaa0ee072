package joypad

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/cpu"
)

func newTestJoypad(t *testing.T) (*Joypad, *bus.Bus, *cpu.CPU) {
	t.Helper()
	b := bus.New()
	c := cpu.New(b)
	if err := c.Plug(); err != nil {
		t.Fatalf("cpu.Plug: %v", err)
	}
	j, err := New(c)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := j.Plug(b); err != nil {
		t.Fatalf("Plug: %v", err)
	}
	return j, b, c
}

func TestSetStateSelectsDirectionNibble(t *testing.T) {
	j, b, _ := newTestJoypad(t)
	b.Write(Addr, 0xEF) // select P14 (direction keys), P15 deselected
	j.SetState(1<<Right, b)

	got := b.Read(Addr) & 0x0F
	if want := byte(0x0E); got != want { // Right pressed -> bit0 low
		t.Fatalf("JOYP low nibble = %#02x, want %#02x", got, want)
	}
}

func TestSetStateSelectsActionNibble(t *testing.T) {
	j, b, _ := newTestJoypad(t)
	b.Write(Addr, 0xDF) // select P15 (action keys), P14 deselected
	j.SetState(1<<A, b)

	got := b.Read(Addr) & 0x0F
	if want := byte(0x0E); got != want { // A pressed -> bit0 low
		t.Fatalf("JOYP low nibble = %#02x, want %#02x", got, want)
	}
}

func TestSetStateRequestsInterruptOnNewPress(t *testing.T) {
	j, b, _ := newTestJoypad(t)
	b.Write(Addr, 0xEF)

	j.SetState(0, b)
	if pending := b.Read(cpu.AddrIF); pending&(1<<cpu.InterruptJoypad) != 0 {
		t.Fatalf("IF shows JOYPAD pending before any press")
	}

	j.SetState(1<<Down, b)
	if pending := b.Read(cpu.AddrIF); pending&(1<<cpu.InterruptJoypad) == 0 {
		t.Fatalf("JOYPAD interrupt was not requested on a new press")
	}
}

func TestSetStateNoInterruptWhenLineNotSelected(t *testing.T) {
	j, b, _ := newTestJoypad(t)
	b.Write(Addr, 0xFF) // neither line selected

	j.SetState(1<<Start, b)
	if pending := b.Read(cpu.AddrIF); pending&(1<<cpu.InterruptJoypad) != 0 {
		t.Fatalf("JOYPAD interrupt requested while no line was selected")
	}
}

func TestOnWriteReappliesSelection(t *testing.T) {
	j, b, _ := newTestJoypad(t)
	b.Write(Addr, 0xEF)
	j.SetState(1<<Up, b)

	// Guest flips to selecting action keys; OnWrite must recompute the
	// low nibble for the new selection rather than leaving stale bits.
	b.Write(Addr, 0xDF)
	j.OnWrite(b, Addr)

	got := b.Read(Addr) & 0x0F
	if want := byte(0x0F); got != want { // no action key pressed
		t.Fatalf("JOYP low nibble after reselect = %#02x, want %#02x", got, want)
	}
}
