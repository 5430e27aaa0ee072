package cpu

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/component"
)

// newTestCPU wires a CPU onto a bus with RAM covering 0x0000-0xFF0E,
// leaving IF (0xFF0F) and 0xFF80-0xFFFF free for CPU.Plug's own IF, high
// RAM and IE windows.
func newTestCPU(t *testing.T, program []byte) *CPU {
	t.Helper()
	b := bus.New()
	ram, err := component.New(0xFF80)
	if err != nil {
		t.Fatalf("component.New: %v", err)
	}
	if err := b.Plug(ram, 0x0000, 0xFF0E); err != nil {
		t.Fatalf("Plug RAM: %v", err)
	}
	if err := ram.Mem.LoadFrom(program); err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	c := New(b)
	if err := c.Plug(); err != nil {
		t.Fatalf("CPU.Plug: %v", err)
	}
	return c
}

// runOne dispatches exactly one instruction, draining its idle cycles.
func runOne(t *testing.T, c *CPU) {
	t.Helper()
	if err := c.Cycle(); err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	for c.IdleTime > 0 {
		if err := c.Cycle(); err != nil {
			t.Fatalf("Cycle: %v", err)
		}
	}
}

func TestNOPAdvancesPCAndIsIdleAfter(t *testing.T) {
	c := newTestCPU(t, []byte{0x00})
	runOne(t, c)
	if c.PC != 1 {
		t.Fatalf("PC after NOP got %04X want 0001", c.PC)
	}
	if c.IdleTime != 0 {
		t.Fatalf("IdleTime after NOP got %d want 0", c.IdleTime)
	}
}

func TestXorASetsZeroFlagAndClearsLowNibble(t *testing.T) {
	c := newTestCPU(t, []byte{0xAF}) // XOR A
	c.A = 0x12
	runOne(t, c)
	if c.A != 0x00 {
		t.Fatalf("A after XOR A got %02X want 00", c.A)
	}
	if c.F&0x80 == 0 {
		t.Fatalf("Z flag not set after XOR A, F=%02X", c.F)
	}
	if c.F&0x0F != 0 {
		t.Fatalf("F low nibble not zero, F=%02X", c.F)
	}
}

// TestPushPopRoundTrip covers scenario S6: PUSH BC then POP DE round-trips
// through the stack and leaves SP where it started.
func TestPushPopRoundTrip(t *testing.T) {
	c := newTestCPU(t, []byte{0xC5, 0xD1}) // PUSH BC; POP DE
	c.setBC(0x1234)
	c.SP = 0xFFFE

	runOne(t, c) // PUSH BC
	if c.SP != 0xFFFC {
		t.Fatalf("SP after PUSH got %04X want FFFC", c.SP)
	}
	if lo, hi := c.Bus.Read(0xFFFC), c.Bus.Read(0xFFFD); lo != 0x34 || hi != 0x12 {
		t.Fatalf("stack bytes got %02X,%02X want 34,12", lo, hi)
	}

	runOne(t, c) // POP DE
	if c.DE() != 0x1234 {
		t.Fatalf("DE after POP got %04X want 1234", c.DE())
	}
	if c.SP != 0xFFFE {
		t.Fatalf("SP after POP got %04X want FFFE", c.SP)
	}
}

// TestInterruptDispatch covers scenario S3.
func TestInterruptDispatch(t *testing.T) {
	c := newTestCPU(t, []byte{0x00}) // NOP, never reached this cycle
	c.PC = 0x0000
	c.SP = 0xFFFE
	c.IME = true
	c.Bus.Write(AddrIE, 0x01)
	c.RequestInterrupt(InterruptVBlank)

	if err := c.Cycle(); err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if c.IME {
		t.Fatalf("IME should be cleared after interrupt dispatch")
	}
	if c.Bus.Read(AddrIF)&0x01 != 0 {
		t.Fatalf("IF bit 0 should be cleared after dispatch")
	}
	if c.SP != 0xFFFC {
		t.Fatalf("SP after dispatch got %04X want FFFC", c.SP)
	}
	if c.Bus.Read16(c.SP) != 0x0000 {
		t.Fatalf("pushed PC got %04X want 0000", c.Bus.Read16(c.SP))
	}
	if c.PC != 0x0040 {
		t.Fatalf("PC after dispatch got %04X want 0040", c.PC)
	}
	if c.IdleTime != 5 {
		t.Fatalf("IdleTime after dispatch got %d want 5", c.IdleTime)
	}
}

// TestHaltWakeupSuppressedByIME0 covers scenario S4: HALT wakes up on a
// pending interrupt even with IME=0, but must not jump to the vector.
func TestHaltWakeupSuppressedByIME0(t *testing.T) {
	c := newTestCPU(t, []byte{0x76, 0x00}) // HALT; NOP
	c.IME = false
	c.Bus.Write(AddrIE, 0x04) // TIMER

	runOne(t, c)
	if !c.Halted {
		t.Fatalf("CPU should be halted after HALT")
	}
	if c.PC != 1 {
		t.Fatalf("PC after HALT got %04X want 0001", c.PC)
	}

	c.RequestInterrupt(InterruptTimer)
	if err := c.Cycle(); err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if c.Halted {
		t.Fatalf("CPU should wake from HALT once TIMER is pending")
	}
	if c.PC == 0x0050 {
		t.Fatalf("PC must not jump to the TIMER vector while IME=0")
	}
	if c.PC != 2 {
		t.Fatalf("PC after wake-up fetch got %04X want 0002", c.PC)
	}
}

func TestIncDecPreservesCarryFlag(t *testing.T) {
	c := newTestCPU(t, []byte{0x3C}) // INC A
	c.A = 0x0F
	c.F = 0x10 // C set beforehand
	runOne(t, c)
	if c.A != 0x10 {
		t.Fatalf("A after INC got %02X want 10", c.A)
	}
	if c.F&0x10 == 0 {
		t.Fatalf("INC must preserve C, F=%02X", c.F)
	}
	if c.F&0x20 == 0 {
		t.Fatalf("INC 0x0F should set H, F=%02X", c.F)
	}
}

func TestConditionalJumpNotTakenAddsNoXtraCycles(t *testing.T) {
	c := newTestCPU(t, []byte{0x20, 0x05}) // JR NZ,+5
	c.F = 0x80                             // Z set, so NZ is not taken
	if err := c.Cycle(); err != nil {
		t.Fatalf("Cycle: %v", err)
	}
	if c.IdleTime != 1 { // base 2 cycles minus the dispatch cycle, no xtra
		t.Fatalf("IdleTime after not-taken JR got %d want 1", c.IdleTime)
	}
	if c.PC != 2 {
		t.Fatalf("PC after not-taken JR got %04X want 0002", c.PC)
	}
}

func TestConditionalJumpTaken(t *testing.T) {
	c := newTestCPU(t, []byte{0x20, 0x05}) // JR NZ,+5
	c.F = 0x00                             // Z clear, so NZ is taken
	runOne(t, c)
	if c.PC != 7 {
		t.Fatalf("PC after taken JR got %04X want 0007", c.PC)
	}
}
