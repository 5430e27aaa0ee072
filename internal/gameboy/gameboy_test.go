package gameboy

import (
	"bytes"
	"testing"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/cartridge"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/gbconfig"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/lcd"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/serial"
)

func noMBCImage() []byte {
	rom := make([]byte, cartridge.Size)
	rom[cartridge.TypeAddr] = 0x00
	return rom
}

func TestLoadROMBootsDirectlyWithoutBootImage(t *testing.T) {
	g := New(gbconfig.Config{})
	if err := g.LoadROM(noMBCImage()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if !g.Booted() {
		t.Fatalf("Booted() = false, want true when no boot ROM was supplied")
	}
	if g.CPU.PC != 0x0100 {
		t.Fatalf("PC = %#04x, want 0x0100", g.CPU.PC)
	}
}

func TestSetBootROMDefersBoot(t *testing.T) {
	g := New(gbconfig.Config{})
	boot := make([]byte, 256)
	boot[0] = 0x00 // NOP
	if err := g.SetBootROM(boot); err != nil {
		t.Fatalf("SetBootROM: %v", err)
	}
	if err := g.LoadROM(noMBCImage()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if g.Booted() {
		t.Fatalf("Booted() = true immediately after loading with a boot ROM present")
	}
	if g.CPU.PC != 0x0000 {
		t.Fatalf("PC = %#04x, want 0x0000 under the boot ROM", g.CPU.PC)
	}
}

func TestBootHandoffDuringRun(t *testing.T) {
	g := New(gbconfig.Config{})
	boot := make([]byte, 256)
	// LD A,0x01 ; LDH (0x50),A  -- writes any value to FF50 to disable boot.
	boot[0], boot[1] = 0x3E, 0x01
	boot[2], boot[3] = 0xE0, 0x50
	if err := g.SetBootROM(boot); err != nil {
		t.Fatalf("SetBootROM: %v", err)
	}
	rom := noMBCImage()
	rom[0x0100] = 0x00 // NOP, so post-handoff fetch doesn't explode
	if err := g.LoadROM(rom); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}

	for i := 0; i < 200 && !g.Booted(); i++ {
		if err := g.Step(); err != nil {
			t.Fatalf("Step: %v", err)
		}
	}
	if !g.Booted() {
		t.Fatalf("boot handoff never completed")
	}
	if got := g.Bus.Read(0x0000); got != rom[0] {
		t.Fatalf("0x0000 reads %#02x after handoff, want cartridge byte %#02x", got, rom[0])
	}
}

func TestSerialWriteIsDispatchedToSink(t *testing.T) {
	g := New(gbconfig.Config{})
	if err := g.LoadROM(noMBCImage()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	var sink bytes.Buffer
	g.SetSerialWriter(&sink)

	g.Bus.Write(serial.AddrSB, 'Q')
	g.Bus.Write(serial.AddrSC, 0x81)
	g.CPU.WriteListener = serial.AddrSC
	g.dispatchWrite(serial.AddrSC)

	if got := sink.String(); got != "Q" {
		t.Fatalf("sink got %q, want %q", got, "Q")
	}
}

func TestRunUntilAdvancesCycleCount(t *testing.T) {
	g := New(gbconfig.Config{})
	if err := g.LoadROM(noMBCImage()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if err := g.RunUntil(10); err != nil {
		t.Fatalf("RunUntil: %v", err)
	}
	if g.Cycles() != 10 {
		t.Fatalf("Cycles() = %d, want 10", g.Cycles())
	}
}

func TestStepFrameNoRenderAdvancesOneFrameOfDots(t *testing.T) {
	g := New(gbconfig.Config{})
	if err := g.LoadROM(noMBCImage()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	if err := g.StepFrameNoRender(); err != nil {
		t.Fatalf("StepFrameNoRender: %v", err)
	}
	if want := uint64(154 * 456); g.Cycles() != want {
		t.Fatalf("Cycles() = %d, want %d", g.Cycles(), want)
	}
	if pending := g.Bus.Read(0xFF0F); pending&(1<<0) == 0 {
		t.Fatalf("VBlank interrupt not latched after one frame")
	}
}

func TestEchoRAMMirrorsWorkRAM(t *testing.T) {
	g := New(gbconfig.Config{})
	if err := g.LoadROM(noMBCImage()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	g.Bus.Write(0xC010, 0x42)
	if got := g.Bus.Read(0xE010); got != 0x42 {
		t.Fatalf("echo RAM read %#02x, want 0x42", got)
	}
}

func TestLCDRegistersAreReachableThroughTheBus(t *testing.T) {
	g := New(gbconfig.Config{})
	if err := g.LoadROM(noMBCImage()); err != nil {
		t.Fatalf("LoadROM: %v", err)
	}
	g.Bus.Write(lcd.AddrBGP, 0x1B)
	if got := g.Bus.Read(lcd.AddrBGP); got != 0x1B {
		t.Fatalf("BGP read %#02x, want 0x1B", got)
	}
}
