package serial

import (
	"bytes"
	"testing"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/cpu"
)

func newTestSerial(t *testing.T) (*Serial, *bus.Bus, *cpu.CPU) {
	t.Helper()
	b := bus.New()
	c := cpu.New(b)
	if err := c.Plug(); err != nil {
		t.Fatalf("cpu.Plug: %v", err)
	}
	s, err := New(c)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := s.Plug(b); err != nil {
		t.Fatalf("Plug: %v", err)
	}
	return s, b, c
}

func TestTransferCompletesImmediatelyAndClearsStartBit(t *testing.T) {
	s, b, _ := newTestSerial(t)
	var sink bytes.Buffer
	s.SetSink(&sink)

	b.Write(AddrSB, 'A')
	b.Write(AddrSC, 1<<startBit)
	s.OnWrite(b, AddrSC)

	if got := sink.String(); got != "A" {
		t.Fatalf("sink got %q, want %q", got, "A")
	}
	if sc := b.Read(AddrSC); sc&(1<<startBit) != 0 {
		t.Fatalf("SC start bit still set after transfer: %#02x", sc)
	}
}

func TestTransferRequestsSerialInterrupt(t *testing.T) {
	s, b, _ := newTestSerial(t)
	b.Write(AddrSB, 0x42)
	b.Write(AddrSC, 1<<startBit)
	s.OnWrite(b, AddrSC)

	if pending := b.Read(cpu.AddrIF); pending&(1<<cpu.InterruptSerial) == 0 {
		t.Fatalf("SERIAL interrupt was not requested after transfer")
	}
}

func TestOnWriteIgnoresSBAndUnsetStartBit(t *testing.T) {
	s, b, _ := newTestSerial(t)
	var sink bytes.Buffer
	s.SetSink(&sink)

	b.Write(AddrSB, 'X')
	s.OnWrite(b, AddrSB) // not SC, must be ignored
	if sink.Len() != 0 {
		t.Fatalf("transfer triggered by a write to SB")
	}

	b.Write(AddrSC, 0x00) // start bit clear
	s.OnWrite(b, AddrSC)
	if sink.Len() != 0 {
		t.Fatalf("transfer triggered without the start bit set")
	}
}

func TestNilSinkDiscardsTransferWithoutPanic(t *testing.T) {
	s, b, _ := newTestSerial(t)
	b.Write(AddrSB, 'Z')
	b.Write(AddrSC, 1<<startBit)
	s.OnWrite(b, AddrSC) // no SetSink call: sink is nil
	if sc := b.Read(AddrSC); sc&(1<<startBit) != 0 {
		t.Fatalf("SC start bit still set after transfer with nil sink")
	}
}
