// Package serial implements the SB/SC link-cable registers (0xFF01,
// 0xFF02) with immediate-completion transfer semantics: a write to SC
// with the start bit set hands SB to a sink, clears the start bit, and
// requests the SERIAL interrupt on the same write. Real bit-clock timing
// is an explicit non-goal; this is an external collaborator wired in for
// trace/testing fidelity of the byte values exchanged, per the teacher's
// own blargg_test.go expectations around a serial writer.
//
// Grounded on the teacher's internal/bus.go case for 0xFF02 and the
// SetSerialWriter surface its cmd/main.go and blargg_test.go already
// assume (an io.Writer sink for test-ROM output).
package serial

import (
	"io"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/component"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/cpu"
)

const (
	AddrSB uint16 = 0xFF01
	AddrSC uint16 = 0xFF02

	startBit = 7
)

// Serial owns the SB/SC components and an optional sink for transferred
// bytes.
type Serial struct {
	sb, sc *component.Component
	cpu    *cpu.CPU
	sink   io.Writer
}

// New allocates (but does not plug) a Serial bound to c for interrupt
// requests.
func New(c *cpu.CPU) (*Serial, error) {
	sb, err := component.New(1)
	if err != nil {
		return nil, err
	}
	sc, err := component.New(1)
	if err != nil {
		return nil, err
	}
	return &Serial{sb: sb, sc: sc, cpu: c}, nil
}

// Plug maps SB and SC at their fixed addresses.
func (s *Serial) Plug(b *bus.Bus) error {
	if err := b.Plug(s.sb, AddrSB, AddrSB); err != nil {
		return err
	}
	return b.Plug(s.sc, AddrSC, AddrSC)
}

// Release drops this Serial's owned memory.
func (s *Serial) Release() {
	s.sb.Release()
	s.sc.Release()
}

// SetSink directs transferred bytes to w; nil discards them.
func (s *Serial) SetSink(w io.Writer) { s.sink = w }

// OnWrite completes a transfer immediately when the guest sets SC's start
// bit: the current SB value goes to the sink, the start bit clears, and
// SERIAL is requested.
func (s *Serial) OnWrite(b *bus.Bus, addr uint16) {
	if addr != AddrSC {
		return
	}
	sc := b.Read(AddrSC)
	if sc>>startBit&1 == 0 {
		return
	}
	if s.sink != nil {
		s.sink.Write([]byte{b.Read(AddrSB)})
	}
	b.Write(AddrSC, sc&^(1<<startBit))
	s.cpu.RequestInterrupt(cpu.InterruptSerial)
}
