package cpu

import (
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/alu"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/bitutil"
)

// 8-bit register index encoding shared by the direct and CB-prefixed
// tables: B,C,D,E,H,L,(HL),A.
const (
	regB = iota
	regC
	regD
	regE
	regH
	regL
	regHLInd
	regA
)

// 16-bit register-pair index encoding for the rp group (LD rp,d16 /
// INC rp / DEC rp / ADD HL,rp) and the rp2 group (PUSH/POP).
const (
	rpBC = iota
	rpDE
	rpHL
	rpSP // rp group only
	rpAF = rpSP // rp2 group only, same slot as rpSP
)

func (c *CPU) readR8(idx byte) byte {
	switch idx {
	case regB:
		return c.B
	case regC:
		return c.C
	case regD:
		return c.D
	case regE:
		return c.E
	case regH:
		return c.H
	case regL:
		return c.L
	case regHLInd:
		return c.Bus.Read(c.HL())
	default:
		return c.A
	}
}

func (c *CPU) writeR8(idx byte, v byte) error {
	switch idx {
	case regB:
		c.B = v
	case regC:
		c.C = v
	case regD:
		c.D = v
	case regE:
		c.E = v
	case regH:
		c.H = v
	case regL:
		c.L = v
	case regHLInd:
		return c.busWrite(c.HL(), v)
	default:
		c.A = v
	}
	return nil
}

func (c *CPU) BC() uint16 { return bitutil.MergeBytes(c.C, c.B) }
func (c *CPU) DE() uint16 { return bitutil.MergeBytes(c.E, c.D) }
func (c *CPU) HL() uint16 { return bitutil.MergeBytes(c.L, c.H) }
func (c *CPU) AF() uint16 { return bitutil.MergeBytes(c.F, c.A) }

func (c *CPU) setBC(v uint16) { c.B, c.C = bitutil.HighByte(v), bitutil.LowByte(v) }
func (c *CPU) setDE(v uint16) { c.D, c.E = bitutil.HighByte(v), bitutil.LowByte(v) }
func (c *CPU) setHL(v uint16) { c.H, c.L = bitutil.HighByte(v), bitutil.LowByte(v) }

// setAF forces the low nibble of F to zero, per the invariant that F's
// low four bits always read as zero.
func (c *CPU) setAF(v uint16) {
	c.A = bitutil.HighByte(v)
	c.F = bitutil.LowByte(v) & 0xF0
}

func (c *CPU) readRP(idx byte) uint16 {
	switch idx {
	case rpBC:
		return c.BC()
	case rpDE:
		return c.DE()
	case rpHL:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *CPU) writeRP(idx byte, v uint16) {
	switch idx {
	case rpBC:
		c.setBC(v)
	case rpDE:
		c.setDE(v)
	case rpHL:
		c.setHL(v)
	default:
		c.SP = v
	}
}

func (c *CPU) readRP2(idx byte) uint16 {
	switch idx {
	case rpBC:
		return c.BC()
	case rpDE:
		return c.DE()
	case rpHL:
		return c.HL()
	default:
		return c.AF()
	}
}

func (c *CPU) writeRP2(idx byte, v uint16) {
	switch idx {
	case rpBC:
		c.setBC(v)
	case rpDE:
		c.setDE(v)
	case rpHL:
		c.setHL(v)
	default:
		c.setAF(v)
	}
}

func (c *CPU) flagZ() bool { return bitutil.Get(c.F, 7) == 1 }
func (c *CPU) flagN() bool { return bitutil.Get(c.F, 6) == 1 }
func (c *CPU) flagH() bool { return bitutil.Get(c.F, 5) == 1 }
func (c *CPU) flagC() bool { return bitutil.Get(c.F, 4) == 1 }

// FlagSrc names where a flag combiner picks one flag bit's new value from.
type FlagSrc uint8

const (
	FClear FlagSrc = iota
	FSet
	FAlu
	FCpu
)

// FlagSpec names, per flag bit, which FlagSrc an instruction uses. No
// instruction handler computes F directly; every one goes through
// combine so the flag semantics table stays in one place.
type FlagSpec struct {
	Z, N, H, C FlagSrc
}

func pick(src FlagSrc, aluVal, cpuVal bool) bool {
	switch src {
	case FSet:
		return true
	case FAlu:
		return aluVal
	case FCpu:
		return cpuVal
	default:
		return false
	}
}

// combine writes F from spec, resolving each bit against a, falling back
// to the current flag value for FCpu sources. Bits 3..0 are always zero.
func (c *CPU) combine(spec FlagSpec, a alu.Flags) {
	var f byte
	if pick(spec.Z, a.Z, c.flagZ()) {
		f |= 0x80
	}
	if pick(spec.N, a.N, c.flagN()) {
		f |= 0x40
	}
	if pick(spec.H, a.H, c.flagH()) {
		f |= 0x20
	}
	if pick(spec.C, a.C, c.flagC()) {
		f |= 0x10
	}
	c.F = f
}
