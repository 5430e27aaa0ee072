// Package alu implements the pure arithmetic/logic primitives of the
// Sharp LR35902: each primitive takes operands (and an optional carry-in)
// and returns a 16-bit value paired with the Z/N/H/C flags it produces.
// None of these touch CPU or bus state — the CPU core combines their
// results into registers and the F register via its flag combiner.
//
// Grounded on the teacher's internal/cpu.add8/sub8/adc8/sbc8/and8/xor8/or8
// (inline helpers returning (byte, z, n, h, c)); generalized here into a
// standalone, registerless package so the CPU's flag combiner (§4.3) can
// select ALU-sourced flags uniformly across every instruction family.
package alu

import "github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/bitutil"

// Flags holds the four DMG condition flags.
type Flags struct {
	Z, N, H, C bool
}

// Result is the 16-bit value an ALU primitive produced plus the flags it
// implies. 8-bit primitives only ever populate the low byte.
type Result struct {
	Value uint16
	Flags Flags
}

func carryIn(c bool) uint16 {
	if c {
		return 1
	}
	return 0
}

// Add8 computes a+b+c0 and reports Z, N=0, half-carry out of bit 3, and
// carry out of bit 7.
func Add8(a, b byte, c0 bool) Result {
	ci := carryIn(c0)
	r := uint16(a) + uint16(b) + ci
	res := byte(r)
	return Result{
		Value: uint16(res),
		Flags: Flags{
			Z: res == 0,
			N: false,
			H: (uint16(bitutil.LowNibble(a)) + uint16(bitutil.LowNibble(b)) + ci) > 0x0F,
			C: r > 0xFF,
		},
	}
}

// Sub8 computes a-b-c0 with borrows and reports Z, N=1, half-borrow, and
// borrow out.
func Sub8(a, b byte, c0 bool) Result {
	ci := carryIn(c0)
	r := int16(a) - int16(b) - int16(ci)
	res := byte(r)
	return Result{
		Value: uint16(res),
		Flags: Flags{
			Z: res == 0,
			N: true,
			H: int16(bitutil.LowNibble(a)) < int16(bitutil.LowNibble(b))+int16(ci),
			C: int16(a) < int16(b)+int16(ci),
		},
	}
}

// Add16High computes a 16-bit sum (used by ADD HL,rr / ADD HL,SP); H and C
// reflect carry out of bit 11 and bit 15, and Z is always forced to 0 so
// the CPU's flag combiner can select CPU (preserve current Z) for this
// instruction family.
func Add16High(a, b uint16) Result {
	r := uint32(a) + uint32(b)
	return Result{
		Value: uint16(r),
		Flags: Flags{
			Z: false,
			N: false,
			H: ((a & 0x0FFF) + (b & 0x0FFF)) > 0x0FFF,
			C: r > 0xFFFF,
		},
	}
}

// And8 computes a&b; N=0, H=1 (a DMG quirk every family must preserve), C=0.
func And8(a, b byte) Result {
	res := a & b
	return Result{Value: uint16(res), Flags: Flags{Z: res == 0, N: false, H: true, C: false}}
}

// Or8 computes a|b; N=H=C=0.
func Or8(a, b byte) Result {
	res := a | b
	return Result{Value: uint16(res), Flags: Flags{Z: res == 0, N: false, H: false, C: false}}
}

// Xor8 computes a^b; N=H=C=0.
func Xor8(a, b byte) Result {
	res := a ^ b
	return Result{Value: uint16(res), Flags: Flags{Z: res == 0, N: false, H: false, C: false}}
}

// ShiftLeft shifts v left by one, shifting in 0; C is the bit shifted out.
func ShiftLeft(v byte) Result {
	out := (v >> 7) & 1
	res := v << 1
	return Result{Value: uint16(res), Flags: Flags{Z: res == 0, N: false, H: false, C: out == 1}}
}

// ShiftRightArith shifts v right by one, preserving bit 7 (sign-extending);
// C is the bit shifted out.
func ShiftRightArith(v byte) Result {
	out := v & 1
	res := (v >> 1) | (v & 0x80)
	return Result{Value: uint16(res), Flags: Flags{Z: res == 0, N: false, H: false, C: out == 1}}
}

// ShiftRightLogical shifts v right by one, shifting in 0; C is the bit
// shifted out.
func ShiftRightLogical(v byte) Result {
	out := v & 1
	res := v >> 1
	return Result{Value: uint16(res), Flags: Flags{Z: res == 0, N: false, H: false, C: out == 1}}
}

// Swap exchanges the high and low nibble of v; C is always 0.
func Swap(v byte) Result {
	res := bitutil.MergeNibbles(bitutil.HighNibble(v), bitutil.LowNibble(v))
	return Result{Value: uint16(res), Flags: Flags{Z: res == 0, N: false, H: false, C: false}}
}

// Rotate rotates v by one bit in the given direction; C is the bit that
// rotated out (RLCA/RRCA/RLC/RRC family).
func Rotate(dir bitutil.Direction, v byte) Result {
	res, out := bitutil.Rotate(v, dir)
	return Result{Value: uint16(res), Flags: Flags{Z: res == 0, N: false, H: false, C: out == 1}}
}

// CarryRotate rotates v by one bit through the CPU's current carry flag
// (RLA/RRA/RL/RR family); C is the bit that rotated out.
func CarryRotate(dir bitutil.Direction, v byte, cpuC bool) Result {
	res, out := bitutil.RotateThroughCarry(v, dir, cpuC)
	return Result{Value: uint16(res), Flags: Flags{Z: res == 0, N: false, H: false, C: out == 1}}
}

// TestBit reports whether bit y of v is zero (Z), which is what BIT y,r
// needs; H is always 1 and N always 0 for this family, C is unaffected
// (left to the CPU's flag combiner to preserve from the current F).
func TestBit(v byte, y uint) Result {
	bit := bitutil.Get(v, y)
	return Result{Value: uint16(v), Flags: Flags{Z: bit == 0, N: false, H: true}}
}

// SetBit returns v with bit y forced to 1. Flags are untouched by SET.
func SetBit(v byte, y uint) byte { return bitutil.Set(v, y) }

// ResetBit returns v with bit y forced to 0. Flags are untouched by RES.
func ResetBit(v byte, y uint) byte { return bitutil.Clear(v, y) }
