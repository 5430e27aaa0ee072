// Package opcode holds the two 256-entry instruction descriptor tables
// (direct and CB-prefixed) as pure data: each entry names the opcode's
// family, byte length, base machine-cycle count, and the extra cycles
// paid when a conditional branch is taken. internal/cpu looks an entry up
// and switches on its Family to reach one of three sub-handlers; it never
// hand-computes length or cycles from the opcode byte itself.
//
// Grounded on the teacher's internal/cpu.CPU.Step, whose giant switch on
// the opcode byte implicitly encodes exactly this (byte length via how
// many times fetch8 is called, cycle count via the literal `return N`),
// and on thelolagemann-gomeboy's internal/cpu.InstructionSet, which shows
// the idiomatic Go shape for a 256-entry instruction table as constant
// data rather than closures over cpu state.
package opcode

// Family names the sub-handler internal/cpu dispatches an opcode to.
type Family uint8

const (
	// Illegal marks one of the eleven byte values the DMG never defines.
	Illegal Family = iota
	// Storage covers every LD/LDH/PUSH/POP variant.
	Storage
	// ALU covers 8/16-bit arithmetic, logic, rotates/shifts, and the
	// CB-prefixed bit operations.
	ALU
	// Control covers jumps, calls, returns, RST, interrupt enable/disable,
	// HALT, STOP and NOP.
	Control
)

// Entry is one row of an instruction table: pure data, no behavior.
type Entry struct {
	Family Family
	Bytes  uint8 // instruction length in bytes, including any prefix byte
	Cycles uint8 // base machine cycles (paid unconditionally)
	Xtra   uint8 // additional machine cycles paid only when a branch is taken
}

// Direct is the 256-entry table for un-prefixed opcodes.
var Direct [256]Entry

// Prefixed is the 256-entry table for the byte following a 0xCB prefix.
// Bytes/Cycles are totals that already include the 0xCB prefix byte and
// its cycle; internal/cpu adds nothing further for the prefix.
var Prefixed [256]Entry

func reg8(op byte) byte { return op & 0x07 }

func init() {
	buildDirectMisc()
	buildDirectLoad8Immediate()
	buildDirectLoad16Immediate()
	buildDirect16BitIncDec()
	buildDirectAddHL()
	buildDirectRegToRegLoads()
	buildDirectALURegister()
	buildDirectALUImmediate()
	buildDirectControlFlow()
	buildDirectStackAndMisc()
	buildPrefixed()
}

func buildDirectMisc() {
	Direct[0x00] = Entry{Control, 1, 1, 0} // NOP
	Direct[0x07] = Entry{ALU, 1, 1, 0}     // RLCA
	Direct[0x0F] = Entry{ALU, 1, 1, 0}     // RRCA
	Direct[0x10] = Entry{Control, 2, 1, 0} // STOP
	Direct[0x17] = Entry{ALU, 1, 1, 0}     // RLA
	Direct[0x1F] = Entry{ALU, 1, 1, 0}     // RRA
	Direct[0x27] = Entry{ALU, 1, 1, 0}     // DAA
	Direct[0x2F] = Entry{ALU, 1, 1, 0}     // CPL
	Direct[0x37] = Entry{ALU, 1, 1, 0}     // SCF
	Direct[0x3F] = Entry{ALU, 1, 1, 0}     // CCF
	Direct[0x76] = Entry{Control, 1, 1, 0} // HALT
	Direct[0xF3] = Entry{Control, 1, 1, 0} // DI
	Direct[0xFB] = Entry{Control, 1, 1, 0} // EI
	Direct[0xCB] = Entry{ALU, 1, 1, 0}     // prefix; real length/cycles come from Prefixed
}

func buildDirectLoad8Immediate() {
	// LD r,d8 for B,C,D,E,H,L,A at opcodes x6/xE down column 0x00-0x3F.
	dests := []byte{0x06, 0x0E, 0x16, 0x1E, 0x26, 0x2E, 0x3E}
	for _, op := range dests {
		Direct[op] = Entry{Storage, 2, 2, 0}
	}
	Direct[0x36] = Entry{Storage, 2, 3, 0} // LD (HL),d8

	Direct[0x02] = Entry{Storage, 1, 2, 0} // LD (BC),A
	Direct[0x12] = Entry{Storage, 1, 2, 0} // LD (DE),A
	Direct[0x0A] = Entry{Storage, 1, 2, 0} // LD A,(BC)
	Direct[0x1A] = Entry{Storage, 1, 2, 0} // LD A,(DE)
	Direct[0x22] = Entry{Storage, 1, 2, 0} // LD (HL+),A
	Direct[0x2A] = Entry{Storage, 1, 2, 0} // LD A,(HL+)
	Direct[0x32] = Entry{Storage, 1, 2, 0} // LD (HL-),A
	Direct[0x3A] = Entry{Storage, 1, 2, 0} // LD A,(HL-)

	Direct[0xE0] = Entry{Storage, 2, 3, 0} // LDH (a8),A
	Direct[0xF0] = Entry{Storage, 2, 3, 0} // LDH A,(a8)
	Direct[0xE2] = Entry{Storage, 1, 2, 0} // LD (C),A
	Direct[0xF2] = Entry{Storage, 1, 2, 0} // LD A,(C)
	Direct[0xEA] = Entry{Storage, 3, 4, 0} // LD (a16),A
	Direct[0xFA] = Entry{Storage, 3, 4, 0} // LD A,(a16)
}

func buildDirectLoad16Immediate() {
	Direct[0x01] = Entry{Storage, 3, 3, 0} // LD BC,d16
	Direct[0x11] = Entry{Storage, 3, 3, 0} // LD DE,d16
	Direct[0x21] = Entry{Storage, 3, 3, 0} // LD HL,d16
	Direct[0x31] = Entry{Storage, 3, 3, 0} // LD SP,d16
	Direct[0x08] = Entry{Storage, 3, 5, 0} // LD (a16),SP
	Direct[0xF9] = Entry{Storage, 1, 2, 0} // LD SP,HL
	Direct[0xF8] = Entry{ALU, 2, 3, 0}     // LD HL,SP+r8 (flags come from ALU)
	Direct[0xE8] = Entry{ALU, 2, 4, 0}     // ADD SP,r8
}

func buildDirect16BitIncDec() {
	incs := []byte{0x03, 0x13, 0x23, 0x33}
	decs := []byte{0x0B, 0x1B, 0x2B, 0x3B}
	for _, op := range incs {
		Direct[op] = Entry{ALU, 1, 2, 0}
	}
	for _, op := range decs {
		Direct[op] = Entry{ALU, 1, 2, 0}
	}
	// 8-bit INC/DEC r and INC/DEC (HL)
	for _, r := range []byte{0, 1, 2, 3, 4, 5, 7} {
		Direct[0x04+r<<3] = Entry{ALU, 1, 1, 0}
		Direct[0x05+r<<3] = Entry{ALU, 1, 1, 0}
	}
	Direct[0x34] = Entry{ALU, 1, 3, 0} // INC (HL)
	Direct[0x35] = Entry{ALU, 1, 3, 0} // DEC (HL)
}

func buildDirectAddHL() {
	Direct[0x09] = Entry{ALU, 1, 2, 0} // ADD HL,BC
	Direct[0x19] = Entry{ALU, 1, 2, 0} // ADD HL,DE
	Direct[0x29] = Entry{ALU, 1, 2, 0} // ADD HL,HL
	Direct[0x39] = Entry{ALU, 1, 2, 0} // ADD HL,SP
}

func buildDirectRegToRegLoads() {
	for op := 0x40; op <= 0x7F; op++ {
		if op == 0x76 { // HALT occupies the LD (HL),(HL) slot
			continue
		}
		d := (byte(op) >> 3) & 0x07
		s := reg8(byte(op))
		cyc := uint8(1)
		if d == 6 || s == 6 {
			cyc = 2
		}
		Direct[op] = Entry{Storage, 1, cyc, 0}
	}
}

func buildDirectALURegister() {
	for op := 0x80; op <= 0xBF; op++ {
		s := reg8(byte(op))
		cyc := uint8(1)
		if s == 6 {
			cyc = 2
		}
		Direct[op] = Entry{ALU, 1, cyc, 0}
	}
}

func buildDirectALUImmediate() {
	for _, op := range []byte{0xC6, 0xCE, 0xD6, 0xDE, 0xE6, 0xEE, 0xF6, 0xFE} {
		Direct[op] = Entry{ALU, 2, 2, 0}
	}
}

func buildDirectControlFlow() {
	Direct[0xC3] = Entry{Control, 3, 4, 0} // JP a16
	Direct[0xE9] = Entry{Control, 1, 1, 0} // JP (HL)
	Direct[0x18] = Entry{Control, 2, 3, 0} // JR r8

	ccJP := []byte{0xC2, 0xCA, 0xD2, 0xDA}
	for _, op := range ccJP {
		Direct[op] = Entry{Control, 3, 3, 1}
	}
	ccJR := []byte{0x20, 0x28, 0x30, 0x38}
	for _, op := range ccJR {
		Direct[op] = Entry{Control, 2, 2, 1}
	}
	ccCALL := []byte{0xC4, 0xCC, 0xD4, 0xDC}
	for _, op := range ccCALL {
		Direct[op] = Entry{Control, 3, 3, 3}
	}
	ccRET := []byte{0xC0, 0xC8, 0xD0, 0xD8}
	for _, op := range ccRET {
		Direct[op] = Entry{Control, 1, 2, 3}
	}

	Direct[0xCD] = Entry{Control, 3, 6, 0} // CALL a16
	Direct[0xC9] = Entry{Control, 1, 4, 0} // RET
	Direct[0xD9] = Entry{Control, 1, 4, 0} // RETI

	for _, op := range []byte{0xC7, 0xCF, 0xD7, 0xDF, 0xE7, 0xEF, 0xF7, 0xFF} {
		Direct[op] = Entry{Control, 1, 4, 0} // RST n
	}
}

func buildDirectStackAndMisc() {
	pushes := []byte{0xC5, 0xD5, 0xE5, 0xF5}
	pops := []byte{0xC1, 0xD1, 0xE1, 0xF1}
	for _, op := range pushes {
		Direct[op] = Entry{Storage, 1, 4, 0}
	}
	for _, op := range pops {
		Direct[op] = Entry{Storage, 1, 3, 0}
	}
}

// buildPrefixed fills the CB table from the bit pattern opg/y/reg shared
// by every CB opcode, rather than 256 literal entries: the encoding is
// opg=bits6-7 (0:rotate/shift/swap,1:BIT,2:RES,3:SET), y=bits3-5,
// reg=bits0-2 (6 means (HL)).
func buildPrefixed() {
	for op := 0; op < 256; op++ {
		reg := reg8(byte(op))
		opg := (byte(op) >> 6) & 0x03
		indirect := reg == 6
		var cyc uint8
		switch {
		case opg == 1 && indirect: // BIT y,(HL)
			cyc = 3
		case opg == 1: // BIT y,r
			cyc = 2
		case indirect: // rotate/shift/swap/RES/SET on (HL)
			cyc = 4
		default:
			cyc = 2
		}
		Prefixed[op] = Entry{ALU, 2, cyc, 0}
	}
}
