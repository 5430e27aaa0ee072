package cpu

import (
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/alu"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/bitutil"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/gberr"
)

// group8 runs the eight-way ADD/ADC/SUB/SBC/AND/XOR/OR/CP family against
// the current A and the given operand; CP discards the result and keeps
// only the flags.
func (c *CPU) group8(group byte, operand byte) alu.Result {
	switch group {
	case 0:
		return alu.Add8(c.A, operand, false)
	case 1:
		return alu.Add8(c.A, operand, c.flagC())
	case 2:
		return alu.Sub8(c.A, operand, false)
	case 3:
		return alu.Sub8(c.A, operand, c.flagC())
	case 4:
		return alu.And8(c.A, operand)
	case 5:
		return alu.Xor8(c.A, operand)
	case 6:
		return alu.Or8(c.A, operand)
	default: // 7: CP
		return alu.Sub8(c.A, operand, false)
	}
}

// execALU implements 8/16-bit arithmetic, logic, accumulator rotates, HL
// arithmetic and the miscellaneous DAA/CPL/SCF/CCF/LD HL,SP+s8/ADD SP,s8
// instructions. It never touches PC or IdleTime.
func (c *CPU) execALU(op byte) error {
	switch {
	case op >= 0x80 && op <= 0xBF: // ALU A,r / ALU A,(HL)
		group := (op >> 3) & 0x07
		src := op & 0x07
		res := c.group8(group, c.readR8(src))
		if group != 7 {
			c.A = byte(res.Value)
		}
		c.combine(FlagSpec{FAlu, FAlu, FAlu, FAlu}, res.Flags)
		return nil
	case op == 0xC6, op == 0xCE, op == 0xD6, op == 0xDE, op == 0xE6, op == 0xEE, op == 0xF6, op == 0xFE:
		group := (op - 0xC6) >> 3
		imm := c.Bus.Read(c.PC + 1)
		res := c.group8(group, imm)
		if group != 7 {
			c.A = byte(res.Value)
		}
		c.combine(FlagSpec{FAlu, FAlu, FAlu, FAlu}, res.Flags)
		return nil
	case op == 0x04, op == 0x0C, op == 0x14, op == 0x1C, op == 0x24, op == 0x2C, op == 0x3C,
		op == 0x05, op == 0x0D, op == 0x15, op == 0x1D, op == 0x25, op == 0x2D, op == 0x3D,
		op == 0x34, op == 0x35:
		return c.execIncDec8(op)
	case op == 0x03, op == 0x13, op == 0x23, op == 0x33,
		op == 0x0B, op == 0x1B, op == 0x2B, op == 0x3B:
		rp := (op >> 4) & 0x03
		v := c.readRP(rp)
		if (op>>3)&1 == 1 {
			v--
		} else {
			v++
		}
		c.writeRP(rp, v)
		return nil
	case op == 0x09, op == 0x19, op == 0x29, op == 0x39: // ADD HL,rp
		rp := (op >> 4) & 0x03
		res := alu.Add16High(c.HL(), c.readRP(rp))
		c.setHL(res.Value)
		c.combine(FlagSpec{FCpu, FClear, FAlu, FAlu}, res.Flags)
		return nil
	case op == 0x07: // RLCA
		res := alu.Rotate(bitutil.Left, c.A)
		c.A = byte(res.Value)
		c.combine(FlagSpec{FClear, FClear, FClear, FAlu}, res.Flags)
		return nil
	case op == 0x0F: // RRCA
		res := alu.Rotate(bitutil.Right, c.A)
		c.A = byte(res.Value)
		c.combine(FlagSpec{FClear, FClear, FClear, FAlu}, res.Flags)
		return nil
	case op == 0x17: // RLA
		res := alu.CarryRotate(bitutil.Left, c.A, c.flagC())
		c.A = byte(res.Value)
		c.combine(FlagSpec{FClear, FClear, FClear, FAlu}, res.Flags)
		return nil
	case op == 0x1F: // RRA
		res := alu.CarryRotate(bitutil.Right, c.A, c.flagC())
		c.A = byte(res.Value)
		c.combine(FlagSpec{FClear, FClear, FClear, FAlu}, res.Flags)
		return nil
	case op == 0x27: // DAA
		return c.execDAA()
	case op == 0x2F: // CPL
		c.A = ^c.A
		c.combine(FlagSpec{FCpu, FSet, FSet, FCpu}, alu.Flags{})
		return nil
	case op == 0x37: // SCF
		c.combine(FlagSpec{FCpu, FClear, FClear, FSet}, alu.Flags{})
		return nil
	case op == 0x3F: // CCF
		c.combine(FlagSpec{FCpu, FClear, FClear, FAlu}, alu.Flags{C: !c.flagC()})
		return nil
	case op == 0xE8, op == 0xF8: // ADD SP,s8 / LD HL,SP+s8
		imm := int8(c.Bus.Read(c.PC + 1))
		low := alu.Add8(bitutil.LowByte(c.SP), byte(imm), false)
		sum := uint16(int32(c.SP) + int32(imm))
		if op == 0xE8 {
			c.SP = sum
		} else {
			c.setHL(sum)
		}
		c.combine(FlagSpec{FClear, FClear, FAlu, FAlu}, low.Flags)
		return nil
	default:
		return gberr.New(gberr.Instr, "unhandled alu opcode %02X", op)
	}
}

func (c *CPU) execIncDec8(op byte) error {
	isDec := op&1 == 1
	step := func(v byte) alu.Result {
		if isDec {
			return alu.Sub8(v, 1, false)
		}
		return alu.Add8(v, 1, false)
	}
	if op == 0x34 || op == 0x35 {
		hl := c.HL()
		res := step(c.Bus.Read(hl))
		if err := c.busWrite(hl, byte(res.Value)); err != nil {
			return err
		}
		c.combine(FlagSpec{FAlu, FAlu, FAlu, FCpu}, res.Flags)
		return nil
	}
	r := (op >> 3) & 0x07
	res := step(c.readR8(r))
	_ = c.writeR8(r, byte(res.Value)) // r is never (HL) here, so this cannot fail
	c.combine(FlagSpec{FAlu, FAlu, FAlu, FCpu}, res.Flags)
	return nil
}

// execDAA implements the decimal-adjust correction following an 8-bit
// BCD add or subtract, per the standard DMG algorithm.
func (c *CPU) execDAA() error {
	a := c.A
	var adjust byte
	carry := c.flagC()
	if c.flagN() {
		if c.flagH() {
			adjust += 0x06
		}
		if carry {
			adjust += 0x60
		}
		a -= adjust
	} else {
		if c.flagH() || bitutil.LowNibble(a) > 0x09 {
			adjust += 0x06
		}
		if carry || a > 0x99 {
			adjust += 0x60
			carry = true
		}
		a += adjust
	}
	c.A = a
	c.combine(FlagSpec{FAlu, FCpu, FClear, FAlu}, alu.Flags{Z: a == 0, C: carry})
	return nil
}

// execCB implements the CB-prefixed rotate/shift/swap, BIT, RES and SET
// family, decoded from the shared opg/y/reg bit pattern.
func (c *CPU) execCB(cbOp byte) error {
	reg := cbOp & 0x07
	opg := (cbOp >> 6) & 0x03
	y := uint((cbOp >> 3) & 0x07)
	v := c.readR8(reg)

	switch opg {
	case 0:
		var res alu.Result
		switch y {
		case 0:
			res = alu.Rotate(bitutil.Left, v) // RLC
		case 1:
			res = alu.Rotate(bitutil.Right, v) // RRC
		case 2:
			res = alu.CarryRotate(bitutil.Left, v, c.flagC()) // RL
		case 3:
			res = alu.CarryRotate(bitutil.Right, v, c.flagC()) // RR
		case 4:
			res = alu.ShiftLeft(v) // SLA
		case 5:
			res = alu.ShiftRightArith(v) // SRA
		case 6:
			res = alu.Swap(v) // SWAP
		default:
			res = alu.ShiftRightLogical(v) // SRL
		}
		if err := c.writeR8(reg, byte(res.Value)); err != nil {
			return err
		}
		c.combine(FlagSpec{FAlu, FClear, FClear, FAlu}, res.Flags)
		return nil
	case 1: // BIT y,reg
		res := alu.TestBit(v, y)
		c.combine(FlagSpec{FAlu, FClear, FSet, FCpu}, res.Flags)
		return nil
	case 2: // RES y,reg
		return c.writeR8(reg, alu.ResetBit(v, y))
	default: // 3: SET y,reg
		return c.writeR8(reg, alu.SetBit(v, y))
	}
}
