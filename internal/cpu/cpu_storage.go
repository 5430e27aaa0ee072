package cpu

import "github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/gberr"

// execStorage implements every LD/LDH/PUSH/POP variant. It never touches
// PC or IdleTime; the caller (step, in cpu.go) advances PC by the
// instruction's byte length and settles idle cycles afterward.
func (c *CPU) execStorage(op byte) error {
	switch {
	case op == 0x02: // LD (BC),A
		return c.busWrite(c.BC(), c.A)
	case op == 0x12: // LD (DE),A
		return c.busWrite(c.DE(), c.A)
	case op == 0x0A: // LD A,(BC)
		c.A = c.Bus.Read(c.BC())
		return nil
	case op == 0x1A: // LD A,(DE)
		c.A = c.Bus.Read(c.DE())
		return nil
	case op == 0x22: // LD (HL+),A
		hl := c.HL()
		if err := c.busWrite(hl, c.A); err != nil {
			return err
		}
		c.setHL(hl + 1)
		return nil
	case op == 0x2A: // LD A,(HL+)
		hl := c.HL()
		c.A = c.Bus.Read(hl)
		c.setHL(hl + 1)
		return nil
	case op == 0x32: // LD (HL-),A
		hl := c.HL()
		if err := c.busWrite(hl, c.A); err != nil {
			return err
		}
		c.setHL(hl - 1)
		return nil
	case op == 0x3A: // LD A,(HL-)
		hl := c.HL()
		c.A = c.Bus.Read(hl)
		c.setHL(hl - 1)
		return nil
	case op == 0x36: // LD (HL),d8
		imm := c.Bus.Read(c.PC + 1)
		return c.busWrite(c.HL(), imm)
	case op == 0x06, op == 0x0E, op == 0x16, op == 0x1E, op == 0x26, op == 0x2E, op == 0x3E: // LD r,d8
		r := (op >> 3) & 0x07
		imm := c.Bus.Read(c.PC + 1)
		return c.writeR8(r, imm)
	case op == 0x01, op == 0x11, op == 0x21, op == 0x31: // LD rp,d16
		rp := (op >> 4) & 0x03
		c.writeRP(rp, c.Bus.Read16(c.PC+1))
		return nil
	case op == 0x08: // LD (a16),SP
		addr := c.Bus.Read16(c.PC + 1)
		return c.busWrite16(addr, c.SP)
	case op >= 0x40 && op <= 0x7F: // LD r,r'
		d := (op >> 3) & 0x07
		s := op & 0x07
		return c.writeR8(d, c.readR8(s))
	case op == 0xE0: // LDH (a8),A
		addr := 0xFF00 + uint16(c.Bus.Read(c.PC+1))
		return c.busWrite(addr, c.A)
	case op == 0xF0: // LDH A,(a8)
		addr := 0xFF00 + uint16(c.Bus.Read(c.PC+1))
		c.A = c.Bus.Read(addr)
		return nil
	case op == 0xE2: // LD (C),A
		return c.busWrite(0xFF00+uint16(c.C), c.A)
	case op == 0xF2: // LD A,(C)
		c.A = c.Bus.Read(0xFF00 + uint16(c.C))
		return nil
	case op == 0xEA: // LD (a16),A
		addr := c.Bus.Read16(c.PC + 1)
		return c.busWrite(addr, c.A)
	case op == 0xFA: // LD A,(a16)
		addr := c.Bus.Read16(c.PC + 1)
		c.A = c.Bus.Read(addr)
		return nil
	case op == 0xF9: // LD SP,HL
		c.SP = c.HL()
		return nil
	case op == 0xC1, op == 0xD1, op == 0xE1, op == 0xF1: // POP rp2
		rp2 := (op >> 4) & 0x03
		c.writeRP2(rp2, c.pop16())
		return nil
	case op == 0xC5, op == 0xD5, op == 0xE5, op == 0xF5: // PUSH rp2
		rp2 := (op >> 4) & 0x03
		return c.push16(c.readRP2(rp2))
	default:
		return gberr.New(gberr.Instr, "unhandled storage opcode %02X", op)
	}
}
