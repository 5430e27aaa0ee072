// Package lcd implements the LCD controller's register file and
// mode/line timing: VRAM, OAM, LCDC/STAT/SCY/SCX/LY/LYC/BGP/OBP0/OBP1/WY/WX,
// the 80/172/204-dot mode-2/3/0 schedule within each of 154 lines, and
// VBlank/STAT/LYC interrupt requests. Pixel composition (turning VRAM
// tile data into a framebuffer) is an explicit non-goal of this core;
// callers that want to render read VRAM/OAM/the palette registers
// directly through the bus.
//
// Grounded on the teacher's internal/ppu/ppu.go (register layout, mode
// scheduling loop, STAT/LYC interrupt conditions), adapted off its
// hand-rolled CPURead/CPUWrite byte arrays onto this core's
// component/bus plug model and IF-latching via cpu.RequestInterrupt
// rather than an InterruptRequester callback.
package lcd

import (
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/component"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/cpu"
)

// Fixed bus addresses for VRAM, OAM and the LCD register file.
const (
	VRAMStart uint16 = 0x8000
	VRAMEnd   uint16 = 0x9FFF
	OAMStart  uint16 = 0xFE00
	OAMEnd    uint16 = 0xFE9F

	AddrLCDC uint16 = 0xFF40
	AddrSTAT uint16 = 0xFF41
	AddrSCY  uint16 = 0xFF42
	AddrSCX  uint16 = 0xFF43
	AddrLY   uint16 = 0xFF44
	AddrLYC  uint16 = 0xFF45
	AddrBGP  uint16 = 0xFF47
	AddrOBP0 uint16 = 0xFF48
	AddrOBP1 uint16 = 0xFF49
	AddrWY   uint16 = 0xFF4A
	AddrWX   uint16 = 0xFF4B
)

// Mode scheduling constants, in dots, within a 456-dot line.
const (
	dotsOAM        = 80
	dotsTransfer   = 172
	dotsPerLine    = 456
	linesPerFrame  = 154
	firstVBlankLn  = 144
	statEnableHBlk = 1 << 3
	statEnableOAM  = 1 << 5
	statEnableLYC  = 1 << 6
	statLYCFlag    = 1 << 2
)

// LCD owns VRAM, OAM, and the LCD register file, all plugged onto the
// bus as independent components so the bus's write-listener mechanism
// can route guest writes back to OnWrite.
type LCD struct {
	vram, oam *component.Component
	regs      map[uint16]*component.Component

	dot      int
	curMode  byte // authoritative mode (0-3); STAT bits 0-1 mirror this
	lycMatch bool // authoritative LY==LYC flag; STAT bit 2 mirrors this
	cpu      *cpu.CPU
}

// New allocates (but does not plug) an LCD bound to c for interrupt
// requests.
func New(c *cpu.CPU) (*LCD, error) {
	vram, err := component.New(int(VRAMEnd-VRAMStart) + 1)
	if err != nil {
		return nil, err
	}
	oam, err := component.New(int(OAMEnd-OAMStart) + 1)
	if err != nil {
		return nil, err
	}
	l := &LCD{vram: vram, oam: oam, regs: map[uint16]*component.Component{}, cpu: c}
	for _, addr := range []uint16{AddrLCDC, AddrSTAT, AddrSCY, AddrSCX, AddrLY, AddrLYC, AddrBGP, AddrOBP0, AddrOBP1, AddrWY, AddrWX} {
		rc, err := component.New(1)
		if err != nil {
			return nil, err
		}
		l.regs[addr] = rc
	}
	// STAT reads 1 in bit 7 on DMG hardware.
	l.regs[AddrSTAT].Mem.Write(0, 0x80)
	return l, nil
}

// Plug maps VRAM, OAM, and every LCD register at its fixed address.
func (l *LCD) Plug(b *bus.Bus) error {
	if err := b.Plug(l.vram, VRAMStart, VRAMEnd); err != nil {
		return err
	}
	if err := b.Plug(l.oam, OAMStart, OAMEnd); err != nil {
		return err
	}
	for addr, rc := range l.regs {
		if err := b.Plug(rc, addr, addr); err != nil {
			return err
		}
	}
	return nil
}

// Release drops every component this LCD owns.
func (l *LCD) Release() {
	l.vram.Release()
	l.oam.Release()
	for _, rc := range l.regs {
		rc.Release()
	}
}

func (l *LCD) enabled(b *bus.Bus) bool {
	return b.Read(AddrLCDC)&0x80 != 0
}

func (l *LCD) mode(b *bus.Bus) byte {
	return b.Read(AddrSTAT) & 0x03
}

// writeSTAT recomposes the visible STAT byte from the guest-writable
// enable bits already on the bus (6-3) plus this LCD's authoritative
// mode/LYC-match state (0-2), with bit 7 always reading 1. Called after
// every change to curMode/lycMatch, and from OnWrite to mask a guest's
// write to STAT down to the bits it may actually change.
func (l *LCD) writeSTAT(b *bus.Bus) {
	stat := (b.Read(AddrSTAT) & 0x78) | 0x80 | (l.curMode & 0x03)
	if l.lycMatch {
		stat |= statLYCFlag
	}
	b.Write(AddrSTAT, stat)
}

func (l *LCD) setMode(b *bus.Bus, mode byte) {
	if l.curMode == mode {
		return
	}
	l.curMode = mode
	l.writeSTAT(b)
	stat := b.Read(AddrSTAT)
	switch mode {
	case 0:
		if stat&statEnableHBlk != 0 {
			l.cpu.RequestInterrupt(cpu.InterruptLCDStat)
		}
	case 2:
		if stat&statEnableOAM != 0 {
			l.cpu.RequestInterrupt(cpu.InterruptLCDStat)
		}
	}
}

func (l *LCD) updateLYC(b *bus.Bus) {
	l.lycMatch = b.Read(AddrLY) == b.Read(AddrLYC)
	l.writeSTAT(b)
	if l.lycMatch && b.Read(AddrSTAT)&statEnableLYC != 0 {
		l.cpu.RequestInterrupt(cpu.InterruptLCDStat)
	}
}

// Tick advances the controller by cycles dots, progressing the
// mode-2/3/0 schedule within a line and the LY/VBlank schedule across a
// 154-line frame, requesting VBlank/STAT/LYC as their conditions fire.
func (l *LCD) Tick(b *bus.Bus, cycles int) {
	for i := 0; i < cycles; i++ {
		if !l.enabled(b) {
			continue
		}
		l.dot++

		ly := b.Read(AddrLY)
		var mode byte
		switch {
		case ly >= firstVBlankLn:
			mode = 1
		case l.dot < dotsOAM:
			mode = 2
		case l.dot < dotsOAM+dotsTransfer:
			mode = 3
		default:
			mode = 0
		}
		l.setMode(b, mode)

		if l.dot < dotsPerLine {
			continue
		}
		l.dot = 0
		ly++
		if ly == firstVBlankLn {
			l.cpu.RequestInterrupt(cpu.InterruptVBlank)
			if b.Read(AddrSTAT)&(1<<4) != 0 {
				l.cpu.RequestInterrupt(cpu.InterruptLCDStat)
			}
		} else if ly >= linesPerFrame {
			ly = 0
		}
		b.Write(AddrLY, ly)
		l.updateLYC(b)
		if ly >= firstVBlankLn {
			l.setMode(b, 1)
		} else {
			l.setMode(b, 2)
		}
	}
}

// OnWrite applies the side effects of a guest write to an LCD register:
// LY resets to 0 on any write,
// LYC re-evaluates the coincidence flag, and STAT's low 3 bits are
// read-only from the guest's point of view. A write to LCDC does nothing
// here; its enable-edge reset is done by ApplyLCDCEdge.
func (l *LCD) OnWrite(b *bus.Bus, addr uint16) {
	switch addr {
	case AddrLCDC:
		// Mode/line reset on an enable edge is handled by the caller
		// reading LCDC before and after; see ApplyLCDCEdge.
	case AddrSTAT:
		// The guest's write already landed with whatever it put in bits
		// 0-2/7; writeSTAT overwrites those with the authoritative
		// mode/LYC state and keeps only the guest's enable bits (6-3).
		l.writeSTAT(b)
	case AddrLY:
		b.Write(AddrLY, 0)
		l.dot = 0
		l.updateLYC(b)
		if l.enabled(b) {
			l.setMode(b, 2)
		}
	case AddrLYC:
		l.updateLYC(b)
	}
}

// ApplyLCDCEdge resets LY/dot/mode when the guest's write to LCDC flips
// bit 7, the same way the teacher's PPU reset timing state on an enable
// edge. prevLCDC is the value before the write that the Gameboy driver
// already applied.
func (l *LCD) ApplyLCDCEdge(b *bus.Bus, prevLCDC byte) {
	cur := b.Read(AddrLCDC)
	if cur&0x80 == prevLCDC&0x80 {
		return
	}
	b.Write(AddrLY, 0)
	l.dot = 0
	if cur&0x80 == 0 {
		l.setMode(b, 0)
	} else {
		l.setMode(b, 2)
	}
	l.updateLYC(b)
}
