// Package bootrom implements the 256-byte DMG boot ROM: a fixed image
// overlaying cartridge bank 0 until the guest disables it with a write
// to 0xFF50. The disable transition is monotonic - once unplugged, the
// boot ROM never returns.
//
// Grounded on the original implementation's boot handling (a forced_plug
// at 0x0000-0x00FF followed by a forced_plug of cartridge bank 0 on
// disable) and the teacher's component-owning-Memory constructor style.
package bootrom

import (
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/component"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/gberr"
)

// Size is the fixed length of the DMG boot image.
const Size = 256

// DisableAddr is the I/O register that, written with any value, disables
// the boot ROM and hands the low 32 KiB over to the cartridge.
const DisableAddr uint16 = 0xFF50

// Bootrom owns the 256-byte boot image and tracks whether it is still
// mapped over cartridge bank 0.
type Bootrom struct {
	comp   *component.Component
	mapped bool
}

// New creates a Bootrom loaded with image, which must be exactly Size
// bytes.
func New(image []byte) (*Bootrom, error) {
	if len(image) != Size {
		return nil, gberr.New(gberr.BadParameter, "boot image must be %d bytes, got %d", Size, len(image))
	}
	c, err := component.New(Size)
	if err != nil {
		return nil, err
	}
	if err := c.Mem.LoadFrom(image); err != nil {
		return nil, err
	}
	return &Bootrom{comp: c}, nil
}

// Plug forced_plugs the boot image over 0x0000-0x00FF.
func (r *Bootrom) Plug(b *bus.Bus) error {
	if err := b.ForcedPlug(r.comp, 0x0000, 0x00FF, 0); err != nil {
		return err
	}
	r.mapped = true
	return nil
}

// Mapped reports whether the boot ROM is still overlaying cartridge bank 0.
func (r *Bootrom) Mapped() bool { return r.mapped }

// OnWrite is the bus write-listener: when addr is the disable register,
// it unplugs the boot ROM and forced_plugs the cartridge's first 32 KiB
// at 0x0000-0x7FFF, monotonically clearing Mapped. Any other address, or
// a write after the boot ROM already unplugged, is a no-op.
func (r *Bootrom) OnWrite(b *bus.Bus, addr uint16, cartridge *component.Component) error {
	if !r.mapped || addr != DisableAddr {
		return nil
	}
	if err := b.Unplug(r.comp); err != nil {
		return err
	}
	if err := b.ForcedPlug(cartridge, 0x0000, 0x7FFF, 0); err != nil {
		return err
	}
	r.mapped = false
	return nil
}

// Release drops this Bootrom's reference to its owned memory.
func (r *Bootrom) Release() { r.comp.Release() }
