package bootrom

import (
	"testing"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/component"
)

func fakeImage(fill byte) []byte {
	img := make([]byte, Size)
	for i := range img {
		img[i] = fill
	}
	return img
}

// TestBootHandoff covers scenario S1: disabling the boot ROM swaps the
// low 256 bytes over to the cartridge and the transition is idempotent.
func TestBootHandoff(t *testing.T) {
	b := bus.New()
	boot, err := New(fakeImage(0xAA))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := boot.Plug(b); err != nil {
		t.Fatalf("Plug: %v", err)
	}
	if got := b.Read(0x0010); got != 0xAA {
		t.Fatalf("Read(0x0010) while booting got %02X want AA", got)
	}

	cart, err := component.New(0x8000)
	if err != nil {
		t.Fatalf("component.New cart: %v", err)
	}
	if err := cart.Mem.Write(0x0010, 0xCC); err != nil {
		t.Fatal(err)
	}

	if err := boot.OnWrite(b, DisableAddr, cart); err != nil {
		t.Fatalf("OnWrite: %v", err)
	}
	if boot.Mapped() {
		t.Fatalf("boot ROM should be unmapped after disable")
	}
	if got := b.Read(0x0010); got != 0xCC {
		t.Fatalf("Read(0x0010) after handoff got %02X want CC (cartridge byte)", got)
	}

	// Idempotent: a second disable write does nothing further.
	if err := boot.OnWrite(b, DisableAddr, cart); err != nil {
		t.Fatalf("second OnWrite: %v", err)
	}
	if got := b.Read(0x0010); got != 0xCC {
		t.Fatalf("Read(0x0010) after second disable got %02X want CC unchanged", got)
	}
}

func TestOnWriteIgnoresOtherAddresses(t *testing.T) {
	b := bus.New()
	boot, err := New(fakeImage(0x00))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := boot.Plug(b); err != nil {
		t.Fatalf("Plug: %v", err)
	}
	if err := boot.OnWrite(b, 0xFF01, nil); err != nil {
		t.Fatalf("OnWrite other addr: %v", err)
	}
	if !boot.Mapped() {
		t.Fatalf("boot ROM should remain mapped for unrelated writes")
	}
}
