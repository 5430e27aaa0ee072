package cartridge

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/bus"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/gberr"
)

func writeROM(t *testing.T, typeByte byte, size int) string {
	t.Helper()
	rom := make([]byte, size)
	if size > TypeAddr {
		rom[TypeAddr] = typeByte
	}
	path := filepath.Join(t.TempDir(), "cart.gb")
	if err := os.WriteFile(path, rom, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadAcceptsNoMBCImage(t *testing.T) {
	path := writeROM(t, 0x00, Size)
	rom, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(rom) != Size {
		t.Fatalf("Load returned %d bytes, want %d", len(rom), Size)
	}
}

func TestLoadRejectsWrongSize(t *testing.T) {
	path := writeROM(t, 0x00, Size/2)
	if _, err := Load(path); !gberr.Is(err, gberr.IO) {
		t.Fatalf("Load of undersized ROM got %v, want IO error", err)
	}
}

func TestLoadRejectsMBCType(t *testing.T) {
	path := writeROM(t, 0x01, Size) // MBC1
	if _, err := Load(path); !gberr.Is(err, gberr.NotImplemented) {
		t.Fatalf("Load of MBC1 ROM got %v, want NotImplemented", err)
	}
}

func TestFingerprintIsDeterministic(t *testing.T) {
	rom := make([]byte, Size)
	rom[10] = 0x42
	a := Fingerprint(rom)
	b := Fingerprint(append([]byte(nil), rom...))
	if a != b {
		t.Fatalf("Fingerprint not deterministic: %x != %x", a, b)
	}
	rom[11] = 0x01
	if Fingerprint(rom) == a {
		t.Fatalf("Fingerprint did not change after editing the image")
	}
}

func TestPlugMapsBankZeroAndOne(t *testing.T) {
	rom := make([]byte, Size)
	rom[0x100] = 0xC3
	b := bus.New()
	if _, err := Plug(b, rom); err != nil {
		t.Fatalf("Plug: %v", err)
	}
	if got := b.Read(0x0100); got != 0xC3 {
		t.Fatalf("Read(0x0100) got %02X want C3", got)
	}
}

func TestParseHeaderReadsTitleAndVerifiesChecksum(t *testing.T) {
	rom := make([]byte, Size)
	copy(rom[titleStart:titleEnd], "TESTGAME")
	var sum byte
	for addr := headerChecksumStart; addr <= headerChecksumEnd-1; addr++ {
		sum = sum - rom[addr] - 1
	}
	rom[headerChecksumAddr] = sum

	h := ParseHeader(rom)
	if h.Title != "TESTGAME" {
		t.Fatalf("Title = %q, want %q", h.Title, "TESTGAME")
	}
	if !h.ChecksumValid {
		t.Fatalf("ChecksumValid = false, want true")
	}

	rom[headerChecksumAddr] ^= 0xFF
	if ParseHeader(rom).ChecksumValid {
		t.Fatalf("ChecksumValid = true after corrupting the checksum byte")
	}
}
