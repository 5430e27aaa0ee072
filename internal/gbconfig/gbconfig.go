// Package gbconfig holds settings that shape how a Gameboy run behaves
// without being part of its architectural state: trace verbosity, a
// cycle budget for headless runs, and file paths for the boot ROM and
// cartridge.
//
// Grounded on the teacher's internal/emu.Config (a small settings struct
// consumed by the Machine constructor) and cmd/cpurunner/main.go's flag
// set, which names the same concerns (-trace, -rom, -bootrom, -steps).
package gbconfig

// Config contains run settings that are not part of the emulated
// machine's own state. gameboy.New stores the struct, but the Gameboy
// reads none of its fields: loading files, choosing a cycle budget,
// tracing and echoing serial output are left to the caller.
type Config struct {
	Trace         bool   // caller wants a per-instruction gbtrace log
	BootROMPath   string // optional; "" means no boot ROM
	CartridgePath string
	CycleBudget   uint64 // cycle target for a caller's RunUntil; 0 means caller decides
	SerialEcho    bool   // caller wants serial transfers mirrored to stdout
}
