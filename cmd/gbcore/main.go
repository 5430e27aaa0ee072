// Command gbcore runs a cartridge headlessly against the core: load a
// ROM (and optional boot ROM), run for a fixed cycle budget or until
// serial output contains a marker string, and report pass/fail.
//
// Grounded on cmd/cpurunner/main.go's flag set and serial-marker
// detection loop, re-pointed at the internal/gameboy driver instead of
// constructing a bus and CPU by hand.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/cartridge"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/cpu"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/gameboy"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/gbconfig"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/gbtrace"
)

func main() {
	romPath := flag.String("rom", "", "path to a 32 KiB no-MBC ROM (.gb or .7z)")
	bootPath := flag.String("bootrom", "", "optional 256-byte DMG boot ROM")
	cycles := flag.Uint64("cycles", 10_000_000, "cycle budget")
	trace := flag.Bool("trace", false, "print a PC/register trace line every instruction")
	until := flag.String("until", "", "stop early when serial output contains this substring (case-insensitive)")
	auto := flag.Bool("auto", false, "exit 0 on serial \"passed\", 1 on serial \"failed\"")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}

	rom, err := cartridge.Load(*romPath)
	if err != nil {
		log.Fatalf("load rom: %v", err)
	}
	h := cartridge.ParseHeader(rom)
	log.Printf("cartridge %q (fingerprint %016x, header checksum valid=%t)", h.Title, cartridge.Fingerprint(rom), h.ChecksumValid)

	g := gameboy.New(gbconfig.Config{Trace: *trace})
	if *bootPath != "" {
		if err := g.LoadBootROMFile(*bootPath); err != nil {
			log.Fatalf("load boot rom: %v", err)
		}
	}
	if err := g.LoadROM(rom); err != nil {
		log.Fatalf("load rom: %v", err)
	}

	var serialBuf bytes.Buffer
	g.SetSerialWriter(&serialBuf)

	marker := strings.ToLower(*until)
	var lastPC uint16
	var lastOp byte
	var dispatch bool
	for g.Cycles() < *cycles {
		if *trace {
			lastPC = g.CPU.PC
			lastOp = g.Bus.Read(lastPC)
			// The CPU only dispatches when no idle cycles remain and it is
			// not halted without a pending interrupt.
			pending := g.Bus.Read(cpu.AddrIE) & g.Bus.Read(cpu.AddrIF)
			dispatch = g.CPU.IdleTime == 0 && (!g.CPU.Halted || pending != 0)
		}
		if err := g.Step(); err != nil {
			log.Fatalf("cycle %d: %v", g.Cycles(), err)
		}
		if *trace && dispatch {
			fmt.Println(gbtrace.Line(g.CPU, lastPC, lastOp, g.Cycles()))
		}
		out := strings.ToLower(serialBuf.String())
		if marker != "" && strings.Contains(out, marker) {
			fmt.Printf("serial output matched %q after %d cycles\n", *until, g.Cycles())
			break
		}
		if *auto {
			if strings.Contains(out, "passed") {
				fmt.Println("PASS")
				os.Exit(0)
			}
			if strings.Contains(out, "failed") {
				fmt.Println("FAIL")
				fmt.Print(serialBuf.String())
				os.Exit(1)
			}
		}
	}

	if serialBuf.Len() > 0 {
		fmt.Print(serialBuf.String())
	}
}
