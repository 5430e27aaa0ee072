// Package gbtrace formats one CPU-state trace line per instruction, in
// the same layout a blargg-test debugging session would grep for.
//
// Grounded on cmd/cpurunner/main.go's inline fmt.Printf trace line,
// lifted out into a reusable formatter so both CLI entry points can
// share it.
package gbtrace

import (
	"fmt"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/cpu"
)

// Line formats c's current register/interrupt state as one trace line.
// pc and op should be captured before the instruction at pc executes,
// since c.PC will have already advanced by the time Line is called.
func Line(c *cpu.CPU, pc uint16, op byte, cyclesSoFar uint64) string {
	return fmt.Sprintf(
		"PC=%04X OP=%02X cyc=%d A=%02X F=%02X B=%02X C=%02X D=%02X E=%02X H=%02X L=%02X SP=%04X IME=%t IF=%02X IE=%02X",
		pc, op, cyclesSoFar,
		c.A, c.F, c.B, c.C, c.D, c.E, c.H, c.L,
		c.SP, c.IME, c.Bus.Read(cpu.AddrIF), c.Bus.Read(cpu.AddrIE),
	)
}
