// Command gbwindow runs a cartridge in an ebiten window, pumping the
// core one frame at a time and mapping keyboard input onto the joypad.
// Pixel composition is out of scope for this core, so the window shows
// a static per-frame tint rather than a rendered picture; it exists to
// exercise the windowed run loop and input wiring end to end.
//
// Grounded on internal/ui.App's ebiten.Game shape (Update/Draw/Layout,
// NewApp's window-size setup) stripped of its menu/audio/save-state
// machinery, which depends on sound and save-state persistence - both
// explicit non-goals of this core.
package main

import (
	"flag"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/gameboy"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/gbconfig"
	"github.com/FabianRolfMatthiasNoll/GameBoyEmulator/internal/joypad"
)

const screenW, screenH = 160, 144

var keymap = map[ebiten.Key]int{
	ebiten.KeyArrowRight: joypad.Right,
	ebiten.KeyArrowLeft:  joypad.Left,
	ebiten.KeyArrowUp:    joypad.Up,
	ebiten.KeyArrowDown:  joypad.Down,
	ebiten.KeyZ:          joypad.A,
	ebiten.KeyX:          joypad.B,
	ebiten.KeyBackspace:  joypad.Select,
	ebiten.KeyEnter:      joypad.Start,
}

type game struct {
	gb *gameboy.Gameboy
}

func (g *game) Update() error {
	var mask byte
	for key, bit := range keymap {
		if ebiten.IsKeyPressed(key) {
			mask |= 1 << bit
		}
	}
	g.gb.SetButtons(mask)
	if err := g.gb.StepFrameNoRender(); err != nil {
		return err
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	// VBlank just fired for the frame StepFrameNoRender ran; flash a
	// faint tint so the window visibly responds to emulation without
	// claiming to render the actual picture.
	if g.gb.Booted() {
		screen.Fill(color.RGBA{R: 20, G: 20, B: 28, A: 0xFF})
	} else {
		screen.Fill(color.RGBA{R: 8, G: 8, B: 8, A: 0xFF})
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}

func main() {
	romPath := flag.String("rom", "", "path to a 32 KiB no-MBC ROM (.gb or .7z)")
	bootPath := flag.String("bootrom", "", "optional 256-byte DMG boot ROM")
	scale := flag.Int("scale", 3, "window scale")
	title := flag.String("title", "gbwindow", "window title")
	flag.Parse()

	if *romPath == "" {
		log.Fatal("-rom is required")
	}

	gb := gameboy.New(gbconfig.Config{})
	if *bootPath != "" {
		if err := gb.LoadBootROMFile(*bootPath); err != nil {
			log.Fatalf("load boot rom: %v", err)
		}
	}
	if err := gb.LoadROMFromFile(*romPath); err != nil {
		log.Fatalf("load rom: %v", err)
	}

	ebiten.SetWindowTitle(*title)
	ebiten.SetWindowSize(screenW**scale, screenH**scale)
	if err := ebiten.RunGame(&game{gb: gb}); err != nil {
		log.Fatal(err)
	}
}
