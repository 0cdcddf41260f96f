// Package main implements the snescore command-line harness: it loads a
// cartridge image, then either runs headless for a bounded number of
// frames or opens a windowed viewer.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"snescore/internal/config"
	"snescore/internal/debug"
	"snescore/internal/graphics"
	"snescore/internal/system"
	"snescore/internal/version"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to configuration file")
		headless   = flag.Bool("headless", false, "Run without a window")
		frames     = flag.Int("frames", 0, "Stop after this many rendered frames (0 = run until window closes)")
		debugFlag  = flag.Bool("debug", false, "Enable per-instruction trace logging")
		showHelp   = flag.Bool("help", false, "Show help message")
		showVer    = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *showHelp {
		printUsage()
		os.Exit(0)
	}
	if *showVer {
		fmt.Println(version.GetDetailedVersion())
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "snescore: missing cartridge file")
		printUsage()
		os.Exit(1)
	}
	romPath := args[0]

	cfg := config.New()
	if *configFile != "" {
		if err := cfg.LoadFromFile(*configFile); err != nil {
			log.Fatalf("failed to load config: %v", err)
		}
	}
	if *headless {
		cfg.Video.Backend = "headless"
	}

	romData, err := os.ReadFile(romPath)
	if err != nil {
		log.Fatalf("failed to read cartridge %q: %v", romPath, err)
	}

	sys := system.New(romData)
	sink := debug.NewStdSink(log.Default(), *debugFlag)
	sys.SetSink(sink)

	fmt.Printf("snescore: loaded %s (%s, %d KiB SRAM)\n", romPath, sys.Bus.Cart.Title, sys.Bus.Cart.SRAMSize/1024)

	if cfg.Video.Backend == "headless" {
		runHeadless(sys, *frames)
		return
	}
	if err := runWindowed(sys, cfg, *frames); err != nil {
		log.Fatalf("windowed run failed: %v", err)
	}
}

// runHeadless advances the system without a viewer, stopping after
// targetFrames frame-complete edges (or forever if targetFrames is 0 — an
// operator is expected to interrupt it).
func runHeadless(sys *system.System, targetFrames int) {
	frameCount := 0
	prevComplete := sys.PPU.FrameComplete
	for targetFrames == 0 || frameCount < targetFrames {
		sys.Step()
		if sys.PPU.FrameComplete && !prevComplete {
			frameCount++
		}
		prevComplete = sys.PPU.FrameComplete
	}
	fmt.Printf("snescore: ran %d frames headless\n", frameCount)
}

// runWindowed opens a viewer backend and drives the system one instruction
// (one System.Step call) per ebiten Update tick, presenting the framebuffer
// on every frame-complete edge.
func runWindowed(sys *system.System, cfg *config.Config, targetFrames int) error {
	backend := graphics.NewBackend(graphics.BackendType(cfg.Video.Backend))
	if err := backend.Initialize(graphics.Config{
		WindowTitle:  "snescore",
		WindowWidth:  cfg.Window.Width,
		WindowHeight: cfg.Window.Height,
		VSync:        cfg.Video.VSync,
	}); err != nil {
		return fmt.Errorf("initialize backend: %w", err)
	}
	defer backend.Cleanup()

	win, err := backend.CreateWindow("snescore", cfg.Window.Width, cfg.Window.Height)
	if err != nil {
		return fmt.Errorf("create window: %w", err)
	}
	defer win.Cleanup()

	ebWin, ok := win.(*graphics.EbitengineWindow)
	if !ok {
		return fmt.Errorf("windowed mode requires the ebitengine backend")
	}

	frameCount := 0
	prevComplete := sys.PPU.FrameComplete
	ebWin.SetStepFunc(func() error {
		sys.Step()
		if sys.PPU.FrameComplete && !prevComplete {
			frameCount++
			if err := win.RenderFrame(sys.PPU.FrameBuffer()); err != nil {
				return err
			}
			if targetFrames != 0 && frameCount >= targetFrames {
				return fmt.Errorf("reached target frame count")
			}
		}
		prevComplete = sys.PPU.FrameComplete
		return nil
	})

	return ebWin.Run()
}

func printUsage() {
	fmt.Println("snescore - SNES emulator core harness")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  snescore <rom-file> [options]")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
}
