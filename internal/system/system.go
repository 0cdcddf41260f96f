// Package system composes CPU, Bus and PPU into the single Step() scheduling
// primitive a host loop drives. System owns Bus and PPU directly — no
// shared/ref-counted ownership — per the REDESIGN FLAG against the source's
// Rc<RefCell<>> pattern.
package system

import (
	"encoding/json"

	"snescore/internal/bus"
	"snescore/internal/cartridge"
	"snescore/internal/cpu"
	"snescore/internal/debug"
	"snescore/internal/ppu"
)

// cyclesPerPPUTick is the fixed ratio between one CPU cycle and the number
// of PPU dot-ticks it is worth.
const cyclesPerPPUTick = 4

// System is the composition root: one CPU step's cycle cost drives a fixed
// multiple of PPU ticks, and an NMI edge observed during those ticks is
// taken before the next CPU step.
type System struct {
	CPU *cpu.CPU
	Bus *bus.Bus
	PPU *ppu.PPU

	Sink debug.Sink
}

// New constructs a System from a raw cartridge image, wiring PPU into Bus
// as an explicit collaborator and loading the CPU's reset vector.
func New(romData []byte) *System {
	cart := cartridge.New(romData)
	p := ppu.New()
	b := bus.New(cart, p)
	c := cpu.New()
	c.LoadResetVector(b)

	return &System{CPU: c, Bus: b, PPU: p, Sink: debug.NullSink{}}
}

// SetSink installs sink on System and propagates it to CPU, Bus and PPU so
// every diagnostic in the core routes through the same collaborator.
func (s *System) SetSink(sink debug.Sink) {
	s.Sink = sink
	s.CPU.Sink = sink
	s.Bus.Sink = sink
	s.PPU.Sink = sink
}

// Step executes exactly one CPU instruction, ticks the PPU cyclesPerPPUTick
// times per CPU cycle consumed, and enters the NMI handler if an NMI edge
// was latched during those ticks and the PPU's NMI-enable bit is still set.
//
// Per the REDESIGN FLAG resolving the open question on NMI masking, entry
// is gated only on PPU.NMIEnable — the CPU's I flag never blocks NMI on the
// 65C816, unlike the source this core corrects.
func (s *System) Step() int {
	cycles := s.CPU.Step(s.Bus)

	nmiLatched := false
	for i := 0; i < cycles*cyclesPerPPUTick; i++ {
		if s.PPU.Step() {
			nmiLatched = true
		}
	}

	if nmiLatched && s.PPU.NMIEnable {
		s.CPU.TriggerNMI(s.Bus)
	}

	return cycles
}

// Reset zeros CPU and PPU state, clears WRAM, and reloads the CPU's reset
// vector. SRAM and the cartridge image are untouched.
func (s *System) Reset() {
	s.Bus.Reset()
	s.PPU.Reset()
	s.CPU.Reset()
	s.CPU.LoadResetVector(s.Bus)
}

// snapshot is the JSON-serializable save-state payload: CPU register/mode
// state, PPU timing/register state (VRAM/OAM/CGRAM included), WRAM, and
// SRAM. The cartridge image itself is not part of a snapshot — it is
// supplied externally on Restore.
type snapshot struct {
	CPU struct {
		A, X, Y, SP, PC, DP uint16
		DB, PB, P           byte
		E                   bool
		Cycles              uint64
	}
	PPU struct {
		Dot, Scanline                       int
		VBlank, HBlank, FrameComplete       bool
		ForcedBlank                         bool
		MasterBright, VideoMode, SpriteSize byte
		SpriteEnable                        bool
		NMIEnable                           bool
		Backgrounds                         [4]ppu.Background
		VRAM                                []byte
		OAM                                 []byte
		CGRAM                               []byte
	}
	WRAM []byte
	SRAM []byte
}

// Snapshot serializes the current runtime state to JSON.
func (s *System) Snapshot() ([]byte, error) {
	var snap snapshot
	snap.CPU.A, snap.CPU.X, snap.CPU.Y = s.CPU.A, s.CPU.X, s.CPU.Y
	snap.CPU.SP, snap.CPU.PC, snap.CPU.DP = s.CPU.SP, s.CPU.PC, s.CPU.DP
	snap.CPU.DB, snap.CPU.PB, snap.CPU.P = s.CPU.DB, s.CPU.PB, s.CPU.P
	snap.CPU.E = s.CPU.E
	snap.CPU.Cycles = s.CPU.Cycles

	snap.PPU.Dot, snap.PPU.Scanline = s.PPU.Dot, s.PPU.Scanline
	snap.PPU.VBlank, snap.PPU.HBlank, snap.PPU.FrameComplete = s.PPU.VBlank, s.PPU.HBlank, s.PPU.FrameComplete
	snap.PPU.ForcedBlank = s.PPU.ForcedBlank
	snap.PPU.MasterBright, snap.PPU.VideoMode, snap.PPU.SpriteSize = s.PPU.MasterBright, s.PPU.VideoMode, s.PPU.SpriteSize
	snap.PPU.SpriteEnable = s.PPU.SpriteEnable
	snap.PPU.NMIEnable = s.PPU.NMIEnable
	snap.PPU.Backgrounds = s.PPU.Backgrounds
	snap.PPU.VRAM = append([]byte(nil), s.PPU.VRAM[:]...)
	snap.PPU.OAM = append([]byte(nil), s.PPU.OAM[:]...)
	snap.PPU.CGRAM = append([]byte(nil), s.PPU.CGRAM[:]...)

	snap.WRAM = append([]byte(nil), s.Bus.WRAM[:]...)
	snap.SRAM = s.Bus.ExportSRAM()

	return json.Marshal(snap)
}

// Restore loads a snapshot produced by Snapshot back into the live system.
// The cartridge image is not touched — the caller must construct System
// against the matching ROM before restoring.
func (s *System) Restore(data []byte) error {
	var snap snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return err
	}

	s.CPU.A, s.CPU.X, s.CPU.Y = snap.CPU.A, snap.CPU.X, snap.CPU.Y
	s.CPU.SP, s.CPU.PC, s.CPU.DP = snap.CPU.SP, snap.CPU.PC, snap.CPU.DP
	s.CPU.DB, s.CPU.PB, s.CPU.P = snap.CPU.DB, snap.CPU.PB, snap.CPU.P
	s.CPU.E = snap.CPU.E
	s.CPU.Cycles = snap.CPU.Cycles

	s.PPU.Dot, s.PPU.Scanline = snap.PPU.Dot, snap.PPU.Scanline
	s.PPU.VBlank, s.PPU.HBlank, s.PPU.FrameComplete = snap.PPU.VBlank, snap.PPU.HBlank, snap.PPU.FrameComplete
	s.PPU.ForcedBlank = snap.PPU.ForcedBlank
	s.PPU.MasterBright, s.PPU.VideoMode, s.PPU.SpriteSize = snap.PPU.MasterBright, snap.PPU.VideoMode, snap.PPU.SpriteSize
	s.PPU.SpriteEnable = snap.PPU.SpriteEnable
	s.PPU.NMIEnable = snap.PPU.NMIEnable
	s.PPU.Backgrounds = snap.PPU.Backgrounds
	copy(s.PPU.VRAM[:], snap.PPU.VRAM)
	copy(s.PPU.OAM[:], snap.PPU.OAM)
	copy(s.PPU.CGRAM[:], snap.PPU.CGRAM)

	copy(s.Bus.WRAM[:], snap.WRAM)
	s.Bus.ImportSRAM(snap.SRAM)

	return nil
}
