// Package ppu implements the scanline/dot timing loop and the mode-0
// tile-and-sprite compositor that produces a 256x224 RGB888 framebuffer.
//
// PPU owns VRAM, OAM and CGRAM directly: on real hardware these arrays are
// only reachable through PPU-mediated registers, so Bus delegates the
// 0x2100..0x21FF window to PPU rather than holding the arrays itself.
package ppu

import "snescore/internal/debug"

const (
	dotsPerScanline      = 341
	scanlinesPerFrame    = 262
	vblankStartScanline  = 224
	hblankStartDot       = 256
	frameWidth           = 256
	frameHeight          = 224
	vramSize             = 64 * 1024
	oamSize              = 544
	cgramSize            = 512
	numBackgrounds       = 4
	numSprites           = 128
)

// Background describes one of the four mode-0 tile layers.
type Background struct {
	Enabled  bool
	Priority bool
	TileSize bool // false = 8x8, true = 16x16
	HScroll  uint16
	VScroll  uint16
}

// PPU holds scanline/dot timing state, VRAM/OAM/CGRAM, and the register
// latches the 0x2100-0x21FF window exposes.
type PPU struct {
	Dot      int
	Scanline int

	VBlank         bool
	HBlank         bool
	FrameComplete  bool
	ForcedBlank    bool
	MasterBright   byte
	VideoMode      byte
	SpriteSize     byte
	SpriteEnable   bool
	Backgrounds    [numBackgrounds]Background
	NMIEnable      bool
	nmiPending     bool

	VRAM  [vramSize]byte
	OAM   [oamSize]byte
	CGRAM [cgramSize]byte

	vramAddr  uint16
	cgramAddr byte
	oamAddr   uint16

	lineBuffer  [frameWidth]byte
	framebuffer [frameWidth * frameHeight]uint32

	Sink debug.Sink
}

// New constructs a PPU with all state zeroed, matching power-on.
func New() *PPU {
	return &PPU{Sink: debug.NullSink{}}
}

// Reset returns the PPU to its zero state without reallocating VRAM/OAM/CGRAM
// backing arrays (they are zeroed in place).
func (p *PPU) Reset() {
	p.Dot, p.Scanline = 0, 0
	p.VBlank, p.HBlank = false, false
	p.FrameComplete = false
	p.ForcedBlank = false
	p.MasterBright = 0
	p.VideoMode = 0
	p.SpriteSize = 0
	p.SpriteEnable = false
	p.Backgrounds = [numBackgrounds]Background{}
	p.NMIEnable = false
	p.nmiPending = false
	for i := range p.VRAM {
		p.VRAM[i] = 0
	}
	for i := range p.OAM {
		p.OAM[i] = 0
	}
	for i := range p.CGRAM {
		p.CGRAM[i] = 0
	}
	p.vramAddr, p.cgramAddr, p.oamAddr = 0, 0, 0
	p.lineBuffer = [frameWidth]byte{}
}

// Step advances the dot/scanline counter by one PPU cycle and returns true
// iff this tick is the NMI edge: the transition into scanline 224 while
// NMI-enable is set.
func (p *PPU) Step() bool {
	p.HBlank = p.Dot >= hblankStartDot
	nmiEdge := false

	p.Dot++
	if p.Dot < dotsPerScanline {
		return false
	}
	p.Dot = 0
	p.Scanline++

	switch {
	case p.Scanline >= 0 && p.Scanline <= 223:
		p.VBlank = false
		if !p.ForcedBlank {
			p.renderScanline(p.Scanline)
		}
	case p.Scanline == vblankStartScanline:
		p.VBlank = true
		p.FrameComplete = true
		if p.NMIEnable {
			p.nmiPending = true
			nmiEdge = true
		}
	case p.Scanline >= 225 && p.Scanline <= 261:
		p.VBlank = true
	case p.Scanline >= scanlinesPerFrame:
		p.Scanline = 0
		p.FrameComplete = false
		p.nmiPending = false
		p.VBlank = false
		if !p.ForcedBlank {
			p.renderScanline(0)
		}
	}
	return nmiEdge
}

// FrameBuffer returns the flattened 256x224 RGB888 framebuffer.
func (p *PPU) FrameBuffer() []uint32 {
	return p.framebuffer[:]
}

// renderScanline composes backgrounds then sprites into the line buffer,
// then resolves palette indices through CGRAM into the framebuffer row.
func (p *PPU) renderScanline(scanline int) {
	p.lineBuffer = [frameWidth]byte{}

	for bgIdx := range p.Backgrounds {
		bg := &p.Backgrounds[bgIdx]
		if !bg.Enabled {
			continue
		}
		p.renderBackground(bg, bgIdx, scanline)
	}
	if p.SpriteEnable {
		p.renderSprites(scanline)
	}

	for x := 0; x < frameWidth; x++ {
		idx := p.lineBuffer[x]
		p.framebuffer[scanline*frameWidth+x] = p.resolveColor(idx)
	}
}

// tileMapBase/tileDataBase are fixed offsets into VRAM for the single
// mode-0 background set this core implements; a complete implementation
// would derive these from per-background register fields, but mode 0 is
// the only mode in scope and a single shared tile set suffices.
const (
	tileMapBase  = 0x0000
	tileDataBase = 0x4000
)

func (p *PPU) renderBackground(bg *Background, bgIndex int, scanline int) {
	for px := 0; px < frameWidth; px++ {
		x := (px + int(bg.HScroll)) & 0xFF
		y := (scanline + int(bg.VScroll)) & 0xFF

		tileX := x / 8
		tileY := y / 8
		subRow := y % 8

		mapOffset := tileMapBase + (tileY*32+tileX)*2
		if mapOffset+1 >= vramSize {
			continue
		}
		tileEntry := uint16(p.VRAM[mapOffset]) | uint16(p.VRAM[mapOffset+1])<<8
		tileIndex := tileEntry & 0x03FF

		planeBase := tileDataBase + int(tileIndex)*32 + subRow*2
		if planeBase+17 >= vramSize {
			continue
		}
		plane0 := p.VRAM[planeBase]
		plane1 := p.VRAM[planeBase+1]
		plane2 := p.VRAM[planeBase+16]
		plane3 := p.VRAM[planeBase+17]

		bit := 7 - (x % 8)
		b0 := (plane0 >> bit) & 1
		b1 := (plane1 >> bit) & 1
		b2 := (plane2 >> bit) & 1
		b3 := (plane3 >> bit) & 1
		paletteIdx := b0 | b1<<1 | b2<<2 | b3<<3

		if paletteIdx != 0 {
			p.lineBuffer[px] = paletteIdx
		}
	}
}

const spriteTileDataBase = 0x8000

func (p *PPU) renderSprites(scanline int) {
	for i := 0; i < numSprites; i++ {
		base := i * 4
		if base+3 >= oamSize {
			break
		}
		spriteX := int(p.OAM[base])
		spriteY := int(p.OAM[base+1])
		tileIndex := int(p.OAM[base+2])

		if scanline < spriteY || scanline >= spriteY+8 {
			continue
		}
		subRow := scanline - spriteY

		planeBase := spriteTileDataBase + tileIndex*32 + subRow*2
		if planeBase+17 >= vramSize {
			continue
		}
		plane0 := p.VRAM[planeBase]
		plane1 := p.VRAM[planeBase+1]
		plane2 := p.VRAM[planeBase+16]
		plane3 := p.VRAM[planeBase+17]

		for col := 0; col < 8; col++ {
			px := spriteX + col
			if px < 0 || px >= frameWidth {
				continue
			}
			bit := 7 - col
			b0 := (plane0 >> bit) & 1
			b1 := (plane1 >> bit) & 1
			b2 := (plane2 >> bit) & 1
			b3 := (plane3 >> bit) & 1
			paletteIdx := b0 | b1<<1 | b2<<2 | b3<<3
			if paletteIdx != 0 {
				p.lineBuffer[px] = 16 + paletteIdx
			}
		}
	}
}

// resolveColor expands a 15-bit BGR color-RAM entry to 0x00RRGGBB.
func (p *PPU) resolveColor(paletteIndex byte) uint32 {
	off := int(paletteIndex) * 2
	if off+1 >= cgramSize {
		return 0
	}
	color := uint16(p.CGRAM[off]) | uint16(p.CGRAM[off+1])<<8
	r5 := color & 0x1F
	g5 := (color >> 5) & 0x1F
	b5 := (color >> 10) & 0x1F

	r := uint32(r5<<3 | r5>>2)
	g := uint32(g5<<3 | g5>>2)
	b := uint32(b5<<3 | b5>>2)
	return r<<16 | g<<8 | b
}
