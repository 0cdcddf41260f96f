package ppu

import "testing"

func TestFullFrameReturnsToStartWithOneFrameCompleteEdge(t *testing.T) {
	p := New()

	total := dotsPerScanline * scanlinesPerFrame
	frameCompleteEdges := 0
	prevComplete := p.FrameComplete
	for i := 0; i < total; i++ {
		p.Step()
		if p.FrameComplete && !prevComplete {
			frameCompleteEdges++
		}
		prevComplete = p.FrameComplete
	}

	if p.Dot != 0 || p.Scanline != 0 {
		t.Fatalf("Dot=%d Scanline=%d, want (0,0) after one full frame", p.Dot, p.Scanline)
	}
	if frameCompleteEdges != 1 {
		t.Fatalf("frameCompleteEdges = %d, want 1", frameCompleteEdges)
	}
}

func TestNMIEdgeOnlyWhenEnabled(t *testing.T) {
	p := New()
	p.NMIEnable = false

	sawEdge := false
	for i := 0; i < dotsPerScanline*(vblankStartScanline+1); i++ {
		if p.Step() {
			sawEdge = true
		}
	}
	if sawEdge {
		t.Fatal("NMI edge raised while NMI-enable was clear")
	}

	p2 := New()
	p2.NMIEnable = true
	sawEdge = false
	for i := 0; i < dotsPerScanline*(vblankStartScanline+1); i++ {
		if p2.Step() {
			sawEdge = true
		}
	}
	if !sawEdge {
		t.Fatal("expected NMI edge on entry to scanline 224 with NMI-enable set")
	}
}

func TestHBlankFlag(t *testing.T) {
	p := New()
	for i := 0; i < hblankStartDot; i++ {
		p.Step()
	}
	if p.HBlank {
		t.Fatal("HBlank should be false before dot 256")
	}
	p.Step()
	if !p.HBlank {
		t.Fatal("HBlank should be true at/after dot 256")
	}
}

func TestForcedBlankSuppressesRenderingWithoutClearingFramebuffer(t *testing.T) {
	p := New()
	p.CGRAM[2] = 0xFF
	p.CGRAM[3] = 0x7F
	p.VRAM[0] = 0x01 // tile index 1 at map (0,0)
	p.VRAM[0x4000+32+2] = 0xFF // plane 0 of tile 1, row 1 (the row scanline 1 samples)

	p.Backgrounds[0].Enabled = true
	for i := 0; i < dotsPerScanline; i++ {
		p.Step()
	}
	fb := append([]uint32(nil), p.FrameBuffer()...)

	p.WriteRegister(0x2100, 0x80) // forced blank on
	for i := 0; i < dotsPerScanline; i++ {
		p.Step()
	}
	fbAfter := p.FrameBuffer()

	if fbAfter[frameWidth] != fb[frameWidth] {
		t.Fatal("forced blank should not clear previously rendered rows")
	}
}

func TestVRAMWriteReadRoundTrip(t *testing.T) {
	p := New()
	p.WriteRegister(0x2116, 0x34)
	p.WriteRegister(0x2117, 0x12)
	p.WriteRegister(0x2118, 0xAB)
	p.WriteRegister(0x2119, 0xCD)

	p.WriteRegister(0x2116, 0x34)
	p.WriteRegister(0x2117, 0x12)
	lo := p.ReadRegister(0x2139)
	hi := p.ReadRegister(0x213A)

	if lo != 0xAB || hi != 0xCD {
		t.Fatalf("VRAM round trip = (%#x,%#x), want (0xAB,0xCD)", lo, hi)
	}
}

func TestStatusReadAssemblesFlags(t *testing.T) {
	p := New()
	p.NMIEnable = true
	for i := 0; i < dotsPerScanline*(vblankStartScanline+1); i++ {
		p.Step()
	}
	status := p.ReadRegister(0x213E)
	if status&0x80 == 0 {
		t.Fatal("expected V-blank bit set in status")
	}
	if status&0x01 == 0 {
		t.Fatal("expected NMI-pending bit set in status before read-clear")
	}
	status2 := p.ReadRegister(0x213E)
	if status2&0x01 != 0 {
		t.Fatal("NMI-pending bit should clear after status read")
	}
}
