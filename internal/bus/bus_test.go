package bus

import (
	"testing"

	"snescore/internal/cartridge"
	"snescore/internal/ppu"
)

func newTestBus(romSize int) *Bus {
	rom := make([]byte, romSize)
	cart := cartridge.New(rom)
	p := ppu.New()
	return New(cart, p)
}

func TestWRAMMirrorRoundTrip(t *testing.T) {
	b := newTestBus(0x8000)

	b.Write(0x000100, 0x42)
	if v := b.Read(0x000100); v != 0x42 {
		t.Fatalf("Read = %#x, want 0x42", v)
	}
	// Mirrored in bank 0x01 low 8KiB too.
	if v := b.Read(0x010100); v != 0x42 {
		t.Fatalf("mirrored Read = %#x, want 0x42", v)
	}
}

func TestBank7EAnd7FAreDistinctWRAMHalves(t *testing.T) {
	b := newTestBus(0x8000)

	b.Write(0x7E0000, 0x11)
	b.Write(0x7F0000, 0x22)

	if v := b.Read(0x7E0000); v != 0x11 {
		t.Fatalf("bank 7E = %#x, want 0x11", v)
	}
	if v := b.Read(0x7F0000); v != 0x22 {
		t.Fatalf("bank 7F = %#x, want 0x22", v)
	}
}

func TestROMWritesAreDiscarded(t *testing.T) {
	b := newTestBus(0x8000)
	before := b.Read(0x008000)
	b.Write(0x008000, before+1)
	after := b.Read(0x008000)
	if after != before {
		t.Fatalf("ROM write was not discarded: before=%#x after=%#x", before, after)
	}
}

func TestSRAMWindowRoundTrip(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x7FD8] = 3 // 32 KiB SRAM
	cart := cartridge.New(rom)
	b := New(cart, ppu.New())

	b.Write(0x006000, 0x99)
	if v := b.Read(0x006000); v != 0x99 {
		t.Fatalf("SRAM round trip = %#x, want 0x99", v)
	}
}

func TestSRAMOutOfRangeReadsZero(t *testing.T) {
	rom := make([]byte, 0x8000) // SRAM size byte 0 -> zero SRAM
	cart := cartridge.New(rom)
	b := New(cart, ppu.New())

	if v := b.Read(0x006000); v != 0 {
		t.Fatalf("unallocated SRAM read = %#x, want 0", v)
	}
}

func TestPPURegisterWindowDelegates(t *testing.T) {
	b := newTestBus(0x8000)
	b.Write(0x002100, 0x80) // forced blank on

	if !b.PPU.ForcedBlank {
		t.Fatal("expected PPU.ForcedBlank true after bus write to 0x2100")
	}
}

func TestUnmappedReadReturnsZero(t *testing.T) {
	b := newTestBus(0x8000)
	if v := b.Read(0xC00000); v != 0 {
		t.Fatalf("LoROM bank 0xC0 read = %#x, want 0", v)
	}
}

func TestLoROMAddressMapping(t *testing.T) {
	rom := make([]byte, 0x40000)
	rom[0] = 0xAB
	rom[0x8000-0x8000] = 0xAB
	cart := cartridge.New(rom)
	cart.Layout = cartridge.LoROM
	b := New(cart, ppu.New())

	v := b.Read(0x008000) // bank 0, offset 0x8000 -> rom_index 0
	if v != 0xAB {
		t.Fatalf("LoROM bank0 offset 0x8000 = %#x, want 0xAB", v)
	}
}

func TestHiROMAddressMapping(t *testing.T) {
	rom := make([]byte, 0x40000)
	rom[0x1234] = 0xCD
	cart := cartridge.New(rom)
	cart.Layout = cartridge.HiROM
	b := New(cart, ppu.New())

	v := b.Read(0x401234) // bank 0x40, offset 0x1234 -> rom_index 0x1234
	if v != 0xCD {
		t.Fatalf("HiROM bank0x40 offset 0x1234 = %#x, want 0xCD", v)
	}
}

func TestSRAMImportTruncatesToAllocatedSize(t *testing.T) {
	rom := make([]byte, 0x8000)
	rom[0x7FD8] = 1 // 2 KiB
	cart := cartridge.New(rom)
	b := New(cart, ppu.New())

	oversized := make([]byte, 4*1024)
	for i := range oversized {
		oversized[i] = 0x7
	}
	b.ImportSRAM(oversized)

	if len(b.SRAM) != 2*1024 {
		t.Fatalf("SRAM len = %d, want 2048", len(b.SRAM))
	}
	exported := b.ExportSRAM()
	if len(exported) != 2*1024 {
		t.Fatalf("exported len = %d, want 2048", len(exported))
	}
}
