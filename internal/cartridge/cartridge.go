// Package cartridge implements ROM loading and header parsing for SNES
// cartridge images.
package cartridge

import "strings"

// Layout is the cartridge's memory-mapping convention.
type Layout int

const (
	LoROM Layout = iota
	HiROM
)

const (
	loROMHeaderOffset = 0x7FC0
	hiROMHeaderOffset = 0xFFC0
	headerTitleLen    = 21
	headerChecksumOff = 0x1C
	headerSRAMOff     = 0x18 // relative to header base; FFD8/7FD8
	copierHeaderSize  = 512
)

var sramSizeTable = [5]int{0, 2 * 1024, 8 * 1024, 32 * 1024, 128 * 1024}

// Cartridge owns an immutable ROM image plus header-derived metadata.
type Cartridge struct {
	rom []byte

	Layout   Layout
	Title    string
	SRAMSize int

	// Extended header, only populated when the old maker-code byte is 0x33.
	MakerCode        string
	GameCode         string
	ExpansionRAMSize int
	SpecialVersion   byte
	CartridgeSubType byte
}

// New constructs a Cartridge from a raw ROM byte sequence, stripping an
// optional 512-byte copier header and detecting the LoROM/HiROM layout.
func New(data []byte) *Cartridge {
	if len(data)%1024 == copierHeaderSize {
		data = data[copierHeaderSize:]
	}

	rom := make([]byte, len(data))
	copy(rom, data)

	c := &Cartridge{rom: rom}
	c.detectLayout()
	c.parseHeader()
	return c
}

// detectLayout picks LoROM or HiROM by comparing checksum+complement at
// each candidate header offset; the layout whose sum is 0xFFFF wins. Ties
// or an undersized ROM default to LoROM.
func (c *Cartridge) detectLayout() {
	loOK := c.checksumValid(loROMHeaderOffset)
	hiOK := c.checksumValid(hiROMHeaderOffset)

	if hiOK && !loOK {
		c.Layout = HiROM
		return
	}
	c.Layout = LoROM
}

func (c *Cartridge) checksumValid(headerBase int) bool {
	off := headerBase + headerChecksumOff
	if off+4 > len(c.rom) {
		return false
	}
	checksum := uint16(c.rom[off]) | uint16(c.rom[off+1])<<8
	complement := uint16(c.rom[off+2]) | uint16(c.rom[off+3])<<8
	return checksum+complement == 0xFFFF
}

func (c *Cartridge) parseHeader() {
	base := loROMHeaderOffset
	if c.Layout == HiROM {
		base = hiROMHeaderOffset
	}

	if base+32 > len(c.rom) {
		c.Title = "Unknown"
		c.SRAMSize = 0
		return
	}

	c.Title = strings.TrimRight(string(c.rom[base:base+headerTitleLen]), " \x00")
	if c.Title == "" {
		c.Title = "Unknown"
	}

	sramExp := c.rom[base+headerSRAMOff]
	if int(sramExp) < len(sramSizeTable) {
		c.SRAMSize = sramSizeTable[sramExp]
	} else {
		c.SRAMSize = 32 * 1024
	}

	makerOld := c.rom[base+0x1A]
	if makerOld == 0x33 {
		extBase := base - 0x10
		if extBase >= 0 && extBase+16 <= len(c.rom) {
			ext := c.rom[extBase : extBase+16]
			c.MakerCode = strings.TrimRight(string(ext[0:2]), " \x00")
			c.GameCode = strings.TrimRight(string(ext[2:6]), " \x00")
			expExp := ext[13]
			if expExp > 0 && expExp < 16 {
				c.ExpansionRAMSize = (1 << expExp) * 1024
			}
			c.SpecialVersion = ext[14]
			c.CartridgeSubType = ext[15]
		}
	}
}

// ROM returns the immutable cartridge image, stripped of any copier header.
func (c *Cartridge) ROM() []byte {
	return c.rom
}

// ReadROM returns the byte at rom_index, or 0 if out of range. The caller
// is responsible for translating bank/offset into rom_index per the
// LoROM/HiROM formulas in the bus package.
func (c *Cartridge) ReadROM(romIndex int) byte {
	if romIndex < 0 || romIndex >= len(c.rom) {
		return 0
	}
	return c.rom[romIndex]
}
