package ppu

// WriteRegister handles a write into the 0x2100-0x21FF PPU register window,
// plus 0x4200 (NMI enable), which is routed here per spec even though it is
// nominally a CPU-interrupt register.
func (p *PPU) WriteRegister(reg uint16, v byte) {
	switch reg {
	case 0x2100:
		p.ForcedBlank = v&0x80 != 0
		p.MasterBright = v & 0x0F
	case 0x2101:
		p.SpriteSize = v & 0x07
	case 0x2105:
		p.VideoMode = v & 0x07
		tileSizeBits := v >> 4
		for i := range p.Backgrounds {
			p.Backgrounds[i].TileSize = tileSizeBits&(1<<uint(i)) != 0
		}
	case 0x2116, 0x2117:
		p.writeVRAMAddrLatch(reg, v)
	case 0x2118, 0x2119:
		p.writeVRAMData(reg, v)
	case 0x2121:
		p.cgramAddr = v
	case 0x2122:
		p.writeCGRAMData(v)
	case 0x2102, 0x2103:
		p.writeOAMAddrLatch(reg, v)
	case 0x2104:
		p.writeOAMData(v)
	case 0x212C:
		for i := range p.Backgrounds {
			p.Backgrounds[i].Enabled = v&(1<<uint(i)) != 0
		}
		p.SpriteEnable = v&0x10 != 0
	case 0x4200:
		p.NMIEnable = v&0x80 != 0
	default:
		// Writes to every other register, including the background
		// scroll registers, are discarded; Background.HScroll/VScroll
		// change only when set directly on the struct.
	}
}

func (p *PPU) writeVRAMAddrLatch(reg uint16, v byte) {
	if reg == 0x2116 {
		p.vramAddr = (p.vramAddr & 0xFF00) | uint16(v)
	} else {
		p.vramAddr = (p.vramAddr & 0x00FF) | uint16(v)<<8
	}
}

func (p *PPU) writeVRAMData(reg uint16, v byte) {
	addr := int(p.vramAddr) * 2
	if reg == 0x2119 {
		addr++
	}
	if addr >= 0 && addr < vramSize {
		p.VRAM[addr] = v
	}
	if reg == 0x2119 {
		p.vramAddr++
	}
}

func (p *PPU) writeCGRAMData(v byte) {
	addr := int(p.cgramAddr)
	if addr < cgramSize {
		p.CGRAM[addr] = v
	}
	p.cgramAddr++
}

func (p *PPU) writeOAMAddrLatch(reg uint16, v byte) {
	if reg == 0x2102 {
		p.oamAddr = (p.oamAddr & 0xFF00) | uint16(v)
	} else {
		p.oamAddr = (p.oamAddr & 0x00FF) | uint16(v&0x01)<<8
	}
}

func (p *PPU) writeOAMData(v byte) {
	addr := int(p.oamAddr)
	if addr < oamSize {
		p.OAM[addr] = v
	}
	p.oamAddr++
}

// ReadRegister handles a read from the 0x2100-0x21FF window. Status reads
// at 0x213E/0x213F assemble V-blank, H-blank and NMI-pending into one byte
// and clear the NMI-pending latch as a read side effect, matching real
// hardware's read-to-acknowledge convention.
func (p *PPU) ReadRegister(reg uint16) byte {
	switch reg {
	case 0x2139:
		addr := int(p.vramAddr) * 2
		if addr >= 0 && addr < vramSize {
			return p.VRAM[addr]
		}
		return 0
	case 0x213A:
		addr := int(p.vramAddr)*2 + 1
		if addr >= 0 && addr < vramSize {
			return p.VRAM[addr]
		}
		return 0
	case 0x213E, 0x213F:
		var status byte
		if p.VBlank {
			status |= 0x80
		}
		if p.HBlank {
			status |= 0x40
		}
		if p.nmiPending {
			status |= 0x01
		}
		p.nmiPending = false
		return status
	default:
		return 0
	}
}
