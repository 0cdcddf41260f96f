package cpu

// execFunc runs one decoded instruction and returns the cycle count it
// consumed, including any width-dependent surcharge.
type execFunc func(c *CPU, m Memory, mode AddrMode, baseCycles int) int

// instruction is one entry of the 256-slot static opcode table.
type instruction struct {
	Mnemonic   string
	Mode       AddrMode
	BaseCycles int
	Exec       execFunc
}

var opcodeTable [256]instruction

func op(code byte, mnemonic string, mode AddrMode, cycles int, fn execFunc) {
	opcodeTable[code] = instruction{Mnemonic: mnemonic, Mode: mode, BaseCycles: cycles, Exec: fn}
}

// widthSurcharge adds one cycle for a 16-bit width access, approximating
// the extra byte fetch/write a wide operand costs over an 8-bit one.
func widthSurcharge(width8 bool) int {
	if width8 {
		return 0
	}
	return 1
}

func maskWidth(v uint16, width8 bool) uint16 {
	if width8 {
		return v & 0x00FF
	}
	return v
}

func signBit(v uint16, width8 bool) bool {
	if width8 {
		return v&0x80 != 0
	}
	return v&0x8000 != 0
}

func widthMask(width8 bool) uint16 {
	if width8 {
		return 0x00FF
	}
	return 0xFFFF
}

func init() {
	registerLoadStore()
	registerArithmetic()
	registerLogical()
	registerCompare()
	registerShift()
	registerTransfer()
	registerStack()
	registerSubroutine()
	registerFlagOps()
	registerJumpBranch()
	registerModeOps()

	op(0xEA, "NOP", AddrImplied, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		return base
	})
}

func registerLoadStore() {
	ldaFn := func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		v, _ := c.readOperand(m, mode, width8)
		v = maskWidth(v, width8)
		if width8 {
			c.A = (c.A & 0xFF00) | v
		} else {
			c.A = v
		}
		c.setNZ(v, width8)
		return base + widthSurcharge(width8)
	}
	op(0xA9, "LDA", AddrImmediateM, 2, ldaFn)
	op(0xA5, "LDA", AddrDirect, 3, ldaFn)
	op(0xB5, "LDA", AddrDirectX, 4, ldaFn)
	op(0xAD, "LDA", AddrAbsolute, 4, ldaFn)
	op(0xBD, "LDA", AddrAbsoluteX, 4, ldaFn)
	op(0xB9, "LDA", AddrAbsoluteY, 4, ldaFn)
	op(0xAF, "LDA", AddrAbsoluteLong, 5, ldaFn)
	op(0xBF, "LDA", AddrAbsoluteLongX, 5, ldaFn)
	op(0xA1, "LDA", AddrIndirectX, 6, ldaFn)
	op(0xB1, "LDA", AddrIndirectY, 5, ldaFn)

	ldxFn := func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagX()
		v, _ := c.readOperand(m, mode, width8)
		v = maskWidth(v, width8)
		if width8 {
			c.X = (c.X & 0xFF00) | v
		} else {
			c.X = v
		}
		c.setNZ(v, width8)
		return base + widthSurcharge(width8)
	}
	op(0xA2, "LDX", AddrImmediateX, 2, ldxFn)
	op(0xA6, "LDX", AddrDirect, 3, ldxFn)
	op(0xB6, "LDX", AddrDirectY, 4, ldxFn)
	op(0xAE, "LDX", AddrAbsolute, 4, ldxFn)
	op(0xBE, "LDX", AddrAbsoluteY, 4, ldxFn)

	ldyFn := func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagX()
		v, _ := c.readOperand(m, mode, width8)
		v = maskWidth(v, width8)
		if width8 {
			c.Y = (c.Y & 0xFF00) | v
		} else {
			c.Y = v
		}
		c.setNZ(v, width8)
		return base + widthSurcharge(width8)
	}
	op(0xA0, "LDY", AddrImmediateX, 2, ldyFn)
	op(0xA4, "LDY", AddrDirect, 3, ldyFn)
	op(0xB4, "LDY", AddrDirectX, 4, ldyFn)
	op(0xAC, "LDY", AddrAbsolute, 4, ldyFn)
	op(0xBC, "LDY", AddrAbsoluteX, 4, ldyFn)

	staFn := func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		addr := c.effectiveAddr(m, mode)
		c.writeWidth(m, addr, c.A, width8)
		return base + widthSurcharge(width8)
	}
	op(0x85, "STA", AddrDirect, 3, staFn)
	op(0x95, "STA", AddrDirectX, 4, staFn)
	op(0x8D, "STA", AddrAbsolute, 4, staFn)
	op(0x9D, "STA", AddrAbsoluteX, 5, staFn)
	op(0x99, "STA", AddrAbsoluteY, 5, staFn)
	op(0x8F, "STA", AddrAbsoluteLong, 5, staFn)
	op(0x9F, "STA", AddrAbsoluteLongX, 5, staFn)
	op(0x81, "STA", AddrIndirectX, 6, staFn)
	op(0x91, "STA", AddrIndirectY, 6, staFn)

	stxFn := func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagX()
		addr := c.effectiveAddr(m, mode)
		c.writeWidth(m, addr, c.X, width8)
		return base + widthSurcharge(width8)
	}
	op(0x86, "STX", AddrDirect, 3, stxFn)
	op(0x96, "STX", AddrDirectY, 4, stxFn)
	op(0x8E, "STX", AddrAbsolute, 4, stxFn)

	styFn := func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagX()
		addr := c.effectiveAddr(m, mode)
		c.writeWidth(m, addr, c.Y, width8)
		return base + widthSurcharge(width8)
	}
	op(0x84, "STY", AddrDirect, 3, styFn)
	op(0x94, "STY", AddrDirectX, 4, styFn)
	op(0x8C, "STY", AddrAbsolute, 4, styFn)

	stzFn := func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		addr := c.effectiveAddr(m, mode)
		c.writeWidth(m, addr, 0, width8)
		return base + widthSurcharge(width8)
	}
	op(0x64, "STZ", AddrDirect, 3, stzFn)
	op(0x74, "STZ", AddrDirectX, 4, stzFn)
	op(0x9C, "STZ", AddrAbsolute, 4, stzFn)
	op(0x9E, "STZ", AddrAbsoluteX, 5, stzFn)
}

func registerArithmetic() {
	adc := func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		operand, _ := c.readOperand(m, mode, width8)
		mask := widthMask(width8)
		a := c.A & mask
		op := operand & mask
		carryIn := uint16(0)
		if c.getFlag(FlagC) {
			carryIn = 1
		}
		sum := a + op + carryIn
		result := sum & mask
		carryOut := sum > mask
		overflow := signBit(a, width8) == signBit(op, width8) && signBit(a, width8) != signBit(result, width8)

		if width8 {
			c.A = (c.A & 0xFF00) | result
		} else {
			c.A = result
		}
		c.setFlag(FlagC, carryOut)
		c.setFlag(FlagV, overflow)
		c.setNZ(result, width8)
		return base + widthSurcharge(width8)
	}
	op(0x69, "ADC", AddrImmediateM, 2, adc)
	op(0x65, "ADC", AddrDirect, 3, adc)
	op(0x75, "ADC", AddrDirectX, 4, adc)
	op(0x6D, "ADC", AddrAbsolute, 4, adc)
	op(0x7D, "ADC", AddrAbsoluteX, 4, adc)
	op(0x79, "ADC", AddrAbsoluteY, 4, adc)
	op(0x6F, "ADC", AddrAbsoluteLong, 5, adc)
	op(0x7F, "ADC", AddrAbsoluteLongX, 5, adc)
	op(0x61, "ADC", AddrIndirectX, 6, adc)
	op(0x71, "ADC", AddrIndirectY, 5, adc)

	sbc := func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		operand, _ := c.readOperand(m, mode, width8)
		mask := widthMask(width8)
		a := c.A & mask
		op := operand & mask
		borrowIn := uint16(0)
		if !c.getFlag(FlagC) {
			borrowIn = 1
		}
		diff := int32(a) - int32(op) - int32(borrowIn)
		result := uint16(diff) & mask
		carryOut := diff >= 0
		overflow := (a^op)&(a^result)&signMaskBit(width8) != 0

		if width8 {
			c.A = (c.A & 0xFF00) | result
		} else {
			c.A = result
		}
		c.setFlag(FlagC, carryOut)
		c.setFlag(FlagV, overflow)
		c.setNZ(result, width8)
		return base + widthSurcharge(width8)
	}
	op(0xE9, "SBC", AddrImmediateM, 2, sbc)
	op(0xE5, "SBC", AddrDirect, 3, sbc)
	op(0xF5, "SBC", AddrDirectX, 4, sbc)
	op(0xED, "SBC", AddrAbsolute, 4, sbc)
	op(0xFD, "SBC", AddrAbsoluteX, 4, sbc)
	op(0xF9, "SBC", AddrAbsoluteY, 4, sbc)
	op(0xEF, "SBC", AddrAbsoluteLong, 5, sbc)
	op(0xFF, "SBC", AddrAbsoluteLongX, 5, sbc)
	op(0xE1, "SBC", AddrIndirectX, 6, sbc)
	op(0xF1, "SBC", AddrIndirectY, 5, sbc)

	op(0x1A, "INC", AddrAccumulator, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		mask := widthMask(width8)
		result := (c.A&mask + 1) & mask
		if width8 {
			c.A = (c.A & 0xFF00) | result
		} else {
			c.A = result
		}
		c.setNZ(result, width8)
		return base
	})
	op(0x3A, "DEC", AddrAccumulator, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		mask := widthMask(width8)
		result := (c.A&mask - 1) & mask
		if width8 {
			c.A = (c.A & 0xFF00) | result
		} else {
			c.A = result
		}
		c.setNZ(result, width8)
		return base
	})

	incMem := func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		addr := c.effectiveAddr(m, mode)
		v := c.readWidth(m, addr, width8)
		result := (v + 1) & widthMask(width8)
		c.writeWidth(m, addr, result, width8)
		c.setNZ(result, width8)
		return base + widthSurcharge(width8)
	}
	op(0xE6, "INC", AddrDirect, 5, incMem)
	op(0xF6, "INC", AddrDirectX, 6, incMem)
	op(0xEE, "INC", AddrAbsolute, 6, incMem)
	op(0xFE, "INC", AddrAbsoluteX, 7, incMem)

	decMem := func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		addr := c.effectiveAddr(m, mode)
		v := c.readWidth(m, addr, width8)
		result := (v - 1) & widthMask(width8)
		c.writeWidth(m, addr, result, width8)
		c.setNZ(result, width8)
		return base + widthSurcharge(width8)
	}
	op(0xC6, "DEC", AddrDirect, 5, decMem)
	op(0xD6, "DEC", AddrDirectX, 6, decMem)
	op(0xCE, "DEC", AddrAbsolute, 6, decMem)
	op(0xDE, "DEC", AddrAbsoluteX, 7, decMem)
}

func signMaskBit(width8 bool) uint16 {
	if width8 {
		return 0x80
	}
	return 0x8000
}

func registerLogical() {
	logic := func(combine func(a, b uint16) uint16) execFunc {
		return func(c *CPU, m Memory, mode AddrMode, base int) int {
			width8 := c.flagM()
			operand, _ := c.readOperand(m, mode, width8)
			mask := widthMask(width8)
			result := combine(c.A&mask, operand&mask) & mask
			if width8 {
				c.A = (c.A & 0xFF00) | result
			} else {
				c.A = result
			}
			c.setNZ(result, width8)
			return base + widthSurcharge(width8)
		}
	}

	and := logic(func(a, b uint16) uint16 { return a & b })
	op(0x29, "AND", AddrImmediateM, 2, and)
	op(0x25, "AND", AddrDirect, 3, and)
	op(0x35, "AND", AddrDirectX, 4, and)
	op(0x2D, "AND", AddrAbsolute, 4, and)
	op(0x3D, "AND", AddrAbsoluteX, 4, and)
	op(0x39, "AND", AddrAbsoluteY, 4, and)
	op(0x2F, "AND", AddrAbsoluteLong, 5, and)
	op(0x3F, "AND", AddrAbsoluteLongX, 5, and)
	op(0x21, "AND", AddrIndirectX, 6, and)
	op(0x31, "AND", AddrIndirectY, 5, and)

	ora := logic(func(a, b uint16) uint16 { return a | b })
	op(0x09, "ORA", AddrImmediateM, 2, ora)
	op(0x05, "ORA", AddrDirect, 3, ora)
	op(0x15, "ORA", AddrDirectX, 4, ora)
	op(0x0D, "ORA", AddrAbsolute, 4, ora)
	op(0x1D, "ORA", AddrAbsoluteX, 4, ora)
	op(0x19, "ORA", AddrAbsoluteY, 4, ora)
	op(0x0F, "ORA", AddrAbsoluteLong, 5, ora)
	op(0x1F, "ORA", AddrAbsoluteLongX, 5, ora)
	op(0x01, "ORA", AddrIndirectX, 6, ora)
	op(0x11, "ORA", AddrIndirectY, 5, ora)

	eor := logic(func(a, b uint16) uint16 { return a ^ b })
	op(0x49, "EOR", AddrImmediateM, 2, eor)
	op(0x45, "EOR", AddrDirect, 3, eor)
	op(0x55, "EOR", AddrDirectX, 4, eor)
	op(0x4D, "EOR", AddrAbsolute, 4, eor)
	op(0x5D, "EOR", AddrAbsoluteX, 4, eor)
	op(0x59, "EOR", AddrAbsoluteY, 4, eor)
	op(0x4F, "EOR", AddrAbsoluteLong, 5, eor)
	op(0x5F, "EOR", AddrAbsoluteLongX, 5, eor)
	op(0x41, "EOR", AddrIndirectX, 6, eor)
	op(0x51, "EOR", AddrIndirectY, 5, eor)
}

func registerCompare() {
	compare := func(reg func(*CPU) uint16, widthFn func(*CPU) bool) execFunc {
		return func(c *CPU, m Memory, mode AddrMode, base int) int {
			width8 := widthFn(c)
			operand, _ := c.readOperand(m, mode, width8)
			mask := widthMask(width8)
			r := reg(c) & mask
			op := operand & mask
			result := (r - op) & mask
			c.setFlag(FlagC, r >= op)
			c.setNZ(result, width8)
			return base + widthSurcharge(width8)
		}
	}

	cmp := compare(func(c *CPU) uint16 { return c.A }, (*CPU).flagM)
	op(0xC9, "CMP", AddrImmediateM, 2, cmp)
	op(0xC5, "CMP", AddrDirect, 3, cmp)
	op(0xD5, "CMP", AddrDirectX, 4, cmp)
	op(0xCD, "CMP", AddrAbsolute, 4, cmp)
	op(0xDD, "CMP", AddrAbsoluteX, 4, cmp)
	op(0xD9, "CMP", AddrAbsoluteY, 4, cmp)
	op(0xCF, "CMP", AddrAbsoluteLong, 5, cmp)
	op(0xDF, "CMP", AddrAbsoluteLongX, 5, cmp)
	op(0xC1, "CMP", AddrIndirectX, 6, cmp)
	op(0xD1, "CMP", AddrIndirectY, 5, cmp)

	cpx := compare(func(c *CPU) uint16 { return c.X }, (*CPU).flagX)
	op(0xE0, "CPX", AddrImmediateX, 2, cpx)
	op(0xE4, "CPX", AddrDirect, 3, cpx)
	op(0xEC, "CPX", AddrAbsolute, 4, cpx)

	cpy := compare(func(c *CPU) uint16 { return c.Y }, (*CPU).flagX)
	op(0xC0, "CPY", AddrImmediateX, 2, cpy)
	op(0xC4, "CPY", AddrDirect, 3, cpy)
	op(0xCC, "CPY", AddrAbsolute, 4, cpy)
}

func registerShift() {
	op(0x0A, "ASL", AddrAccumulator, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		mask := widthMask(width8)
		v := c.A & mask
		carryOut := v&signMaskBit(width8) != 0
		result := (v << 1) & mask
		if width8 {
			c.A = (c.A & 0xFF00) | result
		} else {
			c.A = result
		}
		c.setFlag(FlagC, carryOut)
		c.setNZ(result, width8)
		return base
	})
	aslMem := func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		mask := widthMask(width8)
		addr := c.effectiveAddr(m, mode)
		v := c.readWidth(m, addr, width8) & mask
		carryOut := v&signMaskBit(width8) != 0
		result := (v << 1) & mask
		c.writeWidth(m, addr, result, width8)
		c.setFlag(FlagC, carryOut)
		c.setNZ(result, width8)
		return base + widthSurcharge(width8)
	}
	op(0x06, "ASL", AddrDirect, 5, aslMem)
	op(0x16, "ASL", AddrDirectX, 6, aslMem)
	op(0x0E, "ASL", AddrAbsolute, 6, aslMem)
	op(0x1E, "ASL", AddrAbsoluteX, 7, aslMem)

	op(0x4A, "LSR", AddrAccumulator, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		mask := widthMask(width8)
		v := c.A & mask
		carryOut := v&0x0001 != 0
		result := (v >> 1) & mask
		if width8 {
			c.A = (c.A & 0xFF00) | result
		} else {
			c.A = result
		}
		c.setFlag(FlagC, carryOut)
		c.setNZ(result, width8)
		return base
	})
	lsrMem := func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		mask := widthMask(width8)
		addr := c.effectiveAddr(m, mode)
		v := c.readWidth(m, addr, width8) & mask
		carryOut := v&0x0001 != 0
		result := (v >> 1) & mask
		c.writeWidth(m, addr, result, width8)
		c.setFlag(FlagC, carryOut)
		c.setNZ(result, width8)
		return base + widthSurcharge(width8)
	}
	op(0x46, "LSR", AddrDirect, 5, lsrMem)
	op(0x56, "LSR", AddrDirectX, 6, lsrMem)
	op(0x4E, "LSR", AddrAbsolute, 6, lsrMem)
	op(0x5E, "LSR", AddrAbsoluteX, 7, lsrMem)
}

func registerTransfer() {
	op(0xAA, "TAX", AddrImplied, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagX()
		v := maskWidth(c.A, width8)
		c.X = v
		c.setNZ(v, width8)
		return base
	})
	op(0x8A, "TXA", AddrImplied, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		v := maskWidth(c.X, width8)
		if width8 {
			c.A = (c.A & 0xFF00) | v
		} else {
			c.A = v
		}
		c.setNZ(v, width8)
		return base
	})
	op(0xA8, "TAY", AddrImplied, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagX()
		v := maskWidth(c.A, width8)
		c.Y = v
		c.setNZ(v, width8)
		return base
	})
	op(0x98, "TYA", AddrImplied, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		v := maskWidth(c.Y, width8)
		if width8 {
			c.A = (c.A & 0xFF00) | v
		} else {
			c.A = v
		}
		c.setNZ(v, width8)
		return base
	})
	op(0x9B, "TXY", AddrImplied, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagX()
		v := maskWidth(c.X, width8)
		c.Y = v
		c.setNZ(v, width8)
		return base
	})
	op(0xBB, "TYX", AddrImplied, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagX()
		v := maskWidth(c.Y, width8)
		c.X = v
		c.setNZ(v, width8)
		return base
	})
	op(0xBA, "TSX", AddrImplied, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagX()
		v := maskWidth(c.SP, width8)
		c.X = v
		c.setNZ(v, width8)
		return base
	})
	op(0x9A, "TXS", AddrImplied, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		c.SP = c.X
		c.applyEInvariant()
		return base
	})
	op(0x1B, "TCS", AddrImplied, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		c.SP = c.A
		c.applyEInvariant()
		return base
	})
	op(0x3B, "TSC", AddrImplied, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		c.A = c.SP
		c.setNZ(c.A, false)
		return base
	})
}

func registerStack() {
	op(0x48, "PHA", AddrImplied, 3, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		if width8 {
			c.stackPush8(m, byte(c.A))
			return base
		}
		c.stackPush16(m, c.A)
		return base + 1
	})
	op(0x68, "PLA", AddrImplied, 4, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagM()
		if width8 {
			v := uint16(c.stackPull8(m))
			c.A = (c.A & 0xFF00) | v
			c.setNZ(v, true)
			return base
		}
		v := c.stackPull16(m)
		c.A = v
		c.setNZ(v, false)
		return base + 1
	})
	op(0xDA, "PHX", AddrImplied, 3, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagX()
		if width8 {
			c.stackPush8(m, byte(c.X))
			return base
		}
		c.stackPush16(m, c.X)
		return base + 1
	})
	op(0xFA, "PLX", AddrImplied, 4, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagX()
		if width8 {
			v := uint16(c.stackPull8(m))
			c.X = v
			c.setNZ(v, true)
			return base
		}
		v := c.stackPull16(m)
		c.X = v
		c.setNZ(v, false)
		return base + 1
	})
	op(0x5A, "PHY", AddrImplied, 3, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagX()
		if width8 {
			c.stackPush8(m, byte(c.Y))
			return base
		}
		c.stackPush16(m, c.Y)
		return base + 1
	})
	op(0x7A, "PLY", AddrImplied, 4, func(c *CPU, m Memory, mode AddrMode, base int) int {
		width8 := c.flagX()
		if width8 {
			v := uint16(c.stackPull8(m))
			c.Y = v
			c.setNZ(v, true)
			return base
		}
		v := c.stackPull16(m)
		c.Y = v
		c.setNZ(v, false)
		return base + 1
	})
	op(0x08, "PHP", AddrImplied, 3, func(c *CPU, m Memory, mode AddrMode, base int) int {
		c.stackPush8(m, c.P)
		return base
	})
	op(0x28, "PLP", AddrImplied, 4, func(c *CPU, m Memory, mode AddrMode, base int) int {
		c.P = c.stackPull8(m)
		c.applyEInvariant()
		return base
	})
}

func registerSubroutine() {
	op(0x20, "JSR", AddrAbsolute, 6, func(c *CPU, m Memory, mode AddrMode, base int) int {
		target := c.fetchWord(m)
		retAddr := c.PC - 1
		c.stackPush16(m, retAddr)
		c.PC = target
		return base
	})
	op(0x60, "RTS", AddrImplied, 6, func(c *CPU, m Memory, mode AddrMode, base int) int {
		addr := c.stackPull16(m)
		c.PC = addr + 1
		return base
	})
	op(0x6B, "RTL", AddrImplied, 6, func(c *CPU, m Memory, mode AddrMode, base int) int {
		addr := c.stackPull16(m)
		pb := c.stackPull8(m)
		c.PC = addr + 1
		c.PB = pb
		return base
	})
	op(0x40, "RTI", AddrImplied, 6, func(c *CPU, m Memory, mode AddrMode, base int) int {
		c.P = c.stackPull8(m)
		lo := c.stackPull8(m)
		hi := c.stackPull8(m)
		c.PC = uint16(lo) | uint16(hi)<<8
		if !c.E {
			c.PB = c.stackPull8(m)
		}
		c.applyEInvariant()
		return base
	})
	op(0x00, "BRK", AddrImplied, 7, func(c *CPU, m Memory, mode AddrMode, base int) int {
		c.PC++ // two-byte instruction: skip the signature byte
		if !c.E {
			c.stackPush8(m, c.PB)
		}
		c.stackPush16(m, c.PC)
		c.stackPush8(m, c.P|0x10) // pushed status marks B so a handler can tell BRK from IRQ
		c.setFlag(FlagI, true)

		addr := vectorEmuIRQAddr
		if !c.E {
			addr = vectorNativeBRKAddr
		}
		lo := m.Read(uint32(addr))
		hi := m.Read(uint32(addr + 1))
		c.PC = uint16(lo) | uint16(hi)<<8
		c.PB = 0
		return base
	})
}

func registerFlagOps() {
	flagOp := func(mask byte, set bool) execFunc {
		return func(c *CPU, m Memory, mode AddrMode, base int) int {
			c.setFlag(mask, set)
			return base
		}
	}
	op(0x18, "CLC", AddrImplied, 2, flagOp(FlagC, false))
	op(0x38, "SEC", AddrImplied, 2, flagOp(FlagC, true))
	op(0x58, "CLI", AddrImplied, 2, flagOp(FlagI, false))
	op(0x78, "SEI", AddrImplied, 2, flagOp(FlagI, true))
	op(0xD8, "CLD", AddrImplied, 2, flagOp(FlagD, false))
	op(0xF8, "SED", AddrImplied, 2, flagOp(FlagD, true))
	op(0xB8, "CLV", AddrImplied, 2, flagOp(FlagV, false))
}

func registerJumpBranch() {
	op(0x4C, "JMP", AddrAbsolute, 3, func(c *CPU, m Memory, mode AddrMode, base int) int {
		c.PC = c.fetchWord(m)
		return base
	})
	op(0x6C, "JMP", AddrIndirect, 5, func(c *CPU, m Memory, mode AddrMode, base int) int {
		ptr := c.fetchWord(m)
		lo := m.Read(uint32(ptr))
		hi := m.Read(uint32(ptr+1) & 0xFFFF)
		c.PC = uint16(lo) | uint16(hi)<<8
		return base
	})

	branch := func(mask byte, wantSet bool) execFunc {
		return func(c *CPU, m Memory, mode AddrMode, base int) int {
			disp := int8(c.fetchByte(m))
			cycles := base
			if c.getFlag(mask) == wantSet {
				oldPC := c.PC
				c.PC = uint16(int32(c.PC) + int32(disp))
				cycles++
				if oldPC&0xFF00 != c.PC&0xFF00 {
					cycles++
				}
			}
			return cycles
		}
	}
	op(0x10, "BPL", AddrImplied, 2, branch(FlagN, false))
	op(0x30, "BMI", AddrImplied, 2, branch(FlagN, true))
	op(0x50, "BVC", AddrImplied, 2, branch(FlagV, false))
	op(0x70, "BVS", AddrImplied, 2, branch(FlagV, true))
	op(0x90, "BCC", AddrImplied, 2, branch(FlagC, false))
	op(0xB0, "BCS", AddrImplied, 2, branch(FlagC, true))
	op(0xD0, "BNE", AddrImplied, 2, branch(FlagZ, false))
	op(0xF0, "BEQ", AddrImplied, 2, branch(FlagZ, true))
}

func registerModeOps() {
	op(0xFB, "XCE", AddrImplied, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		carry := c.getFlag(FlagC)
		c.setFlag(FlagC, c.E)
		c.E = carry
		c.applyEInvariant()
		return base
	})
	op(0xC2, "REP", AddrImplied, 3, func(c *CPU, m Memory, mode AddrMode, base int) int {
		mask := c.fetchByte(m)
		c.P &^= mask
		c.applyEInvariant()
		return base
	})
	op(0xE2, "SEP", AddrImplied, 3, func(c *CPU, m Memory, mode AddrMode, base int) int {
		mask := c.fetchByte(m)
		c.P |= mask
		c.applyEInvariant()
		return base
	})
	op(0x5B, "TCD", AddrImplied, 2, func(c *CPU, m Memory, mode AddrMode, base int) int {
		c.DP = c.A
		c.setNZ(c.DP, false)
		return base
	})
}
