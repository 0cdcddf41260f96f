// Package cpu implements the 65C816 instruction decoder and execution
// engine: a static 256-entry opcode table, the addressing-mode fetch
// helpers, and the register/flag state the SNES core's CPU subsystem owns.
package cpu

import "snescore/internal/debug"

// Status flag bits of P.
const (
	FlagC byte = 0x01 // carry
	FlagZ byte = 0x02 // zero
	FlagI byte = 0x04 // IRQ disable
	FlagD byte = 0x08 // decimal
	FlagX byte = 0x10 // index width (1 = 8-bit)
	FlagM byte = 0x20 // accumulator/memory width (1 = 8-bit)
	FlagV byte = 0x40 // overflow
	FlagN byte = 0x80 // negative
)

// Memory is the bus contract the CPU executes against. *bus.Bus satisfies
// this; tests may supply a flat byte-array fake.
type Memory interface {
	Read(addr uint32) byte
	Write(addr uint32, v byte)
}

// CPU holds 65C816 register and mode state. M, X and E are never stored
// independently of P — they are always read back out of P and the E latch,
// per the REDESIGN FLAG against caching them separately.
type CPU struct {
	A, X, Y uint16
	SP      uint16
	PC      uint16
	DP      uint16
	DB      byte
	PB      byte
	P       byte
	E       bool // emulation-mode latch

	Cycles uint64

	Sink debug.Sink
}

// New constructs a CPU with a NullSink default and calls Reset.
func New() *CPU {
	c := &CPU{Sink: debug.NullSink{}}
	c.Reset()
	return c
}

// flagM reports whether accumulator/memory access is 8-bit width right now.
// In emulation mode this is always true regardless of the P bit, matching
// the invariant that E forces M and X set.
func (c *CPU) flagM() bool {
	return c.E || c.P&FlagM != 0
}

// flagX reports whether index access is 8-bit width right now.
func (c *CPU) flagX() bool {
	return c.E || c.P&FlagX != 0
}

func (c *CPU) getFlag(mask byte) bool { return c.P&mask != 0 }

func (c *CPU) setFlag(mask byte, v bool) {
	if v {
		c.P |= mask
	} else {
		c.P &^= mask
	}
}

// applyEInvariant forces the E=1 consequences: M and X bits set in P, and
// the SP high byte pinned to 0x01. Called after Reset and after every
// instruction that writes P, SP or E (XCE, REP, SEP, PLP, RTI, TXS, TCS).
func (c *CPU) applyEInvariant() {
	if !c.E {
		return
	}
	c.P |= FlagM | FlagX
	c.SP = 0x0100 | (c.SP & 0x00FF)
}

// setNZ updates N and Z from result, masked to width bits (8 or 16).
func (c *CPU) setNZ(result uint16, width8 bool) {
	if width8 {
		v := byte(result)
		c.setFlag(FlagZ, v == 0)
		c.setFlag(FlagN, v&0x80 != 0)
	} else {
		c.setFlag(FlagZ, result == 0)
		c.setFlag(FlagN, result&0x8000 != 0)
	}
}

// Reset zeros volatile CPU state and enters emulation mode. It does not
// touch PC; callers follow it with LoadResetVector to load PC from the reset
// vector at 0x00FFFC/FD.
func (c *CPU) Reset() {
	c.A, c.X, c.Y = 0, 0, 0
	c.SP = 0x01FF
	c.DP = 0
	c.DB = 0
	c.PB = 0
	c.P = FlagI | FlagM | FlagX
	c.E = true
	c.Cycles = 0
	c.applyEInvariant()
}

// ResetVector addresses, by current mode.
const (
	vectorResetAddr = 0x00FFFC

	vectorEmuIRQAddr = 0x00FFFE
	vectorEmuNMIAddr = 0x00FFFA

	vectorNativeIRQAddr = 0x00FFEE
	vectorNativeNMIAddr = 0x00FFEA
	vectorNativeBRKAddr = 0x00FFE6
)

// LoadResetVector reads the reset vector off m and sets PC/PB accordingly.
func (c *CPU) LoadResetVector(m Memory) {
	lo := m.Read(vectorResetAddr)
	hi := m.Read(vectorResetAddr + 1)
	c.PC = uint16(lo) | uint16(hi)<<8
	c.PB = 0
}

func (c *CPU) pcAddr() uint32 {
	return uint32(c.PB)<<16 | uint32(c.PC)
}

func (c *CPU) fetchByte(m Memory) byte {
	b := m.Read(c.pcAddr())
	c.PC++
	return b
}

func (c *CPU) fetchWord(m Memory) uint16 {
	lo := c.fetchByte(m)
	hi := c.fetchByte(m)
	return uint16(lo) | uint16(hi)<<8
}

func (c *CPU) fetchLong24(m Memory) uint32 {
	lo := c.fetchByte(m)
	mid := c.fetchByte(m)
	hi := c.fetchByte(m)
	return uint32(lo) | uint32(mid)<<8 | uint32(hi)<<16
}

// stackPush8/pull8 honor the emulation-mode page-1 wrap rule (REDESIGN
// FLAG: SP wraps within 0x0100..0x01FF in emulation mode, modulo 0x10000
// in native mode).
func (c *CPU) stackPush8(m Memory, v byte) {
	m.Write(0x000000|uint32(c.SP), v)
	if c.E {
		lo := byte(c.SP) - 1
		c.SP = 0x0100 | uint16(lo)
	} else {
		c.SP--
	}
}

func (c *CPU) stackPull8(m Memory) byte {
	if c.E {
		lo := byte(c.SP) + 1
		c.SP = 0x0100 | uint16(lo)
	} else {
		c.SP++
	}
	return m.Read(0x000000 | uint32(c.SP))
}

func (c *CPU) stackPush16(m Memory, v uint16) {
	c.stackPush8(m, byte(v>>8))
	c.stackPush8(m, byte(v))
}

func (c *CPU) stackPull16(m Memory) uint16 {
	lo := c.stackPull8(m)
	hi := c.stackPull8(m)
	return uint16(lo) | uint16(hi)<<8
}

// Step decodes and executes one instruction, returning the number of CPU
// cycles it consumed. Unknown opcodes report through Sink, charge 2 cycles,
// advance PC by 1, and leave every other register untouched.
func (c *CPU) Step(m Memory) int {
	opcodeAddr := c.pcAddr()
	opcode := m.Read(opcodeAddr)
	c.PC++

	info := opcodeTable[opcode]
	if info.Exec == nil {
		c.Sink.Warnf("cpu: unknown opcode 0x%02X at %06X", opcode, opcodeAddr)
		c.Cycles += 2
		return 2
	}

	c.Sink.Tracef("cpu: %06X %02X %s", opcodeAddr, opcode, info.Mnemonic)
	cycles := info.Exec(c, m, info.Mode, info.BaseCycles)
	c.Cycles += uint64(cycles)
	return cycles
}

// TriggerNMI pushes CPU state and jumps to the NMI vector. Per the
// REDESIGN FLAG resolving the open question on NMI masking, this is gated
// by the caller only on PPU NMI-enable — the I flag never blocks NMI entry.
func (c *CPU) TriggerNMI(m Memory) {
	if !c.E {
		c.stackPush8(m, c.PB)
	}
	c.stackPush16(m, c.PC)
	c.stackPush8(m, c.P)
	c.setFlag(FlagI, true)
	c.setFlag(FlagD, false)

	addr := vectorEmuNMIAddr
	if !c.E {
		addr = vectorNativeNMIAddr
	}
	lo := m.Read(uint32(addr))
	hi := m.Read(uint32(addr + 1))
	c.PC = uint16(lo) | uint16(hi)<<8
	c.PB = 0
}
