package cpu

import "testing"

// flatMemory is a 16 MiB byte array satisfying Memory, used to exercise
// the CPU in isolation from the bus package.
type flatMemory struct {
	data [16 * 1024 * 1024]byte
}

func (f *flatMemory) Read(addr uint32) byte  { return f.data[addr&0xFFFFFF] }
func (f *flatMemory) Write(addr uint32, v byte) { f.data[addr&0xFFFFFF] = v }

func newTestCPU(mem *flatMemory, resetVector uint16) *CPU {
	mem.data[0xFFFC] = byte(resetVector)
	mem.data[0xFFFD] = byte(resetVector >> 8)
	c := New()
	c.LoadResetVector(mem)
	return c
}

func TestLDAImmediateZeroFlag(t *testing.T) {
	mem := &flatMemory{}
	c := newTestCPU(mem, 0x8000)
	mem.data[0x8000] = 0xA9 // LDA #imm
	mem.data[0x8001] = 0x00

	cycles := c.Step(mem)

	if byte(c.A) != 0 {
		t.Fatalf("A-low = %#x, want 0", byte(c.A))
	}
	if !c.getFlag(FlagZ) {
		t.Fatal("Z not set")
	}
	if c.getFlag(FlagN) {
		t.Fatal("N should be clear")
	}
	if cycles != 2 {
		t.Fatalf("cycles = %d, want 2", cycles)
	}
	if c.PC != 0x8002 {
		t.Fatalf("PC = %#x, want 0x8002", c.PC)
	}
}

func TestCLC_LDA_ADC_Overflow(t *testing.T) {
	mem := &flatMemory{}
	c := newTestCPU(mem, 0x8000)
	mem.data[0x8000] = 0x18 // CLC
	mem.data[0x8001] = 0xA9 // LDA #$7F
	mem.data[0x8002] = 0x7F
	mem.data[0x8003] = 0x69 // ADC #$01
	mem.data[0x8004] = 0x01

	for i := 0; i < 3; i++ {
		c.Step(mem)
	}

	if byte(c.A) != 0x80 {
		t.Fatalf("A-low = %#x, want 0x80", byte(c.A))
	}
	if !c.getFlag(FlagV) {
		t.Fatal("V should be set")
	}
	if !c.getFlag(FlagN) {
		t.Fatal("N should be set")
	}
	if c.getFlag(FlagC) {
		t.Fatal("C should be clear")
	}
}

func TestSEC_LDA_SBC(t *testing.T) {
	mem := &flatMemory{}
	c := newTestCPU(mem, 0x8000)
	mem.data[0x8000] = 0x38 // SEC
	mem.data[0x8001] = 0xA9 // LDA #$20
	mem.data[0x8002] = 0x20
	mem.data[0x8003] = 0xE9 // SBC #$10
	mem.data[0x8004] = 0x10

	for i := 0; i < 3; i++ {
		c.Step(mem)
	}

	if byte(c.A) != 0x10 {
		t.Fatalf("A-low = %#x, want 0x10", byte(c.A))
	}
	if !c.getFlag(FlagC) {
		t.Fatal("C should be set")
	}
	if c.getFlag(FlagV) {
		t.Fatal("V should be clear")
	}
}

func TestStackRoundTrip(t *testing.T) {
	mem := &flatMemory{}
	c := newTestCPU(mem, 0x8000)
	mem.data[0x8000] = 0xA9 // LDA #$42
	mem.data[0x8001] = 0x42
	mem.data[0x8002] = 0x48 // PHA
	mem.data[0x8003] = 0xA9 // LDA #$00
	mem.data[0x8004] = 0x00
	mem.data[0x8005] = 0x68 // PLA

	initialSP := c.SP
	for i := 0; i < 4; i++ {
		c.Step(mem)
	}

	if byte(c.A) != 0x42 {
		t.Fatalf("A-low = %#x, want 0x42", byte(c.A))
	}
	if c.SP != initialSP {
		t.Fatalf("SP = %#x, want restored %#x", c.SP, initialSP)
	}
	if c.getFlag(FlagZ) {
		t.Fatal("Z should be clear")
	}
}

func TestJMPAbsolute(t *testing.T) {
	mem := &flatMemory{}
	c := newTestCPU(mem, 0x8000)
	mem.data[0x8000] = 0x4C // JMP $8010
	mem.data[0x8001] = 0x10
	mem.data[0x8002] = 0x80

	c.Step(mem)

	if c.PC != 0x8010 {
		t.Fatalf("PC = %#x, want 0x8010", c.PC)
	}
}

func TestUnknownOpcodeAdvancesByOneAndPreservesState(t *testing.T) {
	mem := &flatMemory{}
	c := newTestCPU(mem, 0x8000)
	mem.data[0x8000] = 0x02 // unassigned in our closed opcode set

	a, x, y, sp, dp, db, pb, p := c.A, c.X, c.Y, c.SP, c.DP, c.DB, c.PB, c.P

	cycles := c.Step(mem)

	if cycles != 2 {
		t.Fatalf("cycles = %d, want 2", cycles)
	}
	if c.PC != 0x8001 {
		t.Fatalf("PC = %#x, want 0x8001", c.PC)
	}
	if c.A != a || c.X != x || c.Y != y || c.SP != sp || c.DP != dp || c.DB != db || c.PB != pb || c.P != p {
		t.Fatal("non-PC state changed on unknown opcode")
	}
}

func TestEmulationModeStackStaysInPageOne(t *testing.T) {
	mem := &flatMemory{}
	c := newTestCPU(mem, 0x8000)
	c.SP = 0x0100 // force underflow on first push

	c.stackPush8(mem, 0xAA)
	if c.SP&0xFF00 != 0x0100 {
		t.Fatalf("SP = %#x, want high byte 0x01", c.SP)
	}
	if c.SP != 0x01FF {
		t.Fatalf("SP = %#x, want wrap to 0x01FF", c.SP)
	}
}

func TestXCETogglesEmulationMode(t *testing.T) {
	mem := &flatMemory{}
	c := newTestCPU(mem, 0x8000)

	// Enter native mode: clear carry, then XCE swaps it with E.
	c.setFlag(FlagC, false)
	mem.data[0x8000] = 0xFB // XCE
	c.Step(mem)

	if c.E {
		t.Fatal("expected native mode after XCE with C clear")
	}
	if !c.getFlag(FlagC) {
		t.Fatal("expected C set to prior E (1) after XCE")
	}
}

func TestREPClearsWidthBitsInNativeMode(t *testing.T) {
	mem := &flatMemory{}
	c := newTestCPU(mem, 0x8000)
	c.E = false
	c.P = FlagM | FlagX

	mem.data[0x8000] = 0xC2 // REP #$30
	mem.data[0x8001] = 0x30
	c.Step(mem)

	if c.flagM() || c.flagX() {
		t.Fatal("expected M and X clear after REP #$30 in native mode")
	}
}

func TestBRKIsTwoByteInstruction(t *testing.T) {
	mem := &flatMemory{}
	c := newTestCPU(mem, 0x8000)
	mem.data[0xFFFE] = 0x00
	mem.data[0xFFFF] = 0x90
	mem.data[0x8000] = 0x00 // BRK
	mem.data[0x8001] = 0xEA // signature byte, skipped

	c.Step(mem)

	if c.PC != 0x9000 {
		t.Fatalf("PC = %#x, want BRK/IRQ vector 0x9000", c.PC)
	}
	pushedPCL := mem.Read(0x000000 | uint32(c.SP+2))
	if pushedPCL != 0x02 {
		t.Fatalf("pushed PCL = %#x, want 0x02 (two-byte BRK)", pushedPCL)
	}
}

func TestSustainedNOPExecutionAccumulatesCycles(t *testing.T) {
	mem := &flatMemory{}
	for i := range mem.data {
		mem.data[i] = 0xEA // NOP everywhere so PC wraparound stays well-defined
	}
	c := newTestCPU(mem, 0x8000)

	const steps = 1000
	for i := 0; i < steps; i++ {
		c.Step(mem)
	}

	if c.Cycles != steps*2 {
		t.Fatalf("Cycles = %d, want %d", c.Cycles, steps*2)
	}
}
