package vm

// executeBranch implements BEQ, BNE, BLEZ, BGTZ, BLTZ, BGEZ. By the time
// this runs, Step has already advanced PC by 8; a taken branch adds Imm
// (a two's-complement byte offset relative to that already-advanced PC)
// on top (spec.md §4.6, §9). Offsets must be multiples of 8 for PC
// alignment to hold, but that is the assembler's obligation, not this
// function's.
func (m *VM) executeBranch(inst Decoded) {
	rs, rt := int32(m.Regs[inst.RS]), int32(m.Regs[inst.RT])
	var taken bool

	switch inst.Opcode {
	case OpBEQ:
		taken = rs == rt
	case OpBNE:
		taken = rs != rt
	case OpBLEZ:
		taken = rs <= 0
	case OpBGTZ:
		taken = rs > 0
	case OpBLTZ:
		taken = rs < 0
	case OpBGEZ:
		taken = rs >= 0
	}

	if taken {
		m.PC += inst.Imm
	}
}
