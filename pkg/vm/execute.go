package vm

// execute dispatches a decoded instruction to its opcode handler. Unknown
// opcodes raise interrupt 1 and halt the machine (spec.md §4.6). This
// function never returns an error for guest-visible conditions -- those
// are always expressed as interrupts; the only errors it can produce are
// reserved for the cases that genuinely cannot be expressed that way
// (there are none at present, but the signature mirrors Step/Translate for
// symmetry and future-proofing).
func (m *VM) execute(inst Decoded) error {
	switch inst.Opcode {
	case OpNOP:
		// no-op

	case OpADD, OpADDU, OpSUB, OpSUBU,
		OpAND, OpOR, OpXOR, OpNOR,
		OpSLT, OpSLTU,
		OpMUL, OpMULH, OpMULHU,
		OpDIV, OpDIVU, OpREM, OpREMU,
		OpSLLV, OpSRLV, OpSRAV:
		m.executeALURegister(inst)

	case OpADDI, OpADDIU, OpANDI, OpORI, OpXORI, OpSLTI, OpSLTIU:
		m.executeALUImmediate(inst)

	case OpLUI:
		m.Regs[inst.RT] = inst.Imm << 16

	case OpSLL, OpSRL, OpSRA:
		m.executeShiftImmediate(inst)

	case OpLW, OpLH, OpLHU, OpLB, OpLBU:
		m.executeLoad(inst)

	case OpSW, OpSH, OpSB:
		m.executeStore(inst)

	case OpBEQ, OpBNE, OpBLEZ, OpBGTZ, OpBLTZ, OpBGEZ:
		m.executeBranch(inst)

	case OpJ:
		m.PC = inst.Imm
	case OpJAL:
		m.Regs[31] = m.PC
		m.PC = inst.Imm
	case OpJR:
		m.PC = m.Regs[inst.RS]
	case OpJALR:
		m.Regs[inst.RD] = m.PC
		m.PC = m.Regs[inst.RS]

	case OpSYSCALL:
		m.RaiseInterrupt(IntSyscall)
		m.Running = false
	case OpBREAK:
		m.RaiseInterrupt(IntBreak)
		m.Running = false

	case OpEI:
		if !m.requirePrivileged() {
			return nil
		}
		m.Interrupts.Enabled = true
	case OpDI:
		if !m.requirePrivileged() {
			return nil
		}
		m.Interrupts.Enabled = false
	case OpIRET:
		if !m.requirePrivileged() {
			return nil
		}
		m.iret()
	case OpRAISE:
		m.RaiseInterrupt(uint8(inst.Imm & 0xFF))
	case OpGETPC:
		m.Regs[inst.RD] = m.Interrupts.SavedPC

	case OpENABLE_PAGING:
		if !m.requirePrivileged() {
			return nil
		}
		m.PagingEnabled = true
	case OpDISABLE_PAGING:
		if !m.requirePrivileged() {
			return nil
		}
		m.PagingEnabled = false
	case OpSET_PTBR:
		if !m.requirePrivileged() {
			return nil
		}
		m.PageTableBase = m.Regs[inst.RD]
		m.NumPages = m.Regs[inst.RT]
	case OpENTER_USER:
		if !m.requirePrivileged() {
			return nil
		}
		m.KernelMode = false
	case OpGETMODE:
		m.Regs[inst.RD] = boolToWord(m.KernelMode)

	default:
		m.tracef("illegal opcode 0x%02x @ PC=0x%08x", inst.Opcode, m.PC-InstructionWidth)
		m.RaiseInterrupt(IntIllegalOp)
		m.Running = false
	}
	return nil
}

// requirePrivileged raises interrupt 7 and reports false when the machine
// is in user mode, for the set of instructions that may only execute in
// kernel mode (spec.md §4.6). Callers skip the privileged action when this
// returns false.
func (m *VM) requirePrivileged() bool {
	if m.KernelMode {
		return true
	}
	m.RaiseInterrupt(IntPrivilege)
	return false
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}
