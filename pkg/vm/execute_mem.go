package vm

// executeLoad implements LW, LH, LHU, LB, LBU. On a translation fault the
// destination register rt is left unchanged (spec.md §4.6, §9 Open
// Question: the faulted load is not retried on return from a handler).
func (m *VM) executeLoad(inst Decoded) {
	vaddr := m.Regs[inst.RS] + inst.Imm
	phys := m.Translate(vaddr, false, false)
	if phys == FaultSentinel {
		return
	}

	switch inst.Opcode {
	case OpLW:
		if !m.boundsOK(phys, 4) {
			return
		}
		m.Regs[inst.RT] = readUint32(m.Mem, phys)
	case OpLH:
		if !m.boundsOK(phys, 2) {
			return
		}
		m.Regs[inst.RT] = uint32(int32(int16(readUint16(m.Mem, phys))))
	case OpLHU:
		if !m.boundsOK(phys, 2) {
			return
		}
		m.Regs[inst.RT] = uint32(readUint16(m.Mem, phys))
	case OpLB:
		if !m.boundsOK(phys, 1) {
			return
		}
		m.Regs[inst.RT] = uint32(int32(int8(m.Mem[phys])))
	case OpLBU:
		if !m.boundsOK(phys, 1) {
			return
		}
		m.Regs[inst.RT] = uint32(m.Mem[phys])
	}
}

// executeStore implements SW, SH, SB. A bounds failure after a successful
// translation is silent: no write occurs (spec.md §4.6).
func (m *VM) executeStore(inst Decoded) {
	vaddr := m.Regs[inst.RS] + inst.Imm
	phys := m.Translate(vaddr, true, false)
	if phys == FaultSentinel {
		return
	}

	rt := m.Regs[inst.RT]
	switch inst.Opcode {
	case OpSW:
		if !m.boundsOK(phys, 4) {
			return
		}
		writeUint32(m.Mem, phys, rt)
	case OpSH:
		if !m.boundsOK(phys, 2) {
			return
		}
		writeUint16(m.Mem, phys, uint16(rt))
	case OpSB:
		if !m.boundsOK(phys, 1) {
			return
		}
		m.Mem[phys] = byte(rt)
	}
}

func (m *VM) boundsOK(phys uint32, width int) bool {
	return uint64(phys)+uint64(width) <= uint64(len(m.Mem))
}
