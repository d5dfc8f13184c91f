package vm

// savedRegsSize is the size in bytes of the saved-register block written
// to memory on interrupt entry: 32 registers, 4 bytes each (spec.md §3
// invariant 5).
const savedRegsSize = NumRegisters * 4

// Interrupts holds all interrupt-controller state: the global enable flag,
// the 256-bit pending bitmap, and the saved context used to resume the
// interrupted program on IRET.
type Interrupts struct {
	Enabled       bool
	Pending       [4]uint64 // 256-bit bitmap, bit i = vector i
	SavedPC       uint32
	SavedRegsAddr uint32
}

func (iv *Interrupts) setPending(n uint8) {
	iv.Pending[n/64] |= 1 << (n % 64)
}

func (iv *Interrupts) clearPending(n uint8) {
	iv.Pending[n/64] &^= 1 << (n % 64)
}

func (iv *Interrupts) isPending(n uint8) bool {
	return iv.Pending[n/64]&(1<<(n%64)) != 0
}

// RaiseInterrupt sets the pending bit for vector n. The call is
// non-blocking and idempotent: raising an already-pending interrupt twice
// has the same effect as raising it once.
func (m *VM) RaiseInterrupt(n uint8) {
	m.Interrupts.setPending(n)
}

// SetInterruptHandler installs a handler address at IVT slot n. The IVT
// lives at physical address 0; each slot is 8 bytes and only the low 4
// hold the handler address (spec.md §3).
func (m *VM) SetInterruptHandler(n uint8, handlerAddr uint32) {
	writeUint32(m.Mem, uint32(n)*8, handlerAddr)
}

// dispatchInterrupt scans the pending bitmap in ascending (highest
// priority first) order and, if interrupts are globally enabled, delivers
// the first one found. Vector 255 is never scanned, reserving it for a
// future meta-condition (spec.md §4.4). It returns an error only when
// dispatch itself cannot proceed (a double fault); a false return with nil
// error means no interrupt was dispatched this cycle.
func (m *VM) dispatchInterrupt() (dispatched bool, err error) {
	if !m.Interrupts.Enabled {
		return false, nil
	}
	var n uint8
	found := false
	for i := 0; i <= IntMaxDispatched; i++ {
		if m.Interrupts.isPending(uint8(i)) {
			n = uint8(i)
			found = true
			break
		}
	}
	if !found {
		return false, nil
	}

	m.Interrupts.clearPending(n)
	m.Interrupts.SavedPC = m.PC
	m.KernelMode = true

	m.Regs[29] -= 128
	m.Interrupts.SavedRegsAddr = m.Regs[29]
	if uint64(m.Interrupts.SavedRegsAddr)+savedRegsSize <= uint64(len(m.Mem)) {
		base := m.Interrupts.SavedRegsAddr
		for i, r := range m.Regs {
			writeUint32(m.Mem, base+uint32(i*4), r)
		}
	}

	m.Interrupts.Enabled = false
	m.Regs[4] = uint32(n)

	slot := uint32(n) * 8
	if uint64(slot)+4 > uint64(len(m.Mem)) {
		m.tracef("double fault dispatching interrupt %d: IVT slot 0x%x exceeds memory", n, slot)
		m.Running = false
		return false, ErrDoubleFault
	}
	m.PC = readUint32(m.Mem, slot)
	m.tracef("dispatch interrupt %d -> handler 0x%08x", n, m.PC)
	return true, nil
}

// iret performs the return-from-interrupt sequence: restore PC and all 32
// registers from the saved-context block, then re-enable interrupts.
// Privilege is deliberately NOT restored here -- see spec.md §9: handlers
// that need to return to user code must ENTER_USER before IRET.
func (m *VM) iret() {
	m.PC = m.Interrupts.SavedPC
	base := m.Interrupts.SavedRegsAddr
	if uint64(base)+savedRegsSize <= uint64(len(m.Mem)) {
		for i := range m.Regs {
			m.Regs[i] = readUint32(m.Mem, base+uint32(i*4))
		}
	}
	m.Interrupts.Enabled = true
}
