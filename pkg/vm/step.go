package vm

import "fmt"

// Step runs one full cycle: interrupt check, PC-alignment check, fetch
// translation, decode, execute, and the R0 clamp (spec.md §4.7). It
// returns ErrHalted when the executed instruction stopped the machine, and
// any other error when the cycle could not complete (double fault, fatal
// fetch fault). The caller (see Run) is responsible for looping.
func (m *VM) Step() error {
	if _, err := m.dispatchInterrupt(); err != nil {
		return err
	}

	if m.PC&0x7 != 0 {
		m.tracef("misaligned PC 0x%08x", m.PC)
		m.RaiseInterrupt(IntMemFault)
		return fmt.Errorf("%w: PC 0x%08x is not 8-aligned", ErrFetchFault, m.PC)
	}

	physPC := m.Translate(m.PC, false, true)
	if physPC == FaultSentinel {
		return fmt.Errorf("%w: failed to translate PC 0x%08x", ErrFetchFault, m.PC)
	}
	if uint64(physPC)+InstructionWidth > uint64(len(m.Mem)) {
		m.Running = false
		return fmt.Errorf("%w: fetch at 0x%08x exceeds memory", ErrFetchFault, physPC)
	}

	word := m.Mem[physPC : physPC+InstructionWidth]
	inst := Decode(word)

	m.PC += InstructionWidth
	err := m.execute(inst)
	m.clampR0()
	if err != nil {
		return err
	}
	if !m.Running {
		return ErrHalted
	}
	return nil
}
