// Package vm implements the CRISP-32 virtual machine: a 32-bit register
// machine with a 64-bit uniform instruction encoding, supervisor/user
// privilege separation, a single-level page-table MMU, and a 256-vector
// interrupt subsystem.
//
// Instruction format
//
// Every instruction is 8 bytes, little-endian:
//
//	<Opcode:1><RS:1><RT:1><RD:1><Imm:4>
//
// The VM is single-threaded and synchronous: there is exactly one control
// flow, the step loop (see Step), and interrupts are polled once per cycle
// rather than delivered asynchronously. A VM value is not safe for
// concurrent use from multiple goroutines.
package vm

import (
	"errors"
	"fmt"
)

// NumRegisters is the number of general-purpose registers. R0 is hardwired
// to zero: writes during instruction execution are permitted but are
// clamped back to zero at the end of every instruction (see clampR0).
const NumRegisters = 32

// DefaultMemorySize is the conventional physical memory size for a freshly
// created machine (64 KiB), matching spec.md §3.
const DefaultMemorySize = 64 * 1024

// DefaultLoadAddress is the conventional base address binary images are
// loaded at, and the bias the assembler applies to J/JAL targets.
const DefaultLoadAddress = 0x1000

// FaultSentinel is the physical address value the MMU returns to signal a
// translation failure. It is never a legal memory address.
const FaultSentinel = 0xFFFFFFFF

// Sentinel errors returned by the host-facing API. Faults experienced by
// the guest program itself never surface this way; they are always
// delivered as interrupts (spec.md §7).
var (
	// ErrHalted indicates the VM stopped running cleanly (SYSCALL or BREAK).
	ErrHalted = errors.New("vm: halted")

	// ErrDoubleFault indicates the interrupt controller could not dispatch
	// because the handler's IVT slot lies outside memory.
	ErrDoubleFault = errors.New("vm: double fault, halting")

	// ErrFetchFault indicates translation or alignment failed during
	// instruction fetch badly enough that the step loop cannot continue.
	ErrFetchFault = errors.New("vm: fetch fault")

	// ErrOutOfMemory indicates a load would not fit in the VM's memory.
	ErrOutOfMemory = errors.New("vm: image does not fit in memory")
)

// VM is a CRISP-32 machine instance.
type VM struct {
	Regs [NumRegisters]uint32
	PC   uint32
	Mem  []byte

	Running    bool
	KernelMode bool

	PagingEnabled bool
	PageTableBase uint32
	NumPages      uint32

	Interrupts Interrupts

	// Trace, if non-nil, receives a line of text for every interrupt
	// dispatch and every fault. The zero value (nil) disables tracing.
	Trace func(format string, args ...any)
}

// New returns a freshly initialized VM with the given physical memory size.
// Registers, PC, and all interrupt/paging state are zeroed; kernel_mode
// starts true, matching the reset semantics of spec.md §3.
func New(memSize int) *VM {
	m := &VM{Mem: make([]byte, memSize)}
	m.resetState()
	return m
}

// Reset restores the VM to its power-on state (registers, PC, interrupt
// and paging state all zeroed, kernel_mode forced true) while preserving
// the contents of memory, matching the lifecycle contract of spec.md §3.
func (m *VM) Reset() {
	m.resetState()
}

func (m *VM) resetState() {
	m.Regs = [NumRegisters]uint32{}
	m.PC = 0
	m.Running = false
	m.KernelMode = true
	m.PagingEnabled = false
	m.PageTableBase = 0
	m.NumPages = 0
	m.Interrupts = Interrupts{}
}

// LoadImage copies a flat binary image into memory starting at base and
// sets PC to base. It does not start the machine; the caller sets Running.
func (m *VM) LoadImage(image []byte, base uint32) error {
	if int(base)+len(image) > len(m.Mem) {
		return fmt.Errorf("%w: %d bytes at 0x%x exceeds %d-byte memory",
			ErrOutOfMemory, len(image), base, len(m.Mem))
	}
	copy(m.Mem[base:], image)
	m.PC = base
	return nil
}

func (m *VM) tracef(format string, args ...any) {
	if m.Trace != nil {
		m.Trace(format, args...)
	}
}

// clampR0 enforces the invariant that R0 always reads as zero. This runs
// once at the end of every completed instruction rather than guarding
// every individual write, simplifying each opcode's execution path.
func (m *VM) clampR0() {
	m.Regs[0] = 0
}

// Run executes step cycles until the machine halts, a step fails, or
// maxSteps cycles have elapsed (0 means unlimited).
func (m *VM) Run(maxSteps int) error {
	m.Running = true
	for steps := 0; maxSteps == 0 || steps < maxSteps; steps++ {
		if err := m.Step(); err != nil {
			if errors.Is(err, ErrHalted) {
				return nil
			}
			return err
		}
		if !m.Running {
			return nil
		}
	}
	return nil
}

// String renders a compact dump of machine state, used by the VM CLI's -d
// debugger prompt.
func (m *VM) String() string {
	return fmt.Sprintf("PC=0x%08x kernel=%v paging=%v regs=%+v",
		m.PC, m.KernelMode, m.PagingEnabled, m.Regs)
}
