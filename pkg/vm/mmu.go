package vm

// Page table entry bit layout (spec.md §3): bits [31:12] are the physical
// frame number, bits [11:4] are reserved (preserved, uninterpreted), and
// the low 4 bits are permission flags.
const (
	pteValid      = 1 << 0
	pteWritable   = 1 << 1
	pteExecutable = 1 << 2
	pteUser       = 1 << 3
	pteFrameMask  = 0xFFFFF000
)

// pageShift and pageMask define the single-level page granularity: 4 KiB
// pages, a 32-bit virtual address split as <PageNumber:20><Offset:12>.
const (
	pageShift = 12
	pageMask  = (1 << pageShift) - 1
)

// Translate maps a virtual address to a physical one, enforcing the V/W/X/U
// permission bits. It returns FaultSentinel and raises interrupt 8 on any
// failure; the MMU never distinguishes the fault's cause to the caller
// (spec.md §4.3).
func (m *VM) Translate(vaddr uint32, isWrite, isExec bool) uint32 {
	if m.KernelMode || !m.PagingEnabled {
		return vaddr
	}

	pageNumber := vaddr >> pageShift
	pageOffset := vaddr & pageMask

	if pageNumber >= m.NumPages {
		m.pageFault(vaddr, "page number %d >= num_pages %d", pageNumber, m.NumPages)
		return FaultSentinel
	}

	pteAddr := m.PageTableBase + pageNumber*4
	if uint64(pteAddr)+4 > uint64(len(m.Mem)) {
		m.pageFault(vaddr, "page table entry at 0x%x exceeds memory", pteAddr)
		return FaultSentinel
	}

	pte := readUint32(m.Mem, pteAddr)
	switch {
	case pte&pteValid == 0:
		m.pageFault(vaddr, "PTE for page %d not valid", pageNumber)
		return FaultSentinel
	case pte&pteUser == 0:
		m.pageFault(vaddr, "PTE for page %d not user-accessible", pageNumber)
		return FaultSentinel
	case isWrite && pte&pteWritable == 0:
		m.pageFault(vaddr, "write to read-only page %d", pageNumber)
		return FaultSentinel
	case isExec && pte&pteExecutable == 0:
		m.pageFault(vaddr, "execute from non-executable page %d", pageNumber)
		return FaultSentinel
	}

	return (pte & pteFrameMask) | pageOffset
}

func (m *VM) pageFault(vaddr uint32, format string, args ...any) {
	m.tracef("page fault @ vaddr=0x%08x: "+format, append([]any{vaddr}, args...)...)
	m.RaiseInterrupt(IntPageFault)
}
