package vm

import "testing"

func setPTE(m *VM, tableBase, pageNumber, frame uint32, flags uint32) {
	writeUint32(m.Mem, tableBase+pageNumber*4, (frame<<pageShift)|flags)
}

func TestTranslateIdentityInKernelMode(t *testing.T) {
	m := New(DefaultMemorySize)
	m.KernelMode = true
	m.PagingEnabled = true // irrelevant: kernel mode bypasses translation
	if got := m.Translate(0x4242, false, false); got != 0x4242 {
		t.Fatalf("Translate = 0x%x, want identity 0x4242", got)
	}
}

func TestTranslateUserValidPage(t *testing.T) {
	m := New(DefaultMemorySize)
	m.KernelMode = false
	m.PagingEnabled = true
	m.PageTableBase = 0x2000
	m.NumPages = 4
	setPTE(m, 0x2000, 0, 3, pteValid|pteWritable|pteExecutable|pteUser)

	got := m.Translate(0x0ABC, false, false)
	want := (uint32(3) << pageShift) | 0x0ABC
	if got != want {
		t.Fatalf("Translate = 0x%x, want 0x%x", got, want)
	}
}

func TestTranslateInvalidPTEFaults(t *testing.T) {
	m := New(DefaultMemorySize)
	m.KernelMode = false
	m.PagingEnabled = true
	m.PageTableBase = 0x2000
	m.NumPages = 4
	setPTE(m, 0x2000, 0, 3, 0) // not valid

	if got := m.Translate(0, false, false); got != FaultSentinel {
		t.Fatalf("Translate = 0x%x, want FaultSentinel", got)
	}
	if !m.Interrupts.isPending(IntPageFault) {
		t.Fatal("page fault interrupt was not raised")
	}
}

func TestTranslateReadOnlyPageRejectsWrite(t *testing.T) {
	m := New(DefaultMemorySize)
	m.KernelMode = false
	m.PagingEnabled = true
	m.PageTableBase = 0x2000
	m.NumPages = 4
	setPTE(m, 0x2000, 0, 3, pteValid|pteExecutable|pteUser) // no pteWritable

	if got := m.Translate(0, true, false); got != FaultSentinel {
		t.Fatalf("Translate(write) = 0x%x, want FaultSentinel", got)
	}
}

func TestTranslateNonExecutablePageRejectsFetch(t *testing.T) {
	m := New(DefaultMemorySize)
	m.KernelMode = false
	m.PagingEnabled = true
	m.PageTableBase = 0x2000
	m.NumPages = 4
	setPTE(m, 0x2000, 0, 3, pteValid|pteWritable|pteUser) // no pteExecutable

	if got := m.Translate(0, false, true); got != FaultSentinel {
		t.Fatalf("Translate(exec) = 0x%x, want FaultSentinel", got)
	}
}

func TestTranslatePageNumberOutOfRange(t *testing.T) {
	m := New(DefaultMemorySize)
	m.KernelMode = false
	m.PagingEnabled = true
	m.PageTableBase = 0x2000
	m.NumPages = 1

	if got := m.Translate(0x1000, false, false); got != FaultSentinel { // page 1, only page 0 exists
		t.Fatalf("Translate = 0x%x, want FaultSentinel", got)
	}
}

func TestTranslateNotUserAccessible(t *testing.T) {
	m := New(DefaultMemorySize)
	m.KernelMode = false
	m.PagingEnabled = true
	m.PageTableBase = 0x2000
	m.NumPages = 1
	setPTE(m, 0x2000, 0, 3, pteValid|pteWritable|pteExecutable) // no pteUser

	if got := m.Translate(0, false, false); got != FaultSentinel {
		t.Fatalf("Translate = 0x%x, want FaultSentinel", got)
	}
}
