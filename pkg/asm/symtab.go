package asm

import "fmt"

// MaxLabelLength bounds a label's length, matching the original
// implementation's MAX_LABEL_LEN (original_source/include/c32_asm.h);
// kept here as a named constant rather than a hardcoded magic number.
const MaxLabelLength = 64

// SymbolTable holds label -> address bindings accumulated during pass 1
// and consulted during pass 2. Unlike the C original's fixed 1024-entry
// array, this is an ordinary Go map with no artificial capacity ceiling
// (see SPEC_FULL.md, Open Question resolutions).
type SymbolTable struct {
	addr map[string]uint32
}

// NewSymbolTable returns an empty symbol table.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{addr: make(map[string]uint32)}
}

// Define records a label's address. It is an error to define the same
// label twice; the caller (firstPass) records the error and keeps
// scanning rather than aborting pass 1 on the spot (spec.md §7: errors
// accumulate line-by-line within a pass).
func (st *SymbolTable) Define(name string, address uint32) error {
	if len(name) > MaxLabelLength {
		return fmt.Errorf("%w: label %q exceeds %d characters", ErrBadLabel, name, MaxLabelLength)
	}
	if _, exists := st.addr[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateLabel, name)
	}
	st.addr[name] = address
	return nil
}

// Lookup returns the address bound to name, and whether it was found.
func (st *SymbolTable) Lookup(name string) (uint32, bool) {
	v, ok := st.addr[name]
	return v, ok
}

// Len reports how many labels are currently defined.
func (st *SymbolTable) Len() int {
	return len(st.addr)
}
