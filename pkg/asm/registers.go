package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// abiNames lists the ABI register names in register-index order (0-31),
// matching spec.md §4.8 exactly: zero, at, v0, v1, a0-a3, t0-t7, s0-s7,
// t8, t9, k0, k1, gp, sp, fp, ra.
var abiNames = [32]string{
	"zero", "at", "v0", "v1",
	"a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9",
	"k0", "k1",
	"gp", "sp", "fp", "ra",
}

var abiIndex = func() map[string]byte {
	m := make(map[string]byte, len(abiNames))
	for i, name := range abiNames {
		m[name] = byte(i)
	}
	return m
}()

// RegisterName returns the ABI name of register i (0-31), for callers that
// render a register dump (e.g. the VM CLI's halt report).
func RegisterName(i byte) string {
	return abiNames[i]
}

// ParseRegister parses a register operand, accepting both the numeric form
// (R0-R31, case-insensitive prefix) and ABI names (spec.md §4.8).
func ParseRegister(tok string) (byte, error) {
	if idx, ok := abiIndex[strings.ToLower(tok)]; ok {
		return idx, nil
	}
	if len(tok) >= 2 && (tok[0] == 'R' || tok[0] == 'r') {
		n, err := strconv.Atoi(tok[1:])
		if err == nil && n >= 0 && n <= 31 {
			return byte(n), nil
		}
	}
	return 0, fmt.Errorf("%w: %q is not a valid register", ErrBadOperand, tok)
}
