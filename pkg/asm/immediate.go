package asm

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseImmediate parses a numeric immediate literal: an optional sign,
// then either a 0x-prefixed hex value or a decimal value (spec.md §4.8).
// It does not resolve labels -- that is done separately by instructions
// whose operand form supports symbol references (branches and jumps).
func ParseImmediate(tok string) (int64, error) {
	s := tok
	negative := false
	switch {
	case strings.HasPrefix(s, "-"):
		negative = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	var v uint64
	var err error
	if len(s) > 1 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		v, err = strconv.ParseUint(s[2:], 16, 64)
	} else {
		v, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a valid immediate: %s", ErrBadOperand, tok, err)
	}
	val := int64(v)
	if negative {
		val = -val
	}
	return val, nil
}

// castToUint32 truncates a resolved value to the instruction's 32-bit
// immediate field, rejecting magnitudes that cannot be represented either
// as a signed or unsigned 32-bit quantity.
func castToUint32(value int64) (uint32, error) {
	if value < -(1 << 31) || value > 0xFFFFFFFF {
		return 0, fmt.Errorf("%w: %d does not fit in a 32-bit immediate", ErrOutOfRange, value)
	}
	return uint32(value), nil
}
