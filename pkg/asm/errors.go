package asm

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors the assembler reports; each is surfaced to the caller
// wrapped with the line number and phase (pass 1 or pass 2) it occurred
// in, per spec.md §7.
var (
	ErrUnknownMnemonic = errors.New("asm: unknown mnemonic")
	ErrBadOperand      = errors.New("asm: bad operand")
	ErrWrongArity      = errors.New("asm: wrong number of operands")
	ErrBadLabel        = errors.New("asm: bad label")
	ErrDuplicateLabel  = errors.New("asm: duplicate label")
	ErrUndefinedLabel  = errors.New("asm: undefined label")
	ErrOutOfRange      = errors.New("asm: immediate out of range")
	ErrOutputTooLarge  = errors.New("asm: output exceeds maximum image size")
)

// MaxOutputSize bounds an assembled image, matching the original
// implementation's MAX_OUTPUT_SIZE (original_source/include/c32_asm.h);
// kept here as a named constant rather than a hardcoded magic number,
// mirroring MaxLabelLength in symtab.go.
const MaxOutputSize = 64 * 1024

// Error wraps an assembler failure with the pass and line it occurred on,
// matching the phase/line/text reporting contract of spec.md §6-7.
type Error struct {
	Pass int
	Line int
	Text string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pass %d, line %d: %s: %s", e.Pass, e.Line, e.Err, e.Text)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Errors collects every per-line failure accumulated over the course of
// one pass. Like the original c32asm.c driver (which walks every line of
// a pass, counts failures, and only reports them once the whole pass has
// been attempted), a pass does not stop at the first bad line; Errors is
// how it reports everything it found.
type Errors []*Error

func (es Errors) Error() string {
	if len(es) == 1 {
		return es[0].Error()
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d errors:", len(es))
	for _, e := range es {
		b.WriteString("\n\t")
		b.WriteString(e.Error())
	}
	return b.String()
}

// asError normalizes err into a *Error for accumulation: if it is already
// one (as ParseInstruction's and Instruction.Encode's errors are), it is
// reused as-is rather than wrapped a second time; otherwise it is wrapped
// with the given pass/line/text.
func asError(err error, pass, line int, text string) *Error {
	if e, ok := err.(*Error); ok {
		return e
	}
	return &Error{Pass: pass, Line: line, Text: text, Err: err}
}

// Unwrap exposes each accumulated *Error to errors.Is/errors.As.
func (es Errors) Unwrap() []error {
	out := make([]error, len(es))
	for i, e := range es {
		out[i] = e
	}
	return out
}
