// Package asm implements the CRISP-32 two-pass assembler.
//
// See the documentation of the vm package for more information about the
// instruction set and the bytecode format.
package asm

import (
	"bufio"
	"fmt"
	"io"

	"github.com/crisp32vm/crisp32/pkg/vm"
)

// InstructionOrError carries one assembled word, or the error that
// prevented it from being produced, off the streaming AssemblerAsync
// channel.
type InstructionOrError struct {
	Address uint32
	Word    [vm.InstructionWidth]byte
	Err     error
	Line    int
}

// Encode renders the current result as a human-readable disassembly-style
// line, or returns the carried error.
func (ioe InstructionOrError) Encode() (string, error) {
	if ioe.Err != nil {
		return "", ioe.Err
	}
	return fmt.Sprintf("0x%08x:\t% x\t# line %d\n", ioe.Address, ioe.Word, ioe.Line), nil
}

// StartAssembler starts the assembler in a background goroutine and
// returns a channel of its per-instruction results.
func StartAssembler(r io.Reader, loadAddr uint32) <-chan InstructionOrError {
	out := make(chan InstructionOrError)
	go AssemblerAsync(r, loadAddr, out)
	return out
}

// AssemblerAsync runs the two-pass assembler, reading source from r and
// writing one InstructionOrError per source instruction (in address order)
// to out. It closes out when done, whether or not an error occurred. As in
// Assemble, a pass runs to completion even when individual lines fail. If
// pass 1 fails, its errors are all delivered once the pass has finished and
// pass 2 is not run; pass 2 failures are delivered as they are found.
func AssemblerAsync(r io.Reader, loadAddr uint32, out chan<- InstructionOrError) {
	defer close(out)

	instructions, symbols, err := firstPass(r, loadAddr)
	if err != nil {
		if errs, ok := err.(Errors); ok {
			for _, e := range errs {
				out <- InstructionOrError{Err: e, Line: e.Line}
			}
		} else {
			out <- InstructionOrError{Err: err}
		}
		return
	}

	for _, ins := range instructions {
		word, err := ins.Encode(symbols, ins.address)
		if err != nil {
			out <- InstructionOrError{Err: err, Line: ins.LineNo}
			continue
		}
		out <- InstructionOrError{Address: ins.address, Word: word, Line: ins.LineNo}
	}
}

// addrInstruction pairs a parsed instruction with the address pass 1
// assigned it.
type addrInstruction struct {
	*Instruction
	address uint32
}

// firstPass tokenizes every source line, builds the symbol table, and
// assigns each instruction its address (spec.md §7: pass 1 walks the
// source advancing by InstructionWidth per instruction and records label
// addresses; it does not resolve operands).
//
// Like the original c32asm.c driver, the pass runs to completion
// regardless of per-line failures: a bad label is recorded and the rest of
// the line is still parsed; a bad mnemonic or operand count is recorded and
// the line is skipped (its address slot is not consumed,
// matching c32_parser.c's c32_asm_assemble_line, which only advances
// current_address once a line has been fully accepted), and scanning
// continues through the rest of the source. The pass is only reported as
// failed, via the returned Errors, once every line has been attempted.
func firstPass(r io.Reader, loadAddr uint32) ([]addrInstruction, *SymbolTable, error) {
	symbols := NewSymbolTable()
	var instructions []addrInstruction
	var errs Errors

	scanner := bufio.NewScanner(r)
	pc := loadAddr
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		ln := tokenizeLine(lineNo, scanner.Text())
		if ln == nil {
			continue
		}
		if ln.label != "" {
			if err := symbols.Define(ln.label, pc); err != nil {
				errs = append(errs, asError(err, 1, lineNo, ln.label))
			}
		}
		if len(ln.tokens) == 0 {
			// label-only line; nothing to assemble
			continue
		}

		mnemonic := normalizeMnemonic(ln.tokens[0])
		ins, err := ParseInstruction(lineNo, mnemonic, ln.tokens[1:])
		if err != nil {
			errs = append(errs, asError(err, 1, lineNo, ln.tokens[0]))
			continue
		}
		instructions = append(instructions, addrInstruction{Instruction: ins, address: pc})
		pc += vm.InstructionWidth
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("asm: reading source: %w", err)
	}
	if len(errs) > 0 {
		return nil, nil, errs
	}

	return instructions, symbols, nil
}

// Result carries everything a successful assembly produces: the flat
// binary image plus the counts the CLI success report needs (spec.md §6).
type Result struct {
	Image        []byte
	Instructions int
	Symbols      int
}

// Assemble runs both passes to completion and returns the assembled
// image, with each instruction's word placed at its address minus
// loadAddr, along with the instruction and symbol counts pass 1 and pass 2
// produced. maxImageSize bounds the image the caller is willing to accept;
// pass ^uint32(0) (or any value large enough) to disable the check.
//
// As in firstPass, pass 2 runs to completion even when individual
// instructions fail to encode: every instruction is attempted and every
// resulting failure is collected, and only once the whole pass is done is
// the assembly reported as failed, via the returned Errors.
func Assemble(r io.Reader, loadAddr uint32, maxImageSize uint32) (Result, error) {
	instructions, symbols, err := firstPass(r, loadAddr)
	if err != nil {
		return Result{}, err
	}
	if len(instructions) == 0 {
		return Result{Instructions: 0, Symbols: symbols.Len()}, nil
	}

	size := uint32(len(instructions)) * vm.InstructionWidth
	if size > maxImageSize {
		return Result{}, &Error{Pass: 2, Line: instructions[len(instructions)-1].LineNo,
			Text: fmt.Sprintf("image size %d exceeds limit %d", size, maxImageSize),
			Err:  ErrOutputTooLarge}
	}

	var errs Errors
	image := make([]byte, size)
	for _, ins := range instructions {
		word, err := ins.Encode(symbols, ins.address)
		if err != nil {
			errs = append(errs, asError(err, 2, ins.LineNo, ins.Mnemonic))
			continue
		}
		off := ins.address - loadAddr
		copy(image[off:off+vm.InstructionWidth], word[:])
	}
	if len(errs) > 0 {
		return Result{}, errs
	}

	return Result{Image: image, Instructions: len(instructions), Symbols: symbols.Len()}, nil
}

func normalizeMnemonic(tok string) string {
	out := make([]byte, len(tok))
	for i := 0; i < len(tok); i++ {
		c := tok[i]
		if c >= 'a' && c <= 'z' {
			c -= 'a' - 'A'
		}
		out[i] = c
	}
	return string(out)
}
