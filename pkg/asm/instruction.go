package asm

import (
	"fmt"

	"github.com/crisp32vm/crisp32/pkg/vm"
)

// loadBias is added to J/JAL targets, whether the operand came from a
// resolved label or a literal, matching the uniform bias applied by
// original_source/src/asm/c32_parser.c regardless of operand kind.
const loadBias = 0x1000

// Instruction is one parsed source line, ready to be encoded once symbol
// addresses are known. It carries enough of the original line to produce
// pass-2 diagnostics that point back at the source.
type Instruction struct {
	LineNo   int
	Mnemonic string
	Info     mnemonicInfo
	Raw      []string // operand tokens, unparsed
}

// ParseInstruction validates arity for mnemonic against toks and returns an
// Instruction ready for pass-2 encoding. It does not resolve labels.
func ParseInstruction(lineNo int, mnemonic string, toks []string) (*Instruction, error) {
	info, ok := mnemonicTable[mnemonic]
	if !ok {
		return nil, &Error{Pass: 1, Line: lineNo, Text: mnemonic, Err: ErrUnknownMnemonic}
	}

	want := operandCount(info.form)
	if len(toks) != want {
		return nil, &Error{
			Pass: 1, Line: lineNo,
			Text: fmt.Sprintf("%s expects %d operand(s), got %d", mnemonic, want, len(toks)),
			Err:  ErrWrongArity,
		}
	}

	return &Instruction{LineNo: lineNo, Mnemonic: mnemonic, Info: info, Raw: toks}, nil
}

func operandCount(f operandForm) int {
	switch f {
	case formZeroOperand:
		return 0
	case formRRR:
		return 3
	case formRegImm:
		return 3
	case formLUI:
		return 2
	case formShiftImm:
		return 3
	case formBranch2Reg:
		return 3
	case formBranch1Reg:
		return 2
	case formJumpTarget:
		return 1
	case formJR:
		return 1
	case formJALR:
		return 2
	case formImmOnly:
		return 1
	case formOneReg:
		return 1
	case formTwoReg:
		return 2
	default:
		return 0
	}
}

// resolveImmOrLabel parses tok as a label reference first, falling back to
// a numeric literal. Branch operands (pcRelative) are encoded as the
// distance from the following instruction; jump operands have the fixed
// loadBias (0x1000) added, whatever loadAddr the image is assembled for.
func resolveImmOrLabel(tok string, symbols *SymbolTable, pc uint32, pcRelative bool) (uint32, error) {
	if v, ok := symbols.Lookup(tok); ok {
		if pcRelative {
			return uint32(int64(v) - int64(pc+vm.InstructionWidth)), nil
		}
		return v + loadBias, nil
	}
	if looksLikeLabel(tok) {
		return 0, fmt.Errorf("%w: %q", ErrUndefinedLabel, tok)
	}

	n, err := ParseImmediate(tok)
	if err != nil {
		return 0, err
	}
	if pcRelative {
		return uint32(n), nil
	}
	u, err := castToUint32(n)
	if err != nil {
		return 0, err
	}
	return u + loadBias, nil
}

// looksLikeLabel reports whether tok is shaped like a symbol reference
// rather than a numeric literal: it doesn't start with a digit or a sign.
// Used to distinguish "undefined label" from "malformed number" once a
// symbol lookup has already failed.
func looksLikeLabel(tok string) bool {
	if tok == "" {
		return false
	}
	c := tok[0]
	return !(c == '+' || c == '-' || (c >= '0' && c <= '9'))
}

// Encode resolves any label operands against symbols (pc is this
// instruction's address) and produces the instruction's 8-byte word.
func (ins *Instruction) Encode(symbols *SymbolTable, pc uint32) ([vm.InstructionWidth]byte, error) {
	d := vm.Decoded{Opcode: ins.Info.opcode}

	switch ins.Info.form {
	case formZeroOperand:
		// no operands

	case formRRR: // rd, rs, rt
		rd, rs, rt, err := ins.parseRRR(0, 1, 2)
		if err != nil {
			return [vm.InstructionWidth]byte{}, err
		}
		d.RD, d.RS, d.RT = rd, rs, rt

	case formRegImm: // rt, rs, imm
		rt, err := ParseRegister(ins.Raw[0])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		rs, err := ParseRegister(ins.Raw[1])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		n, err := ParseImmediate(ins.Raw[2])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		imm, err := castToUint32(n)
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		d.RT, d.RS, d.Imm = rt, rs, imm

	case formLUI: // rt, imm
		rt, err := ParseRegister(ins.Raw[0])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		n, err := ParseImmediate(ins.Raw[1])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		imm, err := castToUint32(n)
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		d.RT, d.Imm = rt, imm

	case formShiftImm: // rd, rt, shamt
		rd, err := ParseRegister(ins.Raw[0])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		rt, err := ParseRegister(ins.Raw[1])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		shamt, err := ParseImmediate(ins.Raw[2])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		u, err := castToUint32(shamt)
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		d.RD, d.RT, d.Imm = rd, rt, u

	case formBranch2Reg: // rs, rt, target
		rs, err := ParseRegister(ins.Raw[0])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		rt, err := ParseRegister(ins.Raw[1])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		off, err := resolveImmOrLabel(ins.Raw[2], symbols, pc, true)
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		d.RS, d.RT, d.Imm = rs, rt, off

	case formBranch1Reg: // rs, target
		rs, err := ParseRegister(ins.Raw[0])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		off, err := resolveImmOrLabel(ins.Raw[1], symbols, pc, true)
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		d.RS, d.Imm = rs, off

	case formJumpTarget: // target
		target, err := resolveImmOrLabel(ins.Raw[0], symbols, pc, false)
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		d.Imm = target

	case formJR: // rs
		rs, err := ParseRegister(ins.Raw[0])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		d.RS = rs

	case formJALR: // rd, rs
		rd, err := ParseRegister(ins.Raw[0])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		rs, err := ParseRegister(ins.Raw[1])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		d.RD, d.RS = rd, rs

	case formImmOnly: // imm
		n, err := ParseImmediate(ins.Raw[0])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		u, err := castToUint32(n)
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		d.Imm = u

	case formOneReg: // rd
		rd, err := ParseRegister(ins.Raw[0])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		d.RD = rd

	case formTwoReg: // rd, rt
		rd, err := ParseRegister(ins.Raw[0])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		rt, err := ParseRegister(ins.Raw[1])
		if err != nil {
			return [vm.InstructionWidth]byte{}, ins.wrap(err)
		}
		d.RD, d.RT = rd, rt
	}

	return vm.Encode(d), nil
}

func (ins *Instruction) parseRRR(rdIdx, rsIdx, rtIdx int) (rd, rs, rt byte, err error) {
	rd, err = ParseRegister(ins.Raw[rdIdx])
	if err != nil {
		return 0, 0, 0, ins.wrap(err)
	}
	rs, err = ParseRegister(ins.Raw[rsIdx])
	if err != nil {
		return 0, 0, 0, ins.wrap(err)
	}
	rt, err = ParseRegister(ins.Raw[rtIdx])
	if err != nil {
		return 0, 0, 0, ins.wrap(err)
	}
	return rd, rs, rt, nil
}

func (ins *Instruction) wrap(err error) error {
	return &Error{Pass: 2, Line: ins.LineNo, Text: ins.Mnemonic, Err: err}
}
