package asm

import (
	"fmt"

	"github.com/crisp32vm/crisp32/pkg/vm"
)

// reverseMnemonic maps an opcode byte back to its canonical mnemonic text,
// built once from mnemonicTable.
var reverseMnemonic = func() map[byte]string {
	m := make(map[byte]string, len(mnemonicTable))
	for name, info := range mnemonicTable {
		m[info.opcode] = name
	}
	return m
}()

// Disassemble renders a single decoded instruction as assembly text. addr
// is the instruction's own address, needed to turn a branch's PC-relative
// offset back into an absolute target for display.
func Disassemble(d vm.Decoded, addr uint32) string {
	name, ok := reverseMnemonic[d.Opcode]
	if !ok {
		return fmt.Sprintf("<unknown opcode 0x%02x>", d.Opcode)
	}
	info := mnemonicTable[name]

	reg := func(i byte) string { return abiNames[i] }

	switch info.form {
	case formZeroOperand:
		return name
	case formRRR:
		return fmt.Sprintf("%s %s, %s, %s", name, reg(d.RD), reg(d.RS), reg(d.RT))
	case formRegImm:
		return fmt.Sprintf("%s %s, %s, %d", name, reg(d.RT), reg(d.RS), int32(d.Imm))
	case formLUI:
		return fmt.Sprintf("%s %s, %d", name, reg(d.RT), d.Imm)
	case formShiftImm:
		return fmt.Sprintf("%s %s, %s, %d", name, reg(d.RD), reg(d.RT), d.Imm)
	case formBranch2Reg:
		target := addr + vm.InstructionWidth + d.Imm
		return fmt.Sprintf("%s %s, %s, 0x%08x", name, reg(d.RS), reg(d.RT), target)
	case formBranch1Reg:
		target := addr + vm.InstructionWidth + d.Imm
		return fmt.Sprintf("%s %s, 0x%08x", name, reg(d.RS), target)
	case formJumpTarget:
		return fmt.Sprintf("%s 0x%08x", name, d.Imm)
	case formJR:
		return fmt.Sprintf("%s %s", name, reg(d.RS))
	case formJALR:
		return fmt.Sprintf("%s %s, %s", name, reg(d.RD), reg(d.RS))
	case formImmOnly:
		return fmt.Sprintf("%s %d", name, d.Imm)
	case formOneReg:
		return fmt.Sprintf("%s %s", name, reg(d.RD))
	case formTwoReg:
		return fmt.Sprintf("%s %s, %s", name, reg(d.RD), reg(d.RT))
	default:
		return name
	}
}
