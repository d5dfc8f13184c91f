package asm

import (
	"errors"
	"testing"

	"github.com/crisp32vm/crisp32/pkg/vm"
)

func TestParseInstructionUnknownMnemonic(t *testing.T) {
	_, err := ParseInstruction(1, "FROB", []string{"r1", "r2", "r3"})
	if !errors.Is(err, ErrUnknownMnemonic) {
		t.Fatalf("err = %v, want ErrUnknownMnemonic", err)
	}
}

func TestParseInstructionWrongArity(t *testing.T) {
	_, err := ParseInstruction(1, "ADD", []string{"r1", "r2"})
	if !errors.Is(err, ErrWrongArity) {
		t.Fatalf("err = %v, want ErrWrongArity", err)
	}
}

func TestEncodeRRR(t *testing.T) {
	ins, err := ParseInstruction(1, "ADD", []string{"r3", "r1", "r2"})
	if err != nil {
		t.Fatalf("ParseInstruction: %v", err)
	}
	word, err := ins.Encode(NewSymbolTable(), 0x1000)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	d := vm.Decode(word[:])
	if d.Opcode != vm.OpADD || d.RD != 3 || d.RS != 1 || d.RT != 2 {
		t.Fatalf("decoded = %+v, want rd=3 rs=1 rt=2", d)
	}
}

func TestEncodeRegImmWithABINames(t *testing.T) {
	ins, err := ParseInstruction(1, "ADDI", []string{"t0", "zero", "10"})
	if err != nil {
		t.Fatalf("ParseInstruction: %v", err)
	}
	word, err := ins.Encode(NewSymbolTable(), 0x1000)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	d := vm.Decode(word[:])
	if d.RT != 8 || d.RS != 0 || d.Imm != 10 {
		t.Fatalf("decoded = %+v, want rt=8(t0) rs=0(zero) imm=10", d)
	}
}

func TestEncodeBranchForwardLabel(t *testing.T) {
	ins, err := ParseInstruction(1, "BEQ", []string{"r1", "r2", "target"})
	if err != nil {
		t.Fatalf("ParseInstruction: %v", err)
	}
	symbols := NewSymbolTable()
	if err := symbols.Define("target", 0x1020); err != nil {
		t.Fatalf("Define: %v", err)
	}
	word, err := ins.Encode(symbols, 0x1000)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	d := vm.Decode(word[:])
	want := uint32(0x1020 - (0x1000 + vm.InstructionWidth))
	if d.Imm != want {
		t.Fatalf("Imm = 0x%x, want 0x%x", d.Imm, want)
	}
}

func TestEncodeJumpTargetAppliesLoadBias(t *testing.T) {
	ins, err := ParseInstruction(1, "J", []string{"0"})
	if err != nil {
		t.Fatalf("ParseInstruction: %v", err)
	}
	word, err := ins.Encode(NewSymbolTable(), 0x1000)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	d := vm.Decode(word[:])
	if d.Imm != loadBias {
		t.Fatalf("Imm = 0x%x, want load bias 0x%x", d.Imm, loadBias)
	}
}

func TestEncodeJumpTargetLabelAlsoBiased(t *testing.T) {
	ins, err := ParseInstruction(1, "JAL", []string{"sub"})
	if err != nil {
		t.Fatalf("ParseInstruction: %v", err)
	}
	symbols := NewSymbolTable()
	if err := symbols.Define("sub", 0x40); err != nil {
		t.Fatalf("Define: %v", err)
	}
	word, err := ins.Encode(symbols, 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	d := vm.Decode(word[:])
	if d.Imm != 0x40+loadBias {
		t.Fatalf("Imm = 0x%x, want 0x%x", d.Imm, 0x40+loadBias)
	}
}

func TestEncodeUndefinedLabel(t *testing.T) {
	ins, err := ParseInstruction(1, "J", []string{"nowhere"})
	if err != nil {
		t.Fatalf("ParseInstruction: %v", err)
	}
	_, err = ins.Encode(NewSymbolTable(), 0)
	if !errors.Is(err, ErrUndefinedLabel) {
		t.Fatalf("err = %v, want ErrUndefinedLabel", err)
	}
}

func TestEncodeZeroOperand(t *testing.T) {
	ins, err := ParseInstruction(1, "NOP", nil)
	if err != nil {
		t.Fatalf("ParseInstruction: %v", err)
	}
	word, err := ins.Encode(NewSymbolTable(), 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if word[0] != vm.OpNOP {
		t.Fatalf("opcode = 0x%x, want OpNOP", word[0])
	}
}

func TestEncodeSetPTBRTwoReg(t *testing.T) {
	ins, err := ParseInstruction(1, "SET_PTBR", []string{"r4", "r5"})
	if err != nil {
		t.Fatalf("ParseInstruction: %v", err)
	}
	word, err := ins.Encode(NewSymbolTable(), 0)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	d := vm.Decode(word[:])
	if d.RD != 4 || d.RT != 5 {
		t.Fatalf("decoded = %+v, want rd=4 rt=5", d)
	}
}
