package asm

import (
	"errors"
	"strings"
	"testing"

	"github.com/crisp32vm/crisp32/pkg/vm"
)

func TestAssembleSimpleProgram(t *testing.T) {
	src := `
; compute 10 + 32 and halt
	addi t0, zero, 10
	addi t1, zero, 32
	add  t2, t0, t1
	syscall
`
	res, err := Assemble(strings.NewReader(src), vm.DefaultLoadAddress, vm.DefaultMemorySize)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	if len(res.Image) != 4*vm.InstructionWidth {
		t.Fatalf("image is %d bytes, want %d", len(res.Image), 4*vm.InstructionWidth)
	}
	if res.Instructions != 4 {
		t.Fatalf("Instructions = %d, want 4", res.Instructions)
	}

	d := vm.Decode(res.Image[2*vm.InstructionWidth:])
	if d.Opcode != vm.OpADD || d.RD != 10 || d.RS != 8 || d.RT != 9 {
		t.Fatalf("third instruction decoded as %+v", d)
	}
}

func TestAssembleForwardAndBackwardLabels(t *testing.T) {
	src := `
loop:
	addi t0, t0, -1
	bgtz t0, loop
	j    done
done:
	syscall
`
	res, err := Assemble(strings.NewReader(src), vm.DefaultLoadAddress, vm.DefaultMemorySize)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	branch := vm.Decode(res.Image[1*vm.InstructionWidth:])
	backwardOffset := int32(branch.Imm)
	if backwardOffset != -16 {
		t.Fatalf("backward branch offset = %d, want -16", backwardOffset)
	}

	jump := vm.Decode(res.Image[2*vm.InstructionWidth:])
	if jump.Imm != vm.DefaultLoadAddress+24+loadBias {
		t.Fatalf("forward jump target = 0x%x, want 0x%x", jump.Imm, vm.DefaultLoadAddress+24+loadBias)
	}
}

func TestAssembleDuplicateLabel(t *testing.T) {
	src := `
again:
	nop
again:
	nop
`
	_, err := Assemble(strings.NewReader(src), vm.DefaultLoadAddress, vm.DefaultMemorySize)
	if !errors.Is(err, ErrDuplicateLabel) {
		t.Fatalf("err = %v, want ErrDuplicateLabel", err)
	}
}

func TestAssembleAccumulatesErrorsAcrossPass(t *testing.T) {
	src := `
	frob r1, r2, r3
	add  r1, r2
	nop
`
	_, err := Assemble(strings.NewReader(src), vm.DefaultLoadAddress, vm.DefaultMemorySize)
	var errs Errors
	if !errors.As(err, &errs) {
		t.Fatalf("err = %v (%T), want Errors", err, err)
	}
	if len(errs) != 2 {
		t.Fatalf("got %d accumulated errors, want 2 (both bad lines reported, not just the first)", len(errs))
	}
	if !errors.Is(err, ErrUnknownMnemonic) || !errors.Is(err, ErrWrongArity) {
		t.Fatalf("err = %v, want both ErrUnknownMnemonic and ErrWrongArity", err)
	}
}

func TestAssembleCommentsAndCommaSeparators(t *testing.T) {
	srcHash := "addi t0,zero,1 # comment\nsyscall\n"
	srcSemi := "addi t0, zero, 1 ; comment\nsyscall\n"

	res1, err := Assemble(strings.NewReader(srcHash), vm.DefaultLoadAddress, vm.DefaultMemorySize)
	if err != nil {
		t.Fatalf("Assemble (hash): %v", err)
	}
	res2, err := Assemble(strings.NewReader(srcSemi), vm.DefaultLoadAddress, vm.DefaultMemorySize)
	if err != nil {
		t.Fatalf("Assemble (semicolon): %v", err)
	}
	if string(res1.Image) != string(res2.Image) {
		t.Fatal("comma- and whitespace-separated operands should assemble identically")
	}
}

func TestAssembleOutputTooLarge(t *testing.T) {
	src := "nop\nnop\nnop\n"
	_, err := Assemble(strings.NewReader(src), vm.DefaultLoadAddress, vm.InstructionWidth) // room for 1 instruction
	if !errors.Is(err, ErrOutputTooLarge) {
		t.Fatalf("err = %v, want ErrOutputTooLarge", err)
	}
}

func TestDisassembleRoundTrip(t *testing.T) {
	src := "add t2, t0, t1\n"
	res, err := Assemble(strings.NewReader(src), 0, vm.DefaultMemorySize)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	d := vm.Decode(res.Image)
	text := Disassemble(d, 0)
	if text != "ADD t2, t0, t1" {
		t.Fatalf("Disassemble = %q", text)
	}
}

func TestStartAssemblerStreamsResults(t *testing.T) {
	src := "nop\nnop\n"
	var words [][vm.InstructionWidth]byte
	for res := range StartAssembler(strings.NewReader(src), vm.DefaultLoadAddress) {
		if res.Err != nil {
			t.Fatalf("streamed error: %v", res.Err)
		}
		words = append(words, res.Word)
	}
	if len(words) != 2 {
		t.Fatalf("got %d results, want 2", len(words))
	}
}
