package asm

import "github.com/crisp32vm/crisp32/pkg/vm"

// operandForm identifies an instruction's operand shape, which in turn
// determines how many tokens follow the mnemonic and how they map onto
// the rs/rt/rd/imm fields of the encoded word (spec.md §4.8).
type operandForm int

const (
	formZeroOperand operandForm = iota // NOP, EI, DI, IRET, SYSCALL, BREAK, ...
	formRRR                            // rd, rs, rt
	formRegImm                         // rt, rs, imm   (ALU-immediate and load/store share this shape)
	formLUI                            // rt, imm
	formShiftImm                       // rd, rt, shamt
	formBranch2Reg                     // rs, rt, target
	formBranch1Reg                     // rs, target
	formJumpTarget                     // target (absolute, biased by the load address)
	formJR                             // rs
	formJALR                           // rd, rs
	formImmOnly                       // imm
	formOneReg                        // rd
	formTwoReg                        // rd, rt
)

// mnemonicInfo describes one mnemonic's opcode and operand shape.
type mnemonicInfo struct {
	opcode      byte
	form        operandForm
	privileged  bool
}

// mnemonicTable maps mnemonic text (already upper-cased) to its encoding
// info. Opcode values match original_source/include/c32_opcodes.h exactly.
var mnemonicTable = map[string]mnemonicInfo{
	"NOP": {vm.OpNOP, formZeroOperand, false},

	"ADD":  {vm.OpADD, formRRR, false},
	"ADDU": {vm.OpADDU, formRRR, false},
	"SUB":  {vm.OpSUB, formRRR, false},
	"SUBU": {vm.OpSUBU, formRRR, false},
	"AND":  {vm.OpAND, formRRR, false},
	"OR":   {vm.OpOR, formRRR, false},
	"XOR":  {vm.OpXOR, formRRR, false},
	"NOR":  {vm.OpNOR, formRRR, false},
	"SLT":  {vm.OpSLT, formRRR, false},
	"SLTU": {vm.OpSLTU, formRRR, false},
	"MUL":  {vm.OpMUL, formRRR, false},
	"MULH": {vm.OpMULH, formRRR, false},
	"MULHU": {vm.OpMULHU, formRRR, false},
	"DIV":  {vm.OpDIV, formRRR, false},
	"DIVU": {vm.OpDIVU, formRRR, false},
	"REM":  {vm.OpREM, formRRR, false},
	"REMU": {vm.OpREMU, formRRR, false},
	"SLLV": {vm.OpSLLV, formRRR, false},
	"SRLV": {vm.OpSRLV, formRRR, false},
	"SRAV": {vm.OpSRAV, formRRR, false},

	"ADDI":  {vm.OpADDI, formRegImm, false},
	"ADDIU": {vm.OpADDIU, formRegImm, false},
	"ANDI":  {vm.OpANDI, formRegImm, false},
	"ORI":   {vm.OpORI, formRegImm, false},
	"XORI":  {vm.OpXORI, formRegImm, false},
	"SLTI":  {vm.OpSLTI, formRegImm, false},
	"SLTIU": {vm.OpSLTIU, formRegImm, false},

	"LUI": {vm.OpLUI, formLUI, false},

	"SLL": {vm.OpSLL, formShiftImm, false},
	"SRL": {vm.OpSRL, formShiftImm, false},
	"SRA": {vm.OpSRA, formShiftImm, false},

	"LW":  {vm.OpLW, formRegImm, false},
	"LH":  {vm.OpLH, formRegImm, false},
	"LHU": {vm.OpLHU, formRegImm, false},
	"LB":  {vm.OpLB, formRegImm, false},
	"LBU": {vm.OpLBU, formRegImm, false},
	"SW":  {vm.OpSW, formRegImm, false},
	"SH":  {vm.OpSH, formRegImm, false},
	"SB":  {vm.OpSB, formRegImm, false},

	"BEQ": {vm.OpBEQ, formBranch2Reg, false},
	"BNE": {vm.OpBNE, formBranch2Reg, false},

	"BLEZ": {vm.OpBLEZ, formBranch1Reg, false},
	"BGTZ": {vm.OpBGTZ, formBranch1Reg, false},
	"BLTZ": {vm.OpBLTZ, formBranch1Reg, false},
	"BGEZ": {vm.OpBGEZ, formBranch1Reg, false},

	"J":   {vm.OpJ, formJumpTarget, false},
	"JAL": {vm.OpJAL, formJumpTarget, false},
	"JR":  {vm.OpJR, formJR, false},
	"JALR": {vm.OpJALR, formJALR, false},

	"SYSCALL": {vm.OpSYSCALL, formZeroOperand, false},
	"BREAK":   {vm.OpBREAK, formZeroOperand, false},

	"EI":    {vm.OpEI, formZeroOperand, true},
	"DI":    {vm.OpDI, formZeroOperand, true},
	"IRET":  {vm.OpIRET, formZeroOperand, true},
	"RAISE": {vm.OpRAISE, formImmOnly, false},
	"GETPC": {vm.OpGETPC, formOneReg, false},

	"ENABLE_PAGING":  {vm.OpENABLE_PAGING, formZeroOperand, true},
	"DISABLE_PAGING": {vm.OpDISABLE_PAGING, formZeroOperand, true},
	"SET_PTBR":       {vm.OpSET_PTBR, formTwoReg, true},
	"ENTER_USER":     {vm.OpENTER_USER, formZeroOperand, true},
	"GETMODE":        {vm.OpGETMODE, formOneReg, false},
}
