package vm

// InstructionWidth is the fixed width, in bytes, of every CRISP-32
// instruction (spec.md §3).
const InstructionWidth = 8

// Decoded holds the fields of a split instruction word: one byte each of
// opcode/rs/rt/rd, and a 32-bit immediate/offset/absolute-target. Register
// indices are taken as-is; callers must not trust bits beyond the low 5
// (the field is a full byte but only 0-31 are legal register numbers).
type Decoded struct {
	Opcode byte
	RS     byte
	RT     byte
	RD     byte
	Imm    uint32
}

// Decode splits an 8-byte instruction word into its fields. It performs no
// validation of register index range (spec.md §4.5).
func Decode(word []byte) Decoded {
	return Decoded{
		Opcode: word[0],
		RS:     word[1],
		RT:     word[2],
		RD:     word[3],
		Imm:    readUint32(word, 4),
	}
}

// Encode serializes a decoded instruction back into its 8-byte layout.
// Encode(Decode(w)) == w for every valid 8-byte word w (spec.md §8).
func Encode(d Decoded) [InstructionWidth]byte {
	var out [InstructionWidth]byte
	out[0] = d.Opcode
	out[1] = d.RS
	out[2] = d.RT
	out[3] = d.RD
	writeUint32(out[:], 4, d.Imm)
	return out
}
