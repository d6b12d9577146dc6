package um

import "um32/pkg/bitfield"

// The following constants define the 14 opcodes. The opcode occupies the
// most significant 4 bits of an instruction word; 2 of the 16 possible
// values are unused and decode as fatal.
const (
	OpCMOV = uint32(iota)
	OpSLOAD
	OpSSTORE
	OpADD
	OpMUL
	OpDIV
	OpNAND
	OpHALT
	OpMAP
	OpUNMAP
	OpOUT
	OpIN
	OpLOADPROG
	OpLOADIMM
	opCount
)

// Field layouts for the two instruction formats: the standard
// three-register form (A, B, C) and the load-immediate form (A', V).
var (
	fieldOp  = bitfield.Field{Width: 4, LSB: 28}
	fieldA   = bitfield.Field{Width: 3, LSB: 6}
	fieldB   = bitfield.Field{Width: 3, LSB: 3}
	fieldC   = bitfield.Field{Width: 3, LSB: 0}
	fieldAPr = bitfield.Field{Width: 3, LSB: 25}
	fieldImm = bitfield.Field{Width: 25, LSB: 0}
)

// Instruction is a decoded instruction word.
type Instruction struct {
	Op  uint32
	A   uint32
	B   uint32
	C   uint32
	Imm uint32 // valid only when Op == OpLOADIMM
}

// Decode splits a raw instruction word into its opcode and operand fields.
// The standard A/B/C fields and the load-immediate V field are populated
// unconditionally; callers key off Op to know which apply. The
// load-immediate A' register is not part of Instruction; use
// DecodeLoadImmDest for it.
func Decode(word uint32) Instruction {
	return Instruction{
		Op:  fieldOp.Get(word),
		A:   fieldA.Get(word),
		B:   fieldB.Get(word),
		C:   fieldC.Get(word),
		Imm: fieldImm.Get(word),
	}
}

// DecodeLoadImmDest extracts the A' destination register for a
// load-immediate instruction, which is packed at a different offset than
// the standard A field.
func DecodeLoadImmDest(word uint32) uint32 {
	return fieldAPr.Get(word)
}

// ValidOpcode reports whether op names one of the 14 defined opcodes.
func ValidOpcode(op uint32) bool {
	return op < opCount
}
