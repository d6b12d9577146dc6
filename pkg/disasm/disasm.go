// Package disasm renders a decoded UM instruction word as a mnemonic
// string. It is never used by the dispatch loop; it exists for the
// debug tracer (pkg/trace) and the CLI's disasm subcommand.
package disasm

import (
	"fmt"

	"um32/pkg/um"
)

var mnemonics = map[uint32]string{
	um.OpCMOV:     "cmov",
	um.OpSLOAD:    "sload",
	um.OpSSTORE:   "sstore",
	um.OpADD:      "add",
	um.OpMUL:      "mul",
	um.OpDIV:      "div",
	um.OpNAND:     "nand",
	um.OpHALT:     "halt",
	um.OpMAP:      "map",
	um.OpUNMAP:    "unmap",
	um.OpOUT:      "out",
	um.OpIN:       "in",
	um.OpLOADPROG: "loadprog",
	um.OpLOADIMM:  "ldimm",
}

// One renders a single instruction word, e.g. "add r1 r2 r3" or
// "ldimm r0 72". Unknown opcodes render as "<invalid opcode N>" rather than
// panicking, since disassembly may be applied to arbitrary data while
// inspecting a captured image.
func One(word uint32) string {
	inst := um.Decode(word)
	if !um.ValidOpcode(inst.Op) {
		return fmt.Sprintf("<invalid opcode %d>", inst.Op)
	}
	name := mnemonics[inst.Op]
	switch inst.Op {
	case um.OpHALT:
		return name
	case um.OpUNMAP, um.OpOUT, um.OpIN:
		return fmt.Sprintf("%s r%d", name, inst.C)
	case um.OpMAP:
		return fmt.Sprintf("%s r%d r%d", name, inst.B, inst.C)
	case um.OpLOADPROG:
		return fmt.Sprintf("%s r%d r%d", name, inst.B, inst.C)
	case um.OpLOADIMM:
		return fmt.Sprintf("%s r%d %d", name, um.DecodeLoadImmDest(word), inst.Imm)
	default: // CMOV, SLOAD, SSTORE, ADD, MUL, DIV, NAND: all standard A/B/C form
		return fmt.Sprintf("%s r%d r%d r%d", name, inst.A, inst.B, inst.C)
	}
}

// Program renders every word of a program image, one instruction per
// line, prefixed with its offset — used by the CLI's disasm subcommand.
func Program(words []uint32) string {
	out := ""
	for i, w := range words {
		out += fmt.Sprintf("%6d: %s\n", i, One(w))
	}
	return out
}
