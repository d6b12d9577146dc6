// Package trace implements the debug tracer enabled by the CLI's
// -d/--debug flag: after every instruction it prints the instruction
// word, the register file, and every non-empty mapped segment's id and
// length.
//
// A Tracer never influences machine state; it only observes the
// read-only snapshot the segment store offers for this purpose (see
// um.Machine.SetTracer / um.Tracer).
package trace

import (
	"fmt"
	"io"
	"sort"

	"um32/pkg/disasm"
	"um32/pkg/um"
)

// Writer prints a trace line after every instruction to w.
type Writer struct {
	w     io.Writer
	count uint64
}

// New returns a Tracer that writes to w.
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Trace implements um.Tracer.
func (t *Writer) Trace(pc uint32, word uint32, registers [um.NumRegisters]uint32, segments func() map[uint32][]uint32) {
	t.count++
	fmt.Fprintf(t.w, "#%d pc=%d word=%#08x  %s\n", t.count, pc, word, disasm.One(word))
	fmt.Fprintf(t.w, "    regs=%v\n", registers)

	snap := segments()
	if len(snap) == 0 {
		return
	}
	ids := make([]uint32, 0, len(snap))
	for id := range snap {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for _, id := range ids {
		fmt.Fprintf(t.w, "    segment[%d] len=%d\n", id, len(snap[id]))
	}
}
