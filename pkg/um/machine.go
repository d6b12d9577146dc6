// Package um implements the Universal Machine: a 32-bit word-addressed
// virtual machine with eight registers, a dynamically sized collection
// of segments, and a 14-opcode instruction set.
//
// The two subsystems that matter for performance are the dispatch loop
// (Machine.Run) and the segment store (segmentStore): LOADPROG clones an
// arbitrary segment into segment 0 on every program replacement, and the
// dispatch loop must pick that clone up on its very next fetch without
// any extra indirection.
package um

// NumRegisters is the number of general-purpose registers.
const NumRegisters = 8

// HostIO is the narrow I/O surface the OUT and IN opcodes need. It is
// satisfied by pkg/hostio.Device; tests can supply any implementation
// (e.g. one backed by bytes.Buffer) without depending on pkg/hostio.
type HostIO interface {
	// ReadByte reads one byte from the input stream. ok is false and err
	// is nil at clean end-of-stream; ok is false and err is non-nil on
	// any other read failure.
	ReadByte() (b byte, ok bool, err error)

	// WriteByte writes one byte to the output stream and ensures it is
	// visible to a downstream reader before returning.
	WriteByte(b byte) error
}

// Tracer observes machine state after every instruction. It never
// influences execution; pkg/trace provides the concrete implementation
// used by the -d/--debug CLI flag.
type Tracer interface {
	Trace(pc uint32, word uint32, registers [NumRegisters]uint32, segments func() map[uint32][]uint32)
}

// Machine is a single Universal Machine instance. It is not safe for
// concurrent use: the architecture is strictly single-threaded (§5).
type Machine struct {
	regs  [NumRegisters]uint32
	seg0  []uint32 // segment 0, kept out of the general store for the hot path
	store *segmentStore
	pc    uint32

	io     HostIO
	tracer Tracer
}

// New constructs a machine with segment 0 installed from program. The
// free-list starts empty, per §4.2's Install-initial operation.
func New(program []uint32, io HostIO) *Machine {
	seg0 := make([]uint32, len(program))
	copy(seg0, program)
	return &Machine{
		seg0:  seg0,
		store: newSegmentStore(),
		io:    io,
	}
}

// SetTracer installs a Tracer invoked after every instruction. Passing
// nil disables tracing (the default).
func (m *Machine) SetTracer(t Tracer) {
	m.tracer = t
}

// Registers returns a copy of the current register file, for tests and
// for the tracer.
func (m *Machine) Registers() [NumRegisters]uint32 {
	return m.regs
}

// PC returns the current program counter.
func (m *Machine) PC() uint32 {
	return m.pc
}

// Run executes instructions until HALT or a fatal condition. On HALT it
// returns nil; any other return value is a *FatalError (or an error from
// the HostIO implementation wrapped as one) and the caller should treat
// the machine as done and terminate with non-zero status.
func (m *Machine) Run() error {
	for {
		if m.pc >= uint32(len(m.seg0)) {
			return fatalf(ErrSegmentFault, m.pc, 0, "program counter out of range")
		}
		word := m.seg0[m.pc]
		inst := Decode(word)

		nextPC, err := m.execute(inst, word)
		if err != nil {
			if err == ErrHalted {
				return nil
			}
			return err
		}

		if m.tracer != nil {
			m.tracer.Trace(m.pc, word, m.regs, func() map[uint32][]uint32 {
				snap := m.store.Snapshot()
				if len(m.seg0) > 0 {
					snap[0] = m.seg0
				}
				return snap
			})
		}

		m.pc = nextPC
	}
}

// execute dispatches a single decoded instruction and returns the
// program counter to use on the next iteration (normally m.pc+1, except
// for LOADPROG which sets it explicitly).
func (m *Machine) execute(inst Instruction, word uint32) (nextPC uint32, err error) {
	pc := m.pc
	switch inst.Op {
	case OpCMOV:
		if m.regs[inst.C] != 0 {
			m.regs[inst.A] = m.regs[inst.B]
		}
		return pc + 1, nil

	case OpSLOAD:
		v, err := m.readSeg(m.regs[inst.B], m.regs[inst.C])
		if err != nil {
			return 0, fatalf(err, pc, word, "sload segment=%d offset=%d", m.regs[inst.B], m.regs[inst.C])
		}
		m.regs[inst.A] = v
		return pc + 1, nil

	case OpSSTORE:
		if err := m.writeSeg(m.regs[inst.A], m.regs[inst.B], m.regs[inst.C]); err != nil {
			return 0, fatalf(err, pc, word, "sstore segment=%d offset=%d", m.regs[inst.A], m.regs[inst.B])
		}
		return pc + 1, nil

	case OpADD:
		m.regs[inst.A] = m.regs[inst.B] + m.regs[inst.C]
		return pc + 1, nil

	case OpMUL:
		m.regs[inst.A] = m.regs[inst.B] * m.regs[inst.C]
		return pc + 1, nil

	case OpDIV:
		if m.regs[inst.C] == 0 {
			return 0, fatalf(ErrDivideByZero, pc, word, "r[%d] == 0", inst.C)
		}
		m.regs[inst.A] = m.regs[inst.B] / m.regs[inst.C]
		return pc + 1, nil

	case OpNAND:
		m.regs[inst.A] = ^(m.regs[inst.B] & m.regs[inst.C])
		return pc + 1, nil

	case OpHALT:
		return 0, ErrHalted

	case OpMAP:
		id := m.store.Allocate(m.regs[inst.C])
		m.regs[inst.B] = id
		return pc + 1, nil

	case OpUNMAP:
		id := m.regs[inst.C]
		if id == 0 {
			return 0, fatalf(ErrBadUnmap, pc, word, "cannot unmap segment 0")
		}
		if err := m.store.Free(id); err != nil {
			return 0, fatalf(err, pc, word, "unmap segment=%d", id)
		}
		return pc + 1, nil

	case OpOUT:
		v := m.regs[inst.C]
		if v > 255 {
			return 0, fatalf(ErrOutOfRange, pc, word, "r[%d]=%d", inst.C, v)
		}
		if err := m.io.WriteByte(byte(v)); err != nil {
			return 0, fatalf(ErrHostIO, pc, word, "write: %v", err)
		}
		return pc + 1, nil

	case OpIN:
		b, ok, err := m.io.ReadByte()
		if err != nil {
			return 0, fatalf(ErrHostIO, pc, word, "read: %v", err)
		}
		if !ok {
			m.regs[inst.C] = 0xFFFFFFFF
		} else {
			m.regs[inst.C] = uint32(b)
		}
		return pc + 1, nil

	case OpLOADPROG:
		if m.regs[inst.B] != 0 {
			src, err := m.store.Contents(m.regs[inst.B])
			if err != nil {
				return 0, fatalf(err, pc, word, "loadprog segment=%d", m.regs[inst.B])
			}
			dup := make([]uint32, len(src))
			copy(dup, src)
			m.seg0 = dup
		}
		return m.regs[inst.C], nil

	case OpLOADIMM:
		dest := DecodeLoadImmDest(word)
		m.regs[dest] = inst.Imm
		return pc + 1, nil

	default:
		return 0, fatalf(ErrInvalidOpcode, pc, word, "opcode=%d", inst.Op)
	}
}

// readSeg reads one word from segment id; id == 0 addresses segment 0 and
// is resolved against m.seg0 directly rather than through the general
// store, matching the store's own "segment 0 is special" invariant.
func (m *Machine) readSeg(id, offset uint32) (uint32, error) {
	if id == 0 {
		if offset >= uint32(len(m.seg0)) {
			return 0, ErrSegmentFault
		}
		return m.seg0[offset], nil
	}
	return m.store.Read(id, offset)
}

func (m *Machine) writeSeg(id, offset, value uint32) error {
	if id == 0 {
		if offset >= uint32(len(m.seg0)) {
			return ErrSegmentFault
		}
		m.seg0[offset] = value
		return nil
	}
	return m.store.Write(id, offset, value)
}
