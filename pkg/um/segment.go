package um

// segmentStore owns every segment except segment 0, which the Machine
// keeps as a distinguished field (seg0) so the hot fetch path never
// indexes through this table. Identifier id lives at slot id-1 of
// segments; freed slots are set to nil and their identifier pushed onto
// freeList.
//
// Invariants (enforced by Allocate/Free, never by the caller):
//   - a slot is either non-nil (mapped) or its identifier sits in freeList,
//     never both, never neither once an index has been handed out;
//   - freeList is used strictly as a LIFO stack.
type segmentStore struct {
	segments [][]uint32
	freeList []uint32
}

func newSegmentStore() *segmentStore {
	return &segmentStore{}
}

// Allocate constructs a new segment of count zero-words and returns its
// identifier, reusing the most-recently-freed identifier if one is
// available.
func (s *segmentStore) Allocate(count uint32) uint32 {
	seg := make([]uint32, count)
	if n := len(s.freeList); n > 0 {
		id := s.freeList[n-1]
		s.freeList = s.freeList[:n-1]
		s.segments[id-1] = seg
		return id
	}
	id := uint32(len(s.segments)) + 1 // +1: segment 0 is not stored here
	s.segments = append(s.segments, seg)
	return id
}

// Free releases the segment at id and makes id available for reuse.
// Freeing an already-free identifier is fatal (ErrBadUnmap); segment 0
// is never addressable through this store at all (Machine.execute rejects
// UNMAP of segment 0 before calling Free).
func (s *segmentStore) Free(id uint32) error {
	idx, err := s.index(id)
	if err != nil {
		return err
	}
	if s.segments[idx] == nil {
		return ErrBadUnmap
	}
	s.segments[idx] = nil
	s.freeList = append(s.freeList, id)
	return nil
}

// Read returns the word at offset in segment id.
func (s *segmentStore) Read(id, offset uint32) (uint32, error) {
	seg, err := s.segment(id)
	if err != nil {
		return 0, err
	}
	if offset >= uint32(len(seg)) {
		return 0, ErrSegmentFault
	}
	return seg[offset], nil
}

// Write overwrites the word at offset in segment id.
func (s *segmentStore) Write(id, offset, value uint32) error {
	seg, err := s.segment(id)
	if err != nil {
		return err
	}
	if offset >= uint32(len(seg)) {
		return ErrSegmentFault
	}
	seg[offset] = value
	return nil
}

// Contents returns the raw backing slice for id, for LOADPROG's clone.
// Callers must not mutate the returned slice; LOADPROG clones it before
// installing the copy as segment 0.
func (s *segmentStore) Contents(id uint32) ([]uint32, error) {
	return s.segment(id)
}

// Snapshot returns every currently-mapped, non-empty segment keyed by
// identifier. Used exclusively by the debug tracer (pkg/trace); never
// called from an opcode handler.
func (s *segmentStore) Snapshot() map[uint32][]uint32 {
	out := make(map[uint32][]uint32)
	for i, seg := range s.segments {
		if seg != nil && len(seg) > 0 {
			out[uint32(i)+1] = seg
		}
	}
	return out
}

func (s *segmentStore) segment(id uint32) ([]uint32, error) {
	idx, err := s.index(id)
	if err != nil {
		return nil, err
	}
	seg := s.segments[idx]
	if seg == nil {
		return nil, ErrSegmentFault
	}
	return seg, nil
}

// index converts a non-zero segment identifier to its slot in segments,
// bounds-checking it.
func (s *segmentStore) index(id uint32) (uint32, error) {
	if id == 0 || id > uint32(len(s.segments)) {
		return 0, ErrSegmentFault
	}
	return id - 1, nil
}
