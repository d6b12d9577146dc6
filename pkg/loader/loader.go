// Package loader reads a UM program image — a flat stream of 32-bit
// big-endian words with no header — and decodes it into a word vector
// suitable for installing as segment 0 of a machine.
package loader

import (
	"encoding/binary"
	"io"
)

// Load reads r to end-of-stream and groups the bytes into 4-byte
// big-endian words. If the final group is short (fewer than 4 trailing
// bytes), those bytes are discarded rather than treated as an error —
// this matches the reference loader's behavior; see DESIGN.md for the
// rationale.
func Load(r io.Reader) ([]uint32, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	n := len(raw) / 4
	words := make([]uint32, n)
	for i := 0; i < n; i++ {
		words[i] = binary.BigEndian.Uint32(raw[i*4 : i*4+4])
	}
	return words, nil
}

// Encode is the inverse of Load: it serializes words as big-endian bytes.
// It exists primarily to support the loader round-trip test property and
// to let tests build program images in memory.
func Encode(words []uint32) []byte {
	out := make([]byte, len(words)*4)
	for i, w := range words {
		binary.BigEndian.PutUint32(out[i*4:i*4+4], w)
	}
	return out
}
