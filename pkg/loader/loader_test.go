package loader

import (
	"bytes"
	"reflect"
	"testing"
)

func TestLoadRoundTrip(t *testing.T) {
	words := []uint32{0x70000000, 0xD0000048, 0xA0000000, 0x00000000}
	encoded := Encode(words)
	decoded, err := Load(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !reflect.DeepEqual(decoded, words) {
		t.Fatalf("round trip mismatch: got %#x, want %#x", decoded, words)
	}
}

func TestLoadDiscardsTrailingShortGroup(t *testing.T) {
	encoded := Encode([]uint32{0x01020304})
	encoded = append(encoded, 0xAA, 0xBB, 0xCC) // 3 trailing bytes, not a full word
	decoded, err := Load(bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	want := []uint32{0x01020304}
	if !reflect.DeepEqual(decoded, want) {
		t.Fatalf("got %#x, want %#x", decoded, want)
	}
}

func TestLoadEmpty(t *testing.T) {
	decoded, err := Load(bytes.NewReader(nil))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(decoded) != 0 {
		t.Fatalf("expected empty program, got %d words", len(decoded))
	}
}
