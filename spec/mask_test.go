package spec

import (
	"math/bits"
	"slices"
	"testing"
)

func collectIDs(m HartMask) []Word {
	var ids []Word
	for id := range m.IDs() {
		ids = append(ids, id)
	}
	return ids
}

func TestHartMaskHasBit(t *testing.T) {
	m := NewHartMask(0b1, 400)
	if m.HasBit(0) || !m.HasBit(400) || m.HasBit(401) {
		t.Fatalf("mask {1, 400} selects wrong harts")
	}

	m = NewHartMask(0b110, 500)
	if m.HasBit(500) || !m.HasBit(501) || !m.HasBit(502) {
		t.Fatalf("mask {0b110, 500} selects wrong harts")
	}
	if m.HasBit(500 + Word(bits.UintSize)) {
		t.Fatalf("mask selects hart beyond base+XLEN")
	}

	top := Word(1) << (bits.UintSize - 1)
	m = NewHartMask(top, 600)
	if !m.HasBit(600 + Word(bits.UintSize) - 1) {
		t.Fatalf("top bit of mask not selected")
	}
	if m.HasBit(600 + Word(bits.UintSize)) {
		t.Fatalf("hart one past mask range selected")
	}
}

func TestHartMaskAll(t *testing.T) {
	m := AllHarts()
	if !m.IsAll() {
		t.Fatalf("AllHarts not IsAll")
	}
	for _, id := range []Word{0, 1, 5, ^Word(0)} {
		if !m.HasBit(id) {
			t.Fatalf("AllHarts does not select hart %d", id)
		}
	}
	if ids := collectIDs(m); ids != nil {
		t.Fatalf("AllHarts.IDs yielded %v, want nothing", ids)
	}
}

func TestHartMaskIDsOrder(t *testing.T) {
	cases := []struct {
		mask, base Word
		want       []Word
	}{
		{0, 0, nil},
		{0b1, 0, []Word{0}},
		{0b1011, 8, []Word{8, 9, 11}},
		{0b110, 500, []Word{501, 502}},
	}
	for _, c := range cases {
		got := collectIDs(NewHartMask(c.mask, c.base))
		if !slices.Equal(got, c.want) {
			t.Errorf("IDs(%#b, %d) = %v, want %v", c.mask, c.base, got, c.want)
		}
	}
}

func TestHartMaskIDsUnique(t *testing.T) {
	m := NewHartMask(^Word(0), 32)
	got := collectIDs(m)
	if len(got) != bits.UintSize {
		t.Fatalf("full mask yielded %d ids, want %d", len(got), bits.UintSize)
	}
	for i, id := range got {
		if id != 32+Word(i) {
			t.Fatalf("id %d out of order: got %d", i, id)
		}
	}
}

func TestCounterMask(t *testing.T) {
	m := NewCounterMask(0b101, 4)
	want := []Word{4, 6}
	var got []Word
	for id := range m.IDs() {
		got = append(got, id)
	}
	if !slices.Equal(got, want) {
		t.Fatalf("counter IDs = %v, want %v", got, want)
	}
	if !AllCounters().IsAll() {
		t.Fatalf("AllCounters not IsAll")
	}
}
