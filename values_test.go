package main

import "testing"

// TestReprNumber tests the shift-left-by-one number encoding
func TestReprNumber(t *testing.T) {
	tests := []struct {
		n    int
		want int32
	}{
		{0, 0},
		{1, 2},
		{3, 6},
		{21, 42},
		{-1, -2},
		{-7, -14},
		{1<<30 - 1, (1<<31 - 2)},
		{-(1 << 30), -(1 << 31)},
	}
	for _, tc := range tests {
		if got := reprNumber(tc.n); got != tc.want {
			t.Errorf("reprNumber(%d): expected %d, got %d", tc.n, tc.want, got)
		}
		if got := reprNumber(tc.n); got&1 != 0 {
			t.Errorf("reprNumber(%d) has the low bit set", tc.n)
		}
	}
}

// TestReprBool tests the boolean constants
func TestReprBool(t *testing.T) {
	if reprBool(true) != 0xFFFFFFFF {
		t.Errorf("true: expected 0xFFFFFFFF, got 0x%08X", reprBool(true))
	}
	if reprBool(false) != 0x7FFFFFFF {
		t.Errorf("false: expected 0x7FFFFFFF, got 0x%08X", reprBool(false))
	}
}

// TestTypeTagsAndMasks tests the tag and mask table
func TestTypeTagsAndMasks(t *testing.T) {
	tests := []struct {
		ty   ValueType
		tag  uint32
		mask uint32
	}{
		{TNumber, 0x0, 0x1},
		{TBoolean, 0x7FFFFFFF, 0x7FFFFFFF},
		{TTuple, 0x1, 0x7},
		{TClosure, 0x5, 0x7},
	}
	for _, tc := range tests {
		if got := typeTag(tc.ty); got != tc.tag {
			t.Errorf("typeTag(%s): expected 0x%X, got 0x%X", tc.ty, tc.tag, got)
		}
		if got := typeMask(tc.ty); got != tc.mask {
			t.Errorf("typeMask(%s): expected 0x%X, got 0x%X", tc.ty, tc.mask, got)
		}
	}
}

// TestTagConsistency tests that each kind's encoding matches its own
// tag/mask pair and no other kind's
func TestTagConsistency(t *testing.T) {
	values := map[ValueType]uint32{
		TNumber:  uint32(reprNumber(21)),
		TBoolean: reprBool(true),
		TTuple:   0x1000 | typeTag(TTuple),
		TClosure: 0x1000 | typeTag(TClosure),
	}
	for kind, word := range values {
		for _, other := range []ValueType{TNumber, TTuple, TClosure} {
			match := word&typeMask(other) == typeTag(other)
			if other == kind && !match {
				t.Errorf("%s value 0x%08X does not match its own tag", kind, word)
			}
			if other != kind && match {
				t.Errorf("%s value 0x%08X also matches %s", kind, word, other)
			}
		}
	}
}
