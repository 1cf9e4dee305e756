/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Attributes tests
 */

package ipp

import (
	"testing"
)

// TestAttrValue tests Scalar and Sequence values
func TestAttrValue(t *testing.T) {
	tests := []struct {
		v   AttrValue
		seq bool
		n   int
		s   string
	}{
		{Scalar(Integer(5)), false, 1, "5"},
		{Sequence(Integer(1), Integer(2)), true, 2, "[1,2]"},
		{Strings("a"), true, 1, "[a]"},
		{Sequence(), true, 0, "[]"},
		{Scalar(JobHeld), false, 1, "Held"},
	}

	for _, test := range tests {
		if test.v.IsSequence() != test.seq {
			t.Errorf("%s: IsSequence=%v", test.s, test.v.IsSequence())
		}
		if test.v.Len() != test.n {
			t.Errorf("%s: Len=%d", test.s, test.v.Len())
		}
		if test.v.String() != test.s {
			t.Errorf("%s: String=%q", test.s, test.v.String())
		}
	}

	// One-element Sequence is not a Scalar
	if Scalar(String("a")).Equal(Strings("a")) {
		t.Errorf("Scalar equals one-element Sequence")
	}

	if Sequence().Value() != nil {
		t.Errorf("empty Sequence has a value")
	}
}

// TestAttributes tests Attributes ordering and lookup
func TestAttributes(t *testing.T) {
	var nilAttrs *Attributes
	if nilAttrs.Has("x") || nilAttrs.Len() != 0 ||
		nilAttrs.Value("x") != nil || len(nilAttrs.Names()) != 0 {
		t.Errorf("nil Attributes not empty")
	}

	var attrs Attributes
	attrs.Add("c", Scalar(Integer(3)))
	attrs.Add("a", Scalar(String("x")))
	attrs.Add("b", Scalar(PrinterProcessing))
	attrs.Add("a", Scalar(String("y")))

	names := attrs.Names()
	if len(names) != 3 || names[0] != "c" || names[1] != "a" ||
		names[2] != "b" {
		t.Errorf("Names: %q", names)
	}

	if s, ok := attrs.Str("a"); !ok || s != "y" {
		t.Errorf("Str(a): %q, %v", s, ok)
	}

	if n, ok := attrs.Int("b"); !ok || n != 4 {
		t.Errorf("Int(b): %d, %v", n, ok)
	}

	if _, ok := attrs.Int("a"); ok {
		t.Errorf("Int(a): string accepted as int")
	}

	if _, ok := attrs.Get("missed"); ok {
		t.Errorf("Get(missed): found")
	}
}
