/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Group assembler tests
 */

package ipp

import (
	"testing"

	"github.com/OpenPrinting/goipp"
)

// TestTransition tests the assembler state transitions
func TestTransition(t *testing.T) {
	op := groupState(goipp.TagOperationGroup)
	job := groupState(goipp.TagJobGroup)

	tests := []struct {
		state groupState
		b     byte
		next  groupState
		step  step
		err   error
	}{
		{stateNoGroup, 0x01, op, stepGroup, nil},
		{stateNoGroup, 0x03, stateNoGroup, stepEnd, nil},
		{stateNoGroup, 0x21, stateNoGroup, stepAttribute, errNoGroup},
		{stateNoGroup, 0x00, stateNoGroup, stepAttribute, errInvalidTagZero},
		{op, 0x02, job, stepGroup, nil},
		{op, 0x01, op, stepGroup, nil},
		{op, 0x03, op, stepEnd, nil},
		{op, 0x21, op, stepAttribute, nil},
		{op, 0x44, op, stepAttribute, nil},
		{op, 0x34, op, stepAttribute, nil},
		{op, 0x4a, op, stepAttribute, errCollectionTag},
		{op, 0x37, op, stepAttribute, errCollectionTag},
		{job, 0x04, groupState(goipp.TagPrinterGroup), stepGroup, nil},
		{job, 0x09, groupState(goipp.TagDocumentGroup), stepGroup, nil},
		{job, 0x0f, groupState(goipp.TagFuture15Group), stepGroup, nil},
		{job, 0x00, job, stepAttribute, errInvalidTagZero},
	}

	for _, test := range tests {
		next, st, err := transition(test.state, test.b)
		if next != test.next || st != test.step || err != test.err {
			t.Errorf("transition(%s, 0x%2.2x): expected (%s, %d, %v), "+
				"present (%s, %d, %v)",
				test.state, test.b, test.next, test.step, test.err,
				next, st, err)
		}
	}
}

// TestFold tests folding of continuation records
func TestFold(t *testing.T) {
	attrs := &Attributes{}

	// Continuation without preceding attribute
	last, err := fold(attrs, "", goipp.TagKeyword, "", String("x"))
	if err != errContinuation || last != "" {
		t.Errorf("orphan continuation: last=%q err=%v", last, err)
	}

	steps := []struct {
		name string
		v    Value
	}{
		{"a", Integer(1)},
		{"b", String("x")},
		{"", String("y")},
		{"", String("z")},
		{"c", Boolean(true)},
		{"", Boolean(false)},
	}

	for _, s := range steps {
		last, err = fold(attrs, last, goipp.TagZero, s.name, s.v)
		if err != nil {
			t.Fatalf("fold(%q, %s): %s", s.name, s.v, err)
		}
	}

	if last != "c" {
		t.Errorf("last: expected %q, present %q", "c", last)
	}

	expected := (&Attributes{}).
		Add("a", Scalar(Integer(1))).
		Add("b", Strings("x", "y", "z")).
		Add("c", Sequence(Boolean(true), Boolean(false)))

	if !attrs.Equal(expected) {
		t.Errorf("fold result mismatch")
	}

	av, _ := attrs.Get("a")
	if av.IsSequence() {
		t.Errorf("single-valued attribute became Sequence")
	}

	av, _ = attrs.Get("b")
	if !av.IsSequence() || av.Len() != 3 {
		t.Errorf("expected 3-element Sequence, present %s", av)
	}

	// Redefinition replaces the value in place
	last, _ = fold(attrs, last, goipp.TagZero, "a", Integer(2))
	if attrs.Names()[0] != "a" || attrs.Value("a") != Integer(2) {
		t.Errorf("redefinition: %v", attrs.Names())
	}
	if last != "a" {
		t.Errorf("redefinition: last=%q", last)
	}
}

// TestAssembler tests the group partitioning
func TestAssembler(t *testing.T) {
	var a assembler

	a.group(groupState(goipp.TagOperationGroup))
	a.attribute(goipp.TagCharset, "attributes-charset", String("utf-8"))
	a.group(groupState(goipp.TagJobGroup))
	a.attribute(goipp.TagInteger, "job-id", Integer(1))
	a.group(groupState(goipp.TagJobGroup))
	a.group(groupState(goipp.TagJobGroup))
	a.attribute(goipp.TagInteger, "job-id", Integer(2))
	a.flush()

	if len(a.out) != 3 {
		t.Fatalf("expected 3 groups, present %d", len(a.out))
	}

	tags := []goipp.Tag{goipp.TagOperationGroup, goipp.TagJobGroup,
		goipp.TagJobGroup}
	for i, tag := range tags {
		if a.out[i].Tag != tag {
			t.Errorf("group %d: expected %s, present %s",
				i, tag, a.out[i].Tag)
		}
	}

	if id, _ := a.out[2].Attrs.Int("job-id"); id != 2 {
		t.Errorf("second job: job-id=%d", id)
	}

	// Empty group is kept by end, but not by group
	a.group(groupState(goipp.TagPrinterGroup))
	a.group(groupState(goipp.TagPrinterGroup))
	a.end()

	if len(a.out) != 4 || a.out[3].Tag != goipp.TagPrinterGroup ||
		a.out[3].Attrs.Len() != 0 {
		t.Errorf("trailing empty group: %d groups", len(a.out))
	}

	// The last named attribute is not inherited across groups
	a.group(groupState(goipp.TagJobGroup))
	if err := a.attribute(goipp.TagInteger, "", Integer(3)); err == nil {
		t.Errorf("continuation across groups accepted")
	}
}
