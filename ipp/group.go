/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Group assembler
 */

package ipp

import (
	"github.com/OpenPrinting/goipp"
)

// groupState is the state of the group assembler: either the tag
// of the group being collected, or stateNoGroup before the first
// group tag is seen
type groupState goipp.Tag

const stateNoGroup = groupState(goipp.TagZero)

// String returns groupState name
func (state groupState) String() string {
	if state == stateNoGroup {
		return "no-group"
	}
	return goipp.Tag(state).String()
}

// step is what the assembler does with the next tag byte
type step int

const (
	stepAttribute step = iota // Byte starts an attribute record
	stepGroup                 // Byte is a group tag: flush and switch
	stepEnd                   // Byte is TagEnd: flush and stop
)

// transition computes the next assembler state from the current state
// and the tag byte at the current offset
func transition(state groupState, b byte) (groupState, step, error) {
	tag := goipp.Tag(b)

	switch {
	case tag == goipp.TagEnd:
		return state, stepEnd, nil
	case tag == goipp.TagZero:
		return state, stepAttribute, errInvalidTagZero
	case isGroupTag(tag):
		return groupState(tag), stepGroup, nil
	case state == stateNoGroup:
		return state, stepAttribute, errNoGroup
	case tag == goipp.TagMemberName || tag == goipp.TagEndCollection:
		return state, stepAttribute, errCollectionTag
	}

	return state, stepAttribute, nil
}

// Errors returned by transition and fold. The decoder converts
// them into DecodeError with offset
var (
	errInvalidTagZero = assemblerError("invalid tag 0")
	errNoGroup        = assemblerError("attribute without a group")
	errCollectionTag  = assemblerError("collection tag outside of collection")
	errContinuation   = assemblerError("additional value without preceding attribute")
)

type assemblerError string

func (e assemblerError) Error() string { return string(e) }

// fold adds decoded record to the group.
//
// A named record sets the attribute and becomes the last named one.
// A record with empty name continues the last named attribute:
// a Scalar becomes a 2-element Sequence, a Sequence is extended.
//
// fold returns name of the last named attribute after the update
func fold(attrs *Attributes, last string, tag goipp.Tag,
	name string, v Value) (string, error) {

	if name != "" {
		attrs.AddTag(name, tag, Scalar(v))
		return name, nil
	}

	if last == "" || !attrs.Has(last) {
		return last, errContinuation
	}

	attrs.extend(last, v)
	return last, nil
}

// assembler partitions decoded attributes into group objects
type assembler struct {
	state groupState  // Current state
	cur   *Attributes // Object being collected
	last  string      // Last named attribute of cur
	out   []Group     // Flushed groups
}

// Group represents a single group of attributes, that describes
// one logical object (operation parameters, one job, one printer...)
type Group struct {
	Tag   goipp.Tag   // Group tag
	Attrs *Attributes // Group attributes
}

// group handles stepGroup: flushes the object being collected
// and starts a new one
func (a *assembler) group(state groupState) {
	a.flush()
	a.state = state
	a.cur = &Attributes{}
	a.last = ""
}

// attribute handles decoded attribute record
func (a *assembler) attribute(tag goipp.Tag, name string, v Value) error {
	var err error
	a.last, err = fold(a.cur, a.last, tag, name, v)
	return err
}

// end handles stepEnd: flushes the last object. Unlike the
// objects flushed by group, it is kept even if empty
func (a *assembler) end() {
	if a.state != stateNoGroup {
		a.out = append(a.out, Group{goipp.Tag(a.state), a.cur})
	}
	a.cur = nil
}

// flush appends the object being collected to the output.
// Empty objects are dropped
func (a *assembler) flush() {
	if a.state != stateNoGroup && a.cur.Len() > 0 {
		a.out = append(a.out, Group{goipp.Tag(a.state), a.cur})
	}
	a.cur = nil
}
