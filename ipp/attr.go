/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Attributes
 */

package ipp

import (
	"strings"

	"github.com/OpenPrinting/goipp"
)

// AttrValue is the value of attribute: either a single Value (Scalar)
// or an ordered sequence of values (Sequence)
type AttrValue struct {
	values []Value
	seq    bool
}

// Scalar makes a single-valued AttrValue
func Scalar(v Value) AttrValue {
	return AttrValue{values: []Value{v}}
}

// Sequence makes a multi-valued AttrValue. Order of values is preserved
func Sequence(values ...Value) AttrValue {
	return AttrValue{values: append([]Value(nil), values...), seq: true}
}

// Strings makes a Sequence of String values
func Strings(s ...string) AttrValue {
	values := make([]Value, len(s))
	for i := range s {
		values[i] = String(s[i])
	}
	return AttrValue{values: values, seq: true}
}

// IsSequence tells if AttrValue is a Sequence
func (av AttrValue) IsSequence() bool {
	return av.seq
}

// Value returns the scalar value. For Sequence it returns the first
// element, or nil if Sequence is empty
func (av AttrValue) Value() Value {
	if len(av.values) == 0 {
		return nil
	}
	return av.values[0]
}

// Values returns all values, as a slice. For Scalar the slice has
// exactly one element
func (av AttrValue) Values() []Value {
	return av.values
}

// Len returns count of values
func (av AttrValue) Len() int {
	return len(av.values)
}

// String converts AttrValue to string. Sequence elements are
// separated by comma
func (av AttrValue) String() string {
	s := make([]string, len(av.values))
	for i, v := range av.values {
		s[i] = v.String()
	}
	if av.seq {
		return "[" + strings.Join(s, ",") + "]"
	}
	return strings.Join(s, ",")
}

// Equal checks that two AttrValues are equal
func (av AttrValue) Equal(av2 AttrValue) bool {
	if av.seq != av2.seq || len(av.values) != len(av2.values) {
		return false
	}

	for i := range av.values {
		if !ValueEqual(av.values[i], av2.values[i]) {
			return false
		}
	}

	return true
}

// extend appends continuation value. Scalar becomes a 2-element
// Sequence [previous, v]
func (av AttrValue) extend(v Value) AttrValue {
	values := make([]Value, len(av.values), len(av.values)+1)
	copy(values, av.values)
	return AttrValue{values: append(values, v), seq: true}
}

// Attribute represents a single named attribute
type Attribute struct {
	Name  string    // Attribute name
	Tag   goipp.Tag // Value tag, TagZero to resolve via Registry
	Value AttrValue // Attribute value
}

// Attributes represents an insertion-ordered set of attributes,
// with unique names
//
// The zero value is an empty set, ready to use
type Attributes struct {
	list  []Attribute    // Attributes, in order of insertion
	index map[string]int // Name to list index
}

// Add adds attribute with tag resolved by Encoder via Registry.
// If attribute already exists, its value is replaced in place
func (attrs *Attributes) Add(name string, v AttrValue) *Attributes {
	return attrs.AddTag(name, goipp.TagZero, v)
}

// AddTag adds attribute with explicitly specified tag.
// If attribute already exists, its value is replaced in place
func (attrs *Attributes) AddTag(name string, tag goipp.Tag,
	v AttrValue) *Attributes {

	if attrs.index == nil {
		attrs.index = make(map[string]int)
	}

	attr := Attribute{Name: name, Tag: tag, Value: v}
	if i, found := attrs.index[name]; found {
		attrs.list[i] = attr
	} else {
		attrs.index[name] = len(attrs.list)
		attrs.list = append(attrs.list, attr)
	}

	return attrs
}

// Get returns attribute value by name
func (attrs *Attributes) Get(name string) (AttrValue, bool) {
	if attrs == nil {
		return AttrValue{}, false
	}

	if i, found := attrs.index[name]; found {
		return attrs.list[i].Value, true
	}

	return AttrValue{}, false
}

// Lookup returns attribute by name
func (attrs *Attributes) Lookup(name string) (Attribute, bool) {
	if attrs == nil {
		return Attribute{}, false
	}

	if i, found := attrs.index[name]; found {
		return attrs.list[i], true
	}

	return Attribute{}, false
}

// Value returns attribute scalar value (the first value for
// sequences), or nil if attribute is missed
func (attrs *Attributes) Value(name string) Value {
	av, _ := attrs.Get(name)
	return av.Value()
}

// Int returns first value of attribute as int, if it is
// an Integer or enumeration
func (attrs *Attributes) Int(name string) (int, bool) {
	if v, ok := attrs.Value(name).(integerValue); ok {
		return int(v.int32Value()), true
	}
	return 0, false
}

// Str returns first value of attribute as string, if it is a String
func (attrs *Attributes) Str(name string) (string, bool) {
	s, ok := attrs.Value(name).(String)
	return string(s), ok
}

// Strings returns all String values of attribute
func (attrs *Attributes) Strings(name string) []string {
	av, _ := attrs.Get(name)

	var s []string
	for _, v := range av.values {
		if str, ok := v.(String); ok {
			s = append(s, string(str))
		}
	}

	return s
}

// Has tells if attribute exists
func (attrs *Attributes) Has(name string) bool {
	_, found := attrs.Get(name)
	return found
}

// Len returns count of attributes
func (attrs *Attributes) Len() int {
	if attrs == nil {
		return 0
	}
	return len(attrs.list)
}

// Names returns names of all attributes, in order of insertion
func (attrs *Attributes) Names() []string {
	names := make([]string, attrs.Len())
	for i := range names {
		names[i] = attrs.list[i].Name
	}
	return names
}

// All returns all attributes, in order of insertion
func (attrs *Attributes) All() []Attribute {
	if attrs == nil {
		return nil
	}
	return append([]Attribute(nil), attrs.list...)
}

// Equal checks that two attribute sets contain the same attributes
// with equal values, in the same order. Tags are not compared
func (attrs *Attributes) Equal(attrs2 *Attributes) bool {
	if attrs.Len() != attrs2.Len() {
		return false
	}

	for i := 0; i < attrs.Len(); i++ {
		a1, a2 := attrs.list[i], attrs2.list[i]
		if a1.Name != a2.Name || !a1.Value.Equal(a2.Value) {
			return false
		}
	}

	return true
}

// extend appends continuation value to the existing attribute
func (attrs *Attributes) extend(name string, v Value) {
	i := attrs.index[name]
	attrs.list[i].Value = attrs.list[i].Value.extend(v)
}
