/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Attribute values
 */

package ipp

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/OpenPrinting/goipp"
)

// Value represents a single attribute value
type Value interface {
	String() string
	isValue()
}

// Integer is the Value that represents 32-bit signed integer
//
// Use with: TagInteger, TagEnum
type Integer int32

// String converts Integer value to string
func (v Integer) String() string { return fmt.Sprintf("%d", int32(v)) }

func (Integer) isValue() {}
func (v Integer) int32Value() int32 { return int32(v) }

// Boolean is the Value that represents boolean value
//
// Use with: TagBoolean
type Boolean bool

// String converts Boolean value to string
func (v Boolean) String() string { return fmt.Sprintf("%t", bool(v)) }

func (Boolean) isValue() {}

// String is the Value that represents a string value
//
// Use with: TagText, TagName, TagReservedString, TagKeyword, TagURI,
// TagURIScheme, TagCharset, TagLanguage, TagMimeType, TagMemberName,
// TagString
type String string

// String converts String value to string
func (v String) String() string { return string(v) }

func (String) isValue() {}

// DateTime is the Value that represents RFC 2579 DateAndTime, as
// an ordered tuple of signed bytes. No calendar interpretation is
// performed by decoder; use the Time method for that
//
// Use with: TagDateTime
type DateTime []int8

// String converts DateTime value to string
func (v DateTime) String() string {
	if t, err := v.Time(); err == nil {
		return t.Format(time.RFC3339)
	}

	s := make([]string, len(v))
	for i, b := range v {
		s[i] = fmt.Sprintf("%d", b)
	}
	return "(" + strings.Join(s, ",") + ")"
}

func (DateTime) isValue() {}

// Time interprets DateTime as a calendar time
//
// Wire format:
//
//	2 bytes: year
//	1 byte:  month, 1...12
//	1 byte:  day, 1...31
//	1 byte:  hour, 0...23
//	1 byte:  minutes, 0...59
//	1 byte:  seconds, 0...60
//	1 byte:  deci-seconds, 0...9
//	1 byte:  direction from UTC, '+' or '-'
//	1 byte:  hours from UTC, 0...13
//	1 byte:  minutes from UTC, 0...59
func (v DateTime) Time() (time.Time, error) {
	if len(v) != 11 {
		return time.Time{}, errors.New("dateTime must be 11 bytes")
	}

	b := make([]byte, len(v))
	for i := range v {
		b[i] = byte(v[i])
	}

	switch {
	case b[2] < 1 || b[2] > 12:
		return time.Time{}, errors.New("dateTime: bad month")
	case b[3] < 1 || b[3] > 31:
		return time.Time{}, errors.New("dateTime: bad day")
	case b[4] > 23 || b[5] > 59 || b[6] > 60 || b[7] > 9:
		return time.Time{}, errors.New("dateTime: bad time of day")
	case b[8] != '+' && b[8] != '-':
		return time.Time{}, errors.New("dateTime: bad UTC direction")
	case b[9] > 13 || b[10] > 59:
		return time.Time{}, errors.New("dateTime: bad UTC offset")
	}

	offset := int(b[9])*3600 + int(b[10])*60
	if b[8] == '-' {
		offset = -offset
	}

	loc := time.UTC
	if offset != 0 {
		loc = time.FixedZone("", offset)
	}

	year := int(b[0])<<8 | int(b[1])

	return time.Date(year, time.Month(b[2]), int(b[3]),
		int(b[4]), int(b[5]), int(b[6]), int(b[7])*100000000, loc), nil
}

// MakeDateTime converts time.Time into DateTime
func MakeDateTime(t time.Time) DateTime {
	_, offset := t.Zone()
	dir := int8('+')
	if offset < 0 {
		dir = '-'
		offset = -offset
	}

	year := t.Year()

	return DateTime{
		int8(year >> 8), int8(year),
		int8(t.Month()), int8(t.Day()),
		int8(t.Hour()), int8(t.Minute()), int8(t.Second()),
		int8(t.Nanosecond() / 100000000),
		dir,
		int8(offset / 3600), int8((offset % 3600) / 60),
	}
}

// Range is the Value that represents a [lower, upper] range
// of 32-bit signed integers
//
// Use with: TagRange
type Range struct {
	Lower, Upper int32 // Lower/upper bounds
}

// String converts Range value to string
func (v Range) String() string {
	return fmt.Sprintf("%d-%d", v.Lower, v.Upper)
}

func (Range) isValue() {}

// Resolution is the Value that represents image resolution
//
// Use with: TagResolution
type Resolution struct {
	Xres, Yres int32       // X/Y resolutions
	Units      goipp.Units // Resolution units
}

// String converts Resolution value to string
func (v Resolution) String() string {
	return fmt.Sprintf("%dx%d%s", v.Xres, v.Yres, v.Units)
}

func (Resolution) isValue() {}

// TextWithLang is the Value that represents a text or name
// with explicitly specified natural language
//
// Use with: TagTextLang, TagNameLang
type TextWithLang struct {
	Lang, Text string // Language and text
}

// String converts TextWithLang value to string
func (v TextWithLang) String() string { return v.Text + " [" + v.Lang + "]" }

func (TextWithLang) isValue() {}

// NoValue is the explicit "no value" marker, returned for a
// reserved-string attribute with empty value
type NoValue struct{}

// String returns empty string for NoValue
func (NoValue) String() string { return "" }

func (NoValue) isValue() {}

// OutOfBand is the Value of attributes with out-of-band tags
// (unsupported, unknown, no-value, not-settable, delete-attribute,
// admin-define). The value itself is always empty on the wire, so
// OutOfBand only remembers the tag
type OutOfBand goipp.Tag

// String returns the out-of-band tag name
func (v OutOfBand) String() string { return goipp.Tag(v).String() }

func (OutOfBand) isValue() {}

// Collection is the Value that represents a collection of
// member attributes
//
// Use with: TagBeginCollection
type Collection struct {
	Attributes
}

// String converts Collection value to string
func (v *Collection) String() string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, attr := range v.list {
		if i != 0 {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%s=%s", attr.Name, attr.Value)
	}
	buf.WriteByte('}')
	return buf.String()
}

func (*Collection) isValue() {}

// integerValue is implemented by values that encode as
// 32-bit integers (Integer and enumerations)
type integerValue interface {
	Value
	int32Value() int32
}

// ValueEqual checks that two values are equal
func ValueEqual(v1, v2 Value) bool {
	switch v1 := v1.(type) {
	case DateTime:
		v2, ok := v2.(DateTime)
		if !ok || len(v1) != len(v2) {
			return false
		}
		for i := range v1 {
			if v1[i] != v2[i] {
				return false
			}
		}
		return true

	case *Collection:
		v2, ok := v2.(*Collection)
		return ok && v1.Attributes.Equal(&v2.Attributes)
	}

	return v1 == v2
}
