/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Decoder tests
 */

package ipp

import (
	"errors"
	"testing"
	"time"

	"github.com/OpenPrinting/goipp"
)

// rawRecord builds a raw attribute record
func rawRecord(tag goipp.Tag, name string, value []byte) []byte {
	rec := []byte{byte(tag), byte(len(name) >> 8), byte(len(name))}
	rec = append(rec, name...)
	rec = append(rec, byte(len(value)>>8), byte(len(value)))
	return append(rec, value...)
}

// TestDecodeAttributeRoundTrip tests that decoding reverts encoding
func TestDecodeAttributeRoundTrip(t *testing.T) {
	enc := NewEncoder(NewRegistry())

	tests := []struct {
		name string
		tag  goipp.Tag
		v    Value
	}{
		{"job-id", goipp.TagZero, Integer(12345)},
		{"job-priority", goipp.TagInteger, Integer(-1)},
		{"last-document", goipp.TagZero, Boolean(true)},
		{"printer-is-shared", goipp.TagZero, Boolean(false)},
		{"printer-uri", goipp.TagZero, String("ipp://localhost/printers/lp")},
		{"job-name", goipp.TagZero, String("Отчёт")},
		{"media", goipp.TagKeyword, String("iso_a4_210x297mm")},
		{"document-format", goipp.TagZero, String("application/pdf")},
		{"job-state", goipp.TagZero, JobCompleted},
		{"printer-state", goipp.TagZero, PrinterStopped},
		{"document-state", goipp.TagEnum, DocumentAborted},
		{"operations-supported", goipp.TagEnum, Integer(2)},
		{"page-ranges", goipp.TagRange, Range{1, 5}},
		{"printer-resolution", goipp.TagResolution,
			Resolution{600, 600, goipp.UnitsDpi}},
		{"printer-info", goipp.TagTextLang, TextWithLang{"de", "Drucker"}},
		{"printer-current-time", goipp.TagDateTime,
			MakeDateTime(time.Date(2020, 5, 17, 10, 20, 30, 0, time.UTC))},
		{"x-reserved", goipp.TagReservedString, NoValue{}},
		{"media-ready", goipp.TagNoValue, OutOfBand(goipp.TagNoValue)},
	}

	for _, test := range tests {
		data, err := enc.EncodeAttribute(test.name, Scalar(test.v), test.tag)
		if err != nil {
			t.Errorf("%s: encode: %s", test.name, err)
			continue
		}

		name, v, next, err := DecodeAttribute(data, 0)
		if err != nil {
			t.Errorf("%s: decode: %s", test.name, err)
			continue
		}

		if name != test.name {
			t.Errorf("%s: name decoded as %q", test.name, name)
		}

		if !ValueEqual(v, test.v) {
			t.Errorf("%s: expected %s (%T), present %s (%T)",
				test.name, test.v, test.v, v, v)
		}

		if next != len(data) {
			t.Errorf("%s: next offset %d, expected %d",
				test.name, next, len(data))
		}
	}
}

// TestDecodeAttributeClosedEnums tests closed enumerations
func TestDecodeAttributeClosedEnums(t *testing.T) {
	tests := []struct {
		name  string
		value int32
		s     string
		ok    bool
	}{
		{"job-state", 3, "Pending", true},
		{"job-state", 4, "Held", true},
		{"job-state", 5, "Processing", true},
		{"job-state", 6, "Stopped", true},
		{"job-state", 7, "Canceled", true},
		{"job-state", 8, "Aborted", true},
		{"job-state", 9, "Completed", true},
		{"job-state", 2, "", false},
		{"job-state", 0x99, "", false},
		{"printer-state", 3, "Idle", true},
		{"printer-state", 4, "Processing", true},
		{"printer-state", 5, "Stopped", true},
		{"printer-state", 6, "", false},
		{"document-state", 3, "Pending", true},
		{"document-state", 4, "", false},
		{"document-state", 9, "Completed", true},
		{"finishings", 0x99, "153", true},
	}

	for _, test := range tests {
		v := uint32(test.value)
		data := rawRecord(goipp.TagEnum, test.name,
			[]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})

		_, val, _, err := DecodeAttribute(data, 0)
		if !test.ok {
			var decErr *DecodeError
			if !errors.As(err, &decErr) {
				t.Errorf("%s=0x%x: DecodeError expected, got %v",
					test.name, test.value, err)
			}
			continue
		}

		if err != nil {
			t.Errorf("%s=0x%x: %s", test.name, test.value, err)
			continue
		}

		if val.String() != test.s {
			t.Errorf("%s=0x%x: expected %q, present %q",
				test.name, test.value, test.s, val.String())
		}
	}
}

// TestDecodeAttributeErrors tests decoding of malformed records
func TestDecodeAttributeErrors(t *testing.T) {
	tests := []struct {
		comment string
		data    []byte
		off     int
	}{
		{"empty input", []byte{}, 0},
		{"truncated name length", []byte{0x21, 0}, 1},
		{"truncated name", []byte{0x21, 0, 5, 'a', 'b'}, 3},
		{"missing value length", []byte{0x21, 0, 1, 'a'}, 4},
		{"truncated value", []byte{0x21, 0, 1, 'a', 0, 4, 0, 0}, 6},
		{"integer of 2 bytes",
			rawRecord(goipp.TagInteger, "a", []byte{0, 1}), 6},
		{"boolean of 2 bytes",
			rawRecord(goipp.TagBoolean, "a", []byte{0, 1}), 6},
		{"boolean 2",
			rawRecord(goipp.TagBoolean, "a", []byte{2}), 6},
		{"range of 4 bytes",
			rawRecord(goipp.TagRange, "a", []byte{0, 0, 0, 1}), 6},
		{"resolution of 8 bytes",
			rawRecord(goipp.TagResolution, "a", make([]byte, 8)), 6},
		{"bad UTF-8 value",
			rawRecord(goipp.TagText, "a", []byte{0xff, 0xfe}), 6},
		{"bad UTF-8 name",
			rawRecord(goipp.TagText, "\xff", []byte("x")), 0},
		{"truncated text-with-language",
			rawRecord(goipp.TagTextLang, "a", []byte{0, 5, 'e'}), 8},
		{"extension tag",
			rawRecord(goipp.TagExtension, "a", nil), 0},
		{"unassigned integer tag 0x20",
			rawRecord(0x20, "a", []byte{0, 0, 0, 1}), 0},
		{"unassigned integer tag 0x2f",
			rawRecord(0x2f, "a", []byte{0xff}), 0},
	}

	for _, test := range tests {
		_, _, next, err := DecodeAttribute(test.data, 0)

		var decErr *DecodeError
		if !errors.As(err, &decErr) {
			t.Errorf("%s: DecodeError expected, got %v", test.comment, err)
			continue
		}

		if decErr.Offset != test.off {
			t.Errorf("%s: error offset %d, expected %d (%s)",
				test.comment, decErr.Offset, test.off, decErr)
		}

		if next != 0 {
			t.Errorf("%s: next offset %d on error", test.comment, next)
		}
	}
}

// TestDecodeAttributeBadOffset tests decoding at offset outside
// of the buffer
func TestDecodeAttributeBadOffset(t *testing.T) {
	data := rawRecord(goipp.TagKeyword, "a", []byte("kw"))

	for _, off := range []int{-1, len(data) + 1} {
		_, _, next, err := DecodeAttribute(data, off)

		var decErr *DecodeError
		if !errors.As(err, &decErr) {
			t.Errorf("offset %d: DecodeError expected, got %v", off, err)
			continue
		}

		if decErr.Offset != off || next != off {
			t.Errorf("offset %d: error offset %d, next %d",
				off, decErr.Offset, next)
		}
	}

	// Offset at the end of buffer is valid, but nothing to decode
	_, _, _, err := DecodeAttribute(data, len(data))
	if err == nil {
		t.Errorf("offset at the end: error expected")
	}
}

// TestDecodeAttributeNoValue tests reserved-string with empty value
func TestDecodeAttributeNoValue(t *testing.T) {
	data := rawRecord(goipp.TagReservedString, "x", nil)
	_, v, _, err := DecodeAttribute(data, 0)
	if err != nil {
		t.Fatalf("%s", err)
	}

	if _, ok := v.(NoValue); !ok {
		t.Errorf("expected NoValue, present %T", v)
	}

	// Non-empty reserved-string is a plain string
	data = rawRecord(goipp.TagReservedString, "x", []byte("abc"))
	_, v, _, err = DecodeAttribute(data, 0)
	if err != nil || v != String("abc") {
		t.Errorf("expected String(\"abc\"), present %v, %v", v, err)
	}
}

// TestDecodeAttributeOffset tests decoding from the middle of buffer
func TestDecodeAttributeOffset(t *testing.T) {
	var data []byte
	data = append(data, rawRecord(goipp.TagInteger, "a", []byte{0, 0, 0, 1})...)
	second := len(data)
	data = append(data, rawRecord(goipp.TagKeyword, "", []byte("kw"))...)

	_, _, next, err := DecodeAttribute(data, 0)
	if err != nil || next != second {
		t.Fatalf("first record: next=%d, err=%v", next, err)
	}

	name, v, next, err := DecodeAttribute(data, next)
	if err != nil {
		t.Fatalf("second record: %s", err)
	}

	if name != "" || v != String("kw") || next != len(data) {
		t.Errorf("second record: name=%q v=%v next=%d", name, v, next)
	}
}

// TestDateTime tests DateTime conversions
func TestDateTime(t *testing.T) {
	loc := time.FixedZone("", -(5*3600 + 30*60))
	tm := time.Date(2021, 12, 31, 23, 59, 58, 700000000, loc)

	dt := MakeDateTime(tm)
	if len(dt) != 11 {
		t.Fatalf("MakeDateTime: %d bytes", len(dt))
	}

	tm2, err := dt.Time()
	if err != nil {
		t.Fatalf("Time: %s", err)
	}

	if !tm.Equal(tm2) {
		t.Errorf("Time: expected %s, present %s", tm, tm2)
	}

	if _, err = dt[:8].Time(); err == nil {
		t.Errorf("Time: short DateTime accepted")
	}

	// Short DateTime is still a valid value
	if s := dt[:3].String(); s != "(7,-27,12)" {
		t.Errorf("String: %q", s)
	}
}
