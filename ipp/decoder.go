/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * IPP attribute decoder
 */

package ipp

import (
	"encoding/binary"
	"unicode/utf8"

	"github.com/OpenPrinting/goipp"
)

// decoder is a forward-only cursor over the message buffer
type decoder struct {
	buf []byte // Message data
	off int    // Current offset
}

// record represents a raw attribute record
type record struct {
	tag  goipp.Tag // Value tag
	name string    // Attribute name, "" for continuation
	attr string    // Name of attribute the record belongs to
	data []byte    // Raw value
	off  int       // Offset of the record
}

// DecodeAttribute decodes a single attribute record at the specified
// offset. It returns attribute name (empty for continuation records),
// decoded value and offset of the next record
//
// For TagBeginCollection, the returned value is an empty *Collection;
// collection members follow as separate records and are assembled
// by DecodeMessage
func DecodeAttribute(buf []byte, off int) (name string, v Value,
	next int, err error) {

	if off < 0 || off > len(buf) {
		return "", nil, off, decodeErrorf(off,
			"offset out of range 0...%d", len(buf))
	}

	md := decoder{buf: buf, off: off}

	rec, err := md.decodeRecord()
	if err == nil {
		v, err = decodeValue(rec)
	}

	if err != nil {
		return "", nil, off, err
	}

	return rec.name, v, md.off, nil
}

// Decode a raw attribute record
//
// Wire format:
//
//	1 byte:   tag
//	2 bytes:  name length
//	variable: name
//	2 bytes:  value length
//	variable: value
func (md *decoder) decodeRecord() (record, error) {
	rec := record{off: md.off}

	t, err := md.decodeU8()
	if err != nil {
		return rec, err
	}
	rec.tag = goipp.Tag(t)

	name, err := md.decodeBytes()
	if err != nil {
		return rec, err
	}

	if !utf8.Valid(name) {
		return rec, decodeErrorf(rec.off, "attribute name is not UTF-8")
	}
	rec.name = string(name)
	rec.attr = rec.name

	rec.data, err = md.decodeBytes()
	if err != nil {
		return rec, err
	}

	return rec, nil
}

// peek returns the next byte without consuming it
func (md *decoder) peek() (byte, error) {
	if md.off >= len(md.buf) {
		return 0, decodeErrorf(md.off, "Message truncated")
	}
	return md.buf[md.off], nil
}

// Decode a 8-bit integer
func (md *decoder) decodeU8() (uint8, error) {
	data, err := md.read(1)
	if err != nil {
		return 0, err
	}
	return data[0], nil
}

// Decode a 16-bit integer
func (md *decoder) decodeU16() (uint16, error) {
	data, err := md.read(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(data), nil
}

// Decode a 32-bit integer
func (md *decoder) decodeU32() (uint32, error) {
	data, err := md.read(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(data), nil
}

// Decode length-prefixed sequence of bytes
func (md *decoder) decodeBytes() ([]byte, error) {
	length, err := md.decodeU16()
	if err != nil {
		return nil, err
	}

	return md.read(int(length))
}

// Consume next n bytes of input
func (md *decoder) read(n int) ([]byte, error) {
	if len(md.buf)-md.off < n {
		return nil, decodeErrorf(md.off, "Message truncated")
	}

	data := md.buf[md.off : md.off+n]
	md.off += n

	return data, nil
}

// decodeValue decodes value of the raw record, according to its tag
func decodeValue(rec record) (Value, error) {
	// Offset of value data, for error reporting
	off := rec.off + 1 + 2 + len(rec.name) + 2
	data := rec.data

	switch tag := rec.tag; {
	case tag == goipp.TagInteger || tag == goipp.TagEnum:
		if len(data) != 4 {
			return nil, decodeErrorf(off,
				"%s: value must be 4 bytes", tag)
		}

		v := int32(binary.BigEndian.Uint32(data))
		if tag == goipp.TagEnum {
			if conv := closedEnums[rec.attr]; conv != nil {
				ev, ok := conv(v)
				if !ok {
					return nil, decodeErrorf(off,
						"%q: enum value %d out of range",
						rec.attr, v)
				}
				return ev, nil
			}
		}

		return Integer(v), nil

	case tag == goipp.TagBoolean:
		if len(data) != 1 {
			return nil, decodeErrorf(off,
				"%s: value must be 1 byte", tag)
		}

		switch data[0] {
		case 0:
			return Boolean(false), nil
		case 1:
			return Boolean(true), nil
		}

		return nil, decodeErrorf(off, "%s: value must be 0 or 1", tag)

	case tag == goipp.TagDateTime:
		v := make(DateTime, len(data))
		for i := range data {
			v[i] = int8(data[i])
		}
		return v, nil

	case tag == goipp.TagReservedString && len(data) == 0:
		return NoValue{}, nil

	case tag == goipp.TagRange:
		if len(data) != 8 {
			return nil, decodeErrorf(off,
				"%s: value must be 8 bytes", tag)
		}

		return Range{
			Lower: int32(binary.BigEndian.Uint32(data[0:4])),
			Upper: int32(binary.BigEndian.Uint32(data[4:8])),
		}, nil

	case tag == goipp.TagResolution:
		if len(data) != 9 {
			return nil, decodeErrorf(off,
				"%s: value must be 9 bytes", tag)
		}

		return Resolution{
			Xres:  int32(binary.BigEndian.Uint32(data[0:4])),
			Yres:  int32(binary.BigEndian.Uint32(data[4:8])),
			Units: goipp.Units(data[8]),
		}, nil

	case tag == goipp.TagTextLang || tag == goipp.TagNameLang:
		return decodeTextWithLang(tag, data, off)

	case isOutOfBandTag(tag):
		return OutOfBand(tag), nil

	case tag == goipp.TagBeginCollection:
		return &Collection{}, nil

	case tag == goipp.TagEndCollection:
		return NoValue{}, nil

	case tag.IsDelimiter() || tag == goipp.TagExtension:
		return nil, decodeErrorf(rec.off, "unexpected tag %s", tag)

	case tag&0xf0 == 0x20:
		// Unassigned tag of the integer class
		return nil, decodeErrorf(rec.off, "unsupported tag %s", tag)
	}

	// All other tags are string-class
	if !utf8.Valid(data) {
		return nil, decodeErrorf(off, "%s: value is not UTF-8", rec.tag)
	}

	return String(data), nil
}

// decodeTextWithLang decodes TextWithLang value
//
// Wire format:
//
//	2 bytes:  language length
//	variable: language
//	2 bytes:  text length
//	variable: text
func decodeTextWithLang(tag goipp.Tag, data []byte, off int) (Value, error) {
	md := decoder{buf: data}

	lang, err := md.decodeBytes()
	var text []byte
	if err == nil {
		text, err = md.decodeBytes()
	}

	switch {
	case err != nil:
		return nil, decodeErrorf(off+md.off, "%s: value truncated", tag)
	case md.off != len(data):
		return nil, decodeErrorf(off+md.off, "%s: extra data in value", tag)
	case !utf8.Valid(lang) || !utf8.Valid(text):
		return nil, decodeErrorf(off, "%s: value is not UTF-8", tag)
	}

	return TextWithLang{Lang: string(lang), Text: string(text)}, nil
}
