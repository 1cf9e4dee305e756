/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * IPP request encoder
 */

package ipp

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/OpenPrinting/goipp"
)

// Default values of the mandatory operation attributes
const (
	DefaultCharset  = "utf-8"
	DefaultLanguage = "en-US"
)

// UnresolvedPolicy defines what Encoder does with attribute that
// has no explicit tag and has no binding in the Registry
type UnresolvedPolicy int

// UnresolvedPolicy values
const (
	// UnresolvedSkip silently drops such attribute: zero bytes are
	// emitted and no error is returned
	UnresolvedSkip UnresolvedPolicy = iota

	// UnresolvedFail returns ErrUnresolvedTag
	UnresolvedFail
)

// String returns UnresolvedPolicy name
func (policy UnresolvedPolicy) String() string {
	switch policy {
	case UnresolvedSkip:
		return "skip"
	case UnresolvedFail:
		return "fail"
	}

	return fmt.Sprintf("unknown (%d)", int(policy))
}

// Encoder encodes IPP requests
type Encoder struct {
	Registry   *Registry        // Name to tag bindings, nil for defaults
	Unresolved UnresolvedPolicy // What to do with unresolved names
	Version    goipp.Version    // Protocol version, 0 for default (2.0)
}

// NewEncoder creates a new Encoder, that uses the specified Registry
func NewEncoder(reg *Registry) *Encoder {
	return &Encoder{Registry: reg, Version: goipp.DefaultVersion}
}

// EncodeValue encodes a single value, including its 2-byte length
// field
//
// Wire format:
//
//	2 bytes:  value length
//	variable: value
func (enc *Encoder) EncodeValue(tag goipp.Tag, v Value) ([]byte, error) {
	var buf bytes.Buffer
	err := encodeValue(&buf, "", tag, v)
	return buf.Bytes(), err
}

// EncodeAttribute encodes attribute with all its values. If tag is
// TagZero, it is resolved via Registry
//
// Each value comes as a separate record; the first record carries
// the attribute name, all subsequent records have empty names
//
// Wire format of each record:
//
//	1 byte:   tag
//	2 bytes:  name length
//	variable: name
//	2 bytes:  value length
//	variable: value
func (enc *Encoder) EncodeAttribute(name string, v AttrValue,
	tag goipp.Tag) ([]byte, error) {

	var buf bytes.Buffer
	err := enc.encodeAttr(&buf, name, v, tag)
	return buf.Bytes(), err
}

// BuildRequest encodes IPP request message.
//
// Operation attributes always start with attributes-charset and
// attributes-natural-language; opAttrs follow them. The Job and
// Printer groups are emitted only if jobAttrs and printerAttrs
// are not nil
//
// Wire format:
//
//	1 byte:   major version
//	1 byte:   minor version
//	2 bytes:  operation code
//	4 bytes:  request ID
//	variable: attribute groups
//	1 byte:   TagEnd
func (enc *Encoder) BuildRequest(op goipp.Op, id int32,
	opAttrs, jobAttrs, printerAttrs *Attributes) ([]byte, error) {

	var buf bytes.Buffer

	// Encode message header
	version := enc.Version
	if version == 0 {
		version = goipp.DefaultVersion
	}

	encodeU16(&buf, uint16(version))
	encodeU16(&buf, uint16(op))
	encodeU32(&buf, uint32(id))

	// Encode operation attributes
	buf.WriteByte(byte(goipp.TagOperationGroup))

	err := enc.encodeAttr(&buf, "attributes-charset",
		Scalar(String(DefaultCharset)), goipp.TagCharset)
	if err == nil {
		err = enc.encodeAttr(&buf, "attributes-natural-language",
			Scalar(String(DefaultLanguage)), goipp.TagLanguage)
	}

	if err == nil {
		err = enc.encodeAttrs(&buf, opAttrs)
	}

	// Encode job and printer groups
	if err == nil && jobAttrs != nil {
		buf.WriteByte(byte(goipp.TagJobGroup))
		err = enc.encodeAttrs(&buf, jobAttrs)
	}

	if err == nil && printerAttrs != nil {
		buf.WriteByte(byte(goipp.TagPrinterGroup))
		err = enc.encodeAttrs(&buf, printerAttrs)
	}

	if err != nil {
		return nil, err
	}

	buf.WriteByte(byte(goipp.TagEnd))

	return buf.Bytes(), nil
}

// Encode all attributes of the set, in order of insertion
func (enc *Encoder) encodeAttrs(buf *bytes.Buffer, attrs *Attributes) error {
	for _, attr := range attrs.All() {
		err := enc.encodeAttr(buf, attr.Name, attr.Value, attr.Tag)
		if err != nil {
			return err
		}
	}

	return nil
}

// Encode a single attribute
func (enc *Encoder) encodeAttr(buf *bytes.Buffer, name string,
	v AttrValue, tag goipp.Tag) error {

	// Resolve the tag
	if tag == goipp.TagZero {
		var found bool
		tag, found = enc.Registry.Resolve(name)
		if !found {
			if enc.Unresolved == UnresolvedFail {
				return fmt.Errorf("%q: %w", name, ErrUnresolvedTag)
			}
			return nil
		}
	}

	if tag.IsDelimiter() || tag > 0xff {
		return &EncodeError{name, tag, "tag cannot be used with value"}
	}

	if len(name) > math.MaxUint16 {
		return &EncodeError{name, tag, "name too long"}
	}

	// Encode values. Only the first one is named
	recName := name
	for _, val := range v.Values() {
		buf.WriteByte(byte(tag))
		encodeU16(buf, uint16(len(recName)))
		buf.WriteString(recName)

		err := encodeValue(buf, name, tag, val)
		if err != nil {
			return err
		}

		recName = ""
	}

	return nil
}

// encodeValue encodes value length and value
func encodeValue(buf *bytes.Buffer, name string, tag goipp.Tag, v Value) error {
	var data []byte

	switch {
	case tag == goipp.TagInteger || tag == goipp.TagEnum:
		iv, ok := v.(integerValue)
		if !ok {
			return encodeTypeError(name, tag, v)
		}
		data = make([]byte, 4)
		binary.BigEndian.PutUint32(data, uint32(iv.int32Value()))

	case tag == goipp.TagBoolean:
		bv, ok := v.(Boolean)
		if !ok {
			return encodeTypeError(name, tag, v)
		}
		data = []byte{0}
		if bv {
			data[0] = 1
		}

	case tag == goipp.TagReservedString && isNoValue(v):
		data = nil

	case isStringTag(tag):
		sv, ok := v.(String)
		if !ok {
			return encodeTypeError(name, tag, v)
		}
		data = []byte(sv)

	case isOutOfBandTag(tag):
		data = nil

	case tag == goipp.TagDateTime:
		dv, ok := v.(DateTime)
		if !ok {
			return encodeTypeError(name, tag, v)
		}
		data = make([]byte, len(dv))
		for i := range dv {
			data[i] = byte(dv[i])
		}

	case tag == goipp.TagRange:
		rv, ok := v.(Range)
		if !ok {
			return encodeTypeError(name, tag, v)
		}
		data = make([]byte, 8)
		binary.BigEndian.PutUint32(data[0:4], uint32(rv.Lower))
		binary.BigEndian.PutUint32(data[4:8], uint32(rv.Upper))

	case tag == goipp.TagResolution:
		rv, ok := v.(Resolution)
		if !ok {
			return encodeTypeError(name, tag, v)
		}
		data = make([]byte, 9)
		binary.BigEndian.PutUint32(data[0:4], uint32(rv.Xres))
		binary.BigEndian.PutUint32(data[4:8], uint32(rv.Yres))
		data[8] = byte(rv.Units)

	case tag == goipp.TagTextLang || tag == goipp.TagNameLang:
		tv, ok := v.(TextWithLang)
		if !ok {
			return encodeTypeError(name, tag, v)
		}
		if len(tv.Lang) > math.MaxUint16 || len(tv.Text) > math.MaxUint16 {
			return &EncodeError{name, tag, "value too long"}
		}

		// Wire format:
		//   2 bytes:  language length
		//   variable: language
		//   2 bytes:  text length
		//   variable: text
		var lbuf bytes.Buffer
		encodeU16(&lbuf, uint16(len(tv.Lang)))
		lbuf.WriteString(tv.Lang)
		encodeU16(&lbuf, uint16(len(tv.Text)))
		lbuf.WriteString(tv.Text)
		data = lbuf.Bytes()

	default:
		return &EncodeError{name, tag, "tag not supported by encoder"}
	}

	if len(data) > math.MaxUint16 {
		return &EncodeError{name, tag, "value too long"}
	}

	encodeU16(buf, uint16(len(data)))
	buf.Write(data)

	return nil
}

// isNoValue tells if v is the NoValue marker
func isNoValue(v Value) bool {
	_, ok := v.(NoValue)
	return ok
}

// encodeTypeError creates EncodeError for value of unsuitable type
func encodeTypeError(name string, tag goipp.Tag, v Value) error {
	return &EncodeError{name, tag, fmt.Sprintf("%T value cannot be encoded", v)}
}

// Encode 16-bit integer
func encodeU16(buf *bytes.Buffer, v uint16) {
	buf.Write([]byte{byte(v >> 8), byte(v)})
}

// Encode 32-bit integer
func encodeU32(buf *bytes.Buffer, v uint32) {
	buf.Write([]byte{byte(v >> 24), byte(v >> 16), byte(v >> 8), byte(v)})
}
