/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * IPP response message decoder
 */

package ipp

import (
	"unicode/utf8"

	"github.com/OpenPrinting/goipp"
)

// Message represents a decoded IPP message
type Message struct {
	// Common header
	Version   goipp.Version // Protocol version
	Code      goipp.Code    // Operation for request, status for response
	RequestID int32         // Request ID

	// All groups, in order of appearance
	Groups []Group

	// Operation attributes. If message contains more that one
	// Operation group, the first one is used here. Never nil
	Operation *Attributes

	// Objects, by group, in order of appearance
	Jobs               []*Attributes // Job objects
	Printers           []*Attributes // Printer objects
	Documents          []*Attributes // Document objects
	Unsupported        []*Attributes // Unsupported attributes
	Subscriptions      []*Attributes // Subscription objects
	EventNotifications []*Attributes // Event notifications
	Resources          []*Attributes // Resource objects
	Systems            []*Attributes // System objects

	// Data that follows the attributes (i.e., document content).
	// Filled only on request, shares memory with the decoded buffer
	Data []byte
}

// Status returns message Code, interpreted as response status
func (m *Message) Status() goipp.Status {
	return goipp.Status(m.Code)
}

// Op returns message Code, interpreted as request operation
func (m *Message) Op() goipp.Op {
	return goipp.Op(m.Code)
}

// StatusMessage returns the "status-message" operation attribute,
// or empty string if it is missed. Both text and textWithLanguage
// forms are accepted
func (m *Message) StatusMessage() string {
	switch v := m.Operation.Value("status-message").(type) {
	case String:
		return string(v)
	case TextWithLang:
		return v.Text
	}
	return ""
}

// DecodeMessage decodes IPP message.
//
// If withData is true, all bytes that follow the end-of-attributes
// tag are returned in the Message.Data; otherwise they are ignored
//
// Wire format:
//
//	2 bytes:  version
//	2 bytes:  code (operation or status)
//	4 bytes:  request ID
//	variable: attribute groups
//	1 byte:   TagEnd
//	variable: data
func DecodeMessage(buf []byte, withData bool) (*Message, error) {
	md := decoder{buf: buf}
	m := &Message{}

	// Parse message header
	version, err := md.decodeU16()
	if err != nil {
		return nil, err
	}

	code, err := md.decodeU16()
	if err != nil {
		return nil, err
	}

	id, err := md.decodeU32()
	if err != nil {
		return nil, err
	}

	m.Version = goipp.Version(version)
	m.Code = goipp.Code(code)
	m.RequestID = int32(id)

	// Now parse attributes
	var a assembler
	for done := false; !done; {
		b, err := md.peek()
		if err != nil {
			return nil, err
		}

		state, st, err := transition(a.state, b)
		if err != nil {
			return nil, decodeErrorf(md.off, "%s", err)
		}

		switch st {
		case stepEnd:
			md.off++
			a.end()
			done = true

		case stepGroup:
			md.off++
			a.group(state)

		case stepAttribute:
			err = md.decodeAttribute(&a)
			if err != nil {
				return nil, err
			}
		}
	}

	m.setGroups(a.out)

	if withData {
		m.Data = buf[md.off:]
	}

	return m, nil
}

// Decode next attribute and feed it to the assembler
func (md *decoder) decodeAttribute(a *assembler) error {
	rec, err := md.decodeRecord()
	if err != nil {
		return err
	}

	if rec.name == "" {
		rec.attr = a.last
	}

	v, err := decodeValue(rec)
	if err != nil {
		return err
	}

	if coll, ok := v.(*Collection); ok {
		err = md.decodeCollection(coll)
		if err != nil {
			return err
		}
	}

	err = a.attribute(rec.tag, rec.name, v)
	if err != nil {
		return decodeErrorf(rec.off, "%s", err)
	}

	return nil
}

// Decode collection members
//
// Wire format:
//
//	ATTR: Tag = TagBeginCollection,            - the outer attribute that
//	      Name = "name", value - ignored         contains the collection
//
//	ATTR: Tag = TagMemberName, name = "",      - member name  \
//	      value - string, name of the next                     |
//	      member                                               | repeated for
//	                                                           | each member
//	ATTR: Tag = any attribute tag, name = "",  - repeated for  |
//	      value = member value                   multi-value  /
//	                                             members
//
//	ATTR: Tag = TagEndCollection, name = "",
//	      value - ignored
func (md *decoder) decodeCollection(coll *Collection) error {
	memberName := ""
	last := ""

	for {
		b, err := md.peek()
		if err != nil {
			return err
		}

		tag := goipp.Tag(b)
		if tag.IsDelimiter() {
			return decodeErrorf(md.off,
				"Collection: unexpected tag %s", tag)
		}

		rec, err := md.decodeRecord()
		if err != nil {
			return err
		}

		// Check for TagMemberName without the subsequent value
		if (tag == goipp.TagMemberName || tag == goipp.TagEndCollection) &&
			memberName != "" {
			return decodeErrorf(rec.off,
				"Collection: unexpected %s, expected value tag", tag)
		}

		if rec.name == "" {
			rec.attr = last
			if memberName != "" {
				rec.attr = memberName
			}
		}

		switch tag {
		case goipp.TagEndCollection:
			return nil

		case goipp.TagMemberName:
			if len(rec.data) == 0 || !utf8.Valid(rec.data) {
				return decodeErrorf(rec.off,
					"Collection: bad %s value", tag)
			}
			memberName = string(rec.data)
			continue
		}

		v, err := decodeValue(rec)
		if err != nil {
			return err
		}

		if nested, ok := v.(*Collection); ok {
			err = md.decodeCollection(nested)
			if err != nil {
				return err
			}
		}

		switch {
		case memberName != "":
			coll.AddTag(memberName, tag, Scalar(v))
			last, memberName = memberName, ""
		case last != "":
			coll.extend(last, v)
		default:
			return decodeErrorf(rec.off,
				"Collection: unexpected %s, expected %s",
				tag, goipp.TagMemberName)
		}
	}
}

// setGroups distributes decoded groups between the Message fields
func (m *Message) setGroups(groups []Group) {
	m.Groups = groups

	for _, g := range groups {
		switch g.Tag {
		case goipp.TagOperationGroup:
			if m.Operation == nil {
				m.Operation = g.Attrs
			}
		case goipp.TagJobGroup:
			m.Jobs = append(m.Jobs, g.Attrs)
		case goipp.TagPrinterGroup:
			m.Printers = append(m.Printers, g.Attrs)
		case goipp.TagUnsupportedGroup:
			m.Unsupported = append(m.Unsupported, g.Attrs)
		case goipp.TagSubscriptionGroup:
			m.Subscriptions = append(m.Subscriptions, g.Attrs)
		case goipp.TagEventNotificationGroup:
			m.EventNotifications = append(m.EventNotifications, g.Attrs)
		case goipp.TagResourceGroup:
			m.Resources = append(m.Resources, g.Attrs)
		case goipp.TagDocumentGroup:
			m.Documents = append(m.Documents, g.Attrs)
		case goipp.TagSystemGroup:
			m.Systems = append(m.Systems, g.Attrs)
		}
	}

	if m.Operation == nil {
		m.Operation = &Attributes{}
	}
}
