/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Codec errors
 */

package ipp

import (
	"errors"
	"fmt"

	"github.com/OpenPrinting/goipp"
)

// ErrUnresolvedTag is returned by Encoder with UnresolvedFail policy,
// when attribute has no explicit tag and Registry doesn't know its name
var ErrUnresolvedTag = errors.New("attribute tag not resolved")

// DecodeError represents a malformed message
type DecodeError struct {
	Offset int    // Offset of the failed piece of data
	Msg    string // Error message
}

// Error returns error string
func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s at 0x%x", e.Msg, e.Offset)
}

// decodeErrorf creates a new DecodeError
func decodeErrorf(off int, format string, args ...interface{}) error {
	return &DecodeError{Offset: off, Msg: fmt.Sprintf(format, args...)}
}

// EncodeError represents a value that cannot be encoded
type EncodeError struct {
	Name string    // Attribute name
	Tag  goipp.Tag // Attribute tag
	Msg  string    // Error message
}

// Error returns error string
func (e *EncodeError) Error() string {
	return fmt.Sprintf("%q (%s): %s", e.Name, e.Tag, e.Msg)
}

// StatusError is returned when response status indicates failure
type StatusError struct {
	Status  goipp.Status // IPP status code
	Message string       // The "status-message" attribute, may be empty
}

// Error returns error string
func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("IPP: 0x%4.4x %s", int(e.Status), e.Status)
	}
	return fmt.Sprintf("IPP: 0x%4.4x %s: %s", int(e.Status), e.Status,
		e.Message)
}
