/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Response status checking
 */

package ipp

import (
	"fmt"

	"github.com/OpenPrinting/goipp"
)

// StatusPolicy defines which response statuses are successful
type StatusPolicy int

// StatusPolicy values
const (
	// StatusStrict accepts only successful-ok (0x0000). All other
	// codes, including successful-ok-* warnings, are failures
	StatusStrict StatusPolicy = iota

	// StatusAllowWarnings accepts all successful-ok-* codes
	// (0x0000...0x00ff)
	StatusAllowWarnings
)

// String returns StatusPolicy name
func (policy StatusPolicy) String() string {
	switch policy {
	case StatusStrict:
		return "strict"
	case StatusAllowWarnings:
		return "allow-warnings"
	}

	return fmt.Sprintf("unknown (%d)", int(policy))
}

// Success tells if status is successful under the policy
func (policy StatusPolicy) Success(status goipp.Status) bool {
	if policy == StatusAllowWarnings {
		return status <= 0x00ff
	}
	return status == goipp.StatusOk
}

// Validate returns *StatusError if message status is not successful
// under the policy
func (policy StatusPolicy) Validate(m *Message) error {
	if status := m.Status(); !policy.Success(status) {
		return &StatusError{Status: status, Message: m.StatusMessage()}
	}
	return nil
}

// Validate returns *StatusError if message status is not successful-ok.
// It is equal to StatusStrict.Validate(m)
func Validate(m *Message) error {
	return StatusStrict.Validate(m)
}
