/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Common errors
 */

package main

import (
	"errors"
)

// Error values for ippclient
var (
	ErrUsage          = errors.New("Invalid usage")
	ErrNoSuchJob      = errors.New("No such job")
	ErrNoAvahi        = errors.New("Avahi daemon not available")
	ErrConnectionFail = errors.New("Can't connect to server")
)
