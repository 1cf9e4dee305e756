/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Configuration constants
 */

package main

import (
	"time"
)

const (
	// DefaultRequestTimeout specifies how much time to wait for
	// IPP response, if not configured
	DefaultRequestTimeout = 30 * time.Second

	// DNSSdBrowseTimeout specifies how much time to collect
	// DNS-SD announces during printer discovery
	DNSSdBrowseTimeout = 3 * time.Second

	// DNSSdResolveTimeout specifies how much time to wait for
	// resolving of a single DNS-SD service instance
	DNSSdResolveTimeout = 2 * time.Second
)
