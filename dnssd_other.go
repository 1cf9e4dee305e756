/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * DNS-SD, stub for systems without Avahi
 */

//go:build !linux

package main

// newDnssdSysdep creates new dnssdSysdep instance
func newDnssdSysdep() (dnssdSysdep, error) {
	return nil, ErrNoAvahi
}
