/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * DNS-SD, Avahi-based system-dependent part
 */

//go:build linux

package main

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/holoplot/go-avahi"
)

// dnssdAvahi implements dnssdSysdep over the Avahi D-Bus API
type dnssdAvahi struct {
	server *avahi.Server // Avahi server connection
}

// newDnssdSysdep creates new dnssdSysdep instance
func newDnssdSysdep() (dnssdSysdep, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoAvahi, err)
	}

	server, err := avahi.ServerNew(conn)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNoAvahi, err)
	}

	return &dnssdAvahi{server: server}, nil
}

// Close closes the Avahi server connection
func (sd *dnssdAvahi) Close() {
	sd.server.Close()
}

// Browse collects service instances until ctx is done
func (sd *dnssdAvahi) Browse(ctx context.Context,
	svcType string) ([]DnsSdInstance, error) {

	sb, err := sd.server.ServiceBrowserNew(avahi.InterfaceUnspec,
		avahi.ProtoUnspec, svcType, "local", 0)
	if err != nil {
		return nil, err
	}

	defer sd.server.ServiceBrowserFree(sb)

	var instances []DnsSdInstance
	for {
		select {
		case svc := <-sb.AddChannel:
			Log.Debug(' ', "DNS-SD: found %q %s", svc.Name, svc.Type)
			instances = append(instances, DnsSdInstance{
				Name:   svc.Name,
				Type:   svc.Type,
				Domain: svc.Domain,
			})

		case <-sb.RemoveChannel:

		case <-ctx.Done():
			return instances, nil
		}
	}
}

// Resolve resolves the service instance
func (sd *dnssdAvahi) Resolve(ctx context.Context,
	inst DnsSdInstance) (*DnsSdPrinter, error) {

	type result struct {
		svc avahi.Service
		err error
	}

	done := make(chan result, 1)
	go func() {
		svc, err := sd.server.ResolveService(avahi.InterfaceUnspec,
			avahi.ProtoUnspec, inst.Name, inst.Type, inst.Domain,
			avahi.ProtoUnspec, 0)
		done <- result{svc, err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			return nil, r.err
		}

		return &DnsSdPrinter{
			DnsSdInstance: inst,
			Host:          r.svc.Host,
			Addr:          r.svc.Address,
			Port:          int(r.svc.Port),
			Txt:           ParseTxt(r.svc.Txt),
		}, nil

	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
