/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * DNS-SD printer discovery: system-independent stuff
 */

package main

import (
	"context"
	"fmt"
	"net"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// DNSSdServiceTypes lists service types, browsed for printers
var DNSSdServiceTypes = []string{"_ipp._tcp", "_ipps._tcp"}

// dnssdMaxResolvers limits count of simultaneous resolve requests
const dnssdMaxResolvers = 8

// DnsSdTxtItem represents a single TXT record item
type DnsSdTxtItem struct {
	Key, Value string // TXT entry: Key=Value
}

// DnsSdTxtRecord represents a TXT record
type DnsSdTxtRecord []DnsSdTxtItem

// ParseTxt parses TXT record, as received from Avahi. Items
// without '=' are boolean attributes with empty value
func ParseTxt(txt [][]byte) DnsSdTxtRecord {
	var rec DnsSdTxtRecord

	// Note, for a some strange reason, Avahi returns
	// TXT record in reverse order, so compensate it here
	for i := len(txt) - 1; i >= 0; i-- {
		item := string(txt[i])
		if item == "" {
			continue
		}

		kv := strings.SplitN(item, "=", 2)
		if len(kv) == 1 {
			kv = append(kv, "")
		}

		rec = append(rec, DnsSdTxtItem{kv[0], kv[1]})
	}

	return rec
}

// Get returns value of TXT item, matched case-insensitive,
// or "" if item is missed
func (txt DnsSdTxtRecord) Get(key string) string {
	for _, item := range txt {
		if strings.EqualFold(item.Key, key) {
			return item.Value
		}
	}
	return ""
}

// DnsSdInstance identifies a browsed, but not yet resolved
// service instance
type DnsSdInstance struct {
	Name   string // Instance name, i.e. "Kyocera ECOSYS M2040dn"
	Type   string // Service type, i.e. "_ipp._tcp"
	Domain string // Domain, typically "local"
}

// key returns key for duplicates elimination. Avahi reports the
// same instance once per network interface and protocol
func (inst DnsSdInstance) key() string {
	return inst.Name + "." + inst.Type + "." + inst.Domain
}

// DnsSdPrinter represents a printer, discovered via DNS-SD
type DnsSdPrinter struct {
	DnsSdInstance
	Host string         // Host name
	Addr string         // IP address
	Port int            // TCP port
	Txt  DnsSdTxtRecord // TXT record
}

// URI returns printer URI, built from the DNS-SD information
func (p *DnsSdPrinter) URI() string {
	scheme := "ipp"
	if p.Type == "_ipps._tcp" {
		scheme = "ipps"
	}

	host := p.Host
	if host == "" {
		host = p.Addr
	}

	rp := strings.TrimPrefix(p.Txt.Get("rp"), "/")
	return fmt.Sprintf("%s://%s/%s", scheme,
		net.JoinHostPort(host, strconv.Itoa(p.Port)), rp)
}

// Summary decodes TXT record into the PrinterSummary
//
// This is where information comes from:
//
//	Name:      instance name
//	Info:      "ty"
//	Location:  "note"
//	MakeModel: "ty", with fallback to "product" without brackets
//	UUID:      "UUID"
//	Color:     "Color"
//	Duplex:    "Duplex"
//	Formats:   "pdl", comma-separated
func (p *DnsSdPrinter) Summary() PrinterSummary {
	s := PrinterSummary{
		Name:     p.Name,
		Info:     p.Txt.Get("ty"),
		Location: p.Txt.Get("note"),
		Color:    p.Txt.Get("Color"),
		Duplex:   p.Txt.Get("Duplex"),
	}

	s.MakeModel = s.Info
	if s.MakeModel == "" {
		s.MakeModel = strings.Trim(p.Txt.Get("product"), "()")
	}

	if u, err := uuid.Parse(p.Txt.Get("UUID")); err == nil {
		s.UUID = u
	}

	if pdl := p.Txt.Get("pdl"); pdl != "" {
		s.Formats = strings.Split(pdl, ",")
	}

	return s
}

// dnssdSysdep is the system-dependent DNS-SD backend
type dnssdSysdep interface {
	// Browse collects instances of the service type, until
	// ctx is done or the backend reports that all instances
	// are known. Expiration of ctx is not an error
	Browse(ctx context.Context, svcType string) ([]DnsSdInstance, error)

	// Resolve resolves the instance
	Resolve(ctx context.Context, inst DnsSdInstance) (*DnsSdPrinter, error)

	// Close closes the backend
	Close()
}

// DnsSdDiscover discovers printers, using the backend. Printers
// are returned sorted by instance name and type. Instances that
// cannot be resolved are logged and skipped
func DnsSdDiscover(ctx context.Context, sysdep dnssdSysdep) ([]*DnsSdPrinter, error) {
	// Browse all service types
	var instances []DnsSdInstance
	seen := make(map[string]struct{})

	for _, svcType := range DNSSdServiceTypes {
		bctx, cancel := context.WithTimeout(ctx, DNSSdBrowseTimeout)
		browsed, err := sysdep.Browse(bctx, svcType)
		cancel()

		if err != nil {
			return nil, fmt.Errorf("DNS-SD: browse %s: %w", svcType, err)
		}

		for _, inst := range browsed {
			if _, dup := seen[inst.key()]; !dup {
				seen[inst.key()] = struct{}{}
				instances = append(instances, inst)
			}
		}
	}

	// Resolve instances concurrently
	var lock sync.Mutex
	var printers []*DnsSdPrinter

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(dnssdMaxResolvers)

	for _, inst := range instances {
		inst := inst
		g.Go(func() error {
			rctx, cancel := context.WithTimeout(gctx, DNSSdResolveTimeout)
			defer cancel()

			p, err := sysdep.Resolve(rctx, inst)
			if err != nil {
				Log.Debug('!', "DNS-SD: %q %s: %s", inst.Name, inst.Type, err)
				return nil
			}

			lock.Lock()
			printers = append(printers, p)
			lock.Unlock()
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}

	if err != nil {
		return nil, fmt.Errorf("DNS-SD: %w", err)
	}

	sort.Slice(printers, func(i, j int) bool {
		if printers[i].Name != printers[j].Name {
			return printers[i].Name < printers[j].Name
		}
		return printers[i].Type < printers[j].Type
	})

	return printers, nil
}
