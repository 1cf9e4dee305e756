/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Printer and job attributes, as shown to user
 */

package main

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/OpenPrinting/ippclient/ipp"
	"github.com/google/uuid"
)

// PrinterSummary represents printer attributes, decoded into the
// form suitable for the "printers" and "discover" output
type PrinterSummary struct {
	Name      string    // printer-name
	Info      string    // printer-info
	Location  string    // printer-location
	MakeModel string    // printer-make-and-model
	State     string    // printer-state, "" if unknown
	UUID      uuid.UUID // printer-uuid, uuid.Nil if unknown
	Color     string    // "T", "F" or "" if unknown
	Duplex    string    // "T", "F" or "" if unknown
	Formats   []string  // document-format-supported
}

// ippAttrs wraps object attributes for convenient access
type ippAttrs struct {
	*ipp.Attributes
}

// Decode printer attributes into the PrinterSummary
//
// This is where information comes from:
//
//	Name:      "printer-name" with fallback to "printer-dns-sd-name"
//	Info:      "printer-info"
//	Location:  "printer-location"
//	MakeModel: "printer-make-and-model"
//	State:     "printer-state"
//	UUID:      "printer-uuid"
//	Color:     "color-supported"
//	Duplex:    search "sides-supported" for strings with
//	           prefix "one" or "two"
//	Formats:   "document-format-supported"
func NewPrinterSummary(attrs *ipp.Attributes) PrinterSummary {
	a := ippAttrs{attrs}

	p := PrinterSummary{
		Name:      a.strSingle("printer-name", "printer-dns-sd-name"),
		Info:      a.strSingle("printer-info"),
		Location:  a.strSingle("printer-location"),
		MakeModel: a.strSingle("printer-make-and-model"),
		State:     a.enum("printer-state"),
		UUID:      a.getUUID("printer-uuid"),
		Color:     a.getBool("color-supported"),
		Duplex:    a.getDuplex(),
		Formats:   a.Strings("document-format-supported"),
	}

	return p
}

// Write PrinterSummary as a single line
func (p PrinterSummary) Write(w io.Writer) {
	fmt.Fprintf(w, "%-20s %-10s %s", p.Name, p.State, p.MakeModel)
	if p.Location != "" {
		fmt.Fprintf(w, " (%s)", p.Location)
	}
	if p.UUID != uuid.Nil {
		fmt.Fprintf(w, " %s", p.UUID)
	}
	fmt.Fprintf(w, "\n")
}

// JobSummary represents job attributes, as shown by the "jobs" command
type JobSummary struct {
	ID      int    // job-id
	Name    string // job-name
	User    string // job-originating-user-name
	State   string // job-state, "" if unknown
	Printer string // Printer name, taken from job-printer-uri
	Size    int    // job-k-octets, -1 if unknown
}

// NewJobSummary decodes job attributes into the JobSummary
func NewJobSummary(id int, attrs *ipp.Attributes) JobSummary {
	a := ippAttrs{attrs}

	j := JobSummary{
		ID:    id,
		Name:  a.strSingle("job-name"),
		User:  a.strSingle("job-originating-user-name"),
		State: a.enum("job-state"),
		Size:  -1,
	}

	if uri := a.strSingle("job-printer-uri"); uri != "" {
		j.Printer = uri[strings.LastIndexByte(uri, '/')+1:]
	}

	if sz, ok := attrs.Int("job-k-octets"); ok {
		j.Size = sz
	}

	return j
}

// Write JobSummary as a single line
func (j JobSummary) Write(w io.Writer) {
	size := "-"
	if j.Size >= 0 {
		size = fmt.Sprintf("%dK", j.Size)
	}

	fmt.Fprintf(w, "%-6d %-20s %-12s %-10s %-8s %s\n",
		j.ID, j.Printer, j.User, j.State, size, j.Name)
}

// WriteAttrs writes all attributes, one per line, sorted by name
func WriteAttrs(w io.Writer, attrs *ipp.Attributes) {
	names := attrs.Names()
	sort.Strings(names)

	for _, name := range names {
		av, _ := attrs.Get(name)
		fmt.Fprintf(w, "  %s = %s\n", name, av)
	}
}

// WriteObjects writes map of objects, as returned by the client,
// sorted by key
func WriteObjects(w io.Writer, objects map[string]*ipp.Attributes) {
	keys := make([]string, 0, len(objects))
	for key := range objects {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(w, "%s:\n", key)
		WriteAttrs(w, objects[key])
	}
}

// getDuplex returns "T" if printer supports two-sided
// printing, "F" if not and "" if it cant' tell
func (a ippAttrs) getDuplex() string {
	one, two := false, false
	for _, s := range a.Strings("sides-supported") {
		switch {
		case strings.HasPrefix(s, "one"):
			one = true
		case strings.HasPrefix(s, "two"):
			two = true
		}
	}

	if two {
		return "T"
	}

	if one {
		return "F"
	}

	return ""
}

// Get a single-string attribute
// Multiple names may be specified, for fallback purposes
func (a ippAttrs) strSingle(names ...string) string {
	for _, name := range names {
		if s, ok := a.Str(name); ok {
			return s
		}
	}

	return ""
}

// Get boolean attribute. Returns "F" or "T" if attribute is found,
// empty string otherwise
func (a ippAttrs) getBool(name string) string {
	v, ok := a.Value(name).(ipp.Boolean)
	switch {
	case !ok:
		return ""
	case bool(v):
		return "T"
	}
	return "F"
}

// Get enum attribute, as name
func (a ippAttrs) enum(name string) string {
	if v := a.Value(name); v != nil {
		return v.String()
	}
	return ""
}

// Get UUID attribute. Returns uuid.Nil, if attribute is missed
// or malformed
func (a ippAttrs) getUUID(name string) uuid.UUID {
	u, err := uuid.Parse(a.strSingle(name))
	if err != nil {
		return uuid.Nil
	}
	return u
}
