/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Attribute name to value tag registry
 */

package ipp

import (
	"sort"

	"github.com/OpenPrinting/goipp"
)

// defaultTags contains the well-known attribute bindings
var defaultTags = map[string]goipp.Tag{
	"attributes-charset":          goipp.TagCharset,
	"attributes-natural-language": goipp.TagLanguage,
	"printer-uri":                 goipp.TagURI,
	"requesting-user-name":        goipp.TagName,
	"job-id":                      goipp.TagInteger,
	"document-name":               goipp.TagName,
	"job-name":                    goipp.TagName,
	"document-format":             goipp.TagMimeType,
	"last-document":               goipp.TagBoolean,
	"copies":                      goipp.TagInteger,
	"job-hold-until":              goipp.TagKeyword,
	"job-priority":                goipp.TagInteger,
	"number-up":                   goipp.TagInteger,
	"job-sheets":                  goipp.TagName,
	"job-uri":                     goipp.TagURI,
	"job-state":                   goipp.TagEnum,
	"job-state-reason":            goipp.TagKeyword,
	"requested-attributes":        goipp.TagKeyword,
	"member-uris":                 goipp.TagURI,
	"ppd-name":                    goipp.TagName,
	"printer-state-reason":        goipp.TagKeyword,
	"printer-is-shared":           goipp.TagBoolean,
	"printer-error-policy":        goipp.TagName,
	"printer-info":                goipp.TagText,
	"which-jobs":                  goipp.TagKeyword,
	"my-jobs":                     goipp.TagBoolean,
	"purge-jobs":                  goipp.TagBoolean,
	"hold-job-until":              goipp.TagKeyword,
	"job-printer-uri":             goipp.TagURI,
	"printer-location":            goipp.TagText,
	"document-number":             goipp.TagInteger,
	"printer-state":               goipp.TagEnum,
	"document-state":              goipp.TagEnum,
	"device-uri":                  goipp.TagURI,
	"compression":                 goipp.TagKeyword,
}

// Registry maps attribute names into value tags. It is used by
// Encoder when attribute tag is not specified explicitly.
//
// Registry is not synchronized. Configure it before use, or
// serialize all Register calls with encoding externally
type Registry struct {
	tags map[string]goipp.Tag
}

// NewRegistry creates a new Registry, seeded with the
// well-known attribute bindings
func NewRegistry() *Registry {
	reg := &Registry{tags: make(map[string]goipp.Tag, len(defaultTags))}
	for name, tag := range defaultTags {
		reg.tags[name] = tag
	}
	return reg
}

// Register binds attribute name to the tag, replacing
// previous binding, if any
func (reg *Registry) Register(name string, tag goipp.Tag) {
	reg.tags[name] = tag
}

// Resolve returns tag, bound to the attribute name. The nil
// Registry resolves only the well-known attributes
func (reg *Registry) Resolve(name string) (goipp.Tag, bool) {
	tags := defaultTags
	if reg != nil {
		tags = reg.tags
	}

	tag, found := tags[name]
	return tag, found
}

// Clone creates a copy of Registry, that may be extended
// independently from the original
func (reg *Registry) Clone() *Registry {
	clone := &Registry{tags: make(map[string]goipp.Tag, len(reg.tags))}
	for name, tag := range reg.tags {
		clone.tags[name] = tag
	}
	return clone
}

// Names returns all registered names, sorted
func (reg *Registry) Names() []string {
	names := make([]string, 0, len(reg.tags))
	for name := range reg.tags {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
