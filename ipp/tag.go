/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Tag classification
 */

package ipp

import (
	"fmt"
	"strings"

	"github.com/OpenPrinting/goipp"
)

// isGroupTag tells if tag starts a group of attributes
func isGroupTag(tag goipp.Tag) bool {
	return tag.IsGroup()
}

// isOutOfBandTag tells if tag is one of out-of-band value tags,
// which never carry a value
func isOutOfBandTag(tag goipp.Tag) bool {
	switch tag {
	case goipp.TagUnsupportedValue, goipp.TagDefault, goipp.TagUnknown,
		goipp.TagNoValue, goipp.TagNotSettable, goipp.TagDeleteAttr,
		goipp.TagAdminDefine:
		return true
	}

	return false
}

// isStringTag tells if tag belongs to the string class, i.e.
// its value is UTF-8 text
func isStringTag(tag goipp.Tag) bool {
	switch tag {
	case goipp.TagString,
		goipp.TagText, goipp.TagName, goipp.TagReservedString,
		goipp.TagKeyword, goipp.TagURI, goipp.TagURIScheme,
		goipp.TagCharset, goipp.TagLanguage, goipp.TagMimeType,
		goipp.TagMemberName:
		return true
	}

	return false
}

// tagKeywords maps tag keywords, as used in configuration files,
// into tags
var tagKeywords = map[string]goipp.Tag{
	"integer":         goipp.TagInteger,
	"boolean":         goipp.TagBoolean,
	"enum":            goipp.TagEnum,
	"octet-string":    goipp.TagString,
	"date-time":       goipp.TagDateTime,
	"resolution":      goipp.TagResolution,
	"range":           goipp.TagRange,
	"text-lang":       goipp.TagTextLang,
	"name-lang":       goipp.TagNameLang,
	"text":            goipp.TagText,
	"name":            goipp.TagName,
	"reserved-string": goipp.TagReservedString,
	"keyword":         goipp.TagKeyword,
	"uri":             goipp.TagURI,
	"uri-scheme":      goipp.TagURIScheme,
	"charset":         goipp.TagCharset,
	"language":        goipp.TagLanguage,
	"mime-type":       goipp.TagMimeType,
	"member-name":     goipp.TagMemberName,
}

// ParseTag parses tag keyword, as used in configuration files.
//
// Short keywords ("integer", "text", "mime-type" and so on) and
// RFC 8010 names ("textWithoutLanguage", "mimeMediaType", ...) are
// both recognized, case-insensitive. Only value tags are accepted
func ParseTag(s string) (goipp.Tag, error) {
	s = strings.ToLower(strings.TrimSpace(s))

	if tag, found := tagKeywords[s]; found {
		return tag, nil
	}

	for tag := goipp.TagUnsupportedValue; tag <= goipp.TagMemberName; tag++ {
		if strings.ToLower(tag.String()) == s {
			return tag, nil
		}
	}

	return goipp.TagZero, fmt.Errorf("%q: unknown value tag", s)
}
