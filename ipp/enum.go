/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Closed enumerations
 */

package ipp

import (
	"fmt"
)

// JobState represents the "job-state" enumeration (RFC 8011, 5.3.7)
type JobState int32

// JobState values
const (
	JobPending    JobState = 3 // Job is waiting to be processed
	JobHeld       JobState = 4 // Job is held
	JobProcessing JobState = 5 // Job is being processed
	JobStopped    JobState = 6 // Job processing is stopped
	JobCanceled   JobState = 7 // Job was canceled
	JobAborted    JobState = 8 // Job was aborted by the system
	JobCompleted  JobState = 9 // Job is completed
)

// String returns JobState name
func (s JobState) String() string {
	switch s {
	case JobPending:
		return "Pending"
	case JobHeld:
		return "Held"
	case JobProcessing:
		return "Processing"
	case JobStopped:
		return "Stopped"
	case JobCanceled:
		return "Canceled"
	case JobAborted:
		return "Aborted"
	case JobCompleted:
		return "Completed"
	}

	return fmt.Sprintf("Unknown JobState %d", int32(s))
}

func (JobState) isValue() {}
func (s JobState) int32Value() int32 { return int32(s) }

// PrinterState represents the "printer-state" enumeration
// (RFC 8011, 5.4.11)
type PrinterState int32

// PrinterState values
const (
	PrinterIdle       PrinterState = 3 // Printer is idle
	PrinterProcessing PrinterState = 4 // Printer is processing jobs
	PrinterStopped    PrinterState = 5 // Printer is stopped
)

// String returns PrinterState name
func (s PrinterState) String() string {
	switch s {
	case PrinterIdle:
		return "Idle"
	case PrinterProcessing:
		return "Processing"
	case PrinterStopped:
		return "Stopped"
	}

	return fmt.Sprintf("Unknown PrinterState %d", int32(s))
}

func (PrinterState) isValue() {}
func (s PrinterState) int32Value() int32 { return int32(s) }

// DocumentState represents the "document-state" enumeration
// (PWG 5100.5, 5.3.5)
type DocumentState int32

// DocumentState values
const (
	DocumentPending    DocumentState = 3 // Document is waiting to be processed
	DocumentProcessing DocumentState = 5 // Document is being processed
	DocumentStopped    DocumentState = 6 // Document processing is stopped
	DocumentCanceled   DocumentState = 7 // Document was canceled
	DocumentAborted    DocumentState = 8 // Document was aborted by the system
	DocumentCompleted  DocumentState = 9 // Document is completed
)

// String returns DocumentState name
func (s DocumentState) String() string {
	switch s {
	case DocumentPending:
		return "Pending"
	case DocumentProcessing:
		return "Processing"
	case DocumentStopped:
		return "Stopped"
	case DocumentCanceled:
		return "Canceled"
	case DocumentAborted:
		return "Aborted"
	case DocumentCompleted:
		return "Completed"
	}

	return fmt.Sprintf("Unknown DocumentState %d", int32(s))
}

func (DocumentState) isValue() {}
func (s DocumentState) int32Value() int32 { return int32(s) }

// closedEnums maps attribute names into converters of
// integer values into the closed enumeration of that attribute.
// Converter returns false, if value is outside of the domain
var closedEnums = map[string]func(int32) (Value, bool){
	"job-state": func(v int32) (Value, bool) {
		s := JobState(v)
		return s, s >= JobPending && s <= JobCompleted
	},

	"printer-state": func(v int32) (Value, bool) {
		s := PrinterState(v)
		return s, s >= PrinterIdle && s <= PrinterStopped
	},

	"document-state": func(v int32) (Value, bool) {
		s := DocumentState(v)
		switch s {
		case DocumentPending, DocumentProcessing, DocumentStopped,
			DocumentCanceled, DocumentAborted, DocumentCompleted:
			return s, true
		}
		return s, false
	},
}
