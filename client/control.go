/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * CUPS spool control files
 */

package client

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/OpenPrinting/ippclient/ipp"
)

// DefaultSpoolDir is the default CUPS spool directory
const DefaultSpoolDir = "/var/spool/cups"

// ControlFilePath returns path to the control file of the job
func ControlFilePath(spoolDir string, job int) string {
	if spoolDir == "" {
		spoolDir = DefaultSpoolDir
	}
	return filepath.Join(spoolDir, fmt.Sprintf("c%05d", job))
}

// ReadControlFile reads and decodes the CUPS control file of the job.
// The control file is the IPP message with job attributes, so it is
// decoded as such. Its status is not checked
func ReadControlFile(job int, spoolDir string) (*ipp.Message, error) {
	data, err := os.ReadFile(ControlFilePath(spoolDir, job))
	if err != nil {
		return nil, err
	}

	return ipp.DecodeMessage(data, false)
}
