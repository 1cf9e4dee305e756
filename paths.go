/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Common paths
 */

package main

const (
	// PathConfDir defines path to configuration directory
	PathConfDir = "/etc/ippclient"

	// PathUserConfDir defines path to per-user configuration
	// directory, relative to $HOME
	PathUserConfDir = ".config/ippclient"

	// PathLogDir defines path to log directory
	PathLogDir = "/var/log/ippclient"

	// PathLogFile defines path to the default log file
	PathLogFile = PathLogDir + "/ippclient.log"
)
