/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Program log
 */

package main

// Log is the program-wide logger
var Log = NewLogger().ToConsole()

// LogSetup configures Log according to the configuration.
// If debug is true, console log is forced to the full trace
func LogSetup(conf *Configuration, debug bool) {
	levels := conf.LogConsole
	if debug {
		levels = LogAll
	}

	if conf.LogFile != "" {
		Log.ToFile(conf.LogFile, conf.LogMaxFileSize, conf.LogMaxBackupFiles)
		levels = conf.LogFileLevels
		if debug {
			levels = LogAll
		}
	}

	Log.SetLevels(levels)
}
