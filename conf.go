/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Program configuration
 */

package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/OpenPrinting/goipp"
	"github.com/OpenPrinting/ippclient/client"
	"github.com/OpenPrinting/ippclient/ipp"
	"gopkg.in/ini.v1"
)

const (
	// ConfFileName defines a name of ippclient configuration file
	ConfFileName = "ippclient.conf"
)

// Configuration represents a program configuration
type Configuration struct {
	Host              string               // CUPS server host
	Port              int                  // CUPS server port
	TLS               bool                 // Use HTTPS
	Verify            bool                 // Verify server certificate
	User              string               // User name
	Password          string               // Password for Basic auth
	Timeout           time.Duration        // Request timeout
	LogConsole        LogLevel             // Console LogLevel mask
	LogFile           string               // Log file, "" for console only
	LogFileLevels     LogLevel             // Log file LogLevel mask
	LogMaxFileSize    int64                // Maximum log file size
	LogMaxBackupFiles uint                 // Count of files preserved during rotation
	Unresolved        ipp.UnresolvedPolicy // Unknown attribute names policy
	Status            ipp.StatusPolicy     // Response status policy
	Attributes        map[string]goipp.Tag // Additional name to tag bindings
}

// DefaultConfiguration returns configuration with all values
// set to their defaults
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Host:              "localhost",
		Port:              client.DefaultPort,
		Verify:            true,
		Timeout:           DefaultRequestTimeout,
		LogConsole:        LogError | LogInfo,
		LogFileLevels:     LogError | LogInfo | LogDebug,
		LogMaxFileSize:    256 * 1024,
		LogMaxBackupFiles: 5,
		Attributes:        make(map[string]goipp.Tag),
	}
}

// ConfFiles returns list of configuration files, in order of loading
func ConfFiles() []string {
	files := []string{filepath.Join(PathConfDir, ConfFileName)}

	if exepath, err := os.Executable(); err == nil {
		files = append(files,
			filepath.Join(filepath.Dir(exepath), ConfFileName))
	}

	if home, err := os.UserHomeDir(); err == nil {
		files = append(files,
			filepath.Join(home, PathUserConfDir, ConfFileName))
	}

	return files
}

// ConfLoad loads the program configuration from all
// configuration files. Missing files are silently ignored
func ConfLoad() (*Configuration, error) {
	conf := DefaultConfiguration()
	for _, file := range ConfFiles() {
		err := conf.Load(file)
		if err != nil {
			return nil, err
		}
	}

	return conf, nil
}

// Load loads a single configuration file on top of the
// current values. Missing file is not an error
func (conf *Configuration) Load(path string) error {
	inifile, err := ini.LoadSources(ini.LoadOptions{Loose: true}, path)
	if err == nil {
		err = conf.load(inifile)
	}

	if err != nil {
		return fmt.Errorf("conf: %s: %s", path, err)
	}

	return nil
}

// load extracts options from the parsed file
func (conf *Configuration) load(inifile *ini.File) error {
	var err error

	if section, _ := inifile.GetSection("server"); section != nil {
		for _, key := range section.Keys() {
			switch key.Name() {
			case "host":
				conf.Host = key.String()
			case "port":
				err = confLoadIPPortKey(&conf.Port, key)
			case "tls":
				err = confLoadBinaryKey(&conf.TLS, key, "disable", "enable")
			case "verify":
				err = confLoadBinaryKey(&conf.Verify, key, "disable", "enable")
			case "user":
				conf.User = key.String()
			case "password":
				conf.Password = key.String()
			case "timeout":
				err = confLoadDurationKey(&conf.Timeout, key)
			}

			if err != nil {
				return err
			}
		}
	}

	if section, _ := inifile.GetSection("logging"); section != nil {
		for _, key := range section.Keys() {
			switch key.Name() {
			case "console-log":
				err = confLoadLogLevelKey(&conf.LogConsole, key)
			case "file-log":
				err = confLoadLogLevelKey(&conf.LogFileLevels, key)
			case "file":
				conf.LogFile = key.String()
				if conf.LogFile == "default" {
					conf.LogFile = PathLogFile
				}
			case "max-file-size":
				err = confLoadSizeKey(&conf.LogMaxFileSize, key)
			case "max-backup-files":
				err = confLoadUintKey(&conf.LogMaxBackupFiles, key)
			}

			if err != nil {
				return err
			}
		}
	}

	if section, _ := inifile.GetSection("policy"); section != nil {
		for _, key := range section.Keys() {
			switch key.Name() {
			case "unresolved":
				err = confLoadUnresolvedKey(&conf.Unresolved, key)
			case "status":
				err = confLoadStatusKey(&conf.Status, key)
			}

			if err != nil {
				return err
			}
		}
	}

	if section, _ := inifile.GetSection("attributes"); section != nil {
		for _, key := range section.Keys() {
			tag, err := ipp.ParseTag(key.String())
			if err != nil {
				return confBadValue(key, "%s", err)
			}
			conf.Attributes[key.Name()] = tag
		}
	}

	return nil
}

// Registry returns ipp.Registry with the default bindings,
// extended by the [attributes] section
func (conf *Configuration) Registry() *ipp.Registry {
	reg := ipp.NewRegistry()
	for name, tag := range conf.Attributes {
		reg.Register(name, tag)
	}
	return reg
}

// TransportOptions returns client.TransportOptions for
// the configured server
func (conf *Configuration) TransportOptions() client.TransportOptions {
	return client.TransportOptions{
		Host:     conf.Host,
		Port:     conf.Port,
		TLS:      conf.TLS,
		Insecure: !conf.Verify,
		User:     conf.User,
		Password: conf.Password,
		Timeout:  conf.Timeout,
	}
}

// Create "bad value" error
func confBadValue(key *ini.Key, format string, args ...interface{}) error {
	return fmt.Errorf(key.Name()+": "+format, args...)
}

// Load IP port key
func confLoadIPPortKey(out *int, key *ini.Key) error {
	port, err := key.Int()
	if err != nil {
		return confBadValue(key, "%q: invalid port", key.String())
	}

	if port < 1 || port > 65535 {
		return confBadValue(key, "must be in range 1...65535")
	}

	*out = port
	return nil
}

// Load the binary key
func confLoadBinaryKey(out *bool, key *ini.Key, vFalse, vTrue string) error {
	switch key.String() {
	case vFalse:
		*out = false
		return nil
	case vTrue:
		*out = true
		return nil
	default:
		return confBadValue(key, "must be %s or %s", vFalse, vTrue)
	}
}

// Load duration key. Plain number means seconds
func confLoadDurationKey(out *time.Duration, key *ini.Key) error {
	if secs, err := strconv.ParseUint(key.String(), 10, 32); err == nil {
		*out = time.Duration(secs) * time.Second
		return nil
	}

	d, err := key.Duration()
	if err != nil || d <= 0 {
		return confBadValue(key, "%q: invalid duration", key.String())
	}

	*out = d
	return nil
}

// Load LogLevel key
func confLoadLogLevelKey(out *LogLevel, key *ini.Key) error {
	var mask LogLevel
	for _, s := range strings.Split(key.String(), ",") {
		s = strings.TrimSpace(s)
		switch s {
		case "", "none":
		case "error":
			mask |= LogError
		case "info":
			mask |= LogInfo | LogError
		case "debug":
			mask |= LogDebug | LogInfo | LogError
		case "trace-ipp":
			mask |= LogTraceIPP | LogDebug | LogInfo | LogError
		case "trace-http":
			mask |= LogTraceHTTP | LogDebug | LogInfo | LogError
		case "all", "trace-all":
			mask |= LogAll
		default:
			return confBadValue(key, "invalid log level %q", s)
		}
	}

	*out = mask
	return nil
}

// Load ipp.UnresolvedPolicy key
func confLoadUnresolvedKey(out *ipp.UnresolvedPolicy, key *ini.Key) error {
	for _, policy := range []ipp.UnresolvedPolicy{
		ipp.UnresolvedSkip, ipp.UnresolvedFail} {
		if key.String() == policy.String() {
			*out = policy
			return nil
		}
	}

	return confBadValue(key, "must be skip or fail")
}

// Load ipp.StatusPolicy key
func confLoadStatusKey(out *ipp.StatusPolicy, key *ini.Key) error {
	for _, policy := range []ipp.StatusPolicy{
		ipp.StatusStrict, ipp.StatusAllowWarnings} {
		if key.String() == policy.String() {
			*out = policy
			return nil
		}
	}

	return confBadValue(key, "must be strict or allow-warnings")
}

// Load size key
func confLoadSizeKey(out *int64, key *ini.Key) error {
	units := uint64(1)
	value := key.String()

	if l := len(value); l > 0 {
		switch value[l-1] {
		case 'k', 'K':
			units = 1024
		case 'm', 'M':
			units = 1024 * 1024
		}

		if units != 1 {
			value = value[:l-1]
		}
	}

	sz, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return confBadValue(key, "%q: invalid size", key.String())
	}

	if sz > uint64(math.MaxInt64/units) {
		return confBadValue(key, "size too large")
	}

	*out = int64(sz * units)
	return nil
}

// Load unsigned integer key
func confLoadUintKey(out *uint, key *ini.Key) error {
	num, err := key.Uint()
	if err != nil {
		return confBadValue(key, "%q: invalid number", key.String())
	}

	*out = num
	return nil
}
