/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Configuration tests
 */

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/OpenPrinting/goipp"
	"github.com/OpenPrinting/ippclient/client"
	"github.com/OpenPrinting/ippclient/ipp"
)

// confWrite writes configuration file into the temporary directory
func confWrite(t *testing.T, text string) string {
	path := filepath.Join(t.TempDir(), ConfFileName)
	err := os.WriteFile(path, []byte(text), 0644)
	if err != nil {
		t.Fatalf("%s", err)
	}
	return path
}

// Test loading of the complete configuration file
func TestConfLoad(t *testing.T) {
	conf := DefaultConfiguration()
	err := conf.Load("testdata/ippclient.conf")
	if err != nil {
		t.Fatalf("%s", err)
	}

	if conf.Host != "cups.example.com" || conf.Port != 8631 {
		t.Errorf("server: %s:%d", conf.Host, conf.Port)
	}

	if !conf.TLS || conf.Verify {
		t.Errorf("tls=%v verify=%v", conf.TLS, conf.Verify)
	}

	if conf.User != "operator" || conf.Password != "secret" {
		t.Errorf("credentials: %q %q", conf.User, conf.Password)
	}

	if conf.Timeout != 45*time.Second {
		t.Errorf("timeout: %s", conf.Timeout)
	}

	if conf.LogConsole != LogError|LogInfo|LogDebug {
		t.Errorf("console-log: %b", conf.LogConsole)
	}

	if conf.LogFileLevels != LogAll {
		t.Errorf("file-log: %b", conf.LogFileLevels)
	}

	if conf.LogFile != "/tmp/ippclient-test.log" {
		t.Errorf("file: %q", conf.LogFile)
	}

	if conf.LogMaxFileSize != 1024*1024 {
		t.Errorf("max-file-size: %d", conf.LogMaxFileSize)
	}

	if conf.Unresolved != ipp.UnresolvedFail {
		t.Errorf("unresolved: %s", conf.Unresolved)
	}

	if conf.Status != ipp.StatusAllowWarnings {
		t.Errorf("status: %s", conf.Status)
	}

	expected := map[string]goipp.Tag{
		"x-vendor-note":      goipp.TagText,
		"x-vendor-feature":   goipp.TagKeyword,
		"x-vendor-threshold": goipp.TagInteger,
	}

	reg := conf.Registry()
	for name, tag := range expected {
		if conf.Attributes[name] != tag {
			t.Errorf("%s: expected %s, present %s",
				name, tag, conf.Attributes[name])
		}

		if got, _ := reg.Resolve(name); got != tag {
			t.Errorf("Registry: %s: expected %s, present %s",
				name, tag, got)
		}
	}

	// Well-known bindings must survive
	if tag, _ := reg.Resolve("job-name"); tag != goipp.TagName {
		t.Errorf("Registry: job-name: %s", tag)
	}

	opts := conf.TransportOptions()
	if !opts.Insecure || opts.Port != 8631 || opts.User != "operator" {
		t.Errorf("TransportOptions: %+v", opts)
	}
}

// Test defaults and missing files
func TestConfDefaults(t *testing.T) {
	conf := DefaultConfiguration()
	err := conf.Load(filepath.Join(t.TempDir(), "missing.conf"))
	if err != nil {
		t.Fatalf("%s", err)
	}

	if conf.Host != "localhost" || conf.Port != client.DefaultPort {
		t.Errorf("server: %s:%d", conf.Host, conf.Port)
	}

	if conf.Unresolved != ipp.UnresolvedSkip ||
		conf.Status != ipp.StatusStrict {
		t.Errorf("policy: %s %s", conf.Unresolved, conf.Status)
	}

	if conf.Timeout != DefaultRequestTimeout {
		t.Errorf("timeout: %s", conf.Timeout)
	}
}

// Test that later files override earlier ones
func TestConfOverride(t *testing.T) {
	conf := DefaultConfiguration()

	for _, text := range []string{
		"[server]\nhost = first\nport = 1631\n",
		"[server]\nhost = second\n",
	} {
		if err := conf.Load(confWrite(t, text)); err != nil {
			t.Fatalf("%s", err)
		}
	}

	if conf.Host != "second" || conf.Port != 1631 {
		t.Errorf("server: %s:%d", conf.Host, conf.Port)
	}
}

// Test invalid values
func TestConfErrors(t *testing.T) {
	tests := []struct {
		text, err string
	}{
		{"[server]\nport = 0\n", "port: must be in range 1...65535"},
		{"[server]\nport = http\n", `port: "http": invalid port`},
		{"[server]\ntls = yes\n", "tls: must be disable or enable"},
		{"[server]\ntimeout = soon\n", `timeout: "soon": invalid duration`},
		{"[logging]\nconsole-log = loud\n", `console-log: invalid log level "loud"`},
		{"[logging]\nmax-file-size = 1G\n", `max-file-size: "1G": invalid size`},
		{"[policy]\nunresolved = guess\n", "unresolved: must be skip or fail"},
		{"[policy]\nstatus = lax\n", "status: must be strict or allow-warnings"},
		{"[attributes]\nx-foo = operation\n", "x-foo:"},
	}

	for _, test := range tests {
		conf := DefaultConfiguration()
		err := conf.Load(confWrite(t, test.text))
		if err == nil {
			t.Errorf("%q: error not detected", test.text)
			continue
		}

		if !strings.Contains(err.Error(), test.err) {
			t.Errorf("%q: expected %q, present %q",
				test.text, test.err, err)
		}
	}
}

// Test duration syntax
func TestConfDuration(t *testing.T) {
	tests := []struct {
		value    string
		duration time.Duration
	}{
		{"10", 10 * time.Second},
		{"1m30s", 90 * time.Second},
		{"250ms", 250 * time.Millisecond},
	}

	for _, test := range tests {
		conf := DefaultConfiguration()
		err := conf.Load(confWrite(t, "[server]\ntimeout = "+test.value+"\n"))
		if err != nil {
			t.Errorf("%q: %s", test.value, err)
			continue
		}

		if conf.Timeout != test.duration {
			t.Errorf("%q: expected %s, present %s",
				test.value, test.duration, conf.Timeout)
		}
	}
}
