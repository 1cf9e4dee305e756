/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Command line parsing tests
 */

package main

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

// Test parseArgv
func TestParseArgv(t *testing.T) {
	type testData struct {
		argv   string        // Command line
		params RunParameters // Expected parameters
		err    string        // Expected error, "" if none
	}

	tests := []testData{
		{
			argv:   "printers",
			params: RunParameters{Command: "printers", Args: []string{}},
		},
		{
			argv: "-host cups.local -port 8631 -user bob -tls -debug attrs office copies-default",
			params: RunParameters{
				Host:    "cups.local",
				Port:    8631,
				User:    "bob",
				TLS:     true,
				Debug:   true,
				Command: "attrs",
				Args:    []string{"office", "copies-default"},
			},
		},
		{
			argv: "-c my.conf -insecure cancel -5",
			params: RunParameters{
				ConfFile: "my.conf",
				Insecure: true,
				Command:  "cancel",
				Args:     []string{"-5"},
			},
		},
		{argv: "", err: "missed command"},
		{argv: "-port", err: "option -port requires a value"},
		{argv: "-port 70000 printers", err: `invalid port "70000"`},
		{argv: "-color printers", err: "invalid option -color"},
	}

	for _, test := range tests {
		params, err := parseArgv(strings.Fields(test.argv))

		if test.err != "" {
			if err == nil || !errors.Is(err, ErrUsage) ||
				!strings.Contains(err.Error(), test.err) {
				t.Errorf("%q: expected error %q, present %v",
					test.argv, test.err, err)
			}
			continue
		}

		if err != nil {
			t.Errorf("%q: %s", test.argv, err)
			continue
		}

		if !reflect.DeepEqual(params, test.params) {
			t.Errorf("%q:\nexpected: %+v\npresent:  %+v",
				test.argv, test.params, params)
		}
	}

	if _, err := parseArgv([]string{"-h"}); err != errHelp {
		t.Errorf("-h: expected errHelp, present %v", err)
	}
}

// Test that command-line overrides the configuration
func TestRunParametersApply(t *testing.T) {
	conf := DefaultConfiguration()
	params := RunParameters{Host: "remote", Port: 443, TLS: true, Insecure: true}
	params.apply(conf)

	if conf.Host != "remote" || conf.Port != 443 || !conf.TLS || conf.Verify {
		t.Errorf("%+v", conf)
	}

	if conf.User != "" {
		t.Errorf("user changed: %q", conf.User)
	}
}

// Test that every command can be found and has a help line
func TestCommandsTable(t *testing.T) {
	seen := make(map[string]bool)
	for _, cmd := range commands {
		if seen[cmd.name] {
			t.Errorf("%s: duplicated command", cmd.name)
		}
		seen[cmd.name] = true

		if findCommand(cmd.name) != cmd || cmd.help == "" {
			t.Errorf("%s: broken table entry", cmd.name)
		}

		if cmd.max >= 0 && cmd.max < cmd.min {
			t.Errorf("%s: max < min", cmd.name)
		}
	}

	if findCommand("fly") != nil {
		t.Errorf("unknown command found")
	}
}
