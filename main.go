/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * The main function
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"github.com/OpenPrinting/ippclient/client"
	"github.com/OpenPrinting/ippclient/ipp"
)

const usageText = `Usage:
    %s [options] command [arguments]

Options are:
    -c file     - load additional configuration file
    -host host  - CUPS server host (default: localhost)
    -port port  - CUPS server port (default: 631)
    -user name  - user name
    -tls        - use HTTPS
    -insecure   - don't verify server certificate
    -debug      - write full protocol trace to console
    -h          - print this help and exit

Commands are:
`

// errHelp returned by parseArgv when help is requested
var errHelp = errors.New("help requested")

// RunParameters represents the program run parameters
type RunParameters struct {
	ConfFile string   // Additional configuration file
	Host     string   // Server host, "" if not set
	Port     int      // Server port, 0 if not set
	User     string   // User name, "" if not set
	TLS      bool     // -tls option
	Insecure bool     // -insecure option
	Debug    bool     // -debug option
	Command  string   // Command name
	Args     []string // Command arguments
}

// usage prints detailed usage and exits
func usage() {
	fmt.Printf(usageText, os.Args[0])
	for _, cmd := range commands {
		fmt.Printf("    %-36s - %s\n", cmd.name+" "+cmd.args, cmd.help)
	}
	os.Exit(0)
}

// usageError prints usage error and exits
func usageError(format string, args ...interface{}) {
	if format != "" {
		fmt.Printf(format+"\n", args...)
	}

	fmt.Printf("Try %s -h for more information\n", os.Args[0])
	os.Exit(1)
}

// parseArgv parses program parameters
func parseArgv(argv []string) (params RunParameters, err error) {
	// Fetch option value
	value := func(i int) (string, error) {
		if i+1 >= len(argv) {
			return "", fmt.Errorf("%w: option %s requires a value",
				ErrUsage, argv[i])
		}
		return argv[i+1], nil
	}

	i := 0
	for ; i < len(argv) && strings.HasPrefix(argv[i], "-"); i++ {
		var val string

		switch argv[i] {
		case "-h", "-help", "--help":
			return params, errHelp

		case "-c", "-host", "-port", "-user":
			val, err = value(i)
			if err != nil {
				return
			}

			switch argv[i] {
			case "-c":
				params.ConfFile = val
			case "-host":
				params.Host = val
			case "-user":
				params.User = val
			case "-port":
				params.Port, err = strconv.Atoi(val)
				if err != nil || params.Port < 1 || params.Port > 65535 {
					return params, fmt.Errorf("%w: invalid port %q",
						ErrUsage, val)
				}
			}
			i++

		case "-tls":
			params.TLS = true
		case "-insecure":
			params.Insecure = true
		case "-debug":
			params.Debug = true

		default:
			return params, fmt.Errorf("%w: invalid option %s",
				ErrUsage, argv[i])
		}
	}

	if i == len(argv) {
		return params, fmt.Errorf("%w: missed command", ErrUsage)
	}

	params.Command = argv[i]
	params.Args = argv[i+1:]

	return params, nil
}

// apply applies command-line overrides to the configuration
func (params RunParameters) apply(conf *Configuration) {
	if params.Host != "" {
		conf.Host = params.Host
	}

	if params.Port != 0 {
		conf.Port = params.Port
	}

	if params.User != "" {
		conf.User = params.User
	}

	if params.TLS {
		conf.TLS = true
	}

	if params.Insecure {
		conf.Verify = false
	}
}

// newClient creates client.Client for the configuration
func newClient(conf *Configuration) *client.Client {
	tr := client.NewHTTPTransport(conf.TransportOptions())
	c := client.NewClient(tr, conf.User)

	c.Encoder = ipp.NewEncoder(conf.Registry())
	c.Encoder.Unresolved = conf.Unresolved
	c.Status = conf.Status

	levels := Log.Levels()
	if levels&LogTraceHTTP != 0 {
		tr.Log = Log.Tracer(LogTraceHTTP)
	}
	if levels&LogTraceIPP != 0 {
		c.Log = Log.Tracer(LogTraceIPP)
	}

	return c
}

// The main function
func main() {
	// Parse arguments
	params, err := parseArgv(os.Args[1:])
	switch {
	case err == errHelp:
		usage()
	case err != nil:
		usageError("%s", err)
	}

	cmd := findCommand(params.Command)
	if cmd == nil {
		usageError("Invalid command %s", params.Command)
	}

	// Load configuration
	conf, err := ConfLoad()
	if err == nil && params.ConfFile != "" {
		err = conf.Load(params.ConfFile)
	}

	if err != nil {
		Log.Error("%s", err)
		os.Exit(1)
	}

	params.apply(conf)
	LogSetup(conf, params.Debug)
	defer Log.Close()

	// Run the command
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	env := &cmdEnv{
		ctx:    ctx,
		client: newClient(conf),
		out:    os.Stdout,
	}

	err = cmd.run(env, params.Args)
	if err != nil {
		Log.Error("%s", err)
		if errors.Is(err, ErrUsage) {
			usageError("")
		}

		cancel()
		Log.Close()
		os.Exit(1)
	}
}
