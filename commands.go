/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Command-line commands
 */

package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"

	"github.com/OpenPrinting/ippclient/client"
)

// cmdEnv is the environment, in which command runs
type cmdEnv struct {
	ctx    context.Context // Cancelled on interrupt
	client *client.Client  // IPP client
	out    io.Writer       // Command output

	// newSysdep creates DNS-SD backend; newDnssdSysdep if nil
	newSysdep func() (dnssdSysdep, error)
}

// command describes a single command
type command struct {
	name     string                                 // Command name
	args     string                                 // Arguments, for usage
	help     string                                 // One-line description
	min, max int                                    // Arguments count, max -1 if unlimited
	handler  func(env *cmdEnv, args []string) error // Command handler
}

// commands lists all known commands
var commands = []*command{
	{"printers", "", "list printers", 0, 0, cmdPrinters},
	{"classes", "", "list classes", 0, 0, cmdClasses},
	{"attrs", "printer [attr...]", "print printer attributes", 1, -1, cmdAttrs},
	{"jobs", "[printer] [all|completed]", "list jobs", 0, 2, cmdJobs},
	{"job", "id", "print job attributes", 1, 1, cmdJob},
	{"print", "printer file [format]", "print the file", 2, 3, cmdPrint},
	{"testpage", "printer", "print the test page", 1, 1, cmdTestPage},
	{"cancel", "id", "cancel the job", 1, 1, cmdCancel},
	{"cancel-all", "printer", "cancel all jobs of the printer", 1, 1, cmdCancelAll},
	{"restart", "id", "restart the job", 1, 1, cmdRestart},
	{"hold", "id [until]", "hold the job", 1, 2, cmdHold},
	{"release", "id", "release the held job", 1, 1, cmdRelease},
	{"move", "id|printer dest", "move job or all jobs of printer", 2, 2, cmdMove},
	{"pause", "printer", "pause the printer", 1, 1, cmdPause},
	{"resume", "printer", "resume the printer", 1, 1, cmdResume},
	{"accept", "printer", "accept jobs", 1, 1, cmdAccept},
	{"reject", "printer", "reject jobs", 1, 1, cmdReject},
	{"add-printer", "name [device-uri] [ppd]", "create the printer", 1, 3, cmdAddPrinter},
	{"delete-printer", "name", "delete the printer", 1, 1, cmdDeletePrinter},
	{"set-location", "printer location", "set printer location", 2, 2, cmdSetLocation},
	{"set-info", "printer info", "set printer description", 2, 2, cmdSetInfo},
	{"share", "printer yes|no", "share or unshare the printer", 2, 2, cmdShare},
	{"add-to-class", "class printer", "add printer to class", 2, 2, cmdAddToClass},
	{"remove-from-class", "class printer", "remove printer from class", 2, 2, cmdRemoveFromClass},
	{"delete-class", "class", "delete the class", 1, 1, cmdDeleteClass},
	{"devices", "", "list available devices", 0, 0, cmdDevices},
	{"ppds", "", "list available PPD files", 0, 0, cmdPPDs},
	{"get-document", "printer job doc file", "save job document to file", 4, 4, cmdGetDocument},
	{"control", "job [spool-dir]", "print job control file", 1, 2, cmdControl},
	{"discover", "", "discover network printers", 0, 0, cmdDiscover},
	{"check", "", "check connection to server", 0, 0, cmdCheck},
}

// findCommand returns command by name, nil if not found
func findCommand(name string) *command {
	for _, cmd := range commands {
		if cmd.name == name {
			return cmd
		}
	}
	return nil
}

// run checks arguments and runs the command
func (cmd *command) run(env *cmdEnv, args []string) error {
	if len(args) < cmd.min || (cmd.max >= 0 && len(args) > cmd.max) {
		return fmt.Errorf("%w: %s %s", ErrUsage, cmd.name, cmd.args)
	}

	return cmd.handler(env, args)
}

// Parse job ID argument
func parseJobID(s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid job id %q", ErrUsage, s)
	}
	return id, nil
}

// Print the job ID of the new job
func printJobID(env *cmdEnv, id int, err error) error {
	if err == nil {
		fmt.Fprintf(env.out, "job-id %d\n", id)
	}
	return err
}

func cmdPrinters(env *cmdEnv, args []string) error {
	printers, err := env.client.GetPrinters(env.ctx)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(printers))
	for name := range printers {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		NewPrinterSummary(printers[name]).Write(env.out)
	}

	return nil
}

func cmdClasses(env *cmdEnv, args []string) error {
	classes, err := env.client.GetClasses(env.ctx, "member-names")
	if err != nil {
		return err
	}

	names := make([]string, 0, len(classes))
	for name := range classes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Fprintf(env.out, "%-20s %v\n", name,
			classes[name].Strings("member-names"))
	}

	return nil
}

func cmdAttrs(env *cmdEnv, args []string) error {
	attrs, err := env.client.GetPrinterAttributes(env.ctx, args[0], args[1:]...)
	if err == nil {
		WriteAttrs(env.out, attrs)
	}
	return err
}

func cmdJobs(env *cmdEnv, args []string) error {
	var printer string
	var opts client.JobsOptions

	for _, arg := range args {
		switch arg {
		case client.WhichJobsAll, client.WhichJobsCompleted:
			opts.WhichJobs = arg
		default:
			printer = arg
		}
	}

	jobs, err := env.client.GetJobs(env.ctx, printer, opts)
	if err != nil {
		return err
	}

	ids := make([]int, 0, len(jobs))
	for id := range jobs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		NewJobSummary(id, jobs[id]).Write(env.out)
	}

	return nil
}

func cmdJob(env *cmdEnv, args []string) error {
	id, err := parseJobID(args[0])
	if err != nil {
		return err
	}

	attrs, err := env.client.GetJobAttributes(env.ctx, id)
	if err == nil {
		WriteAttrs(env.out, attrs)
	}
	return err
}

func cmdPrint(env *cmdEnv, args []string) error {
	var opts client.PrintOptions
	if len(args) > 2 {
		opts.Format = args[2]
	}

	id, err := env.client.PrintFile(env.ctx, args[0], args[1], opts)
	return printJobID(env, id, err)
}

func cmdTestPage(env *cmdEnv, args []string) error {
	id, err := env.client.PrintTestPage(env.ctx, args[0])
	return printJobID(env, id, err)
}

func cmdCancel(env *cmdEnv, args []string) error {
	id, err := parseJobID(args[0])
	if err == nil {
		err = env.client.CancelJob(env.ctx, id)
	}
	return err
}

func cmdCancelAll(env *cmdEnv, args []string) error {
	return env.client.CancelAllJobs(env.ctx, args[0])
}

func cmdRestart(env *cmdEnv, args []string) error {
	id, err := parseJobID(args[0])
	if err == nil {
		err = env.client.RestartJob(env.ctx, id)
	}
	return err
}

func cmdHold(env *cmdEnv, args []string) error {
	until := client.HoldIndefinite
	if len(args) > 1 {
		until = args[1]
	}

	id, err := parseJobID(args[0])
	if err == nil {
		err = env.client.SetJobHoldUntil(env.ctx, id, until)
	}
	return err
}

func cmdRelease(env *cmdEnv, args []string) error {
	id, err := parseJobID(args[0])
	if err == nil {
		err = env.client.SetJobHoldUntil(env.ctx, id, client.HoldNoHold)
	}
	return err
}

func cmdMove(env *cmdEnv, args []string) error {
	if id, err := strconv.Atoi(args[0]); err == nil {
		return env.client.MoveJob(env.ctx, id, args[1])
	}
	return env.client.MoveAllJobs(env.ctx, args[0], args[1])
}

func cmdPause(env *cmdEnv, args []string) error {
	return env.client.PausePrinter(env.ctx, args[0])
}

func cmdResume(env *cmdEnv, args []string) error {
	return env.client.ResumePrinter(env.ctx, args[0])
}

func cmdAccept(env *cmdEnv, args []string) error {
	return env.client.AcceptJobs(env.ctx, args[0])
}

func cmdReject(env *cmdEnv, args []string) error {
	return env.client.RejectJobs(env.ctx, args[0])
}

func cmdAddPrinter(env *cmdEnv, args []string) error {
	var opts client.PrinterOptions
	if len(args) > 1 {
		opts.DeviceURI = args[1]
	}
	if len(args) > 2 {
		opts.PPD = args[2]
	}

	return env.client.CreatePrinter(env.ctx, args[0], opts)
}

func cmdDeletePrinter(env *cmdEnv, args []string) error {
	return env.client.DeletePrinter(env.ctx, args[0])
}

func cmdSetLocation(env *cmdEnv, args []string) error {
	return env.client.SetPrinterLocation(env.ctx, args[0], args[1])
}

func cmdSetInfo(env *cmdEnv, args []string) error {
	return env.client.SetPrinterInformation(env.ctx, args[0], args[1])
}

func cmdShare(env *cmdEnv, args []string) error {
	switch args[1] {
	case "yes":
		return env.client.SetPrinterShared(env.ctx, args[0], true)
	case "no":
		return env.client.SetPrinterShared(env.ctx, args[0], false)
	}

	return fmt.Errorf("%w: share: must be yes or no", ErrUsage)
}

func cmdAddToClass(env *cmdEnv, args []string) error {
	return env.client.AddPrinterToClass(env.ctx, args[0], args[1])
}

func cmdRemoveFromClass(env *cmdEnv, args []string) error {
	return env.client.DeletePrinterFromClass(env.ctx, args[0], args[1])
}

func cmdDeleteClass(env *cmdEnv, args []string) error {
	return env.client.DeleteClass(env.ctx, args[0])
}

func cmdDevices(env *cmdEnv, args []string) error {
	devices, err := env.client.GetDevices(env.ctx)
	if err == nil {
		WriteObjects(env.out, devices)
	}
	return err
}

func cmdPPDs(env *cmdEnv, args []string) error {
	ppds, err := env.client.GetPPDs(env.ctx)
	if err == nil {
		WriteObjects(env.out, ppds)
	}
	return err
}

func cmdGetDocument(env *cmdEnv, args []string) error {
	job, err := parseJobID(args[1])
	if err != nil {
		return err
	}

	num, err := strconv.Atoi(args[2])
	if err != nil || num <= 0 {
		return fmt.Errorf("%w: invalid document number %q", ErrUsage, args[2])
	}

	doc, err := env.client.GetDocument(env.ctx, args[0], job, num)
	if err != nil {
		return err
	}

	r, err := client.Decompress(bytes.NewReader(doc.Data), doc.Compression)
	if err != nil {
		return err
	}
	defer r.Close()

	file, err := os.OpenFile(args[3], os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	_, err = io.Copy(file, r)
	err2 := file.Close()
	if err == nil {
		err = err2
	}

	if err == nil {
		fmt.Fprintf(env.out, "%s: %s %q\n", args[3], doc.Format, doc.Name)
	}

	return err
}

func cmdControl(env *cmdEnv, args []string) error {
	job, err := parseJobID(args[0])
	if err != nil {
		return err
	}

	dir := client.DefaultSpoolDir
	if len(args) > 1 {
		dir = args[1]
	}

	m, err := client.ReadControlFile(job, dir)
	if err != nil {
		return err
	}

	if len(m.Jobs) == 0 {
		return fmt.Errorf("%s: %w", client.ControlFilePath(dir, job), ErrNoSuchJob)
	}

	for _, attrs := range m.Jobs {
		WriteAttrs(env.out, attrs)
	}

	return nil
}

func cmdDiscover(env *cmdEnv, args []string) error {
	newSysdep := env.newSysdep
	if newSysdep == nil {
		newSysdep = newDnssdSysdep
	}

	sysdep, err := newSysdep()
	if err != nil {
		return err
	}
	defer sysdep.Close()

	printers, err := DnsSdDiscover(env.ctx, sysdep)
	if err != nil {
		return err
	}

	for _, p := range printers {
		p.Summary().Write(env.out)
		fmt.Fprintf(env.out, "    %s\n", p.URI())
	}

	return nil
}

func cmdCheck(env *cmdEnv, args []string) error {
	err := env.client.TestConnection(env.ctx)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrConnectionFail, err)
	}

	fmt.Fprintf(env.out, "OK\n")
	return nil
}
