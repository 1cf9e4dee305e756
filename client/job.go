/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Job operations
 */

package client

import (
	"context"

	"github.com/OpenPrinting/goipp"
	"github.com/OpenPrinting/ippclient/ipp"
)

// DefaultJobAttributes are requested for jobs
var DefaultJobAttributes = []string{
	"job-id", "job-name", "printer-uri", "job-state", "job-state-reasons",
	"job-hold-until", "job-media-progress", "job-k-octets",
	"number-of-documents", "copies", "job-originating-user-name",
}

// Values of the which-jobs attribute
const (
	WhichJobsNotCompleted = "not-completed"
	WhichJobsCompleted    = "completed"
	WhichJobsAll          = "all"
)

// Values of the job-hold-until attribute
const (
	HoldIndefinite = "indefinite"
	HoldNoHold     = "no-hold"
)

// JobsOptions are options of GetJobs
type JobsOptions struct {
	WhichJobs  string   // which-jobs, WhichJobsNotCompleted if ""
	MyJobs     bool     // Only jobs of the requesting user
	Attributes []string // Requested attributes, defaults if empty
}

// GetJobs returns jobs of the printer, indexed by job-id. If printer
// is empty, jobs of all printers are returned
func (c *Client) GetJobs(ctx context.Context, printer string,
	opts JobsOptions) (map[int]*ipp.Attributes, error) {

	uri := uriRoot
	if printer != "" {
		uri = PrinterURI(printer)
	}

	which := opts.WhichJobs
	if which == "" {
		which = WhichJobsNotCompleted
	}

	attrs := DefaultJobAttributes
	if len(opts.Attributes) != 0 {
		attrs = append(append([]string(nil), opts.Attributes...), "job-id")
	}

	op := c.opAttrs("printer-uri", uri)
	op.Add("which-jobs", ipp.Scalar(ipp.String(which)))
	op.Add("my-jobs", ipp.Scalar(ipp.Boolean(opts.MyJobs)))
	op.Add("requested-attributes", ipp.Strings(attrs...))

	m, err := c.Send(ctx, pathRoot, goipp.OpGetJobs, op, nil, nil)
	if err != nil {
		return nil, err
	}

	jobs := make(map[int]*ipp.Attributes, len(m.Jobs))
	for _, job := range m.Jobs {
		if id, ok := job.Int("job-id"); ok {
			jobs[id] = job
		}
	}

	return jobs, nil
}

// GetJobAttributes returns attributes of the job. If attrs is empty,
// DefaultJobAttributes are requested
func (c *Client) GetJobAttributes(ctx context.Context, id int,
	attrs ...string) (*ipp.Attributes, error) {

	if len(attrs) == 0 {
		attrs = DefaultJobAttributes
	}

	op := c.opAttrs("job-uri", JobURI(id))
	op.Add("requested-attributes", ipp.Strings(attrs...))

	m, err := c.Send(ctx, pathRoot, goipp.OpGetJobAttributes, op, nil, nil)
	if err != nil {
		return nil, err
	}

	if len(m.Jobs) == 0 {
		return nil, ErrNoObject
	}

	return m.Jobs[0], nil
}

// CancelJob cancels the job
func (c *Client) CancelJob(ctx context.Context, id int) error {
	op := c.opAttrs("job-uri", JobURI(id))
	_, err := c.Send(ctx, pathJobs, goipp.OpCancelJob, op, nil, nil)
	return err
}

// CancelAllJobs cancels and purges all jobs of the printer
func (c *Client) CancelAllJobs(ctx context.Context, printer string) error {
	op := c.opAttrs("printer-uri", PrinterURI(printer))
	op.Add("purge-jobs", ipp.Scalar(ipp.Boolean(true)))
	_, err := c.Send(ctx, pathAdmin, goipp.OpPurgeJobs, op, nil, nil)
	return err
}

// RestartJob restarts the job
func (c *Client) RestartJob(ctx context.Context, id int) error {
	op := c.opAttrs("job-uri", JobURI(id))
	_, err := c.Send(ctx, pathJobs, goipp.OpRestartJob, op, nil, nil)
	return err
}

// SetJobHoldUntil restarts the job with the new job-hold-until
// value (i.e., HoldIndefinite or HoldNoHold)
func (c *Client) SetJobHoldUntil(ctx context.Context, id int,
	holdUntil string) error {

	op := c.opAttrs("job-uri", JobURI(id))
	job := &ipp.Attributes{}
	job.Add("job-hold-until", ipp.Scalar(ipp.String(holdUntil)))

	_, err := c.Send(ctx, pathJobs, goipp.OpRestartJob, op, job, nil)
	return err
}
