/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Printer operations
 */

package client

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/OpenPrinting/goipp"
	"github.com/OpenPrinting/ippclient/ipp"
)

// Default requested-attributes lists
var (
	// DefaultPrinterAttributes are requested for printers
	DefaultPrinterAttributes = []string{
		"printer-name", "printer-type", "printer-location",
		"printer-info", "printer-make-and-model", "printer-state",
		"printer-state-message", "printer-state-reasons",
		"printer-uri-supported", "device-uri", "printer-is-shared",
	}

	// DefaultClassAttributes are requested for classes
	DefaultClassAttributes = []string{
		"printer-name", "member-names",
	}
)

// PrintOptions are options of the print job
type PrintOptions struct {
	JobName  string // Job name. Defaults to file name
	Copies   int    // Number of copies, 1 if 0
	Priority int    // Job priority, 50 if 0
	Format   string // document-format, application/octet-stream if ""
	Compress bool   // Compress document with gzip while sending
}

// Document formats
const (
	FormatOctetStream = "application/octet-stream"
	FormatCupsBanner  = "application/vnd.cups-banner"
)

// testPage is the banner that makes CUPS print its test page
const testPage = "#PDF-BANNER\n" +
	"Template default-testpage.pdf\n" +
	"Show printer-name printer-info printer-location " +
	"printer-make-and-model printer-driver-name " +
	"printer-driver-version paper-size imageable-area job-id " +
	"options time-at-creation time-at-processing\n\n"

// GetPrinterAttributes returns attributes of the printer. If attrs
// is empty, DefaultPrinterAttributes are requested
func (c *Client) GetPrinterAttributes(ctx context.Context, printer string,
	attrs ...string) (*ipp.Attributes, error) {

	return c.getPrinterAttributes(ctx, printerPath(printer),
		PrinterURI(printer), attrs)
}

// getPrinterAttributes performs Get-Printer-Attributes request
func (c *Client) getPrinterAttributes(ctx context.Context, path, uri string,
	attrs []string) (*ipp.Attributes, error) {

	if len(attrs) == 0 {
		attrs = DefaultPrinterAttributes
	}

	op := c.opAttrs("printer-uri", uri)
	op.Add("requested-attributes", ipp.Strings(attrs...))

	m, err := c.Send(ctx, path, goipp.OpGetPrinterAttributes, op, nil, nil)
	if err != nil {
		return nil, err
	}

	if len(m.Printers) == 0 {
		return nil, ErrNoObject
	}

	return m.Printers[0], nil
}

// PausePrinter stops the printer
func (c *Client) PausePrinter(ctx context.Context, printer string) error {
	return c.adminPrinter(ctx, goipp.OpPausePrinter, printer)
}

// ResumePrinter restarts the stopped printer
func (c *Client) ResumePrinter(ctx context.Context, printer string) error {
	return c.adminPrinter(ctx, goipp.OpResumePrinter, printer)
}

// adminPrinter sends administrative request, which has only
// printer-uri parameter, to the printer
func (c *Client) adminPrinter(ctx context.Context, op goipp.Op,
	printer string) error {

	attrs := &ipp.Attributes{}
	attrs.Add("printer-uri", ipp.Scalar(ipp.String(PrinterURI(printer))))

	_, err := c.Send(ctx, pathAdmin, op, attrs, nil, nil)
	return err
}

// PrintFile prints the file. It returns ID of the created job
func (c *Client) PrintFile(ctx context.Context, printer, file string,
	opts PrintOptions) (int, error) {

	f, err := os.Open(file)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	stat, err := f.Stat()
	if err != nil {
		return 0, err
	}

	if opts.JobName == "" {
		opts.JobName = filepath.Base(file)
	}

	return c.PrintDocument(ctx, printer, f, stat.Size(), opts)
}

// PrintDocument creates a job and sends document to the printer.
// If size is negative, document size is unknown in advance.
//
// The job is created with Create-Job, then document data is streamed
// after the Send-Document request. It returns ID of the created job
func (c *Client) PrintDocument(ctx context.Context, printer string,
	doc io.Reader, size int64, opts PrintOptions) (int, error) {

	if opts.Copies == 0 {
		opts.Copies = 1
	}
	if opts.Priority == 0 {
		opts.Priority = 50
	}
	if opts.Format == "" {
		opts.Format = FormatOctetStream
	}

	job := &ipp.Attributes{}
	job.Add("copies", ipp.Scalar(ipp.Integer(opts.Copies)))
	job.Add("job-priority", ipp.Scalar(ipp.Integer(opts.Priority)))

	id, err := c.createJob(ctx, printer, opts.JobName, job)
	if err != nil {
		return 0, err
	}

	op := c.opAttrs("printer-uri", PrinterURI(printer))
	op.Add("job-id", ipp.Scalar(ipp.Integer(id)))
	if opts.JobName != "" {
		op.Add("document-name", ipp.Scalar(ipp.String(opts.JobName)))
	}
	op.Add("document-format", ipp.Scalar(ipp.String(opts.Format)))

	rq := &request{
		path:     printerPath(printer),
		op:       goipp.OpSendDocument,
		opAttrs:  op,
		document: doc,
		docSize:  size,
	}

	if opts.Compress {
		op.Add("compression", ipp.Scalar(ipp.String(CompressionGzip)))
		compressed := gzipReader(doc)
		defer compressed.Close()

		rq.document = compressed
		rq.docSize = -1
	}

	op.Add("last-document", ipp.Scalar(ipp.Boolean(true)))

	_, err = c.do(ctx, rq)
	if err != nil {
		return id, err
	}

	return id, nil
}

// PrintTestPage prints the CUPS test page. It returns ID of the
// created job
func (c *Client) PrintTestPage(ctx context.Context, printer string) (int, error) {
	page := strings.NewReader(testPage)
	return c.PrintDocument(ctx, printer, page, page.Size(), PrintOptions{
		JobName: "Test Page",
		Format:  FormatCupsBanner,
	})
}

// createJob performs Create-Job request and returns job-id
func (c *Client) createJob(ctx context.Context, printer, name string,
	job *ipp.Attributes) (int, error) {

	op := c.opAttrs("printer-uri", PrinterURI(printer))
	if name != "" {
		op.Add("job-name", ipp.Scalar(ipp.String(name)))
	}

	m, err := c.Send(ctx, printerPath(printer), goipp.OpCreateJob,
		op, job, nil)
	if err != nil {
		return 0, err
	}

	if len(m.Jobs) == 0 {
		return 0, ErrNoObject
	}

	id, ok := m.Jobs[0].Int("job-id")
	if !ok {
		return 0, errors.New("Create-Job: missed job-id")
	}

	return id, nil
}

// TestConnection tests that server is reachable. If Transport
// implements Pinger, connectivity is tested without a request;
// otherwise Get-Printer-Attributes of the server is requested
func (c *Client) TestConnection(ctx context.Context) error {
	if p, ok := c.Transport.(Pinger); ok {
		return p.Ping(ctx)
	}

	_, err := c.getPrinterAttributes(ctx, pathRoot, uriRoot,
		[]string{"printer-name"})
	if errors.Is(err, ErrNoObject) {
		err = nil
	}

	return err
}
