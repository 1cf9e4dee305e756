/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * CUPS-specific operations
 */

package client

import (
	"context"
	"errors"
	"strings"

	"github.com/OpenPrinting/goipp"
	"github.com/OpenPrinting/ippclient/ipp"
)

// Document is the document, returned by GetDocument
type Document struct {
	Name        string // document-name
	Format      string // document-format
	Compression string // compression, "" if not specified
	Data        []byte // Document data
}

// PrinterOptions are options of the printer, created by CreatePrinter
type PrinterOptions struct {
	DeviceURI   string // device-uri, "file:///dev/null" if ""
	PPD         string // ppd-name, "raw" if ""
	Shared      bool   // printer-is-shared
	ErrorPolicy string // printer-error-policy, "stop-printer" if ""
	Info        string // printer-info
	Location    string // printer-location
}

// GetDevices returns available devices, indexed by device-uri
func (c *Client) GetDevices(ctx context.Context) (map[string]*ipp.Attributes, error) {
	m, err := c.Send(ctx, pathRoot, goipp.OpCupsGetDevices, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	return objectsBy(m.Printers, "device-uri"), nil
}

// GetPPDs returns available PPD files, indexed by ppd-name
func (c *Client) GetPPDs(ctx context.Context) (map[string]*ipp.Attributes, error) {
	m, err := c.Send(ctx, pathRoot, goipp.OpCupsGetPpds, nil, nil, nil)
	if err != nil {
		return nil, err
	}

	return objectsBy(m.Printers, "ppd-name"), nil
}

// GetDocument returns document of the job. Documents are numbered
// from 1. Document data is returned as received; use Decompress
// if Document.Compression is set
func (c *Client) GetDocument(ctx context.Context, printer string,
	job, document int) (*Document, error) {

	op := c.opAttrs("printer-uri", PrinterURI(printer))
	op.Add("job-id", ipp.Scalar(ipp.Integer(job)))
	op.Add("document-number", ipp.Scalar(ipp.Integer(document)))

	m, err := c.do(ctx, &request{
		path:     pathRoot,
		op:       goipp.OpCupsGetDocument,
		opAttrs:  op,
		withData: true,
	})
	if err != nil {
		return nil, err
	}

	doc := &Document{Data: m.Data}
	doc.Name, _ = m.Operation.Str("document-name")
	doc.Format, _ = m.Operation.Str("document-format")
	doc.Compression, _ = m.Operation.Str("compression")

	return doc, nil
}

// MoveJob moves the job to another printer
func (c *Client) MoveJob(ctx context.Context, id int, dest string) error {
	return c.moveJobs(ctx, c.opAttrs("job-uri", JobURI(id)), dest)
}

// MoveAllJobs moves all jobs of the source printer to the
// destination printer
func (c *Client) MoveAllJobs(ctx context.Context, src, dest string) error {
	return c.moveJobs(ctx, c.opAttrs("printer-uri", PrinterURI(src)), dest)
}

// moveJobs performs CUPS-Move-Job request
func (c *Client) moveJobs(ctx context.Context, op *ipp.Attributes,
	dest string) error {

	job := &ipp.Attributes{}
	job.Add("job-printer-uri", ipp.Scalar(ipp.String(PrinterURI(dest))))

	_, err := c.Send(ctx, pathJobs, goipp.OpCupsMoveJob, op, job, nil)
	return err
}

// AcceptJobs makes printer to accept new jobs
func (c *Client) AcceptJobs(ctx context.Context, printer string) error {
	return c.adminPrinter(ctx, goipp.OpCupsAcceptJobs, printer)
}

// RejectJobs makes printer to reject new jobs
func (c *Client) RejectJobs(ctx context.Context, printer string) error {
	return c.adminPrinter(ctx, goipp.OpCupsRejectJobs, printer)
}

// ClassMembers returns member-uris of the class
func (c *Client) ClassMembers(ctx context.Context, class string) ([]string, error) {
	attrs, err := c.getPrinterAttributes(ctx, classPath(class),
		ClassURI(class), []string{"member-uris"})
	if err != nil {
		return nil, err
	}

	return attrs.Strings("member-uris"), nil
}

// AddPrinterToClass adds printer to the class. If class doesn't
// exist, it is created
func (c *Client) AddPrinterToClass(ctx context.Context, class,
	printer string) error {

	members, err := c.ClassMembers(ctx, class)
	var stErr *ipp.StatusError
	switch {
	case errors.As(err, &stErr):
		// Class doesn't exist yet
	case err != nil:
		return err
	}

	if isClassMember(members, printer) {
		return nil
	}

	members = append(members, PrinterURI(printer))
	return c.modifyClass(ctx, class, members)
}

// DeletePrinterFromClass removes printer from the class. If printer
// is the last member, the class is deleted. Missed class or printer
// which is not a member are not errors
func (c *Client) DeletePrinterFromClass(ctx context.Context, class,
	printer string) error {

	members, err := c.ClassMembers(ctx, class)
	var stErr *ipp.StatusError
	switch {
	case errors.As(err, &stErr):
		return nil
	case err != nil:
		return err
	}

	if !isClassMember(members, printer) {
		return nil
	}

	var rest []string
	for _, m := range members {
		if !isClassMember([]string{m}, printer) {
			rest = append(rest, m)
		}
	}

	if len(rest) == 0 {
		return c.DeleteClass(ctx, class)
	}

	return c.modifyClass(ctx, class, rest)
}

// DeleteClass deletes the class
func (c *Client) DeleteClass(ctx context.Context, class string) error {
	op := &ipp.Attributes{}
	op.Add("printer-uri", ipp.Scalar(ipp.String(ClassURI(class))))

	_, err := c.Send(ctx, pathAdmin, goipp.OpCupsDeleteClass, op, nil, nil)
	return err
}

// modifyClass performs CUPS-Add-Modify-Class request
func (c *Client) modifyClass(ctx context.Context, class string,
	members []string) error {

	op := &ipp.Attributes{}
	op.Add("printer-uri", ipp.Scalar(ipp.String(ClassURI(class))))

	prn := &ipp.Attributes{}
	prn.Add("member-uris", ipp.Strings(members...))

	_, err := c.Send(ctx, pathAdmin, goipp.OpCupsAddModifyClass,
		op, nil, prn)
	return err
}

// isClassMember tells if printer is found in member-uris. CUPS returns
// member URIs with actual host name, so only the path is compared
func isClassMember(members []string, printer string) bool {
	suffix := "/printers/" + printer
	for _, m := range members {
		if strings.HasSuffix(m, suffix) {
			return true
		}
	}
	return false
}

// CreatePrinter creates a new printer, or modifies the existing one
func (c *Client) CreatePrinter(ctx context.Context, name string,
	opts PrinterOptions) error {

	if opts.DeviceURI == "" {
		opts.DeviceURI = "file:///dev/null"
	}
	if opts.PPD == "" {
		opts.PPD = "raw"
	}
	if opts.ErrorPolicy == "" {
		opts.ErrorPolicy = "stop-printer"
	}

	op := &ipp.Attributes{}
	op.Add("ppd-name", ipp.Scalar(ipp.String(opts.PPD)))

	prn := &ipp.Attributes{}
	prn.AddTag("printer-state-reasons", goipp.TagKeyword,
		ipp.Scalar(ipp.String("none")))
	prn.Add("device-uri", ipp.Scalar(ipp.String(opts.DeviceURI)))
	prn.Add("printer-is-shared", ipp.Scalar(ipp.Boolean(opts.Shared)))
	prn.Add("printer-error-policy", ipp.Scalar(ipp.String(opts.ErrorPolicy)))
	prn.Add("printer-info", ipp.Scalar(ipp.String(opts.Info)))
	prn.Add("printer-location", ipp.Scalar(ipp.String(opts.Location)))

	return c.modifyPrinter(ctx, name, op, prn)
}

// SetPrinterPPD sets PPD of the printer
func (c *Client) SetPrinterPPD(ctx context.Context, printer,
	ppd string) error {

	op := &ipp.Attributes{}
	op.Add("ppd-name", ipp.Scalar(ipp.String(ppd)))
	return c.modifyPrinter(ctx, printer, op, nil)
}

// SetPrinterDeviceURI sets device-uri of the printer
func (c *Client) SetPrinterDeviceURI(ctx context.Context, printer,
	uri string) error {

	return c.setPrinterAttr(ctx, printer, "device-uri", ipp.String(uri))
}

// SetPrinterShared sets printer-is-shared of the printer
func (c *Client) SetPrinterShared(ctx context.Context, printer string,
	shared bool) error {

	return c.setPrinterAttr(ctx, printer, "printer-is-shared",
		ipp.Boolean(shared))
}

// SetPrinterErrorPolicy sets printer-error-policy of the printer
func (c *Client) SetPrinterErrorPolicy(ctx context.Context, printer,
	policy string) error {

	return c.setPrinterAttr(ctx, printer, "printer-error-policy",
		ipp.String(policy))
}

// SetPrinterInformation sets printer-info of the printer
func (c *Client) SetPrinterInformation(ctx context.Context, printer,
	info string) error {

	return c.setPrinterAttr(ctx, printer, "printer-info", ipp.String(info))
}

// SetPrinterLocation sets printer-location of the printer
func (c *Client) SetPrinterLocation(ctx context.Context, printer,
	location string) error {

	return c.setPrinterAttr(ctx, printer, "printer-location",
		ipp.String(location))
}

// DeletePrinter deletes the printer
func (c *Client) DeletePrinter(ctx context.Context, printer string) error {
	return c.adminPrinter(ctx, goipp.OpCupsDeletePrinter, printer)
}

// setPrinterAttr modifies a single attribute of the printer
func (c *Client) setPrinterAttr(ctx context.Context, printer, name string,
	v ipp.Value) error {

	prn := &ipp.Attributes{}
	prn.Add(name, ipp.Scalar(v))
	return c.modifyPrinter(ctx, printer, nil, prn)
}

// modifyPrinter performs CUPS-Add-Modify-Printer request
func (c *Client) modifyPrinter(ctx context.Context, printer string,
	op, prn *ipp.Attributes) error {

	attrs := &ipp.Attributes{}
	attrs.Add("printer-uri", ipp.Scalar(ipp.String(PrinterURI(printer))))
	for _, attr := range op.All() {
		attrs.AddTag(attr.Name, attr.Tag, attr.Value)
	}

	_, err := c.Send(ctx, pathAdmin, goipp.OpCupsAddModifyPrinter,
		attrs, nil, prn)
	return err
}

// GetPrinters returns all printers, indexed by printer-name. If attrs
// is empty, DefaultPrinterAttributes are requested
func (c *Client) GetPrinters(ctx context.Context,
	attrs ...string) (map[string]*ipp.Attributes, error) {

	return c.getDestinations(ctx, goipp.OpCupsGetPrinters,
		DefaultPrinterAttributes, attrs)
}

// GetClasses returns all classes, indexed by printer-name. If attrs
// is empty, DefaultClassAttributes are requested
func (c *Client) GetClasses(ctx context.Context,
	attrs ...string) (map[string]*ipp.Attributes, error) {

	return c.getDestinations(ctx, goipp.OpCupsGetClasses,
		DefaultClassAttributes, attrs)
}

// getDestinations performs CUPS-Get-Printers and CUPS-Get-Classes
// requests
func (c *Client) getDestinations(ctx context.Context, op goipp.Op,
	defaults, attrs []string) (map[string]*ipp.Attributes, error) {

	if len(attrs) == 0 {
		attrs = defaults
	} else {
		attrs = append(append([]string(nil), attrs...), "printer-name")
	}

	opAttrs := c.opAttrs("", "")
	opAttrs.Add("requested-attributes", ipp.Strings(attrs...))

	m, err := c.Send(ctx, pathRoot, op, opAttrs, nil, nil)
	if err != nil {
		return nil, err
	}

	return objectsBy(m.Printers, "printer-name"), nil
}
