/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * IPP client
 */

package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os/user"
	"strings"
	"sync/atomic"

	"github.com/OpenPrinting/goipp"
	"github.com/OpenPrinting/ippclient/ipp"
)

// ErrNoObject is returned when response doesn't contain the
// requested object (printer, job...)
var ErrNoObject = errors.New("response contains no requested object")

// Logger is the interface, used by Client and HTTPTransport
// for protocol tracing
type Logger interface {
	// Debug writes a debug message. Prefix is the single-character
	// message direction mark ('>' for requests, '<' for responses,
	// '!' for errors)
	Debug(prefix byte, format string, args ...interface{})

	// Dump writes HEX dump with optional title
	Dump(data []byte, title string, args ...interface{})
}

// Client is the IPP/CUPS client
//
// Client is safe for concurrent use, if its fields and its
// Encoder's Registry are not modified after the first request
type Client struct {
	Transport Transport        // Underlying transport
	Encoder   *ipp.Encoder     // Request encoder
	Status    ipp.StatusPolicy // Response status checking policy
	User      string           // requesting-user-name
	Log       Logger           // Protocol trace, may be nil

	requestID uint32 // Last used request ID
}

// NewClient creates a new Client that uses the specified Transport.
// If username is empty, the name of current OS user is used
func NewClient(tr Transport, username string) *Client {
	if username == "" {
		if u, err := user.Current(); err == nil {
			username = u.Username
		}
	}

	return &Client{
		Transport: tr,
		Encoder:   ipp.NewEncoder(ipp.NewRegistry()),
		User:      username,
	}
}

// Object URIs, as understood by CUPS
const (
	uriPrinters = "ipp://localhost/printers/"
	uriClasses  = "ipp://localhost/classes/"
	uriJobs     = "ipp://localhost/jobs/"
	uriRoot     = "ipp://localhost/"
)

// HTTP paths of requests
const (
	pathRoot  = "/"
	pathAdmin = "/admin/"
	pathJobs  = "/jobs/"
)

// PrinterURI returns printer-uri of the named printer
func PrinterURI(printer string) string {
	return uriPrinters + printer
}

// ClassURI returns printer-uri of the named class
func ClassURI(class string) string {
	return uriClasses + class
}

// JobURI returns job-uri of the job
func JobURI(id int) string {
	return fmt.Sprintf("%s%d", uriJobs, id)
}

// printerPath returns HTTP path of the named printer
func printerPath(printer string) string {
	return "/printers/" + printer
}

// classPath returns HTTP path of the named class
func classPath(class string) string {
	return "/classes/" + class
}

// request represents outgoing request
type request struct {
	path     string          // HTTP path
	op       goipp.Op        // Operation
	opAttrs  *ipp.Attributes // Operation attributes
	jobAttrs *ipp.Attributes // Job attributes, may be nil
	prnAttrs *ipp.Attributes // Printer attributes, may be nil
	document io.Reader       // Document data, streamed after request
	docSize  int64           // Document size, -1 if unknown
	withData bool            // Response carries data after attributes
}

// Send sends IPP request and returns decoded response. Response
// status is checked according to the Client's status policy
func (c *Client) Send(ctx context.Context, path string, op goipp.Op,
	opAttrs, jobAttrs, prnAttrs *ipp.Attributes) (*ipp.Message, error) {

	return c.do(ctx, &request{
		path:     path,
		op:       op,
		opAttrs:  opAttrs,
		jobAttrs: jobAttrs,
		prnAttrs: prnAttrs,
	})
}

// SendRaw sends already encoded IPP request and returns decoded
// response. Response status is checked according to the Client's
// status policy
func (c *Client) SendRaw(ctx context.Context, path string,
	data []byte) (*ipp.Message, error) {

	c.trace('>', data, true)

	rsp, err := c.Transport.RoundTrip(ctx, path, bytes.NewReader(data),
		int64(len(data)))
	if err != nil {
		return nil, err
	}

	return c.response(rsp, false)
}

// nextRequestID returns the next request ID. IDs are in range
// 1...math.MaxInt32 and wrap back to 1
func (c *Client) nextRequestID() int32 {
	id := atomic.AddUint32(&c.requestID, 1)
	return int32((id-1)%math.MaxInt32 + 1)
}

// do performs the request
func (c *Client) do(ctx context.Context, rq *request) (*ipp.Message, error) {
	id := c.nextRequestID()

	data, err := c.Encoder.BuildRequest(rq.op, id, rq.opAttrs,
		rq.jobAttrs, rq.prnAttrs)
	if err != nil {
		return nil, err
	}

	c.trace('>', data, true)

	body := io.Reader(bytes.NewReader(data))
	size := int64(len(data))

	if rq.document != nil {
		body = io.MultiReader(body, rq.document)
		if rq.docSize >= 0 {
			size += rq.docSize
		} else {
			size = -1
		}
	}

	rsp, err := c.Transport.RoundTrip(ctx, rq.path, body, size)
	if err != nil {
		return nil, err
	}

	return c.response(rsp, rq.withData)
}

// response decodes response and checks its status
func (c *Client) response(data []byte, withData bool) (*ipp.Message, error) {
	m, err := ipp.DecodeMessage(data, withData)
	if err != nil {
		if c.Log != nil {
			c.Log.Debug('!', "IPP: %s", err)
			c.Log.Dump(data, "")
		}
		return nil, err
	}

	if withData {
		c.trace('<', data[:len(data)-len(m.Data)], false)
	} else {
		c.trace('<', data, false)
	}

	err = c.Status.Validate(m)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// trace writes IPP message to the protocol trace
func (c *Client) trace(prefix byte, data []byte, request bool) {
	if c.Log == nil {
		return
	}

	var msg goipp.Message
	err := msg.DecodeBytes(data)
	if err != nil {
		c.Log.Debug('!', "IPP: %s", err)
		c.Log.Dump(data, "")
		return
	}

	f := goipp.NewFormatter()
	if request {
		f.FmtRequest(&msg)
	} else {
		f.FmtResponse(&msg)
	}

	for _, line := range strings.Split(strings.TrimRight(f.String(), "\n"), "\n") {
		c.Log.Debug(prefix, "%s", line)
	}
}

// opAttrs creates operation attributes with printer-uri or job-uri
// and requesting-user-name
func (c *Client) opAttrs(uriName, uri string) *ipp.Attributes {
	attrs := &ipp.Attributes{}
	if uriName != "" {
		attrs.Add(uriName, ipp.Scalar(ipp.String(uri)))
	}
	if c.User != "" {
		attrs.Add("requesting-user-name", ipp.Scalar(ipp.String(c.User)))
	}
	return attrs
}

// objectsBy indexes response objects by the value of the key attribute.
// Objects without the key attribute are skipped
func objectsBy(objects []*ipp.Attributes, key string) map[string]*ipp.Attributes {
	out := make(map[string]*ipp.Attributes, len(objects))
	for _, obj := range objects {
		if s, ok := obj.Str(key); ok {
			out[s] = obj
		}
	}
	return out
}
