/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * HTTP transport
 */

package client

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/OpenPrinting/goipp"
)

// Transport carries encoded IPP requests to the server
type Transport interface {
	// RoundTrip sends request body to the specified HTTP path and
	// returns response body. If size is negative, body length is
	// unknown in advance
	RoundTrip(ctx context.Context, path string, body io.Reader,
		size int64) ([]byte, error)
}

// Pinger is implemented by transports that can test connectivity
// without sending a request
type Pinger interface {
	Ping(ctx context.Context) error
}

// TransportError is returned when HTTP response status is not 200 OK
type TransportError struct {
	StatusCode int    // HTTP status code
	Status     string // HTTP status line
}

// Error returns error string
func (e *TransportError) Error() string {
	return fmt.Sprintf("HTTP: %s", e.Status)
}

// TransportOptions configure HTTPTransport
type TransportOptions struct {
	Host     string        // Server host
	Port     int           // Server port, 631 if 0
	TLS      bool          // Use HTTPS
	Insecure bool          // Don't verify server certificate
	User     string        // Basic authentication user name
	Password string        // Basic authentication password
	Timeout  time.Duration // Request timeout, 0 for none

	// Requests with body of at least this size (or of unknown size)
	// are sent with "Expect: 100-continue". 0 means default (64K),
	// negative value disables
	ExpectContinueSize int64
}

// DefaultPort is the default IPP port
const DefaultPort = 631

// defaultExpectContinueSize is the default value of
// TransportOptions.ExpectContinueSize
const defaultExpectContinueSize = 64 * 1024

// HTTPTransport is the Transport that sends requests via HTTP POST
type HTTPTransport struct {
	Log Logger // HTTP trace, may be nil

	opts    TransportOptions // Transport options
	base    string           // Base URL (scheme://host:port)
	addr    string           // host:port
	client  *http.Client     // Underlying http.Client
	session int32            // Session counter, for logging
}

// NewHTTPTransport creates a new HTTPTransport
func NewHTTPTransport(opts TransportOptions) *HTTPTransport {
	if opts.Port == 0 {
		opts.Port = DefaultPort
	}

	if opts.ExpectContinueSize == 0 {
		opts.ExpectContinueSize = defaultExpectContinueSize
	}

	tr := &HTTPTransport{
		opts: opts,
		addr: net.JoinHostPort(opts.Host, strconv.Itoa(opts.Port)),
	}

	scheme := "http"
	if opts.TLS {
		scheme = "https"
	}
	tr.base = scheme + "://" + tr.addr

	tr.client = &http.Client{
		Timeout: opts.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: opts.Insecure,
			},
			ExpectContinueTimeout: time.Second,
			IdleConnTimeout:       30 * time.Second,
		},
	}

	return tr
}

// RoundTrip sends the request
func (tr *HTTPTransport) RoundTrip(ctx context.Context, path string,
	body io.Reader, size int64) ([]byte, error) {

	session := atomic.AddInt32(&tr.session, 1)

	rq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		tr.base+path, body)
	if err != nil {
		return nil, err
	}

	rq.ContentLength = size
	rq.Header.Set("Content-Type", goipp.ContentType)

	if tr.opts.User != "" && tr.opts.Password != "" {
		rq.SetBasicAuth(tr.opts.User, tr.opts.Password)
	}

	if n := tr.opts.ExpectContinueSize; n > 0 && (size < 0 || size >= n) {
		rq.Header.Set("Expect", "100-continue")
	}

	tr.traceHeader(session, '>',
		fmt.Sprintf("%s %s %s", rq.Method, rq.URL, rq.Proto), rq.Header)

	rsp, err := tr.client.Do(rq)
	if err != nil {
		tr.debug('!', "HTTP[%d]: %s", session, err)
		return nil, err
	}

	defer rsp.Body.Close()

	tr.traceHeader(session, '<',
		fmt.Sprintf("%s %s", rsp.Proto, rsp.Status), rsp.Header)

	if rsp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, rsp.Body)
		return nil, &TransportError{rsp.StatusCode, rsp.Status}
	}

	data, err := io.ReadAll(rsp.Body)
	if err != nil {
		tr.debug('!', "HTTP[%d]: %s", session, err)
		return nil, err
	}

	return data, nil
}

// Ping tests that server accepts TCP connections
func (tr *HTTPTransport) Ping(ctx context.Context) error {
	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "tcp", tr.addr)
	if err != nil {
		return err
	}
	return conn.Close()
}

// debug writes a debug message
func (tr *HTTPTransport) debug(prefix byte, format string, args ...interface{}) {
	if tr.Log != nil {
		tr.Log.Debug(prefix, format, args...)
	}
}

// traceHeader writes HTTP header to the trace
func (tr *HTTPTransport) traceHeader(session int32, prefix byte,
	title string, hdr http.Header) {

	if tr.Log == nil {
		return
	}

	keys := make([]string, 0, len(hdr))
	for k := range hdr {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	tr.Log.Debug(prefix, "HTTP[%d]: %s", session, title)
	for _, k := range keys {
		v := hdr.Get(k)
		if k == "Authorization" {
			v = "<hidden>"
		}
		tr.Log.Debug(prefix, "HTTP[%d]: %s: %s", session, k, v)
	}
}
