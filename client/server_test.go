/* ippclient - IPP and CUPS client
 *
 * Copyright (C) 2020 and up by Alexander Pevzner (pzz@apevzner.com)
 * See LICENSE for license terms and conditions
 *
 * Test IPP server
 */

package client

import (
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/OpenPrinting/goipp"
	"github.com/OpenPrinting/ippclient/ipp"
)

// testRequest is the request, received by testServer
type testRequest struct {
	Path   string        // HTTP path
	Header http.Header   // HTTP header
	Msg    goipp.Message // Request, decoded by goipp
	Data   []byte        // Data after request
}

// Op returns request operation
func (rq *testRequest) Op() goipp.Op {
	return goipp.Op(rq.Msg.Code)
}

// Attr returns first value of the request operation attribute
func (rq *testRequest) Attr(name string) goipp.Value {
	return testAttr(rq.Msg.Operation, name)
}

// testAttr returns first value of the named attribute
func testAttr(attrs goipp.Attributes, name string) goipp.Value {
	for _, attr := range attrs {
		if attr.Name == name && len(attr.Values) != 0 {
			return attr.Values[0].V
		}
	}
	return nil
}

// testHandler returns response to the request
type testHandler func(rq *testRequest) *goipp.Message

// testServer is the fake IPP server
type testServer struct {
	*httptest.Server
	lock     sync.Mutex
	handler  testHandler
	requests []*testRequest
	payload  []byte // Data, appended to each response
}

// newTestServer creates a new testServer
func newTestServer(t *testing.T, handler testHandler) *testServer {
	ts := &testServer{handler: handler}
	ts.Server = httptest.NewServer(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			ts.serve(t, w, r)
		}))

	t.Cleanup(ts.Close)
	return ts
}

// serve handles HTTP request
func (ts *testServer) serve(t *testing.T, w http.ResponseWriter,
	r *http.Request) {

	body, err := io.ReadAll(r.Body)
	if err != nil {
		t.Errorf("server: %s", err)
		return
	}

	rq := &testRequest{Path: r.URL.Path, Header: r.Header}
	err = rq.Msg.DecodeBytes(body)
	if err != nil {
		t.Errorf("server: goipp: %s", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	m, err := ipp.DecodeMessage(body, true)
	if err != nil {
		t.Errorf("server: %s", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	rq.Data = m.Data

	ts.lock.Lock()
	ts.requests = append(ts.requests, rq)
	ts.lock.Unlock()

	rsp := ts.handler(rq)
	if rsp == nil {
		w.WriteHeader(http.StatusForbidden)
		return
	}

	rsp.RequestID = rq.Msg.RequestID
	data, err := rsp.EncodeBytes()
	if err != nil {
		t.Errorf("server: encode: %s", err)
		return
	}

	w.Header().Set("Content-Type", goipp.ContentType)
	w.Write(data)
	w.Write(ts.payload)
}

// Requests returns received requests
func (ts *testServer) Requests() []*testRequest {
	ts.lock.Lock()
	defer ts.lock.Unlock()
	return append([]*testRequest(nil), ts.requests...)
}

// Client returns a new Client, connected to the server
func (ts *testServer) Client(t *testing.T) *Client {
	host, port, err := net.SplitHostPort(ts.Listener.Addr().String())
	if err != nil {
		t.Fatalf("%s", err)
	}

	portnum, _ := strconv.Atoi(port)
	tr := NewHTTPTransport(TransportOptions{Host: host, Port: portnum})

	return NewClient(tr, "tester")
}

// testResponse creates a new response with the mandatory
// operation attributes
func testResponse(status goipp.Status, groups ...goipp.Group) *goipp.Message {
	rsp := goipp.NewResponse(goipp.DefaultVersion, status, 0)
	rsp.Groups = goipp.Groups{{
		Tag: goipp.TagOperationGroup,
		Attrs: goipp.Attributes{
			goipp.MakeAttr("attributes-charset", goipp.TagCharset,
				goipp.String("utf-8")),
			goipp.MakeAttr("attributes-natural-language",
				goipp.TagLanguage, goipp.String("en-US")),
		},
	}}
	rsp.Groups = append(rsp.Groups, groups...)
	return rsp
}

// testGroup creates a group of attributes
func testGroup(tag goipp.Tag, attrs ...goipp.Attribute) goipp.Group {
	return goipp.Group{Tag: tag, Attrs: goipp.Attributes(attrs)}
}
