package http

import (
	"fmt"
	"io"
	"strings"
)

// ResponseOptions describes a response up front. It replaces step-by-step
// construction: NewResponse validates everything at once.
type ResponseOptions struct {
	Version Version
	Status  Status
	Body    *Body
	Headers map[string]string
}

// Response is mutated by handlers and serialized once. Status and body may
// stay unset while a handler runs.
type Response struct {
	version     Version
	status      Status
	body        *Body
	headers     Headers
	defaultToOK bool
}

// PrepareFrom creates an empty response speaking the request's protocol version.
func PrepareFrom(req *Request) *Response {
	return &Response{version: req.Version()}
}

// NewResponse validates opts and builds a response. A zero Status leaves
// the status unset.
func NewResponse(opts ResponseOptions) (*Response, error) {
	version := opts.Version
	if version == "" {
		version = Version11
	}
	if !version.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}
	if opts.Status != 0 && !opts.Status.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownStatus, opts.Status)
	}

	headers, err := NewHeaders(opts.Headers)
	if err != nil {
		return nil, err
	}

	return &Response{
		version: version,
		status:  opts.Status,
		body:    opts.Body,
		headers: headers,
	}, nil
}

func (res *Response) Version() Version {
	return res.version
}

// Status returns the status and whether it has been set.
func (res *Response) Status() (Status, bool) {
	return res.status, res.status != 0
}

func (res *Response) SetStatus(status Status) {
	res.status = status
}

// DefaultToOK lets Build fall back to 200 OK when no status was set.
func (res *Response) DefaultToOK() {
	res.defaultToOK = true
}

// Body returns the body, or NoBody when none was set.
func (res *Response) Body() *Body {
	if res.body == nil {
		return NoBody
	}
	return res.body
}

func (res *Response) SetBody(body *Body) {
	res.body = body
}

// AddHeader sets an explicit header. Values containing CR or LF are
// rejected with ErrInvalidHeader.
func (res *Response) AddHeader(name, value string) error {
	return res.headers.Put(name, value)
}

func (res *Response) Header(name string) (string, bool) {
	return res.headers.Get(name)
}

// Headers returns a copy of the explicitly added headers.
func (res *Response) Headers() Headers {
	return res.headers.Clone()
}

// SetCookie writes every cookie of jar into a single Set-Cookie header.
func (res *Response) SetCookie(jar *Jar) error {
	return res.headers.Put(HeaderSetCookie, jar.String())
}

// SendRedirect points the client at location with 302 Found. An invalid
// location leaves the response untouched.
func (res *Response) SendRedirect(location string) error {
	if err := res.headers.Put(HeaderLocation, location); err != nil {
		return err
	}
	res.status = StatusFound
	return nil
}

// ResolvedStatus returns the status Build would write.
func (res *Response) ResolvedStatus() (Status, error) {
	status := res.status
	if status == 0 {
		if !res.defaultToOK {
			return 0, ErrStatusUnset
		}
		status = StatusOK
	}
	if !status.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrUnknownStatus, status)
	}
	return status, nil
}

// Build serializes the response:
//
//	<version> <code> <reason> CRLF [<header block> CRLF] CRLF [<payload>]
//
// The header block holds the explicit headers followed by the body's
// Content-Type and Content-Length. An empty body adds neither descriptor
// headers nor payload. Build does not modify the response.
func (res *Response) Build() ([]byte, error) {
	return res.build(true)
}

// BuildHead serializes the response like Build but leaves out the payload,
// as required for an answer to HEAD. The descriptor headers are kept.
func (res *Response) BuildHead() ([]byte, error) {
	return res.build(false)
}

func (res *Response) build(withPayload bool) ([]byte, error) {
	status, err := res.ResolvedStatus()
	if err != nil {
		return nil, err
	}
	body := res.Body()

	var b strings.Builder

	// start line, trailing blank included
	b.WriteString(string(res.version))
	b.WriteString(blank)
	b.WriteString(status.String())
	b.WriteString(blank)
	b.WriteString(crlf)

	if block := res.headerBlock(body); block != "" {
		b.WriteString(block)
		b.WriteString(crlf)
	}
	b.WriteString(crlf)

	if withPayload && !body.IsEmpty() {
		b.WriteString(body.payload)
	}

	return []byte(b.String()), nil
}

func (res *Response) headerBlock(body *Body) string {
	joined := res.headers.Join()
	if body.IsEmpty() {
		return joined
	}

	bodyHeaders := body.descriptor.Lines()
	if joined == "" {
		return bodyHeaders
	}
	return joined + crlf + bodyHeaders
}

// WriteTo serializes the response into w.
func (res *Response) WriteTo(w io.Writer) (int64, error) {
	data, err := res.Build()
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	return int64(n), err
}
