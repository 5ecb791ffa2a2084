package http

import (
	"fmt"
	"net/url"
	"strings"
)

// RequestOptions describes a fully parsed request message. Zero values are
// replaced by defaults in NewRequest.
type RequestOptions struct {
	Method  Method
	Path    string
	Version Version
	Query   map[string]string
	Headers map[string]string
	Cookies *Jar
	Body    string
}

// Request is an immutable, fully parsed request message.
type Request struct {
	method  Method
	path    string
	version Version
	query   map[string]string
	headers Headers
	cookies *Jar
	body    string
}

// NewRequest validates opts and builds a request. The version defaults to
// HTTP/1.1. When no jar is given, cookies are taken from the Cookie header.
func NewRequest(opts RequestOptions) (*Request, error) {
	if !opts.Method.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, opts.Method)
	}
	if !strings.HasPrefix(opts.Path, "/") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPath, opts.Path)
	}

	version := opts.Version
	if version == "" {
		version = Version11
	}
	if !version.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidVersion, version)
	}

	headers, err := NewHeaders(opts.Headers)
	if err != nil {
		return nil, err
	}

	cookies := opts.Cookies.clone()
	if opts.Cookies == nil {
		if raw, found := headers.Get(HeaderCookie); found {
			cookies = ParseJar(raw)
		}
	}

	return &Request{
		method:  opts.Method,
		path:    opts.Path,
		version: version,
		query:   copyMap(opts.Query),
		headers: headers,
		cookies: cookies,
		body:    opts.Body,
	}, nil
}

func (req *Request) Method() Method {
	return req.method
}

func (req *Request) Path() string {
	return req.path
}

func (req *Request) Version() Version {
	return req.version
}

func (req *Request) IsPost() bool {
	return req.method == MethodPost
}

func (req *Request) Query(name string) (string, bool) {
	value, found := req.query[name]
	return value, found
}

// QueryParams returns a copy of the query parameters.
func (req *Request) QueryParams() map[string]string {
	return copyMap(req.query)
}

func (req *Request) Header(name string) (string, bool) {
	return req.headers.Get(name)
}

func (req *Request) Cookie(name string) (string, bool) {
	return req.cookies.Get(name)
}

func (req *Request) Body() string {
	return req.body
}

// Form decodes an application/x-www-form-urlencoded body. Only the first
// value of a repeated field is kept; undecodable pairs are dropped.
func (req *Request) Form() map[string]string {
	form := make(map[string]string)
	for _, pair := range strings.Split(req.body, "&") {
		if pair == "" {
			continue
		}

		name, value, _ := strings.Cut(pair, "=")
		name, err := url.QueryUnescape(name)
		if err != nil || name == "" {
			continue
		}
		value, err = url.QueryUnescape(value)
		if err != nil {
			continue
		}

		if _, found := form[name]; !found {
			form[name] = value
		}
	}
	return form
}
