package http

import "errors"

const (
	crlf  = "\r\n"
	blank = " "
)

// Header names written by the response itself.
const (
	HeaderContentType   = "Content-Type"
	HeaderContentLength = "Content-Length"
	HeaderCookie        = "Cookie"
	HeaderSetCookie     = "Set-Cookie"
	HeaderLocation      = "Location"
)

var (
	ErrStatusUnset       = errors.New("http: response status not set")
	ErrUnknownStatus     = errors.New("http: unknown response status")
	ErrInvalidMethod     = errors.New("http: invalid request method")
	ErrInvalidPath       = errors.New("http: request path must start with '/'")
	ErrInvalidVersion    = errors.New("http: unsupported protocol version")
	ErrInvalidCookieName = errors.New("http: invalid cookie name")
	ErrInvalidCookie     = errors.New("http: invalid cookie value")
	ErrInvalidHeader     = errors.New("http: invalid header field")
	ErrNilJar            = errors.New("http: nil cookie jar")
	ErrResourceNotFound  = errors.New("http: resource not found")
)

type Method string

const (
	MethodGet     Method = "GET"
	MethodHead    Method = "HEAD"
	MethodPost    Method = "POST"
	MethodPut     Method = "PUT"
	MethodPatch   Method = "PATCH"
	MethodDelete  Method = "DELETE"
	MethodConnect Method = "CONNECT"
	MethodOptions Method = "OPTIONS"
	MethodTrace   Method = "TRACE"
)

func (m Method) Valid() bool {
	switch m {
	case MethodGet, MethodHead, MethodPost, MethodPut, MethodPatch,
		MethodDelete, MethodConnect, MethodOptions, MethodTrace:
		return true
	}
	return false
}

type Version string

const (
	Version10 Version = "HTTP/1.0"
	Version11 Version = "HTTP/1.1"
)

func (v Version) Valid() bool {
	return v == Version10 || v == Version11
}
