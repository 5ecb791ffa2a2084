package server

import (
	"bufio"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/freekieb7/coyote/http"
	"github.com/freekieb7/coyote/test"
)

func readString(raw string, maxBodySize int64) (*http.Request, error) {
	return ReadRequest(bufio.NewReader(strings.NewReader(raw)), maxBodySize)
}

func TestReadRequest(t *testing.T) {
	raw := "POST /register?next=%2Findex.html&next=ignored HTTP/1.1\r\n" +
		"Host: localhost:8080\r\n" +
		"content-length: 27\r\n" +
		"Cookie: JSESSIONID=abc; theme=dark\r\n" +
		"\r\n" +
		"account=gugu&password=pass1"

	req, err := readString(raw, DefaultMaxBodySize)
	test.AssertNoError(t, err)

	test.AssertEqual(t, http.MethodPost, req.Method())
	test.AssertEqual(t, "/register", req.Path())
	test.AssertEqual(t, http.Version11, req.Version())

	next, _ := req.Query("next")
	test.AssertEqual(t, "/index.html", next)

	host, _ := req.Header("Host")
	test.AssertEqual(t, "localhost:8080", host)

	id, _ := req.Cookie("JSESSIONID")
	test.AssertEqual(t, "abc", id)

	test.AssertEqual(t, "account=gugu&password=pass1", req.Body())
	test.AssertEqual(t, "gugu", req.Form()["account"])
}

func TestReadRequestWithoutBody(t *testing.T) {
	req, err := readString("GET /index.html HTTP/1.0\r\n\r\n", DefaultMaxBodySize)
	test.AssertNoError(t, err)

	test.AssertEqual(t, http.Version10, req.Version())
	test.AssertEqual(t, "", req.Body())
}

func TestReadRequestEmptyStream(t *testing.T) {
	_, err := readString("", DefaultMaxBodySize)
	if !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

func TestReadRequestMalformed(t *testing.T) {
	cases := map[string]string{
		"short request line": "GET /\r\n\r\n",
		"bad method":         "BREW /pot HTTP/1.1\r\n\r\n",
		"relative path":      "GET index.html HTTP/1.1\r\n\r\n",
		"bad version":        "GET / HTTP/2.0\r\n\r\n",
		"bad header":         "GET / HTTP/1.1\r\nno-colon\r\n\r\n",
		"truncated headers":  "GET / HTTP/1.1\r\nHost: x\r\n",
		"bad length":         "POST / HTTP/1.1\r\nContent-Length: -1\r\n\r\n",
		"short body":         "POST / HTTP/1.1\r\nContent-Length: 10\r\n\r\nabc",
		"bad query":          "GET /?a=%zz HTTP/1.1\r\n\r\n",
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := readString(raw, DefaultMaxBodySize)
			test.AssertErrorIs(t, err, ErrMalformedRequest)
		})
	}
}

func TestReadRequestBodyTooLarge(t *testing.T) {
	_, err := readString("POST / HTTP/1.1\r\nContent-Length: 11\r\n\r\nhello world", 10)
	test.AssertErrorIs(t, err, ErrBodyTooLarge)
}

func TestReadRequestTooManyHeaders(t *testing.T) {
	var b strings.Builder
	b.WriteString("GET / HTTP/1.1\r\n")
	for i := range MaxRequestHeaders + 1 {
		b.WriteString("X-Header-")
		b.WriteString(strings.Repeat("a", i+1))
		b.WriteString(": v\r\n")
	}
	b.WriteString("\r\n")

	_, err := readString(b.String(), DefaultMaxBodySize)
	test.AssertErrorIs(t, err, ErrMalformedRequest)
}
