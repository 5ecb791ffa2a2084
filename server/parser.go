package server

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/freekieb7/coyote/http"
)

const MaxRequestHeaders = math.MaxUint8

var (
	ErrMalformedRequest = errors.New("server: malformed request")
	ErrBodyTooLarge     = errors.New("server: request body too large")
)

// ReadRequest reads one request message from reader. Bodies are read
// according to Content-Length only; chunked bodies are not supported. An
// empty stream yields io.EOF.
func ReadRequest(reader *bufio.Reader, maxBodySize int64) (*http.Request, error) {
	requestLine, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && requestLine == "" {
			return nil, io.EOF
		}
		return nil, fmt.Errorf("%w: reading request line: %w", ErrMalformedRequest, err)
	}
	requestLine = strings.TrimRight(requestLine, "\r\n")
	if requestLine == "" {
		return nil, io.EOF
	}

	parts := strings.Split(requestLine, " ")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: request line %q", ErrMalformedRequest, requestLine)
	}
	method, target, version := parts[0], parts[1], parts[2]

	path, rawQuery, _ := strings.Cut(target, "?")
	query, err := parseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: query: %w", ErrMalformedRequest, err)
	}

	headers, err := readHeaders(reader)
	if err != nil {
		return nil, err
	}

	body, err := readBody(reader, headers, maxBodySize)
	if err != nil {
		return nil, err
	}

	var cookies *http.Jar
	if raw, found := lookupFold(headers, http.HeaderCookie); found {
		cookies = http.ParseJar(raw)
	}

	req, err := http.NewRequest(http.RequestOptions{
		Method:  http.Method(method),
		Path:    path,
		Version: http.Version(version),
		Query:   query,
		Headers: headers,
		Cookies: cookies,
		Body:    body,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedRequest, err)
	}
	return req, nil
}

func readHeaders(reader *bufio.Reader) (map[string]string, error) {
	headers := make(map[string]string)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			return nil, fmt.Errorf("%w: reading headers: %w", ErrMalformedRequest, err)
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			return headers, nil
		}

		name, value, found := strings.Cut(line, ":")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return nil, fmt.Errorf("%w: header line %q", ErrMalformedRequest, line)
		}
		if len(headers) >= MaxRequestHeaders {
			return nil, fmt.Errorf("%w: more than %d headers", ErrMalformedRequest, MaxRequestHeaders)
		}
		headers[name] = strings.TrimSpace(value)
	}
}

func readBody(reader *bufio.Reader, headers map[string]string, maxBodySize int64) (string, error) {
	raw, found := lookupFold(headers, http.HeaderContentLength)
	if !found {
		return "", nil
	}

	length, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || length < 0 {
		return "", fmt.Errorf("%w: content length %q", ErrMalformedRequest, raw)
	}
	if maxBodySize > 0 && length > maxBodySize {
		return "", fmt.Errorf("%w: %d bytes", ErrBodyTooLarge, length)
	}

	buf := make([]byte, length)
	if _, err := io.ReadFull(reader, buf); err != nil {
		return "", fmt.Errorf("%w: reading body: %w", ErrMalformedRequest, err)
	}
	return string(buf), nil
}

func parseQuery(rawQuery string) (map[string]string, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, err
	}
	return firstValues(values), nil
}

func firstValues(values map[string][]string) map[string]string {
	first := make(map[string]string, len(values))
	for name, v := range values {
		if len(v) > 0 {
			first[name] = v[0]
		}
	}
	return first
}

// lookupFold finds a header regardless of the casing the client used.
func lookupFold(headers map[string]string, name string) (string, bool) {
	if value, found := headers[name]; found {
		return value, true
	}
	for key, value := range headers {
		if strings.EqualFold(key, name) {
			return value, true
		}
	}
	return "", false
}
