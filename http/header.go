package http

import (
	"fmt"
	"strings"
)

type header struct {
	name  string
	value string
}

// Headers is a single-valued header collection. Names are compared
// case-sensitively and keep the position of their first insertion.
type Headers struct {
	entries []header
}

// NewHeaders builds a collection from a map, inserting names in sorted order.
func NewHeaders(values map[string]string) (Headers, error) {
	var h Headers
	for _, name := range sortedKeys(values) {
		if err := h.Put(name, values[name]); err != nil {
			return Headers{}, err
		}
	}
	return h, nil
}

// Put stores value under name, replacing any previous value for that exact
// name. Names must be tokens and values must not contain CR or LF.
func (h *Headers) Put(name, value string) error {
	if !validHeaderName(name) {
		return fmt.Errorf("%w: name %q", ErrInvalidHeader, name)
	}
	if !validHeaderValue(value) {
		return fmt.Errorf("%w: value for %s", ErrInvalidHeader, name)
	}
	for i := range h.entries {
		if h.entries[i].name == name {
			h.entries[i].value = value
			return nil
		}
	}
	h.entries = append(h.entries, header{name: name, value: value})
	return nil
}

func (h Headers) Get(name string) (string, bool) {
	for _, e := range h.entries {
		if e.name == name {
			return e.value, true
		}
	}
	return "", false
}

func (h Headers) Len() int {
	return len(h.entries)
}

func (h Headers) Each(fn func(name, value string)) {
	for _, e := range h.entries {
		fn(e.name, e.value)
	}
}

// Join renders "name: value" lines separated by CRLF without a trailing separator.
func (h Headers) Join() string {
	if len(h.entries) == 0 {
		return ""
	}

	var b strings.Builder
	for i, e := range h.entries {
		if i > 0 {
			b.WriteString(crlf)
		}
		b.WriteString(e.name)
		b.WriteString(": ")
		b.WriteString(e.value)
	}
	return b.String()
}

// Clone returns a copy that shares no storage with h.
func (h Headers) Clone() Headers {
	if h.entries == nil {
		return Headers{}
	}
	entries := make([]header, len(h.entries))
	copy(entries, h.entries)
	return Headers{entries: entries}
}
