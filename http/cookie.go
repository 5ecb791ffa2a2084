package http

import (
	"fmt"
	"strings"
)

// Jar holds cookie name/value pairs. Names keep the position of their first
// insertion, so String is stable for a given sequence of writes. A nil *Jar
// reads as empty and rejects Set with ErrNilJar.
type Jar struct {
	names  []string
	values map[string]string
}

func NewJar(cookies map[string]string) *Jar {
	jar := &Jar{values: make(map[string]string, len(cookies))}
	for _, name := range sortedKeys(cookies) {
		jar.set(name, cookies[name])
	}
	return jar
}

// ParseJar parses a Cookie header value. Segments without '=' or with an
// empty name are skipped.
func ParseJar(header string) *Jar {
	jar := NewJar(nil)

	for _, part := range strings.Split(header, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		eq := strings.IndexByte(part, '=')
		if eq < 0 {
			continue
		}

		name := strings.TrimSpace(part[:eq])
		if name == "" {
			continue
		}
		jar.set(name, strings.TrimSpace(part[eq+1:]))
	}

	return jar
}

func (jar *Jar) Get(name string) (string, bool) {
	if jar == nil {
		return "", false
	}
	value, found := jar.values[name]
	return value, found
}

// Set stores a cookie. The name must be a token and the value a run of
// cookie-octets, optionally quoted.
func (jar *Jar) Set(name, value string) error {
	if jar == nil {
		return ErrNilJar
	}
	if !validCookieName(name) {
		return fmt.Errorf("%w: %q", ErrInvalidCookieName, name)
	}
	if !validCookieValue(value) {
		return fmt.Errorf("%w: for %s", ErrInvalidCookie, name)
	}
	jar.set(name, value)
	return nil
}

func (jar *Jar) set(name, value string) {
	if jar.values == nil {
		jar.values = make(map[string]string)
	}
	if _, found := jar.values[name]; !found {
		jar.names = append(jar.names, name)
	}
	jar.values[name] = value
}

func (jar *Jar) Delete(name string) {
	if jar == nil {
		return
	}
	if _, found := jar.values[name]; !found {
		return
	}
	delete(jar.values, name)
	for i, n := range jar.names {
		if n == name {
			jar.names = append(jar.names[:i], jar.names[i+1:]...)
			break
		}
	}
}

func (jar *Jar) Len() int {
	if jar == nil {
		return 0
	}
	return len(jar.names)
}

// String joins all cookies as name=value pairs separated by "; ".
func (jar *Jar) String() string {
	if jar.Len() == 0 {
		return ""
	}

	var b strings.Builder
	for i, name := range jar.names {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(jar.values[name])
	}
	return b.String()
}

func (jar *Jar) clone() *Jar {
	c := NewJar(nil)
	if jar == nil {
		return c
	}
	for _, name := range jar.names {
		c.set(name, jar.values[name])
	}
	return c
}
