package http

import (
	"maps"
	"slices"
	"strings"
)

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}

// isValidCookieNameChar returns true if the character is valid in a cookie name
func isValidCookieNameChar(r rune) bool {
	// RFC 6265 - valid characters for cookie names
	return r > 0x20 && r < 0x7f && r != '"' && r != ',' && r != ';' && r != '\\' &&
		r != '=' && r != '(' && r != ')' && r != '<' && r != '>' && r != '@' &&
		r != '{' && r != '}' && r != '[' && r != ']' && r != '?' && r != ':' && r != '/'
}

func validCookieName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		if !isValidCookieNameChar(r) {
			return false
		}
	}
	return true
}

// isValidCookieValueChar returns true if the character is a cookie-octet
func isValidCookieValueChar(r rune) bool {
	// RFC 6265 - cookie-octet excludes CTLs, whitespace, DQUOTE, comma, semicolon and backslash
	return r == 0x21 || (r >= 0x23 && r <= 0x2b) || (r >= 0x2d && r <= 0x3a) ||
		(r >= 0x3c && r <= 0x5b) || (r >= 0x5d && r <= 0x7e)
}

// validCookieValue accepts *cookie-octet, optionally wrapped in double quotes.
func validCookieValue(value string) bool {
	if len(value) >= 2 && value[0] == '"' && value[len(value)-1] == '"' {
		value = value[1 : len(value)-1]
	}
	for _, r := range value {
		if !isValidCookieValueChar(r) {
			return false
		}
	}
	return true
}

func validHeaderName(name string) bool {
	if name == "" {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c <= ' ' || c >= 0x7f || c == ':' {
			return false
		}
	}
	return true
}

// validHeaderValue rejects line breaks and NUL so a value cannot end its header line.
func validHeaderValue(value string) bool {
	return !strings.ContainsAny(value, "\r\n\x00")
}

func copyMap(m map[string]string) map[string]string {
	if m == nil {
		return map[string]string{}
	}
	return maps.Clone(m)
}
