// Package query parses the search portion of a console page URL into the
// command selector parameters.
package query

import "strings"

// Params maps parameter names to their decoded values. A nil value marks a
// parameter that appeared without '='.
type Params map[string]*string

// Parse splits search (the "?a=1&b=2" part of a URL) into Params. Input with
// no '?' yields an empty mapping. Pairs split on the first '=' and values are
// percent-decoded without turning '+' into a space. Later duplicates win.
func Parse(search string) Params {
	params := Params{}
	idx := strings.IndexByte(search, '?')
	if idx < 0 {
		return params
	}

	for _, pair := range strings.Split(search[idx+1:], "&") {
		if pair == "" {
			continue
		}
		key, value, found := strings.Cut(pair, "=")
		if !found {
			params[key] = nil
			continue
		}
		decoded := unescape(value)
		params[key] = &decoded
	}
	return params
}

// Get returns the value for key. ok is false when the key is missing or was
// given without a value.
func (p Params) Get(key string) (string, bool) {
	value, exists := p[key]
	if !exists || value == nil {
		return "", false
	}
	return *value, true
}

// Value returns the value for key or an empty string.
func (p Params) Value(key string) string {
	value, _ := p.Get(key)
	return value
}

// Has reports whether key was present, with or without a value.
func (p Params) Has(key string) bool {
	_, exists := p[key]
	return exists
}

// Defined reports whether key was present with a value.
func (p Params) Defined(key string) bool {
	_, ok := p.Get(key)
	return ok
}

// unescape decodes each well-formed %XX escape on its own; malformed escapes
// are kept literally and do not affect the rest of the value.
func unescape(value string) string {
	if !strings.Contains(value, "%") {
		return value
	}
	var b strings.Builder
	b.Grow(len(value))
	for i := 0; i < len(value); i++ {
		if value[i] == '%' && i+2 < len(value) && isHex(value[i+1]) && isHex(value[i+2]) {
			b.WriteByte(unhex(value[i+1])<<4 | unhex(value[i+2]))
			i += 2
			continue
		}
		b.WriteByte(value[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

func unhex(c byte) byte {
	switch {
	case '0' <= c && c <= '9':
		return c - '0'
	case 'a' <= c && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}
