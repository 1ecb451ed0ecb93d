package httpsig

import "strings"

// Header is a multi-valued set of request headers. Unlike http.Header the
// keys are not canonicalised: after FilterHeaders every key is lower case,
// which is the form the names take in the signing string. Lookups are
// case-insensitive.
type Header map[string][]string

// Get returns the first value associated with name, or "" when absent.
func (h Header) Get(name string) string {
	values := h.Values(name)
	if len(values) == 0 {
		return ""
	}

	return values[0]
}

// Values returns all values associated with name. When several keys match
// case-insensitively the exact match wins, then the lower-case key.
func (h Header) Values(name string) []string {
	if v, ok := h[name]; ok {
		return v
	}

	lower := strings.ToLower(name)
	if v, ok := h[lower]; ok {
		return v
	}

	for k, v := range h {
		if strings.EqualFold(k, name) {
			return v
		}
	}

	return nil
}

// Has reports whether a key matching name exists.
func (h Header) Has(name string) bool {
	return h.Values(name) != nil
}

// Set replaces all values for name, in any case, with a single value stored
// under the lower-case name.
func (h Header) Set(name, value string) {
	h.Del(name)
	h[strings.ToLower(name)] = []string{value}
}

// Del removes every key matching name case-insensitively.
func (h Header) Del(name string) {
	for k := range h {
		if strings.EqualFold(k, name) {
			delete(h, k)
		}
	}
}

// Clone returns a deep copy of h. Clone of a nil Header is an empty Header.
func (h Header) Clone() Header {
	out := make(Header, len(h))
	for k, v := range h {
		out[k] = append([]string(nil), v...)
	}

	return out
}
