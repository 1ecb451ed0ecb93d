package httpsig

import (
	"maps"
	"slices"
	"strings"
)

// dontRelay lists headers that describe the inbound hop (connection
// management, proxies, client identity) and must not be forwarded to the
// gateway or signed.
var dontRelay = map[string]struct{}{
	"content-length":    {},
	"cache-control":     {},
	"accept":            {},
	"user-agent":        {},
	"connection":        {},
	"host":              {},
	"accept-encoding":   {},
	"x-forwarded-host":  {},
	"cookie":            {},
	"x-forwarded-proto": {},
	"x-forwarded-port":  {},
	"x-forwarded-for":   {},
}

// IsRelayed reports whether the named header survives FilterHeaders.
func IsRelayed(name string) bool {
	_, drop := dontRelay[strings.ToLower(name)]
	return !drop
}

// FilterHeaders returns a new Header with every name lower-cased and every
// hop-by-hop or proxy header removed. The input is not modified.
//
// Keys that differ only in case are merged under the lower-case name; their
// values are appended in the sorted order of the source keys so the
// result does not depend on map iteration.
func FilterHeaders(h Header) Header {
	out := make(Header, len(h))

	for _, name := range slices.Sorted(maps.Keys(h)) {
		lower := strings.ToLower(name)
		if _, drop := dontRelay[lower]; drop {
			continue
		}

		out[lower] = append(out[lower], h[name]...)
	}

	return out
}
