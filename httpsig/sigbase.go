package httpsig

import (
	"strings"
)

// Names of the headers that take part in the signature.
const (
	HeaderXRequestID     = "x-request-id"
	HeaderPSUID          = "psu-id"
	HeaderPSUCorporateID = "psu-corporate-id"
	HeaderTPPRedirectURI = "tpp-redirect-uri"
)

// signedHeaders lists the sign-eligible headers in the order they appear in
// the signing string and in the headers parameter of the Signature header.
var signedHeaders = []string{
	HeaderDigest,
	HeaderXRequestID,
	HeaderPSUID,
	HeaderPSUCorporateID,
	HeaderTPPRedirectURI,
}

// SignedHeaders returns the sign-eligible header names in signing order.
func SignedHeaders() []string {
	return append([]string(nil), signedHeaders...)
}

// coveredHeaders returns the sign-eligible headers present in h, in
// signing order.
func coveredHeaders(h Header) []string {
	var names []string

	for _, name := range signedHeaders {
		if h.Has(name) {
			names = append(names, name)
		}
	}

	return names
}

// buildSigningString constructs the signing string for the given header
// names. Each header produces a line "<name>: <v1>,<v2>" and lines are
// joined with "\n" without a trailing newline.
func buildSigningString(h Header, names []string) string {
	var b strings.Builder

	for i, name := range names {
		if i > 0 {
			b.WriteByte('\n')
		}

		b.WriteString(name)
		b.WriteString(": ")
		b.WriteString(strings.Join(h.Values(name), ","))
	}

	return b.String()
}

// SigningString returns the exact string that Sign signs for h.
func SigningString(h Header) string {
	return buildSigningString(h, coveredHeaders(h))
}
