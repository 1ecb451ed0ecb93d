package httpsig

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// Header names set on every signed request.
const (
	HeaderSignature            = "signature"
	HeaderSignatureCertificate = "tpp-signature-certificate"
)

// Signature is the parsed form of a Signature header value.
type Signature struct {
	KeyID     string
	Algorithm Algorithm
	Headers   []string
	Value     []byte
}

// String formats s as a Signature header value:
//
//	keyId="...",algorithm="rsa-sha256",headers="digest x-request-id",signature="<base64>"
func (s Signature) String() string {
	return fmt.Sprintf(`keyId="%s",algorithm="%s",headers="%s",signature="%s"`,
		s.KeyID,
		s.Algorithm,
		strings.Join(s.Headers, " "),
		base64.StdEncoding.EncodeToString(s.Value),
	)
}

// Sign returns the Signature header value for h. An empty header set
// yields an empty value and no error; callers still send the request
// unsigned in that case.
//
// The signing string covers the sign-eligible headers present in h (see
// SignedHeaders) and the headers parameter lists the same names in the
// same order.
func Sign(h Header, signer Signer) (string, error) {
	if len(h) == 0 {
		return "", nil
	}

	if signer == nil {
		return "", ErrNoSigner
	}

	names := coveredHeaders(h)

	sig, err := signer.Sign([]byte(buildSigningString(h, names)))
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSigningFailed, err)
	}

	return Signature{
		KeyID:     signer.KeyID(),
		Algorithm: signer.Algorithm(),
		Headers:   names,
		Value:     sig,
	}.String(), nil
}

// ParseSignature parses a Signature header value as produced by Sign.
// Unknown parameters are ignored.
func ParseSignature(value string) (Signature, error) {
	var sig Signature

	params, err := parseParams(value)
	if err != nil {
		return sig, err
	}

	encoded, ok := params["signature"]
	if !ok {
		return sig, fmt.Errorf("%w: missing signature parameter", ErrMalformedHeader)
	}

	sig.Value, err = base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return sig, fmt.Errorf("%w: invalid base64 in signature", ErrMalformedHeader)
	}

	sig.KeyID = params["keyId"]
	sig.Algorithm = Algorithm(params["algorithm"])

	if headers := params["headers"]; headers != "" {
		sig.Headers = strings.Fields(headers)
	}

	return sig, nil
}

// parseParams parses a comma separated list of name="value" pairs. Commas
// inside quoted values are part of the value.
func parseParams(raw string) (map[string]string, error) {
	params := make(map[string]string)
	rest := strings.TrimSpace(raw)

	for rest != "" {
		name, after, ok := strings.Cut(rest, "=")
		if !ok {
			return nil, fmt.Errorf("%w: expected name=value", ErrMalformedHeader)
		}

		value, remaining, err := unquote(after)
		if err != nil {
			return nil, err
		}

		params[strings.TrimSpace(name)] = value

		rest = strings.TrimSpace(remaining)
		if rest == "" {
			break
		}

		if rest[0] != ',' {
			return nil, fmt.Errorf("%w: expected comma between parameters", ErrMalformedHeader)
		}

		rest = strings.TrimSpace(rest[1:])
	}

	return params, nil
}

// unquote reads a quoted string from the start of s and returns the value
// and the remainder after the closing quote. Backslash escapes the next
// character.
func unquote(s string) (string, string, error) {
	if s == "" || s[0] != '"' {
		return "", "", fmt.Errorf("%w: parameter value must be quoted", ErrMalformedHeader)
	}

	var b strings.Builder

	for i := 1; i < len(s); i++ {
		switch c := s[i]; c {
		case '\\':
			if i+1 < len(s) {
				b.WriteByte('\\')
				b.WriteByte(s[i+1])
				i++
			}
		case '"':
			return b.String(), s[i+1:], nil
		default:
			b.WriteByte(c)
		}
	}

	return "", "", fmt.Errorf("%w: unterminated quoted value", ErrMalformedHeader)
}
