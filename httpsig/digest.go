package httpsig

import (
	"bytes"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/base64"
	"fmt"
	"strings"
)

// HeaderDigest is the name of the body digest header.
const HeaderDigest = "digest"

// DigestAlgorithm identifies the hash algorithm used for the Digest header.
type DigestAlgorithm string

const (
	// DigestSHA256 uses SHA-256 for the body digest.
	DigestSHA256 DigestAlgorithm = "SHA-256"

	// DigestSHA512 uses SHA-512 for the body digest.
	DigestSHA512 DigestAlgorithm = "SHA-512"
)

// Digest computes the Digest header value "<alg>=<base64(hash(body))>".
// A nil or empty body is digested as the empty byte sequence.
func Digest(body []byte, alg DigestAlgorithm) (string, error) {
	sum, err := computeDigest(body, alg)
	if err != nil {
		return "", err
	}

	return string(alg) + "=" + base64.StdEncoding.EncodeToString(sum), nil
}

// SetDigest returns a copy of h with the digest header replaced by the
// digest of body.
func SetDigest(h Header, body []byte, alg DigestAlgorithm) (Header, error) {
	value, err := Digest(body, alg)
	if err != nil {
		return nil, err
	}

	out := h.Clone()
	out.Set(HeaderDigest, value)

	return out, nil
}

// VerifyDigest checks the digest header of h against body.
func VerifyDigest(h Header, body []byte) error {
	header := h.Get(HeaderDigest)
	if header == "" {
		return ErrDigestNotFound
	}

	alg, encoded, ok := parseDigest(header)
	if !ok {
		return fmt.Errorf("%w: invalid digest value", ErrMalformedHeader)
	}

	expected, err := computeDigest(body, alg)
	if err != nil {
		return err
	}

	actual, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return fmt.Errorf("%w: invalid base64 in digest", ErrMalformedHeader)
	}

	if !bytes.Equal(expected, actual) {
		return ErrDigestMismatch
	}

	return nil
}

// parseDigest splits "SHA-256=<base64>" into algorithm and encoded hash.
// Algorithm names are matched case-insensitively.
func parseDigest(value string) (DigestAlgorithm, string, bool) {
	algStr, encoded, ok := strings.Cut(strings.TrimSpace(value), "=")
	if !ok || encoded == "" {
		return "", "", false
	}

	return DigestAlgorithm(strings.ToUpper(strings.TrimSpace(algStr))), encoded, true
}

// computeDigest computes the hash of data using the specified algorithm.
func computeDigest(data []byte, alg DigestAlgorithm) ([]byte, error) {
	switch alg {
	case DigestSHA256:
		h := sha256.Sum256(data)
		return h[:], nil
	case DigestSHA512:
		h := sha512.Sum512(data)
		return h[:], nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDigest, alg)
	}
}
