package httpsig

import (
	"bytes"
	"crypto/x509"
	"encoding/base64"
	"fmt"
	"io"
	"net/http"
	"slices"
)

// KeyResolver returns a Verifier for the given key ID.
// It is called during request verification to look up the appropriate key.
// The request is provided for context (e.g., to read the signing
// certificate header).
type KeyResolver func(r *http.Request, keyID string) (Verifier, error)

// VerifyConfig configures Signature header verification.
type VerifyConfig struct {
	// Resolver looks up a Verifier for a given key ID. Required.
	Resolver KeyResolver

	// RequiredHeaders lists header names that must be covered by the
	// signature. Defaults to [digest, x-request-id].
	RequiredHeaders []string

	// SkipDigest disables checking the digest header against the body.
	SkipDigest bool
}

var defaultRequiredHeaders = []string{HeaderDigest, HeaderXRequestID}

// VerifyRequest verifies the Signature header of an incoming request and,
// unless SkipDigest is set, the digest header against the request body.
// The body is restored so handlers can read it again.
func VerifyRequest(r *http.Request, cfg VerifyConfig) error {
	_, err := verifyRequest(r, cfg)
	return err
}

func verifyRequest(r *http.Request, cfg VerifyConfig) (Signature, error) {
	if cfg.Resolver == nil {
		return Signature{}, ErrNoResolver
	}

	h := Header(r.Header)

	value := h.Get(HeaderSignature)
	if value == "" {
		return Signature{}, ErrSignatureNotFound
	}

	sig, err := ParseSignature(value)
	if err != nil {
		return Signature{}, err
	}

	required := cfg.RequiredHeaders
	if required == nil {
		required = defaultRequiredHeaders
	}

	for _, name := range required {
		if !slices.Contains(sig.Headers, name) {
			return Signature{}, fmt.Errorf("%w: %s not signed", ErrMissingHeader, name)
		}
	}

	if !cfg.SkipDigest {
		body, err := readAndRestoreBody(r)
		if err != nil {
			return Signature{}, err
		}

		if err := VerifyDigest(h, body); err != nil {
			return Signature{}, err
		}
	}

	verifier, err := cfg.Resolver(r, sig.KeyID)
	if err != nil {
		return Signature{}, err
	}

	if err := verifyParsed(h, sig, verifier); err != nil {
		return Signature{}, err
	}

	return sig, nil
}

// VerifySignature verifies a Signature header value against h.
func VerifySignature(h Header, value string, verifier Verifier) error {
	sig, err := ParseSignature(value)
	if err != nil {
		return err
	}

	return verifyParsed(h, sig, verifier)
}

func verifyParsed(h Header, sig Signature, verifier Verifier) error {
	if verifier == nil {
		return ErrNoResolver
	}

	if sig.Algorithm != verifier.Algorithm() {
		return fmt.Errorf("%w: %s", ErrUnsupportedAlgorithm, sig.Algorithm)
	}

	for _, name := range sig.Headers {
		if !h.Has(name) {
			return fmt.Errorf("%w: %s", ErrMissingHeader, name)
		}
	}

	return verifier.Verify([]byte(buildSigningString(h, sig.Headers)), sig.Value)
}

// CertificateHeaderResolver returns a KeyResolver that takes the signing
// certificate from the tpp-signature-certificate header. When roots is not
// nil the certificate must chain to it. The certificate must match the
// keyId of the signature.
func CertificateHeaderResolver(roots *x509.CertPool) KeyResolver {
	return func(r *http.Request, keyID string) (Verifier, error) {
		encoded := r.Header.Get(HeaderSignatureCertificate)
		if encoded == "" {
			return nil, fmt.Errorf("%w: %s", ErrMissingHeader, HeaderSignatureCertificate)
		}

		der, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid base64 in signing certificate", ErrMalformedHeader)
		}

		cert, err := x509.ParseCertificate(der)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
		}

		if roots != nil {
			_, err := cert.Verify(x509.VerifyOptions{
				Roots:     roots,
				KeyUsages: []x509.ExtKeyUsage{x509.ExtKeyUsageAny},
			})
			if err != nil {
				return nil, fmt.Errorf("%w: %w", ErrInvalidKey, err)
			}
		}

		verifier, err := NewCertificateVerifier(cert)
		if err != nil {
			return nil, err
		}

		if verifier.KeyID() != keyID {
			return nil, fmt.Errorf("%w: keyId does not match signing certificate", ErrInvalidKey)
		}

		return verifier, nil
	}
}

// readAndRestoreBody reads the entire request body and replaces it with a
// new reader so the body can be consumed again by downstream handlers.
func readAndRestoreBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, err
	}

	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(body))

	return body, nil
}
