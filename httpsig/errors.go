package httpsig

import "errors"

// Signing errors.
var (
	// ErrNoSigner is returned when Sign is called without a Signer.
	ErrNoSigner = errors.New("httpsig: signer must not be nil")

	// ErrSigningFailed wraps any failure of the underlying signature engine.
	ErrSigningFailed = errors.New("httpsig: signing failed")
)

// Verification errors.
var (
	// ErrNoResolver is returned when VerifyConfig has no KeyResolver configured.
	ErrNoResolver = errors.New("httpsig: key resolver must not be nil")

	// ErrSignatureNotFound is returned when the request carries no Signature
	// header.
	ErrSignatureNotFound = errors.New("httpsig: signature not found")

	// ErrSignatureInvalid is returned when signature verification fails.
	ErrSignatureInvalid = errors.New("httpsig: signature verification failed")

	// ErrMissingHeader is returned when a header listed in the signature is
	// not present on the request, or a required header is not signed.
	ErrMissingHeader = errors.New("httpsig: signed header missing")

	// ErrUnsupportedAlgorithm is returned when the signature names an
	// algorithm other than rsa-sha256.
	ErrUnsupportedAlgorithm = errors.New("httpsig: unsupported signature algorithm")

	// ErrMalformedHeader is returned when a Signature or Digest header
	// cannot be parsed.
	ErrMalformedHeader = errors.New("httpsig: malformed signature header")
)

// Key material errors.
var (
	// ErrInvalidKey is returned when key material is invalid (nil, wrong
	// type, insufficient size, etc.).
	ErrInvalidKey = errors.New("httpsig: invalid key material")
)

// Digest errors.
var (
	// ErrDigestMismatch is returned when Digest verification fails.
	ErrDigestMismatch = errors.New("httpsig: digest mismatch")

	// ErrDigestNotFound is returned when the Digest header is required
	// but not present.
	ErrDigestNotFound = errors.New("httpsig: digest not found")

	// ErrUnsupportedDigest is returned when the digest algorithm is not
	// supported.
	ErrUnsupportedDigest = errors.New("httpsig: unsupported digest algorithm")
)
