package httpsig

import (
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"fmt"
)

// Minimum RSA key size in bits.
const minRSAKeyBits = 2048

type rsaSHA256Signer struct {
	key   crypto.Signer
	keyID string
}

// NewRSASHA256Signer creates a Signer using RSASSA-PKCS1-v1_5 with SHA-256.
func NewRSASHA256Signer(keyID string, key *rsa.PrivateKey) (Signer, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: rsa private key must not be nil", ErrInvalidKey)
	}

	return newRSASigner(keyID, key)
}

// NewCertificateSigner creates an rsa-sha256 Signer whose key id is derived
// from cert (see KeyID). key may be any crypto.Signer backed by an RSA key,
// such as an *rsa.PrivateKey or a hardware token handle.
func NewCertificateSigner(cert *x509.Certificate, key crypto.Signer) (Signer, error) {
	if cert == nil {
		return nil, fmt.Errorf("%w: certificate must not be nil", ErrInvalidKey)
	}

	if key == nil {
		return nil, fmt.Errorf("%w: private key must not be nil", ErrInvalidKey)
	}

	keyID, err := KeyID(cert)
	if err != nil {
		return nil, err
	}

	return newRSASigner(keyID, key)
}

func newRSASigner(keyID string, key crypto.Signer) (Signer, error) {
	pub, ok := key.Public().(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: key must be rsa, got %T", ErrInvalidKey, key.Public())
	}

	if pub.N.BitLen() < minRSAKeyBits {
		return nil, fmt.Errorf("%w: rsa key must be at least %d bits", ErrInvalidKey, minRSAKeyBits)
	}

	return &rsaSHA256Signer{key: key, keyID: keyID}, nil
}

func (s *rsaSHA256Signer) Sign(message []byte) ([]byte, error) {
	digest := sha256.Sum256(message)

	return s.key.Sign(rand.Reader, digest[:], crypto.SHA256)
}

func (s *rsaSHA256Signer) Algorithm() Algorithm { return AlgorithmRSASHA256 }
func (s *rsaSHA256Signer) KeyID() string        { return s.keyID }

type rsaSHA256Verifier struct {
	key   *rsa.PublicKey
	keyID string
}

// NewRSASHA256Verifier creates a Verifier using RSASSA-PKCS1-v1_5 with SHA-256.
func NewRSASHA256Verifier(keyID string, key *rsa.PublicKey) (Verifier, error) {
	if key == nil {
		return nil, fmt.Errorf("%w: rsa public key must not be nil", ErrInvalidKey)
	}

	if key.N.BitLen() < minRSAKeyBits {
		return nil, fmt.Errorf("%w: rsa key must be at least %d bits", ErrInvalidKey, minRSAKeyBits)
	}

	return &rsaSHA256Verifier{key: key, keyID: keyID}, nil
}

// NewCertificateVerifier creates a Verifier for signatures made with the
// private key of cert.
func NewCertificateVerifier(cert *x509.Certificate) (Verifier, error) {
	if cert == nil {
		return nil, fmt.Errorf("%w: certificate must not be nil", ErrInvalidKey)
	}

	pub, ok := cert.PublicKey.(*rsa.PublicKey)
	if !ok {
		return nil, fmt.Errorf("%w: certificate key must be rsa, got %T", ErrInvalidKey, cert.PublicKey)
	}

	keyID, err := KeyID(cert)
	if err != nil {
		return nil, err
	}

	return NewRSASHA256Verifier(keyID, pub)
}

func (v *rsaSHA256Verifier) Verify(message, signature []byte) error {
	digest := sha256.Sum256(message)

	if err := rsa.VerifyPKCS1v15(v.key, crypto.SHA256, digest[:], signature); err != nil {
		return ErrSignatureInvalid
	}

	return nil
}

func (v *rsaSHA256Verifier) Algorithm() Algorithm { return AlgorithmRSASHA256 }
func (v *rsaSHA256Verifier) KeyID() string        { return v.keyID }
