package credentials

import (
	"crypto"
	"crypto/rsa"
	"crypto/tls"
	"crypto/x509"
	"encoding/base64"
	"fmt"
)

// Store holds the resolved seal and WAC credentials of a TPP. It is
// read-only after Load and safe for concurrent use.
type Store struct {
	params CertParams

	seal      *Keystore
	sealEntry *Entry

	wac      *Keystore
	wacEntry *Entry
}

// Load opens the seal keystore and, when configured, the WAC keystore
// described by params. Every error wraps ErrCredential.
//
// The seal entry must hold an RSA key since requests are signed with
// rsa-sha256.
func Load(params CertParams) (*Store, error) {
	if params.SealCertName == "" {
		return nil, fmt.Errorf("%w: no seal keystore configured", ErrCredential)
	}

	s := &Store{params: params}

	var err error

	s.seal, s.sealEntry, err = loadEntry(params.SealKeystoreFile(), params.SealCertPass, params.SealKeyAlias)
	if err != nil {
		return nil, fmt.Errorf("%w: seal keystore %s: %w", ErrCredential, params.SealKeystoreFile(), err)
	}

	if _, ok := s.sealEntry.PrivateKey.Public().(*rsa.PublicKey); !ok {
		return nil, fmt.Errorf("%w: seal keystore %s: %w: %T", ErrCredential, params.SealKeystoreFile(), ErrUnsupportedKey, s.sealEntry.PrivateKey)
	}

	if path := params.WACKeystoreFile(); path != "" {
		s.wac, s.wacEntry, err = loadEntry(path, params.WACCertPass, params.WACKeyAlias)
		if err != nil {
			return nil, fmt.Errorf("%w: wac keystore %s: %w", ErrCredential, path, err)
		}
	}

	return s, nil
}

func loadEntry(path, password, alias string) (*Keystore, *Entry, error) {
	ks, err := OpenKeystore(path, password)
	if err != nil {
		return nil, nil, err
	}

	entry, err := ks.ResolveKeyAlias(alias)
	if err != nil {
		return nil, nil, err
	}

	return ks, entry, nil
}

// SealKeyAlias returns the alias of the seal entry in use.
func (s *Store) SealKeyAlias() string {
	return s.sealEntry.Alias
}

// SealCertificate returns the QSeal certificate.
func (s *Store) SealCertificate() *x509.Certificate {
	return s.sealEntry.Certificate
}

// SealPrivateKey returns the QSeal private key.
func (s *Store) SealPrivateKey() crypto.Signer {
	return s.sealEntry.PrivateKey
}

// SealKeystore returns the decoded seal keystore.
func (s *Store) SealKeystore() *Keystore {
	return s.seal
}

// SignatureCertificate returns the base64 encoded DER form of the QSeal
// certificate, as sent in the tpp-signature-certificate header.
func (s *Store) SignatureCertificate() string {
	return base64.StdEncoding.EncodeToString(s.sealEntry.Certificate.Raw)
}

// WACKeyMaterial returns the WAC client certificate for mutual TLS. The
// second result is false when no WAC keystore is configured.
func (s *Store) WACKeyMaterial() (*tls.Certificate, bool) {
	if s.wacEntry == nil {
		return nil, false
	}

	chain := make([][]byte, 0, len(s.wacEntry.Chain))
	for _, c := range s.wacEntry.Chain {
		chain = append(chain, c.Raw)
	}

	return &tls.Certificate{
		Certificate: chain,
		PrivateKey:  s.wacEntry.PrivateKey,
		Leaf:        s.wacEntry.Certificate,
	}, true
}

// TrustStorePath returns the configured trust store path, or "".
func (s *Store) TrustStorePath() string {
	return s.params.TrustStorePath
}

// TrustStorePassword returns the password of a PKCS#12 trust store.
func (s *Store) TrustStorePassword() string {
	return s.params.TrustStorePassword
}
