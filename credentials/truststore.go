package credentials

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"
	"os"

	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

// ReadTrustStore reads CA certificates from path. The file may be a PEM
// bundle, DER encoded certificates, or a PKCS#12 file protected by
// password: either a Java trust store or a keystore whose certificates
// are all taken as trust anchors.
func ReadTrustStore(path, password string) ([]*x509.Certificate, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: cannot open empty filepath", ErrCredential)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: trust store: %w", ErrCredential, err)
	}

	certs, err := parseTrustStore(data, password)
	if err != nil {
		return nil, fmt.Errorf("%w: trust store %s: %w", ErrCredential, path, err)
	}

	return certs, nil
}

func parseTrustStore(data []byte, password string) ([]*x509.Certificate, error) {
	if bytes.Contains(data, []byte("-----BEGIN")) {
		return parsePEMCertificates(data)
	}

	if certs, err := x509.ParseCertificates(data); err == nil && len(certs) > 0 {
		return certs, nil
	}

	certs, err := pkcs12.DecodeTrustStore(data, password)
	switch {
	case err == nil:
		if len(certs) == 0 {
			return nil, ErrEmptyKeystore
		}

		return certs, nil
	case errors.Is(err, pkcs12.ErrIncorrectPassword):
		return nil, ErrIncorrectPassword
	}

	ks, err := decodeKeystore(data, password)
	if err != nil {
		return nil, err
	}

	certs = ks.Certificates()
	if len(certs) == 0 {
		return nil, ErrEmptyKeystore
	}

	return certs, nil
}

func parsePEMCertificates(data []byte) ([]*x509.Certificate, error) {
	var certs []*x509.Certificate

	for {
		var block *pem.Block

		block, data = pem.Decode(data)
		if block == nil {
			break
		}

		if block.Type != "CERTIFICATE" {
			continue
		}

		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformedKeystore, err)
		}

		certs = append(certs, cert)
	}

	if len(certs) == 0 {
		return nil, ErrEmptyKeystore
	}

	return certs, nil
}
