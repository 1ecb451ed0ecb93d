// Package tlsconfig builds the TLS client configuration used to reach a
// bank gateway: the system roots extended with the TPP trust store, and the
// WAC certificate as client certificate.
package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/vitalvas/tppclient/credentials"
)

// ErrTrustStore is returned when the configured trust store cannot be used.
var ErrTrustStore = errors.New("tlsconfig: cannot load trust store")

// Source provides the material of a TLS context. *credentials.Store
// implements it.
type Source interface {
	TrustStorePath() string
	TrustStorePassword() string
	WACKeyMaterial() (*tls.Certificate, bool)
}

var _ Source = (*credentials.Store)(nil)

// Option configures Build.
type Option func(*options)

type options struct {
	logger *logrus.Entry
}

// WithLogger sets the logger used for warnings while building the
// configuration. The standard logrus logger is used by default.
func WithLogger(logger *logrus.Entry) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

var systemCertPool = x509.SystemCertPool

// Build returns a new client TLS configuration for src.
//
// Certificates of the trust store are added to the system roots. When src
// has WAC key material it is presented as client certificate; otherwise the
// handshake runs without one.
func Build(src Source, opts ...Option) (*tls.Config, error) {
	o := options{logger: logrus.NewEntry(logrus.StandardLogger())}
	for _, opt := range opts {
		opt(&o)
	}

	roots, err := rootPool(o.logger, src.TrustStorePath(), src.TrustStorePassword())
	if err != nil {
		return nil, err
	}

	cfg := &tls.Config{
		MinVersion: tls.VersionTLS12,
		RootCAs:    roots,
	}

	if cert, ok := src.WACKeyMaterial(); ok {
		cfg.Certificates = []tls.Certificate{*cert}
	}

	return cfg, nil
}

func rootPool(logger *logrus.Entry, path, password string) (*x509.CertPool, error) {
	pool, err := systemCertPool()
	if err != nil {
		logger.Warnf("could not get system cert pool (trusted CAs). Using empty pool: %s", err)
		pool = x509.NewCertPool()
	}

	if path == "" {
		return pool, nil
	}

	certs, err := credentials.ReadTrustStore(path, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTrustStore, err)
	}

	for _, cert := range certs {
		pool.AddCert(cert)
	}

	return pool, nil
}
