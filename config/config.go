// Package config loads the client configuration from a YAML file and
// TPPCLIENT_ prefixed environment variables.
package config

import (
	"errors"
	"time"

	"github.com/vitalvas/tppclient/credentials"
	"github.com/vitalvas/tppclient/logging"
)

// Config is the complete client configuration.
type Config struct {
	Logging      Logging      `mapstructure:"logging" yaml:"logging"`
	Gateway      Gateway      `mapstructure:"gateway" yaml:"gateway"`
	Certificates Certificates `mapstructure:"certificates" yaml:"certificates"`
}

// Logging holds the log settings of the client.
type Logging struct {
	Level logging.Level `mapstructure:"level" yaml:"level"`
}

// Gateway describes the bank gateway to call.
type Gateway struct {
	URL string `mapstructure:"url" yaml:"url"`

	// Timeout bounds one call. Zero disables it.
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout"`

	// GenerateRequestID sets a UUID x-request-id on requests without one.
	GenerateRequestID bool `mapstructure:"generate_request_id" yaml:"generate_request_id"`
}

// Certificates locates the seal and WAC keystores and the trust store.
type Certificates struct {
	KeystorePath       string   `mapstructure:"keystore_path" yaml:"keystore_path"`
	TrustStorePath     string   `mapstructure:"truststore_path" yaml:"truststore_path"`
	TrustStorePassword Password `mapstructure:"truststore_password" yaml:"truststore_password"`

	WACCertName string   `mapstructure:"wac_cert_name" yaml:"wac_cert_name"`
	WACCertPass Password `mapstructure:"wac_cert_pass" yaml:"wac_cert_pass"`
	WACKeyAlias string   `mapstructure:"wac_key_alias" yaml:"wac_key_alias"`

	SealCertName string   `mapstructure:"seal_cert_name" yaml:"seal_cert_name"`
	SealCertPass Password `mapstructure:"seal_cert_pass" yaml:"seal_cert_pass"`
	SealKeyAlias string   `mapstructure:"seal_key_alias" yaml:"seal_key_alias"`
}

// CertParams converts c for credentials.Load.
func (c Certificates) CertParams() credentials.CertParams {
	return credentials.CertParams{
		KeystorePath:       c.KeystorePath,
		TrustStorePath:     c.TrustStorePath,
		TrustStorePassword: string(c.TrustStorePassword),
		WACCertName:        c.WACCertName,
		WACCertPass:        string(c.WACCertPass),
		WACKeyAlias:        c.WACKeyAlias,
		SealCertName:       c.SealCertName,
		SealCertPass:       string(c.SealCertPass),
		SealKeyAlias:       c.SealKeyAlias,
	}
}

// Validate reports configuration that cannot work.
func (c *Config) Validate() error {
	var errs []error

	if c.Certificates.SealCertName == "" {
		errs = append(errs, errors.New("certificates.seal_cert_name is required"))
	}

	if c.Gateway.Timeout < 0 {
		errs = append(errs, errors.New("gateway.timeout must not be negative"))
	}

	return errors.Join(errs...)
}
