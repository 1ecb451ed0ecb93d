package credentials

import "path/filepath"

// CertParams locates the seal and WAC keystores of a TPP.
//
// Both keystores live under KeystorePath. The WAC keystore is optional:
// when WACCertName is empty no client certificate is presented.
type CertParams struct {
	KeystorePath string

	TrustStorePath     string
	TrustStorePassword string

	WACCertName string
	WACCertPass string
	WACKeyAlias string

	SealCertName string
	SealCertPass string
	SealKeyAlias string
}

// SealKeystoreFile returns the path of the seal keystore.
func (p CertParams) SealKeystoreFile() string {
	return filepath.Join(p.KeystorePath, p.SealCertName)
}

// WACKeystoreFile returns the path of the WAC keystore, or "" when no WAC
// keystore is configured.
func (p CertParams) WACKeystoreFile() string {
	if p.WACCertName == "" {
		return ""
	}

	return filepath.Join(p.KeystorePath, p.WACCertName)
}
