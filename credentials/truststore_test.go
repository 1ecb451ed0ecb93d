package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	pkcs12 "software.sslmate.com/src/go-pkcs12"
)

func TestReadTrustStore(t *testing.T) {
	t.Run("pem bundle", func(t *testing.T) {
		certs, err := ReadTrustStore(filepath.Join("testdata", "ca.pem"), "")
		require.NoError(t, err)
		require.Len(t, certs, 1)
		assert.Equal(t, "Test QTSP CA", certs[0].Subject.CommonName)
	})

	t.Run("der certificate", func(t *testing.T) {
		certs, err := ReadTrustStore(filepath.Join("testdata", "ca.pem"), "")
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "ca.der")
		require.NoError(t, os.WriteFile(path, certs[0].Raw, 0o600))

		der, err := ReadTrustStore(path, "")
		require.NoError(t, err)
		require.Len(t, der, 1)
		assert.True(t, der[0].Equal(certs[0]))
	})

	t.Run("pkcs12", func(t *testing.T) {
		certs, err := ReadTrustStore(filepath.Join("testdata", "seal.p12"), "sealpass")
		require.NoError(t, err)
		assert.Len(t, certs, 2)
	})

	t.Run("pkcs12 openssl 3 defaults", func(t *testing.T) {
		certs, err := ReadTrustStore(filepath.Join("testdata", "modern.p12"), "changeit")
		require.NoError(t, err)
		require.Len(t, certs, 2)
		assert.Equal(t, "Example TPP QSeal", certs[0].Subject.CommonName)
	})

	t.Run("java trust store", func(t *testing.T) {
		ca, err := ReadTrustStore(filepath.Join("testdata", "ca.pem"), "")
		require.NoError(t, err)

		data, err := pkcs12.Modern2023.EncodeTrustStore(ca, "trustpass")
		require.NoError(t, err)

		path := filepath.Join(t.TempDir(), "truststore.p12")
		require.NoError(t, os.WriteFile(path, data, 0o600))

		certs, err := ReadTrustStore(path, "trustpass")
		require.NoError(t, err)
		require.Len(t, certs, 1)
		assert.True(t, certs[0].Equal(ca[0]))

		_, err = ReadTrustStore(path, "wrong")
		assert.ErrorIs(t, err, ErrIncorrectPassword)
	})

	t.Run("pkcs12 wrong password", func(t *testing.T) {
		_, err := ReadTrustStore(filepath.Join("testdata", "seal.p12"), "nope")
		assert.ErrorIs(t, err, ErrCredential)
		assert.ErrorIs(t, err, ErrIncorrectPassword)
	})

	t.Run("pem without certificates", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "key.pem")
		require.NoError(t, os.WriteFile(path, []byte("-----BEGIN NOTHING-----\nAAAA\n-----END NOTHING-----\n"), 0o600))

		_, err := ReadTrustStore(path, "")
		assert.ErrorIs(t, err, ErrCredential)
		assert.ErrorIs(t, err, ErrEmptyKeystore)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := ReadTrustStore("", "")
		assert.ErrorIs(t, err, ErrCredential)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadTrustStore(filepath.Join("testdata", "missing.pem"), "")
		assert.ErrorIs(t, err, os.ErrNotExist)
	})
}
