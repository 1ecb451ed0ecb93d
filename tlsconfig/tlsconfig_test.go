package tlsconfig

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/tppclient/credentials"
)

type fakeSource struct {
	path     string
	password string
	cert     *tls.Certificate
}

func (s fakeSource) TrustStorePath() string     { return s.path }
func (s fakeSource) TrustStorePassword() string { return s.password }

func (s fakeSource) WACKeyMaterial() (*tls.Certificate, bool) {
	return s.cert, s.cert != nil
}

func loadStore(t *testing.T, wac bool) *credentials.Store {
	t.Helper()

	params := credentials.CertParams{
		KeystorePath:   "testdata",
		TrustStorePath: filepath.Join("testdata", "ca.pem"),
		SealCertName:   "seal.p12",
		SealCertPass:   "sealpass",
	}

	if wac {
		params.WACCertName = "wac.p12"
		params.WACCertPass = "wacpass"
	}

	store, err := credentials.Load(params)
	require.NoError(t, err)

	return store
}

// newGateway starts a TLS server that requires a client certificate issued
// by the test CA.
func newGateway(t *testing.T) *httptest.Server {
	t.Helper()

	cert, err := tls.LoadX509KeyPair(filepath.Join("testdata", "server.pem"), filepath.Join("testdata", "server.key"))
	require.NoError(t, err)

	caPEM, err := os.ReadFile(filepath.Join("testdata", "ca.pem"))
	require.NoError(t, err)

	clientCAs := x509.NewCertPool()
	require.True(t, clientCAs.AppendCertsFromPEM(caPEM))

	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, r.TLS.PeerCertificates[0].Subject.CommonName)
	}))
	srv.TLS = &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		ClientCAs:    clientCAs,
	}
	srv.StartTLS()
	t.Cleanup(srv.Close)

	return srv
}

func get(t *testing.T, cfg *tls.Config, url string) (string, error) {
	t.Helper()

	transport := &http.Transport{TLSClientConfig: cfg}
	defer transport.CloseIdleConnections()

	resp, err := (&http.Client{Transport: transport}).Get(url)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)

	return string(body), err
}

func TestBuild(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := Build(fakeSource{})
		require.NoError(t, err)

		assert.Equal(t, uint16(tls.VersionTLS12), cfg.MinVersion)
		assert.False(t, cfg.InsecureSkipVerify)
		assert.NotNil(t, cfg.RootCAs)
		assert.Empty(t, cfg.Certificates)
	})

	t.Run("system pool failure logs through the given logger", func(t *testing.T) {
		orig := systemCertPool
		systemCertPool = func() (*x509.CertPool, error) { return nil, errors.New("no system roots") }
		t.Cleanup(func() { systemCertPool = orig })

		logger, hook := logtest.NewNullLogger()

		cfg, err := Build(fakeSource{path: filepath.Join("testdata", "ca.pem")}, WithLogger(logrus.NewEntry(logger)))
		require.NoError(t, err)

		entry := hook.LastEntry()
		require.NotNil(t, entry)
		assert.Equal(t, logrus.WarnLevel, entry.Level)
		assert.Contains(t, entry.Message, "no system roots")

		ca, err := credentials.ReadTrustStore(filepath.Join("testdata", "ca.pem"), "")
		require.NoError(t, err)

		want := x509.NewCertPool()
		want.AddCert(ca[0])
		assert.True(t, want.Equal(cfg.RootCAs))
	})

	t.Run("fresh config per call", func(t *testing.T) {
		src := loadStore(t, true)

		a, err := Build(src)
		require.NoError(t, err)

		b, err := Build(src)
		require.NoError(t, err)

		assert.NotSame(t, a, b)
		assert.NotSame(t, a.RootCAs, b.RootCAs)
	})

	t.Run("client certificate", func(t *testing.T) {
		cfg, err := Build(loadStore(t, true))
		require.NoError(t, err)

		require.Len(t, cfg.Certificates, 1)
		assert.Equal(t, "2b3c4d", cfg.Certificates[0].Leaf.SerialNumber.Text(16))
	})

	t.Run("missing trust store", func(t *testing.T) {
		_, err := Build(fakeSource{path: filepath.Join("testdata", "missing.pem")})
		assert.ErrorIs(t, err, ErrTrustStore)
		assert.ErrorIs(t, err, credentials.ErrCredential)
	})
}

func TestBuildHandshake(t *testing.T) {
	srv := newGateway(t)

	t.Run("mutual tls", func(t *testing.T) {
		cfg, err := Build(loadStore(t, true))
		require.NoError(t, err)

		body, err := get(t, cfg, srv.URL)
		require.NoError(t, err)
		assert.Equal(t, "Example TPP QWAC", body)
	})

	t.Run("no client certificate", func(t *testing.T) {
		cfg, err := Build(loadStore(t, false))
		require.NoError(t, err)

		_, err = get(t, cfg, srv.URL)
		assert.Error(t, err)
	})

	t.Run("server not in trust store", func(t *testing.T) {
		store := loadStore(t, true)
		cert, _ := store.WACKeyMaterial()

		cfg, err := Build(fakeSource{cert: cert})
		require.NoError(t, err)

		_, err = get(t, cfg, srv.URL)
		var unknown x509.UnknownAuthorityError
		assert.ErrorAs(t, err, &unknown)
	})

	t.Run("hostname is verified", func(t *testing.T) {
		cfg, err := Build(loadStore(t, true))
		require.NoError(t, err)
		cfg.ServerName = "bank.example"

		_, err = get(t, cfg, srv.URL)
		var hostname x509.HostnameError
		assert.ErrorAs(t, err, &hostname)
	})
}
