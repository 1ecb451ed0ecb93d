package tppclient

import (
	"crypto/tls"
	"crypto/x509"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/vitalvas/tppclient/credentials"
	"github.com/vitalvas/tppclient/httpsig"
)

// received is what the test gateway saw of a request.
type received struct {
	Method string
	Path   string
	Query  string
	Header http.Header
	Body   string
	Peer   string
}

// testGateway is a mutual TLS server that verifies request signatures the
// way a bank gateway does.
type testGateway struct {
	*httptest.Server

	mu       sync.Mutex
	hits     int
	requests []received
}

func (g *testGateway) last(t *testing.T) received {
	t.Helper()

	g.mu.Lock()
	defer g.mu.Unlock()

	require.NotEmpty(t, g.requests, "gateway received no request")

	return g.requests[len(g.requests)-1]
}

// count returns the number of requests that reached the gateway, signed
// or not.
func (g *testGateway) count() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.hits
}

func testCAPool(t *testing.T) *x509.CertPool {
	t.Helper()

	data, err := os.ReadFile(filepath.Join("testdata", "ca.pem"))
	require.NoError(t, err)

	pool := x509.NewCertPool()
	require.True(t, pool.AppendCertsFromPEM(data))

	return pool
}

func newTestGateway(t *testing.T, handler http.HandlerFunc) *testGateway {
	t.Helper()

	roots := testCAPool(t)

	verify, err := httpsig.Middleware(httpsig.MiddlewareConfig{
		Verify: httpsig.VerifyConfig{
			Resolver:        httpsig.CertificateHeaderResolver(roots),
			RequiredHeaders: []string{httpsig.HeaderDigest},
		},
		OnError: func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusUnauthorized)
		},
	})
	require.NoError(t, err)

	g := &testGateway{}

	record := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		peer := ""
		if len(r.TLS.PeerCertificates) > 0 {
			peer = r.TLS.PeerCertificates[0].Subject.CommonName
		}

		g.mu.Lock()
		g.requests = append(g.requests, received{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Header: r.Header.Clone(),
			Body:   string(body),
			Peer:   peer,
		})
		g.mu.Unlock()

		handler(w, r)
	})

	cert, err := tls.LoadX509KeyPair(filepath.Join("testdata", "server.pem"), filepath.Join("testdata", "server.key"))
	require.NoError(t, err)

	verified := verify(record)

	g.Server = httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		g.mu.Lock()
		g.hits++
		g.mu.Unlock()

		verified.ServeHTTP(w, r)
	}))
	g.TLS = &tls.Config{
		Certificates: []tls.Certificate{cert},
		ClientAuth:   tls.RequireAndVerifyClientCert,
		ClientCAs:    roots,
	}
	g.StartTLS()
	t.Cleanup(g.Close)

	return g
}

func testParams() credentials.CertParams {
	return credentials.CertParams{
		KeystorePath:   "testdata",
		TrustStorePath: filepath.Join("testdata", "ca.pem"),
		WACCertName:    "wac.p12",
		WACCertPass:    "wacpass",
		SealCertName:   "seal.p12",
		SealCertPass:   "sealpass",
		SealKeyAlias:   "seal1",
	}
}

func quietLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logrus.NewEntry(logger)
}

func newTestClient(t *testing.T, gatewayURL string, opts ...Option) *Client {
	t.Helper()

	c, err := New(gatewayURL, testParams(), append([]Option{WithLogger(quietLogger())}, opts...)...)
	require.NoError(t, err)

	return c
}
