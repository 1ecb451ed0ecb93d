package tppclient

import (
	"crypto/tls"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// newTransport returns a transport for a single call: a clone of
// http.DefaultTransport with its own connection pool and a copy of
// tlsConfig.
func newTransport(tlsConfig *tls.Config) *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.TLSClientConfig = tlsConfig.Clone()

	return t
}

// newHTTPClient wraps base with tracing and request logging.
func newHTTPClient(base http.RoundTripper, timeout time.Duration, logger *logrus.Entry) *http.Client {
	return &http.Client{
		Transport: otelhttp.NewTransport(loggingRoundTripper{
			transport: base,
			logger:    logger,
		}),
		Timeout: timeout,
	}
}

type loggingRoundTripper struct {
	transport http.RoundTripper
	logger    *logrus.Entry
}

func (lrt loggingRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()

	res, err := lrt.transport.RoundTrip(req)
	if err != nil {
		lrt.logger.Errorf("%s: %s", req.URL.String(), err)
		return nil, err
	}

	lrt.logger.
		WithField("response", fmt.Sprintf("%s %d: %s", req.Method, res.StatusCode, time.Since(start))).
		Debug(req.URL.String())

	return res, nil
}
