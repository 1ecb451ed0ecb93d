package tppclient

import (
	"context"
	"crypto/tls"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vitalvas/tppclient/credentials"
	"github.com/vitalvas/tppclient/httpsig"
	"github.com/vitalvas/tppclient/tlsconfig"
)

// DefaultTimeout bounds a whole gateway call unless WithTimeout is used.
const DefaultTimeout = 30 * time.Second

// Pipeline stages reported in ClientError.Op.
const (
	OpLoad     = "load"
	OpDigest   = "digest"
	OpSign     = "sign"
	OpAssemble = "assemble"
	OpExecute  = "execute"
	OpRead     = "read"
)

// Client calls a gateway with signed requests over mutual TLS. It is
// read-only after New and safe for concurrent use.
type Client struct {
	gatewayURL string

	store     *credentials.Store
	signer    httpsig.Signer
	tlsConfig *tls.Config

	logger    *logrus.Entry
	timeout   time.Duration
	requestID func() string
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger. The default is the logrus standard logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithTimeout bounds each call, including reading the response body. Zero
// disables the timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithRequestIDGenerator sets x-request-id on requests that have none,
// using fn to produce the value. GenerateUUIDv4 and GenerateUUIDv7 fit.
func WithRequestIDGenerator(fn func() string) Option {
	return func(c *Client) {
		c.requestID = fn
	}
}

// New loads the credentials described by params and prepares the TLS
// context. gatewayURL is the base URL used by CallGateway; it may be empty
// when every call goes through CallGatewayURL.
func New(gatewayURL string, params credentials.CertParams, opts ...Option) (*Client, error) {
	c := &Client{
		gatewayURL: gatewayURL,
		logger:     logrus.NewEntry(logrus.StandardLogger()),
		timeout:    DefaultTimeout,
	}

	for _, opt := range opts {
		opt(c)
	}

	var err error

	c.store, err = credentials.Load(params)
	if err != nil {
		return nil, fail(c.logger, OpLoad, ErrCredential, err)
	}

	c.signer, err = httpsig.NewCertificateSigner(c.store.SealCertificate(), c.store.SealPrivateKey())
	if err != nil {
		return nil, fail(c.logger, OpLoad, ErrCredential, err)
	}

	if c.store.TrustStorePath() != "" {
		c.logger.Debugf("Using trust store %s", c.store.TrustStorePath())
	}

	c.tlsConfig, err = tlsconfig.Build(c.store, tlsconfig.WithLogger(c.logger))
	if err != nil {
		return nil, fail(c.logger, OpLoad, ErrTransport, err)
	}

	c.logger.Debugf("Signing with seal alias %s, keyId %s", c.store.SealKeyAlias(), c.signer.KeyID())

	return c, nil
}

// Credentials returns the loaded credential store.
func (c *Client) Credentials() *credentials.Store {
	return c.store
}

// CallGateway sends req to the gateway URL given to New.
func (c *Client) CallGateway(ctx context.Context, req Request) (*Response, error) {
	return c.CallGatewayURL(ctx, c.gatewayURL, req)
}

// CallGatewayURL sends req to gatewayURL + req.Path and returns the
// response, whatever its status code. No request is sent when any step
// before execution fails.
func (c *Client) CallGatewayURL(ctx context.Context, gatewayURL string, req Request) (*Response, error) {
	httpReq, logger, err := c.buildRequest(ctx, gatewayURL, req)
	if err != nil {
		return nil, err
	}

	return c.execute(httpReq, logger)
}

func (c *Client) buildRequest(ctx context.Context, gatewayURL string, req Request) (*http.Request, *logrus.Entry, error) {
	uri := gatewayURL + req.Path

	headers := httpsig.FilterHeaders(req.Headers)

	if c.requestID != nil && !headers.Has(httpsig.HeaderXRequestID) {
		headers.Set(httpsig.HeaderXRequestID, c.requestID())
	}

	logger := c.logger
	if id := headers.Get(httpsig.HeaderXRequestID); id != "" {
		logger = logger.WithField("req-id", id)
	}

	logger.Debugf("Calling %s", uri)

	headers, err := httpsig.SetDigest(headers, req.digestBody(), httpsig.DigestSHA256)
	if err != nil {
		return nil, nil, fail(logger, OpDigest, ErrDigest, err)
	}

	logger.Debugf("Digest is: %s", headers.Get(httpsig.HeaderDigest))
	logger.Tracef("Signing string: %q", httpsig.SigningString(headers))

	signature, err := httpsig.Sign(headers, c.signer)
	if err != nil {
		return nil, nil, fail(logger, OpSign, ErrSigning, err)
	}

	signed := req
	signed.Headers = headers

	httpReq, err := NewRequestBuilder(req.Method).
		AddRequest(signed).
		ReplaceHeader(httpsig.HeaderSignature, signature).
		ReplaceHeader(httpsig.HeaderSignatureCertificate, c.store.SignatureCertificate()).
		SetURI(uri).
		Build(ctx)
	if err != nil {
		return nil, nil, fail(logger, OpAssemble, ErrRequest, err)
	}

	return httpReq, logger, nil
}

func (c *Client) execute(req *http.Request, logger *logrus.Entry) (*Response, error) {
	transport := newTransport(c.tlsConfig)
	defer transport.CloseIdleConnections()

	resp, err := newHTTPClient(transport, c.timeout, logger).Do(req)
	if err != nil {
		return nil, fail(logger, OpExecute, ErrTransport, err)
	}
	defer resp.Body.Close()

	out, err := readResponse(resp)
	if err != nil {
		return nil, fail(logger, OpRead, ErrTransport, err)
	}

	return out, nil
}

func fail(logger *logrus.Entry, op string, kind, err error) error {
	logger.Errorf("Error calling gateway: %s: %s", op, err)

	return &ClientError{Op: op, Kind: kind, Err: err}
}
