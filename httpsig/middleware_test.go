package httpsig

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware(t *testing.T) {
	cert, key := newTestCertificate(t, 0x42)

	signer, err := NewCertificateSigner(cert, key)
	require.NoError(t, err)

	var gotKeyID string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKeyID = KeyIDFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("nil resolver returns error", func(t *testing.T) {
		_, err := Middleware(MiddlewareConfig{})
		assert.ErrorIs(t, err, ErrNoResolver)
	})

	t.Run("valid signed request passes through", func(t *testing.T) {
		mw, err := Middleware(MiddlewareConfig{
			Verify: VerifyConfig{Resolver: CertificateHeaderResolver(nil)},
		})
		require.NoError(t, err)

		req := signedTestRequest(t, signer, cert, `{"a":1}`, nil)
		w := httptest.NewRecorder()
		mw(handler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, signer.KeyID(), gotKeyID)
	})

	t.Run("unsigned request rejected", func(t *testing.T) {
		mw, err := Middleware(MiddlewareConfig{
			Verify: VerifyConfig{Resolver: CertificateHeaderResolver(nil)},
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/v1/accounts", nil)
		w := httptest.NewRecorder()
		mw(handler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var body struct {
			TPPMessages []struct {
				Category string `json:"category"`
				Code     string `json:"code"`
			} `json:"tppMessages"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		require.Len(t, body.TPPMessages, 1)
		assert.Equal(t, "ERROR", body.TPPMessages[0].Category)
		assert.Equal(t, CodeSignatureMissing, body.TPPMessages[0].Code)
	})

	t.Run("tampered body rejected", func(t *testing.T) {
		mw, err := Middleware(MiddlewareConfig{
			Verify: VerifyConfig{Resolver: CertificateHeaderResolver(nil)},
		})
		require.NoError(t, err)

		req := signedTestRequest(t, signer, cert, `{"a":1}`, nil)
		req.Header.Set(HeaderDigest, "SHA-256=47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=")

		w := httptest.NewRecorder()
		mw(handler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Body.String(), CodeSignatureInvalid)
	})

	t.Run("custom error handler", func(t *testing.T) {
		var got error

		mw, err := Middleware(MiddlewareConfig{
			Verify: VerifyConfig{Resolver: CertificateHeaderResolver(nil)},
			OnError: func(w http.ResponseWriter, _ *http.Request, err error) {
				got = err
				w.WriteHeader(http.StatusForbidden)
			},
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/v1/accounts", nil)
		w := httptest.NewRecorder()
		mw(handler).ServeHTTP(w, req)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.ErrorIs(t, got, ErrSignatureNotFound)
	})
}

func TestKeyIDFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, KeyIDFromContext(req.Context()))
}

func TestMessageCode(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{ErrSignatureNotFound, CodeSignatureMissing},
		{ErrInvalidKey, CodeCertificateInvalid},
		{ErrMalformedHeader, CodeFormatError},
		{ErrDigestNotFound, CodeFormatError},
		{ErrDigestMismatch, CodeSignatureInvalid},
		{ErrSignatureInvalid, CodeSignatureInvalid},
		{errors.New("other"), CodeSignatureInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.code+"/"+tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.code, MessageCode(tt.err))
		})
	}
}
