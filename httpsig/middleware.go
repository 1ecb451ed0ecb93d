package httpsig

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
)

type keyIDKey struct{}

// KeyIDFromContext returns the keyId of the signature verified by
// Middleware, or "" when the request was not verified.
func KeyIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(keyIDKey{}).(string); ok {
		return id
	}

	return ""
}

// MiddlewareConfig configures the gateway-side verification middleware.
type MiddlewareConfig struct {
	Verify VerifyConfig

	// OnError is called when verification fails. When nil, a 401 response
	// with a tppMessages body is sent.
	OnError func(w http.ResponseWriter, r *http.Request, err error)
}

// Middleware returns an http middleware that rejects requests whose
// Signature or digest header does not verify. Handlers of accepted
// requests find the signer's keyId with KeyIDFromContext.
//
// It returns ErrNoResolver if VerifyConfig.Resolver is nil.
func Middleware(cfg MiddlewareConfig) (func(http.Handler) http.Handler, error) {
	if cfg.Verify.Resolver == nil {
		return nil, ErrNoResolver
	}

	onError := cfg.OnError
	if onError == nil {
		onError = writeTPPMessage
	}

	verifyCfg := cfg.Verify

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sig, err := verifyRequest(r, verifyCfg)
			if err != nil {
				onError(w, r, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), keyIDKey{}, sig.KeyID)))
		})
	}, nil
}

// Message codes of NextGenPSD2 error responses.
const (
	CodeSignatureMissing   = "SIGNATURE_MISSING"
	CodeSignatureInvalid   = "SIGNATURE_INVALID"
	CodeCertificateInvalid = "CERTIFICATE_INVALID"
	CodeFormatError        = "FORMAT_ERROR"
)

// MessageCode maps a verification error to its NextGenPSD2 message code.
func MessageCode(err error) string {
	switch {
	case errors.Is(err, ErrSignatureNotFound):
		return CodeSignatureMissing
	case errors.Is(err, ErrInvalidKey):
		return CodeCertificateInvalid
	case errors.Is(err, ErrMalformedHeader), errors.Is(err, ErrDigestNotFound):
		return CodeFormatError
	default:
		return CodeSignatureInvalid
	}
}

type tppMessage struct {
	Category string `json:"category"`
	Code     string `json:"code"`
	Text     string `json:"text,omitempty"`
}

func writeTPPMessage(w http.ResponseWriter, _ *http.Request, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)

	_ = json.NewEncoder(w).Encode(map[string][]tppMessage{
		"tppMessages": {{Category: "ERROR", Code: MessageCode(err), Text: err.Error()}},
	})
}
