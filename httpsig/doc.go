// Package httpsig implements the request signing scheme used by PSD2
// (Berlin Group NextGenPSD2) Open Banking gateways: a Digest header over the
// request body and a draft-cavage style Signature header over a fixed set of
// request headers, signed with the TPP's QSeal certificate.
//
// # Header Filtering
//
// Headers relayed from an inbound request are first passed through
// FilterHeaders, which lower-cases every name and drops hop-by-hop and
// proxy headers:
//
//	headers := httpsig.FilterHeaders(httpsig.Header{
//	    "X-Request-ID": {"99391c7e-ad88-49ec-a2ad-99ddcb1f7721"},
//	    "Host":         {"tpp.example.com"},
//	})
//
// # Digest
//
// SetDigest returns a copy of the header set carrying the body digest:
//
//	headers, err := httpsig.SetDigest(headers, body, httpsig.DigestSHA256)
//	// digest: SHA-256=47DEQpj8HBSa+/TImW+5JCeuQeRkm5NMpJWZG3hSuFU=
//
// # Signing
//
// A Signer is usually built from the QSeal certificate and its private key,
// which derives the keyId from the certificate serial number and issuer:
//
//	signer, err := httpsig.NewCertificateSigner(cert, key)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	value, err := httpsig.Sign(headers, signer)
//	// keyId="SN=1a2b3c,CA=CN=...",algorithm="rsa-sha256",headers="digest x-request-id",signature="..."
//
// Only the headers digest, x-request-id, psu-id, psu-corporate-id and
// tpp-redirect-uri are signed, always in that order.
//
// # Verifying
//
// Gateways and test doubles can check a received request with
// VerifyRequest or wrap a handler with Middleware:
//
//	mw, err := httpsig.Middleware(httpsig.MiddlewareConfig{
//	    Verify: httpsig.VerifyConfig{
//	        Resolver: httpsig.CertificateHeaderResolver(roots),
//	    },
//	})
package httpsig
