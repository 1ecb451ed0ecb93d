// Package tppclient calls an Open-Banking gateway on behalf of a Third-Party
// Provider.
//
// Every call runs the same pipeline: the request headers are filtered, the
// body is digested, the headers are signed with the QSeal key and the
// request is sent over mutual TLS with the WAC certificate.
//
// Creating a client:
//
//	client, err := tppclient.New("https://api.bank.example", credentials.CertParams{
//	    KeystorePath: "/etc/tppclient/keys",
//	    SealCertName: "seal.p12",
//	    SealCertPass: "secret",
//	    WACCertName:  "wac.p12",
//	    WACCertPass:  "secret",
//	})
//
// Calling the gateway:
//
//	resp, err := client.CallGateway(ctx, tppclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/v1/accounts",
//	    Headers: httpsig.Header{
//	        "x-request-id": {"99391c7e-ad88-49ec-a2ad-99ddcb1f7721"},
//	        "psu-id":       {"PSU-1234"},
//	    },
//	})
//
// Errors are *ClientError values. Use errors.Is with ErrCredential,
// ErrDigest, ErrSigning, ErrTransport or ErrRequest to find the failing
// stage.
package tppclient
