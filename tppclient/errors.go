package tppclient

import (
	"errors"
	"fmt"
)

// Error kinds carried by ClientError.
var (
	// ErrCredential marks failures to load or use the seal and WAC
	// keystores.
	ErrCredential = errors.New("tppclient: credential error")

	// ErrDigest marks failures to digest the request body.
	ErrDigest = errors.New("tppclient: digest error")

	// ErrSigning marks failures to sign the request headers.
	ErrSigning = errors.New("tppclient: signing error")

	// ErrRequest marks requests that cannot be assembled, such as an
	// invalid URI or header.
	ErrRequest = errors.New("tppclient: invalid request")

	// ErrTransport marks TLS and network failures, including reading the
	// response.
	ErrTransport = errors.New("tppclient: transport error")
)

// ErrInvalidHeader is returned by RequestBuilder.Build for header names or
// values that cannot be sent.
var ErrInvalidHeader = errors.New("tppclient: invalid header")

// ClientError is returned by every failing Client operation. Op names the
// pipeline stage, Kind is one of the Err* kinds above and Err is the cause.
type ClientError struct {
	Op   string
	Kind error
	Err  error
}

// Error returns "tppclient: <op>: <cause>".
func (e *ClientError) Error() string {
	return fmt.Sprintf("tppclient: %s: %v", e.Op, e.Err)
}

// Unwrap returns both the kind and the cause so errors.Is matches either.
func (e *ClientError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
