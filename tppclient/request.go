package tppclient

import (
	"strings"

	"github.com/vitalvas/tppclient/httpsig"
)

// Request describes one gateway call.
type Request struct {
	// Path is appended to the gateway URL.
	Path string `yaml:"path"`

	// Method defaults to GET.
	Method string `yaml:"method"`

	// Params are sent as query parameters. Values keep their order.
	Params map[string][]string `yaml:"params"`

	Headers httpsig.Header `yaml:"headers"`

	// Body is sent as application/json unless blank.
	Body string `yaml:"body"`
}

// SetHeader replaces the values of name with value.
func (r *Request) SetHeader(name, value string) {
	if r.Headers == nil {
		r.Headers = make(httpsig.Header)
	}

	r.Headers.Set(name, value)
}

// hasBody reports whether the body is sent. A blank body is neither sent
// nor digested.
func (r Request) hasBody() bool {
	return strings.TrimSpace(r.Body) != ""
}

func (r Request) digestBody() []byte {
	if !r.hasBody() {
		return nil
	}

	return []byte(r.Body)
}
