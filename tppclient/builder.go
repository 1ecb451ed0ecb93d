package tppclient

import (
	"context"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/vitalvas/tppclient/httpsig"
	"golang.org/x/net/http/httpguts"
)

const contentTypeJSON = "application/json; charset=UTF-8"

// RequestBuilder assembles an outbound *http.Request from a Request.
// Errors are collected and reported by Build.
type RequestBuilder struct {
	method string
	uri    string
	header http.Header
	params url.Values
	body   string
	err    error
}

// NewRequestBuilder returns a builder for method. An empty method means
// GET.
func NewRequestBuilder(method string) *RequestBuilder {
	if method == "" {
		method = http.MethodGet
	}

	return &RequestBuilder{
		method: method,
		header: make(http.Header),
		params: make(url.Values),
	}
}

// AddRequest adds the headers, parameters and body of req.
func (b *RequestBuilder) AddRequest(req Request) *RequestBuilder {
	return b.
		AddHeaders(req.Headers).
		AddParams(req.Params).
		AddBody(req.Body)
}

// AddHeaders adds every value of h. Names are added in sorted order;
// values keep their order.
func (b *RequestBuilder) AddHeaders(h httpsig.Header) *RequestBuilder {
	for _, name := range slices.Sorted(maps.Keys(h)) {
		for _, value := range h[name] {
			b.addHeader(name, value)
		}
	}

	return b
}

// AddParams adds params as query parameters. A key with several values
// produces one pair per value.
func (b *RequestBuilder) AddParams(params map[string][]string) *RequestBuilder {
	for key, values := range params {
		for _, v := range values {
			b.params.Add(key, v)
		}
	}

	return b
}

// AddBody sets the JSON body. Blank bodies are ignored.
func (b *RequestBuilder) AddBody(body string) *RequestBuilder {
	if strings.TrimSpace(body) == "" {
		return b
	}

	b.body = body
	b.header.Set("Content-Type", contentTypeJSON)

	return b
}

// SetURI sets the target URI. Query parameters already present in uri are
// kept and the added parameters follow them.
func (b *RequestBuilder) SetURI(uri string) *RequestBuilder {
	b.uri = uri
	return b
}

// ReplaceHeader removes every value of name and adds value as its only
// value.
func (b *RequestBuilder) ReplaceHeader(name, value string) *RequestBuilder {
	b.header.Del(name)
	b.addHeader(name, value)

	return b
}

func (b *RequestBuilder) addHeader(name, value string) {
	switch {
	case !httpguts.ValidHeaderFieldName(name):
		b.setErr(fmt.Errorf("%w: name %q", ErrInvalidHeader, name))
	case !httpguts.ValidHeaderFieldValue(value):
		b.setErr(fmt.Errorf("%w: value of %s", ErrInvalidHeader, name))
	default:
		b.header.Add(name, value)
	}
}

func (b *RequestBuilder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

// Build returns the assembled request bound to ctx.
func (b *RequestBuilder) Build(ctx context.Context) (*http.Request, error) {
	if b.err != nil {
		return nil, b.err
	}

	u, err := url.Parse(b.uri)
	if err != nil {
		return nil, err
	}

	if !u.IsAbs() {
		return nil, fmt.Errorf("uri %q is not absolute", b.uri)
	}

	if len(b.params) > 0 {
		query := b.params.Encode()
		if u.RawQuery != "" {
			query = u.RawQuery + "&" + query
		}

		u.RawQuery = query
	}

	var body io.Reader = http.NoBody
	if b.body != "" {
		body = strings.NewReader(b.body)
	}

	req, err := http.NewRequestWithContext(ctx, b.method, u.String(), body)
	if err != nil {
		return nil, err
	}

	req.Header = b.header.Clone()

	return req, nil
}
