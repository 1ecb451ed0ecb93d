package tppclient

import (
	"io"
	"net/http"
)

// Response is the materialised gateway response.
type Response struct {
	Status int    `yaml:"status"`
	Body   string `yaml:"body"`

	// Headers holds every response header line. Repeated lines of the same
	// header are merged in order of appearance.
	Headers map[string][]string `yaml:"headers"`
}

// readResponse reads the whole body of resp. It does not close it.
func readResponse(resp *http.Response) (*Response, error) {
	var body []byte

	if resp.Body != nil {
		var err error

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
	}

	return &Response{
		Status:  resp.StatusCode,
		Body:    string(body),
		Headers: collectHeaders(resp.Header),
	}, nil
}

// collectHeaders copies h. net/http already merges repeated header lines
// under their canonical name, keeping every value in wire order.
func collectHeaders(h http.Header) map[string][]string {
	out := make(map[string][]string, len(h))
	for name, values := range h {
		out[name] = append(out[name], values...)
	}

	return out
}
