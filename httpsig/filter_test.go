package httpsig

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilterHeaders(t *testing.T) {
	t.Run("drops relay headers case-insensitively", func(t *testing.T) {
		in := Header{
			"Cookie":            {"session=1"},
			"HOST":              {"tpp.example.com"},
			"Content-Length":    {"42"},
			"X-Forwarded-For":   {"10.0.0.1"},
			"x-forwarded-proto": {"https"},
			"X-Request-ID":      {"abc"},
			"PSU-ID":            {"123"},
		}

		out := FilterHeaders(in)

		assert.Equal(t, Header{
			"x-request-id": {"abc"},
			"psu-id":       {"123"},
		}, out)
	})

	t.Run("every relay header is dropped", func(t *testing.T) {
		in := Header{}
		for name := range dontRelay {
			in[strings.ToUpper(name)] = []string{"v"}
		}

		assert.Empty(t, FilterHeaders(in))
	})

	t.Run("surviving keys are lower case", func(t *testing.T) {
		out := FilterHeaders(Header{"TPP-Redirect-URI": {"https://tpp.example.com/cb"}, "Content-Type": {"application/json"}})

		for k := range out {
			assert.Equal(t, strings.ToLower(k), k)
		}
		assert.Len(t, out, 2)
	})

	t.Run("input is not modified", func(t *testing.T) {
		in := Header{"Cookie": {"a"}, "X-Request-ID": {"abc"}}

		FilterHeaders(in)

		assert.Equal(t, Header{"Cookie": {"a"}, "X-Request-ID": {"abc"}}, in)
	})

	t.Run("case variants merge deterministically", func(t *testing.T) {
		in := Header{"x-custom": {"b"}, "X-Custom": {"a"}}

		for range 20 {
			assert.Equal(t, Header{"x-custom": {"a", "b"}}, FilterHeaders(in))
		}
	})

	t.Run("value order preserved", func(t *testing.T) {
		out := FilterHeaders(Header{"PSU-ID": {"3", "1", "2"}})
		assert.Equal(t, []string{"3", "1", "2"}, out["psu-id"])
	})

	t.Run("empty and nil input", func(t *testing.T) {
		assert.Empty(t, FilterHeaders(Header{}))
		assert.Empty(t, FilterHeaders(nil))
	})
}

func TestIsRelayed(t *testing.T) {
	assert.False(t, IsRelayed("Cookie"))
	assert.False(t, IsRelayed("user-agent"))
	assert.True(t, IsRelayed("X-Request-ID"))
	assert.True(t, IsRelayed("Authorization"))
}
