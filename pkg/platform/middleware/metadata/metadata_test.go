package metadata

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"lifeclock/pkg/requestcontext"
)

func TestClientIPFromRequest(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		remote  string
		want    string
	}{
		{"forwarded chain", map[string]string{"X-Forwarded-For": "203.0.113.7, 10.0.0.1"}, "10.0.0.2:1234", "203.0.113.7"},
		{"real ip", map[string]string{"X-Real-IP": " 198.51.100.3 "}, "10.0.0.2:1234", "198.51.100.3"},
		{"ipv4 remote", nil, "192.0.2.1:5555", "192.0.2.1"},
		{"ipv6 remote", nil, "[::1]:5555", "::1"},
		{"no port", nil, "192.0.2.9", "192.0.2.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, ClientIPFromRequest(req))
		})
	}
}

func TestClientMetadata(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	req.Header.Set("User-Agent", "lifeclock-cli/1.0")

	var ip, ua string
	ClientMetadata(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip = requestcontext.ClientIP(r.Context())
		ua = requestcontext.UserAgent(r.Context())
	})).ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "192.0.2.1", ip)
	assert.Equal(t, "lifeclock-cli/1.0", ua)
}
