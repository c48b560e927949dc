package xhttp

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClientIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{
			name:       "remote addr with port",
			remoteAddr: "192.0.2.10:54321",
			want:       "192.0.2.10",
		},
		{
			name:       "ipv6 remote addr",
			remoteAddr: "[2001:db8::1]:8080",
			want:       "2001:db8::1",
		},
		{
			name:       "remote addr without port",
			remoteAddr: "192.0.2.10",
			want:       "192.0.2.10",
		},
		{
			name:       "first forwarded hop wins",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{XForwardedFor: "203.0.113.7, 10.0.0.2, 10.0.0.3"},
			want:       "203.0.113.7",
		},
		{
			name:       "forwarded hop with port",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{XForwardedFor: "203.0.113.7:443"},
			want:       "203.0.113.7",
		},
		{
			name:       "real ip when not forwarded",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{XRealIP: "198.51.100.4"},
			want:       "198.51.100.4",
		},
		{
			name:       "blank forwarded header falls through",
			remoteAddr: "10.0.0.1:80",
			headers:    map[string]string{XForwardedFor: " , 10.0.0.2"},
			want:       "10.0.0.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequestWithContext(t.Context(), http.MethodGet, "/health", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}

			if got := ClientIP(req); got != tt.want {
				t.Errorf("ClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRequestIDFrom(t *testing.T) {
	t.Parallel()

	if _, ok := RequestIDFrom(t.Context()); ok {
		t.Error("RequestIDFrom() found an id in a bare context")
	}
	if _, ok := RequestIDFrom(WithRequestID(t.Context(), "")); ok {
		t.Error("RequestIDFrom() accepted an empty id")
	}
	if got, ok := RequestIDFrom(WithRequestID(t.Context(), "abc")); !ok || got != "abc" {
		t.Errorf("RequestIDFrom() = %q, %v, want abc, true", got, ok)
	}
}
