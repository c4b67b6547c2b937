package httpx

import (
	"net/http"
	"testing"
)

func TestClientIP(t *testing.T) {
	cases := []struct {
		name       string
		remoteAddr string
		forwarded  string
		want       string
	}{
		{"forwarded header wins", "10.0.0.1:5000", "203.0.113.9", "203.0.113.9"},
		{"port stripped from remote addr", "10.0.0.1:5000", "", "10.0.0.1"},
		{"ipv6 remote addr", "[::1]:5000", "", "[::1]"},
		{"no port", "10.0.0.1", "", "10.0.0.1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := &http.Request{RemoteAddr: tc.remoteAddr, Header: http.Header{}}
			if tc.forwarded != "" {
				r.Header.Set("X-Forwarded-For", tc.forwarded)
			}
			if got := ClientIP(r); got != tc.want {
				t.Errorf("ClientIP(%q, fwd=%q) = %q, want %q", tc.remoteAddr, tc.forwarded, got, tc.want)
			}
		})
	}
}
