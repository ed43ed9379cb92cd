package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mentorai/mentor/internal/testutil"
)

func TestRateLimiterBurst(t *testing.T) {
	rl := newRateLimiter(0.0001, 3)

	for i := 0; i < 3; i++ {
		if !rl.allow("10.0.0.1") {
			t.Fatalf("request %d should be allowed within burst", i+1)
		}
	}
	if rl.allow("10.0.0.1") {
		t.Error("request beyond burst should be denied")
	}
	// A different IP has its own bucket.
	if !rl.allow("10.0.0.2") {
		t.Error("fresh IP should be allowed")
	}
}

func TestRateLimitExceededReturns429(t *testing.T) {
	fx := newTestServer(t, testutil.NewMockLLM("ok"), func(cfg *ServerConfig) {
		cfg.RateBurst = 1
	})

	var last *httptest.ResponseRecorder
	for i := 0; i < 3; i++ {
		last = fx.do(http.MethodGet, "/api/rag/answer", "")
	}
	if last.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", last.Code)
	}
	if last.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header missing")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		xRealIP    string
		xff        string
		trustProxy bool
		want       string
	}{
		{name: "remote addr only", remoteAddr: "192.0.2.1:5000", want: "192.0.2.1"},
		{name: "proxy headers ignored when untrusted", remoteAddr: "192.0.2.1:5000", xRealIP: "203.0.113.9", want: "192.0.2.1"},
		{name: "x-real-ip trusted", remoteAddr: "192.0.2.1:5000", xRealIP: "203.0.113.9", trustProxy: true, want: "203.0.113.9"},
		{name: "xff first entry", remoteAddr: "192.0.2.1:5000", xff: "203.0.113.9, 192.0.2.1", trustProxy: true, want: "203.0.113.9"},
		{name: "invalid header falls back", remoteAddr: "192.0.2.1:5000", xRealIP: "not-an-ip", trustProxy: true, want: "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xRealIP != "" {
				req.Header.Set("X-Real-IP", tt.xRealIP)
			}
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := clientIP(req, tt.trustProxy); got != tt.want {
				t.Errorf("clientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}
