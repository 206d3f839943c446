package limiter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/time/rate"
)

func TestGetLimiterPerIP(t *testing.T) {
	l := NewIPRateLimiter(1, 2)

	a := l.GetLimiter("10.0.0.1")
	b := l.GetLimiter("10.0.0.2")
	if a == b {
		t.Error("distinct IPs must get distinct buckets")
	}
	if l.GetLimiter("10.0.0.1") != a {
		t.Error("same IP must reuse its bucket")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		remoteAddr string
		want       string
	}{
		{remoteAddr: "192.0.2.1:5050", want: "192.0.2.1"},
		{remoteAddr: "192.0.2.1", want: "192.0.2.1"},
		{remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
		{remoteAddr: "", want: "unknown_ip"},
	}

	for _, tt := range tests {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = tt.remoteAddr
		if got := ClientIP(r); got != tt.want {
			t.Errorf("ClientIP(%q) = %q, want %q", tt.remoteAddr, got, tt.want)
		}
	}
}

func TestMiddlewareAnswers429WhenExhausted(t *testing.T) {
	// Zero refill rate and burst 1: the first request drains the bucket.
	l := NewIPRateLimiter(rate.Limit(0), 1)

	calls := 0
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	for i, wantStatus := range []int{http.StatusOK, http.StatusTooManyRequests} {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = "192.0.2.7:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		if w.Code != wantStatus {
			t.Errorf("request %d: status = %d, want %d", i, w.Code, wantStatus)
		}
	}
	if calls != 1 {
		t.Errorf("handler called %d times, want 1", calls)
	}

	// A different IP has its own fresh bucket.
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.RemoteAddr = "192.0.2.8:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("fresh IP: status = %d, want %d", w.Code, http.StatusOK)
	}
}
