package server

import (
	"crypto/subtle"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/osse101/MessageStats_Go/internal/logger"
	"github.com/osse101/MessageStats_Go/internal/metrics"
)

// clientIP resolves the caller address. X-Forwarded-For is honoured only
// when the direct peer is a trusted proxy, and then only its rightmost hop.
type clientIP map[string]struct{}

func newClientIP(trustedProxies []string) clientIP {
	c := make(clientIP, len(trustedProxies))
	for _, p := range trustedProxies {
		if p = strings.TrimSpace(p); p != "" {
			c[p] = struct{}{}
		}
	}
	return c
}

func (c clientIP) of(r *http.Request) string {
	remote, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		remote = r.RemoteAddr
	}
	if _, trusted := c[remote]; !trusted {
		return remote
	}
	forwarded := r.Header.Get(HeaderForwardedFor)
	if forwarded == "" {
		return remote
	}
	hops := strings.Split(forwarded, ",")
	return strings.TrimSpace(hops[len(hops)-1])
}

type addressActivity struct {
	requests   int
	failedAuth int
}

// ActivityTracker counts requests and failed API key checks per address in
// fixed windows of RateWindow.
type ActivityTracker struct {
	mu          sync.Mutex
	byAddress   map[string]*addressActivity
	windowStart time.Time
	budget      int
	now         func() time.Time
}

// NewActivityTracker allows budget requests per address per window.
func NewActivityTracker(budget int) *ActivityTracker {
	return &ActivityTracker{
		byAddress:   make(map[string]*addressActivity),
		windowStart: time.Now(),
		budget:      budget,
		now:         time.Now,
	}
}

// entry must be called with mu held.
func (t *ActivityTracker) entry(ip string) *addressActivity {
	if now := t.now(); now.Sub(t.windowStart) > RateWindow {
		clear(t.byAddress)
		t.windowStart = now
	}
	a, ok := t.byAddress[ip]
	if !ok {
		a = &addressActivity{}
		t.byAddress[ip] = a
	}
	return a
}

// Allow counts one request and reports whether ip is still within budget.
func (t *ActivityTracker) Allow(ip string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	a := t.entry(ip)
	a.requests++
	if a.requests <= t.budget {
		return true
	}
	if (a.requests-t.budget)%100 == 1 {
		slog.Warn(SecurityAlertHighRate, "ip", ip, "count_in_window", a.requests)
	}
	return false
}

// FailedAuth records a rejected API key and returns the count in this window.
func (t *ActivityTracker) FailedAuth(ip string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	a := t.entry(ip)
	a.failedAuth++
	if a.failedAuth == FailedAuthAlertThreshold {
		slog.Warn(SecurityAlertFailedAuth, "ip", ip, "count", a.failedAuth)
	}
	return a.failedAuth
}

func reject(w http.ResponseWriter, status int, reason, message string) {
	metrics.HTTPRejected.WithLabelValues(reason).Inc()
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// RequireAPIKey guards the group-mutating endpoints. With no key configured
// every request is refused.
func RequireAPIKey(apiKey string, ips clientIP, tracker *ActivityTracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				reject(w, http.StatusUnauthorized, RejectAuthDisabled, ErrMsgAuthDisabled)
				return
			}
			provided := r.Header.Get(HeaderAPIKey)
			if subtle.ConstantTimeCompare([]byte(provided), []byte(apiKey)) == 1 {
				next.ServeHTTP(w, r)
				return
			}
			ip := ips.of(r)
			failures := tracker.FailedAuth(ip)
			logger.FromContext(r.Context()).Warn(LogMsgAuthFailed,
				"path", r.URL.Path, "has_key", provided != "", "ip", ip, "failures", failures)
			reject(w, http.StatusUnauthorized, RejectUnauthorized, ErrMsgUnauthorized)
		})
	}
}

// RateLimit refuses addresses that spent their budget for the current window.
func RateLimit(ips clientIP, tracker *ActivityTracker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !tracker.Allow(ips.of(r)) {
				reject(w, http.StatusTooManyRequests, RejectRateLimited, ErrMsgTooManyRequests)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// LimitBody caps request bodies at maxBytes.
func LimitBody(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}

// SecurityHeaders sets the browser hardening headers on every response.
func SecurityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set(HeaderContentType, HeaderValueNoSniff)
		h.Set(HeaderFrameOptions, HeaderValueDeny)
		h.Set(HeaderReferrerPolicy, HeaderValueReferrerStrictOrigin)
		next.ServeHTTP(w, r)
	})
}
