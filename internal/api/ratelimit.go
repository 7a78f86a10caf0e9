package api

import (
	"encoding/json/v2"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	domainerrors "github.com/hangarbay/hangar-server/internal/errors"
	"github.com/hangarbay/hangar-server/internal/ratelimit"
)

// NewRateLimiter creates an IP-keyed limiter from a per-interval allowance.
// For example 20 per minute becomes 0.333 requests per second.
func NewRateLimiter(ratePerInterval int, interval time.Duration, burst int) *ratelimit.KeyedRateLimiter {
	rps := float64(ratePerInterval) / interval.Seconds()
	return ratelimit.New(rps, burst)
}

// authRateLimitMiddleware limits the credential endpoints by client IP and
// returns 429 when the limit is exceeded. Other paths pass through. It runs
// ahead of the huma layer, so the envelope is written directly.
func authRateLimitMiddleware(limiter *ratelimit.KeyedRateLimiter, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !strings.HasPrefix(r.URL.Path, "/api/v1/auth/") {
				next.ServeHTTP(w, r)
				return
			}

			key := clientIP(r)
			if !limiter.Allow(key) {
				logger.Warn("rate limit exceeded", "ip", key, "path", r.URL.Path)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.MarshalWrite(w, APIErrorEnvelope{
					Version: EnvelopeVersion,
					Success: false,
					Code:    string(domainerrors.CodeRateLimited),
					Message: "Too many requests. Please try again later.",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP returns the request's client address. middleware.RealIP has
// already folded the forwarding headers into RemoteAddr; strip the port
// when one is present.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
