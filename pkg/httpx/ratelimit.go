package httpx

import (
	"fmt"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aussiebroadwan/bookshelf/pkg/slogx"
	"golang.org/x/time/rate"
)

// RateLimitConfig defines the rate limiting parameters. The env tags are
// relative; RateLimits mounts each profile under its own prefix.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window
	RequestsPerWindow int `env:"REQUESTS, overwrite"`
	// Window is the time window for rate limiting
	Window time.Duration `env:"WINDOW, overwrite"`
	// Burst allows for temporary bursts above the rate limit
	Burst int `env:"BURST, overwrite"`
}

// RateLimits are the profiles handed out to routes, overridable through
// RATELIMIT_{STRICT,MODERATE,LENIENT,PUBLIC}_{REQUESTS,WINDOW,BURST}.
type RateLimits struct {
	// Strict guards the token endpoint (brute force prevention).
	Strict RateLimitConfig `env:", prefix=RATELIMIT_STRICT_"`
	// Moderate guards authenticated writes.
	Moderate RateLimitConfig `env:", prefix=RATELIMIT_MODERATE_"`
	// Lenient guards authenticated reads.
	Lenient RateLimitConfig `env:", prefix=RATELIMIT_LENIENT_"`
	// Public guards anonymous reads.
	Public RateLimitConfig `env:", prefix=RATELIMIT_PUBLIC_"`
}

// DefaultRateLimits returns the built-in profiles. Config loading starts from
// these and lets the environment overwrite individual fields.
func DefaultRateLimits() RateLimits {
	return RateLimits{
		Strict:   RateLimitConfig{RequestsPerWindow: 5, Window: time.Minute, Burst: 5},
		Moderate: RateLimitConfig{RequestsPerWindow: 20, Window: time.Minute, Burst: 20},
		Lenient:  RateLimitConfig{RequestsPerWindow: 100, Window: time.Minute, Burst: 100},
		Public:   RateLimitConfig{RequestsPerWindow: 1000, Window: time.Minute, Burst: 1000},
	}
}

// Validate rejects profiles that would divide by zero or never admit a request.
func (c RateLimitConfig) Validate() error {
	if c.RequestsPerWindow <= 0 || c.Window <= 0 || c.Burst <= 0 {
		return fmt.Errorf("httpx: invalid rate limit %d/%s burst %d", c.RequestsPerWindow, c.Window, c.Burst)
	}
	return nil
}

// rate returns the steady refill rate of the profile.
func (c RateLimitConfig) rate() rate.Limit {
	return rate.Limit(float64(c.RequestsPerWindow) / c.Window.Seconds())
}

// KeyFunc derives the bucket a request is charged to. An empty key exempts
// the request from the limit.
type KeyFunc func(*http.Request) string

// ClientIP is the first X-Forwarded-For hop, then X-Real-IP, then the host
// part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// UserKey is the authenticated user id placed in the context by WithUserID.
func UserKey(r *http.Request) string {
	return UserIDFrom(r.Context())
}

// FormKey reads a form value from the query string or a urlencoded body.
func FormKey(field string) KeyFunc {
	return func(r *http.Request) string {
		if err := r.ParseForm(); err != nil {
			return ""
		}
		return r.FormValue(field)
	}
}

// JoinKeys concatenates the non-empty keys produced by fns with ":".
func JoinKeys(fns ...KeyFunc) KeyFunc {
	return func(r *http.Request) string {
		parts := make([]string, 0, len(fns))
		for _, fn := range fns {
			if k := fn(r); k != "" {
				parts = append(parts, k)
			}
		}
		return strings.Join(parts, ":")
	}
}

const idleSweepInterval = 5 * time.Minute

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// buckets holds one token bucket per key. Buckets idle for longer than it
// takes to refill completely are dropped on the next sweep.
type buckets struct {
	mu        sync.Mutex
	cfg       RateLimitConfig
	byKey     map[string]*bucket
	lastSweep time.Time
	now       func() time.Time
}

func newBuckets(cfg RateLimitConfig) *buckets {
	return &buckets{
		cfg:       cfg,
		byKey:     make(map[string]*bucket),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

// take charges one request to key. When refused it returns how long until a
// token is available.
func (b *buckets) take(key string) (bool, time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if now.Sub(b.lastSweep) >= idleSweepInterval {
		b.sweep(now)
	}

	bk, ok := b.byKey[key]
	if !ok {
		bk = &bucket{limiter: rate.NewLimiter(b.cfg.rate(), b.cfg.Burst)}
		b.byKey[key] = bk
	}
	bk.lastSeen = now

	if bk.limiter.AllowN(now, 1) {
		return true, 0
	}
	r := bk.limiter.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return false, wait
}

func (b *buckets) sweep(now time.Time) {
	b.lastSweep = now
	refill := time.Duration(float64(b.cfg.Burst) / float64(b.cfg.rate()) * float64(time.Second))
	for k, bk := range b.byKey {
		if now.Sub(bk.lastSeen) > refill {
			delete(b.byKey, k)
		}
	}
}

// RejectHook observes requests refused by a rate limiter.
type RejectHook func(r *http.Request)

// RateLimit charges each request to the bucket named by key and answers 429
// with Retry-After once the bucket is empty.
func RateLimit(cfg RateLimitConfig, key KeyFunc, hooks ...RejectHook) Middleware {
	b := newBuckets(cfg)
	limit := strconv.Itoa(cfg.RequestsPerWindow)
	window := cfg.Window.String()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				slogx.FromContext(r.Context()).Warn("rate limit key missing, request not limited",
					"path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}

			ok, wait := b.take(k)
			if ok {
				next.ServeHTTP(w, r)
				return
			}

			retryAfter := max(int(math.Ceil(wait.Seconds())), 1)
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", limit)
			w.Header().Set("X-RateLimit-Window", window)

			for _, hook := range hooks {
				hook(r)
			}
			slogx.FromContext(r.Context()).Warn("rate limit exceeded",
				"key", k,
				"path", r.URL.Path,
				"retry_after", retryAfter,
			)

			WriteError(w, http.StatusTooManyRequests, ErrorResponse{
				Error:            "rate_limit_exceeded",
				ErrorDescription: "Too many requests. Please try again later.",
			})
		})
	}
}

// RateLimitByIP limits each client address.
func RateLimitByIP(cfg RateLimitConfig, hooks ...RejectHook) Middleware {
	return RateLimit(cfg, ClientIP, hooks...)
}

// RateLimitByUser limits each authenticated user per address, and anonymous
// callers by address alone.
func RateLimitByUser(cfg RateLimitConfig, hooks ...RejectHook) Middleware {
	return RateLimit(cfg, JoinKeys(UserKey, ClientIP), hooks...)
}

// RateLimitByIPAndFormField limits each (address, form field) pair, such as
// login attempts per username.
func RateLimitByIPAndFormField(cfg RateLimitConfig, field string, hooks ...RejectHook) Middleware {
	return RateLimit(cfg, JoinKeys(ClientIP, FormKey(field)), hooks...)
}
