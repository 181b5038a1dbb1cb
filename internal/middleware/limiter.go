package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"storefront/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Tier is one rate limit policy.
type Tier struct {
	Name  string
	Limit rate.Limit
	Burst int
}

var (
	// TierStrict covers the admin proxy.
	TierStrict = Tier{Name: "strict", Limit: rate.Limit(2), Burst: 5}
	// TierGeneral covers catalog reads and everything else.
	TierGeneral = Tier{Name: "general", Limit: rate.Limit(10), Burst: 20}
)

// visitor holds the rate limiter and the last time it was seen.
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiter keeps one token bucket per client and tier.
type Limiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	idle     time.Duration
	now      func() time.Time
	resolve  func(*http.Request) Tier
}

// NewLimiter builds a limiter whose buckets are dropped after idle without
// traffic. Requests under /api/admin/ get TierStrict.
func NewLimiter(idle time.Duration) *Limiter {
	return &Limiter{
		visitors: make(map[string]*visitor),
		idle:     idle,
		now:      time.Now,
		resolve:  resolveTier,
	}
}

func resolveTier(r *http.Request) Tier {
	if strings.HasPrefix(r.URL.Path, "/api/admin/") {
		return TierStrict
	}
	return TierGeneral
}

// getVisitor retrieves or creates the bucket for key.
func (l *Limiter) getVisitor(key string, t Tier) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(t.Limit, t.Burst)}
		l.visitors[key] = v
	}
	v.lastSeen = l.now()
	return v.limiter
}

// Cleanup removes buckets idle for longer than the configured window and
// reports how many were dropped.
func (l *Limiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idle)
	n := 0
	for key, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, key)
			n++
		}
	}
	return n
}

// Run calls Cleanup every interval until ctx is done.
func (l *Limiter) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := l.Cleanup(); n > 0 {
				logger.L().Debug("rate limiter cleanup", zap.Int("dropped", n))
			}
		}
	}
}

// Middleware answers 429 once a client's bucket for the request tier is empty.
func (l *Limiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tier := l.resolve(r)
		key := clientIdentity(r) + ":" + tier.Name

		if !l.getVisitor(key, tier).Allow() {
			logger.FromCtx(r.Context()).Warn("rate limited",
				zap.String("client", key),
				zap.String("path", r.URL.Path),
			)
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// clientIdentity prefers an explicit device id and falls back to the
// remote IP.
func clientIdentity(r *http.Request) string {
	if id := r.Header.Get("X-Device-ID"); id != "" {
		return "device:" + id
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}
