package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestLimiter(t *testing.T) {
	t.Run("BlocksAfterBurst", func(t *testing.T) {
		l := NewLimiter(time.Minute)
		l.resolve = func(*http.Request) Tier { return Tier{Name: "t", Limit: rate.Limit(0.001), Burst: 2} }
		h := l.Middleware(okHandler())

		codes := make([]int, 0, 3)
		for range 3 {
			req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
			req.RemoteAddr = "10.0.0.1:1234"
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}
		assert.Equal(t, []int{200, 200, 429}, codes)

		req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
		req.RemoteAddr = "10.0.0.2:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code, "other clients keep their own bucket")
	})

	t.Run("DeviceIDTakesPrecedence", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		assert.Equal(t, "ip:10.0.0.1", clientIdentity(req))

		req.Header.Set("X-Device-ID", "abc")
		assert.Equal(t, "device:abc", clientIdentity(req))
	})

	t.Run("Tiers", func(t *testing.T) {
		assert.Equal(t, TierStrict, resolveTier(httptest.NewRequest(http.MethodGet, "/api/admin/orders", nil)))
		assert.Equal(t, TierGeneral, resolveTier(httptest.NewRequest(http.MethodGet, "/api/products", nil)))
	})

	t.Run("CleanupDropsIdleBuckets", func(t *testing.T) {
		now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		l := NewLimiter(3 * time.Minute)
		l.now = func() time.Time { return now }

		l.getVisitor("a", TierGeneral)
		now = now.Add(2 * time.Minute)
		l.getVisitor("b", TierGeneral)
		now = now.Add(2 * time.Minute)

		assert.Equal(t, 1, l.Cleanup())
		assert.Len(t, l.visitors, 1)
		assert.Contains(t, l.visitors, "b")
	})
}

func TestSecurityHeaders(t *testing.T) {
	w := httptest.NewRecorder()
	SecurityHeaders(okHandler()).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestRecover(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		Recover(panicky).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
