package metrics

import (
	"sync/atomic"
	"time"
)

type Counter struct {
	value uint64
}

func (c *Counter) Inc() {
	atomic.AddUint64(&c.value, 1)
}

func (c *Counter) Add(n uint64) {
	atomic.AddUint64(&c.value, n)
}

func (c *Counter) Load() uint64 {
	return atomic.LoadUint64(&c.value)
}

type Timer struct {
	start time.Time
}

func StartTimer() *Timer {
	return &Timer{start: time.Now()}
}

func (t *Timer) Duration() time.Duration {
	return time.Since(t.start)
}

// Client groups the counters kept by the outbound API client.
type Client struct {
	Requests    Counter
	Retries     Counter
	CacheHits   Counter
	CacheMisses Counter
	Failures    Counter
}

// Snapshot is a point-in-time copy of Client, safe to log or serialize.
type Snapshot struct {
	Requests    uint64 `json:"requests"`
	Retries     uint64 `json:"retries"`
	CacheHits   uint64 `json:"cache_hits"`
	CacheMisses uint64 `json:"cache_misses"`
	Failures    uint64 `json:"failures"`
}

func (c *Client) Snapshot() Snapshot {
	return Snapshot{
		Requests:    c.Requests.Load(),
		Retries:     c.Retries.Load(),
		CacheHits:   c.CacheHits.Load(),
		CacheMisses: c.CacheMisses.Load(),
		Failures:    c.Failures.Load(),
	}
}
