package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"storefront/internal/cache"
	"storefront/internal/logger"
	"storefront/internal/metrics"

	"go.uber.org/zap"
)

const maxBodyBytes = 10 << 20

// Call describes one request to the remote service.
type Call struct {
	Method   string
	Endpoint string
	Body     interface{}
	Token    string
	Cache    CachePolicy
}

// Client talks to the storefront REST service. It holds no mutable state
// beyond the injected cache and counters.
type Client struct {
	baseURL    string
	httpClient *http.Client
	retry      RetryPolicy
	sleeper    Sleeper
	cache      cache.Cache
	metrics    *metrics.Client
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithRetryPolicy(p RetryPolicy) Option {
	return func(c *Client) { c.retry = p }
}

func WithSleeper(s Sleeper) Option {
	return func(c *Client) { c.sleeper = s }
}

// WithCache enables ServerCache policies. Without a cache every call goes
// to the network.
func WithCache(store cache.Cache) Option {
	return func(c *Client) { c.cache = store }
}

func WithMetrics(m *metrics.Client) Option {
	return func(c *Client) { c.metrics = m }
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 15 * time.Second,
		},
		retry:   DefaultRetryPolicy(),
		sleeper: timerSleeper{},
		metrics: &metrics.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) Metrics() metrics.Snapshot {
	return c.metrics.Snapshot()
}

// Request performs call and parses the 2xx body with parse. A nil parse
// decodes plain JSON into T. Cached GETs are served from the cache when
// fresh; only bodies that parse are written back.
func Request[T any](ctx context.Context, c *Client, call Call, parse func([]byte) (T, error)) (T, error) {
	var zero T
	if parse == nil {
		parse = decodeJSON[T]
	}
	log := logger.ForLayer(ctx, "apiclient", "Request").With(
		zap.String("http_method", call.Method),
		zap.String("endpoint", endpointPath(call.Endpoint)),
	)

	key, cacheable := c.cacheKey(call)
	if cacheable {
		raw, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			log.Warn("cache read failed", zap.Error(err))
		}
		if ok {
			if v, err := parse(raw); err == nil {
				c.metrics.CacheHits.Inc()
				log.Debug("served from cache")
				return v, nil
			}
			// stale entry from an older shape; refetch
			_ = c.cache.Delete(ctx, key)
		}
		c.metrics.CacheMisses.Inc()
	}

	raw, err := c.Do(ctx, call)
	if err != nil {
		return zero, err
	}

	v, err := parse(raw)
	if err != nil {
		c.metrics.Failures.Inc()
		log.Error("response failed validation", zap.Error(err))
		return zero, invalidResponseError(call.Endpoint, err)
	}

	if cacheable {
		if err := c.cache.Set(ctx, key, raw, call.Cache.TTL()); err != nil {
			log.Warn("cache write failed", zap.Error(err))
		}
	}
	return v, nil
}

// Do sends call with retries and returns the raw 2xx body. Failures are
// always *Error.
func (c *Client) Do(ctx context.Context, call Call) ([]byte, error) {
	log := logger.ForLayer(ctx, "apiclient", "Do").With(
		zap.String("http_method", call.Method),
		zap.String("endpoint", endpointPath(call.Endpoint)),
	)

	var payload []byte
	if call.Body != nil {
		b, err := json.Marshal(call.Body)
		if err != nil {
			return nil, validationError(call.Endpoint, fmt.Errorf("encode request body: %w", err))
		}
		payload = b
	}

	attempts := c.retry.attempts()
	var (
		status int
		body   []byte
		err    error
	)
	for attempt := 1; ; attempt++ {
		c.metrics.Requests.Inc()
		timer := metrics.StartTimer()
		status, body, err = c.send(ctx, call, payload)

		transient := err != nil || status >= http.StatusInternalServerError
		if !transient {
			log.Debug("request completed",
				zap.Int("status", status),
				zap.Int("attempt", attempt),
				zap.Duration("duration", timer.Duration()),
			)
			break
		}
		if attempt >= attempts || ctx.Err() != nil {
			break
		}

		wait := c.retry.delay(attempt)
		log.Warn("transient failure, retrying",
			zap.Int("attempt", attempt),
			zap.Int("status", status),
			zap.Duration("backoff", wait),
			zap.Error(err),
		)
		c.metrics.Retries.Inc()
		if serr := c.sleeper.Sleep(ctx, wait); serr != nil {
			err = serr
			break
		}
	}

	if err != nil {
		c.metrics.Failures.Inc()
		log.Error("request failed", zap.Error(err))
		return nil, transportError(call.Endpoint, err)
	}

	if status < 200 || status > 299 {
		c.metrics.Failures.Inc()
		apiErr := statusError(call.Method, call.Endpoint, status, body)
		log.Warn("request rejected",
			zap.Int("status", status),
			zap.String("kind", apiErr.Kind.String()),
			zap.ByteString("response", truncate(body, 512)),
		)
		return nil, apiErr
	}

	return body, nil
}

func (c *Client) send(ctx context.Context, call Call, payload []byte) (int, []byte, error) {
	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, call.Method, c.baseURL+call.Endpoint, reader)
	if err != nil {
		return 0, nil, err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if call.Token != "" {
		req.Header.Set("Authorization", "Bearer "+call.Token)
	}
	if reqID := logger.RequestIDFrom(ctx); reqID != "" {
		req.Header.Set(logger.RequestIDHeader, reqID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, fmt.Errorf("read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) cacheKey(call Call) (string, bool) {
	if c.cache == nil || !call.Cache.Cached() || call.Method != http.MethodGet {
		return "", false
	}
	return requestKey(call.Method, call.Endpoint, call.Token), true
}

// Invalidate drops the cached answer for a GET of endpoint made with token.
func (c *Client) Invalidate(ctx context.Context, endpoint, token string) error {
	if c.cache == nil {
		return nil
	}
	return c.cache.Delete(ctx, requestKey(http.MethodGet, endpoint, token))
}

func requestKey(method, endpoint, token string) string {
	return cache.Key("api:"+method+" "+endpoint, token)
}

func decodeJSON[T any](raw []byte) (T, error) {
	var v T
	err := json.Unmarshal(raw, &v)
	return v, err
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
