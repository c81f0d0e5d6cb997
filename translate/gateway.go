// Package translate implements the rate-limited Malayalam/English
// translation gateway over the Hugging Face inference API.
//
// The gateway is fail-open: callers always get text back. On any
// unrecoverable upstream failure the original input is returned unchanged
// and a warning is logged, so a degraded literal reply never blocks the
// conversation.
package translate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/KrishiLabs/sakhi"
	"github.com/KrishiLabs/sakhi/cache"
)

const (
	// DefaultBaseURL is the Hugging Face model inference endpoint.
	DefaultBaseURL = "https://api-inference.huggingface.co/models"

	// DefaultTimeout bounds each upstream HTTP call.
	DefaultTimeout = 30 * time.Second

	// DefaultQueueSize bounds how many requests may wait for dispatch.
	DefaultQueueSize = 64

	// defaultRetryAfter is used when a 503 carries no Retry-After header.
	defaultRetryAfter = 10 * time.Second
)

// DefaultModels maps translation directions to the Helsinki-NLP OPUS models.
var DefaultModels = map[sakhi.Direction]string{
	sakhi.DirectionMLToEN: "Helsinki-NLP/opus-mt-ml-en",
	sakhi.DirectionENToML: "Helsinki-NLP/opus-mt-en-ml",
}

// Config holds configuration for the translation gateway.
type Config struct {
	APIKey            string                     // Hugging Face API token (optional, anonymous works with low limits)
	BaseURL           string                     // Inference endpoint (default: DefaultBaseURL)
	Models            map[sakhi.Direction]string // Model per direction (default: DefaultModels)
	RequestsPerMinute int                        // Upstream pacing; burst is fixed at 1 (default: 60, i.e. ~1s spacing)
	Timeout           time.Duration              // Per-call HTTP timeout (default: 30s)
	Retry             sakhi.RetryConfig          // Per-request retry policy (default: 3 attempts, 1s base)
	QueueSize         int                        // Admission queue capacity (default: 64)
}

// Option is a functional option for configuring the Gateway.
type Option func(*Gateway)

// WithCache sets the translation cache.
func WithCache(c cache.TranslationCache) Option {
	return func(g *Gateway) {
		g.cache = c
	}
}

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(log *zap.Logger) Option {
	return func(g *Gateway) {
		if log != nil {
			g.log = log
		}
	}
}

// request travels through the admission queue to the dispatcher.
type request struct {
	dir  sakhi.Direction
	text string
	done chan string
}

// Gateway serializes all translation requests through one FIFO queue and a
// single dispatcher goroutine, so at most one request is in flight against
// the upstream endpoint at any time regardless of how many conversations
// are enqueuing.
type Gateway struct {
	http    *resty.Client
	baseURL string
	models  map[sakhi.Direction]string
	cache   cache.TranslationCache
	limiter *sakhi.RateLimiter
	retry   sakhi.RetryConfig
	log     *zap.Logger

	requests chan *request

	ctx       context.Context
	cancel    context.CancelFunc
	closeOnce sync.Once
}

// NewGateway creates a translation gateway and starts its dispatcher.
// Call Close when done.
func NewGateway(cfg Config, opts ...Option) *Gateway {
	baseURL := strings.TrimRight(cfg.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	models := cfg.Models
	if len(models) == 0 {
		models = DefaultModels
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	retry := cfg.Retry
	if retry.MaxAttempts <= 0 {
		retry = sakhi.DefaultRetryConfig()
	}

	rpm := cfg.RequestsPerMinute
	if rpm <= 0 {
		rpm = 60
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}

	client := resty.New().
		SetTimeout(timeout).
		SetHeader("User-Agent", sakhi.UserAgent())
	if cfg.APIKey != "" {
		client.SetAuthToken(cfg.APIKey)
	}

	ctx, cancel := context.WithCancel(context.Background())

	g := &Gateway{
		http:     client,
		baseURL:  baseURL,
		models:   models,
		limiter:  sakhi.NewRateLimiter(sakhi.RateLimitConfig{RequestsPerMinute: rpm, BurstSize: 1}),
		retry:    retry,
		log:      zap.NewNop(),
		requests: make(chan *request, queueSize),
		ctx:      ctx,
		cancel:   cancel,
	}

	for _, opt := range opts {
		opt(g)
	}

	go g.dispatch()

	return g
}

// Translate converts text in the given direction. It never returns an
// error: cache hits return immediately, everything else is admitted into
// the FIFO queue, and any unrecoverable failure (including a cancelled
// caller context) degrades to the original text.
func (g *Gateway) Translate(ctx context.Context, dir sakhi.Direction, text string) string {
	if strings.TrimSpace(text) == "" {
		return text
	}

	key := sakhi.CacheKey(dir, text)
	if g.cache != nil {
		if cached, ok := g.cache.Get(ctx, key); ok {
			return cached
		}
	}

	req := &request{dir: dir, text: text, done: make(chan string, 1)}

	select {
	case g.requests <- req:
	case <-ctx.Done():
		g.warnSkipped(dir, "admission cancelled", ctx.Err())
		return text
	case <-g.ctx.Done():
		g.warnSkipped(dir, "gateway closed", nil)
		return text
	}

	select {
	case result := <-req.done:
		return result
	case <-ctx.Done():
		g.warnSkipped(dir, "caller gave up waiting", ctx.Err())
		return text
	case <-g.ctx.Done():
		g.warnSkipped(dir, "gateway closed", nil)
		return text
	}
}

// Close stops the dispatcher. Pending and in-flight requests resolve to
// their original text. Safe to call more than once.
func (g *Gateway) Close() {
	g.closeOnce.Do(g.cancel)
}

// dispatch is the single worker draining the admission queue. The burst-1
// token bucket in front of each call enforces the minimum spacing between
// consecutive upstream requests.
func (g *Gateway) dispatch() {
	for {
		select {
		case <-g.ctx.Done():
			return
		case req := <-g.requests:
			if err := g.limiter.Wait(g.ctx); err != nil {
				req.done <- req.text
				continue
			}
			req.done <- g.process(req)
		}
	}
}

// process runs one queued request through the retry policy and resolves it
// fail-open.
func (g *Gateway) process(req *request) string {
	translated, err := sakhi.WithRetry(g.ctx, g.retry, func() (string, error) {
		return g.call(req.dir, req.text)
	})
	if err != nil {
		g.warnSkipped(req.dir, "upstream translation failed", err)
		return req.text
	}

	if g.cache != nil {
		key := sakhi.CacheKey(req.dir, req.text)
		_ = g.cache.Set(g.ctx, key, translated) // Ignore cache set errors
	}

	return translated
}

// call performs one HTTP attempt against the inference endpoint and maps
// the response onto the retry taxonomy.
func (g *Gateway) call(dir sakhi.Direction, text string) (string, error) {
	model, ok := g.models[dir]
	if !ok {
		return "", &sakhi.ProviderError{
			Message:   fmt.Sprintf("no model configured for direction %q", dir),
			Retryable: false,
		}
	}

	resp, err := g.http.R().
		SetContext(g.ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"inputs": text}).
		Post(g.baseURL + "/" + model)
	if err != nil {
		if isTimeout(err) {
			return "", &sakhi.ProviderError{
				Message:   "inference call timed out",
				Cause:     err,
				Retryable: true,
				Backoff:   sakhi.BackoffLinear,
			}
		}
		return "", &sakhi.ProviderError{
			Message:   "inference call failed",
			Cause:     err,
			Retryable: false,
		}
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		return extractTranslation(resp.Body())
	case http.StatusServiceUnavailable:
		// Model warming up; the server tells us how long.
		return "", &sakhi.ProviderError{
			Message:    "model is loading",
			Retryable:  true,
			Backoff:    sakhi.BackoffFixed,
			RetryAfter: retryAfter(resp.Header().Get("Retry-After")),
		}
	case http.StatusTooManyRequests:
		return "", &sakhi.ProviderError{
			Message:   "rate limited by inference API",
			Retryable: true,
			Backoff:   sakhi.BackoffExponential,
		}
	default:
		return "", &sakhi.ProviderError{
			Message:   fmt.Sprintf("unexpected status %d", resp.StatusCode()),
			Retryable: false,
		}
	}
}

// extractTranslation pulls the translated text out of the inference
// response. The API returns either an array of objects or a single object
// with a translation_text field; some models return a bare string.
func extractTranslation(body []byte) (string, error) {
	type translation struct {
		TranslationText string `json:"translation_text"`
	}

	var list []translation
	if err := json.Unmarshal(body, &list); err == nil && len(list) > 0 && list[0].TranslationText != "" {
		return list[0].TranslationText, nil
	}

	var single translation
	if err := json.Unmarshal(body, &single); err == nil && single.TranslationText != "" {
		return single.TranslationText, nil
	}

	var raw string
	if err := json.Unmarshal(body, &raw); err == nil && raw != "" {
		return raw, nil
	}

	return "", &sakhi.ProviderError{
		Message:   "unexpected response shape from inference API",
		Retryable: false,
	}
}

// retryAfter parses a Retry-After header value in seconds.
func retryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	secs, err := strconv.Atoi(strings.TrimSpace(header))
	if err != nil || secs <= 0 {
		return defaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func (g *Gateway) warnSkipped(dir sakhi.Direction, reason string, err error) {
	fields := []zap.Field{
		zap.String("direction", string(dir)),
		zap.String("reason", reason),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	g.log.Warn("translation skipped, using original text", fields...)
}

// Verify Gateway implements the orchestrator's Translator contract
var _ sakhi.Translator = (*Gateway)(nil)
