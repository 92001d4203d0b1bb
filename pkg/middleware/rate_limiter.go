package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"chatbot-evaluation/backend/pkg/errors"
	"chatbot-evaluation/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RateLimiterOptions configures the rate limiter
type RateLimiterOptions struct {
	// Limit defines requests per second
	Limit rate.Limit
	// Burst defines maximum burst size allowed
	Burst int
	// InferenceLimit and InferenceBurst apply on top of Limit to requests
	// that reach the language model. A zero InferenceLimit disables them.
	InferenceLimit rate.Limit
	InferenceBurst int
	// InferencePaths lists the POST routes that call the model
	InferencePaths []string
	// ExpiryDuration defines how long to keep client state in memory
	ExpiryDuration time.Duration
	// KeyFunc extracts the limiting key from a request (e.g. IP, session ID)
	KeyFunc func(*gin.Context) string
	// SkipPaths are never limited (health probes, metrics scrapes)
	SkipPaths []string
}

// DefaultRateLimiterOptions returns sensible defaults
func DefaultRateLimiterOptions() RateLimiterOptions {
	return RateLimiterOptions{
		Limit:          5,  // 5 requests per second
		Burst:          10, // Burst of 10 requests
		InferenceLimit: 1,
		InferenceBurst: 3,
		InferencePaths: []string{"/api/chat", "/api/chat/message"},
		ExpiryDuration: time.Hour,
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
		SkipPaths: []string{"/health", "/api/health", "/metrics"},
	}
}

// visitor holds the buckets of one client
type visitor struct {
	general   *rate.Limiter
	inference *rate.Limiter
	lastSeen  time.Time
}

// RateLimiter limits requests per client with token buckets
type RateLimiter struct {
	mu        sync.Mutex
	options   RateLimiterOptions
	visitors  map[string]*visitor
	skip      map[string]struct{}
	inference map[string]struct{}
	logger    *logger.Logger
	start     sync.Once
	stop      chan struct{}
	stopOnce  sync.Once
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(logger *logger.Logger, options ...RateLimiterOptions) *RateLimiter {
	opts := DefaultRateLimiterOptions()
	if len(options) > 0 {
		opts = options[0]
	}

	if opts.KeyFunc == nil {
		opts.KeyFunc = DefaultRateLimiterOptions().KeyFunc
	}
	if opts.ExpiryDuration <= 0 {
		opts.ExpiryDuration = time.Hour
	}

	return &RateLimiter{
		options:   opts,
		visitors:  make(map[string]*visitor),
		skip:      pathSet(opts.SkipPaths),
		inference: pathSet(opts.InferencePaths),
		logger:    logger,
		stop:      make(chan struct{}),
	}
}

// Middleware returns a Gin middleware for rate limiting
func (r *RateLimiter) Middleware() gin.HandlerFunc {
	r.start.Do(func() { go r.cleanup() })

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := r.skip[path]; ok {
			c.Next()
			return
		}

		key := r.options.KeyFunc(c)
		v := r.visitor(key)

		buckets := []*rate.Limiter{v.general}
		if _, ok := r.inference[path]; ok && c.Request.Method == http.MethodPost && v.inference != nil {
			buckets = append(buckets, v.inference)
		}

		if wait, ok := reserve(buckets); !ok {
			r.logger.Warn("Rate limit exceeded",
				"client", key,
				"path", path,
				"method", c.Request.Method,
				"retry_after", wait.String(),
			)

			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			c.Header("X-RateLimit-Limit", strconv.Itoa(r.options.Burst))
			_ = c.Error(errors.NewError(http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", "Too many requests. Please try again later."))
			c.Abort()
			return
		}

		c.Next()
	}
}

// Stop ends the background cleanup
func (r *RateLimiter) Stop() {
	r.stopOnce.Do(func() { close(r.stop) })
}

// reserve takes one token from every bucket or none of them. On refusal it
// returns how long the client should wait.
func reserve(buckets []*rate.Limiter) (time.Duration, bool) {
	now := time.Now()
	reservations := make([]*rate.Reservation, 0, len(buckets))
	var wait time.Duration
	for _, b := range buckets {
		res := b.ReserveN(now, 1)
		reservations = append(reservations, res)
		if !res.OK() {
			wait = max(wait, time.Second)
			continue
		}
		wait = max(wait, res.DelayFrom(now))
	}

	if wait == 0 {
		return 0, true
	}
	for _, res := range reservations {
		res.CancelAt(now)
	}
	return max(wait, time.Second), false
}

// visitor returns the buckets of key, creating them on first sight
func (r *RateLimiter) visitor(key string) *visitor {
	r.mu.Lock()
	defer r.mu.Unlock()

	v, exists := r.visitors[key]
	if !exists {
		v = &visitor{general: rate.NewLimiter(r.options.Limit, r.options.Burst)}
		if r.options.InferenceLimit > 0 {
			v.inference = rate.NewLimiter(r.options.InferenceLimit, max(r.options.InferenceBurst, 1))
		}
		r.visitors[key] = v
	}

	v.lastSeen = time.Now()
	return v
}

// cleanup drops visitors idle for longer than ExpiryDuration
func (r *RateLimiter) cleanup() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
		}

		r.mu.Lock()
		for k, v := range r.visitors {
			if time.Since(v.lastSeen) > r.options.ExpiryDuration {
				delete(r.visitors, k)
			}
		}
		r.mu.Unlock()
	}
}

func pathSet(paths []string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set
}
