package restapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/gtfs-tools/transitaccess/internal/app"
	"github.com/gtfs-tools/transitaccess/internal/logging"
	"github.com/gtfs-tools/transitaccess/internal/models"
)

const noKey = "__no_key__"

// RateLimitMiddleware provides per-API-key rate limiting
type RateLimitMiddleware struct {
	limiters    map[string]*rate.Limiter
	mu          sync.RWMutex
	rateLimit   rate.Limit
	burstSize   int
	cleanupTick *time.Ticker
	done        chan struct{}
	stopOnce    sync.Once
	exemptKeys  map[string]bool
}

// NewRateLimitMiddleware allows requestsPerInterval requests per key and
// interval, with a burst of the same size. A negative value disables limiting
// and zero rejects every request.
func NewRateLimitMiddleware(requestsPerInterval int, interval time.Duration, exemptKeys ...string) *RateLimitMiddleware {
	var rateLimit rate.Limit
	switch {
	case requestsPerInterval < 0:
		rateLimit = rate.Inf
	case requestsPerInterval == 0:
		rateLimit = 0
	default:
		rateLimit = rate.Every(interval / time.Duration(requestsPerInterval))
	}

	rl := &RateLimitMiddleware{
		limiters:    make(map[string]*rate.Limiter),
		rateLimit:   rateLimit,
		burstSize:   requestsPerInterval,
		cleanupTick: time.NewTicker(5 * time.Minute),
		done:        make(chan struct{}),
		exemptKeys:  make(map[string]bool, len(exemptKeys)),
	}
	for _, key := range exemptKeys {
		rl.exemptKeys[key] = true
	}

	go rl.cleanup()

	return rl
}

// getLimiter gets or creates a rate limiter for the given API key
func (rl *RateLimitMiddleware) getLimiter(apiKey string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[apiKey]
	rl.mu.RUnlock()

	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := rl.limiters[apiKey]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rl.rateLimit, rl.burstSize)
	rl.limiters[apiKey] = limiter

	return limiter
}

// Handler wraps next with the per-key limit.
func (rl *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		apiKey := app.RequestAPIKey(r)
		if apiKey == "" {
			apiKey = noKey
		}

		if rl.exemptKeys[apiKey] {
			next.ServeHTTP(w, r)
			return
		}

		if !rl.getLimiter(apiKey).Allow() {
			rl.sendRateLimitExceeded(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// sendRateLimitExceeded sends a 429 Too Many Requests response
func (rl *RateLimitMiddleware) sendRateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	retryAfter := time.Second
	switch {
	case rl.rateLimit == 0:
		retryAfter = time.Hour
	case rl.rateLimit != rate.Inf && float64(rl.rateLimit) < 1:
		retryAfter = time.Duration(float64(time.Second) / float64(rl.rateLimit))
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burstSize))
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.WriteHeader(http.StatusTooManyRequests)

	response := models.NewResponse(http.StatusTooManyRequests,
		map[string]interface{}{
			"entry":      nil,
			"references": models.NewEmptyReferences(),
		},
		"Rate limit exceeded. Please try again later.")

	if err := json.NewEncoder(w).Encode(response); err != nil {
		logging.FromContext(r.Context()).Error("failed to encode rate limit response", "error", err)
	}
}

// cleanup periodically drops idle limiters. A limiter with a full bucket has
// not been used for at least one refill period and is recreated on demand.
func (rl *RateLimitMiddleware) cleanup() {
	for {
		select {
		case <-rl.done:
			return
		case <-rl.cleanupTick.C:
			rl.mu.Lock()
			for key, limiter := range rl.limiters {
				if limiter.Tokens() >= float64(rl.burstSize) {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop stops the cleanup goroutine
func (rl *RateLimitMiddleware) Stop() {
	rl.stopOnce.Do(func() {
		rl.cleanupTick.Stop()
		close(rl.done)
	})
}
