package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/phrazzld/lingo-srs/internal/api/shared"
	"golang.org/x/time/rate"
)

// LearnerRateLimiter keeps one token bucket per learner.
type LearnerRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	idleTTL  time.Duration
	now      func() time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLearnerRateLimiter allows perSecond requests per learner with the given burst.
func NewLearnerRateLimiter(perSecond float64, burst int) *LearnerRateLimiter {
	return &LearnerRateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Limit(perSecond),
		burst:    burst,
		idleTTL:  10 * time.Minute,
		now:      time.Now,
	}
}

// getLimiter gets or creates the limiter for key and drops buckets idle
// longer than idleTTL.
func (rl *LearnerRateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if entry, ok := rl.limiters[key]; ok {
		entry.lastSeen = now
		return entry.limiter
	}

	for k, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > rl.idleTTL {
			delete(rl.limiters, k)
		}
	}

	limiter := rate.NewLimiter(rl.limit, rl.burst)
	rl.limiters[key] = &limiterEntry{limiter: limiter, lastSeen: now}
	return limiter
}

// Allow reports whether a request for key may proceed now.
func (rl *LearnerRateLimiter) Allow(key string) bool {
	return rl.getLimiter(key).AllowN(rl.now(), 1)
}

// Limit rejects requests over the learner's budget with 429. It must run
// after authentication; requests without a learner fall back to the client
// address.
func (rl *LearnerRateLimiter) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if learnerID, ok := shared.LearnerIDFromContext(r.Context()); ok {
			key = learnerID.String()
		}

		if !rl.Allow(key) {
			retryAfter := 1
			if rl.limit > 0 {
				retryAfter = int(math.Ceil(1 / float64(rl.limit)))
			}
			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			shared.RespondWithErrorAndLog(w, r, http.StatusTooManyRequests, "Too many reviews, slow down", nil)
			return
		}

		next.ServeHTTP(w, r)
	})
}
