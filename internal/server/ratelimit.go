package server

import (
	"sync"
	"time"

	"golang.org/x/time/rate"

	"spot-the-bot/internal/config"
)

const limiterIdleTTL = 10 * time.Minute

type ipLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// rateLimits holds the per-IP room creation limiters and the settings for
// per-connection event limiters.
type rateLimits struct {
	mu           sync.Mutex
	create       map[string]*ipLimiter
	createPerMin int
	eventsPerSec float64
	eventBurst   int
	lastPrunedAt time.Time
}

func newRateLimits(cfg config.Config) *rateLimits {
	return &rateLimits{
		create:       make(map[string]*ipLimiter),
		createPerMin: cfg.CreateRoomsPerMinute,
		eventsPerSec: cfg.WSEventsPerSecond,
		eventBurst:   cfg.WSEventBurst,
	}
}

// allowCreate reports whether ip may create another room. A non-positive
// limit disables the check.
func (l *rateLimits) allowCreate(ip string, now time.Time) bool {
	if l.createPerMin <= 0 {
		return true
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if now.Sub(l.lastPrunedAt) > limiterIdleTTL {
		for key, entry := range l.create {
			if now.Sub(entry.lastSeen) > limiterIdleTTL {
				delete(l.create, key)
			}
		}
		l.lastPrunedAt = now
	}
	entry, ok := l.create[ip]
	if !ok {
		entry = &ipLimiter{
			limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(l.createPerMin)), l.createPerMin),
		}
		l.create[ip] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

// connLimiter returns a fresh limiter for one websocket connection.
func (l *rateLimits) connLimiter() *rate.Limiter {
	if l.eventsPerSec <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	burst := l.eventBurst
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(l.eventsPerSec), burst)
}
