// Package ratelimit provides per-client token bucket rate limiting
// for the stager API.
package ratelimit

import (
	"strings"
	"sync"
	"time"
)

// Rule limits one route. Path is a prefix match; an empty Method
// matches every method.
type Rule struct {
	Path   string
	Method string
	Limit  int
	Window time.Duration
	Burst  int
}

// Config holds limiter configuration.
type Config struct {
	Enabled       bool
	DefaultLimit  int
	DefaultWindow time.Duration
	Rules         []Rule
}

// DefaultConfig returns the limits used by the stager API. Webhook
// intake is the expensive route; each accepted order fans out into
// model calls, so it gets the tightest budget.
func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		DefaultLimit:  600,
		DefaultWindow: time.Minute,
		Rules: []Rule{
			{Path: "/api/stager/webhook", Method: "POST", Limit: 30, Window: time.Hour, Burst: 5},
			{Path: "/api/stager/jobs/", Method: "POST", Limit: 60, Window: time.Hour, Burst: 10},
			{Path: "/health", Limit: 0}, // unlimited
		},
	}
}

// Info reports the state of the bucket that handled a request.
type Info struct {
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

type bucket struct {
	capacity   float64
	refillRate float64 // tokens per second
	tokens     float64
	lastRefill time.Time
}

func (b *bucket) take(now time.Time) bool {
	elapsed := now.Sub(b.lastRefill).Seconds()
	b.tokens = min(b.capacity, b.tokens+elapsed*b.refillRate)
	b.lastRefill = now
	if b.tokens >= 1 {
		b.tokens--
		return true
	}
	return false
}

// Limiter buckets requests by client and route.
type Limiter struct {
	mu      sync.Mutex
	config  *Config
	buckets map[string]*bucket
}

// NewLimiter creates a limiter; a nil config selects DefaultConfig.
func NewLimiter(config *Config) *Limiter {
	if config == nil {
		config = DefaultConfig()
	}
	return &Limiter{config: config, buckets: make(map[string]*bucket)}
}

// Allow reports whether the client may hit the route now.
func (l *Limiter) Allow(clientID, path, method string) (bool, Info) {
	if !l.config.Enabled {
		return true, Info{}
	}

	rule := l.match(path, method)
	if rule.Limit <= 0 {
		return true, Info{}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := clientID + ":" + rule.Path + ":" + method
	b, ok := l.buckets[key]
	if !ok {
		capacity := rule.Burst
		if capacity <= 0 {
			capacity = rule.Limit
		}
		b = &bucket{
			capacity:   float64(capacity),
			refillRate: float64(rule.Limit) / rule.Window.Seconds(),
			tokens:     float64(capacity),
			lastRefill: time.Now(),
		}
		l.buckets[key] = b
	}

	now := time.Now()
	allowed := b.take(now)
	info := Info{Limit: rule.Limit, Remaining: int(b.tokens)}
	if !allowed {
		info.RetryAfter = time.Duration((1 - b.tokens) / b.refillRate * float64(time.Second))
	}
	return allowed, info
}

// match finds the most specific rule for the route, falling back to
// the default limit.
func (l *Limiter) match(path, method string) Rule {
	best := Rule{Path: "", Limit: l.config.DefaultLimit, Window: l.config.DefaultWindow}
	for _, rule := range l.config.Rules {
		if !strings.HasPrefix(path, rule.Path) {
			continue
		}
		if rule.Method != "" && rule.Method != method {
			continue
		}
		if len(rule.Path) > len(best.Path) {
			best = rule
		}
	}
	return best
}
