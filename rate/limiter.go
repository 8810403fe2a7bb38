// Package rate provides a per-client token bucket keyed by an opaque
// client id, used to throttle credential endpoints.
package rate

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// evictInterval is how often idle client buckets are swept out.
const evictInterval = time.Minute

type Limiter struct {
	// Expiry is how many minutes a client bucket survives without
	// being checked before it is evicted.
	Expiry   int
	Burst    int
	LimitRPS float64

	mu      sync.RWMutex
	clients map[string]*client
}

type client struct {
	bucket   *rate.Limiter
	lastSeen time.Time
}

func NewLimiter(burst int, expiry int, limitRPS float64) *Limiter {
	l := &Limiter{
		Expiry:   expiry,
		Burst:    burst,
		LimitRPS: limitRPS,
		clients:  make(map[string]*client),
	}
	go l.evict()
	return l
}

// Check reports whether the client identified by id may proceed,
// consuming one token from its bucket.
func (l *Limiter) Check(id string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	c, ok := l.clients[id]
	if !ok {
		c = &client{bucket: rate.NewLimiter(rate.Limit(l.LimitRPS), l.Burst)}
		l.clients[id] = c
	}
	c.lastSeen = time.Now()

	return c.bucket.Allow()
}

func (l *Limiter) evict() {
	for {
		time.Sleep(evictInterval)

		l.mu.Lock()
		for id, c := range l.clients {
			if time.Since(c.lastSeen) > time.Duration(l.Expiry)*time.Minute {
				delete(l.clients, id)
			}
		}
		l.mu.Unlock()
	}
}

// Every converts an interval between events into the rate expected by
// NewLimiter.
func Every(interval time.Duration) float64 {
	return float64(rate.Every(interval))
}
