package server

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client address
type clientLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	clients map[string]*limiterEntry
}

// newClientLimiter allows perSecond requests per client with the given
// burst. A non-positive rate disables limiting.
func newClientLimiter(perSecond float64, burst int) *clientLimiter {
	l := &clientLimiter{clients: make(map[string]*limiterEntry)}
	l.setLimit(perSecond, burst)
	return l
}

func toLimit(perSecond float64) rate.Limit {
	if perSecond <= 0 {
		return rate.Inf
	}
	return rate.Limit(perSecond)
}

// setLimit changes the rate for new and existing clients
func (l *clientLimiter) setLimit(perSecond float64, burst int) {
	if burst < 1 {
		burst = 1
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.limit = toLimit(perSecond)
	l.burst = burst
	for _, e := range l.clients {
		e.limiter.SetLimit(l.limit)
		e.limiter.SetBurst(l.burst)
	}
}

// allow reports whether a request from key may proceed
func (l *clientLimiter) allow(key string) bool {
	l.mu.Lock()
	if l.limit == rate.Inf {
		l.mu.Unlock()
		return true
	}
	e, ok := l.clients[key]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[key] = e
	}
	e.lastSeen = time.Now()
	l.mu.Unlock()

	return e.limiter.Allow()
}

// size returns the number of tracked clients
func (l *clientLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

// evict drops clients not seen since cutoff
func (l *clientLimiter) evict(cutoff time.Time) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for key, e := range l.clients {
		if e.lastSeen.Before(cutoff) {
			delete(l.clients, key)
			n++
		}
	}
	return n
}

// sweep evicts idle clients every idle interval until ctx is done
func (l *clientLimiter) sweep(ctx context.Context, idle time.Duration) {
	ticker := time.NewTicker(idle)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.evict(now.Add(-idle))
		}
	}
}
