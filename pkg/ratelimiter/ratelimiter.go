// Package ratelimiter provides the per-caller request throttle used by the
// drive API. Each caller gets an independent token bucket, so one user
// hammering uploads cannot starve the others.
package ratelimiter

import (
	"sync"
	"time"
)

// Limiter decides whether a request is allowed.
type Limiter interface {
	Allow() bool
}

// TokenBucket is a classic token bucket: tokens accrue at a fixed rate up
// to a burst capacity, and each allowed request consumes one.
type TokenBucket struct {
	rate     float64 // tokens per second
	capacity float64
	tokens   float64
	last     time.Time
	mu       sync.Mutex
}

// NewTokenBucket creates a bucket that starts full.
func NewTokenBucket(rate float64, capacity int) *TokenBucket {
	return &TokenBucket{
		rate:     rate,
		capacity: float64(capacity),
		tokens:   float64(capacity),
		last:     time.Now(),
	}
}

// Allow refills the bucket for the elapsed time and consumes one token if
// available.
func (tb *TokenBucket) Allow() bool {
	tb.mu.Lock()
	defer tb.mu.Unlock()

	now := time.Now()
	if elapsed := now.Sub(tb.last); elapsed > 0 {
		tb.tokens += elapsed.Seconds() * tb.rate
		if tb.tokens > tb.capacity {
			tb.tokens = tb.capacity
		}
		tb.last = now
	}

	if tb.tokens >= 1 {
		tb.tokens--
		return true
	}
	return false
}

// Keyed maintains one TokenBucket per caller key (user id or client IP).
// Buckets are created lazily on first use.
type Keyed struct {
	rate     float64
	capacity int

	mu      sync.Mutex
	buckets map[string]*TokenBucket
}

// NewKeyed creates a per-key limiter; every key gets the same rate and
// burst capacity.
func NewKeyed(rate float64, capacity int) *Keyed {
	return &Keyed{
		rate:     rate,
		capacity: capacity,
		buckets:  make(map[string]*TokenBucket),
	}
}

// Allow reports whether the caller identified by key may proceed.
func (k *Keyed) Allow(key string) bool {
	k.mu.Lock()
	bucket, ok := k.buckets[key]
	if !ok {
		bucket = NewTokenBucket(k.rate, k.capacity)
		k.buckets[key] = bucket
	}
	k.mu.Unlock()

	return bucket.Allow()
}
