package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	ActionSendMessage = "send_message"
	ActionCreatePost  = "create_post"
	ActionDetectCrop  = "detect_crop"
	ActionAuth        = "auth"
)

// Policy is a bucket size plus the interval at which one token is refilled.
type Policy struct {
	Burst  int
	Refill time.Duration
}

var defaultPolicies = map[string]Policy{
	ActionSendMessage: {Burst: 10, Refill: 6 * time.Second},
	ActionCreatePost:  {Burst: 5, Refill: 12 * time.Second},
	ActionDetectCrop:  {Burst: 6, Refill: 10 * time.Second},
	ActionAuth:        {Burst: 10, Refill: 6 * time.Second},
}

var fallbackPolicy = Policy{Burst: 20, Refill: 3 * time.Second}

type bucket struct {
	limiter  *rate.Limiter
	refill   time.Duration
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per key and action.
type RateLimiter struct {
	buckets  map[string]*bucket
	policies map[string]Policy
	mutex    sync.Mutex
	now      func() time.Time
}

func NewRateLimiter() *RateLimiter {
	policies := make(map[string]Policy, len(defaultPolicies))
	for k, v := range defaultPolicies {
		policies[k] = v
	}
	return &RateLimiter{
		buckets:  make(map[string]*bucket),
		policies: policies,
		now:      time.Now,
	}
}

// SetPolicy overrides the policy for an action. Existing buckets keep theirs.
func (rl *RateLimiter) SetPolicy(action string, p Policy) {
	rl.mutex.Lock()
	rl.policies[action] = p
	rl.mutex.Unlock()
}

// policy must be called with rl.mutex held.
func (rl *RateLimiter) policy(action string) Policy {
	if p, ok := rl.policies[action]; ok {
		return p
	}
	return fallbackPolicy
}

// Allow consumes a token for key/action. When none is available it returns
// false and how long until one is.
func (rl *RateLimiter) Allow(key, action string) (bool, time.Duration) {
	now := rl.now()
	id := key + ":" + action

	rl.mutex.Lock()
	b, ok := rl.buckets[id]
	if !ok {
		p := rl.policy(action)
		b = &bucket{limiter: rate.NewLimiter(rate.Every(p.Refill), p.Burst), refill: p.Refill}
		rl.buckets[id] = b
	}
	b.lastSeen = now
	refill := b.refill
	rl.mutex.Unlock()

	r := b.limiter.ReserveN(now, 1)
	if !r.OK() {
		return false, refill
	}
	delay := r.DelayFrom(now)
	if delay == 0 {
		return true, 0
	}
	r.CancelAt(now)
	return false, delay
}

// Cleanup removes buckets idle for longer than maxIdle.
func (rl *RateLimiter) Cleanup(maxIdle time.Duration) int {
	cutoff := rl.now().Add(-maxIdle)
	removed := 0

	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	for id, b := range rl.buckets {
		if b.lastSeen.Before(cutoff) {
			delete(rl.buckets, id)
			removed++
		}
	}
	return removed
}

// StartCleanupRoutine sweeps idle buckets until stop is closed.
func (rl *RateLimiter) StartCleanupRoutine(stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				rl.Cleanup(time.Hour)
			case <-stop:
				return
			}
		}
	}()
}
