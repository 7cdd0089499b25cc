package hook

import (
	"sync"
	"time"

	"github.com/brinkmq/brink/encoding"
)

const (
	// _defaultExpiryWindowMultiplier defines how many window periods to wait before cleaning up inactive rate limiters.
	_defaultExpiryWindowMultiplier = 3
	// _defaultCleanupInterval defines how often the cleanup process runs to remove old limiters, in multiples of window.
	_defaultCleanupInterval = 2
)

type rateLimiter struct {
	count       int
	windowStart time.Time
	lastAccess  time.Time
}

// RateLimitHook enforces one publish-rate ceiling, counted separately for
// each client identifier bound to it via FuncFor.
type RateLimitHook struct {
	mu           sync.Mutex
	limiters     map[string]*rateLimiter
	maxRate      int
	window       time.Duration
	cleanupTimer *time.Timer
}

// NewRateLimitHook creates a new rate limiting hook.
// maxRate: maximum number of publishes allowed per client per window.
// window: the length of each fixed counting window (e.g. one minute); a
// client's count restarts once that much time has passed since its window
// began.
func NewRateLimitHook(maxRate int, window time.Duration) *RateLimitHook {
	h := &RateLimitHook{
		limiters: make(map[string]*rateLimiter),
		maxRate:  maxRate,
		window:   window,
	}
	h.startCleanup()
	return h
}

// Stop stops the cleanup timer.
func (h *RateLimitHook) Stop() {
	if h.cleanupTimer != nil {
		h.cleanupTimer.Stop()
	}
}

func (h *RateLimitHook) check(clientID string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	limiter, exists := h.limiters[clientID]

	if !exists || now.Sub(limiter.windowStart) > h.window {
		h.limiters[clientID] = &rateLimiter{count: 1, windowStart: now, lastAccess: now}
		if h.maxRate < 1 {
			return ErrRateLimitExceeded
		}
		return nil
	}

	limiter.lastAccess = now
	limiter.count++
	if limiter.count > h.maxRate {
		return ErrRateLimitExceeded
	}
	return nil
}

// FuncFor binds the hook to one connection's client identifier. The broker
// registers the resulting Func for the lifetime of that Link only; it
// observes PUBLISH packets and rejects with an error once the client
// exceeds its window, leaving every other packet type untouched.
func (h *RateLimitHook) FuncFor(clientID string) Func {
	return func(pkt encoding.Packet) (encoding.Packet, error) {
		if _, ok := pkt.(*encoding.PublishPacket); !ok {
			return nil, nil
		}
		if err := h.check(clientID); err != nil {
			return nil, err
		}
		return nil, nil
	}
}

// SetMaxRate updates the maximum rate limit.
func (h *RateLimitHook) SetMaxRate(maxRate int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.maxRate = maxRate
}

// SetWindow updates the time window.
func (h *RateLimitHook) SetWindow(window time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.window = window
}

// GetClientCount returns the current count for a specific client.
func (h *RateLimitHook) GetClientCount(clientID string) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	limiter, exists := h.limiters[clientID]
	if !exists {
		return 0, false
	}
	return limiter.count, true
}

// ResetClient resets the rate limit for a specific client.
func (h *RateLimitHook) ResetClient(clientID string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.limiters, clientID)
}

// ActiveClients returns the number of clients currently being tracked.
func (h *RateLimitHook) ActiveClients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.limiters)
}

func (h *RateLimitHook) startCleanup() {
	cleanupInterval := h.window * _defaultCleanupInterval
	if cleanupInterval < time.Minute {
		cleanupInterval = time.Minute
	}

	h.cleanupTimer = time.AfterFunc(cleanupInterval, func() {
		h.cleanup()
		h.startCleanup()
	})
}

func (h *RateLimitHook) cleanup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	expiry := h.window * _defaultExpiryWindowMultiplier

	for clientID, limiter := range h.limiters {
		if now.Sub(limiter.lastAccess) > expiry {
			delete(h.limiters, clientID)
		}
	}
}

// MultiLevelRateLimitHook enforces per-client, per-topic, and global publish
// rate ceilings from a single shared instance.
type MultiLevelRateLimitHook struct {
	mu             sync.Mutex
	perClientLimit int
	perTopicLimit  int
	globalLimit    int
	window         time.Duration
	clientLimiters map[string]*rateLimiter
	topicLimiters  map[string]*rateLimiter
	globalLimiter  *rateLimiter
	cleanupTimer   *time.Timer
}

// NewMultiLevelRateLimitHook creates a multi-level rate limiter.
func NewMultiLevelRateLimitHook(perClientLimit, perTopicLimit, globalLimit int, window time.Duration) *MultiLevelRateLimitHook {
	h := &MultiLevelRateLimitHook{
		perClientLimit: perClientLimit,
		perTopicLimit:  perTopicLimit,
		globalLimit:    globalLimit,
		window:         window,
		clientLimiters: make(map[string]*rateLimiter),
		topicLimiters:  make(map[string]*rateLimiter),
		globalLimiter:  &rateLimiter{windowStart: time.Now()},
	}
	h.startCleanup()
	return h
}

// Stop stops the cleanup timer.
func (h *MultiLevelRateLimitHook) Stop() {
	if h.cleanupTimer != nil {
		h.cleanupTimer.Stop()
	}
}

// FuncFor binds the hook to one connection's client identifier, checking the
// global, per-client, and per-topic ceilings in that order on every PUBLISH.
func (h *MultiLevelRateLimitHook) FuncFor(clientID string) Func {
	return func(pkt encoding.Packet) (encoding.Packet, error) {
		publish, ok := pkt.(*encoding.PublishPacket)
		if !ok {
			return nil, nil
		}

		h.mu.Lock()
		defer h.mu.Unlock()
		now := time.Now()

		if h.globalLimit > 0 {
			if now.Sub(h.globalLimiter.windowStart) > h.window {
				h.globalLimiter.count = 1
				h.globalLimiter.windowStart = now
			} else {
				h.globalLimiter.count++
				if h.globalLimiter.count > h.globalLimit {
					return nil, ErrGlobalRateLimitExceeded
				}
			}
		}

		if h.perClientLimit > 0 {
			if err := h.checkLimit(clientID, h.perClientLimit, now, h.clientLimiters, ErrClientRateLimitExceeded); err != nil {
				return nil, err
			}
		}

		if h.perTopicLimit > 0 {
			if err := h.checkLimit(publish.TopicName, h.perTopicLimit, now, h.topicLimiters, ErrTopicRateLimitExceeded); err != nil {
				return nil, err
			}
		}

		return nil, nil
	}
}

func (h *MultiLevelRateLimitHook) checkLimit(key string, maxRate int, now time.Time, limiters map[string]*rateLimiter, errType error) error {
	limiter, exists := limiters[key]

	if !exists || now.Sub(limiter.windowStart) > h.window {
		limiters[key] = &rateLimiter{count: 1, windowStart: now, lastAccess: now}
		return nil
	}

	limiter.lastAccess = now
	limiter.count++
	if limiter.count > maxRate {
		return errType
	}
	return nil
}

// GetClientCount returns the current count for a client.
func (h *MultiLevelRateLimitHook) GetClientCount(clientID string) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	limiter, exists := h.clientLimiters[clientID]
	if !exists {
		return 0, false
	}
	return limiter.count, true
}

// GetTopicCount returns the current count for a topic.
func (h *MultiLevelRateLimitHook) GetTopicCount(topic string) (int, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	limiter, exists := h.topicLimiters[topic]
	if !exists {
		return 0, false
	}
	return limiter.count, true
}

// GetGlobalCount returns the current global count.
func (h *MultiLevelRateLimitHook) GetGlobalCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.globalLimiter.count
}

func (h *MultiLevelRateLimitHook) startCleanup() {
	cleanupInterval := h.window * _defaultCleanupInterval
	if cleanupInterval < time.Minute {
		cleanupInterval = time.Minute
	}

	h.cleanupTimer = time.AfterFunc(cleanupInterval, func() {
		h.cleanup()
		h.startCleanup()
	})
}

func (h *MultiLevelRateLimitHook) cleanup() {
	h.mu.Lock()
	defer h.mu.Unlock()

	now := time.Now()
	expiry := h.window * _defaultExpiryWindowMultiplier

	for key, limiter := range h.clientLimiters {
		if now.Sub(limiter.lastAccess) > expiry {
			delete(h.clientLimiters, key)
		}
	}
	for key, limiter := range h.topicLimiters {
		if now.Sub(limiter.lastAccess) > expiry {
			delete(h.topicLimiters, key)
		}
	}
}
