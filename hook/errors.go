package hook

import "errors"

var (
	// ErrRateLimitExceeded is returned by RateLimitHook when a single
	// client exceeds its configured publish rate.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	// ErrGlobalRateLimitExceeded is returned by MultiLevelRateLimitHook
	// when the broker-wide publish rate is exceeded.
	ErrGlobalRateLimitExceeded = errors.New("global rate limit exceeded")
	// ErrClientRateLimitExceeded is returned by MultiLevelRateLimitHook
	// when a single client's rate is exceeded.
	ErrClientRateLimitExceeded = errors.New("client rate limit exceeded")
	// ErrTopicRateLimitExceeded is returned by MultiLevelRateLimitHook
	// when a single topic's rate is exceeded.
	ErrTopicRateLimitExceeded = errors.New("topic rate limit exceeded")
)
