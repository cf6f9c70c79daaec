package redis

import "errors"

var (
	// ErrFailedToParseConnString is returned when the Redis URL is malformed.
	ErrFailedToParseConnString = errors.New("failed to parse redis connection string")
	// ErrNotReady is returned when the Redis server cannot be reached.
	ErrNotReady = errors.New("redis connection is not available")
)
