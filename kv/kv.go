package kv

import "time"

// KeyValueStore represents an interface for a key-value storage system
// backing the per-user usage counters.
type KeyValueStore interface {
	// Set stores a key-value pair with optional expiration duration
	Set(key, value string, exp time.Duration) error
	// Get retrieves the value associated with the given key
	Get(key string) (string, error)
	// Del removes the key-value pair and returns the deleted key
	Del(key string) (string, error)
	// Incr atomically increments the integer counter at key and returns
	// the new value, creating the key at 1 when absent
	Incr(key string) (int64, error)
}
