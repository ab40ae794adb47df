package common

import "time"

// CacheInterface is the contract shared by the in-memory and Redis cache
// implementations. The provider service uses it as a read-through cache
// for live values and station listings.
type CacheInterface interface {
	// Set stores a value under key for the given duration
	Set(key string, value interface{}, duration time.Duration)

	// Get retrieves a value by key; the bool reports presence
	Get(key string) (interface{}, bool)

	// Delete removes a value by key
	Delete(key string)

	// GetOrSet returns the cached value or loads, stores and returns it
	GetOrSet(key string, duration time.Duration, loader func() (any, error)) (interface{}, error)

	// Close releases any underlying connections
	Close() error
}
