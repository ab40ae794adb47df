package providers

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"smartgrid/wattson/internal/logging"
)

type cacheID struct {
	vendor Vendor
	key    string
}

// AdapterFactory creates and caches provider adapters based on registry
// metadata. Exactly one adapter lives per (vendor, cache key) pair;
// concurrent misses on the same key are collapsed into a single
// construction, so callers always share the instance.
type AdapterFactory struct {
	definitions map[Vendor]Definition

	mu    sync.RWMutex
	cache map[cacheID]VendorAdapter
	group singleflight.Group
}

// NewAdapterFactory builds a factory over the given registry table.
// Tests construct isolated factories over their own definitions.
func NewAdapterFactory(definitions map[Vendor]Definition) *AdapterFactory {
	return &AdapterFactory{
		definitions: definitions,
		cache:       map[cacheID]VendorAdapter{},
	}
}

// Create returns the cached adapter for (vendor, cacheKey) or constructs a
// new one from registry metadata. cacheKey distinguishes adapter lifetimes
// for the same vendor, e.g. one per end-user credential set. overrides are
// merged over the vendor's default settings.
func (f *AdapterFactory) Create(vendor Vendor, creds Credentials, cacheKey string, overrides map[string]any) (VendorAdapter, error) {
	id := cacheID{vendor: vendor, key: cacheKey}

	f.mu.RLock()
	cached, ok := f.cache[id]
	f.mu.RUnlock()
	if ok {
		logging.Debug("Using cached provider adapter",
			"vendor", string(vendor),
			"cache_key", cacheKey,
		)
		return cached, nil
	}

	adapter, err, _ := f.group.Do(string(vendor)+"|"+cacheKey, func() (any, error) {
		f.mu.RLock()
		cached, ok := f.cache[id]
		f.mu.RUnlock()
		if ok {
			return cached, nil
		}

		def, ok := f.definitions[vendor]
		if !ok || def.NewAdapter == nil {
			return nil, NewNotSupportedError(vendor)
		}

		settings := def.Settings.Merge(overrides)

		logging.Info("Creating provider adapter",
			"vendor", string(vendor),
			"cache_key", cacheKey,
		)

		created, err := def.NewAdapter(creds, settings)
		if err != nil {
			logging.Error("Failed to instantiate provider adapter",
				"vendor", string(vendor),
				"credentials", credentialKeys(creds),
				"settings", settingKeys(settings),
			)
			return nil, err
		}

		f.mu.Lock()
		f.cache[id] = created
		f.mu.Unlock()
		return created, nil
	})
	if err != nil {
		return nil, err
	}
	return adapter.(VendorAdapter), nil
}

// ClearCache drops every cached adapter unconditionally. Administrative
// operation.
func (f *AdapterFactory) ClearCache() {
	f.mu.Lock()
	f.cache = map[cacheID]VendorAdapter{}
	f.mu.Unlock()
	logging.Warn("Provider adapter cache cleared")
}

func settingKeys(settings AdapterSettings) []string {
	keys := []string{"base_url", "timeout", "max_retries"}
	for k := range settings.Extra {
		keys = append(keys, k)
	}
	return keys
}
