package providers

import (
	"context"
	"errors"
	"testing"
	"time"

	"smartgrid/wattson/internal/constants"
)

// stubAdapter satisfies VendorAdapter without any network access
type stubAdapter struct {
	id string
}

func (s *stubAdapter) Connect(ctx context.Context) error                  { return nil }
func (s *stubAdapter) ListStations(ctx context.Context) ([]Station, error) { return nil, nil }
func (s *stubAdapter) ListDevices(ctx context.Context, stationCode string) ([]Device, error) {
	return nil, nil
}
func (s *stubAdapter) ReadValue(ctx context.Context, deviceID string) (float64, error) {
	return 0, nil
}

func testDefinitions(constructed *int, failWith error) map[Vendor]Definition {
	return map[Vendor]Definition{
		Vendor("acme"): {
			Label: "Acme Test Vendor",
			Type:  ProviderTypeAPI,
			NewAdapter: func(creds Credentials, settings AdapterSettings) (VendorAdapter, error) {
				*constructed++
				if failWith != nil {
					return nil, failWith
				}
				return &stubAdapter{id: creds["username"]}, nil
			},
			Settings: AdapterSettings{
				BaseURL:    "https://acme.example",
				Timeout:    5 * time.Second,
				MaxRetries: 2,
			},
		},
		Vendor("schemaonly"): {
			Label: "No Adapter Implementation",
			Type:  ProviderTypeSensor,
		},
	}
}

func TestFactoryCachesPerVendorAndKey(t *testing.T) {
	constructed := 0
	factory := NewAdapterFactory(testDefinitions(&constructed, nil))

	creds := Credentials{"username": "alice"}

	first, err := factory.Create(Vendor("acme"), creds, "alice", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	second, err := factory.Create(Vendor("acme"), creds, "alice", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if first != second {
		t.Fatal("expected the same cached instance for identical keys")
	}
	if constructed != 1 {
		t.Fatalf("expected a single construction, got %d", constructed)
	}

	// A different cache key produces a distinct adapter
	third, err := factory.Create(Vendor("acme"), Credentials{"username": "bob"}, "bob", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if third == first {
		t.Fatal("expected a distinct adapter for a different cache key")
	}
	if constructed != 2 {
		t.Fatalf("expected a second construction, got %d", constructed)
	}
}

func TestFactoryUnknownVendor(t *testing.T) {
	constructed := 0
	factory := NewAdapterFactory(testDefinitions(&constructed, nil))

	_, err := factory.Create(Vendor("nope"), nil, "k", nil)
	if !IsCode(err, constants.ErrCodeProviderNotSupported) {
		t.Fatalf("expected not supported error, got %v", err)
	}
}

func TestFactoryVendorWithoutAdapter(t *testing.T) {
	constructed := 0
	factory := NewAdapterFactory(testDefinitions(&constructed, nil))

	_, err := factory.Create(Vendor("schemaonly"), nil, "k", nil)
	if !IsCode(err, constants.ErrCodeProviderNotSupported) {
		t.Fatalf("expected not supported error, got %v", err)
	}
}

func TestFactoryConstructorErrorsPropagateUncached(t *testing.T) {
	constructed := 0
	boom := errors.New("boom")
	factory := NewAdapterFactory(testDefinitions(&constructed, boom))

	_, err := factory.Create(Vendor("acme"), nil, "k", nil)
	if !errors.Is(err, boom) {
		t.Fatalf("expected constructor error unchanged, got %v", err)
	}

	// Failures are not cached; the next call tries again
	_, _ = factory.Create(Vendor("acme"), nil, "k", nil)
	if constructed != 2 {
		t.Fatalf("expected construction retried after failure, got %d", constructed)
	}
}

func TestFactoryClearCache(t *testing.T) {
	constructed := 0
	factory := NewAdapterFactory(testDefinitions(&constructed, nil))

	if _, err := factory.Create(Vendor("acme"), nil, "k", nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	factory.ClearCache()
	if _, err := factory.Create(Vendor("acme"), nil, "k", nil); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if constructed != 2 {
		t.Fatalf("expected reconstruction after ClearCache, got %d", constructed)
	}
}

func TestFactoryMergesOverrides(t *testing.T) {
	var seen AdapterSettings
	definitions := map[Vendor]Definition{
		Vendor("acme"): {
			NewAdapter: func(creds Credentials, settings AdapterSettings) (VendorAdapter, error) {
				seen = settings
				return &stubAdapter{}, nil
			},
			Settings: AdapterSettings{
				BaseURL:    "https://acme.example",
				Timeout:    5 * time.Second,
				MaxRetries: 2,
			},
		},
	}
	factory := NewAdapterFactory(definitions)

	overrides := map[string]any{
		"base_url": "https://other.example",
		"timeout":  1.5,
		"plant_id": "p-77",
	}
	if _, err := factory.Create(Vendor("acme"), nil, "k", overrides); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if seen.BaseURL != "https://other.example" {
		t.Fatalf("base_url override not applied: %q", seen.BaseURL)
	}
	if seen.Timeout != 1500*time.Millisecond {
		t.Fatalf("timeout override not applied: %v", seen.Timeout)
	}
	if seen.MaxRetries != 2 {
		t.Fatalf("defaults must survive when not overridden, got %d", seen.MaxRetries)
	}
	if seen.Extra["plant_id"] != "p-77" {
		t.Fatalf("unknown settings must land in Extra, got %v", seen.Extra)
	}
}
