package wizard

import (
	"testing"
	"time"

	"smartgrid/wattson/internal/constants"
	"smartgrid/wattson/internal/providers"
)

func TestSessionCreateSeedsContext(t *testing.T) {
	store := NewSessionStore(time.Minute)

	session := store.Create(providers.VendorHuawei)
	if session.ID == "" {
		t.Fatal("expected a generated session id")
	}
	if session.Vendor != providers.VendorHuawei {
		t.Fatalf("unexpected vendor: %v", session.Vendor)
	}
	if got := session.Context[constants.WizardSessionIDContextKey]; got != session.ID {
		t.Fatalf("session id must be seeded into the context, got %v", got)
	}
	if store.Len() != 1 {
		t.Fatalf("expected 1 stored session, got %d", store.Len())
	}
}

func TestSessionExpiresAfterTTL(t *testing.T) {
	store := NewSessionStore(50 * time.Millisecond)

	session := store.Create(providers.VendorHuawei)
	time.Sleep(120 * time.Millisecond)

	if got := store.Get(session.ID); got != nil {
		t.Fatal("expected session to be swept after the TTL")
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d", store.Len())
	}
}

func TestSessionGetTouchesIdleTimer(t *testing.T) {
	store := NewSessionStore(150 * time.Millisecond)

	session := store.Create(providers.VendorHuawei)

	// Keep touching inside the TTL window; the session must survive past
	// its original deadline
	for i := 0; i < 3; i++ {
		time.Sleep(80 * time.Millisecond)
		if got := store.Get(session.ID); got == nil {
			t.Fatalf("session expired despite activity (iteration %d)", i)
		}
	}
}

func TestSessionDelete(t *testing.T) {
	store := NewSessionStore(time.Minute)

	session := store.Create(providers.VendorHuawei)
	store.Delete(session.ID)

	if got := store.Get(session.ID); got != nil {
		t.Fatal("expected session gone after Delete")
	}
}

func TestSessionPersistOverwrites(t *testing.T) {
	store := NewSessionStore(time.Minute)

	session := store.Create(providers.VendorHuawei)
	session.Data["station_code"] = "ST-1"
	session.LastStep = "station"
	store.Persist(session)

	got := store.Get(session.ID)
	if got == nil {
		t.Fatal("expected session present")
	}
	if got.Data["station_code"] != "ST-1" || got.LastStep != "station" {
		t.Fatalf("persisted state lost: %+v", got)
	}
}

func TestSweeperRemovesIdleSessions(t *testing.T) {
	store := NewSessionStore(30 * time.Millisecond)
	store.StartSweeper(20 * time.Millisecond)
	defer store.StopSweeper()

	store.Create(providers.VendorHuawei)
	time.Sleep(150 * time.Millisecond)

	if store.Len() != 0 {
		t.Fatalf("expected sweeper to remove idle sessions, got %d", store.Len())
	}
}
