package dashboard_test

import (
	"context"
	"testing"
	"time"

	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"github.com/ramaalshaban/dashboard/internal/app/system/projectcache"
	"go.uber.org/zap"
)

func TestRegistry_OpenLookupClose(t *testing.T) {
	reg := dashboard.NewRegistry(projectcache.MemoryFactory(), zap.NewNop(), nil)
	ctx := context.Background()

	sess := reg.Open()
	if sess.ID == "" {
		t.Fatal("session id is empty")
	}
	got, ok := reg.Lookup(sess.ID)
	if !ok || got != sess {
		t.Fatalf("Lookup: got (%p, %v), want (%p, true)", got, ok, sess)
	}

	sess.Cache().Set(ctx, "A", projects(1))
	reg.Close(ctx, sess.ID)

	if _, ok := reg.Lookup(sess.ID); ok {
		t.Error("session still registered after Close")
	}
	if ok, _ := sess.Cache().Has(ctx, "A"); ok {
		t.Error("cache not cleared on Close")
	}
	if _, ok := reg.Lookup(""); ok {
		t.Error("empty id should never resolve")
	}
}

func TestRegistry_SessionsHaveSeparateCaches(t *testing.T) {
	reg := dashboard.NewRegistry(projectcache.MemoryFactory(), zap.NewNop(), nil)
	ctx := context.Background()

	a, b := reg.Open(), reg.Open()
	a.Cache().Set(ctx, "A", projects(1))

	if ok, _ := b.Cache().Has(ctx, "A"); ok {
		t.Error("session b sees session a's cache")
	}
}

func TestRegistry_SweepClosesIdleSessions(t *testing.T) {
	reg := dashboard.NewRegistry(projectcache.MemoryFactory(), zap.NewNop(), nil)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	reg.SetClock(func() time.Time { return now })

	idle := reg.Open()
	now = now.Add(90 * time.Minute)
	active := reg.Open()
	now = now.Add(45 * time.Minute)

	closed := reg.Sweep(context.Background(), 2*time.Hour)

	if closed != 1 {
		t.Errorf("closed: got %d, want 1", closed)
	}
	if _, ok := reg.Lookup(idle.ID); ok {
		t.Error("idle session survived sweep")
	}
	if _, ok := reg.Lookup(active.ID); !ok {
		t.Error("active session was swept")
	}
	if reg.Len() != 1 {
		t.Errorf("Len: got %d, want 1", reg.Len())
	}
}
