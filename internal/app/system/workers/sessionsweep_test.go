package workers_test

import (
	"testing"
	"time"

	"github.com/ramaalshaban/dashboard/internal/app/system/dashboard"
	"github.com/ramaalshaban/dashboard/internal/app/system/projectcache"
	"github.com/ramaalshaban/dashboard/internal/app/system/workers"
	"go.uber.org/zap"
)

func TestSessionSweep_ClosesIdleSessions(t *testing.T) {
	reg := dashboard.NewRegistry(projectcache.MemoryFactory(), zap.NewNop(), nil)
	now := time.Now()
	reg.SetClock(func() time.Time { return now })

	stale := reg.Open()
	now = now.Add(3 * time.Hour)
	fresh := reg.Open()

	w := workers.NewSessionSweep(reg, zap.NewNop(), time.Hour, 2*time.Hour)
	if n := w.Sweep(); n != 1 {
		t.Errorf("Sweep: got %d closed, want 1", n)
	}
	if _, ok := reg.Lookup(stale.ID); ok {
		t.Error("stale session survived")
	}
	if _, ok := reg.Lookup(fresh.ID); !ok {
		t.Error("fresh session was closed")
	}
}

func TestSessionSweep_StartStop(t *testing.T) {
	reg := dashboard.NewRegistry(projectcache.MemoryFactory(), zap.NewNop(), nil)
	w := workers.NewSessionSweep(reg, zap.NewNop(), 10*time.Millisecond, time.Hour)

	w.Start()
	time.Sleep(30 * time.Millisecond)
	w.Stop()
}
