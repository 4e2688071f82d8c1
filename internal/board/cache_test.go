package board

import (
	"context"
	"testing"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

func TestMemoryCache_ReturnsCopies(t *testing.T) {
	c := NewMemoryCache()
	key := SnapshotKey{Date: "2026-10-15", Filter: domain.FilterAll}

	s := &domain.Schedule{Date: key.Date, Filter: key.Filter, Appointments: []domain.Appointment{{ID: "a1"}}}
	if err := c.Set(context.Background(), key, s); err != nil {
		t.Fatalf("set: %v", err)
	}
	s.Appointments[0].ID = "changed"

	got, ok, _ := c.Get(context.Background(), key)
	if !ok || got.Appointments[0].ID != "a1" {
		t.Fatalf("cache must keep its own copy, got %+v", got)
	}
	got.Appointments[0].ID = "changed again"

	again, _, _ := c.Get(context.Background(), key)
	if again.Appointments[0].ID != "a1" {
		t.Fatalf("returned snapshot must not alias the cache")
	}
}

func TestMemoryCache_Flush(t *testing.T) {
	c := NewMemoryCache()
	for _, f := range domain.ScheduleFilters {
		_ = c.Set(context.Background(), SnapshotKey{Date: "2026-10-15", Filter: f}, &domain.Schedule{})
	}
	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}
	for _, f := range domain.ScheduleFilters {
		if _, ok, _ := c.Get(context.Background(), SnapshotKey{Date: "2026-10-15", Filter: f}); ok {
			t.Fatalf("snapshot %s survived flush", f)
		}
	}
}

func TestSchedule_Clone_PreservesEmptySlices(t *testing.T) {
	s := &domain.Schedule{Stations: []domain.Station{}, Appointments: nil}
	c := s.Clone()
	if c.Stations == nil {
		t.Fatalf("empty slice became nil")
	}
	if c.Appointments != nil {
		t.Fatalf("nil slice became empty")
	}
}
