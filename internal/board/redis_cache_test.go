package board

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	return NewRedisCache(rdb, 5*time.Minute, time.Second), mr
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c, mr := newTestRedisCache(t)
	key := SnapshotKey{Date: "2026-10-15", Filter: domain.FilterGrooming}

	if _, ok, err := c.Get(context.Background(), key); ok || err != nil {
		t.Fatalf("expected miss, got ok=%v err=%v", ok, err)
	}

	hs := "09:00"
	s := &domain.Schedule{
		Date:     key.Date,
		Filter:   key.Filter,
		Stations: []domain.Station{{ID: "s1", Name: "美容台 1", IsActive: true, ServiceType: domain.ServiceGrooming}},
		Appointments: []domain.Appointment{
			groomingAppt("a1", at(10, 0), at(10, 30)),
			{ID: "a3", StationID: "d1", StartAt: at(9, 0), EndAt: at(12, 0), ServiceType: domain.ServiceDaycare, HourSelection: &hs, Version: 2},
		},
	}
	if err := c.Set(context.Background(), key, s); err != nil {
		t.Fatalf("set: %v", err)
	}

	if !mr.Exists("schedule:2026-10-15:grooming") {
		t.Fatalf("snapshot stored under unexpected key: %v", mr.Keys())
	}
	if ttl := mr.TTL("schedule:2026-10-15:grooming"); ttl != 5*time.Minute {
		t.Fatalf("expected ttl 5m, got %s", ttl)
	}

	got, ok, err := c.Get(context.Background(), key)
	if err != nil || !ok {
		t.Fatalf("get: ok=%v err=%v", ok, err)
	}
	want, _ := json.Marshal(s)
	data, _ := json.Marshal(got)
	if !bytes.Equal(want, data) {
		t.Fatalf("snapshot changed through redis:\n%s\n%s", want, data)
	}

	if err := c.Delete(context.Background(), key); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, ok, _ := c.Get(context.Background(), key); ok {
		t.Fatalf("snapshot must be deleted")
	}
}

func TestRedisCache_FlushOnlyTouchesSnapshots(t *testing.T) {
	c, mr := newTestRedisCache(t)

	for _, d := range []string{"2026-10-15", "2026-10-16"} {
		for _, f := range domain.ScheduleFilters {
			if err := c.Set(context.Background(), SnapshotKey{Date: d, Filter: f}, &domain.Schedule{Date: d, Filter: f}); err != nil {
				t.Fatalf("set: %v", err)
			}
		}
	}
	if err := mr.Set("otp:alice", "123456"); err != nil {
		t.Fatalf("seed unrelated key: %v", err)
	}

	if err := c.Flush(context.Background()); err != nil {
		t.Fatalf("flush: %v", err)
	}

	keys := mr.Keys()
	if len(keys) != 1 || keys[0] != "otp:alice" {
		t.Fatalf("expected only the unrelated key to remain, got %v", keys)
	}
}

func TestRedisCache_CommitFailureRestoresSnapshotExactly(t *testing.T) {
	c, _ := newTestRedisCache(t)
	store := newFakeStore(
		groomingAppt("a1", at(10, 0), at(10, 30)),
		groomingAppt("a2", at(11, 0), at(12, 0)),
	)
	store.moveErr = domain.ErrStaleWrite
	b := New(store, c, nil, Options{Location: time.UTC})
	warmCache(t, b)
	before := cachedJSON(t, b)

	newStart := at(13, 0)
	_, err := b.Move(context.Background(), &MoveRequest{AppointmentID: "a1", NewStationID: "s2", NewStartAt: &newStart})
	if !errors.Is(err, domain.ErrStaleWrite) {
		t.Fatalf("expected ErrStaleWrite, got %v", err)
	}

	after := cachedJSON(t, b)
	if len(after) != len(before) {
		t.Fatalf("snapshot count changed: %d -> %d", len(before), len(after))
	}
	for f, data := range before {
		if !bytes.Equal(data, after[f]) {
			t.Fatalf("snapshot %s changed after rollback:\n%s\n%s", f, data, after[f])
		}
	}
}
