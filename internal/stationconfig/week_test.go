package stationconfig

import (
	"context"
	"errors"
	"math/rand"
	"slices"
	"testing"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
)

func checkOrderCoversVisible(t *testing.T, w *Week) {
	t.Helper()
	if err := w.Validate(); err != nil {
		t.Fatalf("invariant broken: %v", err)
	}
}

func TestToggleVisibility(t *testing.T) {
	w := NewWeek(nil)

	for _, id := range []string{"a", "b", "c"} {
		if err := w.ToggleVisibility("monday", id, true); err != nil {
			t.Fatalf("toggle: %v", err)
		}
	}
	// 重复显示不会产生重复的 ID
	if err := w.ToggleVisibility("monday", "a", true); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if err := w.ToggleVisibility("monday", "b", false); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	c, _ := w.Day("monday")
	if !slices.Equal(c.VisibleStationIDs, []string{"a", "c"}) || !slices.Equal(c.StationOrder, []string{"a", "c"}) {
		t.Fatalf("unexpected config %+v", c)
	}

	if err := w.ToggleVisibility("funday", "a", true); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
}

func TestToggleVisibility_OrderAlwaysCoversVisible(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	ids := []string{"a", "b", "c", "d", "e"}

	w := NewWeek([]domain.StationDailyConfig{
		{Weekday: "friday", VisibleStationIDs: []string{"a"}, StationOrder: []string{"e", "a"}},
	})
	for i := 0; i < 500; i++ {
		if err := w.ToggleVisibility("friday", ids[r.Intn(len(ids))], r.Intn(2) == 0); err != nil {
			t.Fatalf("toggle: %v", err)
		}
		checkOrderCoversVisible(t, w)
	}
}

func TestReorder(t *testing.T) {
	w := NewWeek([]domain.StationDailyConfig{
		{Weekday: "sunday", VisibleStationIDs: []string{"c", "a", "b"}, StationOrder: []string{"a", "hidden", "b", "c"}},
	})

	if err := w.Reorder("sunday", "c", "a"); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	c, _ := w.Day("sunday")
	if !slices.Equal(c.StationOrder, []string{"c", "a", "b"}) {
		t.Fatalf("unexpected order %v", c.StationOrder)
	}
	if !slices.Equal(c.VisibleStationIDs, []string{"c", "a", "b"}) {
		t.Fatalf("visible list must not change, got %v", c.VisibleStationIDs)
	}

	if err := w.Reorder("sunday", "a", "b"); err != nil {
		t.Fatalf("reorder: %v", err)
	}
	c, _ = w.Day("sunday")
	if !slices.Equal(c.StationOrder, []string{"c", "b", "a"}) {
		t.Fatalf("unexpected order %v", c.StationOrder)
	}

	if err := w.Reorder("sunday", "hidden", "a"); !errors.Is(err, ErrStationNotVisible) {
		t.Fatalf("expected ErrStationNotVisible, got %v", err)
	}
	checkOrderCoversVisible(t, w)
}

func TestCopyDay_TargetsAreIndependent(t *testing.T) {
	w := NewWeek([]domain.StationDailyConfig{
		{Weekday: "sunday", VisibleStationIDs: []string{"a", "b"}, StationOrder: []string{"a", "b"}},
	})

	if err := w.CopyDay("sunday", []domain.Weekday{"monday", "tuesday"}); err != nil {
		t.Fatalf("copy: %v", err)
	}
	if err := w.ToggleVisibility("monday", "c", true); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	sunday, _ := w.Day("sunday")
	monday, _ := w.Day("monday")
	tuesday, _ := w.Day("tuesday")

	if !slices.Equal(monday.VisibleStationIDs, []string{"a", "b", "c"}) {
		t.Fatalf("unexpected monday %v", monday.VisibleStationIDs)
	}
	if !slices.Equal(sunday.VisibleStationIDs, []string{"a", "b"}) || !slices.Equal(tuesday.VisibleStationIDs, []string{"a", "b"}) {
		t.Fatalf("sunday and tuesday must be unaffected: %v %v", sunday.VisibleStationIDs, tuesday.VisibleStationIDs)
	}
	if monday.Weekday != "monday" || tuesday.Weekday != "tuesday" {
		t.Fatalf("copied documents must keep their own weekday")
	}
}

func TestConfigs_AlwaysSevenDays(t *testing.T) {
	configs := NewWeek([]domain.StationDailyConfig{{Weekday: "wednesday", VisibleStationIDs: []string{"a"}, StationOrder: []string{"a"}}}).Configs()
	if len(configs) != 7 {
		t.Fatalf("expected 7 configs, got %d", len(configs))
	}
	for i, c := range configs {
		if c.Weekday != domain.Weekdays[i] {
			t.Fatalf("config %d is %s", i, c.Weekday)
		}
	}
}

type fakeStore struct {
	configs  []domain.StationDailyConfig
	stations []*domain.Station
	saveErr  error
	saves    int
}

func (s *fakeStore) GetStationDailyConfigs(context.Context) ([]domain.StationDailyConfig, error) {
	return s.configs, nil
}

func (s *fakeStore) SaveStationDailyConfigs(_ context.Context, configs []domain.StationDailyConfig) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.saves++
	s.configs = configs
	return nil
}

func (s *fakeStore) GetAllStations(context.Context) ([]*domain.Station, error) {
	return s.stations, nil
}

func TestEditor_SavesWholeWeek(t *testing.T) {
	store := &fakeStore{stations: []*domain.Station{{ID: "a"}, {ID: "b"}}}
	e := NewEditor(store)

	if _, err := e.ToggleVisibility(context.Background(), "sunday", "a", true); err != nil {
		t.Fatalf("toggle: %v", err)
	}
	if _, err := e.ToggleVisibility(context.Background(), "sunday", "missing", true); !errors.Is(err, domain.ErrStationNotFound) {
		t.Fatalf("expected ErrStationNotFound, got %v", err)
	}
	configs, err := e.CopyDay(context.Background(), "sunday", []domain.Weekday{"saturday"})
	if err != nil {
		t.Fatalf("copy: %v", err)
	}

	if store.saves != 2 || len(store.configs) != 7 {
		t.Fatalf("expected two full-week saves, got %d saves of %d", store.saves, len(store.configs))
	}
	if !slices.Equal(configs[6].VisibleStationIDs, []string{"a"}) {
		t.Fatalf("saturday not copied: %+v", configs[6])
	}
}

func TestEditor_RejectsInvalidDocuments(t *testing.T) {
	store := &fakeStore{}
	e := NewEditor(store)

	_, err := e.Save(context.Background(), []domain.StationDailyConfig{
		{Weekday: "monday", VisibleStationIDs: []string{"a"}, StationOrder: []string{}},
	})
	if !errors.Is(err, ErrInvalidConfig) {
		t.Fatalf("expected ErrInvalidConfig, got %v", err)
	}
	if _, err := e.Save(context.Background(), []domain.StationDailyConfig{{Weekday: "someday"}}); !errors.Is(err, ErrInvalidWeekday) {
		t.Fatalf("expected ErrInvalidWeekday, got %v", err)
	}
	if store.saves != 0 {
		t.Fatalf("nothing should be saved")
	}
}
