package seed

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/salon-manager/backend/internal/repository"
)

type fakeStore struct {
	stations     []*domain.Station
	customers    []*repository.Customer
	dogs         []*repository.Dog
	personal     []*domain.Appointment
	appointments []*domain.Appointment
	waitlist     []*domain.WaitlistEntry
	configs      []domain.StationDailyConfig
	nextID       int
	dogErr       error
}

func (f *fakeStore) id(prefix string) string {
	f.nextID++
	return prefix + "-" + string(rune('a'+f.nextID))
}

func (f *fakeStore) CreateStation(_ context.Context, st *domain.Station) error {
	st.ID = f.id("station")
	f.stations = append(f.stations, st)
	return nil
}

func (f *fakeStore) CreateCustomerType(_ context.Context, name string) (string, error) {
	return "type-" + name, nil
}

func (f *fakeStore) CreateDogCategory(_ context.Context, name string) (string, error) {
	return "category-" + name, nil
}

func (f *fakeStore) CreateCustomer(_ context.Context, c *repository.Customer) error {
	c.ID = f.id("customer")
	f.customers = append(f.customers, c)
	return nil
}

func (f *fakeStore) CreateDog(_ context.Context, d *repository.Dog) error {
	if f.dogErr != nil {
		return f.dogErr
	}
	d.ID = f.id("dog")
	f.dogs = append(f.dogs, d)
	return nil
}

func (f *fakeStore) CreatePersonalAppointment(_ context.Context, appt *domain.Appointment) error {
	f.personal = append(f.personal, appt)
	return nil
}

func (f *fakeStore) CreateCustomerAppointment(_ context.Context, appt *domain.Appointment, _ *string) error {
	f.appointments = append(f.appointments, appt)
	return nil
}

func (f *fakeStore) CreateWaitlistEntry(_ context.Context, e *domain.WaitlistEntry) error {
	f.waitlist = append(f.waitlist, e)
	return nil
}

func (f *fakeStore) SaveStationDailyConfigs(_ context.Context, configs []domain.StationDailyConfig) error {
	f.configs = configs
	return nil
}

func TestLoadFixture(t *testing.T) {
	f, err := LoadFixture("data/fixture.yaml")
	if err != nil {
		t.Fatalf("failed to load fixture: %v", err)
	}
	if len(f.Stations) == 0 || len(f.Customers) == 0 || len(f.Appointments) == 0 || len(f.Waitlist) == 0 {
		t.Fatalf("fixture is missing sections: %+v", f)
	}
}

func TestParseFixtureRejectsInvalidData(t *testing.T) {
	cases := map[string]string{
		"unknown service type": `
stations:
  - name: a
    serviceType: spa
`,
		"unknown station": `
stations:
  - name: a
    serviceType: grooming
appointments:
  - station: b
    start: "10:00"
    end: "11:00"
    personal: x
`,
		"end before start": `
stations:
  - name: a
    serviceType: grooming
appointments:
  - station: a
    start: "11:00"
    end: "10:00"
    personal: x
`,
		"missing dog": `
stations:
  - name: a
    serviceType: grooming
appointments:
  - station: a
    start: "10:00"
    end: "11:00"
    customer: c
`,
		"span without start": `
waitlist:
  - customer: c
    dog: d
    scope: both
`,
		"visible not ordered": `
stationConfigs:
  - weekdays: [monday]
    visible: [a]
    order: [b]
`,
		"bad weekday": `
stationConfigs:
  - weekdays: [funday]
`,
	}

	for name, data := range cases {
		if _, err := ParseFixture([]byte(data)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestSeederRun(t *testing.T) {
	f, err := LoadFixture("data/fixture.yaml")
	if err != nil {
		t.Fatalf("failed to load fixture: %v", err)
	}

	loc := time.FixedZone("CST", 8*3600)
	today := time.Date(2026, 10, 15, 20, 0, 0, 0, loc)
	store := &fakeStore{}

	if err := NewSeeder(store, loc).Run(context.Background(), f, today); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(store.stations) != len(f.Stations) {
		t.Fatalf("expected %d stations, got %d", len(f.Stations), len(store.stations))
	}
	if len(store.personal)+len(store.appointments) != len(f.Appointments) {
		t.Fatalf("expected %d appointments, got %d", len(f.Appointments), len(store.personal)+len(store.appointments))
	}

	first := store.appointments[0]
	want := time.Date(2026, 10, 15, 10, 0, 0, 0, loc)
	if !first.StartAt.Equal(want) || first.Duration() != time.Hour {
		t.Fatalf("unexpected first appointment %v - %v", first.StartAt, first.EndAt)
	}
	if first.StationID != store.stations[0].ID {
		t.Fatalf("appointment not linked to station: %q", first.StationID)
	}

	for _, e := range store.waitlist {
		if e.CustomerID == "" || e.DogID == "" || len(e.DateSpans) == 0 {
			t.Fatalf("waitlist entry not resolved: %+v", e)
		}
	}

	if len(store.configs) != 7 {
		t.Fatalf("expected seven station configs, got %d", len(store.configs))
	}
	for _, c := range store.configs {
		for _, id := range c.VisibleStationIDs {
			found := false
			for _, o := range c.StationOrder {
				if o == id {
					found = true
				}
			}
			if !found {
				t.Fatalf("%s: visible station %s missing from order", c.Weekday, id)
			}
		}
	}
	if sunday := store.configs[0]; sunday.Weekday != "sunday" || len(sunday.VisibleStationIDs) != 3 {
		t.Fatalf("unexpected sunday config: %+v", sunday)
	}
	if monday := store.configs[1]; len(monday.VisibleStationIDs) != len(f.Stations) {
		t.Fatalf("expected monday to show all stations, got %+v", monday)
	}
}

func TestSeederStopsOnStoreError(t *testing.T) {
	f, err := LoadFixture("data/fixture.yaml")
	if err != nil {
		t.Fatalf("failed to load fixture: %v", err)
	}

	store := &fakeStore{dogErr: errors.New("boom")}
	err = NewSeeder(store, time.UTC).Run(context.Background(), f, time.Now())
	if err == nil || !strings.Contains(err.Error(), "客户") {
		t.Fatalf("expected customer step error, got %v", err)
	}
	if len(store.appointments) != 0 {
		t.Fatalf("later steps should not run after a failure")
	}
}
