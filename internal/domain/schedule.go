package domain

import "time"

type ScheduleFilter string

const (
	FilterAll      ScheduleFilter = "all"
	FilterGrooming ScheduleFilter = "grooming"
	FilterDaycare  ScheduleFilter = "daycare"
)

var ScheduleFilters = []ScheduleFilter{FilterAll, FilterGrooming, FilterDaycare}

func (f ScheduleFilter) Matches(st ServiceType) bool {
	return f == FilterAll || string(f) == string(st)
}

// Schedule 是某一天某个筛选条件下的排班快照
type Schedule struct {
	Date         string         `json:"date"` // yyyy-mm-dd
	Filter       ScheduleFilter `json:"filter"`
	Stations     []Station      `json:"stations"`
	Appointments []Appointment  `json:"appointments"`
}

func (s *Schedule) Clone() *Schedule {
	if s == nil {
		return nil
	}

	c := &Schedule{
		Date:   s.Date,
		Filter: s.Filter,
	}
	if s.Stations != nil {
		c.Stations = make([]Station, len(s.Stations))
		copy(c.Stations, s.Stations)
	}
	if s.Appointments != nil {
		c.Appointments = make([]Appointment, len(s.Appointments))
		for i, appt := range s.Appointments {
			c.Appointments[i] = appt
			c.Appointments[i].CustomerID = clonePtr(appt.CustomerID)
			c.Appointments[i].TreatmentID = clonePtr(appt.TreatmentID)
			c.Appointments[i].HourSelection = clonePtr(appt.HourSelection)
		}
	}

	return c
}

func (s *Schedule) FindAppointment(id string) (int, bool) {
	for i := range s.Appointments {
		if s.Appointments[i].ID == id {
			return i, true
		}
	}
	return -1, false
}

const DateLayout = "2006-01-02"

func DateKey(t time.Time) string {
	return t.Format(DateLayout)
}

func clonePtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
