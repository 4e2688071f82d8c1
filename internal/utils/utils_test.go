package utils

import (
	"regexp"
	"testing"
	"time"
)

func TestGenerateUsernameFromChineseName(t *testing.T) {
	re := regexp.MustCompile(`^[a-z]+[0-9]{1,3}$`)
	for i := 0; i < 100; i++ {
		name := GenerateRandomChineseName()
		username := GenerateUsernameFromChineseName(name)
		if !re.MatchString(username) {
			t.Fatalf("unexpected username %q for %q", username, name)
		}
	}
}

func TestGenerateRandomPhone(t *testing.T) {
	re := regexp.MustCompile(`^1[0-9]{10}$`)
	for i := 0; i < 100; i++ {
		if phone := GenerateRandomPhone(); !re.MatchString(phone) {
			t.Fatalf("unexpected phone %q", phone)
		}
	}
}

func TestGenerateRandomPersonalAppointment(t *testing.T) {
	loc := time.FixedZone("CST", 8*3600)
	day := time.Date(2026, 10, 15, 0, 0, 0, 0, loc)
	stations := []string{"s1", "s2"}

	for i := 0; i < 200; i++ {
		appt := GenerateRandomPersonalAppointment(stations, day, loc)
		if !appt.IsPersonal || appt.PersonalName == "" {
			t.Fatalf("expected personal appointment, got %+v", appt)
		}
		if appt.StartAt.Hour() < 9 || appt.StartAt.Hour() > 17 {
			t.Fatalf("start out of business hours: %v", appt.StartAt)
		}
		if appt.StartAt.Minute()%15 != 0 {
			t.Fatalf("start not aligned to 15 minutes: %v", appt.StartAt)
		}
		if d := appt.Duration(); d < 15*time.Minute || d > 2*time.Hour {
			t.Fatalf("unexpected duration %v", d)
		}
		if appt.StationID != "s1" && appt.StationID != "s2" {
			t.Fatalf("unexpected station %q", appt.StationID)
		}
	}
}

func TestParseClockRange(t *testing.T) {
	start, end, err := ParseClockRange("09:30", "10:15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != 9*time.Hour+30*time.Minute || end != 10*time.Hour+15*time.Minute {
		t.Fatalf("unexpected offsets %v %v", start, end)
	}

	if _, _, err := ParseClockRange("10:00", "10:00"); err == nil {
		t.Fatalf("expected error for empty range")
	}
	if _, _, err := ParseClockRange("9点", "10:00"); err == nil {
		t.Fatalf("expected error for malformed start")
	}
}

func TestValidateDaySpan(t *testing.T) {
	to := 3
	if err := ValidateDaySpan(1, &to); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateDaySpan(1, nil); err != nil {
		t.Fatalf("unexpected error for open span: %v", err)
	}
	before := 0
	if err := ValidateDaySpan(1, &before); err == nil {
		t.Fatalf("expected error when end is before start")
	}
}

func TestValidateStationOrder(t *testing.T) {
	if err := ValidateStationOrder([]string{"a"}, []string{"b", "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := ValidateStationOrder([]string{"c"}, []string{"a", "b"}); err == nil {
		t.Fatalf("expected error for visible station missing from order")
	}
	if err := ValidateStationOrder(nil, []string{"a", "a"}); err == nil {
		t.Fatalf("expected error for duplicate order entry")
	}
}
