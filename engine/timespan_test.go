package engine

import (
	"testing"

	"bitbucket.org/roadstar/haulage_backend/models"
)

func timePtr(hour, minute int) *models.TimeOfDay {
	t := models.NewTimeOfDay(hour, minute)
	return &t
}

func TestHoursBetween(t *testing.T) {
	cases := []struct {
		name     string
		start    *models.TimeOfDay
		end      *models.TimeOfDay
		expected string
	}{
		{"same day", timePtr(8, 0), timePtr(16, 30), "8.5"},
		{"midnight wrap", timePtr(22, 0), timePtr(2, 0), "4"},
		{"wrap to almost full day", timePtr(6, 0), timePtr(5, 0), "23"},
		{"equal times", timePtr(9, 15), timePtr(9, 15), "0"},
		{"partial hour", timePtr(10, 0), timePtr(10, 45), "0.75"},
	}
	for _, tc := range cases {
		hours := HoursBetween(tc.start, tc.end)
		if hours == nil {
			t.Fatalf("%s: expected %s hours, got nil", tc.name, tc.expected)
		}
		if hours.String() != tc.expected {
			t.Fatalf("%s: expected %s hours, got %s", tc.name, tc.expected, hours.String())
		}
	}
}

func TestHoursBetween_AbsentTimes(t *testing.T) {
	if hours := HoursBetween(nil, timePtr(10, 0)); hours != nil {
		t.Fatalf("missing start: expected nil, got %s", hours.String())
	}
	if hours := HoursBetween(timePtr(10, 0), nil); hours != nil {
		t.Fatalf("missing end: expected nil, got %s", hours.String())
	}
	if hours := HoursBetween(nil, nil); hours != nil {
		t.Fatalf("both missing: expected nil, got %s", hours.String())
	}
}
