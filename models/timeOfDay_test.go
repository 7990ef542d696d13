package models

import "testing"

func TestParseTimeOfDay(t *testing.T) {
	cases := []struct {
		in       string
		expected string
		minutes  int
	}{
		{"08:30", "08:30", 510},
		{"08:30:45", "08:30", 510},
		{"00:00", "00:00", 0},
		{"23:59", "23:59", 1439},
		{" 07:05 ", "07:05", 425},
	}
	for _, tc := range cases {
		parsed, err := ParseTimeOfDay(tc.in)
		if err != nil {
			t.Fatalf("ParseTimeOfDay(%q) error: %v", tc.in, err)
		}
		if parsed.String() != tc.expected {
			t.Fatalf("ParseTimeOfDay(%q) expected %s, got %s", tc.in, tc.expected, parsed.String())
		}
		if parsed.Minutes() != tc.minutes {
			t.Fatalf("ParseTimeOfDay(%q) expected %d minutes, got %d", tc.in, tc.minutes, parsed.Minutes())
		}
	}
}

func TestParseTimeOfDay_Invalid(t *testing.T) {
	for _, in := range []string{"", "8", "24:00", "12:60", "ab:cd", "1:2:3:4"} {
		if _, err := ParseTimeOfDay(in); err == nil {
			t.Fatalf("ParseTimeOfDay(%q) expected error", in)
		}
	}
}

func TestTimeOfDay_SqlRoundTrip(t *testing.T) {
	original := NewTimeOfDay(22, 15)
	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value error: %v", err)
	}
	if value != "22:15:00" {
		t.Fatalf("expected TIME literal 22:15:00, got %v", value)
	}

	var scanned TimeOfDay
	if err := scanned.Scan([]byte("22:15:00")); err != nil {
		t.Fatalf("Scan error: %v", err)
	}
	if scanned.Minutes() != original.Minutes() {
		t.Fatalf("round trip changed value: %d != %d", scanned.Minutes(), original.Minutes())
	}
}
