package models

import "testing"

func TestCompositeCursorRoundTrip(t *testing.T) {
	cursor := EncodeCompositeCursor("2026-08-01T12:00:00Z", 42)
	createdAt, id := DecodeCompositeCursor(&cursor)
	if createdAt != "2026-08-01T12:00:00Z" || id != 42 {
		t.Fatalf("round trip failed: got (%q, %d)", createdAt, id)
	}
}

func TestDecodeCompositeCursor_Garbage(t *testing.T) {
	for _, in := range []string{"", "not-base64!!!", "bm9wZQ=="} {
		in := in
		createdAt, id := DecodeCompositeCursor(&in)
		if createdAt != "" || id != 0 {
			t.Fatalf("DecodeCompositeCursor(%q) expected zero values, got (%q, %d)", in, createdAt, id)
		}
	}
	if createdAt, id := DecodeCompositeCursor(nil); createdAt != "" || id != 0 {
		t.Fatalf("nil cursor expected zero values, got (%q, %d)", createdAt, id)
	}
}

func TestParseDispatchType(t *testing.T) {
	cases := []struct {
		in       string
		expected DispatchType
		ok       bool
	}{
		{"Hourly", DispatchTypeHourly, true},
		{"hourly", DispatchTypeHourly, true},
		{"LOAD", DispatchTypeLoad, true},
		{" tonnage ", DispatchTypeTonnage, true},
		{"fixed", DispatchTypeFixed, true},
		{"Hotshot", DispatchType("Hotshot"), false},
		{"", DispatchType(""), false},
	}
	for _, tc := range cases {
		got, ok := ParseDispatchType(tc.in)
		if got != tc.expected || ok != tc.ok {
			t.Fatalf("ParseDispatchType(%q) expected (%q, %v), got (%q, %v)", tc.in, tc.expected, tc.ok, got, ok)
		}
	}
}
