package services

import (
	"testing"
	"time"
)

func TestNormalizeTime(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"already canonical", "08:00", "08:00"},
		{"bare hour", "8", "08:00"},
		{"unpadded minute", "8:5", "08:05"},
		{"trims whitespace", "  9:30 ", "09:30"},
		{"hour clamped", "99:00", "23:00"},
		{"minute clamped", "10:99", "10:59"},
		{"both clamped", "25:75", "23:59"},
		{"midnight", "0:0", "00:00"},
		{"not a time is rejected", "morning", ""},
		{"trailing text is rejected", "8:00ish", ""},
		{"empty stays empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeTime(tt.input); got != tt.want {
				t.Errorf("NormalizeTime(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeTimeIdempotent(t *testing.T) {
	for _, input := range []string{"8", "08:00", "23:59", "7:5"} {
		once := NormalizeTime(input)
		twice := NormalizeTime(once)
		if once != twice {
			t.Errorf("NormalizeTime not idempotent for %q: %q then %q", input, once, twice)
		}
	}
}

func TestNormalizeTimes(t *testing.T) {
	got := NormalizeTimes([]string{"8", "20:5"})
	want := []string{"08:00", "20:05"}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}

	if NormalizeTimes(nil) != nil {
		t.Error("expected nil for empty input")
	}
}

func TestNormalizeTimesDropsInvalidEntries(t *testing.T) {
	got := NormalizeTimes([]string{"morning", "08:00", "", "evening", "21:30"})
	want := []string{"08:00", "21:30"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %q, want %q", i, got[i], want[i])
		}
	}

	if NormalizeTimes([]string{"morning", "noon"}) != nil {
		t.Error("all-invalid schedule should come back empty")
	}
}

func TestCombineDateAndTime(t *testing.T) {
	date := time.Date(2025, 3, 10, 17, 45, 12, 0, time.UTC)

	got := CombineDateAndTime(date, "08:30")
	want := time.Date(2025, 3, 10, 8, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}

	// Unparseable times default to the morning intake slot
	got = CombineDateAndTime(date, "whenever")
	want = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("default: got %v, want %v", got, want)
	}

	got = CombineDateAndTime(date, "")
	if !got.Equal(want) {
		t.Errorf("empty: got %v, want %v", got, want)
	}
}

func TestDayBounds(t *testing.T) {
	instant := time.Date(2025, 6, 15, 13, 22, 9, 500, time.UTC)

	start := StartOfDay(instant)
	if start != time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC) {
		t.Errorf("StartOfDay = %v", start)
	}

	end := EndOfDay(instant)
	if end != time.Date(2025, 6, 15, 23, 59, 59, 999000000, time.UTC) {
		t.Errorf("EndOfDay = %v", end)
	}

	if !SameDay(start, end) {
		t.Error("start and end of the same day should compare equal")
	}
	if SameDay(end, end.Add(time.Millisecond)) {
		t.Error("midnight boundary should flip SameDay")
	}
}

func TestFormatTimeOfDay(t *testing.T) {
	instant := time.Date(2025, 1, 2, 7, 5, 0, 0, time.UTC)
	if got := FormatTimeOfDay(instant); got != "07:05" {
		t.Errorf("got %q, want 07:05", got)
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		days  int
	}{
		{"7 days", 7},
		{"14", 14},
		{"2 weeks worth", 2},
		{"ongoing", 1},
		{"", 1},
		{"0 days", 1},
		{"1 day", 1},
	}

	for _, tt := range tests {
		spec := ParseDuration(tt.input)
		if spec.Days != tt.days {
			t.Errorf("ParseDuration(%q).Days = %d, want %d", tt.input, spec.Days, tt.days)
		}
		if spec.Raw != tt.input {
			t.Errorf("ParseDuration(%q).Raw = %q", tt.input, spec.Raw)
		}
	}
}
