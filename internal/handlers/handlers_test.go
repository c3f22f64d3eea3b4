package handlers

import (
	"testing"
	"time"
)

func TestParseStringArray(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"simple list", "a,b,c", []string{"a", "b", "c"}},
		{"trims entries", " lab , blood work ", []string{"lab", "blood work"}},
		{"drops empties", "a,,b,", []string{"a", "b"}},
		{"blank input", "   ", nil},
		{"empty input", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseStringArray(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for i := range tt.want {
				if got[i] != tt.want[i] {
					t.Errorf("entry %d = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestParseReferenceDate(t *testing.T) {
	now := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)

	got := parseReferenceDate("2025-06-15", now)
	if got.Year() != 2025 || got.Month() != 6 || got.Day() != 15 {
		t.Errorf("date-only parse gave %v", got)
	}

	got = parseReferenceDate("2025-06-15T08:30:00Z", now)
	if got.Hour() != 8 || got.Minute() != 30 {
		t.Errorf("RFC3339 parse gave %v", got)
	}

	// Malformed and empty values fall back to now rather than erroring
	if got := parseReferenceDate("not-a-date", now); !got.Equal(now) {
		t.Errorf("malformed input gave %v, want now", got)
	}
	if got := parseReferenceDate("", now); !got.Equal(now) {
		t.Errorf("empty input gave %v, want now", got)
	}
}

func TestParseDateField(t *testing.T) {
	if got := parseDateField("2025-02-28"); got == nil || got.Day() != 28 {
		t.Errorf("got %v", got)
	}
	if got := parseDateField(""); got != nil {
		t.Errorf("blank should be nil, got %v", got)
	}
	if got := parseDateField("soon"); got != nil {
		t.Errorf("unparseable should be nil, got %v", got)
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  bool
	}{
		{"valid", "secret123", false},
		{"too short", "abc1", true},
		{"letters only", "abcdefgh", true},
		{"numbers only", "12345678", true},
		{"mixed long", "correct horse 42", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validatePassword(tt.password)
			if (err != nil) != tt.wantErr {
				t.Errorf("validatePassword(%q) error = %v, wantErr %v", tt.password, err, tt.wantErr)
			}
		})
	}
}

func TestFormatDosage(t *testing.T) {
	tests := []struct {
		dosage float64
		unit   string
		want   string
	}{
		{1, "tablet", "1 tablet"},
		{2.5, "ml", "2.5 ml"},
		{0.25, "mg", "0.25 mg"},
		{3, "", "3"},
	}

	for _, tt := range tests {
		if got := formatDosage(tt.dosage, tt.unit); got != tt.want {
			t.Errorf("formatDosage(%v, %q) = %q, want %q", tt.dosage, tt.unit, got, tt.want)
		}
	}
}
