package services

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// timePattern accepts "8", "08", "8:5", "08:05" style inputs
var timePattern = regexp.MustCompile(`^(\d{1,2})(?::(\d{1,2}))?$`)

// leadingInt pulls the first run of digits out of a free-text duration
var leadingInt = regexp.MustCompile(`\d+`)

// DefaultIntakeTime is assumed when a reminder slot has no usable time
const DefaultIntakeTime = "08:00"

// NormalizeTime canonicalizes a schedule time to zero-padded HH:MM,
// clamping the hour to 0-23 and the minute to 0-59. Input that does not
// look like a time at all yields the empty string so callers can drop it.
func NormalizeTime(value string) string {
	trimmed := strings.TrimSpace(value)
	match := timePattern.FindStringSubmatch(trimmed)
	if match == nil {
		return ""
	}

	hour, _ := strconv.Atoi(match[1])
	minute := 0
	if match[2] != "" {
		minute, _ = strconv.Atoi(match[2])
	}

	if hour > 23 {
		hour = 23
	}
	if minute > 59 {
		minute = 59
	}

	return pad2(hour) + ":" + pad2(minute)
}

// NormalizeTimes canonicalizes a schedule, dropping entries that are not
// times
func NormalizeTimes(values []string) []string {
	var normalized []string
	for _, v := range values {
		if t := NormalizeTime(v); t != "" {
			normalized = append(normalized, t)
		}
	}
	return normalized
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// CombineDateAndTime places an HH:MM schedule time onto a calendar date.
// Unparseable times fall back to the default intake time.
func CombineDateAndTime(date time.Time, timeStr string) time.Time {
	normalized := NormalizeTime(timeStr)
	if normalized == "" {
		normalized = DefaultIntakeTime
	}

	parts := strings.SplitN(normalized, ":", 2)
	hour, _ := strconv.Atoi(parts[0])
	minute := 0
	if len(parts) == 2 {
		minute, _ = strconv.Atoi(parts[1])
	}

	return time.Date(date.Year(), date.Month(), date.Day(), hour, minute, 0, 0, date.Location())
}

// StartOfDay truncates a time to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable millisecond of the day
func EndOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 999000000, t.Location())
}

// SameDay reports whether two instants fall on the same calendar day
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// FormatTimeOfDay renders an instant as its HH:MM wall-clock time
func FormatTimeOfDay(t time.Time) string {
	return t.Format("15:04")
}

// DurationSpec is a parsed course length. Raw keeps the free text the user
// entered ("7 days", "2 weeks worth"); Days is the leading number, floored
// at one day.
type DurationSpec struct {
	Raw  string
	Days int
}

// ParseDuration extracts the day count from a free-text duration. Text with
// no digits, and values below one, both resolve to a single day.
func ParseDuration(raw string) DurationSpec {
	spec := DurationSpec{Raw: raw, Days: 1}
	if digits := leadingInt.FindString(raw); digits != "" {
		if n, err := strconv.Atoi(digits); err == nil && n > 1 {
			spec.Days = n
		}
	}
	return spec
}
