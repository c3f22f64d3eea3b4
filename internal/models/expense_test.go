package models

import (
	"testing"
	"time"
)

func TestNormalizeExpenseFrequency(t *testing.T) {
	tests := []struct {
		input string
		want  ExpenseFrequency
	}{
		{"MONTHLY", FrequencyMonthly},
		{"monthly", FrequencyMonthly},
		{"one time", FrequencyOneTime},
		{"one-time", FrequencyOneTime},
		{"  Weekly ", FrequencyWeekly},
		{"YEARLY", FrequencyYearly},
		{"fortnightly", FrequencyOneTime},
		{"", FrequencyOneTime},
	}

	for _, tt := range tests {
		if got := NormalizeExpenseFrequency(tt.input); got != tt.want {
			t.Errorf("NormalizeExpenseFrequency(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestNormalizePaymentMethod(t *testing.T) {
	tests := []struct {
		input string
		want  PaymentMethod
	}{
		{"credit card", PaymentCreditCard},
		{"CREDIT-CARD", PaymentCreditCard},
		{"e wallet", PaymentEWallet},
		{"bank transfer", PaymentBankTransfer},
		{"cash", PaymentCash},
		{"barter", PaymentCash},
		{"", PaymentCash},
	}

	for _, tt := range tests {
		if got := NormalizePaymentMethod(tt.input); got != tt.want {
			t.Errorf("NormalizePaymentMethod(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestAddInterval(t *testing.T) {
	base := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		freq ExpenseFrequency
		want time.Time
	}{
		{FrequencyWeekly, time.Date(2025, 1, 22, 0, 0, 0, 0, time.UTC)},
		{FrequencyMonthly, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)},
		{FrequencyYearly, time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)},
		{FrequencyOneTime, time.Date(2025, 2, 15, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		if got := AddInterval(base, tt.freq); !got.Equal(tt.want) {
			t.Errorf("AddInterval(%v, %s) = %v, want %v", base, tt.freq, got, tt.want)
		}
	}
}

func TestNormalizeRecordType(t *testing.T) {
	tests := []struct {
		input string
		want  RecordType
	}{
		{"lab report", RecordLabReport},
		{"LAB-REPORT", RecordLabReport},
		{"Prescription", RecordPrescription},
		{"vaccination", RecordVaccination},
		{"x-ray scan", RecordOther},
		{"", RecordOther},
	}

	for _, tt := range tests {
		if got := NormalizeRecordType(tt.input); got != tt.want {
			t.Errorf("NormalizeRecordType(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestScheduledTimes(t *testing.T) {
	legacy := "08:00"

	reminder := MedicineReminder{Times: StringList{"09:00", "21:00"}, Time: &legacy}
	got := reminder.ScheduledTimes()
	if len(got) != 2 || got[0] != "09:00" {
		t.Errorf("list takes precedence over legacy column, got %v", got)
	}

	reminder = MedicineReminder{Time: &legacy}
	got = reminder.ScheduledTimes()
	if len(got) != 1 || got[0] != "08:00" {
		t.Errorf("legacy fallback, got %v", got)
	}

	reminder = MedicineReminder{}
	if got := reminder.ScheduledTimes(); got != nil {
		t.Errorf("expected nil with no schedule, got %v", got)
	}
}

func TestParseIllnessSeverityAndStatus(t *testing.T) {
	if severity, ok := ParseIllnessSeverity(" moderate "); !ok || severity != SeverityModerate {
		t.Errorf("got %q ok=%v", severity, ok)
	}
	if _, ok := ParseIllnessSeverity("terrible"); ok {
		t.Error("unknown severity should not parse")
	}
	if status, ok := ParseIllnessStatus("chronic"); !ok || status != IllnessChronic {
		t.Errorf("got %q ok=%v", status, ok)
	}
	if _, ok := ParseIllnessStatus(""); ok {
		t.Error("empty status should not parse")
	}
}
