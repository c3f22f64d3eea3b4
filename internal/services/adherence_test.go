package services

import (
	"lifevault/internal/models"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

func makeReminder(medicationID string, startDate time.Time, duration string, times ...string) models.MedicineReminder {
	medID := medicationID
	start := startDate
	return models.MedicineReminder{
		ID:           "rem-1",
		ProfileID:    "prof-1",
		MedicationID: &medID,
		Medication: &models.Medication{
			ID:        medID,
			ProfileID: "prof-1",
			StartDate: &start,
		},
		MedicineName: "Amoxicillin",
		Frequency:    "daily",
		Times:        times,
		Duration:     duration,
		Active:       true,
		CreatedAt:    startDate,
	}
}

func TestResolveReminderDayWindow(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 5, 20, 12, 0, 0, 0, time.UTC)
	reminder := makeReminder("med-1", start, "5 days", "08:00")

	tests := []struct {
		name     string
		refDate  time.Time
		inWindow bool
	}{
		{"first day", start, true},
		{"middle day", start.AddDate(0, 0, 2), true},
		{"last day inclusive", start.AddDate(0, 0, 4), true},
		{"day after window", start.AddDate(0, 0, 5), false},
		{"day before window", start.AddDate(0, 0, -1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			day := ResolveReminderDay(reminder, nil, tt.refDate, now)
			if day.InWindow != tt.inWindow {
				t.Errorf("InWindow = %v, want %v", day.InWindow, tt.inWindow)
			}
			if !day.StartDate.Equal(start) {
				t.Errorf("StartDate = %v, want %v", day.StartDate, start)
			}
		})
	}
}

func TestResolveReminderDayWindowFallsBackToCreatedAt(t *testing.T) {
	created := time.Date(2025, 5, 3, 15, 30, 0, 0, time.UTC)
	now := time.Date(2025, 5, 3, 16, 0, 0, 0, time.UTC)
	medID := "med-2"
	reminder := models.MedicineReminder{
		MedicationID: &medID,
		Medication:   &models.Medication{ID: medID},
		Times:        models.StringList{"09:00"},
		Duration:     "3 days",
		CreatedAt:    created,
	}

	day := ResolveReminderDay(reminder, nil, created, now)
	if !day.InWindow {
		t.Fatal("reminder should be in window on its creation day")
	}
	if !day.StartDate.Equal(StartOfDay(created)) {
		t.Errorf("StartDate = %v, want start of creation day", day.StartDate)
	}
}

func TestResolveReminderDayRollup(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	refDate := start
	// Reference day is well in the past so unlogged slots become missed
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	logAt := func(hhmm string, status models.LogStatus) models.MedicationLog {
		return models.MedicationLog{
			MedicationID: "med-1",
			OccurredAt:   CombineDateAndTime(refDate, hhmm),
			Status:       status,
		}
	}

	tests := []struct {
		name string
		logs []models.MedicationLog
		want *string
	}{
		{
			"all taken",
			[]models.MedicationLog{logAt("08:00", models.LogTaken), logAt("20:00", models.LogTaken)},
			strPtr("taken"),
		},
		{
			"all missed",
			[]models.MedicationLog{logAt("08:00", models.LogMissed), logAt("20:00", models.LogMissed)},
			strPtr("missed"),
		},
		{
			"mixed",
			[]models.MedicationLog{logAt("08:00", models.LogTaken), logAt("20:00", models.LogMissed)},
			nil,
		},
		{
			"no logs backfills to all missed",
			nil,
			strPtr("missed"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reminder := makeReminder("med-1", start, "7 days", "08:00", "20:00")
			day := ResolveReminderDay(reminder, tt.logs, refDate, now)
			if tt.want == nil {
				if day.Status != nil {
					t.Errorf("Status = %q, want nil", *day.Status)
				}
			} else if day.Status == nil || *day.Status != *tt.want {
				t.Errorf("Status = %v, want %q", day.Status, *tt.want)
			}
		})
	}
}

func TestResolveReminderDayNoSlots(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	reminder := makeReminder("med-1", start, "7 days")
	reminder.Times = nil

	day := ResolveReminderDay(reminder, nil, start, start)
	if !day.InWindow {
		t.Fatal("expected reminder in window")
	}
	if len(day.Slots) != 0 {
		t.Errorf("expected no slots, got %d", len(day.Slots))
	}
	if day.Status != nil {
		t.Errorf("expected nil rollup for empty slot list, got %q", *day.Status)
	}
}

func TestResolveReminderDayBackfillsPastSlots(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 5, 3, 9, 0, 0, 0, time.UTC)

	reminder := makeReminder("med-1", start, "10 days", "08:00")
	day := ResolveReminderDay(reminder, nil, yesterday, now)

	if len(day.Slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(day.Slots))
	}
	if day.Slots[0].Status == nil || *day.Slots[0].Status != "missed" {
		t.Errorf("slot status = %v, want missed", day.Slots[0].Status)
	}
	if len(day.Backfill) != 1 {
		t.Fatalf("expected 1 backfill entry, got %d", len(day.Backfill))
	}
	wantAt := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)
	if !day.Backfill[0].Equal(wantAt) {
		t.Errorf("backfill at %v, want %v", day.Backfill[0], wantAt)
	}
}

func TestResolveReminderDayNoBackfillForFutureSlots(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	tomorrow := time.Date(2025, 5, 4, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 5, 3, 9, 0, 0, 0, time.UTC)

	reminder := makeReminder("med-1", start, "10 days", "08:00")
	day := ResolveReminderDay(reminder, nil, tomorrow, now)

	if len(day.Slots) != 1 {
		t.Fatalf("expected 1 slot, got %d", len(day.Slots))
	}
	if day.Slots[0].Status != nil {
		t.Errorf("future slot status = %q, want nil", *day.Slots[0].Status)
	}
	if len(day.Backfill) != 0 {
		t.Errorf("expected no backfill for future slot, got %d", len(day.Backfill))
	}
}

func TestResolveReminderDaySplitsTodayByClock(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC)

	reminder := makeReminder("med-1", start, "10 days", "08:00", "20:00")
	day := ResolveReminderDay(reminder, nil, today, now)

	if len(day.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(day.Slots))
	}
	if day.Slots[0].Status == nil || *day.Slots[0].Status != "missed" {
		t.Errorf("morning slot = %v, want missed", day.Slots[0].Status)
	}
	if day.Slots[1].Status != nil {
		t.Errorf("evening slot = %q, want nil (still pending)", *day.Slots[1].Status)
	}
	if day.Status != nil {
		t.Errorf("rollup = %q, want nil for mixed day", *day.Status)
	}
}

func TestResolveReminderDayNoMedicationNeverBackfills(t *testing.T) {
	created := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)
	reminder := models.MedicineReminder{
		Times:     models.StringList{"08:00"},
		Duration:  "30 days",
		CreatedAt: created,
	}

	day := ResolveReminderDay(reminder, nil, created, now)
	if day.Slots[0].Status != nil {
		t.Errorf("slot status = %q, want nil without a medication", *day.Slots[0].Status)
	}
	if len(day.Backfill) != 0 {
		t.Error("expected no backfill without a medication")
	}
}

func TestResolveReminderDayLegacyTimeFallback(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	reminder := makeReminder("med-1", start, "10 days")
	reminder.Times = nil
	reminder.Time = strPtr("9:5")

	day := ResolveReminderDay(reminder, nil, start, now)
	if len(day.Slots) != 1 {
		t.Fatalf("expected 1 slot from legacy time, got %d", len(day.Slots))
	}
	if day.Slots[0].Time != "09:05" {
		t.Errorf("slot time = %q, want normalized 09:05", day.Slots[0].Time)
	}
}

func TestResolveReminderDayMatchesByTimeOfDay(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	// Log was written with seconds attached; matching is by HH:MM only
	logs := []models.MedicationLog{{
		MedicationID: "med-1",
		OccurredAt:   time.Date(2025, 5, 1, 8, 0, 42, 0, time.UTC),
		Status:       models.LogTaken,
	}}

	reminder := makeReminder("med-1", start, "10 days", "08:00")
	day := ResolveReminderDay(reminder, logs, start, now)

	if day.Slots[0].Status == nil || *day.Slots[0].Status != "taken" {
		t.Errorf("slot status = %v, want taken via time-of-day match", day.Slots[0].Status)
	}
	if len(day.Backfill) != 0 {
		t.Error("matched slot must not be backfilled")
	}
}

func TestResolveReminderDayBackfillVisibleToLaterDuplicateSlot(t *testing.T) {
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	now := time.Date(2025, 5, 10, 12, 0, 0, 0, time.UTC)

	// Same time listed twice; only one backfill should be planned
	reminder := makeReminder("med-1", start, "10 days", "08:00", "08:00")
	day := ResolveReminderDay(reminder, nil, start, now)

	if len(day.Slots) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(day.Slots))
	}
	if len(day.Backfill) != 1 {
		t.Errorf("expected 1 backfill for duplicate slot times, got %d", len(day.Backfill))
	}
}
