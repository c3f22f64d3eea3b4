package services

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"lifevault/internal/models"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

func newAdherenceTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "adherence-test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Medication{},
		&models.MedicineReminder{},
		&models.MedicationLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedReminder(t *testing.T, db *gorm.DB, start time.Time, times ...string) models.MedicineReminder {
	t.Helper()
	medication := models.Medication{
		ProfileID: "prof-1",
		Name:      "Amoxicillin",
		StartDate: &start,
	}
	if err := db.Create(&medication).Error; err != nil {
		t.Fatalf("seed medication: %v", err)
	}
	reminder := models.MedicineReminder{
		ProfileID:    "prof-1",
		MedicationID: &medication.ID,
		MedicineName: "Amoxicillin",
		Frequency:    "daily",
		Times:        times,
		Duration:     "10 days",
		Active:       true,
	}
	if err := db.Create(&reminder).Error; err != nil {
		t.Fatalf("seed reminder: %v", err)
	}
	return reminder
}

func countLogs(t *testing.T, db *gorm.DB, medicationID string) int64 {
	t.Helper()
	var count int64
	if err := db.Model(&models.MedicationLog{}).
		Where("medication_id = ?", medicationID).
		Count(&count).Error; err != nil {
		t.Fatalf("count logs: %v", err)
	}
	return count
}

func slotByTime(t *testing.T, views []ReminderView, reminderID, slotTime string) SlotStatus {
	t.Helper()
	for _, view := range views {
		if view.ID != reminderID {
			continue
		}
		for _, slot := range view.Slots {
			if slot.Time == slotTime {
				return slot
			}
		}
	}
	t.Fatalf("slot %q not found for reminder %s", slotTime, reminderID)
	return SlotStatus{}
}

func TestSetSlotStatusThenListForDay(t *testing.T) {
	db := newAdherenceTestDB(t)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
	// Before the first slot so nothing backfills
	svc := NewAdherenceService(db, fixedClock{now: time.Date(2025, 5, 3, 7, 0, 0, 0, time.UTC)})

	reminder := seedReminder(t, db, start, "08:00", "20:00")

	logEntry, slotTime, err := svc.SetSlotStatus(&reminder, models.LogTaken, &today, "08:00")
	if err != nil {
		t.Fatalf("SetSlotStatus: %v", err)
	}
	if slotTime != "08:00" {
		t.Errorf("slot time = %q, want 08:00", slotTime)
	}
	if logEntry == nil || logEntry.Status != models.LogTaken {
		t.Fatalf("log = %+v, want taken", logEntry)
	}

	views, err := svc.ListForDay("prof-1", today)
	if err != nil {
		t.Fatalf("ListForDay: %v", err)
	}
	morning := slotByTime(t, views, reminder.ID, "08:00")
	if morning.Status == nil || *morning.Status != "taken" {
		t.Errorf("morning slot = %v, want taken", morning.Status)
	}
	evening := slotByTime(t, views, reminder.ID, "20:00")
	if evening.Status != nil {
		t.Errorf("evening slot = %q, want nil (pending)", *evening.Status)
	}
}

func TestSetSlotStatusPendingClearsLog(t *testing.T) {
	db := newAdherenceTestDB(t)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
	svc := NewAdherenceService(db, fixedClock{now: time.Date(2025, 5, 3, 7, 0, 0, 0, time.UTC)})

	reminder := seedReminder(t, db, start, "08:00")

	if _, _, err := svc.SetSlotStatus(&reminder, models.LogTaken, &today, "08:00"); err != nil {
		t.Fatalf("set taken: %v", err)
	}
	if got := countLogs(t, db, *reminder.MedicationID); got != 1 {
		t.Fatalf("log count after taken = %d, want 1", got)
	}

	logEntry, _, err := svc.SetSlotStatus(&reminder, models.LogPending, &today, "08:00")
	if err != nil {
		t.Fatalf("set pending: %v", err)
	}
	if logEntry != nil {
		t.Errorf("pending returned a log: %+v", logEntry)
	}
	if got := countLogs(t, db, *reminder.MedicationID); got != 0 {
		t.Errorf("log count after pending = %d, want 0", got)
	}

	views, err := svc.ListForDay("prof-1", today)
	if err != nil {
		t.Fatalf("ListForDay: %v", err)
	}
	slot := slotByTime(t, views, reminder.ID, "08:00")
	if slot.Status != nil {
		t.Errorf("cleared slot = %q, want nil", *slot.Status)
	}
}

func TestSetSlotStatusDefaultsToFirstSlot(t *testing.T) {
	db := newAdherenceTestDB(t)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
	svc := NewAdherenceService(db, fixedClock{now: time.Date(2025, 5, 3, 7, 0, 0, 0, time.UTC)})

	reminder := seedReminder(t, db, start, "09:00", "21:00")

	_, slotTime, err := svc.SetSlotStatus(&reminder, models.LogMissed, &today, "")
	if err != nil {
		t.Fatalf("SetSlotStatus: %v", err)
	}
	if slotTime != "09:00" {
		t.Errorf("defaulted slot = %q, want first scheduled 09:00", slotTime)
	}
}

func TestSetSlotStatusRejectsUnscheduledTime(t *testing.T) {
	db := newAdherenceTestDB(t)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	today := time.Date(2025, 5, 3, 0, 0, 0, 0, time.UTC)
	svc := NewAdherenceService(db, fixedClock{now: time.Date(2025, 5, 3, 7, 0, 0, 0, time.UTC)})

	reminder := seedReminder(t, db, start, "08:00")

	if _, _, err := svc.SetSlotStatus(&reminder, models.LogTaken, &today, "12:00"); !errors.Is(err, ErrTimeNotScheduled) {
		t.Errorf("err = %v, want ErrTimeNotScheduled", err)
	}
}

func TestSetSlotStatusWithoutMedication(t *testing.T) {
	db := newAdherenceTestDB(t)
	svc := NewAdherenceService(db, fixedClock{now: time.Date(2025, 5, 3, 7, 0, 0, 0, time.UTC)})

	reminder := models.MedicineReminder{Times: models.StringList{"08:00"}}
	if _, _, err := svc.SetSlotStatus(&reminder, models.LogTaken, nil, "08:00"); !errors.Is(err, ErrNoMedication) {
		t.Errorf("err = %v, want ErrNoMedication", err)
	}
}

func TestListForDayPersistsMissedBackfill(t *testing.T) {
	db := newAdherenceTestDB(t)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	svc := NewAdherenceService(db, fixedClock{now: time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC)})

	reminder := seedReminder(t, db, start, "08:00")

	views, err := svc.ListForDay("prof-1", yesterday)
	if err != nil {
		t.Fatalf("ListForDay: %v", err)
	}
	slot := slotByTime(t, views, reminder.ID, "08:00")
	if slot.Status == nil || *slot.Status != "missed" {
		t.Fatalf("past slot = %v, want missed", slot.Status)
	}

	var logEntry models.MedicationLog
	if err := db.Where("medication_id = ?", *reminder.MedicationID).First(&logEntry).Error; err != nil {
		t.Fatalf("backfilled log not written: %v", err)
	}
	wantAt := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)
	if !logEntry.OccurredAt.UTC().Equal(wantAt) {
		t.Errorf("log occurred at %v, want %v", logEntry.OccurredAt, wantAt)
	}
	if logEntry.Status != models.LogMissed {
		t.Errorf("log status = %q, want missed", logEntry.Status)
	}

	// A second listing finds the log and plans no further writes
	if _, err := svc.ListForDay("prof-1", yesterday); err != nil {
		t.Fatalf("second ListForDay: %v", err)
	}
	if got := countLogs(t, db, *reminder.MedicationID); got != 1 {
		t.Errorf("log count after second listing = %d, want 1", got)
	}
}

func TestListForDaySkipsScheduleEntriesThatAreNotTimes(t *testing.T) {
	db := newAdherenceTestDB(t)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	yesterday := time.Date(2025, 5, 2, 0, 0, 0, 0, time.UTC)
	svc := NewAdherenceService(db, fixedClock{now: time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC)})

	// A free-text entry slipped into the stored schedule
	reminder := seedReminder(t, db, start, "morning", "08:00")

	views, err := svc.ListForDay("prof-1", yesterday)
	if err != nil {
		t.Fatalf("ListForDay: %v", err)
	}
	for _, view := range views {
		if view.ID != reminder.ID {
			continue
		}
		if len(view.Slots) != 1 {
			t.Fatalf("got %d slots, want 1 (invalid entry dropped)", len(view.Slots))
		}
		if view.Slots[0].Time != "08:00" {
			t.Errorf("slot time = %q, want 08:00", view.Slots[0].Time)
		}
	}

	// Resolving again matches the backfilled log instead of re-planning it
	if _, err := svc.ListForDay("prof-1", yesterday); err != nil {
		t.Fatalf("second ListForDay: %v", err)
	}
	if got := countLogs(t, db, *reminder.MedicationID); got != 1 {
		t.Errorf("log count = %d, want exactly 1 backfill", got)
	}
}

func TestPersistBackfillAdoptsConflictingLog(t *testing.T) {
	db := newAdherenceTestDB(t)
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	svc := NewAdherenceService(db, fixedClock{now: time.Date(2025, 5, 3, 12, 0, 0, 0, time.UTC)})

	reminder := seedReminder(t, db, start, "08:00")
	occurredAt := time.Date(2025, 5, 2, 8, 0, 0, 0, time.UTC)

	// Another request already logged this slot as taken
	winner := models.MedicationLog{
		MedicationID: *reminder.MedicationID,
		OccurredAt:   occurredAt,
		Status:       models.LogTaken,
	}
	if err := db.Create(&winner).Error; err != nil {
		t.Fatalf("seed winning log: %v", err)
	}

	missed := "missed"
	day := ReminderDay{
		InWindow: true,
		Slots:    []SlotStatus{{Time: "08:00", Status: &missed}},
		Backfill: []time.Time{occurredAt},
	}
	if err := svc.persistBackfill(&reminder, &day); err != nil {
		t.Fatalf("persistBackfill: %v", err)
	}

	if day.Slots[0].Status == nil || *day.Slots[0].Status != "taken" {
		t.Errorf("slot = %v, want adopted taken", day.Slots[0].Status)
	}
	if day.Status == nil || *day.Status != "taken" {
		t.Errorf("rollup = %v, want taken after adoption", day.Status)
	}
	if got := countLogs(t, db, *reminder.MedicationID); got != 1 {
		t.Errorf("log count = %d, want the winning row only", got)
	}
}
