package services

import (
	"errors"
	"fmt"
	"lifevault/internal/models"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrTimeNotScheduled = errors.New("time is not part of the reminder schedule")
	ErrNoMedication     = errors.New("reminder has no linked medication")
)

// SlotStatus is one scheduled intake occurrence on a given day. Status is
// nil while the slot is still pending.
type SlotStatus struct {
	Time   string  `json:"time"`
	Status *string `json:"status"`
}

// ReminderDay is the resolved adherence picture of one reminder for one
// calendar day. Backfill lists the exact timestamps of past slots that have
// no log yet; the caller decides whether to persist missed logs for them.
type ReminderDay struct {
	StartDate time.Time
	InWindow  bool
	Slots     []SlotStatus
	Status    *string
	Backfill  []time.Time
}

// ReminderView is the wire shape of a reminder augmented with its resolved
// day status
type ReminderView struct {
	models.MedicineReminder
	Status    *string      `json:"status"`
	StartDate time.Time    `json:"startDate"`
	Slots     []SlotStatus `json:"slots"`
}

// ResolveReminderDay computes slot statuses for a reminder on referenceDate
// from the day's logs. It performs no writes: past slots lacking a log are
// reported as missed and their timestamps collected in Backfill.
//
// Log matching is by formatted time-of-day, not exact timestamp, so logs
// written with a different date-combination routine still count.
func ResolveReminderDay(reminder models.MedicineReminder, logs []models.MedicationLog, referenceDate, now time.Time) ReminderDay {
	windowStart := resolveWindowStart(reminder, now)
	durationDays := ParseDuration(reminder.Duration).Days
	windowEnd := windowStart.AddDate(0, 0, durationDays-1)

	day := StartOfDay(referenceDate)
	result := ReminderDay{StartDate: windowStart}
	if day.Before(windowStart) || day.After(windowEnd) {
		return result
	}
	result.InWindow = true

	// Working copy so a backfilled slot is visible to later identical slots
	// in the same pass
	working := make([]models.MedicationLog, len(logs))
	copy(working, logs)

	for _, slotTime := range NormalizeTimes(reminder.ScheduledTimes()) {
		slotDateTime := CombineDateAndTime(referenceDate, slotTime)
		slot := SlotStatus{Time: slotTime}

		if match := findLogByTimeOfDay(working, slotTime); match != nil {
			status := string(match.Status)
			slot.Status = &status
		} else if reminder.MedicationID != nil && slotInPast(day, slotDateTime, now) {
			status := string(models.LogMissed)
			slot.Status = &status
			result.Backfill = append(result.Backfill, slotDateTime)
			working = append(working, models.MedicationLog{
				MedicationID: *reminder.MedicationID,
				OccurredAt:   slotDateTime,
				Status:       models.LogMissed,
			})
		}

		result.Slots = append(result.Slots, slot)
	}

	result.Status = rollupStatus(result.Slots)
	return result
}

// resolveWindowStart picks the day the course began: the medication's start
// date, else the reminder's creation day, else today
func resolveWindowStart(reminder models.MedicineReminder, now time.Time) time.Time {
	if reminder.Medication != nil && reminder.Medication.StartDate != nil {
		return StartOfDay(*reminder.Medication.StartDate)
	}
	if !reminder.CreatedAt.IsZero() {
		return StartOfDay(reminder.CreatedAt)
	}
	return StartOfDay(now)
}

// slotInPast reports whether a slot's time has already gone by: any slot on
// an earlier day, or an earlier wall-clock time today
func slotInPast(day, slotDateTime, now time.Time) bool {
	today := StartOfDay(now)
	if day.Before(today) {
		return true
	}
	return day.Equal(today) && slotDateTime.Before(now)
}

func findLogByTimeOfDay(logs []models.MedicationLog, slotTime string) *models.MedicationLog {
	for i := range logs {
		if FormatTimeOfDay(logs[i].OccurredAt) == slotTime {
			return &logs[i]
		}
	}
	return nil
}

// rollupStatus summarizes a day: taken or missed only when every slot
// agrees, nil for mixed days or days with no slots
func rollupStatus(slots []SlotStatus) *string {
	if len(slots) == 0 {
		return nil
	}
	allTaken, allMissed := true, true
	for _, slot := range slots {
		if slot.Status == nil {
			return nil
		}
		switch *slot.Status {
		case string(models.LogTaken):
			allMissed = false
		case string(models.LogMissed):
			allTaken = false
		default:
			return nil
		}
	}
	if allTaken {
		status := string(models.LogTaken)
		return &status
	}
	if allMissed {
		status := string(models.LogMissed)
		return &status
	}
	return nil
}

// AdherenceService resolves reminder schedules against the store and
// persists missed-log backfills
type AdherenceService struct {
	db    *gorm.DB
	clock Clock
}

func NewAdherenceService(db *gorm.DB, clock Clock) *AdherenceService {
	return &AdherenceService{db: db, clock: clock}
}

// Now exposes the service clock so callers resolve "today" against the
// same instant the resolver will use
func (s *AdherenceService) Now() time.Time {
	return s.clock.Now()
}

// ListForDay returns every reminder of the profile that is active on
// referenceDate, each annotated with slot statuses. Past slots without a
// log get a missed log written as part of the call.
func (s *AdherenceService) ListForDay(profileID string, referenceDate time.Time) ([]ReminderView, error) {
	dayStart := StartOfDay(referenceDate)
	dayEnd := EndOfDay(referenceDate)

	var reminders []models.MedicineReminder
	if err := s.db.
		Preload("Medication").
		Preload("Medication.Logs", "occurred_at BETWEEN ? AND ?", dayStart, dayEnd).
		Where("profile_id = ?", profileID).
		Order("created_at DESC").
		Find(&reminders).Error; err != nil {
		return nil, fmt.Errorf("failed to load reminders: %w", err)
	}

	now := s.clock.Now()
	views := make([]ReminderView, 0, len(reminders))

	for _, reminder := range reminders {
		var logs []models.MedicationLog
		if reminder.Medication != nil {
			logs = reminder.Medication.Logs
		}

		day := ResolveReminderDay(reminder, logs, referenceDate, now)
		if !day.InWindow {
			continue
		}

		if err := s.persistBackfill(&reminder, &day); err != nil {
			return nil, err
		}

		// Don't ship the raw log rows twice; slots carry the day's statuses
		if reminder.Medication != nil {
			reminder.Medication.Logs = nil
		}

		views = append(views, ReminderView{
			MedicineReminder: reminder,
			Status:           day.Status,
			StartDate:        day.StartDate,
			Slots:            day.Slots,
		})
	}

	return views, nil
}

// persistBackfill writes missed logs for the day's unlogged past slots. A
// unique index on (medication_id, occurred_at) guards against concurrent
// listings double-inserting; on conflict the winning row's status is
// adopted instead.
func (s *AdherenceService) persistBackfill(reminder *models.MedicineReminder, day *ReminderDay) error {
	if reminder.MedicationID == nil {
		return nil
	}

	for _, occurredAt := range day.Backfill {
		entry := models.MedicationLog{
			MedicationID: *reminder.MedicationID,
			OccurredAt:   occurredAt,
			Status:       models.LogMissed,
		}
		err := s.db.Create(&entry).Error
		if err == nil {
			continue
		}
		if !isDuplicateKey(err) {
			return fmt.Errorf("failed to backfill missed log: %w", err)
		}

		// Lost the race; another request already wrote this slot
		var existing models.MedicationLog
		if err := s.db.Where("medication_id = ? AND occurred_at = ?", *reminder.MedicationID, occurredAt).
			First(&existing).Error; err != nil {
			log.Printf("Backfill conflict re-read failed for medication %s: %v", *reminder.MedicationID, err)
			continue
		}
		adoptSlotStatus(day, occurredAt, string(existing.Status))
	}

	day.Status = rollupStatus(day.Slots)
	return nil
}

// isDuplicateKey recognizes a unique-index violation across drivers
// (postgres says "duplicate key", sqlite "UNIQUE constraint failed")
func isDuplicateKey(err error) bool {
	return strings.Contains(err.Error(), "duplicate key") ||
		strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func adoptSlotStatus(day *ReminderDay, occurredAt time.Time, status string) {
	slotTime := FormatTimeOfDay(occurredAt)
	for i := range day.Slots {
		if day.Slots[i].Time == slotTime {
			day.Slots[i].Status = &status
			return
		}
	}
}

// SetSlotStatus explicitly marks one scheduled slot taken or missed, or
// clears it back to pending. The time must be one of the reminder's
// scheduled times; it defaults to the first.
func (s *AdherenceService) SetSlotStatus(reminder *models.MedicineReminder, status models.LogStatus, date *time.Time, timeStr string) (*models.MedicationLog, string, error) {
	if reminder.MedicationID == nil {
		return nil, "", ErrNoMedication
	}

	scheduled := NormalizeTimes(reminder.ScheduledTimes())
	slotTime := NormalizeTime(timeStr)
	if slotTime == "" && len(scheduled) > 0 {
		slotTime = scheduled[0]
	}
	if !containsTime(scheduled, slotTime) {
		return nil, slotTime, ErrTimeNotScheduled
	}

	referenceDate := s.clock.Now()
	if date != nil {
		referenceDate = *date
	}
	logDateTime := CombineDateAndTime(referenceDate, slotTime)

	var existing models.MedicationLog
	err := s.db.Where("medication_id = ? AND occurred_at = ?", *reminder.MedicationID, logDateTime).
		First(&existing).Error
	found := err == nil
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, slotTime, fmt.Errorf("failed to look up log: %w", err)
	}

	if status == models.LogPending {
		if found {
			if err := s.db.Delete(&existing).Error; err != nil {
				return nil, slotTime, fmt.Errorf("failed to clear log: %w", err)
			}
		}
		return nil, slotTime, nil
	}

	if found {
		existing.Status = status
		if err := s.db.Save(&existing).Error; err != nil {
			return nil, slotTime, fmt.Errorf("failed to update log: %w", err)
		}
		return &existing, slotTime, nil
	}

	entry := models.MedicationLog{
		MedicationID: *reminder.MedicationID,
		OccurredAt:   logDateTime,
		Status:       status,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, slotTime, fmt.Errorf("failed to create log: %w", err)
	}
	return &entry, slotTime, nil
}

func containsTime(times []string, t string) bool {
	for _, candidate := range times {
		if candidate == t {
			return true
		}
	}
	return false
}
