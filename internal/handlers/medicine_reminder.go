package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"lifevault/internal/database"
	"lifevault/internal/models"
	"lifevault/internal/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// MedicineReminderRequest carries a reminder create or update
type MedicineReminderRequest struct {
	ProfileID    string   `json:"profileId" binding:"required"`
	MedicineName string   `json:"medicineName" binding:"required"`
	Unit         string   `json:"unit"`
	Dosage       float64  `json:"dosage"`
	Frequency    string   `json:"frequency" binding:"required"`
	Times        []string `json:"times"`
	Time         string   `json:"time"`
	Duration     string   `json:"duration"`
	IntakeMethod string   `json:"intakeMethod"`
	Notes        string   `json:"notes"`
	StartDate    string   `json:"startDate"`
	Instructions string   `json:"instructions"`
}

// MedicineReminderUpdateRequest carries a partial edit; only the fields
// that were sent are applied
type MedicineReminderUpdateRequest struct {
	MedicineName *string   `json:"medicineName"`
	Unit         *string   `json:"unit"`
	Dosage       *float64  `json:"dosage"`
	Frequency    *string   `json:"frequency"`
	Times        *[]string `json:"times"`
	Time         *string   `json:"time"`
	Duration     *string   `json:"duration"`
	IntakeMethod *string   `json:"intakeMethod"`
	Notes        *string   `json:"notes"`
	StartDate    *string   `json:"startDate"`
	Instructions *string   `json:"instructions"`
	Active       *bool     `json:"active"`
}

// SetLogStatusRequest carries an explicit slot status change
type SetLogStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Date   string `json:"date"`
	Time   string `json:"time"`
}

// ListMedicineReminders resolves the profile's reminders for a day, with
// per-slot adherence statuses. Past slots without a log come back missed
// and get a log row written as part of the call.
func ListMedicineReminders(c *gin.Context) {
	profile, ok := resolveProfileForUser(c, c.Query("profileId"))
	if !ok {
		return
	}

	referenceDate := parseReferenceDate(c.Query("date"), adherenceService.Now())
	reminders, err := adherenceService.ListForDay(profile.ID, referenceDate)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to resolve reminders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "reminders": reminders})
}

// GetMedicineReminder returns one reminder with its medication
func GetMedicineReminder(c *gin.Context) {
	reminder, ok := resolveReminderForUser(c, c.Param("id"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "reminder": reminder})
}

// resolveReminderForUser loads a reminder and verifies the caller owns its
// profile
func resolveReminderForUser(c *gin.Context, reminderID string) (*models.MedicineReminder, bool) {
	db := database.GetDB()
	var reminder models.MedicineReminder
	if err := db.Preload("Medication").
		Joins("JOIN profile ON profile.id = medicine_reminder.profile_id").
		Where("medicine_reminder.id = ? AND profile.user_id = ?", reminderID, currentUserID(c)).
		First(&reminder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Reminder not found", err)
			return nil, false
		}
		handleError(c, http.StatusInternalServerError, "Failed to load reminder", err)
		return nil, false
	}
	return &reminder, true
}

// formatDosage renders the paired medication's dosage text, e.g. "2 tablet"
func formatDosage(dosage float64, unit string) string {
	text := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", dosage), "0"), ".")
	if unit != "" {
		return text + " " + unit
	}
	return text
}

// CreateMedicineReminder creates a reminder together with its paired
// medication record
func CreateMedicineReminder(c *gin.Context) {
	var req MedicineReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	profile, ok := resolveProfileForUser(c, req.ProfileID)
	if !ok {
		return
	}

	times := services.NormalizeTimes(req.Times)
	if len(times) == 0 {
		if t := services.NormalizeTime(req.Time); t != "" {
			times = []string{t}
		}
	}

	dosage := req.Dosage
	if dosage <= 0 {
		dosage = 1
	}

	instructions := req.Instructions
	if instructions == "" {
		instructions = req.IntakeMethod
	}
	startDate := parseDateField(req.StartDate)
	if startDate == nil {
		now := time.Now()
		startDate = &now
	}

	medication := models.Medication{
		ProfileID:    profile.ID,
		Name:         req.MedicineName,
		Dosage:       formatDosage(dosage, req.Unit),
		Instructions: instructions,
		StartDate:    startDate,
	}

	reminder := models.MedicineReminder{
		ProfileID:    profile.ID,
		MedicineName: req.MedicineName,
		Unit:         req.Unit,
		Dosage:       dosage,
		Frequency:    req.Frequency,
		Times:        times,
		Duration:     req.Duration,
		IntakeMethod: req.IntakeMethod,
		Notes:        req.Notes,
		Active:       true,
	}
	if len(times) > 0 {
		first := times[0]
		reminder.Time = &first
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&medication).Error; err != nil {
			return err
		}
		reminder.MedicationID = &medication.ID
		return tx.Create(&reminder).Error
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create reminder", err)
		return
	}

	reminder.Medication = &medication
	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "reminder": reminder})
}

// UpdateMedicineReminder applies a partial edit to a reminder and keeps
// the paired medication in step
func UpdateMedicineReminder(c *gin.Context) {
	reminder, ok := resolveReminderForUser(c, c.Param("id"))
	if !ok {
		return
	}

	var req MedicineReminderUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	if req.MedicineName != nil {
		reminder.MedicineName = *req.MedicineName
	}
	if req.Unit != nil {
		reminder.Unit = *req.Unit
	}
	if req.Dosage != nil && *req.Dosage > 0 {
		reminder.Dosage = *req.Dosage
	}
	if req.Frequency != nil {
		reminder.Frequency = *req.Frequency
	}
	if req.Duration != nil {
		reminder.Duration = *req.Duration
	}
	if req.IntakeMethod != nil {
		reminder.IntakeMethod = *req.IntakeMethod
	}
	if req.Notes != nil {
		reminder.Notes = *req.Notes
	}
	if req.Active != nil {
		reminder.Active = *req.Active
	}
	if req.Times != nil {
		times := services.NormalizeTimes(*req.Times)
		reminder.Times = times
		if len(times) > 0 {
			first := times[0]
			reminder.Time = &first
		}
	} else if req.Time != nil {
		if t := services.NormalizeTime(*req.Time); t != "" {
			reminder.Times = []string{t}
			reminder.Time = &t
		}
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(reminder).Error; err != nil {
			return err
		}
		if reminder.Medication == nil {
			return nil
		}
		medication := reminder.Medication
		if req.MedicineName != nil {
			medication.Name = *req.MedicineName
		}
		if req.Instructions != nil {
			medication.Instructions = *req.Instructions
		} else if req.IntakeMethod != nil {
			medication.Instructions = *req.IntakeMethod
		}
		if req.Dosage != nil || req.Unit != nil {
			medication.Dosage = formatDosage(reminder.Dosage, reminder.Unit)
		}
		if req.StartDate != nil {
			if startDate := parseDateField(*req.StartDate); startDate != nil {
				medication.StartDate = startDate
			}
		}
		return tx.Save(medication).Error
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update reminder", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "reminder": reminder})
}

// DeleteMedicineReminder removes a reminder and its paired medication
func DeleteMedicineReminder(c *gin.Context) {
	reminder, ok := resolveReminderForUser(c, c.Param("id"))
	if !ok {
		return
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(reminder).Error; err != nil {
			return err
		}
		if reminder.Medication != nil {
			return tx.Delete(reminder.Medication).Error
		}
		return nil
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete reminder", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "reminder deleted"})
}

// SetReminderLogStatus marks one scheduled slot taken or missed, or clears
// it back to pending
func SetReminderLogStatus(c *gin.Context) {
	reminder, ok := resolveReminderForUser(c, c.Param("id"))
	if !ok {
		return
	}

	var req SetLogStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	status := models.LogStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	switch status {
	case models.LogTaken, models.LogMissed, models.LogPending:
	default:
		handleError(c, http.StatusBadRequest, "Status must be taken, missed or pending", errors.New("invalid status "+req.Status))
		return
	}

	logEntry, slotTime, err := adherenceService.SetSlotStatus(reminder, status, parseDateField(req.Date), req.Time)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTimeNotScheduled):
			handleError(c, http.StatusBadRequest, "Time is not part of the reminder schedule", err)
		case errors.Is(err, services.ErrNoMedication):
			// A reminder with no medication cannot log anything; clients
			// see it the same as a missing reminder
			handleError(c, http.StatusNotFound, "Reminder not found", err)
		default:
			handleError(c, http.StatusInternalServerError, "Failed to set log status", err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "log": logEntry, "time": slotTime})
}
