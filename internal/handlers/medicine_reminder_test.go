package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"lifevault/internal/database"
	"lifevault/internal/models"
	"lifevault/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestRouter wires the handlers against a throwaway sqlite store with
// the auth middleware replaced by a fixed caller
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	path := filepath.Join(t.TempDir(), "handlers-test.db")
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(
		&models.Profile{},
		&models.VitalEntry{},
		&models.IllnessEntry{},
		&models.MedicalRecord{},
		&models.FileAsset{},
		&models.Medication{},
		&models.MedicineReminder{},
		&models.MedicationLog{},
	); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	database.DB = db
	adherenceService = services.NewAdherenceService(db, services.SystemClock())

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("user_id", "user-1")
		c.Set("username", "tester")
	})
	router.PUT("/medicine-reminders/:id", UpdateMedicineReminder)
	router.POST("/medicine-reminders/:id/logs", SetReminderLogStatus)
	router.DELETE("/illnesses/:id", DeleteIllness)
	return router, db
}

func performJSON(t *testing.T, router *gin.Engine, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	req := httptest.NewRequest(method, target, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedProfile(t *testing.T, db *gorm.DB) models.Profile {
	t.Helper()
	profile := models.Profile{UserID: "user-1", DisplayName: "Alice"}
	if err := db.Create(&profile).Error; err != nil {
		t.Fatalf("seed profile: %v", err)
	}
	return profile
}

func seedReminderWithMedication(t *testing.T, db *gorm.DB, profileID string) models.MedicineReminder {
	t.Helper()
	start := time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)
	medication := models.Medication{
		ProfileID:    profileID,
		Name:         "Amoxicillin",
		Dosage:       "1 tablet",
		Instructions: "oral",
		StartDate:    &start,
	}
	if err := db.Create(&medication).Error; err != nil {
		t.Fatalf("seed medication: %v", err)
	}
	first := "08:00"
	reminder := models.MedicineReminder{
		ProfileID:    profileID,
		MedicationID: &medication.ID,
		MedicineName: "Amoxicillin",
		Unit:         "tablet",
		Dosage:       1,
		Frequency:    "daily",
		Time:         &first,
		Times:        models.StringList{"08:00", "20:00"},
		Duration:     "10 days",
		IntakeMethod: "oral",
		Notes:        "after food",
		Active:       true,
	}
	if err := db.Create(&reminder).Error; err != nil {
		t.Fatalf("seed reminder: %v", err)
	}
	return reminder
}

func TestUpdateMedicineReminderPartial(t *testing.T) {
	router, db := newTestRouter(t)
	profile := seedProfile(t, db)
	reminder := seedReminderWithMedication(t, db, profile.ID)

	// Deactivate without touching anything else
	w := performJSON(t, router, http.MethodPut, "/medicine-reminders/"+reminder.ID, gin.H{"active": false})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var stored models.MedicineReminder
	if err := db.First(&stored, "id = ?", reminder.ID).Error; err != nil {
		t.Fatalf("reload reminder: %v", err)
	}
	if stored.Active {
		t.Error("reminder should be inactive")
	}
	if stored.MedicineName != "Amoxicillin" || stored.Notes != "after food" || stored.Frequency != "daily" {
		t.Errorf("untouched fields changed: %+v", stored)
	}
	if len(stored.Times) != 2 {
		t.Errorf("schedule changed: %v", stored.Times)
	}

	// A second partial edit leaves the earlier one in place
	w = performJSON(t, router, http.MethodPut, "/medicine-reminders/"+reminder.ID, gin.H{"notes": "before bed"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if err := db.First(&stored, "id = ?", reminder.ID).Error; err != nil {
		t.Fatalf("reload reminder: %v", err)
	}
	if stored.Notes != "before bed" {
		t.Errorf("notes = %q, want before bed", stored.Notes)
	}
	if stored.Active {
		t.Error("earlier deactivation was lost")
	}
}

func TestUpdateMedicineReminderDropsInvalidTimes(t *testing.T) {
	router, db := newTestRouter(t)
	profile := seedProfile(t, db)
	reminder := seedReminderWithMedication(t, db, profile.ID)

	w := performJSON(t, router, http.MethodPut, "/medicine-reminders/"+reminder.ID,
		gin.H{"times": []string{"morning", "07:30"}})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var stored models.MedicineReminder
	if err := db.First(&stored, "id = ?", reminder.ID).Error; err != nil {
		t.Fatalf("reload reminder: %v", err)
	}
	if len(stored.Times) != 1 || stored.Times[0] != "07:30" {
		t.Errorf("times = %v, want [07:30]", stored.Times)
	}
	if stored.Time == nil || *stored.Time != "07:30" {
		t.Errorf("legacy time = %v, want 07:30", stored.Time)
	}
}

func TestSetReminderLogStatusWithoutMedication(t *testing.T) {
	router, db := newTestRouter(t)
	profile := seedProfile(t, db)

	reminder := models.MedicineReminder{
		ProfileID:    profile.ID,
		MedicineName: "Vitamin D",
		Frequency:    "daily",
		Times:        models.StringList{"08:00"},
		Active:       true,
	}
	if err := db.Create(&reminder).Error; err != nil {
		t.Fatalf("seed reminder: %v", err)
	}

	w := performJSON(t, router, http.MethodPost, "/medicine-reminders/"+reminder.ID+"/logs",
		gin.H{"status": "taken", "time": "08:00"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404; body %s", w.Code, w.Body.String())
	}

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["message"] != "Reminder not found" {
		t.Errorf("message = %v, want Reminder not found", body["message"])
	}
}

func TestDeleteIllnessReturnsNoContent(t *testing.T) {
	router, db := newTestRouter(t)
	profile := seedProfile(t, db)

	illness := models.IllnessEntry{ProfileID: profile.ID, Diagnosis: "Flu"}
	if err := db.Create(&illness).Error; err != nil {
		t.Fatalf("seed illness: %v", err)
	}

	req := httptest.NewRequest(http.MethodDelete, "/illnesses/"+illness.ID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204; body %s", w.Code, w.Body.String())
	}

	var count int64
	if err := db.Model(&models.IllnessEntry{}).Where("id = ?", illness.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Error("illness row still present")
	}
}
