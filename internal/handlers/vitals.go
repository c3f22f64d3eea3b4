package handlers

import (
	"errors"
	"net/http"
	"time"

	"lifevault/internal/database"
	"lifevault/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// VitalEntryRequest carries one measurement submission
type VitalEntryRequest struct {
	ProfileID   string   `json:"profileId" binding:"required"`
	VitalType   string   `json:"vitalType" binding:"required"`
	Systolic    *float64 `json:"systolic"`
	Diastolic   *float64 `json:"diastolic"`
	ValueNumber *float64 `json:"valueNumber"`
	Unit        string   `json:"unit"`
	ChartGroup  string   `json:"chartGroup"`
	RecordedAt  string   `json:"recordedAt"`
	Notes       string   `json:"notes"`
}

// IllnessEntryRequest carries one illness episode submission
type IllnessEntryRequest struct {
	ProfileID       string   `json:"profileId" binding:"required"`
	Diagnosis       string   `json:"diagnosis" binding:"required"`
	Symptoms        []string `json:"symptoms"`
	BodyTemperature *float64 `json:"bodyTemperature"`
	TemperatureUnit string   `json:"temperatureUnit"`
	Severity        string   `json:"severity"`
	Status          string   `json:"status"`
	Notes           string   `json:"notes"`
	Medications     []string `json:"medications"`
	RecordedAt      string   `json:"recordedAt"`
}

func vitalTypeFromString(value string) (models.VitalType, bool) {
	switch models.VitalType(value) {
	case models.VitalBloodPressure, models.VitalBloodGlucose, models.VitalWeight:
		return models.VitalType(value), true
	}
	return "", false
}

// ListVitals returns a profile's measurements, optionally filtered by type
func ListVitals(c *gin.Context) {
	profile, ok := resolveProfileForUser(c, c.Query("profileId"))
	if !ok {
		return
	}

	db := database.GetDB()
	query := db.Where("profile_id = ?", profile.ID)
	if vitalType := c.Query("vitalType"); vitalType != "" {
		parsed, valid := vitalTypeFromString(vitalType)
		if !valid {
			handleError(c, http.StatusBadRequest, "Unknown vital type", errors.New("invalid vitalType "+vitalType))
			return
		}
		query = query.Where("vital_type = ?", parsed)
	}

	var entries []models.VitalEntry
	if err := query.Order("recorded_at DESC").Find(&entries).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load vitals", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "vitals": entries})
}

// CreateVital records one measurement for a profile
func CreateVital(c *gin.Context) {
	var req VitalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	profile, ok := resolveProfileForUser(c, req.ProfileID)
	if !ok {
		return
	}

	vitalType, valid := vitalTypeFromString(req.VitalType)
	if !valid {
		handleError(c, http.StatusBadRequest, "Unknown vital type", errors.New("invalid vitalType "+req.VitalType))
		return
	}

	// Blood pressure needs both readings; single-value types need one
	if vitalType == models.VitalBloodPressure {
		if req.Systolic == nil || req.Diastolic == nil {
			handleError(c, http.StatusBadRequest, "Blood pressure requires systolic and diastolic values", errors.New("incomplete blood pressure reading"))
			return
		}
	} else if req.ValueNumber == nil {
		handleError(c, http.StatusBadRequest, "A measurement value is required", errors.New("missing valueNumber"))
		return
	}

	entry := models.VitalEntry{
		ProfileID:   profile.ID,
		VitalType:   vitalType,
		Systolic:    req.Systolic,
		Diastolic:   req.Diastolic,
		ValueNumber: req.ValueNumber,
		Unit:        req.Unit,
		ChartGroup:  req.ChartGroup,
		Notes:       req.Notes,
	}
	if recordedAt := parseDateField(req.RecordedAt); recordedAt != nil {
		entry.RecordedAt = *recordedAt
	} else {
		entry.RecordedAt = time.Now()
	}

	db := database.GetDB()
	if err := db.Create(&entry).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to record vital", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "vital": entry})
}

func resolveVitalForUser(c *gin.Context, vitalID string) (*models.VitalEntry, bool) {
	db := database.GetDB()
	var entry models.VitalEntry
	if err := db.Joins("JOIN profile ON profile.id = vital_entry.profile_id").
		Where("vital_entry.id = ? AND profile.user_id = ?", vitalID, currentUserID(c)).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Vital entry not found", err)
			return nil, false
		}
		handleError(c, http.StatusInternalServerError, "Failed to load vital entry", err)
		return nil, false
	}
	return &entry, true
}

// GetVital returns one measurement belonging to the caller's profile
func GetVital(c *gin.Context) {
	entry, ok := resolveVitalForUser(c, c.Param("id"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "vital": entry})
}

// UpdateVital edits a measurement belonging to the caller's profile
func UpdateVital(c *gin.Context) {
	entry, ok := resolveVitalForUser(c, c.Param("id"))
	if !ok {
		return
	}
	db := database.GetDB()

	var req VitalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	entry.Systolic = req.Systolic
	entry.Diastolic = req.Diastolic
	entry.ValueNumber = req.ValueNumber
	entry.Unit = req.Unit
	entry.ChartGroup = req.ChartGroup
	entry.Notes = req.Notes
	if recordedAt := parseDateField(req.RecordedAt); recordedAt != nil {
		entry.RecordedAt = *recordedAt
	}

	if err := db.Save(entry).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update vital", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "vital": entry})
}

// DeleteVital removes a measurement belonging to the caller's profile
func DeleteVital(c *gin.Context) {
	db := database.GetDB()
	result := db.Where("id = ? AND profile_id IN (?)",
		c.Param("id"),
		db.Model(&models.Profile{}).Select("id").Where("user_id = ?", currentUserID(c)),
	).Delete(&models.VitalEntry{})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete vital", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		handleError(c, http.StatusNotFound, "Vital entry not found", gorm.ErrRecordNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "vital deleted"})
}

// ListIllnesses returns a profile's illness episodes
func ListIllnesses(c *gin.Context) {
	profile, ok := resolveProfileForUser(c, c.Query("profileId"))
	if !ok {
		return
	}

	db := database.GetDB()
	var entries []models.IllnessEntry
	if err := db.Where("profile_id = ?", profile.ID).
		Order("recorded_at DESC").
		Find(&entries).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load illnesses", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "illnesses": entries})
}

// CreateIllness records an illness episode for a profile
func CreateIllness(c *gin.Context) {
	var req IllnessEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	profile, ok := resolveProfileForUser(c, req.ProfileID)
	if !ok {
		return
	}

	entry := models.IllnessEntry{
		ProfileID:       profile.ID,
		Diagnosis:       req.Diagnosis,
		Symptoms:        req.Symptoms,
		BodyTemperature: req.BodyTemperature,
		TemperatureUnit: req.TemperatureUnit,
		Notes:           req.Notes,
		Medications:     req.Medications,
	}
	if severity, ok := models.ParseIllnessSeverity(req.Severity); ok {
		entry.Severity = severity
	}
	if status, ok := models.ParseIllnessStatus(req.Status); ok {
		entry.Status = status
	}
	if recordedAt := parseDateField(req.RecordedAt); recordedAt != nil {
		entry.RecordedAt = *recordedAt
	}

	db := database.GetDB()
	if err := db.Create(&entry).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to record illness", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "illness": entry})
}

func resolveIllnessForUser(c *gin.Context, illnessID string) (*models.IllnessEntry, bool) {
	db := database.GetDB()
	var entry models.IllnessEntry
	if err := db.Joins("JOIN profile ON profile.id = illness_entry.profile_id").
		Where("illness_entry.id = ? AND profile.user_id = ?", illnessID, currentUserID(c)).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Illness entry not found", err)
			return nil, false
		}
		handleError(c, http.StatusInternalServerError, "Failed to load illness entry", err)
		return nil, false
	}
	return &entry, true
}

// GetIllness returns one illness episode belonging to the caller's profile
func GetIllness(c *gin.Context) {
	entry, ok := resolveIllnessForUser(c, c.Param("id"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "illness": entry})
}

// UpdateIllness edits an illness episode belonging to the caller's profile
func UpdateIllness(c *gin.Context) {
	entry, ok := resolveIllnessForUser(c, c.Param("id"))
	if !ok {
		return
	}
	db := database.GetDB()

	var req IllnessEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	entry.Diagnosis = req.Diagnosis
	entry.Symptoms = req.Symptoms
	entry.BodyTemperature = req.BodyTemperature
	entry.Notes = req.Notes
	entry.Medications = req.Medications
	if req.TemperatureUnit != "" {
		entry.TemperatureUnit = req.TemperatureUnit
	}
	if severity, ok := models.ParseIllnessSeverity(req.Severity); ok {
		entry.Severity = severity
	}
	if status, ok := models.ParseIllnessStatus(req.Status); ok {
		entry.Status = status
	}
	if recordedAt := parseDateField(req.RecordedAt); recordedAt != nil {
		entry.RecordedAt = *recordedAt
	}

	if err := db.Save(&entry).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update illness", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "illness": entry})
}

// DeleteIllness removes an illness episode belonging to the caller's profile
func DeleteIllness(c *gin.Context) {
	db := database.GetDB()
	result := db.Where("id = ? AND profile_id IN (?)",
		c.Param("id"),
		db.Model(&models.Profile{}).Select("id").Where("user_id = ?", currentUserID(c)),
	).Delete(&models.IllnessEntry{})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete illness", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		handleError(c, http.StatusNotFound, "Illness entry not found", gorm.ErrRecordNotFound)
		return
	}

	c.JSON(http.StatusNoContent, gin.H{"status": http.StatusNoContent, "message": "illness deleted"})
}
