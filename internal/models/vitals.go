package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// VitalType discriminates the kind of measurement stored in a VitalEntry
type VitalType string

const (
	VitalBloodPressure VitalType = "BLOOD_PRESSURE_SYSTOLIC"
	VitalBloodGlucose  VitalType = "BLOOD_GLUCOSE"
	VitalWeight        VitalType = "WEIGHT"
)

// IllnessSeverity classifies how serious an illness episode is
type IllnessSeverity string

const (
	SeverityMild     IllnessSeverity = "MILD"
	SeverityModerate IllnessSeverity = "MODERATE"
	SeveritySevere   IllnessSeverity = "SEVERE"
)

// IllnessStatus tracks the lifecycle of an illness episode
type IllnessStatus string

const (
	IllnessOngoing   IllnessStatus = "ONGOING"
	IllnessRecovered IllnessStatus = "RECOVERED"
	IllnessChronic   IllnessStatus = "CHRONIC"
)

// ParseIllnessSeverity maps a loose input string onto a known severity
func ParseIllnessSeverity(value string) (IllnessSeverity, bool) {
	switch IllnessSeverity(strings.ToUpper(strings.TrimSpace(value))) {
	case SeverityMild:
		return SeverityMild, true
	case SeverityModerate:
		return SeverityModerate, true
	case SeveritySevere:
		return SeveritySevere, true
	}
	return "", false
}

// ParseIllnessStatus maps a loose input string onto a known status
func ParseIllnessStatus(value string) (IllnessStatus, bool) {
	switch IllnessStatus(strings.ToUpper(strings.TrimSpace(value))) {
	case IllnessOngoing:
		return IllnessOngoing, true
	case IllnessRecovered:
		return IllnessRecovered, true
	case IllnessChronic:
		return IllnessChronic, true
	}
	return "", false
}

// VitalEntry is one measurement row; the populated columns depend on VitalType
type VitalEntry struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	ProfileID   string    `gorm:"size:36;not null;index" json:"profileId"`
	VitalType   VitalType `gorm:"size:40;not null;index" json:"vitalType"`
	Systolic    *float64  `json:"systolic"`
	Diastolic   *float64  `json:"diastolic"`
	ValueNumber *float64  `json:"valueNumber"`
	Unit        string    `gorm:"size:20" json:"unit"`
	ChartGroup  string    `gorm:"size:60" json:"chartGroup"`
	RecordedAt  time.Time `gorm:"not null;index" json:"recordedAt"`
	Notes       string    `json:"notes"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"not null" json:"updatedAt"`
}

func (v *VitalEntry) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.RecordedAt.IsZero() {
		v.RecordedAt = time.Now()
	}
	return nil
}

// TableName specifies the table name for the VitalEntry model
func (VitalEntry) TableName() string {
	return "vital_entry"
}

// IllnessEntry records one illness episode for a profile
type IllnessEntry struct {
	ID              string          `gorm:"primaryKey;size:36" json:"id"`
	ProfileID       string          `gorm:"size:36;not null;index" json:"profileId"`
	Diagnosis       string          `gorm:"not null" json:"diagnosis"`
	Symptoms        StringList      `gorm:"type:jsonb" json:"symptoms"`
	BodyTemperature *float64        `json:"bodyTemperature"`
	TemperatureUnit string          `gorm:"size:5" json:"temperatureUnit"`
	Severity        IllnessSeverity `gorm:"size:20;not null" json:"severity"`
	Status          IllnessStatus   `gorm:"size:20;not null" json:"status"`
	Notes           string          `json:"notes"`
	Medications     StringList      `gorm:"type:jsonb" json:"medications"`
	RecordedAt      time.Time       `gorm:"not null;index" json:"recordedAt"`
	CreatedAt       time.Time       `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time       `gorm:"not null" json:"updatedAt"`
}

func (i *IllnessEntry) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	if i.RecordedAt.IsZero() {
		i.RecordedAt = time.Now()
	}
	if i.Severity == "" {
		i.Severity = SeverityMild
	}
	if i.Status == "" {
		i.Status = IllnessOngoing
	}
	if i.TemperatureUnit == "" {
		i.TemperatureUnit = "C"
	}
	return nil
}

// TableName specifies the table name for the IllnessEntry model
func (IllnessEntry) TableName() string {
	return "illness_entry"
}
