package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// LogStatus is the adherence state recorded for one scheduled intake
type LogStatus string

const (
	LogTaken  LogStatus = "taken"
	LogMissed LogStatus = "missed"
	// LogPending is accepted on the status-set endpoint but never stored;
	// it clears the matching log instead.
	LogPending LogStatus = "pending"
)

// Medication is a prescribed course tied to a profile, paired 1:1 with a
// MedicineReminder that defines its schedule
type Medication struct {
	ID           string          `gorm:"primaryKey;size:36" json:"id"`
	ProfileID    string          `gorm:"size:36;not null;index" json:"profileId"`
	Name         string          `gorm:"size:160;not null" json:"name"`
	Dosage       string          `gorm:"size:80" json:"dosage"`
	Instructions string          `json:"instructions"`
	StartDate    *time.Time      `json:"startDate"`
	Logs         []MedicationLog `gorm:"foreignKey:MedicationID;constraint:OnDelete:CASCADE" json:"logs,omitempty"`
	CreatedAt    time.Time       `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time       `gorm:"not null" json:"updatedAt"`
}

func (m *Medication) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the Medication model
func (Medication) TableName() string {
	return "medication"
}

// MedicineReminder is the recurring schedule definition for a medication.
// Times holds the full ordered schedule; the singular Time column is legacy
// and always mirrors the first element.
type MedicineReminder struct {
	ID           string      `gorm:"primaryKey;size:36" json:"id"`
	ProfileID    string      `gorm:"size:36;not null;index" json:"profileId"`
	MedicationID *string     `gorm:"size:36;index" json:"medicationId"`
	Medication   *Medication `gorm:"foreignKey:MedicationID" json:"medication,omitempty"`
	MedicineName string      `gorm:"size:160;not null" json:"medicineName"`
	Unit         string      `gorm:"size:40" json:"unit"`
	Dosage       float64     `gorm:"not null;default:1" json:"dosage"`
	Frequency    string      `gorm:"size:60;not null" json:"frequency"`
	Time         *string     `gorm:"size:5" json:"time"`
	Times        StringList  `gorm:"type:jsonb" json:"times"`
	Duration     string      `gorm:"size:60" json:"duration"`
	IntakeMethod string      `gorm:"size:60" json:"intakeMethod"`
	Notes        string      `json:"notes"`
	Active       bool        `gorm:"not null;default:true" json:"active"`
	CreatedAt    time.Time   `gorm:"not null;index" json:"createdAt"`
	UpdatedAt    time.Time   `gorm:"not null" json:"updatedAt"`
}

func (r *MedicineReminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the MedicineReminder model
func (MedicineReminder) TableName() string {
	return "medicine_reminder"
}

// ScheduledTimes returns the reminder's normalized schedule, falling back to
// the legacy singular column when the list is empty
func (r *MedicineReminder) ScheduledTimes() []string {
	if len(r.Times) > 0 {
		return r.Times
	}
	if r.Time != nil && *r.Time != "" {
		return []string{*r.Time}
	}
	return nil
}

// MedicationLog is one adherence event. The composite unique index guards
// against concurrent backfills double-inserting the same slot.
type MedicationLog struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	MedicationID string    `gorm:"size:36;not null;uniqueIndex:idx_medication_log_slot" json:"medicationId"`
	OccurredAt   time.Time `gorm:"not null;uniqueIndex:idx_medication_log_slot" json:"occurredAt"`
	Status       LogStatus `gorm:"size:10;not null" json:"status"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
}

func (l *MedicationLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the MedicationLog model
func (MedicationLog) TableName() string {
	return "medication_log"
}
