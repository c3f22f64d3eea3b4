package models

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RecordType classifies a medical record document
type RecordType string

const (
	RecordLabReport    RecordType = "LAB_REPORT"
	RecordPrescription RecordType = "PRESCRIPTION"
	RecordImaging      RecordType = "IMAGING"
	RecordVaccination  RecordType = "VACCINATION"
	RecordConsultation RecordType = "CONSULTATION"
	RecordOther        RecordType = "OTHER"
)

var recordTypeSeparators = regexp.MustCompile(`[\s-]+`)

// NormalizeRecordType upper-snakes a loose input and falls back to OTHER
func NormalizeRecordType(value string) RecordType {
	normalized := recordTypeSeparators.ReplaceAllString(strings.ToUpper(strings.TrimSpace(value)), "_")
	switch RecordType(normalized) {
	case RecordLabReport, RecordPrescription, RecordImaging, RecordVaccination, RecordConsultation, RecordOther:
		return RecordType(normalized)
	}
	return RecordOther
}

// MedicalRecord is a dated health document with optional file attachments
type MedicalRecord struct {
	ID           string                      `gorm:"primaryKey;size:36" json:"id"`
	ProfileID    string                      `gorm:"size:36;not null;index" json:"profileId"`
	Title        string                      `gorm:"size:200;not null" json:"title"`
	RecordType   RecordType                  `gorm:"size:30;not null" json:"recordType"`
	RecordDate   time.Time                   `gorm:"not null;index" json:"recordDate"`
	ProviderName string                      `gorm:"size:160" json:"providerName"`
	Notes        string                      `json:"notes"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	Files        []FileAsset                 `gorm:"foreignKey:RecordID;constraint:OnDelete:CASCADE" json:"files"`
	CreatedAt    time.Time                   `gorm:"not null" json:"createdAt"`
	UpdatedAt    time.Time                   `gorm:"not null" json:"updatedAt"`
}

func (m *MedicalRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.RecordType == "" {
		m.RecordType = RecordOther
	}
	return nil
}

// TableName specifies the table name for the MedicalRecord model
func (MedicalRecord) TableName() string {
	return "medical_record"
}

// FileAsset is one uploaded attachment belonging to a medical record.
// PublicID identifies the object at the storage provider for deletion.
type FileAsset struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	RecordID     string    `gorm:"size:36;not null;index" json:"recordId"`
	URL          string    `gorm:"not null" json:"url"`
	PublicID     string    `gorm:"size:255" json:"-"`
	MimeType     string    `gorm:"size:120" json:"mimeType"`
	SizeBytes    int64     `json:"sizeBytes"`
	OriginalName string    `gorm:"size:255" json:"originalName"`
	CreatedAt    time.Time `gorm:"not null" json:"createdAt"`
}

func (f *FileAsset) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the FileAsset model
func (FileAsset) TableName() string {
	return "file_asset"
}
