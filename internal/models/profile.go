package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Profile is a health record subject owned by one user (self or family member)
type Profile struct {
	ID                string          `gorm:"primaryKey;size:36" json:"id"`
	UserID            string          `gorm:"size:36;not null;index" json:"userId"`
	DisplayName       string          `gorm:"size:120;not null" json:"displayName"`
	RelationToUser    string          `gorm:"size:60" json:"relationToUser"`
	DateOfBirth       *time.Time      `json:"dateOfBirth"`
	Gender            string          `gorm:"size:20" json:"gender"`
	BloodGroup        string          `gorm:"size:10" json:"bloodGroup"`
	Allergies         string          `json:"allergies"`
	ChronicConditions string          `json:"chronicConditions"`
	Records           []MedicalRecord `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"records"`
	Vitals            []VitalEntry    `gorm:"foreignKey:ProfileID;constraint:OnDelete:CASCADE" json:"vitals"`
	CreatedAt         time.Time       `gorm:"not null" json:"createdAt"`
	UpdatedAt         time.Time       `gorm:"not null" json:"updatedAt"`
}

func (p *Profile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the Profile model
func (Profile) TableName() string {
	return "profile"
}

// CreateProfileRequest represents the data needed to add a family member
type CreateProfileRequest struct {
	DisplayName       string `json:"displayName" binding:"required"`
	RelationToUser    string `json:"relationToUser"`
	DateOfBirth       string `json:"dateOfBirth"`
	Gender            string `json:"gender"`
	BloodGroup        string `json:"bloodGroup"`
	Allergies         string `json:"allergies"`
	ChronicConditions string `json:"chronicConditions"`
}
