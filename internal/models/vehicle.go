package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Vehicle is a user-owned vehicle whose maintenance history is tracked
type Vehicle struct {
	ID                     string     `gorm:"primaryKey;size:36" json:"id"`
	UserID                 string     `gorm:"size:36;not null;index" json:"userId"`
	Make                   string     `gorm:"size:80;not null" json:"make"`
	Model                  string     `gorm:"size:80;not null" json:"model"`
	Year                   *int       `json:"year"`
	Color                  string     `gorm:"size:40" json:"color"`
	LicensePlate           string     `gorm:"size:20" json:"licensePlate"`
	RegistrationExpiryDate *time.Time `json:"registrationExpiryDate"`
	VIN                    string     `gorm:"size:40;column:vin" json:"vin"`
	VehicleType            string     `gorm:"size:20;not null;default:CAR" json:"vehicleType"`
	PurchaseDate           *time.Time `json:"purchaseDate"`
	CurrentMileage         *int       `json:"currentMileage"`
	ImageURL               string     `json:"imageUrl"`
	Notes                  string     `json:"notes"`
	CreatedAt              time.Time  `gorm:"not null;index" json:"createdAt"`
	UpdatedAt              time.Time  `gorm:"not null" json:"updatedAt"`
}

func (v *Vehicle) BeforeCreate(tx *gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.VehicleType == "" {
		v.VehicleType = "CAR"
	}
	return nil
}

// TableName specifies the table name for the Vehicle model
func (Vehicle) TableName() string {
	return "vehicle"
}

// MaintenanceRecord is one completed service entry for a vehicle
type MaintenanceRecord struct {
	ID               string                      `gorm:"primaryKey;size:36" json:"id"`
	VehicleID        string                      `gorm:"size:36;not null;index" json:"vehicleId"`
	MaintenanceType  string                      `gorm:"size:60;not null" json:"maintenanceType"`
	Title            string                      `gorm:"size:200;not null" json:"title"`
	Description      string                      `json:"description"`
	ServiceDate      time.Time                   `gorm:"not null;index" json:"serviceDate"`
	MileageAtService *int                        `json:"mileageAtService"`
	ServicedBy       string                      `gorm:"size:160" json:"servicedBy"`
	Location         string                      `gorm:"size:200" json:"location"`
	Cost             *float64                    `json:"cost"`
	Currency         string                      `gorm:"size:10;not null;default:USD" json:"currency"`
	PartsUsed        string                      `json:"partsUsed"`
	LaborHours       *float64                    `json:"laborHours"`
	ReceiptURL       string                      `json:"receiptUrl"`
	Tags             datatypes.JSONSlice[string] `json:"tags"`
	CreatedAt        time.Time                   `gorm:"not null" json:"createdAt"`
	UpdatedAt        time.Time                   `gorm:"not null" json:"updatedAt"`
}

func (m *MaintenanceRecord) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.MaintenanceType == "" {
		m.MaintenanceType = "OTHER"
	}
	return nil
}

// TableName specifies the table name for the MaintenanceRecord model
func (MaintenanceRecord) TableName() string {
	return "maintenance_record"
}

// VehicleReminder is an upcoming maintenance item, due by date or mileage
type VehicleReminder struct {
	ID              string     `gorm:"primaryKey;size:36" json:"id"`
	VehicleID       string     `gorm:"size:36;not null;index" json:"vehicleId"`
	MaintenanceType string     `gorm:"size:60;not null" json:"maintenanceType"`
	Title           string     `gorm:"size:200;not null" json:"title"`
	Description     string     `json:"description"`
	DueDate         *time.Time `gorm:"index" json:"dueDate"`
	DueMileage      *int       `json:"dueMileage"`
	NotifyInAdvance *int       `json:"notifyInAdvance"`
	Completed       bool       `gorm:"not null;default:false" json:"completed"`
	CompletedAt     *time.Time `json:"completedAt"`
	Active          bool       `gorm:"not null;default:true" json:"active"`
	CreatedAt       time.Time  `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"not null" json:"updatedAt"`
}

func (r *VehicleReminder) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// TableName specifies the table name for the VehicleReminder model
func (VehicleReminder) TableName() string {
	return "vehicle_reminder"
}

// ExpiryNoticeSent marks that an expiry email went out for a vehicle's
// current registration period, so the worker doesn't resend
type ExpiryNoticeSent struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	VehicleID  string    `gorm:"size:36;not null;index" json:"vehicleId"`
	ExpiryDate time.Time `gorm:"not null" json:"expiryDate"`
	SentAt     time.Time `gorm:"not null" json:"sentAt"`
}

// TableName specifies the table name for the ExpiryNoticeSent model
func (ExpiryNoticeSent) TableName() string {
	return "expiry_notice_sent"
}
