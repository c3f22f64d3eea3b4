package services

import (
	"lifevault/internal/database"
	"lifevault/internal/models"
	"log"
	"time"

	"gorm.io/gorm"
)

// ExpiryWorker periodically scans vehicles whose registration is about to
// lapse and emails the owner once per registration period
type ExpiryWorker struct {
	db           *gorm.DB
	emailService *EmailService
	interval     time.Duration
	leadTime     time.Duration
}

func NewExpiryWorker() *ExpiryWorker {
	return &ExpiryWorker{
		db:           database.GetDB(),
		emailService: NewEmailService(),
		interval:     time.Hour * 12,      // Check twice a day
		leadTime:     time.Hour * 24 * 30, // Warn 30 days ahead
	}
}

func (w *ExpiryWorker) Start() {
	go w.run()
}

func (w *ExpiryWorker) run() {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for range ticker.C {
		w.checkExpiringRegistrations()
	}
}

// Check if a notice already went out for this vehicle's current expiry date
func (w *ExpiryWorker) hasNoticeBeenSent(vehicleID string, expiryDate time.Time) bool {
	var count int64
	w.db.Model(&models.ExpiryNoticeSent{}).
		Where("vehicle_id = ? AND expiry_date = ?", vehicleID, expiryDate).
		Count(&count)
	return count > 0
}

func (w *ExpiryWorker) recordNotice(vehicleID string, expiryDate time.Time) {
	notice := models.ExpiryNoticeSent{
		VehicleID:  vehicleID,
		ExpiryDate: expiryDate,
		SentAt:     time.Now(),
	}
	w.db.Create(&notice)
}

func (w *ExpiryWorker) checkExpiringRegistrations() {
	now := time.Now()
	cutoff := now.Add(w.leadTime)

	var vehicles []models.Vehicle
	w.db.Where("registration_expiry_date IS NOT NULL AND registration_expiry_date > ? AND registration_expiry_date <= ?", now, cutoff).
		Find(&vehicles)

	for _, vehicle := range vehicles {
		expiry := *vehicle.RegistrationExpiryDate
		if w.hasNoticeBeenSent(vehicle.ID, expiry) {
			continue
		}

		var owner models.User
		if err := w.db.Where("id = ?", vehicle.UserID).First(&owner).Error; err != nil {
			log.Printf("Failed to load owner for vehicle %s: %v", vehicle.ID, err)
			continue
		}

		if err := w.emailService.SendRegistrationExpiryEmail(&owner, &vehicle); err != nil {
			log.Printf("Failed to send expiry notice for vehicle %s: %v", vehicle.ID, err)
			continue
		}

		w.recordNotice(vehicle.ID, expiry)
		log.Printf("Sent registration expiry notice for vehicle %s (expires %s)", vehicle.ID, expiry.Format("2006-01-02"))
	}
}
