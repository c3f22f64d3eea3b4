package handlers

import (
	"errors"
	"net/http"
	"time"

	"lifevault/internal/database"
	"lifevault/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const maxVehicleImageSize = int64(5 << 20) // 5 MB

// VehicleRequest carries a vehicle create or update
type VehicleRequest struct {
	Make                   string `json:"make" binding:"required"`
	Model                  string `json:"model" binding:"required"`
	Year                   *int   `json:"year"`
	Color                  string `json:"color"`
	LicensePlate           string `json:"licensePlate"`
	RegistrationExpiryDate string `json:"registrationExpiryDate"`
	VIN                    string `json:"vin"`
	VehicleType            string `json:"vehicleType"`
	PurchaseDate           string `json:"purchaseDate"`
	CurrentMileage         *int   `json:"currentMileage"`
	Notes                  string `json:"notes"`
}

// MaintenanceRecordRequest carries one service entry
type MaintenanceRecordRequest struct {
	MaintenanceType  string   `json:"maintenanceType"`
	Title            string   `json:"title" binding:"required"`
	Description      string   `json:"description"`
	ServiceDate      string   `json:"serviceDate"`
	MileageAtService *int     `json:"mileageAtService"`
	ServicedBy       string   `json:"servicedBy"`
	Location         string   `json:"location"`
	Cost             *float64 `json:"cost"`
	Currency         string   `json:"currency"`
	PartsUsed        string   `json:"partsUsed"`
	LaborHours       *float64 `json:"laborHours"`
	ReceiptURL       string   `json:"receiptUrl"`
	Tags             []string `json:"tags"`
}

// VehicleReminderRequest carries one upcoming maintenance item
type VehicleReminderRequest struct {
	MaintenanceType string `json:"maintenanceType"`
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	DueDate         string `json:"dueDate"`
	DueMileage      *int   `json:"dueMileage"`
	NotifyInAdvance *int   `json:"notifyInAdvance"`
}

// resolveVehicleForUser loads a vehicle and verifies the caller owns it
func resolveVehicleForUser(c *gin.Context, vehicleID string) (*models.Vehicle, bool) {
	db := database.GetDB()
	var vehicle models.Vehicle
	if err := db.Where("id = ? AND user_id = ?", vehicleID, currentUserID(c)).First(&vehicle).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Vehicle not found", err)
			return nil, false
		}
		handleError(c, http.StatusInternalServerError, "Failed to load vehicle", err)
		return nil, false
	}
	return &vehicle, true
}

// ListVehicles returns the caller's vehicles
func ListVehicles(c *gin.Context) {
	db := database.GetDB()
	var vehicles []models.Vehicle
	if err := db.Where("user_id = ?", currentUserID(c)).
		Order("created_at ASC").
		Find(&vehicles).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load vehicles", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "vehicles": vehicles})
}

// GetVehicle returns one vehicle
func GetVehicle(c *gin.Context) {
	vehicle, ok := resolveVehicleForUser(c, c.Param("id"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "vehicle": vehicle})
}

func applyVehicleRequest(vehicle *models.Vehicle, req *VehicleRequest) {
	vehicle.Make = req.Make
	vehicle.Model = req.Model
	vehicle.Year = req.Year
	vehicle.Color = req.Color
	vehicle.LicensePlate = req.LicensePlate
	vehicle.RegistrationExpiryDate = parseDateField(req.RegistrationExpiryDate)
	vehicle.VIN = req.VIN
	vehicle.PurchaseDate = parseDateField(req.PurchaseDate)
	vehicle.CurrentMileage = req.CurrentMileage
	vehicle.Notes = req.Notes
	if req.VehicleType != "" {
		vehicle.VehicleType = req.VehicleType
	}
}

// CreateVehicle registers a vehicle for the caller
func CreateVehicle(c *gin.Context) {
	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	vehicle := models.Vehicle{UserID: currentUserID(c)}
	applyVehicleRequest(&vehicle, &req)

	db := database.GetDB()
	if err := db.Create(&vehicle).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create vehicle", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "vehicle": vehicle})
}

// UpdateVehicle edits a vehicle the caller owns
func UpdateVehicle(c *gin.Context) {
	vehicle, ok := resolveVehicleForUser(c, c.Param("id"))
	if !ok {
		return
	}

	var req VehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	applyVehicleRequest(vehicle, &req)

	db := database.GetDB()
	if err := db.Save(vehicle).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update vehicle", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "vehicle": vehicle})
}

// DeleteVehicle removes a vehicle and its maintenance history
func DeleteVehicle(c *gin.Context) {
	vehicle, ok := resolveVehicleForUser(c, c.Param("id"))
	if !ok {
		return
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("vehicle_id = ?", vehicle.ID).Delete(&models.MaintenanceRecord{}).Error; err != nil {
			return err
		}
		if err := tx.Where("vehicle_id = ?", vehicle.ID).Delete(&models.VehicleReminder{}).Error; err != nil {
			return err
		}
		return tx.Delete(vehicle).Error
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete vehicle", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "vehicle deleted"})
}

// UploadVehicleImage stores a photo for a vehicle
func UploadVehicleImage(c *gin.Context) {
	vehicle, ok := resolveVehicleForUser(c, c.Param("id"))
	if !ok {
		return
	}

	if storageService == nil {
		handleError(c, http.StatusInternalServerError, "File storage is not configured", errors.New("storage service unavailable"))
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		handleError(c, http.StatusBadRequest, "An image file is required", err)
		return
	}

	file, err := header.Open()
	if err != nil {
		handleError(c, http.StatusBadRequest, "Failed to open uploaded file", err)
		return
	}
	defer file.Close()

	if err := storageService.ValidateFile(file, maxVehicleImageSize); err != nil {
		handleError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	uploaded, err := storageService.UploadVehicleImage(file, header.Filename, vehicle.ID)
	if err != nil {
		handleError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	vehicle.ImageURL = uploaded.URL
	db := database.GetDB()
	if err := db.Model(vehicle).Update("image_url", uploaded.URL).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to save image URL", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "vehicle": vehicle})
}

// ListMaintenanceRecords returns a vehicle's service history newest first
func ListMaintenanceRecords(c *gin.Context) {
	vehicle, ok := resolveVehicleForUser(c, c.Param("id"))
	if !ok {
		return
	}

	db := database.GetDB()
	query := db.Where("vehicle_id = ?", vehicle.ID)
	if q := c.Query("q"); q != "" {
		pattern := "%" + q + "%"
		query = query.Where("title ILIKE ? OR description ILIKE ? OR maintenance_type ILIKE ?", pattern, pattern, pattern)
	}

	var records []models.MaintenanceRecord
	if err := query.Order("service_date DESC").
		Find(&records).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load maintenance records", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "maintenanceRecords": records})
}

// CreateMaintenanceRecord adds a service entry to a vehicle
func CreateMaintenanceRecord(c *gin.Context) {
	vehicle, ok := resolveVehicleForUser(c, c.Param("id"))
	if !ok {
		return
	}

	var req MaintenanceRecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	record := models.MaintenanceRecord{
		VehicleID:        vehicle.ID,
		MaintenanceType:  req.MaintenanceType,
		Title:            req.Title,
		Description:      req.Description,
		MileageAtService: req.MileageAtService,
		ServicedBy:       req.ServicedBy,
		Location:         req.Location,
		Cost:             req.Cost,
		PartsUsed:        req.PartsUsed,
		LaborHours:       req.LaborHours,
		ReceiptURL:       req.ReceiptURL,
		Tags:             datatypes.NewJSONSlice(req.Tags),
	}
	if req.Currency != "" {
		record.Currency = req.Currency
	}
	if serviceDate := parseDateField(req.ServiceDate); serviceDate != nil {
		record.ServiceDate = *serviceDate
	} else {
		record.ServiceDate = time.Now()
	}

	db := database.GetDB()
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		// A service visit with a higher odometer reading bumps the vehicle
		if record.MileageAtService != nil &&
			(vehicle.CurrentMileage == nil || *record.MileageAtService > *vehicle.CurrentMileage) {
			return tx.Model(vehicle).Update("current_mileage", *record.MileageAtService).Error
		}
		return nil
	})
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create maintenance record", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "maintenanceRecord": record})
}

// GetMaintenanceRecord returns one service entry
func GetMaintenanceRecord(c *gin.Context) {
	vehicle, ok := resolveVehicleForUser(c, c.Param("id"))
	if !ok {
		return
	}

	db := database.GetDB()
	var record models.MaintenanceRecord
	if err := db.Where("id = ? AND vehicle_id = ?", c.Param("recordId"), vehicle.ID).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Maintenance record not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to load maintenance record", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "maintenanceRecord": record})
}

// DeleteMaintenanceRecord removes one service entry
func DeleteMaintenanceRecord(c *gin.Context) {
	vehicle, ok := resolveVehicleForUser(c, c.Param("id"))
	if !ok {
		return
	}

	db := database.GetDB()
	result := db.Where("id = ? AND vehicle_id = ?", c.Param("recordId"), vehicle.ID).
		Delete(&models.MaintenanceRecord{})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete maintenance record", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		handleError(c, http.StatusNotFound, "Maintenance record not found", gorm.ErrRecordNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "maintenance record deleted"})
}

// ListVehicleReminders returns a vehicle's upcoming maintenance items
func ListVehicleReminders(c *gin.Context) {
	vehicle, ok := resolveVehicleForUser(c, c.Param("id"))
	if !ok {
		return
	}

	db := database.GetDB()
	var reminders []models.VehicleReminder
	if err := db.Where("vehicle_id = ? AND active = ?", vehicle.ID, true).
		Order("due_date ASC").
		Find(&reminders).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load vehicle reminders", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "reminders": reminders})
}

// CreateVehicleReminder adds an upcoming maintenance item
func CreateVehicleReminder(c *gin.Context) {
	vehicle, ok := resolveVehicleForUser(c, c.Param("id"))
	if !ok {
		return
	}

	var req VehicleReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	reminder := models.VehicleReminder{
		VehicleID:       vehicle.ID,
		MaintenanceType: req.MaintenanceType,
		Title:           req.Title,
		Description:     req.Description,
		DueDate:         parseDateField(req.DueDate),
		DueMileage:      req.DueMileage,
		NotifyInAdvance: req.NotifyInAdvance,
		Active:          true,
	}
	if reminder.MaintenanceType == "" {
		reminder.MaintenanceType = "OTHER"
	}

	db := database.GetDB()
	if err := db.Create(&reminder).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create vehicle reminder", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "reminder": reminder})
}

// UpdateVehicleReminder edits an upcoming maintenance item, including
// toggling its completed state
func UpdateVehicleReminder(c *gin.Context) {
	vehicle, ok := resolveVehicleForUser(c, c.Param("id"))
	if !ok {
		return
	}

	db := database.GetDB()
	var reminder models.VehicleReminder
	if err := db.Where("id = ? AND vehicle_id = ?", c.Param("reminderId"), vehicle.ID).
		First(&reminder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Vehicle reminder not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to load vehicle reminder", err)
		return
	}

	var req struct {
		VehicleReminderRequest
		Completed *bool `json:"completed"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	reminder.Title = req.Title
	reminder.Description = req.Description
	reminder.DueDate = parseDateField(req.DueDate)
	reminder.DueMileage = req.DueMileage
	reminder.NotifyInAdvance = req.NotifyInAdvance
	if req.MaintenanceType != "" {
		reminder.MaintenanceType = req.MaintenanceType
	}
	if req.Completed != nil {
		reminder.Completed = *req.Completed
		if *req.Completed {
			now := time.Now()
			reminder.CompletedAt = &now
			reminder.Active = false
		} else {
			reminder.CompletedAt = nil
			reminder.Active = true
		}
	}

	if err := db.Save(&reminder).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update vehicle reminder", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "reminder": reminder})
}

// CompleteVehicleReminder marks a maintenance item done
func CompleteVehicleReminder(c *gin.Context) {
	vehicle, ok := resolveVehicleForUser(c, c.Param("id"))
	if !ok {
		return
	}

	db := database.GetDB()
	var reminder models.VehicleReminder
	if err := db.Where("id = ? AND vehicle_id = ?", c.Param("reminderId"), vehicle.ID).
		First(&reminder).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Vehicle reminder not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to load vehicle reminder", err)
		return
	}

	now := time.Now()
	reminder.Completed = true
	reminder.CompletedAt = &now
	reminder.Active = false
	if err := db.Save(&reminder).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to complete vehicle reminder", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "reminder": reminder})
}

// DeleteVehicleReminder removes an upcoming maintenance item
func DeleteVehicleReminder(c *gin.Context) {
	vehicle, ok := resolveVehicleForUser(c, c.Param("id"))
	if !ok {
		return
	}

	db := database.GetDB()
	result := db.Where("id = ? AND vehicle_id = ?", c.Param("reminderId"), vehicle.ID).
		Delete(&models.VehicleReminder{})
	if result.Error != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete vehicle reminder", result.Error)
		return
	}
	if result.RowsAffected == 0 {
		handleError(c, http.StatusNotFound, "Vehicle reminder not found", gorm.ErrRecordNotFound)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "vehicle reminder deleted"})
}
