package handlers

import (
	"errors"
	"net/http"

	"lifevault/internal/database"
	"lifevault/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListProfiles returns every profile owned by the caller
func ListProfiles(c *gin.Context) {
	db := database.GetDB()
	var profiles []models.Profile
	if err := db.Where("user_id = ?", currentUserID(c)).
		Order("created_at ASC").
		Find(&profiles).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load profiles", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "profiles": profiles})
}

// GetProfile returns one profile with its records and vitals preloaded
func GetProfile(c *gin.Context) {
	db := database.GetDB()
	var profile models.Profile
	if err := db.Preload("Records.Files").Preload("Vitals").
		Where("id = ? AND user_id = ?", c.Param("id"), currentUserID(c)).
		First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Profile not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to load profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "profile": profile})
}

// CreateProfile adds a family member profile for the caller
func CreateProfile(c *gin.Context) {
	var req models.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	profile := models.Profile{
		UserID:            currentUserID(c),
		DisplayName:       req.DisplayName,
		RelationToUser:    req.RelationToUser,
		DateOfBirth:       parseDateField(req.DateOfBirth),
		Gender:            req.Gender,
		BloodGroup:        req.BloodGroup,
		Allergies:         req.Allergies,
		ChronicConditions: req.ChronicConditions,
	}

	db := database.GetDB()
	if err := db.Create(&profile).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create profile", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "profile": profile})
}

// UpdateProfile edits a profile the caller owns
func UpdateProfile(c *gin.Context) {
	profile, ok := resolveProfileForUser(c, c.Param("id"))
	if !ok {
		return
	}

	var req models.CreateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	profile.DisplayName = req.DisplayName
	profile.RelationToUser = req.RelationToUser
	profile.DateOfBirth = parseDateField(req.DateOfBirth)
	profile.Gender = req.Gender
	profile.BloodGroup = req.BloodGroup
	profile.Allergies = req.Allergies
	profile.ChronicConditions = req.ChronicConditions

	db := database.GetDB()
	if err := db.Save(profile).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "profile": profile})
}

// DeleteProfile removes a profile and its dependent rows
func DeleteProfile(c *gin.Context) {
	profile, ok := resolveProfileForUser(c, c.Param("id"))
	if !ok {
		return
	}

	db := database.GetDB()
	if err := db.Delete(profile).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete profile", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "profile deleted"})
}
