package handlers

import (
	"encoding/json"
	"errors"
	"lifevault/internal/database"
	"lifevault/internal/models"
	"lifevault/internal/services"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	adherenceService *services.AdherenceService
	budgetService    *services.BudgetService
	storageService   *services.StorageService
	emailService     *services.EmailService
)

// InitServices wires the shared service instances. Storage is optional so
// local development works without Cloudinary credentials.
func InitServices() {
	db := database.GetDB()
	adherenceService = services.NewAdherenceService(db, services.SystemClock())
	budgetService = services.NewBudgetService(db)
	emailService = services.NewEmailService()

	storage, err := services.NewStorageService()
	if err != nil {
		log.Printf("File storage disabled: %v", err)
	} else {
		storageService = storage
	}
}

// handleError provides a consistent way to handle and log errors
func handleError(c *gin.Context, status int, message string, err error) {
	log.Printf("Error: %v", err)
	c.JSON(status, gin.H{"status": status, "message": message})
}

// HomeHandler handles requests to the root path "/"
func HomeHandler(c *gin.Context) {
	c.String(http.StatusOK, "Welcome to LifeVault!")
}

// HealthHandler is a simple health check endpoint
func HealthHandler(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

// currentUserID returns the authenticated caller's id from the context
func currentUserID(c *gin.Context) string {
	return c.GetString("user_id")
}

// resolveProfileForUser loads a profile and verifies the caller owns it
func resolveProfileForUser(c *gin.Context, profileID string) (*models.Profile, bool) {
	if profileID == "" {
		handleError(c, http.StatusBadRequest, "profileId is required", errors.New("missing profileId"))
		return nil, false
	}

	db := database.GetDB()
	var profile models.Profile
	if err := db.Where("id = ? AND user_id = ?", profileID, currentUserID(c)).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Profile not found", err)
			return nil, false
		}
		handleError(c, http.StatusInternalServerError, "Failed to load profile", err)
		return nil, false
	}

	return &profile, true
}

// parseReferenceDate parses an ISO-8601 date or date-time query value.
// Malformed or absent input falls back to now rather than erroring.
func parseReferenceDate(value string, now time.Time) time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return now
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.ParseInLocation(layout, trimmed, now.Location()); err == nil {
			return parsed
		}
	}
	return now
}

// parseDateField parses an optional request date field, returning nil when
// blank or unparseable
func parseDateField(value string) *time.Time {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if parsed, err := time.Parse(layout, trimmed); err == nil {
			return &parsed
		}
	}
	return nil
}

// parseStringArray accepts either a JSON array or a comma-separated form
// value and returns trimmed, non-empty entries
func parseStringArray(value string) []string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var decoded []string
		if err := json.Unmarshal([]byte(trimmed), &decoded); err == nil {
			out := make([]string, 0, len(decoded))
			for _, entry := range decoded {
				if entry = strings.TrimSpace(entry); entry != "" {
					out = append(out, entry)
				}
			}
			return out
		}
	}
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
