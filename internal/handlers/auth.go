package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"
	"unicode"

	"lifevault/internal/auth"
	"lifevault/internal/database"
	"lifevault/internal/models"
	"lifevault/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// validatePassword checks if password meets security requirements
func validatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters long")
	}

	hasLetter := false
	hasNumber := false

	for _, char := range password {
		if unicode.IsLetter(char) {
			hasLetter = true
		} else if unicode.IsNumber(char) {
			hasNumber = true
		}

		if hasLetter && hasNumber {
			return nil
		}
	}

	return fmt.Errorf("password must contain at least one letter and one number")
}

// Register handles new user registration
func Register(c *gin.Context) {
	var req models.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid input", err)
		return
	}

	// Validate password strength
	if err := validatePassword(req.Password); err != nil {
		handleError(c, http.StatusBadRequest, err.Error(), err)
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
	}
	if err := user.SetPassword(req.Password); err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create account", err)
		return
	}

	db := database.GetDB()
	if err := db.Create(&user).Error; err != nil {
		// Check for common database errors like duplicate usernames
		if strings.Contains(err.Error(), "duplicate key") {
			if strings.Contains(err.Error(), "username") {
				handleError(c, http.StatusConflict, "Username already exists", err)
			} else if strings.Contains(err.Error(), "email") {
				handleError(c, http.StatusConflict, "Email already in use", err)
			} else {
				handleError(c, http.StatusConflict, "Account creation failed: duplicate data", err)
			}
			return
		}

		handleError(c, http.StatusInternalServerError, "Failed to create account", err)
		return
	}

	// Welcome email failure shouldn't block registration
	if err := emailService.SendWelcomeEmail(&user); err != nil {
		log.Printf("Failed to send welcome email to %s: %v", user.Email, err)
	}

	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to generate token", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"status": http.StatusCreated,
		"token":  token,
		"user":   user,
	})
}

// Login handles user authentication and JWT token generation
func Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		handleError(c, http.StatusBadRequest, "Invalid login request", err)
		return
	}

	db := database.GetDB()
	var user models.User
	if err := db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		recordLoginAttempt(c, req.Username, false)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusUnauthorized, "Invalid credentials", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Login attempt failed", err)
		return
	}

	// Verify the password
	if !user.VerifyPassword(req.Password) {
		recordLoginAttempt(c, req.Username, false)
		handleError(c, http.StatusUnauthorized, "Invalid credentials",
			fmt.Errorf("password verification failed for user %s", req.Username))
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Username)
	if err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to generate token", err)
		return
	}

	// Update last login time
	db.Model(&user).Update("last_login", time.Now())
	recordLoginAttempt(c, user.Username, true)

	c.JSON(http.StatusOK, gin.H{
		"status": http.StatusOK,
		"token":  token,
		"user":   user,
	})
}

// recordLoginAttempt writes an audit row for a login attempt
func recordLoginAttempt(c *gin.Context, username string, success bool) {
	entry := models.LoginLog{
		Username:  username,
		IPAddress: utils.GetRealClientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
		Success:   success,
		CreatedAt: time.Now(),
	}
	if err := database.GetDB().Create(&entry).Error; err != nil {
		log.Printf("Failed to record login attempt for %s: %v", username, err)
	}
}

// GetCurrentUser returns the currently authenticated user
func GetCurrentUser(c *gin.Context) {
	db := database.GetDB()
	var user models.User
	if err := db.Where("id = ?", currentUserID(c)).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "User not found", err)
			return
		}
		handleError(c, http.StatusInternalServerError, "Failed to retrieve user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "user": user})
}
