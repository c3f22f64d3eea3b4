package handlers

import (
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"lifevault/internal/database"
	"lifevault/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	maxRecordFiles    = 5
	maxRecordFileSize = int64(10 << 20) // 10 MB per file
)

// ListMedicalRecords returns a profile's records newest first
func ListMedicalRecords(c *gin.Context) {
	profile, ok := resolveProfileForUser(c, c.Query("profileId"))
	if !ok {
		return
	}

	db := database.GetDB()
	query := db.Preload("Files").Where("profile_id = ?", profile.ID)
	if recordType := c.Query("recordType"); recordType != "" {
		query = query.Where("record_type = ?", models.NormalizeRecordType(recordType))
	}

	var records []models.MedicalRecord
	if err := query.Order("record_date DESC").Find(&records).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to load records", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "records": records})
}

// GetMedicalRecord returns one record with its files
func GetMedicalRecord(c *gin.Context) {
	record, ok := resolveRecordForUser(c, c.Param("id"))
	if !ok {
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "record": record})
}

func resolveRecordForUser(c *gin.Context, recordID string) (*models.MedicalRecord, bool) {
	db := database.GetDB()
	var record models.MedicalRecord
	if err := db.Preload("Files").
		Joins("JOIN profile ON profile.id = medical_record.profile_id").
		Where("medical_record.id = ? AND profile.user_id = ?", recordID, currentUserID(c)).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			handleError(c, http.StatusNotFound, "Record not found", err)
			return nil, false
		}
		handleError(c, http.StatusInternalServerError, "Failed to load record", err)
		return nil, false
	}
	return &record, true
}

// CreateMedicalRecord creates a record from a multipart form, uploading up
// to five attachments
func CreateMedicalRecord(c *gin.Context) {
	profile, ok := resolveProfileForUser(c, c.PostForm("profileId"))
	if !ok {
		return
	}

	title := c.PostForm("title")
	if title == "" {
		handleError(c, http.StatusBadRequest, "Title is required", errors.New("missing title"))
		return
	}

	record := models.MedicalRecord{
		ProfileID:    profile.ID,
		Title:        title,
		RecordType:   models.NormalizeRecordType(c.PostForm("recordType")),
		ProviderName: c.PostForm("providerName"),
		Notes:        c.PostForm("notes"),
		Tags:         datatypes.NewJSONSlice(parseStringArray(c.PostForm("tags"))),
	}
	if recordDate := parseDateField(c.PostForm("recordDate")); recordDate != nil {
		record.RecordDate = *recordDate
	} else {
		record.RecordDate = time.Now()
	}

	form, err := c.MultipartForm()
	if err != nil {
		handleError(c, http.StatusBadRequest, "Invalid multipart form", err)
		return
	}
	files := form.File["files"]
	if len(files) > maxRecordFiles {
		handleError(c, http.StatusBadRequest,
			fmt.Sprintf("At most %d files per record", maxRecordFiles),
			fmt.Errorf("got %d files", len(files)))
		return
	}

	db := database.GetDB()
	if err := db.Create(&record).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to create record", err)
		return
	}

	if len(files) > 0 {
		if storageService == nil {
			handleError(c, http.StatusInternalServerError, "File storage is not configured", errors.New("storage service unavailable"))
			return
		}
		for _, header := range files {
			asset, err := uploadRecordAttachment(record.ID, header)
			if err != nil {
				handleError(c, http.StatusBadRequest, err.Error(), err)
				return
			}
			if err := db.Create(asset).Error; err != nil {
				handleError(c, http.StatusInternalServerError, "Failed to save file record", err)
				return
			}
			record.Files = append(record.Files, *asset)
		}
	}

	c.JSON(http.StatusCreated, gin.H{"status": http.StatusCreated, "record": record})
}

func uploadRecordAttachment(recordID string, header *multipart.FileHeader) (*models.FileAsset, error) {
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open uploaded file: %w", err)
	}
	defer file.Close()

	if err := storageService.ValidateFile(file, maxRecordFileSize); err != nil {
		return nil, err
	}

	uploaded, err := storageService.UploadRecordFile(file, header.Filename, recordID)
	if err != nil {
		return nil, err
	}

	return &models.FileAsset{
		RecordID:     recordID,
		URL:          uploaded.URL,
		PublicID:     uploaded.PublicID,
		MimeType:     header.Header.Get("Content-Type"),
		SizeBytes:    header.Size,
		OriginalName: header.Filename,
	}, nil
}

// UpdateMedicalRecord edits a record's fields, removes the files named in
// filesToRemove and uploads any newly attached ones
func UpdateMedicalRecord(c *gin.Context) {
	record, ok := resolveRecordForUser(c, c.Param("id"))
	if !ok {
		return
	}

	if title := c.PostForm("title"); title != "" {
		record.Title = title
	}
	if recordType := c.PostForm("recordType"); recordType != "" {
		record.RecordType = models.NormalizeRecordType(recordType)
	}
	if providerName, set := c.GetPostForm("providerName"); set {
		record.ProviderName = providerName
	}
	if notes, set := c.GetPostForm("notes"); set {
		record.Notes = notes
	}
	if tags, set := c.GetPostForm("tags"); set {
		record.Tags = datatypes.NewJSONSlice(parseStringArray(tags))
	}
	if recordDate := parseDateField(c.PostForm("recordDate")); recordDate != nil {
		record.RecordDate = *recordDate
	}

	db := database.GetDB()

	// Remove files the client asked to drop
	for _, fileID := range parseStringArray(c.PostForm("filesToRemove")) {
		var asset models.FileAsset
		if err := db.Where("id = ? AND record_id = ?", fileID, record.ID).First(&asset).Error; err != nil {
			continue
		}
		if storageService != nil && asset.PublicID != "" {
			if err := storageService.DeleteFile(asset.PublicID); err != nil {
				log.Printf("Failed to delete stored file %s: %v", asset.PublicID, err)
			}
		}
		if err := db.Delete(&asset).Error; err != nil {
			handleError(c, http.StatusInternalServerError, "Failed to remove file", err)
			return
		}
	}

	// Upload any new attachments, respecting the per-record cap
	if form, err := c.MultipartForm(); err == nil {
		files := form.File["files"]
		var remaining int64
		db.Model(&models.FileAsset{}).Where("record_id = ?", record.ID).Count(&remaining)
		if int(remaining)+len(files) > maxRecordFiles {
			handleError(c, http.StatusBadRequest,
				fmt.Sprintf("At most %d files per record", maxRecordFiles),
				fmt.Errorf("record has %d files, adding %d", remaining, len(files)))
			return
		}
		if len(files) > 0 && storageService == nil {
			handleError(c, http.StatusInternalServerError, "File storage is not configured", errors.New("storage service unavailable"))
			return
		}
		for _, header := range files {
			asset, err := uploadRecordAttachment(record.ID, header)
			if err != nil {
				handleError(c, http.StatusBadRequest, err.Error(), err)
				return
			}
			if err := db.Create(asset).Error; err != nil {
				handleError(c, http.StatusInternalServerError, "Failed to save file record", err)
				return
			}
		}
	}

	if err := db.Save(record).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to update record", err)
		return
	}

	// Reload with the final file set
	db.Preload("Files").Where("id = ?", record.ID).First(record)
	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "record": record})
}

// DeleteMedicalRecord removes a record and destroys its stored files
func DeleteMedicalRecord(c *gin.Context) {
	record, ok := resolveRecordForUser(c, c.Param("id"))
	if !ok {
		return
	}

	if storageService != nil {
		for _, asset := range record.Files {
			if asset.PublicID == "" {
				continue
			}
			if err := storageService.DeleteFile(asset.PublicID); err != nil {
				log.Printf("Failed to delete stored file %s: %v", asset.PublicID, err)
			}
		}
	}

	db := database.GetDB()
	if err := db.Select("Files").Delete(record).Error; err != nil {
		handleError(c, http.StatusInternalServerError, "Failed to delete record", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": http.StatusOK, "message": "record deleted"})
}
