package services

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// UploadedFile describes one stored object
type UploadedFile struct {
	URL      string
	PublicID string
}

type StorageService struct {
	cld *cloudinary.Cloudinary
}

func NewStorageService() (*StorageService, error) {
	// Get Cloudinary configuration from environment
	cloudName := os.Getenv("CLOUDINARY_CLOUD_NAME")
	apiKey := os.Getenv("CLOUDINARY_API_KEY")
	apiSecret := os.Getenv("CLOUDINARY_API_SECRET")

	if cloudName == "" || apiKey == "" || apiSecret == "" {
		return nil, fmt.Errorf("missing Cloudinary configuration")
	}

	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Cloudinary: %w", err)
	}

	return &StorageService{cld: cld}, nil
}

// UploadRecordFile uploads a medical record attachment. Documents and
// images are both accepted.
func (s *StorageService) UploadRecordFile(file multipart.File, filename string, recordID string) (*UploadedFile, error) {
	allowedTypes := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
		".pdf":  true,
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedTypes[ext] {
		return nil, fmt.Errorf("invalid file type: %s. Allowed types: jpg, jpeg, png, webp, pdf", ext)
	}

	publicID := fmt.Sprintf("records/%s_%s", recordID, uuid.NewString()[:8])

	uploadParams := uploader.UploadParams{
		PublicID:     publicID,
		Folder:       "lifevault/records",
		ResourceType: "auto",
	}

	result, err := s.cld.Upload.Upload(context.Background(), file, uploadParams)
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	return &UploadedFile{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

// UploadVehicleImage uploads a vehicle photo, cropped and optimized
func (s *StorageService) UploadVehicleImage(file multipart.File, filename string, vehicleID string) (*UploadedFile, error) {
	allowedTypes := map[string]bool{
		".jpg":  true,
		".jpeg": true,
		".png":  true,
		".webp": true,
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedTypes[ext] {
		return nil, fmt.Errorf("invalid file type: %s. Allowed types: jpg, jpeg, png, webp", ext)
	}

	publicID := fmt.Sprintf("vehicles/vehicle_%s", vehicleID)

	uploadParams := uploader.UploadParams{
		PublicID:       publicID,
		Folder:         "lifevault/vehicles",
		Overwrite:      &[]bool{true}[0],
		ResourceType:   "image",
		Transformation: "c_fill,h_600,w_800/q_auto,f_auto",
	}

	result, err := s.cld.Upload.Upload(context.Background(), file, uploadParams)
	if err != nil {
		return nil, fmt.Errorf("failed to upload image: %w", err)
	}

	return &UploadedFile{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

// DeleteFile deletes a stored object by its public ID
func (s *StorageService) DeleteFile(publicID string) error {
	_, err := s.cld.Upload.Destroy(context.Background(), uploader.DestroyParams{
		PublicID: publicID,
	})
	return err
}

// ValidateFile checks the uploaded file against a size cap
func (s *StorageService) ValidateFile(file multipart.File, maxSize int64) error {
	// Reset file pointer
	file.Seek(0, 0)

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read file: %w", err)
	}

	if int64(len(data)) > maxSize {
		return fmt.Errorf("file too large: %d bytes (max %d bytes)", len(data), maxSize)
	}

	// Reset file pointer for later use
	file.Seek(0, 0)

	return nil
}
