package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rkarim/cartify-backend/internal/errors"
	"github.com/rkarim/cartify-backend/internal/middleware"
	"github.com/rkarim/cartify-backend/internal/storage"
	"github.com/rkarim/cartify-backend/internal/validation"
)

type UploadController struct {
	storage *storage.S3Storage
}

func NewUploadController(storage *storage.S3Storage) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

// maxUploadSize caps a single image upload at 10 MB.
const maxUploadSize = 10 << 20

type GeneratePresignedURLRequest struct {
	Filename    string `json:"filename" validate:"required"`
	ContentType string `json:"content_type" validate:"required"`
	FileSize    int64  `json:"file_size" validate:"required,gt=0"`
	Folder      string `json:"folder"` // Optional: defaults to "products"
}

// GeneratePresignedURL generates a presigned URL for uploading product
// images to S3
// POST /api/uploads/presigned-url
func (ctrl *UploadController) GeneratePresignedURL(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req GeneratePresignedURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warn("Invalid presigned URL request body", map[string]interface{}{
			"error": err.Error(),
		})
		errors.BadRequest(c, errors.ValidationInvalidInput, "Invalid request body")
		return
	}

	if fieldErrors := validation.Validate(req); fieldErrors != nil {
		log.Warn("Presigned URL validation failed", map[string]interface{}{
			"error_count": len(fieldErrors),
		})
		errors.RespondWithValidationErrors(c, fieldErrors)
		return
	}

	// Only images can be uploaded
	allowedTypes := []string{
		"image/jpeg",
		"image/jpg",
		"image/png",
		"image/gif",
		"image/webp",
	}
	if err := ctrl.storage.ValidateContentType(req.ContentType, allowedTypes); err != nil {
		log.Warn("Invalid content type for upload", map[string]interface{}{
			"content_type": req.ContentType,
		})
		errors.BadRequest(c, errors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	if err := ctrl.storage.ValidateFileSize(req.FileSize, maxUploadSize); err != nil {
		log.Warn("Upload exceeds size limit", map[string]interface{}{
			"filename":  req.Filename,
			"file_size": req.FileSize,
		})
		errors.BadRequest(c, errors.UploadFileTooLarge, "File exceeds the 10 MB upload limit")
		return
	}

	folder := req.Folder
	if folder == "" {
		folder = "products"
	}

	response, err := ctrl.storage.GeneratePresignedURL(req.Filename, req.ContentType, folder)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"filename":     req.Filename,
			"content_type": req.ContentType,
			"folder":       folder,
		})
		errors.InternalError(c, "Failed to generate upload URL", err)
		return
	}

	log.Info("Presigned URL generated", map[string]interface{}{
		"filename": req.Filename,
		"folder":   folder,
		"key":      response.Key,
	})

	c.JSON(http.StatusOK, gin.H{
		"upload_url": response.UploadURL,
		"file_url":   response.FileURL,
		"key":        response.Key,
	})
}
