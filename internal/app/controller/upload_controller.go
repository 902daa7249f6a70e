package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/udonggeum-variants/internal/errors"
	"github.com/ikkim/udonggeum-variants/internal/middleware"
	"github.com/ikkim/udonggeum-variants/internal/storage"
)

// ImagePresigner issues upload URLs for variant images. storage.S3Storage
// implements it.
type ImagePresigner interface {
	PresignVariantImage(ctx context.Context, productID uint, filename, contentType string) (*storage.PresignedURLResponse, error)
}

type UploadController struct {
	storage ImagePresigner
}

func NewUploadController(storage ImagePresigner) *UploadController {
	return &UploadController{
		storage: storage,
	}
}

type VariantImageRequest struct {
	ProductID   uint   `json:"product_id" binding:"required"`
	Filename    string `json:"filename" binding:"required"`
	ContentType string `json:"content_type" binding:"required"`
}

// PresignVariantImage generates a presigned URL for uploading a variant image (Admin only)
// POST /api/v1/admin/uploads/variant-image
func (ctrl *UploadController) PresignVariantImage(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req VariantImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := storage.ValidateContentType(req.ContentType, storage.ImageContentTypes); err != nil {
		log.Warn("Invalid content type", map[string]interface{}{
			"content_type": req.ContentType,
		})
		apperrors.BadRequest(c, apperrors.UploadInvalidFileType, "Only image files are allowed (JPEG, PNG, GIF, WEBP)")
		return
	}

	response, err := ctrl.storage.PresignVariantImage(c.Request.Context(), req.ProductID, req.Filename, req.ContentType)
	if err != nil {
		log.Error("Failed to generate presigned URL", err, map[string]interface{}{
			"product_id":   req.ProductID,
			"filename":     req.Filename,
			"content_type": req.ContentType,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, apperrors.UploadFailed, "Failed to generate presigned URL")
		return
	}

	log.Info("Presigned URL generated successfully", map[string]interface{}{
		"product_id": req.ProductID,
		"key":        response.Key,
	})

	c.JSON(http.StatusOK, response)
}
