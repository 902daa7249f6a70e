package controller

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/udonggeum-variants/internal/errors"
	"github.com/ikkim/udonggeum-variants/internal/storage"
	"github.com/stretchr/testify/assert"
)

type fakePresigner struct {
	err       error
	productID uint
}

func (f *fakePresigner) PresignVariantImage(_ context.Context, productID uint, filename, _ string) (*storage.PresignedURLResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.productID = productID
	key := fmt.Sprintf("variants/%d/%s", productID, filename)
	return &storage.PresignedURLResponse{
		UploadURL: "https://upload.example.com/" + key,
		FileURL:   "https://cdn.example.com/" + key,
		Key:       key,
		ExpiresAt: time.Now().Add(15 * time.Minute),
	}, nil
}

func setupUploadTest(presigner ImagePresigner) *controllerEnv {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/admin/uploads/variant-image", NewUploadController(presigner).PresignVariantImage)
	return &controllerEnv{router: router}
}

func TestUploadController_PresignVariantImage(t *testing.T) {
	presigner := &fakePresigner{}
	env := setupUploadTest(presigner)

	w, response := env.do(t, http.MethodPost, "/admin/uploads/variant-image", map[string]interface{}{
		"product_id":   7,
		"filename":     "front.png",
		"content_type": "image/png",
	})
	mustStatus(t, w, http.StatusOK)
	assert.Equal(t, "variants/7/front.png", response["key"])
	assert.Equal(t, "https://cdn.example.com/variants/7/front.png", response["file_url"])
	assert.Equal(t, uint(7), presigner.productID)
}

func TestUploadController_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		presigner  *fakePresigner
		body       map[string]interface{}
		wantStatus int
		wantCode   string
	}{
		{
			name:       "not an image",
			presigner:  &fakePresigner{},
			body:       map[string]interface{}{"product_id": 1, "filename": "x.pdf", "content_type": "application/pdf"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.UploadInvalidFileType,
		},
		{
			name:       "missing product",
			presigner:  &fakePresigner{},
			body:       map[string]interface{}{"filename": "x.png", "content_type": "image/png"},
			wantStatus: http.StatusBadRequest,
			wantCode:   apperrors.ValidationInvalidInput,
		},
		{
			name:       "storage failure",
			presigner:  &fakePresigner{err: errors.New("no credentials")},
			body:       map[string]interface{}{"product_id": 1, "filename": "x.png", "content_type": "image/png"},
			wantStatus: http.StatusInternalServerError,
			wantCode:   apperrors.UploadFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupUploadTest(tt.presigner)
			w, response := env.do(t, http.MethodPost, "/admin/uploads/variant-image", tt.body)
			mustStatus(t, w, tt.wantStatus)
			assert.Equal(t, tt.wantCode, response["error"])
		})
	}
}
