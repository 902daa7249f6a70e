package controller

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/udonggeum-variants/internal/app/service"
	apperrors "github.com/ikkim/udonggeum-variants/internal/errors"
	"github.com/ikkim/udonggeum-variants/internal/middleware"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type VariantController struct {
	variantService  service.VariantService
	selectorService service.SelectorService
}

func NewVariantController(variantService service.VariantService, selectorService service.SelectorService) *VariantController {
	return &VariantController{
		variantService:  variantService,
		selectorService: selectorService,
	}
}

// CreateProductRequest 상품 + 변형 일괄 등록 요청
type CreateProductRequest struct {
	service.CreateProductInput
	Variants []service.CreateVariantInput `json:"variants"`
}

type ResolveRequest struct {
	Selection map[string]uint `json:"selection"`
}

// CreateProduct creates a product together with its variants (Admin only)
// POST /api/v1/admin/products
func (ctrl *VariantController) CreateProduct(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := ctrl.variantService.CreateProductWithVariants(req.CreateProductInput, req.Variants)
	if err != nil {
		if errors.Is(err, service.ErrNoVariantsCreated) && result != nil {
			log.Warn("Bulk product creation rejected", map[string]interface{}{
				"name":     req.Name,
				"failures": len(result.Failures),
			})
			c.JSON(http.StatusBadRequest, gin.H{
				"error":    apperrors.VariantInvalidInput,
				"message":  err.Error(),
				"failures": result.Failures,
			})
			return
		}
		respondServiceError(c, err, "create product")
		return
	}

	log.Info("Product created with variants", map[string]interface{}{
		"product_id": result.Product.ID,
		"created":    len(result.Variants),
		"failed":     len(result.Failures),
	})

	product := result.Product
	product.Variants = result.Variants
	c.JSON(http.StatusCreated, gin.H{
		"product":  product,
		"failures": result.Failures,
	})
}

// ListVariants returns every variant of a product (Admin only)
// GET /api/v1/admin/products/:id/variants
func (ctrl *VariantController) ListVariants(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	variants, err := ctrl.variantService.ListVariants(productID, c.Query("active_only") == "true")
	if err != nil {
		respondServiceError(c, err, "list product variants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variants": variants,
		"count":    len(variants),
	})
}

// ListActiveVariants returns sellable variants and the option matrix
// GET /api/v1/products/:id/variants
func (ctrl *VariantController) ListActiveVariants(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	variants, err := ctrl.variantService.ListVariants(productID, true)
	if err != nil {
		respondServiceError(c, err, "list product variants")
		return
	}

	options, err := ctrl.selectorService.Resolve(productID, nil)
	if err != nil {
		respondServiceError(c, err, "list product variants")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"variants":   variants,
		"attributes": options.Attributes,
		"count":      len(variants),
	})
}

// CreateVariant adds one variant to a product (Admin only)
// POST /api/v1/admin/products/:id/variants
func (ctrl *VariantController) CreateVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.CreateVariantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	variant, err := ctrl.variantService.CreateVariant(productID, req)
	if err != nil {
		respondServiceError(c, err, "create variant")
		return
	}

	log.Info("Variant created successfully", map[string]interface{}{
		"product_id": productID,
		"variant_id": variant.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"variant": variant,
	})
}

// GenerateVariants previews or persists the Cartesian product of a selection (Admin only)
// POST /api/v1/admin/products/:id/variants/generate
func (ctrl *VariantController) GenerateVariants(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.GenerateVariantsInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := ctrl.variantService.GenerateVariants(productID, req)
	if err != nil {
		respondServiceError(c, err, "generate variants")
		return
	}

	status := http.StatusOK
	if req.Persist {
		status = http.StatusCreated
	}
	c.JSON(status, result)
}

// ExportVariants downloads the product's variants as xlsx (Admin only)
// GET /api/v1/admin/products/:id/variants/export
func (ctrl *VariantController) ExportVariants(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	data, err := ctrl.variantService.ExportVariants(productID)
	if err != nil {
		respondServiceError(c, err, "export variants")
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="product-%d-variants.xlsx"`, productID))
	c.Data(http.StatusOK, xlsxContentType, data)
}

// UpdateVariant applies a partial update (Admin only)
// PATCH /api/v1/admin/variants/:id
func (ctrl *VariantController) UpdateVariant(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req service.UpdateVariantInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	variant, err := ctrl.variantService.UpdateVariant(id, req)
	if err != nil {
		respondServiceError(c, err, "update variant")
		return
	}

	log.Info("Variant updated successfully", map[string]interface{}{
		"variant_id": id,
	})

	c.JSON(http.StatusOK, gin.H{
		"variant": variant,
	})
}

// DeleteVariant removes a variant without order history (Admin only)
// DELETE /api/v1/admin/variants/:id
func (ctrl *VariantController) DeleteVariant(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := ctrl.variantService.DeleteVariant(id); err != nil {
		respondServiceError(c, err, "delete variant")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Variant deleted successfully",
	})
}

// ResolveVariant resolves the shopper's current selection
// POST /api/v1/products/:id/variants/resolve
func (ctrl *VariantController) ResolveVariant(c *gin.Context) {
	productID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := ctrl.selectorService.Resolve(productID, req.Selection)
	if err != nil {
		respondServiceError(c, err, "resolve variant")
		return
	}

	c.JSON(http.StatusOK, result)
}
