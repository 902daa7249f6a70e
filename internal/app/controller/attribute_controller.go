package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/udonggeum-variants/internal/app/service"
	"github.com/ikkim/udonggeum-variants/internal/middleware"
)

type AttributeController struct {
	catalogService service.CatalogService
}

func NewAttributeController(catalogService service.CatalogService) *AttributeController {
	return &AttributeController{
		catalogService: catalogService,
	}
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

type AddValueRequest struct {
	Value string `json:"value" binding:"required"`
}

// CreateAttribute creates an attribute with its initial values (Admin only)
// POST /api/v1/admin/attributes
func (ctrl *AttributeController) CreateAttribute(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req service.CreateAttributeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	attribute, err := ctrl.catalogService.CreateAttribute(req)
	if err != nil {
		respondServiceError(c, err, "create attribute")
		return
	}

	log.Info("Attribute created successfully", map[string]interface{}{
		"attribute_id": attribute.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"attribute": attribute,
	})
}

// ListAttributes returns every attribute including inactive ones (Admin only)
// GET /api/v1/admin/attributes
func (ctrl *AttributeController) ListAttributes(c *gin.Context) {
	ctrl.list(c, c.Query("active_only") == "true")
}

// ListActiveAttributes returns the attributes shoppers can see
// GET /api/v1/attributes
func (ctrl *AttributeController) ListActiveAttributes(c *gin.Context) {
	ctrl.list(c, true)
}

func (ctrl *AttributeController) list(c *gin.Context, activeOnly bool) {
	attributes, err := ctrl.catalogService.ListAttributes(activeOnly)
	if err != nil {
		respondServiceError(c, err, "list attributes")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"attributes": attributes,
		"count":      len(attributes),
	})
}

// UpdateAttribute toggles an attribute (Admin only)
// PATCH /api/v1/admin/attributes/:id
func (ctrl *AttributeController) UpdateAttribute(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	attribute, err := ctrl.catalogService.SetAttributeActive(id, *req.IsActive)
	if err != nil {
		respondServiceError(c, err, "update attribute")
		return
	}

	log.Info("Attribute updated successfully", map[string]interface{}{
		"attribute_id": id,
		"is_active":    *req.IsActive,
	})

	c.JSON(http.StatusOK, gin.H{
		"attribute": attribute,
	})
}

// AddValue adds a value to an attribute (Admin only)
// POST /api/v1/admin/attributes/:id/values
func (ctrl *AttributeController) AddValue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AddValueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	value, err := ctrl.catalogService.AddValue(id, req.Value)
	if err != nil {
		respondServiceError(c, err, "create attribute value")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"value": value,
	})
}

// UpdateValue toggles an attribute value (Admin only)
// PATCH /api/v1/admin/attribute-values/:id
func (ctrl *AttributeController) UpdateValue(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req SetActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	value, err := ctrl.catalogService.SetValueActive(id, *req.IsActive)
	if err != nil {
		respondServiceError(c, err, "update attribute value")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"value": value,
	})
}
