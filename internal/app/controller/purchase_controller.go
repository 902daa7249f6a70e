package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/udonggeum-variants/internal/app/service"
	apperrors "github.com/ikkim/udonggeum-variants/internal/errors"
	"github.com/ikkim/udonggeum-variants/internal/middleware"
)

type PurchaseController struct {
	purchaseService service.PurchaseService
}

func NewPurchaseController(purchaseService service.PurchaseService) *PurchaseController {
	return &PurchaseController{
		purchaseService: purchaseService,
	}
}

// PurchaseRequest 가격은 받지 않는다 (항상 저장된 가격 사용)
type PurchaseRequest struct {
	ProductID uint  `json:"product_id" binding:"required"`
	VariantID *uint `json:"variant_id"`
	Quantity  int   `json:"quantity"`
}

// CheckAvailability validates quantity against current stock
// POST /api/v1/purchase/check
func (ctrl *PurchaseController) CheckAvailability(c *gin.Context) {
	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	availability, err := ctrl.purchaseService.CheckAvailability(req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		respondServiceError(c, err, "check availability")
		return
	}

	// 비로그인 조회도 허용
	userID, _ := middleware.GetUserID(c)
	middleware.GetLoggerFromContext(c).Debug("Availability checked", map[string]interface{}{
		"user_id":    userID,
		"product_id": req.ProductID,
		"variant_id": req.VariantID,
		"quantity":   req.Quantity,
	})

	c.JSON(http.StatusOK, gin.H{
		"availability": availability,
	})
}

// BuyNow decrements stock and records a pending order
// POST /api/v1/purchase
func (ctrl *PurchaseController) BuyNow(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	userID, exists := middleware.GetUserID(c)
	if !exists {
		apperrors.Unauthorized(c, "")
		return
	}

	var req PurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	order, err := ctrl.purchaseService.BuyNow(userID, req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		respondServiceError(c, err, "create order")
		return
	}

	log.Info("Purchase completed", map[string]interface{}{
		"order_id": order.ID,
		"user_id":  userID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"order": order,
	})
}
