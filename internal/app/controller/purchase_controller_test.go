package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/udonggeum-variants/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPurchaseController_CheckAndBuy(t *testing.T) {
	env := setupControllerTest(t)
	env.router.POST("/admin/products/:id/variants", env.variantCtl.CreateVariant)
	env.router.POST("/purchase/check", env.purchases.CheckAvailability)
	env.router.POST("/purchase", env.purchases.BuyNow)
	red, _, small, _ := env.values()

	v := env.createVariant(t, "BUY-1", 2, red, small)

	w, response := env.do(t, http.MethodPost, "/purchase/check", map[string]interface{}{
		"product_id": env.product.ID,
		"variant_id": v.ID,
		"quantity":   2,
		// ignored: price always comes from the store
		"unit_price": "0.01",
	})
	mustStatus(t, w, http.StatusOK)
	availability := response["availability"].(map[string]interface{})
	assert.Equal(t, "19.99", availability["unit_price"])
	assert.Equal(t, "39.98", availability["subtotal"])

	tests := []struct {
		name       string
		body       map[string]interface{}
		wantStatus int
		wantCode   string
	}{
		{"too many", map[string]interface{}{"product_id": env.product.ID, "variant_id": v.ID, "quantity": 3}, http.StatusBadRequest, apperrors.StockInsufficient},
		{"zero quantity", map[string]interface{}{"product_id": env.product.ID, "variant_id": v.ID, "quantity": 0}, http.StatusBadRequest, apperrors.ValidationInvalidRange},
		{"variant required", map[string]interface{}{"product_id": env.product.ID, "quantity": 1}, http.StatusBadRequest, apperrors.VariantRequired},
		{"unknown variant", map[string]interface{}{"product_id": env.product.ID, "variant_id": 9999, "quantity": 1}, http.StatusNotFound, apperrors.VariantNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, response := env.do(t, http.MethodPost, "/purchase/check", tt.body)
			mustStatus(t, w, tt.wantStatus)
			assert.Equal(t, tt.wantCode, response["error"])
		})
	}

	w, response = env.do(t, http.MethodPost, "/purchase", map[string]interface{}{
		"product_id": env.product.ID,
		"variant_id": v.ID,
		"quantity":   2,
	})
	mustStatus(t, w, http.StatusCreated)
	order := response["order"].(map[string]interface{})
	assert.Equal(t, float64(1), order["user_id"])
	assert.Equal(t, "pending", order["status"])

	w, response = env.do(t, http.MethodPost, "/purchase", map[string]interface{}{
		"product_id": env.product.ID,
		"variant_id": v.ID,
		"quantity":   1,
	})
	mustStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, apperrors.StockOut, response["error"])
}

func TestPurchaseController_BuyNowRequiresUser(t *testing.T) {
	env := setupControllerTest(t)

	anonymous := gin.New()
	anonymous.POST("/purchase", env.purchases.BuyNow)
	env.router = anonymous

	w, response := env.do(t, http.MethodPost, "/purchase", map[string]interface{}{
		"product_id": env.product.ID,
		"quantity":   1,
	})
	mustStatus(t, w, http.StatusUnauthorized)
	assert.Equal(t, apperrors.AuthUnauthorized, response["error"])
}

func TestPurchaseController_InvalidBody(t *testing.T) {
	env := setupControllerTest(t)
	env.router.POST("/purchase/check", env.purchases.CheckAvailability)

	w, response := env.do(t, http.MethodPost, "/purchase/check", map[string]interface{}{"quantity": 1})
	require.Equal(t, http.StatusBadRequest, w.Code, fmt.Sprint(response))
	assert.Equal(t, apperrors.ValidationInvalidInput, response["error"])
}
