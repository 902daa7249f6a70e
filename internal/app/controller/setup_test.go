package controller

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/udonggeum-variants/config"
	"github.com/ikkim/udonggeum-variants/internal/app/model"
	"github.com/ikkim/udonggeum-variants/internal/app/repository"
	"github.com/ikkim/udonggeum-variants/internal/app/service"
	"github.com/ikkim/udonggeum-variants/internal/db"
	"github.com/ikkim/udonggeum-variants/internal/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type controllerEnv struct {
	db       *gorm.DB
	router   *gin.Engine
	catalog  service.CatalogService
	variants service.VariantService

	attributes *AttributeController
	variantCtl *VariantController
	purchases  *PurchaseController

	color, size *model.Attribute
	product     *model.Product
}

// setupControllerTest wires real services on sqlite. Requests are treated as
// coming from an authenticated admin with user id 1.
func setupControllerTest(t *testing.T) *controllerEnv {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	attributeRepo := repository.NewAttributeRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)

	catalog := service.NewCatalogService(attributeRepo, nil)
	variants := service.NewVariantService(testDB, productRepo, variantRepo, attributeRepo, orderRepo, config.VariantConfig{MaxCombinations: 50})
	selector := service.NewSelectorService(productRepo, variantRepo)
	purchases := service.NewPurchaseService(testDB, productRepo, variantRepo, orderRepo)

	env := &controllerEnv{
		db:         testDB,
		catalog:    catalog,
		variants:   variants,
		attributes: NewAttributeController(catalog),
		variantCtl: NewVariantController(variants, selector),
		purchases:  NewPurchaseController(purchases),
	}

	env.color, err = catalog.CreateAttribute(service.CreateAttributeInput{Name: "Color", Values: []string{"Red", "Blue"}})
	require.NoError(t, err)
	env.size, err = catalog.CreateAttribute(service.CreateAttributeInput{Name: "Size", Values: []string{"S", "M"}})
	require.NoError(t, err)

	env.product = &model.Product{Name: "Classic Tee", IsActive: true}
	require.NoError(t, productRepo.Create(env.product))

	gin.SetMode(gin.TestMode)
	env.router = gin.New()
	env.router.Use(func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uint(1))
		c.Set(middleware.UserRoleKey, model.RoleAdmin)
		c.Next()
	})
	return env
}

func (e *controllerEnv) do(t *testing.T, method, path string, body interface{}) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var response map[string]interface{}
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	}
	return w, response
}

func mustStatus(t *testing.T, w *httptest.ResponseRecorder, status int) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
}
