package service

import (
	"testing"

	"github.com/ikkim/udonggeum-variants/config"
	"github.com/ikkim/udonggeum-variants/internal/app/model"
	"github.com/ikkim/udonggeum-variants/internal/app/repository"
	"github.com/ikkim/udonggeum-variants/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type testEnv struct {
	db        *gorm.DB
	catalog   CatalogService
	variants  VariantService
	selector  SelectorService
	purchases PurchaseService

	color, size   *model.Attribute
	red, blue     *model.AttributeValue
	small, medium *model.AttributeValue
	product       *model.Product
}

func setupServiceTest(t *testing.T) *testEnv {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	attributeRepo := repository.NewAttributeRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	variantRepo := repository.NewVariantRepository(testDB)
	orderRepo := repository.NewOrderRepository(testDB)

	env := &testEnv{
		db:      testDB,
		catalog: NewCatalogService(attributeRepo, nil),
		variants: NewVariantService(testDB, productRepo, variantRepo, attributeRepo, orderRepo, config.VariantConfig{
			MaxCombinations: 50,
			SKUMaxAttempts:  3,
		}),
		selector:  NewSelectorService(productRepo, variantRepo),
		purchases: NewPurchaseService(testDB, productRepo, variantRepo, orderRepo),
	}

	env.color, err = env.catalog.CreateAttribute(CreateAttributeInput{Name: "Color", Values: []string{"Red", "Blue"}})
	require.NoError(t, err)
	env.size, err = env.catalog.CreateAttribute(CreateAttributeInput{Name: "Size", Values: []string{"S", "M"}})
	require.NoError(t, err)
	env.red, env.blue = &env.color.Values[0], &env.color.Values[1]
	env.small, env.medium = &env.size.Values[0], &env.size.Values[1]

	env.product = &model.Product{Name: "Classic Tee", IsActive: true}
	require.NoError(t, productRepo.Create(env.product))
	return env
}

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func intPtr(n int) *int { return &n }

func boolPtr(b bool) *bool { return &b }

func (e *testEnv) mustCreateVariant(t *testing.T, sku string, stock int, values ...*model.AttributeValue) *model.Variant {
	t.Helper()
	ids := make([]uint, len(values))
	for i, v := range values {
		ids[i] = v.ID
	}
	v, err := e.variants.CreateVariant(e.product.ID, CreateVariantInput{
		SKU:               sku,
		Price:             price("19.99"),
		StockQuantity:     intPtr(stock),
		AttributeValueIDs: ids,
	})
	require.NoError(t, err)
	return v
}
