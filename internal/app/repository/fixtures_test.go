package repository

import (
	"testing"

	"github.com/ikkim/udonggeum-variants/internal/app/model"
	"github.com/ikkim/udonggeum-variants/internal/db"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type catalogFixture struct {
	color, size   model.Attribute
	red, blue     model.AttributeValue
	small, medium model.AttributeValue
	product       model.Product
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })
	return testDB
}

func seedCatalog(t *testing.T, testDB *gorm.DB) catalogFixture {
	t.Helper()

	f := catalogFixture{
		color: model.Attribute{Name: "Color", IsActive: true},
		size:  model.Attribute{Name: "Size", IsActive: true},
	}
	require.NoError(t, testDB.Create(&f.color).Error)
	require.NoError(t, testDB.Create(&f.size).Error)

	f.red = model.AttributeValue{AttributeID: f.color.ID, Value: "Red", IsActive: true}
	f.blue = model.AttributeValue{AttributeID: f.color.ID, Value: "Blue", IsActive: true}
	f.small = model.AttributeValue{AttributeID: f.size.ID, Value: "S", IsActive: true}
	f.medium = model.AttributeValue{AttributeID: f.size.ID, Value: "M", IsActive: true}
	for _, v := range []*model.AttributeValue{&f.red, &f.blue, &f.small, &f.medium} {
		require.NoError(t, testDB.Create(v).Error)
	}

	f.product = model.Product{Name: "Classic Tee", HasVariants: true, IsActive: true, Price: decimal.Zero}
	require.NoError(t, testDB.Create(&f.product).Error)
	return f
}

func assign(values ...model.AttributeValue) []model.VariantAttributeAssignment {
	out := make([]model.VariantAttributeAssignment, 0, len(values))
	for _, v := range values {
		out = append(out, model.VariantAttributeAssignment{AttributeID: v.AttributeID, AttributeValueID: v.ID})
	}
	return out
}
