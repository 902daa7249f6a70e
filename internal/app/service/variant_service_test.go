package service

import (
	"net/http"
	"testing"

	"github.com/ikkim/udonggeum-variants/internal/app/model"
	apperrors "github.com/ikkim/udonggeum-variants/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantService_CreateVariant(t *testing.T) {
	env := setupServiceTest(t)

	v := env.mustCreateVariant(t, "TEE-RED-S", 5, env.red, env.small)

	assert.Equal(t, "TEE-RED-S", v.SKU)
	assert.True(t, v.IsActive)
	assert.Equal(t, 5, v.StockQuantity)
	require.Len(t, v.Assignments, 2)
	assert.Equal(t, combinationKey([]model.AttributeValue{*env.red, *env.small}), v.CombinationKey)

	variants, err := env.variants.ListVariants(env.product.ID, false)
	require.NoError(t, err)
	assert.Len(t, variants, 1)

	var product model.Product
	require.NoError(t, env.db.First(&product, env.product.ID).Error)
	assert.True(t, product.HasVariants)
}

func TestVariantService_CreateVariant_Validation(t *testing.T) {
	env := setupServiceTest(t)
	env.mustCreateVariant(t, "TAKEN", 1, env.red, env.small)

	tests := []struct {
		name    string
		input   CreateVariantInput
		wantErr error
	}{
		{
			name:    "price required",
			input:   CreateVariantInput{AttributeValueIDs: []uint{env.blue.ID}},
			wantErr: ErrInvalidVariantInput,
		},
		{
			name:    "negative price",
			input:   CreateVariantInput{Price: price("-1"), AttributeValueIDs: []uint{env.blue.ID}},
			wantErr: ErrInvalidVariantInput,
		},
		{
			name:    "negative stock",
			input:   CreateVariantInput{Price: price("1"), StockQuantity: intPtr(-1)},
			wantErr: ErrInvalidVariantInput,
		},
		{
			name:    "two values of one attribute",
			input:   CreateVariantInput{Price: price("1"), AttributeValueIDs: []uint{env.red.ID, env.blue.ID}},
			wantErr: ErrDuplicateAttribute,
		},
		{
			name:    "same combination in another order",
			input:   CreateVariantInput{Price: price("1"), AttributeValueIDs: []uint{env.small.ID, env.red.ID}},
			wantErr: ErrDuplicateCombination,
		},
		{
			name:    "sku already used",
			input:   CreateVariantInput{SKU: "TAKEN", Price: price("1"), AttributeValueIDs: []uint{env.blue.ID, env.small.ID}},
			wantErr: ErrDuplicateSKU,
		},
		{
			name:    "unknown value",
			input:   CreateVariantInput{Price: price("1"), AttributeValueIDs: []uint{9999}},
			wantErr: ErrAttributeValueNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.variants.CreateVariant(env.product.ID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	variants, err := env.variants.ListVariants(env.product.ID, false)
	require.NoError(t, err)
	assert.Len(t, variants, 1, "rejected variants must not be written")
}

func TestVariantService_ExclusivityCheckedBeforeCombination(t *testing.T) {
	env := setupServiceTest(t)
	env.mustCreateVariant(t, "A", 1, env.red, env.small)

	// would also be a duplicate combination, but exclusivity is reported first
	_, err := env.variants.CreateVariant(env.product.ID, CreateVariantInput{
		Price:             price("1"),
		AttributeValueIDs: []uint{env.red.ID, env.small.ID, env.medium.ID},
	})
	assert.ErrorIs(t, err, ErrDuplicateAttribute)
}

func TestVariantService_EmptyCombinationIsUnique(t *testing.T) {
	env := setupServiceTest(t)

	first, err := env.variants.CreateVariant(env.product.ID, CreateVariantInput{SKU: "PLAIN-1", Price: price("5")})
	require.NoError(t, err)
	assert.Empty(t, first.CombinationKey)

	_, err = env.variants.CreateVariant(env.product.ID, CreateVariantInput{SKU: "PLAIN-2", Price: price("5")})
	assert.ErrorIs(t, err, ErrDuplicateCombination)

	result, err := env.variants.CreateProductWithVariants(
		CreateProductInput{Name: "Poster"},
		[]CreateVariantInput{
			{SKU: "POSTER-1", Price: price("8")},
			{SKU: "POSTER-2", Price: price("8"), AttributeValueIDs: []uint{}},
		},
	)
	require.NoError(t, err)
	assert.Len(t, result.Variants, 1)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, apperrors.VariantDuplicateCombination, result.Failures[0].Reason)

	report, err := env.variants.AuditIntegrity()
	require.NoError(t, err)
	assert.Empty(t, report.Findings)
}

func TestVariantService_AttributeSetMustMatchSiblings(t *testing.T) {
	env := setupServiceTest(t)
	a := env.mustCreateVariant(t, "A", 1, env.red, env.small)

	tests := []struct {
		name string
		ids  []uint
	}{
		{"attribute missing", []uint{env.blue.ID}},
		{"no attributes", nil},
		{"other attribute only", []uint{env.medium.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.variants.CreateVariant(env.product.ID, CreateVariantInput{Price: price("1"), AttributeValueIDs: tt.ids})
			assert.ErrorIs(t, err, ErrAttributeSetMismatch)
		})
	}

	t.Run("same attributes in another order", func(t *testing.T) {
		_, err := env.variants.CreateVariant(env.product.ID, CreateVariantInput{
			Price:             price("1"),
			AttributeValueIDs: []uint{env.medium.ID, env.blue.ID},
		})
		assert.NoError(t, err)
	})

	t.Run("update may not drop an attribute", func(t *testing.T) {
		ids := []uint{env.red.ID}
		_, err := env.variants.UpdateVariant(a.ID, UpdateVariantInput{AttributeValueIDs: &ids})
		assert.ErrorIs(t, err, ErrAttributeSetMismatch)
	})

	status, code, ok := Classify(ErrAttributeSetMismatch)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperrors.VariantAttributeMismatch, code)
}

func TestVariantService_OnlyVariantMayChangeAttributes(t *testing.T) {
	env := setupServiceTest(t)
	only := env.mustCreateVariant(t, "ONLY", 1, env.red)

	ids := []uint{env.red.ID, env.small.ID}
	updated, err := env.variants.UpdateVariant(only.ID, UpdateVariantInput{AttributeValueIDs: &ids})
	require.NoError(t, err)
	assert.ElementsMatch(t, ids, updated.ValueIDs())

	result, err := env.variants.CreateProductWithVariants(
		CreateProductInput{Name: "Mixed"},
		[]CreateVariantInput{
			{SKU: "MIX-1", Price: price("3"), AttributeValueIDs: []uint{env.red.ID, env.small.ID}},
			{SKU: "MIX-2", Price: price("3"), AttributeValueIDs: []uint{env.blue.ID}},
			{SKU: "MIX-3", Price: price("3"), AttributeValueIDs: []uint{env.blue.ID, env.small.ID}},
		},
	)
	require.NoError(t, err)
	assert.Len(t, result.Variants, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 1, result.Failures[0].Index)
	assert.Equal(t, apperrors.VariantAttributeMismatch, result.Failures[0].Reason)
}

func TestVariantService_SKUUniqueAcrossProducts(t *testing.T) {
	env := setupServiceTest(t)
	env.mustCreateVariant(t, "GLOBAL-1", 1, env.red)

	other := &model.Product{Name: "Hoodie", IsActive: true}
	require.NoError(t, env.db.Create(other).Error)

	_, err := env.variants.CreateVariant(other.ID, CreateVariantInput{
		SKU:               "GLOBAL-1",
		Price:             price("30"),
		AttributeValueIDs: []uint{env.blue.ID},
	})
	assert.ErrorIs(t, err, ErrDuplicateSKU)

	// the same combination is fine on another product
	_, err = env.variants.CreateVariant(other.ID, CreateVariantInput{
		SKU:               "HOODIE-RED",
		Price:             price("30"),
		AttributeValueIDs: []uint{env.red.ID},
	})
	assert.NoError(t, err)
}

func TestVariantService_AutoSKU(t *testing.T) {
	env := setupServiceTest(t)

	v, err := env.variants.CreateVariant(env.product.ID, CreateVariantInput{
		Price:             price("10"),
		AttributeValueIDs: []uint{env.red.ID, env.medium.ID},
	})
	require.NoError(t, err)
	assert.Regexp(t, `^CLA-TEE-RED-M-[0-9A-F]{6}$`, v.SKU)
}

func TestVariantService_InactiveValueRejected(t *testing.T) {
	env := setupServiceTest(t)
	existing := env.mustCreateVariant(t, "KEEP", 3, env.blue)

	_, err := env.catalog.SetValueActive(env.blue.ID, false)
	require.NoError(t, err)

	_, err = env.variants.CreateVariant(env.product.ID, CreateVariantInput{
		Price:             price("1"),
		AttributeValueIDs: []uint{env.blue.ID, env.small.ID},
	})
	assert.ErrorIs(t, err, ErrInactiveAttributeValue)

	// deactivation does not cascade to existing variants
	stillThere, err := env.variants.GetVariant(existing.ID)
	require.NoError(t, err)
	assert.True(t, stillThere.IsActive)
}

func TestVariantService_UpdateVariant(t *testing.T) {
	env := setupServiceTest(t)
	a := env.mustCreateVariant(t, "A", 1, env.red, env.small)
	env.mustCreateVariant(t, "B", 1, env.blue, env.small)

	t.Run("partial fields", func(t *testing.T) {
		updated, err := env.variants.UpdateVariant(a.ID, UpdateVariantInput{
			Price:         price("25.50"),
			StockQuantity: intPtr(9),
		})
		require.NoError(t, err)
		assert.Equal(t, "25.5", updated.Price.String())
		assert.Equal(t, 9, updated.StockQuantity)
		assert.Equal(t, "A", updated.SKU)
		assert.Len(t, updated.Assignments, 2)
	})

	t.Run("keeping own combination is not a duplicate", func(t *testing.T) {
		ids := []uint{env.small.ID, env.red.ID}
		_, err := env.variants.UpdateVariant(a.ID, UpdateVariantInput{AttributeValueIDs: &ids})
		assert.NoError(t, err)
	})

	t.Run("colliding combination", func(t *testing.T) {
		ids := []uint{env.blue.ID, env.small.ID}
		_, err := env.variants.UpdateVariant(a.ID, UpdateVariantInput{AttributeValueIDs: &ids})
		assert.ErrorIs(t, err, ErrDuplicateCombination)
	})

	t.Run("colliding sku", func(t *testing.T) {
		sku := "B"
		_, err := env.variants.UpdateVariant(a.ID, UpdateVariantInput{SKU: &sku})
		assert.ErrorIs(t, err, ErrDuplicateSKU)
	})

	t.Run("replace assignments", func(t *testing.T) {
		ids := []uint{env.red.ID, env.medium.ID}
		updated, err := env.variants.UpdateVariant(a.ID, UpdateVariantInput{AttributeValueIDs: &ids})
		require.NoError(t, err)
		assert.ElementsMatch(t, ids, updated.ValueIDs())
		assert.Equal(t, combinationKey([]model.AttributeValue{*env.red, *env.medium}), updated.CombinationKey)
	})

	t.Run("missing variant", func(t *testing.T) {
		_, err := env.variants.UpdateVariant(4040, UpdateVariantInput{IsActive: boolPtr(false)})
		assert.ErrorIs(t, err, ErrVariantNotFound)
	})
}

func TestVariantService_DeleteVariant(t *testing.T) {
	env := setupServiceTest(t)
	free := env.mustCreateVariant(t, "FREE", 1, env.red)
	sold := env.mustCreateVariant(t, "SOLD", 5, env.blue)

	_, err := env.purchases.BuyNow(1, env.product.ID, &sold.ID, 1)
	require.NoError(t, err)

	assert.NoError(t, env.variants.DeleteVariant(free.ID))
	_, err = env.variants.GetVariant(free.ID)
	assert.ErrorIs(t, err, ErrVariantNotFound)

	assert.ErrorIs(t, env.variants.DeleteVariant(sold.ID), ErrVariantHasOrders)

	// a variant with history can still be edited
	_, err = env.variants.UpdateVariant(sold.ID, UpdateVariantInput{IsActive: boolPtr(false), StockQuantity: intPtr(0)})
	assert.NoError(t, err)

	assert.ErrorIs(t, env.variants.DeleteVariant(free.ID), ErrVariantNotFound)
}

func TestVariantService_CreateProductWithVariants_PartialSuccess(t *testing.T) {
	env := setupServiceTest(t)

	result, err := env.variants.CreateProductWithVariants(
		CreateProductInput{Name: "Bulk Tee"},
		[]CreateVariantInput{
			{SKU: "BULK-1", Price: price("10"), AttributeValueIDs: []uint{env.red.ID, env.small.ID}},
			{SKU: "BULK-2", Price: price("10"), AttributeValueIDs: []uint{env.small.ID, env.red.ID}},
			{SKU: "BULK-3", Price: price("10"), AttributeValueIDs: []uint{env.blue.ID, env.small.ID}},
		},
	)
	require.NoError(t, err)
	require.NotNil(t, result.Product)
	assert.True(t, result.Product.HasVariants)
	assert.Len(t, result.Variants, 2)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, 1, result.Failures[0].Index)
	assert.Equal(t, apperrors.VariantDuplicateCombination, result.Failures[0].Reason)

	stored, err := env.variants.ListVariants(result.Product.ID, false)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}

func TestVariantService_CreateProductWithVariants_AllInvalid(t *testing.T) {
	env := setupServiceTest(t)

	var before int64
	require.NoError(t, env.db.Model(&model.Product{}).Count(&before).Error)

	result, err := env.variants.CreateProductWithVariants(
		CreateProductInput{Name: "Doomed"},
		[]CreateVariantInput{
			{Price: price("10"), AttributeValueIDs: []uint{env.red.ID, env.blue.ID}},
			{AttributeValueIDs: []uint{env.small.ID}},
		},
	)
	assert.ErrorIs(t, err, ErrNoVariantsCreated)
	require.NotNil(t, result)
	require.Len(t, result.Failures, 2)
	assert.Equal(t, apperrors.VariantDuplicateAttribute, result.Failures[0].Reason)
	assert.Equal(t, apperrors.VariantInvalidInput, result.Failures[1].Reason)
	assert.Nil(t, result.Product)

	var after int64
	require.NoError(t, env.db.Model(&model.Product{}).Count(&after).Error)
	assert.Equal(t, before, after, "parent product must be rolled back")
}

func TestVariantService_CreateProductWithoutVariants(t *testing.T) {
	env := setupServiceTest(t)

	result, err := env.variants.CreateProductWithVariants(
		CreateProductInput{Name: "Gift Card", Price: price("50"), StockQuantity: 100},
		nil,
	)
	require.NoError(t, err)
	assert.False(t, result.Product.HasVariants)
	assert.Empty(t, result.Failures)
}

func TestVariantService_GenerateVariants(t *testing.T) {
	env := setupServiceTest(t)

	selections := map[uint][]uint{
		env.color.ID: {env.red.ID, env.blue.ID},
		env.size.ID:  {env.small.ID, env.medium.ID},
	}

	preview, err := env.variants.GenerateVariants(env.product.ID, GenerateVariantsInput{Selections: selections})
	require.NoError(t, err)
	require.Len(t, preview.Candidates, 4)
	assert.Equal(t, "Red / S", preview.Candidates[0].Label)
	assert.Empty(t, preview.Created)

	listed, err := env.variants.ListVariants(env.product.ID, false)
	require.NoError(t, err)
	assert.Empty(t, listed, "preview must not persist")

	env.mustCreateVariant(t, "EXISTING", 1, env.blue, env.medium)

	persisted, err := env.variants.GenerateVariants(env.product.ID, GenerateVariantsInput{
		Selections:    selections,
		Price:         price("15"),
		StockQuantity: 3,
		Persist:       true,
	})
	require.NoError(t, err)
	assert.Len(t, persisted.Created, 3)
	require.Len(t, persisted.Failures, 1)
	assert.Equal(t, 3, persisted.Failures[0].Index)
	assert.Equal(t, apperrors.VariantDuplicateCombination, persisted.Failures[0].Reason)
}

func TestVariantService_GenerateVariants_Errors(t *testing.T) {
	env := setupServiceTest(t)

	tests := []struct {
		name    string
		input   GenerateVariantsInput
		wantErr error
	}{
		{"empty selection", GenerateVariantsInput{}, ErrEmptySelection},
		{"empty value set", GenerateVariantsInput{Selections: map[uint][]uint{env.color.ID: {}}}, ErrEmptyValueSet},
		{"value under wrong attribute", GenerateVariantsInput{Selections: map[uint][]uint{env.color.ID: {env.small.ID}}}, ErrAttributeValueMismatch},
		{"unknown value", GenerateVariantsInput{Selections: map[uint][]uint{env.color.ID: {777}}}, ErrAttributeValueNotFound},
		{"persist without price", GenerateVariantsInput{Selections: map[uint][]uint{env.color.ID: {env.red.ID}}, Persist: true}, ErrInvalidVariantInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.variants.GenerateVariants(env.product.ID, tt.input)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := env.variants.GenerateVariants(9999, GenerateVariantsInput{})
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestVariantService_GenerateVariants_Cap(t *testing.T) {
	env := setupServiceTest(t)

	var colorIDs, sizeIDs []uint
	for i := 0; i < 8; i++ {
		c, err := env.catalog.AddValue(env.color.ID, string(rune('a'+i)))
		require.NoError(t, err)
		colorIDs = append(colorIDs, c.ID)
		s, err := env.catalog.AddValue(env.size.ID, string(rune('a'+i)))
		require.NoError(t, err)
		sizeIDs = append(sizeIDs, s.ID)
	}

	_, err := env.variants.GenerateVariants(env.product.ID, GenerateVariantsInput{
		Selections: map[uint][]uint{env.color.ID: colorIDs, env.size.ID: sizeIDs},
	})
	assert.ErrorIs(t, err, ErrTooManyCombinations)
}

func TestVariantService_AuditIntegrity(t *testing.T) {
	env := setupServiceTest(t)
	a := env.mustCreateVariant(t, "A", 1, env.red, env.small)
	env.mustCreateVariant(t, "B", 1, env.blue, env.small)

	report, err := env.variants.AuditIntegrity()
	require.NoError(t, err)
	assert.Equal(t, 2, report.CheckedVariants)
	assert.Empty(t, report.Findings)

	// corrupt the data behind the service's back
	require.NoError(t, env.db.Model(&model.VariantAttributeAssignment{}).
		Where("variant_id = ? AND attribute_id = ?", a.ID, env.color.ID).
		Update("attribute_value_id", env.blue.ID).Error)

	report, err = env.variants.AuditIntegrity()
	require.NoError(t, err)

	kinds := map[AuditFindingKind]int{}
	for _, f := range report.Findings {
		kinds[f.Kind]++
	}
	assert.Equal(t, 1, kinds[FindingDuplicateCombination])
	assert.Equal(t, 1, kinds[FindingStaleCombinationKey])
}
