package controller

import (
	"fmt"
	"net/http"
	"testing"

	apperrors "github.com/ikkim/udonggeum-variants/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestAttributeController_CreateAttribute(t *testing.T) {
	env := setupControllerTest(t)
	env.router.POST("/admin/attributes", env.attributes.CreateAttribute)

	w, response := env.do(t, http.MethodPost, "/admin/attributes", map[string]interface{}{
		"name":         "Material",
		"display_name": "소재",
		"values":       []string{"Cotton", "Linen"},
	})
	mustStatus(t, w, http.StatusCreated)
	attribute := response["attribute"].(map[string]interface{})
	assert.Equal(t, "Material", attribute["name"])
	assert.Len(t, attribute["values"], 2)

	w, response = env.do(t, http.MethodPost, "/admin/attributes", map[string]interface{}{"name": "Color"})
	mustStatus(t, w, http.StatusConflict)
	assert.Equal(t, apperrors.AttributeExists, response["error"])

	w, response = env.do(t, http.MethodPost, "/admin/attributes", map[string]interface{}{"display_name": "no name"})
	mustStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, apperrors.ValidationInvalidInput, response["error"])
}

func TestAttributeController_ListAndToggle(t *testing.T) {
	env := setupControllerTest(t)
	env.router.GET("/attributes", env.attributes.ListActiveAttributes)
	env.router.GET("/admin/attributes", env.attributes.ListAttributes)
	env.router.PATCH("/admin/attributes/:id", env.attributes.UpdateAttribute)

	w, _ := env.do(t, http.MethodPatch, fmt.Sprintf("/admin/attributes/%d", env.size.ID), map[string]interface{}{"is_active": false})
	mustStatus(t, w, http.StatusOK)

	w, response := env.do(t, http.MethodGet, "/attributes", nil)
	mustStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(1), response["count"])

	w, response = env.do(t, http.MethodGet, "/admin/attributes", nil)
	mustStatus(t, w, http.StatusOK)
	assert.Equal(t, float64(2), response["count"])

	w, response = env.do(t, http.MethodPatch, "/admin/attributes/9999", map[string]interface{}{"is_active": true})
	mustStatus(t, w, http.StatusNotFound)
	assert.Equal(t, apperrors.AttributeNotFound, response["error"])

	w, response = env.do(t, http.MethodPatch, "/admin/attributes/abc", map[string]interface{}{"is_active": true})
	mustStatus(t, w, http.StatusBadRequest)
	assert.Equal(t, apperrors.ValidationInvalidID, response["error"])

	// is_active is required
	w, _ = env.do(t, http.MethodPatch, fmt.Sprintf("/admin/attributes/%d", env.size.ID), map[string]interface{}{})
	mustStatus(t, w, http.StatusBadRequest)
}

func TestAttributeController_Values(t *testing.T) {
	env := setupControllerTest(t)
	env.router.POST("/admin/attributes/:id/values", env.attributes.AddValue)
	env.router.PATCH("/admin/attribute-values/:id", env.attributes.UpdateValue)

	w, response := env.do(t, http.MethodPost, fmt.Sprintf("/admin/attributes/%d/values", env.color.ID), map[string]interface{}{"value": "Green"})
	mustStatus(t, w, http.StatusCreated)
	value := response["value"].(map[string]interface{})
	assert.Equal(t, "Green", value["value"])
	assert.Equal(t, true, value["is_active"])

	w, _ = env.do(t, http.MethodPatch, fmt.Sprintf("/admin/attribute-values/%v", value["id"]), map[string]interface{}{"is_active": false})
	mustStatus(t, w, http.StatusOK)

	w, response = env.do(t, http.MethodPost, "/admin/attributes/9999/values", map[string]interface{}{"value": "Green"})
	mustStatus(t, w, http.StatusNotFound)
	assert.Equal(t, apperrors.AttributeNotFound, response["error"])

	w, response = env.do(t, http.MethodPatch, "/admin/attribute-values/9999", map[string]interface{}{"is_active": false})
	mustStatus(t, w, http.StatusNotFound)
	assert.Equal(t, apperrors.AttributeValueNotFound, response["error"])
}
