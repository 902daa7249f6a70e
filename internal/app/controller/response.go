package controller

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/udonggeum-variants/internal/app/service"
	apperrors "github.com/ikkim/udonggeum-variants/internal/errors"
	"github.com/ikkim/udonggeum-variants/internal/middleware"
)

// respondServiceError maps a service error onto the standard error body.
// Unknown errors fall back to the DB error parser and are logged.
func respondServiceError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	status, code, ok := service.Classify(err)
	if !ok {
		info := apperrors.ParseError(err, context)
		log.Error("Request failed", err, map[string]interface{}{
			"context": context,
			"code":    info.Code,
		})
		apperrors.RespondWithError(c, http.StatusInternalServerError, info.Code, info.Message)
		return
	}

	if status >= http.StatusInternalServerError {
		log.Error("Request failed", err, map[string]interface{}{
			"context": context,
			"code":    code,
		})
	} else {
		log.Warn("Request rejected", map[string]interface{}{
			"context": context,
			"code":    code,
			"error":   err.Error(),
		})
	}
	apperrors.RespondWithError(c, status, code, err.Error())
}

// parseIDParam reads a positive numeric path parameter and writes the 400
// response itself when it is malformed.
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid ID format", map[string]interface{}{
			"param": name,
			"value": raw,
		})
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
		"path":  c.Request.URL.Path,
		"error": err.Error(),
	})
	apperrors.BadRequest(c, apperrors.ValidationInvalidInput, err.Error())
}
