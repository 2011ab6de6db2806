package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gearhub/gearhub-backend/apperrors"
	"github.com/gearhub/gearhub-backend/logger"
)

// respondError writes the uniform error body. AppErrors carry their own
// status and client-safe message; validation errors add the per-field map;
// anything else is logged and reported as a generic 500 so store internals
// never reach the caller.
func respondError(c *gin.Context, err error) {
	var ve *apperrors.ValidationError
	if errors.As(err, &ve) {
		c.JSON(http.StatusBadRequest, gin.H{
			"message": "Validation failed",
			"errors":  ve.Fields,
		})
		return
	}

	var ae *apperrors.AppError
	if errors.As(err, &ae) {
		if ae.Internal != nil {
			logger.Get().Errorw("request failed",
				"path", c.Request.URL.Path,
				"code", ae.Code,
				"error", ae.Internal,
			)
		}
		body := gin.H{"message": ae.Message}
		if ae.Code != "" {
			body["error"] = ae.Code
		}
		c.JSON(ae.StatusCode, body)
		return
	}

	logger.Get().Errorw("request failed", "path", c.Request.URL.Path, "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"message": "An internal error occurred"})
}
