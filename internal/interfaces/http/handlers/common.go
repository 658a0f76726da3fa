// Package handlers implements the HTTP API endpoints.
package handlers

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/opengov-in/rti-sahayak/pkg/errors"
)

// ErrorResponse is the standard error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondError maps coded application errors to HTTP statuses. Unknown
// error types are masked as internal errors.
func respondError(c *gin.Context, err error) {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		c.JSON(errors.HTTPStatus(appErr.Code), ErrorResponse{
			Code:    appErr.Code.String(),
			Message: appErr.Message,
		})
		return
	}
	c.JSON(http.StatusInternalServerError, ErrorResponse{
		Code:    errors.ErrCodeInternal.String(),
		Message: "internal server error",
	})
}

// parseLimit reads the limit query parameter, clamped to [1, 500].
func parseLimit(c *gin.Context, fallback int) int {
	raw := c.Query("limit")
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	if n > 500 {
		return 500
	}
	return n
}
