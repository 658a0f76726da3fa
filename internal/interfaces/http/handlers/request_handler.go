package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opengov-in/rti-sahayak/internal/application/lifecycle"
	"github.com/opengov-in/rti-sahayak/internal/domain/request"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
)

// RequestService is the slice of the lifecycle engine the request
// endpoints need.
type RequestService interface {
	Submit(ctx context.Context, in lifecycle.SubmitInput) (*request.Request, error)
	Get(ctx context.Context, refNumber string) (*request.Request, error)
	List(ctx context.Context, openOnly bool, limit int) ([]*request.Request, error)
	File(ctx context.Context, refNumber string) (*request.Request, error)
	Acknowledge(ctx context.Context, refNumber string) (*request.Request, error)
	RecordResponse(ctx context.Context, refNumber string) (*request.Request, error)
	Close(ctx context.Context, refNumber string) (*request.Request, error)
	CheckAppeal(ctx context.Context, refNumber string) (*lifecycle.AppealStatus, error)
}

// RequestHandler serves the request lifecycle endpoints.
type RequestHandler struct {
	service RequestService
	logger  logging.Logger
}

// NewRequestHandler builds the handler.
func NewRequestHandler(service RequestService, logger logging.Logger) *RequestHandler {
	return &RequestHandler{service: service, logger: logger}
}

// Submit handles POST /requests.
func (h *RequestHandler) Submit(c *gin.Context) {
	var in lifecycle.SubmitInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Code: "COMMON_002", Message: "invalid request body"})
		return
	}

	req, err := h.service.Submit(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, req)
}

// Get handles GET /requests/:ref.
func (h *RequestHandler) Get(c *gin.Context) {
	req, err := h.service.Get(c.Request.Context(), c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// List handles GET /requests.
func (h *RequestHandler) List(c *gin.Context) {
	openOnly := c.Query("open") == "true"
	limit := parseLimit(c, 50)

	reqs, err := h.service.List(c.Request.Context(), openOnly, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"requests": reqs, "count": len(reqs)})
}

// File handles POST /requests/:ref/file.
func (h *RequestHandler) File(c *gin.Context) {
	req, err := h.service.File(c.Request.Context(), c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// Acknowledge handles POST /requests/:ref/acknowledge.
func (h *RequestHandler) Acknowledge(c *gin.Context) {
	h.signal(c, h.service.Acknowledge)
}

// RecordResponse handles POST /requests/:ref/response.
func (h *RequestHandler) RecordResponse(c *gin.Context) {
	h.signal(c, h.service.RecordResponse)
}

// Close handles POST /requests/:ref/close.
func (h *RequestHandler) Close(c *gin.Context) {
	h.signal(c, h.service.Close)
}

func (h *RequestHandler) signal(c *gin.Context, op func(context.Context, string) (*request.Request, error)) {
	req, err := op(c.Request.Context(), c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, req)
}

// Appeal handles GET /requests/:ref/appeal.
func (h *RequestHandler) Appeal(c *gin.Context) {
	status, err := h.service.CheckAppeal(c.Request.Context(), c.Param("ref"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}
