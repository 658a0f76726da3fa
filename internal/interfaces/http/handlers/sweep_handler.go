package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/opengov-in/rti-sahayak/internal/application/escalation"
	"github.com/opengov-in/rti-sahayak/internal/infrastructure/monitoring/logging"
)

// SweepRunner runs one escalation pass.
type SweepRunner interface {
	Run(ctx context.Context) (escalation.Result, error)
}

// SweepHandler triggers escalation sweeps on demand. The worker runs them
// on a schedule; this endpoint exists for operators.
type SweepHandler struct {
	sweeper SweepRunner
	logger  logging.Logger
}

// NewSweepHandler builds the handler.
func NewSweepHandler(sweeper SweepRunner, logger logging.Logger) *SweepHandler {
	return &SweepHandler{sweeper: sweeper, logger: logger}
}

// Sweep handles POST /escalation/sweep.
func (h *SweepHandler) Sweep(c *gin.Context) {
	result, err := h.sweeper.Run(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
