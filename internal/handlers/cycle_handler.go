package handlers

import (
	"context"
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/termin-notifier/internal/httperr"
	"github.com/BruksfildServices01/termin-notifier/internal/httpresp"
	"github.com/BruksfildServices01/termin-notifier/internal/scheduler"
)

type CycleRunner interface {
	RunCycle(ctx context.Context) (*scheduler.CycleReport, error)
}

type CycleHandler struct {
	cycles CycleRunner
}

func NewCycleHandler(cycles CycleRunner) *CycleHandler {
	return &CycleHandler{cycles: cycles}
}

// Run executes one cycle synchronously.
func (h *CycleHandler) Run(c *gin.Context) {
	report, err := h.cycles.RunCycle(c.Request.Context())
	if err != nil {
		if errors.Is(err, scheduler.ErrCycleInProgress) {
			httperr.Conflict(c, "cycle_in_progress", "A cycle is already running.")
			return
		}
		fail(c, err, "cycle_failed")
		return
	}
	httpresp.OK(c, report)
}
