package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"songdrop/pkg/utils"
)

// ReadinessCheck reports whether a backing dependency can serve requests.
type ReadinessCheck func(ctx context.Context) error

type HealthController struct {
	checks map[string]ReadinessCheck
	log    *zap.Logger
}

func NewHealthController(checks map[string]ReadinessCheck, log *zap.Logger) *HealthController {
	return &HealthController{
		checks: checks,
		log:    log,
	}
}

func (h *HealthController) Liveness(c *gin.Context) {
	utils.RespondSuccess(c, gin.H{"status": "ok"}, "alive")
}

func (h *HealthController) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.log.Warn("readiness check failed", zap.String("check", name), zap.Error(err))
			results[name] = "unavailable"
			continue
		}
		results[name] = "ok"
	}

	for _, status := range results {
		if status != "ok" {
			c.JSON(http.StatusServiceUnavailable, utils.APIResponse{
				Status:  "error",
				Code:    http.StatusServiceUnavailable,
				Message: "not ready",
				TraceID: c.GetString("trace_id"),
				Data:    results,
			})
			return
		}
	}

	utils.RespondSuccess(c, results, "ready")
}
