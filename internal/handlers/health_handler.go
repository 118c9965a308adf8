package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/alumni-service/internal/services"
	"github.com/SAP-F-2025/alumni-service/internal/utils"
)

const serviceName = "alumni-service"

type HealthHandler struct {
	BaseHandler
	serviceManager services.ServiceManager
}

func NewHealthHandler(serviceManager services.ServiceManager, logger utils.Logger) *HealthHandler {
	return &HealthHandler{
		BaseHandler:    NewBaseHandler(logger),
		serviceManager: serviceManager,
	}
}

// HealthCheck reports liveness together with database and cache status
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	report := h.serviceManager.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if report.Status != "healthy" {
		status = http.StatusServiceUnavailable
		h.logger.Warn("Health check failed", "components", report.Components)
	}

	c.JSON(status, gin.H{
		"status":     report.Status,
		"service":    serviceName,
		"timestamp":  time.Now().UTC().Format(time.RFC3339),
		"components": report.Components,
	})
}
