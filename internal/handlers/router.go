package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/alumni-service/internal/config"
	"github.com/SAP-F-2025/alumni-service/internal/services"
	"github.com/SAP-F-2025/alumni-service/internal/utils"
)

type HandlerManager struct {
	alumniHandler  *AlumniHandler
	healthHandler  *HealthHandler
	authMiddleware *CasdoorAuthMiddleware
}

func NewHandlerManager(
	serviceManager services.ServiceManager,
	logger utils.Logger,
	authEnabled bool,
	casdoorConfig config.CasdoorConfig,
) *HandlerManager {
	return &HandlerManager{
		alumniHandler:  NewAlumniHandler(serviceManager.Alumni(), serviceManager.Export(), logger),
		healthHandler:  NewHealthHandler(serviceManager, logger),
		authMiddleware: NewCasdoorAuthMiddleware(authEnabled, casdoorConfig),
	}
}

// SetupRoutes sets up all API routes
func (hm *HandlerManager) SetupRoutes(router *gin.Engine) {
	v1 := router.Group("/api/v1")
	{
		alumni := v1.Group("/alumni")
		requireAdmin := hm.authMiddleware.RequireAdminMiddleware()

		// Reads are public
		handle(alumni, "GET", "", hm.alumniHandler.ListAlumni)
		handle(alumni, "GET", "/export", hm.alumniHandler.ExportAlumni)
		handle(alumni, "GET", "/:id", hm.alumniHandler.GetAlumni)

		// Writes go through the admin guard when auth is enabled
		handle(alumni, "POST", "", requireAdmin, hm.alumniHandler.CreateAlumni)
		handle(alumni, "PUT", "/:id", requireAdmin, hm.alumniHandler.UpdateAlumni)
		handle(alumni, "PATCH", "/:id", requireAdmin, hm.alumniHandler.PatchAlumni)
		handle(alumni, "DELETE", "/:id", requireAdmin, hm.alumniHandler.DeleteAlumni)
	}

	router.GET("/health", hm.healthHandler.HealthCheck)
}

// handle registers a route both with and without the trailing slash
func handle(group *gin.RouterGroup, method, path string, handlers ...gin.HandlerFunc) {
	group.Handle(method, path, handlers...)
	group.Handle(method, path+"/", handlers...)
}
