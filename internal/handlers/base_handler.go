package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/SAP-F-2025/alumni-service/internal/models"
	"github.com/SAP-F-2025/alumni-service/internal/utils"
)

type ErrorResponse = models.ErrorResponse

// BaseHandler carries the logger shared by every handler
type BaseHandler struct {
	logger utils.Logger
}

func NewBaseHandler(logger utils.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// LogRequest logs through the request scoped logger when one is attached
func (h *BaseHandler) LogRequest(c *gin.Context, msg string, args ...any) {
	utils.GetLogger(c, h.logger).Info(msg, args...)
}

func (h *BaseHandler) LogError(c *gin.Context, err error, msg string, args ...any) {
	args = append(args, "error", err, "path", c.FullPath())
	utils.GetLogger(c, h.logger).Error(msg, args...)
}

// parseIDParam writes a 400 and returns 0 when the path id is not a positive integer
func (h *BaseHandler) parseIDParam(c *gin.Context, param string) uint {
	id, err := strconv.ParseUint(c.Param(param), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Message: "Invalid " + param,
			Details: c.Param(param),
		})
		return 0
	}
	return uint(id)
}
