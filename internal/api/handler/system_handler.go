package handler

import (
	"github.com/gin-gonic/gin"

	"studio-booking/internal/dto"
	"studio-booking/pkg/response"
)

// SystemHandler 根路径与健康检查
type SystemHandler struct {
	adminEmail string
}

// NewSystemHandler 创建 SystemHandler
func NewSystemHandler(adminEmail string) *SystemHandler {
	return &SystemHandler{adminEmail: adminEmail}
}

// Welcome GET /
func (h *SystemHandler) Welcome(c *gin.Context) {
	response.OK(c, dto.WelcomeResponse{
		Message:    "Studio Booking API",
		Docs:       "/health, /rooms/, /bookings/available-slots",
		AdminEmail: h.adminEmail,
	})
}

// Health GET /health
func (h *SystemHandler) Health(c *gin.Context) {
	response.OK(c, gin.H{"status": "healthy"})
}
