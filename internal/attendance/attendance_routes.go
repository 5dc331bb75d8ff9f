package attendance

import (
	"github.com/yuvrajkohlioffice/HRMS/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, idempotency gin.HandlerFunc) {
	attendances := r.Group("/companies/:company_id/attendance")
	attendances.Use(middleware.AuthMiddleware())
	{
		attendances.POST("/clock-in", idempotency, h.ClockIn)
		attendances.POST("/:attendance_id/clock-out", idempotency, h.ClockOut)
		attendances.GET("", h.GetAll)
		attendances.GET("/:attendance_id", h.GetByID)
	}
}
