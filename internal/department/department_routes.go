package department

import (
	"github.com/yuvrajkohlioffice/HRMS/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	departments := r.Group("/companies/:company_id/departments")
	departments.Use(middleware.AuthMiddleware())
	{
		departments.POST("", h.Create)
		departments.GET("", h.GetAll)
		departments.GET("/:department_id", h.GetByID)
		departments.PUT("/:department_id", h.Update)
	}
}
