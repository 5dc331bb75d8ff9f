package employee

import (
	"github.com/yuvrajkohlioffice/HRMS/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	employees := r.Group("/companies/:company_id/employees")
	employees.Use(middleware.AuthMiddleware())
	{
		employees.POST("", h.Create)
		employees.GET("", h.GetAll)
		employees.GET("/options", h.GetOptions)
		employees.GET("/:employee_id", h.GetByID)
		employees.PUT("/:employee_id", h.Update)
		employees.DELETE("/:employee_id", h.Delete)
	}
}
