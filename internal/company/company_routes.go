package company

import (
	"github.com/yuvrajkohlioffice/HRMS/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	companies := r.Group("/companies")
	companies.Use(middleware.AuthMiddleware())
	{
		companies.POST("", h.Create)
		companies.GET("", h.GetAll)
		companies.GET("/:company_id", h.GetByID)
		companies.PUT("/:company_id", h.Update)
	}
}
