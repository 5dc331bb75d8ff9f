package team

import (
	"github.com/yuvrajkohlioffice/HRMS/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	teams := r.Group("/companies/:company_id/teams")
	teams.Use(middleware.AuthMiddleware())
	{
		teams.POST("", h.Create)
		teams.GET("", h.GetAll)
		teams.GET("/:team_id", h.GetByID)
		teams.PUT("/:team_id", h.Update)
	}
}
