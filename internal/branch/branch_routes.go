package branch

import (
	"github.com/yuvrajkohlioffice/HRMS/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	branches := r.Group("/companies/:company_id/branches")
	branches.Use(middleware.AuthMiddleware())
	{
		branches.POST("", h.Create)
		branches.GET("", h.GetAll)
		branches.GET("/:branch_id", h.GetByID)
		branches.PUT("/:branch_id", h.Update)
	}
}
