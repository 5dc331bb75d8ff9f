package leave

import (
	"github.com/yuvrajkohlioffice/HRMS/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, h *Handler, idempotency gin.HandlerFunc) {
	leaves := r.Group("/companies/:company_id/leaves")
	leaves.Use(middleware.AuthMiddleware())
	{
		leaves.POST("", idempotency, h.Create)
		leaves.GET("", h.GetAll)
		leaves.GET("/:leave_id", h.GetByID)
		leaves.PATCH("/:leave_id/status", idempotency, h.UpdateStatus)
	}

	balances := r.Group("/companies/:company_id/employees/:employee_id/leave-balances")
	balances.Use(middleware.AuthMiddleware())
	{
		balances.GET("", h.GetBalances)
	}
}
