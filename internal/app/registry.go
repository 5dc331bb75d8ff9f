package app

import (
	"database/sql"

	"github.com/yuvrajkohlioffice/HRMS/internal/accesscontrol"
	"github.com/yuvrajkohlioffice/HRMS/internal/attendance"
	"github.com/yuvrajkohlioffice/HRMS/internal/auth"
	"github.com/yuvrajkohlioffice/HRMS/internal/branch"
	"github.com/yuvrajkohlioffice/HRMS/internal/company"
	"github.com/yuvrajkohlioffice/HRMS/internal/department"
	"github.com/yuvrajkohlioffice/HRMS/internal/employee"
	"github.com/yuvrajkohlioffice/HRMS/internal/leave"
	"github.com/yuvrajkohlioffice/HRMS/internal/messaging/kafka"
	"github.com/yuvrajkohlioffice/HRMS/internal/middleware"
	"github.com/yuvrajkohlioffice/HRMS/internal/shared/counter"
	"github.com/yuvrajkohlioffice/HRMS/internal/team"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	companyRepo := company.NewRepository(gormDB)
	branchRepo := branch.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	teamRepo := team.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- Access Policy ---
	policy, err := accesscontrol.NewPolicy()
	if err != nil {
		return err
	}

	// --- Services ---
	authService := auth.NewService(authRepo)
	companyService := company.NewService(db, companyRepo, policy)
	branchService := branch.NewService(db, branchRepo, policy)
	departmentService := department.NewService(db, departmentRepo, policy)
	teamService := team.NewService(db, teamRepo, policy)
	employeeService := employee.NewServiceWithOutbox(db, employeeRepo, counterRepo, outboxRepo, policy, rdb)
	attendanceService := attendance.NewService(db, attendanceRepo, policy)
	leaveService := leave.NewService(db, leaveRepo, policy)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	companyHandler := company.NewHandler(companyService)
	branchHandler := branch.NewHandler(branchService)
	departmentHandler := department.NewHandler(departmentService)
	teamHandler := team.NewHandler(teamService)
	employeeHandler := employee.NewHandler(employeeService)
	attendanceHandler := attendance.NewHandler(attendanceService)
	leaveHandler := leave.NewHandler(leaveService)

	idempotency := middleware.Idempotency(rdb)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	api.Use(middleware.RequestID())
	{
		auth.RegisterRoutes(api, authHandler)
		company.RegisterRoutes(api, companyHandler)
		branch.RegisterRoutes(api, branchHandler)
		department.RegisterRoutes(api, departmentHandler)
		team.RegisterRoutes(api, teamHandler)
		employee.RegisterRoutes(api, employeeHandler)
		attendance.RegisterRoutes(api, attendanceHandler, idempotency)
		leave.RegisterRoutes(api, leaveHandler, idempotency)
	}

	return nil
}
