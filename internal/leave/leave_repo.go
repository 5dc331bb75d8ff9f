package leave

import (
	"context"
	"database/sql"

	"github.com/yuvrajkohlioffice/HRMS/internal/shared/connection"
	"github.com/yuvrajkohlioffice/HRMS/internal/tenant"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

//go:generate mockgen -source=leave_repo.go -destination=mock/leave_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, lv *Leave) error
	FindAllByCompany(ctx context.Context, companyID string, employeeID, status *string) ([]Leave, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Leave, error)
	Update(ctx context.Context, lv *Leave) error
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)

	CreateBalance(ctx context.Context, bal *LeaveBalance) error
	FindBalanceForUpdate(ctx context.Context, employeeID, leaveType string, year int) (*LeaveBalance, error)
	UpdateBalance(ctx context.Context, bal *LeaveBalance) error
	FindBalancesByEmployee(ctx context.Context, companyID, employeeID string, year int) ([]LeaveBalance, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: connection.BindTx(r.db, tx)}
}

func (r *repository) Create(ctx context.Context, lv *Leave) error {
	return r.db.WithContext(ctx).Create(lv).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, employeeID, status *string) ([]Leave, error) {
	db := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if employeeID != nil && *employeeID != "" {
		db = db.Where("employee_id = ?", *employeeID)
	}
	if status != nil && *status != "" {
		db = db.Where("status = ?", *status)
	}

	var rows []Leave
	err := db.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Leave, error) {
	var row Leave
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&row, "id = ?", id).Error
	return &row, err
}

func (r *repository) Update(ctx context.Context, lv *Leave) error {
	return r.db.WithContext(ctx).Save(lv).Error
}

func (r *repository) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("employees").
		Where("id = ?", employeeID).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}

func (r *repository) CreateBalance(ctx context.Context, bal *LeaveBalance) error {
	return r.db.WithContext(ctx).Create(bal).Error
}

// FindBalanceForUpdate locks the balance row so a concurrent approval of
// another request for the same employee cannot double-spend days.
func (r *repository) FindBalanceForUpdate(ctx context.Context, employeeID, leaveType string, year int) (*LeaveBalance, error) {
	var row LeaveBalance
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("employee_id = ?", employeeID).
		Where("leave_type = ?", leaveType).
		Where("year = ?", year).
		First(&row).Error
	return &row, err
}

func (r *repository) UpdateBalance(ctx context.Context, bal *LeaveBalance) error {
	return r.db.WithContext(ctx).Save(bal).Error
}

func (r *repository) FindBalancesByEmployee(ctx context.Context, companyID, employeeID string, year int) ([]LeaveBalance, error) {
	var rows []LeaveBalance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("year = ?", year).
		Order("leave_type ASC").
		Find(&rows).Error
	return rows, err
}
