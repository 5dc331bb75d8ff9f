package employee

import (
	"context"
	"database/sql"

	"github.com/yuvrajkohlioffice/HRMS/internal/shared/connection"
	"github.com/yuvrajkohlioffice/HRMS/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=employee_repo.go -destination=mock/employee_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, empl *Employee) error
	FindAllByCompany(ctx context.Context, companyID string, q ListEmployeesQuery) ([]Employee, error)
	FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error)
	Update(ctx context.Context, empl *Employee) error
	SoftDelete(ctx context.Context, companyID, id string) (int64, error)
	CodeExists(ctx context.Context, companyID, code string) (bool, error)
	DepartmentBelongsToCompany(ctx context.Context, companyID, departmentID string) (bool, error)
	TeamBelongsToCompany(ctx context.Context, companyID, teamID string) (bool, error)
	BranchBelongsToCompany(ctx context.Context, companyID, branchID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Create(empl).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, q ListEmployeesQuery) ([]Employee, error) {
	db := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if q.DepartmentID != nil && *q.DepartmentID != "" {
		db = db.Where("department_id = ?", *q.DepartmentID)
	}
	if q.EmploymentStatus != nil && *q.EmploymentStatus != "" {
		db = db.Where("employment_status = ?", *q.EmploymentStatus)
	}

	var rows []Employee
	err := db.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	var rows []Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Select("id", "company_id", "employee_code", "first_name", "last_name", "email", "designation", "employment_type", "employment_status", "shift_type", "hire_date", "created_at", "updated_at").
		Where("employment_status = ?", EmploymentStatusActive).
		Order("first_name ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error) {
	var row Employee
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&row, "id = ?", id).Error
	return &row, err
}

func (r *repository) Update(ctx context.Context, empl *Employee) error {
	return r.db.WithContext(ctx).Save(empl).Error
}

func (r *repository) SoftDelete(ctx context.Context, companyID, id string) (int64, error) {
	res := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("id = ?", id).
		Delete(&Employee{})
	return res.RowsAffected, res.Error
}

func (r *repository) CodeExists(ctx context.Context, companyID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Employee{}).
		Scopes(tenant.Scope(companyID)).
		Where("employee_code = ?", code).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) DepartmentBelongsToCompany(ctx context.Context, companyID, departmentID string) (bool, error) {
	return r.referenceInCompany(ctx, "departments", companyID, departmentID)
}

func (r *repository) TeamBelongsToCompany(ctx context.Context, companyID, teamID string) (bool, error) {
	return r.referenceInCompany(ctx, "teams", companyID, teamID)
}

func (r *repository) BranchBelongsToCompany(ctx context.Context, companyID, branchID string) (bool, error) {
	return r.referenceInCompany(ctx, "branches", companyID, branchID)
}

func (r *repository) referenceInCompany(ctx context.Context, table, companyID, id string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table(table).
		Where("id = ?", id).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
