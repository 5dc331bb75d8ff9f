package department

import (
	"context"
	"database/sql"

	"github.com/yuvrajkohlioffice/HRMS/internal/shared/connection"
	"github.com/yuvrajkohlioffice/HRMS/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=department_repo.go -destination=mock/department_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, dept *Department) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Department, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Department, error)
	Update(ctx context.Context, dept *Department) error
	CodeExists(ctx context.Context, companyID, code string, excludeID *string) (bool, error)
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

func (r *repository) Create(ctx context.Context, dept *Department) error {
	return r.db.WithContext(ctx).Create(dept).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Department, error) {
	var rows []Department
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Department, error) {
	var row Department
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&row, "id = ?", id).Error
	return &row, err
}

func (r *repository) Update(ctx context.Context, dept *Department) error {
	return r.db.WithContext(ctx).Save(dept).Error
}

func (r *repository) CodeExists(ctx context.Context, companyID, code string, excludeID *string) (bool, error) {
	db := r.db.WithContext(ctx).
		Model(&Department{}).
		Scopes(tenant.Scope(companyID)).
		Where("code = ?", code)

	if excludeID != nil && *excludeID != "" {
		db = db.Where("id <> ?", *excludeID)
	}

	var count int64
	err := db.Count(&count).Error
	return count > 0, err
}

func (r *repository) BranchBelongsToCompany(ctx context.Context, companyID, branchID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("branches").
		Where("id = ?", branchID).
		Where("company_id = ?", companyID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
