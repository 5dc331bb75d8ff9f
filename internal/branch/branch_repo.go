package branch

import (
	"context"
	"database/sql"

	"github.com/yuvrajkohlioffice/HRMS/internal/shared/connection"
	"github.com/yuvrajkohlioffice/HRMS/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=branch_repo.go -destination=mock/branch_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, b *Branch) error
	FindAllByCompany(ctx context.Context, companyID string) ([]Branch, error)
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Branch, error)
	Update(ctx context.Context, b *Branch) error
	CompanyExists(ctx context.Context, companyID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, b *Branch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string) ([]Branch, error) {
	var rows []Branch
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Branch, error) {
	var row Branch
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&row, "id = ?", id).Error
	return &row, err
}

func (r *repository) Update(ctx context.Context, b *Branch) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *repository) CompanyExists(ctx context.Context, companyID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("companies").
		Where("id = ?", companyID).
		Where("deleted_at IS NULL").
		Count(&count).Error
	return count > 0, err
}
