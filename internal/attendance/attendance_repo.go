package attendance

import (
	"context"
	"database/sql"
	"time"

	"github.com/yuvrajkohlioffice/HRMS/internal/shared/connection"
	"github.com/yuvrajkohlioffice/HRMS/internal/tenant"

	"gorm.io/gorm"
)

//go:generate mockgen -source=attendance_repo.go -destination=mock/attendance_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, att *Attendance) error
	FindByIDAndCompany(ctx context.Context, companyID, id string) (*Attendance, error)
	FindOpenByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Attendance, error)
	FindAllByCompany(ctx context.Context, companyID string, employeeID *string, from, to *time.Time) ([]Attendance, error)
	Update(ctx context.Context, att *Attendance) error
	ExistsForDate(ctx context.Context, employeeID string, date time.Time) (bool, error)
	EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error)
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

func (r *repository) Create(ctx context.Context, att *Attendance) error {
	return r.db.WithContext(ctx).Create(att).Error
}

func (r *repository) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Attendance, error) {
	var row Attendance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		First(&row, "id = ?", id).Error
	return &row, err
}

func (r *repository) FindOpenByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Attendance, error) {
	var row Attendance
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(companyID)).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		First(&row).Error
	return &row, err
}

func (r *repository) FindAllByCompany(ctx context.Context, companyID string, employeeID *string, from, to *time.Time) ([]Attendance, error) {
	db := r.db.WithContext(ctx).Scopes(tenant.Scope(companyID))
	if employeeID != nil && *employeeID != "" {
		db = db.Where("employee_id = ?", *employeeID)
	}
	if from != nil {
		db = db.Where("attendance_date >= ?", from.Format("2006-01-02"))
	}
	if to != nil {
		db = db.Where("attendance_date <= ?", to.Format("2006-01-02"))
	}

	var rows []Attendance
	err := db.Order("attendance_date DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) Update(ctx context.Context, att *Attendance) error {
	return r.db.WithContext(ctx).Save(att).Error
}

func (r *repository) ExistsForDate(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&Attendance{}).
		Where("employee_id = ?", employeeID).
		Where("attendance_date = ?", date.Format("2006-01-02")).
		Count(&count).Error
	return count > 0, err
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
