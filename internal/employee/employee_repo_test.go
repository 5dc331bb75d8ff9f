package employee

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newGormOverMock(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	gormDB, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	assert.NoError(t, err)
	return gormDB, mock
}

func TestRepository_ReadsExcludeSoftDeleted(t *testing.T) {
	gormDB, mock := newGormOverMock(t)

	companyID := uuid.New()
	employeeID := uuid.New()

	mock.ExpectQuery(`SELECT (.+) FROM "employees" WHERE (.+)"deleted_at" IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "company_id", "employee_code"}).
			AddRow(employeeID.String(), companyID.String(), "EMP-000001"))

	repo := NewRepository(gormDB)
	row, err := repo.FindByIDAndCompany(context.Background(), companyID.String(), employeeID.String())
	assert.NoError(t, err)
	assert.Equal(t, "EMP-000001", row.EmployeeCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CodeExistsIgnoresSoftDeleted(t *testing.T) {
	gormDB, mock := newGormOverMock(t)

	companyID := uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "employees" WHERE (.+)"deleted_at" IS NULL`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	repo := NewRepository(gormDB)
	exists, err := repo.CodeExists(context.Background(), companyID.String(), "EMP-000001")
	assert.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Deleting must stamp deleted_at rather than remove the row, so history
// stays queryable for audits.
func TestRepository_SoftDeleteIssuesUpdate(t *testing.T) {
	gormDB, mock := newGormOverMock(t)

	companyID := uuid.New()
	employeeID := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "employees" SET "deleted_at"=(.+)WHERE (.+)"deleted_at" IS NULL`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	repo := NewRepository(gormDB)
	affected, err := repo.SoftDelete(context.Background(), companyID.String(), employeeID.String())
	assert.NoError(t, err)
	assert.Equal(t, int64(1), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}
