package leave

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

// The balance lock must hold until the service commits, so WithTx has to
// route statements through the caller's transaction and not the pool.
func TestRepository_WithTxRunsOnTransaction(t *testing.T) {
	gormDB, poolMock := newGormOverMock(t)

	txDB, txMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer txDB.Close()

	employeeID := uuid.New()
	balanceID := uuid.New()

	txMock.ExpectBegin()
	txMock.ExpectQuery(`SELECT (.+) FROM "leave_balances"(.+)FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "employee_id", "leave_type", "year", "allocated_days", "carried_forward", "used_days"}).
			AddRow(balanceID.String(), employeeID.String(), TypeAnnual, 2026, 20, 0, 2))
	txMock.ExpectCommit()

	tx, err := txDB.Begin()
	assert.NoError(t, err)

	repo := NewRepository(gormDB).WithTx(tx)
	bal, err := repo.FindBalanceForUpdate(context.Background(), employeeID.String(), TypeAnnual, 2026)
	assert.NoError(t, err)
	assert.Equal(t, 20, bal.AllocatedDays)
	assert.Equal(t, 2, bal.UsedDays)

	assert.NoError(t, tx.Commit())
	assert.NoError(t, txMock.ExpectationsWereMet())
	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestRepository_WithTxWritesJoinTransaction(t *testing.T) {
	gormDB, poolMock := newGormOverMock(t)

	txDB, txMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer txDB.Close()

	txMock.ExpectBegin()
	txMock.ExpectExec(`INSERT INTO "leave_balances"`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	txMock.ExpectRollback()

	tx, err := txDB.Begin()
	assert.NoError(t, err)

	repo := NewRepository(gormDB).WithTx(tx)
	err = repo.CreateBalance(context.Background(), &LeaveBalance{
		ID:             uuid.New(),
		CompanyID:      uuid.New(),
		EmployeeID:     uuid.New(),
		LeaveType:      TypeAnnual,
		Year:           2026,
		AllocatedDays:  20,
		CarriedForward: 5,
		UsedDays:       1,
	})
	assert.NoError(t, err)

	assert.NoError(t, tx.Rollback())
	assert.NoError(t, txMock.ExpectationsWereMet())
	assert.NoError(t, poolMock.ExpectationsWereMet())
}
