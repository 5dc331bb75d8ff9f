package branch_test

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"

	"github.com/yuvrajkohlioffice/HRMS/internal/accesscontrol"
	"github.com/yuvrajkohlioffice/HRMS/internal/branch"
	"github.com/yuvrajkohlioffice/HRMS/internal/branch/mock"
)

func newTestPolicy(t *testing.T) accesscontrol.Policy {
	t.Helper()
	p, err := accesscontrol.NewPolicy()
	assert.NoError(t, err)
	return p
}

func adminActor(companyID uuid.UUID) accesscontrol.Actor {
	return accesscontrol.Actor{
		UserID:    uuid.New(),
		Role:      accesscontrol.RoleCompanyAdmin,
		CompanyID: &companyID,
	}
}

func TestService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	db, dbmock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	actor := adminActor(companyID)

	repo := mock.NewMockRepository(ctrl)
	repo.EXPECT().WithTx(gomock.Any()).Return(repo)
	repo.EXPECT().CompanyExists(gomock.Any(), companyID.String()).Return(true, nil)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, b *branch.Branch) error {
			assert.Equal(t, companyID, b.CompanyID)
			assert.True(t, b.IsActive)
			return nil
		})

	svc := branch.NewService(db, repo, newTestPolicy(t))

	dbmock.ExpectBegin()
	dbmock.ExpectCommit()
	resp, err := svc.Create(context.Background(), actor, companyID.String(), branch.CreateBranchRequest{
		Name: "Lisbon HQ",
		Code: "LIS",
	})
	assert.NoError(t, err)
	assert.Equal(t, "LIS", resp.Code)
	assert.NoError(t, dbmock.ExpectationsWereMet())
}

func TestService_Create_CompanyMissing(t *testing.T) {
	ctrl := gomock.NewController(t)
	db, dbmock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	actor := adminActor(companyID)

	repo := mock.NewMockRepository(ctrl)
	repo.EXPECT().WithTx(gomock.Any()).Return(repo)
	repo.EXPECT().CompanyExists(gomock.Any(), companyID.String()).Return(false, nil)

	svc := branch.NewService(db, repo, newTestPolicy(t))

	dbmock.ExpectBegin()
	dbmock.ExpectRollback()
	_, err := svc.Create(context.Background(), actor, companyID.String(), branch.CreateBranchRequest{
		Name: "Lisbon HQ",
		Code: "LIS",
	})
	assert.ErrorIs(t, err, branch.ErrCompanyNotFound)
}

func TestService_GetByID_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	actor := adminActor(companyID)

	repo := mock.NewMockRepository(ctrl)
	repo.EXPECT().FindByIDAndCompany(gomock.Any(), companyID.String(), gomock.Any()).
		Return(nil, gorm.ErrRecordNotFound)

	svc := branch.NewService(db, repo, newTestPolicy(t))
	_, err := svc.GetByID(context.Background(), actor, companyID.String(), uuid.New().String())
	assert.ErrorIs(t, err, branch.ErrBranchNotFound)
}

func TestService_Create_EmployeeDenied(t *testing.T) {
	ctrl := gomock.NewController(t)
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	employeeID := uuid.New()
	actor := accesscontrol.Actor{
		UserID:     uuid.New(),
		Role:       accesscontrol.RoleEmployee,
		CompanyID:  &companyID,
		EmployeeID: &employeeID,
	}

	svc := branch.NewService(db, mock.NewMockRepository(ctrl), newTestPolicy(t))
	_, err := svc.Create(context.Background(), actor, companyID.String(), branch.CreateBranchRequest{
		Name: "Lisbon HQ",
		Code: "LIS",
	})
	assert.ErrorIs(t, err, accesscontrol.ErrOperationNotAllowed)
}
