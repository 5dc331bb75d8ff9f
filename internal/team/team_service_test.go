package team

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/yuvrajkohlioffice/HRMS/internal/accesscontrol"
)

type fakeRepo struct {
	createFn        func(ctx context.Context, tm *Team) error
	findAllFn       func(ctx context.Context, companyID string, departmentID *string) ([]Team, error)
	findByIDFn      func(ctx context.Context, companyID, id string) (*Team, error)
	updateFn        func(ctx context.Context, tm *Team) error
	deptInCompanyFn func(ctx context.Context, companyID, departmentID string) (bool, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository             { return f }
func (f *fakeRepo) Create(ctx context.Context, tm *Team) error { return f.createFn(ctx, tm) }
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string, departmentID *string) ([]Team, error) {
	return f.findAllFn(ctx, companyID, departmentID)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Team, error) {
	return f.findByIDFn(ctx, companyID, id)
}
func (f *fakeRepo) Update(ctx context.Context, tm *Team) error { return f.updateFn(ctx, tm) }
func (f *fakeRepo) DepartmentBelongsToCompany(ctx context.Context, companyID, departmentID string) (bool, error) {
	return f.deptInCompanyFn(ctx, companyID, departmentID)
}

func newTestPolicy(t *testing.T) accesscontrol.Policy {
	t.Helper()
	p, err := accesscontrol.NewPolicy()
	assert.NoError(t, err)
	return p
}

func TestService_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	departmentID := uuid.New()
	actor := accesscontrol.Actor{
		UserID:    uuid.New(),
		Role:      accesscontrol.RoleCompanyAdmin,
		CompanyID: &companyID,
	}

	var created Team
	repo := &fakeRepo{}
	repo.createFn = func(ctx context.Context, tm *Team) error { created = *tm; return nil }
	repo.deptInCompanyFn = func(ctx context.Context, companyID, departmentID string) (bool, error) {
		return true, nil
	}

	svc := NewService(db, repo, newTestPolicy(t))

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), actor, companyID.String(), CreateTeamRequest{
		Name:         "Platform",
		DepartmentID: departmentID.String(),
	})
	assert.NoError(t, err)
	assert.Equal(t, "Platform", resp.Name)
	assert.Equal(t, departmentID, created.DepartmentID)
	assert.True(t, created.IsActive)
}

func TestService_Create_DepartmentNotInCompany(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	actor := accesscontrol.Actor{
		UserID:    uuid.New(),
		Role:      accesscontrol.RoleCompanyAdmin,
		CompanyID: &companyID,
	}

	repo := &fakeRepo{}
	repo.deptInCompanyFn = func(ctx context.Context, companyID, departmentID string) (bool, error) {
		return false, nil
	}

	svc := NewService(db, repo, newTestPolicy(t))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), actor, companyID.String(), CreateTeamRequest{
		Name:         "Platform",
		DepartmentID: uuid.New().String(),
	})
	assert.ErrorIs(t, err, ErrDepartmentNotInCompany)
}

func TestService_GetAll_FiltersByDepartment(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	departmentID := uuid.New().String()
	actor := accesscontrol.Actor{
		UserID:    uuid.New(),
		Role:      accesscontrol.RoleManager,
		CompanyID: &companyID,
	}

	var gotFilter *string
	repo := &fakeRepo{}
	repo.findAllFn = func(ctx context.Context, companyID string, deptID *string) ([]Team, error) {
		gotFilter = deptID
		return nil, nil
	}

	svc := NewService(db, repo, newTestPolicy(t))
	_, err := svc.GetAll(context.Background(), actor, companyID.String(), &departmentID)
	assert.NoError(t, err)
	assert.NotNil(t, gotFilter)
	assert.Equal(t, departmentID, *gotFilter)
}
