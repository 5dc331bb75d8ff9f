package company

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yuvrajkohlioffice/HRMS/internal/accesscontrol"
	companyerrors "github.com/yuvrajkohlioffice/HRMS/internal/company/errors"
)

type fakeRepo struct {
	createFn     func(ctx context.Context, c *Company) error
	codeExistsFn func(ctx context.Context, code string) (bool, error)
	findAllFn    func(ctx context.Context) ([]Company, error)
	findByIDFn   func(ctx context.Context, id string) (*Company, error)
	updateFn     func(ctx context.Context, c *Company) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                { return f }
func (f *fakeRepo) Create(ctx context.Context, c *Company) error { return f.createFn(ctx, c) }
func (f *fakeRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	return f.codeExistsFn(ctx, code)
}
func (f *fakeRepo) FindAll(ctx context.Context) ([]Company, error) { return f.findAllFn(ctx) }
func (f *fakeRepo) FindByID(ctx context.Context, id string) (*Company, error) {
	return f.findByIDFn(ctx, id)
}
func (f *fakeRepo) Update(ctx context.Context, c *Company) error { return f.updateFn(ctx, c) }

func newTestPolicy(t *testing.T) accesscontrol.Policy {
	t.Helper()
	p, err := accesscontrol.NewPolicy()
	assert.NoError(t, err)
	return p
}

func TestService_Create_SuperAdminOnly(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.codeExistsFn = func(ctx context.Context, code string) (bool, error) { return false, nil }
	repo.createFn = func(ctx context.Context, c *Company) error { return nil }

	svc := NewService(db, repo, newTestPolicy(t))

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), accesscontrol.SuperAdmin(uuid.New()), CreateCompanyRequest{
		Name:    "Acme Corp",
		Code:    "ACME",
		Country: "US",
	})
	assert.NoError(t, err)
	assert.Equal(t, "ACME", resp.Code)
	assert.Equal(t, "USD", resp.Currency)
	assert.Equal(t, "UTC", resp.Timezone)

	companyID := uuid.New()
	admin := accesscontrol.Actor{
		UserID:    uuid.New(),
		Role:      accesscontrol.RoleCompanyAdmin,
		CompanyID: &companyID,
	}
	_, err = svc.Create(context.Background(), admin, CreateCompanyRequest{Name: "Other", Code: "OTH"})
	assert.ErrorIs(t, err, accesscontrol.ErrOperationNotAllowed)
}

func TestService_CreateThenGetByID(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	var stored Company
	repo := &fakeRepo{}
	repo.codeExistsFn = func(ctx context.Context, code string) (bool, error) { return false, nil }
	repo.createFn = func(ctx context.Context, c *Company) error { stored = *c; return nil }
	repo.findByIDFn = func(ctx context.Context, id string) (*Company, error) {
		if id != stored.ID.String() {
			return nil, gorm.ErrRecordNotFound
		}
		return &stored, nil
	}

	svc := NewService(db, repo, newTestPolicy(t))
	actor := accesscontrol.SuperAdmin(uuid.New())

	address := "1 Main St"
	mock.ExpectBegin()
	mock.ExpectCommit()
	created, err := svc.Create(context.Background(), actor, CreateCompanyRequest{
		Name:    "Acme Corp",
		Code:    "ACME",
		Country: "US",
		Address: &address,
	})
	assert.NoError(t, err)

	got, err := svc.GetByID(context.Background(), actor, created.ID)
	assert.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Acme Corp", got.Name)
	assert.Equal(t, "ACME", got.Code)
	assert.Equal(t, "US", got.Country)
	assert.Equal(t, "USD", got.Currency)
	assert.Equal(t, "UTC", got.Timezone)
	assert.Equal(t, &address, got.Address)
	assert.True(t, got.IsActive)
}

func TestService_Create_DuplicateCode(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{}
	repo.codeExistsFn = func(ctx context.Context, code string) (bool, error) { return true, nil }

	svc := NewService(db, repo, newTestPolicy(t))

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), accesscontrol.SuperAdmin(uuid.New()), CreateCompanyRequest{
		Name: "Acme Corp",
		Code: "ACME",
	})
	assert.ErrorIs(t, err, companyerrors.ErrCompanyCodeExists)
}

func TestService_GetAll_ScopedToOwnCompany(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	admin := accesscontrol.Actor{
		UserID:    uuid.New(),
		Role:      accesscontrol.RoleCompanyAdmin,
		CompanyID: &companyID,
	}

	var askedID string
	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, id string) (*Company, error) {
		askedID = id
		return &Company{ID: companyID, Name: "Acme Corp", Code: "ACME"}, nil
	}

	svc := NewService(db, repo, newTestPolicy(t))
	resp, err := svc.GetAll(context.Background(), admin)
	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, companyID.String(), askedID)
}

func TestService_GetByID_CrossTenantDenied(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	admin := accesscontrol.Actor{
		UserID:    uuid.New(),
		Role:      accesscontrol.RoleCompanyAdmin,
		CompanyID: &companyID,
	}

	svc := NewService(db, &fakeRepo{}, newTestPolicy(t))
	_, err := svc.GetByID(context.Background(), admin, uuid.New().String())
	assert.ErrorIs(t, err, accesscontrol.ErrTenantMismatch)
}

func TestService_Update_ManagerDenied(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	manager := accesscontrol.Actor{
		UserID:    uuid.New(),
		Role:      accesscontrol.RoleManager,
		CompanyID: &companyID,
	}

	svc := NewService(db, &fakeRepo{}, newTestPolicy(t))
	name := "Renamed"
	_, err := svc.Update(context.Background(), manager, companyID.String(), UpdateCompanyRequest{Name: &name})
	assert.ErrorIs(t, err, accesscontrol.ErrOperationNotAllowed)
}
