package auth

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	autherrors "github.com/yuvrajkohlioffice/HRMS/internal/auth/errors"
)

type fakeRepo struct {
	createFn     func(ctx context.Context, user *User) error
	getByEmailFn func(ctx context.Context, email string) (*User, error)
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*User, error)
}

func (f *fakeRepo) Create(ctx context.Context, user *User) error { return f.createFn(ctx, user) }
func (f *fakeRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	return f.getByEmailFn(ctx, email)
}
func (f *fakeRepo) GetByID(ctx context.Context, id uuid.UUID) (*User, error) {
	return f.getByIDFn(ctx, id)
}

func TestService_Register(t *testing.T) {
	companyID := uuid.New().String()

	var created User
	repo := &fakeRepo{}
	repo.createFn = func(ctx context.Context, user *User) error { created = *user; return nil }

	svc := NewService(repo)
	resp, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "ana@example.com",
		Password:  "s3cret-pass",
		Role:      "manager",
		CompanyID: &companyID,
	})
	assert.NoError(t, err)
	assert.Equal(t, "manager", resp.Role)
	assert.True(t, resp.IsActive)
	assert.NotEqual(t, "s3cret-pass", created.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(created.Password), []byte("s3cret-pass")))
}

func TestService_Register_CompanyRequired(t *testing.T) {
	svc := NewService(&fakeRepo{})
	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "ana@example.com",
		Password: "s3cret-pass",
		Role:     "employee",
	})
	assert.ErrorIs(t, err, autherrors.ErrCompanyRequired)
}

func TestService_Register_InvalidRole(t *testing.T) {
	svc := NewService(&fakeRepo{})
	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:    "ana@example.com",
		Password: "s3cret-pass",
		Role:     "owner",
	})
	assert.ErrorIs(t, err, autherrors.ErrInvalidRole)
}

func TestService_Register_DuplicateEmail(t *testing.T) {
	companyID := uuid.New().String()

	repo := &fakeRepo{}
	repo.createFn = func(ctx context.Context, user *User) error {
		return assertDuplicateErr{}
	}

	svc := NewService(repo)
	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:     "ana@example.com",
		Password:  "s3cret-pass",
		Role:      "employee",
		CompanyID: &companyID,
	})
	assert.ErrorIs(t, err, autherrors.ErrEmailAlreadyRegistered)
}

type assertDuplicateErr struct{}

func (assertDuplicateErr) Error() string {
	return `ERROR: duplicate key value violates unique constraint "uq_users_email" (SQLSTATE 23505)`
}

func TestService_Login(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	hashed, _ := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	companyID := uuid.New()
	user := &User{
		ID:        uuid.New(),
		Email:     "ana@example.com",
		Password:  string(hashed),
		Role:      "employee",
		CompanyID: &companyID,
		IsActive:  true,
	}

	repo := &fakeRepo{}
	repo.getByEmailFn = func(ctx context.Context, email string) (*User, error) { return user, nil }

	svc := NewService(repo)
	resp, err := svc.Login(context.Background(), "ana@example.com", "s3cret-pass")
	assert.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.Equal(t, user.ID.String(), resp.User.ID)
}

func TestService_Login_WrongPassword(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	user := &User{ID: uuid.New(), Password: string(hashed), IsActive: true}

	repo := &fakeRepo{}
	repo.getByEmailFn = func(ctx context.Context, email string) (*User, error) { return user, nil }

	svc := NewService(repo)
	_, err := svc.Login(context.Background(), "ana@example.com", "wrong")
	assert.ErrorIs(t, err, autherrors.ErrInvalidCredentials)
}

func TestService_Login_InactiveAccount(t *testing.T) {
	hashed, _ := bcrypt.GenerateFromPassword([]byte("s3cret-pass"), bcrypt.DefaultCost)
	user := &User{ID: uuid.New(), Password: string(hashed), IsActive: false}

	repo := &fakeRepo{}
	repo.getByEmailFn = func(ctx context.Context, email string) (*User, error) { return user, nil }

	svc := NewService(repo)
	_, err := svc.Login(context.Background(), "ana@example.com", "s3cret-pass")
	assert.ErrorIs(t, err, autherrors.ErrAccountInactive)
}

func TestService_Me_NotFound(t *testing.T) {
	repo := &fakeRepo{}
	repo.getByIDFn = func(ctx context.Context, id uuid.UUID) (*User, error) {
		return nil, gorm.ErrRecordNotFound
	}

	svc := NewService(repo)
	_, err := svc.Me(context.Background(), uuid.New().String())
	assert.ErrorIs(t, err, autherrors.ErrUserNotFound)
}
