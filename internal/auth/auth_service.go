package auth

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/yuvrajkohlioffice/HRMS/internal/accesscontrol"
	autherrors "github.com/yuvrajkohlioffice/HRMS/internal/auth/errors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Register(ctx context.Context, req RegisterRequest) (UserResponse, error)
	Login(ctx context.Context, email, password string) (TokenResponse, error)
	Me(ctx context.Context, userID string) (UserResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Register(ctx context.Context, req RegisterRequest) (UserResponse, error) {
	role, err := accesscontrol.ParseRole(req.Role)
	if err != nil {
		return UserResponse{}, autherrors.ErrInvalidRole
	}

	var companyID *uuid.UUID
	if req.CompanyID != nil && *req.CompanyID != "" {
		id, err := uuid.Parse(*req.CompanyID)
		if err != nil {
			return UserResponse{}, autherrors.ErrInvalidCompanyID
		}
		companyID = &id
	}
	if role != accesscontrol.RoleSuperAdmin && companyID == nil {
		return UserResponse{}, autherrors.ErrCompanyRequired
	}

	var employeeID *uuid.UUID
	if req.EmployeeID != nil && *req.EmployeeID != "" {
		id, err := uuid.Parse(*req.EmployeeID)
		if err != nil {
			return UserResponse{}, autherrors.ErrInvalidEmployeeID
		}
		employeeID = &id
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	user := &User{
		ID:         uuid.New(),
		Email:      req.Email,
		Password:   string(hashed),
		Role:       string(role),
		CompanyID:  companyID,
		EmployeeID: employeeID,
		IsActive:   true,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		s.logger.Warn("register persist failed",
			zap.String("email", req.Email),
			zap.Error(err),
		)
		return UserResponse{}, mapCreateError(err)
	}

	s.logger.Info("user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
	)
	return mapToUserResponse(user), nil
}

func (s *service) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return TokenResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return TokenResponse{}, autherrors.ErrInvalidCredentials
	}

	if !user.IsActive {
		return TokenResponse{}, autherrors.ErrAccountInactive
	}

	token, err := generateToken(user, 24*time.Hour)
	if err != nil {
		return TokenResponse{}, autherrors.ErrTokenGenerationFailed
	}

	s.logger.Info("login success",
		zap.String("user_id", user.ID.String()),
		zap.String("role", user.Role),
	)

	return TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        mapToUserResponse(user),
	}, nil
}

func (s *service) Me(ctx context.Context, userID string) (UserResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return UserResponse{}, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, autherrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	return mapToUserResponse(user), nil
}

func generateToken(user *User, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID.String(),
		"role":    user.Role,
		"exp":     time.Now().Add(expiry).Unix(),
	}
	if user.CompanyID != nil {
		claims["company_id"] = user.CompanyID.String()
	}
	if user.EmployeeID != nil {
		claims["employee_id"] = user.EmployeeID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapCreateError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return autherrors.ErrEmailAlreadyRegistered
	}
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return autherrors.ErrEmailAlreadyRegistered
	}
	return err
}

func mapToUserResponse(u *User) UserResponse {
	resp := UserResponse{
		ID:       u.ID.String(),
		Email:    u.Email,
		Role:     u.Role,
		IsActive: u.IsActive,
	}
	if u.CompanyID != nil {
		v := u.CompanyID.String()
		resp.CompanyID = &v
	}
	if u.EmployeeID != nil {
		v := u.EmployeeID.String()
		resp.EmployeeID = &v
	}
	return resp
}
