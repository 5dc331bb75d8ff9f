package company

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/yuvrajkohlioffice/HRMS/internal/accesscontrol"
	companyerrors "github.com/yuvrajkohlioffice/HRMS/internal/company/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=company_service.go -destination=mock/company_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor accesscontrol.Actor, req CreateCompanyRequest) (CompanyResponse, error)
	GetAll(ctx context.Context, actor accesscontrol.Actor) ([]CompanyResponse, error)
	GetByID(ctx context.Context, actor accesscontrol.Actor, id string) (CompanyResponse, error)
	Update(ctx context.Context, actor accesscontrol.Actor, id string, req UpdateCompanyRequest) (CompanyResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	policy accesscontrol.Policy
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, policy accesscontrol.Policy, logger ...*zap.Logger) Service {
	l := zap.L().Named("company.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("company.service")
	}
	return &service{db: db, repo: repo, policy: policy, logger: l}
}

func (s *service) Create(ctx context.Context, actor accesscontrol.Actor, req CreateCompanyRequest) (CompanyResponse, error) {
	if _, err := s.policy.Authorize(actor, accesscontrol.OpCompanyCreate, nil); err != nil {
		return CompanyResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CompanyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.CodeExists(ctx, req.Code)
	if err != nil {
		return CompanyResponse{}, err
	}
	if exists {
		return CompanyResponse{}, companyerrors.ErrCompanyCodeExists
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}
	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}

	row := &Company{
		ID:       uuid.New(),
		Name:     req.Name,
		Code:     req.Code,
		Country:  req.Country,
		Currency: currency,
		Timezone: timezone,
		Address:  req.Address,
		Phone:    req.Phone,
		Email:    req.Email,
		Website:  req.Website,
		IsActive: true,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return CompanyResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return CompanyResponse{}, err
	}

	s.logger.Info("company created",
		zap.String("company_id", row.ID.String()),
		zap.String("code", row.Code),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, actor accesscontrol.Actor) ([]CompanyResponse, error) {
	scope, err := s.policy.Authorize(actor, accesscontrol.OpOrgRead, nil)
	if err != nil {
		return nil, err
	}

	// Non-super callers see exactly their own company.
	if scope.CompanyID != nil {
		row, err := s.repo.FindByID(ctx, scope.CompanyID.String())
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return []CompanyResponse{}, nil
			}
			return nil, err
		}
		return []CompanyResponse{mapToResponse(*row)}, nil
	}

	rows, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	resp := make([]CompanyResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actor accesscontrol.Actor, id string) (CompanyResponse, error) {
	companyID, err := uuid.Parse(id)
	if err != nil {
		return CompanyResponse{}, companyerrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpOrgRead, &companyID); err != nil {
		return CompanyResponse{}, err
	}

	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompanyResponse{}, companyerrors.ErrCompanyNotFound
		}
		return CompanyResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, actor accesscontrol.Actor, id string, req UpdateCompanyRequest) (CompanyResponse, error) {
	companyID, err := uuid.Parse(id)
	if err != nil {
		return CompanyResponse{}, companyerrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpCompanyWrite, &companyID); err != nil {
		return CompanyResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CompanyResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return CompanyResponse{}, companyerrors.ErrCompanyNotFound
		}
		return CompanyResponse{}, err
	}

	if req.Name != nil {
		row.Name = *req.Name
	}
	if req.Country != nil {
		row.Country = *req.Country
	}
	if req.Currency != nil {
		row.Currency = *req.Currency
	}
	if req.Timezone != nil {
		row.Timezone = *req.Timezone
	}
	if req.Address != nil {
		row.Address = req.Address
	}
	if req.Phone != nil {
		row.Phone = req.Phone
	}
	if req.Email != nil {
		row.Email = req.Email
	}
	if req.Website != nil {
		row.Website = req.Website
	}
	if req.IsActive != nil {
		row.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, row); err != nil {
		return CompanyResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return CompanyResponse{}, err
	}

	s.logger.Info("company updated", zap.String("company_id", id))
	return mapToResponse(*row), nil
}

func mapRepositoryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return companyerrors.ErrCompanyCodeExists
	}
	if strings.Contains(strings.ToLower(err.Error()), "duplicate key value") {
		return companyerrors.ErrCompanyCodeExists
	}
	return err
}

func mapToResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Code:      c.Code,
		Country:   c.Country,
		Currency:  c.Currency,
		Timezone:  c.Timezone,
		Address:   c.Address,
		Phone:     c.Phone,
		Email:     c.Email,
		Website:   c.Website,
		LogoURL:   c.LogoURL,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: c.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
