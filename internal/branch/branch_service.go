package branch

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/yuvrajkohlioffice/HRMS/internal/accesscontrol"
	"github.com/yuvrajkohlioffice/HRMS/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var (
	ErrBranchNotFound = apperror.New(
		apperror.CodeNotFound,
		"branch not found",
		http.StatusNotFound,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrCompanyNotFound = apperror.New(
		apperror.CodeInvalidReference,
		"company does not exist",
		http.StatusBadRequest,
	)
)

//go:generate mockgen -source=branch_service.go -destination=mock/branch_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor accesscontrol.Actor, companyID string, req CreateBranchRequest) (BranchResponse, error)
	GetAll(ctx context.Context, actor accesscontrol.Actor, companyID string) ([]BranchResponse, error)
	GetByID(ctx context.Context, actor accesscontrol.Actor, companyID, id string) (BranchResponse, error)
	Update(ctx context.Context, actor accesscontrol.Actor, companyID, id string, req UpdateBranchRequest) (BranchResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	policy accesscontrol.Policy
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, policy accesscontrol.Policy, logger ...*zap.Logger) Service {
	l := zap.L().Named("branch.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("branch.service")
	}
	return &service{db: db, repo: repo, policy: policy, logger: l}
}

func (s *service) Create(ctx context.Context, actor accesscontrol.Actor, companyID string, req CreateBranchRequest) (BranchResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return BranchResponse{}, ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpOrgWrite, &companyUUID); err != nil {
		return BranchResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BranchResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	exists, err := qtx.CompanyExists(ctx, companyID)
	if err != nil {
		return BranchResponse{}, err
	}
	if !exists {
		return BranchResponse{}, ErrCompanyNotFound
	}

	row := &Branch{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		Name:      req.Name,
		Code:      req.Code,
		Address:   req.Address,
		Phone:     req.Phone,
		IsActive:  true,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return BranchResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return BranchResponse{}, err
	}

	s.logger.Info("branch created",
		zap.String("branch_id", row.ID.String()),
		zap.String("company_id", companyID),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, actor accesscontrol.Actor, companyID string) ([]BranchResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpOrgRead, &companyUUID); err != nil {
		return nil, err
	}

	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]BranchResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actor accesscontrol.Actor, companyID, id string) (BranchResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return BranchResponse{}, ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpOrgRead, &companyUUID); err != nil {
		return BranchResponse{}, err
	}

	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BranchResponse{}, ErrBranchNotFound
		}
		return BranchResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, actor accesscontrol.Actor, companyID, id string, req UpdateBranchRequest) (BranchResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return BranchResponse{}, ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpOrgWrite, &companyUUID); err != nil {
		return BranchResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return BranchResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return BranchResponse{}, ErrBranchNotFound
		}
		return BranchResponse{}, err
	}

	if req.Name != nil {
		row.Name = *req.Name
	}
	if req.Code != nil {
		row.Code = *req.Code
	}
	if req.Address != nil {
		row.Address = req.Address
	}
	if req.Phone != nil {
		row.Phone = req.Phone
	}
	if req.IsActive != nil {
		row.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, row); err != nil {
		return BranchResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return BranchResponse{}, err
	}

	return mapToResponse(*row), nil
}

func mapToResponse(b Branch) BranchResponse {
	return BranchResponse{
		ID:        b.ID.String(),
		CompanyID: b.CompanyID.String(),
		Name:      b.Name,
		Code:      b.Code,
		Address:   b.Address,
		Phone:     b.Phone,
		IsActive:  b.IsActive,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: b.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
