package team

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
	ErrTeamNotFound = apperror.New(
		apperror.CodeNotFound,
		"team not found",
		http.StatusNotFound,
	)
	ErrDepartmentNotInCompany = apperror.New(
		apperror.CodeInvalidReference,
		"department does not exist in this company",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidDepartmentID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid department id",
		http.StatusBadRequest,
	)
	ErrInvalidLeadID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid lead id",
		http.StatusBadRequest,
	)
)

//go:generate mockgen -source=team_service.go -destination=mock/team_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor accesscontrol.Actor, companyID string, req CreateTeamRequest) (TeamResponse, error)
	GetAll(ctx context.Context, actor accesscontrol.Actor, companyID string, departmentID *string) ([]TeamResponse, error)
	GetByID(ctx context.Context, actor accesscontrol.Actor, companyID, id string) (TeamResponse, error)
	Update(ctx context.Context, actor accesscontrol.Actor, companyID, id string, req UpdateTeamRequest) (TeamResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	policy accesscontrol.Policy
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, policy accesscontrol.Policy, logger ...*zap.Logger) Service {
	l := zap.L().Named("team.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("team.service")
	}
	return &service{db: db, repo: repo, policy: policy, logger: l}
}

func (s *service) Create(ctx context.Context, actor accesscontrol.Actor, companyID string, req CreateTeamRequest) (TeamResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return TeamResponse{}, ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpOrgWrite, &companyUUID); err != nil {
		return TeamResponse{}, err
	}

	departmentUUID, err := uuid.Parse(req.DepartmentID)
	if err != nil {
		return TeamResponse{}, ErrInvalidDepartmentID
	}

	var leadID *uuid.UUID
	if req.LeadID != nil && *req.LeadID != "" {
		id, err := uuid.Parse(*req.LeadID)
		if err != nil {
			return TeamResponse{}, ErrInvalidLeadID
		}
		leadID = &id
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TeamResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ok, err := qtx.DepartmentBelongsToCompany(ctx, companyID, departmentUUID.String())
	if err != nil {
		return TeamResponse{}, err
	}
	if !ok {
		return TeamResponse{}, ErrDepartmentNotInCompany
	}

	row := &Team{
		ID:           uuid.New(),
		CompanyID:    companyUUID,
		DepartmentID: departmentUUID,
		Name:         req.Name,
		LeadID:       leadID,
		IsActive:     true,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return TeamResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return TeamResponse{}, err
	}

	s.logger.Info("team created",
		zap.String("team_id", row.ID.String()),
		zap.String("company_id", companyID),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, actor accesscontrol.Actor, companyID string, departmentID *string) ([]TeamResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpOrgRead, &companyUUID); err != nil {
		return nil, err
	}

	if departmentID != nil && *departmentID != "" {
		if _, err := uuid.Parse(*departmentID); err != nil {
			return nil, ErrInvalidDepartmentID
		}
	}

	rows, err := s.repo.FindAllByCompany(ctx, companyID, departmentID)
	if err != nil {
		return nil, err
	}
	resp := make([]TeamResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actor accesscontrol.Actor, companyID, id string) (TeamResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return TeamResponse{}, ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpOrgRead, &companyUUID); err != nil {
		return TeamResponse{}, err
	}

	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TeamResponse{}, ErrTeamNotFound
		}
		return TeamResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, actor accesscontrol.Actor, companyID, id string, req UpdateTeamRequest) (TeamResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return TeamResponse{}, ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpOrgWrite, &companyUUID); err != nil {
		return TeamResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return TeamResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return TeamResponse{}, ErrTeamNotFound
		}
		return TeamResponse{}, err
	}

	if req.DepartmentID != nil {
		departmentUUID, err := uuid.Parse(*req.DepartmentID)
		if err != nil {
			return TeamResponse{}, ErrInvalidDepartmentID
		}
		ok, err := qtx.DepartmentBelongsToCompany(ctx, companyID, departmentUUID.String())
		if err != nil {
			return TeamResponse{}, err
		}
		if !ok {
			return TeamResponse{}, ErrDepartmentNotInCompany
		}
		row.DepartmentID = departmentUUID
	}
	if req.Name != nil {
		row.Name = *req.Name
	}
	if req.LeadID != nil {
		if *req.LeadID == "" {
			row.LeadID = nil
		} else {
			leadUUID, err := uuid.Parse(*req.LeadID)
			if err != nil {
				return TeamResponse{}, ErrInvalidLeadID
			}
			row.LeadID = &leadUUID
		}
	}
	if req.IsActive != nil {
		row.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, row); err != nil {
		return TeamResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return TeamResponse{}, err
	}

	return mapToResponse(*row), nil
}

func mapToResponse(t Team) TeamResponse {
	resp := TeamResponse{
		ID:           t.ID.String(),
		CompanyID:    t.CompanyID.String(),
		DepartmentID: t.DepartmentID.String(),
		Name:         t.Name,
		IsActive:     t.IsActive,
		CreatedAt:    t.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    t.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if t.LeadID != nil {
		v := t.LeadID.String()
		resp.LeadID = &v
	}
	return resp
}
