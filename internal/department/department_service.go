package department

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/yuvrajkohlioffice/HRMS/internal/accesscontrol"
	departmenterrors "github.com/yuvrajkohlioffice/HRMS/internal/department/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=department_service.go -destination=mock/department_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor accesscontrol.Actor, companyID string, req CreateDepartmentRequest) (DepartmentResponse, error)
	GetAll(ctx context.Context, actor accesscontrol.Actor, companyID string) ([]DepartmentResponse, error)
	GetByID(ctx context.Context, actor accesscontrol.Actor, companyID, id string) (DepartmentResponse, error)
	Update(ctx context.Context, actor accesscontrol.Actor, companyID, id string, req UpdateDepartmentRequest) (DepartmentResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	policy accesscontrol.Policy
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, policy accesscontrol.Policy, logger ...*zap.Logger) Service {
	l := zap.L().Named("department.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("department.service")
	}
	return &service{db: db, repo: repo, policy: policy, logger: l}
}

func (s *service) Create(ctx context.Context, actor accesscontrol.Actor, companyID string, req CreateDepartmentRequest) (DepartmentResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpOrgWrite, &companyUUID); err != nil {
		return DepartmentResponse{}, err
	}

	branchID, err := parseOptionalUUID(req.BranchID, departmenterrors.ErrInvalidBranchID)
	if err != nil {
		return DepartmentResponse{}, err
	}
	managerID, err := parseOptionalUUID(req.ManagerID, departmenterrors.ErrInvalidManagerID)
	if err != nil {
		return DepartmentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DepartmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if branchID != nil {
		ok, err := qtx.BranchBelongsToCompany(ctx, companyID, branchID.String())
		if err != nil {
			return DepartmentResponse{}, err
		}
		if !ok {
			return DepartmentResponse{}, departmenterrors.ErrBranchNotInCompany
		}
	}

	taken, err := qtx.CodeExists(ctx, companyID, req.Code, nil)
	if err != nil {
		return DepartmentResponse{}, err
	}
	if taken {
		return DepartmentResponse{}, departmenterrors.ErrDepartmentCodeExists
	}

	row := &Department{
		ID:        uuid.New(),
		CompanyID: companyUUID,
		BranchID:  branchID,
		Name:      req.Name,
		Code:      req.Code,
		ManagerID: managerID,
		IsActive:  true,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return DepartmentResponse{}, err
	}

	s.logger.Info("department created",
		zap.String("department_id", row.ID.String()),
		zap.String("company_id", companyID),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, actor accesscontrol.Actor, companyID string) ([]DepartmentResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, departmenterrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpOrgRead, &companyUUID); err != nil {
		return nil, err
	}

	rows, err := s.repo.FindAllByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	resp := make([]DepartmentResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actor accesscontrol.Actor, companyID, id string) (DepartmentResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpOrgRead, &companyUUID); err != nil {
		return DepartmentResponse{}, err
	}

	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, departmenterrors.ErrDepartmentNotFound
		}
		return DepartmentResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, actor accesscontrol.Actor, companyID, id string, req UpdateDepartmentRequest) (DepartmentResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return DepartmentResponse{}, departmenterrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpOrgWrite, &companyUUID); err != nil {
		return DepartmentResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return DepartmentResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return DepartmentResponse{}, departmenterrors.ErrDepartmentNotFound
		}
		return DepartmentResponse{}, err
	}

	if req.Code != nil && *req.Code != row.Code {
		taken, err := qtx.CodeExists(ctx, companyID, *req.Code, &id)
		if err != nil {
			return DepartmentResponse{}, err
		}
		if taken {
			return DepartmentResponse{}, departmenterrors.ErrDepartmentCodeExists
		}
		row.Code = *req.Code
	}
	if req.BranchID != nil {
		if *req.BranchID == "" {
			row.BranchID = nil
		} else {
			branchUUID, err := uuid.Parse(*req.BranchID)
			if err != nil {
				return DepartmentResponse{}, departmenterrors.ErrInvalidBranchID
			}
			ok, err := qtx.BranchBelongsToCompany(ctx, companyID, branchUUID.String())
			if err != nil {
				return DepartmentResponse{}, err
			}
			if !ok {
				return DepartmentResponse{}, departmenterrors.ErrBranchNotInCompany
			}
			row.BranchID = &branchUUID
		}
	}
	if req.Name != nil {
		row.Name = *req.Name
	}
	if req.ManagerID != nil {
		managerUUID, err := uuid.Parse(*req.ManagerID)
		if err != nil {
			return DepartmentResponse{}, departmenterrors.ErrInvalidManagerID
		}
		row.ManagerID = &managerUUID
	}
	if req.IsActive != nil {
		row.IsActive = *req.IsActive
	}

	if err := qtx.Update(ctx, row); err != nil {
		return DepartmentResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return DepartmentResponse{}, err
	}

	return mapToResponse(*row), nil
}

func parseOptionalUUID(raw *string, invalid error) (*uuid.UUID, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*raw)
	if err != nil {
		return nil, invalid
	}
	return &id, nil
}

// mapRepositoryError catches the unique index violation so two concurrent
// creates with the same code cannot both succeed past the pre-check.
func mapRepositoryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return departmenterrors.ErrDepartmentCodeExists
	}
	if strings.Contains(err.Error(), "uq_departments_company_code") {
		return departmenterrors.ErrDepartmentCodeExists
	}
	return err
}

func mapToResponse(d Department) DepartmentResponse {
	resp := DepartmentResponse{
		ID:        d.ID.String(),
		CompanyID: d.CompanyID.String(),
		Name:      d.Name,
		Code:      d.Code,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: d.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if d.BranchID != nil {
		v := d.BranchID.String()
		resp.BranchID = &v
	}
	if d.ManagerID != nil {
		v := d.ManagerID.String()
		resp.ManagerID = &v
	}
	return resp
}
