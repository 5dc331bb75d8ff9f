package employee

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/yuvrajkohlioffice/HRMS/internal/accesscontrol"
	employeeerrors "github.com/yuvrajkohlioffice/HRMS/internal/employee/errors"
	"github.com/yuvrajkohlioffice/HRMS/internal/events"
	"github.com/yuvrajkohlioffice/HRMS/internal/messaging/kafka"
	"github.com/yuvrajkohlioffice/HRMS/internal/shared/contextutil"
	"github.com/yuvrajkohlioffice/HRMS/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const EmployeeOptionsKeyPrefix = "employees:options:"

func GetEmployeeOptionsKey(companyID string) string {
	return EmployeeOptionsKeyPrefix + companyID
}

//go:generate mockgen -source=employee_service.go -destination=mock/employee_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor accesscontrol.Actor, companyID string, req CreateEmployeeRequest) (EmployeeResponse, error)
	GetAll(ctx context.Context, actor accesscontrol.Actor, companyID string, q ListEmployeesQuery) ([]EmployeeResponse, error)
	GetOptions(ctx context.Context, actor accesscontrol.Actor, companyID string) ([]EmployeeResponse, error)
	GetByID(ctx context.Context, actor accesscontrol.Actor, companyID, id string) (EmployeeResponse, error)
	Update(ctx context.Context, actor accesscontrol.Actor, companyID, id string, req UpdateEmployeeRequest) (EmployeeResponse, error)
	Delete(ctx context.Context, actor accesscontrol.Actor, companyID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	outbox  kafka.OutboxRepository
	policy  accesscontrol.Policy
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, policy accesscontrol.Policy, rdb *redis.Client, logger ...*zap.Logger) Service {
	return NewServiceWithOutbox(db, repo, counter, nil, policy, rdb, logger...)
}

func NewServiceWithOutbox(
	db *sql.DB,
	repo Repository,
	counter counter.Repository,
	outboxRepo kafka.OutboxRepository,
	policy accesscontrol.Policy,
	rdb *redis.Client,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("employee.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("employee.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		outbox:  outboxRepo,
		policy:  policy,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l}
}

func (s *service) Create(
	ctx context.Context,
	actor accesscontrol.Actor,
	companyID string,
	req CreateEmployeeRequest,
) (EmployeeResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create employee requested",
		zap.String("request_id", rid),
		zap.String("company_id", companyID),
		zap.String("email", req.Email),
	)

	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpEmployeeWrite, &companyUUID); err != nil {
		return EmployeeResponse{}, err
	}

	hireDate, err := time.Parse("2006-01-02", req.HireDate)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidHireDate
	}
	var dateOfBirth *time.Time
	if req.DateOfBirth != nil && *req.DateOfBirth != "" {
		dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
		if err != nil {
			return EmployeeResponse{}, employeeerrors.ErrInvalidDateOfBirth
		}
		dateOfBirth = &dob
	}

	employmentType := req.EmploymentType
	if employmentType == "" {
		employmentType = EmploymentTypeFullTime
	}
	if !ValidEmploymentType(employmentType) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidEmploymentType
	}
	shiftType := req.ShiftType
	if shiftType == "" {
		shiftType = ShiftTypeMorning
	}
	if !ValidShiftType(shiftType) {
		return EmployeeResponse{}, employeeerrors.ErrInvalidShiftType
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create employee begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	branchID, departmentID, teamID, err := s.resolveOrgRefs(ctx, qtx, companyID, req.BranchID, req.DepartmentID, req.TeamID)
	if err != nil {
		return EmployeeResponse{}, err
	}

	if req.EmployeeCode == "" {
		nextVal, err := s.counter.GetNextValue(ctx, companyID, "employee_code")
		if err != nil {
			s.logger.Error("create employee generate code failed", zap.Error(err))
			return EmployeeResponse{}, err
		}
		req.EmployeeCode = fmt.Sprintf("EMP-%06d", nextVal)
	} else {
		taken, err := qtx.CodeExists(ctx, companyID, req.EmployeeCode)
		if err != nil {
			return EmployeeResponse{}, err
		}
		if taken {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeCodeExists
		}
	}

	empl := &Employee{
		ID:                       uuid.New(),
		CompanyID:                companyUUID,
		BranchID:                 branchID,
		DepartmentID:             departmentID,
		TeamID:                   teamID,
		EmployeeCode:             req.EmployeeCode,
		FirstName:                req.FirstName,
		LastName:                 req.LastName,
		Email:                    req.Email,
		Phone:                    req.Phone,
		DateOfBirth:              dateOfBirth,
		Gender:                   req.Gender,
		Address:                  req.Address,
		NationalID:               req.NationalID,
		Designation:              req.Designation,
		EmploymentType:           employmentType,
		EmploymentStatus:         EmploymentStatusActive,
		ShiftType:                shiftType,
		HireDate:                 hireDate,
		EmergencyContactName:     req.EmergencyContactName,
		EmergencyContactPhone:    req.EmergencyContactPhone,
		EmergencyContactRelation: req.EmergencyContactRelation,
	}

	if err := qtx.Create(ctx, empl); err != nil {
		s.logger.Error("create employee persist failed", zap.Error(err))
		return EmployeeResponse{}, mapRepositoryError(err)
	}

	event := events.EmployeeCreatedEvent{
		EventType:  "employee_created",
		EmployeeID: empl.ID.String(),
		CompanyID:  companyID,
		OccurredAt: time.Now().UTC(),
	}
	if s.outbox != nil {
		payload, err := json.Marshal(event)
		if err != nil {
			s.logger.Error("marshal event failed", zap.String("request_id", rid), zap.Error(err))
			return EmployeeResponse{}, err
		}

		outboxRepo := s.outbox.WithTx(tx)
		if err := outboxRepo.Create(ctx, kafka.OutboxEvent{
			ID:            uuid.NewString(),
			RequestID:     rid,
			AggregateType: "employee",
			AggregateID:   empl.ID.String(),
			EventType:     event.EventType,
			Topic:         events.EmployeeCreatedTopic,
			Payload:       payload,
			Status:        kafka.OutboxStatusPending,
		}); err != nil {
			s.logger.Error("create employee outbox persist failed",
				zap.String("employee_id", empl.ID.String()),
				zap.Error(err),
			)
			return EmployeeResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("commit failed", zap.String("request_id", rid), zap.Error(err))
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx, companyID)

	s.logger.Info("create employee success",
		zap.String("request_id", rid),
		zap.String("employee_id", empl.ID.String()),
	)

	return mapToResponse(*empl), nil
}

func (s *service) GetAll(
	ctx context.Context,
	actor accesscontrol.Actor,
	companyID string,
	q ListEmployeesQuery,
) ([]EmployeeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, employeeerrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpEmployeeRead, &companyUUID); err != nil {
		return nil, err
	}

	if q.EmploymentStatus != nil && *q.EmploymentStatus != "" && !ValidEmploymentStatus(*q.EmploymentStatus) {
		return nil, employeeerrors.ErrInvalidEmploymentStatus
	}

	rows, err := s.repo.FindAllByCompany(ctx, companyID, q)
	if err != nil {
		return nil, mapRepositoryError(err)
	}
	return mapToListResponse(rows), nil
}

func (s *service) GetOptions(ctx context.Context, actor accesscontrol.Actor, companyID string) ([]EmployeeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, employeeerrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpEmployeeRead, &companyUUID); err != nil {
		return nil, err
	}

	cacheKey := GetEmployeeOptionsKey(companyID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []EmployeeResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	// Singleflight collapses the stampede when many admins open a picker
	// form after the cache expired.
	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		emps, err := s.repo.FindOptionsByCompany(ctx, companyID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(emps)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]EmployeeResponse), nil
}

func (s *service) GetByID(
	ctx context.Context,
	actor accesscontrol.Actor,
	companyID, id string,
) (EmployeeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpEmployeeRead, &companyUUID); err != nil {
		return EmployeeResponse{}, err
	}

	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Update(
	ctx context.Context,
	actor accesscontrol.Actor,
	companyID, id string,
	req UpdateEmployeeRequest,
) (EmployeeResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return EmployeeResponse{}, employeeerrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpEmployeeWrite, &companyUUID); err != nil {
		return EmployeeResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return EmployeeResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return EmployeeResponse{}, employeeerrors.ErrEmployeeNotFound
		}
		return EmployeeResponse{}, err
	}

	branchID, departmentID, teamID, err := s.resolveOrgRefs(ctx, qtx, companyID, req.BranchID, req.DepartmentID, req.TeamID)
	if err != nil {
		return EmployeeResponse{}, err
	}
	if req.BranchID != nil {
		row.BranchID = branchID
	}
	if req.DepartmentID != nil {
		row.DepartmentID = departmentID
	}
	if req.TeamID != nil {
		row.TeamID = teamID
	}

	if req.FirstName != nil {
		row.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		row.LastName = *req.LastName
	}
	if req.Email != nil {
		row.Email = *req.Email
	}
	if req.Phone != nil {
		row.Phone = req.Phone
	}
	if req.DateOfBirth != nil {
		if *req.DateOfBirth == "" {
			row.DateOfBirth = nil
		} else {
			dob, err := time.Parse("2006-01-02", *req.DateOfBirth)
			if err != nil {
				return EmployeeResponse{}, employeeerrors.ErrInvalidDateOfBirth
			}
			row.DateOfBirth = &dob
		}
	}
	if req.Gender != nil {
		row.Gender = req.Gender
	}
	if req.Address != nil {
		row.Address = req.Address
	}
	if req.NationalID != nil {
		row.NationalID = req.NationalID
	}
	if req.Designation != nil {
		row.Designation = *req.Designation
	}
	if req.EmploymentType != nil {
		if !ValidEmploymentType(*req.EmploymentType) {
			return EmployeeResponse{}, employeeerrors.ErrInvalidEmploymentType
		}
		row.EmploymentType = *req.EmploymentType
	}
	if req.EmploymentStatus != nil {
		if !ValidEmploymentStatus(*req.EmploymentStatus) {
			return EmployeeResponse{}, employeeerrors.ErrInvalidEmploymentStatus
		}
		row.EmploymentStatus = *req.EmploymentStatus
	}
	if req.ShiftType != nil {
		if !ValidShiftType(*req.ShiftType) {
			return EmployeeResponse{}, employeeerrors.ErrInvalidShiftType
		}
		row.ShiftType = *req.ShiftType
	}
	if req.EmergencyContactName != nil {
		row.EmergencyContactName = req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		row.EmergencyContactPhone = req.EmergencyContactPhone
	}
	if req.EmergencyContactRelation != nil {
		row.EmergencyContactRelation = req.EmergencyContactRelation
	}

	if err := qtx.Update(ctx, row); err != nil {
		return EmployeeResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return EmployeeResponse{}, err
	}

	s.invalidateOptionsCache(ctx, companyID)

	return mapToResponse(*row), nil
}

func (s *service) Delete(ctx context.Context, actor accesscontrol.Actor, companyID, id string) error {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return employeeerrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpEmployeeDelete, &companyUUID); err != nil {
		return err
	}

	affected, err := s.repo.SoftDelete(ctx, companyID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return employeeerrors.ErrEmployeeNotFound
	}

	s.invalidateOptionsCache(ctx, companyID)

	s.logger.Info("employee deleted",
		zap.String("employee_id", id),
		zap.String("company_id", companyID),
	)
	return nil
}

// resolveOrgRefs validates that every supplied org reference exists in the
// company. Empty string clears the reference.
func (s *service) resolveOrgRefs(
	ctx context.Context,
	qtx Repository,
	companyID string,
	branchID, departmentID, teamID *string,
) (*uuid.UUID, *uuid.UUID, *uuid.UUID, error) {
	resolve := func(raw *string, check func(context.Context, string, string) (bool, error), missing error) (*uuid.UUID, error) {
		if raw == nil || *raw == "" {
			return nil, nil
		}
		id, err := uuid.Parse(*raw)
		if err != nil {
			return nil, employeeerrors.ErrInvalidReferenceID
		}
		ok, err := check(ctx, companyID, id.String())
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, missing
		}
		return &id, nil
	}

	branch, err := resolve(branchID, qtx.BranchBelongsToCompany, employeeerrors.ErrBranchNotInCompany)
	if err != nil {
		return nil, nil, nil, err
	}
	department, err := resolve(departmentID, qtx.DepartmentBelongsToCompany, employeeerrors.ErrDepartmentNotInCompany)
	if err != nil {
		return nil, nil, nil, err
	}
	team, err := resolve(teamID, qtx.TeamBelongsToCompany, employeeerrors.ErrTeamNotInCompany)
	if err != nil {
		return nil, nil, nil, err
	}
	return branch, department, team, nil
}

func (s *service) invalidateOptionsCache(ctx context.Context, companyID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetEmployeeOptionsKey(companyID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate employee options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func mapRepositoryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return employeeerrors.ErrEmployeeCodeExists
	}
	if strings.Contains(err.Error(), "uq_employees_company_code") {
		return employeeerrors.ErrEmployeeCodeExists
	}
	return err
}

func mapToResponse(e Employee) EmployeeResponse {
	resp := EmployeeResponse{
		ID:                       e.ID.String(),
		CompanyID:                e.CompanyID.String(),
		EmployeeCode:             e.EmployeeCode,
		FirstName:                e.FirstName,
		LastName:                 e.LastName,
		Email:                    e.Email,
		Phone:                    e.Phone,
		Gender:                   e.Gender,
		Address:                  e.Address,
		NationalID:               e.NationalID,
		Designation:              e.Designation,
		EmploymentType:           e.EmploymentType,
		EmploymentStatus:         e.EmploymentStatus,
		ShiftType:                e.ShiftType,
		HireDate:                 e.HireDate.UTC().Format("2006-01-02"),
		EmergencyContactName:     e.EmergencyContactName,
		EmergencyContactPhone:    e.EmergencyContactPhone,
		EmergencyContactRelation: e.EmergencyContactRelation,
		CreatedAt:                e.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:                e.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if e.BranchID != nil {
		v := e.BranchID.String()
		resp.BranchID = &v
	}
	if e.DepartmentID != nil {
		v := e.DepartmentID.String()
		resp.DepartmentID = &v
	}
	if e.TeamID != nil {
		v := e.TeamID.String()
		resp.TeamID = &v
	}
	if e.DateOfBirth != nil {
		v := e.DateOfBirth.UTC().Format("2006-01-02")
		resp.DateOfBirth = &v
	}
	return resp
}

func mapToListResponse(rows []Employee) []EmployeeResponse {
	resp := make([]EmployeeResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp
}
