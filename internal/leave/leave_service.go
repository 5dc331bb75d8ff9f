package leave

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/yuvrajkohlioffice/HRMS/internal/accesscontrol"
	leaveerrors "github.com/yuvrajkohlioffice/HRMS/internal/leave/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=leave_service.go -destination=mock/leave_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, actor accesscontrol.Actor, companyID string, req CreateLeaveRequest) (LeaveResponse, error)
	GetAll(ctx context.Context, actor accesscontrol.Actor, companyID string, q ListLeavesQuery) ([]LeaveResponse, error)
	GetByID(ctx context.Context, actor accesscontrol.Actor, companyID, id string) (LeaveResponse, error)
	UpdateStatus(ctx context.Context, actor accesscontrol.Actor, companyID, id string, req UpdateLeaveStatusRequest) (LeaveResponse, error)
	GetBalances(ctx context.Context, actor accesscontrol.Actor, companyID, employeeID string, year int) ([]LeaveBalanceResponse, error)

	// ProvisionDefaultBalances is invoked by the employee lifecycle
	// consumer, not by a request handler, so it takes no actor.
	ProvisionDefaultBalances(ctx context.Context, companyID, employeeID string, year int) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	policy accesscontrol.Policy
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, policy accesscontrol.Policy, logger ...*zap.Logger) Service {
	l := zap.L().Named("leave.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leave.service")
	}
	return &service{db: db, repo: repo, policy: policy, logger: l, now: time.Now}
}

// daysInclusive counts both endpoints, so a single-day leave is 1.
func daysInclusive(start, end time.Time) int {
	return int(end.Sub(start).Hours()/24) + 1
}

func (s *service) Create(ctx context.Context, actor accesscontrol.Actor, companyID string, req CreateLeaveRequest) (LeaveResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpLeaveCreate, &companyUUID); err != nil {
		return LeaveResponse{}, err
	}

	if !ValidLeaveType(req.LeaveType) {
		return LeaveResponse{}, leaveerrors.ErrInvalidLeaveType
	}

	var requested *uuid.UUID
	if req.EmployeeID != nil && *req.EmployeeID != "" {
		id, err := uuid.Parse(*req.EmployeeID)
		if err != nil {
			return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
		}
		requested = &id
	}
	employeeID := s.policy.EmployeeFilter(actor, requested)
	if employeeID == nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidEmployeeID
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}
	if endDate.Before(startDate) {
		return LeaveResponse{}, leaveerrors.ErrInvalidDateRange
	}

	days := daysInclusive(startDate, endDate)
	if req.DaysCount != nil && *req.DaysCount != days {
		return LeaveResponse{}, leaveerrors.ErrDaysCountMismatch
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ok, err := qtx.EmployeeBelongsToCompany(ctx, companyID, employeeID.String())
	if err != nil {
		return LeaveResponse{}, err
	}
	if !ok {
		return LeaveResponse{}, leaveerrors.ErrEmployeeNotInCompany
	}

	row := &Leave{
		ID:         uuid.New(),
		CompanyID:  companyUUID,
		EmployeeID: *employeeID,
		LeaveType:  req.LeaveType,
		StartDate:  startDate,
		EndDate:    endDate,
		DaysCount:  days,
		Reason:     req.Reason,
		Status:     StatusPending,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave request created",
		zap.String("leave_id", row.ID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.String("leave_type", req.LeaveType),
		zap.Int("days_count", days),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, actor accesscontrol.Actor, companyID string, q ListLeavesQuery) ([]LeaveResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpLeaveRead, &companyUUID); err != nil {
		return nil, err
	}

	if q.Status != nil && *q.Status != "" && !ValidStatus(*q.Status) {
		return nil, leaveerrors.ErrInvalidStatus
	}

	var requested *uuid.UUID
	if q.EmployeeID != nil && *q.EmployeeID != "" {
		id, err := uuid.Parse(*q.EmployeeID)
		if err != nil {
			return nil, leaveerrors.ErrInvalidEmployeeID
		}
		requested = &id
	}
	effective := s.policy.EmployeeFilter(actor, requested)

	var employeeFilter *string
	if effective != nil {
		v := effective.String()
		employeeFilter = &v
	}

	rows, err := s.repo.FindAllByCompany(ctx, companyID, employeeFilter, q.Status)
	if err != nil {
		return nil, err
	}
	resp := make([]LeaveResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actor accesscontrol.Actor, companyID, id string) (LeaveResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpLeaveRead, &companyUUID); err != nil {
		return LeaveResponse{}, err
	}

	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	if own := s.policy.EmployeeFilter(actor, nil); own != nil && row.EmployeeID != *own {
		return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
	}

	return mapToResponse(*row), nil
}

func (s *service) UpdateStatus(ctx context.Context, actor accesscontrol.Actor, companyID, id string, req UpdateLeaveStatusRequest) (LeaveResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return LeaveResponse{}, leaveerrors.ErrInvalidCompanyID
	}

	switch req.Status {
	case StatusApproved, StatusRejected:
		if _, err := s.policy.Authorize(actor, accesscontrol.OpLeaveApprove, &companyUUID); err != nil {
			return LeaveResponse{}, err
		}
	case StatusCancelled:
		if _, err := s.policy.Authorize(actor, accesscontrol.OpLeaveCreate, &companyUUID); err != nil {
			return LeaveResponse{}, err
		}
	default:
		return LeaveResponse{}, leaveerrors.ErrInvalidStatus
	}

	if req.Status == StatusRejected && (req.RejectionReason == nil || *req.RejectionReason == "") {
		return LeaveResponse{}, leaveerrors.ErrRejectionReasonRequired
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return LeaveResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
		return LeaveResponse{}, err
	}

	// An employee may only cancel their own request.
	if req.Status == StatusCancelled {
		if own := s.policy.EmployeeFilter(actor, nil); own != nil && row.EmployeeID != *own {
			return LeaveResponse{}, leaveerrors.ErrLeaveNotFound
		}
	}

	if row.Status != StatusPending {
		return LeaveResponse{}, leaveerrors.ErrInvalidStateTransition
	}

	now := s.now().UTC()
	switch req.Status {
	case StatusApproved:
		if err := s.debitBalance(ctx, qtx, row); err != nil {
			return LeaveResponse{}, err
		}
		row.Status = StatusApproved
		row.ApprovedBy = &actor.UserID
		row.ApprovedAt = &now
	case StatusRejected:
		row.Status = StatusRejected
		row.RejectionReason = req.RejectionReason
	case StatusCancelled:
		row.Status = StatusCancelled
	}

	if err := qtx.Update(ctx, row); err != nil {
		return LeaveResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return LeaveResponse{}, err
	}

	s.logger.Info("leave status updated",
		zap.String("leave_id", row.ID.String()),
		zap.String("status", row.Status),
	)
	return mapToResponse(*row), nil
}

// debitBalance spends the approved days from the matching balance row.
// Leave types without a provisioned balance (unpaid, compensatory) pass
// through untouched.
func (s *service) debitBalance(ctx context.Context, qtx Repository, row *Leave) error {
	bal, err := qtx.FindBalanceForUpdate(ctx, row.EmployeeID.String(), row.LeaveType, row.StartDate.Year())
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if bal.AllocatedDays+bal.CarriedForward-bal.UsedDays < row.DaysCount {
		return leaveerrors.ErrInsufficientBalance
	}

	bal.UsedDays += row.DaysCount
	return qtx.UpdateBalance(ctx, bal)
}

func (s *service) GetBalances(ctx context.Context, actor accesscontrol.Actor, companyID, employeeID string, year int) ([]LeaveBalanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpLeaveRead, &companyUUID); err != nil {
		return nil, err
	}

	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}
	effective := s.policy.EmployeeFilter(actor, &employeeUUID)
	if effective == nil {
		return nil, leaveerrors.ErrInvalidEmployeeID
	}

	if year == 0 {
		year = s.now().UTC().Year()
	}

	rows, err := s.repo.FindBalancesByEmployee(ctx, companyID, effective.String(), year)
	if err != nil {
		return nil, err
	}

	resp := make([]LeaveBalanceResponse, len(rows))
	for i, bal := range rows {
		resp[i] = LeaveBalanceResponse{
			ID:             bal.ID.String(),
			EmployeeID:     bal.EmployeeID.String(),
			LeaveType:      bal.LeaveType,
			Year:           bal.Year,
			AllocatedDays:  bal.AllocatedDays,
			CarriedForward: bal.CarriedForward,
			UsedDays:       bal.UsedDays,
			RemainingDays:  bal.AllocatedDays + bal.CarriedForward - bal.UsedDays,
		}
	}
	return resp, nil
}

func (s *service) ProvisionDefaultBalances(ctx context.Context, companyID, employeeID string, year int) error {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return leaveerrors.ErrInvalidCompanyID
	}
	employeeUUID, err := uuid.Parse(employeeID)
	if err != nil {
		return leaveerrors.ErrInvalidEmployeeID
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	for _, leaveType := range []string{TypeAnnual, TypeSick, TypeCasual} {
		bal := &LeaveBalance{
			ID:            uuid.New(),
			CompanyID:     companyUUID,
			EmployeeID:    employeeUUID,
			LeaveType:     leaveType,
			Year:          year,
			AllocatedDays: DefaultAllocations[leaveType],
		}
		if err := qtx.CreateBalance(ctx, bal); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	s.logger.Info("default leave balances provisioned",
		zap.String("employee_id", employeeID),
		zap.String("company_id", companyID),
		zap.Int("year", year),
	)
	return nil
}

func mapToResponse(l Leave) LeaveResponse {
	resp := LeaveResponse{
		ID:              l.ID.String(),
		CompanyID:       l.CompanyID.String(),
		EmployeeID:      l.EmployeeID.String(),
		LeaveType:       l.LeaveType,
		StartDate:       l.StartDate.UTC().Format("2006-01-02"),
		EndDate:         l.EndDate.UTC().Format("2006-01-02"),
		DaysCount:       l.DaysCount,
		Reason:          l.Reason,
		Status:          l.Status,
		RejectionReason: l.RejectionReason,
		CreatedAt:       l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       l.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.ApprovedAt != nil {
		v := l.ApprovedAt.UTC().Format(time.RFC3339)
		resp.ApprovedAt = &v
	}
	return resp
}
