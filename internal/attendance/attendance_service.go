package attendance

import (
	"context"
	"database/sql"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/yuvrajkohlioffice/HRMS/internal/accesscontrol"
	attendanceerrors "github.com/yuvrajkohlioffice/HRMS/internal/attendance/errors"
	"github.com/yuvrajkohlioffice/HRMS/internal/employee"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Half-day threshold in working hours.
const halfDayHours = 4.0

//go:generate mockgen -source=attendance_service.go -destination=mock/attendance_service_mock.go -package=mock
type Service interface {
	ClockIn(ctx context.Context, actor accesscontrol.Actor, companyID string, req ClockInRequest) (AttendanceResponse, error)
	ClockOut(ctx context.Context, actor accesscontrol.Actor, companyID, id string, req ClockOutRequest) (AttendanceResponse, error)
	GetAll(ctx context.Context, actor accesscontrol.Actor, companyID string, q ListAttendanceQuery) ([]AttendanceResponse, error)
	GetByID(ctx context.Context, actor accesscontrol.Actor, companyID, id string) (AttendanceResponse, error)
}

type service struct {
	db     *sql.DB
	repo   Repository
	policy accesscontrol.Policy
	logger *zap.Logger
	now    func() time.Time
}

func NewService(db *sql.DB, repo Repository, policy accesscontrol.Policy, logger ...*zap.Logger) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{db: db, repo: repo, policy: policy, logger: l, now: time.Now}
}

func (s *service) ClockIn(ctx context.Context, actor accesscontrol.Actor, companyID string, req ClockInRequest) (AttendanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpAttendanceClock, &companyUUID); err != nil {
		return AttendanceResponse{}, err
	}

	var requested *uuid.UUID
	if req.EmployeeID != nil && *req.EmployeeID != "" {
		id, err := uuid.Parse(*req.EmployeeID)
		if err != nil {
			return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
		}
		requested = &id
	}

	// Employee-role callers always clock themselves in, whatever id they
	// put in the request body.
	employeeID := s.policy.EmployeeFilter(actor, requested)
	if employeeID == nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidEmployeeID
	}

	shiftType := employee.ShiftTypeMorning
	if req.ShiftType != nil && *req.ShiftType != "" {
		if !employee.ValidShiftType(*req.ShiftType) {
			return AttendanceResponse{}, attendanceerrors.ErrInvalidShiftType
		}
		shiftType = *req.ShiftType
	}

	now := s.now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	ok, err := qtx.EmployeeBelongsToCompany(ctx, companyID, employeeID.String())
	if err != nil {
		return AttendanceResponse{}, err
	}
	if !ok {
		return AttendanceResponse{}, attendanceerrors.ErrEmployeeNotInCompany
	}

	exists, err := qtx.ExistsForDate(ctx, employeeID.String(), today)
	if err != nil {
		return AttendanceResponse{}, err
	}
	if exists {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedIn
	}

	row := &Attendance{
		ID:             uuid.New(),
		CompanyID:      companyUUID,
		EmployeeID:     *employeeID,
		AttendanceDate: today,
		ClockInTime:    &now,
		ShiftType:      shiftType,
		Status:         StatusPresent,
		Notes:          req.Notes,
	}

	if err := qtx.Create(ctx, row); err != nil {
		return AttendanceResponse{}, mapRepositoryError(err)
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock in recorded",
		zap.String("attendance_id", row.ID.String()),
		zap.String("employee_id", employeeID.String()),
		zap.String("company_id", companyID),
	)
	return mapToResponse(*row), nil
}

func (s *service) ClockOut(ctx context.Context, actor accesscontrol.Actor, companyID, id string, req ClockOutRequest) (AttendanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpAttendanceClock, &companyUUID); err != nil {
		return AttendanceResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AttendanceResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrAttendanceNotFound
		}
		return AttendanceResponse{}, err
	}

	if own := s.policy.EmployeeFilter(actor, nil); own != nil && row.EmployeeID != *own {
		return AttendanceResponse{}, attendanceerrors.ErrAttendanceNotFound
	}

	if row.ClockOutTime != nil {
		return AttendanceResponse{}, attendanceerrors.ErrAlreadyClockedOut
	}

	now := s.now().UTC()
	if row.ClockInTime != nil && !now.After(*row.ClockInTime) {
		return AttendanceResponse{}, attendanceerrors.ErrClockOutNotAfterClockIn
	}

	row.ClockOutTime = &now
	if row.ClockInTime != nil {
		hours := now.Sub(*row.ClockInTime).Hours()
		row.WorkingHours = math.Round(hours*100) / 100
		if row.WorkingHours < halfDayHours {
			row.Status = StatusHalfDay
		} else {
			row.Status = StatusPresent
		}
	}
	if req.Notes != nil {
		row.Notes = req.Notes
	}

	if err := qtx.Update(ctx, row); err != nil {
		return AttendanceResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return AttendanceResponse{}, err
	}

	s.logger.Info("clock out recorded",
		zap.String("attendance_id", row.ID.String()),
		zap.Float64("working_hours", row.WorkingHours),
	)
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, actor accesscontrol.Actor, companyID string, q ListAttendanceQuery) ([]AttendanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpAttendanceRead, &companyUUID); err != nil {
		return nil, err
	}

	var requested *uuid.UUID
	if q.EmployeeID != nil && *q.EmployeeID != "" {
		id, err := uuid.Parse(*q.EmployeeID)
		if err != nil {
			return nil, attendanceerrors.ErrInvalidEmployeeID
		}
		requested = &id
	}
	effective := s.policy.EmployeeFilter(actor, requested)

	var employeeFilter *string
	if effective != nil {
		v := effective.String()
		employeeFilter = &v
	}

	from, err := parseOptionalDate(q.StartDate)
	if err != nil {
		return nil, err
	}
	to, err := parseOptionalDate(q.EndDate)
	if err != nil {
		return nil, err
	}
	if from != nil && to != nil && to.Before(*from) {
		return nil, attendanceerrors.ErrInvalidDateRange
	}

	rows, err := s.repo.FindAllByCompany(ctx, companyID, employeeFilter, from, to)
	if err != nil {
		return nil, err
	}
	resp := make([]AttendanceResponse, len(rows))
	for i, row := range rows {
		resp[i] = mapToResponse(row)
	}
	return resp, nil
}

func (s *service) GetByID(ctx context.Context, actor accesscontrol.Actor, companyID, id string) (AttendanceResponse, error) {
	companyUUID, err := uuid.Parse(companyID)
	if err != nil {
		return AttendanceResponse{}, attendanceerrors.ErrInvalidCompanyID
	}

	if _, err := s.policy.Authorize(actor, accesscontrol.OpAttendanceRead, &companyUUID); err != nil {
		return AttendanceResponse{}, err
	}

	row, err := s.repo.FindByIDAndCompany(ctx, companyID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AttendanceResponse{}, attendanceerrors.ErrAttendanceNotFound
		}
		return AttendanceResponse{}, err
	}

	if own := s.policy.EmployeeFilter(actor, nil); own != nil && row.EmployeeID != *own {
		return AttendanceResponse{}, attendanceerrors.ErrAttendanceNotFound
	}

	return mapToResponse(*row), nil
}

func parseOptionalDate(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", *raw)
	if err != nil {
		return nil, attendanceerrors.ErrInvalidDateRange
	}
	return &t, nil
}

func mapRepositoryError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return attendanceerrors.ErrAlreadyClockedIn
	}
	if strings.Contains(err.Error(), "uq_attendance_employee_date") {
		return attendanceerrors.ErrAlreadyClockedIn
	}
	return err
}

func mapToResponse(a Attendance) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             a.ID.String(),
		CompanyID:      a.CompanyID.String(),
		EmployeeID:     a.EmployeeID.String(),
		AttendanceDate: a.AttendanceDate.UTC().Format("2006-01-02"),
		ShiftType:      a.ShiftType,
		Status:         a.Status,
		WorkingHours:   a.WorkingHours,
		OvertimeHours:  a.OvertimeHours,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:      a.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if a.ClockInTime != nil {
		v := a.ClockInTime.UTC().Format(time.RFC3339)
		resp.ClockInTime = &v
	}
	if a.ClockOutTime != nil {
		v := a.ClockOutTime.UTC().Format(time.RFC3339)
		resp.ClockOutTime = &v
	}
	return resp
}
