package attendance

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/yuvrajkohlioffice/HRMS/internal/accesscontrol"
	attendanceerrors "github.com/yuvrajkohlioffice/HRMS/internal/attendance/errors"
	"github.com/yuvrajkohlioffice/HRMS/internal/employee"
)

type fakeRepo struct {
	createFn           func(ctx context.Context, a *Attendance) error
	findByIDFn         func(ctx context.Context, companyID, id string) (*Attendance, error)
	findOpenFn         func(ctx context.Context, companyID, employeeID string, date time.Time) (*Attendance, error)
	findAllFn          func(ctx context.Context, companyID string, employeeID *string, from, to *time.Time) ([]Attendance, error)
	updateFn           func(ctx context.Context, a *Attendance) error
	existsForDateFn    func(ctx context.Context, employeeID string, date time.Time) (bool, error)
	employeeInCompany  func(ctx context.Context, companyID, employeeID string) (bool, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                    { return f }
func (f *fakeRepo) Create(ctx context.Context, a *Attendance) error { return f.createFn(ctx, a) }
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Attendance, error) {
	return f.findByIDFn(ctx, companyID, id)
}
func (f *fakeRepo) FindOpenByEmployeeAndDate(ctx context.Context, companyID, employeeID string, date time.Time) (*Attendance, error) {
	return f.findOpenFn(ctx, companyID, employeeID, date)
}
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string, employeeID *string, from, to *time.Time) ([]Attendance, error) {
	return f.findAllFn(ctx, companyID, employeeID, from, to)
}
func (f *fakeRepo) Update(ctx context.Context, a *Attendance) error { return f.updateFn(ctx, a) }
func (f *fakeRepo) ExistsForDate(ctx context.Context, employeeID string, date time.Time) (bool, error) {
	return f.existsForDateFn(ctx, employeeID, date)
}
func (f *fakeRepo) EmployeeBelongsToCompany(ctx context.Context, companyID, employeeID string) (bool, error) {
	return f.employeeInCompany(ctx, companyID, employeeID)
}

func newTestPolicy(t *testing.T) accesscontrol.Policy {
	t.Helper()
	p, err := accesscontrol.NewPolicy()
	assert.NoError(t, err)
	return p
}

func employeeActor(companyID, employeeID uuid.UUID) accesscontrol.Actor {
	return accesscontrol.Actor{
		UserID:     uuid.New(),
		Role:       accesscontrol.RoleEmployee,
		CompanyID:  &companyID,
		EmployeeID: &employeeID,
	}
}

func TestService_ClockInAndClockOut(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	employeeID := uuid.New()
	actor := employeeActor(companyID, employeeID)
	ctx := context.Background()

	var saved Attendance
	repo := &fakeRepo{}
	repo.createFn = func(ctx context.Context, a *Attendance) error { saved = *a; return nil }
	repo.updateFn = func(ctx context.Context, a *Attendance) error { saved = *a; return nil }
	repo.existsForDateFn = func(ctx context.Context, employeeID string, date time.Time) (bool, error) {
		return saved.ID != uuid.Nil, nil
	}
	repo.employeeInCompany = func(ctx context.Context, companyID, employeeID string) (bool, error) {
		return true, nil
	}
	repo.findByIDFn = func(ctx context.Context, companyID, id string) (*Attendance, error) {
		if saved.ID == uuid.Nil {
			return nil, gorm.ErrRecordNotFound
		}
		return &saved, nil
	}

	svc := NewService(db, repo, newTestPolicy(t)).(*service)
	clockIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return clockIn }

	mock.ExpectBegin()
	mock.ExpectCommit()
	inResp, err := svc.ClockIn(ctx, actor, companyID.String(), ClockInRequest{})
	assert.NoError(t, err)
	assert.Equal(t, employeeID.String(), inResp.EmployeeID)
	assert.Equal(t, StatusPresent, inResp.Status)
	assert.NotNil(t, inResp.ClockInTime)

	svc.now = func() time.Time { return clockIn.Add(8*time.Hour + 30*time.Minute) }

	mock.ExpectBegin()
	mock.ExpectCommit()
	outResp, err := svc.ClockOut(ctx, actor, companyID.String(), inResp.ID, ClockOutRequest{})
	assert.NoError(t, err)
	assert.NotNil(t, outResp.ClockOutTime)
	assert.Equal(t, 8.5, outResp.WorkingHours)
	assert.Equal(t, StatusPresent, outResp.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockOut_HalfDay(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	employeeID := uuid.New()
	actor := employeeActor(companyID, employeeID)

	clockIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	saved := Attendance{
		ID:             uuid.New(),
		CompanyID:      companyID,
		EmployeeID:     employeeID,
		AttendanceDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		ClockInTime:    &clockIn,
		Status:         StatusPresent,
	}

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, companyID, id string) (*Attendance, error) { return &saved, nil }
	repo.updateFn = func(ctx context.Context, a *Attendance) error { saved = *a; return nil }

	svc := NewService(db, repo, newTestPolicy(t)).(*service)
	svc.now = func() time.Time { return clockIn.Add(3 * time.Hour) }

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.ClockOut(context.Background(), actor, companyID.String(), saved.ID.String(), ClockOutRequest{})
	assert.NoError(t, err)
	assert.Equal(t, 3.0, resp.WorkingHours)
	assert.Equal(t, StatusHalfDay, resp.Status)
}

func TestService_ClockIn_Duplicate(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	employeeID := uuid.New()
	actor := employeeActor(companyID, employeeID)

	repo := &fakeRepo{}
	repo.employeeInCompany = func(ctx context.Context, companyID, employeeID string) (bool, error) {
		return true, nil
	}
	repo.existsForDateFn = func(ctx context.Context, employeeID string, date time.Time) (bool, error) {
		return true, nil
	}

	svc := NewService(db, repo, newTestPolicy(t))
	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.ClockIn(context.Background(), actor, companyID.String(), ClockInRequest{})
	assert.ErrorIs(t, err, attendanceerrors.ErrAlreadyClockedIn)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockIn_EmployeeIgnoresForeignID(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	ownID := uuid.New()
	otherID := uuid.New().String()
	actor := employeeActor(companyID, ownID)

	var created Attendance
	repo := &fakeRepo{}
	repo.createFn = func(ctx context.Context, a *Attendance) error { created = *a; return nil }
	repo.existsForDateFn = func(ctx context.Context, employeeID string, date time.Time) (bool, error) {
		return false, nil
	}
	repo.employeeInCompany = func(ctx context.Context, companyID, employeeID string) (bool, error) {
		return true, nil
	}

	svc := NewService(db, repo, newTestPolicy(t))
	mock.ExpectBegin()
	mock.ExpectCommit()
	_, err := svc.ClockIn(context.Background(), actor, companyID.String(), ClockInRequest{EmployeeID: &otherID})
	assert.NoError(t, err)
	assert.Equal(t, ownID, created.EmployeeID)
}

func TestService_GetAll_EmployeeForcedOwn(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	ownID := uuid.New()
	otherID := uuid.New().String()
	actor := employeeActor(companyID, ownID)

	var gotFilter *string
	repo := &fakeRepo{}
	repo.findAllFn = func(ctx context.Context, companyID string, employeeID *string, from, to *time.Time) ([]Attendance, error) {
		gotFilter = employeeID
		return nil, nil
	}

	svc := NewService(db, repo, newTestPolicy(t))
	_, err := svc.GetAll(context.Background(), actor, companyID.String(), ListAttendanceQuery{EmployeeID: &otherID})
	assert.NoError(t, err)
	assert.NotNil(t, gotFilter)
	assert.Equal(t, ownID.String(), *gotFilter)
}

func TestService_ClockIn_ShiftType(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	employeeID := uuid.New()
	actor := employeeActor(companyID, employeeID)

	var created Attendance
	repo := &fakeRepo{}
	repo.createFn = func(ctx context.Context, a *Attendance) error { created = *a; return nil }
	repo.existsForDateFn = func(ctx context.Context, employeeID string, date time.Time) (bool, error) {
		return false, nil
	}
	repo.employeeInCompany = func(ctx context.Context, companyID, employeeID string) (bool, error) {
		return true, nil
	}

	svc := NewService(db, repo, newTestPolicy(t))

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.ClockIn(context.Background(), actor, companyID.String(), ClockInRequest{})
	assert.NoError(t, err)
	assert.Equal(t, employee.ShiftTypeMorning, resp.ShiftType)
	assert.Equal(t, employee.ShiftTypeMorning, created.ShiftType)

	night := employee.ShiftTypeNight
	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err = svc.ClockIn(context.Background(), actor, companyID.String(), ClockInRequest{ShiftType: &night})
	assert.NoError(t, err)
	assert.Equal(t, employee.ShiftTypeNight, resp.ShiftType)

	bad := "graveyard"
	_, err = svc.ClockIn(context.Background(), actor, companyID.String(), ClockInRequest{ShiftType: &bad})
	assert.ErrorIs(t, err, attendanceerrors.ErrInvalidShiftType)
}

func TestService_ClockOut_NotAfterClockIn(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	employeeID := uuid.New()
	actor := employeeActor(companyID, employeeID)

	clockIn := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	saved := Attendance{
		ID:             uuid.New(),
		CompanyID:      companyID,
		EmployeeID:     employeeID,
		AttendanceDate: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		ClockInTime:    &clockIn,
		Status:         StatusPresent,
	}

	repo := &fakeRepo{}
	repo.findByIDFn = func(ctx context.Context, companyID, id string) (*Attendance, error) { return &saved, nil }

	svc := NewService(db, repo, newTestPolicy(t)).(*service)
	svc.now = func() time.Time { return clockIn }

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.ClockOut(context.Background(), actor, companyID.String(), saved.ID.String(), ClockOutRequest{})
	assert.ErrorIs(t, err, attendanceerrors.ErrClockOutNotAfterClockIn)
}

func TestService_ClockIn_CrossCompanyDenied(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	actor := employeeActor(companyID, uuid.New())

	svc := NewService(db, &fakeRepo{}, newTestPolicy(t))
	_, err := svc.ClockIn(context.Background(), actor, uuid.New().String(), ClockInRequest{})
	assert.ErrorIs(t, err, accesscontrol.ErrTenantMismatch)
}
