package employee

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/yuvrajkohlioffice/HRMS/internal/accesscontrol"
	employeeerrors "github.com/yuvrajkohlioffice/HRMS/internal/employee/errors"
	"github.com/yuvrajkohlioffice/HRMS/internal/events"
	"github.com/yuvrajkohlioffice/HRMS/internal/messaging/kafka"
)

type fakeRepo struct {
	createFn       func(ctx context.Context, e *Employee) error
	findAllFn      func(ctx context.Context, companyID string, q ListEmployeesQuery) ([]Employee, error)
	findOptionsFn  func(ctx context.Context, companyID string) ([]Employee, error)
	findByIDFn     func(ctx context.Context, companyID, id string) (*Employee, error)
	updateFn       func(ctx context.Context, e *Employee) error
	softDeleteFn   func(ctx context.Context, companyID, id string) (int64, error)
	codeExistsFn   func(ctx context.Context, companyID, code string) (bool, error)
	deptFn         func(ctx context.Context, companyID, id string) (bool, error)
	teamFn         func(ctx context.Context, companyID, id string) (bool, error)
	branchFn       func(ctx context.Context, companyID, id string) (bool, error)
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository                  { return f }
func (f *fakeRepo) Create(ctx context.Context, e *Employee) error { return f.createFn(ctx, e) }
func (f *fakeRepo) FindAllByCompany(ctx context.Context, companyID string, q ListEmployeesQuery) ([]Employee, error) {
	return f.findAllFn(ctx, companyID, q)
}
func (f *fakeRepo) FindOptionsByCompany(ctx context.Context, companyID string) ([]Employee, error) {
	return f.findOptionsFn(ctx, companyID)
}
func (f *fakeRepo) FindByIDAndCompany(ctx context.Context, companyID, id string) (*Employee, error) {
	return f.findByIDFn(ctx, companyID, id)
}
func (f *fakeRepo) Update(ctx context.Context, e *Employee) error { return f.updateFn(ctx, e) }
func (f *fakeRepo) SoftDelete(ctx context.Context, companyID, id string) (int64, error) {
	return f.softDeleteFn(ctx, companyID, id)
}
func (f *fakeRepo) CodeExists(ctx context.Context, companyID, code string) (bool, error) {
	return f.codeExistsFn(ctx, companyID, code)
}
func (f *fakeRepo) DepartmentBelongsToCompany(ctx context.Context, companyID, id string) (bool, error) {
	return f.deptFn(ctx, companyID, id)
}
func (f *fakeRepo) TeamBelongsToCompany(ctx context.Context, companyID, id string) (bool, error) {
	return f.teamFn(ctx, companyID, id)
}
func (f *fakeRepo) BranchBelongsToCompany(ctx context.Context, companyID, id string) (bool, error) {
	return f.branchFn(ctx, companyID, id)
}

type fakeCounter struct {
	next int64
}

func (f *fakeCounter) GetNextValue(ctx context.Context, companyID, counterType string) (int64, error) {
	f.next++
	return f.next, nil
}

type fakeOutbox struct {
	events []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *sql.Tx) kafka.OutboxRepository { return f }
func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return f.events, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error           { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

func newTestPolicy(t *testing.T) accesscontrol.Policy {
	t.Helper()
	p, err := accesscontrol.NewPolicy()
	assert.NoError(t, err)
	return p
}

func managerActor(companyID uuid.UUID) accesscontrol.Actor {
	return accesscontrol.Actor{
		UserID:    uuid.New(),
		Role:      accesscontrol.RoleManager,
		CompanyID: &companyID,
	}
}

func TestService_Create_GeneratesCodeAndQueuesEvent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	actor := managerActor(companyID)

	var created Employee
	repo := &fakeRepo{}
	repo.createFn = func(ctx context.Context, e *Employee) error { created = *e; return nil }

	outbox := &fakeOutbox{}
	svc := NewServiceWithOutbox(db, repo, &fakeCounter{}, outbox, newTestPolicy(t), nil)

	mock.ExpectBegin()
	mock.ExpectCommit()
	resp, err := svc.Create(context.Background(), actor, companyID.String(), CreateEmployeeRequest{
		FirstName:   "Ana",
		LastName:    "Silva",
		Email:       "ana@example.com",
		Designation: "Backend Engineer",
		HireDate:    "2026-02-01",
	})
	assert.NoError(t, err)
	assert.Equal(t, "EMP-000001", resp.EmployeeCode)
	assert.Equal(t, EmploymentStatusActive, resp.EmploymentStatus)
	assert.Equal(t, EmploymentTypeFullTime, resp.EmploymentType)

	assert.Len(t, outbox.events, 1)
	assert.Equal(t, "employee_created", outbox.events[0].EventType)
	assert.Equal(t, events.EmployeeCreatedTopic, outbox.events[0].Topic)
	assert.Equal(t, kafka.OutboxStatusPending, outbox.events[0].Status)
	assert.Equal(t, created.ID.String(), outbox.events[0].AggregateID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_Create_ExplicitCodeConflict(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	actor := managerActor(companyID)

	repo := &fakeRepo{}
	repo.codeExistsFn = func(ctx context.Context, companyID, code string) (bool, error) { return true, nil }

	svc := NewService(db, repo, &fakeCounter{}, newTestPolicy(t), nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), actor, companyID.String(), CreateEmployeeRequest{
		EmployeeCode: "EMP-000042",
		FirstName:    "Ana",
		LastName:     "Silva",
		Email:        "ana@example.com",
		Designation:  "Backend Engineer",
		HireDate:     "2026-02-01",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeCodeExists)
}

func TestService_Create_InvalidHireDate(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	actor := managerActor(companyID)

	svc := NewService(db, &fakeRepo{}, &fakeCounter{}, newTestPolicy(t), nil)
	_, err := svc.Create(context.Background(), actor, companyID.String(), CreateEmployeeRequest{
		FirstName:   "Ana",
		LastName:    "Silva",
		Email:       "ana@example.com",
		Designation: "Backend Engineer",
		HireDate:    "01-02-2026",
	})
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidHireDate)
}

func TestService_Create_DepartmentNotInCompany(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	actor := managerActor(companyID)
	foreignDept := uuid.New().String()

	repo := &fakeRepo{}
	repo.deptFn = func(ctx context.Context, companyID, id string) (bool, error) { return false, nil }

	svc := NewService(db, repo, &fakeCounter{}, newTestPolicy(t), nil)

	mock.ExpectBegin()
	mock.ExpectRollback()
	_, err := svc.Create(context.Background(), actor, companyID.String(), CreateEmployeeRequest{
		FirstName:    "Ana",
		LastName:     "Silva",
		Email:        "ana@example.com",
		Designation:  "Backend Engineer",
		HireDate:     "2026-02-01",
		DepartmentID: &foreignDept,
	})
	assert.ErrorIs(t, err, employeeerrors.ErrDepartmentNotInCompany)
}

func TestService_Delete_NotFound(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	actor := accesscontrol.Actor{
		UserID:    uuid.New(),
		Role:      accesscontrol.RoleCompanyAdmin,
		CompanyID: &companyID,
	}

	repo := &fakeRepo{}
	repo.softDeleteFn = func(ctx context.Context, companyID, id string) (int64, error) { return 0, nil }

	svc := NewService(db, repo, &fakeCounter{}, newTestPolicy(t), nil)
	err := svc.Delete(context.Background(), actor, companyID.String(), uuid.New().String())
	assert.ErrorIs(t, err, employeeerrors.ErrEmployeeNotFound)
}

func TestService_Delete_ManagerDenied(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	actor := managerActor(companyID)

	svc := NewService(db, &fakeRepo{}, &fakeCounter{}, newTestPolicy(t), nil)
	err := svc.Delete(context.Background(), actor, companyID.String(), uuid.New().String())
	assert.ErrorIs(t, err, accesscontrol.ErrOperationNotAllowed)
}

func TestService_GetAll_InvalidStatusFilter(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	companyID := uuid.New()
	actor := managerActor(companyID)
	bad := "retired"

	svc := NewService(db, &fakeRepo{}, &fakeCounter{}, newTestPolicy(t), nil)
	_, err := svc.GetAll(context.Background(), actor, companyID.String(), ListEmployeesQuery{EmploymentStatus: &bad})
	assert.ErrorIs(t, err, employeeerrors.ErrInvalidEmploymentStatus)
}
