package attendanceerrors

import (
	"net/http"

	"github.com/yuvrajkohlioffice/HRMS/internal/shared/apperror"
)

var (
	ErrAttendanceNotFound = apperror.New(
		apperror.CodeNotFound,
		"attendance record not found",
		http.StatusNotFound,
	)
	ErrAlreadyClockedIn = apperror.New(
		apperror.CodeConflict,
		"employee already clocked in today",
		http.StatusConflict,
	)
	ErrAlreadyClockedOut = apperror.New(
		apperror.CodeInvalidState,
		"attendance record already clocked out",
		http.StatusConflict,
	)
	ErrClockOutNotAfterClockIn = apperror.New(
		apperror.CodeInvalidState,
		"clock out must be after clock in",
		http.StatusConflict,
	)
	ErrInvalidShiftType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid shift type",
		http.StatusBadRequest,
	)
	ErrEmployeeNotInCompany = apperror.New(
		apperror.CodeInvalidReference,
		"employee does not exist in this company",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidEmployeeID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employee id",
		http.StatusBadRequest,
	)
	ErrInvalidDateRange = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date range, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
)
