package employeeerrors

import (
	"net/http"

	"github.com/yuvrajkohlioffice/HRMS/internal/shared/apperror"
)

var (
	ErrEmployeeNotFound = apperror.New(
		apperror.CodeNotFound,
		"employee not found",
		http.StatusNotFound,
	)
	ErrEmployeeCodeExists = apperror.New(
		apperror.CodeConflict,
		"employee code already exists in this company",
		http.StatusConflict,
	)
	ErrDepartmentNotInCompany = apperror.New(
		apperror.CodeInvalidReference,
		"department does not exist in this company",
		http.StatusBadRequest,
	)
	ErrTeamNotInCompany = apperror.New(
		apperror.CodeInvalidReference,
		"team does not exist in this company",
		http.StatusBadRequest,
	)
	ErrBranchNotInCompany = apperror.New(
		apperror.CodeInvalidReference,
		"branch does not exist in this company",
		http.StatusBadRequest,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
	ErrInvalidReferenceID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid reference id",
		http.StatusBadRequest,
	)
	ErrInvalidHireDate = apperror.New(
		apperror.CodeInvalidInput,
		"invalid hire_date format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidDateOfBirth = apperror.New(
		apperror.CodeInvalidInput,
		"invalid date_of_birth format, expected YYYY-MM-DD",
		http.StatusBadRequest,
	)
	ErrInvalidEmploymentType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employment_type",
		http.StatusBadRequest,
	)
	ErrInvalidEmploymentStatus = apperror.New(
		apperror.CodeInvalidInput,
		"invalid employment_status",
		http.StatusBadRequest,
	)
	ErrInvalidShiftType = apperror.New(
		apperror.CodeInvalidInput,
		"invalid shift_type",
		http.StatusBadRequest,
	)
)
