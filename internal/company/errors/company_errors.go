package companyerrors

import (
	"net/http"

	"github.com/yuvrajkohlioffice/HRMS/internal/shared/apperror"
)

var (
	ErrCompanyNotFound = apperror.New(
		apperror.CodeNotFound,
		"company not found",
		http.StatusNotFound,
	)
	ErrCompanyCodeExists = apperror.New(
		apperror.CodeConflict,
		"company code already exists",
		http.StatusConflict,
	)
	ErrInvalidCompanyID = apperror.New(
		apperror.CodeInvalidInput,
		"invalid company id",
		http.StatusBadRequest,
	)
)
