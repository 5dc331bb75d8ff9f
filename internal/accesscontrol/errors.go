package accesscontrol

import (
	"net/http"

	"github.com/yuvrajkohlioffice/HRMS/internal/shared/apperror"
)

var (
	ErrUnknownRole = apperror.New(
		apperror.CodeUnauthorized,
		"unknown role",
		http.StatusUnauthorized,
	)
	ErrMissingTenant = apperror.New(
		apperror.CodeUnauthorized,
		"account is not linked to a company",
		http.StatusUnauthorized,
	)
	ErrOperationNotAllowed = apperror.New(
		apperror.CodeForbidden,
		"role does not permit this operation",
		http.StatusForbidden,
	)
	ErrTenantMismatch = apperror.New(
		apperror.CodeForbidden,
		"operation targets another company",
		http.StatusForbidden,
	)
)
