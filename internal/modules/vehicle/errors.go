package vehicle

import "oficina/internal/pkg/apperror"

var (
	ErrVehicleNotFound = apperror.New(apperror.ErrNotFound, "vehicle not found")
	ErrPlateTaken      = apperror.New(apperror.ErrAlreadyExists, "license plate already registered")
	ErrNotOwner        = apperror.New(apperror.ErrForbidden, "not authorized to access this vehicle")
)
