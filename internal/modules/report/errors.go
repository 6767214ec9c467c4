package report

import "oficina/internal/pkg/apperror"

var (
	ErrVehicleNotFound = apperror.New(apperror.ErrNotFound, "vehicle not found")
	ErrForbidden       = apperror.New(apperror.ErrForbidden, "not authorized to view this vehicle")
)
