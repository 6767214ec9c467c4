package booking

import "oficina/internal/pkg/apperror"

var (
	ErrBookingNotFound   = apperror.New(apperror.ErrNotFound, "booking not found")
	ErrVehicleNotFound   = apperror.New(apperror.ErrNotFound, "vehicle not found")
	ErrVehicleNotOwned   = apperror.New(apperror.ErrForbidden, "vehicle belongs to another user")
	ErrForbidden         = apperror.New(apperror.ErrForbidden, "not authorized to access this booking")
	ErrAlreadyProcessed  = apperror.New(apperror.ErrInvalidState, "booking already processed")
	ErrBookingClosed     = apperror.New(apperror.ErrInvalidState, "completed or cancelled bookings cannot be edited")
	ErrInvalidTransition = apperror.New(apperror.ErrInvalidState, "booking status does not allow this change")
)
