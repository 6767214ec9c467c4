package booking

import (
	"time"

	"oficina/internal/domain"
	"oficina/internal/pkg/utils"
)

type CreateBookingRequest struct {
	Type          string    `json:"type" validate:"required,max=100"`
	Description   string    `json:"description" validate:"max=1000"`
	Price         float64   `json:"price" validate:"gt=0"`
	EstimatedTime string    `json:"estimatedTime" validate:"max=50"`
	ScheduledDate time.Time `json:"scheduledDate" validate:"required"`
	Observations  string    `json:"observations" validate:"max=1000"`
	VehicleID     int64     `json:"veiculoId" validate:"required"`
	Images        []string  `json:"images" validate:"max=10,dive,url"`

	// UserID, when set, must name the vehicle's owner.
	UserID *int64 `json:"userId"`
}

// UpdateBookingRequest is the admin edit. Every field is overwritten.
type UpdateBookingRequest struct {
	Type          string    `json:"type" validate:"required,max=100"`
	Description   string    `json:"description" validate:"max=1000"`
	Price         float64   `json:"price" validate:"gt=0"`
	EstimatedTime string    `json:"estimatedTime" validate:"max=50"`
	ScheduledDate time.Time `json:"scheduledDate" validate:"required"`
	Observations  string    `json:"observations" validate:"max=1000"`
	AdminNotes    string    `json:"adminNotes" validate:"max=1000"`
	Images        []string  `json:"images" validate:"max=10,dive,url"`
}

type ConfirmRequest struct {
	Confirmed  *bool   `json:"confirmed" validate:"required"`
	AdminNotes *string `json:"adminNotes" validate:"omitempty,max=1000"`
}

type NotesRequest struct {
	AdminNotes *string `json:"adminNotes" validate:"omitempty,max=1000"`
}

type ListQuery struct {
	Page      int    `form:"page"`
	Limit     int    `form:"limit"`
	Sort      string `form:"sort"`
	Search    string `form:"search"`
	Status    string `form:"status"`
	Type      string `form:"type"`
	UserID    *int64 `form:"userId"`
	VehicleID *int64 `form:"veiculoId"`
	DateFrom  string `form:"dateFrom"`
	DateTo    string `form:"dateTo"`
}

type BookingList struct {
	Servicos   []domain.Booking `json:"servicos"`
	Pagination utils.Pagination `json:"pagination"`
}
