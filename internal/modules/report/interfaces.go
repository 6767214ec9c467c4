package report

import (
	"context"

	"oficina/internal/domain"
	"oficina/internal/repository"
)

type BookingRepository interface {
	Aggregate(ctx context.Context, f repository.ReportFilter) (*repository.Aggregates, error)
	ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.Booking, error)
}

type VehicleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
}
