package booking

import (
	"context"

	"oficina/internal/domain"
	"oficina/internal/events"
	"oficina/internal/repository"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Exists(ctx context.Context, id int64) (bool, error)
	List(ctx context.Context, f repository.BookingFilter, sort string, limit, offset int) ([]domain.Booking, int64, error)
	Update(ctx context.Context, b *domain.Booking) error
	Delete(ctx context.Context, id int64) error
	TransitionStatus(ctx context.Context, id int64, from []domain.BookingStatus, p repository.StatusPatch) (bool, error)
}

type VehicleRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Vehicle, error)
}

type Mailer interface {
	Send(ctx context.Context, to, subject, body string) error
}

type EventPublisher interface {
	PublishBookingStatus(ctx context.Context, ev events.BookingStatusChanged) error
}

// StatusNotifier pushes a status change to the owner's open connections.
// It reports whether anyone was listening.
type StatusNotifier interface {
	BookingStatusChanged(b *domain.Booking) bool
}

type TransitionRecorder interface {
	BookingTransitioned(status string)
}
