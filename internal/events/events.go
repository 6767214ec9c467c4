// Package events publishes booking domain events to RabbitMQ.
// Publishing is best-effort: callers log failures and carry on.
package events

import (
	"context"
	"time"

	"oficina/internal/domain"
)

// BookingStatusChanged is emitted after every committed booking transition.
type BookingStatusChanged struct {
	BookingID   int64                `json:"bookingId"`
	UserID      int64                `json:"userId"`
	Status      domain.BookingStatus `json:"status"`
	ConfirmedBy *int64               `json:"confirmedBy,omitempty"`
	At          time.Time            `json:"at"`
}

func NewBookingStatusChanged(b *domain.Booking, at time.Time) BookingStatusChanged {
	return BookingStatusChanged{
		BookingID:   b.ID,
		UserID:      b.UserID,
		Status:      b.Status,
		ConfirmedBy: b.ConfirmedBy,
		At:          at.UTC(),
	}
}

type Publisher interface {
	PublishBookingStatus(ctx context.Context, ev BookingStatusChanged) error
	Close() error
}

type NoopPublisher struct{}

func (NoopPublisher) PublishBookingStatus(context.Context, BookingStatusChanged) error { return nil }

func (NoopPublisher) Close() error { return nil }
