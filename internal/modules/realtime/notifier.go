package realtime

import (
	"oficina/internal/domain"
)

// BookingStatusPayload is the body of an EventBookingStatus event.
type BookingStatusPayload struct {
	BookingID  int64                `json:"servicoId"`
	Status     domain.BookingStatus `json:"status"`
	AdminNotes string               `json:"adminNotes,omitempty"`
}

// Notifier pushes booking status changes to the owning client.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) BookingStatusChanged(b *domain.Booking) bool {
	return n.hub.SendToUser(b.UserID, Event{
		Type: EventBookingStatus,
		Payload: BookingStatusPayload{
			BookingID:  b.ID,
			Status:     b.Status,
			AdminNotes: b.AdminNotes,
		},
	})
}
