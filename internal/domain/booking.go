package domain

import "time"

type BookingStatus string

const (
	BookingPendingConfirmation BookingStatus = "pending_confirmation"
	BookingConfirmed           BookingStatus = "confirmed"
	BookingInProgress          BookingStatus = "in_progress"
	BookingCompleted           BookingStatus = "completed"
	BookingCancelled           BookingStatus = "cancelled"
)

var bookingStatuses = []BookingStatus{
	BookingPendingConfirmation,
	BookingConfirmed,
	BookingInProgress,
	BookingCompleted,
	BookingCancelled,
}

func (s BookingStatus) Valid() bool {
	for _, v := range bookingStatuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s BookingStatus) IsTerminal() bool {
	return s == BookingCompleted || s == BookingCancelled
}

// transitions lists, for each target status, the states it may be entered from.
var transitions = map[BookingStatus][]BookingStatus{
	BookingConfirmed:  {BookingPendingConfirmation},
	BookingInProgress: {BookingConfirmed},
	BookingCompleted:  {BookingConfirmed, BookingInProgress},
	BookingCancelled:  {BookingPendingConfirmation, BookingConfirmed, BookingInProgress},
}

// SourcesFor returns the statuses from which a booking may move to target.
func SourcesFor(target BookingStatus) []BookingStatus {
	out := make([]BookingStatus, len(transitions[target]))
	copy(out, transitions[target])
	return out
}

// Booking is a client-requested service job against a vehicle.
type Booking struct {
	ID            int64         `json:"id"`
	Type          string        `json:"type"`
	Description   string        `json:"description,omitempty"`
	Price         float64       `json:"price"`
	EstimatedTime string        `json:"estimatedTime,omitempty"`
	Status        BookingStatus `json:"status"`
	ScheduledDate time.Time     `json:"scheduledDate"`
	CompletedDate *time.Time    `json:"completedDate,omitempty"`
	Observations  string        `json:"observations,omitempty"`
	AdminNotes    string        `json:"adminNotes,omitempty"`
	UserID        int64         `json:"userId"`
	VehicleID     int64         `json:"veiculoId"`
	Images        []string      `json:"images"`
	ConfirmedBy   *int64        `json:"confirmedBy,omitempty"`
	ConfirmedAt   *time.Time    `json:"confirmedAt,omitempty"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`

	User            *UserRef    `json:"user,omitempty"`
	Vehicle         *VehicleRef `json:"veiculo,omitempty"`
	ConfirmedByUser *UserRef    `json:"confirmedByUser,omitempty"`
}
