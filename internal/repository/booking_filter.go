package repository

import (
	"strings"
	"time"

	"oficina/internal/domain"

	"gorm.io/gorm"
)

// BookingFilter holds one optional field per list dimension. Zero values are ignored.
type BookingFilter struct {
	UserID    *int64
	VehicleID *int64
	Status    domain.BookingStatus
	Type      string
	Search    string
	DateFrom  *time.Time
	DateTo    *time.Time
}

func (f BookingFilter) apply(q *gorm.DB) *gorm.DB {
	if f.UserID != nil {
		q = q.Where("bookings.user_id = ?", *f.UserID)
	}
	if f.VehicleID != nil {
		q = q.Where("bookings.vehicle_id = ?", *f.VehicleID)
	}
	if f.Status != "" {
		q = q.Where("bookings.status = ?", string(f.Status))
	}
	if f.Type != "" {
		q = q.Where(`LOWER(bookings.type) LIKE ? ESCAPE '\'`, likePattern(f.Type))
	}
	if f.Search != "" {
		p := likePattern(f.Search)
		q = q.Where(`(LOWER(bookings.type) LIKE ? ESCAPE '\' OR LOWER(COALESCE(bookings.description, '')) LIKE ? ESCAPE '\' OR LOWER(COALESCE(bookings.observations, '')) LIKE ? ESCAPE '\')`, p, p, p)
	}
	if f.DateFrom != nil {
		q = q.Where("bookings.scheduled_date >= ?", f.DateFrom.UTC())
	}
	if f.DateTo != nil {
		q = q.Where("bookings.scheduled_date <= ?", f.DateTo.UTC())
	}
	return q
}

var bookingSortColumns = map[string]string{
	"createdAt":     "bookings.created_at",
	"updatedAt":     "bookings.updated_at",
	"scheduledDate": "bookings.scheduled_date",
	"completedDate": "bookings.completed_date",
	"price":         "bookings.price",
	"type":          "bookings.type",
	"status":        "bookings.status",
}

const DefaultBookingSort = "-createdAt"

// BookingOrder turns "field" or "-field" into an ORDER BY clause. Unknown
// fields fall back to the default newest-first order.
func BookingOrder(sort string) string {
	sort = strings.TrimSpace(sort)
	if sort == "" {
		sort = DefaultBookingSort
	}

	dir := "ASC"
	if strings.HasPrefix(sort, "-") {
		dir = "DESC"
		sort = sort[1:]
	}

	col, ok := bookingSortColumns[sort]
	if !ok {
		col, dir = bookingSortColumns["createdAt"], "DESC"
	}
	return col + " " + dir + ", bookings.id " + dir
}

// ReportFilter is the base set shared by every report aggregate.
type ReportFilter struct {
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	Type        string
}

func (f ReportFilter) apply(q *gorm.DB) *gorm.DB {
	if f.CreatedFrom != nil && f.CreatedTo != nil {
		q = q.Where("bookings.created_at >= ? AND bookings.created_at <= ?", f.CreatedFrom.UTC(), f.CreatedTo.UTC())
	}
	if f.Type != "" {
		q = q.Where("bookings.type = ?", f.Type)
	}
	return q
}
