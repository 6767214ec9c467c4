package repository

import (
	"context"
	"database/sql"
	"time"

	"oficina/internal/domain"
	"oficina/internal/pkg/utils"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID            int64      `gorm:"column:id;primaryKey"`
	Type          string     `gorm:"column:type;not null;index"`
	Description   *string    `gorm:"column:description"`
	Price         float64    `gorm:"column:price;not null"`
	EstimatedTime *string    `gorm:"column:estimated_time"`
	Status        string     `gorm:"column:status;not null;index:idx_bookings_user_status,priority:2"`
	ScheduledDate time.Time  `gorm:"column:scheduled_date;not null;index"`
	CompletedDate *time.Time `gorm:"column:completed_date"`
	Observations  *string    `gorm:"column:observations"`
	AdminNotes    *string    `gorm:"column:admin_notes"`
	UserID        int64      `gorm:"column:user_id;not null;index:idx_bookings_user_status,priority:1"`
	VehicleID     int64      `gorm:"column:vehicle_id;not null;index"`
	Images        string     `gorm:"column:images;type:text;not null"`
	ConfirmedBy   *int64     `gorm:"column:confirmed_by"`
	ConfirmedAt   *time.Time `gorm:"column:confirmed_at"`
	CreatedAt     time.Time  `gorm:"column:created_at"`
	UpdatedAt     time.Time  `gorm:"column:updated_at"`

	User            *userModel    `gorm:"foreignKey:UserID"`
	Vehicle         *vehicleModel `gorm:"foreignKey:VehicleID"`
	ConfirmedByUser *userModel    `gorm:"foreignKey:ConfirmedBy"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	b := &domain.Booking{
		ID:            m.ID,
		Type:          m.Type,
		Description:   deref(m.Description),
		Price:         m.Price,
		EstimatedTime: deref(m.EstimatedTime),
		Status:        domain.BookingStatus(m.Status),
		ScheduledDate: m.ScheduledDate,
		CompletedDate: m.CompletedDate,
		Observations:  deref(m.Observations),
		AdminNotes:    deref(m.AdminNotes),
		UserID:        m.UserID,
		VehicleID:     m.VehicleID,
		Images:        utils.JSONToStrings(m.Images),
		ConfirmedBy:   m.ConfirmedBy,
		ConfirmedAt:   m.ConfirmedAt,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,

		User:            userRef(m.User),
		Vehicle:         vehicleRef(m.Vehicle),
		ConfirmedByUser: userRef(m.ConfirmedByUser),
	}
	if b.ConfirmedByUser != nil {
		b.ConfirmedByUser.Email = ""
	}
	return b
}

func toBookingModel(b *domain.Booking) bookingModel {
	return bookingModel{
		ID:            b.ID,
		Type:          b.Type,
		Description:   optional(b.Description),
		Price:         b.Price,
		EstimatedTime: optional(b.EstimatedTime),
		Status:        string(b.Status),
		ScheduledDate: b.ScheduledDate.UTC(),
		CompletedDate: b.CompletedDate,
		Observations:  optional(b.Observations),
		AdminNotes:    optional(b.AdminNotes),
		UserID:        b.UserID,
		VehicleID:     b.VehicleID,
		Images:        utils.StringsToJSON(b.Images),
		ConfirmedBy:   b.ConfirmedBy,
		ConfirmedAt:   b.ConfirmedAt,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func withOwner(db *gorm.DB) *gorm.DB {
	return db.Select("id", "name", "email")
}

func withVehicle(db *gorm.DB) *gorm.DB {
	return db.Select("id", "make", "model", "license_plate")
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	m := toBookingModel(b)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return translate(err)
	}
	*b = *toDomainBooking(m)
	return nil
}

// GetByID loads a booking with its owner, vehicle and confirming admin resolved.
func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	err := r.db.WithContext(ctx).
		Preload("User", withOwner).
		Preload("Vehicle", withVehicle).
		Preload("ConfirmedByUser", withOwner).
		First(&m, id).Error
	if err != nil {
		return nil, err
	}
	return toDomainBooking(m), nil
}

func (r *BookingRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&bookingModel{}).Where("id = ?", id).Count(&count).Error
	return count > 0, err
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter, sort string, limit, offset int) ([]domain.Booking, int64, error) {
	base := func() *gorm.DB { return f.apply(r.db.WithContext(ctx).Model(&bookingModel{})) }

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []bookingModel
	err := base().
		Preload("User", withOwner).
		Preload("Vehicle", withVehicle).
		Order(BookingOrder(sort)).
		Limit(limit).
		Offset(offset).
		Find(&rows).Error
	if err != nil {
		return nil, 0, err
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, total, nil
}

// ListByVehicle returns the full history of a vehicle, newest first.
func (r *BookingRepository) ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.Booking, error) {
	var rows []bookingModel
	err := r.db.WithContext(ctx).
		Where("vehicle_id = ?", vehicleID).
		Preload("User", withOwner).
		Preload("ConfirmedByUser", withOwner).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make([]domain.Booking, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

// Update overwrites the editable fields. Status and confirmation stamps are
// only changed through TransitionStatus.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ?", b.ID).
		Updates(map[string]any{
			"type":           b.Type,
			"description":    optional(b.Description),
			"price":          b.Price,
			"estimated_time": optional(b.EstimatedTime),
			"scheduled_date": b.ScheduledDate.UTC(),
			"observations":   optional(b.Observations),
			"admin_notes":    optional(b.AdminNotes),
			"images":         utils.StringsToJSON(b.Images),
			"updated_at":     time.Now().UTC(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *BookingRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&bookingModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// StatusPatch is applied together with a status change. Nil fields are left untouched.
type StatusPatch struct {
	Status        domain.BookingStatus
	ConfirmedBy   *int64
	ConfirmedAt   *time.Time
	CompletedDate *time.Time
	AdminNotes    *string
}

// TransitionStatus applies patch only while the booking is in one of from.
// It reports false when no row matched, so concurrent transitions cannot both win.
func (r *BookingRepository) TransitionStatus(ctx context.Context, id int64, from []domain.BookingStatus, p StatusPatch) (bool, error) {
	states := make([]string, 0, len(from))
	for _, s := range from {
		states = append(states, string(s))
	}

	updates := map[string]any{
		"status":     string(p.Status),
		"updated_at": time.Now().UTC(),
	}
	if p.ConfirmedBy != nil {
		updates["confirmed_by"] = *p.ConfirmedBy
	}
	if p.ConfirmedAt != nil {
		updates["confirmed_at"] = p.ConfirmedAt.UTC()
	}
	if p.CompletedDate != nil {
		updates["completed_date"] = p.CompletedDate.UTC()
	}
	if p.AdminNotes != nil {
		updates["admin_notes"] = *p.AdminNotes
	}

	tx := r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Where("id = ? AND status IN ?", id, states).
		Updates(updates)
	if tx.Error != nil {
		return false, tx.Error
	}
	return tx.RowsAffected > 0, nil
}

type TypeAggregate struct {
	Type    string
	Count   int64
	Revenue float64
}

type StatusAggregate struct {
	Status string
	Count  int64
}

type TurnaroundSample struct {
	ScheduledDate time.Time
	CompletedDate time.Time
}

// Aggregates are the raw report rollups, all computed over one ReportFilter.
type Aggregates struct {
	ByType      []TypeAggregate
	ByStatus    []StatusAggregate
	Revenue     float64
	Turnarounds []TurnaroundSample
	Total       int64
}

// Aggregate runs every report query inside one read transaction so the
// rollups describe the same snapshot.
func (r *BookingRepository) Aggregate(ctx context.Context, f ReportFilter) (*Aggregates, error) {
	out := &Aggregates{
		ByType:      []TypeAggregate{},
		ByStatus:    []StatusAggregate{},
		Turnarounds: []TurnaroundSample{},
	}

	var opts []*sql.TxOptions
	if r.db.Dialector.Name() == "postgres" {
		opts = append(opts, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		base := func() *gorm.DB { return f.apply(tx.Model(&bookingModel{})) }

		if err := base().
			Select("type, COUNT(*) AS count, COALESCE(SUM(price), 0) AS revenue").
			Group("type").
			Order("count DESC, type ASC").
			Scan(&out.ByType).Error; err != nil {
			return err
		}

		if err := base().
			Select("status, COUNT(*) AS count").
			Group("status").
			Order("count DESC, status ASC").
			Scan(&out.ByStatus).Error; err != nil {
			return err
		}

		var revenue sql.NullFloat64
		if err := base().
			Where("status = ?", string(domain.BookingCompleted)).
			Select("COALESCE(SUM(price), 0)").
			Scan(&revenue).Error; err != nil {
			return err
		}
		out.Revenue = revenue.Float64

		if err := base().
			Where("status = ? AND completed_date IS NOT NULL", string(domain.BookingCompleted)).
			Select("scheduled_date, completed_date").
			Scan(&out.Turnarounds).Error; err != nil {
			return err
		}

		return base().Count(&out.Total).Error
	}, opts...)
	if err != nil {
		return nil, err
	}
	return out, nil
}
