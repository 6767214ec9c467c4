package repository

import (
	"context"
	"strings"

	"oficina/internal/domain"

	"gorm.io/gorm"
)

type VehicleRepository struct {
	db *gorm.DB
}

func NewVehicleRepository(db *gorm.DB) *VehicleRepository {
	return &VehicleRepository{db: db}
}

type vehicleModel struct {
	ID           int64   `gorm:"column:id;primaryKey"`
	Make         string  `gorm:"column:make;not null"`
	Model        string  `gorm:"column:model;not null"`
	Year         *int    `gorm:"column:year"`
	LicensePlate string  `gorm:"column:license_plate;not null;uniqueIndex:idx_vehicles_license_plate"`
	Color        *string `gorm:"column:color"`
	UserID       int64   `gorm:"column:user_id;not null;index"`
}

func (vehicleModel) TableName() string { return "vehicles" }

func toDomainVehicle(m vehicleModel) *domain.Vehicle {
	v := &domain.Vehicle{
		ID:           m.ID,
		Make:         m.Make,
		Model:        m.Model,
		LicensePlate: m.LicensePlate,
		Color:        deref(m.Color),
		UserID:       m.UserID,
	}
	if m.Year != nil {
		v.Year = *m.Year
	}
	return v
}

func toVehicleModel(v *domain.Vehicle) vehicleModel {
	m := vehicleModel{
		ID:           v.ID,
		Make:         v.Make,
		Model:        v.Model,
		LicensePlate: strings.ToUpper(strings.TrimSpace(v.LicensePlate)),
		Color:        optional(v.Color),
		UserID:       v.UserID,
	}
	if v.Year != 0 {
		y := v.Year
		m.Year = &y
	}
	return m
}

func vehicleRef(m *vehicleModel) *domain.VehicleRef {
	if m == nil {
		return nil
	}
	return &domain.VehicleRef{ID: m.ID, Make: m.Make, Model: m.Model, LicensePlate: m.LicensePlate}
}

func (r *VehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	m := toVehicleModel(v)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return translate(err)
	}
	*v = *toDomainVehicle(m)
	return nil
}

func (r *VehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	var m vehicleModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, err
	}
	return toDomainVehicle(m), nil
}

// List returns vehicles owned by userID, or every vehicle when userID is nil.
func (r *VehicleRepository) List(ctx context.Context, userID *int64) ([]domain.Vehicle, error) {
	q := r.db.WithContext(ctx).Model(&vehicleModel{})
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}

	var rows []vehicleModel
	if err := q.Order("id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]domain.Vehicle, 0, len(rows))
	for _, m := range rows {
		out = append(out, *toDomainVehicle(m))
	}
	return out, nil
}

func (r *VehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	m := toVehicleModel(v)
	tx := r.db.WithContext(ctx).
		Model(&vehicleModel{ID: v.ID}).
		Select("*").
		Omit("id").
		Updates(&m)
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	*v = *toDomainVehicle(m)
	return nil
}

func (r *VehicleRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&vehicleModel{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
