package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"oficina/internal/domain"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	_ "modernc.org/sqlite"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(gormsqlite.New(gormsqlite.Config{DriverName: "sqlite", DSN: dsn}), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         logger.Default.LogMode(logger.Silent),

		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, AutoMigrate(db))
	return db
}

type fixtures struct {
	users    *UserRepository
	vehicles *VehicleRepository
	catalog  *CatalogRepository
	bookings *BookingRepository
}

func newFixtures(t *testing.T) (*gorm.DB, fixtures) {
	db := newTestDB(t)
	return db, fixtures{
		users:    NewUserRepository(db),
		vehicles: NewVehicleRepository(db),
		catalog:  NewCatalogRepository(db),
		bookings: NewBookingRepository(db),
	}
}

func (f fixtures) user(t *testing.T, name string, role domain.UserRole) *domain.User {
	t.Helper()
	u := &domain.User{
		Name:         name,
		Email:        name + "@oficina.test",
		PasswordHash: "hash",
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, f.users.Create(context.Background(), u))
	return u
}

func (f fixtures) vehicle(t *testing.T, owner int64, plate string) *domain.Vehicle {
	t.Helper()
	v := &domain.Vehicle{Make: "Fiat", Model: "Uno", Year: 2012, LicensePlate: plate, UserID: owner}
	require.NoError(t, f.vehicles.Create(context.Background(), v))
	return v
}

func (f fixtures) booking(t *testing.T, owner, vehicle int64, typ string, price float64, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		Type:          typ,
		Price:         price,
		Status:        status,
		ScheduledDate: time.Now().Add(24 * time.Hour),
		UserID:        owner,
		VehicleID:     vehicle,
	}
	require.NoError(t, f.bookings.Create(context.Background(), b))
	return b
}

func (f fixtures) entry(t *testing.T, name, category string, price float64, tags ...string) *domain.CatalogEntry {
	t.Helper()
	e := &domain.CatalogEntry{
		Name:              name,
		Description:       name + " description",
		Category:          category,
		BasePrice:         price,
		EstimatedDuration: "1 hora",
		Tags:              tags,
		IsActive:          true,
		Difficulty:        domain.DifficultyMedium,
	}
	require.NoError(t, f.catalog.Create(context.Background(), e))
	return e
}
