package main

import (
	"context"
	"fmt"
	"time"

	"oficina/internal/config"
	"oficina/internal/database"
	"oficina/internal/domain"
	"oficina/internal/logger"
	"oficina/internal/repository"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type seeder struct {
	ctx      context.Context
	log      *zap.Logger
	users    *repository.UserRepository
	vehicles *repository.VehicleRepository
	catalog  *repository.CatalogRepository
	bookings *repository.BookingRepository
	reviews  *repository.ReviewRepository
	favs     *repository.FavoriteRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("config: " + err.Error())
	}
	if cfg.IsProduction() {
		panic("seed refuses to run in a production environment")
	}

	log := logger.New(cfg.AppEnv)
	defer func() { _ = log.Sync() }()

	db, err := database.Connect(cfg.DatabaseURL, log)
	if err != nil {
		log.Fatal("db connect failed", zap.Error(err))
	}
	if database.IsPostgres(cfg.DatabaseURL) {
		err = database.Migrate(db)
	} else {
		err = repository.AutoMigrate(db)
	}
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}

	log.Info("cleaning old data")
	if err := clean(db); err != nil {
		log.Fatal("cleanup failed", zap.Error(err))
	}

	s := &seeder{
		ctx:      context.Background(),
		log:      log,
		users:    repository.NewUserRepository(db),
		vehicles: repository.NewVehicleRepository(db),
		catalog:  repository.NewCatalogRepository(db),
		bookings: repository.NewBookingRepository(db),
		reviews:  repository.NewReviewRepository(db),
		favs:     repository.NewFavoriteRepository(db),
	}
	if err := s.run(); err != nil {
		log.Fatal("seed failed", zap.Error(err))
	}

	log.Info("seed completed")
	log.Info("test accounts",
		zap.String("admin", "admin@oficina.local / admin123"),
		zap.String("clients", "cliente1@oficina.local ... cliente3@oficina.local / cliente123"),
	)
}

// clean empties tables child-first so foreign keys never block the delete.
func clean(db *gorm.DB) error {
	for _, table := range []string{"reviews", "favorites", "bookings", "vehicles", "catalog_entries", "users"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clean %s: %w", table, err)
		}
	}
	return nil
}

func (s *seeder) run() error {
	admin, err := s.user("Administrador", "admin@oficina.local", "admin123", domain.RoleAdmin)
	if err != nil {
		return err
	}

	clients := make([]*domain.User, 0, 3)
	for i := 1; i <= 3; i++ {
		u, err := s.user(fmt.Sprintf("Cliente %d", i), fmt.Sprintf("cliente%d@oficina.local", i), "cliente123", domain.RoleClient)
		if err != nil {
			return err
		}
		clients = append(clients, u)
	}

	s.log.Info("creating vehicles")
	models := []struct{ make, model, plate string }{
		{"Fiat", "Uno", "ABC1D23"},
		{"Volkswagen", "Gol", "BRA2E19"},
		{"Chevrolet", "Onix", "QWE3R45"},
	}
	vehicles := make([]*domain.Vehicle, 0, len(models))
	for i, m := range models {
		v := &domain.Vehicle{Make: m.make, Model: m.model, Year: 2015 + i*2, LicensePlate: m.plate, Color: "Prata", UserID: clients[i].ID}
		if err := s.vehicles.Create(s.ctx, v); err != nil {
			return fmt.Errorf("vehicle %s: %w", m.plate, err)
		}
		vehicles = append(vehicles, v)
	}

	s.log.Info("creating catalog")
	entries := []*domain.CatalogEntry{
		{Name: "Troca de oleo", Category: "manutencao", BasePrice: 120, EstimatedDuration: "1 hora", Tags: []string{"oleo", "motor"}, Difficulty: domain.DifficultyEasy, RequiredParts: []string{"oleo 5W30", "filtro de oleo"}},
		{Name: "Alinhamento e balanceamento", Category: "suspensao", BasePrice: 150, EstimatedDuration: "2 horas", Tags: []string{"pneus", "suspensao"}, Difficulty: domain.DifficultyMedium},
		{Name: "Revisao de freios", Category: "freios", BasePrice: 280, EstimatedDuration: "3 horas", Tags: []string{"freios", "seguranca"}, Difficulty: domain.DifficultyMedium, RequiredParts: []string{"pastilhas"}, Warranty: "6 meses"},
		{Name: "Retifica de motor", Category: "motor", BasePrice: 3500, EstimatedDuration: "10 dias", Tags: []string{"motor"}, Difficulty: domain.DifficultyHard, Warranty: "12 meses"},
	}
	for _, e := range entries {
		e.Description = e.Name + " com pecas originais"
		e.IsActive = true
		if err := s.catalog.Create(s.ctx, e); err != nil {
			return fmt.Errorf("catalog %s: %w", e.Name, err)
		}
	}

	s.log.Info("creating bookings")
	now := time.Now().UTC()
	plan := []struct {
		vehicle int
		entry   int
		status  domain.BookingStatus
		days    int
		took    time.Duration
	}{
		{0, 0, domain.BookingCompleted, -20, 48 * time.Hour},
		{1, 1, domain.BookingCompleted, -10, 24 * time.Hour},
		{2, 2, domain.BookingConfirmed, 3, 0},
		{0, 1, domain.BookingPendingConfirmation, 5, 0},
		{1, 3, domain.BookingInProgress, -1, 0},
		{2, 0, domain.BookingCancelled, -4, 0},
	}
	for i, p := range plan {
		v, e := vehicles[p.vehicle], entries[p.entry]
		b := &domain.Booking{
			Type:          e.Name,
			Description:   fmt.Sprintf("Servico %d", i+1),
			Price:         e.BasePrice,
			EstimatedTime: e.EstimatedDuration,
			Status:        p.status,
			ScheduledDate: now.AddDate(0, 0, p.days),
			UserID:        v.UserID,
			VehicleID:     v.ID,
		}
		if p.status != domain.BookingPendingConfirmation {
			at := b.ScheduledDate.Add(-24 * time.Hour)
			b.ConfirmedBy, b.ConfirmedAt = &admin.ID, &at
		}
		if p.status == domain.BookingCompleted {
			done := b.ScheduledDate.Add(p.took)
			b.CompletedDate = &done
		}
		if err := s.bookings.Create(s.ctx, b); err != nil {
			return fmt.Errorf("booking %d: %w", i+1, err)
		}
	}

	s.log.Info("creating reviews and favorites")
	for i, c := range clients {
		rv := &domain.Review{UserID: c.ID, CatalogEntryID: entries[i].ID, Rating: 3 + i, Comment: "Atendimento rapido"}
		if err := s.reviews.Create(s.ctx, rv); err != nil {
			return fmt.Errorf("review: %w", err)
		}
		if i > 0 {
			if _, err := s.reviews.Approve(s.ctx, rv.ID); err != nil {
				return fmt.Errorf("approve review: %w", err)
			}
		}
		if _, err := s.favs.Add(s.ctx, c.ID, entries[len(entries)-1-i].ID); err != nil {
			return fmt.Errorf("favorite: %w", err)
		}
	}
	return nil
}

func (s *seeder) user(name, email, password string, role domain.UserRole) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		IsActive:     true,
	}
	if err := s.users.Create(s.ctx, u); err != nil {
		return nil, fmt.Errorf("user %s: %w", email, err)
	}
	return u, nil
}
