package vehicle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"oficina/internal/domain"
	"oficina/internal/pkg/apperror"
	"oficina/internal/pkg/validator"
	"oficina/internal/repository"

	"gorm.io/gorm"
)

const minYear = 1900

type Service struct {
	vehicles VehicleRepository
	now      func() time.Time
}

func NewService(vehicles VehicleRepository) *Service {
	return &Service{vehicles: vehicles, now: time.Now}
}

func (s *Service) Create(ctx context.Context, caller domain.Caller, req VehicleRequest) (*domain.Vehicle, error) {
	if err := s.validate(req); err != nil {
		return nil, err
	}

	v := &domain.Vehicle{UserID: caller.ID}
	apply(v, req)

	if err := s.vehicles.Create(ctx, v); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPlateTaken
		}
		return nil, err
	}
	return v, nil
}

// List returns the caller's vehicles. Admins see all of them, or one
// user's when q.UserID is set.
func (s *Service) List(ctx context.Context, caller domain.Caller, q ListQuery) ([]domain.Vehicle, error) {
	owner := &caller.ID
	if caller.IsAdmin() {
		owner = q.UserID
	}
	return s.vehicles.List(ctx, owner)
}

func (s *Service) Get(ctx context.Context, caller domain.Caller, id int64) (*domain.Vehicle, error) {
	return s.owned(ctx, caller, id)
}

func (s *Service) Update(ctx context.Context, caller domain.Caller, id int64, req VehicleRequest) (*domain.Vehicle, error) {
	v, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(req); err != nil {
		return nil, err
	}

	apply(v, req)
	if err := s.vehicles.Update(ctx, v); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrPlateTaken
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	return v, nil
}

func (s *Service) Delete(ctx context.Context, caller domain.Caller, id int64) error {
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}
	if err := s.vehicles.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVehicleNotFound
		}
		return err
	}
	return nil
}

func (s *Service) owned(ctx context.Context, caller domain.Caller, id int64) (*domain.Vehicle, error) {
	v, err := s.vehicles.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	if !caller.CanAccess(v.UserID) {
		return nil, ErrNotOwner
	}
	return v, nil
}

// validate adds the year range, which depends on the current date, to the
// struct tag checks.
func (s *Service) validate(req VehicleRequest) error {
	verr := validator.Validate(req)
	if verr == nil {
		verr = apperror.NewValidation()
	}
	if maxYear := s.now().Year() + 1; req.Year != 0 && (req.Year < minYear || req.Year > maxYear) {
		verr.Add("year", fmt.Sprintf("must be between %d and %d", minYear, maxYear))
	}
	return verr.Err()
}

func apply(v *domain.Vehicle, req VehicleRequest) {
	v.Make = strings.TrimSpace(req.Make)
	v.Model = strings.TrimSpace(req.Model)
	v.Year = req.Year
	v.LicensePlate = strings.ToUpper(strings.TrimSpace(req.LicensePlate))
	v.Color = strings.TrimSpace(req.Color)
}
