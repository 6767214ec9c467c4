package report

import (
	"context"
	"errors"
	"strings"

	"oficina/internal/domain"
	"oficina/internal/pkg/apperror"
	"oficina/internal/pkg/utils"
	"oficina/internal/repository"

	"gorm.io/gorm"
)

const hoursPerDay = 24

type Service struct {
	bookings BookingRepository
	vehicles VehicleRepository
}

func NewService(bookings BookingRepository, vehicles VehicleRepository) *Service {
	return &Service{bookings: bookings, vehicles: vehicles}
}

// Build rolls up bookings created within [StartDate, EndDate]. The range is
// only applied when both ends are given.
func (s *Service) Build(ctx context.Context, q ReportQuery) (*Report, error) {
	f, err := reportFilter(q)
	if err != nil {
		return nil, err
	}

	agg, err := s.bookings.Aggregate(ctx, f)
	if err != nil {
		return nil, err
	}

	out := &Report{
		ByType:        make([]TypeCount, 0, len(agg.ByType)),
		ByStatus:      make([]StatusCount, 0, len(agg.ByStatus)),
		Revenue:       agg.Revenue,
		AvgTurnaround: averageTurnaround(agg.Turnarounds),
		TotalServicos: agg.Total,
	}
	for _, t := range agg.ByType {
		out.ByType = append(out.ByType, TypeCount{Type: t.Type, Count: t.Count, Revenue: t.Revenue})
	}
	for _, st := range agg.ByStatus {
		out.ByStatus = append(out.ByStatus, StatusCount{Status: st.Status, Count: st.Count})
	}
	return out, nil
}

func reportFilter(q ReportQuery) (repository.ReportFilter, error) {
	verr := apperror.NewValidation()

	from, err := utils.ParseDate(q.StartDate)
	if err != nil {
		verr.Add("startDate", "must be a valid date")
	}
	to, err := utils.ParseDate(q.EndDate)
	if err != nil {
		verr.Add("endDate", "must be a valid date")
	}
	if from != nil && to != nil && to.Before(*from) {
		verr.Add("endDate", "must not be before startDate")
	}

	f := repository.ReportFilter{Type: strings.TrimSpace(q.Type)}
	if from != nil && to != nil {
		f.CreatedFrom, f.CreatedTo = from, to
	}
	return f, verr.Err()
}

// averageTurnaround is the mean of completedDate - scheduledDate in days.
func averageTurnaround(samples []repository.TurnaroundSample) float64 {
	if len(samples) == 0 {
		return 0
	}
	var total float64
	for _, s := range samples {
		total += s.CompletedDate.Sub(s.ScheduledDate).Hours() / hoursPerDay
	}
	return total / float64(len(samples))
}

// VehicleHistory lists every booking of a vehicle, newest first.
func (s *Service) VehicleHistory(ctx context.Context, caller domain.Caller, vehicleID int64) ([]domain.Booking, error) {
	v, err := s.vehicles.GetByID(ctx, vehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	if !caller.CanAccess(v.UserID) {
		return nil, ErrForbidden
	}
	return s.bookings.ListByVehicle(ctx, vehicleID)
}
