package report

import (
	"context"
	"testing"
	"time"

	"oficina/internal/domain"
	"oficina/internal/pkg/apperror"
	"oficina/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Aggregate(ctx context.Context, f repository.ReportFilter) (*repository.Aggregates, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.Aggregates), args.Error(1)
}

func (m *MockBookingRepository) ListByVehicle(ctx context.Context, vehicleID int64) ([]domain.Booking, error) {
	args := m.Called(ctx, vehicleID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func emptyAggregates() *repository.Aggregates {
	return &repository.Aggregates{
		ByType:      []repository.TypeAggregate{},
		ByStatus:    []repository.StatusAggregate{},
		Turnarounds: []repository.TurnaroundSample{},
	}
}

func TestAverageTurnaround(t *testing.T) {
	day := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	assert.Equal(t, 0.0, averageTurnaround(nil))
	assert.Equal(t, 2.0, averageTurnaround([]repository.TurnaroundSample{
		{ScheduledDate: day, CompletedDate: day.Add(48 * time.Hour)},
	}))
	assert.InDelta(t, 1.25, averageTurnaround([]repository.TurnaroundSample{
		{ScheduledDate: day, CompletedDate: day.Add(12 * time.Hour)},
		{ScheduledDate: day, CompletedDate: day.Add(48 * time.Hour)},
	}), 1e-9)
}

func TestService_Build_EmptyYieldsZeros(t *testing.T) {
	bookings := new(MockBookingRepository)
	svc := NewService(bookings, new(MockVehicleRepository))
	bookings.On("Aggregate", mock.Anything, repository.ReportFilter{}).Return(emptyAggregates(), nil)

	r, err := svc.Build(context.Background(), ReportQuery{})
	require.NoError(t, err)
	assert.NotNil(t, r.ByType)
	assert.NotNil(t, r.ByStatus)
	assert.Zero(t, r.Revenue)
	assert.Zero(t, r.AvgTurnaround)
	assert.Zero(t, r.TotalServicos)
}

// A completed booking without completedDate never reaches the samples, so a
// single two-day sample must average to exactly two.
func TestService_Build_TurnaroundExcludesMissingDates(t *testing.T) {
	bookings := new(MockBookingRepository)
	svc := NewService(bookings, new(MockVehicleRepository))
	day := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	agg := emptyAggregates()
	agg.ByType = []repository.TypeAggregate{{Type: "Revisao", Count: 2, Revenue: 300}}
	agg.ByStatus = []repository.StatusAggregate{{Status: "completed", Count: 2}}
	agg.Revenue = 300
	agg.Total = 2
	agg.Turnarounds = []repository.TurnaroundSample{{ScheduledDate: day, CompletedDate: day.Add(48 * time.Hour)}}
	bookings.On("Aggregate", mock.Anything, mock.Anything).Return(agg, nil)

	r, err := svc.Build(context.Background(), ReportQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2.0, r.AvgTurnaround)
	assert.Equal(t, []TypeCount{{Type: "Revisao", Count: 2, Revenue: 300}}, r.ByType)
	assert.Equal(t, int64(2), r.TotalServicos)
}

func TestService_Build_RangeNeedsBothBounds(t *testing.T) {
	bookings := new(MockBookingRepository)
	svc := NewService(bookings, new(MockVehicleRepository))

	bookings.On("Aggregate", mock.Anything, mock.MatchedBy(func(f repository.ReportFilter) bool {
		return f.CreatedFrom == nil && f.CreatedTo == nil && f.Type == "Revisao"
	})).Return(emptyAggregates(), nil).Once()
	bookings.On("Aggregate", mock.Anything, mock.MatchedBy(func(f repository.ReportFilter) bool {
		return f.CreatedFrom != nil && f.CreatedTo != nil
	})).Return(emptyAggregates(), nil).Once()

	_, err := svc.Build(context.Background(), ReportQuery{StartDate: "2025-01-01", Type: " Revisao "})
	require.NoError(t, err)
	_, err = svc.Build(context.Background(), ReportQuery{StartDate: "2025-01-01", EndDate: "2025-01-31"})
	require.NoError(t, err)
	bookings.AssertExpectations(t)
}

func TestService_Build_InvalidDates(t *testing.T) {
	svc := NewService(new(MockBookingRepository), new(MockVehicleRepository))

	_, err := svc.Build(context.Background(), ReportQuery{StartDate: "2025-02-01", EndDate: "2025-01-01"})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = svc.Build(context.Background(), ReportQuery{StartDate: "ontem"})
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestService_VehicleHistory(t *testing.T) {
	bookings := new(MockBookingRepository)
	vehicles := new(MockVehicleRepository)
	svc := NewService(bookings, vehicles)
	ctx := context.Background()

	owner := domain.Caller{ID: 10, Role: domain.RoleClient}
	stranger := domain.Caller{ID: 11, Role: domain.RoleClient}
	admin := domain.Caller{ID: 1, Role: domain.RoleAdmin}

	vehicles.On("GetByID", ctx, int64(5)).Return(&domain.Vehicle{ID: 5, UserID: owner.ID}, nil)
	vehicles.On("GetByID", ctx, int64(6)).Return(nil, gorm.ErrRecordNotFound)
	bookings.On("ListByVehicle", ctx, int64(5)).Return([]domain.Booking{{ID: 2}, {ID: 1}}, nil)

	history, err := svc.VehicleHistory(ctx, owner, 5)
	require.NoError(t, err)
	assert.Len(t, history, 2)

	_, err = svc.VehicleHistory(ctx, admin, 5)
	assert.NoError(t, err)

	_, err = svc.VehicleHistory(ctx, stranger, 5)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.VehicleHistory(ctx, owner, 6)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
