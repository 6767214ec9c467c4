package vehicle

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

type MockVehicleRepository struct {
	mock.Mock
}

func (m *MockVehicleRepository) Create(ctx context.Context, v *domain.Vehicle) error {
	args := m.Called(ctx, v)
	v.ID = 77
	return args.Error(0)
}

func (m *MockVehicleRepository) GetByID(ctx context.Context, id int64) (*domain.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) List(ctx context.Context, userID *int64) ([]domain.Vehicle, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]domain.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) Update(ctx context.Context, v *domain.Vehicle) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVehicleRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

var (
	client = domain.Caller{ID: 10, Role: domain.RoleClient}
	other  = domain.Caller{ID: 11, Role: domain.RoleClient}
	admin  = domain.Caller{ID: 1, Role: domain.RoleAdmin}
)

func newTestService() (*Service, *MockVehicleRepository) {
	repo := new(MockVehicleRepository)
	svc := NewService(repo)
	svc.now = func() time.Time { return time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC) }
	return svc, repo
}

func TestService_Create_Success(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	repo.On("Create", ctx, mock.MatchedBy(func(v *domain.Vehicle) bool {
		return v.UserID == client.ID && v.LicensePlate == "ABC1D23"
	})).Return(nil)

	v, err := svc.Create(ctx, client, VehicleRequest{Make: "Fiat", Model: "Uno", Year: 2026, LicensePlate: " abc1d23 "})
	require.NoError(t, err)
	assert.Equal(t, int64(77), v.ID)
	repo.AssertExpectations(t)
}

func TestService_Create_YearOutOfRange(t *testing.T) {
	svc, repo := newTestService()

	for _, year := range []int{1899, 2027} {
		_, err := svc.Create(context.Background(), client, VehicleRequest{Make: "Fiat", Model: "Uno", Year: year, LicensePlate: "ABC1D23"})

		var verr *apperror.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "year")
	}
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Create_CollectsAllViolations(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), client, VehicleRequest{Year: 1500})

	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Fields, 4)
}

func TestService_Create_DuplicatePlate(t *testing.T) {
	svc, repo := newTestService()
	repo.On("Create", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	_, err := svc.Create(context.Background(), client, VehicleRequest{Make: "Fiat", Model: "Uno", LicensePlate: "ABC1D23"})
	assert.ErrorIs(t, err, apperror.ErrAlreadyExists)
}

func TestService_List_ScopesNonAdmin(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	requested := int64(99)

	repo.On("List", ctx, mock.MatchedBy(func(id *int64) bool { return id != nil && *id == client.ID })).
		Return([]domain.Vehicle{{ID: 1, UserID: client.ID}}, nil)
	repo.On("List", ctx, &requested).Return([]domain.Vehicle{}, nil)

	got, err := svc.List(ctx, client, ListQuery{UserID: &requested})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.List(ctx, admin, ListQuery{UserID: &requested})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_Get_Ownership(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	repo.On("GetByID", ctx, int64(5)).Return(&domain.Vehicle{ID: 5, UserID: client.ID}, nil)
	repo.On("GetByID", ctx, int64(6)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(ctx, client, 5)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, admin, 5)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, other, 5)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = svc.Get(ctx, client, 6)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestService_Delete_ForbiddenForStranger(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()
	repo.On("GetByID", ctx, int64(5)).Return(&domain.Vehicle{ID: 5, UserID: client.ID}, nil)

	assert.ErrorIs(t, svc.Delete(ctx, other, 5), apperror.ErrForbidden)
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
