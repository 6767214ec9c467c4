package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"oficina/internal/domain"
	"oficina/internal/events"
	"oficina/internal/pkg/apperror"
	"oficina/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Mock repositories
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	if b != nil {
		b.ID = 999
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Exists(ctx context.Context, id int64) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingRepository) List(ctx context.Context, f repository.BookingFilter, sort string, limit, offset int) ([]domain.Booking, int64, error) {
	args := m.Called(ctx, f, sort, limit, offset)
	return args.Get(0).([]domain.Booking), args.Get(1).(int64), args.Error(2)
}

func (m *MockBookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBookingRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockBookingRepository) TransitionStatus(ctx context.Context, id int64, from []domain.BookingStatus, p repository.StatusPatch) (bool, error) {
	args := m.Called(ctx, id, from, p)
	return args.Bool(0), args.Error(1)
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

type MockMailer struct {
	mock.Mock
}

func (m *MockMailer) Send(ctx context.Context, to, subject, body string) error {
	return m.Called(ctx, to, subject, body).Error(0)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishBookingStatus(ctx context.Context, ev events.BookingStatusChanged) error {
	return m.Called(ctx, ev).Error(0)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BookingStatusChanged(b *domain.Booking) bool {
	return m.Called(b).Bool(0)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) BookingTransitioned(status string) {
	m.Called(status)
}

var (
	client = domain.Caller{ID: 10, Role: domain.RoleClient}
	other  = domain.Caller{ID: 11, Role: domain.RoleClient}
	admin  = domain.Caller{ID: 1, Role: domain.RoleAdmin}

	fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
)

type testDeps struct {
	bookings  *MockBookingRepository
	vehicles  *MockVehicleRepository
	mailer    *MockMailer
	publisher *MockPublisher
	notifier  *MockNotifier
	recorder  *MockRecorder
}

func newTestService() (*Service, testDeps) {
	d := testDeps{
		bookings:  new(MockBookingRepository),
		vehicles:  new(MockVehicleRepository),
		mailer:    new(MockMailer),
		publisher: new(MockPublisher),
		notifier:  new(MockNotifier),
		recorder:  new(MockRecorder),
	}
	svc := NewService(d.bookings, d.vehicles, d.mailer, d.publisher, d.notifier, d.recorder, zap.NewNop())
	svc.now = func() time.Time { return fixedNow }
	return svc, d
}

// expectSideEffects accepts any post-commit call.
func (d testDeps) expectSideEffects() {
	d.recorder.On("BookingTransitioned", mock.Anything).Return()
	d.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	d.publisher.On("PublishBookingStatus", mock.Anything, mock.Anything).Return(nil)
	d.notifier.On("BookingStatusChanged", mock.Anything).Return(true)
}

func validCreate() CreateBookingRequest {
	return CreateBookingRequest{
		Type:          "Troca de oleo",
		Price:         120,
		ScheduledDate: fixedNow.Add(48 * time.Hour),
		VehicleID:     5,
	}
}

func TestService_Create_Success(t *testing.T) {
	svc, d := newTestService()
	ctx := context.Background()

	d.vehicles.On("GetByID", ctx, int64(5)).Return(&domain.Vehicle{ID: 5, UserID: client.ID}, nil)
	d.bookings.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.UserID == client.ID &&
			b.VehicleID == 5 &&
			b.Status == domain.BookingPendingConfirmation &&
			b.Images != nil
	})).Return(nil)

	b, err := svc.Create(ctx, client, validCreate())
	require.NoError(t, err)
	assert.Equal(t, int64(999), b.ID)
	d.bookings.AssertExpectations(t)
}

func TestService_Create_PastScheduledDate(t *testing.T) {
	svc, d := newTestService()

	req := validCreate()
	req.ScheduledDate = fixedNow.Add(-time.Minute)

	_, err := svc.Create(context.Background(), client, req)

	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "must not be in the past", verr.Fields["scheduledDate"])
	d.vehicles.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	d.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_Create_CollectsAllViolations(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.Create(context.Background(), client, CreateBookingRequest{Price: -1})

	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "type")
	assert.Contains(t, verr.Fields, "price")
	assert.Contains(t, verr.Fields, "scheduledDate")
	assert.Contains(t, verr.Fields, "veiculoId")
}

func TestService_Create_VehicleOfAnotherUser(t *testing.T) {
	svc, d := newTestService()
	d.vehicles.On("GetByID", mock.Anything, int64(5)).Return(&domain.Vehicle{ID: 5, UserID: client.ID}, nil)

	_, err := svc.Create(context.Background(), other, validCreate())
	assert.ErrorIs(t, err, apperror.ErrForbidden)
}

func TestService_Create_UnknownVehicle(t *testing.T) {
	svc, d := newTestService()
	d.vehicles.On("GetByID", mock.Anything, int64(5)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), client, validCreate())
	assert.ErrorIs(t, err, ErrVehicleNotFound)
}

func TestService_Create_AdminBooksForOwner(t *testing.T) {
	svc, d := newTestService()
	d.vehicles.On("GetByID", mock.Anything, int64(5)).Return(&domain.Vehicle{ID: 5, UserID: client.ID}, nil)
	d.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.UserID == client.ID
	})).Return(nil)

	req := validCreate()
	_, err := svc.Create(context.Background(), admin, req)
	require.NoError(t, err)

	ownerID := client.ID
	req.UserID = &ownerID
	_, err = svc.Create(context.Background(), admin, req)
	require.NoError(t, err)
	d.bookings.AssertNumberOfCalls(t, "Create", 2)
}

func TestService_Create_UserIDMustOwnVehicle(t *testing.T) {
	svc, d := newTestService()
	d.vehicles.On("GetByID", mock.Anything, int64(5)).Return(&domain.Vehicle{ID: 5, UserID: client.ID}, nil)

	stranger := int64(12345)
	req := validCreate()
	req.UserID = &stranger

	_, err := svc.Create(context.Background(), admin, req)
	assert.ErrorIs(t, err, ErrVehicleNotOwned)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = svc.Create(context.Background(), client, req)
	assert.ErrorIs(t, err, ErrVehicleNotOwned)
	d.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestService_List_NonAdminIsolation(t *testing.T) {
	svc, d := newTestService()
	ctx := context.Background()
	someoneElse := int64(42)

	d.bookings.On("List", ctx, mock.MatchedBy(func(f repository.BookingFilter) bool {
		return f.UserID != nil && *f.UserID == client.ID
	}), "", 10, 0).Return([]domain.Booking{{ID: 1, UserID: client.ID}}, int64(1), nil)

	list, err := svc.List(ctx, client, ListQuery{UserID: &someoneElse})
	require.NoError(t, err)
	require.Len(t, list.Servicos, 1)
	assert.Equal(t, client.ID, list.Servicos[0].UserID)
	d.bookings.AssertExpectations(t)
}

func TestService_List_AdminFiltersAndPages(t *testing.T) {
	svc, d := newTestService()
	ctx := context.Background()
	owner := int64(42)

	d.bookings.On("List", ctx, mock.MatchedBy(func(f repository.BookingFilter) bool {
		return f.UserID != nil && *f.UserID == owner &&
			f.Status == domain.BookingConfirmed &&
			f.DateFrom != nil && f.DateFrom.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	}), "-price", 5, 10).Return([]domain.Booking{}, int64(12), nil)

	list, err := svc.List(ctx, admin, ListQuery{
		UserID:   &owner,
		Status:   "confirmed",
		DateFrom: "2025-01-01",
		Sort:     "-price",
		Page:     3,
		Limit:    5,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, list.Pagination.Current)
	assert.Equal(t, 3, list.Pagination.Total)
	assert.Equal(t, int64(12), list.Pagination.Count)
	assert.Empty(t, list.Servicos)
}

func TestService_List_RejectsBadFilters(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.List(context.Background(), admin, ListQuery{Status: "done", DateTo: "yesterday"})

	var verr *apperror.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "status")
	assert.Contains(t, verr.Fields, "dateTo")
}

func TestService_Get_Ownership(t *testing.T) {
	svc, d := newTestService()
	ctx := context.Background()
	d.bookings.On("GetByID", ctx, int64(7)).Return(&domain.Booking{ID: 7, UserID: client.ID}, nil)
	d.bookings.On("GetByID", ctx, int64(8)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Get(ctx, client, 7)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, admin, 7)
	assert.NoError(t, err)
	_, err = svc.Get(ctx, other, 7)
	assert.ErrorIs(t, err, apperror.ErrForbidden)
	_, err = svc.Get(ctx, client, 8)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestService_Update_RefusesTerminal(t *testing.T) {
	svc, d := newTestService()
	d.bookings.On("GetByID", mock.Anything, int64(7)).Return(&domain.Booking{ID: 7, Status: domain.BookingCompleted}, nil)

	_, err := svc.Update(context.Background(), 7, UpdateBookingRequest{Type: "Revisao", Price: 10, ScheduledDate: fixedNow})
	assert.ErrorIs(t, err, apperror.ErrInvalidState)
	d.bookings.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestService_Update_OverwritesFields(t *testing.T) {
	svc, d := newTestService()
	ctx := context.Background()
	current := &domain.Booking{ID: 7, Status: domain.BookingConfirmed, Description: "old", AdminNotes: "old"}

	d.bookings.On("GetByID", ctx, int64(7)).Return(current, nil)
	d.bookings.On("Update", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Type == "Revisao" && b.Description == "" && b.AdminNotes == "" && b.Status == domain.BookingConfirmed
	})).Return(nil)

	_, err := svc.Update(ctx, 7, UpdateBookingRequest{Type: "Revisao", Price: 10, ScheduledDate: fixedNow})
	require.NoError(t, err)
	d.bookings.AssertExpectations(t)
}

func TestService_Delete_NotFound(t *testing.T) {
	svc, d := newTestService()
	d.bookings.On("Delete", mock.Anything, int64(7)).Return(gorm.ErrRecordNotFound)

	assert.ErrorIs(t, svc.Delete(context.Background(), 7), apperror.ErrNotFound)
}

func TestService_Confirm_StampsAdminAndNotifies(t *testing.T) {
	svc, d := newTestService()
	ctx := context.Background()
	yes := true
	notes := " Trazer chave reserva "

	confirmed := &domain.Booking{
		ID:          7,
		Type:        "Troca de oleo",
		Status:      domain.BookingConfirmed,
		UserID:      client.ID,
		AdminNotes:  "Trazer chave reserva",
		ConfirmedBy: &admin.ID,
		User:        &domain.UserRef{ID: client.ID, Name: "Ana", Email: "ana@oficina.test"},
		Vehicle:     &domain.VehicleRef{ID: 5, Make: "Fiat", Model: "Uno"},
	}

	d.bookings.On("TransitionStatus", ctx, int64(7), []domain.BookingStatus{domain.BookingPendingConfirmation},
		mock.MatchedBy(func(p repository.StatusPatch) bool {
			return p.Status == domain.BookingConfirmed &&
				p.ConfirmedBy != nil && *p.ConfirmedBy == admin.ID &&
				p.ConfirmedAt != nil && p.ConfirmedAt.Equal(fixedNow) &&
				p.AdminNotes != nil && *p.AdminNotes == "Trazer chave reserva"
		})).Return(true, nil)
	d.bookings.On("GetByID", ctx, int64(7)).Return(confirmed, nil)
	d.recorder.On("BookingTransitioned", "confirmed").Return()
	d.mailer.On("Send", mock.Anything, "ana@oficina.test", "Serviço confirmado",
		"Seu serviço de Troca de oleo para o veículo Fiat Uno foi confirmado. Observações: Trazer chave reserva").Return(nil)
	d.publisher.On("PublishBookingStatus", mock.Anything, mock.MatchedBy(func(ev events.BookingStatusChanged) bool {
		return ev.BookingID == 7 && ev.Status == "confirmed"
	})).Return(nil)
	d.notifier.On("BookingStatusChanged", confirmed).Return(false)

	b, err := svc.Confirm(ctx, admin, 7, ConfirmRequest{Confirmed: &yes, AdminNotes: &notes})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)

	d.bookings.AssertExpectations(t)
	d.mailer.AssertExpectations(t)
	d.publisher.AssertExpectations(t)
	d.notifier.AssertExpectations(t)
	d.recorder.AssertExpectations(t)
}

func TestService_Confirm_DeclineCancels(t *testing.T) {
	svc, d := newTestService()
	no := false

	d.bookings.On("TransitionStatus", mock.Anything, int64(7), mock.Anything,
		mock.MatchedBy(func(p repository.StatusPatch) bool {
			return p.Status == domain.BookingCancelled && p.ConfirmedBy != nil && p.AdminNotes == nil
		})).Return(true, nil)
	d.bookings.On("GetByID", mock.Anything, int64(7)).Return(&domain.Booking{ID: 7, Status: domain.BookingCancelled}, nil)
	d.expectSideEffects()

	b, err := svc.Confirm(context.Background(), admin, 7, ConfirmRequest{Confirmed: &no})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingCancelled, b.Status)
	d.mailer.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Confirm_AlreadyProcessed(t *testing.T) {
	svc, d := newTestService()
	yes := true
	d.bookings.On("TransitionStatus", mock.Anything, int64(7), mock.Anything, mock.Anything).Return(false, nil)
	d.bookings.On("Exists", mock.Anything, int64(7)).Return(true, nil)

	_, err := svc.Confirm(context.Background(), admin, 7, ConfirmRequest{Confirmed: &yes})
	assert.ErrorIs(t, err, ErrAlreadyProcessed)
	assert.ErrorIs(t, err, apperror.ErrInvalidState)
	d.recorder.AssertNotCalled(t, "BookingTransitioned", mock.Anything)
}

func TestService_Confirm_NotFound(t *testing.T) {
	svc, d := newTestService()
	yes := true
	d.bookings.On("TransitionStatus", mock.Anything, int64(7), mock.Anything, mock.Anything).Return(false, nil)
	d.bookings.On("Exists", mock.Anything, int64(7)).Return(false, nil)

	_, err := svc.Confirm(context.Background(), admin, 7, ConfirmRequest{Confirmed: &yes})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestService_Confirm_RequiresDecision(t *testing.T) {
	svc, d := newTestService()

	_, err := svc.Confirm(context.Background(), admin, 7, ConfirmRequest{})
	assert.ErrorIs(t, err, apperror.ErrValidation)
	d.bookings.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_Confirm_SideEffectFailuresAreSwallowed(t *testing.T) {
	svc, d := newTestService()
	yes := true

	d.bookings.On("TransitionStatus", mock.Anything, int64(7), mock.Anything, mock.Anything).Return(true, nil)
	d.bookings.On("GetByID", mock.Anything, int64(7)).Return(&domain.Booking{
		ID:     7,
		Status: domain.BookingConfirmed,
		User:   &domain.UserRef{Email: "ana@oficina.test"},
	}, nil)
	d.recorder.On("BookingTransitioned", mock.Anything).Return()
	d.mailer.On("Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("smtp down"))
	d.publisher.On("PublishBookingStatus", mock.Anything, mock.Anything).Return(errors.New("broker down"))
	d.notifier.On("BookingStatusChanged", mock.Anything).Return(false)

	b, err := svc.Confirm(context.Background(), admin, 7, ConfirmRequest{Confirmed: &yes})
	require.NoError(t, err)
	assert.Equal(t, domain.BookingConfirmed, b.Status)
}

func TestService_Complete_StampsCompletedDate(t *testing.T) {
	svc, d := newTestService()

	d.bookings.On("TransitionStatus", mock.Anything, int64(7),
		[]domain.BookingStatus{domain.BookingConfirmed, domain.BookingInProgress},
		mock.MatchedBy(func(p repository.StatusPatch) bool {
			return p.Status == domain.BookingCompleted && p.CompletedDate != nil && p.CompletedDate.Equal(fixedNow)
		})).Return(true, nil)
	d.bookings.On("GetByID", mock.Anything, int64(7)).Return(&domain.Booking{ID: 7, Status: domain.BookingCompleted}, nil)
	d.expectSideEffects()

	_, err := svc.Complete(context.Background(), 7)
	require.NoError(t, err)
	d.bookings.AssertExpectations(t)
}

func TestService_Start_FromPendingIsInvalid(t *testing.T) {
	svc, d := newTestService()
	d.bookings.On("TransitionStatus", mock.Anything, int64(7), []domain.BookingStatus{domain.BookingConfirmed}, mock.Anything).Return(false, nil)
	d.bookings.On("Exists", mock.Anything, int64(7)).Return(true, nil)

	_, err := svc.Start(context.Background(), 7)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
