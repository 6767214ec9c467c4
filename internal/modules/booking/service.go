package booking

import (
	"context"
	"errors"
	"strings"
	"time"

	"oficina/internal/domain"
	"oficina/internal/events"
	"oficina/internal/notification"
	"oficina/internal/pkg/apperror"
	"oficina/internal/pkg/utils"
	"oficina/internal/pkg/validator"
	"oficina/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultLimit = 10
	maxLimit     = 100
)

type Service struct {
	bookings  BookingRepository
	vehicles  VehicleRepository
	mailer    Mailer
	publisher EventPublisher
	notifier  StatusNotifier
	recorder  TransitionRecorder
	log       *zap.Logger
	now       func() time.Time
}

func NewService(
	bookings BookingRepository,
	vehicles VehicleRepository,
	mailer Mailer,
	publisher EventPublisher,
	notifier StatusNotifier,
	recorder TransitionRecorder,
	log *zap.Logger,
) *Service {
	return &Service{
		bookings:  bookings,
		vehicles:  vehicles,
		mailer:    mailer,
		publisher: publisher,
		notifier:  notifier,
		recorder:  recorder,
		log:       log,
		now:       time.Now,
	}
}

// Create opens a booking in pending_confirmation against a vehicle the
// caller owns. Admins may book any vehicle on behalf of its owner; a userId
// naming anyone else is rejected.
func (s *Service) Create(ctx context.Context, caller domain.Caller, req CreateBookingRequest) (*domain.Booking, error) {
	verr := validator.Validate(req)
	if verr == nil {
		verr = apperror.NewValidation()
	}
	if !req.ScheduledDate.IsZero() && req.ScheduledDate.Before(s.now()) {
		verr.Add("scheduledDate", "must not be in the past")
	}
	if err := verr.Err(); err != nil {
		return nil, err
	}

	v, err := s.vehicles.GetByID(ctx, req.VehicleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVehicleNotFound
		}
		return nil, err
	}
	if !caller.CanAccess(v.UserID) {
		return nil, ErrVehicleNotOwned
	}
	// the booking owner is always the vehicle owner
	if req.UserID != nil && *req.UserID != v.UserID {
		return nil, ErrVehicleNotOwned
	}
	owner := v.UserID

	b := &domain.Booking{
		Type:          strings.TrimSpace(req.Type),
		Description:   strings.TrimSpace(req.Description),
		Price:         req.Price,
		EstimatedTime: strings.TrimSpace(req.EstimatedTime),
		Status:        domain.BookingPendingConfirmation,
		ScheduledDate: req.ScheduledDate.UTC(),
		Observations:  strings.TrimSpace(req.Observations),
		UserID:        owner,
		VehicleID:     v.ID,
		Images:        req.Images,
	}
	if b.Images == nil {
		b.Images = []string{}
	}

	if err := s.bookings.Create(ctx, b); err != nil {
		return nil, err
	}

	s.log.Info("booking created",
		zap.Int64("booking_id", b.ID),
		zap.Int64("user_id", b.UserID),
		zap.Int64("vehicle_id", b.VehicleID),
	)
	return b, nil
}

// List pages through bookings. Non-admin callers only ever see their own,
// whatever userId they pass.
func (s *Service) List(ctx context.Context, caller domain.Caller, q ListQuery) (*BookingList, error) {
	f, err := buildFilter(caller, q)
	if err != nil {
		return nil, err
	}

	page, limit := utils.NormalizePage(q.Page, q.Limit, defaultLimit, maxLimit)
	items, total, err := s.bookings.List(ctx, f, q.Sort, limit, utils.Offset(page, limit))
	if err != nil {
		return nil, err
	}

	return &BookingList{
		Servicos:   items,
		Pagination: utils.NewPagination(page, limit, total),
	}, nil
}

func buildFilter(caller domain.Caller, q ListQuery) (repository.BookingFilter, error) {
	verr := apperror.NewValidation()

	f := repository.BookingFilter{
		VehicleID: q.VehicleID,
		Type:      strings.TrimSpace(q.Type),
		Search:    strings.TrimSpace(q.Search),
	}

	if caller.IsAdmin() {
		f.UserID = q.UserID
	} else {
		id := caller.ID
		f.UserID = &id
	}

	if q.Status != "" {
		f.Status = domain.BookingStatus(q.Status)
		if !f.Status.Valid() {
			verr.Add("status", "is invalid")
		}
	}

	var err error
	if f.DateFrom, err = utils.ParseDate(q.DateFrom); err != nil {
		verr.Add("dateFrom", "must be a valid date")
	}
	if f.DateTo, err = utils.ParseDate(q.DateTo); err != nil {
		verr.Add("dateTo", "must be a valid date")
	}

	return f, verr.Err()
}

func (s *Service) Get(ctx context.Context, caller domain.Caller, id int64) (*domain.Booking, error) {
	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !caller.CanAccess(b.UserID) {
		return nil, ErrForbidden
	}
	return b, nil
}

// Update overwrites the editable fields of an open booking. Status is
// left alone.
func (s *Service) Update(ctx context.Context, id int64, req UpdateBookingRequest) (*domain.Booking, error) {
	if verr := validator.Validate(req); verr != nil {
		return nil, verr
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.IsTerminal() {
		return nil, ErrBookingClosed
	}

	b.Type = strings.TrimSpace(req.Type)
	b.Description = strings.TrimSpace(req.Description)
	b.Price = req.Price
	b.EstimatedTime = strings.TrimSpace(req.EstimatedTime)
	b.ScheduledDate = req.ScheduledDate.UTC()
	b.Observations = strings.TrimSpace(req.Observations)
	b.AdminNotes = strings.TrimSpace(req.AdminNotes)
	b.Images = req.Images
	if b.Images == nil {
		b.Images = []string{}
	}

	if err := s.bookings.Update(ctx, b); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return s.load(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.bookings.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBookingNotFound
		}
		return err
	}
	s.log.Info("booking deleted", zap.Int64("booking_id", id))
	return nil
}

// Confirm settles a pending booking: confirmed when accepted, cancelled
// otherwise. The acting admin is stamped either way. Notes are only
// written when given.
func (s *Service) Confirm(ctx context.Context, caller domain.Caller, id int64, req ConfirmRequest) (*domain.Booking, error) {
	if verr := validator.Validate(req); verr != nil {
		return nil, verr
	}

	target := domain.BookingConfirmed
	if !*req.Confirmed {
		target = domain.BookingCancelled
	}

	now := s.now().UTC()
	// accepting and declining are both decided from the confirmable states
	return s.transition(ctx, id, domain.SourcesFor(domain.BookingConfirmed), repository.StatusPatch{
		Status:      target,
		ConfirmedBy: &caller.ID,
		ConfirmedAt: &now,
		AdminNotes:  trimmed(req.AdminNotes),
	}, ErrAlreadyProcessed)
}

func (s *Service) Start(ctx context.Context, id int64) (*domain.Booking, error) {
	return s.transition(ctx, id, domain.SourcesFor(domain.BookingInProgress), repository.StatusPatch{
		Status: domain.BookingInProgress,
	}, ErrInvalidTransition)
}

func (s *Service) Complete(ctx context.Context, id int64) (*domain.Booking, error) {
	now := s.now().UTC()
	return s.transition(ctx, id, domain.SourcesFor(domain.BookingCompleted), repository.StatusPatch{
		Status:        domain.BookingCompleted,
		CompletedDate: &now,
	}, ErrInvalidTransition)
}

// Cancel stops any booking that is not yet completed. Unlike a Confirm
// decline it does not stamp the acting admin.
func (s *Service) Cancel(ctx context.Context, id int64, req NotesRequest) (*domain.Booking, error) {
	if verr := validator.Validate(req); verr != nil {
		return nil, verr
	}
	return s.transition(ctx, id, domain.SourcesFor(domain.BookingCancelled), repository.StatusPatch{
		Status:     domain.BookingCancelled,
		AdminNotes: trimmed(req.AdminNotes),
	}, ErrInvalidTransition)
}

// transition applies p only while the booking is still in one of from.
// A miss is NotFound when the row is gone and stateErr otherwise.
func (s *Service) transition(ctx context.Context, id int64, from []domain.BookingStatus, p repository.StatusPatch, stateErr error) (*domain.Booking, error) {
	ok, err := s.bookings.TransitionStatus(ctx, id, from, p)
	if err != nil {
		return nil, err
	}
	if !ok {
		exists, err := s.bookings.Exists(ctx, id)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, ErrBookingNotFound
		}
		return nil, stateErr
	}

	b, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.log.Info("booking status changed",
		zap.Int64("booking_id", b.ID),
		zap.String("status", string(b.Status)),
	)
	s.afterTransition(context.WithoutCancel(ctx), b)
	return b, nil
}

// afterTransition runs the side effects of a committed status change. None
// of them can undo it; failures are only logged.
func (s *Service) afterTransition(ctx context.Context, b *domain.Booking) {
	s.recorder.BookingTransitioned(string(b.Status))

	if b.User != nil && b.User.Email != "" {
		msg := notification.BookingStatus(b)
		if err := s.mailer.Send(ctx, b.User.Email, msg.Subject, msg.Body); err != nil {
			s.log.Warn("booking status email failed", zap.Int64("booking_id", b.ID), zap.Error(err))
		}
	}

	if err := s.publisher.PublishBookingStatus(ctx, events.NewBookingStatusChanged(b, s.now())); err != nil {
		s.log.Warn("booking status event failed", zap.Int64("booking_id", b.ID), zap.Error(err))
	}

	if !s.notifier.BookingStatusChanged(b) {
		s.log.Debug("booking owner not connected", zap.Int64("user_id", b.UserID))
	}
}

func (s *Service) load(ctx context.Context, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return b, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
