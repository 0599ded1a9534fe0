package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"booking-service/internal/inventory"
	"booking-service/internal/models"
	"booking-service/internal/store"
	"booking-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const idempotencyKeyTTL = 24 * time.Hour

// BookingStore is the persistence surface the workflow depends on.
// Lookups return (nil, nil) when no booking exists.
type BookingStore interface {
	CreateBooking(ctx context.Context, booking *models.Booking) error
	GetBookingByID(ctx context.Context, id string) (*models.Booking, error)
	GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error)
	ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error)
	UpdateBookingStatus(ctx context.Context, id, status, paymentStatus string) error
	GetBookingStats(ctx context.Context) (*models.BookingStats, error)
}

// TicketInventory is the collaborator surface: fetch ticket details and
// adjust its reservation in either direction.
type TicketInventory interface {
	FetchTicket(ctx context.Context, ticketID string) (*inventory.Ticket, error)
	AdjustReservation(ctx context.Context, ticketID string, quantity int, direction inventory.Direction) error
}

// BookingEvents publishes booking lifecycle events. Optional: a nil
// publisher disables events.
type BookingEvents interface {
	PublishBookingCreated(ctx context.Context, event *models.BookingCreatedEvent) error
	PublishBookingCancelled(ctx context.Context, event *models.BookingCancelledEvent) error
}

// IdempotencyStore remembers which booking a create request produced so
// a retried request does not double-book. Optional: nil disables
// idempotency-key support.
type IdempotencyStore interface {
	LookupIdempotencyKey(ctx context.Context, key string) (string, error)
	StoreIdempotencyKey(ctx context.Context, key, bookingID string, ttl time.Duration) error
}

// BookingService coordinates the booking lifecycle against the
// inventory collaborator and the local store
type BookingService struct {
	store       BookingStore
	inventory   TicketInventory
	payments    Payments
	events      BookingEvents
	idempotency IdempotencyStore
	logger      *zap.Logger
}

// NewBookingService creates a new booking service. events and
// idempotency may be nil.
func NewBookingService(
	bookingStore BookingStore,
	ticketInventory TicketInventory,
	payments Payments,
	events BookingEvents,
	idempotency IdempotencyStore,
) *BookingService {
	return &BookingService{
		store:       bookingStore,
		inventory:   ticketInventory,
		payments:    payments,
		events:      events,
		idempotency: idempotency,
		logger:      util.GetLogger(),
	}
}

// CreateBookingRequest represents a request to create a booking
type CreateBookingRequest struct {
	UserID         string `json:"userId" binding:"required"`
	Username       string `json:"username" binding:"required"`
	TicketID       string `json:"ticketId" binding:"required"`
	Quantity       int    `json:"quantity" binding:"required,min=1"`
	ContactEmail   string `json:"contactEmail"`
	ContactPhone   string `json:"contactPhone"`
	IdempotencyKey string `json:"-"`
}

// CreateBooking runs the create workflow: validate, fetch ticket,
// check availability, reserve seats, authorize payment, persist.
// Collaborator failures abort at the point of failure without rolling
// back earlier steps; a persistence failure after a successful
// reservation leaves inventory decremented with no booking record,
// which is an accepted inconsistency window.
func (s *BookingService) CreateBooking(ctx context.Context, req *CreateBookingRequest) (*models.Booking, error) {
	ctx, span := util.StartSpan(ctx, "BookingService.CreateBooking")
	defer span.End()

	if req.UserID == "" || req.Username == "" || req.TicketID == "" || req.Quantity < 1 {
		util.BookingsFailedTotal.WithLabelValues("invalid_request").Inc()
		return nil, fmt.Errorf("%w: userId, username, ticketId and quantity are required", ErrInvalidRequest)
	}

	if existing, err := s.lookupIdempotentReplay(ctx, req.IdempotencyKey); err == nil && existing != nil {
		s.logger.Info("Duplicate booking request detected",
			zap.String("idempotency_key", req.IdempotencyKey),
			zap.String("booking_id", existing.ID))
		return existing, nil
	}

	ticket, err := s.inventory.FetchTicket(ctx, req.TicketID)
	if err != nil || ticket == nil {
		util.BookingsFailedTotal.WithLabelValues("ticket_not_found").Inc()
		return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, req.TicketID)
	}

	if ticket.AvailableSeats < req.Quantity {
		util.BookingsFailedTotal.WithLabelValues("insufficient_inventory").Inc()
		return nil, fmt.Errorf("%w: requested %d, available %d",
			ErrInsufficientInventory, req.Quantity, ticket.AvailableSeats)
	}

	if err := s.inventory.AdjustReservation(ctx, req.TicketID, req.Quantity, inventory.Reserve); err != nil {
		util.BookingsFailedTotal.WithLabelValues("reservation_failed").Inc()
		return nil, fmt.Errorf("%w: %v", ErrReservationFailed, err)
	}

	totalPrice := ticket.Price * float64(req.Quantity)

	outcome, err := s.payments.Authorize(ctx, totalPrice)
	if err != nil {
		// Unreachable with the simulated provider; kept so a real one
		// slots in without changing the workflow.
		util.BookingsFailedTotal.WithLabelValues("payment_failed").Inc()
		return nil, fmt.Errorf("payment authorization failed: %w", err)
	}

	booking := &models.Booking{
		ID:               uuid.New().String(),
		BookingReference: NewBookingReference(),
		UserID:           req.UserID,
		Username:         req.Username,
		TicketID:         req.TicketID,
		EventName:        ticket.EventName,
		Venue:            ticket.Venue,
		EventDate:        ticket.Date,
		EventTime:        ticket.Time,
		Quantity:         req.Quantity,
		TotalPrice:       totalPrice,
		Status:           models.BookingStatusConfirmed,
		PaymentStatus:    outcome.Status,
		ContactEmail:     req.ContactEmail,
		ContactPhone:     req.ContactPhone,
	}

	if err := s.persistBooking(ctx, booking); err != nil {
		util.BookingsFailedTotal.WithLabelValues("persistence_error").Inc()
		s.logger.Error("Booking persistence failed after reservation succeeded",
			zap.String("ticket_id", req.TicketID),
			zap.Int("quantity", req.Quantity),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	util.BookingsCreatedTotal.Inc()
	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("booking_reference", booking.BookingReference),
		zap.String("user_id", booking.UserID))

	s.rememberIdempotencyKey(ctx, req.IdempotencyKey, booking.ID)
	s.publishBookingCreated(ctx, booking)

	return booking, nil
}

// persistBooking inserts the booking, regenerating the reference once
// if it collides with an existing one
func (s *BookingService) persistBooking(ctx context.Context, booking *models.Booking) error {
	err := s.store.CreateBooking(ctx, booking)
	if errors.Is(err, store.ErrDuplicateReference) {
		s.logger.Warn("Booking reference collision, regenerating",
			zap.String("booking_reference", booking.BookingReference))
		booking.BookingReference = NewBookingReference()
		err = s.store.CreateBooking(ctx, booking)
	}
	return err
}

// CancelBooking transitions a non-cancelled booking to cancelled and
// releases its seats. A failed release is logged but does not block
// cancellation: the booking-side state is authoritative.
func (s *BookingService) CancelBooking(ctx context.Context, id string) (*models.Booking, error) {
	ctx, span := util.StartSpan(ctx, "BookingService.CancelBooking")
	defer span.End()

	booking, err := s.store.GetBookingByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	if booking.Status == models.BookingStatusCancelled {
		return nil, fmt.Errorf("%w: %s", ErrAlreadyCancelled, id)
	}

	if err := s.inventory.AdjustReservation(ctx, booking.TicketID, booking.Quantity, inventory.Release); err != nil {
		s.logger.Warn("Seat release failed, cancelling booking anyway",
			zap.String("booking_id", booking.ID),
			zap.String("ticket_id", booking.TicketID),
			zap.Int("quantity", booking.Quantity),
			zap.Error(err))
	}

	if err := s.store.UpdateBookingStatus(ctx, booking.ID,
		models.BookingStatusCancelled, models.PaymentStatusRefunded); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}

	booking.Status = models.BookingStatusCancelled
	booking.PaymentStatus = models.PaymentStatusRefunded
	booking.UpdatedAt = time.Now()

	util.BookingsCancelledTotal.Inc()
	s.logger.Info("Booking cancelled",
		zap.String("booking_id", booking.ID),
		zap.String("booking_reference", booking.BookingReference))

	s.publishBookingCancelled(ctx, booking)

	return booking, nil
}

// GetBooking retrieves a booking by internal ID
func (s *BookingService) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.store.GetBookingByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return booking, nil
}

// GetBookingByReference retrieves a booking by its reference
func (s *BookingService) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	booking, err := s.store.GetBookingByReference(ctx, reference)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, reference)
	}
	return booking, nil
}

// ListBookings retrieves all bookings for a user, newest first
func (s *BookingService) ListBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: userId is required", ErrInvalidRequest)
	}

	bookings, err := s.store.ListBookingsByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return bookings, nil
}

// GetStats computes the booking aggregate
func (s *BookingService) GetStats(ctx context.Context) (*models.BookingStats, error) {
	stats, err := s.store.GetBookingStats(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStatsUnavailable, err)
	}
	return stats, nil
}

// lookupIdempotentReplay returns the booking a previous request with
// the same key produced, or nil
func (s *BookingService) lookupIdempotentReplay(ctx context.Context, key string) (*models.Booking, error) {
	if key == "" || s.idempotency == nil {
		return nil, nil
	}

	bookingID, err := s.idempotency.LookupIdempotencyKey(ctx, key)
	if err != nil {
		s.logger.Warn("Idempotency lookup failed, proceeding without it", zap.Error(err))
		return nil, nil
	}
	if bookingID == "" {
		return nil, nil
	}

	return s.store.GetBookingByID(ctx, bookingID)
}

func (s *BookingService) rememberIdempotencyKey(ctx context.Context, key, bookingID string) {
	if key == "" || s.idempotency == nil {
		return
	}
	if err := s.idempotency.StoreIdempotencyKey(ctx, key, bookingID, idempotencyKeyTTL); err != nil {
		s.logger.Warn("Failed to store idempotency key", zap.Error(err))
	}
}

func (s *BookingService) publishBookingCreated(ctx context.Context, booking *models.Booking) {
	if s.events == nil {
		return
	}

	event := &models.BookingCreatedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeBookingCreated,
			Timestamp: time.Now(),
		},
		BookingID:        booking.ID,
		BookingReference: booking.BookingReference,
		UserID:           booking.UserID,
		TicketID:         booking.TicketID,
		Quantity:         booking.Quantity,
		TotalPrice:       booking.TotalPrice,
	}

	if err := s.events.PublishBookingCreated(ctx, event); err != nil {
		s.logger.Error("Failed to publish BookingCreated event", zap.Error(err))
	}
}

func (s *BookingService) publishBookingCancelled(ctx context.Context, booking *models.Booking) {
	if s.events == nil {
		return
	}

	event := &models.BookingCancelledEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypeBookingCancelled,
			Timestamp: time.Now(),
		},
		BookingID:        booking.ID,
		BookingReference: booking.BookingReference,
		TicketID:         booking.TicketID,
		Quantity:         booking.Quantity,
	}

	if err := s.events.PublishBookingCancelled(ctx, event); err != nil {
		s.logger.Error("Failed to publish BookingCancelled event", zap.Error(err))
	}
}
