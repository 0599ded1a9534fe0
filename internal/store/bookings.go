package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"booking-service/internal/models"
)

// CreateBooking inserts a new booking. The unique index on
// booking_reference is the authoritative guard against reference
// collisions; a collision surfaces as ErrDuplicateReference.
func (s *Store) CreateBooking(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			id, booking_reference, user_id, username, ticket_id,
			event_name, venue, event_date, event_time,
			quantity, total_price, status, payment_status,
			contact_email, contact_phone
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING created_at, updated_at`

	err := s.db.QueryRowxContext(ctx, query,
		booking.ID, booking.BookingReference, booking.UserID, booking.Username, booking.TicketID,
		booking.EventName, booking.Venue, booking.EventDate, booking.EventTime,
		booking.Quantity, booking.TotalPrice, booking.Status, booking.PaymentStatus,
		booking.ContactEmail, booking.ContactPhone,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if isUniqueViolation(err) {
		return fmt.Errorf("%w: %s", ErrDuplicateReference, booking.BookingReference)
	}
	return err
}

// GetBookingByID retrieves a booking by internal ID. Returns (nil, nil)
// when no booking exists.
func (s *Store) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.GetContext(ctx, &booking, "SELECT * FROM bookings WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// GetBookingByReference retrieves a booking by its human-shareable
// reference. Returns (nil, nil) when no booking exists.
func (s *Store) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	var booking models.Booking
	err := s.db.GetContext(ctx, &booking, "SELECT * FROM bookings WHERE booking_reference = $1", reference)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListBookingsByUser retrieves all bookings for a user, newest first
func (s *Store) ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings := []models.Booking{}
	err := s.db.SelectContext(ctx, &bookings,
		"SELECT * FROM bookings WHERE user_id = $1 ORDER BY created_at DESC", userID)
	return bookings, err
}

// UpdateBookingStatus updates status and payment status together so the
// cancelled/refunded pair stays consistent
func (s *Store) UpdateBookingStatus(ctx context.Context, id, status, paymentStatus string) error {
	_, err := s.db.ExecContext(ctx,
		"UPDATE bookings SET status = $1, payment_status = $2, updated_at = NOW() WHERE id = $3",
		status, paymentStatus, id)
	return err
}

// GetBookingStats aggregates booking counts and confirmed revenue
func (s *Store) GetBookingStats(ctx context.Context) (*models.BookingStats, error) {
	var stats models.BookingStats
	query := `
		SELECT
			COUNT(*) AS total_bookings,
			COUNT(*) FILTER (WHERE status = 'confirmed') AS confirmed_bookings,
			COUNT(*) FILTER (WHERE status = 'cancelled') AS cancelled_bookings,
			COALESCE(SUM(total_price) FILTER (WHERE status = 'confirmed' AND payment_status = 'completed'), 0) AS total_revenue
		FROM bookings`

	if err := s.db.GetContext(ctx, &stats, query); err != nil {
		return nil, err
	}
	return &stats, nil
}
