package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"booking-service/internal/inventory"
	"booking-service/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStore struct {
	bookings   map[string]*models.Booking
	failCreate bool
	failStats  bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{bookings: make(map[string]*models.Booking)}
}

func (f *fakeStore) CreateBooking(ctx context.Context, booking *models.Booking) error {
	if f.failCreate {
		return errors.New("insert failed")
	}
	now := time.Now()
	booking.CreatedAt = now
	booking.UpdatedAt = now
	copied := *booking
	f.bookings[booking.ID] = &copied
	return nil
}

func (f *fakeStore) GetBookingByID(ctx context.Context, id string) (*models.Booking, error) {
	return f.bookings[id], nil
}

func (f *fakeStore) GetBookingByReference(ctx context.Context, reference string) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.BookingReference == reference {
			return b, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListBookingsByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	var result []models.Booking
	for _, b := range f.bookings {
		if b.UserID == userID {
			result = append(result, *b)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeStore) UpdateBookingStatus(ctx context.Context, id, status, paymentStatus string) error {
	booking, ok := f.bookings[id]
	if !ok {
		return errors.New("booking not found")
	}
	booking.Status = status
	booking.PaymentStatus = paymentStatus
	booking.UpdatedAt = time.Now()
	return nil
}

func (f *fakeStore) GetBookingStats(ctx context.Context) (*models.BookingStats, error) {
	if f.failStats {
		return nil, errors.New("aggregate failed")
	}
	stats := &models.BookingStats{}
	for _, b := range f.bookings {
		stats.TotalBookings++
		switch b.Status {
		case models.BookingStatusConfirmed:
			stats.ConfirmedBookings++
			if b.PaymentStatus == models.PaymentStatusCompleted {
				stats.TotalRevenue += b.TotalPrice
			}
		case models.BookingStatusCancelled:
			stats.CancelledBookings++
		}
	}
	return stats, nil
}

type fakeInventory struct {
	tickets      map[string]*inventory.Ticket
	reserveErr   error
	releaseErr   error
	reserveCalls int
	releaseCalls int
}

func newFakeInventory(tickets ...*inventory.Ticket) *fakeInventory {
	f := &fakeInventory{tickets: make(map[string]*inventory.Ticket)}
	for _, t := range tickets {
		f.tickets[t.ID] = t
	}
	return f
}

func (f *fakeInventory) FetchTicket(ctx context.Context, ticketID string) (*inventory.Ticket, error) {
	ticket, ok := f.tickets[ticketID]
	if !ok {
		return nil, inventory.ErrTicketNotFound
	}
	return ticket, nil
}

func (f *fakeInventory) AdjustReservation(ctx context.Context, ticketID string, quantity int, direction inventory.Direction) error {
	switch direction {
	case inventory.Reserve:
		f.reserveCalls++
		return f.reserveErr
	case inventory.Release:
		f.releaseCalls++
		return f.releaseErr
	}
	return nil
}

type fakeIdempotency struct {
	keys map[string]string
}

func newFakeIdempotency() *fakeIdempotency {
	return &fakeIdempotency{keys: make(map[string]string)}
}

func (f *fakeIdempotency) LookupIdempotencyKey(ctx context.Context, key string) (string, error) {
	return f.keys[key], nil
}

func (f *fakeIdempotency) StoreIdempotencyKey(ctx context.Context, key, bookingID string, ttl time.Duration) error {
	f.keys[key] = bookingID
	return nil
}

func concertTicket() *inventory.Ticket {
	return &inventory.Ticket{
		ID:             "ticket-1",
		EventName:      "Summer Concert",
		Venue:          "City Arena",
		Date:           "2026-09-12",
		Time:           "19:30",
		Price:          50.0,
		AvailableSeats: 10,
	}
}

func validRequest() *CreateBookingRequest {
	return &CreateBookingRequest{
		UserID:   "user-1",
		Username: "alice",
		TicketID: "ticket-1",
		Quantity: 2,
	}
}

func newTestService(fs *fakeStore, fi *fakeInventory) *BookingService {
	return NewBookingService(fs, fi, NewPaymentService(), nil, nil)
}

func TestCreateBooking_Success(t *testing.T) {
	fs := newFakeStore()
	fi := newFakeInventory(concertTicket())
	svc := newTestService(fs, fi)

	booking, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusConfirmed, booking.Status)
	assert.Equal(t, models.PaymentStatusCompleted, booking.PaymentStatus)
	assert.Equal(t, 100.0, booking.TotalPrice)
	assert.Regexp(t, `^BK-[A-Z0-9]+-[A-Z0-9]+$`, booking.BookingReference)
	assert.Equal(t, "Summer Concert", booking.EventName)
	assert.Equal(t, "City Arena", booking.Venue)
	assert.Equal(t, "2026-09-12", booking.EventDate)
	assert.Equal(t, "19:30", booking.EventTime)
	assert.Equal(t, 1, fi.reserveCalls)
	assert.Len(t, fs.bookings, 1)
}

func TestCreateBooking_MissingFields(t *testing.T) {
	fs := newFakeStore()
	fi := newFakeInventory(concertTicket())
	svc := newTestService(fs, fi)

	req := validRequest()
	req.Username = ""

	_, err := svc.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.Zero(t, fi.reserveCalls)
	assert.Empty(t, fs.bookings)
}

func TestCreateBooking_TicketNotFound(t *testing.T) {
	fs := newFakeStore()
	fi := newFakeInventory()
	svc := newTestService(fs, fi)

	_, err := svc.CreateBooking(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrTicketNotFound)
	assert.Zero(t, fi.reserveCalls)
	assert.Empty(t, fs.bookings)
}

func TestCreateBooking_InsufficientInventory(t *testing.T) {
	fs := newFakeStore()
	fi := newFakeInventory(concertTicket())
	svc := newTestService(fs, fi)

	req := validRequest()
	req.Quantity = 11

	_, err := svc.CreateBooking(context.Background(), req)
	assert.ErrorIs(t, err, ErrInsufficientInventory)
	assert.Zero(t, fi.reserveCalls, "reserve must not be attempted")
	assert.Empty(t, fs.bookings)
}

func TestCreateBooking_ReservationFailed(t *testing.T) {
	fs := newFakeStore()
	fi := newFakeInventory(concertTicket())
	fi.reserveErr = errors.New("inventory reserve returned status 409")
	svc := newTestService(fs, fi)

	_, err := svc.CreateBooking(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrReservationFailed)
	assert.Empty(t, fs.bookings, "no booking is persisted when reservation fails")
}

func TestCreateBooking_PersistenceFailureAfterReservation(t *testing.T) {
	fs := newFakeStore()
	fs.failCreate = true
	fi := newFakeInventory(concertTicket())
	svc := newTestService(fs, fi)

	_, err := svc.CreateBooking(context.Background(), validRequest())
	assert.ErrorIs(t, err, ErrPersistence)

	// The reservation already happened and is deliberately not rolled
	// back; the inconsistency window is accepted.
	assert.Equal(t, 1, fi.reserveCalls)
	assert.Zero(t, fi.releaseCalls)
}

func TestCreateBooking_IdempotentReplay(t *testing.T) {
	fs := newFakeStore()
	fi := newFakeInventory(concertTicket())
	svc := NewBookingService(fs, fi, NewPaymentService(), nil, newFakeIdempotency())

	req := validRequest()
	req.IdempotencyKey = "retry-abc"

	first, err := svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)

	second, err := svc.CreateBooking(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, fi.reserveCalls, "replay must not reserve again")
	assert.Len(t, fs.bookings, 1)
}

func TestCancelBooking_Twice(t *testing.T) {
	fs := newFakeStore()
	fi := newFakeInventory(concertTicket())
	svc := newTestService(fs, fi)

	booking, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	cancelled, err := svc.CancelBooking(context.Background(), booking.ID)
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
	assert.Equal(t, models.PaymentStatusRefunded, cancelled.PaymentStatus)
	assert.Equal(t, 1, fi.releaseCalls)

	_, err = svc.CancelBooking(context.Background(), booking.ID)
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
	assert.Equal(t, 1, fi.releaseCalls, "second cancel must not release again")

	stored := fs.bookings[booking.ID]
	assert.Equal(t, models.BookingStatusCancelled, stored.Status)
	assert.Equal(t, models.PaymentStatusRefunded, stored.PaymentStatus)
}

func TestCancelBooking_ReleaseFailureIsNonFatal(t *testing.T) {
	fs := newFakeStore()
	fi := newFakeInventory(concertTicket())
	fi.releaseErr = errors.New("inventory release timed out")
	svc := newTestService(fs, fi)

	booking, err := svc.CreateBooking(context.Background(), validRequest())
	require.NoError(t, err)

	cancelled, err := svc.CancelBooking(context.Background(), booking.ID)
	require.NoError(t, err, "cancellation is authoritative even when release fails")
	assert.Equal(t, models.BookingStatusCancelled, cancelled.Status)
}

func TestCancelBooking_NotFound(t *testing.T) {
	svc := newTestService(newFakeStore(), newFakeInventory())

	_, err := svc.CancelBooking(context.Background(), "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListBookings_NewestFirst(t *testing.T) {
	fs := newFakeStore()
	base := time.Now()
	for i := 0; i < 3; i++ {
		id := string(rune('a' + i))
		fs.bookings[id] = &models.Booking{
			ID:        id,
			UserID:    "user-1",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
	}
	fs.bookings["other"] = &models.Booking{ID: "other", UserID: "user-2", CreatedAt: base}

	svc := newTestService(fs, newFakeInventory())

	bookings, err := svc.ListBookings(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, bookings, 3)
	assert.Equal(t, "c", bookings[0].ID)
	assert.Equal(t, "b", bookings[1].ID)
	assert.Equal(t, "a", bookings[2].ID)
}

func TestListBookings_MissingUserID(t *testing.T) {
	svc := newTestService(newFakeStore(), newFakeInventory())

	_, err := svc.ListBookings(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGetBooking_NotFound(t *testing.T) {
	svc := newTestService(newFakeStore(), newFakeInventory())

	_, err := svc.GetBooking(context.Background(), "missing-id")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.GetBookingByReference(context.Background(), "BK-MISSING-REF")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetStats(t *testing.T) {
	fs := newFakeStore()
	fs.bookings["1"] = &models.Booking{
		ID: "1", Status: models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusCompleted, TotalPrice: 100,
	}
	fs.bookings["2"] = &models.Booking{
		ID: "2", Status: models.BookingStatusConfirmed,
		PaymentStatus: models.PaymentStatusCompleted, TotalPrice: 50,
	}
	fs.bookings["3"] = &models.Booking{
		ID: "3", Status: models.BookingStatusCancelled,
		PaymentStatus: models.PaymentStatusRefunded, TotalPrice: 75,
	}

	svc := newTestService(fs, newFakeInventory())

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalBookings)
	assert.Equal(t, int64(2), stats.ConfirmedBookings)
	assert.Equal(t, int64(1), stats.CancelledBookings)
	assert.Equal(t, 150.0, stats.TotalRevenue)
}

func TestGetStats_Unavailable(t *testing.T) {
	fs := newFakeStore()
	fs.failStats = true
	svc := newTestService(fs, newFakeInventory())

	_, err := svc.GetStats(context.Background())
	assert.ErrorIs(t, err, ErrStatsUnavailable)
}
