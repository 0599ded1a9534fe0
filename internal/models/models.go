package models

import "time"

// Booking is the durable record of a ticket purchase. Event metadata is
// snapshotted from the inventory service at booking time so historical
// bookings stay stable even if the event record later changes.
type Booking struct {
	ID               string    `db:"id" json:"id"`
	BookingReference string    `db:"booking_reference" json:"bookingReference"`
	UserID           string    `db:"user_id" json:"userId"`
	Username         string    `db:"username" json:"username"`
	TicketID         string    `db:"ticket_id" json:"ticketId"`
	EventName        string    `db:"event_name" json:"eventName"`
	Venue            string    `db:"venue" json:"venue"`
	EventDate        string    `db:"event_date" json:"eventDate"`
	EventTime        string    `db:"event_time" json:"eventTime"`
	Quantity         int       `db:"quantity" json:"quantity"`
	TotalPrice       float64   `db:"total_price" json:"totalPrice"`
	Status           string    `db:"status" json:"status"`
	PaymentStatus    string    `db:"payment_status" json:"paymentStatus"`
	ContactEmail     string    `db:"contact_email" json:"contactEmail,omitempty"`
	ContactPhone     string    `db:"contact_phone" json:"contactPhone,omitempty"`
	CreatedAt        time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time `db:"updated_at" json:"updatedAt"`
}

// Booking statuses. Transitions are monotonic: pending -> confirmed ->
// cancelled, never out of cancelled.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Payment statuses
const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"
	PaymentStatusRefunded  = "refunded"
)

// BookingStats is the aggregate returned by the stats endpoint. Revenue
// only counts confirmed bookings with completed payments.
type BookingStats struct {
	TotalBookings     int64   `db:"total_bookings" json:"totalBookings"`
	ConfirmedBookings int64   `db:"confirmed_bookings" json:"confirmedBookings"`
	CancelledBookings int64   `db:"cancelled_bookings" json:"cancelledBookings"`
	TotalRevenue      float64 `db:"total_revenue" json:"totalRevenue"`
}
