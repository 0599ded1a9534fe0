package models

import "time"

// Event types
const (
	EventTypeBookingCreated   = "BOOKING_CREATED"
	EventTypeBookingCancelled = "BOOKING_CANCELLED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingCreatedEvent published when a booking is confirmed and persisted
type BookingCreatedEvent struct {
	BaseEvent
	BookingID        string  `json:"booking_id"`
	BookingReference string  `json:"booking_reference"`
	UserID           string  `json:"user_id"`
	TicketID         string  `json:"ticket_id"`
	Quantity         int     `json:"quantity"`
	TotalPrice       float64 `json:"total_price"`
}

// BookingCancelledEvent published when a booking is cancelled and refunded
type BookingCancelledEvent struct {
	BaseEvent
	BookingID        string `json:"booking_id"`
	BookingReference string `json:"booking_reference"`
	TicketID         string `json:"ticket_id"`
	Quantity         int    `json:"quantity"`
}
