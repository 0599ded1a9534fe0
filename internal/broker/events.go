package broker

import (
	"context"

	"booking-service/internal/models"
)

// BookingEventPublisher publishes booking lifecycle events keyed by
// booking reference so events for one booking stay ordered.
type BookingEventPublisher struct {
	producer *Producer
}

// NewBookingEventPublisher creates a new event publisher
func NewBookingEventPublisher(producer *Producer) *BookingEventPublisher {
	return &BookingEventPublisher{producer: producer}
}

// PublishBookingCreated publishes a BookingCreated event
func (ep *BookingEventPublisher) PublishBookingCreated(ctx context.Context, event *models.BookingCreatedEvent) error {
	return ep.producer.PublishEvent(ctx, event.BookingReference, event)
}

// PublishBookingCancelled publishes a BookingCancelled event
func (ep *BookingEventPublisher) PublishBookingCancelled(ctx context.Context, event *models.BookingCancelledEvent) error {
	return ep.producer.PublishEvent(ctx, event.BookingReference, event)
}
