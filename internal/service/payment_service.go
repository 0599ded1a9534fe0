package service

import (
	"context"
	"fmt"
	"time"

	"booking-service/internal/models"
	"booking-service/internal/util"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentOutcome is the result of a payment authorization
type PaymentOutcome struct {
	Status string
	TxID   string
}

// Payments authorizes a charge for a booking. The production
// integration would talk to a payment provider here.
type Payments interface {
	Authorize(ctx context.Context, amount float64) (*PaymentOutcome, error)
}

// PaymentService is a simulated payment capability that always
// succeeds. It keeps the workflow shape intact so a real provider can
// be substituted without touching the booking logic.
type PaymentService struct {
	logger *zap.Logger
}

// NewPaymentService creates a new payment service
func NewPaymentService() *PaymentService {
	return &PaymentService{
		logger: util.GetLogger(),
	}
}

// Authorize approves the charge and returns a completed outcome
func (ps *PaymentService) Authorize(ctx context.Context, amount float64) (*PaymentOutcome, error) {
	util.PaymentAuthorizationsTotal.Inc()
	start := time.Now()
	defer func() {
		util.PaymentAuthorizationLatency.Observe(time.Since(start).Seconds())
	}()

	txID := fmt.Sprintf("TXN-%s", uuid.New().String()[:8])

	ps.logger.Info("Payment authorized",
		zap.Float64("amount", amount),
		zap.String("tx_id", txID))

	return &PaymentOutcome{
		Status: models.PaymentStatusCompleted,
		TxID:   txID,
	}, nil
}
