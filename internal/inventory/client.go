// Package inventory is the HTTP client for the ticket inventory
// service. The booking workflow only depends on two capabilities:
// fetching a ticket and adjusting its reservation count. Atomicity of
// reserve/release is the inventory service's responsibility.
package inventory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"booking-service/internal/util"

	"go.uber.org/zap"
)

// ErrTicketNotFound is returned when the inventory service has no
// ticket for the requested ID.
var ErrTicketNotFound = errors.New("ticket not found in inventory")

// Direction selects which way a reservation adjustment goes.
type Direction string

const (
	Reserve Direction = "reserve"
	Release Direction = "release"
)

// Ticket is the inventory service's view of an event ticket.
type Ticket struct {
	ID             string  `json:"id"`
	EventName      string  `json:"eventName"`
	Venue          string  `json:"venue"`
	Date           string  `json:"date"`
	Time           string  `json:"time"`
	Price          float64 `json:"price"`
	AvailableSeats int     `json:"availableSeats"`
}

// Client calls the ticket inventory service over HTTP
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an inventory client with an explicit timeout so a
// hung collaborator cannot suspend requests indefinitely.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: util.GetLogger(),
	}
}

// FetchTicket retrieves ticket and event details by ticket ID
func (c *Client) FetchTicket(ctx context.Context, ticketID string) (*Ticket, error) {
	start := time.Now()
	defer func() {
		util.InventoryCallLatency.WithLabelValues("fetch").Observe(time.Since(start).Seconds())
	}()

	url := fmt.Sprintf("%s/api/tickets/%s", c.baseURL, ticketID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		util.InventoryCallsFailed.WithLabelValues("fetch").Inc()
		return nil, fmt.Errorf("inventory service unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrTicketNotFound, ticketID)
	}
	if resp.StatusCode != http.StatusOK {
		util.InventoryCallsFailed.WithLabelValues("fetch").Inc()
		return nil, fmt.Errorf("inventory service returned status %d for ticket %s", resp.StatusCode, ticketID)
	}

	var ticket Ticket
	if err := json.NewDecoder(resp.Body).Decode(&ticket); err != nil {
		return nil, fmt.Errorf("failed to decode ticket response: %w", err)
	}

	return &ticket, nil
}

// AdjustReservation reserves or releases seats for a ticket. The
// inventory service decrements or increments available seats
// atomically on its side.
func (c *Client) AdjustReservation(ctx context.Context, ticketID string, quantity int, direction Direction) error {
	start := time.Now()
	defer func() {
		util.InventoryCallLatency.WithLabelValues(string(direction)).Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(map[string]int{"quantity": quantity})
	if err != nil {
		return err
	}

	url := fmt.Sprintf("%s/api/tickets/%s/%s", c.baseURL, ticketID, direction)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		util.InventoryCallsFailed.WithLabelValues(string(direction)).Inc()
		return fmt.Errorf("inventory %s call failed: %w", direction, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		util.InventoryCallsFailed.WithLabelValues(string(direction)).Inc()
		c.logger.Warn("Inventory adjustment rejected",
			zap.String("ticket_id", ticketID),
			zap.String("direction", string(direction)),
			zap.Int("status", resp.StatusCode))
		return fmt.Errorf("inventory %s returned status %d for ticket %s", direction, resp.StatusCode, ticketID)
	}

	return nil
}
