package inventory

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newInventoryStub(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()

	mux.HandleFunc("/api/tickets/ticket-1", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(Ticket{
			ID:             "ticket-1",
			EventName:      "Summer Concert",
			Venue:          "City Arena",
			Date:           "2026-09-12",
			Time:           "19:30",
			Price:          50.0,
			AvailableSeats: 10,
		})
	})

	mux.HandleFunc("/api/tickets/ticket-1/reserve", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Quantity int `json:"quantity"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if body.Quantity > 10 {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/api/tickets/ticket-1/release", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	return httptest.NewServer(mux)
}

func TestFetchTicket(t *testing.T) {
	server := newInventoryStub(t)
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)

	ticket, err := client.FetchTicket(context.Background(), "ticket-1")
	require.NoError(t, err)
	assert.Equal(t, "Summer Concert", ticket.EventName)
	assert.Equal(t, "City Arena", ticket.Venue)
	assert.Equal(t, 50.0, ticket.Price)
	assert.Equal(t, 10, ticket.AvailableSeats)
}

func TestFetchTicket_NotFound(t *testing.T) {
	server := newInventoryStub(t)
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)

	_, err := client.FetchTicket(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTicketNotFound)
}

func TestFetchTicket_Unreachable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", 500*time.Millisecond)

	_, err := client.FetchTicket(context.Background(), "ticket-1")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrTicketNotFound)
}

func TestAdjustReservation_Reserve(t *testing.T) {
	server := newInventoryStub(t)
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)

	err := client.AdjustReservation(context.Background(), "ticket-1", 2, Reserve)
	assert.NoError(t, err)
}

func TestAdjustReservation_ReserveRejected(t *testing.T) {
	server := newInventoryStub(t)
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)

	err := client.AdjustReservation(context.Background(), "ticket-1", 50, Reserve)
	assert.Error(t, err)
}

func TestAdjustReservation_Release(t *testing.T) {
	server := newInventoryStub(t)
	defer server.Close()

	client := NewClient(server.URL, 2*time.Second)

	err := client.AdjustReservation(context.Background(), "ticket-1", 2, Release)
	assert.NoError(t, err)
}
