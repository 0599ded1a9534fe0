package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"booking-service/internal/service"
	"booking-service/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handler contains HTTP handlers
type Handler struct {
	bookingService *service.BookingService
}

// NewHandler creates a new HTTP handler
func NewHandler(bookingService *service.BookingService) *Handler {
	return &Handler{
		bookingService: bookingService,
	}
}

// SetupRoutes sets up HTTP routes
func (h *Handler) SetupRoutes(router *gin.Engine) {
	router.Use(gin.Recovery())
	router.Use(prometheusMiddleware())
	router.Use(gin.Logger())

	router.GET("/health", h.healthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	bookings := router.Group("/api/bookings")
	{
		bookings.POST("", h.createBooking)
		bookings.GET("", h.listBookings)
		bookings.GET("/stats/summary", h.getStats)
		bookings.GET("/reference/:reference", h.getBookingByReference)
		bookings.GET("/:id", h.getBooking)
		bookings.DELETE("/:id", h.cancelBooking)
	}
}

// healthCheck handles liveness probes
func (h *Handler) healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "booking-service",
	})
}

// createBooking handles booking creation
func (h *Handler) createBooking(c *gin.Context) {
	var req service.CreateBookingRequest

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request: userId, username, ticketId and quantity are required",
		})
		return
	}

	req.IdempotencyKey = c.GetHeader("Idempotency-Key")

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, booking)
}

// listBookings handles listing a user's bookings, newest first
func (h *Handler) listBookings(c *gin.Context) {
	userID := c.Query("userId")

	bookings, err := h.bookingService.ListBookings(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, bookings)
}

// getBooking handles fetch by internal ID
func (h *Handler) getBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// getBookingByReference handles fetch by booking reference
func (h *Handler) getBookingByReference(c *gin.Context) {
	booking, err := h.bookingService.GetBookingByReference(c.Request.Context(), c.Param("reference"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// cancelBooking handles booking cancellation
func (h *Handler) cancelBooking(c *gin.Context) {
	booking, err := h.bookingService.CancelBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// getStats handles the aggregate stats endpoint
func (h *Handler) getStats(c *gin.Context) {
	stats, err := h.bookingService.GetStats(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// respondError maps workflow errors onto HTTP statuses
func (h *Handler) respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError

	switch {
	case errors.Is(err, service.ErrInvalidRequest),
		errors.Is(err, service.ErrInsufficientInventory),
		errors.Is(err, service.ErrAlreadyCancelled):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrTicketNotFound),
		errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	}

	c.JSON(status, gin.H{"error": err.Error()})
}

// prometheusMiddleware collects HTTP metrics
func prometheusMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())

		util.HTTPRequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Observe(duration)

		util.HTTPRequestsTotal.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			status,
		).Inc()
	}
}
