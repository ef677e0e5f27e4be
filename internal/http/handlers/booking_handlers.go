package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/http/middleware"
)

// BookingHandlers handles patient booking HTTP requests
type BookingHandlers struct {
	bookingSvc domain.BookingService
}

// NewBookingHandlers creates new booking handlers
func NewBookingHandlers(bookingSvc domain.BookingService) *BookingHandlers {
	return &BookingHandlers{bookingSvc: bookingSvc}
}

// CreateBookingRequest represents a booking creation request
type CreateBookingRequest struct {
	CenterID    uint      `json:"center_id" binding:"required"`
	TestID      uint      `json:"test_id" binding:"required"`
	ScheduledAt time.Time `json:"scheduled_at" binding:"required"`
}

// Create books a lab test for the authenticated patient.
func (h *BookingHandlers) Create(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingSvc.CreateBooking(c.Request.Context(), principal.UserID, req.CenterID, req.TestID, req.ScheduledAt)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCenterNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Center not found"})
		case errors.Is(err, domain.ErrTestNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Test not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": bookingBody(booking)})
}

// List returns the authenticated patient's bookings.
func (h *BookingHandlers) List(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	bookings, err := h.bookingSvc.ListPatientBookings(c.Request.Context(), principal.UserID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bookingBodies(bookings)})
}

// Get returns a single booking, scoped to the caller's role.
func (h *BookingHandlers) Get(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	bookingID, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking id"})
		return
	}

	booking, err := h.bookingSvc.GetBooking(c.Request.Context(), principal, bookingID)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get booking"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bookingBody(booking)})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func bookingBody(b *domain.Booking) gin.H {
	body := gin.H{
		"id":           b.ID,
		"reference":    b.Reference,
		"patient_id":   b.PatientID,
		"center_id":    b.CenterID,
		"test_id":      b.TestID,
		"scheduled_at": b.ScheduledAt,
		"status":       b.Status,
		"created_at":   b.CreatedAt,
	}
	if b.ResultURL != "" {
		body["result_url"] = b.ResultURL
	}
	return body
}

func bookingBodies(bookings []domain.Booking) []gin.H {
	bodies := make([]gin.H, 0, len(bookings))
	for i := range bookings {
		bodies = append(bodies, bookingBody(&bookings[i]))
	}
	return bodies
}
