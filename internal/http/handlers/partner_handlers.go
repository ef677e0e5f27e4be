package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/NVHealth/nvhealthlabs-sub001/domain"
	"github.com/NVHealth/nvhealthlabs-sub001/internal/http/middleware"
)

// PartnerHandlers handles center-staff HTTP requests. Every operation is
// scoped to the principal's own center; other centers' data answers 404.
type PartnerHandlers struct {
	bookingSvc domain.BookingService
}

// NewPartnerHandlers creates new partner handlers
func NewPartnerHandlers(bookingSvc domain.BookingService) *PartnerHandlers {
	return &PartnerHandlers{bookingSvc: bookingSvc}
}

// AttachResultRequest attaches a result document to a completed booking
type AttachResultRequest struct {
	ResultURL string `json:"result_url" binding:"required,url"`
}

// ListBookings returns the bookings for the staff member's center.
func (h *PartnerHandlers) ListBookings(c *gin.Context) {
	principal := middleware.CurrentPrincipal(c)
	if principal == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	if principal.CenterID == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "Account is not linked to a center"})
		return
	}

	bookings, err := h.bookingSvc.ListCenterBookings(c.Request.Context(), principal.CenterID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bookingBodies(bookings)})
}

// AttachResult records the result document for a booking at the staff
// member's center and marks the booking completed.
func (h *PartnerHandlers) AttachResult(c *gin.Context) {
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

	var req AttachResultRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	booking, err := h.bookingSvc.AttachResult(c.Request.Context(), principal, bookingID, req.ResultURL)
	if err != nil {
		if errors.Is(err, domain.ErrBookingNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to attach result"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": bookingBody(booking)})
}
