package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/velogo/bike-rental-service/internal/core/domain"
	"github.com/velogo/bike-rental-service/internal/core/ports"
	"github.com/velogo/bike-rental-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	bookingService *services.BookingService
	logger         ports.LoggerPort
	metrics        ports.MetricsPort
}

type BookingInfo struct {
	ID         int64     `json:"id"`
	CustomerID string    `json:"customer_id"`
	BikeID     int64     `json:"bike_id"`
	StartTime  time.Time `json:"start_time"`
	EndTime    time.Time `json:"end_time"`
	TotalPrice float64   `json:"total_price"`
	Status     string    `json:"status"`
}

type MyRentalsResponse struct {
	Bookings []BookingInfo `json:"bookings"`
	Count    int           `json:"count"`
}

func NewBookingHandler(
	bookingService *services.BookingService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		logger:         logger,
		metrics:        metrics,
	}
}

func bookingInfo(booking *domain.Booking) BookingInfo {
	return BookingInfo{
		ID:         booking.ID,
		CustomerID: booking.CustomerID,
		BikeID:     booking.BikeID,
		StartTime:  booking.StartTime,
		EndTime:    booking.EndTime,
		TotalPrice: booking.TotalPrice,
		Status:     string(booking.Status),
	}
}

// @Summary Get a booking
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Param bookingId path int true "Booking ID" example:"42"
// @Success 200 {object} BookingInfo "Booking found"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 403 {object} errorResponse "Access denied"
// @Failure 404 {object} errorResponse "Booking not found"
// @Router /bookings/{bookingId} [get]
func (h *BookingHandler) GetBooking(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, exists := getAuthPayload(c, authPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil || bookingID <= 0 {
		newErrorResponse(c, http.StatusBadRequest, "Invalid bookingId")
		return
	}

	booking, err := h.bookingService.GetBookingByID(c.Request.Context(), bookingID)
	if err != nil {
		status, message := statusFromDomainError(err)
		newErrorResponse(c, status, message)
		return
	}

	if payload.Role != domain.Admin && payload.UserID != booking.CustomerID {
		h.logger.Warn("Access denied", map[string]interface{}{
			"requester_id": payload.UserID,
			"customer_id":  booking.CustomerID,
			"booking_id":   bookingID,
		})
		newErrorResponse(c, http.StatusForbidden, "Access denied")
		return
	}

	c.JSON(http.StatusOK, bookingInfo(booking))
}

// @Summary My rentals
// @Description Bookings of the authenticated customer
// @Tags bookings
// @Security BearerAuth
// @Produce json
// @Success 200 {object} MyRentalsResponse "Rentals"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Router /bookings/my-rentals [get]
func (h *BookingHandler) MyRentals(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, exists := getAuthPayload(c, authPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookings, err := h.bookingService.MyRentals(c.Request.Context(), payload.UserID)
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, "Failed to list rentals")
		return
	}

	infos := make([]BookingInfo, len(bookings))
	for i, booking := range bookings {
		infos[i] = bookingInfo(booking)
	}

	c.JSON(http.StatusOK, MyRentalsResponse{
		Bookings: infos,
		Count:    len(infos),
	})
}
