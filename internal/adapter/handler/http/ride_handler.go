package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/velogo/bike-rental-service/internal/core/domain"
	"github.com/velogo/bike-rental-service/internal/core/ports"
	"github.com/velogo/bike-rental-service/internal/core/services"

	"github.com/gin-gonic/gin"
)

type RideHandler struct {
	rideService *services.RideService
	logger      ports.LoggerPort
	metrics     ports.MetricsPort
}

type RideData struct {
	ID         int64      `json:"id"`
	BookingID  int64      `json:"booking_id"`
	CustomerID string     `json:"customer_id"`
	BikeID     int64      `json:"bike_id"`
	Status     string     `json:"status"`
	StartTime  time.Time  `json:"start_time"`
	EndTime    *time.Time `json:"end_time,omitempty"`
}

type StartRideResponse struct {
	Success  bool     `json:"success"`
	RideData RideData `json:"rideData"`
}

type CompleteRideResponse struct {
	Success bool      `json:"success"`
	EndTime time.Time `json:"endTime"`
}

type GetRideResponse struct {
	Ride      RideData        `json:"ride"`
	LatestFix *domain.LiveFix `json:"latest_fix,omitempty"`
}

type ArchivedPathResponse struct {
	RideID    int64           `json:"ride_id"`
	Path      json.RawMessage `json:"path"`
	CreatedAt time.Time       `json:"created_at"`
}

func NewRideHandler(
	rideService *services.RideService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *RideHandler {
	return &RideHandler{
		rideService: rideService,
		logger:      logger,
		metrics:     metrics,
	}
}

func rideData(ride *domain.Ride) RideData {
	return RideData{
		ID:         ride.ID,
		BookingID:  ride.BookingID,
		CustomerID: ride.CustomerID,
		BikeID:     ride.BikeID,
		Status:     string(ride.Status),
		StartTime:  ride.StartTime,
		EndTime:    ride.EndTime,
	}
}

// @Summary Start a ride
// @Description Creates an active ride journey for the booking
// @Tags rides
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param bookingId path int true "Booking ID" example:"42"
// @Success 200 {object} StartRideResponse "Ride started"
// @Failure 400 {object} errorResponse "Invalid booking id"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Booking not found"
// @Failure 409 {object} errorResponse "Ride already active"
// @Router /bookings/{bookingId}/start [post]
func (h *RideHandler) StartRide(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, exists := getAuthPayload(c, authPayloadKey)
	if !exists {
		h.logger.Warn("Unauthorized access attempt to StartRide", map[string]interface{}{
			"ip": c.ClientIP(),
		})
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	bookingID, err := strconv.ParseInt(c.Param("bookingId"), 10, 64)
	if err != nil || bookingID <= 0 {
		newErrorResponse(c, http.StatusBadRequest, "Invalid bookingId")
		return
	}

	ride, err := h.rideService.StartRide(c.Request.Context(), bookingID)
	if err != nil {
		status, message := statusFromDomainError(err)
		h.logger.Error("Failed to start ride", map[string]interface{}{
			"error":      err.Error(),
			"booking_id": bookingID,
			"user_id":    payload.UserID,
		})
		newErrorResponse(c, status, message)
		return
	}

	c.JSON(http.StatusOK, StartRideResponse{
		Success:  true,
		RideData: rideData(ride),
	})
}

// @Summary Complete a ride
// @Description Archives the live path, clears the live key and completes ride, booking and bike
// @Tags rides
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param bookingId path int true "Booking ID" example:"42"
// @Param rideId path int true "Ride ID" example:"101"
// @Success 200 {object} CompleteRideResponse "Ride completed"
// @Failure 400 {object} errorResponse "Invalid identifiers"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Ride not found"
// @Failure 409 {object} errorResponse "Ride already completed"
// @Router /bookings/{bookingId}/rides/{rideId}/complete [post]
func (h *RideHandler) CompleteRide(c *gin.Context) {
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
	rideID, err := strconv.ParseInt(c.Param("rideId"), 10, 64)
	if err != nil || rideID <= 0 {
		newErrorResponse(c, http.StatusBadRequest, "Invalid rideJourneyId")
		return
	}

	endTime, err := h.rideService.CompleteRide(c.Request.Context(), bookingID, rideID)
	if err != nil {
		status, message := statusFromDomainError(err)
		h.logger.Error("Failed to complete ride", map[string]interface{}{
			"error":      err.Error(),
			"booking_id": bookingID,
			"ride_id":    rideID,
			"user_id":    payload.UserID,
		})
		newErrorResponse(c, status, message)
		return
	}

	c.JSON(http.StatusOK, CompleteRideResponse{
		Success: true,
		EndTime: endTime,
	})
}

// @Summary Get a ride
// @Description Ride record plus the latest live fix when tracking is active
// @Tags rides
// @Security BearerAuth
// @Produce json
// @Param rideId path int true "Ride ID" example:"101"
// @Success 200 {object} GetRideResponse "Ride found"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Ride not found"
// @Router /rides/{rideId} [get]
func (h *RideHandler) GetRide(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	rideID, err := strconv.ParseInt(c.Param("rideId"), 10, 64)
	if err != nil || rideID <= 0 {
		newErrorResponse(c, http.StatusBadRequest, "Invalid rideJourneyId")
		return
	}

	ride, fix, err := h.rideService.GetRide(c.Request.Context(), rideID)
	if err != nil {
		status, message := statusFromDomainError(err)
		newErrorResponse(c, status, message)
		return
	}

	c.JSON(http.StatusOK, GetRideResponse{
		Ride:      rideData(ride),
		LatestFix: fix,
	})
}

// @Summary Get a ride's archived path
// @Description The durable path snapshot written at ride completion
// @Tags rides
// @Security BearerAuth
// @Produce json
// @Param rideId path int true "Ride ID" example:"101"
// @Success 200 {object} ArchivedPathResponse "Archived path"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Path not found"
// @Router /rides/{rideId}/path [get]
func (h *RideHandler) GetArchivedPath(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	rideID, err := strconv.ParseInt(c.Param("rideId"), 10, 64)
	if err != nil || rideID <= 0 {
		newErrorResponse(c, http.StatusBadRequest, "Invalid rideJourneyId")
		return
	}

	path, err := h.rideService.GetArchivedPath(c.Request.Context(), rideID)
	if err != nil {
		status, message := statusFromDomainError(err)
		newErrorResponse(c, status, message)
		return
	}

	c.JSON(http.StatusOK, ArchivedPathResponse{
		RideID:    path.RideID,
		Path:      json.RawMessage(path.PathJSON),
		CreatedAt: path.CreatedAt,
	})
}
