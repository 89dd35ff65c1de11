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

type BikeHandler struct {
	bikeService *services.BikeService
	logger      ports.LoggerPort
	metrics     ports.MetricsPort
}

type BikeInfo struct {
	BikeID       int64     `json:"bike_id"`
	OwnerID      string    `json:"owner_id"`
	BikeName     string    `json:"bike_name"`
	Type         string    `json:"type"`
	Model        string    `json:"model"`
	PricePerHour float64   `json:"price_per_hour"`
	Available    bool      `json:"available"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type GetOwnerBikesResponse struct {
	Bikes []BikeInfo `json:"bikes"`
	Count int        `json:"count"`
}

func NewBikeHandler(
	bikeService *services.BikeService,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *BikeHandler {
	return &BikeHandler{
		bikeService: bikeService,
		logger:      logger,
		metrics:     metrics,
	}
}

func bikeInfo(bike *domain.Bike) BikeInfo {
	return BikeInfo{
		BikeID:       bike.BikeID,
		OwnerID:      bike.OwnerID,
		BikeName:     bike.BikeName,
		Type:         string(bike.Type),
		Model:        bike.Model,
		PricePerHour: bike.PricePerHour,
		Available:    bike.Available,
		CreatedAt:    bike.CreatedAt,
		UpdatedAt:    bike.UpdatedAt,
	}
}

// @Summary Get a bike
// @Tags bikes
// @Security BearerAuth
// @Produce json
// @Param id path int true "Bike ID" example:"7"
// @Success 200 {object} BikeInfo "Bike found"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 404 {object} errorResponse "Bike not found"
// @Router /bikes/{id} [get]
func (h *BikeHandler) GetBike(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	bikeID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || bikeID <= 0 {
		newErrorResponse(c, http.StatusBadRequest, "Invalid bike ID")
		return
	}

	bike, err := h.bikeService.GetBikeByID(c.Request.Context(), bikeID)
	if err != nil {
		status, message := statusFromDomainError(err)
		newErrorResponse(c, status, message)
		return
	}

	c.JSON(http.StatusOK, bikeInfo(bike))
}

// @Summary Get an owner's bikes
// @Tags bikes
// @Security BearerAuth
// @Produce json
// @Param ownerId path string true "Owner ID" example:"9"
// @Success 200 {object} GetOwnerBikesResponse "Bikes"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 403 {object} errorResponse "Access denied"
// @Router /bikes/owner/{ownerId} [get]
func (h *BikeHandler) GetBikesByOwner(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, exists := getAuthPayload(c, authPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ownerID := c.Param("ownerId")
	if payload.Role != domain.Admin && payload.UserID != ownerID {
		h.logger.Warn("Access denied", map[string]interface{}{
			"requester_id": payload.UserID,
			"owner_id":     ownerID,
		})
		newErrorResponse(c, http.StatusForbidden, "Access denied")
		return
	}

	bikes, err := h.bikeService.GetBikesByOwnerID(c.Request.Context(), ownerID)
	if err != nil {
		newErrorResponse(c, http.StatusInternalServerError, "Failed to get bikes")
		return
	}

	infos := make([]BikeInfo, len(bikes))
	for i, bike := range bikes {
		infos[i] = bikeInfo(bike)
	}

	c.JSON(http.StatusOK, GetOwnerBikesResponse{
		Bikes: infos,
		Count: len(infos),
	})
}
