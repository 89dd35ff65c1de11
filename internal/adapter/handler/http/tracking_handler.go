package http

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/velogo/bike-rental-service/internal/core/domain"
	"github.com/velogo/bike-rental-service/internal/core/ports"
	"github.com/velogo/bike-rental-service/internal/core/services"
	"github.com/velogo/bike-rental-service/internal/subscriber"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

func mustJSON(v interface{}) []byte {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return raw
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type TrackingHandler struct {
	trackingService *services.TrackingService
	live            ports.LiveStorePort
	logger          ports.LoggerPort
	metrics         ports.MetricsPort
}

// FixRequest carries the coordinates without binding tags: zero is a valid
// latitude and longitude, so range checking is left to the fix validator.
type FixRequest struct {
	Lat       float64 `json:"lat" example:"27.7"`
	Lng       float64 `json:"lng" example:"85.3"`
	Timestamp int64   `json:"timestamp" binding:"required" example:"1000"`
}

type LatestFixResponse struct {
	Fix   *domain.LiveFix `json:"fix,omitempty"`
	State string          `json:"state"`
}

// FeedMessage is one frame on the live feed websocket.
type FeedMessage struct {
	State string          `json:"state"`
	Fix   *domain.LiveFix `json:"fix,omitempty"`
}

func NewTrackingHandler(
	trackingService *services.TrackingService,
	live ports.LiveStorePort,
	logger ports.LoggerPort,
	metrics ports.MetricsPort,
) *TrackingHandler {
	return &TrackingHandler{
		trackingService: trackingService,
		live:            live,
		logger:          logger,
		metrics:         metrics,
	}
}

// @Summary Publish a live fix
// @Description Overwrites the ride's current position; only the ride's customer may publish
// @Tags tracking
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param rideId path int true "Ride ID" example:"101"
// @Param request body FixRequest true "GPS fix"
// @Success 202 {object} successResponse "Fix accepted"
// @Failure 400 {object} errorResponse "Invalid fix"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Failure 403 {object} errorResponse "Not the ride customer"
// @Router /rides/{rideId}/fixes [post]
func (h *TrackingHandler) PublishFix(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	payload, exists := getAuthPayload(c, authPayloadKey)
	if !exists {
		newErrorResponse(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	rideID, err := strconv.ParseInt(c.Param("rideId"), 10, 64)
	if err != nil || rideID <= 0 {
		newErrorResponse(c, http.StatusBadRequest, "Invalid rideJourneyId")
		return
	}

	var req FixRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Failed JSON parse in publish fix", map[string]interface{}{
			"error": err.Error(),
		})
		newErrorResponse(c, http.StatusBadRequest, "Invalid JSON format")
		return
	}

	fix := &domain.LiveFix{
		Lat:        req.Lat,
		Lng:        req.Lng,
		CustomerID: payload.UserID,
		Timestamp:  req.Timestamp,
	}

	if err := h.trackingService.PublishFix(c.Request.Context(), rideID, fix); err != nil {
		status, message := statusFromDomainError(err)
		newErrorResponse(c, status, message)
		return
	}

	c.JSON(http.StatusAccepted, successResponse{Success: true})
}

// @Summary Latest live fix
// @Description Current position of the ride, or the feed state when absent
// @Tags tracking
// @Security BearerAuth
// @Produce json
// @Param rideId path int true "Ride ID" example:"101"
// @Success 200 {object} LatestFixResponse "Latest fix"
// @Failure 401 {object} errorResponse "Unauthorized"
// @Router /rides/{rideId}/latest [get]
func (h *TrackingHandler) GetLatestFix(c *gin.Context) {
	start := time.Now()
	defer func() {
		h.metrics.RecordMetrics(c, start)
	}()

	rideID, err := strconv.ParseInt(c.Param("rideId"), 10, 64)
	if err != nil || rideID <= 0 {
		newErrorResponse(c, http.StatusBadRequest, "Invalid rideJourneyId")
		return
	}

	fix, err := h.trackingService.Latest(c.Request.Context(), rideID)
	if err != nil {
		c.JSON(http.StatusOK, LatestFixResponse{State: string(subscriber.StateAwaiting)})
		return
	}

	c.JSON(http.StatusOK, LatestFixResponse{Fix: fix, State: string(subscriber.StateLive)})
}

// Feed upgrades to a websocket and streams the ride's live fixes. The
// subscription is released when the client goes away; after the tombstone an
// "ended" frame is sent and the socket is closed.
func (h *TrackingHandler) Feed(c *gin.Context) {
	rideID, err := strconv.ParseInt(c.Param("rideId"), 10, 64)
	if err != nil || rideID <= 0 {
		newErrorResponse(c, http.StatusBadRequest, "Invalid rideJourneyId")
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Failed websocket upgrade", map[string]interface{}{
			"error":   err.Error(),
			"ride_id": rideID,
		})
		return
	}
	defer conn.Close()

	payloads, cancel, err := h.live.Subscribe(c.Request.Context(), rideID)
	if err != nil {
		h.logger.Error("Failed live subscribe", map[string]interface{}{
			"error":   err.Error(),
			"ride_id": rideID,
		})
		return
	}
	defer cancel()

	watcher := subscriber.NewWatcher()

	// Prime the feed with the current position so a viewer joining mid-ride
	// sees a marker immediately.
	if fix, err := h.trackingService.Latest(c.Request.Context(), rideID); err == nil {
		watcher.Apply(mustJSON(fix))
	}
	if err := conn.WriteJSON(FeedMessage{State: string(watcher.State()), Fix: watcher.Latest()}); err != nil {
		return
	}

	// Drain client frames so close/ping handling works; viewers never send
	// data frames.
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	for raw := range payloads {
		if !watcher.Apply(raw) {
			continue
		}
		message := FeedMessage{State: string(watcher.State()), Fix: watcher.Latest()}
		if watcher.State() == subscriber.StateEnded {
			message.Fix = nil
		}
		if err := conn.WriteJSON(message); err != nil {
			return
		}
		if watcher.State() == subscriber.StateEnded {
			return
		}
	}
}
