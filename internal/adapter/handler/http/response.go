package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/velogo/bike-rental-service/internal/core/domain"
	"github.com/velogo/bike-rental-service/internal/core/ports"

	"github.com/gin-gonic/gin"
)

const authPayloadKey = "authorization_payload"

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type successResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

func newErrorResponse(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, errorResponse{Success: false, Message: message})
}

func getAuthPayload(c *gin.Context, key string) (*domain.TokenPayload, bool) {
	value, exists := c.Get(key)
	if !exists {
		return nil, false
	}
	payload, ok := value.(*domain.TokenPayload)
	return payload, ok
}

// statusFromDomainError maps the sentinel domain errors to client statuses;
// everything else is a 500.
func statusFromDomainError(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, domain.ErrRideAlreadyActive):
		return http.StatusConflict, "Booking already has an active ride"
	case errors.Is(err, domain.ErrRideAlreadyCompleted):
		return http.StatusConflict, "Ride already completed"
	case errors.Is(err, domain.ErrRideBookingMismatch):
		return http.StatusBadRequest, "Ride does not belong to booking"
	case errors.Is(err, domain.ErrNotRideOwner):
		return http.StatusForbidden, "Access denied"
	case errors.Is(err, domain.ErrInvalidFix):
		return http.StatusBadRequest, "Invalid fix payload"
	default:
		return http.StatusInternalServerError, "Internal error"
	}
}

func AuthMiddleware(tokenService ports.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			newErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			newErrorResponse(c, http.StatusUnauthorized, "Bearer token required")
			return
		}

		payload, err := tokenService.VerifyToken(token)
		if err != nil {
			newErrorResponse(c, http.StatusUnauthorized, "Invalid token")
			return
		}

		c.Set(authPayloadKey, payload)
		c.Next()
	}
}
