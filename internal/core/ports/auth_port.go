package ports

import "github.com/velogo/bike-rental-service/internal/core/domain"

type TokenService interface {
	VerifyToken(token string) (*domain.TokenPayload, error)
}
