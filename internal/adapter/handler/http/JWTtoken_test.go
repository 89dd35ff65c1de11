package http

import (
	"testing"
	"time"

	"github.com/velogo/bike-rental-service/internal/core/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{}) {}
func (nopLogger) Info(string, map[string]interface{})  {}
func (nopLogger) Warn(string, map[string]interface{})  {}
func (nopLogger) Error(string, map[string]interface{}) {}

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func TestVerifyToken(t *testing.T) {
	svc := NewJWTTokenService(testSecret, nopLogger{})
	tokenID := uuid.New()

	signed := signToken(t, testSecret, jwt.MapClaims{
		"id":      tokenID.String(),
		"user_id": "7",
		"role":    "appuser",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})

	payload, err := svc.VerifyToken(signed)
	if err != nil {
		t.Fatalf("VerifyToken: %v", err)
	}
	if payload.ID != tokenID {
		t.Errorf("id = %s, want %s", payload.ID, tokenID)
	}
	if payload.UserID != "7" {
		t.Errorf("user_id = %q, want %q", payload.UserID, "7")
	}
	if payload.Role != domain.AppUser {
		t.Errorf("role = %q, want %q", payload.Role, domain.AppUser)
	}
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	svc := NewJWTTokenService(testSecret, nopLogger{})

	signed := signToken(t, "other-secret", jwt.MapClaims{
		"id":      uuid.New().String(),
		"user_id": "7",
		"role":    "appuser",
	})

	if _, err := svc.VerifyToken(signed); err == nil {
		t.Fatal("expected error for wrong signing secret")
	}
}

func TestVerifyTokenBadClaims(t *testing.T) {
	svc := NewJWTTokenService(testSecret, nopLogger{})

	cases := []struct {
		name   string
		claims jwt.MapClaims
	}{
		{"missing id", jwt.MapClaims{"user_id": "7", "role": "appuser"}},
		{"bad id", jwt.MapClaims{"id": "not-a-uuid", "user_id": "7", "role": "appuser"}},
		{"missing user_id", jwt.MapClaims{"id": uuid.New().String(), "role": "appuser"}},
		{"empty user_id", jwt.MapClaims{"id": uuid.New().String(), "user_id": "", "role": "appuser"}},
		{"unknown role", jwt.MapClaims{"id": uuid.New().String(), "user_id": "7", "role": "superuser"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			signed := signToken(t, testSecret, tc.claims)
			if _, err := svc.VerifyToken(signed); err == nil {
				t.Error("expected error")
			}
		})
	}
}
