package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"solarline/solar-portal-backend/pkg/workflow"
)

// Claims is the JWT payload: user id in the subject, role as a custom
// claim.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// NewToken issues a signed token for the actor.
func NewToken(secret string, ttl time.Duration, actor Actor) (string, error) {
	now := time.Now()
	claims := Claims{
		Role: string(actor.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   actor.ID.Hex(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// ParseToken verifies the token and extracts the actor.
func ParseToken(secret, raw string) (Actor, error) {
	var claims Claims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return Actor{}, err
	}
	if !token.Valid {
		return Actor{}, fmt.Errorf("invalid token")
	}

	id, err := primitive.ObjectIDFromHex(claims.Subject)
	if err != nil {
		return Actor{}, fmt.Errorf("invalid subject: %w", err)
	}
	role := workflow.Role(claims.Role)
	if !workflow.ValidRole(role) {
		return Actor{}, fmt.Errorf("unknown role %q", claims.Role)
	}

	return Actor{ID: id, Role: role}, nil
}
