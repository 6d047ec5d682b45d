package utils

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"weblog/config"
)

// Claims defines the JWT claims carried by a session token.
type Claims struct {
	UserID uint   `json:"user_id"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// TokenManager signs and validates session tokens. It is constructed once
// at boot and handed to the components that need it.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager derives a TokenManager from the application config.
func NewTokenManager(cfg *config.AppConfig) *TokenManager {
	return &TokenManager{
		secret: []byte(cfg.JWTSecret),
		ttl:    time.Duration(cfg.SessionHours) * time.Hour,
	}
}

// TTL reports the configured session lifetime.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Generate issues an HS256 token identifying the user.
func (tm *TokenManager) Generate(userID uint, email string) (string, error) {
	claims := Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(tm.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(tm.secret)
}

// Parse validates a token string and returns its claims.
func (tm *TokenManager) Parse(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
