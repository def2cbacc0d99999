package domain

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// TokenTypeAccess authorizes API requests, socket handshakes and push streams.
	TokenTypeAccess = "access"
	// TokenTypeRefresh is only accepted by the explicit refresh flow.
	TokenTypeRefresh = "refresh"
)

type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	TokenType    string    `json:"token_type"`
}

type Claims struct {
	jwt.RegisteredClaims
	AccountID   uuid.UUID `json:"uid"`
	Email       string    `json:"email"`
	DisplayName string    `json:"name,omitempty"`
	Roles       []string  `json:"roles,omitempty"`
	TokenType   string    `json:"type"`
}
