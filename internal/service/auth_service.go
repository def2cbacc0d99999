package service

import (
	"context"
	"errors"
	"log"

	"github.com/teamgrid/collab-service/internal/domain"
	"github.com/teamgrid/collab-service/internal/repository"
	"github.com/teamgrid/collab-service/pkg/blacklist"
	"github.com/teamgrid/collab-service/pkg/jwt"
)

// Custom errors
var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrTokenRevoked        = errors.New("token has been revoked")
	ErrAccountNotFound     = errors.New("account not found")
)

// AuthService owns the token refresh and revocation flows. Identity
// management (passwords, registration) lives in the external identity layer;
// this service only mints replacement pairs and feeds the revocation set.
type AuthService struct {
	accountRepo    repository.AccountRepository
	tokenService   *jwt.TokenService
	tokenBlacklist *blacklist.TokenBlacklist
}

func NewAuthService(
	accountRepo repository.AccountRepository,
	tokenService *jwt.TokenService,
	tokenBlacklist *blacklist.TokenBlacklist,
) *AuthService {
	return &AuthService{
		accountRepo:    accountRepo,
		tokenService:   tokenService,
		tokenBlacklist: tokenBlacklist,
	}
}

// RefreshToken exchanges a valid, non-revoked refresh token for a new pair.
// This is the only place a refresh-typed token is accepted. The presented
// token is revoked for its remaining lifetime so each refresh token is
// usable once.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*domain.TokenPair, error) {
	claims, err := s.tokenService.ValidateToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}

	if claims.TokenType != domain.TokenTypeRefresh {
		return nil, ErrInvalidRefreshToken
	}

	revoked, err := s.tokenBlacklist.IsBlacklisted(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrTokenRevoked
	}

	account, err := s.accountRepo.GetByID(ctx, claims.AccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrAccountNotFound
	}

	tokenPair, err := s.tokenService.GenerateTokenPair(account)
	if err != nil {
		return nil, err
	}

	// Rotate: the old refresh token stays rejected until it would have expired.
	if claims.ExpiresAt != nil {
		if err := s.tokenBlacklist.AddToken(ctx, refreshToken, claims.ExpiresAt.Time); err != nil {
			log.Printf("[AUTH_SERVICE] Failed to revoke rotated refresh token: %v", err)
		}
	}

	return tokenPair, nil
}

// Logout revokes both presented tokens, each with TTL equal to its remaining
// validity. Expired or malformed tokens are skipped; there is nothing left
// to revoke.
func (s *AuthService) Logout(ctx context.Context, accessToken, refreshToken string) error {
	for _, token := range []string{accessToken, refreshToken} {
		if token == "" {
			continue
		}
		claims, err := s.tokenService.ValidateToken(token)
		if err != nil || claims.ExpiresAt == nil {
			continue
		}
		if err := s.tokenBlacklist.AddToken(ctx, token, claims.ExpiresAt.Time); err != nil {
			return err
		}
	}
	return nil
}
