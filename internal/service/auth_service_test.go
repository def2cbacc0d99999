package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamgrid/collab-service/internal/domain"
	"github.com/teamgrid/collab-service/pkg/blacklist"
	"github.com/teamgrid/collab-service/pkg/jwt"
)

type fakeAccountRepo struct {
	accounts map[uuid.UUID]*domain.Account
	members  map[uuid.UUID][]*domain.Account
}

func (r *fakeAccountRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	return r.accounts[id], nil
}

func (r *fakeAccountRepo) ListWorkspaceMembers(ctx context.Context, workspaceID uuid.UUID) ([]*domain.Account, error) {
	return r.members[workspaceID], nil
}

func newTestTokenService(t *testing.T) *jwt.TokenService {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	privPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	pubDER, err := x509.MarshalPKIXPublicKey(&key.PublicKey)
	require.NoError(t, err)
	pubPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "PUBLIC KEY",
		Bytes: pubDER,
	})

	svc, err := jwt.NewTokenService(privPEM, pubPEM, 15*time.Minute, 24*time.Hour, "collab-service-test")
	require.NoError(t, err)
	return svc
}

func newTestBlacklist(t *testing.T) *blacklist.TokenBlacklist {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return blacklist.NewTokenBlacklist(client)
}

func TestRefreshTokenRotatesPair(t *testing.T) {
	account := &domain.Account{ID: uuid.New(), Email: "jun@teamgrid.dev", DisplayName: "Jun"}
	tokens := newTestTokenService(t)
	bl := newTestBlacklist(t)
	svc := NewAuthService(&fakeAccountRepo{accounts: map[uuid.UUID]*domain.Account{account.ID: account}}, tokens, bl)

	pair, err := tokens.GenerateTokenPair(account)
	require.NoError(t, err)

	newPair, err := svc.RefreshToken(context.Background(), pair.RefreshToken)
	require.NoError(t, err)
	require.NotEmpty(t, newPair.AccessToken)
	assert.NotEqual(t, pair.RefreshToken, newPair.RefreshToken)

	// The presented refresh token is single-use.
	_, err = svc.RefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	account := &domain.Account{ID: uuid.New()}
	tokens := newTestTokenService(t)
	svc := NewAuthService(&fakeAccountRepo{accounts: map[uuid.UUID]*domain.Account{account.ID: account}}, tokens, newTestBlacklist(t))

	pair, err := tokens.GenerateTokenPair(account)
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshTokenRejectsGarbage(t *testing.T) {
	svc := NewAuthService(&fakeAccountRepo{}, newTestTokenService(t), newTestBlacklist(t))

	_, err := svc.RefreshToken(context.Background(), "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestRefreshTokenUnknownAccount(t *testing.T) {
	account := &domain.Account{ID: uuid.New()}
	tokens := newTestTokenService(t)
	// Repo has no record of the account the claims point at.
	svc := NewAuthService(&fakeAccountRepo{accounts: map[uuid.UUID]*domain.Account{}}, tokens, newTestBlacklist(t))

	pair, err := tokens.GenerateTokenPair(account)
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestLogoutRevokesBothTokens(t *testing.T) {
	account := &domain.Account{ID: uuid.New()}
	tokens := newTestTokenService(t)
	bl := newTestBlacklist(t)
	svc := NewAuthService(&fakeAccountRepo{accounts: map[uuid.UUID]*domain.Account{account.ID: account}}, tokens, bl)

	pair, err := tokens.GenerateTokenPair(account)
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), pair.AccessToken, pair.RefreshToken))

	for _, tok := range []string{pair.AccessToken, pair.RefreshToken} {
		revoked, err := bl.IsBlacklisted(context.Background(), tok)
		require.NoError(t, err)
		assert.True(t, revoked)
	}

	_, err = svc.RefreshToken(context.Background(), pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestLogoutToleratesMalformedTokens(t *testing.T) {
	svc := NewAuthService(&fakeAccountRepo{}, newTestTokenService(t), newTestBlacklist(t))

	require.NoError(t, svc.Logout(context.Background(), "garbage", ""))
}
