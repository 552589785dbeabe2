package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dimitrije/projectboard/internal/database"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/dimitrije/projectboard/internal/store"
	"github.com/google/uuid"
)

var ErrInvalidRefreshToken = errors.New("refresh token not found or expired")

// TokenService issues token pairs and keeps the hashes of live refresh tokens
// in refresh_tokens, so a refresh token can be used once and revoked.
type TokenService struct {
	db    *database.DB
	jwt   *JWTService
	users *store.UserStore
}

func NewTokenService(db *database.DB, jwtService *JWTService) *TokenService {
	return &TokenService{
		db:    db,
		jwt:   jwtService,
		users: store.NewUserStore(db.Pool),
	}
}

func (s *TokenService) Issue(ctx context.Context, user *models.User) (*TokenPair, error) {
	pair, err := s.jwt.GenerateTokenPair(user)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Now().Add(s.jwt.RefreshExpiry())
	if err := s.StoreRefreshToken(ctx, user.ID, HashToken(pair.RefreshToken), expiresAt); err != nil {
		return nil, remote("store refresh token", err)
	}
	return pair, nil
}

// Rotate exchanges a live refresh token for a new pair. The old token is
// deleted before the new pair is issued, so of two concurrent rotations with
// the same token only one succeeds.
func (s *TokenService) Rotate(ctx context.Context, refreshToken string) (*models.User, *TokenPair, error) {
	userID, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}

	storedUserID, err := s.ConsumeRefreshToken(ctx, HashToken(refreshToken))
	if err != nil {
		if store.IsNotFound(err) {
			return nil, nil, ErrInvalidRefreshToken
		}
		return nil, nil, remote("consume refresh token", err)
	}
	if storedUserID != userID {
		return nil, nil, ErrInvalidRefreshToken
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, lookup("get profile", err)
	}

	pair, err := s.Issue(ctx, user)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

func (s *TokenService) StoreRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := s.db.Pool.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token_hash, expires_at)
		VALUES ($1, $2, $3)
	`, userID, tokenHash, expiresAt)
	return err
}

// ConsumeRefreshToken deletes a live refresh token and returns its owner.
// A missing, expired or already consumed token yields pgx.ErrNoRows.
func (s *TokenService) ConsumeRefreshToken(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	var userID uuid.UUID
	err := s.db.Pool.QueryRow(ctx, `
		DELETE FROM refresh_tokens
		WHERE token_hash = $1 AND expires_at > NOW()
		RETURNING user_id
	`, tokenHash).Scan(&userID)
	return userID, err
}

func (s *TokenService) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE token_hash = $1`, tokenHash)
	return err
}

func (s *TokenService) RevokeAllUserTokens(ctx context.Context, userID uuid.UUID) error {
	_, err := s.db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE user_id = $1`, userID)
	return err
}

// CleanupExpired deletes expired refresh tokens and returns how many went.
func (s *TokenService) CleanupExpired(ctx context.Context) (int64, error) {
	tag, err := s.db.Pool.Exec(ctx, `DELETE FROM refresh_tokens WHERE expires_at < NOW()`)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
