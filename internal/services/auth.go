package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dimitrije/projectboard/internal/database"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/dimitrije/projectboard/internal/store"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const MinPasswordLength = 6

// AuthService verifies email and password credentials. Token issuance stays
// with JWTService and TokenService.
type AuthService struct {
	db       *database.DB
	accounts *store.AccountStore
	users    *store.UserStore
	profiles *ProfileService
	cost     int
	logger   *slog.Logger
}

func NewAuthService(db *database.DB, profiles *ProfileService, bcryptCost int, logger *slog.Logger) *AuthService {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = bcrypt.DefaultCost
	}
	return &AuthService{
		db:       db,
		accounts: store.NewAccountStore(db.Pool),
		users:    store.NewUserStore(db.Pool),
		profiles: profiles,
		cost:     bcryptCost,
		logger:   logger,
	}
}

// Register creates an account and its profile together.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	email = strings.TrimSpace(email)
	if !strings.Contains(email, "@") {
		return nil, invalid("email", "is not a valid address")
	}
	if len(password) < MinPasswordLength {
		return nil, invalid("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
	if name == "" {
		name = emailLocalPart(email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	var user *models.User
	err = s.db.WithTx(ctx, func(tx pgx.Tx) error {
		account, err := store.NewAccountStore(tx).Create(ctx, email, string(hash))
		if err != nil {
			if store.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return remote("create account", err)
		}

		user, err = s.users.With(tx).Create(ctx, account.ID, account.Email, name)
		if err != nil {
			if store.IsUniqueViolation(err) {
				return ErrEmailTaken
			}
			return fmt.Errorf("%w: %w", ErrProfileCreation, err)
		}
		return nil
	})
	if err != nil {
		return nil, txErr("register", err)
	}

	s.logger.Info("account registered", slog.String("user_id", user.ID.String()))
	return user, nil
}

// Login checks the credentials and returns the profile, creating it when the
// account has none yet.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, error) {
	account, err := s.accounts.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if store.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, remote("get account", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}

	return s.profiles.Bootstrap(ctx, Identity{ID: account.ID, Email: account.Email})
}

// SetPassword replaces the password of the account with email and returns the
// account id. Existing sessions are left to the caller to revoke.
func (s *AuthService) SetPassword(ctx context.Context, email, password string) (uuid.UUID, error) {
	if len(password) < MinPasswordLength {
		return uuid.Nil, invalid("password", fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to hash password: %w", err)
	}

	id, err := s.accounts.UpdatePasswordHash(ctx, strings.TrimSpace(email), string(hash))
	if err != nil {
		return uuid.Nil, lookup("update password", err)
	}

	s.logger.Info("password changed", slog.String("user_id", id.String()))
	return id, nil
}
