package store

import (
	"context"

	"github.com/dimitrije/projectboard/internal/database"
	"github.com/dimitrije/projectboard/internal/models"
	"github.com/google/uuid"
)

const userColumns = `id, email, name, created_at, updated_at`

type UserStore struct {
	q database.Querier
}

func NewUserStore(q database.Querier) *UserStore {
	return &UserStore{q: q}
}

func (s *UserStore) With(q database.Querier) *UserStore {
	return &UserStore{q: q}
}

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *UserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return scanUser(s.q.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE id = $1
	`, id))
}

func (s *UserStore) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return scanUser(s.q.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users WHERE email = $1
	`, email))
}

// Create inserts a profile under an existing account id.
func (s *UserStore) Create(ctx context.Context, id uuid.UUID, email, name string) (*models.User, error) {
	return scanUser(s.q.QueryRow(ctx, `
		INSERT INTO users (id, email, name)
		VALUES ($1, $2, $3)
		RETURNING `+userColumns+`
	`, id, email, name))
}

func (s *UserStore) UpdateName(ctx context.Context, id uuid.UUID, name string) (*models.User, error) {
	return scanUser(s.q.QueryRow(ctx, `
		UPDATE users SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userColumns+`
	`, name, id))
}

type AccountStore struct {
	q database.Querier
}

func NewAccountStore(q database.Querier) *AccountStore {
	return &AccountStore{q: q}
}

func (s *AccountStore) Create(ctx context.Context, email, passwordHash string) (*models.Account, error) {
	var a models.Account
	err := s.q.QueryRow(ctx, `
		INSERT INTO accounts (email, password_hash)
		VALUES ($1, $2)
		RETURNING id, email, password_hash, created_at
	`, email, passwordHash).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *AccountStore) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	err := s.q.QueryRow(ctx, `
		SELECT id, email, password_hash, created_at
		FROM accounts WHERE email = $1
	`, email).Scan(&a.ID, &a.Email, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// UpdatePasswordHash replaces the hash of the account with email and returns
// its id. A missing account yields pgx.ErrNoRows.
func (s *AccountStore) UpdatePasswordHash(ctx context.Context, email, passwordHash string) (uuid.UUID, error) {
	var id uuid.UUID
	err := s.q.QueryRow(ctx, `
		UPDATE accounts SET password_hash = $1
		WHERE email = $2
		RETURNING id
	`, passwordHash, email).Scan(&id)
	return id, err
}
