package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/aptisure/aptisure-api/internal/auth"
)

const userColumns = "user_id, google_id, email, password_hash, name, avatar, is_admin, created_at, last_login_at"

// UserRepository provides Postgres access to user accounts.
type UserRepository struct {
	db DBTX
}

var _ auth.UserStore = (*UserRepository)(nil)

func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new account. Counters start at zero.
func (r *UserRepository) Create(ctx context.Context, u auth.User) (auth.User, error) {
	id := uuid.New()
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (user_id, google_id, email, password_hash, name, avatar)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+userColumns,
		id, u.GoogleID, u.Email, u.PasswordHash, u.Name, u.Avatar)

	created, err := scanUser(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return auth.User{}, auth.ErrEmailTaken
		}
		return auth.User{}, fmt.Errorf("create user: %w", err)
	}
	return created, nil
}

// GetByEmail fetches a user by email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (auth.User, error) {
	row := r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE email = $1", email)
	return r.scanOne(row, "get user by email")
}

// GetByID fetches a user by id.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (auth.User, error) {
	row := r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE user_id = $1", id)
	return r.scanOne(row, "get user by id")
}

// UpsertGoogleUser creates or refreshes an account from OAuth profile data.
// An existing email/password account with the same address is linked to the
// Google identity rather than duplicated.
func (r *UserRepository) UpsertGoogleUser(ctx context.Context, googleID, email, name, avatar string) (auth.User, error) {
	row := r.db.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE google_id = $1", googleID)
	if existing, err := scanUser(row); err == nil {
		_, err = r.db.Exec(ctx,
			"UPDATE users SET name = $2, avatar = $3 WHERE user_id = $1",
			existing.ID, name, avatar)
		if err != nil {
			return auth.User{}, fmt.Errorf("refresh oauth profile: %w", err)
		}
		existing.Name = name
		existing.Avatar = &avatar
		return existing, nil
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return auth.User{}, fmt.Errorf("get user by google id: %w", err)
	}

	if existing, err := r.GetByEmail(ctx, email); err == nil {
		row := r.db.QueryRow(ctx, `
			UPDATE users SET google_id = $2, name = $3, avatar = $4
			WHERE user_id = $1
			RETURNING `+userColumns,
			existing.ID, googleID, name, avatar)
		return r.scanOne(row, "link oauth identity")
	} else if !errors.Is(err, auth.ErrUserNotFound) {
		return auth.User{}, err
	}

	return r.Create(ctx, auth.User{
		GoogleID: &googleID,
		Email:    email,
		Name:     name,
		Avatar:   &avatar,
	})
}

// UpdateLastLogin records the last login timestamp.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, "UPDATE users SET last_login_at = now() WHERE user_id = $1", id)
	if err != nil {
		return fmt.Errorf("update last login: %w", err)
	}
	return nil
}

func (r *UserRepository) scanOne(row pgx.Row, op string) (auth.User, error) {
	u, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.User{}, auth.ErrUserNotFound
		}
		return auth.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func scanUser(row pgx.Row) (auth.User, error) {
	var u auth.User
	err := row.Scan(
		&u.ID,
		&u.GoogleID,
		&u.Email,
		&u.PasswordHash,
		&u.Name,
		&u.Avatar,
		&u.IsAdmin,
		&u.CreatedAt,
		&u.LastLoginAt,
	)
	return u, err
}
