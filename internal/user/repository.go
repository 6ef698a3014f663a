package user

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("user not found")

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByUsername(ctx context.Context, username string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
}

type repo struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) UserRepository {
	return &repo{db: db}
}

func (r *repo) Create(ctx context.Context, u *User) error {
	query := `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	row := r.db.QueryRow(ctx, query, u.Username, u.Password)
	err := row.Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)

	// 23505 = unique_violation on users_username_lower_idx
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrUsernameTaken
	}
	return err
}

func (r *repo) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `
		SELECT id, username, password, created_at, updated_at
		FROM users
		WHERE LOWER(username) = LOWER($1)
		LIMIT 1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, username))
}

func (r *repo) FindByID(ctx context.Context, id int64) (*User, error) {
	query := `
		SELECT id, username, password, created_at, updated_at
		FROM users
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRow(ctx, query, id))
}

func (r *repo) scanOne(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &u, nil
}
