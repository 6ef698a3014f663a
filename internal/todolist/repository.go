package todolist

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("todo list not found")

type ListRepository interface {
	Create(ctx context.Context, l *ToDoList) error
	GetByID(ctx context.Context, id, ownerID int64) (*ToDoList, error)
	ListWithCounts(ctx context.Context, ownerID int64) ([]Summary, error)
	Delete(ctx context.Context, id, ownerID int64) error
}

type postgresRepo struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) ListRepository {
	return &postgresRepo{db: db}
}

func (r *postgresRepo) Create(ctx context.Context, l *ToDoList) error {
	query := `
		INSERT INTO todo_lists (title, owner_id)
		VALUES ($1, $2)
		RETURNING id, created_at, updated_at
	`
	row := r.db.QueryRow(ctx, query, l.Title, l.OwnerID)

	return row.Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
}

func (r *postgresRepo) GetByID(ctx context.Context, id, ownerID int64) (*ToDoList, error) {
	query := `
		SELECT id, title, owner_id, created_at, updated_at
		FROM todo_lists
		WHERE id = $1 AND owner_id = $2
	`

	var l ToDoList
	err := r.db.QueryRow(ctx, query, id, ownerID).Scan(
		&l.ID,
		&l.Title,
		&l.OwnerID,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &l, nil
}

func (r *postgresRepo) ListWithCounts(ctx context.Context, ownerID int64) ([]Summary, error) {
	query := `
		SELECT
			l.id,
			l.title,
			l.owner_id,
			l.created_at,
			l.updated_at,
			COUNT(i.id) FILTER (WHERE NOT i.is_completed) AS incomplete
		FROM todo_lists l
		LEFT JOIN todo_items i ON i.todo_list_id = l.id
		WHERE l.owner_id = $1
		GROUP BY l.id
		ORDER BY l.title, l.id
	`

	rows, err := r.db.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(
			&s.ID,
			&s.Title,
			&s.OwnerID,
			&s.CreatedAt,
			&s.UpdatedAt,
			&s.Incomplete,
		); err != nil {
			return nil, err
		}

		lists = append(lists, s)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return lists, nil
}

// Delete removes the list; todo_items rows go with it via ON DELETE CASCADE.
func (r *postgresRepo) Delete(ctx context.Context, id, ownerID int64) error {
	query := `
		DELETE FROM todo_lists
		WHERE id = $1 AND owner_id = $2
	`

	cmdTag, err := r.db.Exec(ctx, query, id, ownerID)
	if err != nil {
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
