package todoitem

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrNotFound = errors.New("todo item not found")

// checkRowsAffectedOne is used after UPDATE / DELETE to detect missing rows.
func checkRowsAffectedOne(cmdTag pgconn.CommandTag) error {
	if cmdTag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

type ItemRepository interface {
	Create(ctx context.Context, it *ToDoItem) error
	GetByID(ctx context.Context, id, ownerID int64) (*ToDoItem, error)
	ListByList(ctx context.Context, listID int64) ([]ToDoItem, error)
	Update(ctx context.Context, it *ToDoItem) error
	Delete(ctx context.Context, id, listID int64) error
}

type PostgresRepo struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) ItemRepository {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, it *ToDoItem) error {
	query := `
		INSERT INTO todo_items (
			todo_list_id,
			title,
			description,
			due_date,
			is_completed
		)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`

	return r.db.QueryRow(
		ctx,
		query,
		it.TodoListID,
		it.Title,
		it.Description,
		it.DueDate,
		it.IsCompleted,
	).Scan(
		&it.ID,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
}

// GetByID only finds items whose list belongs to ownerID.
func (r *PostgresRepo) GetByID(ctx context.Context, id, ownerID int64) (*ToDoItem, error) {
	query := `
		SELECT
			i.id,
			i.todo_list_id,
			i.title,
			i.description,
			i.due_date,
			i.is_completed,
			i.created_at,
			i.updated_at
		FROM todo_items i
		JOIN todo_lists l ON l.id = i.todo_list_id
		WHERE i.id = $1 AND l.owner_id = $2
	`

	var it ToDoItem
	err := r.db.QueryRow(ctx, query, id, ownerID).Scan(
		&it.ID,
		&it.TodoListID,
		&it.Title,
		&it.Description,
		&it.DueDate,
		&it.IsCompleted,
		&it.CreatedAt,
		&it.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return &it, nil
}

func (r *PostgresRepo) ListByList(ctx context.Context, listID int64) ([]ToDoItem, error) {
	query := `
		SELECT
			id,
			todo_list_id,
			title,
			description,
			due_date,
			is_completed,
			created_at,
			updated_at
		FROM todo_items
		WHERE todo_list_id = $1
		ORDER BY due_date NULLS LAST, id
	`

	rows, err := r.db.Query(ctx, query, listID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []ToDoItem
	for rows.Next() {
		var it ToDoItem
		if err := rows.Scan(
			&it.ID,
			&it.TodoListID,
			&it.Title,
			&it.Description,
			&it.DueDate,
			&it.IsCompleted,
			&it.CreatedAt,
			&it.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, it)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return items, nil
}

func (r *PostgresRepo) Update(ctx context.Context, it *ToDoItem) error {
	query := `
		UPDATE todo_items
		SET
			todo_list_id = $1,
			title = $2,
			description = $3,
			due_date = $4,
			is_completed = $5,
			updated_at = now()
		WHERE id = $6
		RETURNING updated_at
	`
	err := r.db.QueryRow(
		ctx,
		query,
		it.TodoListID,
		it.Title,
		it.Description,
		it.DueDate,
		it.IsCompleted,
		it.ID,
	).Scan(&it.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

func (r *PostgresRepo) Delete(ctx context.Context, id, listID int64) error {
	query := `
		DELETE FROM todo_items
		WHERE id = $1 AND todo_list_id = $2
	`

	cmdTag, err := r.db.Exec(ctx, query, id, listID)
	if err != nil {
		return err
	}

	return checkRowsAffectedOne(cmdTag)
}
