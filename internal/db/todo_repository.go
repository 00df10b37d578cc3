package db

import (
	"context"
	"database/sql"

	"github.com/chepyr/go-todo-list/internal/models"
	"github.com/pkg/errors"
)

var ErrTodoNotFound = errors.New("todo not found")

// defines methods for todo storage, implemented by every backend
type TodoRepositoryInterface interface {
	List(ctx context.Context) ([]*models.Todo, error)
	Create(ctx context.Context, task string) (*models.Todo, error)
	Delete(ctx context.Context, id int64) error
}

// Dialect doubles as the database/sql driver name.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite3"
	DialectPostgres Dialect = "postgres"
)

var schemas = map[Dialect]string{
	DialectSQLite: `CREATE TABLE IF NOT EXISTS todos (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		task TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	DialectPostgres: `CREATE TABLE IF NOT EXISTS todos (
		id SERIAL PRIMARY KEY,
		task TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

type TodoRepository struct {
	db      *sql.DB
	dialect Dialect
}

func NewTodoRepository(db *sql.DB, dialect Dialect) *TodoRepository {
	return &TodoRepository{db: db, dialect: dialect}
}

func (r *TodoRepository) EnsureSchema(ctx context.Context) error {
	ddl, ok := schemas[r.dialect]
	if !ok {
		return errors.Errorf("no schema for dialect %q", r.dialect)
	}
	_, err := r.db.ExecContext(ctx, ddl)
	return errors.Wrap(err, "create todos table")
}

func (r *TodoRepository) List(ctx context.Context) ([]*models.Todo, error) {
	query := `SELECT id, task, created_at FROM todos ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "list todos")
	}
	defer rows.Close()

	todos := make([]*models.Todo, 0)
	for rows.Next() {
		todo := &models.Todo{}
		if err := rows.Scan(&todo.ID, &todo.Task, &todo.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "scan todo")
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "list todos")
	}
	return todos, nil
}

// Create stores task as given; callers trim and validate it first.
func (r *TodoRepository) Create(ctx context.Context, task string) (*models.Todo, error) {
	var id int64
	query := `INSERT INTO todos (task) VALUES ($1) RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, task).Scan(&id); err != nil {
		return nil, errors.Wrap(err, "insert todo")
	}
	return r.GetByID(ctx, id)
}

func (r *TodoRepository) GetByID(ctx context.Context, id int64) (*models.Todo, error) {
	query := `SELECT id, task, created_at FROM todos WHERE id = $1`
	todo := &models.Todo{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&todo.ID, &todo.Task, &todo.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrTodoNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "get todo %d", id)
	}
	return todo, nil
}

func (r *TodoRepository) Delete(ctx context.Context, id int64) error {
	query := `DELETE FROM todos WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return errors.Wrapf(err, "delete todo %d", id)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "rows affected")
	}
	if affected == 0 {
		return ErrTodoNotFound
	}
	return nil
}
