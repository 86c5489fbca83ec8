package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/trivialabs/trivia-api/internal/trivia"
)

// CategoryRepository implements trivia.CategoryStore over Postgres.
type CategoryRepository struct {
	db DBTX
}

// NewCategoryRepository wraps the connection pool for category access.
func NewCategoryRepository(db DBTX) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// List returns every category ordered by id.
func (r *CategoryRepository) List(ctx context.Context) ([]trivia.Category, error) {
	rows, err := r.db.Query(ctx, "SELECT id, type FROM categories ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	categories := []trivia.Category{}
	for rows.Next() {
		var c trivia.Category
		if err := rows.Scan(&c.ID, &c.Type); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// Get fetches one category by id, reporting trivia.ErrNotFound when absent.
func (r *CategoryRepository) Get(ctx context.Context, id int) (trivia.Category, error) {
	var c trivia.Category
	err := r.db.QueryRow(ctx, "SELECT id, type FROM categories WHERE id = $1", id).
		Scan(&c.ID, &c.Type)
	if errors.Is(err, pgx.ErrNoRows) {
		return trivia.Category{}, trivia.ErrNotFound
	}
	return c, err
}

// Insert stores a new category and returns it with its assigned id.
func (r *CategoryRepository) Insert(ctx context.Context, categoryType string) (trivia.Category, error) {
	c := trivia.Category{Type: categoryType}
	err := r.db.QueryRow(ctx, "INSERT INTO categories (type) VALUES ($1) RETURNING id", categoryType).
		Scan(&c.ID)
	if err != nil {
		return trivia.Category{}, err
	}
	return c, nil
}
