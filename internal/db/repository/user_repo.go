package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/trivialabs/trivia-api/internal/trivia"
)

// UserRepository implements trivia.UserStore over Postgres.
type UserRepository struct {
	db DBTX
}

// NewUserRepository wraps the connection pool for user access.
func NewUserRepository(db DBTX) *UserRepository {
	return &UserRepository{db: db}
}

// List returns every user ordered by id.
func (r *UserRepository) List(ctx context.Context) ([]trivia.User, error) {
	rows, err := r.db.Query(ctx, "SELECT id, score FROM users ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	users := []trivia.User{}
	for rows.Next() {
		var u trivia.User
		if err := rows.Scan(&u.ID, &u.Score); err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// AddScore adds delta to the user's score in a single statement, so
// concurrent quiz turns for one user never lose an increment. Reports
// trivia.ErrNotFound for an unknown user.
func (r *UserRepository) AddScore(ctx context.Context, id, delta int) (int, error) {
	var score int
	err := r.db.QueryRow(ctx,
		"UPDATE users SET score = score + $2 WHERE id = $1 RETURNING score", id, delta).
		Scan(&score)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, trivia.ErrNotFound
	}
	return score, err
}
