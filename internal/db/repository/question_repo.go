package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/trivialabs/trivia-api/internal/trivia"
)

const questionColumns = "id, question, answer, category, difficulty, rating"

// QuestionRepository implements trivia.QuestionStore over Postgres.
type QuestionRepository struct {
	db DBTX
}

// NewQuestionRepository wraps the connection pool for question access.
func NewQuestionRepository(db DBTX) *QuestionRepository {
	return &QuestionRepository{db: db}
}

// List returns every question ordered by id.
func (r *QuestionRepository) List(ctx context.Context) ([]trivia.Question, error) {
	rows, err := r.db.Query(ctx, "SELECT "+questionColumns+" FROM questions ORDER BY id")
	if err != nil {
		return nil, err
	}
	return collectQuestions(rows)
}

// ListByCategory returns the category's questions ordered by id.
func (r *QuestionRepository) ListByCategory(ctx context.Context, categoryID int) ([]trivia.Question, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE category = $1 ORDER BY id", categoryID)
	if err != nil {
		return nil, err
	}
	return collectQuestions(rows)
}

// ListCandidates returns questions outside the excluded id set, restricted
// to categoryID unless it is 0.
func (r *QuestionRepository) ListCandidates(ctx context.Context, categoryID int, exclude []int) ([]trivia.Question, error) {
	if exclude == nil {
		exclude = []int{}
	}
	rows, err := r.db.Query(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE ($1 = 0 OR category = $1) AND id <> ALL($2) ORDER BY id",
		categoryID, exclude)
	if err != nil {
		return nil, err
	}
	return collectQuestions(rows)
}

// Search returns questions whose text contains term, case-insensitively.
func (r *QuestionRepository) Search(ctx context.Context, term string) ([]trivia.Question, error) {
	rows, err := r.db.Query(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE question ILIKE '%' || $1 || '%' ORDER BY id", term)
	if err != nil {
		return nil, err
	}
	return collectQuestions(rows)
}

// Get fetches one question by id, reporting trivia.ErrNotFound when absent.
func (r *QuestionRepository) Get(ctx context.Context, id int) (trivia.Question, error) {
	var q trivia.Question
	err := r.db.QueryRow(ctx,
		"SELECT "+questionColumns+" FROM questions WHERE id = $1", id).
		Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty, &q.Rating)
	if errors.Is(err, pgx.ErrNoRows) {
		return trivia.Question{}, trivia.ErrNotFound
	}
	return q, err
}

// Insert stores a new question and returns it with its assigned id.
func (r *QuestionRepository) Insert(ctx context.Context, q trivia.Question) (trivia.Question, error) {
	err := r.db.QueryRow(ctx,
		"INSERT INTO questions (question, answer, category, difficulty, rating) VALUES ($1, $2, $3, $4, $5) RETURNING id",
		q.Question, q.Answer, q.Category, q.Difficulty, q.Rating).Scan(&q.ID)
	if err != nil {
		return trivia.Question{}, err
	}
	return q, nil
}

// Delete removes a question by id.
func (r *QuestionRepository) Delete(ctx context.Context, id int) error {
	_, err := r.db.Exec(ctx, "DELETE FROM questions WHERE id = $1", id)
	return err
}

// Count returns the number of stored questions.
func (r *QuestionRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, "SELECT count(*) FROM questions").Scan(&count)
	return count, err
}

func collectQuestions(rows pgx.Rows) ([]trivia.Question, error) {
	defer rows.Close()
	questions := []trivia.Question{}
	for rows.Next() {
		var q trivia.Question
		if err := rows.Scan(&q.ID, &q.Question, &q.Answer, &q.Category, &q.Difficulty, &q.Rating); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
