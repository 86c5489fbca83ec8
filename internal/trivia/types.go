package trivia

import "context"

// Question is a single trivia question as stored and served.
type Question struct {
	ID         int    `json:"id"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	Category   int    `json:"category"`
	Difficulty int    `json:"difficulty"`
	Rating     int    `json:"rating"`
}

// Category labels a group of questions. Question.Category references
// Category.ID by convention only; the store does not enforce it.
type Category struct {
	ID   int    `json:"id"`
	Type string `json:"type"`
}

// User tracks a cumulative quiz score. Users are pre-seeded; the API never
// creates or deletes them.
type User struct {
	ID    int `json:"id"`
	Score int `json:"score"`
}

// QuestionStore is the persistence surface the service needs for questions.
// Listings are ordered by id ascending.
type QuestionStore interface {
	List(ctx context.Context) ([]Question, error)
	ListByCategory(ctx context.Context, categoryID int) ([]Question, error)
	// ListCandidates returns questions outside the excluded id set,
	// restricted to categoryID unless categoryID is 0.
	ListCandidates(ctx context.Context, categoryID int, exclude []int) ([]Question, error)
	Search(ctx context.Context, term string) ([]Question, error)
	Get(ctx context.Context, id int) (Question, error)
	Insert(ctx context.Context, q Question) (Question, error)
	Delete(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

// CategoryStore is the persistence surface for categories.
type CategoryStore interface {
	List(ctx context.Context) ([]Category, error)
	Get(ctx context.Context, id int) (Category, error)
	Insert(ctx context.Context, categoryType string) (Category, error)
}

// UserStore is the persistence surface for users.
type UserStore interface {
	List(ctx context.Context) ([]User, error)
	// AddScore atomically adds delta to the user's score and returns the
	// new total.
	AddScore(ctx context.Context, id, delta int) (int, error)
}
