package trivia

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/rs/zerolog"
)

// Service implements the trivia game operations over the injected stores.
// Each method is a single synchronous round trip per store it touches.
type Service struct {
	questions  QuestionStore
	categories CategoryStore
	users      UserStore
	pick       func(n int) int
	logger     zerolog.Logger
}

// ServiceOptions tunes service behavior.
type ServiceOptions struct {
	// Pick selects an index in [0, n) for the quiz draw. Defaults to
	// rand.Intn; tests inject a deterministic one.
	Pick func(n int) int
}

// NewService wires the trivia service with its stores.
func NewService(questions QuestionStore, categories CategoryStore, users UserStore, opts ServiceOptions, logger zerolog.Logger) *Service {
	pick := opts.Pick
	if pick == nil {
		pick = rand.Intn
	}
	return &Service{
		questions:  questions,
		categories: categories,
		users:      users,
		pick:       pick,
		logger:     logger.With().Str("component", "trivia_service").Logger(),
	}
}

// CategoryListing bundles all categories with the known users, as the
// category screen needs both.
type CategoryListing struct {
	Categories []Category
	Users      []User
}

// QuestionPage is one page of questions plus listing metadata. Total always
// counts every stored question, not just the filtered set.
type QuestionPage struct {
	Questions  []Question
	Total      int
	Categories []Category
}

// QuizRequest carries one quiz turn. CategoryID 0 means any category.
// UserID is nil when the client plays anonymously.
type QuizRequest struct {
	PreviousQuestions []int
	CategoryID        int
	UserID            *int
	Guess             int
}

// QuizResult is the outcome of one quiz turn. Question is nil when every
// eligible question has already been played.
type QuizResult struct {
	Question *Question
	Total    int
}

// ListCategories returns all categories and users. An empty category table
// reports ErrNotFound.
func (s *Service) ListCategories(ctx context.Context) (CategoryListing, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return CategoryListing{}, fmt.Errorf("%w: list categories: %v", ErrUnprocessable, err)
	}
	if len(categories) == 0 {
		return CategoryListing{}, fmt.Errorf("no categories: %w", ErrNotFound)
	}
	users, err := s.users.List(ctx)
	if err != nil {
		return CategoryListing{}, fmt.Errorf("%w: list users: %v", ErrUnprocessable, err)
	}
	return CategoryListing{Categories: categories, Users: users}, nil
}

// ListQuestions returns the requested page over all questions ordered by id.
// A page past the end of the listing reports ErrNotFound.
func (s *Service) ListQuestions(ctx context.Context, page int) (QuestionPage, error) {
	questions, err := s.questions.List(ctx)
	if err != nil {
		return QuestionPage{}, fmt.Errorf("%w: list questions: %v", ErrUnprocessable, err)
	}
	current := paginate(questions, page)
	if len(current) == 0 {
		return QuestionPage{}, fmt.Errorf("page %d is empty: %w", page, ErrNotFound)
	}
	return s.pageWithMetadata(ctx, current)
}

// DeleteQuestion removes the question and returns the refreshed listing page.
// A missing id reports ErrNotFound; a failed delete reports ErrUnprocessable.
func (s *Service) DeleteQuestion(ctx context.Context, id, page int) (QuestionPage, error) {
	if _, err := s.questions.Get(ctx, id); err != nil {
		return QuestionPage{}, fmt.Errorf("question %d: %w", id, err)
	}
	if err := s.questions.Delete(ctx, id); err != nil {
		return QuestionPage{}, fmt.Errorf("%w: delete question %d: %v", ErrUnprocessable, id, err)
	}
	s.logger.Info().Int("question_id", id).Msg("question deleted")

	questions, err := s.questions.List(ctx)
	if err != nil {
		return QuestionPage{}, fmt.Errorf("%w: list questions: %v", ErrUnprocessable, err)
	}
	return s.pageWithMetadata(ctx, paginate(questions, page))
}

// CreateQuestion inserts a question and returns it with its assigned id.
// Field contents are stored as given; presence is not validated.
func (s *Service) CreateQuestion(ctx context.Context, q Question) (Question, error) {
	created, err := s.questions.Insert(ctx, q)
	if err != nil {
		return Question{}, fmt.Errorf("%w: insert question: %v", ErrUnprocessable, err)
	}
	s.logger.Info().Int("question_id", created.ID).Msg("question created")
	return created, nil
}

// CreateCategory inserts a category and returns it with its assigned id.
func (s *Service) CreateCategory(ctx context.Context, categoryType string) (Category, error) {
	created, err := s.categories.Insert(ctx, categoryType)
	if err != nil {
		return Category{}, fmt.Errorf("%w: insert category: %v", ErrUnprocessable, err)
	}
	s.logger.Info().Int("category_id", created.ID).Msg("category created")
	return created, nil
}

// SearchQuestions returns every question whose text contains term,
// case-insensitively. An empty term reports ErrNotFound. Total counts all
// stored questions, not the matches.
func (s *Service) SearchQuestions(ctx context.Context, term string) ([]Question, int, error) {
	if term == "" {
		return nil, 0, fmt.Errorf("empty search term: %w", ErrNotFound)
	}
	matches, err := s.questions.Search(ctx, term)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: search questions: %v", ErrUnprocessable, err)
	}
	total, err := s.questions.Count(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: count questions: %v", ErrUnprocessable, err)
	}
	return matches, total, nil
}

// QuestionsByCategory returns the requested page over the category's
// questions. An unknown category or an empty page reports ErrNotFound.
func (s *Service) QuestionsByCategory(ctx context.Context, categoryID, page int) (QuestionPage, Category, error) {
	category, err := s.categories.Get(ctx, categoryID)
	if err != nil {
		return QuestionPage{}, Category{}, fmt.Errorf("category %d: %w", categoryID, err)
	}
	questions, err := s.questions.ListByCategory(ctx, categoryID)
	if err != nil {
		return QuestionPage{}, Category{}, fmt.Errorf("%w: list questions by category: %v", ErrUnprocessable, err)
	}
	current := paginate(questions, page)
	if len(current) == 0 {
		return QuestionPage{}, Category{}, fmt.Errorf("page %d is empty: %w", page, ErrNotFound)
	}
	result, err := s.pageWithMetadata(ctx, current)
	if err != nil {
		return QuestionPage{}, Category{}, err
	}
	return result, category, nil
}

// PlayQuiz picks one uniformly-random question outside the already-played
// set, restricted to the requested category unless CategoryID is 0. When a
// user is supplied, Guess is added to their score before selection and the
// new total is reported; the update happens even when no question remains.
func (s *Service) PlayQuiz(ctx context.Context, req QuizRequest) (QuizResult, error) {
	var result QuizResult

	if req.UserID != nil {
		total, err := s.users.AddScore(ctx, *req.UserID, req.Guess)
		if err != nil {
			return QuizResult{}, fmt.Errorf("add score for user %d: %w", *req.UserID, err)
		}
		result.Total = total
		s.logger.Debug().Int("user_id", *req.UserID).Int("score", total).Msg("score updated")
	}

	candidates, err := s.questions.ListCandidates(ctx, req.CategoryID, req.PreviousQuestions)
	if err != nil {
		return QuizResult{}, fmt.Errorf("list quiz candidates: %w", err)
	}
	if len(candidates) > 0 {
		picked := candidates[s.pick(len(candidates))]
		result.Question = &picked
	}
	return result, nil
}

// pageWithMetadata attaches the overall question count and category listing
// shared by the paginated envelopes.
func (s *Service) pageWithMetadata(ctx context.Context, current []Question) (QuestionPage, error) {
	total, err := s.questions.Count(ctx)
	if err != nil {
		return QuestionPage{}, fmt.Errorf("%w: count questions: %v", ErrUnprocessable, err)
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return QuestionPage{}, fmt.Errorf("%w: list categories: %v", ErrUnprocessable, err)
	}
	return QuestionPage{Questions: current, Total: total, Categories: categories}, nil
}
