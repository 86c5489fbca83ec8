package trivia

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memQuestionStore struct {
	questions []Question
	nextID    int
	err       error
}

func newMemQuestionStore(questions ...Question) *memQuestionStore {
	nextID := 1
	for _, q := range questions {
		if q.ID >= nextID {
			nextID = q.ID + 1
		}
	}
	return &memQuestionStore{questions: questions, nextID: nextID}
}

func (s *memQuestionStore) List(context.Context) ([]Question, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]Question{}, s.questions...), nil
}

func (s *memQuestionStore) ListByCategory(_ context.Context, categoryID int) ([]Question, error) {
	if s.err != nil {
		return nil, s.err
	}
	matched := []Question{}
	for _, q := range s.questions {
		if q.Category == categoryID {
			matched = append(matched, q)
		}
	}
	return matched, nil
}

func (s *memQuestionStore) ListCandidates(_ context.Context, categoryID int, exclude []int) ([]Question, error) {
	if s.err != nil {
		return nil, s.err
	}
	excluded := make(map[int]bool, len(exclude))
	for _, id := range exclude {
		excluded[id] = true
	}
	candidates := []Question{}
	for _, q := range s.questions {
		if excluded[q.ID] {
			continue
		}
		if categoryID != 0 && q.Category != categoryID {
			continue
		}
		candidates = append(candidates, q)
	}
	return candidates, nil
}

func (s *memQuestionStore) Search(_ context.Context, term string) ([]Question, error) {
	if s.err != nil {
		return nil, s.err
	}
	matched := []Question{}
	for _, q := range s.questions {
		if strings.Contains(strings.ToLower(q.Question), strings.ToLower(term)) {
			matched = append(matched, q)
		}
	}
	return matched, nil
}

func (s *memQuestionStore) Get(_ context.Context, id int) (Question, error) {
	if s.err != nil {
		return Question{}, s.err
	}
	for _, q := range s.questions {
		if q.ID == id {
			return q, nil
		}
	}
	return Question{}, ErrNotFound
}

func (s *memQuestionStore) Insert(_ context.Context, q Question) (Question, error) {
	if s.err != nil {
		return Question{}, s.err
	}
	q.ID = s.nextID
	s.nextID++
	s.questions = append(s.questions, q)
	return q, nil
}

func (s *memQuestionStore) Delete(_ context.Context, id int) error {
	if s.err != nil {
		return s.err
	}
	for i, q := range s.questions {
		if q.ID == id {
			s.questions = append(s.questions[:i], s.questions[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *memQuestionStore) Count(context.Context) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	return len(s.questions), nil
}

type memCategoryStore struct {
	categories []Category
	nextID     int
}

func newMemCategoryStore(categories ...Category) *memCategoryStore {
	nextID := 1
	for _, c := range categories {
		if c.ID >= nextID {
			nextID = c.ID + 1
		}
	}
	return &memCategoryStore{categories: categories, nextID: nextID}
}

func (s *memCategoryStore) List(context.Context) ([]Category, error) {
	return append([]Category{}, s.categories...), nil
}

func (s *memCategoryStore) Get(_ context.Context, id int) (Category, error) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return Category{}, ErrNotFound
}

func (s *memCategoryStore) Insert(_ context.Context, categoryType string) (Category, error) {
	c := Category{ID: s.nextID, Type: categoryType}
	s.nextID++
	s.categories = append(s.categories, c)
	return c, nil
}

type memUserStore struct {
	users []User
}

func (s *memUserStore) List(context.Context) ([]User, error) {
	return append([]User{}, s.users...), nil
}

func (s *memUserStore) AddScore(_ context.Context, id, delta int) (int, error) {
	for i := range s.users {
		if s.users[i].ID == id {
			s.users[i].Score += delta
			return s.users[i].Score, nil
		}
	}
	return 0, ErrNotFound
}

func newTestService(questions *memQuestionStore, categories *memCategoryStore, users *memUserStore, pick func(int) int) *Service {
	if categories == nil {
		categories = newMemCategoryStore(Category{ID: 1, Type: "Science"})
	}
	if users == nil {
		users = &memUserStore{}
	}
	return NewService(questions, categories, users, ServiceOptions{Pick: pick}, zerolog.Nop())
}

func questionFixture(id, category int) Question {
	return Question{
		ID:         id,
		Question:   "Question?",
		Answer:     "Answer",
		Category:   category,
		Difficulty: 1,
		Rating:     3,
	}
}

func TestListCategoriesEmptyReportsNotFound(t *testing.T) {
	svc := newTestService(newMemQuestionStore(), newMemCategoryStore(), &memUserStore{}, nil)

	_, err := svc.ListCategories(context.Background())

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestListCategoriesIncludesUsers(t *testing.T) {
	categories := newMemCategoryStore(Category{ID: 1, Type: "Science"}, Category{ID: 2, Type: "Art"})
	users := &memUserStore{users: []User{{ID: 1, Score: 12}}}
	svc := newTestService(newMemQuestionStore(), categories, users, nil)

	listing, err := svc.ListCategories(context.Background())

	require.NoError(t, err)
	assert.Len(t, listing.Categories, 2)
	assert.Equal(t, []User{{ID: 1, Score: 12}}, listing.Users)
}

func TestListQuestionsPaginates(t *testing.T) {
	questions := make([]Question, 0, 15)
	for i := 1; i <= 15; i++ {
		questions = append(questions, questionFixture(i, 1))
	}
	svc := newTestService(newMemQuestionStore(questions...), nil, nil, nil)

	page, err := svc.ListQuestions(context.Background(), 2)

	require.NoError(t, err)
	assert.Len(t, page.Questions, 5)
	assert.Equal(t, 11, page.Questions[0].ID)
	assert.Equal(t, 15, page.Total)
}

func TestListQuestionsPageBeyondRange(t *testing.T) {
	svc := newTestService(newMemQuestionStore(questionFixture(1, 1)), nil, nil, nil)

	_, err := svc.ListQuestions(context.Background(), 5)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteQuestionMissingReportsNotFound(t *testing.T) {
	svc := newTestService(newMemQuestionStore(questionFixture(1, 1)), nil, nil, nil)

	_, err := svc.DeleteQuestion(context.Background(), 99, 1)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteQuestionRemovesFromListing(t *testing.T) {
	store := newMemQuestionStore(questionFixture(1, 1), questionFixture(2, 1))
	svc := newTestService(store, nil, nil, nil)

	page, err := svc.DeleteQuestion(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.Equal(t, 1, page.Total)
	require.Len(t, page.Questions, 1)
	assert.Equal(t, 2, page.Questions[0].ID)
}

func TestCreateQuestionAssignsID(t *testing.T) {
	store := newMemQuestionStore()
	svc := newTestService(store, nil, nil, nil)

	created, err := svc.CreateQuestion(context.Background(), Question{Question: "Q?", Answer: "A"})

	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
}

func TestCreateQuestionStoreFailureReportsUnprocessable(t *testing.T) {
	store := newMemQuestionStore()
	store.err = errors.New("db down")
	svc := newTestService(store, nil, nil, nil)

	_, err := svc.CreateQuestion(context.Background(), Question{})

	assert.ErrorIs(t, err, ErrUnprocessable)
}

func TestSearchEmptyTermReportsNotFound(t *testing.T) {
	svc := newTestService(newMemQuestionStore(questionFixture(1, 1)), nil, nil, nil)

	_, _, err := svc.SearchQuestions(context.Background(), "")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSearchMatchesCaseInsensitively(t *testing.T) {
	store := newMemQuestionStore(
		Question{ID: 1, Question: "What was the title of the 1990 fantasy?", Category: 1},
		Question{ID: 2, Question: "Whose autobiography is entitled I Know Why the Caged Bird Sings?", Category: 1},
		Question{ID: 3, Question: "Who discovered penicillin?", Category: 1},
	)
	svc := newTestService(store, nil, nil, nil)

	matches, total, err := svc.SearchQuestions(context.Background(), "TITLE")

	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, 1, matches[0].ID)
	assert.Equal(t, 2, matches[1].ID)
	assert.Equal(t, 3, total, "total counts every question, not the matches")
}

func TestQuestionsByCategoryFilters(t *testing.T) {
	store := newMemQuestionStore(questionFixture(1, 1), questionFixture(2, 2), questionFixture(3, 1))
	categories := newMemCategoryStore(Category{ID: 1, Type: "Science"}, Category{ID: 2, Type: "Art"})
	svc := newTestService(store, categories, nil, nil)

	page, category, err := svc.QuestionsByCategory(context.Background(), 1, 1)

	require.NoError(t, err)
	assert.Equal(t, "Science", category.Type)
	require.Len(t, page.Questions, 2)
	for _, q := range page.Questions {
		assert.Equal(t, 1, q.Category)
	}
	assert.Equal(t, 3, page.Total, "total counts every question, not the category's")
}

func TestQuestionsByCategoryUnknownReportsNotFound(t *testing.T) {
	svc := newTestService(newMemQuestionStore(questionFixture(1, 1)), newMemCategoryStore(), nil, nil)

	_, _, err := svc.QuestionsByCategory(context.Background(), 42, 1)

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlayQuizExcludesPreviousQuestions(t *testing.T) {
	store := newMemQuestionStore(questionFixture(1, 1), questionFixture(2, 1), questionFixture(3, 1))
	svc := newTestService(store, nil, nil, func(n int) int { return 0 })

	result, err := svc.PlayQuiz(context.Background(), QuizRequest{
		PreviousQuestions: []int{1, 2},
		CategoryID:        1,
	})

	require.NoError(t, err)
	require.NotNil(t, result.Question)
	assert.Equal(t, 3, result.Question.ID)
}

func TestPlayQuizExhaustedPoolReturnsNilQuestion(t *testing.T) {
	store := newMemQuestionStore(questionFixture(1, 1), questionFixture(2, 1))
	svc := newTestService(store, nil, nil, nil)

	result, err := svc.PlayQuiz(context.Background(), QuizRequest{
		PreviousQuestions: []int{1, 2},
		CategoryID:        1,
	})

	require.NoError(t, err)
	assert.Nil(t, result.Question)
}

func TestPlayQuizZeroCategorySpansAll(t *testing.T) {
	store := newMemQuestionStore(questionFixture(1, 1), questionFixture(2, 2))
	svc := newTestService(store, nil, nil, func(n int) int { return n - 1 })

	result, err := svc.PlayQuiz(context.Background(), QuizRequest{CategoryID: 0})

	require.NoError(t, err)
	require.NotNil(t, result.Question)
	assert.Equal(t, 2, result.Question.ID, "category 0 must include every category")
}

func TestPlayQuizUpdatesScoreBeforeSelection(t *testing.T) {
	store := newMemQuestionStore(questionFixture(1, 1))
	users := &memUserStore{users: []User{{ID: 7, Score: 10}}}
	svc := newTestService(store, nil, users, func(int) int { return 0 })

	userID := 7
	result, err := svc.PlayQuiz(context.Background(), QuizRequest{
		CategoryID: 1,
		UserID:     &userID,
		Guess:      5,
	})

	require.NoError(t, err)
	assert.Equal(t, 15, result.Total)
	assert.Equal(t, 15, users.users[0].Score)
}

func TestPlayQuizScoresEvenWhenPoolExhausted(t *testing.T) {
	store := newMemQuestionStore(questionFixture(1, 1))
	users := &memUserStore{users: []User{{ID: 7, Score: 0}}}
	svc := newTestService(store, nil, users, nil)

	userID := 7
	result, err := svc.PlayQuiz(context.Background(), QuizRequest{
		PreviousQuestions: []int{1},
		CategoryID:        1,
		UserID:            &userID,
		Guess:             5,
	})

	require.NoError(t, err)
	assert.Nil(t, result.Question)
	assert.Equal(t, 5, result.Total)
}

func TestPlayQuizUnknownUserFails(t *testing.T) {
	store := newMemQuestionStore(questionFixture(1, 1))
	svc := newTestService(store, nil, &memUserStore{}, nil)

	userID := 99
	_, err := svc.PlayQuiz(context.Background(), QuizRequest{
		CategoryID: 1,
		UserID:     &userID,
		Guess:      1,
	})

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPlayQuizAnonymousSkipsScore(t *testing.T) {
	store := newMemQuestionStore(questionFixture(1, 1))
	users := &memUserStore{users: []User{{ID: 1, Score: 3}}}
	svc := newTestService(store, nil, users, func(int) int { return 0 })

	result, err := svc.PlayQuiz(context.Background(), QuizRequest{CategoryID: 1, Guess: 5})

	require.NoError(t, err)
	assert.Equal(t, 0, result.Total)
	assert.Equal(t, 3, users.users[0].Score)
}
