package trivia

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	httperrors "github.com/trivialabs/trivia-api/pkg/http/errors"
)

// HTTPHandlers exposes the trivia REST endpoints.
type HTTPHandlers struct {
	svc    *Service
	logger zerolog.Logger
}

// NewHTTPHandlers creates HTTP handlers for the trivia endpoints.
func NewHTTPHandlers(svc *Service, logger zerolog.Logger) *HTTPHandlers {
	return &HTTPHandlers{
		svc:    svc,
		logger: logger.With().Str("component", "trivia_http").Logger(),
	}
}

// Register attaches every trivia route to the mux.
func (h *HTTPHandlers) Register(mux *http.ServeMux) {
	mux.HandleFunc("GET /categories", h.GetCategories)
	mux.HandleFunc("POST /categories", h.CreateCategory)
	mux.HandleFunc("GET /questions", h.GetQuestions)
	mux.HandleFunc("POST /questions", h.CreateQuestion)
	mux.HandleFunc("DELETE /questions/{question_id}", h.DeleteQuestion)
	mux.HandleFunc("POST /questions/search", h.SearchQuestions)
	mux.HandleFunc("GET /categories/{category_id}/questions", h.GetQuestionsByCategory)
	mux.HandleFunc("POST /quizzes", h.PlayQuiz)
}

// GetCategories handles GET /categories.
func (h *HTTPHandlers) GetCategories(w http.ResponseWriter, r *http.Request) {
	listing, err := h.svc.ListCategories(r.Context())
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"success":          true,
		"categories":       categoryMap(listing.Categories),
		"total_categories": len(listing.Categories),
		"users":            listing.Users,
	})
}

// GetQuestions handles GET /questions?page=N.
func (h *HTTPHandlers) GetQuestions(w http.ResponseWriter, r *http.Request) {
	page, err := h.svc.ListQuestions(r.Context(), pageParam(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"success":          true,
		"questions":        page.Questions,
		"total_questions":  page.Total,
		"current_category": nil,
		"categories":       categoryMap(page.Categories),
	})
}

// DeleteQuestion handles DELETE /questions/{question_id}.
func (h *HTTPHandlers) DeleteQuestion(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(r.PathValue("question_id"))
	if err != nil {
		httperrors.RespondNotFound(w)
		return
	}
	page, err := h.svc.DeleteQuestion(r.Context(), id, pageParam(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"success":          true,
		"question_id":      id,
		"questions":        page.Questions,
		"total_questions":  page.Total,
		"current_category": nil,
		"categories":       categoryMap(page.Categories),
	})
}

type createQuestionRequest struct {
	Question   string          `json:"question"`
	Answer     string          `json:"answer"`
	Category   json.RawMessage `json:"category"`
	Difficulty json.RawMessage `json:"difficulty"`
	Rating     json.RawMessage `json:"rating"`
}

// CreateQuestion handles POST /questions. Absent fields are stored as zero
// values; the endpoint is deliberately permissive.
func (h *HTTPHandlers) CreateQuestion(w http.ResponseWriter, r *http.Request) {
	var req createQuestionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w)
		return
	}
	question := Question{
		Question:   req.Question,
		Answer:     req.Answer,
		Category:   looseIntOrZero(req.Category),
		Difficulty: looseIntOrZero(req.Difficulty),
		Rating:     looseIntOrZero(req.Rating),
	}
	created, err := h.svc.CreateQuestion(r.Context(), question)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"success":     true,
		"message":     "Question successfully created!",
		"question_id": created.ID,
	})
}

type createCategoryRequest struct {
	CategoryType string `json:"categoryType"`
}

// CreateCategory handles POST /categories.
func (h *HTTPHandlers) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w)
		return
	}
	created, err := h.svc.CreateCategory(r.Context(), req.CategoryType)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"success":     true,
		"message":     "Category successfully created!",
		"category_id": created.ID,
	})
}

type searchRequest struct {
	SearchTerm string `json:"searchTerm"`
}

// SearchQuestions handles POST /questions/search.
func (h *HTTPHandlers) SearchQuestions(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondBadRequest(w)
		return
	}
	matches, total, err := h.svc.SearchQuestions(r.Context(), req.SearchTerm)
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"success":          true,
		"questions":        matches,
		"total_questions":  total,
		"current_category": nil,
	})
}

// GetQuestionsByCategory handles GET /categories/{category_id}/questions?page=N.
func (h *HTTPHandlers) GetQuestionsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := strconv.Atoi(r.PathValue("category_id"))
	if err != nil {
		httperrors.RespondNotFound(w)
		return
	}
	page, category, err := h.svc.QuestionsByCategory(r.Context(), categoryID, pageParam(r))
	if err != nil {
		h.respondError(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"success":          true,
		"questions":        page.Questions,
		"total_questions":  page.Total,
		"current_category": category,
	})
}

type playQuizRequest struct {
	PreviousQuestions []int `json:"previous_questions"`
	QuizCategory      struct {
		ID int `json:"id"`
	} `json:"quiz_category"`
	User     json.RawMessage `json:"user"`
	NumGuess json.RawMessage `json:"numGuess"`
}

// PlayQuiz handles POST /quizzes. Any failure on this endpoint, including a
// malformed body or an unknown user, reports NotFound.
func (h *HTTPHandlers) PlayQuiz(w http.ResponseWriter, r *http.Request) {
	var req playQuizRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperrors.RespondNotFound(w)
		return
	}
	userID, ok, err := looseInt(req.User)
	if err != nil {
		httperrors.RespondNotFound(w)
		return
	}
	quizReq := QuizRequest{
		PreviousQuestions: req.PreviousQuestions,
		CategoryID:        req.QuizCategory.ID,
		Guess:             looseIntOrZero(req.NumGuess),
	}
	if ok {
		quizReq.UserID = &userID
	}

	result, err := h.svc.PlayQuiz(r.Context(), quizReq)
	if err != nil {
		h.logger.Warn().Err(err).Msg("quiz turn failed")
		httperrors.RespondNotFound(w)
		return
	}

	previous := req.PreviousQuestions
	if previous == nil {
		previous = []int{}
	}
	writeJSON(w, map[string]any{
		"success":            true,
		"question":           result.Question,
		"previous_questions": previous,
		"user":               rawOrNull(req.User),
		"numTotal":           result.Total,
	})
}

func (h *HTTPHandlers) respondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		httperrors.RespondNotFound(w)
	case errors.Is(err, ErrBadRequest):
		httperrors.RespondBadRequest(w)
	default:
		h.logger.Warn().Err(err).Msg("request failed")
		httperrors.RespondUnprocessable(w)
	}
}

// pageParam reads the 1-based page query parameter, falling back to 1 for
// absent or non-numeric input.
func pageParam(r *http.Request) int {
	raw := r.URL.Query().Get("page")
	if raw == "" {
		return 1
	}
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// categoryMap renders categories as the {"id": "type"} object the frontend
// consumes.
func categoryMap(categories []Category) map[int]string {
	m := make(map[int]string, len(categories))
	for _, c := range categories {
		m[c.ID] = c.Type
	}
	return m
}

// looseInt coerces a raw JSON value into an int. JSON numbers and numeric
// strings both count; null, an absent value, and the empty string report
// ok=false without an error.
func looseInt(raw json.RawMessage) (int, bool, error) {
	if len(raw) == 0 {
		return 0, false, nil
	}
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false, err
	}
	switch t := v.(type) {
	case nil:
		return 0, false, nil
	case float64:
		return int(t), true, nil
	case string:
		if t == "" {
			return 0, false, nil
		}
		n, err := strconv.Atoi(t)
		if err != nil {
			return 0, false, err
		}
		return n, true, nil
	default:
		return 0, false, errors.New("value is not an integer")
	}
}

func looseIntOrZero(raw json.RawMessage) int {
	n, _, _ := looseInt(raw)
	return n
}

// rawOrNull echoes the client-supplied value back, or null when absent.
func rawOrNull(raw json.RawMessage) json.RawMessage {
	if len(raw) == 0 {
		return json.RawMessage("null")
	}
	return raw
}

func writeJSON(w http.ResponseWriter, payload any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}
