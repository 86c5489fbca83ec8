package trivia

// QuestionsPerPage is the fixed page size for every paginated listing.
const QuestionsPerPage = 10

// paginate slices an id-ordered question list into 1-based pages of
// QuestionsPerPage. Pages beyond the available range yield an empty slice;
// the caller decides whether that is an error.
func paginate(questions []Question, page int) []Question {
	if page < 1 {
		page = 1
	}
	start := (page - 1) * QuestionsPerPage
	if start >= len(questions) {
		return []Question{}
	}
	end := start + QuestionsPerPage
	if end > len(questions) {
		end = len(questions)
	}
	return questions[start:end]
}
