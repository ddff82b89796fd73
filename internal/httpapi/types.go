package httpapi

import "finquiz/internal/quiz"

const (
	viewQuestion = "question"
	viewResult   = "result"
)

type pageResponse struct {
	View        string           `json:"view"`
	QuizID      string           `json:"quiz_id"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
	Question    *questionPayload `json:"question,omitempty"`
	Result      *resultPayload   `json:"result,omitempty"`
}

// questionPayload carries the correct index because the browser game loop
// scores locally for lives and points. The server never trusts that score.
type questionPayload struct {
	ID            string   `json:"id"`
	Number        int      `json:"number"`
	Total         int      `json:"total"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectIndex  int      `json:"correct_index"`
	SelectedIndex *int     `json:"selected_index,omitempty"`
	TimeLimit     int      `json:"time_limit"`
}

type resultPayload struct {
	Score           int                   `json:"score"`
	Total           int                   `json:"total"`
	Percentage      float64               `json:"percentage"`
	Tier            quiz.Tier             `json:"tier"`
	Feedback        string                `json:"feedback"`
	Saved           bool                  `json:"result_saved"`
	ShowDetails     bool                  `json:"show_details"`
	DetailedResults []quiz.QuestionResult `json:"detailed_results,omitempty"`
}

type quizzesResponse struct {
	Quizzes []quiz.QuizSummary `json:"quizzes"`
}

type resultsResponse struct {
	UserID  int64                   `json:"user_id"`
	Best    quiz.BestScore          `json:"best"`
	History []quiz.PersistedAttempt `json:"history"`
}

type healthResponse struct {
	Status string `json:"status"`
}

type errorResponse struct {
	Error string `json:"error"`
}
