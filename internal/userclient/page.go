package userclient

import (
	"context"

	"finquiz/internal/quiz"
)

const (
	viewQuestion = "question"
	viewResult   = "result"
)

// Page is one rendered step of the quiz page.
type Page struct {
	View        string        `json:"view"`
	QuizID      string        `json:"quiz_id"`
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Question    *QuestionPage `json:"question,omitempty"`
	Result      *ResultPage   `json:"result,omitempty"`
}

type QuestionPage struct {
	ID            string   `json:"id"`
	Number        int      `json:"number"`
	Total         int      `json:"total"`
	Text          string   `json:"question"`
	Options       []string `json:"options"`
	CorrectIndex  int      `json:"correct_index"`
	SelectedIndex *int     `json:"selected_index,omitempty"`
	TimeLimit     int      `json:"time_limit"`
}

type ResultPage struct {
	Score           int                   `json:"score"`
	Total           int                   `json:"total"`
	Percentage      float64               `json:"percentage"`
	Tier            quiz.Tier             `json:"tier"`
	Feedback        string                `json:"feedback"`
	Saved           bool                  `json:"result_saved"`
	ShowDetails     bool                  `json:"show_details"`
	DetailedResults []quiz.QuestionResult `json:"detailed_results,omitempty"`
}

type Results struct {
	UserID  int64                   `json:"user_id"`
	Best    quiz.BestScore          `json:"best"`
	History []quiz.PersistedAttempt `json:"history"`
}

type quizzesResponse struct {
	Quizzes []quiz.QuizSummary `json:"quizzes"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Backend is the quiz page as seen by a player. Every step returns the page
// to render next.
type Backend interface {
	Quizzes(ctx context.Context) ([]quiz.QuizSummary, error)
	Results(ctx context.Context, limit int) (Results, error)

	Start(ctx context.Context, quizID string) (Page, error)
	Continue(ctx context.Context, quizID string) (Page, error)
	Previous(ctx context.Context, quizID string) (Page, error)
	Answer(ctx context.Context, quizID string, index int) (Page, error)
	Timeout(ctx context.Context, quizID string) (Page, error)
	Restart(ctx context.Context, quizID string) (Page, error)
	ShowDetails(ctx context.Context, quizID string) (Page, error)
	HideDetails(ctx context.Context, quizID string) (Page, error)
}
