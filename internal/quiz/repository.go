package quiz

import (
	"context"
	"errors"
	"time"
)

var (
	ErrQuizNotFound  = errors.New("quiz not found")
	ErrEmptyQuiz     = errors.New("quiz has no questions")
	ErrInvalidBank   = errors.New("invalid question bank")
	ErrInvalidAnswer = errors.New("invalid answer")
)

// SessionKey scopes quiz progress to one browser session and one quiz, so
// switching quizzes never mixes answers.
type SessionKey struct {
	SessionID string
	QuizID    string
}

// Attempt is a completed attempt handed to the result store.
type Attempt struct {
	UserID      int64
	QuizID      string
	Score       int
	Total       int
	Percentage  float64
	CompletedAt time.Time
}

// PersistedAttempt is a row of quiz_results. QuizID is nil for rows written
// against schemas without the quiz_id column.
type PersistedAttempt struct {
	ID             int64     `json:"id" db:"id"`
	UserID         int64     `json:"user_id" db:"user_id"`
	Score          int       `json:"score" db:"score"`
	TotalQuestions int       `json:"total_questions" db:"total_questions"`
	Percentage     float64   `json:"percentage" db:"percentage"`
	QuizID         *string   `json:"quiz_id,omitempty" db:"quiz_id"`
	CompletedAt    time.Time `json:"completed_at" db:"completed_at"`
}

type BestScore struct {
	BestPercentage float64 `json:"best_percentage" db:"best_percentage"`
	BestScore      int     `json:"best_score" db:"best_score"`
	AttemptCount   int     `json:"attempt_count" db:"attempt_count"`
}

type QuizSummary struct {
	QuizID        string `json:"quiz_id"`
	Title         string `json:"title"`
	Description   string `json:"description"`
	QuestionCount int    `json:"question_count"`
}

// Source loads question banks by quiz id.
type Source interface {
	Exists(ctx context.Context, quizID string) bool
	Load(ctx context.Context, quizID string) (Quiz, error)
	List(ctx context.Context) ([]QuizSummary, error)
}

type SessionStore interface {
	LoadSession(ctx context.Context, key SessionKey) (Session, bool, error)
	SaveSession(ctx context.Context, key SessionKey, session Session) error
	DeleteSession(ctx context.Context, key SessionKey) error
	CurrentQuiz(ctx context.Context, sessionID string) (string, bool, error)
	SetCurrentQuiz(ctx context.Context, sessionID, quizID string) error
}

type ResultStore interface {
	SaveAttempt(ctx context.Context, attempt Attempt) (int64, error)
	History(ctx context.Context, userID int64, limit int) ([]PersistedAttempt, error)
	BestScore(ctx context.Context, userID int64) (BestScore, error)
}
