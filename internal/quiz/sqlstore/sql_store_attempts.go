package sqlstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/mattn/go-sqlite3"

	"finquiz/internal/quiz"
)

const defaultHistoryLimit = 10

// SaveAttempt inserts one completed attempt and returns its row id. Against a
// table without quiz_id the row is written without it.
func (s *Store) SaveAttempt(ctx context.Context, attempt quiz.Attempt) (int64, error) {
	completedAt := attempt.CompletedAt
	if completedAt.IsZero() {
		completedAt = time.Now().UTC()
	}

	if !s.legacy.Load() {
		id, err := s.insert(ctx,
			`INSERT INTO quiz_results (user_id, score, total_questions, percentage, quiz_id, completed_at)
			 VALUES (?, ?, ?, ?, ?, ?) RETURNING id`,
			attempt.UserID, attempt.Score, attempt.Total, attempt.Percentage, attempt.QuizID, completedAt,
		)
		if err == nil {
			return id, nil
		}
		if !isMissingQuizIDColumn(err) {
			return 0, fmt.Errorf("failed to save quiz result: %w", err)
		}
		s.legacy.Store(true)
		s.logger.Printf("quiz_results has no quiz_id column; saving without it")
	}

	id, err := s.insert(ctx,
		`INSERT INTO quiz_results (user_id, score, total_questions, percentage, completed_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`,
		attempt.UserID, attempt.Score, attempt.Total, attempt.Percentage, completedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to save quiz result: %w", err)
	}
	return id, nil
}

func (s *Store) insert(ctx context.Context, query string, args ...interface{}) (int64, error) {
	var id int64
	if err := s.db.QueryRowxContext(ctx, s.db.Rebind(query), args...).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// History returns the most recent attempts of a user, newest first.
func (s *Store) History(ctx context.Context, userID int64, limit int) ([]quiz.PersistedAttempt, error) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	columns := "quiz_id"
	if s.legacy.Load() {
		columns = "NULL AS quiz_id"
	}
	query := `SELECT id, user_id, score, total_questions, percentage, ` + columns + `, completed_at
		FROM quiz_results
		WHERE user_id = ?
		ORDER BY completed_at DESC, id DESC
		LIMIT ?`

	attempts := []quiz.PersistedAttempt{}
	err := s.db.SelectContext(ctx, &attempts, s.db.Rebind(query), userID, limit)
	if err != nil && !s.legacy.Load() && isMissingQuizIDColumn(err) {
		s.legacy.Store(true)
		return s.History(ctx, userID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load quiz history: %w", err)
	}
	return attempts, nil
}

func (s *Store) BestScore(ctx context.Context, userID int64) (quiz.BestScore, error) {
	query := `SELECT COALESCE(MAX(percentage), 0) AS best_percentage,
			COALESCE(MAX(score), 0) AS best_score,
			COUNT(*) AS attempt_count
		FROM quiz_results
		WHERE user_id = ?`

	var best quiz.BestScore
	if err := s.db.GetContext(ctx, &best, s.db.Rebind(query), userID); err != nil {
		return quiz.BestScore{}, fmt.Errorf("failed to load best score: %w", err)
	}
	return best, nil
}

func isMissingQuizIDColumn(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "42703" && strings.Contains(pqErr.Message, "quiz_id")
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		msg := liteErr.Error()
		return liteErr.Code == sqlite3.ErrError &&
			(strings.Contains(msg, "no column named quiz_id") || strings.Contains(msg, "no such column: quiz_id"))
	}
	return false
}
