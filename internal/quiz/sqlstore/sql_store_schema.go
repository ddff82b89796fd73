package sqlstore

import (
	"context"
	"fmt"
)

// initSchema only creates what is missing. An existing quiz_results table is
// left alone even if it has no quiz_id column.
func (s *Store) initSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS quiz_results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL,
			score INTEGER NOT NULL,
			total_questions INTEGER NOT NULL,
			percentage REAL NOT NULL,
			quiz_id TEXT,
			completed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,
		`CREATE INDEX IF NOT EXISTS idx_quiz_results_user_completed ON quiz_results(user_id, completed_at DESC);`,
	}
	if s.driver == DriverPostgres {
		statements = []string{
			`CREATE TABLE IF NOT EXISTS quiz_results (
				id BIGSERIAL PRIMARY KEY,
				user_id BIGINT NOT NULL,
				score INTEGER NOT NULL,
				total_questions INTEGER NOT NULL,
				percentage DOUBLE PRECISION NOT NULL,
				quiz_id VARCHAR(255),
				completed_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP
			);`,
			`CREATE INDEX IF NOT EXISTS idx_quiz_results_user_completed ON quiz_results(user_id, completed_at DESC);`,
		}
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to init quiz_results schema: %w", err)
		}
	}
	return nil
}
