package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"finquiz/internal/gameloop"
	"finquiz/internal/userclient"
)

const offlineBank = `{
	"title": "Saving Basics",
	"questions": [
		{"question": "Where should an emergency fund live?", "options": ["Stocks", "Savings account"], "correctIndex": 1, "explanation": "It must be liquid."},
		{"question": "Compound interest grows?", "options": ["Linearly", "Exponentially"], "correctIndex": 1}
	]
}`

func TestRunPlaysOfflineAndRecordsResult(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "Savings_quiz.json"), []byte(offlineBank), 0o644); err != nil {
		t.Fatalf("write bank: %v", err)
	}

	input := strings.Join([]string{
		"quizzes",
		"play Savings_quiz",
		"B",
		"A",
		"details",
		"quit",
		"results",
		"exit",
	}, "\n") + "\n"

	var out bytes.Buffer
	err := Run(context.Background(), strings.NewReader(input), &out, Config{
		BankDir:     dir,
		DefaultQuiz: "Savings_quiz",
		Player: userclient.PlayerOptions{
			Game:      gameloop.DefaultConfig(),
			NewTicker: func() (<-chan time.Time, func()) { return nil, func() {} },
			After: func(time.Duration) <-chan time.Time {
				ch := make(chan time.Time, 1)
				ch <- time.Time{}
				return ch
			},
		},
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	text := out.String()
	for _, fragment := range []string{
		"1. Savings_quiz - Saving Basics (2 questions)",
		"Question 2 of 2",
		"Score: 1/2 (50.00%)",
		"It must be liquid.",
		"Best: 50.00% (1 correct) over 1 attempts",
	} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, text)
		}
	}
}
