package userclient

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	defaultHistoryLimit = 10
	defaultHTTPTimeout  = 5 * time.Second
)

type Config struct {
	ServerURL    string
	Token        string
	LoginURL     string
	HistoryLimit int
	HTTPTimeout  time.Duration
	Player       PlayerOptions
}

// Run connects to the quiz service and serves the interactive command loop
// until exit or EOF.
func Run(ctx context.Context, in io.Reader, out io.Writer, cfg Config) error {
	serverURL := strings.TrimSpace(cfg.ServerURL)
	if serverURL == "" {
		serverURL = defaultServer
	}
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}

	client := NewHTTPClient(serverURL, cfg.Token, cfg.LoginURL, &http.Client{Timeout: timeout})
	fmt.Fprintf(out, "finquiz\nserver=%s\n\n", serverURL)

	cfg.ServerURL = serverURL
	return Interact(ctx, client, in, out, cfg)
}

// Interact runs the command loop against any backend.
func Interact(ctx context.Context, backend Backend, in io.Reader, out io.Writer, cfg Config) error {
	historyLimit := cfg.HistoryLimit
	if historyLimit <= 0 {
		historyLimit = defaultHistoryLimit
	}

	input := readLines(in)
	player := NewPlayer(backend, input, out, cfg.Player)
	printHelp(out)

	for {
		fmt.Fprint(out, "\n> ")

		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case next, ok := <-input:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			line = strings.TrimSpace(next)
		}
		if line == "" {
			continue
		}

		args := strings.Fields(line)
		command := strings.ToLower(args[0])

		switch command {
		case "help":
			printHelp(out)
		case "exit", "quit":
			return nil
		case "quizzes":
			if err := runQuizzes(ctx, out, backend); err != nil {
				fmt.Fprintf(out, "error: %v\n", describeClientError(err, cfg.ServerURL))
			}
		case "results":
			limit, parseErr := parsePositiveLimit(args, 1, historyLimit)
			if parseErr != nil {
				fmt.Fprintf(out, "invalid results limit: %v\n", parseErr)
				continue
			}
			if err := runResults(ctx, out, backend, limit); err != nil {
				fmt.Fprintf(out, "error: %v\n", describeClientError(err, cfg.ServerURL))
			}
		case "play":
			if len(args) != 2 {
				fmt.Fprintln(out, "usage: play <quiz_id>")
				continue
			}
			if err := player.Play(ctx, args[1]); err != nil {
				fmt.Fprintf(out, "error: %v\n", describeClientError(err, cfg.ServerURL))
			}
		default:
			fmt.Fprintln(out, "unknown command. type 'help' for usage.")
		}
	}
}

func runQuizzes(ctx context.Context, out io.Writer, backend Backend) error {
	quizzes, err := backend.Quizzes(ctx)
	if err != nil {
		return err
	}

	if len(quizzes) == 0 {
		fmt.Fprintln(out, "No quizzes available.")
		return nil
	}

	fmt.Fprintln(out, "Available quizzes:")
	for idx, item := range quizzes {
		fmt.Fprintf(out, "%d. %s - %s (%d questions)\n", idx+1, item.QuizID, item.Title, item.QuestionCount)
	}
	return nil
}

func runResults(ctx context.Context, out io.Writer, backend Backend, limit int) error {
	results, err := backend.Results(ctx, limit)
	if err != nil {
		return err
	}

	if results.Best.AttemptCount == 0 {
		fmt.Fprintln(out, "No completed quizzes yet.")
		return nil
	}

	fmt.Fprintf(out, "Best: %s%% (%d correct) over %d attempts\n",
		formatPercentage(results.Best.BestPercentage),
		results.Best.BestScore,
		results.Best.AttemptCount,
	)
	for idx, attempt := range results.History {
		quizID := "-"
		if attempt.QuizID != nil {
			quizID = *attempt.QuizID
		}
		fmt.Fprintf(out, "%d. %s %s %d/%d (%s%%)\n",
			idx+1,
			formatTime(attempt.CompletedAt),
			quizID,
			attempt.Score,
			attempt.TotalQuestions,
			formatPercentage(attempt.Percentage),
		)
	}
	return nil
}
