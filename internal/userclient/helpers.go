package userclient

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"finquiz/internal/gameloop"
	"finquiz/internal/quiz"
)

// readLines feeds input lines to a channel that closes at EOF.
func readLines(in io.Reader) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()
	return lines
}

func parseOptionLetter(input string, optionCount int) (int, bool) {
	if optionCount < 1 {
		return -1, false
	}

	answer := strings.ToUpper(strings.TrimSpace(input))
	if len(answer) != 1 {
		return -1, false
	}
	letter := answer[0]
	if letter < 'A' || letter > maxOptionLetter(optionCount) {
		return -1, false
	}
	return int(letter - 'A'), true
}

func maxOptionLetter(optionCount int) byte {
	return byte('A' + optionCount - 1)
}

func optionLabel(options []string, index int) string {
	if index < 0 || index >= len(options) {
		return "unknown"
	}
	return fmt.Sprintf("%c. %s", 'A'+index, options[index])
}

func hearts(lives, maxLives int) string {
	if lives < 0 {
		lives = 0
	}
	if maxLives < lives {
		maxLives = lives
	}
	return strings.Repeat("♥", lives) + strings.Repeat("♡", maxLives-lives)
}

func printQuestion(out io.Writer, page Page, loop *gameloop.Loop) {
	question := page.Question

	fmt.Fprintln(out)
	if question.Number == 1 && page.Title != "" {
		fmt.Fprintf(out, "== %s ==\n", page.Title)
		if page.Description != "" {
			fmt.Fprintln(out, page.Description)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Question %d of %d  Score: %d  Lives: %s  Time: %ds\n",
		question.Number,
		question.Total,
		loop.Score(),
		hearts(loop.Lives(), loop.MaxLives()),
		loop.Remaining(),
	)
	fmt.Fprintf(out, "%s\n\n", question.Text)
	for idx, option := range question.Options {
		marker := " "
		if question.SelectedIndex != nil && *question.SelectedIndex == idx {
			marker = "*"
		}
		fmt.Fprintf(out, "%s%c. %s\n", marker, 'A'+idx, option)
	}
	fmt.Fprintf(out, "\nYour answer (A-%c): ", maxOptionLetter(len(question.Options)))
}

func printResult(out io.Writer, page Page) {
	result := page.Result

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Quiz complete: %s\n", page.Title)
	fmt.Fprintf(out, "Score: %d/%d (%s%%)\n", result.Score, result.Total, formatPercentage(result.Percentage))
	fmt.Fprintln(out, result.Feedback)
	if !result.Saved {
		fmt.Fprintln(out, "Your result could not be saved.")
	}
	if !result.ShowDetails {
		return
	}

	for idx, detail := range result.DetailedResults {
		printDetail(out, idx+1, detail)
	}
}

func printDetail(out io.Writer, number int, detail quiz.QuestionResult) {
	status := "Wrong"
	if detail.IsCorrect {
		status = "Correct"
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "%d. %s [%s]\n", number, detail.QuestionText, status)
	fmt.Fprintf(out, "   Your answer: %s\n", detail.UserAnswerText)
	fmt.Fprintf(out, "   Correct answer: %s\n", detail.CorrectAnswerText)
	if detail.Explanation != "" {
		fmt.Fprintf(out, "   %s\n", detail.Explanation)
	}
}

func printHelp(out io.Writer) {
	fmt.Fprintln(out, "Commands:")
	fmt.Fprintln(out, "  help")
	fmt.Fprintln(out, "  quizzes")
	fmt.Fprintln(out, "  results [limit]")
	fmt.Fprintln(out, "  play <quiz_id>")
	fmt.Fprintln(out, "  exit")
	fmt.Fprintln(out, "While playing: A-D to answer, prev, restart, quit.")
}

func parsePositiveLimit(args []string, index int, defaultValue int) (int, error) {
	if len(args) <= index {
		return defaultValue, nil
	}

	value, err := strconv.Atoi(args[index])
	if err != nil || value <= 0 {
		return 0, errors.New("must be a positive integer")
	}
	return value, nil
}

func formatPercentage(value float64) string {
	return strconv.FormatFloat(value, 'f', 2, 64)
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return "-"
	}
	return value.Format(time.RFC3339)
}

func describeClientError(err error, serverURL string) error {
	switch {
	case errors.Is(err, ErrServiceUnavailable):
		return fmt.Errorf("quiz service unavailable at %s", serverURL)
	case errors.Is(err, ErrUnauthenticated):
		return errors.New("not logged in: the session token is missing, invalid or expired")
	default:
		return err
	}
}
