package userclient

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"finquiz/internal/gameloop"
	"finquiz/internal/quiz"
)

// fakeBackend plays a quiz with the given correct indices and records every
// call it receives.
type fakeBackend struct {
	correct   []int
	timeLimit int
	pos       int
	answers   map[int]int
	details   bool
	calls     []string
	quizzes   []quiz.QuizSummary
	results   Results
}

func newFakeBackend(correct ...int) *fakeBackend {
	return &fakeBackend{correct: correct, timeLimit: 30, answers: map[int]int{}}
}

func (f *fakeBackend) page() Page {
	if f.pos < len(f.correct) {
		return Page{
			View:   viewQuestion,
			QuizID: "Module1_quiz",
			Title:  "Investing Basics",
			Question: &QuestionPage{
				ID:           quiz.QuestionID(f.pos + 1),
				Number:       f.pos + 1,
				Total:        len(f.correct),
				Text:         "Question text",
				Options:      []string{"First", "Second", "Third"},
				CorrectIndex: f.correct[f.pos],
				TimeLimit:    f.timeLimit,
			},
		}
	}

	score := 0
	for idx, correct := range f.correct {
		if answer, ok := f.answers[idx]; ok && answer == correct {
			score++
		}
	}
	result := &ResultPage{
		Score:       score,
		Total:       len(f.correct),
		Percentage:  quiz.Percentage(score, len(f.correct)),
		Saved:       true,
		ShowDetails: f.details,
	}
	if f.details {
		result.DetailedResults = []quiz.QuestionResult{{QuestionText: "Question text", IsCorrect: true, Explanation: "Because."}}
	}
	return Page{View: viewResult, QuizID: "Module1_quiz", Title: "Investing Basics", Result: result}
}

func (f *fakeBackend) Quizzes(context.Context) ([]quiz.QuizSummary, error) {
	f.calls = append(f.calls, "quizzes")
	return f.quizzes, nil
}

func (f *fakeBackend) Results(_ context.Context, limit int) (Results, error) {
	f.calls = append(f.calls, "results")
	return f.results, nil
}

func (f *fakeBackend) Start(context.Context, string) (Page, error) {
	f.calls = append(f.calls, "start")
	f.pos, f.answers, f.details = 0, map[int]int{}, false
	return f.page(), nil
}

func (f *fakeBackend) Continue(context.Context, string) (Page, error) {
	f.calls = append(f.calls, "continue")
	return f.page(), nil
}

func (f *fakeBackend) Previous(context.Context, string) (Page, error) {
	f.calls = append(f.calls, "prev")
	if f.pos > 0 {
		f.pos--
	}
	return f.page(), nil
}

func (f *fakeBackend) Answer(_ context.Context, _ string, index int) (Page, error) {
	f.calls = append(f.calls, "answer")
	f.answers[f.pos] = index
	f.pos++
	return f.page(), nil
}

func (f *fakeBackend) Timeout(context.Context, string) (Page, error) {
	f.calls = append(f.calls, "timeout")
	f.pos++
	return f.page(), nil
}

func (f *fakeBackend) Restart(context.Context, string) (Page, error) {
	f.calls = append(f.calls, "restart")
	f.pos, f.answers, f.details = 0, map[int]int{}, false
	return f.page(), nil
}

func (f *fakeBackend) ShowDetails(context.Context, string) (Page, error) {
	f.calls = append(f.calls, "details")
	f.details = true
	return f.page(), nil
}

func (f *fakeBackend) HideDetails(context.Context, string) (Page, error) {
	f.calls = append(f.calls, "hide")
	f.details = false
	return f.page(), nil
}

func scriptedInput(lines ...string) <-chan string {
	input := make(chan string, len(lines))
	for _, line := range lines {
		input <- line
	}
	close(input)
	return input
}

func immediately(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func testPlayerOptions(ticks <-chan time.Time) PlayerOptions {
	return PlayerOptions{
		Game:      gameloop.DefaultConfig(),
		NewTicker: func() (<-chan time.Time, func()) { return ticks, func() {} },
		After:     immediately,
	}
}

func TestPlayAnswersEveryQuestionAndShowsDetails(t *testing.T) {
	backend := newFakeBackend(1, 0, 2)
	var out bytes.Buffer
	player := NewPlayer(backend, scriptedInput("b", "x", "A", "a", "details", "quit"), &out, testPlayerOptions(nil))

	if err := player.Play(context.Background(), "Module1_quiz"); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	want := "start,answer,answer,answer,details"
	if got := strings.Join(backend.calls, ","); got != want {
		t.Fatalf("calls = %s, want %s", got, want)
	}
	text := out.String()
	for _, fragment := range []string{"Invalid input", "Correct!", "Wrong. The correct answer was C. Third.", "Score: 2/3 (66.67%)", "Because."} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %q in output:\n%s", fragment, text)
		}
	}
}

func TestPlayTimeoutSubmitsTimedOut(t *testing.T) {
	backend := newFakeBackend(0)
	backend.timeLimit = 1
	ticks := make(chan time.Time)
	input := make(chan string)
	var out bytes.Buffer

	player := NewPlayer(backend, input, &out, testPlayerOptions(ticks))

	done := make(chan error, 1)
	go func() { done <- player.Play(context.Background(), "Module1_quiz") }()

	ticks <- time.Time{}
	close(input)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Play failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Play did not return")
	}

	if got := strings.Join(backend.calls, ","); got != "start,timeout" {
		t.Fatalf("calls = %s, want start,timeout", got)
	}
	if !strings.Contains(out.String(), "Time's up! The correct answer was A. First.") {
		t.Fatalf("expected timeout feedback, got:\n%s", out.String())
	}
}

func TestPlayGameOverCancelsSubmission(t *testing.T) {
	backend := newFakeBackend(0, 0, 0, 0)
	var out bytes.Buffer
	player := NewPlayer(backend, scriptedInput("b", "b", "b", "quit"), &out, testPlayerOptions(nil))

	if err := player.Play(context.Background(), "Module1_quiz"); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	if got := strings.Join(backend.calls, ","); got != "start,answer,answer" {
		t.Fatalf("third answer must not be submitted, calls = %s", got)
	}
	if !strings.Contains(out.String(), "Game Over! Score: 0") {
		t.Fatalf("expected game over screen, got:\n%s", out.String())
	}
}

func TestPlayPreviousResetsLocalProgress(t *testing.T) {
	backend := newFakeBackend(0, 1)
	var out bytes.Buffer
	player := NewPlayer(backend, scriptedInput("b", "prev", "quit"), &out, testPlayerOptions(nil))

	if err := player.Play(context.Background(), "Module1_quiz"); err != nil {
		t.Fatalf("Play failed: %v", err)
	}

	if got := strings.Join(backend.calls, ","); got != "start,answer,prev" {
		t.Fatalf("calls = %s", got)
	}
	if strings.Count(out.String(), "Question 1 of 2  Score: 0  Lives: ♥♥♥") != 2 {
		t.Fatalf("expected full lives after going back, got:\n%s", out.String())
	}
}

func TestPlayRestartFromResult(t *testing.T) {
	backend := newFakeBackend(0)
	var out bytes.Buffer
	player := NewPlayer(backend, scriptedInput("a", "restart", "quit"), &out, testPlayerOptions(nil))

	if err := player.Play(context.Background(), "Module1_quiz"); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if got := strings.Join(backend.calls, ","); got != "start,answer,restart" {
		t.Fatalf("calls = %s", got)
	}
}

func TestPlayQuitWhileSubmissionPendingCancelsIt(t *testing.T) {
	backend := newFakeBackend(0, 1)
	opts := testPlayerOptions(nil)
	opts.After = func(time.Duration) <-chan time.Time { return make(chan time.Time) }
	var out bytes.Buffer
	player := NewPlayer(backend, scriptedInput("a", "quit"), &out, opts)

	if err := player.Play(context.Background(), "Module1_quiz"); err != nil {
		t.Fatalf("Play failed: %v", err)
	}
	if got := strings.Join(backend.calls, ","); got != "start" {
		t.Fatalf("pending answer must not be submitted, calls = %s", got)
	}
	if !strings.Contains(out.String(), "Submission cancelled.") {
		t.Fatalf("expected cancellation notice, got:\n%s", out.String())
	}
}

func TestPlayKeepsLineTypedWhileSubmissionPending(t *testing.T) {
	backend := newFakeBackend(0, 1)
	after := make(chan time.Time, 1)
	opts := testPlayerOptions(nil)
	opts.After = func(time.Duration) <-chan time.Time { return after }
	input := make(chan string)
	var out bytes.Buffer
	player := NewPlayer(backend, input, &out, opts)

	done := make(chan error, 1)
	go func() { done <- player.Play(context.Background(), "Module1_quiz") }()

	input <- "a"
	input <- "b"
	after <- time.Time{}
	after <- time.Time{}
	close(input)

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Play failed: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("Play did not return")
	}
	if got := strings.Join(backend.calls, ","); got != "start,answer,answer" {
		t.Fatalf("calls = %s, want start,answer,answer", got)
	}
}
