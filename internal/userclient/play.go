package userclient

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"finquiz/internal/gameloop"
)

var errQuit = errors.New("player quit")

type PlayerOptions struct {
	Game gameloop.Config
	// NewTicker returns the one-second countdown and its stop function.
	NewTicker func() (<-chan time.Time, func())
	// After delays a submission so the feedback stays on screen.
	After func(time.Duration) <-chan time.Time
}

// Player runs the countdown, lives and score for one quiz in a terminal.
// Score and lives are local only; the result page shows the real score.
type Player struct {
	backend Backend
	input   <-chan string
	out     io.Writer
	opts    PlayerOptions
	storage gameloop.Storage
	// pending holds a line typed while a submission was waiting.
	pending chan string
}

func NewPlayer(backend Backend, input <-chan string, out io.Writer, opts PlayerOptions) *Player {
	if opts.NewTicker == nil {
		opts.NewTicker = func() (<-chan time.Time, func()) {
			ticker := time.NewTicker(time.Second)
			return ticker.C, ticker.Stop
		}
	}
	if opts.After == nil {
		opts.After = time.After
	}
	if opts.Game == (gameloop.Config{}) {
		opts.Game = gameloop.DefaultConfig()
	}
	if opts.Game.MaxLives <= 0 {
		opts.Game.MaxLives = gameloop.DefaultMaxLives
	}

	return &Player{
		backend: backend,
		input:   input,
		out:     out,
		opts:    opts,
		storage: gameloop.NewMemoryStorage(),
		pending: make(chan string, 1),
	}
}

// Play runs quizID until the player quits or the input ends.
func (p *Player) Play(ctx context.Context, quizID string) error {
	page, err := p.backend.Start(ctx, quizID)
	continuation := false

	for {
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			return err
		}

		switch page.View {
		case viewQuestion:
			page, continuation, err = p.playQuestion(ctx, page, continuation)
		case viewResult:
			page, continuation, err = p.showResult(ctx, page)
		default:
			return fmt.Errorf("unexpected quiz view %q", page.View)
		}
	}
}

func (p *Player) playQuestion(ctx context.Context, page Page, continuation bool) (Page, bool, error) {
	question := page.Question
	if question == nil {
		return Page{}, false, errors.New("question view without a question")
	}

	cfg := p.opts.Game
	if question.TimeLimit > 0 {
		cfg.TimeLimit = question.TimeLimit
	}
	loop := gameloop.New(cfg, p.storage, continuation)
	loop.StartQuestion(question.CorrectIndex)
	printQuestion(p.out, page, loop)

	ticks, stop := p.opts.NewTicker()
	defer stop()
	level := loop.Level()

	for {
		line, ok := p.takePending()
		if !ok {
			select {
			case <-ctx.Done():
				return Page{}, false, ctx.Err()
			case <-ticks:
				event, fired := loop.Tick()
				if fired {
					fmt.Fprintf(p.out, "\nTime's up! The correct answer was %s.\n", optionLabel(question.Options, event.CorrectIndex))
					return p.submit(ctx, page.QuizID, event)
				}
				if current := loop.Level(); current != level {
					level = current
					fmt.Fprintf(p.out, "\n%ds left\n", loop.Remaining())
				}
				continue
			case line, ok = <-p.input:
				if !ok {
					return Page{}, false, errQuit
				}
			}
		}

		command := normalizeCommand(line)
		switch command {
		case "":
			continue
		case "quit", "exit":
			return Page{}, false, errQuit
		case "prev":
			if question.Number <= 1 {
				fmt.Fprintln(p.out, "Already at the first question.")
				continue
			}
			loop.Back()
			next, err := p.backend.Previous(ctx, page.QuizID)
			return next, false, err
		case "restart":
			next, err := p.backend.Restart(ctx, page.QuizID)
			return next, false, err
		}

		index, ok := parseOptionLetter(command, len(question.Options))
		if !ok {
			fmt.Fprintf(p.out, "Invalid input. Enter a letter A-%c, prev, restart or quit.\n", maxOptionLetter(len(question.Options)))
			continue
		}
		event, err := loop.Select(index)
		if err != nil {
			continue
		}
		if event.Feedback == gameloop.FeedbackCorrect {
			fmt.Fprintln(p.out, "Correct!")
		} else {
			fmt.Fprintf(p.out, "Wrong. The correct answer was %s.\n", optionLabel(question.Options, event.CorrectIndex))
		}
		return p.submit(ctx, page.QuizID, event)
	}
}

func (p *Player) submit(ctx context.Context, quizID string, event gameloop.Event) (Page, bool, error) {
	fmt.Fprintf(p.out, "Score: %d  Lives: %s\n", event.Score, hearts(event.Lives, p.opts.Game.MaxLives))

	if event.GameOver || event.Submission == nil {
		fmt.Fprintf(p.out, "\nGame Over! Score: %d\nYou ran out of lives!\n", event.Score)
		return p.afterGameOver(ctx, quizID)
	}

	if err := p.awaitSubmission(ctx, event.Submission.Delay); err != nil {
		return Page{}, false, err
	}

	var (
		next Page
		err  error
	)
	switch event.Submission.Kind {
	case gameloop.SubmitTimeout:
		next, err = p.backend.Timeout(ctx, quizID)
	default:
		next, err = p.backend.Answer(ctx, quizID, event.Submission.Index)
	}
	return next, true, err
}

// awaitSubmission waits out the feedback delay. quit abandons the pending
// submission; any other line is kept for the next prompt.
func (p *Player) awaitSubmission(ctx context.Context, delay time.Duration) error {
	wait := p.opts.After(delay)
	input := p.input
	for {
		select {
		case <-wait:
			return nil
		default:
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-wait:
			return nil
		case line, ok := <-input:
			input = nil
			if !ok {
				continue
			}
			switch normalizeCommand(line) {
			case "quit", "exit":
				fmt.Fprintln(p.out, "Submission cancelled.")
				return errQuit
			}
			p.pending <- line
		}
	}
}

func (p *Player) takePending() (string, bool) {
	select {
	case line := <-p.pending:
		return line, true
	default:
		return "", false
	}
}

func (p *Player) afterGameOver(ctx context.Context, quizID string) (Page, bool, error) {
	for {
		fmt.Fprint(p.out, "Type restart to play again or quit to leave: ")
		command, err := p.nextCommand(ctx)
		if err != nil {
			return Page{}, false, err
		}
		switch command {
		case "restart":
			next, err := p.backend.Restart(ctx, quizID)
			return next, false, err
		case "quit", "exit":
			return Page{}, false, errQuit
		}
	}
}

func (p *Player) showResult(ctx context.Context, page Page) (Page, bool, error) {
	if page.Result == nil {
		return Page{}, false, errors.New("result view without a result")
	}
	printResult(p.out, page)

	for {
		fmt.Fprint(p.out, "\ndetails | hide | restart | quit > ")
		command, err := p.nextCommand(ctx)
		if err != nil {
			return Page{}, false, err
		}

		switch command {
		case "":
			continue
		case "details":
			next, err := p.backend.ShowDetails(ctx, page.QuizID)
			return next, false, err
		case "hide":
			next, err := p.backend.HideDetails(ctx, page.QuizID)
			return next, false, err
		case "restart":
			next, err := p.backend.Restart(ctx, page.QuizID)
			return next, false, err
		case "quit", "exit":
			return Page{}, false, errQuit
		default:
			fmt.Fprintln(p.out, "unknown command.")
		}
	}
}

func (p *Player) nextCommand(ctx context.Context) (string, error) {
	if line, ok := p.takePending(); ok {
		return normalizeCommand(line), nil
	}
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line, ok := <-p.input:
		if !ok {
			return "", errQuit
		}
		return normalizeCommand(line), nil
	}
}

func normalizeCommand(line string) string {
	return strings.ToLower(strings.TrimSpace(line))
}
