package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"
)

type Participant struct {
	UserID    int64
	SessionID string
}

// Navigation describes a GET on the quiz page. A request with neither flag is
// a fresh landing and restarts the attempt.
type Navigation struct {
	Continue bool
	Previous bool
}

type QuestionView struct {
	QuizID        string
	Title         string
	Description   string
	Number        int
	Total         int
	Question      Question
	SelectedIndex *int
}

type ResultView struct {
	QuizID      string
	Title       string
	Result      AttemptResult
	ShowDetails bool
	Saved       bool
}

// Outcome is what the caller renders. When Redirect is set the caller must
// answer with a redirect to the continuation view instead of rendering, so a
// browser refresh cannot resubmit the step.
type Outcome struct {
	QuizID   string
	Redirect bool
	Question *QuestionView
	Result   *ResultView
}

// Controller drives attempts for one quiz. State lives in the session store
// under (session id, quiz id); the controller itself holds none.
type Controller struct {
	bank     *Bank
	scorer   *Scorer
	sessions SessionStore
	results  ResultStore
	logger   *log.Logger
	now      func() time.Time
}

func NewController(bank *Bank, sessions SessionStore, results ResultStore, logger *log.Logger) (*Controller, error) {
	if bank == nil || bank.Count() == 0 {
		return nil, ErrEmptyQuiz
	}
	if sessions == nil {
		return nil, errors.New("session store is not configured")
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Controller{
		bank:     bank,
		scorer:   NewScorer(bank),
		sessions: sessions,
		results:  results,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (c *Controller) Bank() *Bank { return c.bank }

func (c *Controller) View(ctx context.Context, p Participant, nav Navigation) (Outcome, error) {
	if !nav.Continue && !nav.Previous {
		session := NewSession(c.bank.ID())
		if err := c.save(ctx, p, &session); err != nil {
			return Outcome{}, err
		}
		return c.render(session), nil
	}

	if nav.Previous {
		return c.GoToPrevious(ctx, p)
	}

	session, err := c.load(ctx, p)
	if err != nil {
		return Outcome{}, err
	}
	return c.render(session), nil
}

// SubmitAnswer records raw form input for the current question. A malformed
// or out-of-range value is logged and treated like a timeout.
func (c *Controller) SubmitAnswer(ctx context.Context, p Participant, raw string) (Outcome, error) {
	session, err := c.load(ctx, p)
	if err != nil {
		return Outcome{}, err
	}
	if session.Completed {
		return c.render(session), nil
	}

	questionID := QuestionID(session.CurrentIndex)
	selected, parseErr := ParseSelection(raw)
	if parseErr == nil {
		question, _ := c.bank.QuestionByID(questionID)
		if selected < 0 || selected >= len(question.Options) {
			parseErr = fmt.Errorf("%w: option %d out of range", ErrInvalidAnswer, selected)
		}
	}

	if parseErr != nil {
		c.logger.Printf("quiz %s: user %d answer %q for %s ignored: %v", c.bank.ID(), p.UserID, raw, questionID, parseErr)
	} else {
		session.Answers[questionID] = selected
	}

	return c.advance(ctx, p, session)
}

// SubmitTimeout advances without recording an answer, so a timed-out
// question is reported as not answered and never earns credit.
func (c *Controller) SubmitTimeout(ctx context.Context, p Participant) (Outcome, error) {
	session, err := c.load(ctx, p)
	if err != nil {
		return Outcome{}, err
	}
	if session.Completed {
		return c.render(session), nil
	}
	return c.advance(ctx, p, session)
}

func (c *Controller) GoToPrevious(ctx context.Context, p Participant) (Outcome, error) {
	session, err := c.load(ctx, p)
	if err != nil {
		return Outcome{}, err
	}
	if session.Completed {
		return c.render(session), nil
	}

	if session.CurrentIndex > 1 {
		session.CurrentIndex--
		if err := c.save(ctx, p, &session); err != nil {
			return Outcome{}, err
		}
	}
	return c.render(session), nil
}

func (c *Controller) Restart(ctx context.Context, p Participant) (Outcome, error) {
	key := SessionKey{SessionID: p.SessionID, QuizID: c.bank.ID()}
	if err := c.sessions.DeleteSession(ctx, key); err != nil {
		return Outcome{}, fmt.Errorf("discard session: %w", err)
	}

	session := NewSession(c.bank.ID())
	if err := c.save(ctx, p, &session); err != nil {
		return Outcome{}, err
	}
	return c.render(session), nil
}

func (c *Controller) ShowDetails(ctx context.Context, p Participant) (Outcome, error) {
	return c.setDetails(ctx, p, true)
}

func (c *Controller) HideDetails(ctx context.Context, p Participant) (Outcome, error) {
	return c.setDetails(ctx, p, false)
}

func (c *Controller) setDetails(ctx context.Context, p Participant, show bool) (Outcome, error) {
	session, err := c.load(ctx, p)
	if err != nil {
		return Outcome{}, err
	}
	if !session.Completed {
		return Outcome{QuizID: c.bank.ID(), Redirect: true}, nil
	}

	session.ShowDetails = show
	if err := c.save(ctx, p, &session); err != nil {
		return Outcome{}, err
	}
	return c.render(session), nil
}

func (c *Controller) advance(ctx context.Context, p Participant, session Session) (Outcome, error) {
	if session.CurrentIndex < c.bank.Count() {
		session.CurrentIndex++
		if err := c.save(ctx, p, &session); err != nil {
			return Outcome{}, err
		}
		return Outcome{QuizID: c.bank.ID(), Redirect: true}, nil
	}

	result := c.scorer.BuildResult(session.Answers)
	session.Completed = true
	session.ShowDetails = false
	session.ResultSaved = c.persist(ctx, p, result)
	if err := c.save(ctx, p, &session); err != nil {
		return Outcome{}, err
	}

	return Outcome{
		QuizID: c.bank.ID(),
		Result: &ResultView{
			QuizID: c.bank.ID(),
			Title:  c.bank.Title(),
			Result: result,
			Saved:  session.ResultSaved,
		},
	}, nil
}

// persist writes the attempt once. Failures are logged and reported to the
// view; they never hide the computed result.
func (c *Controller) persist(ctx context.Context, p Participant, result AttemptResult) bool {
	if c.results == nil {
		return false
	}

	attemptID, err := c.results.SaveAttempt(ctx, Attempt{
		UserID:      p.UserID,
		QuizID:      c.bank.ID(),
		Score:       result.Score,
		Total:       result.Total,
		Percentage:  result.Percentage,
		CompletedAt: c.now(),
	})
	if err != nil {
		c.logger.Printf("quiz %s: saving result for user %d failed: %v", c.bank.ID(), p.UserID, err)
		return false
	}

	c.logger.Printf("quiz %s: user %d scored %d/%d (attempt %d)", c.bank.ID(), p.UserID, result.Score, result.Total, attemptID)
	return true
}

func (c *Controller) render(session Session) Outcome {
	if session.Completed {
		return Outcome{
			QuizID: c.bank.ID(),
			Result: &ResultView{
				QuizID:      c.bank.ID(),
				Title:       c.bank.Title(),
				Result:      c.scorer.BuildResult(session.Answers),
				ShowDetails: session.ShowDetails,
				Saved:       session.ResultSaved,
			},
		}
	}

	number := clampIndex(session.CurrentIndex, c.bank.Count())
	questionID := QuestionID(number)
	question, _ := c.bank.QuestionByID(questionID)

	view := &QuestionView{
		QuizID:      c.bank.ID(),
		Title:       c.bank.Title(),
		Description: c.bank.Description(),
		Number:      number,
		Total:       c.bank.Count(),
		Question:    question,
	}
	if selected, ok := session.Answers[questionID]; ok {
		selectedCopy := selected
		view.SelectedIndex = &selectedCopy
	}

	return Outcome{QuizID: c.bank.ID(), Question: view}
}

func (c *Controller) load(ctx context.Context, p Participant) (Session, error) {
	key := SessionKey{SessionID: p.SessionID, QuizID: c.bank.ID()}
	session, ok, err := c.sessions.LoadSession(ctx, key)
	if err != nil {
		return Session{}, fmt.Errorf("load quiz session: %w", err)
	}
	if !ok {
		return NewSession(c.bank.ID()), nil
	}
	if session.Answers == nil {
		session.Answers = make(map[string]int)
	}
	// A bank edited after the session started may have fewer questions.
	session.CurrentIndex = clampIndex(session.CurrentIndex, c.bank.Count())
	return session, nil
}

func (c *Controller) save(ctx context.Context, p Participant, session *Session) error {
	session.QuizID = c.bank.ID()
	session.UpdatedAt = c.now()
	key := SessionKey{SessionID: p.SessionID, QuizID: c.bank.ID()}
	if err := c.sessions.SaveSession(ctx, key, *session); err != nil {
		return fmt.Errorf("save quiz session: %w", err)
	}
	return nil
}

func clampIndex(index, total int) int {
	if index < 1 {
		return 1
	}
	if index > total {
		return total
	}
	return index
}
