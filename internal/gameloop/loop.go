// Package gameloop keeps the countdown, lives and score shown while a quiz is
// played. It is advisory: the server recomputes the real score from the
// submitted answers.
package gameloop

import (
	"errors"
	"time"
)

const (
	DefaultTimeLimit    = 30
	DefaultMaxLives     = 3
	WrongAnswerPenalty  = 1
	TimeoutPenalty      = 2
	DefaultAnswerDelay  = 4 * time.Second
	DefaultTimeoutDelay = 1200 * time.Millisecond

	warningThreshold  = 20
	criticalThreshold = 10
)

var (
	ErrLocked   = errors.New("question is locked")
	ErrGameOver = errors.New("game over")
)

type Config struct {
	TimeLimit    int
	MaxLives     int
	AnswerDelay  time.Duration
	TimeoutDelay time.Duration
}

func DefaultConfig() Config {
	return Config{
		TimeLimit:    DefaultTimeLimit,
		MaxLives:     DefaultMaxLives,
		AnswerDelay:  DefaultAnswerDelay,
		TimeoutDelay: DefaultTimeoutDelay,
	}
}

type TimerLevel string

const (
	TimerNormal   TimerLevel = "normal"
	TimerWarning  TimerLevel = "warning"
	TimerCritical TimerLevel = "critical"
)

type Feedback string

const (
	FeedbackCorrect Feedback = "correct"
	FeedbackWrong   Feedback = "wrong"
	FeedbackTimeout Feedback = "timeout"
)

type SubmissionKind string

const (
	SubmitAnswer  SubmissionKind = "answer"
	SubmitTimeout SubmissionKind = "timed_out"
)

// Submission is the form post the caller sends once Delay has elapsed.
type Submission struct {
	Kind  SubmissionKind
	Index int
	Delay time.Duration
}

// Event reports what happened to the current question. Submission is nil
// once the game is over.
type Event struct {
	Feedback     Feedback
	Selected     int
	CorrectIndex int
	Score        int
	Lives        int
	GameOver     bool
	Submission   *Submission
}

// Loop is driven by a single caller: one Tick per second and at most one
// Select per question.
type Loop struct {
	cfg     Config
	storage Storage

	score     int
	lives     int
	remaining int
	correct   int
	locked    bool
	gameOver  bool
}

// New starts a play session. A fresh start clears stored progress; a
// continuation picks it up.
func New(cfg Config, storage Storage, continuation bool) *Loop {
	defaults := DefaultConfig()
	if cfg.TimeLimit <= 0 {
		cfg.TimeLimit = defaults.TimeLimit
	}
	if cfg.MaxLives <= 0 {
		cfg.MaxLives = defaults.MaxLives
	}
	if cfg.AnswerDelay < 0 {
		cfg.AnswerDelay = defaults.AnswerDelay
	}
	if cfg.TimeoutDelay < 0 {
		cfg.TimeoutDelay = defaults.TimeoutDelay
	}
	if storage == nil {
		storage = NewMemoryStorage()
	}

	l := &Loop{
		cfg:     cfg,
		storage: storage,
		lives:   cfg.MaxLives,
		locked:  true,
	}
	if !continuation {
		storage.Clear()
	} else if progress, ok := storage.Load(); ok && progress.Lives > 0 {
		l.score = progress.Score
		l.lives = progress.Lives
	}
	return l
}

// StartQuestion resets the countdown and unlocks input for a new question.
func (l *Loop) StartQuestion(correctIndex int) {
	l.correct = correctIndex
	l.remaining = l.cfg.TimeLimit
	l.locked = l.gameOver
}

// Tick advances the countdown by one second. It reports an event only when
// the time runs out on an unanswered question.
func (l *Loop) Tick() (Event, bool) {
	if l.locked || l.gameOver {
		return Event{}, false
	}

	l.remaining--
	if l.remaining > 0 {
		return Event{}, false
	}

	l.remaining = 0
	l.locked = true
	l.lives -= TimeoutPenalty
	event := l.finish(FeedbackTimeout, -1)
	if !event.GameOver {
		event.Submission = &Submission{Kind: SubmitTimeout, Delay: l.cfg.TimeoutDelay}
	}
	return event, true
}

func (l *Loop) Select(index int) (Event, error) {
	if l.gameOver {
		return Event{}, ErrGameOver
	}
	if l.locked {
		return Event{}, ErrLocked
	}
	l.locked = true

	feedback := FeedbackWrong
	if index == l.correct {
		feedback = FeedbackCorrect
		l.score++
	} else {
		l.lives -= WrongAnswerPenalty
	}

	event := l.finish(feedback, index)
	if !event.GameOver {
		event.Submission = &Submission{Kind: SubmitAnswer, Index: index, Delay: l.cfg.AnswerDelay}
	}
	return event, nil
}

// Back abandons stored progress, as going to a previous question does.
func (l *Loop) Back() {
	l.storage.Clear()
}

func (l *Loop) finish(feedback Feedback, selected int) Event {
	if l.lives <= 0 {
		l.lives = 0
		l.gameOver = true
		l.storage.Clear()
	} else {
		l.storage.Save(Progress{Score: l.score, Lives: l.lives})
	}

	return Event{
		Feedback:     feedback,
		Selected:     selected,
		CorrectIndex: l.correct,
		Score:        l.score,
		Lives:        l.lives,
		GameOver:     l.gameOver,
	}
}

func (l *Loop) Score() int     { return l.score }
func (l *Loop) Lives() int     { return l.lives }
func (l *Loop) Remaining() int { return l.remaining }
func (l *Loop) Locked() bool   { return l.locked }
func (l *Loop) GameOver() bool { return l.gameOver }
func (l *Loop) MaxLives() int  { return l.cfg.MaxLives }
func (l *Loop) TimeLimit() int { return l.cfg.TimeLimit }

func (l *Loop) Level() TimerLevel {
	switch {
	case l.remaining <= criticalThreshold:
		return TimerCritical
	case l.remaining <= warningThreshold:
		return TimerWarning
	default:
		return TimerNormal
	}
}
