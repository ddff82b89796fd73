package quiz

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	"finquiz/internal/opentdb"
)

const DefaultQuizID = "Module1_quiz"

type QuestionsFetcher func(ctx context.Context, amount int) ([]opentdb.RawQuestion, error)

// BankWriter persists imported banks. DirSource implements it.
type BankWriter interface {
	Save(ctx context.Context, q Quiz) error
}

type ServiceOptions struct {
	DefaultQuiz string
	Fetcher     QuestionsFetcher
	Writer      BankWriter
	Logger      *log.Logger
}

// Service resolves which quiz a participant is playing and hands out
// controllers for it. Banks are loaded once and cached.
type Service struct {
	source      Source
	sessions    SessionStore
	results     ResultStore
	fetcher     QuestionsFetcher
	writer      BankWriter
	logger      *log.Logger
	defaultQuiz string

	mu          sync.RWMutex
	controllers map[string]*Controller
}

func NewService(source Source, sessions SessionStore, results ResultStore, opts ServiceOptions) *Service {
	defaultQuiz := strings.TrimSpace(opts.DefaultQuiz)
	if defaultQuiz == "" {
		defaultQuiz = DefaultQuizID
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	return &Service{
		source:      source,
		sessions:    sessions,
		results:     results,
		fetcher:     opts.Fetcher,
		writer:      opts.Writer,
		logger:      logger,
		defaultQuiz: defaultQuiz,
		controllers: make(map[string]*Controller),
	}
}

func (s *Service) DefaultQuiz() string { return s.defaultQuiz }

// Enter picks the quiz for this request: the requested id when given, else
// the quiz remembered for the session, else the default. The choice is
// remembered so POSTs without a quiz parameter stay on the same quiz.
func (s *Service) Enter(ctx context.Context, p Participant, requested string) (*Controller, error) {
	quizID, err := s.resolveQuizID(ctx, p, strings.TrimSpace(requested))
	if err != nil {
		return nil, err
	}

	controller, err := s.Controller(ctx, quizID)
	if err != nil {
		return nil, err
	}

	if err := s.sessions.SetCurrentQuiz(ctx, p.SessionID, quizID); err != nil {
		return nil, fmt.Errorf("remember current quiz: %w", err)
	}
	return controller, nil
}

func (s *Service) resolveQuizID(ctx context.Context, p Participant, requested string) (string, error) {
	if requested != "" {
		if !s.source.Exists(ctx, requested) {
			return "", fmt.Errorf("%w: %s", ErrQuizNotFound, requested)
		}
		return requested, nil
	}

	current, ok, err := s.sessions.CurrentQuiz(ctx, p.SessionID)
	if err != nil {
		return "", fmt.Errorf("load current quiz: %w", err)
	}
	if ok && s.source.Exists(ctx, current) {
		return current, nil
	}

	if !s.source.Exists(ctx, s.defaultQuiz) {
		return "", fmt.Errorf("%w: %s", ErrQuizNotFound, s.defaultQuiz)
	}
	return s.defaultQuiz, nil
}

func (s *Service) Controller(ctx context.Context, quizID string) (*Controller, error) {
	if controller, ok := s.getCachedController(quizID); ok {
		return controller, nil
	}

	// A bank that exists but cannot be loaded is treated like a missing one.
	q, err := s.source.Load(ctx, quizID)
	if err != nil {
		s.logger.Printf("quiz %s unavailable: %v", quizID, err)
		return nil, fmt.Errorf("%w: %w", ErrQuizNotFound, err)
	}
	bank, err := NewBank(q)
	if err != nil {
		s.logger.Printf("quiz %s unavailable: %v", quizID, err)
		return nil, fmt.Errorf("%w: %w", ErrQuizNotFound, err)
	}
	controller, err := NewController(bank, s.sessions, s.results, s.logger)
	if err != nil {
		return nil, err
	}

	return s.setCachedController(quizID, controller), nil
}

func (s *Service) ListQuizzes(ctx context.Context) ([]QuizSummary, error) {
	return s.source.List(ctx)
}

func (s *Service) History(ctx context.Context, userID int64, limit int) ([]PersistedAttempt, error) {
	if s.results == nil {
		return []PersistedAttempt{}, nil
	}
	return s.results.History(ctx, userID, limit)
}

func (s *Service) BestScore(ctx context.Context, userID int64) (BestScore, error) {
	if s.results == nil {
		return BestScore{}, nil
	}
	return s.results.BestScore(ctx, userID)
}

// Import fetches trivia questions and writes them as a new bank.
func (s *Service) Import(ctx context.Context, quizID, title string, amount int) (Quiz, error) {
	if s.fetcher == nil {
		return Quiz{}, errors.New("question fetcher is not configured")
	}
	if s.writer == nil {
		return Quiz{}, errors.New("bank writer is not configured")
	}
	if !ValidQuizID(quizID) {
		return Quiz{}, fmt.Errorf("invalid quiz id %q", quizID)
	}

	raw, err := s.fetcher(ctx, amount)
	if err != nil {
		return Quiz{}, err
	}

	q := Quiz{
		ID:        quizID,
		Title:     strings.TrimSpace(title),
		Questions: BuildQuestions(raw),
	}
	if q.Title == "" {
		q.Title = quizID
	}
	if err := s.writer.Save(ctx, q); err != nil {
		return Quiz{}, err
	}

	s.invalidateController(quizID)
	s.logger.Printf("imported %d questions into %s", len(q.Questions), quizID)
	return q, nil
}
