package gameloop

import (
	"errors"
	"testing"
)

func TestFreshStartClearsStoredProgress(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Save(Progress{Score: 4, Lives: 1})

	loop := New(DefaultConfig(), storage, false)
	if loop.Score() != 0 || loop.Lives() != DefaultMaxLives {
		t.Fatalf("fresh start should reset, got score=%d lives=%d", loop.Score(), loop.Lives())
	}
	if _, ok := storage.Load(); ok {
		t.Fatalf("fresh start should clear storage")
	}
}

func TestContinuationRestoresProgress(t *testing.T) {
	storage := NewMemoryStorage()
	storage.Save(Progress{Score: 2, Lives: 1})

	loop := New(DefaultConfig(), storage, true)
	if loop.Score() != 2 || loop.Lives() != 1 {
		t.Fatalf("expected restored progress, got score=%d lives=%d", loop.Score(), loop.Lives())
	}
}

func TestSelectCorrectAndWrong(t *testing.T) {
	storage := NewMemoryStorage()
	loop := New(DefaultConfig(), storage, false)

	loop.StartQuestion(2)
	event, err := loop.Select(2)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if event.Feedback != FeedbackCorrect || event.Score != 1 || event.Lives != 3 {
		t.Fatalf("unexpected event: %+v", event)
	}
	if event.Submission == nil || event.Submission.Kind != SubmitAnswer || event.Submission.Index != 2 || event.Submission.Delay != DefaultAnswerDelay {
		t.Fatalf("unexpected submission: %+v", event.Submission)
	}
	if _, err := loop.Select(1); !errors.Is(err, ErrLocked) {
		t.Fatalf("second select should be locked, got %v", err)
	}

	loop.StartQuestion(0)
	event, err = loop.Select(1)
	if err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if event.Feedback != FeedbackWrong || event.Lives != 2 || event.CorrectIndex != 0 {
		t.Fatalf("unexpected event: %+v", event)
	}

	progress, ok := storage.Load()
	if !ok || progress != (Progress{Score: 1, Lives: 2}) {
		t.Fatalf("unexpected stored progress: %+v", progress)
	}
}

func TestTimeoutCostsTwoLivesAndSubmits(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeLimit = 3
	loop := New(cfg, NewMemoryStorage(), false)
	loop.StartQuestion(1)

	for i := 0; i < 2; i++ {
		if _, fired := loop.Tick(); fired {
			t.Fatalf("timer fired early at tick %d", i+1)
		}
	}
	event, fired := loop.Tick()
	if !fired {
		t.Fatalf("expected timeout on third tick")
	}
	if event.Feedback != FeedbackTimeout || event.Lives != 1 || event.CorrectIndex != 1 {
		t.Fatalf("unexpected timeout event: %+v", event)
	}
	if event.Submission == nil || event.Submission.Kind != SubmitTimeout || event.Submission.Delay != DefaultTimeoutDelay {
		t.Fatalf("unexpected submission: %+v", event.Submission)
	}
	if !loop.Locked() {
		t.Fatalf("timeout should lock input")
	}
	if _, fired := loop.Tick(); fired {
		t.Fatalf("timer must not fire twice")
	}
}

func TestAnsweredQuestionStopsTimer(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TimeLimit = 1
	loop := New(cfg, NewMemoryStorage(), false)
	loop.StartQuestion(0)

	if _, err := loop.Select(0); err != nil {
		t.Fatalf("Select failed: %v", err)
	}
	if _, fired := loop.Tick(); fired {
		t.Fatalf("answered question must not time out")
	}
}

func TestGameOverClearsStorageAndCancelsSubmission(t *testing.T) {
	storage := NewMemoryStorage()
	cfg := DefaultConfig()
	cfg.TimeLimit = 1
	loop := New(cfg, storage, false)

	loop.StartQuestion(0)
	if _, err := loop.Select(1); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	loop.StartQuestion(0)
	event, fired := loop.Tick()
	if !fired {
		t.Fatalf("expected timeout")
	}
	if !event.GameOver || event.Lives != 0 || event.Submission != nil {
		t.Fatalf("expected game over without submission, got %+v", event)
	}
	if _, ok := storage.Load(); ok {
		t.Fatalf("game over should clear storage")
	}

	loop.StartQuestion(0)
	if _, err := loop.Select(0); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
}

func TestBackClearsStorage(t *testing.T) {
	storage := NewMemoryStorage()
	loop := New(DefaultConfig(), storage, false)
	loop.StartQuestion(0)
	if _, err := loop.Select(0); err != nil {
		t.Fatalf("Select failed: %v", err)
	}

	loop.Back()
	if _, ok := storage.Load(); ok {
		t.Fatalf("back should clear storage")
	}
}

func TestTimerLevels(t *testing.T) {
	loop := New(DefaultConfig(), nil, false)
	loop.StartQuestion(0)

	if loop.Level() != TimerNormal {
		t.Fatalf("expected normal at %d", loop.Remaining())
	}
	for loop.Remaining() > 20 {
		loop.Tick()
	}
	if loop.Level() != TimerWarning {
		t.Fatalf("expected warning at %d", loop.Remaining())
	}
	for loop.Remaining() > 10 {
		loop.Tick()
	}
	if loop.Level() != TimerCritical {
		t.Fatalf("expected critical at %d", loop.Remaining())
	}
}
