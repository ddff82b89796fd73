package session

import (
	"log"
	"time"

	"github.com/go-co-op/gocron"
)

type Sweeper interface {
	Sweep() int
}

// Janitor periodically evicts idle sessions from a memory store.
type Janitor struct {
	scheduler *gocron.Scheduler
	store     Sweeper
	logger    *log.Logger
}

func NewJanitor(store Sweeper, logger *log.Logger) *Janitor {
	if logger == nil {
		logger = log.Default()
	}
	return &Janitor{
		scheduler: gocron.NewScheduler(time.UTC),
		store:     store,
		logger:    logger,
	}
}

func (j *Janitor) Start(interval time.Duration) error {
	if interval <= 0 {
		interval = 10 * time.Minute
	}
	if _, err := j.scheduler.Every(interval).Do(j.sweep); err != nil {
		return err
	}
	j.scheduler.StartAsync()
	return nil
}

func (j *Janitor) Stop() {
	j.scheduler.Stop()
}

func (j *Janitor) sweep() {
	if removed := j.store.Sweep(); removed > 0 {
		j.logger.Printf("session janitor: evicted %d idle entries", removed)
	}
}
