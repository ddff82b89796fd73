package httpapi

import (
	"log"

	"finquiz/internal/quiz"
)

type Options struct {
	// LandingURL receives players who ask for a quiz that does not exist.
	LandingURL string
	// TimeLimit is the per-question countdown, in seconds, the client shows.
	TimeLimit int
}

type API struct {
	service *quiz.Service
	opts    Options
	logger  *log.Logger
}

func NewAPI(service *quiz.Service, opts Options, logger *log.Logger) *API {
	if opts.LandingURL == "" {
		opts.LandingURL = "/quizzes"
	}
	if opts.TimeLimit <= 0 {
		opts.TimeLimit = 30
	}
	if logger == nil {
		logger = log.Default()
	}
	return &API{
		service: service,
		opts:    opts,
		logger:  logger,
	}
}
