package httpapi

import (
	"log"
	"net/http"

	"finquiz/internal/auth"
	"finquiz/internal/quiz"
)

func NewRouter(service *quiz.Service, tokens *auth.Tokens, loginURL string, opts Options, logger *log.Logger) http.Handler {
	api := NewAPI(service, opts, logger)

	protected := http.NewServeMux()
	protected.HandleFunc("/quiz", api.HandleQuiz)
	protected.HandleFunc("/quizzes", api.HandleQuizzes)
	protected.HandleFunc("/results", api.HandleResults)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", api.HandleHealth)
	mux.Handle("/", auth.Require(tokens, loginURL, protected))

	return logRequests(api.logger, mux)
}
