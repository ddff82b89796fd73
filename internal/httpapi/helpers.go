package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"finquiz/internal/quiz"
)

func (a *API) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, quiz.ErrQuizNotFound):
		http.Redirect(w, r, a.opts.LandingURL, http.StatusSeeOther)
	default:
		a.logger.Printf("request failed: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "request failed"})
	}
}

func (a *API) writeOutcome(w http.ResponseWriter, r *http.Request, controller *quiz.Controller, outcome quiz.Outcome) {
	if outcome.Redirect {
		http.Redirect(w, r, continuationURL(outcome.QuizID), http.StatusSeeOther)
		return
	}

	bank := controller.Bank()
	page := pageResponse{
		QuizID:      bank.ID(),
		Title:       bank.Title(),
		Description: bank.Description(),
	}

	switch {
	case outcome.Result != nil:
		page.View = viewResult
		page.Result = toResultPayload(*outcome.Result)
	case outcome.Question != nil:
		page.View = viewQuestion
		page.Question = toQuestionPayload(*outcome.Question, a.opts.TimeLimit)
	default:
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "nothing to render"})
		return
	}

	writeJSON(w, http.StatusOK, page)
}

func toQuestionPayload(view quiz.QuestionView, timeLimit int) *questionPayload {
	return &questionPayload{
		ID:            quiz.QuestionID(view.Number),
		Number:        view.Number,
		Total:         view.Total,
		Text:          view.Question.Text,
		Options:       view.Question.Options,
		CorrectIndex:  view.Question.CorrectIndex,
		SelectedIndex: view.SelectedIndex,
		TimeLimit:     timeLimit,
	}
}

func toResultPayload(view quiz.ResultView) *resultPayload {
	payload := &resultPayload{
		Score:       view.Result.Score,
		Total:       view.Result.Total,
		Percentage:  view.Result.Percentage,
		Tier:        view.Result.Tier,
		Feedback:    view.Result.Feedback,
		Saved:       view.Saved,
		ShowDetails: view.ShowDetails,
	}
	if view.ShowDetails {
		payload.DetailedResults = view.Result.DetailedResults
	}
	return payload
}

// continuationURL is where a step redirects after a POST.
func continuationURL(quizID string) string {
	query := url.Values{}
	query.Set("quiz", quizID)
	query.Set("continue", "1")
	return "/quiz?" + query.Encode()
}

func parseIntParam(r *http.Request, key string, defaultValue int) (int, error) {
	value := strings.TrimSpace(r.URL.Query().Get(key))
	if value == "" {
		return defaultValue, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 {
		return 0, errors.New(key + " must be a positive integer")
	}
	return parsed, nil
}

func writeMethodNotAllowed(w http.ResponseWriter, allowedMethods ...string) {
	w.Header().Set("Allow", strings.Join(allowedMethods, ", "))
	writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}
