package httpapi

import (
	"errors"
	"net/http"
	"strings"

	"finquiz/internal/auth"
	"finquiz/internal/quiz"
)

const defaultHistoryLimit = 10

func (a *API) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// HandleQuiz serves the quiz page. GET renders the current step; POST applies
// one action and either redirects to the continuation view or renders the
// result.
func (a *API) HandleQuiz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		writeMethodNotAllowed(w, http.MethodGet, http.MethodPost)
		return
	}
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	participant, ok := participantFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not logged in"})
		return
	}
	if err := r.ParseForm(); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid form body"})
		return
	}

	controller, err := a.service.Enter(r.Context(), participant, r.Form.Get("quiz"))
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	var outcome quiz.Outcome
	if r.Method == http.MethodGet {
		query := r.URL.Query()
		_, previous := query["prev"]
		outcome, err = controller.View(r.Context(), participant, quiz.Navigation{
			Continue: query.Get("continue") == "1",
			Previous: previous,
		})
	} else {
		outcome, err = a.applyAction(r, controller, participant)
		if errors.Is(err, errUnknownAction) {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "unknown quiz action"})
			return
		}
	}
	if err != nil {
		a.writeServiceError(w, r, err)
		return
	}

	a.writeOutcome(w, r, controller, outcome)
}

var errUnknownAction = errors.New("unknown quiz action")

// applyAction checks form fields in a fixed order; the first one present wins.
func (a *API) applyAction(r *http.Request, controller *quiz.Controller, participant quiz.Participant) (quiz.Outcome, error) {
	form := r.PostForm
	ctx := r.Context()

	switch {
	case form.Get("timed_out") == "1":
		return controller.SubmitTimeout(ctx, participant)
	case form.Has("answer"):
		return controller.SubmitAnswer(ctx, participant, form.Get("answer"))
	case form.Has("restart"):
		return controller.Restart(ctx, participant)
	case form.Has("show_details"):
		return controller.ShowDetails(ctx, participant)
	case form.Has("hide_details"):
		return controller.HideDetails(ctx, participant)
	default:
		return quiz.Outcome{}, errUnknownAction
	}
}

func (a *API) HandleQuizzes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	summaries, err := a.service.ListQuizzes(r.Context())
	if err != nil {
		a.logger.Printf("list quizzes: %v", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to list quizzes"})
		return
	}
	writeJSON(w, http.StatusOK, quizzesResponse{Quizzes: summaries})
}

func (a *API) HandleResults(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeMethodNotAllowed(w, http.MethodGet)
		return
	}
	if a.service == nil {
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "quiz service unavailable"})
		return
	}

	participant, ok := participantFrom(r)
	if !ok {
		writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "not logged in"})
		return
	}

	limit, err := parseIntParam(r, "limit", defaultHistoryLimit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	history, err := a.service.History(r.Context(), participant.UserID, limit)
	if err != nil {
		a.logger.Printf("load history for user %d: %v", participant.UserID, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load results"})
		return
	}
	best, err := a.service.BestScore(r.Context(), participant.UserID)
	if err != nil {
		a.logger.Printf("load best score for user %d: %v", participant.UserID, err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to load results"})
		return
	}

	writeJSON(w, http.StatusOK, resultsResponse{
		UserID:  participant.UserID,
		Best:    best,
		History: history,
	})
}

func participantFrom(r *http.Request) (quiz.Participant, bool) {
	identity, ok := auth.FromContext(r.Context())
	if !ok || strings.TrimSpace(identity.SessionID) == "" {
		return quiz.Participant{}, false
	}
	return quiz.Participant{UserID: identity.UserID, SessionID: identity.SessionID}, true
}
