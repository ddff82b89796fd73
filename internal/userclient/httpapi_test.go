package userclient

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"finquiz/internal/quiz"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestQuizzesReturnsServiceUnavailable(t *testing.T) {
	client := NewHTTPClient("http://example.test", "token", "", &http.Client{
		Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("dial error")
		}),
	})

	_, err := client.Quizzes(context.Background())
	if err == nil {
		t.Fatalf("expected error")
	}
	if !errors.Is(err, ErrServiceUnavailable) {
		t.Fatalf("expected ErrServiceUnavailable wrapper, got %v", err)
	}
}

func TestResultsReturnsAPIErrorMessageFromBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("limit") != "3" {
			t.Errorf("limit query = %q", r.URL.Query().Get("limit"))
		}
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(errorResponse{Error: "failed to load results"})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "token", "", server.Client())
	_, err := client.Results(context.Background(), 3)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T (%v)", err, err)
	}
	if apiErr.StatusCode != http.StatusInternalServerError || apiErr.Message != "failed to load results" {
		t.Fatalf("unexpected api error: %+v", apiErr)
	}
}

func TestAnswerFollowsContinuationRedirect(t *testing.T) {
	var posted, followed bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer secret-token" {
			t.Errorf("authorization header = %q", got)
		}

		switch r.Method {
		case http.MethodPost:
			if err := r.ParseForm(); err != nil {
				t.Errorf("parse form: %v", err)
			}
			if r.PostForm.Get("answer") != "2" || r.PostForm.Get("quiz") != "Module1_quiz" {
				t.Errorf("unexpected form: %v", r.PostForm)
			}
			posted = true
			http.Redirect(w, r, "/quiz?continue=1&quiz=Module1_quiz", http.StatusSeeOther)
		case http.MethodGet:
			if r.URL.Query().Get("continue") != "1" {
				t.Errorf("expected continuation query, got %q", r.URL.RawQuery)
			}
			followed = true
			_ = json.NewEncoder(w).Encode(Page{
				View:   viewQuestion,
				QuizID: "Module1_quiz",
				Question: &QuestionPage{
					ID:      "q2",
					Number:  2,
					Total:   5,
					Text:    "Diversification reduces?",
					Options: []string{"Risk", "Returns"},
				},
			})
		}
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "secret-token", "/login", server.Client())
	page, err := client.Answer(context.Background(), "Module1_quiz", 2)
	if err != nil {
		t.Fatalf("Answer failed: %v", err)
	}
	if !posted || !followed {
		t.Fatalf("expected post and follow, got posted=%t followed=%t", posted, followed)
	}
	if page.View != viewQuestion || page.Question == nil || page.Question.ID != "q2" {
		t.Fatalf("unexpected page: %+v", page)
	}
}

func TestLoginRedirectIsUnauthenticated(t *testing.T) {
	client := NewHTTPClient("http://example.test", "", "https://example.test/login", &http.Client{
		Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
			header := make(http.Header)
			header.Set("Location", "/login")
			return &http.Response{
				StatusCode: http.StatusSeeOther,
				Header:     header,
				Body:       http.NoBody,
				Request:    r,
			}, nil
		}),
	})

	if _, err := client.Start(context.Background(), "Module1_quiz"); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated from Start, got %v", err)
	}
	if _, err := client.Quizzes(context.Background()); !errors.Is(err, ErrUnauthenticated) {
		t.Fatalf("expected ErrUnauthenticated from Quizzes, got %v", err)
	}
}

func TestLandingRedirectIsQuizNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/quizzes", http.StatusSeeOther)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "token", "", server.Client())
	if _, err := client.Start(context.Background(), "missing"); !errors.Is(err, ErrQuizNotFound) {
		t.Fatalf("expected ErrQuizNotFound, got %v", err)
	}
}

func TestQuizzesParsesResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/quizzes" {
			t.Errorf("path = %q", r.URL.Path)
		}
		_ = json.NewEncoder(w).Encode(quizzesResponse{Quizzes: []quiz.QuizSummary{
			{QuizID: "Module1_quiz", Title: "Investing Basics", QuestionCount: 5},
		}})
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL+"/", "token", "", server.Client())
	quizzes, err := client.Quizzes(context.Background())
	if err != nil {
		t.Fatalf("Quizzes failed: %v", err)
	}
	if len(quizzes) != 1 || quizzes[0].QuizID != "Module1_quiz" || quizzes[0].QuestionCount != 5 {
		t.Fatalf("unexpected quizzes: %+v", quizzes)
	}
}
