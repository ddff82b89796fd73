package auth

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIssueAndVerify(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)

	raw, issued, err := tokens.Issue(42)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}
	if issued.SessionID == "" {
		t.Fatalf("expected a session id")
	}

	identity, err := tokens.Verify(raw)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if identity != issued {
		t.Fatalf("expected %+v, got %+v", issued, identity)
	}
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	tokens := NewTokens("secret", time.Minute)
	raw, _, err := tokens.Issue(1)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	other := NewTokens("other-secret", time.Minute)
	if _, err := other.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong secret, got %v", err)
	}

	later := NewTokens("secret", time.Minute)
	later.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	if _, err := later.Verify(raw); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired token, got %v", err)
	}

	if _, err := tokens.Verify("not.a.token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for garbage, got %v", err)
	}
}

func TestIssueRejectsNonPositiveUser(t *testing.T) {
	if _, _, err := NewTokens("secret", time.Hour).Issue(0); err == nil {
		t.Fatalf("expected error for user 0")
	}
}

func TestRequireRedirectsAnonymous(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	called := false
	handler := Require(tokens, "/login", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/quiz", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
	if called {
		t.Fatalf("next handler must not run")
	}

	req = httptest.NewRequest(http.MethodGet, "/quiz", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect for invalid token, got %d", rec.Code)
	}
}

func TestRequireAcceptsCookieAndBearer(t *testing.T) {
	tokens := NewTokens("secret", time.Hour)
	raw, issued, err := tokens.Issue(5)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	var seen Identity
	handler := Require(tokens, "/login", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = FromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/quiz", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: raw})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || seen != issued {
		t.Fatalf("cookie auth failed: %d %+v", rec.Code, seen)
	}

	seen = Identity{}
	req = httptest.NewRequest(http.MethodGet, "/quiz", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusNoContent || seen != issued {
		t.Fatalf("bearer auth failed: %d %+v", rec.Code, seen)
	}
}
