package userclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"finquiz/internal/quiz"
)

var (
	ErrServiceUnavailable = errors.New("quiz service unavailable")
	ErrUnauthenticated    = errors.New("not logged in")
	ErrQuizNotFound       = errors.New("quiz not found")
)

const (
	defaultServer    = "http://127.0.0.1:8080"
	defaultLoginPath = "/login"
	quizPath         = "/quiz"
	maxRedirects     = 5
)

type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// HTTPClient talks to the quiz service. Redirects are never followed by the
// transport: continuation redirects are followed here, a redirect to the login
// page becomes ErrUnauthenticated and any other redirect means the quiz was
// unknown.
type HTTPClient struct {
	baseURL    string
	token      string
	loginPath  string
	httpClient *http.Client
}

func NewHTTPClient(baseURL, token, loginURL string, httpClient *http.Client) *HTTPClient {
	baseURL = strings.TrimSpace(baseURL)
	baseURL = strings.TrimRight(baseURL, "/")
	if baseURL == "" {
		baseURL = defaultServer
	}

	loginPath := defaultLoginPath
	if parsed, err := url.Parse(strings.TrimSpace(loginURL)); err == nil && parsed.Path != "" {
		loginPath = parsed.Path
	}

	var client http.Client
	if httpClient != nil {
		client = *httpClient
	}
	client.CheckRedirect = func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	}

	return &HTTPClient{
		baseURL:    baseURL,
		token:      strings.TrimSpace(token),
		loginPath:  loginPath,
		httpClient: &client,
	}
}

func (c *HTTPClient) Quizzes(ctx context.Context) ([]quiz.QuizSummary, error) {
	var payload quizzesResponse
	if err := c.doJSON(ctx, "/quizzes", &payload); err != nil {
		return nil, err
	}
	return payload.Quizzes, nil
}

func (c *HTTPClient) Results(ctx context.Context, limit int) (Results, error) {
	path := "/results"
	if limit > 0 {
		query := url.Values{}
		query.Set("limit", strconv.Itoa(limit))
		path += "?" + query.Encode()
	}

	var payload Results
	if err := c.doJSON(ctx, path, &payload); err != nil {
		return Results{}, err
	}
	return payload, nil
}

func (c *HTTPClient) Start(ctx context.Context, quizID string) (Page, error) {
	return c.getPage(ctx, quizID, nil)
}

func (c *HTTPClient) Continue(ctx context.Context, quizID string) (Page, error) {
	return c.getPage(ctx, quizID, url.Values{"continue": {"1"}})
}

func (c *HTTPClient) Previous(ctx context.Context, quizID string) (Page, error) {
	return c.getPage(ctx, quizID, url.Values{"prev": {"1"}})
}

func (c *HTTPClient) Answer(ctx context.Context, quizID string, index int) (Page, error) {
	return c.postPage(ctx, quizID, "answer", strconv.Itoa(index))
}

func (c *HTTPClient) Timeout(ctx context.Context, quizID string) (Page, error) {
	return c.postPage(ctx, quizID, "timed_out", "1")
}

func (c *HTTPClient) Restart(ctx context.Context, quizID string) (Page, error) {
	return c.postPage(ctx, quizID, "restart", "1")
}

func (c *HTTPClient) ShowDetails(ctx context.Context, quizID string) (Page, error) {
	return c.postPage(ctx, quizID, "show_details", "1")
}

func (c *HTTPClient) HideDetails(ctx context.Context, quizID string) (Page, error) {
	return c.postPage(ctx, quizID, "hide_details", "1")
}

func (c *HTTPClient) getPage(ctx context.Context, quizID string, query url.Values) (Page, error) {
	if query == nil {
		query = url.Values{}
	}
	if quizID = strings.TrimSpace(quizID); quizID != "" {
		query.Set("quiz", quizID)
	}

	target := c.baseURL + quizPath
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return c.page(ctx, http.MethodGet, target, "")
}

func (c *HTTPClient) postPage(ctx context.Context, quizID, field, value string) (Page, error) {
	form := url.Values{}
	if quizID = strings.TrimSpace(quizID); quizID != "" {
		form.Set("quiz", quizID)
	}
	form.Set(field, value)
	return c.page(ctx, http.MethodPost, c.baseURL+quizPath, form.Encode())
}

func (c *HTTPClient) page(ctx context.Context, method, target, form string) (Page, error) {
	for hop := 0; ; hop++ {
		var body io.Reader
		if method == http.MethodPost {
			body = strings.NewReader(form)
		}
		request, err := http.NewRequestWithContext(ctx, method, target, body)
		if err != nil {
			return Page{}, err
		}
		if method == http.MethodPost {
			request.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}

		response, err := c.send(request)
		if err != nil {
			return Page{}, err
		}

		if !isRedirect(response.StatusCode) {
			page, err := decodePage(response)
			response.Body.Close()
			return page, err
		}

		location, err := redirectLocation(request, response)
		response.Body.Close()
		if err != nil {
			return Page{}, err
		}
		switch location.Path {
		case c.loginPath:
			return Page{}, ErrUnauthenticated
		case quizPath:
			if hop >= maxRedirects {
				return Page{}, fmt.Errorf("too many redirects from %s", target)
			}
			method, target = http.MethodGet, location.String()
		default:
			return Page{}, fmt.Errorf("%w: redirected to %s", ErrQuizNotFound, location.Path)
		}
	}
}

func (c *HTTPClient) doJSON(ctx context.Context, path string, responseBody any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	response, err := c.send(request)
	if err != nil {
		return err
	}
	defer response.Body.Close()

	if isRedirect(response.StatusCode) {
		location, err := redirectLocation(request, response)
		if err != nil {
			return err
		}
		if location.Path == c.loginPath {
			return ErrUnauthenticated
		}
		return fmt.Errorf("unexpected redirect to %s", location.Path)
	}
	if err := checkStatus(response); err != nil {
		return err
	}
	return json.NewDecoder(response.Body).Decode(responseBody)
}

func (c *HTTPClient) send(request *http.Request) (*http.Response, error) {
	request.Header.Set("Accept", "application/json")
	if c.token != "" {
		request.Header.Set("Authorization", "Bearer "+c.token)
	}

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrServiceUnavailable, err)
	}
	return response, nil
}

func decodePage(response *http.Response) (Page, error) {
	if err := checkStatus(response); err != nil {
		return Page{}, err
	}

	var page Page
	if err := json.NewDecoder(response.Body).Decode(&page); err != nil {
		return Page{}, fmt.Errorf("decode quiz page: %w", err)
	}
	if page.View != viewQuestion && page.View != viewResult {
		return Page{}, fmt.Errorf("unexpected quiz view %q", page.View)
	}
	return page, nil
}

func checkStatus(response *http.Response) error {
	if response.StatusCode >= http.StatusOK && response.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	apiErr := APIError{StatusCode: response.StatusCode}
	var payload errorResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
		apiErr.Message = payload.Error
	}
	if apiErr.Message == "" {
		apiErr.Message = response.Status
	}
	return &apiErr
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	default:
		return false
	}
}

func redirectLocation(request *http.Request, response *http.Response) (*url.URL, error) {
	header := response.Header.Get("Location")
	if header == "" {
		return nil, fmt.Errorf("redirect %d without location", response.StatusCode)
	}
	location, err := request.URL.Parse(header)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect location %q: %w", header, err)
	}
	return location, nil
}
