package quiz

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const (
	bankExtJSON = ".json"
	bankExtXLSX = ".xlsx"
)

var quizIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// ValidQuizID reports whether id can name a bank file. Anything else is
// treated as an unknown quiz.
func ValidQuizID(id string) bool {
	return quizIDPattern.MatchString(id)
}

// DirSource serves banks stored as <dir>/<quiz id>.json or .xlsx.
type DirSource struct {
	dir string
}

func NewDirSource(dir string) *DirSource {
	if strings.TrimSpace(dir) == "" {
		dir = "data/banks"
	}
	return &DirSource{dir: dir}
}

func (s *DirSource) Dir() string { return s.dir }

func (s *DirSource) Exists(_ context.Context, quizID string) bool {
	_, err := s.bankPath(quizID)
	return err == nil
}

func (s *DirSource) Load(_ context.Context, quizID string) (Quiz, error) {
	path, err := s.bankPath(quizID)
	if err != nil {
		return Quiz{}, err
	}

	var q Quiz
	if filepath.Ext(path) == bankExtXLSX {
		q, err = readXLSXBank(path)
	} else {
		q, err = readJSONBank(path)
	}
	if err != nil {
		return Quiz{}, fmt.Errorf("load bank %s: %w", quizID, err)
	}

	q.ID = quizID
	if strings.TrimSpace(q.Title) == "" {
		q.Title = quizID
	}
	return q, nil
}

// List summarizes every loadable bank, sorted by quiz id. Files that fail to
// parse are skipped.
func (s *DirSource) List(ctx context.Context) ([]QuizSummary, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []QuizSummary{}, nil
		}
		return nil, err
	}

	seen := make(map[string]bool)
	summaries := make([]QuizSummary, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if ext != bankExtJSON && ext != bankExtXLSX {
			continue
		}
		quizID := strings.TrimSuffix(entry.Name(), ext)
		if !ValidQuizID(quizID) || seen[quizID] {
			continue
		}
		seen[quizID] = true

		q, err := s.Load(ctx, quizID)
		if err != nil {
			continue
		}
		summaries = append(summaries, QuizSummary{
			QuizID:        quizID,
			Title:         q.Title,
			Description:   q.Description,
			QuestionCount: len(q.Questions),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].QuizID < summaries[j].QuizID
	})
	return summaries, nil
}

// Save writes q as a JSON bank, replacing any existing JSON bank with the
// same id.
func (s *DirSource) Save(_ context.Context, q Quiz) error {
	if !ValidQuizID(q.ID) {
		return fmt.Errorf("invalid quiz id %q", q.ID)
	}
	if _, err := NewBank(q); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return err
	}

	encoded, err := json.MarshalIndent(q, "", "  ")
	if err != nil {
		return err
	}

	path := filepath.Join(s.dir, q.ID+bankExtJSON)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(encoded, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func (s *DirSource) bankPath(quizID string) (string, error) {
	if !ValidQuizID(quizID) {
		return "", ErrQuizNotFound
	}
	for _, ext := range []string{bankExtJSON, bankExtXLSX} {
		path := filepath.Join(s.dir, quizID+ext)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, nil
		}
	}
	return "", ErrQuizNotFound
}

// readJSONBank accepts the current object format and the legacy format that
// is a bare array of questions.
func readJSONBank(path string) (Quiz, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Quiz{}, err
	}

	trimmed := bytes.TrimSpace(content)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var questions []Question
		if err := json.Unmarshal(trimmed, &questions); err != nil {
			return Quiz{}, err
		}
		return Quiz{Questions: questions}, nil
	}

	var q Quiz
	if err := json.Unmarshal(trimmed, &q); err != nil {
		return Quiz{}, err
	}
	return q, nil
}
