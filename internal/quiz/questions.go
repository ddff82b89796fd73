package quiz

import (
	"fmt"
	"html"
	"math/rand"
	"strconv"
	"strings"

	"finquiz/internal/opentdb"
)

// Question mirrors one entry of a question bank file. Index is the declared
// 1-based position and stays zero for banks that do not declare one.
type Question struct {
	ID           string   `json:"id,omitempty"`
	Index        int      `json:"index,omitempty"`
	Text         string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

type Quiz struct {
	ID          string     `json:"-"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Questions   []Question `json:"questions"`
}

// Bank is a loaded, validated quiz. It is read-only after construction and
// safe for concurrent use.
type Bank struct {
	quiz    Quiz
	byID    map[string]int
	byIndex map[int]int
}

func NewBank(q Quiz) (*Bank, error) {
	if len(q.Questions) == 0 {
		return nil, fmt.Errorf("%s: %w", q.ID, ErrEmptyQuiz)
	}

	bank := &Bank{
		quiz:    q,
		byID:    make(map[string]int, len(q.Questions)),
		byIndex: make(map[int]int, len(q.Questions)),
	}
	bank.quiz.Questions = append([]Question(nil), q.Questions...)

	for pos, question := range bank.quiz.Questions {
		if question.CorrectIndex < 0 || question.CorrectIndex >= len(question.Options) {
			return nil, fmt.Errorf("%w: %s question %d: correct index %d out of range", ErrInvalidBank, q.ID, pos+1, question.CorrectIndex)
		}
		if question.ID != "" {
			if _, dup := bank.byID[question.ID]; dup {
				return nil, fmt.Errorf("%w: %s: duplicate question id %q", ErrInvalidBank, q.ID, question.ID)
			}
			bank.byID[question.ID] = pos
		}
		if question.Index > 0 {
			if _, taken := bank.byIndex[question.Index]; !taken {
				bank.byIndex[question.Index] = pos
			}
		}
	}

	return bank, nil
}

func (b *Bank) ID() string          { return b.quiz.ID }
func (b *Bank) Title() string       { return b.quiz.Title }
func (b *Bank) Description() string { return b.quiz.Description }
func (b *Bank) Count() int          { return len(b.quiz.Questions) }

// All returns the questions in storage order.
func (b *Bank) All() []Question {
	return append([]Question(nil), b.quiz.Questions...)
}

func (b *Bank) QuestionByID(id string) (Question, bool) {
	pos, ok := b.resolve(id)
	if !ok {
		return Question{}, false
	}
	return b.quiz.Questions[pos], true
}

// resolve is the only place that maps question identifiers to storage
// positions. Order matters: stored id, then "q<N>" against declared indices,
// then "q<N>" as the N-th stored question for banks without indices.
func (b *Bank) resolve(id string) (int, bool) {
	if pos, ok := b.byID[id]; ok {
		return pos, true
	}

	n, ok := positionalNumber(id)
	if !ok {
		return 0, false
	}
	if pos, ok := b.byIndex[n]; ok {
		return pos, true
	}
	if n <= len(b.quiz.Questions) {
		return n - 1, true
	}
	return 0, false
}

// QuestionID is the canonical identifier of the n-th question (1-based).
func QuestionID(n int) string {
	return "q" + strconv.Itoa(n)
}

func positionalNumber(id string) (int, bool) {
	digits, ok := strings.CutPrefix(id, "q")
	if !ok || digits == "" {
		return 0, false
	}
	for idx := 0; idx < len(digits); idx++ {
		if digits[idx] < '0' || digits[idx] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(digits)
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// BuildQuestions turns OpenTriviaDB payloads into bank questions with
// canonical ids and explicit indices.
func BuildQuestions(raw []opentdb.RawQuestion) []Question {
	questions := make([]Question, 0, len(raw))
	for idx, item := range raw {
		question := buildQuestion(item)
		question.ID = QuestionID(idx + 1)
		question.Index = idx + 1
		questions = append(questions, question)
	}
	return questions
}

func buildQuestion(raw opentdb.RawQuestion) Question {
	type choice struct {
		text      string
		isCorrect bool
	}

	choices := make([]choice, 0, len(raw.IncorrectAnswers)+1)
	for _, incorrect := range raw.IncorrectAnswers {
		choices = append(choices, choice{
			text:      html.UnescapeString(incorrect),
			isCorrect: false,
		})
	}

	correctText := html.UnescapeString(raw.CorrectAnswer)
	choices = append(choices, choice{
		text:      correctText,
		isCorrect: true,
	})

	rand.Shuffle(len(choices), func(i, j int) {
		choices[i], choices[j] = choices[j], choices[i]
	})

	options := make([]string, len(choices))
	correctIndex := -1
	for idx, candidate := range choices {
		options[idx] = candidate.text
		if candidate.isCorrect {
			correctIndex = idx
		}
	}

	explanation := "The correct answer is " + correctText + "."
	if category := html.UnescapeString(raw.Category); category != "" {
		explanation += " Category: " + category + "."
	}

	return Question{
		Text:         html.UnescapeString(raw.Question),
		Options:      options,
		CorrectIndex: correctIndex,
		Explanation:  explanation,
	}
}
