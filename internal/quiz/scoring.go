package quiz

import (
	"math"
	"strconv"
	"strings"
)

const NotAnswered = "Not answered"

type Tier string

const (
	TierExcellent        Tier = "excellent"
	TierGood             Tier = "good"
	TierFair             Tier = "fair"
	TierNeedsImprovement Tier = "needs_improvement"
)

var tierFeedback = map[Tier]string{
	TierExcellent:        "Excellent! You have a great understanding of investing!",
	TierGood:             "Good job! You have a solid foundation in investing!",
	TierFair:             "Not bad! Keep learning about investing!",
	TierNeedsImprovement: "Keep studying! Check out the Learning Hub for more information!",
}

type QuestionResult struct {
	QuestionID        string   `json:"id"`
	QuestionText      string   `json:"question"`
	Options           []string `json:"options"`
	CorrectIndex      int      `json:"correct_index"`
	CorrectAnswerText string   `json:"correct_answer"`
	UserAnswerIndex   *int     `json:"user_answer_index"`
	UserAnswerText    string   `json:"user_answer"`
	IsCorrect         bool     `json:"is_correct"`
	Explanation       string   `json:"explanation"`
}

type AttemptResult struct {
	Score           int              `json:"score"`
	Total           int              `json:"total"`
	Percentage      float64          `json:"percentage"`
	Tier            Tier             `json:"tier"`
	Feedback        string           `json:"feedback"`
	DetailedResults []QuestionResult `json:"detailed_results"`
}

// Scorer grades answers against one bank. The score is always recomputed
// from submitted answers; nothing the client reports is trusted.
type Scorer struct {
	bank *Bank
}

func NewScorer(bank *Bank) *Scorer {
	return &Scorer{bank: bank}
}

func (s *Scorer) Validate(questionID string, selectedIndex int) bool {
	question, ok := s.bank.QuestionByID(questionID)
	if !ok {
		return false
	}
	return selectedIndex == question.CorrectIndex
}

// ValidateRaw grades form input. Non-numeric input is simply wrong.
func (s *Scorer) ValidateRaw(questionID, raw string) bool {
	selected, err := ParseSelection(raw)
	if err != nil {
		return false
	}
	return s.Validate(questionID, selected)
}

func (s *Scorer) Score(answers map[string]int) int {
	score := 0
	for questionID, selected := range answers {
		if s.Validate(questionID, selected) {
			score++
		}
	}
	return score
}

func (s *Scorer) BuildResult(answers map[string]int) AttemptResult {
	total := s.bank.Count()
	score := s.Score(answers)

	result := AttemptResult{
		Score:           score,
		Total:           total,
		Percentage:      Percentage(score, total),
		DetailedResults: s.detailedResults(answers),
	}
	result.Tier = TierFor(result.Percentage)
	result.Feedback = tierFeedback[result.Tier]
	return result
}

// detailedResults walks q1..qN through the resolver, not storage order, so the
// breakdown is always in question-number order.
func (s *Scorer) detailedResults(answers map[string]int) []QuestionResult {
	total := s.bank.Count()
	results := make([]QuestionResult, 0, total)
	for n := 1; n <= total; n++ {
		questionID := QuestionID(n)
		question, ok := s.bank.QuestionByID(questionID)
		if !ok {
			continue
		}

		item := QuestionResult{
			QuestionID:        questionID,
			QuestionText:      question.Text,
			Options:           question.Options,
			CorrectIndex:      question.CorrectIndex,
			CorrectAnswerText: question.Options[question.CorrectIndex],
			UserAnswerText:    NotAnswered,
			Explanation:       question.Explanation,
		}
		if selected, answered := answers[questionID]; answered && selected >= 0 && selected < len(question.Options) {
			selectedCopy := selected
			item.UserAnswerIndex = &selectedCopy
			item.UserAnswerText = question.Options[selected]
			item.IsCorrect = s.Validate(questionID, selected)
		}
		results = append(results, item)
	}
	return results
}

// Percentage is score/total*100 rounded to two decimals. Callers guarantee
// total > 0.
func Percentage(score, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*100*100) / 100
}

// TierFor bands a percentage with inclusive lower bounds 80/60/40.
func TierFor(percentage float64) Tier {
	switch {
	case percentage >= 80:
		return TierExcellent
	case percentage >= 60:
		return TierGood
	case percentage >= 40:
		return TierFair
	default:
		return TierNeedsImprovement
	}
}

func FeedbackFor(tier Tier) string {
	return tierFeedback[tier]
}

// ParseSelection coerces a submitted option index. Integral numeric strings
// such as "2" or "2.0" are accepted.
func ParseSelection(raw string) (int, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return 0, ErrInvalidAnswer
	}
	if parsed, err := strconv.Atoi(value); err == nil {
		return parsed, nil
	}

	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(parsed) || math.IsInf(parsed, 0) || parsed != math.Trunc(parsed) {
		return 0, ErrInvalidAnswer
	}
	if parsed > math.MaxInt32 || parsed < math.MinInt32 {
		return 0, ErrInvalidAnswer
	}
	return int(parsed), nil
}
