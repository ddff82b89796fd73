package quiz

import "time"

// Session is the server-side progress of one attempt. CurrentIndex is 1-based
// and Answers is keyed by canonical question id ("q1", "q2", ...).
type Session struct {
	QuizID       string         `json:"quiz_id"`
	CurrentIndex int            `json:"current_index"`
	Answers      map[string]int `json:"answers"`
	Completed    bool           `json:"completed"`
	ShowDetails  bool           `json:"show_details"`
	ResultSaved  bool           `json:"result_saved"`
	UpdatedAt    time.Time      `json:"updated_at"`
}

func NewSession(quizID string) Session {
	return Session{
		QuizID:       quizID,
		CurrentIndex: 1,
		Answers:      make(map[string]int),
	}
}

// Clone returns a copy that shares no map with s.
func (s Session) Clone() Session {
	clone := s
	clone.Answers = make(map[string]int, len(s.Answers))
	for questionID, selected := range s.Answers {
		clone.Answers[questionID] = selected
	}
	return clone
}
