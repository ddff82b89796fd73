package quiz

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	xlsxQuestionsSheet = "Questions"
	xlsxQuizSheet      = "Quiz"
)

// readXLSXBank reads a spreadsheet bank. The Questions sheet (or the first
// sheet) has a header row naming the columns id, index, question,
// correct_index, explanation, and one or more option columns. An optional Quiz
// sheet holds title/description key-value rows.
func readXLSXBank(path string) (Quiz, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Quiz{}, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	var q Quiz
	if rows, err := f.GetRows(xlsxQuizSheet); err == nil {
		for _, row := range rows {
			if len(row) < 2 {
				continue
			}
			switch strings.ToLower(strings.TrimSpace(row[0])) {
			case "title":
				q.Title = strings.TrimSpace(row[1])
			case "description":
				q.Description = strings.TrimSpace(row[1])
			}
		}
	}

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Quiz{}, fmt.Errorf("%w: spreadsheet has no sheets", ErrInvalidBank)
	}
	sheet := sheets[0]
	for _, name := range sheets {
		if name == xlsxQuestionsSheet {
			sheet = name
			break
		}
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return Quiz{}, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return q, nil
	}

	columns := mapXLSXHeader(rows[0])
	if columns.question < 0 || columns.correct < 0 || len(columns.options) == 0 {
		return Quiz{}, fmt.Errorf("%w: sheet %s needs question, correct_index and option columns", ErrInvalidBank, sheet)
	}

	for rowIdx, row := range rows[1:] {
		text := cell(row, columns.question)
		if text == "" {
			continue
		}

		correct, err := strconv.Atoi(cell(row, columns.correct))
		if err != nil {
			return Quiz{}, fmt.Errorf("%w: row %d: correct_index %q", ErrInvalidBank, rowIdx+2, cell(row, columns.correct))
		}

		question := Question{
			ID:           cell(row, columns.id),
			Text:         text,
			CorrectIndex: correct,
			Explanation:  cell(row, columns.explanation),
		}
		if raw := cell(row, columns.index); raw != "" {
			index, err := strconv.Atoi(raw)
			if err != nil {
				return Quiz{}, fmt.Errorf("%w: row %d: index %q", ErrInvalidBank, rowIdx+2, raw)
			}
			question.Index = index
		}
		options, err := xlsxOptions(row, columns.options)
		if err != nil {
			return Quiz{}, fmt.Errorf("%w: row %d: %v", ErrInvalidBank, rowIdx+2, err)
		}
		question.Options = options
		q.Questions = append(q.Questions, question)
	}

	return q, nil
}

// xlsxOptions keeps options in column order so correct_index points at the
// same cell the author marked. Trailing blank cells are dropped; a blank cell
// between filled options is an error.
func xlsxOptions(row []string, cols []int) ([]string, error) {
	options := make([]string, 0, len(cols))
	last := -1
	for i, col := range cols {
		option := cell(row, col)
		options = append(options, option)
		if option != "" {
			last = i
		}
	}
	options = options[:last+1]
	for i, option := range options {
		if option == "" {
			return nil, fmt.Errorf("option %d is blank", i+1)
		}
	}
	return options, nil
}

type xlsxColumns struct {
	id, index, question, correct, explanation int
	options                                   []int
}

func mapXLSXHeader(header []string) xlsxColumns {
	columns := xlsxColumns{id: -1, index: -1, question: -1, correct: -1, explanation: -1}
	for col, name := range header {
		key := strings.ToLower(strings.TrimSpace(name))
		switch {
		case key == "id":
			columns.id = col
		case key == "index":
			columns.index = col
		case key == "question":
			columns.question = col
		case key == "correct_index" || key == "correctindex":
			columns.correct = col
		case key == "explanation":
			columns.explanation = col
		case strings.HasPrefix(key, "option"):
			columns.options = append(columns.options, col)
		}
	}
	return columns
}

func cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[col])
}
