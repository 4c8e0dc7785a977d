// Package quiz models tutorial quizzes: tagged question records, their
// decoded variants, and the per-question answer reveal state.
package quiz

import (
	"errors"
	"fmt"
	"slices"

	json "github.com/goccy/go-json"
)

// Kind is the question type tag.
type Kind string

const (
	KindSingleChoice Kind = "SCQ"
	KindMultiChoice  Kind = "MCQ"
	KindFillInBlank  Kind = "FILL_IN_THE_BLANK"
	KindTyped        Kind = "TYPE"
)

// Record is a question as stored in a quiz file.
type Record struct {
	ID         string   `yaml:"id" json:"id"`
	QuestionNo int      `yaml:"questionNo" json:"questionNo"`
	Text       string   `yaml:"text" json:"text"`
	Type       Kind     `yaml:"type" json:"type"`
	Answer     string   `yaml:"answer,omitempty" json:"answer,omitempty"`
	Options    []string `yaml:"options,omitempty" json:"options,omitempty"`
}

// Document is a quiz file before its questions are decoded.
type Document struct {
	Title     string   `yaml:"title" json:"title"`
	Questions []Record `yaml:"questions" json:"questions"`
}

var (
	ErrUnsupportedType = errors.New("unsupported question type")
	ErrMissingOptions  = errors.New("choice question has no options")
	ErrMissingID       = errors.New("question id is empty")
	ErrDuplicateID     = errors.New("duplicate question id")
)

// Question is one of SingleChoice or MultiChoice.
type Question interface {
	Record() Record
	question()
}

// Common holds the fields shared by every question variant.
type Common struct {
	ID     string
	No     int
	Text   string
	Answer string
}

// SingleChoice is an SCQ question.
type SingleChoice struct {
	Common
	Options []string
}

// MultiChoice is an MCQ question.
type MultiChoice struct {
	Common
	Options []string
}

func (SingleChoice) question() {}
func (MultiChoice) question() {}

// Record returns the tagged record for q.
func (q SingleChoice) Record() Record {
	return Record{ID: q.ID, QuestionNo: q.No, Text: q.Text, Type: KindSingleChoice, Answer: q.Answer, Options: q.Options}
}

// Record returns the tagged record for q.
func (q MultiChoice) Record() Record {
	return Record{ID: q.ID, QuestionNo: q.No, Text: q.Text, Type: KindMultiChoice, Answer: q.Answer, Options: q.Options}
}

// MarshalJSON encodes q as its tagged record.
func (q SingleChoice) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Record())
}

// MarshalJSON encodes q as its tagged record.
func (q MultiChoice) MarshalJSON() ([]byte, error) {
	return json.Marshal(q.Record())
}

// Decode turns a record into its question variant. The type tag must match
// the payload: choice questions need at least one option.
func Decode(r Record) (Question, error) {
	if r.ID == "" {
		return nil, fmt.Errorf("question %d: %w", r.QuestionNo, ErrMissingID)
	}
	common := Common{ID: r.ID, No: r.QuestionNo, Text: r.Text, Answer: r.Answer}

	switch r.Type {
	case KindSingleChoice:
		if len(r.Options) == 0 {
			return nil, fmt.Errorf("question %s: %w", r.ID, ErrMissingOptions)
		}
		return SingleChoice{Common: common, Options: slices.Clone(r.Options)}, nil
	case KindMultiChoice:
		if len(r.Options) == 0 {
			return nil, fmt.Errorf("question %s: %w", r.ID, ErrMissingOptions)
		}
		return MultiChoice{Common: common, Options: slices.Clone(r.Options)}, nil
	default:
		return nil, fmt.Errorf("question %s: %w: %q", r.ID, ErrUnsupportedType, r.Type)
	}
}

// Quiz is the optional quiz attached to a tutorial.
type Quiz struct {
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
}

// FromDocument decodes every question of doc and orders them by number.
func FromDocument(doc Document) (*Quiz, error) {
	seen := make(map[string]bool, len(doc.Questions))
	questions := make([]Question, 0, len(doc.Questions))
	for _, r := range doc.Questions {
		q, err := Decode(r)
		if err != nil {
			return nil, err
		}
		if seen[r.ID] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		seen[r.ID] = true
		questions = append(questions, q)
	}
	return &Quiz{Title: doc.Title, Questions: Ordered(questions)}, nil
}

// Ordered returns questions sorted by question number. Questions sharing a
// number keep their source order.
func Ordered(questions []Question) []Question {
	out := slices.Clone(questions)
	slices.SortStableFunc(out, func(a, b Question) int {
		return a.Record().QuestionNo - b.Record().QuestionNo
	})
	return out
}

// Find returns the question with the given id.
func (q *Quiz) Find(id string) (Question, bool) {
	if q == nil {
		return nil, false
	}
	for _, question := range q.Questions {
		if question.Record().ID == id {
			return question, true
		}
	}
	return nil, false
}
