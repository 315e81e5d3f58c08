package entities

import (
	"encoding/json"
	"strings"
	"time"
)

const (
	// QuizTableName is the table holding saved quiz questions.
	QuizTableName = "single_quiz_table"

	// QuestionTypeMultipleChoice is the only question kind produced today.
	QuestionTypeMultipleChoice = "Multiple Choice"

	// TimestampLayout is the ISO-8601 layout used for created_at values.
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

// OptionKey identifies one of the four fixed answer slots.
type OptionKey string

const (
	OptionA OptionKey = "a"
	OptionB OptionKey = "b"
	OptionC OptionKey = "c"
	OptionD OptionKey = "d"
)

// OptionKeys lists the slots in display order.
var OptionKeys = []OptionKey{OptionA, OptionB, OptionC, OptionD}

// QuizRecord is a persisted multiple-choice question.
// Records are append-only: never updated, never deleted in-band.
type QuizRecord struct {
	QuestionID       int64     `gorm:"column:question_id;primaryKey;autoIncrement" json:"question_id"`
	QuestionText     string    `gorm:"column:question_text" json:"question_text"`
	QuestionType     string    `gorm:"column:question_type" json:"question_type"`
	OptionA          string    `gorm:"column:option_a" json:"option_a"`
	OptionB          string    `gorm:"column:option_b" json:"option_b"`
	OptionC          *string   `gorm:"column:option_c" json:"option_c,omitempty"`
	OptionD          *string   `gorm:"column:option_d" json:"option_d,omitempty"`
	CorrectAnswerKey OptionKey `gorm:"column:correct_answer_key" json:"correct_answer_key"`
	Explanation      string    `gorm:"column:explanation" json:"explanation"`
	// SavedAt is nil for rows written before the created_at column existed.
	SavedAt *string `gorm:"column:created_at" json:"created_at,omitempty"`
}

func (QuizRecord) TableName() string {
	return QuizTableName
}

// Option returns the text of the given slot, empty when the slot is absent.
func (r QuizRecord) Option(key OptionKey) string {
	switch key {
	case OptionA:
		return r.OptionA
	case OptionB:
		return r.OptionB
	case OptionC:
		if r.OptionC != nil {
			return *r.OptionC
		}
	case OptionD:
		if r.OptionD != nil {
			return *r.OptionD
		}
	}
	return ""
}

// QuestionOptions holds the four keyed answer texts of a generated question.
type QuestionOptions struct {
	A string `json:"a"`
	B string `json:"b"`
	C string `json:"c"`
	D string `json:"d"`
}

// Get returns the option text for key.
func (o QuestionOptions) Get(key OptionKey) string {
	switch key {
	case OptionA:
		return o.A
	case OptionB:
		return o.B
	case OptionC:
		return o.C
	case OptionD:
		return o.D
	}
	return ""
}

// GeneratedQuestion is the payload produced by the quiz generator.
type GeneratedQuestion struct {
	Question    string          `json:"question"`
	Options     QuestionOptions `json:"options"`
	Answer      string          `json:"answer"`
	Explanation string          `json:"explanation"`
}

// AnswerKey returns the normalized answer key.
func (q GeneratedQuestion) AnswerKey() OptionKey {
	return OptionKey(strings.ToLower(strings.TrimSpace(q.Answer)))
}

// ToRecord converts the payload into a record stamped with createdAt.
// Empty optional slots are kept absent.
func (q GeneratedQuestion) ToRecord(createdAt time.Time) QuizRecord {
	stamp := FormatTimestamp(createdAt)
	return QuizRecord{
		QuestionText:     q.Question,
		QuestionType:     QuestionTypeMultipleChoice,
		OptionA:          q.Options.A,
		OptionB:          q.Options.B,
		OptionC:          optionalText(q.Options.C),
		OptionD:          optionalText(q.Options.D),
		CorrectAnswerKey: q.AnswerKey(),
		Explanation:      q.Explanation,
		SavedAt:          &stamp,
	}
}

// ParseGeneratedQuestions decodes a batch given either as a bare JSON array
// or as an object with a "questions" array.
func ParseGeneratedQuestions(data []byte) ([]GeneratedQuestion, error) {
	var questions []GeneratedQuestion
	if err := json.Unmarshal(data, &questions); err == nil {
		return questions, nil
	}

	var wrapped struct {
		Questions []GeneratedQuestion `json:"questions"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, err
	}
	return wrapped.Questions, nil
}

// FormatTimestamp renders t in UTC using TimestampLayout.
func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

func optionalText(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
