package entities

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratedQuestion_AnswerKey(t *testing.T) {
	tests := []struct {
		answer string
		want   OptionKey
	}{
		{"a", OptionA},
		{"B", OptionB},
		{" c ", OptionC},
		{"D\n", OptionD},
		{"e", OptionKey("e")},
	}

	for _, tt := range tests {
		t.Run(tt.answer, func(t *testing.T) {
			q := GeneratedQuestion{Answer: tt.answer}
			assert.Equal(t, tt.want, q.AnswerKey())
		})
	}
}

func TestGeneratedQuestion_ToRecord(t *testing.T) {
	createdAt := time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.FixedZone("CST", 8*3600))

	t.Run("keeps empty optional slots absent", func(t *testing.T) {
		q := GeneratedQuestion{
			Question:    "What does 你 mean?",
			Options:     QuestionOptions{A: "you", B: "good"},
			Answer:      "A",
			Explanation: "你 is the second person pronoun.",
		}

		rec := q.ToRecord(createdAt)

		assert.Equal(t, "What does 你 mean?", rec.QuestionText)
		assert.Equal(t, QuestionTypeMultipleChoice, rec.QuestionType)
		assert.Equal(t, "you", rec.OptionA)
		assert.Equal(t, "good", rec.OptionB)
		assert.Nil(t, rec.OptionC)
		assert.Nil(t, rec.OptionD)
		assert.Equal(t, OptionA, rec.CorrectAnswerKey)
		require.NotNil(t, rec.SavedAt)
		assert.Equal(t, "2026-03-14T01:26:53.589Z", *rec.SavedAt)
	})

	t.Run("copies present optional slots", func(t *testing.T) {
		q := GeneratedQuestion{
			Question: "q",
			Options:  QuestionOptions{A: "1", B: "2", C: "3", D: "4"},
			Answer:   "d",
		}

		rec := q.ToRecord(createdAt)

		require.NotNil(t, rec.OptionC)
		require.NotNil(t, rec.OptionD)
		assert.Equal(t, "3", *rec.OptionC)
		assert.Equal(t, "4", rec.Option(OptionD))
	})
}

func TestQuizRecord_Option(t *testing.T) {
	c := "third"
	rec := QuizRecord{OptionA: "first", OptionB: "second", OptionC: &c}

	assert.Equal(t, "first", rec.Option(OptionA))
	assert.Equal(t, "second", rec.Option(OptionB))
	assert.Equal(t, "third", rec.Option(OptionC))
	assert.Empty(t, rec.Option(OptionD))
	assert.Empty(t, rec.Option(OptionKey("z")))
}

func TestQuestionOptions_Get(t *testing.T) {
	opts := QuestionOptions{A: "a-text", B: "b-text", C: "c-text", D: "d-text"}

	for _, key := range OptionKeys {
		assert.Equal(t, string(key)+"-text", opts.Get(key))
	}
	assert.Empty(t, opts.Get(OptionKey("x")))
}

func TestParseGeneratedQuestions(t *testing.T) {
	t.Run("bare array", func(t *testing.T) {
		qs, err := ParseGeneratedQuestions([]byte(`[{"question":"q","options":{"a":"x","b":"y"},"answer":"a","explanation":"e"}]`))
		require.NoError(t, err)
		require.Len(t, qs, 1)
		assert.Equal(t, "x", qs[0].Options.A)
		assert.Empty(t, qs[0].Options.C)
	})

	t.Run("wrapped", func(t *testing.T) {
		qs, err := ParseGeneratedQuestions([]byte(`{"questions":[{"question":"q1"},{"question":"q2"}]}`))
		require.NoError(t, err)
		assert.Len(t, qs, 2)
	})

	t.Run("invalid", func(t *testing.T) {
		_, err := ParseGeneratedQuestions([]byte(`"just a string"`))
		assert.Error(t, err)
	})
}
