package messages

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/docqa/internal/core/domain"
)

func TestMode_String(t *testing.T) {
	assert.Equal(t, "search", ModeSearch.String())
	assert.Equal(t, "ask", ModeAsk.String())
	assert.Equal(t, "unknown", Mode(99).String())
}

func TestMode_Toggle(t *testing.T) {
	assert.Equal(t, ModeAsk, ModeSearch.Toggle())
	assert.Equal(t, ModeSearch, ModeAsk.Toggle())
}

func TestSearchCompleted(t *testing.T) {
	results := []domain.SearchResult{{DocumentName: "guide.md", Score: 0.9}}

	msg := SearchCompleted{Results: results}

	assert.Len(t, msg.Results, 1)
	assert.NoError(t, msg.Err)
}

func TestSearchCompleted_WithError(t *testing.T) {
	msg := SearchCompleted{Err: errors.New("embedder offline")}

	assert.Nil(t, msg.Results)
	assert.ErrorContains(t, msg.Err, "embedder offline")
}

func TestAnswerCompleted(t *testing.T) {
	answer := &domain.Answer{Question: "How?", Text: "Like this."}

	msg := AnswerCompleted{Answer: answer}

	assert.Equal(t, "Like this.", msg.Answer.Text)
	assert.NoError(t, msg.Err)
}

func TestErrorOccurred(t *testing.T) {
	msg := ErrorOccurred{Err: errors.New("boom")}

	assert.ErrorContains(t, msg.Err, "boom")
}
