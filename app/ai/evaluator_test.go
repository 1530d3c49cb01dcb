package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchesKnown(t *testing.T) {
	known := []string{"Привет", "здравствуй", "Hello World"}
	assert.True(t, MatchesKnown(known, "привет"))
	assert.True(t, MatchesKnown(known, "  ЗДРАВСТВУЙ "))
	assert.True(t, MatchesKnown(known, "hello world"))
	assert.False(t, MatchesKnown(known, "hello"))
	assert.False(t, MatchesKnown(known, ""))
	assert.False(t, MatchesKnown(nil, "привет"))
}

func TestEvaluate(t *testing.T) {
	known := []string{"настойчивый", "упорный"}

	t.Run("local match skips remote", func(t *testing.T) {
		client := &fakeClient{err: errors.New("must not be called")}
		evaluator := NewEvaluator(NewService(client))
		evaluation, err := evaluator.Evaluate(context.Background(), "persistent", known, " Упорный ")
		require.NoError(t, err)
		assert.Equal(t, &AnswerEvaluation{Verdict: VerdictCorrect}, evaluation)
		assert.Equal(t, 0, client.Calls())
	})
	t.Run("partially correct in fences", func(t *testing.T) {
		client := &fakeClient{reply: "```json\n{\"evaluation\":\"Partially Correct\",\"explanation\":\"close enough\"}\n```"}
		evaluation, err := NewEvaluator(NewService(client)).Evaluate(context.Background(), "persistent", known, "стойкий")
		require.NoError(t, err)
		assert.Equal(t, VerdictPartiallyCorrect, evaluation.Verdict)
		assert.Equal(t, "close enough", evaluation.Explanation)
		assert.Nil(t, evaluation.CorrectedAnswer)
		assert.True(t, evaluation.Verdict.Passed())
		assert.Equal(t, 1, client.Calls())
		assert.Contains(t, client.prompts[0], "[настойчивый, упорный]")
		assert.Contains(t, client.prompts[0], `The user's answer was: "стойкий"`)
	})
	t.Run("incorrect with correction", func(t *testing.T) {
		reply := `{"evaluation":"Incorrect","explanation":"wrong meaning","correctedAnswer":"настойчивый"}`
		evaluation, err := NewEvaluator(NewService(&fakeClient{reply: reply})).Evaluate(
			context.Background(), "persistent", known, "быстрый")
		require.NoError(t, err)
		assert.Equal(t, VerdictIncorrect, evaluation.Verdict)
		assert.Equal(t, ptrStr("настойчивый"), evaluation.CorrectedAnswer)
		assert.False(t, evaluation.Verdict.Passed())
	})
	t.Run("unknown verdict", func(t *testing.T) {
		reply := `{"evaluation":"Maybe","explanation":"?"}`
		evaluation, err := NewEvaluator(NewService(&fakeClient{reply: reply})).Evaluate(
			context.Background(), "persistent", known, "быстрый")
		assert.ErrorIs(t, err, ErrEvaluationUndetermined)
		assert.Nil(t, evaluation)
	})
	t.Run("extra fields rejected", func(t *testing.T) {
		reply := `{"evaluation":"Correct","explanation":"ok","confidence":0.9}`
		evaluation, err := NewEvaluator(NewService(&fakeClient{reply: reply})).Evaluate(
			context.Background(), "persistent", known, "стойкий")
		assert.ErrorIs(t, err, ErrEvaluationUndetermined)
		assert.Nil(t, evaluation)
	})
	t.Run("prose reply", func(t *testing.T) {
		evaluation, err := NewEvaluator(NewService(&fakeClient{reply: "I think it is correct"})).Evaluate(
			context.Background(), "persistent", known, "стойкий")
		assert.ErrorIs(t, err, ErrEvaluationUndetermined)
		assert.Nil(t, evaluation)
	})
	t.Run("transport error", func(t *testing.T) {
		evaluation, err := NewEvaluator(NewService(&fakeClient{err: errors.New("FAIL")})).Evaluate(
			context.Background(), "persistent", known, "стойкий")
		assert.ErrorIs(t, err, ErrEvaluationUndetermined)
		assert.ErrorIs(t, err, ErrAIUnavailable)
		assert.Nil(t, evaluation)
	})
	t.Run("timeout", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		evaluation, err := NewEvaluator(NewService(&fakeClient{})).Evaluate(ctx, "persistent", known, "стойкий")
		assert.ErrorIs(t, err, ErrEvaluationUndetermined)
		assert.ErrorIs(t, err, ErrTimeout)
		assert.Nil(t, evaluation)
	})
}

func TestVerdict(t *testing.T) {
	assert.True(t, VerdictCorrect.Passed())
	assert.True(t, VerdictPartiallyCorrect.Passed())
	assert.False(t, VerdictIncorrect.Passed())
	assert.False(t, Verdict("").Valid())
}
