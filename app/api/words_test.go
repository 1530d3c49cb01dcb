package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/rbhz/tg-vocab-trainer/app/ai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	const path = "/api/v1/lookup/"
	t.Run("success", func(t *testing.T) {
		result := ai.LookupResult{
			OriginalWord:       "persistent",
			IdentifiedLanguage: ai.LanguageEnglish,
			GeneralExamples:    []string{},
			Translations:       []ai.TranslationEntry{{Translation: "настойчивый", Examples: []string{}}},
		}
		lookups := &fakeLookup{result: result}
		ts, cancel := getAITestServer(nil, lookups, &fakeEvaluator{})
		defer cancel()

		r := doRequest(t, http.MethodGet, ts.URL+path+"persistent", true)
		assert.Equal(t, http.StatusOK, r.StatusCode)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"originalWord":"persistent","identifiedLanguage":"English","generalExamples":[],`+
			`"translations":[{"translation":"настойчивый","examples":[]}]}`, string(body))
		assert.Equal(t, []string{"persistent"}, lookups.words)
	})
	t.Run("errors", func(t *testing.T) {
		cases := []struct {
			err    error
			status int
		}{
			{ai.ErrParseFailed, http.StatusNotFound},
			{ai.ErrAIUnavailable, http.StatusServiceUnavailable},
			{ai.ErrTimeout, http.StatusGatewayTimeout},
			{ai.ErrEmptyWord, http.StatusBadRequest},
			{fmt.Errorf("render: %w", io.ErrUnexpectedEOF), http.StatusInternalServerError},
		}
		for _, c := range cases {
			ts, cancel := getAITestServer(nil, &fakeLookup{err: c.err}, &fakeEvaluator{})
			r := doRequest(t, http.MethodGet, ts.URL+path+"word", true)
			assert.Equal(t, c.status, r.StatusCode, c.err.Error())
			cancel()
		}
	})
	t.Run("transport error text is not exposed", func(t *testing.T) {
		err := fmt.Errorf("%w: Post \"https://example.com/models/m:generateContent\": dial tcp: secret-detail", ai.ErrAIUnavailable)
		ts, cancel := getAITestServer(nil, &fakeLookup{err: err}, &fakeEvaluator{})
		defer cancel()
		r := doRequest(t, http.MethodGet, ts.URL+path+"word", true)
		assert.Equal(t, http.StatusServiceUnavailable, r.StatusCode)
		body, rerr := io.ReadAll(r.Body)
		require.NoError(t, rerr)
		assert.Equal(t, "AI is unavailable", string(body))
		assert.NotContains(t, string(body), "secret-detail")
	})
	t.Run("unauthorized", func(t *testing.T) {
		lookups := &fakeLookup{}
		ts, cancel := getAITestServer(nil, lookups, &fakeEvaluator{})
		defer cancel()
		r := doRequest(t, http.MethodGet, ts.URL+path+"word", false)
		assert.Equal(t, http.StatusUnauthorized, r.StatusCode)
		assert.Empty(t, lookups.words)
	})
}

func TestExample(t *testing.T) {
	const path = "/api/v1/example/"
	t.Run("success", func(t *testing.T) {
		words := &fakeLookup{example: "Упорный труд приносит плоды."}
		ts, cancel := getAITestServer(nil, words, &fakeEvaluator{})
		defer cancel()
		r := doRequest(t, http.MethodGet, ts.URL+path+"упорный?lang=ru", true)
		assert.Equal(t, http.StatusOK, r.StatusCode)
		var res ExampleResponse
		require.NoError(t, json.NewDecoder(r.Body).Decode(&res))
		assert.Equal(t, ExampleResponse{Word: "упорный", Language: ai.LanguageRussian, Example: "Упорный труд приносит плоды."}, res)
		assert.Equal(t, []ai.Language{ai.LanguageRussian}, words.langs)
	})
	t.Run("default language", func(t *testing.T) {
		words := &fakeLookup{example: "She was persistent."}
		ts, cancel := getAITestServer(nil, words, &fakeEvaluator{})
		defer cancel()
		r := doRequest(t, http.MethodGet, ts.URL+path+"persistent", true)
		assert.Equal(t, http.StatusOK, r.StatusCode)
		assert.Equal(t, []ai.Language{ai.LanguageEnglish}, words.langs)
	})
	t.Run("unknown language", func(t *testing.T) {
		words := &fakeLookup{}
		ts, cancel := getAITestServer(nil, words, &fakeEvaluator{})
		defer cancel()
		r := doRequest(t, http.MethodGet, ts.URL+path+"persistent?lang=de", true)
		assert.Equal(t, http.StatusBadRequest, r.StatusCode)
		assert.Empty(t, words.words)
	})
	t.Run("ai unavailable", func(t *testing.T) {
		ts, cancel := getAITestServer(nil, &fakeLookup{err: ai.ErrAIUnavailable}, &fakeEvaluator{})
		defer cancel()
		r := doRequest(t, http.MethodGet, ts.URL+path+"persistent", true)
		assert.Equal(t, http.StatusServiceUnavailable, r.StatusCode)
	})
}

func TestEvaluate(t *testing.T) {
	const path = "/api/v1/evaluate"
	post := func(t *testing.T, url string, body string) *http.Response {
		req, err := http.NewRequest(http.MethodPost, url, strings.NewReader(body))
		require.NoError(t, err)
		req.Header.Set("Authorization", getTestJWT())
		r, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		return r
	}
	const request = `{"word":"persistent","known":["настойчивый"],"answer":"упорный"}`

	t.Run("success", func(t *testing.T) {
		evaluator := &fakeEvaluator{evaluation: &ai.AnswerEvaluation{
			Verdict:     ai.VerdictPartiallyCorrect,
			Explanation: "Close synonym",
		}}
		ts, cancel := getAITestServer(nil, &fakeLookup{}, evaluator)
		defer cancel()
		r := post(t, ts.URL+path, request)
		assert.Equal(t, http.StatusOK, r.StatusCode)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.JSONEq(t, `{"evaluation":"Partially Correct","explanation":"Close synonym"}`, string(body))
	})
	t.Run("undetermined", func(t *testing.T) {
		evaluator := &fakeEvaluator{err: fmt.Errorf("%w: %w", ai.ErrEvaluationUndetermined, ai.ErrTimeout)}
		ts, cancel := getAITestServer(nil, &fakeLookup{}, evaluator)
		defer cancel()
		r := post(t, ts.URL+path, request)
		assert.Equal(t, http.StatusServiceUnavailable, r.StatusCode)
		var res UndeterminedResponse
		require.NoError(t, json.NewDecoder(r.Body).Decode(&res))
		assert.True(t, res.Undetermined)
		assert.Equal(t, "evaluation undetermined", res.Error)
	})
	t.Run("invalid request", func(t *testing.T) {
		ts, cancel := getAITestServer(nil, &fakeLookup{}, &fakeEvaluator{})
		defer cancel()
		r := post(t, ts.URL+path, "not json")
		assert.Equal(t, http.StatusBadRequest, r.StatusCode)
		r = post(t, ts.URL+path, `{"word":"persistent","answer":"  "}`)
		assert.Equal(t, http.StatusBadRequest, r.StatusCode)
	})
}
