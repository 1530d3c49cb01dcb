package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rbhz/tg-vocab-trainer/app/ai"
	"github.com/rs/zerolog/log"
)

// EvaluateRequest is a free-text answer to check
type EvaluateRequest struct {
	Word   string   `json:"word"`
	Known  []string `json:"known"`
	Answer string   `json:"answer"`
}

// UndeterminedResponse is returned when no verdict could be made
type UndeterminedResponse struct {
	Undetermined bool   `json:"undetermined"`
	Error        string `json:"error"`
}

// aiService exposes lookups and answer evaluation
type aiService struct {
	words     WordService
	evaluator Evaluator
}

// ExampleResponse holds a generated example sentence
type ExampleResponse struct {
	Word     string      `json:"word"`
	Language ai.Language `json:"language"`
	Example  string      `json:"example"`
}

// aiError maps AI errors to HTTP status code and a fixed message
func aiError(err error) (int, string) {
	switch {
	case errors.Is(err, ai.ErrEmptyWord):
		return http.StatusBadRequest, "word is required"
	case errors.Is(err, ai.ErrParseFailed):
		return http.StatusNotFound, "no information found"
	case errors.Is(err, ai.ErrTimeout):
		return http.StatusGatewayTimeout, "AI request timed out"
	case errors.Is(err, ai.ErrAIUnavailable):
		return http.StatusServiceUnavailable, "AI is unavailable"
	}
	return http.StatusInternalServerError, "internal error"
}

// writeAIError logs err and writes its status with a fixed message
func writeAIError(w http.ResponseWriter, err error, word string, msg string) {
	status, text := aiError(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("word", word).Msg(msg)
	}
	writeText(w, status, text)
}

// Lookup returns structured word data
func (s aiService) Lookup(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	result, err := s.words.Lookup(r.Context(), word)
	if err != nil {
		writeAIError(w, err, word, "lookup failed")
		return
	}
	writeResponse(w, http.StatusOK, result)
}

// Example returns an example sentence, lang query param is English by default
func (s aiService) Example(w http.ResponseWriter, r *http.Request) {
	word := chi.URLParam(r, "word")
	lang := ai.LanguageEnglish
	switch strings.ToLower(r.URL.Query().Get("lang")) {
	case "", "english", "en":
	case "russian", "ru":
		lang = ai.LanguageRussian
	default:
		writeText(w, http.StatusBadRequest, "unknown language")
		return
	}
	example, err := s.words.Example(r.Context(), word, lang)
	if err != nil {
		writeAIError(w, err, word, "example failed")
		return
	}
	writeResponse(w, http.StatusOK, ExampleResponse{Word: word, Language: lang, Example: example})
}

// Evaluate checks an answer against known translations
func (s aiService) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeText(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if strings.TrimSpace(req.Word) == "" || strings.TrimSpace(req.Answer) == "" {
		writeText(w, http.StatusBadRequest, "word and answer are required")
		return
	}
	evaluation, err := s.evaluator.Evaluate(r.Context(), req.Word, req.Known, req.Answer)
	if err != nil {
		if errors.Is(err, ai.ErrEvaluationUndetermined) {
			log.Warn().Err(err).Str("word", req.Word).Msg("evaluation undetermined")
			writeResponse(w, http.StatusServiceUnavailable, UndeterminedResponse{Undetermined: true, Error: "evaluation undetermined"})
			return
		}
		log.Error().Err(err).Str("word", req.Word).Msg("evaluation failed")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeResponse(w, http.StatusOK, evaluation)
}
