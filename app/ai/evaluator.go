package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// MatchesKnown reports whether answer equals one of the known answers,
// ignoring case and surrounding whitespace
func MatchesKnown(known []string, answer string) bool {
	answer = foldAnswer(answer)
	if answer == "" {
		return false
	}
	for _, k := range known {
		if foldAnswer(k) == answer {
			return true
		}
	}
	return false
}

func foldAnswer(s string) string {
	return cases.Fold().String(norm.NFC.String(strings.TrimSpace(s)))
}

// Evaluator judges free-text answers.
// A local match is accepted without asking the model.
type Evaluator struct {
	service *Service
}

// NewEvaluator creates Evaluator using service for remote judgements
func NewEvaluator(service *Service) *Evaluator {
	return &Evaluator{service: service}
}

// Evaluate checks userAnswer for word against the known answers.
// On any remote failure it returns nil and an error wrapping ErrEvaluationUndetermined.
func (e *Evaluator) Evaluate(
	ctx context.Context, word string, known []string, userAnswer string,
) (*AnswerEvaluation, error) {
	userAnswer = strings.TrimSpace(userAnswer)
	if MatchesKnown(known, userAnswer) {
		return &AnswerEvaluation{Verdict: VerdictCorrect}, nil
	}

	prompt, err := renderPrompt("evaluation", promptData{Word: word, Known: known, Answer: userAnswer})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEvaluationUndetermined, err)
	}
	text, err := e.service.send(ctx, prompt)
	if err != nil {
		// keeps ErrTimeout / ErrAIUnavailable visible to errors.Is
		return nil, fmt.Errorf("%w: %w", ErrEvaluationUndetermined, err)
	}
	evaluation, err := parseEvaluation(text)
	if err != nil {
		log.Debug().Err(err).Str("word", word).Msg("failed to decode evaluation")
		return nil, fmt.Errorf("%w: %v", ErrEvaluationUndetermined, err)
	}
	return evaluation, nil
}

// parseEvaluation decodes a model judgement
func parseEvaluation(text string) (*AnswerEvaluation, error) {
	var evaluation AnswerEvaluation
	if err := decodeStrict(text, &evaluation); err != nil {
		return nil, err
	}
	if !evaluation.Verdict.Valid() {
		return nil, fmt.Errorf("unknown verdict %q", evaluation.Verdict)
	}
	return &evaluation, nil
}
