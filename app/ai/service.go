package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Client sends a single prompt to a language model and returns the raw reply text
type Client interface {
	SendPrompt(ctx context.Context, prompt string) (string, error)
}

// Service sequences model calls and turns replies into structured data.
// Every call is independent, no results are cached.
type Service struct {
	client Client
}

// NewService creates Service on top of a model client
func NewService(client Client) *Service {
	return &Service{client: client}
}

// Lookup asks the model about a word and parses the answer
func (s *Service) Lookup(ctx context.Context, word string) (LookupResult, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return LookupResult{}, ErrEmptyWord
	}
	prompt, err := renderPrompt("lookup", promptData{Word: word})
	if err != nil {
		return LookupResult{}, err
	}
	text, err := s.send(ctx, prompt)
	if err != nil {
		return LookupResult{}, err
	}
	result := ParseLookup(text, word)
	if result.IsEmpty() {
		log.Debug().Str("word", word).Int("length", len(text)).Msg("nothing recognized in lookup response")
		return LookupResult{}, ErrParseFailed
	}
	log.Debug().
		Str("word", word).
		Str("language", string(result.IdentifiedLanguage)).
		Int("translations", len(result.Translations)).
		Msg("lookup parsed")
	return result, nil
}

// SpellingSuggestions returns likely corrections for a word.
// An empty, non-nil slice means the word was checked and looks correct.
func (s *Service) SpellingSuggestions(ctx context.Context, word string) ([]string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return nil, ErrEmptyWord
	}
	prompt, err := renderPrompt("spelling", promptData{Word: word})
	if err != nil {
		return nil, err
	}
	text, err := s.send(ctx, prompt)
	if err != nil {
		return nil, err
	}
	return parseSuggestions(text), nil
}

func parseSuggestions(text string) []string {
	text = strings.TrimSpace(text)
	suggestions := []string{}
	if strings.EqualFold(text, "OK") || strings.Contains(text, "seems correct") {
		return suggestions
	}
	for _, s := range strings.Split(text, ",") {
		if s = strings.TrimSpace(s); s != "" {
			suggestions = append(suggestions, s)
		}
	}
	return suggestions
}

// Example returns a single example sentence for a word in its language
func (s *Service) Example(ctx context.Context, word string, lang Language) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", ErrEmptyWord
	}
	prompt, err := renderPrompt("example", promptData{Word: word, Language: lang})
	if err != nil {
		return "", err
	}
	text, err := s.send(ctx, prompt)
	if err != nil {
		return "", err
	}
	example := Sanitize(extractExampleSentence(text))
	if example == "" {
		return "", ErrParseFailed
	}
	return example, nil
}

const exampleSentenceLabel = "example sentence:"

// extractExampleSentence returns text after "Example sentence:" if the model echoed the label
func extractExampleSentence(text string) string {
	text = strings.TrimSpace(text)
	idx := strings.Index(strings.ToLower(text), exampleSentenceLabel)
	if idx < 0 {
		return text
	}
	rest := text[idx+len(exampleSentenceLabel):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[:nl]
	}
	if rest = strings.TrimSpace(rest); rest == "" {
		return text
	}
	return rest
}

// SpecificExample returns an example sentence for a word used in the meaning of translation
func (s *Service) SpecificExample(ctx context.Context, word string, translation string, lang Language) (string, error) {
	word = strings.TrimSpace(word)
	if word == "" {
		return "", ErrEmptyWord
	}
	prompt, err := renderPrompt("specificExample", promptData{
		Word:        word,
		Language:    lang,
		Target:      lang.Other(),
		Translation: translation,
	})
	if err != nil {
		return "", err
	}
	text, err := s.send(ctx, prompt)
	if err != nil {
		return "", err
	}
	example := Sanitize(text)
	if example == "" {
		return "", ErrParseFailed
	}
	return example, nil
}

// BilingualExample returns a sentence for a word-translation pair along with its translation
func (s *Service) BilingualExample(
	ctx context.Context, word string, lang Language, translation string,
) (BilingualExample, error) {
	var result BilingualExample
	word = strings.TrimSpace(word)
	if word == "" {
		return result, ErrEmptyWord
	}
	prompt, err := renderPrompt("bilingual", promptData{
		Word:        word,
		Language:    lang,
		Target:      lang.Other(),
		Translation: translation,
	})
	if err != nil {
		return result, err
	}
	text, err := s.send(ctx, prompt)
	if err != nil {
		return result, err
	}
	if err := decodeStrict(text, &result); err != nil {
		return BilingualExample{}, fmt.Errorf("%w: %v", ErrParseFailed, err)
	}
	if result.SourceSentence == "" {
		return BilingualExample{}, ErrParseFailed
	}
	return result, nil
}

type sendResult struct {
	text string
	err  error
}

// send performs a single model call.
// When ctx is done first, ErrTimeout is returned without waiting for the call.
func (s *Service) send(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrTimeout, err)
	}
	out := make(chan sendResult, 1)
	go func() {
		text, err := s.client.SendPrompt(ctx, prompt)
		out <- sendResult{text: text, err: err}
	}()
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%w: %v", ErrTimeout, ctx.Err())
	case res := <-out:
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) || errors.Is(res.err, context.Canceled) {
				return "", fmt.Errorf("%w: %v", ErrTimeout, res.err)
			}
			return "", fmt.Errorf("%w: %v", ErrAIUnavailable, res.err)
		}
		return res.text, nil
	}
}
