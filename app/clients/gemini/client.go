package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog/log"
)

// DefaultEndpoint of the generative language API
const DefaultEndpoint = "https://generativelanguage.googleapis.com/v1beta"

// DefaultModel used when none configured
const DefaultModel = "gemini-1.5-flash"

// ErrEmptyResponse is returned when the model answered without any text
var ErrEmptyResponse = errors.New("empty model response")

// GeminiClient implements integration with Gemini generateContent API
// docs: https://ai.google.dev/api/generate-content
type GeminiClient struct {
	apiKey   string
	model    string
	endpoint string
	client   *http.Client
	config   *GenerationConfig
}

// SendPrompt sends a single user prompt and returns the text of the first candidate
func (c GeminiClient) SendPrompt(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(GenerateRequest{
		Contents:         []Content{{Role: "user", Parts: []Part{{Text: prompt}}}},
		GenerationConfig: c.config,
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	response, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	if response.StatusCode != http.StatusOK {
		var errResponse ErrorResponse
		_ = json.Unmarshal(body, &errResponse)
		log.Error().
			Str("status", response.Status).
			Str("error", errResponse.Error.Message).
			Str("body", string(body)).
			Msg("unsuccessfull response from gemini API")
		return "", fmt.Errorf("unsuccessfull API response %v", response.StatusCode)
	}

	var result GenerateResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to unmarshal response: %w", err)
	}
	text := result.Text()
	if strings.TrimSpace(text) == "" {
		finish := ""
		if len(result.Candidates) > 0 {
			finish = result.Candidates[0].FinishReason
		}
		log.Warn().Str("finish", finish).Msg("gemini returned no text")
		return "", ErrEmptyResponse
	}
	log.Debug().
		Str("model", c.model).
		Int("tokens", result.UsageMetadata.TotalTokenCount).
		Msg("gemini response received")
	return text, nil
}

func (c GeminiClient) url() string {
	return fmt.Sprintf(
		"%s/models/%s:generateContent",
		strings.TrimRight(c.endpoint, "/"), url.PathEscape(c.model),
	)
}

// WithTemperature returns a copy of the client sampling with given temperature
func (c GeminiClient) WithTemperature(temperature float64) GeminiClient {
	c.config = &GenerationConfig{Temperature: &temperature}
	return c
}

// NewGeminiClient creates client, empty model and endpoint fall back to defaults
func NewGeminiClient(apiKey string, model string, endpoint string) GeminiClient {
	if model == "" {
		model = DefaultModel
	}
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return GeminiClient{apiKey: apiKey, model: model, endpoint: endpoint, client: http.DefaultClient}
}
