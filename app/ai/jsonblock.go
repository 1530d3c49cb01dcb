package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// stripCodeFence removes ``` / ```json wrapping around a response
func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		tag := strings.TrimSpace(text[:nl])
		if tag == "" || strings.EqualFold(tag, "json") {
			text = text[nl+1:]
		}
	} else {
		text = strings.TrimPrefix(text, "json")
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, "```")
	return strings.TrimSpace(text)
}

// decodeStrict decodes a single JSON object, rejecting unknown fields and trailing data
func decodeStrict(text string, v interface{}) error {
	decoder := json.NewDecoder(bytes.NewBufferString(stripCodeFence(text)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(v); err != nil {
		return fmt.Errorf("decode json: %w", err)
	}
	if decoder.More() {
		return fmt.Errorf("decode json: unexpected data after object")
	}
	return nil
}
