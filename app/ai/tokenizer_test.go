package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func collect(text string) []Line {
	lines := []Line{}
	for l := range Tokenize(text) {
		lines = append(lines, l)
	}
	return lines
}

func TestTokenize(t *testing.T) {
	t.Run("markers", func(t *testing.T) {
		text := "**Source Language:** English\n" +
			"\n" +
			"  **Original Word Examples:**  \n" +
			"1. First example\n" +
			"continued here\n" +
			"--- Translation 12 ---\n" +
			"**Translation:** тест\n" +
			"**Part of Speech:** Noun\n" +
			"**Examples:**\n" +
			"**Translations (into the other language):**\n" +
			"---\n"
		expected := []Line{
			{Kind: KindSourceLanguage, Raw: "**Source Language:** English", Value: "English"},
			{Kind: KindOriginalExamples, Raw: "**Original Word Examples:**", Value: ""},
			{Kind: KindNumbered, Raw: "1. First example", Value: "First example"},
			{Kind: KindText, Raw: "continued here", Value: "continued here"},
			{Kind: KindTranslationStart, Raw: "--- Translation 12 ---", Value: "12"},
			{Kind: KindTranslation, Raw: "**Translation:** тест", Value: "тест"},
			{Kind: KindPartOfSpeech, Raw: "**Part of Speech:** Noun", Value: "Noun"},
			{Kind: KindExamples, Raw: "**Examples:**", Value: ""},
			{Kind: KindOtherMarker, Raw: "**Translations (into the other language):**"},
			{Kind: KindOtherMarker, Raw: "---"},
		}
		assert.Equal(t, expected, collect(text))
	})
	t.Run("numbered", func(t *testing.T) {
		lines := collect("10. ten\n1.5 million people\n3.\n7.no space")
		assert.Equal(t, []Line{
			{Kind: KindNumbered, Raw: "10. ten", Value: "ten"},
			{Kind: KindText, Raw: "1.5 million people", Value: "1.5 million people"},
			{Kind: KindNumbered, Raw: "3.", Value: ""},
			{Kind: KindText, Raw: "7.no space", Value: "7.no space"},
		}, lines)
	})
	t.Run("translation start variants", func(t *testing.T) {
		lines := collect("--- Translation ---\n--- Translation X ---\n--- Translation 2 ---")
		assert.Equal(t, KindOtherMarker, lines[0].Kind)
		assert.Equal(t, KindOtherMarker, lines[1].Kind)
		assert.Equal(t, KindTranslationStart, lines[2].Kind)
	})
	t.Run("case sensitive", func(t *testing.T) {
		lines := collect("**source language:** English")
		assert.Equal(t, KindOtherMarker, lines[0].Kind)
	})
	t.Run("blank input", func(t *testing.T) {
		assert.Empty(t, collect("\n \r\n\t\n"))
	})
	t.Run("restartable", func(t *testing.T) {
		seq := Tokenize("a\nb\nc")
		first := []string{}
		for l := range seq {
			first = append(first, l.Raw)
			if l.Raw == "b" {
				break
			}
		}
		second := []string{}
		for l := range seq {
			second = append(second, l.Raw)
		}
		assert.Equal(t, []string{"a", "b"}, first)
		assert.Equal(t, []string{"a", "b", "c"}, second)
	})
	t.Run("crlf", func(t *testing.T) {
		lines := collect("**Examples:**\r\n1. one\r\n")
		assert.Equal(t, KindExamples, lines[0].Kind)
		assert.Equal(t, "one", lines[1].Value)
	})
}
