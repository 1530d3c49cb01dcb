package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrStr(s string) *string {
	return &s
}

const fullLookupResponse = `**Source Language:** English

**Original Word Examples:**
1. She was persistent in her efforts.
2. The persistent rain
   lasted all week.

**Translations (into the other language):**

--- Translation 1 ---
**Translation:** настойчивый (nastoychivyy)
**Part of Speech:** Adjective
**Examples:**
1. Она была настойчивой (nastoychivoy).

--- Translation 2 ---
**Translation:** упорный
**Part of Speech:** Adjective
**Examples:**
1. Упорный труд приносит плоды.
`

func TestParseLookup(t *testing.T) {
	t.Run("full", func(t *testing.T) {
		result := ParseLookup(fullLookupResponse, "persistent")
		expected := LookupResult{
			OriginalWord:       "persistent",
			IdentifiedLanguage: LanguageEnglish,
			GeneralExamples: []string{
				"She was persistent in her efforts.",
				"The persistent rain lasted all week.",
			},
			Translations: []TranslationEntry{
				{
					Translation:  "настойчивый",
					PartOfSpeech: ptrStr("Adjective"),
					Examples:     []string{"Она была настойчивой."},
				},
				{
					Translation:  "упорный",
					PartOfSpeech: ptrStr("Adjective"),
					Examples:     []string{"Упорный труд приносит плоды."},
				},
			},
		}
		assert.Equal(t, expected, result)
		assert.False(t, result.IsEmpty())
	})

	t.Run("unclosed last block", func(t *testing.T) {
		text := "**Source Language:** Russian\n" +
			"--- Translation 1 ---\n" +
			"**Translation:** hello\n" +
			"--- Translation 2 ---\n" +
			"**Translation:** hi\n" +
			"**Examples:**\n" +
			"1. Hi there!"
		result := ParseLookup(text, "привет")
		require.Len(t, result.Translations, 2)
		assert.Equal(t, LanguageRussian, result.IdentifiedLanguage)
		assert.Equal(t, "hello", result.Translations[0].Translation)
		assert.Nil(t, result.Translations[0].PartOfSpeech)
		assert.Empty(t, result.Translations[0].Examples)
		assert.Equal(t, "hi", result.Translations[1].Translation)
		assert.Equal(t, []string{"Hi there!"}, result.Translations[1].Examples)
	})

	t.Run("order preserved", func(t *testing.T) {
		text := ""
		words := []string{"one", "two", "three", "four", "five"}
		for idx, w := range words {
			text += "--- Translation " + string(rune('1'+idx)) + " ---\n**Translation:** " + w + "\n"
		}
		result := ParseLookup(text, "x")
		require.Len(t, result.Translations, len(words))
		for idx, w := range words {
			assert.Equal(t, w, result.Translations[idx].Translation)
		}
	})

	t.Run("no markers", func(t *testing.T) {
		result := ParseLookup("I'm sorry, I can't help with that.\n1. Something", "x")
		assert.True(t, result.IsEmpty())
		assert.Equal(t, "x", result.OriginalWord)
	})

	t.Run("empty input", func(t *testing.T) {
		assert.True(t, ParseLookup("", "x").IsEmpty())
	})

	t.Run("unknown language", func(t *testing.T) {
		result := ParseLookup("**Source Language:** German", "x")
		assert.Equal(t, LanguageUnknown, result.IdentifiedLanguage)
		assert.True(t, result.IsEmpty())
	})

	t.Run("language case insensitive", func(t *testing.T) {
		result := ParseLookup("**Source Language:** ENGLISH", "x")
		assert.Equal(t, LanguageEnglish, result.IdentifiedLanguage)
	})

	t.Run("first language wins", func(t *testing.T) {
		result := ParseLookup("**Source Language:** Russian\n**Source Language:** English", "x")
		assert.Equal(t, LanguageRussian, result.IdentifiedLanguage)
	})

	t.Run("translation start closes original examples", func(t *testing.T) {
		text := "**Original Word Examples:**\n" +
			"1. First\n" +
			"--- Translation 1 ---\n" +
			"**Translation:** первый"
		result := ParseLookup(text, "first")
		assert.Equal(t, []string{"First"}, result.GeneralExamples)
		require.Len(t, result.Translations, 1)
		assert.Equal(t, "первый", result.Translations[0].Translation)
	})

	t.Run("source language inside examples", func(t *testing.T) {
		text := "**Original Word Examples:**\n" +
			"1. First\n" +
			"**Source Language:** English\n" +
			"2. ignored"
		result := ParseLookup(text, "first")
		assert.Equal(t, []string{"First"}, result.GeneralExamples)
		assert.Equal(t, LanguageEnglish, result.IdentifiedLanguage)
	})

	t.Run("unknown marker closes original examples", func(t *testing.T) {
		text := "**Original Word Examples:**\n" +
			"1. First\n" +
			"**Notes:**\n" +
			"not an example"
		result := ParseLookup(text, "first")
		assert.Equal(t, []string{"First"}, result.GeneralExamples)
	})

	t.Run("examples section reprocesses marker", func(t *testing.T) {
		text := "--- Translation 1 ---\n" +
			"**Examples:**\n" +
			"1. Example one\n" +
			"**Translation:** late translation\n" +
			"**Part of Speech:** Verb\n" +
			"--- Translation 2 ---\n" +
			"**Translation:** second"
		result := ParseLookup(text, "x")
		require.Len(t, result.Translations, 2)
		assert.Equal(t, "late translation", result.Translations[0].Translation)
		assert.Equal(t, ptrStr("Verb"), result.Translations[0].PartOfSpeech)
		assert.Equal(t, []string{"Example one"}, result.Translations[0].Examples)
		assert.Equal(t, "second", result.Translations[1].Translation)
	})

	t.Run("translation example continuation lines are separate", func(t *testing.T) {
		text := "--- Translation 1 ---\n" +
			"**Examples:**\n" +
			"1. First part\n" +
			"second part (x)\n" +
			"(only transliteration)"
		result := ParseLookup(text, "x")
		require.Len(t, result.Translations, 1)
		assert.Equal(t, []string{"First part", "second part"}, result.Translations[0].Examples)
	})

	t.Run("empty examples dropped", func(t *testing.T) {
		text := "**Original Word Examples:**\n" +
			"1. (nothing)\n" +
			"2. Real one"
		result := ParseLookup(text, "x")
		assert.Equal(t, []string{"Real one"}, result.GeneralExamples)
	})

	t.Run("block without translation line", func(t *testing.T) {
		result := ParseLookup("--- Translation 1 ---\n**Part of Speech:** Noun", "x")
		require.Len(t, result.Translations, 1)
		assert.Equal(t, "", result.Translations[0].Translation)
		assert.False(t, result.IsEmpty())
	})

	t.Run("fields outside a block ignored", func(t *testing.T) {
		result := ParseLookup("**Translation:** orphan\n**Examples:**\n1. orphan example", "x")
		assert.True(t, result.IsEmpty())
	})
}
