package ai

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

const lookupPromptTemplate = `Analyze the word: "{{ .Word }}"

**Instructions:** Provide the source language, examples for the original word, and several common translations into the other language (English to Russian or Russian to English). For each translation, provide its part of speech (if possible) and 1-2 example sentences using that specific translation. **IMPORTANT: Do NOT include phonetic transcriptions or Romanized transliterations in parentheses anywhere in the response.**

**Source Language:** (Identify if "{{ .Word }}" is English or Russian and state it clearly, e.g., "English" or "Russian")

**Original Word Examples:** (These examples should ONLY be in the identified source language of "{{ .Word }}". Do NOT include translations of "{{ .Word }}" into the other language.)
1. (Example sentence using "{{ .Word }}" in its identified source language.)
2. (Another example sentence for "{{ .Word }}", also only in the source language.)

**Translations (into the other language):**

--- Translation 1 ---
**Translation:** (The translated word)
**Part of Speech:** (e.g., Noun, Verb, Adjective - if identifiable)
**Examples:**
1. (Example sentence using this specific translation, illustrating its meaning)
2. (Another example for this translation, if different nuance)

(Provide 3-10 common translations in this format, repeating the "--- Translation N ---" block for each.)`

const spellingPromptTemplate = `Is the word "{{ .Word }}" potentially misspelled (English or Russian)? ` +
	`If yes, provide a short, comma-separated list of likely corrections. ` +
	`If it seems correct or no suggestions are found, just respond with "OK". ` +
	`Example response for misspelled 'ambigious': ambiguous, ambiguously`

const examplePromptTemplate = `Provide a single, concise example sentence for the {{ .Language }} word "{{ .Word }}".
The example sentence should clearly illustrate the meaning of "{{ .Word }}".
Do NOT include any translations or transliterations in the example sentence. Just the sentence itself.
Example sentence: (Your generated sentence here)`

const specificExamplePromptTemplate = `Provide one simple example sentence in {{ .Language }} using the word "{{ .Word }}" ` +
	`where it means "{{ .Translation }}" in {{ .Target }}. Focus on illustrating this specific meaning. ` +
	`Output only the sentence text itself.`

const bilingualPromptTemplate = `You are a language teaching assistant.
For the {{ .Language }} word "{{ .Word }}", I need an example sentence that specifically illustrates its meaning as "{{ .Translation }}" in {{ .Target }}.
Provide one {{ .Language }} sentence and its direct {{ .Target }} translation.
Respond ONLY with a JSON object in the format:
{
  "sourceSentence": "The example sentence in {{ .Language }}.",
  "translationSentence": "The translated sentence in {{ .Target }}."
}
Do not include any other text, markdown, or explanations.`

const evaluationPromptTemplate = `You are a strict but fair language evaluator.
A user is learning the word "{{ .Word }}".
They were expected to provide one of the following known correct translations: [{{ join .Known ", " }}].
The user's answer was: "{{ .Answer }}".

Your task is to evaluate if the user's answer is semantically correct in this context.
- If it's a direct match, a very close synonym, or a correct variation (e.g., singular/plural), it is "Correct".
- If it's related but not a good translation, or a common mistake, it is "Partially Correct".
- If it's completely wrong, it is "Incorrect".

Respond ONLY with a JSON object in the following format:
{
  "evaluation": "Correct" | "Incorrect" | "Partially Correct",
  "explanation": "A brief, one-sentence explanation for your decision.",
  "correctedAnswer": "The most appropriate translation from the known list if the user was wrong or partially correct."
}
Do not include any other text, markdown, or explanations.`

var prompts = template.Must(template.New("prompts").Funcs(template.FuncMap{
	"join": strings.Join,
}).Parse(""))

func init() {
	for name, text := range map[string]string{
		"lookup":          lookupPromptTemplate,
		"spelling":        spellingPromptTemplate,
		"example":         examplePromptTemplate,
		"specificExample": specificExamplePromptTemplate,
		"bilingual":       bilingualPromptTemplate,
		"evaluation":      evaluationPromptTemplate,
	} {
		template.Must(prompts.New(name).Parse(text))
	}
}

// promptData holds values available to prompt templates
type promptData struct {
	Word        string
	Language    Language
	Target      Language
	Translation string
	Known       []string
	Answer      string
}

// renderPrompt executes a named prompt template
func renderPrompt(name string, data promptData) (string, error) {
	buf := &bytes.Buffer{}
	if err := prompts.ExecuteTemplate(buf, name, data); err != nil {
		return "", fmt.Errorf("executing %s prompt: %w", name, err)
	}
	return buf.String(), nil
}
