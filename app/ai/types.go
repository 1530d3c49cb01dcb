package ai

import "strings"

// Language of a looked up word
type Language string

// supported languages
const (
	LanguageEnglish Language = "English"
	LanguageRussian Language = "Russian"
	LanguageUnknown Language = "Unknown"
)

// parseLanguage maps marker value to Language, case-insensitive
func parseLanguage(value string) Language {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "english":
		return LanguageEnglish
	case "russian":
		return LanguageRussian
	}
	return LanguageUnknown
}

// Other returns the language words are translated into
func (l Language) Other() Language {
	switch l {
	case LanguageEnglish:
		return LanguageRussian
	case LanguageRussian:
		return LanguageEnglish
	}
	return LanguageUnknown
}

// LookupResult holds structured data extracted from a lookup response
type LookupResult struct {
	OriginalWord       string             `json:"originalWord"`
	IdentifiedLanguage Language           `json:"identifiedLanguage"`
	GeneralExamples    []string           `json:"generalExamples"`
	Translations       []TranslationEntry `json:"translations"`
}

// IsEmpty reports whether nothing was recognized in the response
func (r LookupResult) IsEmpty() bool {
	return r.IdentifiedLanguage == LanguageUnknown &&
		len(r.GeneralExamples) == 0 &&
		len(r.Translations) == 0
}

// TranslationEntry holds a single translation block
type TranslationEntry struct {
	Translation  string   `json:"translation"`
	PartOfSpeech *string  `json:"partOfSpeech,omitempty"`
	Examples     []string `json:"examples"`
}

// Verdict of an answer evaluation
type Verdict string

// possible verdicts, values match the model JSON contract
const (
	VerdictCorrect          Verdict = "Correct"
	VerdictPartiallyCorrect Verdict = "Partially Correct"
	VerdictIncorrect        Verdict = "Incorrect"
)

// Valid returns true for one of the known verdicts
func (v Verdict) Valid() bool {
	switch v {
	case VerdictCorrect, VerdictPartiallyCorrect, VerdictIncorrect:
		return true
	}
	return false
}

// Passed returns true if the answer counts as recalled.
// PartiallyCorrect is a pass for scheduling.
func (v Verdict) Passed() bool {
	return v == VerdictCorrect || v == VerdictPartiallyCorrect
}

// AnswerEvaluation holds a judgement for a free-text answer
type AnswerEvaluation struct {
	Verdict         Verdict `json:"evaluation"`
	Explanation     string  `json:"explanation"`
	CorrectedAnswer *string `json:"correctedAnswer,omitempty"`
}

// BilingualExample holds a sentence and its translation
type BilingualExample struct {
	SourceSentence      string `json:"sourceSentence"`
	TranslationSentence string `json:"translationSentence"`
}
