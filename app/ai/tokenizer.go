package ai

import (
	"iter"
	"strings"
)

// LineKind describes what a response line is
type LineKind int

// kinds of lines
const (
	KindText LineKind = iota
	KindNumbered
	KindSourceLanguage
	KindOriginalExamples
	KindTranslationStart
	KindTranslation
	KindPartOfSpeech
	KindExamples
	// KindOtherMarker looks like a marker ("**" or "---") but is not recognized
	KindOtherMarker
)

// structural markers of a lookup response
const (
	markerSourceLanguage   = "**Source Language:**"
	markerOriginalExamples = "**Original Word Examples:**"
	markerTranslation      = "**Translation:**"
	markerPartOfSpeech     = "**Part of Speech:**"
	markerExamples         = "**Examples:**"
	translationStartPrefix = "--- Translation "
	translationStartSuffix = " ---"
)

var valueMarkers = []struct {
	prefix string
	kind   LineKind
}{
	{markerSourceLanguage, KindSourceLanguage},
	{markerOriginalExamples, KindOriginalExamples},
	{markerTranslation, KindTranslation},
	{markerPartOfSpeech, KindPartOfSpeech},
	{markerExamples, KindExamples},
}

// Line is a single trimmed, labeled line of a response.
// Value holds the text after a marker or a numbered-list prefix.
type Line struct {
	Kind  LineKind
	Raw   string
	Value string
}

// IsMarker returns true for every section marker, recognized or not
func (l Line) IsMarker() bool {
	return l.Kind != KindText && l.Kind != KindNumbered
}

// Tokenize splits text into labeled lines. Blank lines are skipped.
// The sequence is lazy and can be ranged over any number of times.
func Tokenize(text string) iter.Seq[Line] {
	return func(yield func(Line) bool) {
		rest := text
		for len(rest) > 0 {
			var raw string
			if idx := strings.IndexByte(rest, '\n'); idx >= 0 {
				raw, rest = rest[:idx], rest[idx+1:]
			} else {
				raw, rest = rest, ""
			}
			raw = strings.TrimSpace(raw)
			if raw == "" {
				continue
			}
			if !yield(classify(raw)) {
				return
			}
		}
	}
}

func classify(raw string) Line {
	for _, m := range valueMarkers {
		if strings.HasPrefix(raw, m.prefix) {
			return Line{Kind: m.kind, Raw: raw, Value: strings.TrimSpace(raw[len(m.prefix):])}
		}
	}
	if n, ok := translationNumber(raw); ok {
		return Line{Kind: KindTranslationStart, Raw: raw, Value: n}
	}
	if strings.HasPrefix(raw, "**") || strings.HasPrefix(raw, "---") {
		return Line{Kind: KindOtherMarker, Raw: raw}
	}
	if text, ok := numberedItem(raw); ok {
		return Line{Kind: KindNumbered, Raw: raw, Value: text}
	}
	return Line{Kind: KindText, Raw: raw, Value: raw}
}

// translationNumber matches "--- Translation <digits> ---"
func translationNumber(raw string) (string, bool) {
	if len(raw) < len(translationStartPrefix)+len(translationStartSuffix) ||
		!strings.HasPrefix(raw, translationStartPrefix) ||
		!strings.HasSuffix(raw, translationStartSuffix) {
		return "", false
	}
	n := raw[len(translationStartPrefix) : len(raw)-len(translationStartSuffix)]
	if n == "" || digitsPrefix(n) != len(n) {
		return "", false
	}
	return n, true
}

// numberedItem matches "<digits>. <text>" and returns the text.
// "1.5 million" is not a list item.
func numberedItem(raw string) (string, bool) {
	n := digitsPrefix(raw)
	if n == 0 || n >= len(raw) || raw[n] != '.' {
		return "", false
	}
	rest := raw[n+1:]
	if rest != "" && rest[0] != ' ' && rest[0] != '\t' {
		return "", false
	}
	return strings.TrimSpace(rest), true
}

func digitsPrefix(s string) int {
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		i++
	}
	return i
}
