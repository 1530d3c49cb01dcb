package ai

import "strings"

// builderState is a state of the lookup response parser
type builderState int

const (
	stateIdle builderState = iota
	stateOriginalExamples
	stateTranslationBlock
	stateTranslationExamples
)

// lookupBuilder assembles a LookupResult from response lines.
// A builder is owned by a single ParseLookup call.
type lookupBuilder struct {
	state   builderState
	result  LookupResult
	example []string
	current *TranslationEntry
}

// ParseLookup extracts a LookupResult from a lookup response.
// It never fails: unrecognized input yields an empty result (see LookupResult.IsEmpty).
func ParseLookup(text string, word string) LookupResult {
	b := &lookupBuilder{
		state: stateIdle,
		result: LookupResult{
			OriginalWord:       word,
			IdentifiedLanguage: LanguageUnknown,
			GeneralExamples:    []string{},
			Translations:       []TranslationEntry{},
		},
	}
	for line := range Tokenize(text) {
		// a line that closes a section is dispatched again in the new state
		for b.dispatch(line) {
		}
	}
	b.finish()
	return b.result
}

// dispatch handles a line and returns true if it must be handled again
func (b *lookupBuilder) dispatch(line Line) (again bool) {
	switch line.Kind {
	case KindSourceLanguage:
		b.flushExample()
		// the first recognized language wins
		if lang := parseLanguage(line.Value); b.result.IdentifiedLanguage == LanguageUnknown {
			b.result.IdentifiedLanguage = lang
		}
		b.state = stateIdle
		return false
	case KindOriginalExamples:
		b.flushExample()
		b.state = stateOriginalExamples
		return false
	}

	switch b.state {
	case stateOriginalExamples:
		switch line.Kind {
		case KindNumbered:
			b.flushExample()
			b.example = append(b.example, line.Value)
		case KindText:
			b.example = append(b.example, line.Value)
		default:
			b.flushExample()
			b.state = stateIdle
			return true
		}
		return false
	case stateTranslationExamples:
		switch line.Kind {
		case KindNumbered, KindText:
			b.addTranslationExample(line.Value)
			return false
		default:
			b.state = stateTranslationBlock
			return true
		}
	}

	if line.Kind == KindTranslationStart {
		b.flushExample()
		b.flushTranslation()
		b.current = &TranslationEntry{Examples: []string{}}
		b.state = stateTranslationBlock
		return false
	}

	if b.state == stateTranslationBlock && b.current != nil {
		switch line.Kind {
		case KindTranslation:
			b.current.Translation = Sanitize(line.Value)
		case KindPartOfSpeech:
			pos := line.Value
			b.current.PartOfSpeech = &pos
		case KindExamples:
			b.state = stateTranslationExamples
		}
	}
	return false
}

// flushExample pushes the accumulated original example
func (b *lookupBuilder) flushExample() {
	if len(b.example) == 0 {
		return
	}
	example := Sanitize(strings.Join(b.example, " "))
	if example != "" {
		b.result.GeneralExamples = append(b.result.GeneralExamples, example)
	}
	b.example = nil
}

// flushTranslation pushes the open translation entry
func (b *lookupBuilder) flushTranslation() {
	if b.current == nil {
		return
	}
	b.result.Translations = append(b.result.Translations, *b.current)
	b.current = nil
}

func (b *lookupBuilder) addTranslationExample(text string) {
	if b.current == nil {
		return
	}
	if example := Sanitize(text); example != "" {
		b.current.Examples = append(b.current.Examples, example)
	}
}

func (b *lookupBuilder) finish() {
	b.flushExample()
	b.flushTranslation()
}
