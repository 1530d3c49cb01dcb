package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/rbhz/tg-vocab-trainer/app/ai"
	"github.com/rbhz/tg-vocab-trainer/app/db"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

const (
	maxWordLength = 50
	// telegram limits callback data to 64 bytes
	maxCallbackData = 64
	addAllChoice    = "a"
)

// WordHandler handles word lookups sent as text or picked from spelling suggestions
type WordHandler struct {
	service LookupService
	neverPassthorugh
}

// Match returns true for plain text and lookup callbacks
func (h WordHandler) Match(u tgbotapi.Update) bool {
	if isCallback(u, callbackIDLookup) {
		return true
	}
	return u.Message != nil && u.Message.Text != "" && !u.Message.IsCommand() && u.Message.ReplyToMessage == nil
}

// Handle looks the word up and sends the result with add-card buttons
func (h WordHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	user, ok := contextUser(ctx)
	if !ok {
		return
	}
	var word string
	if u.CallbackQuery != nil {
		word = strings.TrimPrefix(u.CallbackQuery.Data, callbackIDLookup+"|")
		_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, ""))
	} else {
		word = strings.TrimSpace(u.Message.Text)
	}
	chatID := int64(user.ID)
	if word == "" {
		return
	}
	if utf8.RuneCountInString(word) > maxWordLength {
		_, _ = b.Send(tgbotapi.NewMessage(chatID, "Sorry, this is too long for a word"))
		return
	}

	result, err := h.service.Lookup(ctx, word)
	switch {
	case errors.Is(err, ai.ErrParseFailed):
		h.sendSuggestions(ctx, b, chatID, word)
		return
	case errors.Is(err, ai.ErrAIUnavailable), errors.Is(err, ai.ErrTimeout):
		log.Warn().Err(err).Str("word", word).Msg("lookup failed")
		_, _ = b.Send(tgbotapi.NewMessage(chatID, "AI is unavailable right now, please try again later"))
		return
	case err != nil:
		log.Error().Err(err).Str("word", word).Msg("lookup failed")
		return
	}

	lookup := db.NewLookup(user.ID, result)
	if err := b.DB().SaveLookup(lookup); err != nil {
		log.Error().Err(err).Str("word", word).Msg("failed to save lookup")
		return
	}
	text, err := renderTemplate("lookup", map[string]interface{}{"Result": result})
	if err != nil {
		log.Error().Err(err).Str("word", word).Msg("failed to render lookup")
		return
	}
	var markup interface{}
	if len(result.Translations) > 0 {
		markup = lookupKeyboard(lookup)
	}
	sendHTML(b, chatID, text, markup)
}

func (h WordHandler) sendSuggestions(ctx context.Context, b Bot, chatID int64, word string) {
	suggestions, err := h.service.SpellingSuggestions(ctx, word)
	if err != nil {
		log.Warn().Err(err).Str("word", word).Msg("failed to get spelling suggestions")
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(suggestions))
	for _, s := range suggestions {
		data := callbackData(callbackIDLookup, s)
		if len(data) > maxCallbackData || strings.EqualFold(s, word) {
			continue
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonData(s, data)))
	}
	if len(rows) == 0 {
		_, _ = b.Send(tgbotapi.NewMessage(chatID, "Sorry, I don't know this word"))
		return
	}
	msg := tgbotapi.NewMessage(chatID, "I don't know this word. Did you mean:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, _ = b.Send(msg)
}

func lookupKeyboard(lookup db.Lookup) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, len(lookup.Result.Translations))
	for idx := range lookup.Result.Translations {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(
			fmt.Sprintf("+%d", idx+1),
			callbackData(callbackIDAddCard, lookup.ID, idx),
		))
	}
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, 2)
	for len(buttons) > 0 {
		n := min(len(buttons), 5)
		rows = append(rows, buttons[:n])
		buttons = buttons[n:]
	}
	if len(lookup.Result.Translations) > 1 {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("+ all", callbackData(callbackIDAddCard, lookup.ID, addAllChoice)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// NewWordHandler creates new word handler
func NewWordHandler(service LookupService) WordHandler {
	return WordHandler{service: service}
}

// AddCardHandler adds translations from a lookup to user cards
type AddCardHandler struct {
	examples ExampleService
	neverPassthorugh
}

// NewAddCardHandler creates add card handler, examples fill context of cards without one
func NewAddCardHandler(examples ExampleService) AddCardHandler {
	return AddCardHandler{examples: examples}
}

// Match returns true if update is add card callback
func (h AddCardHandler) Match(u tgbotapi.Update) bool {
	return isCallback(u, callbackIDAddCard)
}

// Handle creates the card or merges translations into the existing one
func (h AddCardHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	user, ok := contextUser(ctx)
	if !ok {
		return
	}
	lookupID, choice, err := parseAddCardQuery(u.CallbackQuery.Data)
	if err != nil {
		log.Error().Err(err).Str("query", u.CallbackQuery.Data).Msg("failed to parse callback query")
		return
	}
	lookup, err := b.DB().GetLookup(lookupID)
	if err != nil && !errors.Is(err, db.ErrNotFound) {
		log.Error().Err(err).Str("lookup", lookupID).Msg("failed to get lookup")
		return
	}
	if errors.Is(err, db.ErrNotFound) || lookup.User != user.ID {
		_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, "This result has expired, send the word again"))
		return
	}
	entries := lookup.Result.Translations
	if choice >= 0 {
		if choice >= len(entries) {
			_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, "Unknown translation"))
			return
		}
		entries = entries[choice : choice+1]
	}
	translations := make([]string, 0, len(entries))
	for _, e := range entries {
		translations = append(translations, e.Translation)
	}

	front := lookup.Result.OriginalWord
	card, err := b.DB().FindCard(user.ID, front)
	var text string
	switch {
	case err == nil:
		if !card.MergeTranslations(translations) {
			_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, "Already in your cards"))
			return
		}
		text = "Card updated"
	case errors.Is(err, db.ErrNotFound):
		frontContext := cardContext(lookup.Result, entries)
		if frontContext == "" && len(entries) > 0 {
			frontContext = h.generateContext(ctx, front, entries[0].Translation, lookup.Result.IdentifiedLanguage)
		}
		card = db.NewCard(
			user.ID, front, translations, frontContext,
			front, lookup.Result.IdentifiedLanguage, time.Now().UTC(),
		)
		text = "Card added"
	default:
		log.Error().Err(err).Int64("user", int64(user.ID)).Str("word", front).Msg("failed to find card")
		return
	}
	if err := b.DB().SaveCard(card); err != nil {
		log.Error().Err(err).Int64("user", int64(user.ID)).Str("word", front).Msg("failed to save card")
		_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, "Error happened"))
		return
	}
	log.Debug().Str("card", card.ID).Strs("translations", card.Translations).Msg("card saved")
	_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, text))
}

func (h AddCardHandler) generateContext(ctx context.Context, word string, translation string, lang ai.Language) string {
	if h.examples == nil {
		return ""
	}
	example, err := h.examples.SpecificExample(ctx, word, translation, lang)
	if err != nil {
		log.Warn().Err(err).Str("word", word).Msg("failed to generate card context")
		return ""
	}
	return example
}

// cardContext picks the first example of chosen translations, then a general one
func cardContext(result ai.LookupResult, entries []ai.TranslationEntry) string {
	for _, e := range entries {
		if len(e.Examples) > 0 {
			return e.Examples[0]
		}
	}
	if len(result.GeneralExamples) > 0 {
		return result.GeneralExamples[0]
	}
	return ""
}

// parseAddCardQuery returns lookup ID and translation index, -1 means all
func parseAddCardQuery(data string) (string, int, error) {
	parts := strings.Split(data, "|")
	if len(parts) != 3 {
		return "", 0, errors.New("invalid callback query data")
	}
	if parts[2] == addAllChoice {
		return parts[1], -1, nil
	}
	choice, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, fmt.Errorf("parsing choice: %w", err)
	}
	if choice < 0 {
		return "", 0, fmt.Errorf("negative choice %d", choice)
	}
	return parts[1], choice, nil
}
