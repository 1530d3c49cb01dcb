package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rbhz/tg-vocab-trainer/app/ai"
	"github.com/rbhz/tg-vocab-trainer/app/db"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

func exampleKeyboard(cardID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("Example", callbackData(callbackIDExample, cardID)),
	))
}

// ExampleHandler sends a bilingual example for a card
type ExampleHandler struct {
	examples ExampleService
	neverPassthorugh
}

// Match returns true if update is example callback
func (h ExampleHandler) Match(u tgbotapi.Update) bool {
	return isCallback(u, callbackIDExample)
}

// Handle generates example sentence with translation
func (h ExampleHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	user, ok := contextUser(ctx)
	if !ok {
		return
	}
	cardID := strings.TrimPrefix(u.CallbackQuery.Data, callbackIDExample+"|")
	card, err := b.DB().GetCard(user.ID, cardID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			log.Error().Err(err).Str("card", cardID).Msg("failed to get card")
		}
		_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, "Unknown card"))
		return
	}
	if len(card.Translations) == 0 {
		_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, "Card has no translations"))
		return
	}
	_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, ""))

	example, err := h.examples.BilingualExample(ctx, card.FrontWord, card.SourceLanguage, card.Translations[0])
	switch {
	case errors.Is(err, ai.ErrAIUnavailable), errors.Is(err, ai.ErrTimeout):
		_, _ = b.Send(tgbotapi.NewMessage(int64(user.ID), "AI is unavailable right now, please try again later"))
		return
	case err != nil:
		log.Warn().Err(err).Str("card", card.ID).Msg("failed to get bilingual example")
		_, _ = b.Send(tgbotapi.NewMessage(int64(user.ID), "Sorry, could not make an example"))
		return
	}
	text := fmt.Sprintf("%s\n<i>%s</i>", htmlEscape(example.SourceSentence), htmlEscape(example.TranslationSentence))
	sendHTML(b, int64(user.ID), text, nil)
}

// NewExampleHandler creates example handler
func NewExampleHandler(examples ExampleService) ExampleHandler {
	return ExampleHandler{examples: examples}
}
