package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/rbhz/tg-vocab-trainer/app/ai"
	"github.com/rbhz/tg-vocab-trainer/app/db"
	"github.com/rbhz/tg-vocab-trainer/app/review"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

const (
	callbackIDLookup   = "lk"
	callbackIDAddCard  = "ac"
	callbackIDGrade    = "gr"
	callbackIDExample  = "ex"
	callbackIDSettings = "st"
)

type ctxKey string

const ctxUserKey ctxKey = "user"

// Bot describes bot for handlers
type Bot interface {
	Send(tgbotapi.Chattable) (tgbotapi.Message, error)
	SendCallback(tgbotapi.CallbackConfig) (*tgbotapi.APIResponse, error)
	DB() db.Storage
}

// LookupService answers word lookups
type LookupService interface {
	Lookup(ctx context.Context, word string) (ai.LookupResult, error)
	SpellingSuggestions(ctx context.Context, word string) ([]string, error)
}

// ExampleService generates example sentences
type ExampleService interface {
	SpecificExample(ctx context.Context, word string, translation string, lang ai.Language) (string, error)
	BilingualExample(ctx context.Context, word string, lang ai.Language, translation string) (ai.BilingualExample, error)
}

// WordService is everything handlers need from the AI layer
type WordService interface {
	LookupService
	ExampleService
}

// Trainer runs review sessions
type Trainer interface {
	StartSession(user db.User, limit int) (db.Review, int, error)
	Next(user db.User, prev db.Review) (db.Review, error)
	Answer(ctx context.Context, reviewID string, answer string) (db.Review, error)
	Grade(reviewID string, grade review.Grade) (db.Review, error)
}

// neverPassthorugh implements Passthrough with always false
type neverPassthorugh struct{}

// Passthrough always returns false
func (h neverPassthorugh) Passthrough(u tgbotapi.Update) bool {
	return false
}

func contextUser(ctx context.Context) (db.User, bool) {
	user, ok := ctx.Value(ctxUserKey).(db.User)
	if !ok {
		log.Error().Msg("invalid user in context")
	}
	return user, ok
}

func callbackData(parts ...interface{}) string {
	values := make([]string, 0, len(parts))
	for _, p := range parts {
		values = append(values, fmt.Sprint(p))
	}
	return strings.Join(values, "|")
}

func isCallback(u tgbotapi.Update, id string) bool {
	return u.CallbackQuery != nil && strings.HasPrefix(u.CallbackQuery.Data, id+"|")
}

func sendHTML(b Bot, chatID int64, text string, markup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "html"
	msg.ReplyMarkup = markup
	_, _ = b.Send(msg)
}

// DefaultHandlers returns bot handlers in matching order
func DefaultHandlers(service WordService, trainer Trainer, reviewLimit int) []Handler {
	return []Handler{
		StartHandler{},
		ListSettingsHandler{},
		SendSettingOptionsHandler{},
		SetSettingHandler{},
		NewReviewHandler(trainer, reviewLimit),
		NewAnswerHandler(trainer),
		NewGradeHandler(trainer),
		NewAddCardHandler(service),
		NewExampleHandler(service),
		NewWordHandler(service),
	}
}
