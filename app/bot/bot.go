package bot

import (
	"context"
	"errors"
	"time"

	"github.com/rbhz/tg-vocab-trainer/app/db"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Handler processes matching updates
type Handler interface {
	Handle(ctx context.Context, b Bot, u tgbotapi.Update)
	Passthrough(tgbotapi.Update) bool
	Match(u tgbotapi.Update) bool
}

// TelegramBot handles Telegram API intragration and updates handling
type TelegramBot struct {
	UserName string
	api      *tgbotapi.BotAPI
	db       db.Storage
	handlers []Handler
	timeout  time.Duration
}

func (b *TelegramBot) processUpdate(u tgbotapi.Update) {
	ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
	defer cancel()
	dispatch(ctx, b, b.handlers, u)
}

// dispatch puts update sender into context and runs matching handlers
func dispatch(ctx context.Context, b Bot, handlers []Handler, u tgbotapi.Update) {
	from := u.SentFrom()
	if from == nil {
		return
	}
	user, err := getOrCreateUser(b.DB(), from)
	if err != nil {
		log.Error().Err(err).Int64("user", from.ID).Msg("failed to load user")
		return
	}
	ctx = context.WithValue(ctx, ctxUserKey, user)
	for _, handler := range handlers {
		if handler.Match(u) {
			handler.Handle(ctx, b, u)
			if !handler.Passthrough(u) {
				break
			}
		}
	}
}

func getOrCreateUser(storage db.Storage, from *tgbotapi.User) (db.User, error) {
	user, err := storage.GetUser(db.UserID(from.ID))
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, db.ErrNotFound) {
		return db.User{}, err
	}
	user = db.User{ID: db.UserID(from.ID), Username: from.UserName, Language: from.LanguageCode}
	if err := storage.SaveUser(user); err != nil {
		return db.User{}, err
	}
	log.Info().Int64("user", from.ID).Str("username", from.UserName).Msg("new user")
	return user, nil
}

// Start polls updates, each one is processed in its own goroutine
func (b *TelegramBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	for u := range updates {
		go b.processUpdate(u)
	}
}

// Send sends chattable and logs failures
func (b *TelegramBot) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	message, err := b.api.Send(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to send")
	}
	return message, err
}

// SendCallback answers callback query
func (b *TelegramBot) SendCallback(c tgbotapi.CallbackConfig) (*tgbotapi.APIResponse, error) {
	resp, err := b.api.Request(c)
	if err != nil {
		log.Error().Err(err).Msg("failed to send callback")
	}
	return resp, err
}

// DB returns bot storage
func (b *TelegramBot) DB() db.Storage {
	return b.db
}

// NewTelegramBot creates bot, timeout limits the processing of a single update
func NewTelegramBot(token string, storage db.Storage, handlers []Handler, timeout time.Duration) (*TelegramBot, error) {
	botAPI, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "failed to initialize bot")
	}
	log.Info().Str("username", botAPI.Self.UserName).Msg("telegram bot initialized")
	return &TelegramBot{
		UserName: botAPI.Self.UserName,
		api:      botAPI,
		db:       storage,
		handlers: handlers,
		timeout:  timeout,
	}, nil
}
