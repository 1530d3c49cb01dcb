package bot

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rbhz/tg-vocab-trainer/app/db"
	"github.com/rs/zerolog/log"
)

const (
	settingDirection   = "direction"
	settingReviewLimit = "limit"
)

type settingOption struct {
	Value string
	Title string
}

// setting describes a user configurable parameter
type setting struct {
	Title   string
	Options []settingOption
	current func(db.User) string
	apply   func(*db.User, string)
}

var settings = map[string]setting{
	settingDirection: {
		Title: "Review direction",
		Options: []settingOption{
			{db.DirectionForward, "Word → translation"},
			{db.DirectionReverse, "Translation → word"},
			{db.DirectionMixed, "Mixed"},
		},
		current: func(u db.User) string { return u.Config.GetDirection() },
		apply: func(u *db.User, value string) {
			u.Config.Direction = &value
		},
	},
	settingReviewLimit: {
		Title: "Cards per session",
		Options: []settingOption{
			{"5", "5"},
			{"10", "10"},
			{"20", "20"},
			{"50", "50"},
		},
		current: func(u db.User) string {
			if u.Config.ReviewLimit == nil {
				return ""
			}
			return strconv.Itoa(*u.Config.ReviewLimit)
		},
		apply: func(u *db.User, value string) {
			limit, _ := strconv.Atoi(value)
			u.Config.ReviewLimit = &limit
		},
	},
}

var settingsOrder = []string{settingDirection, settingReviewLimit}

func (s setting) option(value string) (settingOption, bool) {
	for _, o := range s.Options {
		if o.Value == value {
			return o, true
		}
	}
	return settingOption{}, false
}

// ListSettingsHandler handles /settings command
type ListSettingsHandler struct {
	neverPassthorugh
}

// Match returns true if update is /settings command
func (h ListSettingsHandler) Match(u tgbotapi.Update) bool {
	return u.Message != nil && u.Message.Command() == "settings"
}

// Handle sends settings list keyboard
func (h ListSettingsHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	msg := tgbotapi.NewMessage(u.Message.From.ID, "Choose what do you want to change:")
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(settingsOrder))
	for _, name := range settingsOrder {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(settings[name].Title, callbackData(callbackIDSettings, name)),
		))
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, _ = b.Send(msg)
}

// SendSettingOptionsHandler sends available values of a setting
type SendSettingOptionsHandler struct {
	neverPassthorugh
}

// Match returns true if update is setting callback without value
func (h SendSettingOptionsHandler) Match(u tgbotapi.Update) bool {
	return isCallback(u, callbackIDSettings) && strings.Count(u.CallbackQuery.Data, "|") == 1
}

// Handle sends setting values keyboard
func (h SendSettingOptionsHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	user, ok := contextUser(ctx)
	if !ok {
		return
	}
	name := strings.TrimPrefix(u.CallbackQuery.Data, callbackIDSettings+"|")
	s, ok := settings[name]
	if !ok {
		_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, "Unknown setting"))
		return
	}
	current := "default"
	if o, ok := s.option(s.current(user)); ok {
		current = o.Title
	}
	msg := tgbotapi.NewMessage(u.CallbackQuery.From.ID, fmt.Sprintf("%s\nCurrent: %s", s.Title, current))
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(s.Options))
	for _, o := range s.Options {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(o.Title, callbackData(callbackIDSettings, name, o.Value)),
		))
	}
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	_, _ = b.Send(msg)
}

// SetSettingHandler saves picked setting value to user config
type SetSettingHandler struct {
	neverPassthorugh
}

// Match returns true if update is setting callback with picked value
func (h SetSettingHandler) Match(u tgbotapi.Update) bool {
	return isCallback(u, callbackIDSettings) && strings.Count(u.CallbackQuery.Data, "|") == 2
}

// Handle saves setting value to user config
func (h SetSettingHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	user, ok := contextUser(ctx)
	if !ok {
		return
	}
	parts := strings.Split(u.CallbackQuery.Data, "|")
	s, ok := settings[parts[1]]
	if !ok {
		_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, "Unknown setting"))
		return
	}
	option, ok := s.option(parts[2])
	if !ok {
		log.Error().Str("setting", parts[1]).Str("value", parts[2]).Msg("invalid setting value")
		_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, "Unknown value"))
		return
	}
	s.apply(&user, option.Value)
	if err := b.DB().SaveUser(user); err != nil {
		log.Error().Err(err).Msg("failed to save user")
		return
	}
	_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, fmt.Sprintf("%s: %s", s.Title, option.Title)))
}
