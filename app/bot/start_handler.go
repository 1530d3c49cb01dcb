package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const startText = `Hi! Send me an English or Russian word and I will translate it.
Add translations to your cards with the buttons below the answer.
/review to train your cards, /settings to tune reviews.`

type StartHandler struct {
	neverPassthorugh
}

func (h StartHandler) Match(u tgbotapi.Update) bool {
	return u.Message != nil && u.Message.Command() == "start"
}

func (h StartHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	b.Send(tgbotapi.NewMessage(u.Message.From.ID, startText))
}
