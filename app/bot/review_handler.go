package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rbhz/tg-vocab-trainer/app/ai"
	"github.com/rbhz/tg-vocab-trainer/app/db"
	"github.com/rbhz/tg-vocab-trainer/app/review"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog/log"
)

// sendReviewPrompt asks the user to reply with the answer
func sendReviewPrompt(b Bot, chatID int64, r db.Review) {
	direction := "Translate"
	if r.Swapped {
		direction = "Translate back"
	}
	text := fmt.Sprintf("%s: <b>%s</b>", direction, htmlEscape(r.Prompt))
	if left := len(r.Queue); left > 0 {
		text += fmt.Sprintf("\n<i>%d more after this one</i>", left)
	}
	sendHTML(b, chatID, text, tgbotapi.ForceReply{
		ForceReply:            true,
		InputFieldPlaceholder: "Your answer",
	})
}

// continueSession starts the next queued review or reports the session end
func continueSession(b Bot, trainer Trainer, user db.User, prev db.Review) {
	chatID := int64(user.ID)
	// closing the previous review cleared the pending one
	user.PendingReview = nil
	next, err := trainer.Next(user, prev)
	switch {
	case errors.Is(err, review.ErrNothingDue):
		_, _ = b.Send(tgbotapi.NewMessage(chatID, "Session finished, well done!"))
	case err != nil:
		log.Error().Err(err).Int64("user", int64(user.ID)).Msg("failed to start next review")
	default:
		sendReviewPrompt(b, chatID, next)
	}
}

func gradeKeyboard(reviewID string) tgbotapi.InlineKeyboardMarkup {
	buttons := make([]tgbotapi.InlineKeyboardButton, 0, 4)
	for _, g := range []review.Grade{review.Again, review.Hard, review.Good, review.Easy} {
		buttons = append(buttons, tgbotapi.NewInlineKeyboardButtonData(
			g.String(), callbackData(callbackIDGrade, reviewID, int(g)),
		))
	}
	return tgbotapi.NewInlineKeyboardMarkup(tgbotapi.NewInlineKeyboardRow(buttons...))
}

// ReviewHandler handles /review command
type ReviewHandler struct {
	trainer      Trainer
	defaultLimit int
	neverPassthorugh
}

// Match returns true if update is /review command
func (h ReviewHandler) Match(u tgbotapi.Update) bool {
	return u.Message != nil && u.Message.Command() == "review"
}

// Handle starts review session
func (h ReviewHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	user, ok := contextUser(ctx)
	if !ok {
		return
	}
	first, total, err := h.trainer.StartSession(user, user.Config.GetReviewLimit(h.defaultLimit))
	switch {
	case errors.Is(err, review.ErrNothingDue):
		_, _ = b.Send(tgbotapi.NewMessage(u.Message.Chat.ID, "Nothing to review, add more words or come back later"))
		return
	case err != nil:
		log.Error().Err(err).Int64("user", int64(user.ID)).Msg("failed to start review session")
		return
	}
	log.Debug().Int64("user", int64(user.ID)).Int("due", total).Int("session", len(first.Queue)+1).Msg("review session started")
	if total > len(first.Queue)+1 {
		_, _ = b.Send(tgbotapi.NewMessage(u.Message.Chat.ID,
			fmt.Sprintf("%d cards are due, reviewing %d of them", total, len(first.Queue)+1)))
	}
	sendReviewPrompt(b, u.Message.Chat.ID, first)
}

// NewReviewHandler creates review handler, defaultLimit is used when user has no own limit
func NewReviewHandler(trainer Trainer, defaultLimit int) ReviewHandler {
	return ReviewHandler{trainer: trainer, defaultLimit: defaultLimit}
}

// AnswerHandler handles replies to review prompts
type AnswerHandler struct {
	trainer Trainer
	neverPassthorugh
}

// Match returns true for text replies
func (h AnswerHandler) Match(u tgbotapi.Update) bool {
	return u.Message != nil && u.Message.ReplyToMessage != nil && u.Message.Text != "" && !u.Message.IsCommand()
}

// Handle evaluates the answer for the pending review
func (h AnswerHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	user, ok := contextUser(ctx)
	if !ok {
		return
	}
	chatID := u.Message.Chat.ID
	if user.PendingReview == nil {
		_, _ = b.Send(tgbotapi.NewMessage(chatID, "No active review, send /review to start"))
		return
	}
	answer := strings.TrimSpace(u.Message.Text)
	result, err := h.trainer.Answer(ctx, *user.PendingReview, answer)
	switch {
	case errors.Is(err, ai.ErrEvaluationUndetermined):
		text, err := renderTemplate("undetermined", map[string]interface{}{"Review": result, "Answer": answer})
		if err != nil {
			log.Error().Err(err).Str("review", result.ID).Msg("failed to render undetermined review")
			return
		}
		sendHTML(b, chatID, text, gradeKeyboard(result.ID))
		return
	case errors.Is(err, review.ErrReviewClosed), errors.Is(err, db.ErrNotFound):
		_, _ = b.Send(tgbotapi.NewMessage(chatID, "This review is already finished, send /review to start"))
		return
	case err != nil:
		log.Error().Err(err).Str("review", *user.PendingReview).Msg("failed to check answer")
		return
	}
	text, err := renderTemplate("evaluation", map[string]interface{}{"Review": result, "Result": result.Result})
	if err != nil {
		log.Error().Err(err).Str("review", result.ID).Msg("failed to render evaluation")
		return
	}
	sendHTML(b, chatID, text, exampleKeyboard(result.CardID))
	continueSession(b, h.trainer, user, result)
}

// NewAnswerHandler creates answer handler
func NewAnswerHandler(trainer Trainer) AnswerHandler {
	return AnswerHandler{trainer: trainer}
}

// GradeHandler handles self-grade callbacks
type GradeHandler struct {
	trainer Trainer
	neverPassthorugh
}

// Match returns true if update is grade callback
func (h GradeHandler) Match(u tgbotapi.Update) bool {
	return isCallback(u, callbackIDGrade)
}

// Handle closes the review with the picked grade
func (h GradeHandler) Handle(ctx context.Context, b Bot, u tgbotapi.Update) {
	user, ok := contextUser(ctx)
	if !ok {
		return
	}
	reviewID, grade, err := parseGradeQuery(u.CallbackQuery.Data)
	if err != nil {
		log.Error().Err(err).Str("query", u.CallbackQuery.Data).Msg("failed to parse callback query")
		return
	}
	existing, err := b.DB().GetReview(reviewID)
	if err != nil || existing.User != user.ID {
		if err != nil && !errors.Is(err, db.ErrNotFound) {
			log.Error().Err(err).Str("review", reviewID).Msg("failed to get review")
		}
		_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, "Unknown review"))
		return
	}
	closed, err := h.trainer.Grade(reviewID, grade)
	switch {
	case errors.Is(err, review.ErrReviewClosed):
		_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, "Already graded"))
		return
	case err != nil:
		log.Error().Err(err).Str("review", reviewID).Msg("failed to grade review")
		_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, "Error happened"))
		return
	}
	_, _ = b.SendCallback(tgbotapi.NewCallback(u.CallbackQuery.ID, "Graded: "+grade.String()))
	if u.CallbackQuery.Message != nil {
		edit := tgbotapi.NewEditMessageText(
			u.CallbackQuery.Message.Chat.ID,
			u.CallbackQuery.Message.MessageID,
			fmt.Sprintf("%s\n\n<i>Graded</i>: <b>%s</b>", htmlEscape(u.CallbackQuery.Message.Text), grade),
		)
		edit.ParseMode = "html"
		_, _ = b.Send(edit)
	}
	continueSession(b, h.trainer, user, closed)
}

// NewGradeHandler creates grade handler
func NewGradeHandler(trainer Trainer) GradeHandler {
	return GradeHandler{trainer: trainer}
}

func parseGradeQuery(data string) (string, review.Grade, error) {
	parts := strings.Split(data, "|")
	if len(parts) != 3 {
		return "", 0, errors.New("invalid callback query data")
	}
	value, err := strconv.Atoi(parts[2])
	if err != nil {
		return "", 0, fmt.Errorf("parsing grade: %w", err)
	}
	grade := review.Grade(value)
	if !grade.Valid() {
		return "", 0, review.ErrInvalidGrade
	}
	return parts[1], grade, nil
}
