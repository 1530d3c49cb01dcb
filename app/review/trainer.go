package review

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/rbhz/tg-vocab-trainer/app/ai"
	"github.com/rbhz/tg-vocab-trainer/app/db"

	log "github.com/rs/zerolog/log"
)

var (
	// ErrReviewClosed is returned when a review already has a result
	ErrReviewClosed = errors.New("review already closed")
	// ErrInvalidGrade is returned for grades outside Again..Easy
	ErrInvalidGrade = errors.New("invalid grade")
	// ErrNoTranslations is returned when a card has nothing to check answers against
	ErrNoTranslations = errors.New("card has no translations")
	// ErrNothingDue is returned when there are no cards to review
	ErrNothingDue = errors.New("no cards due")
)

// Evaluator judges free-text answers
type Evaluator interface {
	Evaluate(ctx context.Context, word string, known []string, answer string) (*ai.AnswerEvaluation, error)
}

// Trainer runs review sessions on top of storage
type Trainer struct {
	storage   db.Storage
	evaluator Evaluator
	schedule  Scheduler
	now       func() time.Time

	// closeMu serializes closing reviews so a review is scheduled once
	closeMu sync.Mutex
}

// NewTrainer creates Trainer with the default scheduler
func NewTrainer(storage db.Storage, evaluator Evaluator) *Trainer {
	return &Trainer{
		storage:   storage,
		evaluator: evaluator,
		schedule:  Schedule,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Due returns up to limit shuffled cards due for review and the total number of due cards
func (t *Trainer) Due(user db.UserID, limit int) ([]db.Card, int, error) {
	cards, err := t.storage.GetUserCards(user)
	if err != nil {
		return nil, 0, fmt.Errorf("get user cards: %w", err)
	}
	now := t.now()
	due := make([]db.Card, 0, len(cards))
	for _, card := range cards {
		if card.IsDue(now) {
			due = append(due, card)
		}
	}
	total := len(due)
	rand.Shuffle(len(due), func(i, j int) { due[i], due[j] = due[j], due[i] })
	if limit > 0 && len(due) > limit {
		due = due[:limit]
	}
	return due, total, nil
}

// StartSession starts reviewing up to limit due cards.
// Returns the first review and the total number of due cards.
func (t *Trainer) StartSession(user db.User, limit int) (db.Review, int, error) {
	cards, total, err := t.Due(user.ID, limit)
	if err != nil {
		return db.Review{}, 0, err
	}
	for i, card := range cards {
		if len(card.Translations) == 0 {
			continue
		}
		queue := make([]string, 0, len(cards)-i-1)
		for _, c := range cards[i+1:] {
			queue = append(queue, c.ID)
		}
		review, err := t.start(user, card, queue)
		return review, total, err
	}
	return db.Review{}, total, ErrNothingDue
}

// Next starts review of the next queued card of the session.
// Cards deleted or rescheduled meanwhile are skipped.
func (t *Trainer) Next(user db.User, prev db.Review) (db.Review, error) {
	now := t.now()
	for i, id := range prev.Queue {
		card, err := t.storage.GetCard(user.ID, id)
		if errors.Is(err, db.ErrNotFound) {
			continue
		}
		if err != nil {
			return db.Review{}, fmt.Errorf("get card: %w", err)
		}
		if !card.IsDue(now) || len(card.Translations) == 0 {
			continue
		}
		return t.start(user, card, prev.Queue[i+1:])
	}
	return db.Review{}, ErrNothingDue
}

// Start creates a review for the card and marks it pending for the user.
// Forward reviews ask the front word, reverse ones ask a translation.
func (t *Trainer) Start(user db.User, card db.Card) (db.Review, error) {
	return t.start(user, card, nil)
}

func (t *Trainer) start(user db.User, card db.Card, queue []string) (db.Review, error) {
	if len(card.Translations) == 0 {
		return db.Review{}, ErrNoTranslations
	}
	var swapped bool
	switch user.Config.GetDirection() {
	case db.DirectionReverse:
		swapped = true
	case db.DirectionMixed:
		swapped = rand.IntN(2) == 1
	}

	var review db.Review
	if swapped {
		review = db.NewReview(user.ID, card.ID, card.Translations[0], []string{card.FrontWord}, true)
	} else {
		review = db.NewReview(user.ID, card.ID, card.FrontWord, card.Translations, false)
	}
	review.Queue = queue
	review.Created = t.now()
	if err := t.storage.SaveReview(review); err != nil {
		return db.Review{}, fmt.Errorf("save review: %w", err)
	}
	user.PendingReview = &review.ID
	if err := t.storage.SaveUser(user); err != nil {
		return db.Review{}, fmt.Errorf("save user: %w", err)
	}
	return review, nil
}

// Answer evaluates the answer and closes the review.
// When no verdict could be determined the review stays open and the error
// wraps ai.ErrEvaluationUndetermined, Grade should be used then.
func (t *Trainer) Answer(ctx context.Context, reviewID string, answer string) (db.Review, error) {
	review, err := t.storage.GetReview(reviewID)
	if err != nil {
		return db.Review{}, fmt.Errorf("get review: %w", err)
	}
	if review.IsClosed() {
		return review, ErrReviewClosed
	}
	evaluation, err := t.evaluator.Evaluate(ctx, review.Prompt, review.Expected, answer)
	if err != nil {
		if errors.Is(err, ai.ErrEvaluationUndetermined) {
			log.Warn().Err(err).Str("review", review.ID).Msg("answer evaluation undetermined")
		}
		return review, err
	}
	return t.close(review.ID, db.ReviewResult{
		Answer:          answer,
		Verdict:         evaluation.Verdict,
		Explanation:     evaluation.Explanation,
		CorrectedAnswer: evaluation.CorrectedAnswer,
		Grade:           int(GradeFor(evaluation.Verdict)),
	})
}

// Grade closes the review with a grade chosen by the user
func (t *Trainer) Grade(reviewID string, grade Grade) (db.Review, error) {
	if !grade.Valid() {
		return db.Review{}, ErrInvalidGrade
	}
	return t.close(reviewID, db.ReviewResult{Grade: int(grade)})
}

// close schedules the card and stores the result, review is re-read under closeMu
func (t *Trainer) close(reviewID string, result db.ReviewResult) (db.Review, error) {
	t.closeMu.Lock()
	defer t.closeMu.Unlock()

	review, err := t.storage.GetReview(reviewID)
	if err != nil {
		return db.Review{}, fmt.Errorf("get review: %w", err)
	}
	if review.IsClosed() {
		return review, ErrReviewClosed
	}
	card, err := t.storage.GetCard(review.User, review.CardID)
	if err != nil {
		return review, fmt.Errorf("get card: %w", err)
	}
	now := t.now()
	card = t.schedule(card, Grade(result.Grade), now)
	if err := t.storage.SaveCard(card); err != nil {
		return review, fmt.Errorf("save card: %w", err)
	}

	result.Graded = now
	review.Result = &result
	if err := t.storage.SaveReview(review); err != nil {
		return review, fmt.Errorf("save review: %w", err)
	}

	user, err := t.storage.GetUser(review.User)
	switch {
	case errors.Is(err, db.ErrNotFound):
	case err != nil:
		log.Error().Err(err).Int64("user", int64(review.User)).Msg("failed to get user")
	case user.PendingReview != nil && *user.PendingReview == review.ID:
		user.PendingReview = nil
		if err := t.storage.SaveUser(user); err != nil {
			log.Error().Err(err).Int64("user", int64(user.ID)).Msg("failed to clear pending review")
		}
	}
	log.Debug().
		Str("review", review.ID).
		Str("card", card.ID).
		Stringer("grade", Grade(result.Grade)).
		Time("due", card.Due).
		Msg("review closed")
	return review, nil
}
