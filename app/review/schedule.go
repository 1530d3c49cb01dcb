package review

import (
	"math"
	"time"

	"github.com/rbhz/tg-vocab-trainer/app/db"
)

// Scheduler updates card scheduling data after a review
type Scheduler func(card db.Card, grade Grade, now time.Time) db.Card

const (
	desiredRetention = 0.9
	maxIntervalDays  = 36500
	minStability     = 0.1
	relearnDelay     = 10 * time.Minute
	day              = 24 * time.Hour
)

// default model weights, w[0]..w[3] are initial stabilities per grade
var weights = [17]float64{
	0.4072, 1.1829, 3.1262, 15.4722,
	7.2102, 0.5316, 1.0651, 0.0046,
	1.5418, 0.1594, 1.01, 2.1791,
	0.0292, 0.2788, 0.2229, 0.2604,
	3.3928,
}

// Schedule is the default Scheduler.
// Failed cards come back after a short delay, passed ones after
// an interval growing with stability.
func Schedule(card db.Card, grade Grade, now time.Time) db.Card {
	if !grade.Valid() {
		grade = Again
	}
	if card.State == db.StateNew || card.Stability <= 0 {
		card.Stability = math.Max(minStability, weights[grade-1])
		card.Difficulty = initialDifficulty(grade)
	} else {
		r := retrievability(elapsedDays(card, now), card.Stability)
		if grade == Again {
			card.Stability = stabilityAfterForgetting(card.Stability, card.Difficulty, r)
		} else {
			card.Stability = stabilityAfterRecall(card.Stability, card.Difficulty, r, grade)
		}
		card.Difficulty = nextDifficulty(card.Difficulty, grade)
	}

	card.Repetitions++
	reviewed := now
	card.LastReviewed = &reviewed

	if grade == Again {
		switch card.State {
		case db.StateReview:
			card.Lapses++
			card.State = db.StateRelearning
		case db.StateNew:
			card.State = db.StateLearning
		}
		card.Due = now.Add(relearnDelay)
		return card
	}
	card.State = db.StateReview
	card.Due = now.Add(time.Duration(nextInterval(card.Stability)) * day)
	return card
}

func elapsedDays(card db.Card, now time.Time) int {
	if card.LastReviewed == nil || now.Before(*card.LastReviewed) {
		return 0
	}
	return int(now.Sub(*card.LastReviewed) / day)
}

func retrievability(elapsed int, stability float64) float64 {
	if stability <= 0 {
		return 0
	}
	return math.Pow(1+float64(elapsed)/(9*stability), -1)
}

// nextInterval returns days until the next review, round(9*S*(1/r-1))
func nextInterval(stability float64) int {
	interval := int(math.Round(9 * stability * (1/desiredRetention - 1)))
	return max(1, min(maxIntervalDays, interval))
}

func initialDifficulty(grade Grade) float64 {
	return clampDifficulty(weights[4] - math.Exp(weights[5]*float64(grade-1)) + 1)
}

func nextDifficulty(d float64, grade Grade) float64 {
	d = weights[7]*initialDifficulty(Easy) + (1-weights[7])*(d-weights[6]*(float64(grade)-3))
	return clampDifficulty(d)
}

func stabilityAfterRecall(s, d, r float64, grade Grade) float64 {
	hardPenalty, easyBonus := 1.0, 1.0
	switch grade {
	case Hard:
		hardPenalty = weights[15]
	case Easy:
		easyBonus = weights[16]
	}
	growth := math.Exp(weights[8]) * (11 - d) * math.Pow(s, -weights[9]) *
		(math.Exp(weights[10]*(1-r)) - 1) * hardPenalty * easyBonus
	return math.Max(minStability, s*(growth+1))
}

func stabilityAfterForgetting(s, d, r float64) float64 {
	newS := weights[11] * math.Pow(d, -weights[12]) * (math.Pow(s+1, weights[13]) - 1) *
		math.Exp(weights[14]*(1-r))
	return math.Max(minStability, math.Min(s, newS))
}

func clampDifficulty(d float64) float64 {
	return math.Max(1, math.Min(10, d))
}
