package db

import (
	"encoding/base64"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/rbhz/tg-vocab-trainer/app/ai"

	"github.com/google/uuid"
)

// UserID is a type for users ID
type UserID int64

// ErrNotFound is returned when object not found
var ErrNotFound error = errors.New("not found")

// GenerateID generates new uuid and encodes it to base64
func GenerateID() string {
	id := [16]byte(uuid.New())
	return base64.RawURLEncoding.EncodeToString(id[:])
}

// Storage defines method provided by database interfaces
type Storage interface {
	// GetCard returns user card by ID
	GetCard(UserID, string) (Card, error)
	// SaveCard creates or replaces card
	SaveCard(Card) error
	// DeleteCard removes user card by ID
	DeleteCard(UserID, string) error
	// FindCard returns user card by its front word, ignoring case
	FindCard(UserID, string) (Card, error)
	// GetUserCards returns all user cards ordered by creation time
	GetUserCards(UserID) ([]Card, error)

	// GetUser returns user by ID
	GetUser(UserID) (User, error)
	// SaveUser saves user to DB
	SaveUser(User) error

	// GetReview returns review by ID
	GetReview(string) (Review, error)
	// SaveReview saves review to DB
	SaveReview(Review) error

	// GetLookup returns lookup by ID
	GetLookup(string) (Lookup, error)
	// SaveLookup saves lookup result shown to the user
	SaveLookup(Lookup) error
}

// User holds user data
type User struct {
	ID            UserID
	IsAdmin       bool
	Username      string
	Language      string
	Config        UserConfig
	PendingReview *string
}

// UserConfig holds user config params
type UserConfig struct {
	ReviewLimit *int
	Direction   *string
}

// GetReviewLimit returns configured limit or fallback
func (c UserConfig) GetReviewLimit(fallback int) int {
	if c.ReviewLimit == nil || *c.ReviewLimit <= 0 {
		return fallback
	}
	return *c.ReviewLimit
}

// GetDirection returns configured review direction or the default one
func (c UserConfig) GetDirection() string {
	if c.Direction == nil {
		return DirectionDefault
	}
	return *c.Direction
}

// review directions
const (
	DirectionForward = "forward"
	DirectionReverse = "reverse"
	DirectionMixed   = "mixed"

	DirectionDefault = DirectionForward
)

// CardState is a learning stage of a card
type CardState int

// card states
const (
	StateNew CardState = iota
	StateLearning
	StateReview
	StateRelearning
)

// Card holds a word with its accepted translations and scheduling data
type Card struct {
	ID              string
	User            UserID
	FrontWord       string
	FrontContext    string
	SourceLanguage  ai.Language
	Translations    []string
	SourceQueryWord string

	Due          time.Time
	Stability    float64
	Difficulty   float64
	Repetitions  int
	Lapses       int
	State        CardState
	LastReviewed *time.Time

	Created time.Time
}

// NewCard creates card due immediately
func NewCard(
	user UserID, front string, translations []string, context string,
	queryWord string, lang ai.Language, now time.Time,
) Card {
	card := Card{
		ID:              GenerateID(),
		User:            user,
		FrontWord:       strings.TrimSpace(front),
		FrontContext:    context,
		SourceLanguage:  lang,
		Translations:    []string{},
		SourceQueryWord: queryWord,
		Due:             now,
		State:           StateNew,
		Created:         now,
	}
	card.MergeTranslations(translations)
	return card
}

// MergeTranslations appends translations not accepted yet, ignoring case.
// Returns true if anything was added.
func (c *Card) MergeTranslations(translations []string) bool {
	added := false
	for _, t := range translations {
		t = strings.TrimSpace(t)
		if t == "" || ai.MatchesKnown(c.Translations, t) {
			continue
		}
		c.Translations = append(c.Translations, t)
		added = true
	}
	return added
}

// IsDue returns true if card should be reviewed at now
func (c Card) IsDue(now time.Time) bool {
	return !c.Due.After(now)
}

// sameFront compares front words ignoring case
func sameFront(card Card, front string) bool {
	return ai.MatchesKnown([]string{card.FrontWord}, front)
}

func sortCards(cards []Card) {
	sort.SliceStable(cards, func(i, j int) bool {
		return cards[i].Created.Before(cards[j].Created)
	})
}

// ReviewResult holds outcome of a review
type ReviewResult struct {
	Answer          string
	Verdict         ai.Verdict
	Explanation     string
	CorrectedAnswer *string
	Grade           int
	Graded          time.Time
}

// Review holds a single question asked to the user
type Review struct {
	ID       string
	User     UserID
	CardID   string
	Prompt   string
	Expected []string
	Swapped  bool
	// Queue holds IDs of cards left in the session after this one
	Queue    []string
	Created  time.Time
	Result   *ReviewResult
}

// IsClosed returns true if review already has result
func (r Review) IsClosed() bool {
	return r.Result != nil
}

// NewReview creates new review
func NewReview(user UserID, cardID string, prompt string, expected []string, swapped bool) Review {
	return Review{
		ID:       GenerateID(),
		User:     user,
		CardID:   cardID,
		Prompt:   prompt,
		Expected: expected,
		Swapped:  swapped,
		Created:  time.Now().UTC(),
	}
}

// Lookup holds a lookup result shown to the user,
// cards are created from it later
type Lookup struct {
	ID      string
	User    UserID
	Result  ai.LookupResult
	Created time.Time
}

// NewLookup creates new lookup
func NewLookup(user UserID, result ai.LookupResult) Lookup {
	return Lookup{ID: GenerateID(), User: user, Result: result, Created: time.Now().UTC()}
}
