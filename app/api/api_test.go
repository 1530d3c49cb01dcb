package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/rbhz/tg-vocab-trainer/app/ai"
	"github.com/rbhz/tg-vocab-trainer/app/db"
)

const (
	testTGToken   = "123123213:1231231312"
	testJWTSecret = "tokentokentokentoken"
	testUserID    = 1
)

// emptyHandler is a dummy handler for testing.
type emptyHandler struct{}

func (h *emptyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {}

// ErrorStorage is a dummy storage for testing storage error handling.
type ErrorStorage struct {
	*db.InMemoryStorage
}

func (d ErrorStorage) GetUserCards(db.UserID) ([]db.Card, error) {
	return nil, errors.New("test")
}

func (d ErrorStorage) GetCard(db.UserID, string) (db.Card, error) {
	return db.Card{}, errors.New("test")
}

func (d ErrorStorage) DeleteCard(db.UserID, string) error {
	return errors.New("test")
}

// fakeLookup returns predefined lookup result and example
type fakeLookup struct {
	result  ai.LookupResult
	example string
	err     error
	words   []string
	langs   []ai.Language
}

func (l *fakeLookup) Lookup(ctx context.Context, word string) (ai.LookupResult, error) {
	l.words = append(l.words, word)
	if l.err == nil && word == "" {
		return ai.LookupResult{}, ai.ErrEmptyWord
	}
	return l.result, l.err
}

func (l *fakeLookup) Example(ctx context.Context, word string, lang ai.Language) (string, error) {
	l.words = append(l.words, word)
	l.langs = append(l.langs, lang)
	return l.example, l.err
}

// fakeEvaluator returns predefined evaluation
type fakeEvaluator struct {
	evaluation *ai.AnswerEvaluation
	err        error
}

func (e *fakeEvaluator) Evaluate(ctx context.Context, word string, known []string, answer string) (*ai.AnswerEvaluation, error) {
	return e.evaluation, e.err
}

// getTestServer returns a test server.
func getTestServer(storage db.Storage) (*httptest.Server, func()) {
	return getAITestServer(storage, &fakeLookup{}, &fakeEvaluator{})
}

// getAITestServer returns a test server with given AI collaborators
func getAITestServer(storage db.Storage, words WordService, evaluator Evaluator) (*httptest.Server, func()) {
	if storage == nil {
		storage = db.NewInMemoryStorage()
	}

	server := NewServer(storage, words, evaluator, testTGToken, testJWTSecret, time.Second)
	srv := httptest.NewServer(server.router)
	return srv, srv.Close
}

// getTestJWT returns a test JWT signed with testJWTSecret
func getTestJWT() string {
	token, _ := (&authService{telegramToken: testTGToken, jwtSecret: []byte(testJWTSecret)}).createToken(testUserID)
	return "Bearer " + token
}
