package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rbhz/tg-vocab-trainer/app/ai"
	"github.com/rbhz/tg-vocab-trainer/app/db"
	"github.com/rs/zerolog/log"
)

type ctxKey string

const ctxUserIDKey ctxKey = "userID"

// WordService answers word lookups and makes examples
type WordService interface {
	Lookup(ctx context.Context, word string) (ai.LookupResult, error)
	Example(ctx context.Context, word string, lang ai.Language) (string, error)
}

// Evaluator judges free-text answers
type Evaluator interface {
	Evaluate(ctx context.Context, word string, known []string, answer string) (*ai.AnswerEvaluation, error)
}

type Server struct {
	storage db.Storage
	router  chi.Router
}

func (s *Server) Run(port int) error {
	log.Info().Int("port", port).Msg("starting api server")
	return http.ListenAndServe(fmt.Sprintf(":%d", port), s.router)
}

func (s *Server) setJsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// writeResponse writes status and data marshalled to JSON
func writeResponse(w http.ResponseWriter, status int, data interface{}) {
	response, err := json.Marshal(data)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(response); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

// writeText writes plain text error body
func writeText(w http.ResponseWriter, status int, text string) {
	w.WriteHeader(status)
	if _, err := w.Write([]byte(text)); err != nil {
		log.Warn().Err(err).Msg("failed to write response")
	}
}

func contextUserID(r *http.Request) (db.UserID, bool) {
	userID, ok := r.Context().Value(ctxUserIDKey).(db.UserID)
	if !ok {
		log.Error().Interface("user", r.Context().Value(ctxUserIDKey)).Msg("invalid user id in context")
	}
	return userID, ok
}

// NewServer creates API server, requestTimeout limits AI backed endpoints
func NewServer(
	storage db.Storage,
	words WordService,
	evaluator Evaluator,
	tgToken string,
	jwtSecret string,
	requestTimeout time.Duration,
) *Server {
	s := &Server{storage: storage}
	cards := cardsService{storage: storage}
	aiHandlers := aiService{words: words, evaluator: evaluator}
	auth := authService{storage: storage, telegramToken: tgToken, jwtSecret: []byte(jwtSecret)}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.setJsonContentType)
		r.Route("/auth", func(r chi.Router) {
			r.Get("/telegram", auth.TelegramRedirectHandler)
		})
		r.Route("/cards", func(r chi.Router) {
			r.Use(auth.UserCtx)
			r.Get("/", cards.GetUserCards)
			r.Get("/{id}", cards.GetCard)
			r.Delete("/{id}", cards.DeleteCard)
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.UserCtx)
			r.Use(middleware.Timeout(requestTimeout))
			r.Get("/lookup/{word}", aiHandlers.Lookup)
			r.Get("/example/{word}", aiHandlers.Example)
			r.Post("/evaluate", aiHandlers.Evaluate)
		})
	})

	s.router = r
	return s
}
