package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rbhz/tg-vocab-trainer/app/db"
	"github.com/rs/zerolog/log"
)

// cardsService implements methods for cards API
type cardsService struct {
	storage db.Storage
}

// GetUserCards returns user cards
func (c cardsService) GetUserCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := contextUserID(r)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	cards, err := c.storage.GetUserCards(userID)
	if err != nil {
		log.Error().Err(err).Int64("user", int64(userID)).Msg("failed to get user cards")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeResponse(w, http.StatusOK, cards)
}

// GetCard returns single card
func (c cardsService) GetCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := contextUserID(r)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	id := chi.URLParam(r, "id")
	card, err := c.storage.GetCard(userID, id)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeText(w, http.StatusNotFound, "card not found")
			return
		}
		log.Error().Err(err).Str("card", id).Msg("failed to get card")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	writeResponse(w, http.StatusOK, card)
}

// DeleteCard removes card
func (c cardsService) DeleteCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := contextUserID(r)
	if !ok {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	id := chi.URLParam(r, "id")
	if err := c.storage.DeleteCard(userID, id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			writeText(w, http.StatusNotFound, "card not found")
			return
		}
		log.Error().Err(err).Str("card", id).Msg("failed to delete card")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
