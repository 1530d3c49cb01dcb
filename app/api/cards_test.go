package api

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/rbhz/tg-vocab-trainer/app/ai"
	"github.com/rbhz/tg-vocab-trainer/app/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func doRequest(t *testing.T, method string, url string, auth bool) *http.Response {
	req, err := http.NewRequest(method, url, nil)
	require.NoError(t, err)
	if auth {
		req.Header.Set("Authorization", getTestJWT())
	}
	r, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	return r
}

func TestGetUserCards(t *testing.T) {
	const path = "/api/v1/cards"
	t.Run("success", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		ts, cancel := getTestServer(storage)
		defer cancel()
		card := db.NewCard(db.UserID(testUserID), "test", []string{"тест"}, "", "test", ai.LanguageEnglish, testNow)
		require.NoError(t, storage.SaveCard(card))
		other := db.NewCard(db.UserID(2), "other", []string{"другой"}, "", "other", ai.LanguageEnglish, testNow)
		require.NoError(t, storage.SaveCard(other))

		r := doRequest(t, http.MethodGet, ts.URL+path, true)
		assert.Equal(t, http.StatusOK, r.StatusCode)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		var cards []db.Card
		require.NoError(t, json.NewDecoder(r.Body).Decode(&cards))
		assert.Equal(t, []db.Card{card}, cards)
	})
	t.Run("empty", func(t *testing.T) {
		ts, cancel := getTestServer(nil)
		defer cancel()
		r := doRequest(t, http.MethodGet, ts.URL+path, true)
		assert.Equal(t, http.StatusOK, r.StatusCode)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(body))
	})
	t.Run("storage error", func(t *testing.T) {
		ts, cancel := getTestServer(ErrorStorage{db.NewInMemoryStorage()})
		defer cancel()
		r := doRequest(t, http.MethodGet, ts.URL+path, true)
		assert.Equal(t, http.StatusInternalServerError, r.StatusCode)
	})
	t.Run("unauthorized", func(t *testing.T) {
		ts, cancel := getTestServer(nil)
		defer cancel()
		r := doRequest(t, http.MethodGet, ts.URL+path, false)
		assert.Equal(t, http.StatusUnauthorized, r.StatusCode)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "unauthorized", string(body))
	})
}

func TestGetCard(t *testing.T) {
	const path = "/api/v1/cards/"
	t.Run("success", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		ts, cancel := getTestServer(storage)
		defer cancel()
		card := db.NewCard(db.UserID(testUserID), "test", []string{"тест"}, "context", "test", ai.LanguageEnglish, testNow)
		require.NoError(t, storage.SaveCard(card))

		r := doRequest(t, http.MethodGet, ts.URL+path+card.ID, true)
		assert.Equal(t, http.StatusOK, r.StatusCode)
		var res db.Card
		require.NoError(t, json.NewDecoder(r.Body).Decode(&res))
		assert.Equal(t, card, res)
	})
	t.Run("other user card", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		ts, cancel := getTestServer(storage)
		defer cancel()
		card := db.NewCard(db.UserID(2), "test", []string{"тест"}, "", "test", ai.LanguageEnglish, testNow)
		require.NoError(t, storage.SaveCard(card))

		r := doRequest(t, http.MethodGet, ts.URL+path+card.ID, true)
		assert.Equal(t, http.StatusNotFound, r.StatusCode)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		assert.Equal(t, "card not found", string(body))
	})
	t.Run("storage error", func(t *testing.T) {
		ts, cancel := getTestServer(ErrorStorage{db.NewInMemoryStorage()})
		defer cancel()
		r := doRequest(t, http.MethodGet, ts.URL+path+"id", true)
		assert.Equal(t, http.StatusInternalServerError, r.StatusCode)
	})
}

func TestDeleteCard(t *testing.T) {
	const path = "/api/v1/cards/"
	t.Run("success", func(t *testing.T) {
		storage := db.NewInMemoryStorage()
		ts, cancel := getTestServer(storage)
		defer cancel()
		card := db.NewCard(db.UserID(testUserID), "test", []string{"тест"}, "", "test", ai.LanguageEnglish, testNow)
		require.NoError(t, storage.SaveCard(card))

		r := doRequest(t, http.MethodDelete, ts.URL+path+card.ID, true)
		assert.Equal(t, http.StatusNoContent, r.StatusCode)
		_, err := storage.GetCard(db.UserID(testUserID), card.ID)
		assert.ErrorIs(t, err, db.ErrNotFound)

		r = doRequest(t, http.MethodDelete, ts.URL+path+card.ID, true)
		assert.Equal(t, http.StatusNotFound, r.StatusCode)
	})
	t.Run("storage error", func(t *testing.T) {
		ts, cancel := getTestServer(ErrorStorage{db.NewInMemoryStorage()})
		defer cancel()
		r := doRequest(t, http.MethodDelete, ts.URL+path+"id", true)
		assert.Equal(t, http.StatusInternalServerError, r.StatusCode)
	})
	t.Run("unauthorized", func(t *testing.T) {
		ts, cancel := getTestServer(nil)
		defer cancel()
		r := doRequest(t, http.MethodDelete, ts.URL+path+"id", false)
		assert.Equal(t, http.StatusUnauthorized, r.StatusCode)
	})
}
