package db

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	prefixUser   = "user:"
	prefixCards  = "cards:"
	prefixReview = "review:"
	prefixLookup = "lookup:"

	lookupTTL = 7 * 24 * time.Hour
)

type RedisStorage struct {
	db *redis.Client
}

func cardsKey(user UserID) string {
	return prefixCards + strconv.FormatInt(int64(user), 10)
}

// GetCard from redis
func (s *RedisStorage) GetCard(user UserID, id string) (Card, error) {
	data, err := s.db.HGet(context.Background(), cardsKey(user), id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Card{}, ErrNotFound
		}
		return Card{}, fmt.Errorf("fetching card: %w", err)
	}
	var card Card
	if jerr := json.NewDecoder(bytes.NewBufferString(data)).Decode(&card); jerr != nil {
		return card, fmt.Errorf("unmarshal card: %w", jerr)
	}
	return card, nil
}

// SaveCard to redis
func (s *RedisStorage) SaveCard(card Card) error {
	jdata, jerr := json.Marshal(card)
	if jerr != nil {
		return fmt.Errorf("marshal card: %w", jerr)
	}
	_, err := s.db.HSet(context.Background(), cardsKey(card.User), card.ID, string(jdata)).Result()
	if err != nil {
		return fmt.Errorf("saving card: %w", err)
	}
	return nil
}

// DeleteCard from redis
func (s *RedisStorage) DeleteCard(user UserID, id string) error {
	deleted, err := s.db.HDel(context.Background(), cardsKey(user), id).Result()
	if err != nil {
		return fmt.Errorf("deleting card: %w", err)
	}
	if deleted == 0 {
		return ErrNotFound
	}
	return nil
}

// FindCard scans user cards for the front word
func (s *RedisStorage) FindCard(user UserID, front string) (Card, error) {
	cards, err := s.GetUserCards(user)
	if err != nil {
		return Card{}, err
	}
	for _, card := range cards {
		if sameFront(card, front) {
			return card, nil
		}
	}
	return Card{}, ErrNotFound
}

// GetUserCards from redis
func (s *RedisStorage) GetUserCards(user UserID) ([]Card, error) {
	items, err := s.db.HGetAll(context.Background(), cardsKey(user)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return []Card{}, nil
		}
		return nil, fmt.Errorf("fetching cards: %w", err)
	}
	cards := make([]Card, 0, len(items))
	for _, jdata := range items {
		var card Card
		if jerr := json.NewDecoder(bytes.NewBufferString(jdata)).Decode(&card); jerr != nil {
			return nil, fmt.Errorf("unmarshal card: %w", jerr)
		}
		cards = append(cards, card)
	}
	sortCards(cards)
	return cards, nil
}

// GetUser from redis
func (s *RedisStorage) GetUser(id UserID) (User, error) {
	data, err := s.db.Get(context.Background(), prefixUser+strconv.FormatInt(int64(id), 10)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return User{}, ErrNotFound
		}
		return User{}, fmt.Errorf("fetching user: %w", err)
	}
	var user User
	if jerr := json.NewDecoder(bytes.NewBufferString(data)).Decode(&user); jerr != nil {
		return user, fmt.Errorf("unmarshal user: %w", jerr)
	}
	return user, nil
}

// SaveUser to redis
func (s *RedisStorage) SaveUser(user User) error {
	key := prefixUser + strconv.FormatInt(int64(user.ID), 10)
	jdata, jerr := json.Marshal(user)
	if jerr != nil {
		return fmt.Errorf("marshal user: %w", jerr)
	}
	_, err := s.db.Set(context.Background(), key, string(jdata), 0).Result()
	if err != nil {
		return fmt.Errorf("saving user: %w", err)
	}
	return nil
}

// GetReview from redis
func (s *RedisStorage) GetReview(id string) (Review, error) {
	get := s.db.Get(context.Background(), prefixReview+id)
	if err := get.Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return Review{}, ErrNotFound
		}
		return Review{}, fmt.Errorf("fetching review: %w", err)
	}
	var review Review
	if jerr := json.NewDecoder(bytes.NewBufferString(get.Val())).Decode(&review); jerr != nil {
		return review, fmt.Errorf("unmarshal review: %w", jerr)
	}
	return review, nil
}

// SaveReview to redis
func (s *RedisStorage) SaveReview(r Review) error {
	jdata, jerr := json.Marshal(r)
	if jerr != nil {
		return fmt.Errorf("marshal review: %w", jerr)
	}
	set := s.db.Set(context.Background(), prefixReview+r.ID, string(jdata), 0)
	if err := set.Err(); err != nil {
		return fmt.Errorf("saving review: %w", err)
	}
	return nil
}

// GetLookup from redis
func (s *RedisStorage) GetLookup(id string) (Lookup, error) {
	data, err := s.db.Get(context.Background(), prefixLookup+id).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return Lookup{}, ErrNotFound
		}
		return Lookup{}, fmt.Errorf("fetching lookup: %w", err)
	}
	var lookup Lookup
	if jerr := json.NewDecoder(bytes.NewBufferString(data)).Decode(&lookup); jerr != nil {
		return lookup, fmt.Errorf("unmarshal lookup: %w", jerr)
	}
	return lookup, nil
}

// SaveLookup to redis, lookups expire after a week
func (s *RedisStorage) SaveLookup(l Lookup) error {
	jdata, jerr := json.Marshal(l)
	if jerr != nil {
		return fmt.Errorf("marshal lookup: %w", jerr)
	}
	if err := s.db.Set(context.Background(), prefixLookup+l.ID, string(jdata), lookupTTL).Err(); err != nil {
		return fmt.Errorf("saving lookup: %w", err)
	}
	return nil
}

// NewRedisStorage creates RedisStorage with given url
func NewRedisStorage(url string) (*RedisStorage, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStorage{db: rdb}, nil
}
