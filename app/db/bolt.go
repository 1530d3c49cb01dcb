package db

import (
	"encoding/json"
	"fmt"
	"strconv"

	bolt "go.etcd.io/bbolt"
)

const (
	bucketUsers   = "Users"
	bucketCards   = "Cards"
	bucketReviews = "Reviews"
	bucketLookups = "Lookups"
)

// BoltStorage implements storage interface for BoltDB.
// Cards are kept in a nested bucket per user.
type BoltStorage struct {
	db *bolt.DB
}

func userKey(user UserID) []byte {
	return []byte(strconv.FormatInt(int64(user), 10))
}

func (b *BoltStorage) get(bucket string, key []byte, v interface{}) error {
	return b.db.View(func(tx *bolt.Tx) error {
		jdata := tx.Bucket([]byte(bucket)).Get(key)
		if len(jdata) == 0 {
			return ErrNotFound
		}
		if err := json.Unmarshal(jdata, v); err != nil {
			return fmt.Errorf("failed to unmarshal %s item: %w", bucket, err)
		}
		return nil
	})
}

func (b *BoltStorage) put(bucket string, key []byte, v interface{}) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		jdata, err := json.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal %s item: %w", bucket, err)
		}
		if err := tx.Bucket([]byte(bucket)).Put(key, jdata); err != nil {
			return fmt.Errorf("failed to put %s item: %w", bucket, err)
		}
		return nil
	})
}

// GetCard returns user card from database
func (b *BoltStorage) GetCard(user UserID, id string) (Card, error) {
	var card Card
	err := b.db.View(func(tx *bolt.Tx) error {
		userBucket := tx.Bucket([]byte(bucketCards)).Bucket(userKey(user))
		if userBucket == nil {
			return ErrNotFound
		}
		jdata := userBucket.Get([]byte(id))
		if len(jdata) == 0 {
			return ErrNotFound
		}
		if err := json.Unmarshal(jdata, &card); err != nil {
			return fmt.Errorf("failed to unmarshal card: %w", err)
		}
		return nil
	})
	return card, err
}

// SaveCard saves card to user bucket
func (b *BoltStorage) SaveCard(card Card) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		userBucket, err := tx.Bucket([]byte(bucketCards)).CreateBucketIfNotExists(userKey(card.User))
		if err != nil {
			return fmt.Errorf("failed to create user bucket: %w", err)
		}
		jdata, err := json.Marshal(card)
		if err != nil {
			return fmt.Errorf("failed to marshal card: %w", err)
		}
		if err := userBucket.Put([]byte(card.ID), jdata); err != nil {
			return fmt.Errorf("failed to put card: %w", err)
		}
		return nil
	})
}

// DeleteCard removes card from user bucket
func (b *BoltStorage) DeleteCard(user UserID, id string) error {
	return b.db.Update(func(tx *bolt.Tx) error {
		userBucket := tx.Bucket([]byte(bucketCards)).Bucket(userKey(user))
		if userBucket == nil || userBucket.Get([]byte(id)) == nil {
			return ErrNotFound
		}
		if err := userBucket.Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to delete card: %w", err)
		}
		return nil
	})
}

// FindCard returns user card by front word
func (b *BoltStorage) FindCard(user UserID, front string) (Card, error) {
	cards, err := b.GetUserCards(user)
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

// GetUserCards returns all cards of the user
func (b *BoltStorage) GetUserCards(user UserID) ([]Card, error) {
	cards := []Card{}
	err := b.db.View(func(tx *bolt.Tx) error {
		userBucket := tx.Bucket([]byte(bucketCards)).Bucket(userKey(user))
		if userBucket == nil {
			return nil
		}
		return userBucket.ForEach(func(k, v []byte) error {
			var card Card
			if err := json.Unmarshal(v, &card); err != nil {
				return fmt.Errorf("failed to unmarshal card %s: %w", k, err)
			}
			cards = append(cards, card)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sortCards(cards)
	return cards, nil
}

// GetUser returns user from database
func (b *BoltStorage) GetUser(id UserID) (User, error) {
	var user User
	err := b.get(bucketUsers, userKey(id), &user)
	return user, err
}

// SaveUser saves user to database
func (b *BoltStorage) SaveUser(user User) error {
	return b.put(bucketUsers, userKey(user.ID), user)
}

// GetReview returns review from database
func (b *BoltStorage) GetReview(id string) (Review, error) {
	var review Review
	err := b.get(bucketReviews, []byte(id), &review)
	return review, err
}

// SaveReview saves review to database
func (b *BoltStorage) SaveReview(r Review) error {
	return b.put(bucketReviews, []byte(r.ID), r)
}

// GetLookup returns lookup from database
func (b *BoltStorage) GetLookup(id string) (Lookup, error) {
	var lookup Lookup
	err := b.get(bucketLookups, []byte(id), &lookup)
	return lookup, err
}

// SaveLookup saves lookup to database
func (b *BoltStorage) SaveLookup(l Lookup) error {
	return b.put(bucketLookups, []byte(l.ID), l)
}

// NewBoltStorage creates BoltStorage instance and initialize buckets
func NewBoltStorage(db *bolt.DB) (*BoltStorage, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range []string{bucketUsers, bucketCards, bucketReviews, bucketLookups} {
			_, err := tx.CreateBucketIfNotExists([]byte(bucket))
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &BoltStorage{db: db}, nil
}
