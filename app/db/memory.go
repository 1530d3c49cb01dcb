package db

import "sync"

type InMemoryStorage struct {
	cards   map[UserID]map[string]Card
	users   map[UserID]User
	reviews map[string]Review
	lookups map[string]Lookup
	mx      sync.RWMutex
}

func (d *InMemoryStorage) GetCard(user UserID, id string) (Card, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	card, ok := d.cards[user][id]
	if !ok {
		return Card{}, ErrNotFound
	}
	return card, nil
}

func (d *InMemoryStorage) SaveCard(card Card) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	userCards, ok := d.cards[card.User]
	if !ok {
		userCards = make(map[string]Card)
		d.cards[card.User] = userCards
	}
	userCards[card.ID] = card
	return nil
}

func (d *InMemoryStorage) DeleteCard(user UserID, id string) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	if _, ok := d.cards[user][id]; !ok {
		return ErrNotFound
	}
	delete(d.cards[user], id)
	return nil
}

func (d *InMemoryStorage) FindCard(user UserID, front string) (Card, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	for _, card := range d.cards[user] {
		if sameFront(card, front) {
			return card, nil
		}
	}
	return Card{}, ErrNotFound
}

func (d *InMemoryStorage) GetUserCards(user UserID) ([]Card, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	result := make([]Card, 0, len(d.cards[user]))
	for _, card := range d.cards[user] {
		result = append(result, card)
	}
	sortCards(result)
	return result, nil
}

func (d *InMemoryStorage) GetUser(id UserID) (User, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	user, ok := d.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return user, nil
}

func (d *InMemoryStorage) SaveUser(user User) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.users[user.ID] = user
	return nil
}

func (d *InMemoryStorage) SaveReview(r Review) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.reviews[r.ID] = r
	return nil
}

func (d *InMemoryStorage) GetReview(id string) (Review, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	r, ok := d.reviews[id]
	if !ok {
		return Review{}, ErrNotFound
	}
	return r, nil
}

func (d *InMemoryStorage) SaveLookup(l Lookup) error {
	d.mx.Lock()
	defer d.mx.Unlock()
	d.lookups[l.ID] = l
	return nil
}

func (d *InMemoryStorage) GetLookup(id string) (Lookup, error) {
	d.mx.RLock()
	defer d.mx.RUnlock()
	l, ok := d.lookups[id]
	if !ok {
		return Lookup{}, ErrNotFound
	}
	return l, nil
}

func NewInMemoryStorage() *InMemoryStorage {
	return &InMemoryStorage{
		cards:   make(map[UserID]map[string]Card),
		users:   make(map[UserID]User),
		reviews: make(map[string]Review),
		lookups: make(map[string]Lookup),
	}
}
