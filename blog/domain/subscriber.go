package domain

import (
	"context"
	"time"
)

// Subscriber is a newsletter subscriber. Email uniqueness is case-sensitive
// and enforced by the store.
type Subscriber struct {
	ID           int64
	Email        string
	SubscribedAt time.Time
}

type SubscriberRepository interface {
	// Insert persists a new subscriber and assigns its ID, returning
	// ErrDuplicateEmail if the email is already present.
	Insert(ctx context.Context, s *Subscriber) error

	// List returns all subscribers ordered by subscribed_at descending.
	List(ctx context.Context) ([]*Subscriber, error)
}
