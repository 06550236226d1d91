// Package store persists vote topics and their choices.
package store

import (
	"context"
	"errors"

	"github.com/emilythestrangee/votebox/internal/models"
)

var (
	ErrNotFound      = errors.New("topic not found")
	ErrConflict      = errors.New("topic already exists")
	ErrInvalidState  = errors.New("topic is not active")
	ErrInvalidChoice = errors.New("invalid choice")
)

// Store is the contract every backend implements. Each call runs in its own
// transaction.
type Store interface {
	// CreateTopic stores a new active topic with one zero-vote choice per
	// label, in the given order. Labels are not validated.
	CreateTopic(ctx context.Context, content string, choices []string) (models.Topic, error)

	// CastVote adds exactly one vote to the first choice of the topic whose
	// content equals choice.
	CastVote(ctx context.Context, topicID int, choice string) error

	// GetTopic returns the topic with its choices in declared order.
	GetTopic(ctx context.Context, topicID int) (models.Topic, error)
}
