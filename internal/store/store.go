// Package store keeps browsing sessions between requests.
package store

import (
	"context"
	"errors"

	"mealcatalog/internal/catalog"
)

// ErrSessionNotFound is returned for unknown or expired session ids.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore persists sessions by id. Save overwrites the whole session
// and refreshes its idle TTL.
type SessionStore interface {
	Get(ctx context.Context, id string) (*catalog.Session, error)
	Save(ctx context.Context, s *catalog.Session) error
	Delete(ctx context.Context, id string) error
}
