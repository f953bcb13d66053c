package repository

import (
	"context"
	"time"

	"github.com/shaymaabd/AMPA/internal/domain/entity"
)

// SessionUpdateFunc mutates a freshly loaded session. It reports whether the
// session changed and must be written back. It may run more than once when a
// concurrent writer wins the race, so it must not have side effects.
type SessionUpdateFunc func(session *entity.Session) (bool, error)

// SessionRepository stores whole session state objects. Get and Update return
// ErrNotFound for unknown or expired ids.
type SessionRepository interface {
	Get(ctx context.Context, id string) (*entity.Session, error)
	Save(ctx context.Context, session *entity.Session, ttl time.Duration) error
	// Update applies fn atomically with respect to other Updates of the same
	// id and returns the session as stored.
	Update(ctx context.Context, id string, ttl time.Duration, fn SessionUpdateFunc) (*entity.Session, error)
	Delete(ctx context.Context, id string) error
}
