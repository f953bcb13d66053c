package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shaymaabd/AMPA/internal/repository"
)

const (
	sessionKeyPrefix = "session:"
	maxUpdateRetries = 100
)

type sessionRepository struct {
	client *redis.Client
}

func NewSessionRepository(client *redis.Client) repository.SessionRepository {
	return &sessionRepository{client: client}
}

func (r *sessionRepository) key(id string) string {
	return sessionKeyPrefix + id
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*entity.Session, error) {
	return r.load(ctx, r.client, id)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *sessionRepository) load(ctx context.Context, c getter, id string) (*entity.Session, error) {
	val, err := c.Get(ctx, r.key(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session %s from redis: %w", id, err)
	}

	var session entity.Session
	if err := json.Unmarshal(val, &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", id, err)
	}
	if session.Cart == nil {
		session.Cart = entity.NewCart()
	}
	return &session, nil
}

// Update is an optimistic read-modify-write: the key is WATCHed while fn runs
// and the write is retried from a fresh read if another client changed it.
func (r *sessionRepository) Update(ctx context.Context, id string, ttl time.Duration, fn repository.SessionUpdateFunc) (*entity.Session, error) {
	key := r.key(id)
	var result *entity.Session

	txf := func(tx *redis.Tx) error {
		session, err := r.load(ctx, tx, id)
		if err != nil {
			return err
		}
		changed, err := fn(session)
		if err != nil {
			return err
		}
		result = session
		if !changed {
			return nil
		}

		session.UpdatedAt = time.Now().UTC()
		data, err := json.Marshal(session)
		if err != nil {
			return fmt.Errorf("failed to marshal session %s: %w", id, err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, ttl)
			return nil
		})
		return err
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return nil, err
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("session %s: %w after %d attempts", id, repository.ErrConflict, maxUpdateRetries)
}

func (r *sessionRepository) Save(ctx context.Context, session *entity.Session, ttl time.Duration) error {
	if session == nil || session.ID == "" {
		return errors.New("cannot save nil session or session with empty id")
	}
	session.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session %s: %w", session.ID, err)
	}
	if err := r.client.Set(ctx, r.key(session.ID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session %s to redis: %w", session.ID, err)
	}
	return nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, r.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to delete session %s from redis: %w", id, err)
	}
	return nil
}
