package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shaymaabd/AMPA/internal/domain"
	"github.com/shaymaabd/AMPA/internal/domain/entity"
	"github.com/shaymaabd/AMPA/internal/platform/logger"
	"github.com/shaymaabd/AMPA/internal/repository"
)

const defaultSessionTTL = 24 * time.Hour

// SessionService owns the lifecycle of per-user state objects.
type SessionService interface {
	Start(ctx context.Context) (*entity.Session, error)
	Get(ctx context.Context, id string) (*entity.Session, error)
	GetOrCreate(ctx context.Context, id string) (*entity.Session, bool, error)
	Update(ctx context.Context, id string, fn repository.SessionUpdateFunc) (*entity.Session, error)
	End(ctx context.Context, id string) error
}

type sessionService struct {
	repo repository.SessionRepository
	log  logger.Logger
	ttl  time.Duration
}

func NewSessionService(repo repository.SessionRepository, log logger.Logger, ttl time.Duration) SessionService {
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	return &sessionService{repo: repo, log: log, ttl: ttl}
}

func (s *sessionService) Start(ctx context.Context) (*entity.Session, error) {
	session := entity.NewSession(uuid.NewString())
	if err := s.repo.Save(ctx, session, s.ttl); err != nil {
		s.log.Errorf("Error creating session: %v", err)
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.log.Infof("Session %s started", session.ID)
	return session, nil
}

func (s *sessionService) Get(ctx context.Context, id string) (*entity.Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}
	session, err := s.repo.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		s.log.Errorf("Error getting session %s: %v", id, err)
		return nil, fmt.Errorf("failed to load session: %w", err)
	}
	return session, nil
}

// GetOrCreate loads id, or starts a fresh session when it is unknown or
// expired. The bool reports whether a new session was created.
func (s *sessionService) GetOrCreate(ctx context.Context, id string) (*entity.Session, bool, error) {
	session, err := s.Get(ctx, id)
	if err == nil {
		return session, false, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, false, err
	}
	session, err = s.Start(ctx)
	if err != nil {
		return nil, false, err
	}
	return session, true, nil
}

// Update runs fn against the stored session and writes the result back
// without losing writes made concurrently by other requests.
func (s *sessionService) Update(ctx context.Context, id string, fn repository.SessionUpdateFunc) (*entity.Session, error) {
	if id == "" {
		return nil, domain.ErrSessionNotFound
	}
	var fnErr error
	session, err := s.repo.Update(ctx, id, s.ttl, func(session *entity.Session) (bool, error) {
		changed, err := fn(session)
		fnErr = err
		return changed, err
	})
	if fnErr != nil {
		return nil, fnErr
	}
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
		}
		s.log.Errorf("Error updating session %s: %v", id, err)
		return nil, fmt.Errorf("failed to save session: %w", err)
	}
	return session, nil
}

func (s *sessionService) End(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		s.log.Errorf("Error deleting session %s: %v", id, err)
		return fmt.Errorf("failed to end session: %w", err)
	}
	s.log.Infof("Session %s ended", id)
	return nil
}
