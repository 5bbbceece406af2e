package profile

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Anand-247/FE-VF/internal/domain"
	"github.com/Anand-247/FE-VF/internal/logger"
	"github.com/Anand-247/FE-VF/internal/storage"
)

// Store keeps the single customer profile of this installation. Saves
// overwrite the whole record and are persisted immediately.
type Store struct {
	mu      sync.RWMutex
	user    *domain.UserProfile
	persist storage.Store
	key     string
	log     *zap.Logger
}

type Option func(*Store)

// WithKey overrides the storage key, used to keep one profile per client.
func WithKey(key string) Option {
	return func(s *Store) { s.key = key }
}

func NewStore(persist storage.Store, log *zap.Logger, opts ...Option) *Store {
	s := &Store{persist: persist, key: storage.UserKey, log: logger.OrNop(log)}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the saved profile. A missing or unreadable record leaves the
// profile absent.
func (s *Store) Load(ctx context.Context) {
	data, err := s.persist.Get(ctx, s.key)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.log.Error("error loading user profile", zap.Error(err))
		}
		return
	}

	var user domain.UserProfile
	if err := json.Unmarshal(data, &user); err != nil {
		s.log.Error("saved user profile is corrupt, ignoring it", zap.Error(err))
		return
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()
}

// SaveUser replaces the profile. The in-memory value is updated even when the
// write fails; the error is returned so callers can report it.
func (s *Store) SaveUser(ctx context.Context, user domain.UserProfile) error {
	data, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user profile: %w", err)
	}

	s.mu.Lock()
	s.user = &user
	s.mu.Unlock()

	if err := s.persist.Set(ctx, s.key, data); err != nil {
		s.log.Error("error saving user profile", zap.Error(err))
		return fmt.Errorf("failed to save user profile: %w", err)
	}
	return nil
}

func (s *Store) ClearUser(ctx context.Context) error {
	s.mu.Lock()
	s.user = nil
	s.mu.Unlock()

	if err := s.persist.Delete(ctx, s.key); err != nil {
		s.log.Error("error deleting user profile", zap.Error(err))
		return fmt.Errorf("failed to delete user profile: %w", err)
	}
	return nil
}

// Current returns a copy of the profile and whether one is set.
func (s *Store) Current() (domain.UserProfile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.UserProfile{}, false
	}
	return *s.user, true
}
