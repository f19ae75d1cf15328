package store

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/dgraph-io/badger/v4"

	"github.com/levelupapp/levelup-server/internal/domain"
	"github.com/levelupapp/levelup-server/internal/progression"
)

// LoadProgress returns the stored progress for userID, or the default
// record (version 0) if the user has never saved any. Nothing is written.
func (s *Store) LoadProgress(ctx context.Context, userID string) (*domain.UserProgress, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, ErrInvalidInput
	}

	key := buildKey(progressPrefix, userID)
	defer releaseKey(key)

	p := domain.NewUserProgress(userID)
	err := s.db.View(func(txn *badger.Txn) error {
		return get(txn, key, p)
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return domain.NewUserProgress(userID), nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading progress for %s: %w", userID, err)
	}
	return p, nil
}

// SaveProgress writes p if the stored version still equals p.Version.
// A version of 0 only succeeds when nothing is stored yet. On success
// p.Version and p.UpdatedAt are advanced; otherwise ErrStaleWrite is returned.
func (s *Store) SaveProgress(ctx context.Context, p *domain.UserProgress) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p == nil || p.UserID == "" {
		return ErrInvalidInput
	}

	key := buildKey(progressPrefix, p.UserID)
	defer releaseKey(key)

	next := p.Clone()
	next.Version = p.Version + 1
	next.UpdatedAt = s.now().UTC()

	err := s.db.Update(func(txn *badger.Txn) error {
		var stored domain.UserProgress
		err := get(txn, key, &stored)
		if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		// A missing key leaves stored.Version at 0.
		if stored.Version != p.Version {
			return ErrStaleWrite
		}
		return set(txn, key, &next)
	})
	switch {
	case errors.Is(err, badger.ErrConflict):
		return fmt.Errorf("saving progress for %s: %w", p.UserID, ErrStaleWrite)
	case errors.Is(err, ErrStaleWrite):
		return fmt.Errorf("saving progress for %s at version %d: %w", p.UserID, p.Version, ErrStaleWrite)
	case err != nil:
		return fmt.Errorf("saving progress for %s: %w", p.UserID, err)
	}

	p.Version = next.Version
	p.UpdatedAt = next.UpdatedAt
	return nil
}

// ListTopUsers ranks every known user by key and returns at most limit
// entries (limit <= 0 returns all). Users with a profile but no progress
// appear with default progress; display names fall back to the user id.
func (s *Store) ListTopUsers(ctx context.Context, limit int, key domain.SortKey) ([]domain.LeaderboardEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	names := make(map[string]string)
	progress := make(map[string]*domain.UserProgress)

	err := s.db.View(func(txn *badger.Txn) error {
		err := scanPrefix(ctx, txn, []byte(profilePrefix), func(p *domain.Profile) bool {
			names[p.UserID] = p.DisplayName()
			return true
		})
		if err != nil {
			return err
		}
		return scanPrefix(ctx, txn, []byte(progressPrefix), func(p *domain.UserProgress) bool {
			progress[p.UserID] = p
			return true
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing leaderboard: %w", err)
	}

	return rankEntries(names, progress, limit, key), nil
}

func rankEntries(names map[string]string, progress map[string]*domain.UserProgress, limit int, key domain.SortKey) []domain.LeaderboardEntry {
	entries := make([]domain.LeaderboardEntry, 0, max(len(names), len(progress)))
	for userID, p := range progress {
		name, ok := names[userID]
		if !ok {
			name = userID
		}
		entries = append(entries, domain.LeaderboardEntryOf(*p, name))
	}
	for userID, name := range names {
		if _, ok := progress[userID]; !ok {
			entries = append(entries, domain.LeaderboardEntryOf(*domain.NewUserProgress(userID), name))
		}
	}

	ranked := progression.Rank(slices.Values(entries), key)
	return slices.Collect(progression.Top(ranked, limit))
}
