// Package store defines the persistence interface for the LevelUp server
// and its default Badger implementation.
package store

import (
	"context"

	"github.com/levelupapp/levelup-server/internal/domain"
)

// Repository is everything the services need from persistence.
type Repository interface {
	// Lifecycle
	Close() error

	// Progress
	LoadProgress(ctx context.Context, userID string) (*domain.UserProgress, error)
	SaveProgress(ctx context.Context, p *domain.UserProgress) error

	// Leaderboard
	ListTopUsers(ctx context.Context, limit int, key domain.SortKey) ([]domain.LeaderboardEntry, error)

	// Profiles
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	CreateProfile(ctx context.Context, profile *domain.Profile) error
	UpdateProfile(ctx context.Context, profile *domain.Profile) error
	AddAchievement(ctx context.Context, userID string, a domain.Achievement) (*domain.Profile, error)
}

var _ Repository = (*Store)(nil)
