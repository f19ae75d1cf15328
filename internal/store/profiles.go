package store

import (
	"context"
	"fmt"

	"github.com/levelupapp/levelup-server/internal/domain"
)

// GetProfile returns the profile for userID or ErrNotFound.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	return s.Profiles.Get(ctx, userID)
}

// CreateProfile stores a new profile. Returns ErrAlreadyExists if one exists.
func (s *Store) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.UserID == "" {
		return ErrInvalidInput
	}
	if err := s.Profiles.Create(ctx, profile.UserID, profile); err != nil {
		return fmt.Errorf("creating profile %s: %w", profile.UserID, err)
	}
	return nil
}

// UpdateProfile replaces an existing profile. Returns ErrNotFound if none exists.
func (s *Store) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.UserID == "" {
		return ErrInvalidInput
	}
	profile.UpdatedAt = s.now().UTC()
	if err := s.Profiles.Update(ctx, profile.UserID, profile); err != nil {
		return fmt.Errorf("updating profile %s: %w", profile.UserID, err)
	}
	return nil
}

// AddAchievement appends a to the user's achievements and returns the updated profile.
func (s *Store) AddAchievement(ctx context.Context, userID string, a domain.Achievement) (*domain.Profile, error) {
	if userID == "" {
		return nil, ErrInvalidInput
	}
	profile, err := s.Profiles.Modify(ctx, userID, func(p *domain.Profile) error {
		p.Achievements = append(p.Achievements, a)
		p.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("adding achievement to %s: %w", userID, err)
	}
	return profile, nil
}
