package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/levelupapp/levelup-server/internal/domain"
	"github.com/levelupapp/levelup-server/internal/id"
	"github.com/levelupapp/levelup-server/internal/store"
	"github.com/levelupapp/levelup-server/internal/validation"
)

// ProfileService manages user profiles and achievements.
type ProfileService struct {
	repo      store.Repository
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewProfileService creates a new profile service.
func NewProfileService(repo store.Repository, validator *validation.Validator, logger *slog.Logger) *ProfileService {
	return &ProfileService{
		repo:      repo,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// CreateProfileRequest identifies a user signing in for the first time.
type CreateProfileRequest struct {
	UserID   string `json:"user_id" validate:"notblank,max=128"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"max=100"`
	PhotoURL string `json:"photo_url" validate:"omitempty,url"`
}

// UpdateProfileRequest contains optional fields to update.
type UpdateProfileRequest struct {
	Name     *string `json:"name" validate:"omitempty,notblank,max=100"`
	Bio      *string `json:"bio" validate:"omitempty,max=500"`
	PhotoURL *string `json:"photo_url" validate:"omitempty,url"`
}

// AddAchievementRequest describes a newly unlocked badge.
type AddAchievementRequest struct {
	Name string `json:"name" validate:"notblank,max=100"`
	Icon string `json:"icon" validate:"max=32"`
}

// GetOrCreateProfile returns the user's profile, creating it on first sign-in.
// The boolean reports whether the profile was created.
func (s *ProfileService) GetOrCreateProfile(ctx context.Context, req CreateProfileRequest) (*domain.Profile, bool, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, false, err
	}

	profile, err := s.repo.GetProfile(ctx, req.UserID)
	if err == nil {
		return profile, false, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return nil, false, fmt.Errorf("get profile: %w", err)
	}

	profile = domain.NewProfile(req.UserID, req.Email, req.Name, req.PhotoURL, s.now().UTC())
	err = s.repo.CreateProfile(ctx, profile)
	if errors.Is(err, store.ErrAlreadyExists) {
		// Lost a race with a concurrent sign-in.
		existing, err := s.repo.GetProfile(ctx, req.UserID)
		return existing, false, err
	}
	if err != nil {
		return nil, false, fmt.Errorf("create profile: %w", err)
	}

	s.logger.Info("created profile", "user_id", req.UserID)
	return profile, true, nil
}

// GetProfile returns the user's profile or store.ErrNotFound.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	return s.repo.GetProfile(ctx, userID)
}

// UpdateProfile applies the non-nil fields of req.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID string, req UpdateProfileRequest) (*domain.Profile, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	profile, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Bio != nil {
		profile.Bio = *req.Bio
	}
	if req.PhotoURL != nil {
		profile.PhotoURL = *req.PhotoURL
	}

	if err := s.repo.UpdateProfile(ctx, profile); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return profile, nil
}

// AddAchievement unlocks a new achievement for the user.
func (s *ProfileService) AddAchievement(ctx context.Context, userID string, req AddAchievementRequest) (*domain.Profile, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	achievementID, err := id.Generate(id.PrefixAchievement)
	if err != nil {
		return nil, err
	}

	profile, err := s.repo.AddAchievement(ctx, userID, domain.Achievement{
		ID:         achievementID,
		Name:       req.Name,
		Icon:       req.Icon,
		UnlockedAt: s.now().UTC(),
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("achievement unlocked", "user_id", userID, "achievement", req.Name)
	return profile, nil
}
