package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/levelupapp/levelup-server/internal/service"
)

func (s *Server) registerProfileRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createProfile",
		Method:        http.MethodPost,
		Path:          "/api/v1/profiles",
		Summary:       "Get or create profile",
		Description:   "Creates the profile on first sign-in; returns the existing one otherwise",
		Tags:          []string{"Profiles"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/profiles/{userID}",
		Summary:     "Get profile",
		Description: "Returns the profile together with the user's progression",
		Tags:        []string{"Profiles"},
	}, s.handleGetProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPut,
		Path:        "/api/v1/profiles/{userID}",
		Summary:     "Update profile",
		Description: "Updates name, bio and photo URL. Omitted fields are left unchanged",
		Tags:        []string{"Profiles"},
	}, s.handleUpdateProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateStats",
		Method:      http.MethodPatch,
		Path:        "/api/v1/profiles/{userID}/stats",
		Summary:     "Adjust XP",
		Description: "Applies an XP delta. The level is always derived from XP and cannot be set",
		Tags:        []string{"Profiles"},
	}, s.handleUpdateStats)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addAchievement",
		Method:        http.MethodPost,
		Path:          "/api/v1/profiles/{userID}/achievements",
		Summary:       "Unlock achievement",
		Description:   "Appends an achievement to the profile",
		Tags:          []string{"Profiles"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddAchievement)
}

// UserPathInput identifies the user in the path.
type UserPathInput struct {
	UserID string `path:"userID" minLength:"1" maxLength:"128" doc:"User ID"`
}

// CreateProfileRequest is the body for get-or-create.
type CreateProfileRequest struct {
	UserID   string `json:"user_id" doc:"External user ID from the identity provider"`
	Email    string `json:"email" doc:"Email address"`
	Name     string `json:"name,omitempty" doc:"Display name; defaults to the email local part"`
	PhotoURL string `json:"photo_url,omitempty" doc:"Avatar URL"`
}

// CreateProfileInput wraps the create request for Huma.
type CreateProfileInput struct {
	Body CreateProfileRequest
}

// ProfileOutput wraps a profile for Huma.
type ProfileOutput struct {
	Status int
	Body   ProfileResponse
}

// ProfileDetailResponse is a profile with its progression.
type ProfileDetailResponse struct {
	Profile  ProfileResponse  `json:"profile" doc:"Public profile"`
	Progress ProgressResponse `json:"progress" doc:"Progression summary"`
}

// ProfileDetailOutput wraps the profile detail for Huma.
type ProfileDetailOutput struct {
	Body ProfileDetailResponse
}

// UpdateProfileRequest lists the editable profile fields.
type UpdateProfileRequest struct {
	Name     *string `json:"name,omitempty" doc:"Display name"`
	Bio      *string `json:"bio,omitempty" doc:"Short bio"`
	PhotoURL *string `json:"photo_url,omitempty" doc:"Avatar URL"`
}

// UpdateProfileInput wraps the update request for Huma.
type UpdateProfileInput struct {
	UserPathInput
	Body UpdateProfileRequest
}

// UpdateStatsRequest carries an XP adjustment.
type UpdateStatsRequest struct {
	XPDelta int64 `json:"xp_delta" doc:"XP to add; negative values remove XP, never below zero"`
}

// UpdateStatsInput wraps the stats request for Huma.
type UpdateStatsInput struct {
	UserPathInput
	Body UpdateStatsRequest
}

// OutcomeOutput wraps a progress change for Huma.
type OutcomeOutput struct {
	Body OutcomeResponse
}

// AddAchievementRequest describes a badge to unlock.
type AddAchievementRequest struct {
	Name string `json:"name" doc:"Achievement name"`
	Icon string `json:"icon,omitempty" doc:"Display icon"`
}

// AddAchievementInput wraps the achievement request for Huma.
type AddAchievementInput struct {
	UserPathInput
	Body AddAchievementRequest
}

func (s *Server) handleCreateProfile(ctx context.Context, input *CreateProfileInput) (*ProfileOutput, error) {
	profile, created, err := s.services.Profile.GetOrCreateProfile(ctx, service.CreateProfileRequest{
		UserID:   input.Body.UserID,
		Email:    input.Body.Email,
		Name:     input.Body.Name,
		PhotoURL: input.Body.PhotoURL,
	})
	if err != nil {
		return nil, err
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return &ProfileOutput{Status: status, Body: profileResponse(profile)}, nil
}

func (s *Server) handleGetProfile(ctx context.Context, input *UserPathInput) (*ProfileDetailOutput, error) {
	profile, err := s.services.Profile.GetProfile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	summary, err := s.services.Progression.GetProgress(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	return &ProfileDetailOutput{Body: ProfileDetailResponse{
		Profile:  profileResponse(profile),
		Progress: progressResponse(*summary),
	}}, nil
}

func (s *Server) handleUpdateProfile(ctx context.Context, input *UpdateProfileInput) (*ProfileOutput, error) {
	profile, err := s.services.Profile.UpdateProfile(ctx, input.UserID, service.UpdateProfileRequest{
		Name:     input.Body.Name,
		Bio:      input.Body.Bio,
		PhotoURL: input.Body.PhotoURL,
	})
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Status: http.StatusOK, Body: profileResponse(profile)}, nil
}

func (s *Server) handleUpdateStats(ctx context.Context, input *UpdateStatsInput) (*OutcomeOutput, error) {
	// Stats belong to a profile; without one the adjustment would leave an orphan leaderboard row.
	if _, err := s.services.Profile.GetProfile(ctx, input.UserID); err != nil {
		return nil, err
	}

	outcome, err := s.services.Progression.ApplyXPDelta(ctx, input.UserID, input.Body.XPDelta)
	if err != nil {
		return nil, err
	}
	return &OutcomeOutput{Body: outcomeResponse(outcome)}, nil
}

func (s *Server) handleAddAchievement(ctx context.Context, input *AddAchievementInput) (*ProfileOutput, error) {
	profile, err := s.services.Profile.AddAchievement(ctx, input.UserID, service.AddAchievementRequest{
		Name: input.Body.Name,
		Icon: input.Body.Icon,
	})
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Status: http.StatusCreated, Body: profileResponse(profile)}, nil
}
