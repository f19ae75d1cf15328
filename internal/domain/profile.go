package domain

import (
	"strings"
	"time"
)

// Profile holds a user's public identity.
// UserID is the external identity (for example a Firebase UID) and is never generated here.
type Profile struct {
	UserID       string        `json:"user_id"`
	Email        string        `json:"email"`
	Name         string        `json:"name"`
	Bio          string        `json:"bio"`
	PhotoURL     string        `json:"photo_url"`
	Achievements []Achievement `json:"achievements"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// Achievement is a badge appended to a profile.
type Achievement struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Icon       string    `json:"icon"`
	UnlockedAt time.Time `json:"unlocked_at"`
}

// NewProfile creates a profile, defaulting the name to the local part of the email.
func NewProfile(userID, email, name, photoURL string, now time.Time) *Profile {
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return &Profile{
		UserID:       userID,
		Email:        email,
		Name:         name,
		PhotoURL:     photoURL,
		Achievements: []Achievement{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// DisplayName returns the name shown on leaderboards.
func (p *Profile) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.UserID
}
