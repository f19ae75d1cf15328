package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/levelupapp/levelup-server/internal/domain"
	"github.com/levelupapp/levelup-server/internal/store"
)

// GetProfile returns the profile for userID with its achievements in unlock order.
func (s *Store) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if userID == "" {
		return nil, store.ErrInvalidInput
	}
	return getProfile(ctx, s.db, userID)
}

// CreateProfile inserts a new profile and any achievements it already carries.
func (s *Store) CreateProfile(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.UserID == "" {
		return store.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op.

	_, err = tx.ExecContext(ctx, `
		INSERT INTO profiles (user_id, email, name, bio, photo_url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		profile.UserID, profile.Email, profile.Name, profile.Bio, profile.PhotoURL,
		formatTime(profile.CreatedAt), formatTime(profile.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("creating profile %s: %w", profile.UserID, store.ErrAlreadyExists)
		}
		return fmt.Errorf("creating profile %s: %w", profile.UserID, err)
	}

	for _, a := range profile.Achievements {
		if err := insertAchievement(ctx, tx, profile.UserID, a); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UpdateProfile updates the editable fields of an existing profile.
// Achievements are managed through AddAchievement.
func (s *Store) UpdateProfile(ctx context.Context, profile *domain.Profile) error {
	if profile == nil || profile.UserID == "" {
		return store.ErrInvalidInput
	}

	profile.UpdatedAt = s.now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE profiles SET email = ?, name = ?, bio = ?, photo_url = ?, updated_at = ?
		WHERE user_id = ?`,
		profile.Email, profile.Name, profile.Bio, profile.PhotoURL, formatTime(profile.UpdatedAt),
		profile.UserID,
	)
	if err != nil {
		return fmt.Errorf("updating profile %s: %w", profile.UserID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("updating profile %s: %w", profile.UserID, store.ErrNotFound)
	}
	return nil
}

// AddAchievement appends a to the user's achievements and returns the updated profile.
func (s *Store) AddAchievement(ctx context.Context, userID string, a domain.Achievement) (*domain.Profile, error) {
	if userID == "" {
		return nil, store.ErrInvalidInput
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op.

	res, err := tx.ExecContext(ctx, `UPDATE profiles SET updated_at = ? WHERE user_id = ?`,
		formatTime(s.now()), userID)
	if err != nil {
		return nil, fmt.Errorf("adding achievement to %s: %w", userID, err)
	}
	if n, err := res.RowsAffected(); err != nil {
		return nil, err
	} else if n == 0 {
		return nil, fmt.Errorf("adding achievement to %s: %w", userID, store.ErrNotFound)
	}

	if err := insertAchievement(ctx, tx, userID, a); err != nil {
		return nil, err
	}

	profile, err := getProfile(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return profile, nil
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func getProfile(ctx context.Context, q querier, userID string) (*domain.Profile, error) {
	var p domain.Profile
	var createdAt, updatedAt string

	err := q.QueryRowContext(ctx, `
		SELECT user_id, email, name, bio, photo_url, created_at, updated_at
		FROM profiles WHERE user_id = ?`, userID).Scan(
		&p.UserID, &p.Email, &p.Name, &p.Bio, &p.PhotoURL, &createdAt, &updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile %s: %w", userID, err)
	}
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}

	rows, err := q.QueryContext(ctx, `
		SELECT achievement_id, name, icon, unlocked_at
		FROM achievements WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	p.Achievements = []domain.Achievement{}
	for rows.Next() {
		var a domain.Achievement
		var unlockedAt string
		if err := rows.Scan(&a.ID, &a.Name, &a.Icon, &unlockedAt); err != nil {
			return nil, err
		}
		if a.UnlockedAt, err = parseTime(unlockedAt); err != nil {
			return nil, err
		}
		p.Achievements = append(p.Achievements, a)
	}
	return &p, rows.Err()
}

func insertAchievement(ctx context.Context, q querier, userID string, a domain.Achievement) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO achievements (id, user_id, achievement_id, name, icon, unlocked_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), userID, a.ID, a.Name, a.Icon, formatTime(a.UnlockedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting achievement for %s: %w", userID, err)
	}
	return nil
}

// isUniqueViolation checks if an error is a SQLite UNIQUE or PRIMARY KEY constraint violation.
func isUniqueViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "PRIMARY KEY constraint failed")
}
