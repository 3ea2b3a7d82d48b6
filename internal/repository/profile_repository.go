package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"polly-api/internal/domain"
	"polly-api/pkg/database"
)

type profileRepository struct {
	db *database.PostgresDB
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(db *database.PostgresDB) ProfileRepository {
	return &profileRepository{db: db}
}

// GetByID retrieves a profile by identity id, nil when absent
func (r *profileRepository) GetByID(ctx context.Context, id string) (*domain.Profile, error) {
	query := `
		SELECT id, name, COALESCE(email, ''), created_at, updated_at
		FROM profiles
		WHERE id = $1
	`

	var profile domain.Profile
	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&profile.ID,
		&profile.Name,
		&profile.Email,
		&profile.CreatedAt,
		&profile.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// Create inserts a new profile row mirroring the authenticated identity
func (r *profileRepository) Create(ctx context.Context, profile *domain.Profile) error {
	query := `
		INSERT INTO profiles (id, name, email)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		profile.ID,
		profile.Name,
		profile.Email,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

// UpdateName updates the display name of an existing profile
func (r *profileRepository) UpdateName(ctx context.Context, id, name string) error {
	query := `UPDATE profiles SET name = $2, updated_at = NOW() WHERE id = $1`

	if _, err := r.db.Pool.Exec(ctx, query, id, name); err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	return nil
}
