package repository

import (
	"context"
	"fmt"

	"crewlink-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PhotoRepository handles database operations for profile photos
type PhotoRepository struct {
	db *pgxpool.Pool
}

// NewPhotoRepository creates a new photo repository
func NewPhotoRepository(db *pgxpool.Pool) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Create creates a new profile photo record
func (r *PhotoRepository) Create(ctx context.Context, photo *models.ProfilePhoto) error {
	query := `
		INSERT INTO profile_photos (id, user_id, s3_url, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.Exec(ctx, query, photo.ID, photo.UserID, photo.S3URL, photo.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create photo: %w", err)
	}
	return nil
}

// GetLatestByUser retrieves a user's most recent profile photo
func (r *PhotoRepository) GetLatestByUser(ctx context.Context, userID string) (*models.ProfilePhoto, error) {
	query := `
		SELECT id, user_id, s3_url, created_at
		FROM profile_photos
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	var photo models.ProfilePhoto
	err := r.db.QueryRow(ctx, query, userID).Scan(
		&photo.ID, &photo.UserID, &photo.S3URL, &photo.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("photo: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get photo: %w", err)
	}
	return &photo, nil
}
