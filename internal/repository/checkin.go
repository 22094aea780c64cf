package repository

import (
	"context"
	"fmt"

	"crewlink-backend/internal/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CheckInRepository handles database operations for daily ship check-ins
type CheckInRepository struct {
	db *pgxpool.Pool
}

// NewCheckInRepository creates a new check-in repository
func NewCheckInRepository(db *pgxpool.Pool) *CheckInRepository {
	return &CheckInRepository{db: db}
}

// Upsert records a check-in for a user and date. Re-confirming the same day
// overwrites the ship (last writer wins).
func (r *CheckInRepository) Upsert(ctx context.Context, checkIn *models.ShipCheckIn) error {
	query := `
		INSERT INTO ship_check_ins (id, user_id, ship_id, date, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, date) DO UPDATE SET ship_id = EXCLUDED.ship_id
	`
	_, err := r.db.Exec(ctx, query,
		checkIn.ID, checkIn.UserID, checkIn.ShipID, checkIn.Date, checkIn.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert check-in: %w", err)
	}
	return nil
}
