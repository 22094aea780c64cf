package repository

import (
	"context"
	"fmt"

	"crewlink-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const userColumns = `id, email, password_hash, display_name, current_ship_id,
	cruise_line_id, department_id, role_id, photo_url, onboarding_complete,
	last_confirmed_date, active, created_at`

// UserRepository handles database operations for crew members
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanCrewMember(row pgx.Row) (*models.CrewMember, error) {
	var member models.CrewMember
	var lastConfirmed models.Date
	err := row.Scan(
		&member.ID, &member.Email, &member.PasswordHash, &member.DisplayName,
		&member.CurrentShipID, &member.CruiseLineID, &member.DepartmentID,
		&member.RoleID, &member.PhotoURL, &member.OnboardingComplete,
		&lastConfirmed, &member.Active, &member.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if !lastConfirmed.IsZero() {
		member.LastConfirmedDate = &lastConfirmed
	}
	return &member, nil
}

// Create creates a new crew member
func (r *UserRepository) Create(ctx context.Context, member *models.CrewMember) error {
	query := `
		INSERT INTO crew_members (` + userColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	_, err := r.db.Exec(ctx, query,
		member.ID, member.Email, member.PasswordHash, member.DisplayName,
		member.CurrentShipID, member.CruiseLineID, member.DepartmentID,
		member.RoleID, member.PhotoURL, member.OnboardingComplete,
		member.LastConfirmedDate, member.Active, member.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create crew member: %w", err)
	}
	return nil
}

// GetByID retrieves a crew member by ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.CrewMember, error) {
	query := `SELECT ` + userColumns + ` FROM crew_members WHERE id = $1`
	member, err := scanCrewMember(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("crew member: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get crew member: %w", err)
	}
	return member, nil
}

// GetByEmail retrieves a crew member by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.CrewMember, error) {
	query := `SELECT ` + userColumns + ` FROM crew_members WHERE email = $1`
	member, err := scanCrewMember(r.db.QueryRow(ctx, query, email))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("crew member: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get crew member by email: %w", err)
	}
	return member, nil
}

// EmailExists checks if an email is already registered
func (r *UserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM crew_members WHERE email = $1)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return exists, nil
}

// GetByIDs retrieves active crew members by a set of IDs
func (r *UserRepository) GetByIDs(ctx context.Context, ids []string) ([]*models.CrewMember, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT ` + userColumns + ` FROM crew_members WHERE id = ANY($1) AND active`
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get crew members: %w", err)
	}
	defer rows.Close()
	return collectCrewMembers(rows)
}

// ListByShip retrieves active crew members currently on a ship
func (r *UserRepository) ListByShip(ctx context.Context, shipID string) ([]*models.CrewMember, error) {
	query := `SELECT ` + userColumns + ` FROM crew_members WHERE current_ship_id = $1 AND active`
	rows, err := r.db.Query(ctx, query, shipID)
	if err != nil {
		return nil, fmt.Errorf("failed to list crew by ship: %w", err)
	}
	defer rows.Close()
	return collectCrewMembers(rows)
}

func collectCrewMembers(rows pgx.Rows) ([]*models.CrewMember, error) {
	var members []*models.CrewMember
	for rows.Next() {
		member, err := scanCrewMember(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan crew member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating crew members: %w", err)
	}
	return members, nil
}

// UpdateProfile updates a crew member's profile fields
func (r *UserRepository) UpdateProfile(ctx context.Context, member *models.CrewMember) error {
	query := `
		UPDATE crew_members
		SET display_name = $1, cruise_line_id = $2, department_id = $3,
		    role_id = $4, photo_url = $5, onboarding_complete = $6
		WHERE id = $7
	`
	result, err := r.db.Exec(ctx, query,
		member.DisplayName, member.CruiseLineID, member.DepartmentID,
		member.RoleID, member.PhotoURL, member.OnboardingComplete, member.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("crew member: %w", ErrNotFound)
	}
	return nil
}

// ConfirmShip sets the current ship and last-confirmed date in one statement,
// so the ship change and the confirmation always land together.
func (r *UserRepository) ConfirmShip(ctx context.Context, userID, shipID string, date models.Date) error {
	query := `
		UPDATE crew_members
		SET current_ship_id = $1, last_confirmed_date = $2
		WHERE id = $3
	`
	result, err := r.db.Exec(ctx, query, shipID, date, userID)
	if err != nil {
		return fmt.Errorf("failed to confirm ship: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("crew member: %w", ErrNotFound)
	}
	return nil
}

// Deactivate marks a crew member inactive
func (r *UserRepository) Deactivate(ctx context.Context, userID string) error {
	query := `UPDATE crew_members SET active = false WHERE id = $1`
	result, err := r.db.Exec(ctx, query, userID)
	if err != nil {
		return fmt.Errorf("failed to deactivate crew member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("crew member: %w", ErrNotFound)
	}
	return nil
}
