package repository

import (
	"context"
	"fmt"

	"crewlink-backend/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AssignmentRepository handles database operations for cruise assignments
type AssignmentRepository struct {
	db *pgxpool.Pool
}

// NewAssignmentRepository creates a new assignment repository
func NewAssignmentRepository(db *pgxpool.Pool) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create creates a new cruise assignment
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.CruiseAssignment) error {
	query := `
		INSERT INTO cruise_assignments (id, user_id, cruise_line_id, ship_id, start_date, end_date, status, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.Exec(ctx, query,
		assignment.ID, assignment.UserID, assignment.CruiseLineID, assignment.ShipID,
		assignment.StartDate, assignment.EndDate, assignment.Status,
		assignment.Description, assignment.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create assignment: %w", err)
	}
	return nil
}

// GetByID retrieves an assignment by ID
func (r *AssignmentRepository) GetByID(ctx context.Context, id string) (*models.CruiseAssignment, error) {
	query := `
		SELECT id, user_id, cruise_line_id, ship_id, start_date, end_date, status, description, created_at
		FROM cruise_assignments
		WHERE id = $1
	`
	var a models.CruiseAssignment
	err := r.db.QueryRow(ctx, query, id).Scan(
		&a.ID, &a.UserID, &a.CruiseLineID, &a.ShipID,
		&a.StartDate, &a.EndDate, &a.Status, &a.Description, &a.CreatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, fmt.Errorf("assignment: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get assignment: %w", err)
	}
	return &a, nil
}

// ListByUser retrieves all assignments for a crew member, newest first
func (r *AssignmentRepository) ListByUser(ctx context.Context, userID string) ([]*models.CruiseAssignment, error) {
	query := `
		SELECT id, user_id, cruise_line_id, ship_id, start_date, end_date, status, description, created_at
		FROM cruise_assignments
		WHERE user_id = $1
		ORDER BY start_date DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", err)
	}
	defer rows.Close()

	var assignments []*models.CruiseAssignment
	for rows.Next() {
		var a models.CruiseAssignment
		err := rows.Scan(
			&a.ID, &a.UserID, &a.CruiseLineID, &a.ShipID,
			&a.StartDate, &a.EndDate, &a.Status, &a.Description, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan assignment: %w", err)
		}
		assignments = append(assignments, &a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating assignments: %w", err)
	}
	return assignments, nil
}

// Update updates an assignment's mutable fields
func (r *AssignmentRepository) Update(ctx context.Context, assignment *models.CruiseAssignment) error {
	query := `
		UPDATE cruise_assignments
		SET cruise_line_id = $1, ship_id = $2, start_date = $3, end_date = $4, status = $5, description = $6
		WHERE id = $7
	`
	result, err := r.db.Exec(ctx, query,
		assignment.CruiseLineID, assignment.ShipID, assignment.StartDate,
		assignment.EndDate, assignment.Status, assignment.Description, assignment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update assignment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("assignment: %w", ErrNotFound)
	}
	return nil
}

// Delete removes an assignment
func (r *AssignmentRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM cruise_assignments WHERE id = $1`
	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("assignment: %w", ErrNotFound)
	}
	return nil
}
